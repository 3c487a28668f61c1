// Package export implements the template-driven spreadsheet export: a closed
// vocabulary of source keys resolved against (student, application, company)
// tuples, and the xlsx writer that turns resolved rows into workbooks.
package export

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/campuskit/placement/internal/app/models"
)

const appliedAtLayout = "2006-01-02 15:04:05"

// Record is one exportable tuple. Student and Company are always present;
// Application is as well for the exports this service produces, but resolvers
// tolerate its absence.
type Record struct {
	Student     *models.Student
	Application *models.Application
	Company     *models.Company
}

// InvalidTemplateError marks a template referencing an unknown source key.
// Exports fail for the owning company only; other companies are unaffected.
type InvalidTemplateError struct {
	Source string
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("invalid template: unknown source key %q (known keys: %s)",
		e.Source, strings.Join(SourceKeys(), ", "))
}

type resolverFunc func(rec Record) string

// resolvers is the closed source-key vocabulary. Adding a key here is the
// only way to extend what templates may reference.
var resolvers = map[string]resolverFunc{
	"student.roll_no": func(rec Record) string { return rec.Student.RollNo },
	"student.name":    func(rec Record) string { return rec.Student.Name },
	"student.branch":  func(rec Record) string { return rec.Student.Branch },
	"student.cgpa": func(rec Record) string {
		return strconv.FormatFloat(rec.Student.CGPA, 'f', 2, 64)
	},
	"student.backlogs": func(rec Record) string {
		return strconv.Itoa(rec.Student.TotalBacklogs)
	},
	"student.lateral_entry": func(rec Record) string {
		if rec.Student.IsLateralEntry {
			return "YES"
		}
		return "NO"
	},
	"student.resume_link": resolveResumeLink,
	"student.eligibility_status": func(rec Record) string {
		return string(rec.Student.EligibilityStatus)
	},
	"application.status": func(rec Record) string {
		if rec.Application == nil {
			return ""
		}
		return string(rec.Application.Status)
	},
	"application.applied_at": func(rec Record) string {
		if rec.Application == nil {
			return ""
		}
		return rec.Application.AppliedAt.UTC().Format(appliedAtLayout)
	},
	"company.name": func(rec Record) string {
		if rec.Company == nil {
			return ""
		}
		return rec.Company.Name
	},
	"resume.link":     resolveResumeLink,
	"resume.path":     resolveResumeLink,
	"resume.filename": resolveResumeLink,
}

func resolveResumeLink(rec Record) string {
	if rec.Student.ResumeLink == nil {
		return ""
	}
	return *rec.Student.ResumeLink
}

// DefaultTemplate is used when a company has no stored template.
var DefaultTemplate = []models.TemplateColumn{
	{Header: "Roll No", Source: "student.roll_no"},
	{Header: "Name", Source: "student.name"},
	{Header: "Branch", Source: "student.branch"},
	{Header: "CGPA", Source: "student.cgpa"},
	{Header: "Backlogs", Source: "student.backlogs"},
	{Header: "Applied At", Source: "application.applied_at"},
}

// SourceKeys returns the full vocabulary, sorted, for error messages and the
// template editor.
func SourceKeys() []string {
	keys := make([]string, 0, len(resolvers))
	for k := range resolvers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ValidateTemplate checks every column against the source-key vocabulary.
// Called at company save time so broken templates never reach an export.
func ValidateTemplate(columns []models.TemplateColumn) error {
	for _, col := range columns {
		if strings.TrimSpace(col.Header) == "" {
			return fmt.Errorf("invalid template: column with source %q has an empty header", col.Source)
		}
		if _, ok := resolvers[col.Source]; !ok {
			return &InvalidTemplateError{Source: col.Source}
		}
	}
	return nil
}

// ResolveRow resolves one record against the template, preserving column
// order. An unknown source key fails the whole row.
func ResolveRow(columns []models.TemplateColumn, rec Record) ([]string, error) {
	row := make([]string, len(columns))
	for i, col := range columns {
		resolve, ok := resolvers[col.Source]
		if !ok {
			return nil, &InvalidTemplateError{Source: col.Source}
		}
		row[i] = resolve(rec)
	}
	return row, nil
}

// BuildTable resolves all records into a header row plus data rows. Records
// are ordered by roll number ascending so repeated exports are reproducible.
func BuildTable(columns []models.TemplateColumn, records []Record) (headers []string, rows [][]string, err error) {
	if len(columns) == 0 {
		columns = DefaultTemplate
	}
	if err := ValidateTemplate(columns); err != nil {
		return nil, nil, err
	}

	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Student.RollNo < sorted[j].Student.RollNo
	})

	headers = make([]string, len(columns))
	for i, col := range columns {
		headers[i] = col.Header
	}

	rows = make([][]string, 0, len(sorted))
	for _, rec := range sorted {
		row, err := ResolveRow(columns, rec)
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}
