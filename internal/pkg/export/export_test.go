package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/campuskit/placement/internal/app/models"
)

func sampleRecord(rollNo string, cgpa float64) Record {
	resume := "https://drive.example.com/" + rollNo
	appliedAt := time.Date(2025, 7, 14, 9, 30, 0, 0, time.UTC)
	student := &models.Student{
		RollNo:            rollNo,
		Name:              "Student " + rollNo,
		Branch:            "CSE",
		CGPA:              cgpa,
		TotalBacklogs:     1,
		ResumeLink:        &resume,
		EligibilityStatus: models.EligibilityEligible,
	}
	company := &models.Company{Name: "Acme Corp"}
	application := &models.Application{
		Status:    models.ApplicationApplied,
		AppliedAt: appliedAt,
	}
	return Record{Student: student, Application: application, Company: company}
}

func TestValidateTemplateAcceptsKnownKeys(t *testing.T) {
	assert.NoError(t, ValidateTemplate(DefaultTemplate))
	assert.NoError(t, ValidateTemplate([]models.TemplateColumn{
		{Header: "Resume", Source: "resume.link"},
		{Header: "Status", Source: "student.eligibility_status"},
	}))
}

func TestValidateTemplateRejectsUnknownKey(t *testing.T) {
	err := ValidateTemplate([]models.TemplateColumn{
		{Header: "Phone", Source: "student.phone"},
	})
	require.Error(t, err)

	var invalid *InvalidTemplateError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "student.phone", invalid.Source)
}

func TestValidateTemplateRejectsEmptyHeader(t *testing.T) {
	err := ValidateTemplate([]models.TemplateColumn{
		{Header: "  ", Source: "student.name"},
	})
	assert.Error(t, err)
}

func TestResolveRowPreservesTemplateOrder(t *testing.T) {
	rec := sampleRecord("20CS101", 8.125)
	columns := []models.TemplateColumn{
		{Header: "CGPA", Source: "student.cgpa"},
		{Header: "Roll", Source: "student.roll_no"},
		{Header: "Lateral", Source: "student.lateral_entry"},
		{Header: "Applied", Source: "application.applied_at"},
	}

	row, err := ResolveRow(columns, rec)
	require.NoError(t, err)

	assert.Equal(t, []string{"8.12", "20CS101", "NO", "2025-07-14 09:30:00"}, row)
}

func TestResolveRowMissingResumeLink(t *testing.T) {
	rec := sampleRecord("20CS101", 8.0)
	rec.Student.ResumeLink = nil

	row, err := ResolveRow([]models.TemplateColumn{{Header: "Resume", Source: "resume.link"}}, rec)
	require.NoError(t, err)
	assert.Equal(t, []string{""}, row)
}

func TestBuildTableSortsByRollNo(t *testing.T) {
	records := []Record{
		sampleRecord("20CS300", 7.0),
		sampleRecord("20CS100", 9.0),
		sampleRecord("20CS200", 8.0),
	}

	headers, rows, err := BuildTable(nil, records)
	require.NoError(t, err)

	assert.Equal(t, []string{"Roll No", "Name", "Branch", "CGPA", "Backlogs", "Applied At"}, headers)
	require.Len(t, rows, 3)
	assert.Equal(t, "20CS100", rows[0][0])
	assert.Equal(t, "20CS200", rows[1][0])
	assert.Equal(t, "20CS300", rows[2][0])
}

func TestBuildTableFailsOnUnknownKey(t *testing.T) {
	_, _, err := BuildTable([]models.TemplateColumn{
		{Header: "Bogus", Source: "company.ceo"},
	}, []Record{sampleRecord("20CS100", 8.0)})

	var invalid *InvalidTemplateError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "company.ceo", invalid.Source)
}

func TestSanitizeSheetName(t *testing.T) {
	assert.Equal(t, "Acme Corp", SanitizeSheetName("Acme Corp"))
	assert.Equal(t, "A_B_C", SanitizeSheetName("A/B:C"))
	assert.Equal(t, "Sheet", SanitizeSheetName("   "))
	long := SanitizeSheetName("This Company Name Is Way Longer Than Excel Allows")
	assert.Len(t, long, 31)
}

func TestWriteWorkbookRoundTrip(t *testing.T) {
	sheets := []Sheet{
		{
			Name:    "Acme Corp",
			Headers: []string{"Roll No", "CGPA"},
			Rows:    [][]string{{"20CS100", "9.00"}, {"20CS200", "8.00"}},
		},
		{
			Name:    "Globex",
			Headers: []string{"Name"},
			Rows:    [][]string{{"Student 20CS100"}},
		},
	}

	data, err := WriteWorkbook(sheets)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Acme Corp", "Globex"}, f.GetSheetList())

	rows, err := f.GetRows("Acme Corp")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Roll No", "CGPA"}, rows[0])
	assert.Equal(t, []string{"20CS100", "9.00"}, rows[1])
}

func TestWriteWorkbookEmpty(t *testing.T) {
	_, err := WriteWorkbook(nil)
	assert.Error(t, err)
}
