package models

import (
	"strings"
	"time"
)

// TemplateColumn is one column of a company's export template: the header
// text written to the sheet and the source key it resolves from.
type TemplateColumn struct {
	Header string `json:"header" example:"Roll No"`
	Source string `json:"source" example:"student.roll_no"`
}

// Company defines the company model based on the 'companies' table
type Company struct {
	ID               int64            `json:"id" db:"id"`
	Name             string           `json:"name" db:"name" example:"Acme Corp"`
	EligibleBranches string           `json:"eligibleBranches" db:"eligible_branches" example:"CSE,ECE"` // "ALL" or CSV of branch codes
	MinCGPA          float64          `json:"minCgpa" db:"min_cgpa" example:"7.0"`
	MaxBacklogs      int              `json:"maxBacklogs" db:"max_backlogs" example:"0"`
	SelectionPolicy  SelectionPolicy  `json:"selectionPolicy" db:"selection_policy"`
	ExportTemplate   []TemplateColumn `json:"exportTemplate" db:"export_template"` // Stored as JSON
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
}

// BranchList returns the normalized eligible branch codes. An empty or "ALL"
// value means every branch qualifies.
func (c *Company) BranchList() []string {
	text := strings.TrimSpace(c.EligibleBranches)
	if text == "" || strings.EqualFold(text, "ALL") {
		return []string{"ALL"}
	}
	var branches []string
	for _, item := range strings.Split(text, ",") {
		item = strings.ToUpper(strings.TrimSpace(item))
		if item != "" {
			branches = append(branches, item)
		}
	}
	return branches
}

// AcceptsBranch reports whether the branch qualifies for this company.
func (c *Company) AcceptsBranch(branch string) bool {
	branch = strings.ToUpper(strings.TrimSpace(branch))
	for _, b := range c.BranchList() {
		if b == "ALL" || b == branch {
			return true
		}
	}
	return false
}

// Application links a student to a company, based on the 'applications'
// table. One application per (student, company).
type Application struct {
	ID         int64             `json:"id" db:"id"`
	StudentID  int64             `json:"studentId" db:"student_id"`
	CompanyID  int64             `json:"companyId" db:"company_id"`
	Status     ApplicationStatus `json:"status" db:"status"`
	AppliedAt  time.Time         `json:"appliedAt" db:"applied_at"`
	ExportedAt *time.Time        `json:"exportedAt,omitempty" db:"exported_at"` // Set when the application last appeared in an export

	// Relations (populated when needed)
	Student *Student `json:"student,omitempty"`
	Company *Company `json:"company,omitempty"`
}
