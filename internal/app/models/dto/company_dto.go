package dto

import (
	"time"

	"github.com/campuskit/placement/internal/app/models"
)

// TemplateColumnRequest represents one column of an export template
type TemplateColumnRequest struct {
	Header string `json:"header" binding:"required"`
	Source string `json:"source" binding:"required"`
}

// CreateCompanyRequest represents a new placement drive
type CreateCompanyRequest struct {
	Name             string                  `json:"name" binding:"required"`
	EligibleBranches []string                `json:"eligibleBranches"`
	MinCGPA          float64                 `json:"minCgpa" binding:"min=0,max=10"`
	MaxBacklogs      int                     `json:"maxBacklogs" binding:"min=0"`
	SelectionPolicy  models.SelectionPolicy  `json:"selectionPolicy" binding:"required"`
	ExportTemplate   []TemplateColumnRequest `json:"exportTemplate"`
}

// UpdateCompanyRequest represents editable company fields
type UpdateCompanyRequest struct {
	Name             string                  `json:"name" binding:"required"`
	EligibleBranches []string                `json:"eligibleBranches"`
	MinCGPA          float64                 `json:"minCgpa" binding:"min=0,max=10"`
	MaxBacklogs      int                     `json:"maxBacklogs" binding:"min=0"`
	SelectionPolicy  models.SelectionPolicy  `json:"selectionPolicy" binding:"required"`
	ExportTemplate   []TemplateColumnRequest `json:"exportTemplate"`
}

// TemplateColumnResponse mirrors a stored template column
type TemplateColumnResponse struct {
	Header string `json:"header"`
	Source string `json:"source"`
}

// CompanyResponse represents a placement drive
type CompanyResponse struct {
	ID               int64                    `json:"id"`
	Name             string                   `json:"name"`
	EligibleBranches []string                 `json:"eligibleBranches"`
	MinCGPA          float64                  `json:"minCgpa"`
	MaxBacklogs      int                      `json:"maxBacklogs"`
	SelectionPolicy  string                   `json:"selectionPolicy"`
	ExportTemplate   []TemplateColumnResponse `json:"exportTemplate"`
	ApplicationCount int64                    `json:"applicationCount"`
	CreatedAt        time.Time                `json:"createdAt"`
}

// CompanyListResponse represents a paginated list of companies
type CompanyListResponse struct {
	Companies  []CompanyResponse `json:"companies"`
	Pagination PaginationInfo    `json:"pagination"`
}

// FromCompany converts a models.Company to a CompanyResponse
func FromCompany(company *models.Company) CompanyResponse {
	if company == nil {
		return CompanyResponse{}
	}
	columns := make([]TemplateColumnResponse, 0, len(company.ExportTemplate))
	for _, col := range company.ExportTemplate {
		columns = append(columns, TemplateColumnResponse{Header: col.Header, Source: col.Source})
	}
	return CompanyResponse{
		ID:               company.ID,
		Name:             company.Name,
		EligibleBranches: company.BranchList(),
		MinCGPA:          company.MinCGPA,
		MaxBacklogs:      company.MaxBacklogs,
		SelectionPolicy:  string(company.SelectionPolicy),
		ExportTemplate:   columns,
		CreatedAt:        company.CreatedAt,
	}
}
