package dto

import (
	"time"

	"github.com/campuskit/placement/internal/app/models"
)

// CreateApplicationRequest represents a student applying to a company.
// StudentID may be omitted when the caller is a student; their own record is
// used.
type CreateApplicationRequest struct {
	StudentID int64 `json:"studentId" binding:"omitempty,min=1"`
	CompanyID int64 `json:"companyId" binding:"required,min=1"`
}

// UpdateApplicationStatusRequest moves an application through the pipeline
type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required"`
}

// ApplicationFilterRequest represents application list filters
type ApplicationFilterRequest struct {
	StudentID int64  `form:"studentId" binding:"omitempty,min=1"`
	CompanyID int64  `form:"companyId" binding:"omitempty,min=1"`
	Status    string `form:"status"`
}

// ApplicationResponse represents an application with its student and company
type ApplicationResponse struct {
	ID            int64      `json:"id"`
	StudentID     int64      `json:"studentId"`
	StudentRollNo string     `json:"studentRollNo,omitempty"`
	StudentName   string     `json:"studentName,omitempty"`
	CompanyID     int64      `json:"companyId"`
	CompanyName   string     `json:"companyName,omitempty"`
	Status        string     `json:"status"`
	AppliedAt     time.Time  `json:"appliedAt"`
	ExportedAt    *time.Time `json:"exportedAt,omitempty"`
}

// ApplicationListResponse represents a paginated list of applications
type ApplicationListResponse struct {
	Applications []ApplicationResponse `json:"applications"`
	Pagination   PaginationInfo        `json:"pagination"`
}

// FromApplication converts a models.Application to an ApplicationResponse
func FromApplication(app *models.Application) ApplicationResponse {
	if app == nil {
		return ApplicationResponse{}
	}
	resp := ApplicationResponse{
		ID:         app.ID,
		StudentID:  app.StudentID,
		CompanyID:  app.CompanyID,
		Status:     string(app.Status),
		AppliedAt:  app.AppliedAt,
		ExportedAt: app.ExportedAt,
	}
	if app.Student != nil {
		resp.StudentRollNo = app.Student.RollNo
		resp.StudentName = app.Student.Name
	}
	if app.Company != nil {
		resp.CompanyName = app.Company.Name
	}
	return resp
}
