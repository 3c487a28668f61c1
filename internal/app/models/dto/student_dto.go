package dto

import (
	"time"

	"github.com/campuskit/placement/internal/app/models"
)

// CreateStudentRequest represents a new student record
type CreateStudentRequest struct {
	RollNo          string  `json:"rollNo" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	Branch          string  `json:"branch" binding:"required"`
	IsLateralEntry  bool    `json:"isLateralEntry"`
	CurrentSemester int     `json:"currentSemester" binding:"omitempty,min=1,max=10"`
	ResumeLink      *string `json:"resumeLink" binding:"omitempty,url"`
}

// UpdateStudentRequest represents editable student fields
type UpdateStudentRequest struct {
	Name            string  `json:"name" binding:"required"`
	Branch          string  `json:"branch" binding:"required"`
	IsLateralEntry  *bool   `json:"isLateralEntry"`
	CurrentSemester int     `json:"currentSemester" binding:"omitempty,min=1,max=10"`
	ResumeLink      *string `json:"resumeLink" binding:"omitempty,url"`
}

// UpdateResumeLinkRequest represents a resume link update
type UpdateResumeLinkRequest struct {
	ResumeLink string `json:"resumeLink" binding:"required,url"`
}

// UpdateEligibilityRequest sets a student's placement standing
type UpdateEligibilityRequest struct {
	Status models.EligibilityStatus `json:"status" binding:"required"`
	Reason *string                  `json:"reason"`
}

// UpdateBacklogRequest records a manual backlog correction for one semester
type UpdateBacklogRequest struct {
	SemesterNo   int     `json:"semesterNo" binding:"required,min=1,max=10"`
	BacklogCount int     `json:"backlogCount" binding:"min=0"`
	Note         *string `json:"note"`
}

// StudentFilterRequest represents student list filters
type StudentFilterRequest struct {
	Branch            string  `form:"branch"`
	MinCGPA           float64 `form:"minCgpa"`
	MaxBacklogs       int     `form:"maxBacklogs" binding:"omitempty,min=0"`
	EligibilityStatus string  `form:"eligibilityStatus"`
	Search            string  `form:"search"`
}

// StudentResponse represents a student record
type StudentResponse struct {
	ID                int64      `json:"id"`
	RollNo            string     `json:"rollNo"`
	Name              string     `json:"name"`
	Branch            string     `json:"branch"`
	IsLateralEntry    bool       `json:"isLateralEntry"`
	CurrentSemester   int        `json:"currentSemester"`
	CGPA              float64    `json:"cgpa"`
	TotalBacklogs     int        `json:"totalBacklogs"`
	ResumeLink        *string    `json:"resumeLink,omitempty"`
	EligibilityStatus string     `json:"eligibilityStatus"`
	BlockReason       *string    `json:"blockReason,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	Semesters         []SemesterRecordResponse `json:"semesters,omitempty"`
}

// SemesterRecordResponse represents one imported semester result
type SemesterRecordResponse struct {
	SemesterNo   int       `json:"semesterNo"`
	SGPA         float64   `json:"sgpa"`
	Credits      float64   `json:"credits"`
	BacklogCount int       `json:"backlogCount"`
	ImportedAt   time.Time `json:"importedAt"`
	SourceFile   *string   `json:"sourceFile,omitempty"`
}

// StudentListResponse represents a paginated list of students
type StudentListResponse struct {
	Students   []StudentResponse `json:"students"`
	Pagination PaginationInfo    `json:"pagination"`
}

// BacklogHistoryResponse represents one backlog audit entry
type BacklogHistoryResponse struct {
	SemesterNo int       `json:"semesterNo"`
	OldBacklog int       `json:"oldBacklog"`
	NewBacklog int       `json:"newBacklog"`
	Note       *string   `json:"note,omitempty"`
	Actor      string    `json:"actor"`
	CreatedAt  time.Time `json:"createdAt"`
}

// FromStudent converts a models.Student to a StudentResponse
func FromStudent(student *models.Student) StudentResponse {
	if student == nil {
		return StudentResponse{}
	}
	return StudentResponse{
		ID:                student.ID,
		RollNo:            student.RollNo,
		Name:              student.Name,
		Branch:            student.Branch,
		IsLateralEntry:    student.IsLateralEntry,
		CurrentSemester:   student.CurrentSemester,
		CGPA:              student.CGPA,
		TotalBacklogs:     student.TotalBacklogs,
		ResumeLink:        student.ResumeLink,
		EligibilityStatus: string(student.EligibilityStatus),
		BlockReason:       student.BlockReason,
		CreatedAt:         student.CreatedAt,
	}
}

// FromSemesterRecord converts a models.SemesterRecord to its response form
func FromSemesterRecord(record *models.SemesterRecord) SemesterRecordResponse {
	if record == nil {
		return SemesterRecordResponse{}
	}
	return SemesterRecordResponse{
		SemesterNo:   record.SemesterNo,
		SGPA:         record.SGPA,
		Credits:      record.Credits,
		BacklogCount: record.BacklogCount,
		ImportedAt:   record.ImportedAt,
		SourceFile:   record.SourceFile,
	}
}

// FromBacklogHistory converts a models.BacklogHistory to its response form
func FromBacklogHistory(entry *models.BacklogHistory) BacklogHistoryResponse {
	if entry == nil {
		return BacklogHistoryResponse{}
	}
	return BacklogHistoryResponse{
		SemesterNo: entry.SemesterNo,
		OldBacklog: entry.OldBacklog,
		NewBacklog: entry.NewBacklog,
		Note:       entry.Note,
		Actor:      entry.Actor,
		CreatedAt:  entry.CreatedAt,
	}
}
