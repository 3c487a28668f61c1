package models

import "time"

// Student defines the student model based on the 'students' table
type Student struct {
	ID                 int64             `json:"id" db:"id" example:"1"`                             // Unique identifier for the student record
	RollNo             string            `json:"rollNo" db:"roll_no" example:"20CS104"`              // Unique roll number, uppercased
	Name               string            `json:"name" db:"name" example:"Jane Doe"`                  // Full name
	Branch             string            `json:"branch" db:"branch" example:"CSE"`                   // Branch code, uppercased
	IsLateralEntry     bool              `json:"isLateralEntry" db:"is_lateral_entry"`               // Lateral-entry students join at semester 3
	CurrentSemester    int               `json:"currentSemester" db:"current_semester" example:"5"`  // Highest imported semester
	CGPA               float64           `json:"cgpa" db:"cgpa" example:"7.5"`                       // Derived, recomputed on import/backlog edit
	TotalBacklogs      int               `json:"totalBacklogs" db:"total_backlogs" example:"0"`      // Derived, recomputed on import/backlog edit
	ResumeLink         *string           `json:"resumeLink,omitempty" db:"resume_link"`              // Link to the student's resume (nullable)
	EligibilityStatus  EligibilityStatus `json:"eligibilityStatus" db:"eligibility_status"`          // Placement eligibility state
	BlockReason        *string           `json:"blockReason,omitempty" db:"block_reason"`            // Why the student is blocked (nullable)
	BlockedByCompanyID *int64            `json:"blockedByCompanyId,omitempty" db:"blocked_by_company_id"` // Blocking company, if any
	CreatedAt          time.Time         `json:"createdAt" db:"created_at"`
}

// SemesterRecord defines a single imported semester result based on the
// 'semester_records' table. One row per (student, semester); a re-import for
// the same pair replaces the row.
type SemesterRecord struct {
	ID           int64     `json:"id" db:"id"`
	StudentID    int64     `json:"studentId" db:"student_id"`
	SemesterNo   int       `json:"semesterNo" db:"semester_no" example:"3"`
	SGPA         float64   `json:"sgpa" db:"sgpa" example:"8.2"`
	Credits      float64   `json:"credits" db:"credits" example:"20"` // Credit weight of the semester
	BacklogCount int       `json:"backlogCount" db:"backlog_count"`
	ImportedAt   time.Time `json:"importedAt" db:"imported_at"`
	SourceFile   *string   `json:"sourceFile,omitempty" db:"source_file"` // Stored path of the PDF that produced this row
}

// BacklogHistory is an append-only audit entry for backlog changes, based on
// the 'backlog_history' table. Entries are never mutated or deleted.
type BacklogHistory struct {
	ID         int64     `json:"id" db:"id"`
	StudentID  int64     `json:"studentId" db:"student_id"`
	SemesterNo int       `json:"semesterNo" db:"semester_no"`
	OldBacklog int       `json:"oldBacklog" db:"old_backlog"`
	NewBacklog int       `json:"newBacklog" db:"new_backlog"`
	Note       *string   `json:"note,omitempty" db:"note"`
	Actor      string    `json:"actor" db:"actor"` // Email of the user whose action triggered the change
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
