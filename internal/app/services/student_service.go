package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/app/models/dto"
	"github.com/campuskit/placement/internal/app/repositories"
	"github.com/campuskit/placement/internal/pkg/apperrors"
	"github.com/campuskit/placement/internal/pkg/gpa"
	"github.com/campuskit/placement/internal/pkg/validation"
)

type studentStore interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetAll(ctx context.Context, filter repositories.StudentFilter, offset uint64, limit int) ([]*models.Student, int64, error)
	Update(ctx context.Context, student *models.Student) error
	UpdateResumeLink(ctx context.Context, id int64, resumeLink string) error
	UpdateEligibility(ctx context.Context, id int64, status models.EligibilityStatus, reason *string, companyID *int64) error
	Delete(ctx context.Context, id int64) error
}

type semesterRecordStore interface {
	GetByStudentID(ctx context.Context, studentID int64) ([]*models.SemesterRecord, error)
	GetByStudentAndSemester(ctx context.Context, studentID int64, semesterNo int) (*models.SemesterRecord, error)
	UpdateBacklogCount(ctx context.Context, studentID int64, semesterNo, backlogCount int) error
}

type backlogHistoryStore interface {
	Append(ctx context.Context, entry *models.BacklogHistory) error
	ListByStudent(ctx context.Context, studentID int64) ([]*models.BacklogHistory, error)
}

type studentRecalculator interface {
	Recalculate(ctx context.Context, studentID int64) (gpa.Result, error)
}

// StudentService handles student records, resume links, eligibility overrides
// and manual backlog corrections.
type StudentService struct {
	studentRepo studentStore
	recordRepo  semesterRecordStore
	historyRepo backlogHistoryStore
	metrics     studentRecalculator
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo studentStore,
	recordRepo semesterRecordStore,
	historyRepo backlogHistoryStore,
	metrics studentRecalculator,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		recordRepo:  recordRepo,
		historyRepo: historyRepo,
		metrics:     metrics,
		logger:      logger,
	}
}

// CreateStudent registers a new student record
func (s *StudentService) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	student := &models.Student{
		RollNo:            strings.ToUpper(strings.TrimSpace(req.RollNo)),
		Name:              strings.TrimSpace(req.Name),
		Branch:            strings.ToUpper(strings.TrimSpace(req.Branch)),
		IsLateralEntry:    req.IsLateralEntry,
		CurrentSemester:   req.CurrentSemester,
		ResumeLink:        req.ResumeLink,
		EligibilityStatus: models.EligibilityEligible,
	}
	if !validation.ValidRollNo(student.RollNo) {
		return nil, apperrors.NewBadRequestError("malformed roll number")
	}
	if !validation.ValidBranch(student.Branch) {
		return nil, apperrors.NewBadRequestError("malformed branch code")
	}
	if !validation.ValidName(student.Name) {
		return nil, apperrors.NewBadRequestError("student name must be 2-100 characters")
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	return student, nil
}

// GetStudent retrieves a student with their semester records
func (s *StudentService) GetStudent(ctx context.Context, id int64) (*models.Student, []*models.SemesterRecord, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	records, err := s.recordRepo.GetByStudentID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return student, records, nil
}

// ListStudents retrieves students matching the filter
func (s *StudentService) ListStudents(ctx context.Context, filter repositories.StudentFilter, offset uint64, limit int) ([]*models.Student, int64, error) {
	return s.studentRepo.GetAll(ctx, filter, offset, limit)
}

// UpdateStudent updates a student's profile fields. A change to the
// lateral-entry flag re-runs the metrics computation, since it changes which
// semesters count.
func (s *StudentService) UpdateStudent(ctx context.Context, id int64, req *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	lateralChanged := false
	student.Name = strings.TrimSpace(req.Name)
	student.Branch = strings.ToUpper(strings.TrimSpace(req.Branch))
	if req.IsLateralEntry != nil && *req.IsLateralEntry != student.IsLateralEntry {
		student.IsLateralEntry = *req.IsLateralEntry
		lateralChanged = true
	}
	if req.CurrentSemester > 0 {
		student.CurrentSemester = req.CurrentSemester
	}
	if req.ResumeLink != nil {
		student.ResumeLink = req.ResumeLink
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	if lateralChanged {
		if _, err := s.metrics.Recalculate(ctx, id); err != nil {
			return nil, err
		}
		return s.studentRepo.GetByID(ctx, id)
	}

	return student, nil
}

// UpdateResumeLink sets a student's resume link
func (s *StudentService) UpdateResumeLink(ctx context.Context, id int64, resumeLink string) error {
	resumeLink = strings.TrimSpace(resumeLink)
	if resumeLink == "" {
		return apperrors.NewBadRequestError("resume link cannot be empty")
	}
	return s.studentRepo.UpdateResumeLink(ctx, id, resumeLink)
}

// UpdateEligibility sets a student's placement standing. Statuses other than
// BLOCKED_BY_POLICY clear any blocking company link.
func (s *StudentService) UpdateEligibility(ctx context.Context, id int64, req *dto.UpdateEligibilityRequest) error {
	if !req.Status.IsValid() {
		return apperrors.ErrInvalidEligibility
	}

	if _, err := s.studentRepo.GetByID(ctx, id); err != nil {
		return err
	}

	reason := req.Reason
	if req.Status == models.EligibilityEligible {
		reason = nil
	}

	// Manual overrides never carry a blocking company link.
	return s.studentRepo.UpdateEligibility(ctx, id, req.Status, reason, nil)
}

// UpdateBacklog applies a manual backlog correction for one semester, records
// the change in the audit trail and recomputes the student's totals. An edit
// that does not change the count is a no-op.
func (s *StudentService) UpdateBacklog(ctx context.Context, id int64, req *dto.UpdateBacklogRequest, actor string) (gpa.Result, error) {
	if _, err := s.studentRepo.GetByID(ctx, id); err != nil {
		return gpa.Result{}, err
	}

	record, err := s.recordRepo.GetByStudentAndSemester(ctx, id, req.SemesterNo)
	if err != nil {
		return gpa.Result{}, err
	}

	oldCount := record.BacklogCount
	if oldCount == req.BacklogCount {
		return s.metrics.Recalculate(ctx, id)
	}

	if err := s.recordRepo.UpdateBacklogCount(ctx, id, req.SemesterNo, req.BacklogCount); err != nil {
		return gpa.Result{}, err
	}

	entry := &models.BacklogHistory{
		StudentID:  id,
		SemesterNo: req.SemesterNo,
		OldBacklog: oldCount,
		NewBacklog: req.BacklogCount,
		Note:       req.Note,
		Actor:      actor,
	}
	if err := s.historyRepo.Append(ctx, entry); err != nil {
		return gpa.Result{}, err
	}

	s.logger.Info().
		Int64("studentID", id).
		Int("semesterNo", req.SemesterNo).
		Int("oldBacklog", oldCount).
		Int("newBacklog", req.BacklogCount).
		Str("actor", actor).
		Msg("Backlog corrected")

	return s.metrics.Recalculate(ctx, id)
}

// GetBacklogHistory retrieves a student's backlog audit trail, newest first
func (s *StudentService) GetBacklogHistory(ctx context.Context, id int64) ([]*models.BacklogHistory, error) {
	if _, err := s.studentRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByStudent(ctx, id)
}

// DeleteStudent removes a student record
func (s *StudentService) DeleteStudent(ctx context.Context, id int64) error {
	return s.studentRepo.Delete(ctx, id)
}
