package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/app/repositories"
	"github.com/campuskit/placement/internal/pkg/apperrors"
)

type applicationStore interface {
	Create(ctx context.Context, app *models.Application) error
	GetByID(ctx context.Context, id int64) (*models.Application, error)
	Exists(ctx context.Context, studentID, companyID int64) (bool, error)
	GetAll(ctx context.Context, filter repositories.ApplicationFilter, offset uint64, limit int) ([]*models.Application, int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error
	ApplyBlockingSelection(ctx context.Context, appID, studentID, companyID int64, reason string) (int64, error)
	ClearBlockingSelection(ctx context.Context, appID, studentID int64, status models.ApplicationStatus) (bool, error)
}

type applicationStudentReader interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
}

type applicationCompanyReader interface {
	GetByID(ctx context.Context, id int64) (*models.Company, error)
}

type applicationUserReader interface {
	GetByStudentID(ctx context.Context, studentID int64) (*models.User, error)
}

type statusNotifier interface {
	SendApplicationStatusEmail(ctx context.Context, userID int64, toEmail, studentName, companyName string, status models.ApplicationStatus) error
}

// ApplicationService handles the application pipeline: eligibility-checked
// applies, status transitions, and the blocking-selection policy that closes
// a student's other open applications.
type ApplicationService struct {
	appRepo     applicationStore
	studentRepo applicationStudentReader
	companyRepo applicationCompanyReader
	userRepo    applicationUserReader
	notifier    statusNotifier
	logger      zerolog.Logger
}

// NewApplicationService creates a new ApplicationService
func NewApplicationService(
	appRepo applicationStore,
	studentRepo applicationStudentReader,
	companyRepo applicationCompanyReader,
	userRepo applicationUserReader,
	notifier statusNotifier,
	logger zerolog.Logger,
) *ApplicationService {
	return &ApplicationService{
		appRepo:     appRepo,
		studentRepo: studentRepo,
		companyRepo: companyRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

// CheckEligibility applies the company's cutoffs to the student. It returns
// nil when the student may apply and a NotEligible error naming the first
// failed check otherwise.
func (s *ApplicationService) CheckEligibility(student *models.Student, company *models.Company) error {
	if student.EligibilityStatus != models.EligibilityEligible {
		reason := fmt.Sprintf("student standing is %s", student.EligibilityStatus)
		if student.BlockReason != nil && *student.BlockReason != "" {
			reason = fmt.Sprintf("%s: %s", reason, *student.BlockReason)
		}
		return apperrors.NewNotEligibleError(reason)
	}
	if !company.AcceptsBranch(student.Branch) {
		return apperrors.NewNotEligibleError(
			fmt.Sprintf("branch %s is not eligible for %s", student.Branch, company.Name))
	}
	if student.CGPA < company.MinCGPA {
		return apperrors.NewNotEligibleError(
			fmt.Sprintf("CGPA %.2f is below the cutoff %.2f", student.CGPA, company.MinCGPA))
	}
	if student.TotalBacklogs > company.MaxBacklogs {
		return apperrors.NewNotEligibleError(
			fmt.Sprintf("%d backlogs exceed the allowed %d", student.TotalBacklogs, company.MaxBacklogs))
	}
	return nil
}

// Apply creates an application after the eligibility checks pass
func (s *ApplicationService) Apply(ctx context.Context, studentID, companyID int64) (*models.Application, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	exists, err := s.appRepo.Exists(ctx, studentID, companyID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrAlreadyApplied
	}

	if err := s.CheckEligibility(student, company); err != nil {
		return nil, err
	}
	if student.ResumeLink == nil || *student.ResumeLink == "" {
		return nil, apperrors.ErrResumeLinkRequired
	}

	app := &models.Application{
		StudentID: studentID,
		CompanyID: companyID,
		Status:    models.ApplicationApplied,
	}
	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}
	app.Student = student
	app.Company = company

	s.logger.Info().
		Int64("studentID", studentID).
		Int64("companyID", companyID).
		Msg("Application created")

	return app, nil
}

// GetApplication retrieves an application with its student and company
func (s *ApplicationService) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	return s.appRepo.GetByID(ctx, id)
}

// ListApplications retrieves applications matching the filter
func (s *ApplicationService) ListApplications(ctx context.Context, filter repositories.ApplicationFilter, offset uint64, limit int) ([]*models.Application, int64, error) {
	return s.appRepo.GetAll(ctx, filter, offset, limit)
}

// UpdateStatus moves an application to a new stage. Selecting a student for a
// company with a BLOCKING policy also closes their other open applications
// and blocks further applies, all in one transaction. Moving an application
// away from SELECTED lifts that block again once no blocking selection
// remains; REJECTED and CLOSED_BY_POLICY are final.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error) {
	if !status.IsValid() || status == models.ApplicationClosedByPolicy {
		return nil, apperrors.ErrInvalidStatus
	}

	app, err := s.appRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status == status {
		return app, nil
	}
	if !app.Status.IsOpen() && app.Status != models.ApplicationSelected {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidStatus,
			fmt.Sprintf("application is already %s", app.Status))
	}

	switch {
	case status == models.ApplicationSelected && app.Company.SelectionPolicy == models.PolicyBlocking:
		reason := fmt.Sprintf("Selected by %s (blocking policy)", app.Company.Name)
		closed, err := s.appRepo.ApplyBlockingSelection(ctx, id, app.StudentID, app.CompanyID, reason)
		if err != nil {
			return nil, err
		}
		s.logger.Info().
			Int64("applicationID", id).
			Int64("closedApplications", closed).
			Msg("Blocking selection processed")
	case app.Status == models.ApplicationSelected:
		restored, err := s.appRepo.ClearBlockingSelection(ctx, id, app.StudentID, status)
		if err != nil {
			return nil, err
		}
		s.logger.Info().
			Int64("applicationID", id).
			Str("status", string(status)).
			Bool("eligibilityRestored", restored).
			Msg("Selection cleared")
	default:
		if err := s.appRepo.UpdateStatus(ctx, id, status); err != nil {
			return nil, err
		}
	}

	app.Status = status
	s.notifyStatusChange(ctx, app)

	return app, nil
}

func (s *ApplicationService) notifyStatusChange(ctx context.Context, app *models.Application) {
	if s.notifier == nil || app.Student == nil || app.Company == nil {
		return
	}
	user, err := s.userRepo.GetByStudentID(ctx, app.StudentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Warn().Err(err).Int64("studentID", app.StudentID).Msg("Could not look up student account for notification")
		}
		return
	}

	// Delivery problems are already logged and recorded by the mailer.
	_ = s.notifier.SendApplicationStatusEmail(ctx, user.ID, user.Email,
		app.Student.Name, app.Company.Name, app.Status)
}
