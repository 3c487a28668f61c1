package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/app/models/dto"
	"github.com/campuskit/placement/internal/app/repositories"
	"github.com/campuskit/placement/internal/pkg/apperrors"
	"github.com/campuskit/placement/internal/pkg/auth"
)

// UserService handles admin-facing user management, the notification log and
// the dashboard counters.
type UserService struct {
	userRepo         *repositories.UserRepository
	studentRepo      *repositories.StudentRepository
	companyRepo      *repositories.CompanyRepository
	appRepo          *repositories.ApplicationRepository
	notificationRepo *repositories.NotificationRepository
	logger           zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo *repositories.UserRepository,
	studentRepo *repositories.StudentRepository,
	companyRepo *repositories.CompanyRepository,
	appRepo *repositories.ApplicationRepository,
	notificationRepo *repositories.NotificationRepository,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo:         userRepo,
		studentRepo:      studentRepo,
		companyRepo:      companyRepo,
		appRepo:          appRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// CreateUser creates a staff account. The account is verified immediately;
// only students go through the OTP flow.
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:      req.Email,
		Password:   hashed,
		RoleType:   models.RoleType(req.RoleType),
		IsVerified: true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("role", req.RoleType).Msg("Staff account created")
	return user, nil
}

// ListUsers retrieves user accounts with optional role filtering
func (s *UserService) ListUsers(ctx context.Context, role string, offset uint64, limit int) ([]*models.User, int64, error) {
	return s.userRepo.GetAll(ctx, role, offset, limit)
}

// DeleteUser removes a user account. The caller cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, id, callerID int64) error {
	if id == callerID {
		return apperrors.NewBadRequestError("cannot delete your own account")
	}
	return s.userRepo.Delete(ctx, id)
}

// ListNotifications retrieves the email delivery log, newest first
func (s *UserService) ListNotifications(ctx context.Context, offset uint64, limit int) ([]*models.NotificationLog, int64, error) {
	return s.notificationRepo.GetAll(ctx, offset, limit)
}

// GetDashboard aggregates placement season counters
func (s *UserService) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	totalStudents, err := s.studentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	eligibilityCounts, err := s.studentRepo.CountByEligibility(ctx)
	if err != nil {
		return nil, err
	}

	totalCompanies, err := s.companyRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalApplications, err := s.appRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	statusCounts, err := s.appRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	placed, err := s.appRepo.CountDistinctPlacedStudents(ctx)
	if err != nil {
		return nil, err
	}

	byStatus := make(map[string]int64, len(statusCounts))
	for status, count := range statusCounts {
		byStatus[string(status)] = count
	}

	return &dto.DashboardResponse{
		TotalStudents:        totalStudents,
		EligibleStudents:     eligibilityCounts[models.EligibilityEligible],
		BlockedStudents:      eligibilityCounts[models.EligibilityBlockedByPolicy],
		TotalCompanies:       totalCompanies,
		TotalApplications:    totalApplications,
		PlacedStudents:       placed,
		ApplicationsByStatus: byStatus,
	}, nil
}
