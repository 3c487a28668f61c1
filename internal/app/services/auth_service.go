package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/app/models/dto"
	"github.com/campuskit/placement/internal/app/repositories"
	"github.com/campuskit/placement/internal/pkg/apperrors"
	"github.com/campuskit/placement/internal/pkg/auth"
	"github.com/campuskit/placement/internal/pkg/email"
)

// otpTTL is how long a verification code stays usable.
const otpTTL = 10 * time.Minute

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// AuthService handles registration, email verification and token issuance.
// Student accounts must reference an existing student record by roll number;
// coordinator and admin accounts are created by seeding or by an admin.
type AuthService struct {
	userRepo    *repositories.UserRepository
	tokenRepo   *repositories.TokenRepository
	studentRepo *repositories.StudentRepository
	jwtService  *auth.JWTService
	mailer      email.Service
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo *repositories.UserRepository,
	tokenRepo *repositories.TokenRepository,
	studentRepo *repositories.StudentRepository,
	jwtService *auth.JWTService,
	mailer email.Service,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		studentRepo: studentRepo,
		jwtService:  jwtService,
		mailer:      mailer,
		logger:      logger,
	}
}

// validateEmail validates an email address
func (s *AuthService) validateEmail(address string) error {
	if strings.TrimSpace(address) == "" {
		return apperrors.NewBadRequestError("email cannot be empty")
	}
	if !emailRegex.MatchString(strings.ToLower(address)) {
		return apperrors.NewBadRequestError("invalid email format")
	}
	return nil
}

// validatePassword checks if password meets requirements
func (s *AuthService) validatePassword(password string) error {
	if len(password) < 8 {
		return apperrors.NewBadRequestError("password must be at least 8 characters long")
	}

	hasLetter := false
	hasDigit := false
	for _, char := range password {
		if unicode.IsLetter(char) {
			hasLetter = true
		}
		if unicode.IsDigit(char) {
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperrors.NewBadRequestError("password must contain at least one letter and one digit")
	}

	return nil
}

// Register creates a student account linked to an existing student record and
// emails a verification code.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if err := s.validateEmail(req.Email); err != nil {
		return nil, err
	}
	if err := s.validatePassword(req.Password); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.GetByRollNo(ctx, strings.ToUpper(strings.TrimSpace(req.RollNo)))
	if err != nil {
		return nil, err
	}

	linked, err := s.userRepo.ExistsByStudentID(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, apperrors.NewConflictError("this roll number already has an account")
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Password:   hashedPassword,
		RoleType:   models.RoleStudent,
		IsVerified: false,
		StudentID:  &student.ID,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.issueVerificationCode(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Str("rollNo", student.RollNo).Msg("Student account registered")
	return user, nil
}

func (s *AuthService) issueVerificationCode(ctx context.Context, user *models.User) error {
	code, err := auth.GenerateOTP()
	if err != nil {
		return err
	}

	token := &models.OTPToken{
		UserID:    user.ID,
		Code:      code,
		Purpose:   models.OTPPurposeVerifyEmail,
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := s.tokenRepo.CreateOTP(ctx, token); err != nil {
		return err
	}

	if err := s.mailer.SendVerificationEmail(ctx, user.ID, user.Email, code); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Verification email failed")
	}

	return nil
}

// VerifyEmail consumes a verification code and activates the account
func (s *AuthService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return err
	}
	if user.IsVerified {
		return nil
	}

	token, err := s.tokenRepo.GetActiveOTP(ctx, user.ID, models.OTPPurposeVerifyEmail)
	if err != nil {
		return err
	}
	if token.IsExpired() {
		_ = s.tokenRepo.ConsumeOTP(ctx, token.ID)
		return apperrors.ErrOTPExpired
	}
	if token.Code != req.Code {
		return apperrors.ErrOTPInvalid
	}

	if err := s.tokenRepo.ConsumeOTP(ctx, token.ID); err != nil {
		return err
	}
	if err := s.userRepo.SetVerified(ctx, user.ID); err != nil {
		return err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("Email verified")
	return nil
}

// Login authenticates a user and issues a token pair
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, apperrors.ErrEmailNotVerified
	}

	token, err := s.generateTokenResponse(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: *token,
		User:  dto.FromUser(user),
	}, nil
}

// RefreshToken rotates a refresh token and issues a new pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	userID, _, _, err := s.tokenRepo.GetTokenByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Rotate: the old refresh token must not be reusable.
	if err := s.tokenRepo.RevokeToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to revoke old token: %w", err)
	}

	return s.generateTokenResponse(ctx, user)
}

// GetProfile retrieves the authenticated user, with the linked student record
// attached for student accounts.
func (s *AuthService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.StudentID != nil {
		student, err := s.studentRepo.GetByID(ctx, *user.StudentID)
		if err != nil {
			s.logger.Warn().Err(err).Int64("studentID", *user.StudentID).Msg("Could not load linked student for profile")
		} else {
			user.Student = student
		}
	}

	return user, nil
}

// generateTokenResponse creates token response
func (s *AuthService) generateTokenResponse(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, fmt.Errorf("token generation error: %w", err)
	}

	tokenExpiry := s.jwtService.GetRefreshTokenExpiry()
	if err := s.tokenRepo.CreateToken(ctx, refreshToken, user.ID, tokenExpiry); err != nil {
		return nil, fmt.Errorf("token saving error: %w", err)
	}

	return &dto.TokenResponse{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		TokenType:             "Bearer",
		ExpiresIn:             expiresIn,
		RefreshTokenExpiresIn: refreshExpiresIn,
	}, nil
}
