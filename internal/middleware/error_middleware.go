package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/placement/internal/app/models/dto"
	"github.com/campuskit/placement/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto the JSON error envelope. Controllers
// call it for every non-validation failure so status codes stay consistent.
func HandleAPIError(c *gin.Context, err error) {
	message := err.Error()

	switch {
	// Not found
	case errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrCompanyNotFound),
		errors.Is(err, apperrors.ErrApplicationNotFound),
		errors.Is(err, apperrors.ErrUserNotFound),
		errors.Is(err, apperrors.ErrSemesterNotImported),
		errors.Is(err, apperrors.ErrResourceNotFound):
		respondError(c, http.StatusNotFound, dto.ErrorCodeResourceNotFound, message)

	// Conflicts
	case errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrRollNoAlreadyExists),
		errors.Is(err, apperrors.ErrCompanyAlreadyExists),
		errors.Is(err, apperrors.ErrAlreadyApplied),
		errors.Is(err, apperrors.ErrResourceAlreadyExists),
		errors.Is(err, apperrors.ErrConflict):
		respondError(c, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, message)

	// Placement policy
	case errors.Is(err, apperrors.ErrNotEligible):
		respondError(c, http.StatusUnprocessableEntity, dto.ErrorCodeNotEligible, message)
	case errors.Is(err, apperrors.ErrResumeLinkRequired):
		respondError(c, http.StatusUnprocessableEntity, dto.ErrorCodeBlockedByPolicy, message)
	case errors.Is(err, apperrors.ErrInvalidStatus):
		respondError(c, http.StatusUnprocessableEntity, dto.ErrorCodeInvalidTransition, message)

	// Authentication
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrEmailNotVerified):
		respondError(c, http.StatusForbidden, dto.ErrorCodeUnauthorized, "Email not verified")
	case errors.Is(err, apperrors.ErrTokenExpired):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenInvalid),
		errors.Is(err, apperrors.ErrTokenRevoked):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		respondError(c, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found")
	case errors.Is(err, apperrors.ErrOTPExpired):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeExpiredToken, "Verification code expired, request a new one")
	case errors.Is(err, apperrors.ErrOTPInvalid),
		errors.Is(err, apperrors.ErrOTPNotFound):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeInvalidToken, "Invalid verification code")

	// Authorization
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respondError(c, http.StatusForbidden, dto.ErrorCodeForbidden, message)

	// Validation
	case errors.Is(err, apperrors.ErrValidationFailed):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeValidationFailed, message)
	case errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrInvalidPolicy),
		errors.Is(err, apperrors.ErrInvalidTemplate),
		errors.Is(err, apperrors.ErrInvalidEligibility),
		errors.Is(err, apperrors.ErrNoUsableRows):
		respondError(c, http.StatusBadRequest, dto.ErrorCodeInvalidRequest, message)

	default:
		respondError(c, http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}

func respondError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.JSON(status, dto.APIResponse{
		Error: dto.NewErrorDetail(code, message),
	})
}
