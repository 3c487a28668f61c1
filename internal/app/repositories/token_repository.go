package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/pkg/apperrors"
	"github.com/campuskit/placement/internal/pkg/dberrors"
	"github.com/campuskit/placement/internal/pkg/logger"
)

// TokenRepository handles refresh token and OTP database operations
type TokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateToken creates a new refresh token
func (r *TokenRepository) CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error {
	sql, args, err := r.sb.Insert("refresh_tokens").
		Columns("token", "user_id", "expiry_date", "is_revoked", "created_at").
		Values(token, userID, expiryDate, false, time.Now()).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create token SQL")
		return fmt.Errorf("failed to build create token query: %w", err)
	}

	_, err = r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "refresh_tokens_token_key") {
			logger.Warn().Int64("userID", userID).Msg("Attempted to create duplicate token")
			return apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing create token query")
		return fmt.Errorf("error creating token: %w", err)
	}

	return nil
}

// GetTokenByValue retrieves token information by value
func (r *TokenRepository) GetTokenByValue(ctx context.Context, token string) (int64, time.Time, bool, error) {
	var userID int64
	var expiryDate time.Time
	var isRevoked bool

	sql, args, err := r.sb.Select("user_id", "expiry_date", "is_revoked").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get token by value SQL")
		return 0, time.Time{}, false, fmt.Errorf("failed to build get token query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&userID, &expiryDate, &isRevoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, time.Time{}, false, apperrors.ErrTokenNotFound
		}
		logger.Error().Err(err).Msg("Error scanning token row")
		return 0, time.Time{}, false, fmt.Errorf("error retrieving token: %w", err)
	}

	if isRevoked {
		return 0, time.Time{}, false, apperrors.ErrTokenRevoked
	}

	if expiryDate.Before(time.Now()) {
		return 0, time.Time{}, false, apperrors.ErrTokenExpired
	}

	return userID, expiryDate, isRevoked, nil
}

// RevokeToken revokes a token
func (r *TokenRepository) RevokeToken(ctx context.Context, token string) error {
	sql, args, err := r.sb.Update("refresh_tokens").
		Set("is_revoked", true).
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building revoke token SQL")
		return fmt.Errorf("failed to build revoke token query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing revoke token query")
		return fmt.Errorf("error revoking token: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTokenNotFound
	}

	return nil
}

// CleanupExpiredTokens removes expired refresh tokens and stale OTP codes
func (r *TokenRepository) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	thirtyDaysAgo := time.Now().Add(-30 * 24 * time.Hour)
	now := time.Now()

	sql, args, err := r.sb.Delete("refresh_tokens").
		Where(squirrel.Or{
			squirrel.Lt{"expiry_date": now},
			squirrel.And{
				squirrel.Eq{"is_revoked": true},
				squirrel.Lt{"created_at": thirtyDaysAgo},
			},
		}).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building cleanup tokens SQL")
		return 0, fmt.Errorf("failed to build cleanup tokens query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing cleanup tokens query")
		return 0, fmt.Errorf("error cleaning up tokens: %w", err)
	}

	deletedCount := cmdTag.RowsAffected()

	otpTag, err := r.db.Exec(ctx,
		`DELETE FROM otp_tokens WHERE expires_at < $1 OR consumed = true`, now)
	if err != nil {
		logger.Error().Err(err).Msg("Error cleaning up OTP tokens")
		return deletedCount, fmt.Errorf("error cleaning up OTP tokens: %w", err)
	}
	deletedCount += otpTag.RowsAffected()

	logger.Info().Int64("deletedCount", deletedCount).Msg("Cleaned up expired tokens")

	return deletedCount, nil
}

// CreateOTP stores a new one-time code, invalidating earlier unconsumed codes
// for the same user and purpose.
func (r *TokenRepository) CreateOTP(ctx context.Context, token *models.OTPToken) error {
	_, err := r.db.Exec(ctx,
		`UPDATE otp_tokens SET consumed = true WHERE user_id = $1 AND purpose = $2 AND consumed = false`,
		token.UserID, token.Purpose)
	if err != nil {
		return fmt.Errorf("error invalidating previous OTP codes: %w", err)
	}

	query := `
		INSERT INTO otp_tokens (user_id, code, purpose, expires_at, consumed)
		VALUES ($1, $2, $3, $4, false)
		RETURNING id, created_at
	`
	err = r.db.QueryRow(ctx, query,
		token.UserID, token.Code, token.Purpose, token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("userID", token.UserID).Msg("Error creating OTP")
		return fmt.Errorf("error creating OTP: %w", err)
	}

	return nil
}

// GetActiveOTP retrieves the newest unconsumed code for a user and purpose
func (r *TokenRepository) GetActiveOTP(ctx context.Context, userID int64, purpose models.OTPPurpose) (*models.OTPToken, error) {
	query := `
		SELECT id, user_id, code, purpose, expires_at, consumed, created_at
		FROM otp_tokens
		WHERE user_id = $1 AND purpose = $2 AND consumed = false
		ORDER BY created_at DESC
		LIMIT 1
	`

	var token models.OTPToken
	err := r.db.QueryRow(ctx, query, userID, purpose).Scan(
		&token.ID,
		&token.UserID,
		&token.Code,
		&token.Purpose,
		&token.ExpiresAt,
		&token.Consumed,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrOTPNotFound
		}
		return nil, fmt.Errorf("error retrieving OTP: %w", err)
	}

	return &token, nil
}

// ConsumeOTP marks a one-time code as used
func (r *TokenRepository) ConsumeOTP(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE otp_tokens SET consumed = true WHERE id = $1 AND consumed = false`, id)
	if err != nil {
		return fmt.Errorf("error consuming OTP: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrOTPNotFound
	}
	return nil
}
