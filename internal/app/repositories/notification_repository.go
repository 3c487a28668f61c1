package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/placement/internal/app/models"
)

// NotificationRepository handles the append-only email delivery log
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Record appends one delivery attempt. Satisfies email.Recorder.
func (r *NotificationRepository) Record(ctx context.Context, userID *int64, toEmail, subject, body string, status models.NotificationStatus, errMsg *string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO notification_logs (user_id, email, subject, body, status, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		userID, toEmail, subject, body, status, errMsg)
	if err != nil {
		return fmt.Errorf("error recording notification: %w", err)
	}
	return nil
}

// GetAll retrieves delivery attempts, newest first, with pagination
func (r *NotificationRepository) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.NotificationLog, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notification_logs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting notifications: %w", err)
	}

	query := `
		SELECT id, user_id, email, subject, body, status, error_message, created_at
		FROM notification_logs
		ORDER BY created_at DESC, id DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing notifications: %w", err)
	}
	defer rows.Close()

	var entries []*models.NotificationLog
	for rows.Next() {
		var entry models.NotificationLog
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Email,
			&entry.Subject,
			&entry.Body,
			&entry.Status,
			&entry.ErrorMessage,
			&entry.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
