package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/placement/internal/app/models"
)

// BacklogHistoryRepository handles the append-only backlog audit trail
type BacklogHistoryRepository struct {
	db *pgxpool.Pool
}

// NewBacklogHistoryRepository creates a new backlog history repository
func NewBacklogHistoryRepository(db *pgxpool.Pool) *BacklogHistoryRepository {
	return &BacklogHistoryRepository{db: db}
}

// Append records one backlog change
func (r *BacklogHistoryRepository) Append(ctx context.Context, entry *models.BacklogHistory) error {
	query := `
		INSERT INTO backlog_history (student_id, semester_no, old_backlog, new_backlog, note, actor)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		entry.StudentID, entry.SemesterNo, entry.OldBacklog,
		entry.NewBacklog, entry.Note, entry.Actor,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("error appending backlog history: %w", err)
	}

	return nil
}

// ListByStudent retrieves a student's backlog changes, newest first
func (r *BacklogHistoryRepository) ListByStudent(ctx context.Context, studentID int64) ([]*models.BacklogHistory, error) {
	query := `
		SELECT id, student_id, semester_no, old_backlog, new_backlog, note, actor, created_at
		FROM backlog_history
		WHERE student_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing backlog history: %w", err)
	}
	defer rows.Close()

	var entries []*models.BacklogHistory
	for rows.Next() {
		var entry models.BacklogHistory
		if err := rows.Scan(
			&entry.ID,
			&entry.StudentID,
			&entry.SemesterNo,
			&entry.OldBacklog,
			&entry.NewBacklog,
			&entry.Note,
			&entry.Actor,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}
