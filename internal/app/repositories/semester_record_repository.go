package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/pkg/apperrors"
)

// SemesterRecordRepository handles database operations for imported semester
// results. One row per (student, semester); re-imports replace the row.
type SemesterRecordRepository struct {
	db *pgxpool.Pool
}

// NewSemesterRecordRepository creates a new semester record repository
func NewSemesterRecordRepository(db *pgxpool.Pool) *SemesterRecordRepository {
	return &SemesterRecordRepository{db: db}
}

// Upsert inserts or replaces the record for (student, semester)
func (r *SemesterRecordRepository) Upsert(ctx context.Context, record *models.SemesterRecord) error {
	query := `
		INSERT INTO semester_records (student_id, semester_no, sgpa, credits, backlog_count, source_file, imported_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (student_id, semester_no)
		DO UPDATE SET sgpa = EXCLUDED.sgpa,
			credits = EXCLUDED.credits,
			backlog_count = EXCLUDED.backlog_count,
			source_file = EXCLUDED.source_file,
			imported_at = NOW()
		RETURNING id, imported_at
	`

	err := r.db.QueryRow(ctx, query,
		record.StudentID, record.SemesterNo, record.SGPA,
		record.Credits, record.BacklogCount, record.SourceFile,
	).Scan(&record.ID, &record.ImportedAt)
	if err != nil {
		return fmt.Errorf("error upserting semester record: %w", err)
	}

	return nil
}

// GetByStudentID retrieves all semester records for a student in semester order
func (r *SemesterRecordRepository) GetByStudentID(ctx context.Context, studentID int64) ([]*models.SemesterRecord, error) {
	query := `
		SELECT id, student_id, semester_no, sgpa, credits, backlog_count, source_file, imported_at
		FROM semester_records
		WHERE student_id = $1
		ORDER BY semester_no ASC
	`

	rows, err := r.db.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("error listing semester records: %w", err)
	}
	defer rows.Close()

	var records []*models.SemesterRecord
	for rows.Next() {
		var record models.SemesterRecord
		if err := rows.Scan(
			&record.ID,
			&record.StudentID,
			&record.SemesterNo,
			&record.SGPA,
			&record.Credits,
			&record.BacklogCount,
			&record.SourceFile,
			&record.ImportedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, &record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// GetByStudentAndSemester retrieves one semester record
func (r *SemesterRecordRepository) GetByStudentAndSemester(ctx context.Context, studentID int64, semesterNo int) (*models.SemesterRecord, error) {
	query := `
		SELECT id, student_id, semester_no, sgpa, credits, backlog_count, source_file, imported_at
		FROM semester_records
		WHERE student_id = $1 AND semester_no = $2
	`

	var record models.SemesterRecord
	err := r.db.QueryRow(ctx, query, studentID, semesterNo).Scan(
		&record.ID,
		&record.StudentID,
		&record.SemesterNo,
		&record.SGPA,
		&record.Credits,
		&record.BacklogCount,
		&record.SourceFile,
		&record.ImportedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSemesterNotImported
		}
		return nil, fmt.Errorf("error retrieving semester record: %w", err)
	}

	return &record, nil
}

// UpdateBacklogCount sets the backlog count for one semester record
func (r *SemesterRecordRepository) UpdateBacklogCount(ctx context.Context, studentID int64, semesterNo, backlogCount int) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE semester_records SET backlog_count = $1 WHERE student_id = $2 AND semester_no = $3`,
		backlogCount, studentID, semesterNo)
	if err != nil {
		return fmt.Errorf("error updating backlog count: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSemesterNotImported
	}
	return nil
}
