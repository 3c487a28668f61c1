package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/pkg/apperrors"
	"github.com/campuskit/placement/internal/pkg/dberrors"
	"github.com/campuskit/placement/internal/pkg/logger"
)

const studentColumns = `id, roll_no, name, branch, is_lateral_entry, current_semester,
	cgpa, total_backlogs, resume_link, eligibility_status, block_reason, blocked_by_company_id, created_at`

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	err := row.Scan(
		&student.ID,
		&student.RollNo,
		&student.Name,
		&student.Branch,
		&student.IsLateralEntry,
		&student.CurrentSemester,
		&student.CGPA,
		&student.TotalBacklogs,
		&student.ResumeLink,
		&student.EligibilityStatus,
		&student.BlockReason,
		&student.BlockedByCompanyID,
		&student.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student and fills in the generated ID
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (roll_no, name, branch, is_lateral_entry, current_semester,
			cgpa, total_backlogs, resume_link, eligibility_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		student.RollNo, student.Name, student.Branch, student.IsLateralEntry,
		student.CurrentSemester, student.CGPA, student.TotalBacklogs,
		student.ResumeLink, student.EligibilityStatus,
	).Scan(&student.ID, &student.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrRollNoAlreadyExists
		}
		logger.Error().Err(err).Str("rollNo", student.RollNo).Msg("Error creating student")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student by ID
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return student, nil
}

// GetByRollNo retrieves a student by roll number
func (r *StudentRepository) GetByRollNo(ctx context.Context, rollNo string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE roll_no = $1`

	student, err := scanStudent(r.db.QueryRow(ctx, query, rollNo))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student by roll number: %w", err)
	}
	return student, nil
}

// GetAll retrieves students matching the filter, with pagination
func (r *StudentRepository) GetAll(ctx context.Context, filter StudentFilter, offset uint64, limit int) ([]*models.Student, int64, error) {
	applyFilter := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.Branch != "" {
			b = b.Where(squirrel.Eq{"branch": filter.Branch})
		}
		if filter.MinCGPA > 0 {
			b = b.Where(squirrel.GtOrEq{"cgpa": filter.MinCGPA})
		}
		if filter.MaxBacklogs != nil {
			b = b.Where(squirrel.LtOrEq{"total_backlogs": *filter.MaxBacklogs})
		}
		if filter.EligibilityStatus != "" {
			b = b.Where(squirrel.Eq{"eligibility_status": filter.EligibilityStatus})
		}
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			b = b.Where(squirrel.Or{
				squirrel.ILike{"roll_no": pattern},
				squirrel.ILike{"name": pattern},
			})
		}
		return b
	}

	countSQL, countArgs, err := applyFilter(r.sb.Select("COUNT(*)").From("students")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	listSQL, listArgs, err := applyFilter(r.sb.Select(studentColumns).From("students")).
		OrderBy("roll_no ASC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// Update updates a student's editable profile fields
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET name = $1, branch = $2, is_lateral_entry = $3, current_semester = $4, resume_link = $5
		WHERE id = $6
	`

	cmdTag, err := r.db.Exec(ctx, query,
		student.Name, student.Branch, student.IsLateralEntry,
		student.CurrentSemester, student.ResumeLink, student.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// UpdateResumeLink sets a student's resume link
func (r *StudentRepository) UpdateResumeLink(ctx context.Context, id int64, resumeLink string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE students SET resume_link = $1 WHERE id = $2`, resumeLink, id)
	if err != nil {
		return fmt.Errorf("error updating resume link: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// UpdateEligibility sets a student's placement standing. A nil companyID
// clears the blocking link.
func (r *StudentRepository) UpdateEligibility(ctx context.Context, id int64, status models.EligibilityStatus, reason *string, companyID *int64) error {
	query := `
		UPDATE students
		SET eligibility_status = $1, block_reason = $2, blocked_by_company_id = $3
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query, status, reason, companyID, id)
	if err != nil {
		return fmt.Errorf("error updating eligibility: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// UpdateAggregates stores the recomputed CGPA and total backlog count
func (r *StudentRepository) UpdateAggregates(ctx context.Context, id int64, cgpa float64, totalBacklogs int) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE students SET cgpa = $1, total_backlogs = $2 WHERE id = $3`,
		cgpa, totalBacklogs, id)
	if err != nil {
		return fmt.Errorf("error updating student aggregates: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student by ID
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// Count returns the total number of students
func (r *StudentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// CountByEligibility returns student counts grouped by eligibility status
func (r *StudentRepository) CountByEligibility(ctx context.Context) (map[models.EligibilityStatus]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT eligibility_status, COUNT(*) FROM students GROUP BY eligibility_status`)
	if err != nil {
		return nil, fmt.Errorf("error counting students by eligibility: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.EligibilityStatus]int64)
	for rows.Next() {
		var status models.EligibilityStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return counts, nil
}

// StudentFilter narrows student listings
type StudentFilter struct {
	Branch            string
	MinCGPA           float64
	MaxBacklogs       *int
	EligibilityStatus string
	Search            string
}
