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

// ApplicationRepository handles database operations for applications
type ApplicationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new application and fills in the generated ID
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	query := `
		INSERT INTO applications (student_id, company_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, applied_at
	`

	err := r.db.QueryRow(ctx, query,
		app.StudentID, app.CompanyID, app.Status,
	).Scan(&app.ID, &app.AppliedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyApplied
		}
		logger.Error().Err(err).
			Int64("studentID", app.StudentID).
			Int64("companyID", app.CompanyID).
			Msg("Error creating application")
		return fmt.Errorf("error creating application: %w", err)
	}

	return nil
}

// GetByID retrieves an application with its student and company
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	query := `
		SELECT a.id, a.student_id, a.company_id, a.status, a.applied_at, a.exported_at,
			s.roll_no, s.name, s.branch, s.cgpa, s.total_backlogs, s.is_lateral_entry,
			s.resume_link, s.eligibility_status,
			c.name, c.selection_policy
		FROM applications a
		JOIN students s ON s.id = a.student_id
		JOIN companies c ON c.id = a.company_id
		WHERE a.id = $1
	`

	app, err := scanJoinedApplication(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error retrieving application: %w", err)
	}
	return app, nil
}

func scanJoinedApplication(row pgx.Row) (*models.Application, error) {
	var app models.Application
	var student models.Student
	var company models.Company
	err := row.Scan(
		&app.ID, &app.StudentID, &app.CompanyID, &app.Status, &app.AppliedAt, &app.ExportedAt,
		&student.RollNo, &student.Name, &student.Branch, &student.CGPA,
		&student.TotalBacklogs, &student.IsLateralEntry,
		&student.ResumeLink, &student.EligibilityStatus,
		&company.Name, &company.SelectionPolicy,
	)
	if err != nil {
		return nil, err
	}
	student.ID = app.StudentID
	company.ID = app.CompanyID
	app.Student = &student
	app.Company = &company
	return &app, nil
}

// Exists checks whether the student already applied to the company
func (r *ApplicationRepository) Exists(ctx context.Context, studentID, companyID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE student_id = $1 AND company_id = $2)`,
		studentID, companyID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking application existence: %w", err)
	}
	return exists, nil
}

// GetAll retrieves applications matching the filter, with pagination
func (r *ApplicationRepository) GetAll(ctx context.Context, filter ApplicationFilter, offset uint64, limit int) ([]*models.Application, int64, error) {
	applyFilter := func(b squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.StudentID > 0 {
			b = b.Where(squirrel.Eq{"a.student_id": filter.StudentID})
		}
		if filter.CompanyID > 0 {
			b = b.Where(squirrel.Eq{"a.company_id": filter.CompanyID})
		}
		if filter.Status != "" {
			b = b.Where(squirrel.Eq{"a.status": filter.Status})
		}
		return b
	}

	countSQL, countArgs, err := applyFilter(
		r.sb.Select("COUNT(*)").From("applications a"),
	).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count applications query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting applications: %w", err)
	}

	listSQL, listArgs, err := applyFilter(
		r.sb.Select(
			"a.id", "a.student_id", "a.company_id", "a.status", "a.applied_at", "a.exported_at",
			"s.roll_no", "s.name", "s.branch", "s.cgpa", "s.total_backlogs", "s.is_lateral_entry",
			"s.resume_link", "s.eligibility_status",
			"c.name", "c.selection_policy",
		).
			From("applications a").
			Join("students s ON s.id = a.student_id").
			Join("companies c ON c.id = a.company_id"),
	).
		OrderBy("a.applied_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list applications query: %w", err)
	}

	rows, err := r.db.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing applications: %w", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanJoinedApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return apps, total, nil
}

// GetByCompanyID retrieves a company's applications with students attached,
// ordered by roll number. Used by the export path.
func (r *ApplicationRepository) GetByCompanyID(ctx context.Context, companyID int64) ([]*models.Application, error) {
	query := `
		SELECT a.id, a.student_id, a.company_id, a.status, a.applied_at, a.exported_at,
			s.roll_no, s.name, s.branch, s.cgpa, s.total_backlogs, s.is_lateral_entry,
			s.resume_link, s.eligibility_status,
			c.name, c.selection_policy
		FROM applications a
		JOIN students s ON s.id = a.student_id
		JOIN companies c ON c.id = a.company_id
		WHERE a.company_id = $1
		ORDER BY s.roll_no ASC
	`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("error listing company applications: %w", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanJoinedApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return apps, nil
}

// UpdateStatus moves an application to a new status
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE applications SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("error updating application status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

// ApplyBlockingSelection marks one application SELECTED and, in the same
// transaction, closes the student's other open applications and blocks the
// student from further applications.
func (r *ApplicationRepository) ApplyBlockingSelection(ctx context.Context, appID, studentID, companyID int64, reason string) (closed int64, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("error starting selection transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	cmdTag, err := tx.Exec(ctx,
		`UPDATE applications SET status = $1 WHERE id = $2`,
		models.ApplicationSelected, appID)
	if err != nil {
		return 0, fmt.Errorf("error marking application selected: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		err = apperrors.ErrApplicationNotFound
		return 0, err
	}

	closeTag, err := tx.Exec(ctx,
		`UPDATE applications SET status = $1
		 WHERE student_id = $2 AND id != $3 AND status = ANY($4)`,
		models.ApplicationClosedByPolicy, studentID, appID,
		[]string{
			string(models.ApplicationApplied),
			string(models.ApplicationShortlisted),
			string(models.ApplicationInterview),
		})
	if err != nil {
		return 0, fmt.Errorf("error closing open applications: %w", err)
	}
	closed = closeTag.RowsAffected()

	_, err = tx.Exec(ctx,
		`UPDATE students SET eligibility_status = $1, block_reason = $2, blocked_by_company_id = $3 WHERE id = $4`,
		models.EligibilityBlockedByPolicy, reason, companyID, studentID)
	if err != nil {
		return 0, fmt.Errorf("error blocking student: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("error committing selection transaction: %w", err)
	}

	logger.Info().
		Int64("applicationID", appID).
		Int64("studentID", studentID).
		Int64("closedApplications", closed).
		Msg("Blocking selection applied")

	return closed, nil
}

// ClearBlockingSelection moves a SELECTED application to another status and,
// in the same transaction, restores the student's ELIGIBLE standing when no
// blocking selection remains for them. Applications already closed by policy
// stay closed. Returns whether the standing was restored.
func (r *ApplicationRepository) ClearBlockingSelection(ctx context.Context, appID, studentID int64, status models.ApplicationStatus) (restored bool, err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("error starting clear-selection transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	cmdTag, err := tx.Exec(ctx,
		`UPDATE applications SET status = $1 WHERE id = $2`, status, appID)
	if err != nil {
		return false, fmt.Errorf("error clearing selected application: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		err = apperrors.ErrApplicationNotFound
		return false, err
	}

	var stillBlocked bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM applications a
			JOIN companies c ON c.id = a.company_id
			WHERE a.student_id = $1 AND a.status = $2 AND c.selection_policy = $3
		)`,
		studentID, models.ApplicationSelected, models.PolicyBlocking,
	).Scan(&stillBlocked)
	if err != nil {
		return false, fmt.Errorf("error checking remaining selections: %w", err)
	}

	if !stillBlocked {
		cmdTag, err = tx.Exec(ctx,
			`UPDATE students
			 SET eligibility_status = $1, block_reason = NULL, blocked_by_company_id = NULL
			 WHERE id = $2 AND eligibility_status = $3`,
			models.EligibilityEligible, studentID, models.EligibilityBlockedByPolicy)
		if err != nil {
			return false, fmt.Errorf("error restoring student eligibility: %w", err)
		}
		restored = cmdTag.RowsAffected() > 0
	}

	if err = tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("error committing clear-selection transaction: %w", err)
	}

	logger.Info().
		Int64("applicationID", appID).
		Int64("studentID", studentID).
		Bool("eligibilityRestored", restored).
		Msg("Selection cleared")

	return restored, nil
}

// MarkExported stamps the applications as included in an export
func (r *ApplicationRepository) MarkExported(ctx context.Context, ids []int64, exportedAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(ctx,
		`UPDATE applications SET exported_at = $1 WHERE id = ANY($2)`, exportedAt, ids)
	if err != nil {
		return fmt.Errorf("error stamping exported applications: %w", err)
	}
	return nil
}

// Count returns the total number of applications
func (r *ApplicationRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting applications: %w", err)
	}
	return count, nil
}

// CountByStatus returns application counts grouped by status
func (r *ApplicationRepository) CountByStatus(ctx context.Context) (map[models.ApplicationStatus]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("error counting applications by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.ApplicationStatus]int64)
	for rows.Next() {
		var status models.ApplicationStatus
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

// CountDistinctPlacedStudents counts students with at least one SELECTED application
func (r *ApplicationRepository) CountDistinctPlacedStudents(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT student_id) FROM applications WHERE status = $1`,
		models.ApplicationSelected,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting placed students: %w", err)
	}
	return count, nil
}

// ApplicationFilter narrows application listings
type ApplicationFilter struct {
	StudentID int64
	CompanyID int64
	Status    string
}
