package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/pkg/apperrors"
	"github.com/campuskit/placement/internal/pkg/dberrors"
	"github.com/campuskit/placement/internal/pkg/logger"
)

// CompanyRepository handles database operations for companies. The export
// template is stored as a JSONB column.
type CompanyRepository struct {
	db *pgxpool.Pool
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func marshalTemplate(columns []models.TemplateColumn) ([]byte, error) {
	if columns == nil {
		columns = []models.TemplateColumn{}
	}
	data, err := json.Marshal(columns)
	if err != nil {
		return nil, fmt.Errorf("error encoding export template: %w", err)
	}
	return data, nil
}

func scanCompany(row pgx.Row) (*models.Company, error) {
	var company models.Company
	var templateJSON []byte
	err := row.Scan(
		&company.ID,
		&company.Name,
		&company.EligibleBranches,
		&company.MinCGPA,
		&company.MaxBacklogs,
		&company.SelectionPolicy,
		&templateJSON,
		&company.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(templateJSON) > 0 {
		if err := json.Unmarshal(templateJSON, &company.ExportTemplate); err != nil {
			return nil, fmt.Errorf("error decoding export template: %w", err)
		}
	}
	return &company, nil
}

// Create inserts a new company and fills in the generated ID
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	templateJSON, err := marshalTemplate(company.ExportTemplate)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO companies (name, eligible_branches, min_cgpa, max_backlogs, selection_policy, export_template)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = r.db.QueryRow(ctx, query,
		company.Name, company.EligibleBranches, company.MinCGPA,
		company.MaxBacklogs, company.SelectionPolicy, templateJSON,
	).Scan(&company.ID, &company.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCompanyAlreadyExists
		}
		logger.Error().Err(err).Str("name", company.Name).Msg("Error creating company")
		return fmt.Errorf("error creating company: %w", err)
	}

	return nil
}

// GetByID retrieves a company by ID
func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	query := `
		SELECT id, name, eligible_branches, min_cgpa, max_backlogs, selection_policy, export_template, created_at
		FROM companies
		WHERE id = $1
	`

	company, err := scanCompany(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("error retrieving company: %w", err)
	}
	return company, nil
}

// GetAll retrieves all companies ordered by creation time, with pagination
func (r *CompanyRepository) GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Company, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting companies: %w", err)
	}

	query := `
		SELECT id, name, eligible_branches, min_cgpa, max_backlogs, selection_policy, export_template, created_at
		FROM companies
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing companies: %w", err)
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return companies, total, nil
}

// GetAllUnpaged retrieves every company, used by the bulk export
func (r *CompanyRepository) GetAllUnpaged(ctx context.Context) ([]*models.Company, error) {
	query := `
		SELECT id, name, eligible_branches, min_cgpa, max_backlogs, selection_policy, export_template, created_at
		FROM companies
		ORDER BY name ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing companies: %w", err)
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, company)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return companies, nil
}

// Update updates an existing company
func (r *CompanyRepository) Update(ctx context.Context, company *models.Company) error {
	templateJSON, err := marshalTemplate(company.ExportTemplate)
	if err != nil {
		return err
	}

	query := `
		UPDATE companies
		SET name = $1, eligible_branches = $2, min_cgpa = $3, max_backlogs = $4,
			selection_policy = $5, export_template = $6
		WHERE id = $7
	`

	cmdTag, err := r.db.Exec(ctx, query,
		company.Name, company.EligibleBranches, company.MinCGPA,
		company.MaxBacklogs, company.SelectionPolicy, templateJSON, company.ID,
	)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCompanyAlreadyExists
		}
		return fmt.Errorf("error updating company: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}

	return nil
}

// Delete removes a company by ID
func (r *CompanyRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting company: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCompanyNotFound
	}
	return nil
}

// Count returns the total number of companies
func (r *CompanyRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM companies`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting companies: %w", err)
	}
	return count, nil
}
