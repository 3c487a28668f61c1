package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/app/models/dto"
	"github.com/campuskit/placement/internal/pkg/apperrors"
	"github.com/campuskit/placement/internal/pkg/export"
)

type companyStore interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	GetAll(ctx context.Context, offset uint64, limit int) ([]*models.Company, int64, error)
	Update(ctx context.Context, company *models.Company) error
	Delete(ctx context.Context, id int64) error
}

// CompanyService handles placement drives. Export templates are validated at
// save time so an export never fails on a template error later.
type CompanyService struct {
	companyRepo companyStore
	logger      zerolog.Logger
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companyRepo companyStore, logger zerolog.Logger) *CompanyService {
	return &CompanyService{
		companyRepo: companyRepo,
		logger:      logger,
	}
}

func buildCompany(name string, branches []string, minCGPA float64, maxBacklogs int, policy models.SelectionPolicy, template []dto.TemplateColumnRequest) (*models.Company, error) {
	if !policy.IsValid() {
		return nil, apperrors.ErrInvalidPolicy
	}

	columns := make([]models.TemplateColumn, 0, len(template))
	for _, col := range template {
		columns = append(columns, models.TemplateColumn{
			Header: strings.TrimSpace(col.Header),
			Source: strings.TrimSpace(col.Source),
		})
	}
	if err := export.ValidateTemplate(columns); err != nil {
		var invalid *export.InvalidTemplateError
		if errors.As(err, &invalid) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidTemplate, invalid.Error())
		}
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidTemplate, err.Error())
	}

	normalized := make([]string, 0, len(branches))
	for _, b := range branches {
		b = strings.ToUpper(strings.TrimSpace(b))
		if b != "" {
			normalized = append(normalized, b)
		}
	}
	branchesCSV := "ALL"
	if len(normalized) > 0 {
		branchesCSV = strings.Join(normalized, ",")
	}

	return &models.Company{
		Name:             strings.TrimSpace(name),
		EligibleBranches: branchesCSV,
		MinCGPA:          minCGPA,
		MaxBacklogs:      maxBacklogs,
		SelectionPolicy:  policy,
		ExportTemplate:   columns,
	}, nil
}

// CreateCompany registers a new placement drive
func (s *CompanyService) CreateCompany(ctx context.Context, req *dto.CreateCompanyRequest) (*models.Company, error) {
	company, err := buildCompany(req.Name, req.EligibleBranches, req.MinCGPA, req.MaxBacklogs, req.SelectionPolicy, req.ExportTemplate)
	if err != nil {
		return nil, err
	}

	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("companyID", company.ID).Str("name", company.Name).Msg("Company created")
	return company, nil
}

// GetCompany retrieves a company by ID
func (s *CompanyService) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	return s.companyRepo.GetByID(ctx, id)
}

// ListCompanies retrieves companies with pagination
func (s *CompanyService) ListCompanies(ctx context.Context, offset uint64, limit int) ([]*models.Company, int64, error) {
	return s.companyRepo.GetAll(ctx, offset, limit)
}

// UpdateCompany updates an existing placement drive
func (s *CompanyService) UpdateCompany(ctx context.Context, id int64, req *dto.UpdateCompanyRequest) (*models.Company, error) {
	if _, err := s.companyRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	company, err := buildCompany(req.Name, req.EligibleBranches, req.MinCGPA, req.MaxBacklogs, req.SelectionPolicy, req.ExportTemplate)
	if err != nil {
		return nil, err
	}
	company.ID = id

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}

	return s.companyRepo.GetByID(ctx, id)
}

// DeleteCompany removes a placement drive
func (s *CompanyService) DeleteCompany(ctx context.Context, id int64) error {
	return s.companyRepo.Delete(ctx, id)
}
