package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/pkg/apperrors"
	"github.com/campuskit/placement/internal/pkg/export"
)

type exportApplicationReader interface {
	GetByCompanyID(ctx context.Context, companyID int64) ([]*models.Application, error)
	MarkExported(ctx context.Context, ids []int64, exportedAt time.Time) error
}

type exportCompanyReader interface {
	GetByID(ctx context.Context, id int64) (*models.Company, error)
	GetAllUnpaged(ctx context.Context) ([]*models.Company, error)
}

// ExportResult is a finished workbook plus its download filename.
type ExportResult struct {
	Filename string
	Content  []byte
	// Warnings lists companies skipped during a bulk export, one message each.
	Warnings []string
}

// ExportService builds the Excel workbooks companies receive: one sheet per
// company, shaped by the company's stored template. Exported applications are
// stamped with the export time.
type ExportService struct {
	appRepo     exportApplicationReader
	companyRepo exportCompanyReader
	logger      zerolog.Logger
}

// NewExportService creates a new ExportService
func NewExportService(appRepo exportApplicationReader, companyRepo exportCompanyReader, logger zerolog.Logger) *ExportService {
	return &ExportService{
		appRepo:     appRepo,
		companyRepo: companyRepo,
		logger:      logger,
	}
}

func (s *ExportService) buildCompanySheet(ctx context.Context, company *models.Company) (export.Sheet, []int64, error) {
	apps, err := s.appRepo.GetByCompanyID(ctx, company.ID)
	if err != nil {
		return export.Sheet{}, nil, err
	}

	records := make([]export.Record, 0, len(apps))
	ids := make([]int64, 0, len(apps))
	for _, app := range apps {
		records = append(records, export.Record{
			Student:     app.Student,
			Application: app,
			Company:     company,
		})
		ids = append(ids, app.ID)
	}

	headers, rows, err := export.BuildTable(company.ExportTemplate, records)
	if err != nil {
		return export.Sheet{}, nil, err
	}

	return export.Sheet{
		Name:    export.SanitizeSheetName(company.Name),
		Headers: headers,
		Rows:    rows,
	}, ids, nil
}

// ExportCompany builds the workbook for one company
func (s *ExportService) ExportCompany(ctx context.Context, companyID int64) (*ExportResult, error) {
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	sheet, appIDs, err := s.buildCompanySheet(ctx, company)
	if err != nil {
		var invalid *export.InvalidTemplateError
		if errors.As(err, &invalid) {
			return nil, apperrors.NewCustomError(apperrors.ErrInvalidTemplate, invalid.Error())
		}
		return nil, err
	}

	content, err := export.WriteWorkbook([]export.Sheet{sheet})
	if err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}

	now := time.Now().UTC()
	if err := s.appRepo.MarkExported(ctx, appIDs, now); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("companyID", companyID).
		Int("applications", len(appIDs)).
		Msg("Company export built")

	return &ExportResult{
		Filename: fmt.Sprintf("%s_applicants_%s.xlsx", export.SanitizeSheetName(company.Name), now.Format("20060102")),
		Content:  content,
	}, nil
}

// ExportAll builds one workbook with a sheet per company. Companies whose
// stored template no longer validates are skipped and reported as warnings
// rather than failing the whole export.
func (s *ExportService) ExportAll(ctx context.Context) (*ExportResult, error) {
	companies, err := s.companyRepo.GetAllUnpaged(ctx)
	if err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, apperrors.NewResourceNotFoundError("no companies to export")
	}

	var (
		sheets   []export.Sheet
		allIDs   []int64
		warnings []string
	)
	for _, company := range companies {
		sheet, ids, err := s.buildCompanySheet(ctx, company)
		if err != nil {
			var invalid *export.InvalidTemplateError
			if errors.As(err, &invalid) {
				warning := fmt.Sprintf("%s: %s", company.Name, invalid.Error())
				warnings = append(warnings, warning)
				s.logger.Warn().Str("company", company.Name).Str("source", invalid.Source).Msg("Company skipped in bulk export")
				continue
			}
			return nil, err
		}
		sheets = append(sheets, sheet)
		allIDs = append(allIDs, ids...)
	}

	if len(sheets) == 0 {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidTemplate, "every company template failed validation")
	}

	content, err := export.WriteWorkbook(sheets)
	if err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}

	now := time.Now().UTC()
	if err := s.appRepo.MarkExported(ctx, allIDs, now); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("companies", len(sheets)).
		Int("applications", len(allIDs)).
		Int("skipped", len(warnings)).
		Msg("Bulk export built")

	return &ExportResult{
		Filename: fmt.Sprintf("placement_export_%s.xlsx", now.Format("20060102")),
		Content:  content,
		Warnings: warnings,
	}, nil
}
