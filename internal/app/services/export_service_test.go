package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/pkg/apperrors"
)

type fakeExportApps struct {
	byCompany map[int64][]*models.Application
	exported  []int64
}

func (f *fakeExportApps) GetByCompanyID(_ context.Context, companyID int64) ([]*models.Application, error) {
	return f.byCompany[companyID], nil
}

func (f *fakeExportApps) MarkExported(_ context.Context, ids []int64, _ time.Time) error {
	f.exported = append(f.exported, ids...)
	return nil
}

type fakeExportCompanies struct {
	companies []*models.Company
}

func (f *fakeExportCompanies) GetByID(_ context.Context, id int64) (*models.Company, error) {
	for _, c := range f.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.ErrCompanyNotFound
}

func (f *fakeExportCompanies) GetAllUnpaged(_ context.Context) ([]*models.Company, error) {
	return f.companies, nil
}

func exportFixtureApplication(id int64, companyID int64, rollNo string) *models.Application {
	resume := "https://cv.example/" + rollNo
	return &models.Application{
		ID:        id,
		CompanyID: companyID,
		Status:    models.ApplicationApplied,
		AppliedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		Student: &models.Student{
			RollNo:            rollNo,
			Name:              "Student " + rollNo,
			Branch:            "CSE",
			CGPA:              8.0,
			ResumeLink:        &resume,
			EligibilityStatus: models.EligibilityEligible,
		},
	}
}

func newExportFixture() (*ExportService, *fakeExportApps, *fakeExportCompanies) {
	apps := &fakeExportApps{byCompany: map[int64][]*models.Application{
		10: {
			exportFixtureApplication(100, 10, "20CS101"),
			exportFixtureApplication(101, 10, "20CS102"),
		},
		11: {
			exportFixtureApplication(102, 11, "20EC001"),
		},
	}}
	companies := &fakeExportCompanies{companies: []*models.Company{
		{ID: 10, Name: "Acme Corp", SelectionPolicy: models.PolicyBlocking},
		{ID: 11, Name: "Globex", SelectionPolicy: models.PolicyNonBlocking},
	}}
	svc := NewExportService(apps, companies, zerolog.Nop())
	return svc, apps, companies
}

func TestExportCompanyMarksApplicationsExported(t *testing.T) {
	svc, apps, _ := newExportFixture()

	result, err := svc.ExportCompany(context.Background(), 10)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Content)
	assert.Contains(t, result.Filename, "Acme Corp_applicants_")
	assert.Contains(t, result.Filename, ".xlsx")
	assert.ElementsMatch(t, []int64{100, 101}, apps.exported)
	assert.Empty(t, result.Warnings)
}

func TestExportCompanyUnknownCompany(t *testing.T) {
	svc, _, _ := newExportFixture()

	_, err := svc.ExportCompany(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrCompanyNotFound)
}

func TestExportCompanyInvalidStoredTemplate(t *testing.T) {
	svc, apps, companies := newExportFixture()
	companies.companies[0].ExportTemplate = []models.TemplateColumn{
		{Header: "Phone", Source: "student.phone"},
	}

	_, err := svc.ExportCompany(context.Background(), 10)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTemplate)
	assert.Empty(t, apps.exported)
}

func TestExportAllSkipsCompaniesWithBrokenTemplates(t *testing.T) {
	svc, apps, companies := newExportFixture()
	companies.companies[1].ExportTemplate = []models.TemplateColumn{
		{Header: "Aadhaar", Source: "student.aadhaar"},
	}

	result, err := svc.ExportAll(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.Content)
	assert.Contains(t, result.Filename, "placement_export_")
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Globex")
	assert.ElementsMatch(t, []int64{100, 101}, apps.exported)
}

func TestExportAllFailsWhenEveryTemplateIsBroken(t *testing.T) {
	svc, _, companies := newExportFixture()
	broken := []models.TemplateColumn{{Header: "Phone", Source: "student.phone"}}
	companies.companies[0].ExportTemplate = broken
	companies.companies[1].ExportTemplate = broken

	_, err := svc.ExportAll(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrInvalidTemplate)
}

func TestExportAllNoCompanies(t *testing.T) {
	apps := &fakeExportApps{byCompany: map[int64][]*models.Application{}}
	svc := NewExportService(apps, &fakeExportCompanies{}, zerolog.Nop())

	_, err := svc.ExportAll(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
}
