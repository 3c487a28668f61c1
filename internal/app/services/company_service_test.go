package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/app/models/dto"
	"github.com/campuskit/placement/internal/pkg/apperrors"
)

type fakeCompanies struct {
	companies map[int64]*models.Company
	nextID    int64
}

func (f *fakeCompanies) Create(_ context.Context, company *models.Company) error {
	f.nextID++
	company.ID = f.nextID
	f.companies[company.ID] = company
	return nil
}

func (f *fakeCompanies) GetByID(_ context.Context, id int64) (*models.Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return nil, apperrors.ErrCompanyNotFound
	}
	return c, nil
}

func (f *fakeCompanies) GetAll(_ context.Context, _ uint64, _ int) ([]*models.Company, int64, error) {
	return nil, 0, nil
}

func (f *fakeCompanies) Update(_ context.Context, company *models.Company) error {
	f.companies[company.ID] = company
	return nil
}

func (f *fakeCompanies) Delete(_ context.Context, id int64) error {
	delete(f.companies, id)
	return nil
}

func TestCreateCompanyNormalizesBranches(t *testing.T) {
	store := &fakeCompanies{companies: map[int64]*models.Company{}}
	svc := NewCompanyService(store, zerolog.Nop())

	company, err := svc.CreateCompany(context.Background(), &dto.CreateCompanyRequest{
		Name:             "Acme Corp",
		EligibleBranches: []string{" cse", "ece ", ""},
		MinCGPA:          7.0,
		SelectionPolicy:  models.PolicyBlocking,
	})
	require.NoError(t, err)
	assert.Equal(t, "CSE,ECE", company.EligibleBranches)
	assert.True(t, company.AcceptsBranch("cse"))
	assert.False(t, company.AcceptsBranch("MECH"))
}

func TestCreateCompanyEmptyBranchesMeansAll(t *testing.T) {
	store := &fakeCompanies{companies: map[int64]*models.Company{}}
	svc := NewCompanyService(store, zerolog.Nop())

	company, err := svc.CreateCompany(context.Background(), &dto.CreateCompanyRequest{
		Name:            "Globex",
		SelectionPolicy: models.PolicyNonBlocking,
	})
	require.NoError(t, err)
	assert.Equal(t, "ALL", company.EligibleBranches)
	assert.True(t, company.AcceptsBranch("MECH"))
}

func TestCreateCompanyRejectsInvalidPolicy(t *testing.T) {
	store := &fakeCompanies{companies: map[int64]*models.Company{}}
	svc := NewCompanyService(store, zerolog.Nop())

	_, err := svc.CreateCompany(context.Background(), &dto.CreateCompanyRequest{
		Name:            "Acme",
		SelectionPolicy: "SOMETIMES_BLOCKING",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPolicy)
}

func TestCreateCompanyValidatesTemplateAtSave(t *testing.T) {
	store := &fakeCompanies{companies: map[int64]*models.Company{}}
	svc := NewCompanyService(store, zerolog.Nop())

	_, err := svc.CreateCompany(context.Background(), &dto.CreateCompanyRequest{
		Name:            "Acme",
		SelectionPolicy: models.PolicyBlocking,
		ExportTemplate: []dto.TemplateColumnRequest{
			{Header: "Roll", Source: "student.roll_no"},
			{Header: "Aadhaar", Source: "student.aadhaar"},
		},
	})
	require.ErrorIs(t, err, apperrors.ErrInvalidTemplate)
	assert.Contains(t, err.Error(), "student.aadhaar")
	assert.Empty(t, store.companies)
}

func TestUpdateCompanyValidatesTemplate(t *testing.T) {
	store := &fakeCompanies{companies: map[int64]*models.Company{}}
	svc := NewCompanyService(store, zerolog.Nop())

	created, err := svc.CreateCompany(context.Background(), &dto.CreateCompanyRequest{
		Name:            "Acme",
		SelectionPolicy: models.PolicyBlocking,
	})
	require.NoError(t, err)

	_, err = svc.UpdateCompany(context.Background(), created.ID, &dto.UpdateCompanyRequest{
		Name:            "Acme",
		SelectionPolicy: models.PolicyBlocking,
		ExportTemplate: []dto.TemplateColumnRequest{
			{Header: "", Source: "student.roll_no"},
		},
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidTemplate)
}
