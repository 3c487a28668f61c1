package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/app/repositories"
	"github.com/campuskit/placement/internal/pkg/apperrors"
)

type fakeApplications struct {
	apps           map[int64]*models.Application
	students       map[int64]*models.Student
	companies      map[int64]*models.Company
	nextID         int64
	blockingCalls  int
	clearingCalls  int
	statusUpdates  int
	lastBlockedApp int64
}

func (f *fakeApplications) Create(_ context.Context, app *models.Application) error {
	f.nextID++
	app.ID = f.nextID
	app.Status = models.ApplicationApplied
	f.apps[app.ID] = app
	return nil
}

func (f *fakeApplications) GetByID(_ context.Context, id int64) (*models.Application, error) {
	app, ok := f.apps[id]
	if !ok {
		return nil, apperrors.ErrApplicationNotFound
	}
	return app, nil
}

func (f *fakeApplications) Exists(_ context.Context, studentID, companyID int64) (bool, error) {
	for _, app := range f.apps {
		if app.StudentID == studentID && app.CompanyID == companyID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApplications) GetAll(_ context.Context, _ repositories.ApplicationFilter, _ uint64, _ int) ([]*models.Application, int64, error) {
	return nil, 0, nil
}

func (f *fakeApplications) UpdateStatus(_ context.Context, id int64, status models.ApplicationStatus) error {
	f.statusUpdates++
	f.apps[id].Status = status
	return nil
}

func (f *fakeApplications) ApplyBlockingSelection(_ context.Context, appID, studentID, companyID int64, reason string) (int64, error) {
	f.blockingCalls++
	f.lastBlockedApp = appID
	f.apps[appID].Status = models.ApplicationSelected
	var closed int64
	for _, app := range f.apps {
		if app.StudentID == studentID && app.ID != appID && app.Status.IsOpen() {
			app.Status = models.ApplicationClosedByPolicy
			closed++
		}
	}
	if s, ok := f.students[studentID]; ok {
		s.EligibilityStatus = models.EligibilityBlockedByPolicy
		s.BlockReason = &reason
		s.BlockedByCompanyID = &companyID
	}
	return closed, nil
}

func (f *fakeApplications) ClearBlockingSelection(_ context.Context, appID, studentID int64, status models.ApplicationStatus) (bool, error) {
	f.clearingCalls++
	f.apps[appID].Status = status
	for _, app := range f.apps {
		if app.StudentID == studentID && app.Status == models.ApplicationSelected &&
			f.companies[app.CompanyID].SelectionPolicy == models.PolicyBlocking {
			return false, nil
		}
	}
	s, ok := f.students[studentID]
	if !ok || s.EligibilityStatus != models.EligibilityBlockedByPolicy {
		return false, nil
	}
	s.EligibilityStatus = models.EligibilityEligible
	s.BlockReason = nil
	s.BlockedByCompanyID = nil
	return true, nil
}

type fakeStudentReader struct {
	students map[int64]*models.Student
}

func (f *fakeStudentReader) GetByID(_ context.Context, id int64) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return s, nil
}

type fakeCompanyReader struct {
	companies map[int64]*models.Company
}

func (f *fakeCompanyReader) GetByID(_ context.Context, id int64) (*models.Company, error) {
	c, ok := f.companies[id]
	if !ok {
		return nil, apperrors.ErrCompanyNotFound
	}
	return c, nil
}

type fakeUserReader struct{}

func (fakeUserReader) GetByStudentID(_ context.Context, _ int64) (*models.User, error) {
	return nil, apperrors.ErrUserNotFound
}

func link(s string) *string { return &s }

func newApplicationFixture() (*ApplicationService, *fakeApplications, *fakeStudentReader, *fakeCompanyReader) {
	students := &fakeStudentReader{students: map[int64]*models.Student{
		1: {ID: 1, RollNo: "20CS101", Branch: "CSE", CGPA: 8.0, TotalBacklogs: 0,
			EligibilityStatus: models.EligibilityEligible, ResumeLink: link("https://cv.example/1")},
	}}
	companies := &fakeCompanyReader{companies: map[int64]*models.Company{
		10: {ID: 10, Name: "Acme", EligibleBranches: "CSE,ECE", MinCGPA: 7.0,
			MaxBacklogs: 0, SelectionPolicy: models.PolicyBlocking},
		11: {ID: 11, Name: "Globex", EligibleBranches: "ALL", MinCGPA: 6.0,
			MaxBacklogs: 2, SelectionPolicy: models.PolicyNonBlocking},
	}}
	apps := &fakeApplications{
		apps:      map[int64]*models.Application{},
		students:  students.students,
		companies: companies.companies,
	}
	svc := NewApplicationService(apps, students, companies, fakeUserReader{}, nil, zerolog.Nop())
	return svc, apps, students, companies
}

func TestApplyHappyPath(t *testing.T) {
	svc, apps, _, _ := newApplicationFixture()

	app, err := svc.Apply(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationApplied, app.Status)
	assert.Len(t, apps.apps, 1)
}

func TestApplyDuplicateRejected(t *testing.T) {
	svc, _, _, _ := newApplicationFixture()

	_, err := svc.Apply(context.Background(), 1, 10)
	require.NoError(t, err)
	_, err = svc.Apply(context.Background(), 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyApplied)
}

func TestApplyEligibilityChecks(t *testing.T) {
	svc, _, students, _ := newApplicationFixture()

	tests := []struct {
		name   string
		mutate func(*models.Student)
		reason string
	}{
		{"blocked standing", func(s *models.Student) {
			s.EligibilityStatus = models.EligibilityBlockedByPolicy
			s.BlockReason = link("Selected by Acme (blocking policy)")
		}, "BLOCKED_BY_POLICY"},
		{"wrong branch", func(s *models.Student) { s.Branch = "MECH" }, "branch MECH"},
		{"low cgpa", func(s *models.Student) { s.CGPA = 6.5 }, "below the cutoff"},
		{"too many backlogs", func(s *models.Student) { s.TotalBacklogs = 3 }, "backlogs exceed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			base := *students.students[1]
			student := base
			tc.mutate(&student)
			students.students[1] = &student

			_, err := svc.Apply(context.Background(), 1, 10)
			require.ErrorIs(t, err, apperrors.ErrNotEligible)
			assert.Contains(t, err.Error(), tc.reason)

			students.students[1] = &base
		})
	}
}

func TestApplyRequiresResumeLink(t *testing.T) {
	svc, _, students, _ := newApplicationFixture()
	students.students[1].ResumeLink = nil

	_, err := svc.Apply(context.Background(), 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrResumeLinkRequired)
}

func TestBlockingSelectionClosesOtherApplications(t *testing.T) {
	svc, apps, _, _ := newApplicationFixture()

	first, err := svc.Apply(context.Background(), 1, 10)
	require.NoError(t, err)
	second, err := svc.Apply(context.Background(), 1, 11)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), first.ID, models.ApplicationSelected)
	require.NoError(t, err)

	assert.Equal(t, 1, apps.blockingCalls)
	assert.Equal(t, models.ApplicationSelected, apps.apps[first.ID].Status)
	assert.Equal(t, models.ApplicationClosedByPolicy, apps.apps[second.ID].Status)
}

func TestClearingBlockingSelectionRestoresEligibility(t *testing.T) {
	svc, apps, students, _ := newApplicationFixture()

	first, err := svc.Apply(context.Background(), 1, 10)
	require.NoError(t, err)
	second, err := svc.Apply(context.Background(), 1, 11)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), first.ID, models.ApplicationSelected)
	require.NoError(t, err)
	require.Equal(t, models.EligibilityBlockedByPolicy, students.students[1].EligibilityStatus)

	updated, err := svc.UpdateStatus(context.Background(), first.ID, models.ApplicationRejected)
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationRejected, updated.Status)
	assert.Equal(t, 1, apps.clearingCalls)
	assert.Equal(t, models.EligibilityEligible, students.students[1].EligibilityStatus)
	assert.Nil(t, students.students[1].BlockReason)
	assert.Nil(t, students.students[1].BlockedByCompanyID)
	// Applications closed by the policy stay closed.
	assert.Equal(t, models.ApplicationClosedByPolicy, apps.apps[second.ID].Status)
}

func TestClearingSelectionKeepsBlockWhileAnotherSelectionRemains(t *testing.T) {
	svc, apps, students, companies := newApplicationFixture()
	companies.companies[11].SelectionPolicy = models.PolicyBlocking

	first, err := svc.Apply(context.Background(), 1, 10)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), first.ID, models.ApplicationSelected)
	require.NoError(t, err)

	// A second blocking selection recorded directly, as staff corrections do.
	apps.apps[99] = &models.Application{ID: 99, StudentID: 1, CompanyID: 11,
		Status: models.ApplicationSelected, Student: students.students[1], Company: companies.companies[11]}

	_, err = svc.UpdateStatus(context.Background(), first.ID, models.ApplicationRejected)
	require.NoError(t, err)

	assert.Equal(t, models.EligibilityBlockedByPolicy, students.students[1].EligibilityStatus)
}

func TestNonBlockingSelectionLeavesOthersOpen(t *testing.T) {
	svc, apps, _, _ := newApplicationFixture()

	first, err := svc.Apply(context.Background(), 1, 10)
	require.NoError(t, err)
	second, err := svc.Apply(context.Background(), 1, 11)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), second.ID, models.ApplicationSelected)
	require.NoError(t, err)

	assert.Equal(t, 0, apps.blockingCalls)
	assert.Equal(t, models.ApplicationApplied, apps.apps[first.ID].Status)
	assert.Equal(t, models.ApplicationSelected, apps.apps[second.ID].Status)
}

func TestUpdateStatusRejectsClosedApplications(t *testing.T) {
	svc, apps, _, _ := newApplicationFixture()

	app, err := svc.Apply(context.Background(), 1, 10)
	require.NoError(t, err)
	apps.apps[app.ID].Status = models.ApplicationRejected

	_, err = svc.UpdateStatus(context.Background(), app.ID, models.ApplicationShortlisted)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
}

func TestUpdateStatusRejectsPolicyOnlyStatus(t *testing.T) {
	svc, _, _, _ := newApplicationFixture()

	app, err := svc.Apply(context.Background(), 1, 10)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), app.ID, models.ApplicationClosedByPolicy)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
}
