package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/app/models/dto"
	"github.com/campuskit/placement/internal/app/repositories"
	"github.com/campuskit/placement/internal/pkg/apperrors"
	"github.com/campuskit/placement/internal/pkg/gpa"
)

type fakeStudents struct {
	students map[int64]*models.Student
	nextID   int64
}

func (f *fakeStudents) Create(_ context.Context, student *models.Student) error {
	for _, s := range f.students {
		if s.RollNo == student.RollNo {
			return apperrors.ErrRollNoAlreadyExists
		}
	}
	f.nextID++
	student.ID = f.nextID
	f.students[student.ID] = student
	return nil
}

func (f *fakeStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrStudentNotFound
	}
	return s, nil
}

func (f *fakeStudents) GetAll(_ context.Context, _ repositories.StudentFilter, _ uint64, _ int) ([]*models.Student, int64, error) {
	return nil, 0, nil
}

func (f *fakeStudents) Update(_ context.Context, student *models.Student) error {
	f.students[student.ID] = student
	return nil
}

func (f *fakeStudents) UpdateResumeLink(_ context.Context, id int64, resumeLink string) error {
	f.students[id].ResumeLink = &resumeLink
	return nil
}

func (f *fakeStudents) UpdateEligibility(_ context.Context, id int64, status models.EligibilityStatus, reason *string, companyID *int64) error {
	s := f.students[id]
	s.EligibilityStatus = status
	s.BlockReason = reason
	s.BlockedByCompanyID = companyID
	return nil
}

func (f *fakeStudents) Delete(_ context.Context, id int64) error {
	delete(f.students, id)
	return nil
}

type fakeSemesterRecords struct {
	records map[int64]map[int]*models.SemesterRecord
}

func (f *fakeSemesterRecords) GetByStudentID(_ context.Context, studentID int64) ([]*models.SemesterRecord, error) {
	var out []*models.SemesterRecord
	for _, r := range f.records[studentID] {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeSemesterRecords) GetByStudentAndSemester(_ context.Context, studentID int64, semesterNo int) (*models.SemesterRecord, error) {
	r, ok := f.records[studentID][semesterNo]
	if !ok {
		return nil, apperrors.ErrSemesterNotImported
	}
	return r, nil
}

func (f *fakeSemesterRecords) UpdateBacklogCount(_ context.Context, studentID int64, semesterNo, backlogCount int) error {
	f.records[studentID][semesterNo].BacklogCount = backlogCount
	return nil
}

type fakeBacklogHistory struct {
	entries []*models.BacklogHistory
}

func (f *fakeBacklogHistory) Append(_ context.Context, entry *models.BacklogHistory) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeBacklogHistory) ListByStudent(_ context.Context, _ int64) ([]*models.BacklogHistory, error) {
	out := make([]*models.BacklogHistory, len(f.entries))
	for i, e := range f.entries {
		out[len(f.entries)-1-i] = e
	}
	return out, nil
}

type fakeStudentMetrics struct {
	calls int
}

func (f *fakeStudentMetrics) Recalculate(_ context.Context, _ int64) (gpa.Result, error) {
	f.calls++
	return gpa.Result{CGPA: 7.5, TotalBacklogs: 1, HasData: true}, nil
}

func newStudentFixture() (*StudentService, *fakeStudents, *fakeSemesterRecords, *fakeBacklogHistory, *fakeStudentMetrics) {
	students := &fakeStudents{students: map[int64]*models.Student{
		1: {ID: 1, RollNo: "20CS101", Name: "Jane Doe", Branch: "CSE",
			EligibilityStatus: models.EligibilityEligible},
	}, nextID: 1}
	records := &fakeSemesterRecords{records: map[int64]map[int]*models.SemesterRecord{
		1: {3: {StudentID: 1, SemesterNo: 3, SGPA: 7.0, Credits: 20, BacklogCount: 2}},
	}}
	history := &fakeBacklogHistory{}
	metrics := &fakeStudentMetrics{}
	svc := NewStudentService(students, records, history, metrics, zerolog.Nop())
	return svc, students, records, history, metrics
}

func TestUpdateBacklogAppendsExactlyOneEntry(t *testing.T) {
	svc, _, records, history, metrics := newStudentFixture()

	note := "revaluation cleared one paper"
	_, err := svc.UpdateBacklog(context.Background(), 1, &dto.UpdateBacklogRequest{
		SemesterNo:   3,
		BacklogCount: 1,
		Note:         &note,
	}, "coordinator@placement.edu")
	require.NoError(t, err)

	require.Len(t, history.entries, 1)
	entry := history.entries[0]
	assert.Equal(t, 2, entry.OldBacklog)
	assert.Equal(t, 1, entry.NewBacklog)
	assert.Equal(t, "coordinator@placement.edu", entry.Actor)
	assert.Equal(t, 1, records.records[1][3].BacklogCount)
	assert.Equal(t, 1, metrics.calls)
}

func TestUpdateBacklogSameValueIsNoOp(t *testing.T) {
	svc, _, _, history, metrics := newStudentFixture()

	_, err := svc.UpdateBacklog(context.Background(), 1, &dto.UpdateBacklogRequest{
		SemesterNo:   3,
		BacklogCount: 2,
	}, "coordinator@placement.edu")
	require.NoError(t, err)

	assert.Empty(t, history.entries)
	assert.Equal(t, 1, metrics.calls)
}

func TestUpdateBacklogUnknownSemester(t *testing.T) {
	svc, _, _, _, _ := newStudentFixture()

	_, err := svc.UpdateBacklog(context.Background(), 1, &dto.UpdateBacklogRequest{
		SemesterNo:   7,
		BacklogCount: 0,
	}, "coordinator@placement.edu")
	assert.ErrorIs(t, err, apperrors.ErrSemesterNotImported)
}

func TestCreateStudentUppercasesIdentifiers(t *testing.T) {
	svc, _, _, _, _ := newStudentFixture()

	student, err := svc.CreateStudent(context.Background(), &dto.CreateStudentRequest{
		RollNo: " 21ec042 ",
		Name:   "John Roe",
		Branch: "ece",
	})
	require.NoError(t, err)
	assert.Equal(t, "21EC042", student.RollNo)
	assert.Equal(t, "ECE", student.Branch)
	assert.Equal(t, models.EligibilityEligible, student.EligibilityStatus)
}

func TestCreateStudentDuplicateRoll(t *testing.T) {
	svc, _, _, _, _ := newStudentFixture()

	_, err := svc.CreateStudent(context.Background(), &dto.CreateStudentRequest{
		RollNo: "20cs101",
		Name:   "Other",
		Branch: "CSE",
	})
	assert.ErrorIs(t, err, apperrors.ErrRollNoAlreadyExists)
}

func TestUpdateEligibilityClearsReasonWhenEligible(t *testing.T) {
	svc, students, _, _, _ := newStudentFixture()
	reason := "external internship"
	students.students[1].EligibilityStatus = models.EligibilityExternalIntern
	students.students[1].BlockReason = &reason

	err := svc.UpdateEligibility(context.Background(), 1, &dto.UpdateEligibilityRequest{
		Status: models.EligibilityEligible,
		Reason: &reason,
	})
	require.NoError(t, err)
	assert.Equal(t, models.EligibilityEligible, students.students[1].EligibilityStatus)
	assert.Nil(t, students.students[1].BlockReason)
}

func TestUpdateEligibilityRejectsUnknownStatus(t *testing.T) {
	svc, _, _, _, _ := newStudentFixture()

	err := svc.UpdateEligibility(context.Background(), 1, &dto.UpdateEligibilityRequest{
		Status: "ON_VACATION",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidEligibility)
}

func TestUpdateStudentLateralChangeRecalculates(t *testing.T) {
	svc, _, _, _, metrics := newStudentFixture()

	lateral := true
	_, err := svc.UpdateStudent(context.Background(), 1, &dto.UpdateStudentRequest{
		Name:           "Jane Doe",
		Branch:         "CSE",
		IsLateralEntry: &lateral,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.calls)
}
