package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/pkg/apperrors"
	"github.com/campuskit/placement/internal/pkg/gpa"
	"github.com/campuskit/placement/internal/pkg/gradesheet"
)

type fakeImportStudents struct {
	byRoll map[string]*models.Student
	nextID int64
}

func (f *fakeImportStudents) GetByRollNo(_ context.Context, rollNo string) (*models.Student, error) {
	if s, ok := f.byRoll[rollNo]; ok {
		return s, nil
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeImportStudents) Create(_ context.Context, student *models.Student) error {
	f.nextID++
	student.ID = f.nextID
	f.byRoll[student.RollNo] = student
	return nil
}

func (f *fakeImportStudents) Update(_ context.Context, student *models.Student) error {
	f.byRoll[student.RollNo] = student
	return nil
}

type fakeImportRecords struct {
	upserts map[string]*models.SemesterRecord
}

func recordKey(studentID int64, semesterNo int) string {
	return fmt.Sprintf("%d/%d", studentID, semesterNo)
}

func (f *fakeImportRecords) GetByStudentAndSemester(_ context.Context, studentID int64, semesterNo int) (*models.SemesterRecord, error) {
	r, ok := f.upserts[recordKey(studentID, semesterNo)]
	if !ok {
		return nil, apperrors.ErrSemesterNotImported
	}
	return r, nil
}

func (f *fakeImportRecords) Upsert(_ context.Context, record *models.SemesterRecord) error {
	f.upserts[recordKey(record.StudentID, record.SemesterNo)] = record
	return nil
}

type fakeImportMetrics struct {
	calls int
}

func (f *fakeImportMetrics) Recalculate(_ context.Context, _ int64) (gpa.Result, error) {
	f.calls++
	return gpa.Result{}, nil
}

type fakeImportStorage struct{}

func (fakeImportStorage) SaveImportPDF(_ *multipart.FileHeader) (string, error) {
	return "pdf_imports/test.pdf", nil
}

func (fakeImportStorage) FullPath(relPath string) string { return "/tmp/" + relPath }

func newImportFixture(rows []gradesheet.Row) (*ImportService, *fakeImportStudents, *fakeImportRecords, *fakeBacklogHistory, *fakeImportMetrics) {
	students := &fakeImportStudents{byRoll: map[string]*models.Student{}}
	records := &fakeImportRecords{upserts: map[string]*models.SemesterRecord{}}
	history := &fakeBacklogHistory{}
	metrics := &fakeImportMetrics{}
	svc := NewImportService(students, records, history, metrics, fakeImportStorage{}, zerolog.Nop())
	svc.parse = func(string) ([]gradesheet.Row, gradesheet.Stats, error) {
		return rows, gradesheet.Stats{Parsed: len(rows)}, nil
	}
	return svc, students, records, history, metrics
}

func TestImportSGPACreatesUnknownStudents(t *testing.T) {
	svc, students, records, _, metrics := newImportFixture([]gradesheet.Row{
		{RollNo: "20CS101", Name: "Jane Doe", SGPA: 8.2, Backlogs: 0},
		{RollNo: "20CS102", Name: "John Roe", SGPA: 6.4, Backlogs: 2},
	})

	summary, err := svc.ImportSGPA(context.Background(), nil, 3, 20, "CSE", "registrar@placement.edu")
	require.NoError(t, err)

	assert.Equal(t, 2, summary.RecordsImported)
	assert.Equal(t, 2, summary.StudentsCreated)
	assert.ElementsMatch(t, []string{"20CS101", "20CS102"}, summary.CreatedRollNos)
	assert.Equal(t, "CSE", students.byRoll["20CS101"].Branch)
	assert.Len(t, records.upserts, 2)
	assert.Equal(t, 2, metrics.calls)
}

func TestImportSGPAReimportReplacesRecords(t *testing.T) {
	rows := []gradesheet.Row{{RollNo: "20CS101", Name: "Jane Doe", SGPA: 8.2}}
	svc, _, records, _, _ := newImportFixture(rows)

	_, err := svc.ImportSGPA(context.Background(), nil, 3, 20, "", "registrar@placement.edu")
	require.NoError(t, err)

	rows[0].SGPA = 8.5
	summary, err := svc.ImportSGPA(context.Background(), nil, 3, 20, "", "registrar@placement.edu")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.RecordsImported)
	assert.Equal(t, 0, summary.StudentsCreated)
	require.Len(t, records.upserts, 1)
	assert.Equal(t, 8.5, records.upserts["1/3"].SGPA)
}

func TestImportSGPASkipsLateralPreEntrySemesters(t *testing.T) {
	svc, students, records, _, _ := newImportFixture([]gradesheet.Row{
		{RollNo: "21LCS201", Name: "Late Entry", SGPA: 7.7},
	})
	students.byRoll["21LCS201"] = &models.Student{ID: 9, RollNo: "21LCS201", IsLateralEntry: true}

	summary, err := svc.ImportSGPA(context.Background(), nil, 2, 20, "", "registrar@placement.edu")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.LateralSkipped)
	assert.Equal(t, 0, summary.RecordsImported)
	assert.Empty(t, records.upserts)
}

func TestImportSGPAUpdatesCurrentSemester(t *testing.T) {
	svc, students, _, _, _ := newImportFixture([]gradesheet.Row{
		{RollNo: "20CS101", Name: "Jane Doe", SGPA: 8.0},
	})
	students.byRoll["20CS101"] = &models.Student{ID: 4, RollNo: "20CS101", CurrentSemester: 2}

	_, err := svc.ImportSGPA(context.Background(), nil, 5, 22, "", "registrar@placement.edu")
	require.NoError(t, err)
	assert.Equal(t, 5, students.byRoll["20CS101"].CurrentSemester)
}

func TestImportSGPARejectsEmptyPDF(t *testing.T) {
	svc, _, _, _, _ := newImportFixture(nil)

	_, err := svc.ImportSGPA(context.Background(), nil, 3, 20, "", "registrar@placement.edu")
	assert.ErrorIs(t, err, apperrors.ErrNoUsableRows)
}

func TestImportSGPAValidatesInput(t *testing.T) {
	svc, _, _, _, _ := newImportFixture(nil)

	_, err := svc.ImportSGPA(context.Background(), nil, 0, 20, "", "registrar@placement.edu")
	var custom *apperrors.CustomError
	require.ErrorAs(t, err, &custom)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.ImportSGPA(context.Background(), nil, 3, 0, "", "registrar@placement.edu")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestImportSGPAParseFailure(t *testing.T) {
	svc, _, _, _, _ := newImportFixture(nil)
	svc.parse = func(string) ([]gradesheet.Row, gradesheet.Stats, error) {
		return nil, gradesheet.Stats{}, errors.New("not a pdf")
	}

	_, err := svc.ImportSGPA(context.Background(), nil, 3, 20, "", "registrar@placement.edu")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func TestImportSGPABacklogChangeLandsInAuditTrail(t *testing.T) {
	rows := []gradesheet.Row{{RollNo: "20CS101", Name: "Jane Doe", SGPA: 7.0, Backlogs: 2}}
	svc, _, _, history, _ := newImportFixture(rows)

	_, err := svc.ImportSGPA(context.Background(), nil, 3, 20, "", "registrar@placement.edu")
	require.NoError(t, err)
	require.Len(t, history.entries, 1)
	assert.Equal(t, 0, history.entries[0].OldBacklog)
	assert.Equal(t, 2, history.entries[0].NewBacklog)

	rows[0].Backlogs = 0
	_, err = svc.ImportSGPA(context.Background(), nil, 3, 20, "", "registrar@placement.edu")
	require.NoError(t, err)
	require.Len(t, history.entries, 2)
	entry := history.entries[1]
	assert.Equal(t, 2, entry.OldBacklog)
	assert.Equal(t, 0, entry.NewBacklog)
	assert.Equal(t, "registrar@placement.edu", entry.Actor)
	require.NotNil(t, entry.Note)
	assert.Contains(t, *entry.Note, "pdf_imports/test.pdf")

	// Same counts again append nothing.
	_, err = svc.ImportSGPA(context.Background(), nil, 3, 20, "", "registrar@placement.edu")
	require.NoError(t, err)
	assert.Len(t, history.entries, 2)
}

func TestImportSGPASkipsOtherBranchRollCollisions(t *testing.T) {
	svc, students, records, _, metrics := newImportFixture([]gradesheet.Row{
		{RollNo: "20ME050", Name: "Mech Student", SGPA: 7.2, Backlogs: 1},
		{RollNo: "20CS101", Name: "Jane Doe", SGPA: 8.2},
	})
	students.byRoll["20ME050"] = &models.Student{ID: 7, RollNo: "20ME050", Branch: "ME"}

	summary, err := svc.ImportSGPA(context.Background(), nil, 3, 20, "cse", "registrar@placement.edu")
	require.NoError(t, err)

	assert.Equal(t, 1, summary.BranchMismatches)
	assert.Equal(t, 1, summary.RecordsImported)
	assert.NotContains(t, records.upserts, recordKey(7, 3))
	assert.Equal(t, "ME", students.byRoll["20ME050"].Branch)
	assert.Equal(t, 1, metrics.calls)
}
