package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/placement/internal/app/models"
)

type fakeRecordReader struct {
	records map[int64][]*models.SemesterRecord
}

func (f *fakeRecordReader) GetByStudentID(_ context.Context, studentID int64) ([]*models.SemesterRecord, error) {
	return f.records[studentID], nil
}

type fakeAggregateWriter struct {
	students map[int64]*models.Student
	updates  int
}

func (f *fakeAggregateWriter) GetByID(_ context.Context, id int64) (*models.Student, error) {
	return f.students[id], nil
}

func (f *fakeAggregateWriter) UpdateAggregates(_ context.Context, id int64, cgpa float64, totalBacklogs int) error {
	f.students[id].CGPA = cgpa
	f.students[id].TotalBacklogs = totalBacklogs
	f.updates++
	return nil
}

func TestMetricsServiceRecalculate(t *testing.T) {
	students := &fakeAggregateWriter{students: map[int64]*models.Student{
		1: {ID: 1, RollNo: "20CS101"},
	}}
	records := &fakeRecordReader{records: map[int64][]*models.SemesterRecord{
		1: {
			{StudentID: 1, SemesterNo: 1, SGPA: 7.0, Credits: 20, BacklogCount: 1},
			{StudentID: 1, SemesterNo: 2, SGPA: 8.0, Credits: 20, BacklogCount: 0},
		},
	}}

	svc := NewMetricsService(records, students, zerolog.Nop())

	result, err := svc.Recalculate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 7.5, result.CGPA)
	assert.Equal(t, 1, result.TotalBacklogs)
	assert.True(t, result.HasData)
	assert.Equal(t, 7.5, students.students[1].CGPA)
}

func TestMetricsServiceRecalculateIsIdempotent(t *testing.T) {
	students := &fakeAggregateWriter{students: map[int64]*models.Student{
		1: {ID: 1, IsLateralEntry: true},
	}}
	records := &fakeRecordReader{records: map[int64][]*models.SemesterRecord{
		1: {
			{StudentID: 1, SemesterNo: 2, SGPA: 9.0, Credits: 20}, // pre-entry, excluded
			{StudentID: 1, SemesterNo: 3, SGPA: 7.0, Credits: 20},
		},
	}}

	svc := NewMetricsService(records, students, zerolog.Nop())

	first, err := svc.Recalculate(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.Recalculate(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 7.0, second.CGPA)
	assert.Equal(t, 2, students.updates)
}

func TestMetricsServiceNoRecords(t *testing.T) {
	students := &fakeAggregateWriter{students: map[int64]*models.Student{
		1: {ID: 1},
	}}
	records := &fakeRecordReader{records: map[int64][]*models.SemesterRecord{}}

	svc := NewMetricsService(records, students, zerolog.Nop())

	result, err := svc.Recalculate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.CGPA)
	assert.False(t, result.HasData)
}
