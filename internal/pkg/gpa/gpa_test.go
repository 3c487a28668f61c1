package gpa

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campuskit/placement/internal/app/models"
)

func record(sem int, sgpa, credits float64, backlogs int) *models.SemesterRecord {
	return &models.SemesterRecord{SemesterNo: sem, SGPA: sgpa, Credits: credits, BacklogCount: backlogs}
}

func TestCalculateWeightedAverage(t *testing.T) {
	records := []*models.SemesterRecord{
		record(1, 8.0, 20, 0),
		record(2, 7.0, 20, 0),
	}

	result := Calculate(records, false)

	assert.True(t, result.HasData)
	assert.Equal(t, 7.5, result.CGPA)
	assert.Equal(t, 0, result.TotalBacklogs)
}

func TestCalculateUnevenCredits(t *testing.T) {
	records := []*models.SemesterRecord{
		record(1, 9.0, 24, 0),
		record(2, 6.0, 16, 2),
	}

	result := Calculate(records, false)

	assert.True(t, result.HasData)
	// (9*24 + 6*16) / 40 = 7.8
	assert.Equal(t, 7.8, result.CGPA)
	assert.Equal(t, 2, result.TotalBacklogs)
}

func TestCalculateLateralEntryExcludesEarlySemesters(t *testing.T) {
	records := []*models.SemesterRecord{
		record(2, 9.0, 20, 0),
		record(3, 7.0, 20, 0),
	}

	result := Calculate(records, true)

	assert.True(t, result.HasData)
	assert.Equal(t, 7.0, result.CGPA)
}

func TestCalculateLateralEntryNeverCountsBelowSemesterThree(t *testing.T) {
	records := []*models.SemesterRecord{
		record(1, 10.0, 20, 0),
		record(2, 10.0, 20, 0),
	}

	result := Calculate(records, true)

	assert.False(t, result.HasData)
	assert.Equal(t, 0.0, result.CGPA)
}

func TestCalculateNoRecords(t *testing.T) {
	result := Calculate(nil, false)

	assert.False(t, result.HasData)
	assert.Equal(t, 0.0, result.CGPA)
	assert.Equal(t, 0, result.TotalBacklogs)
}

func TestCalculateZeroCreditSemesterExcluded(t *testing.T) {
	records := []*models.SemesterRecord{
		record(1, 8.0, 20, 0),
		record(2, 4.0, 0, 3),
	}

	result := Calculate(records, false)

	assert.True(t, result.HasData)
	assert.Equal(t, 8.0, result.CGPA)
	// Backlogs still counted even when the semester is excluded from the mean.
	assert.Equal(t, 3, result.TotalBacklogs)
}

func TestCalculateRoundsToTwoDecimals(t *testing.T) {
	records := []*models.SemesterRecord{
		record(1, 8.0, 20, 0),
		record(2, 7.0, 20, 0),
		record(3, 7.5, 20, 0),
	}

	result := Calculate(records, false)

	assert.Equal(t, 7.5, result.CGPA)

	records = append(records, record(4, 8.2, 22, 0))
	result = Calculate(records, false)
	// (160+140+150+180.4)/82 = 7.6878... -> 7.69
	assert.Equal(t, 7.69, result.CGPA)
}

func TestCalculateNegativeBacklogCountsIgnored(t *testing.T) {
	records := []*models.SemesterRecord{
		record(1, 8.0, 20, -2),
		record(2, 8.0, 20, 1),
	}

	result := Calculate(records, false)

	assert.Equal(t, 1, result.TotalBacklogs)
}

func TestIncluded(t *testing.T) {
	assert.True(t, Included(record(1, 8, 20, 0), false))
	assert.False(t, Included(record(1, 8, 20, 0), true))
	assert.False(t, Included(record(2, 8, 20, 0), true))
	assert.True(t, Included(record(3, 8, 20, 0), true))
	assert.False(t, Included(record(4, 8, 0, 0), false))
}
