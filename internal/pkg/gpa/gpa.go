// Package gpa implements the cumulative grade-point computation used when a
// student's semester records change. The computation is pure; persistence and
// audit-trail writes live in the services layer.
package gpa

import (
	"math"

	"github.com/campuskit/placement/internal/app/models"
)

// lateralEntryMinSemester is the first semester a lateral-entry student has
// grade data for. Earlier semesters are excluded from both the numerator and
// the denominator.
const lateralEntryMinSemester = 3

// Result holds the recomputed aggregate metrics for a student.
type Result struct {
	CGPA          float64
	TotalBacklogs int
	// HasData is false when no semester qualified for inclusion. CGPA is 0.0
	// in that case; callers persist it as-is rather than failing.
	HasData bool
}

// SemesterCounts reports whether a semester can hold grade data for the
// student at all. Lateral-entry students join at semester 3.
func SemesterCounts(semesterNo int, lateralEntry bool) bool {
	return !lateralEntry || semesterNo >= lateralEntryMinSemester
}

// Included reports whether a semester record participates in the cumulative
// average. Records with non-positive credit weight never participate.
func Included(record *models.SemesterRecord, lateralEntry bool) bool {
	if record.Credits <= 0 {
		return false
	}
	return SemesterCounts(record.SemesterNo, lateralEntry)
}

// Calculate recomputes the cumulative average and total backlog count from
// the full set of a student's semester records.
//
// CGPA is the credit-weighted mean of the included semesters' SGPAs, rounded
// to two decimals. Backlogs are totalled over all records regardless of
// inclusion, since a lateral-entry student cannot carry backlogs from
// semesters they never attended anyway.
func Calculate(records []*models.SemesterRecord, lateralEntry bool) Result {
	var (
		weightedSum  float64
		totalCredits float64
		backlogs     int
	)

	for _, r := range records {
		if r.BacklogCount > 0 {
			backlogs += r.BacklogCount
		}
		if !Included(r, lateralEntry) {
			continue
		}
		weightedSum += r.SGPA * r.Credits
		totalCredits += r.Credits
	}

	if totalCredits <= 0 {
		return Result{CGPA: 0.0, TotalBacklogs: backlogs, HasData: false}
	}

	return Result{
		CGPA:          round2(weightedSum / totalCredits),
		TotalBacklogs: backlogs,
		HasData:       true,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
