package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/pkg/gpa"
)

// semesterRecordReader is the slice of the semester record repository the
// metrics service needs.
type semesterRecordReader interface {
	GetByStudentID(ctx context.Context, studentID int64) ([]*models.SemesterRecord, error)
}

// studentAggregateWriter is the slice of the student repository the metrics
// service needs.
type studentAggregateWriter interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	UpdateAggregates(ctx context.Context, id int64, cgpa float64, totalBacklogs int) error
}

// MetricsService recomputes a student's derived CGPA and backlog totals from
// their semester records. Recomputation runs after every import and backlog
// edit; it is idempotent.
type MetricsService struct {
	recordRepo  semesterRecordReader
	studentRepo studentAggregateWriter
	logger      zerolog.Logger
}

// NewMetricsService creates a new MetricsService
func NewMetricsService(recordRepo semesterRecordReader, studentRepo studentAggregateWriter, logger zerolog.Logger) *MetricsService {
	return &MetricsService{
		recordRepo:  recordRepo,
		studentRepo: studentRepo,
		logger:      logger,
	}
}

// Recalculate recomputes and stores a student's CGPA and total backlogs,
// returning the fresh values.
func (s *MetricsService) Recalculate(ctx context.Context, studentID int64) (gpa.Result, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return gpa.Result{}, err
	}

	records, err := s.recordRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return gpa.Result{}, fmt.Errorf("error loading semester records: %w", err)
	}

	result := gpa.Calculate(records, student.IsLateralEntry)

	if err := s.studentRepo.UpdateAggregates(ctx, studentID, result.CGPA, result.TotalBacklogs); err != nil {
		return gpa.Result{}, err
	}

	s.logger.Debug().
		Int64("studentID", studentID).
		Float64("cgpa", result.CGPA).
		Int("totalBacklogs", result.TotalBacklogs).
		Msg("Student metrics recalculated")

	return result, nil
}
