package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/app/models/dto"
	"github.com/campuskit/placement/internal/pkg/apperrors"
	"github.com/campuskit/placement/internal/pkg/gpa"
	"github.com/campuskit/placement/internal/pkg/gradesheet"
	"github.com/campuskit/placement/internal/pkg/validation"
)

// defaultBranch is assigned to students auto-created from an import until a
// coordinator corrects the record.
const defaultBranch = "UNASSIGNED"

type importStudentStore interface {
	GetByRollNo(ctx context.Context, rollNo string) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
}

type importRecordStore interface {
	GetByStudentAndSemester(ctx context.Context, studentID int64, semesterNo int) (*models.SemesterRecord, error)
	Upsert(ctx context.Context, record *models.SemesterRecord) error
}

type importHistoryStore interface {
	Append(ctx context.Context, entry *models.BacklogHistory) error
}

type importRecalculator interface {
	Recalculate(ctx context.Context, studentID int64) (gpa.Result, error)
}

type importStorage interface {
	SaveImportPDF(fileHeader *multipart.FileHeader) (string, error)
	FullPath(relPath string) string
}

// ImportService ingests semester results from uploaded PDF grade sheets.
// Rows are matched to students by roll number; unknown roll numbers create
// placeholder students. A re-import for the same (student, semester) replaces
// the earlier record.
type ImportService struct {
	studentRepo importStudentStore
	recordRepo  importRecordStore
	historyRepo importHistoryStore
	metrics     importRecalculator
	storage     importStorage
	parse       func(path string) ([]gradesheet.Row, gradesheet.Stats, error)
	logger      zerolog.Logger
}

// NewImportService creates a new ImportService
func NewImportService(
	studentRepo importStudentStore,
	recordRepo importRecordStore,
	historyRepo importHistoryStore,
	metrics importRecalculator,
	storage importStorage,
	logger zerolog.Logger,
) *ImportService {
	return &ImportService{
		studentRepo: studentRepo,
		recordRepo:  recordRepo,
		historyRepo: historyRepo,
		metrics:     metrics,
		storage:     storage,
		parse:       gradesheet.ParseFile,
		logger:      logger,
	}
}

// ImportSGPA stores the uploaded PDF, extracts its result rows and applies
// them as semester records for the given semester. Backlog counts that differ
// from the stored record land in the backlog audit trail under the actor who
// ran the import.
func (s *ImportService) ImportSGPA(ctx context.Context, fileHeader *multipart.FileHeader, semesterNo int, credits float64, branch, actor string) (*dto.ImportSummary, error) {
	if !validation.ValidSemester(semesterNo) {
		return nil, apperrors.NewBadRequestError("semester number must be between 1 and 10")
	}
	if credits <= 0 {
		return nil, apperrors.NewBadRequestError("credits must be positive")
	}

	storedPath, err := s.storage.SaveImportPDF(fileHeader)
	if err != nil {
		return nil, fmt.Errorf("failed to store import PDF: %w", err)
	}

	rows, stats, err := s.parse(s.storage.FullPath(storedPath))
	if err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("could not read PDF: %v", err))
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrNoUsableRows
	}

	summary := &dto.ImportSummary{
		SourceFile:  storedPath,
		SemesterNo:  semesterNo,
		Credits:     credits,
		RowsParsed:  stats.Parsed,
		RowsSkipped: stats.Skipped,
	}

	branch = strings.ToUpper(strings.TrimSpace(branch))

	for _, row := range rows {
		student, err := s.findOrCreateStudent(ctx, row, branch, summary)
		if err != nil {
			return nil, err
		}

		// A sheet tagged with a branch must not overwrite another branch's
		// records on a roll number collision.
		if branch != "" && student.Branch != branch {
			summary.BranchMismatches++
			continue
		}

		// Lateral-entry students have no results before their entry semester;
		// such rows are roll number collisions or sheet noise.
		if !gpa.SemesterCounts(semesterNo, student.IsLateralEntry) {
			summary.LateralSkipped++
			continue
		}

		oldBacklogs, err := s.priorBacklogCount(ctx, student.ID, semesterNo)
		if err != nil {
			return nil, err
		}

		sourceFile := storedPath
		record := &models.SemesterRecord{
			StudentID:    student.ID,
			SemesterNo:   semesterNo,
			SGPA:         row.SGPA,
			Credits:      credits,
			BacklogCount: row.Backlogs,
			SourceFile:   &sourceFile,
		}
		if err := s.recordRepo.Upsert(ctx, record); err != nil {
			return nil, err
		}
		summary.RecordsImported++

		if oldBacklogs != row.Backlogs {
			note := fmt.Sprintf("grade sheet import %s", storedPath)
			entry := &models.BacklogHistory{
				StudentID:  student.ID,
				SemesterNo: semesterNo,
				OldBacklog: oldBacklogs,
				NewBacklog: row.Backlogs,
				Note:       &note,
				Actor:      actor,
			}
			if err := s.historyRepo.Append(ctx, entry); err != nil {
				return nil, err
			}
		}

		if semesterNo > student.CurrentSemester {
			student.CurrentSemester = semesterNo
			if err := s.studentRepo.Update(ctx, student); err != nil {
				return nil, err
			}
		}

		if _, err := s.metrics.Recalculate(ctx, student.ID); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("sourceFile", storedPath).
		Int("semesterNo", semesterNo).
		Int("imported", summary.RecordsImported).
		Int("created", summary.StudentsCreated).
		Int("skipped", summary.RowsSkipped).
		Int("lateralSkipped", summary.LateralSkipped).
		Int("branchMismatches", summary.BranchMismatches).
		Msg("SGPA import finished")

	return summary, nil
}

// priorBacklogCount returns the backlog count a re-import is about to
// replace, or zero when the semester has not been imported before.
func (s *ImportService) priorBacklogCount(ctx context.Context, studentID int64, semesterNo int) (int, error) {
	prior, err := s.recordRepo.GetByStudentAndSemester(ctx, studentID, semesterNo)
	if err != nil {
		if errors.Is(err, apperrors.ErrSemesterNotImported) {
			return 0, nil
		}
		return 0, err
	}
	return prior.BacklogCount, nil
}

func (s *ImportService) findOrCreateStudent(ctx context.Context, row gradesheet.Row, branch string, summary *dto.ImportSummary) (*models.Student, error) {
	student, err := s.studentRepo.GetByRollNo(ctx, row.RollNo)
	if err == nil {
		return student, nil
	}
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		return nil, err
	}

	newBranch := branch
	if newBranch == "" {
		newBranch = defaultBranch
	}
	student = &models.Student{
		RollNo:            row.RollNo,
		Name:              row.Name,
		Branch:            newBranch,
		EligibilityStatus: models.EligibilityEligible,
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	summary.StudentsCreated++
	summary.CreatedRollNos = append(summary.CreatedRollNos, row.RollNo)

	return student, nil
}
