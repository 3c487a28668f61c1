package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/placement/internal/app/models/dto"
	"github.com/campuskit/placement/internal/app/repositories"
	"github.com/campuskit/placement/internal/app/services"
	"github.com/campuskit/placement/internal/middleware"
	"github.com/campuskit/placement/internal/pkg/helpers"
)

// StudentController handles student record operations
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{
		studentService: studentService,
	}
}

// CreateStudent handles manual student creation
// @Summary Create a student record
// @Description Creates a student record; most records arrive via the SGPA import instead
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Student created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Roll number already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.CreateStudent(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.FromStudent(student),
	})
}

// GetStudent retrieves a student with their semester records
// @Summary Get student by ID
// @Description Retrieves a student record including imported semester results
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [get]
func (c *StudentController) GetStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	student, records, err := c.studentService.GetStudent(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.FromStudent(student)
	resp.Semesters = make([]dto.SemesterRecordResponse, 0, len(records))
	for _, record := range records {
		resp.Semesters = append(resp.Semesters, dto.FromSemesterRecord(record))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: resp,
	})
}

// ListStudents retrieves students with filters and pagination
// @Summary List students
// @Description Retrieves students filtered by branch, CGPA cutoff, backlogs, standing or a roll number / name search
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param branch query string false "Branch code"
// @Param minCgpa query number false "Minimum CGPA"
// @Param maxBacklogs query int false "Maximum total backlogs"
// @Param eligibilityStatus query string false "Placement standing"
// @Param search query string false "Roll number or name fragment"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.StudentListResponse} "Students retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) ListStudents(ctx *gin.Context) {
	var req dto.StudentFilterRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	filter := repositories.StudentFilter{
		Branch:            req.Branch,
		MinCGPA:           req.MinCGPA,
		EligibilityStatus: req.EligibilityStatus,
		Search:            req.Search,
	}
	if ctx.Query("maxBacklogs") != "" {
		filter.MaxBacklogs = &req.MaxBacklogs
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	students, total, err := c.studentService.ListStudents(ctx, filter, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		items = append(items, dto.FromStudent(student))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.StudentListResponse{
			Students:   items,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
	})
}

// UpdateStudent edits a student record
// @Summary Update a student
// @Description Updates editable student fields; toggling lateral entry recomputes CGPA and backlogs
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Updated student information"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Student updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [put]
func (c *StudentController) UpdateStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	student, err := c.studentService.UpdateStudent(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FromStudent(student),
	})
}

// UpdateResumeLink sets a student's resume link
// @Summary Update resume link
// @Description Sets the resume link required before a student can apply to companies
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateResumeLinkRequest true "Resume link"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Resume link updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/resume-link [put]
func (c *StudentController) UpdateResumeLink(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateResumeLinkRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.studentService.UpdateResumeLink(ctx, id, req.ResumeLink); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Resume link updated"},
	})
}

// UpdateEligibility overrides a student's placement standing
// @Summary Update eligibility status
// @Description Sets the student's placement standing manually, e.g. EXTERNAL_PLACED or back to ELIGIBLE
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateEligibilityRequest true "New standing and optional reason"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Eligibility updated"
// @Failure 400 {object} dto.ErrorResponse "Unknown eligibility status"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/eligibility-status [put]
func (c *StudentController) UpdateEligibility(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateEligibilityRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.studentService.UpdateEligibility(ctx, id, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.SuccessResponse{Message: "Eligibility status updated"},
	})
}

// UpdateBacklog corrects one semester's backlog count
// @Summary Correct a backlog count
// @Description Updates the backlog count for one imported semester, appends an audit entry and recomputes aggregates
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body dto.UpdateBacklogRequest true "Semester and corrected count"
// @Success 200 {object} dto.APIResponse{data=dto.StudentResponse} "Backlog corrected, aggregates recomputed"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student or semester record not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/backlog [put]
func (c *StudentController) UpdateBacklog(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateBacklogRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	actor, _ := ctx.Get(middleware.ContextEmail)
	actorEmail, _ := actor.(string)

	result, err := c.studentService.UpdateBacklog(ctx, id, &req, actorEmail)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: gin.H{
			"cgpa":          result.CGPA,
			"totalBacklogs": result.TotalBacklogs,
		},
	})
}

// GetBacklogHistory lists backlog corrections for a student
// @Summary Get backlog history
// @Description Retrieves the audit trail of backlog corrections, newest first
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.BacklogHistoryResponse} "History retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id}/backlog-history [get]
func (c *StudentController) GetBacklogHistory(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	entries, err := c.studentService.GetBacklogHistory(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.BacklogHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.FromBacklogHistory(entry))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: items,
	})
}

// DeleteStudent removes a student record
// @Summary Delete a student
// @Description Deletes the student and their semester records, applications and backlog history
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 204 "Student deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.studentService.DeleteStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
