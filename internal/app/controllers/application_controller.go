package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/placement/internal/app/models"
	"github.com/campuskit/placement/internal/app/models/dto"
	"github.com/campuskit/placement/internal/app/repositories"
	"github.com/campuskit/placement/internal/app/services"
	"github.com/campuskit/placement/internal/middleware"
	"github.com/campuskit/placement/internal/pkg/apperrors"
	"github.com/campuskit/placement/internal/pkg/helpers"
)

// ApplicationController handles application workflow operations
type ApplicationController struct {
	applicationService *services.ApplicationService
	authService        *services.AuthService
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService *services.ApplicationService, authService *services.AuthService) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		authService:        authService,
	}
}

// currentStudentID resolves the student record linked to the authenticated
// account. Only STUDENT accounts carry one.
func (c *ApplicationController) currentStudentID(ctx *gin.Context) (int64, error) {
	userID, _ := middleware.CurrentUserID(ctx)
	user, err := c.authService.GetProfile(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user.StudentID == nil {
		return 0, nil
	}
	return *user.StudentID, nil
}

// CreateApplication submits an application
// @Summary Apply to a company
// @Description Submits an application after the eligibility check. Students apply for themselves; coordinators pass a studentId
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateApplicationRequest true "Application target"
// @Success 201 {object} dto.APIResponse{data=dto.ApplicationResponse} "Application submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Students cannot apply on behalf of others"
// @Failure 404 {object} dto.ErrorResponse "Student or company not found"
// @Failure 409 {object} dto.ErrorResponse "Already applied to this company"
// @Failure 422 {object} dto.ErrorResponse "Student fails the eligibility criteria"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications [post]
func (c *ApplicationController) CreateApplication(ctx *gin.Context) {
	var req dto.CreateApplicationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	studentID := req.StudentID
	if middleware.CurrentRole(ctx) == models.RoleStudent {
		ownID, err := c.currentStudentID(ctx)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		if ownID == 0 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "No student record linked to this account")
			ctx.JSON(http.StatusNotFound, dto.APIResponse{Error: errorDetail})
			return
		}
		if studentID != 0 && studentID != ownID {
			middleware.HandleAPIError(ctx, apperrors.NewForbiddenError("students can only apply for themselves"))
			return
		}
		studentID = ownID
	} else if studentID == 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "studentId is required")
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{Error: errorDetail})
		return
	}

	app, err := c.applicationService.Apply(ctx, studentID, req.CompanyID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.FromApplication(app),
	})
}

// GetApplication retrieves one application
// @Summary Get application by ID
// @Description Retrieves an application with its student and company. Students can only see their own
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse} "Application retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid application ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{id} [get]
func (c *ApplicationController) GetApplication(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	app, err := c.applicationService.GetApplication(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if middleware.CurrentRole(ctx) == models.RoleStudent {
		ownID, err := c.currentStudentID(ctx)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		if app.StudentID != ownID {
			middleware.HandleAPIError(ctx, apperrors.NewForbiddenError("students can only view their own applications"))
			return
		}
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FromApplication(app),
	})
}

// ListApplications retrieves applications with filters
// @Summary List applications
// @Description Retrieves applications filtered by student, company or status. Students only see their own
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student"
// @Param companyId query int false "Filter by company"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationListResponse} "Applications retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter parameters"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications [get]
func (c *ApplicationController) ListApplications(ctx *gin.Context) {
	var req dto.ApplicationFilterRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	filter := repositories.ApplicationFilter{
		StudentID: req.StudentID,
		CompanyID: req.CompanyID,
		Status:    req.Status,
	}

	if middleware.CurrentRole(ctx) == models.RoleStudent {
		ownID, err := c.currentStudentID(ctx)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		filter.StudentID = ownID
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	apps, total, err := c.applicationService.ListApplications(ctx, filter, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		items = append(items, dto.FromApplication(app))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.ApplicationListResponse{
			Applications: items,
			Pagination:   helpers.NewPaginationInfo(total, page, size),
		},
	})
}

// UpdateStatus moves an application through the pipeline
// @Summary Update application status
// @Description Moves an application to a new status. Selecting under a blocking policy closes the student's other open applications
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.UpdateApplicationStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse} "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 422 {object} dto.ErrorResponse "Transition not allowed from the current status"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications/{id}/status [put]
func (c *ApplicationController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	app, err := c.applicationService.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.FromApplication(app),
	})
}
