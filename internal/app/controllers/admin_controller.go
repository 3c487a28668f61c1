package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/placement/internal/app/models/dto"
	"github.com/campuskit/placement/internal/app/services"
	"github.com/campuskit/placement/internal/middleware"
	"github.com/campuskit/placement/internal/pkg/helpers"
)

// AdminController handles account management, the email delivery log and the
// dashboard counters.
type AdminController struct {
	userService *services.UserService
}

// NewAdminController creates a new AdminController
func NewAdminController(userService *services.UserService) *AdminController {
	return &AdminController{
		userService: userService,
	}
}

// ListUsers retrieves user accounts
// @Summary List user accounts
// @Description Retrieves accounts with optional role filtering
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param role query string false "Filter by role (ADMIN, PLACEMENT_COORDINATOR, STUDENT)"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.UserListResponse} "Users retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/users [get]
func (c *AdminController) ListUsers(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	users, total, err := c.userService.ListUsers(ctx, ctx.Query("role"), offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, dto.FromUser(user))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.UserListResponse{
			Users:      items,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
	})
}

// CreateUser creates a staff account
// @Summary Create a staff account
// @Description Creates a verified ADMIN or PLACEMENT_COORDINATOR account
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "Staff account details"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse} "User created"
// @Failure 400 {object} dto.ErrorResponse "Validation error"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/users [post]
func (c *AdminController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.CreateUser(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data: dto.FromUser(user),
	})
}

// DeleteUser removes a user account
// @Summary Delete a user account
// @Description Deletes an account. Admins cannot delete their own account
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204 "User deleted"
// @Failure 400 {object} dto.ErrorResponse "Cannot delete own account"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/users/{id} [delete]
func (c *AdminController) DeleteUser(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	callerID, _ := middleware.CurrentUserID(ctx)
	if err := c.userService.DeleteUser(ctx, id, callerID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListNotifications retrieves the email delivery log
// @Summary List notification logs
// @Description Retrieves outbound email attempts, newest first, for debugging delivery
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.NotificationListResponse} "Logs retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/notifications [get]
func (c *AdminController) ListNotifications(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	entries, total, err := c.userService.ListNotifications(ctx, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	items := make([]dto.NotificationLogResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, dto.FromNotificationLog(entry))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.NotificationListResponse{
			Notifications: items,
			Pagination:    helpers.NewPaginationInfo(total, page, size),
		},
	})
}

// GetDashboard retrieves placement season counters
// @Summary Get dashboard counters
// @Description Retrieves aggregate counts: students by standing, companies, applications by status and distinct placed students
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse} "Counters retrieved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /dashboard [get]
func (c *AdminController) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.userService.GetDashboard(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dashboard,
	})
}
