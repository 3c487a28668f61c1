package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/placement/internal/app/models/dto"
	"github.com/campuskit/placement/internal/app/services"
	"github.com/campuskit/placement/internal/middleware"
)

// ImportController handles SGPA PDF imports
type ImportController struct {
	importService *services.ImportService
}

// NewImportController creates a new ImportController
func NewImportController(importService *services.ImportService) *ImportController {
	return &ImportController{
		importService: importService,
	}
}

// ImportSGPA ingests one semester's results from a university PDF
// @Summary Import SGPA results from a PDF
// @Description Parses a university grade sheet PDF and upserts one semester's results. Unknown roll numbers create new student records
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Grade sheet PDF"
// @Param semesterNo formData int true "Semester number (1-10)"
// @Param credits formData number true "Total credits for the semester"
// @Param branch formData string false "Branch assigned to newly created students"
// @Success 200 {object} dto.APIResponse{data=dto.ImportSummary} "Import summary"
// @Failure 400 {object} dto.ErrorResponse "Missing file, bad parameters or unparseable PDF"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /imports/sgpa [post]
func (c *ImportController) ImportSGPA(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Grade sheet PDF is required")
		errorDetail = errorDetail.WithDetails("attach the PDF as the 'file' form field")
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{Error: errorDetail})
		return
	}

	semesterNo, err := strconv.Atoi(ctx.PostForm("semesterNo"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "semesterNo must be a number")
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{Error: errorDetail})
		return
	}

	credits, err := strconv.ParseFloat(ctx.PostForm("credits"), 64)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "credits must be a number")
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{Error: errorDetail})
		return
	}

	branch := strings.TrimSpace(ctx.PostForm("branch"))

	summary, err := c.importService.ImportSGPA(ctx, fileHeader, semesterNo, credits, branch, middleware.CurrentEmail(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: summary,
	})
}
