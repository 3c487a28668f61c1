package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/placement/internal/app/services"
	"github.com/campuskit/placement/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportController handles applicant spreadsheet downloads
type ExportController struct {
	exportService *services.ExportService
}

// NewExportController creates a new ExportController
func NewExportController(exportService *services.ExportService) *ExportController {
	return &ExportController{
		exportService: exportService,
	}
}

// ExportCompany downloads one company's applicant sheet
// @Summary Export a company's applicants
// @Description Builds an xlsx of the company's applicants shaped by its export template and marks the applications exported
// @Tags exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path int true "Company ID"
// @Success 200 {file} binary "Applicant workbook"
// @Failure 400 {object} dto.ErrorResponse "Stored template no longer validates"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exports/companies/{id} [get]
func (c *ExportController) ExportCompany(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	result, err := c.exportService.ExportCompany(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	writeWorkbook(ctx, result)
}

// ExportAll downloads one workbook covering every company
// @Summary Export all applicants
// @Description Builds an xlsx with one sheet per company. Companies whose templates fail validation are skipped and listed in the X-Export-Warnings header
// @Tags exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} binary "Applicant workbook"
// @Failure 400 {object} dto.ErrorResponse "Every company template failed validation"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "No companies to export"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /exports/companies [get]
func (c *ExportController) ExportAll(ctx *gin.Context) {
	result, err := c.exportService.ExportAll(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if len(result.Warnings) > 0 {
		ctx.Header("X-Export-Warnings", strings.Join(result.Warnings, "; "))
	}
	writeWorkbook(ctx, result)
}

func writeWorkbook(ctx *gin.Context, result *services.ExportResult) {
	ctx.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	ctx.Data(http.StatusOK, xlsxContentType, result.Content)
}
