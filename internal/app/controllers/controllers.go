// Package controllers wires HTTP requests to the service layer. Controllers
// bind and validate input, delegate to services and translate results into
// the JSON envelope; all domain rules live in the services.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/placement/internal/app/models/dto"
)

// parseIDParam reads a positive int64 path parameter. On failure it writes
// the validation error response and returns false.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid "+name+" parameter")
		errorDetail = errorDetail.WithDetails(name + " must be a positive number")
		c.JSON(http.StatusBadRequest, dto.APIResponse{Error: errorDetail})
		return 0, false
	}
	return id, true
}
