package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/silvercase/attendance-backend/internal/services"
	"github.com/silvercase/attendance-backend/pkg/validator"
)

// respondError maps service errors to the JSON error body used across the API.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, validator.ErrEmptyPhone), errors.Is(err, validator.ErrInvalidFormat):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_input",
			"message": err.Error(),
			"code":    "INVALID_INPUT",
		})
	case errors.Is(err, services.ErrStaffNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Staff member not found",
			"code":    "STAFF_NOT_FOUND",
		})
	case errors.Is(err, services.ErrDocumentNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Document not found",
			"code":    "DOCUMENT_NOT_FOUND",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Something went wrong",
			"code":    "INTERNAL_ERROR",
		})
	}
}

// respondBadRequest reports a malformed request with a caller-facing message.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_input",
		"message": message,
		"code":    "INVALID_INPUT",
	})
}
