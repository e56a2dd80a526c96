package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lablabs/cloudflare-analytics/internal/logging"
	"github.com/lablabs/cloudflare-analytics/internal/models"
)

// ErrorHandler middleware handles errors and logs them
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			status := StatusFor(err)
			logging.Error("Request error", map[string]interface{}{
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
				"status": status,
				"error":  err.Error(),
			})
			c.JSON(status, gin.H{"error": err.Error()})
		}
	}
}

// StatusFor maps a service error to the HTTP status returned to API callers.
func StatusFor(err error) int {
	var (
		formatErr *models.InvalidFormatError
		tooOldErr *models.WindowTooOldError
		planErr   *models.PlanUnsupportedError
		queryErr  *models.QueryFailedError
		dataErr   *models.DataIntegrityError
	)

	switch {
	case errors.As(err, &formatErr), errors.As(err, &tooOldErr):
		return http.StatusBadRequest
	case errors.As(err, &planErr):
		return http.StatusForbidden
	case errors.As(err, &queryErr), errors.As(err, &dataErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
