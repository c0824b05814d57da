// Package handler contains the gin handlers for the snapshot API.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketgrid/nsewatch/models"
)

// respondError writes a JSON error envelope with the status mapped from the
// ScrapeError code. Unknown errors are 500s with the raw message withheld.
func respondError(c *gin.Context, err error) {
	var se *models.ScrapeError
	if !errors.As(err, &se) {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: "internal error",
			Code:  models.ErrCodeInternal,
		})
		return
	}
	c.JSON(statusForCode(se.Code), models.ErrorResponse{
		Error: se.Message,
		Code:  se.Code,
	})
}

func statusForCode(code string) int {
	switch code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case models.ErrCodeNavigation, models.ErrCodeExtraction, models.ErrCodeBrowserCrash:
		return http.StatusBadGateway
	case models.ErrCodeSnapshotMissing:
		return http.StatusNotFound
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
