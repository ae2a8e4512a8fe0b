package httpapi

import (
	"errors"
	"net/http"

	"matrimony-platform/internal/budget"
	"matrimony-platform/internal/calls"
	"matrimony-platform/internal/ledger"
	"matrimony-platform/internal/payments"
	"matrimony-platform/internal/telephony"
	"matrimony-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// writeError maps service sentinel errors onto the HTTP surface. Unknown
// errors become opaque 500s; details go to the log, not the client.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, calls.ErrInvalidArgument),
		errors.Is(err, ledger.ErrInvalidArgument),
		errors.Is(err, payments.ErrInvalidArgument),
		errors.Is(err, budget.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	case errors.Is(err, calls.ErrNotFound),
		errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, payments.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})

	case errors.Is(err, payments.ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "already processed"})

	case errors.Is(err, ledger.ErrInsufficientCredits):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "insufficient credits"})

	case errors.Is(err, telephony.ErrProviderUnavailable):
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "call provider unavailable"})

	default:
		logger.FromGin(c).Error("request failed", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
