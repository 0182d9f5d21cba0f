package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/smahadik/goldtea/internal/domain/models"
)

// respondError maps domain errors to HTTP statuses: violated invariants are
// the client's fault, missing records are 404, store failures are 502.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case models.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrStoreUnavailable):
		logger.Error("store unavailable", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "store unavailable"})
	default:
		logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
