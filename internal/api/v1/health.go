package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/healthbill/healthbill/internal/logger"
)

type HealthHandler struct {
	logger *logger.Logger
}

func NewHealthHandler(logger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		logger: logger,
	}
}

// Health reports that the API process is up
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
