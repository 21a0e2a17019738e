package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/service"
)

type CommissionHandler struct {
	service service.CommissionService
	logger  *logger.Logger
}

func NewCommissionHandler(service service.CommissionService, logger *logger.Logger) *CommissionHandler {
	return &CommissionHandler{
		service: service,
		logger:  logger,
	}
}

// GenerateForPaidInvoices godoc
// @Summary Book commissions for paid invoices
// @Description Create the commissions missing on paid invoices. Safe to run repeatedly.
// @Tags Commissions
// @Produce json
// @Success 200 {object} dto.ListCommissionsResponse
// @Router /commissions/generate [post]
func (h *CommissionHandler) GenerateForPaidInvoices(c *gin.Context) {
	resp, err := h.service.GenerateForPaidInvoices(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to generate commissions", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListAgentCommissions godoc
// @Summary List the commissions of an agent
// @Tags Commissions
// @Produce json
// @Param id path string true "Agent ID"
// @Success 200 {object} dto.ListCommissionsResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /agents/{id}/commissions [get]
func (h *CommissionHandler) ListAgentCommissions(c *gin.Context) {
	resp, err := h.service.ListAgentCommissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
