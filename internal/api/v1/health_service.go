package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/healthbill/healthbill/internal/api/dto"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/service"
)

type HealthServiceHandler struct {
	service service.HealthServiceInvoiceService
	logger  *logger.Logger
}

func NewHealthServiceHandler(service service.HealthServiceInvoiceService, logger *logger.Logger) *HealthServiceHandler {
	return &HealthServiceHandler{
		service: service,
		logger:  logger,
	}
}

// CreateInvoices godoc
// @Summary Invoice health services
// @Description Create one draft invoice per health service. Either every service is invoiced or none is.
// @Tags HealthServices
// @Accept json
// @Produce json
// @Param request body dto.CreateServiceInvoicesRequest true "Services to invoice"
// @Success 201 {object} dto.CreateServiceInvoicesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /health-services/invoice [post]
func (h *HealthServiceHandler) CreateInvoices(c *gin.Context) {
	var req dto.CreateServiceInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateInvoices(c.Request.Context(), req)
	if err != nil {
		h.logger.Errorw("failed to invoice health services", "error", err, "service_ids", req.ServiceIDs)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
