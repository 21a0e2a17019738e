package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/healthbill/healthbill/internal/api/dto"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/service"
)

type InvoiceHandler struct {
	invoiceService service.InvoiceService
	paymentService service.PaymentService
	logger         *logger.Logger
}

func NewInvoiceHandler(invoiceService service.InvoiceService, paymentService service.PaymentService, logger *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		paymentService: paymentService,
		logger:         logger,
	}
}

// GetInvoice godoc
// @Summary Get an invoice by ID
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	resp, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PostInvoice godoc
// @Summary Post a draft invoice
// @Description Post a draft invoice and book the commissions of its agent
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /invoices/{id}/post [post]
func (h *InvoiceHandler) PostInvoice(c *gin.Context) {
	id := c.Param("id")

	resp, err := h.invoiceService.PostInvoice(c.Request.Context(), id)
	if err != nil {
		h.logger.Errorw("failed to post invoice", "error", err, "invoice_id", id)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// MarkPaid godoc
// @Summary Mark a posted invoice as paid
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body dto.MarkInvoicePaidRequest false "Reconciliation date"
// @Success 200 {object} dto.InvoiceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /invoices/{id}/pay [post]
func (h *InvoiceHandler) MarkPaid(c *gin.Context) {
	id := c.Param("id")

	var req dto.MarkInvoicePaidRequest
	// the body is optional
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Invalid request format").
				Mark(ierr.ErrValidation))
			return
		}
	}

	resp, err := h.invoiceService.MarkPaid(c.Request.Context(), id, req)
	if err != nil {
		h.logger.Errorw("failed to mark invoice paid", "error", err, "invoice_id", id)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ValidatePayment godoc
// @Summary Validate a payment against an invoice
// @Description Reject a first payment below the minimum share and tell whether the payment settles the invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID"
// @Param request body dto.ValidatePaymentRequest true "Payment"
// @Success 200 {object} dto.ValidatePaymentResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /invoices/{id}/payments/validate [post]
func (h *InvoiceHandler) ValidatePayment(c *gin.Context) {
	var req dto.ValidatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.paymentService.ValidatePayment(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
