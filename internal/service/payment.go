package service

import (
	"context"

	"github.com/healthbill/healthbill/internal/api/dto"
	"github.com/healthbill/healthbill/internal/domain/invoice"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/shopspring/decimal"
)

// PaymentService checks cashier payments against posted invoices
type PaymentService interface {
	ValidatePayment(ctx context.Context, invoiceID string, req dto.ValidatePaymentRequest) (*dto.ValidatePaymentResponse, error)
}

type paymentService struct {
	ServiceParams
}

func NewPaymentService(params ServiceParams) PaymentService {
	return &paymentService{ServiceParams: params}
}

// ValidatePayment rejects a first payment below the configured share of the amount
// to pay. Later payments only need to be positive.
func (s *paymentService) ValidatePayment(ctx context.Context, invoiceID string, req dto.ValidatePaymentRequest) (*dto.ValidatePaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inv, err := s.InvoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.State != types.InvoiceStatePosted {
		return nil, ierr.WithError(invoice.ErrInvoiceNotPosted).
			WithHintf("Invoice %s is %s and cannot receive payments", inv.ID, inv.State).
			Mark(ierr.ErrInvalidOperation)
	}

	due := inv.AmountToPay()
	minimum := decimal.Zero
	if inv.AmountPaid.IsZero() {
		minimum = types.RoundAmount(due.Mul(s.Config.Billing.PaymentRatio()), s.Config.Billing.AmountDigits)
	}

	if req.Amount.LessThan(minimum) {
		return nil, ierr.WithError(invoice.ErrPaymentBelowMinimum).
			WithHintf("The first payment must be at least %s", minimum.StringFixed(s.Config.Billing.AmountDigits)).
			WithReportableDetails(map[string]any{
				"invoice_id":     inv.ID,
				"amount":         req.Amount.String(),
				"amount_to_pay":  due.String(),
				"minimum_amount": minimum.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	resp := &dto.ValidatePaymentResponse{
		InvoiceID:     inv.ID,
		Decision:      types.PaymentDecisionFull,
		Amount:        req.Amount,
		AmountToPay:   due,
		Remaining:     decimal.Zero,
		MinimumAmount: minimum,
	}
	if req.Amount.LessThan(due) {
		resp.Decision = types.PaymentDecisionPartial
		resp.Remaining = due.Sub(req.Amount)
	}
	return resp, nil
}
