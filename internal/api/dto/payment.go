package dto

import (
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/healthbill/healthbill/internal/validator"
	"github.com/shopspring/decimal"
)

// ValidatePaymentRequest checks a cashier payment before it is registered
type ValidatePaymentRequest struct {
	Amount decimal.Decimal `json:"amount" validate:"required"`
}

func (r *ValidatePaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return ierr.NewError("amount must be positive").
			WithHint("Payment amount must be greater than zero").
			WithReportableDetails(map[string]any{
				"amount": r.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ValidatePaymentResponse tells the cashier whether the payment settles the invoice
type ValidatePaymentResponse struct {
	InvoiceID   string                `json:"invoice_id"`
	Decision    types.PaymentDecision `json:"decision"`
	Amount      decimal.Decimal       `json:"amount"`
	AmountToPay decimal.Decimal       `json:"amount_to_pay"`
	// Remaining is what is still due once the payment is registered
	Remaining decimal.Decimal `json:"remaining"`
	// MinimumAmount is the smallest accepted first payment
	MinimumAmount decimal.Decimal `json:"minimum_amount"`
}
