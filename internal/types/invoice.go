package types

import (
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/samber/lo"
)

// InvoiceType is the direction of an invoice; health services only produce customer invoices
type InvoiceType string

const (
	InvoiceTypeOut InvoiceType = "out"
	InvoiceTypeIn  InvoiceType = "in"
)

// InvoiceState is the accounting lifecycle of an invoice
type InvoiceState string

const (
	InvoiceStateDraft     InvoiceState = "draft"
	InvoiceStatePosted    InvoiceState = "posted"
	InvoiceStatePaid      InvoiceState = "paid"
	InvoiceStateCancelled InvoiceState = "cancelled"
)

func (s InvoiceState) String() string {
	return string(s)
}

func (s InvoiceState) Validate() error {
	allowed := []InvoiceState{
		InvoiceStateDraft,
		InvoiceStatePosted,
		InvoiceStatePaid,
		InvoiceStateCancelled,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice state").
			WithHint("Please provide a valid invoice state").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceLineType distinguishes priced lines from layout lines (titles, comments)
type InvoiceLineType string

const (
	InvoiceLineTypeLine     InvoiceLineType = "line"
	InvoiceLineTypeSubtotal InvoiceLineType = "subtotal"
	InvoiceLineTypeTitle    InvoiceLineType = "title"
	InvoiceLineTypeComment  InvoiceLineType = "comment"
)

// PaymentDecision is the outcome of validating a payment against an invoice
type PaymentDecision string

const (
	// PaymentDecisionFull settles the remaining amount
	PaymentDecisionFull PaymentDecision = "full"
	// PaymentDecisionPartial leaves a remainder that must be confirmed by the cashier
	PaymentDecisionPartial PaymentDecision = "partial"
)
