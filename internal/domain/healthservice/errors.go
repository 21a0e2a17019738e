package healthservice

import (
	"errors"

	ierr "github.com/healthbill/healthbill/internal/errors"
)

var (
	// ErrServiceInvoiced is returned when a service has already been turned into an invoice
	ErrServiceInvoiced = errors.New("health service already invoiced")

	// ErrNoAccountReceivable is returned when neither the party nor the accounting defaults name a receivable account
	ErrNoAccountReceivable = errors.New("no account receivable")

	// ErrNoPaymentTerm is returned when neither the party nor the accounting defaults name a payment term
	ErrNoPaymentTerm = errors.New("no payment term")

	// ErrNoInvoiceAddress is returned when the billed party has no invoice address
	ErrNoInvoiceAddress = errors.New("no invoice address")

	// ErrNoRevenueJournal is returned when no revenue journal exists
	ErrNoRevenueJournal = errors.New("no revenue journal")

	// ErrNoAccountRevenue is returned when an invoiced product has no revenue account
	ErrNoAccountRevenue = errors.New("no account revenue")
)

// NewPreconditionError wraps one of the sentinels above into a user facing error.
// errors.Is matches both the sentinel and ierr.ErrPrecondition.
func NewPreconditionError(sentinel error, hint string, details map[string]any) error {
	b := ierr.WithError(sentinel).WithHint(hint)
	if len(details) > 0 {
		b = b.WithReportableDetails(details)
	}
	return b.Mark(ierr.ErrPrecondition)
}
