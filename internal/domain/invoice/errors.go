package invoice

import (
	"errors"
	"fmt"

	ierr "github.com/healthbill/healthbill/internal/errors"
)

var (
	// ErrInvoiceNotDraft is returned when posting an invoice that already left draft
	ErrInvoiceNotDraft = errors.New("invoice is not a draft")

	// ErrInvoiceNotPosted is returned when paying an invoice that is not posted
	ErrInvoiceNotPosted = errors.New("invoice is not posted")

	// ErrPaymentBelowMinimum is returned when a first payment is below the accepted share of the amount to pay
	ErrPaymentBelowMinimum = errors.New("payment below minimum")
)

// ValidationError represents an error that occurs during invoice validation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error marked with ierr.ErrValidation
func NewValidationError(field, message string) error {
	return ierr.WithError(&ValidationError{Field: field, Message: message}).
		WithHintf("Invoice %s %s", field, message).
		Mark(ierr.ErrValidation)
}
