package invoice

import (
	"context"

	"github.com/healthbill/healthbill/internal/types"
)

// Repository defines the interface for invoice data access
type Repository interface {
	// CreateMany persists invoices with their lines and returns the persisted line ids per invoice
	CreateMany(ctx context.Context, invoices []*Invoice) (map[string][]string, error)
	Get(ctx context.Context, id string) (*Invoice, error)
	// Update persists header changes (state, amounts, reconciliation); lines are immutable
	Update(ctx context.Context, inv *Invoice) error
	ListByState(ctx context.Context, state types.InvoiceState) ([]*Invoice, error)
}
