package testutil

import (
	"context"

	"github.com/healthbill/healthbill/internal/domain/invoice"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/samber/lo"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

// NewInMemoryInvoiceStore creates a new in-memory invoice store
func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

// Helper to copy invoice
func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	if inv == nil {
		return nil
	}
	c := *inv
	c.Lines = lo.Map(inv.Lines, func(l *invoice.InvoiceLine, _ int) *invoice.InvoiceLine {
		lc := *l
		lc.TaxIDs = append([]string(nil), l.TaxIDs...)
		return &lc
	})
	return &c
}

func (s *InMemoryInvoiceStore) CreateMany(ctx context.Context, invoices []*invoice.Invoice) (map[string][]string, error) {
	lineIDs := make(map[string][]string, len(invoices))
	for _, inv := range invoices {
		if err := s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv)); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to create invoice").
				Mark(ierr.ErrAlreadyExists)
		}
		lineIDs[inv.ID] = lo.Map(inv.Lines, func(l *invoice.InvoiceLine, _ int) string {
			return l.ID
		})
	}
	return lineIDs, nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Invoice %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	existing, err := s.InMemoryStore.Get(ctx, inv.ID)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Invoice %s not found", inv.ID).
			Mark(ierr.ErrNotFound)
	}
	updated := copyInvoice(inv)
	// lines are immutable once created
	updated.Lines = existing.Lines
	return s.InMemoryStore.Update(ctx, inv.ID, updated)
}

func (s *InMemoryInvoiceStore) ListByState(ctx context.Context, state types.InvoiceState) ([]*invoice.Invoice, error) {
	items := s.InMemoryStore.List(ctx, func(ctx context.Context, inv *invoice.Invoice) bool {
		return inv.State == state && CheckTenantFilter(ctx, inv.TenantID)
	}, func(a, b *invoice.Invoice) bool {
		return a.ID < b.ID
	})
	return lo.Map(items, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return copyInvoice(inv)
	}), nil
}
