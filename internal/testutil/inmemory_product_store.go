package testutil

import (
	"context"

	"github.com/healthbill/healthbill/internal/domain/product"
	ierr "github.com/healthbill/healthbill/internal/errors"
)

// InMemoryProductStore implements product.Repository
type InMemoryProductStore struct {
	*InMemoryStore[*product.Product]
}

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		InMemoryStore: NewInMemoryStore[*product.Product](),
	}
}

// Create seeds a product
func (s *InMemoryProductStore) Create(ctx context.Context, p *product.Product) error {
	return s.InMemoryStore.Create(ctx, p.ID, p)
}

func (s *InMemoryProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Product %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryProductStore) GetMany(ctx context.Context, ids []string) (map[string]*product.Product, error) {
	result := make(map[string]*product.Product, len(ids))
	for _, id := range ids {
		if p, err := s.InMemoryStore.Get(ctx, id); err == nil {
			result[id] = p
		}
	}
	return result, nil
}
