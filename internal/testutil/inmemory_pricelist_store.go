package testutil

import (
	"context"

	"github.com/healthbill/healthbill/internal/domain/pricelist"
	ierr "github.com/healthbill/healthbill/internal/errors"
)

// InMemoryPriceListStore implements pricelist.Repository
type InMemoryPriceListStore struct {
	*InMemoryStore[*pricelist.PriceList]

	// Gets counts repository reads so tests can observe caching
	Gets int
}

func NewInMemoryPriceListStore() *InMemoryPriceListStore {
	return &InMemoryPriceListStore{
		InMemoryStore: NewInMemoryStore[*pricelist.PriceList](),
	}
}

// Create seeds a price list
func (s *InMemoryPriceListStore) Create(ctx context.Context, pl *pricelist.PriceList) error {
	return s.InMemoryStore.Create(ctx, pl.ID, pl)
}

func (s *InMemoryPriceListStore) Get(ctx context.Context, id string) (*pricelist.PriceList, error) {
	s.Gets++
	pl, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Price list %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	return pl, nil
}

func (s *InMemoryPriceListStore) Clear() {
	s.InMemoryStore.Clear()
	s.Gets = 0
}
