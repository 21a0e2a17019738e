package testutil

import (
	"context"

	"github.com/healthbill/healthbill/internal/domain/party"
	ierr "github.com/healthbill/healthbill/internal/errors"
)

// InMemoryPartyStore implements party.Repository
type InMemoryPartyStore struct {
	*InMemoryStore[*party.Party]
}

func NewInMemoryPartyStore() *InMemoryPartyStore {
	return &InMemoryPartyStore{
		InMemoryStore: NewInMemoryStore[*party.Party](),
	}
}

// Create seeds a party
func (s *InMemoryPartyStore) Create(ctx context.Context, p *party.Party) error {
	return s.InMemoryStore.Create(ctx, p.ID, p)
}

func (s *InMemoryPartyStore) Get(ctx context.Context, id string) (*party.Party, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Party %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	c := *p
	c.Addresses = append([]party.Address(nil), p.Addresses...)
	return &c, nil
}
