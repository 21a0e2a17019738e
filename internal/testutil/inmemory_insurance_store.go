package testutil

import (
	"context"

	"github.com/healthbill/healthbill/internal/domain/insurance"
	ierr "github.com/healthbill/healthbill/internal/errors"
)

// InMemoryInsuranceStore implements insurance.Repository
type InMemoryInsuranceStore struct {
	cards *InMemoryStore[*insurance.Insurance]
	plans *InMemoryStore[*insurance.Plan]
}

func NewInMemoryInsuranceStore() *InMemoryInsuranceStore {
	return &InMemoryInsuranceStore{
		cards: NewInMemoryStore[*insurance.Insurance](),
		plans: NewInMemoryStore[*insurance.Plan](),
	}
}

// CreateInsurance seeds a member card
func (s *InMemoryInsuranceStore) CreateInsurance(ctx context.Context, i *insurance.Insurance) error {
	return s.cards.Create(ctx, i.ID, i)
}

// CreatePlan seeds a plan with its policies
func (s *InMemoryInsuranceStore) CreatePlan(ctx context.Context, p *insurance.Plan) error {
	return s.plans.Create(ctx, p.ID, p)
}

func (s *InMemoryInsuranceStore) GetInsurance(ctx context.Context, id string) (*insurance.Insurance, error) {
	i, err := s.cards.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Insurance %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	return i, nil
}

func (s *InMemoryInsuranceStore) GetPlan(ctx context.Context, id string) (*insurance.Plan, error) {
	p, err := s.plans.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Insurance plan %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryInsuranceStore) Clear() {
	s.cards.Clear()
	s.plans.Clear()
}
