package testutil

import (
	"context"
	"time"

	"github.com/healthbill/healthbill/internal/domain/commission"
	ierr "github.com/healthbill/healthbill/internal/errors"
)

// InMemoryCommissionStore implements commission.Repository
type InMemoryCommissionStore struct {
	*InMemoryStore[*commission.Commission]
	agents *InMemoryStore[*commission.Agent]
	plans  *InMemoryStore[*commission.Plan]
}

func NewInMemoryCommissionStore() *InMemoryCommissionStore {
	return &InMemoryCommissionStore{
		InMemoryStore: NewInMemoryStore[*commission.Commission](),
		agents:        NewInMemoryStore[*commission.Agent](),
		plans:         NewInMemoryStore[*commission.Plan](),
	}
}

// CreateAgent seeds an agent
func (s *InMemoryCommissionStore) CreateAgent(ctx context.Context, a *commission.Agent) error {
	return s.agents.Create(ctx, a.ID, a)
}

// CreatePlan seeds a commission plan
func (s *InMemoryCommissionStore) CreatePlan(ctx context.Context, p *commission.Plan) error {
	return s.plans.Create(ctx, p.ID, p)
}

func (s *InMemoryCommissionStore) CreateMany(ctx context.Context, commissions []*commission.Commission) error {
	for _, c := range commissions {
		if exists, _ := s.ExistsForOrigin(ctx, c.Origin); exists {
			return ierr.NewError("commission already exists").
				WithHintf("A commission already exists for %s", c.Origin).
				Mark(ierr.ErrAlreadyExists)
		}
		cc := *c
		if err := s.InMemoryStore.Create(ctx, c.ID, &cc); err != nil {
			return err
		}
	}
	return nil
}

func (s *InMemoryCommissionStore) findByOrigin(ctx context.Context, origin string) *commission.Commission {
	items := s.InMemoryStore.List(ctx, func(_ context.Context, c *commission.Commission) bool {
		return c.Origin == origin
	}, nil)
	if len(items) == 0 {
		return nil
	}
	return items[0]
}

func (s *InMemoryCommissionStore) ExistsForOrigin(ctx context.Context, origin string) (bool, error) {
	return s.findByOrigin(ctx, origin) != nil, nil
}

func (s *InMemoryCommissionStore) SetDateIfUnset(ctx context.Context, origin string, date time.Time) error {
	c := s.findByOrigin(ctx, origin)
	if c == nil || c.Date != nil {
		return nil
	}
	cc := *c
	cc.Date = &date
	return s.InMemoryStore.Update(ctx, c.ID, &cc)
}

func (s *InMemoryCommissionStore) ListByAgent(ctx context.Context, agentID string) ([]*commission.Commission, error) {
	return s.InMemoryStore.List(ctx, func(ctx context.Context, c *commission.Commission) bool {
		return c.AgentID == agentID && CheckTenantFilter(ctx, c.TenantID)
	}, func(a, b *commission.Commission) bool {
		return a.Origin < b.Origin
	}), nil
}

func (s *InMemoryCommissionStore) GetAgent(ctx context.Context, id string) (*commission.Agent, error) {
	a, err := s.agents.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Agent %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	return a, nil
}

func (s *InMemoryCommissionStore) GetPlan(ctx context.Context, id string) (*commission.Plan, error) {
	p, err := s.plans.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Commission plan %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryCommissionStore) Clear() {
	s.InMemoryStore.Clear()
	s.agents.Clear()
	s.plans.Clear()
}
