package testutil

import (
	"context"
	"sync"

	"github.com/healthbill/healthbill/internal/domain/healthservice"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/types"
)

// InMemoryHealthServiceStore implements healthservice.Repository
type InMemoryHealthServiceStore struct {
	*InMemoryStore[*healthservice.HealthService]
	// serialises MarkInvoiced so the draft check and the update happen together
	markMu sync.Mutex
}

func NewInMemoryHealthServiceStore() *InMemoryHealthServiceStore {
	return &InMemoryHealthServiceStore{
		InMemoryStore: NewInMemoryStore[*healthservice.HealthService](),
	}
}

// Create seeds a health service
func (s *InMemoryHealthServiceStore) Create(ctx context.Context, svc *healthservice.HealthService) error {
	return s.InMemoryStore.Create(ctx, svc.ID, svc)
}

func (s *InMemoryHealthServiceStore) Get(ctx context.Context, id string) (*healthservice.HealthService, error) {
	svc, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Health service %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	c := *svc
	c.Lines = append([]healthservice.ServiceLine(nil), svc.Lines...)
	return &c, nil
}

func (s *InMemoryHealthServiceStore) MarkInvoiced(ctx context.Context, ids []string) error {
	s.markMu.Lock()
	defer s.markMu.Unlock()

	services := make([]*healthservice.HealthService, 0, len(ids))
	for _, id := range ids {
		svc, err := s.InMemoryStore.Get(ctx, id)
		if err != nil {
			return ierr.WithError(err).
				WithHintf("Health service %s not found", id).
				Mark(ierr.ErrNotFound)
		}
		if svc.State != types.HealthServiceStateDraft {
			return healthservice.NewPreconditionError(healthservice.ErrServiceInvoiced,
				"A health service was invoiced by another request",
				map[string]any{"service_id": id})
		}
		services = append(services, svc)
	}

	for _, svc := range services {
		c := *svc
		c.State = types.HealthServiceStateInvoiced
		if err := s.InMemoryStore.Update(ctx, c.ID, &c); err != nil {
			return err
		}
	}
	return nil
}
