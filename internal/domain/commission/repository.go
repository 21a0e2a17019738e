package commission

import (
	"context"
	"time"
)

// Repository defines the interface for commission data access
type Repository interface {
	CreateMany(ctx context.Context, commissions []*Commission) error
	// ExistsForOrigin reports whether a commission was already booked for an invoice line
	ExistsForOrigin(ctx context.Context, origin string) (bool, error)
	// SetDateIfUnset dates the commission of an origin that is still waiting for payment
	SetDateIfUnset(ctx context.Context, origin string, date time.Time) error
	ListByAgent(ctx context.Context, agentID string) ([]*Commission, error)
	GetAgent(ctx context.Context, id string) (*Agent, error)
	GetPlan(ctx context.Context, id string) (*Plan, error)
}
