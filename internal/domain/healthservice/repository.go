package healthservice

import "context"

// Repository defines the interface for health service data access
type Repository interface {
	// Get returns the service with its lines ordered by sequence
	Get(ctx context.Context, id string) (*HealthService, error)
	// MarkInvoiced moves the services to the invoiced state
	MarkInvoiced(ctx context.Context, ids []string) error
}
