package party

import "context"

// Repository defines the interface for party data access
type Repository interface {
	// Get returns the party with its addresses ordered by sequence
	Get(ctx context.Context, id string) (*Party, error)
}
