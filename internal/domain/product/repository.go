package product

import "context"

// Repository defines the interface for product data access
type Repository interface {
	Get(ctx context.Context, id string) (*Product, error)
	// GetMany returns the products keyed by id; unknown ids are absent from the map
	GetMany(ctx context.Context, ids []string) (map[string]*Product, error)
}
