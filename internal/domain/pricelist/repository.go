package pricelist

import "context"

// Repository defines the interface for price list data access
type Repository interface {
	// Get returns the price list with all its lines
	Get(ctx context.Context, id string) (*PriceList, error)
}
