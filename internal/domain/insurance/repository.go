package insurance

import "context"

// Repository defines the interface for insurance data access
type Repository interface {
	// GetInsurance returns a member's insurance card
	GetInsurance(ctx context.Context, id string) (*Insurance, error)
	// GetPlan returns a plan with its product and category policies
	GetPlan(ctx context.Context, id string) (*Plan, error)
}
