package accounting

import "context"

// Repository defines the interface for accounting settings access
type Repository interface {
	// GetConfiguration returns the accounting defaults of the current tenant
	GetConfiguration(ctx context.Context) (*Configuration, error)
	// FindJournalByType returns the first journal of the given type, or a not found error
	FindJournalByType(ctx context.Context, journalType JournalType) (*Journal, error)
}
