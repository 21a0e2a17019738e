package testutil

import (
	"context"
	"sort"
	"sync"

	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/types"
)

// FilterFunc is a generic filter function type
type FilterFunc[T any] func(ctx context.Context, item T) bool

// SortFunc is a generic sort function type
type SortFunc[T any] func(i, j T) bool

// InMemoryStore implements a generic in-memory store
type InMemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewInMemoryStore creates a new InMemoryStore
func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		items: make(map[string]T),
	}
}

// Create adds a new item to the store
func (s *InMemoryStore[T]) Create(ctx context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return ierr.NewError("item already exists").
			WithHintf("Item %s already exists", id).
			Mark(ierr.ErrAlreadyExists)
	}

	s.items[id] = item
	return nil
}

// Get retrieves an item by ID
func (s *InMemoryStore[T]) Get(ctx context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, exists := s.items[id]; exists {
		return item, nil
	}

	var zero T
	return zero, ierr.NewError("item not found").
		WithHintf("Item %s not found", id).
		Mark(ierr.ErrNotFound)
}

// List retrieves the items accepted by filterFn, ordered by sortFn
func (s *InMemoryStore[T]) List(ctx context.Context, filterFn FilterFunc[T], sortFn SortFunc[T]) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0)
	for _, item := range s.items {
		if filterFn == nil || filterFn(ctx, item) {
			result = append(result, item)
		}
	}

	if sortFn != nil {
		sort.Slice(result, func(i, j int) bool {
			return sortFn(result[i], result[j])
		})
	}
	return result
}

// Update updates an existing item
func (s *InMemoryStore[T]) Update(ctx context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return ierr.NewError("item not found").
			WithHintf("Item %s not found", id).
			Mark(ierr.ErrNotFound)
	}

	s.items[id] = item
	return nil
}

// Clear removes all items from the store
func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
}

// CheckTenantFilter reports whether an item belongs to the tenant of the context
func CheckTenantFilter(ctx context.Context, itemTenantID string) bool {
	tenantID := types.GetTenantID(ctx)
	return tenantID == "" || itemTenantID == "" || itemTenantID == tenantID
}
