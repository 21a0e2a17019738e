package testutil

import (
	"context"

	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/postgres"
	"github.com/healthbill/healthbill/internal/types"
)

var _ postgres.IClient = (*MockPostgresClient)(nil) // Ensure MockPostgresClient implements IClient

// MockPostgresClient runs transactional callbacks without a database and counts them
type MockPostgresClient struct {
	logger *logger.Logger

	// Commits and Rollbacks count the outermost transactions only
	Commits   int
	Rollbacks int
}

type mockTx struct{}

// NewMockPostgresClient creates a new mock postgres client
func NewMockPostgresClient(logger *logger.Logger) *MockPostgresClient {
	return &MockPostgresClient{
		logger: logger,
	}
}

// WithTx executes the given function within a fake transaction
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	// If we're already in a transaction, reuse it
	if _, ok := ctx.Value(types.CtxDBTransaction).(*mockTx); ok {
		return fn(ctx)
	}

	err := fn(context.WithValue(ctx, types.CtxDBTransaction, &mockTx{}))
	if err != nil {
		c.Rollbacks++
		c.logger.Debugw("rolled back mock transaction", "error", err)
		return err
	}
	c.Commits++
	return nil
}
