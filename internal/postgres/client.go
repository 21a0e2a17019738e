package postgres

import (
	"context"

	"go.uber.org/fx"
)

// IClient is what services need from the database: running a unit of work atomically
type IClient interface {
	// WithTx wraps the given function in a transaction
	WithTx(ctx context.Context, fn func(context.Context) error) error
}

var _ IClient = (*DB)(nil)

// NewClient exposes the DB as an IClient and closes it when the app stops
func NewClient(lc fx.Lifecycle, db *DB) IClient {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.logger.Info("closing postgres connection")
			db.Close()
			return nil
		},
	})
	return db
}
