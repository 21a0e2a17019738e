package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/jmoiron/sqlx"
)

// slowQuery is the duration above which a successful query is logged at warn level
const slowQuery = 500 * time.Millisecond

// TracedQuerier logs every statement sent through the wrapped Querier with its
// duration, the tenant of the request and the transaction it ran in
type TracedQuerier struct {
	Querier
	logger *logger.Logger
	txID   string
}

func NewTracedQuerier(q Querier, logger *logger.Logger, txID string) *TracedQuerier {
	return &TracedQuerier{
		Querier: q,
		logger:  logger,
		txID:    txID,
	}
}

// trace returns the callback to run once the statement finished
func (tq *TracedQuerier) trace(ctx context.Context, query string, nargs int) func(error) {
	start := time.Now()
	return func(err error) {
		elapsed := time.Since(start)
		fields := []interface{}{
			"duration_ms", elapsed.Milliseconds(),
			"query", query,
			"args", nargs,
			"tenant_id", types.GetTenantID(ctx),
		}
		if tq.txID != "" {
			fields = append(fields, "tx_id", tq.txID)
		}

		switch {
		case err != nil && !errors.Is(err, sql.ErrNoRows):
			tq.logger.Errorw("database query failed", append(fields, "error", err.Error())...)
		case elapsed > slowQuery:
			tq.logger.Warnw("slow database query", fields...)
		default:
			tq.logger.Debugw("database query completed", fields...)
		}
	}
}

func (tq *TracedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	done := tq.trace(ctx, query, len(args))
	result, err := tq.Querier.ExecContext(ctx, query, args...)
	done(err)
	return result, err
}

func (tq *TracedQuerier) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	done := tq.trace(ctx, query, len(args))
	rows, err := tq.Querier.QueryxContext(ctx, query, args...)
	done(err)
	return rows, err
}

func (tq *TracedQuerier) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	done := tq.trace(ctx, query, len(args))
	err := tq.Querier.GetContext(ctx, dest, query, args...)
	done(err)
	return err
}

func (tq *TracedQuerier) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	done := tq.trace(ctx, query, len(args))
	err := tq.Querier.SelectContext(ctx, dest, query, args...)
	done(err)
	return err
}

func (tq *TracedQuerier) NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error) {
	done := tq.trace(ctx, query, 1)
	result, err := tq.Querier.NamedExecContext(ctx, query, arg)
	done(err)
	return result, err
}
