package postgres

import (
	"context"
	"database/sql"
	"fmt"

	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/jmoiron/sqlx"
)

// Tx wraps sqlx.Tx to support nested transactions using savepoints
type Tx struct {
	*sqlx.Tx
	savepointID int
	ID          string
}

// GetTx retrieves a transaction from the context if it exists
func GetTx(ctx context.Context) (*Tx, bool) {
	tx, ok := ctx.Value(types.CtxDBTransaction).(*Tx)
	return tx, ok
}

// BeginTx starts a transaction, or a savepoint when ctx already carries one
func (db *DB) BeginTx(ctx context.Context) (context.Context, *Tx, error) {
	if tx, ok := GetTx(ctx); ok {
		tx.savepointID++
		savepoint := fmt.Sprintf("sp_%d", tx.savepointID)

		db.logger.Debugw("creating savepoint", "tx_id", tx.ID, "savepoint", savepoint)

		if _, err := tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
			return ctx, nil, ierr.WithError(err).
				WithHint("Could not create savepoint").
				Mark(ierr.ErrDatabase)
		}
		return ctx, tx, nil
	}

	sqlxTx, err := db.BeginTxx(ctx, &sql.TxOptions{
		Isolation: sql.LevelReadCommitted,
	})
	if err != nil {
		return ctx, nil, ierr.WithError(err).
			WithHint("Could not start transaction").
			Mark(ierr.ErrDatabase)
	}

	tx := &Tx{
		Tx: sqlxTx,
		ID: types.GenerateUUID(),
	}
	db.logger.Debugw("starting new transaction", "tx_id", tx.ID)

	return context.WithValue(ctx, types.CtxDBTransaction, tx), tx, nil
}

// CommitTx commits the current transaction level
func (db *DB) CommitTx(ctx context.Context) error {
	tx, ok := GetTx(ctx)
	if !ok {
		return ierr.NewError("no transaction in context").Mark(ierr.ErrSystem)
	}

	if tx.savepointID > 0 {
		savepoint := fmt.Sprintf("sp_%d", tx.savepointID)
		db.logger.Debugw("releasing savepoint", "tx_id", tx.ID, "savepoint", savepoint)

		if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
			return ierr.WithError(err).
				WithHint("Could not release savepoint").
				Mark(ierr.ErrDatabase)
		}
		tx.savepointID--
		return nil
	}

	db.logger.Debugw("committing transaction", "tx_id", tx.ID)
	if err := tx.Commit(); err != nil {
		return ierr.WithError(err).
			WithHint("Could not commit transaction").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// RollbackTx rolls back the current transaction level
func (db *DB) RollbackTx(ctx context.Context) error {
	tx, ok := GetTx(ctx)
	if !ok {
		return ierr.NewError("no transaction in context").Mark(ierr.ErrSystem)
	}

	if tx.savepointID > 0 {
		savepoint := fmt.Sprintf("sp_%d", tx.savepointID)
		db.logger.Debugw("rolling back to savepoint", "tx_id", tx.ID, "savepoint", savepoint)

		if _, err := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint); err != nil {
			return ierr.WithError(err).
				WithHint("Could not roll back to savepoint").
				Mark(ierr.ErrDatabase)
		}
		tx.savepointID--
		return nil
	}

	db.logger.Debugw("rolling back transaction", "tx_id", tx.ID)
	if err := tx.Rollback(); err != nil {
		return ierr.WithError(err).
			WithHint("Could not roll back transaction").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// WithTx executes fn within a transaction. Nested calls run inside a savepoint.
func (db *DB) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	ctx, tx, err := db.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			db.logger.Errorw("panic in transaction", "tx_id", tx.ID, "panic", r)
			_ = db.RollbackTx(ctx)
			panic(r)
		}
	}()

	if err := fn(ctx); err != nil {
		db.logger.Errorw("transaction failed", "tx_id", tx.ID, "error", err)
		if rbErr := db.RollbackTx(ctx); rbErr != nil {
			return ierr.WithError(err).
				WithMessage(fmt.Sprintf("rollback failed: %v", rbErr)).
				Mark(ierr.ErrDatabase)
		}
		return err
	}

	return db.CommitTx(ctx)
}
