package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/healthbill/healthbill/internal/domain/accounting"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/postgres"
	"github.com/healthbill/healthbill/internal/types"
)

type accountingRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewAccountingRepository(db *postgres.DB, logger *logger.Logger) accounting.Repository {
	return &accountingRepository{db: db, logger: logger}
}

// GetConfiguration returns an empty configuration when the tenant has none
func (r *accountingRepository) GetConfiguration(ctx context.Context) (*accounting.Configuration, error) {
	query := `
	SELECT default_account_receivable_id, default_customer_payment_term_id
	FROM accounting_configurations
	WHERE tenant_id = $1
	`

	var cfg accounting.Configuration
	err := r.db.GetQuerier(ctx).GetContext(ctx, &cfg, query, types.GetTenantID(ctx))
	if errors.Is(err, sql.ErrNoRows) {
		return &accounting.Configuration{}, nil
	}
	if err != nil {
		return nil, wrapQueryError(err, "getting accounting configuration failed")
	}
	return &cfg, nil
}

func (r *accountingRepository) FindJournalByType(ctx context.Context, journalType accounting.JournalType) (*accounting.Journal, error) {
	query := `
	SELECT id, name, type
	FROM journals
	WHERE tenant_id = $1 AND type = $2
	ORDER BY id
	LIMIT 1
	`

	var j accounting.Journal
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &j, query, types.GetTenantID(ctx), journalType); err != nil {
		return nil, wrapGetError(err, "journal", string(journalType))
	}
	return &j, nil
}
