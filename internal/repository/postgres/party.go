package postgres

import (
	"context"

	"github.com/healthbill/healthbill/internal/domain/party"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/postgres"
	"github.com/healthbill/healthbill/internal/types"
)

type partyRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPartyRepository(db *postgres.DB, logger *logger.Logger) party.Repository {
	return &partyRepository{db: db, logger: logger}
}

func (r *partyRepository) Get(ctx context.Context, id string) (*party.Party, error) {
	r.logger.Debugw("getting party", "id", id)

	q := r.db.GetQuerier(ctx)
	query := `
	SELECT
		id, tenant_id, name, account_receivable_id, customer_payment_term_id,
		sale_price_list_id, is_insurance_company, is_institution,
		status, created_at, updated_at, created_by, updated_by
	FROM parties
	WHERE id = $1 AND tenant_id = $2 AND status = $3
	`

	var p party.Party
	if err := q.GetContext(ctx, &p, query, id, types.GetTenantID(ctx), types.StatusPublished); err != nil {
		return nil, wrapGetError(err, "party", id)
	}

	addrQuery := `
	SELECT id, party_id, type, street, city, sequence
	FROM party_addresses
	WHERE party_id = $1
	ORDER BY sequence, id
	`
	if err := q.SelectContext(ctx, &p.Addresses, addrQuery, id); err != nil {
		return nil, wrapQueryError(err, "listing party addresses failed")
	}

	return &p, nil
}
