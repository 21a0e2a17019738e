package postgres

import (
	"context"

	"github.com/healthbill/healthbill/internal/domain/pricelist"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/postgres"
	"github.com/healthbill/healthbill/internal/types"
)

type priceListRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPriceListRepository(db *postgres.DB, logger *logger.Logger) pricelist.Repository {
	return &priceListRepository{db: db, logger: logger}
}

func (r *priceListRepository) Get(ctx context.Context, id string) (*pricelist.PriceList, error) {
	r.logger.Debugw("getting price list", "id", id)

	q := r.db.GetQuerier(ctx)
	query := `
	SELECT id, tenant_id, name, status, created_at, updated_at, created_by, updated_by
	FROM price_lists
	WHERE id = $1 AND tenant_id = $2 AND status = $3
	`

	var pl pricelist.PriceList
	if err := q.GetContext(ctx, &pl, query, id, types.GetTenantID(ctx), types.StatusPublished); err != nil {
		return nil, wrapGetError(err, "price list", id)
	}

	linesQuery := `
	SELECT id, price_list_id, sequence, product_id, category_id, unit, min_quantity, formula, value
	FROM price_list_lines
	WHERE price_list_id = $1
	ORDER BY sequence, id
	`
	if err := q.SelectContext(ctx, &pl.Lines, linesQuery, id); err != nil {
		return nil, wrapQueryError(err, "listing price list lines failed")
	}

	return &pl, nil
}
