package postgres

import (
	"context"

	"github.com/healthbill/healthbill/internal/domain/product"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/postgres"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type productRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

// productRow carries the tax ids array that the domain model keeps as a plain slice
type productRow struct {
	product.Product
	TaxIDs pq.StringArray `db:"customer_tax_ids"`
}

func (row productRow) toDomain() *product.Product {
	p := row.Product
	p.CustomerTaxIDs = []string(row.TaxIDs)
	return &p
}

const productColumns = `
	id, tenant_id, name, category_id, list_price, default_uom, account_revenue_id,
	customer_tax_ids, status, created_at, updated_at, created_by, updated_by`

func NewProductRepository(db *postgres.DB, logger *logger.Logger) product.Repository {
	return &productRepository{db: db, logger: logger}
}

func (r *productRepository) Get(ctx context.Context, id string) (*product.Product, error) {
	query := `SELECT ` + productColumns + `
	FROM products
	WHERE id = $1 AND tenant_id = $2
	`

	var row productRow
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &row, query, id, types.GetTenantID(ctx)); err != nil {
		return nil, wrapGetError(err, "product", id)
	}
	return row.toDomain(), nil
}

func (r *productRepository) GetMany(ctx context.Context, ids []string) (map[string]*product.Product, error) {
	result := make(map[string]*product.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	q := r.db.GetQuerier(ctx)
	query, args, err := sqlx.In(`SELECT `+productColumns+`
	FROM products
	WHERE tenant_id = ? AND id IN (?)
	`, types.GetTenantID(ctx), ids)
	if err != nil {
		return nil, wrapQueryError(err, "building product query failed")
	}

	var rows []productRow
	if err := q.SelectContext(ctx, &rows, q.Rebind(query), args...); err != nil {
		return nil, wrapQueryError(err, "listing products failed")
	}
	for _, row := range rows {
		result[row.ID] = row.toDomain()
	}
	return result, nil
}
