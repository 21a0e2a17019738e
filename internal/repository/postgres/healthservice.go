package postgres

import (
	"context"

	"github.com/healthbill/healthbill/internal/domain/healthservice"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/postgres"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/jmoiron/sqlx"
)

type healthServiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewHealthServiceRepository(db *postgres.DB, logger *logger.Logger) healthservice.Repository {
	return &healthServiceRepository{db: db, logger: logger}
}

func (r *healthServiceRepository) Get(ctx context.Context, id string) (*healthservice.HealthService, error) {
	r.logger.Debugw("getting health service", "id", id)

	q := r.db.GetQuerier(ctx)
	query := `
	SELECT
		id, tenant_id, name, description, patient_party_id, invoice_to_party_id, company_id,
		agent_id, requestor_id, insurance_id, rebate, price_list_id, state,
		status, created_at, updated_at, created_by, updated_by
	FROM health_services
	WHERE id = $1 AND tenant_id = $2 AND status = $3
	`

	var svc healthservice.HealthService
	if err := q.GetContext(ctx, &svc, query, id, types.GetTenantID(ctx), types.StatusPublished); err != nil {
		return nil, wrapGetError(err, "health service", id)
	}

	linesQuery := `
	SELECT id, service_id, sequence, product_id, description, quantity, to_invoice
	FROM health_service_lines
	WHERE service_id = $1
	ORDER BY sequence, id
	`
	if err := q.SelectContext(ctx, &svc.Lines, linesQuery, id); err != nil {
		return nil, wrapQueryError(err, "listing health service lines failed")
	}

	return &svc, nil
}

func (r *healthServiceRepository) MarkInvoiced(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	// only draft services move, so a concurrent request that invoiced one of
	// them first makes the row count come up short
	q := r.db.GetQuerier(ctx)
	query, args, err := sqlx.In(`
	UPDATE health_services
	SET state = ?, updated_at = NOW(), updated_by = ?
	WHERE tenant_id = ? AND id IN (?) AND state = ?
	`, types.HealthServiceStateInvoiced, types.GetUserID(ctx), types.GetTenantID(ctx), ids, types.HealthServiceStateDraft)
	if err != nil {
		return wrapQueryError(err, "building health service update failed")
	}

	result, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return wrapWriteError(err, "marking health services invoiced failed")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return wrapWriteError(err, "marking health services invoiced failed")
	}
	if affected != int64(len(ids)) {
		return healthservice.NewPreconditionError(healthservice.ErrServiceInvoiced,
			"A health service was invoiced by another request",
			map[string]any{"service_ids": ids, "updated": affected})
	}
	return nil
}
