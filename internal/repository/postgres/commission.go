package postgres

import (
	"context"
	"time"

	"github.com/healthbill/healthbill/internal/domain/commission"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/postgres"
	"github.com/healthbill/healthbill/internal/types"
)

type commissionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCommissionRepository(db *postgres.DB, logger *logger.Logger) commission.Repository {
	return &commissionRepository{db: db, logger: logger}
}

func (r *commissionRepository) CreateMany(ctx context.Context, commissions []*commission.Commission) error {
	if len(commissions) == 0 {
		return nil
	}

	query := `
	INSERT INTO commissions (
		id, tenant_id, origin, agent_id, product_id, amount, date,
		status, created_at, updated_at, created_by, updated_by
	) VALUES (
		:id, :tenant_id, :origin, :agent_id, :product_id, :amount, :date,
		:status, :created_at, :updated_at, :created_by, :updated_by
	)`

	q := r.db.GetQuerier(ctx)
	for _, c := range commissions {
		if _, err := q.NamedExecContext(ctx, query, c); err != nil {
			return wrapWriteError(err, "creating commission failed")
		}
	}
	return nil
}

func (r *commissionRepository) ExistsForOrigin(ctx context.Context, origin string) (bool, error) {
	query := `
	SELECT EXISTS (
		SELECT 1 FROM commissions
		WHERE tenant_id = $1 AND origin = $2 AND status = $3
	)`

	var exists bool
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &exists, query, types.GetTenantID(ctx), origin, types.StatusPublished); err != nil {
		return false, wrapQueryError(err, "checking commission failed")
	}
	return exists, nil
}

func (r *commissionRepository) SetDateIfUnset(ctx context.Context, origin string, date time.Time) error {
	query := `
	UPDATE commissions
	SET date = $1, updated_at = NOW(), updated_by = $2
	WHERE tenant_id = $3 AND origin = $4 AND date IS NULL
	`

	if _, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, date, types.GetUserID(ctx), types.GetTenantID(ctx), origin); err != nil {
		return wrapWriteError(err, "dating commission failed")
	}
	return nil
}

func (r *commissionRepository) ListByAgent(ctx context.Context, agentID string) ([]*commission.Commission, error) {
	query := `
	SELECT
		id, tenant_id, origin, agent_id, product_id, amount, date,
		status, created_at, updated_at, created_by, updated_by
	FROM commissions
	WHERE tenant_id = $1 AND agent_id = $2 AND status = $3
	ORDER BY created_at, id
	`

	var commissions []*commission.Commission
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &commissions, query, types.GetTenantID(ctx), agentID, types.StatusPublished); err != nil {
		return nil, wrapQueryError(err, "listing commissions failed")
	}
	return commissions, nil
}

func (r *commissionRepository) GetAgent(ctx context.Context, id string) (*commission.Agent, error) {
	query := `
	SELECT id, party_id, plan_id, currency
	FROM commission_agents
	WHERE id = $1 AND tenant_id = $2
	`

	var a commission.Agent
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &a, query, id, types.GetTenantID(ctx)); err != nil {
		return nil, wrapGetError(err, "commission agent", id)
	}
	return &a, nil
}

func (r *commissionRepository) GetPlan(ctx context.Context, id string) (*commission.Plan, error) {
	query := `
	SELECT id, name, commission_product_id, method
	FROM commission_plans
	WHERE id = $1 AND tenant_id = $2
	`

	var p commission.Plan
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, id, types.GetTenantID(ctx)); err != nil {
		return nil, wrapGetError(err, "commission plan", id)
	}
	return &p, nil
}
