package postgres

import (
	"context"

	"github.com/healthbill/healthbill/internal/domain/insurance"
	"github.com/healthbill/healthbill/internal/logger"
	"github.com/healthbill/healthbill/internal/postgres"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/samber/lo"
)

type insuranceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewInsuranceRepository(db *postgres.DB, logger *logger.Logger) insurance.Repository {
	return &insuranceRepository{db: db, logger: logger}
}

func (r *insuranceRepository) GetInsurance(ctx context.Context, id string) (*insurance.Insurance, error) {
	query := `
	SELECT
		id, tenant_id, number, party_id, plan_id, insurer_id, employer_id, bpc, issue_date,
		coverage, ceiling, status, created_at, updated_at, created_by, updated_by
	FROM insurances
	WHERE id = $1 AND tenant_id = $2 AND status = $3
	`

	var ins insurance.Insurance
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &ins, query, id, types.GetTenantID(ctx), types.StatusPublished); err != nil {
		return nil, wrapGetError(err, "insurance", id)
	}
	return &ins, nil
}

func (r *insuranceRepository) GetPlan(ctx context.Context, id string) (*insurance.Plan, error) {
	q := r.db.GetQuerier(ctx)
	query := `
	SELECT id, tenant_id, name, insurer_id, status, created_at, updated_at, created_by, updated_by
	FROM insurance_plans
	WHERE id = $1 AND tenant_id = $2
	`

	var plan insurance.Plan
	if err := q.GetContext(ctx, &plan, query, id, types.GetTenantID(ctx)); err != nil {
		return nil, wrapGetError(err, "insurance plan", id)
	}

	policiesQuery := `
	SELECT id, plan_id, product_id, category_id, kind, value
	FROM insurance_policies
	WHERE plan_id = $1
	ORDER BY id
	`
	var policies []insurance.Policy
	if err := q.SelectContext(ctx, &policies, policiesQuery, id); err != nil {
		return nil, wrapQueryError(err, "listing insurance policies failed")
	}

	plan.ProductPolicies, plan.CategoryPolicies = lo.FilterReject(policies, func(p insurance.Policy, _ int) bool {
		return p.ProductID != nil
	})
	return &plan, nil
}
