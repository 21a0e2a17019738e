package service

import (
	"context"

	"github.com/healthbill/healthbill/internal/billing"
	"github.com/healthbill/healthbill/internal/cache"
	"github.com/healthbill/healthbill/internal/domain/insurance"
	"github.com/healthbill/healthbill/internal/domain/product"
	"github.com/healthbill/healthbill/internal/types"
)

// InsuranceService turns a member's insurance card into the plan snapshot used for billing
type InsuranceService interface {
	// BillingPlan returns nil when the service is not covered by an insurance
	BillingPlan(ctx context.Context, insuranceID *string, products map[string]*product.Product) (*billing.Plan, error)
}

type insuranceService struct {
	ServiceParams
}

func NewInsuranceService(params ServiceParams) InsuranceService {
	return &insuranceService{ServiceParams: params}
}

func (s *insuranceService) BillingPlan(ctx context.Context, insuranceID *string, products map[string]*product.Product) (*billing.Plan, error) {
	if insuranceID == nil || *insuranceID == "" {
		return nil, nil
	}

	card, err := s.InsuranceRepo.GetInsurance(ctx, *insuranceID)
	if err != nil {
		return nil, err
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}

	plan, err := s.getPlan(ctx, card.PlanID)
	if err != nil {
		return nil, err
	}

	return &billing.Plan{
		ID:           plan.ID,
		Ceiling:      card.Ceiling,
		FullCoverage: card.IsFullCoverage(),
		PolicyFor: func(productID string) *billing.Discount {
			ref := insurance.ProductRef{ID: productID}
			if p, ok := products[productID]; ok {
				ref.CategoryID = p.CategoryID
			}
			d := card.DiscountPolicy(plan, ref)
			if d == nil {
				return nil
			}
			return &billing.Discount{Kind: d.Kind, Value: d.Value}
		},
	}, nil
}

func (s *insuranceService) getPlan(ctx context.Context, id string) (*insurance.Plan, error) {
	key := cache.GenerateKey(cache.PrefixInsurancePlan, types.GetTenantID(ctx), id)
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, key); ok {
			if plan, ok := cached.(*insurance.Plan); ok {
				return plan, nil
			}
		}
	}

	plan, err := s.InsuranceRepo.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, key, plan, 0)
	}
	return plan, nil
}
