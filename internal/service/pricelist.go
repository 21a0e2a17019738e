package service

import (
	"context"

	"github.com/healthbill/healthbill/internal/billing"
	"github.com/healthbill/healthbill/internal/cache"
	"github.com/healthbill/healthbill/internal/domain/pricelist"
	"github.com/healthbill/healthbill/internal/domain/product"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/shopspring/decimal"
)

// PriceListService resolves negotiated prices
type PriceListService interface {
	// GetPriceList returns a price list, served from cache when possible
	GetPriceList(ctx context.Context, id string) (*pricelist.PriceList, error)
	// Lookup binds a price list to the catalog products of an invoice. A nil
	// priceListID yields a nil lookup: lines are then billed at list price.
	Lookup(ctx context.Context, priceListID *string, products map[string]*product.Product) (billing.PriceLookup, error)
	// ComputePrice returns the unit price of quantity units of p under the price list,
	// zero when there is no price list.
	ComputePrice(ctx context.Context, priceListID *string, p *product.Product, quantity decimal.Decimal) (decimal.Decimal, error)
}

type priceListService struct {
	ServiceParams
}

func NewPriceListService(params ServiceParams) PriceListService {
	return &priceListService{ServiceParams: params}
}

func (s *priceListService) GetPriceList(ctx context.Context, id string) (*pricelist.PriceList, error) {
	key := cache.GenerateKey(cache.PrefixPriceList, types.GetTenantID(ctx), id)
	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, key); ok {
			if pl, ok := cached.(*pricelist.PriceList); ok {
				return pl, nil
			}
		}
	}

	pl, err := s.PriceListRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pl.Validate(); err != nil {
		return nil, err
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, key, pl, 0)
	}
	return pl, nil
}

func (s *priceListService) Lookup(ctx context.Context, priceListID *string, products map[string]*product.Product) (billing.PriceLookup, error) {
	if priceListID == nil || *priceListID == "" {
		return nil, nil
	}

	pl, err := s.GetPriceList(ctx, *priceListID)
	if err != nil {
		return nil, err
	}

	return func(productID string, listPrice, quantity decimal.Decimal, unit string) decimal.Decimal {
		ref := pricelist.Product{ID: productID}
		if p, ok := products[productID]; ok {
			ref.CategoryID = p.CategoryID
		}
		return pl.Compute(ref, listPrice, quantity, unit)
	}, nil
}

func (s *priceListService) ComputePrice(ctx context.Context, priceListID *string, p *product.Product, quantity decimal.Decimal) (decimal.Decimal, error) {
	if priceListID == nil || *priceListID == "" {
		return decimal.Zero, nil
	}

	pl, err := s.GetPriceList(ctx, *priceListID)
	if err != nil {
		return decimal.Zero, err
	}
	return pl.Compute(pricelist.Product{ID: p.ID, CategoryID: p.CategoryID}, p.ListPrice, quantity, p.DefaultUOM), nil
}
