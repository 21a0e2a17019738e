package dto

import (
	"time"

	"github.com/healthbill/healthbill/internal/domain/commission"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CommissionResponse represents a commission owed to an agent
type CommissionResponse struct {
	ID        string          `json:"id"`
	Origin    string          `json:"origin"`
	AgentID   string          `json:"agent_id"`
	ProductID string          `json:"product_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      *time.Time      `json:"date,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ListCommissionsResponse lists commissions
type ListCommissionsResponse struct {
	Items []*CommissionResponse `json:"items"`
	Total int                   `json:"total"`
}

func NewCommissionResponse(c *commission.Commission) *CommissionResponse {
	return &CommissionResponse{
		ID:        c.ID,
		Origin:    c.Origin,
		AgentID:   c.AgentID,
		ProductID: c.ProductID,
		Amount:    c.Amount,
		Date:      c.Date,
		CreatedAt: c.CreatedAt,
	}
}

func NewListCommissionsResponse(items []*commission.Commission) *ListCommissionsResponse {
	return &ListCommissionsResponse{
		Items: lo.Map(items, func(c *commission.Commission, _ int) *CommissionResponse {
			return NewCommissionResponse(c)
		}),
		Total: len(items),
	}
}
