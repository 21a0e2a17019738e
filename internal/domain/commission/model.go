package commission

import (
	"time"

	"github.com/healthbill/healthbill/internal/types"
	"github.com/shopspring/decimal"
)

// Agent is the prescriber or referrer earning commissions on invoiced services
type Agent struct {
	ID       string  `json:"id" db:"id"`
	PartyID  string  `json:"party_id" db:"party_id"`
	PlanID   *string `json:"plan_id,omitempty" db:"plan_id"`
	Currency string  `json:"currency" db:"currency"`
}

// Plan decides which product the commission is booked on and when it becomes due
type Plan struct {
	ID                  string                 `json:"id" db:"id"`
	Name                string                 `json:"name" db:"name"`
	CommissionProductID string                 `json:"commission_product_id" db:"commission_product_id"`
	Method              types.CommissionMethod `json:"method" db:"method"`
}

// Commission is an amount owed to an agent for one invoice line
type Commission struct {
	ID        string          `json:"id" db:"id"`
	Origin    string          `json:"origin" db:"origin"`
	AgentID   string          `json:"agent_id" db:"agent_id"`
	ProductID string          `json:"product_id" db:"product_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	// Date is nil while a payment based commission waits for the invoice to be paid
	Date *time.Time `json:"date,omitempty" db:"date"`
	types.BaseModel
}
