package dto

import (
	"time"

	"github.com/healthbill/healthbill/internal/domain/invoice"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// InvoiceResponse represents an invoice with its lines
type InvoiceResponse struct {
	ID                 string                 `json:"id"`
	Type               types.InvoiceType      `json:"type"`
	State              types.InvoiceState     `json:"state"`
	PartyID            string                 `json:"party_id"`
	Description        string                 `json:"description"`
	InvoiceDate        time.Time              `json:"invoice_date"`
	CompanyID          string                 `json:"company_id"`
	AgentID            *string                `json:"agent_id,omitempty"`
	AccountID          string                 `json:"account_id"`
	JournalID          string                 `json:"journal_id"`
	InvoiceAddressID   string                 `json:"invoice_address_id"`
	PaymentTermID      string                 `json:"payment_term_id"`
	Reference          string                 `json:"reference"`
	TotalAmount        decimal.Decimal        `json:"total_amount"`
	InsuredAmount      decimal.Decimal        `json:"insured_amount"`
	PatientAmount      decimal.Decimal        `json:"patient_amount"`
	TotalWithInsurance decimal.Decimal        `json:"total_with_insurance"`
	FullCoverage       bool                   `json:"full_coverage"`
	AmountPaid         decimal.Decimal        `json:"amount_paid"`
	AmountToPay        decimal.Decimal        `json:"amount_to_pay"`
	ReconciledAt       *time.Time             `json:"reconciled_at,omitempty"`
	Lines              []*InvoiceLineResponse `json:"lines"`
	TenantID           string                 `json:"tenant_id"`
	CreatedAt          time.Time              `json:"created_at"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// InvoiceLineResponse represents an invoice line
type InvoiceLineResponse struct {
	ID            string                `json:"id"`
	Type          types.InvoiceLineType `json:"type"`
	Origin        string                `json:"origin"`
	ProductID     string                `json:"product_id"`
	Description   string                `json:"description"`
	Quantity      decimal.Decimal       `json:"quantity"`
	Unit          string                `json:"unit"`
	UnitPrice     decimal.Decimal       `json:"unit_price"`
	Amount        decimal.Decimal       `json:"amount"`
	InsuredAmount decimal.Decimal       `json:"insured_amount"`
	AccountID     string                `json:"account_id"`
	Sequence      int                   `json:"sequence"`
	TaxIDs        []string              `json:"tax_ids,omitempty"`
}

func NewInvoiceResponse(inv *invoice.Invoice) *InvoiceResponse {
	if inv == nil {
		return nil
	}

	return &InvoiceResponse{
		ID:                 inv.ID,
		Type:               inv.Type,
		State:              inv.State,
		PartyID:            inv.PartyID,
		Description:        inv.Description,
		InvoiceDate:        inv.InvoiceDate,
		CompanyID:          inv.CompanyID,
		AgentID:            inv.AgentID,
		AccountID:          inv.AccountID,
		JournalID:          inv.JournalID,
		InvoiceAddressID:   inv.InvoiceAddressID,
		PaymentTermID:      inv.PaymentTermID,
		Reference:          inv.Reference,
		TotalAmount:        inv.TotalAmount(),
		InsuredAmount:      inv.InsuredAmount,
		PatientAmount:      inv.PatientAmount(),
		TotalWithInsurance: inv.TotalWithInsurance(),
		FullCoverage:       inv.FullCoverage,
		AmountPaid:         inv.AmountPaid,
		AmountToPay:        inv.AmountToPay(),
		ReconciledAt:       inv.ReconciledAt,
		Lines: lo.Map(inv.Lines, func(l *invoice.InvoiceLine, _ int) *InvoiceLineResponse {
			return &InvoiceLineResponse{
				ID:            l.ID,
				Type:          l.Type,
				Origin:        l.Origin,
				ProductID:     l.ProductID,
				Description:   l.Description,
				Quantity:      l.Quantity,
				Unit:          l.Unit,
				UnitPrice:     l.UnitPrice,
				Amount:        l.Amount(),
				InsuredAmount: l.InsuredAmount,
				AccountID:     l.AccountID,
				Sequence:      l.Sequence,
				TaxIDs:        l.TaxIDs,
			}
		}),
		TenantID:  inv.TenantID,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

// MarkInvoicePaidRequest records that an invoice has been settled
type MarkInvoicePaidRequest struct {
	// ReconciledAt defaults to now
	ReconciledAt *time.Time `json:"reconciled_at,omitempty"`
}
