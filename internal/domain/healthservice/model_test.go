package healthservice

import (
	"testing"

	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func testService() *HealthService {
	return &HealthService{
		ID:             "srv_1",
		Name:           "SRV-1",
		PatientPartyID: "patient",
		State:          types.HealthServiceStateDraft,
		Lines: []ServiceLine{
			{ID: "l1", Sequence: 1, ProductID: "consult", Quantity: decimal.NewFromInt(1), ToInvoice: true},
			{ID: "l2", Sequence: 2, ProductID: "gauze", Quantity: decimal.NewFromInt(4)},
			{ID: "l3", Sequence: 3, ProductID: "cbc", Quantity: decimal.NewFromInt(2), ToInvoice: true},
		},
	}
}

func TestHealthService_BillingPartyID(t *testing.T) {
	s := testService()
	assert.Equal(t, "patient", s.BillingPartyID())

	s.InvoiceToPartyID = lo.ToPtr("")
	assert.Equal(t, "patient", s.BillingPartyID())

	s.InvoiceToPartyID = lo.ToPtr("employer")
	assert.Equal(t, "employer", s.BillingPartyID())
}

func TestHealthService_InvoicedLines(t *testing.T) {
	lines := testService().InvoicedLines()
	assert.Equal(t, []string{"l1", "l3"}, lo.Map(lines, func(l ServiceLine, _ int) string { return l.ID }))
}

func TestHealthService_Validate(t *testing.T) {
	assert.NoError(t, testService().Validate())

	rebate := testService()
	rebate.Rebate = lo.ToPtr(decimal.NewFromInt(-5))
	assert.True(t, ierr.IsValidation(rebate.Validate()))

	noProduct := testService()
	noProduct.Lines[1].ProductID = ""
	assert.True(t, ierr.IsValidation(noProduct.Validate()))

	zeroQty := testService()
	zeroQty.Lines[2].Quantity = decimal.Zero
	assert.True(t, ierr.IsValidation(zeroQty.Validate()))
}

func TestNewPreconditionError(t *testing.T) {
	err := NewPreconditionError(ErrNoPaymentTerm, "Set a payment term", map[string]any{"party_id": "patient"})
	assert.True(t, ierr.Is(err, ErrNoPaymentTerm))
	assert.True(t, ierr.IsPrecondition(err))
	assert.False(t, ierr.IsValidation(err))
}
