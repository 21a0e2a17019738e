package service

import (
	"testing"

	"github.com/healthbill/healthbill/internal/api/dto"
	"github.com/healthbill/healthbill/internal/domain/invoice"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/testutil"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PaymentServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PaymentService
}

func TestPaymentService(t *testing.T) {
	suite.Run(t, new(PaymentServiceSuite))
}

func (s *PaymentServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPaymentService(newTestParams(&s.BaseServiceTestSuite))
	seedBillingFixtures(&s.BaseServiceTestSuite)
}

func (s *PaymentServiceSuite) validate(invoiceID, amount string) (*dto.ValidatePaymentResponse, error) {
	return s.service.ValidatePayment(s.GetContext(), invoiceID, dto.ValidatePaymentRequest{
		Amount: decimal.RequireFromString(amount),
	})
}

func (s *PaymentServiceSuite) TestValidatePayment_FirstPayment() {
	seedInvoice(&s.BaseServiceTestSuite, "inv_1", types.InvoiceStatePosted, nil)

	tests := []struct {
		name      string
		amount    string
		decision  types.PaymentDecision
		remaining string
		wantErr   bool
	}{
		{name: "below minimum", amount: "879.99", wantErr: true},
		{name: "exactly minimum", amount: "880", decision: types.PaymentDecisionPartial, remaining: "1320"},
		{name: "full amount", amount: "2200", decision: types.PaymentDecisionFull, remaining: "0"},
		{name: "overpayment", amount: "2500", decision: types.PaymentDecisionFull, remaining: "0"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			resp, err := s.validate("inv_1", tt.amount)
			if tt.wantErr {
				s.Require().Error(err)
				s.True(ierr.Is(err, invoice.ErrPaymentBelowMinimum))
				s.True(ierr.IsValidation(err))
				return
			}
			s.Require().NoError(err)
			s.Equal(tt.decision, resp.Decision)
			assertDecimal(s.T(), tt.remaining, resp.Remaining)
			assertDecimal(s.T(), "880", resp.MinimumAmount)
			assertDecimal(s.T(), "2200", resp.AmountToPay)
		})
	}
}

func (s *PaymentServiceSuite) TestValidatePayment_LaterPaymentsHaveNoMinimum() {
	inv := seedInvoice(&s.BaseServiceTestSuite, "inv_1", types.InvoiceStatePosted, nil)
	inv.AmountPaid = decimal.NewFromInt(1000)
	s.Require().NoError(s.GetStores().InvoiceRepo.Update(s.GetContext(), inv))

	resp, err := s.validate("inv_1", "100")
	s.Require().NoError(err)
	s.Equal(types.PaymentDecisionPartial, resp.Decision)
	assertDecimal(s.T(), "1200", resp.AmountToPay)
	assertDecimal(s.T(), "1100", resp.Remaining)
	assertDecimal(s.T(), "0", resp.MinimumAmount)
}

func (s *PaymentServiceSuite) TestValidatePayment_Errors() {
	seedInvoice(&s.BaseServiceTestSuite, "inv_draft", types.InvoiceStateDraft, nil)
	seedInvoice(&s.BaseServiceTestSuite, "inv_posted", types.InvoiceStatePosted, nil)

	_, err := s.validate("inv_draft", "2200")
	s.True(ierr.Is(err, invoice.ErrInvoiceNotPosted))

	_, err = s.validate("inv_posted", "0")
	s.True(ierr.IsValidation(err))

	_, err = s.validate("inv_posted", "-5")
	s.True(ierr.IsValidation(err))

	_, err = s.validate("inv_missing", "100")
	s.True(ierr.IsNotFound(err))
}
