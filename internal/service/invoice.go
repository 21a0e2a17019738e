package service

import (
	"context"
	"time"

	"github.com/healthbill/healthbill/internal/api/dto"
	"github.com/healthbill/healthbill/internal/domain/invoice"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/samber/lo"
)

type InvoiceService interface {
	GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	// PostInvoice moves a draft invoice to posted and books the agent commissions
	PostInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error)
	// MarkPaid settles a posted invoice
	MarkPaid(ctx context.Context, id string, req dto.MarkInvoicePaidRequest) (*dto.InvoiceResponse, error)
}

type invoiceService struct {
	ServiceParams
	commissionService CommissionService
}

func NewInvoiceService(params ServiceParams) InvoiceService {
	return &invoiceService{
		ServiceParams:     params,
		commissionService: NewCommissionService(params),
	}
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	if id == "" {
		return nil, ierr.NewError("invoice_id is required").
			WithHint("Invoice ID is required").
			Mark(ierr.ErrValidation)
	}

	inv, err := s.InvoiceRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

func (s *invoiceService) PostInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	var resp *dto.InvoiceResponse

	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		inv, err := s.InvoiceRepo.Get(txCtx, id)
		if err != nil {
			return err
		}
		if inv.State != types.InvoiceStateDraft {
			return ierr.WithError(invoice.ErrInvoiceNotDraft).
				WithHintf("Invoice %s is %s and cannot be posted", inv.ID, inv.State).
				WithReportableDetails(map[string]any{
					"invoice_id": inv.ID,
					"state":      inv.State,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		inv.State = types.InvoiceStatePosted
		inv.Touch(txCtx)
		if err := s.InvoiceRepo.Update(txCtx, inv); err != nil {
			return err
		}

		// only drafts reach this point, so commissions are booked once per invoice
		if _, err := s.commissionService.CreateForInvoices(txCtx, []*invoice.Invoice{inv}); err != nil {
			return err
		}

		s.Logger.Infow("posted invoice", "invoice_id", inv.ID, "total_amount", inv.TotalAmount().String())
		resp = dto.NewInvoiceResponse(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *invoiceService) MarkPaid(ctx context.Context, id string, req dto.MarkInvoicePaidRequest) (*dto.InvoiceResponse, error) {
	var resp *dto.InvoiceResponse

	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		inv, err := s.InvoiceRepo.Get(txCtx, id)
		if err != nil {
			return err
		}
		if inv.State != types.InvoiceStatePosted {
			return ierr.WithError(invoice.ErrInvoiceNotPosted).
				WithHintf("Invoice %s is %s and cannot be paid", inv.ID, inv.State).
				WithReportableDetails(map[string]any{
					"invoice_id": inv.ID,
					"state":      inv.State,
				}).
				Mark(ierr.ErrInvalidOperation)
		}

		inv.State = types.InvoiceStatePaid
		inv.AmountPaid = inv.TotalAmount()
		inv.ReconciledAt = lo.ToPtr(lo.FromPtrOr(req.ReconciledAt, time.Now()).UTC())
		inv.Touch(txCtx)
		if err := s.InvoiceRepo.Update(txCtx, inv); err != nil {
			return err
		}

		// payment based commissions become due now
		if _, err := s.commissionService.CreateForInvoices(txCtx, []*invoice.Invoice{inv}); err != nil {
			return err
		}

		s.Logger.Infow("marked invoice paid", "invoice_id", inv.ID, "amount_paid", inv.AmountPaid.String())
		resp = dto.NewInvoiceResponse(inv)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}
