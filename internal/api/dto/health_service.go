package dto

import (
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/healthbill/healthbill/internal/validator"
	"github.com/samber/lo"
)

// CreateServiceInvoicesRequest turns health services into customer invoices
type CreateServiceInvoicesRequest struct {
	ServiceIDs []string `json:"service_ids" validate:"required,min=1,dive,required"`
}

func (r *CreateServiceInvoicesRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if dups := lo.FindDuplicates(r.ServiceIDs); len(dups) > 0 {
		return ierr.NewError("duplicate service ids").
			WithHint("Each health service can only be invoiced once per request").
			WithReportableDetails(map[string]any{
				"service_ids": dups,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CreateServiceInvoicesResponse lists the invoices created, in request order
type CreateServiceInvoicesResponse struct {
	Invoices []*InvoiceResponse `json:"invoices"`
}
