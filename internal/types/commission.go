package types

import (
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/samber/lo"
)

// CommissionMethod decides when an agent's commission becomes due
type CommissionMethod string

const (
	// CommissionMethodPosting dates the commission on the invoice date
	CommissionMethodPosting CommissionMethod = "posting"
	// CommissionMethodPayment dates the commission once the invoice is paid
	CommissionMethodPayment CommissionMethod = "payment"
)

func (m CommissionMethod) Validate() error {
	allowed := []CommissionMethod{
		CommissionMethodPosting,
		CommissionMethodPayment,
	}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid commission method").
			WithHint("Commission method must be posting or payment").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
