package validator

import (
	"reflect"

	"github.com/go-playground/validator/v10"
	ierr "github.com/healthbill/healthbill/internal/errors"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

// NewValidator builds the process wide validator. decimal.Decimal fields are
// validated through their string form so `required` rejects the zero value.
func NewValidator() *validator.Validate {
	validate = validator.New()
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			if d.IsZero() {
				return ""
			}
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	return validate
}

func GetValidator() *validator.Validate {
	return validate
}

func ValidateRequest(req interface{}) error {
	if validate == nil {
		return ierr.NewError("validator not initialized").
			WithHint("Validator must be initialized before using it").
			Mark(ierr.ErrSystem)
	}

	if err := validate.Struct(req); err != nil {
		details := make(map[string]any)
		var validateErrs validator.ValidationErrors
		if ierr.As(err, &validateErrs) {
			for _, err := range validateErrs {
				details[err.Field()] = err.Error()
			}
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
