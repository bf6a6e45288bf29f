package customvalidator

import (
	"net/http"
	"regexp"

	"github.com/go-playground/validator/v10"

	apperrors "claims-platform/pkg/errors"
)

var postalCodeRegex = regexp.MustCompile(`^\d{4,5}$`)

// RegisterCustomValidations wires the project-specific validation rules into
// the shared validator instance.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("postal_code", isPostalCode); err != nil {
		return err
	}
	return nil
}

func isPostalCode(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return postalCodeRegex.MatchString(value)
}

// EchoValidator adapts go-playground/validator to Echo's Validator interface.
type EchoValidator struct {
	validator *validator.Validate
}

func NewEchoValidator(v *validator.Validate) *EchoValidator {
	return &EchoValidator{validator: v}
}

func (ev *EchoValidator) Validate(i interface{}) error {
	if err := ev.validator.Struct(i); err != nil {
		return apperrors.NewHttpError(http.StatusBadRequest, "validation failed", err, nil)
	}
	return nil
}
