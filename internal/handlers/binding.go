package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/atharvakonge/stocksim/internal/models"
)

// fieldMessages overrides the generic wording for specific fields.
var fieldMessages = map[string]string{
	"symbol.required": "must provide stock symbol",
	"shares.required": "must provide valid number of shares",
	"shares.gt":       "must provide valid number of shares",
}

// bindError turns a gin binding failure into a validation error with a
// message a person can act on.
func bindError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(msgs, "; "))
	}
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return fmt.Errorf("%w: must provide valid number of shares", models.ErrValidation)
	}
	return fmt.Errorf("%w: invalid form submission", models.ErrValidation)
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	if msg, ok := fieldMessages[field+"."+fe.Tag()]; ok {
		return msg
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
