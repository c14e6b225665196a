package validator

import (
	"strings"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
	"github.com/go-playground/validator/v10"
)

// ValidateISODate accepts a YYYY-MM-DD calendar date.
func ValidateISODate(fl validator.FieldLevel) bool {
	_, err := model.ParseDate(fl.Field().String())
	return err == nil
}

// ValidatePayStatus accepts any known payment status, case-insensitively.
// Whether the deployment's status set allows it is decided by the member domain.
func ValidatePayStatus(fl validator.FieldLevel) bool {
	raw := strings.ToLower(strings.TrimSpace(fl.Field().String()))
	return model.PaymentStatus(raw).Known()
}
