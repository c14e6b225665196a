package validator

import (
	"errors"
	"fmt"
	"reflect"

	sharedError "github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/error"
	"github.com/go-playground/validator/v10"
)

// ToErrorResponse converts gin binding/validator errors into a standardized response.
func ToErrorResponse(err error) (*sharedError.ErrorResponse, bool) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, false
	}

	if len(validationErrors) == 0 {
		return nil, false
	}

	// only the first failure is reported
	resp := sharedError.ValidationFailed
	resp.Message = getErrorMessage(validationErrors[0])
	return &resp, true
}

// getErrorMessage returns user-friendly error message for validation error
func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "필수 항목을 입력해 주세요."
	case "gte", "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("최소 %s자 이상이어야 합니다.", fe.Param())
		}
		return fmt.Sprintf("%s 이상이어야 합니다.", fe.Param())
	case "lte", "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("최대 %s자까지 입력 가능합니다.", fe.Param())
		}
		return fmt.Sprintf("%s 이하여야 합니다.", fe.Param())
	case "isodate":
		return "날짜 형식이 올바르지 않습니다. (YYYY-MM-DD)"
	case "paystatus":
		return "납부 상태는 paid, unpaid, pending 중 하나여야 합니다."
	default:
		return fmt.Sprintf("'%s' 필드가 올바르지 않습니다.", fe.Field())
	}
}
