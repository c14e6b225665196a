package auth

import (
	"net/http"

	sharedError "github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/error"
)

const (
	incorrectUsernamePassword = "INCORRECT_USERNAME_PASSWORD" // errInfo
	invalidRefreshToken       = "INVALID_REFRESH_TOKEN"       // errInfo
)

var (
	ErrInCorrectUsernamePassword = sharedError.NewDomainError(incorrectUsernamePassword)
	ErrInvalidRefreshToken       = sharedError.NewDomainError(invalidRefreshToken)
)

func init() {
	sharedError.RegisterDomainErrorResponse(incorrectUsernamePassword, sharedError.ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "AUTH-003",
		Message: "아이디 또는 비밀번호가 일치하지 않습니다.",
	})

	sharedError.RegisterDomainErrorResponse(invalidRefreshToken, sharedError.ErrorResponse{
		Status:  http.StatusUnauthorized,
		Code:    "AUTH-004",
		Message: "다시 로그인 해주세요.",
	})
}
