package member

import (
	"net/http"

	sharedError "github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/error"
)

const (
	memberNotFound      = "MEMBER_NOT_FOUND"      // errInfo
	rosterNotConfigured = "ROSTER_NOT_CONFIGURED" // errInfo
	rosterLoadFailed    = "ROSTER_LOAD_FAILED"    // errInfo
	statusNotAllowed    = "STATUS_NOT_ALLOWED"    // errInfo
	invalidDateRange    = "INVALID_DATE_RANGE"    // errInfo
)

var (
	ErrMemberNotFound      = sharedError.NewDomainError(memberNotFound)
	ErrRosterNotConfigured = sharedError.NewDomainError(rosterNotConfigured)
	ErrRosterLoadFailed    = sharedError.NewDomainError(rosterLoadFailed)
	ErrStatusNotAllowed    = sharedError.NewDomainError(statusNotAllowed)
	ErrInvalidDateRange    = sharedError.NewDomainError(invalidDateRange)
)

func init() {
	sharedError.RegisterDomainErrorResponse(memberNotFound, sharedError.ErrorResponse{
		Status:  http.StatusNotFound,
		Code:    "MEMBER-001",
		Message: "회원 정보를 찾을 수 없습니다.",
	})

	sharedError.RegisterDomainErrorResponse(rosterNotConfigured, sharedError.ErrorResponse{
		Status:  http.StatusServiceUnavailable,
		Code:    "ROSTER-001",
		Message: "데이터 저장소가 설정되지 않았습니다.",
	})

	sharedError.RegisterDomainErrorResponse(rosterLoadFailed, sharedError.ErrorResponse{
		Status:  http.StatusBadGateway,
		Code:    "ROSTER-002",
		Message: "회원 목록을 불러오지 못했습니다.",
	})

	sharedError.RegisterDomainErrorResponse(statusNotAllowed, sharedError.ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "STATUS-001",
		Message: "허용되지 않은 납부 상태입니다.",
	})

	sharedError.RegisterDomainErrorResponse(invalidDateRange, sharedError.ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "STATUS-002",
		Message: "조회 기간이 올바르지 않습니다.",
	})
}
