package error

import (
	"errors"
	"net/http"
	"sync"
)

// DomainError is a sentinel identified by its info key. Packages register the
// HTTP response for each key once, in init.
type DomainError interface {
	error
	Info() string
}

type sentinel string

func (s sentinel) Error() string { return string(s) }

func (s sentinel) Info() string { return string(s) }

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	registryMu sync.RWMutex
	registry   = map[string]ErrorResponse{}
)

// Generic responses not tied to a domain package.
var (
	ValidationFailed = ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "ERROR-001",
		Message: "잘못된 요청입니다.",
	}

	InvalidRequest = ErrorResponse{
		Status:  http.StatusBadRequest,
		Code:    "ERROR-002",
		Message: "잘못된 요청 형식입니다.",
	}

	InternalServerError = ErrorResponse{
		Status:  http.StatusInternalServerError,
		Code:    "ERROR-003",
		Message: "서버 내부 오류가 발생했습니다.",
	}

	TooManyRequests = ErrorResponse{
		Status:  http.StatusTooManyRequests,
		Code:    "ERROR-004",
		Message: "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.",
	}
)

// NewDomainError returns a comparable sentinel; two calls with the same info are equal.
func NewDomainError(info string) DomainError {
	return sentinel(info)
}

// RegisterDomainErrorResponse maps a domain error info key to its response.
// Registering the same key twice keeps the last response.
func RegisterDomainErrorResponse(info string, resp ErrorResponse) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[info] = resp
}

// ResolveDomainError looks up the response for the first domain error in err's chain.
func ResolveDomainError(err error) (ErrorResponse, bool) {
	var domainErr DomainError
	if !errors.As(err, &domainErr) {
		return ErrorResponse{}, false
	}

	registryMu.RLock()
	defer registryMu.RUnlock()
	resp, ok := registry[domainErr.Info()]
	return resp, ok
}
