package handler

import (
	sharedError "github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/error"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/validator"
	"github.com/gin-gonic/gin"
)

// BindJSON parses and validates the JSON body. On failure the error response
// has been written and false is returned.
func BindJSON(c *gin.Context, obj any) bool {
	return bindWith(c, c.ShouldBindJSON(obj))
}

// BindQuery parses and validates query parameters, responding like BindJSON on failure.
func BindQuery(c *gin.Context, obj any) bool {
	return bindWith(c, c.ShouldBindQuery(obj))
}

// BindURI parses and validates path parameters, responding like BindJSON on failure.
func BindURI(c *gin.Context, obj any) bool {
	return bindWith(c, c.ShouldBindUri(obj))
}

// bindWith answers validation failures with ERROR-001 and anything else
// (malformed JSON, type mismatch) with ERROR-002.
func bindWith(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}
	if resp, ok := validator.ToErrorResponse(err); ok {
		RespondError(c, err, *resp)
	} else {
		RespondError(c, err, sharedError.InvalidRequest)
	}
	return false
}

// RespondDomainError sends the registered response for a domain error,
// or InternalServerError when err carries none.
func RespondDomainError(c *gin.Context, err error) {
	if resp, ok := sharedError.ResolveDomainError(err); ok {
		RespondError(c, err, resp)
		return
	}
	RespondError(c, err, sharedError.InternalServerError)
}

// RespondError records err for the access log and writes errResp.
func RespondError(c *gin.Context, err error, errResp sharedError.ErrorResponse) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(errResp.Status, errResp)
}
