package middleware

import (
	"errors"
	"net/http"
	"strings"

	sharedContext "github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/context"
	sharedError "github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/error"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/logger"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/token"
	"github.com/gin-gonic/gin"
)

const (
	AuthorizationHeader = "Authorization"
	BearerScheme        = "Bearer"
)

const (
	missingToken  = "MISSING_TOKEN"
	invalidToken  = "INVALID_TOKEN"
	expiredToken  = "EXPIRED_TOKEN"
	invalidClaims = "INVALID_CLAIMS"
)

var (
	ErrMissingToken  = sharedError.NewDomainError(missingToken)
	ErrInvalidToken  = sharedError.NewDomainError(invalidToken)
	ErrExpiredToken  = sharedError.NewDomainError(expiredToken)
	ErrInvalidClaims = sharedError.NewDomainError(invalidClaims)
)

func init() {
	loginRequired := sharedError.ErrorResponse{
		Status:  http.StatusUnauthorized,
		Code:    "AUTH-000",
		Message: "로그인을 해주세요.",
	}
	sharedError.RegisterDomainErrorResponse(missingToken, loginRequired)
	sharedError.RegisterDomainErrorResponse(invalidToken, loginRequired)
	sharedError.RegisterDomainErrorResponse(invalidClaims, loginRequired)

	// clients answer AUTH-001 with POST /api/v1/auth/refresh
	sharedError.RegisterDomainErrorResponse(expiredToken, sharedError.ErrorResponse{
		Status:  http.StatusUnauthorized,
		Code:    "AUTH-001",
		Message: "로그인이 만료되었습니다.",
	})
}

// AdminAuth accepts only bearer access tokens issued to the admin role and
// stores the admin identity in the gin context.
func AdminAuth(tokenManager token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, step, err := authenticate(c, tokenManager)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("관리자 인증 실패",
				"step", step,
				"error", err.Error(),
				"client_ip", c.ClientIP(),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			)
			resp, ok := sharedError.ResolveDomainError(err)
			if !ok {
				resp, _ = sharedError.ResolveDomainError(ErrInvalidToken)
			}
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}

		c.Set(sharedContext.AdminUsernameKey, claims.Username)
		c.Set(sharedContext.AdminRoleKey, claims.Role)
		c.Next()
	}
}

func authenticate(c *gin.Context, tokenManager token.Manager) (*token.Claims, string, error) {
	tokenString, err := extractToken(c)
	if err != nil {
		return nil, "extract_token", err
	}

	claims, err := tokenManager.ValidateToken(tokenString)
	if err != nil {
		return nil, "validate_token", mapTokenError(err)
	}
	if claims == nil || claims.TokenType != token.ACCESS || claims.Role != token.RoleAdmin {
		return nil, "check_claims", ErrInvalidClaims
	}
	return claims, "", nil
}

func extractToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader(AuthorizationHeader)
	if authHeader == "" {
		return "", ErrMissingToken
	}

	scheme, tokenString, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, BearerScheme) || strings.TrimSpace(tokenString) == "" {
		return "", ErrInvalidToken
	}
	return strings.TrimSpace(tokenString), nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, token.ErrExpiredToken):
		return ErrExpiredToken
	case errors.Is(err, token.ErrInvalidClaims):
		return ErrInvalidClaims
	default:
		return ErrInvalidToken
	}
}
