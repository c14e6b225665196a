package context

import (
	"net/http"

	sharedError "github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/error"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/logger"
	"github.com/gin-gonic/gin"
)

// Context keys for storing admin authentication information
const (
	AdminUsernameKey = "admin_username"
	AdminRoleKey     = "admin_role"
)

func GetAdminUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(AdminUsernameKey)
	if !exists {
		return "", false
	}

	name, ok := username.(string)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// RequireAdmin retrieves the authenticated admin's username from the Gin context.
// If it is missing, an authentication error response is sent and the chain aborted.
func RequireAdmin(c *gin.Context) (string, bool) {
	username, ok := GetAdminUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, sharedError.ErrorResponse{
			Status:  http.StatusUnauthorized,
			Code:    "AUTH-000",
			Message: "로그인을 해주세요.",
		})
		c.Abort()
		logger.FromContext(c.Request.Context()).Error("[API] context에 관리자 정보가 존재하지 않습니다.")
		return "", false
	}
	return username, true
}
