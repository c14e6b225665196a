package router

import (
	"fmt"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/auth"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/config"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/member"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/meta"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/database"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/metrics"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/middleware"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/token"
	"github.com/gin-gonic/gin"
)

// Dependencies are the long-lived components built in main.
type Dependencies struct {
	DB        *database.DB // nil when no store is configured
	Directory *member.Directory
	Service   *member.MemberService
	Metrics   *metrics.Recorder  // nil disables /metrics
	Limiter   middleware.Limiter // nil disables login rate limiting
}

// Setup configures all application-specific routes using dependency injection
func Setup(router *gin.Engine, cfg *config.Config, deps Dependencies) error {
	// Meta handler (health check)
	metaHandler := meta.NewHandler(cfg, deps.DB, deps.Directory)
	router.GET("/health", metaHandler.Health)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// shared services
	tokenManager := token.NewJWTManager(cfg)

	// service
	authService, err := auth.NewAuthService(cfg.Admin, tokenManager)
	if err != nil {
		return fmt.Errorf("auth service 생성 실패: %w", err)
	}

	// handler
	authHandler := auth.NewAuthHandler(authService)
	memberHandler := member.NewMemberHandler(deps.Service)

	// API v1 routes
	authV1 := router.Group("/api/v1/auth")
	authV1.Use(middleware.RateLimit(deps.Limiter, "login", cfg.Redis.LoginRateLimit, cfg.Redis.LoginRateWindow))
	{
		authV1.POST("/login", authHandler.Login)
		authV1.POST("/refresh", authHandler.Refresh)
	}

	// read only, no login
	guestV1 := router.Group("/api/v1/guest")
	{
		guestV1.GET("/members", memberHandler.GuestMembers)
		guestV1.GET("/payouts", memberHandler.GetPayoutSchedule)
		guestV1.GET("/stats", memberHandler.GetStats)
	}

	memberV1 := router.Group("/api/v1/members")
	memberV1.Use(middleware.AdminAuth(tokenManager))
	{
		memberV1.GET("", memberHandler.GetMembers)
		memberV1.POST("/refresh", memberHandler.Refresh)
		memberV1.GET("/payouts", memberHandler.GetPayoutSchedule)
		memberV1.GET("/payouts/next", memberHandler.GetNextPayout)
		memberV1.GET("/stats", memberHandler.GetStats)
		memberV1.GET("/overview", memberHandler.GetOverview)
		memberV1.GET("/export.csv", memberHandler.ExportCSV)
		memberV1.GET("/:id", memberHandler.GetMember)
		memberV1.PUT("/:id/statuses/:date", memberHandler.UpdatePayment)
	}

	return nil
}
