package testutil

import (
	"time"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/config"
)

// Credentials accepted by the admin login in tests
const (
	TestAdminUsername = "admin"
	TestAdminPassword = "password"
)

// NewTestConfig creates a test configuration
// This removes the need for environment variables during testing
func NewTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "committee-ledger-api-test",
			Env:  "test",
			Port: 8080,
		},
		Data: config.DataConfig{
			Mode:         config.ModePersisted,
			StatusMode:   "three-state",
			FallbackSeed: 1,
			HistoryDays:  30,
		},
		Payout: config.PayoutConfig{
			StartDate:    "2025-09-24",
			IntervalDays: 15,
		},
		Database: config.DatabaseConfig{
			Driver:          config.DriverSQLite,
			Path:            ":memory:",
			MaxIdleConns:    1,
			MaxOpenConns:    1,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 10 * time.Minute,
			PageSize:        1000,
			WriteTimeout:    5 * time.Second,
			IsAutoMigrate:   true,
		},
		Admin: config.AdminConfig{
			Username: TestAdminUsername,
			Password: TestAdminPassword,
		},
		JWT: config.JWTConfig{
			Secret:        "test-jwt-secret-key-must-be-at-least-32-characters-long",
			Expiry:        24 * time.Hour,
			RefreshExpiry: 168 * time.Hour,
		},
		CORS: config.CORSConfig{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
			MaxAge:           86400,
		},
		Server: config.ServerConfig{
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			GracefulTimeout: 30 * time.Second,
			RequestTimeout:  30 * time.Second,
		},
		Redis: config.RedisConfig{
			LoginRateLimit:  10,
			LoginRateWindow: time.Minute,
		},
	}
}
