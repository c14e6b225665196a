package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"
	"github.com/joho/godotenv"
)

// Data modes
const (
	ModePersisted = "persisted" // roster lives in the relational store
	ModeFallback  = "fallback"  // generated in-memory roster, store never touched
)

// Database drivers
const (
	DriverOracle = "oracle"
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	App      AppConfig
	Data     DataConfig
	Payout   PayoutConfig
	Database DatabaseConfig
	Admin    AdminConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Server   ServerConfig
	Log      LogConfig
	Redis    RedisConfig
	Metrics  MetricsConfig
}

type AppConfig struct {
	Name string
	Env  string
	Port int
}

type DataConfig struct {
	Mode         string // persisted | fallback
	StatusMode   string // two-state | three-state
	SeedOnEmpty  bool
	FallbackSeed int64
	HistoryDays  int
}

type PayoutConfig struct {
	StartDate    string
	IntervalDays int
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Service         string // oracle service name or mysql database name
	User            string
	Password        string
	Path            string // sqlite file
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PageSize        int
	WriteTimeout    time.Duration
	IsAutoMigrate   bool
}

type AdminConfig struct {
	Username string
	Password string // plain text or bcrypt hash
}

type JWTConfig struct {
	Secret        string
	Expiry        time.Duration
	RefreshExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
	RequestTimeout  time.Duration
}

type LogConfig struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type RedisConfig struct {
	URL             string
	LoginRateLimit  int
	LoginRateWindow time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

func Load(env string) (*Config, error) {
	if err := loadEnvFile(env); err != nil {
		return nil, fmt.Errorf("환경 변수 로드 실패: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "committee-ledger-api"),
			Env:  env,
			Port: getEnvAsInt("APP_PORT", 8080),
		},
		Data: DataConfig{
			Mode:         getEnv("DATA_MODE", ModePersisted),
			StatusMode:   getEnv("STATUS_MODE", string(model.ThreeState)),
			SeedOnEmpty:  getEnvAsBool("SEED_ON_EMPTY", false),
			FallbackSeed: int64(getEnvAsInt("FALLBACK_SEED", 1)),
			HistoryDays:  getEnvAsInt("FALLBACK_HISTORY_DAYS", 60),
		},
		Payout: PayoutConfig{
			StartDate:    getEnv("PAYOUT_START_DATE", "2025-09-24"),
			IntervalDays: getEnvAsInt("PAYOUT_INTERVAL_DAYS", 15),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", DriverOracle),
			Host:            getEnv("DB_HOST", ""),
			Port:            getEnvAsInt("DB_PORT", 1521),
			Service:         getEnv("DB_SERVICE", ""),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			Path:            getEnv("DB_PATH", ""),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", "1h"),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", "10m"),
			PageSize:        getEnvAsInt("DB_PAGE_SIZE", 1000),
			WriteTimeout:    getEnvAsDuration("DB_WRITE_TIMEOUT", "10s"),
			IsAutoMigrate:   getEnvAsBool("DB_AUTO_MIGRATE", false), // 기본값: false (안전)
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", ""),
			Expiry:        getEnvAsDuration("JWT_EXPIRY", "24h"),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", "168h"),
		},
		CORS: CORSConfig{
			AllowedOrigins:   getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods:   getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders:   getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"*"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 86400),
		},
		Server: ServerConfig{
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:     getEnvAsDuration("SERVER_IDLE_TIMEOUT", "60s"),
			GracefulTimeout: getEnvAsDuration("GRACEFUL_TIMEOUT", "30s"),
			RequestTimeout:  getEnvAsDuration("REQUEST_TIMEOUT", "30s"),
		},
		Log: LogConfig{
			File:       getEnv("LOG_FILE", ""),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 30),
		},
		Redis: RedisConfig{
			URL:             getEnv("REDIS_URL", ""),
			LoginRateLimit:  getEnvAsInt("LOGIN_RATE_LIMIT", 10),
			LoginRateWindow: getEnvAsDuration("LOGIN_RATE_WINDOW", "1m"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvAsBool("METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("환경 변수 검증 실패 : %w", err)
	}

	return cfg, nil
}

func loadEnvFile(env string) error {
	envFile := fmt.Sprintf(".env.%s", env)

	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		slog.Warn("환경 변수 파일을 찾을 수 없습니다. 시스템 환경 변수를 사용합니다.",
			"file", envFile)
		return nil
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("환경 변수 파일 로드 오류: %s: %w", envFile, err)
	}

	absPath, _ := filepath.Abs(envFile)
	slog.Info("환경 변수 파일 로드", "file", absPath)
	return nil
}

// Validate checks settings the process cannot run without. Missing database
// credentials are not an error: the roster then reports "not configured".
func (c *Config) Validate() error {
	var errors []string

	// App validation
	if c.App.Port < 1 || c.App.Port > 65535 {
		errors = append(errors, "유효하지 않은 포트 번호")
	}

	// Data validation
	if c.Data.Mode != ModePersisted && c.Data.Mode != ModeFallback {
		errors = append(errors, fmt.Sprintf("unknown DATA_MODE %q", c.Data.Mode))
	}
	if _, err := c.StatusSet(); err != nil {
		errors = append(errors, err.Error())
	}

	// Payout validation
	if _, err := model.ParseDate(c.Payout.StartDate); err != nil {
		errors = append(errors, "PAYOUT_START_DATE must be YYYY-MM-DD")
	}
	if c.Payout.IntervalDays < 1 {
		errors = append(errors, "PAYOUT_INTERVAL_DAYS must be positive")
	}

	// Database validation
	switch c.Database.Driver {
	case DriverOracle, DriverMySQL, DriverSQLite:
	default:
		errors = append(errors, fmt.Sprintf("unknown DB_DRIVER %q", c.Database.Driver))
	}
	if c.Database.PageSize < 1 {
		errors = append(errors, "DB_PAGE_SIZE must be positive")
	}

	// Admin validation
	if c.Admin.Username == "" || c.Admin.Password == "" {
		errors = append(errors, "ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}

	// JWT validation
	if c.JWT.Secret == "" {
		errors = append(errors, "JWT Secret Key가 필요합니다")
	}
	if len(c.JWT.Secret) < 32 {
		errors = append(errors, "JWT Secret Key는 32자 이상이어야 합니다")
	}

	if len(errors) > 0 {
		return fmt.Errorf("유효성 검사 오류: %s", strings.Join(errors, ", "))
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.App.Env == "local" || c.App.Env == "dev"
}

func (c *Config) IsProduction() bool {
	return c.App.Env == "prod"
}

func (c *Config) IsFallback() bool {
	return c.Data.Mode == ModeFallback
}

// StatusSet returns the closed status enumeration this deployment accepts.
func (c *Config) StatusSet() (model.StatusSet, error) {
	return model.NewStatusSet(model.StatusMode(c.Data.StatusMode))
}

// PayoutStart returns the parsed rotation start date. Validate guarantees it parses.
func (c *Config) PayoutStart() model.Date {
	d, _ := model.ParseDate(c.Payout.StartDate)
	return d
}

// IsConfigured reports whether enough credentials are present to reach the store.
// It performs no I/O.
func (d DatabaseConfig) IsConfigured() bool {
	switch d.Driver {
	case DriverSQLite:
		return d.Path != ""
	case DriverOracle, DriverMySQL:
		return d.Host != "" && d.Service != "" && d.User != "" && d.Password != ""
	default:
		return false
	}
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	if defaultDuration, err := time.ParseDuration(defaultValue); err == nil {
		return defaultDuration
	}
	return 0
}
