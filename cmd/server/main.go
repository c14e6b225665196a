package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/bootstrap"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/config"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/fallback"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/gateway"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/member"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/payout"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/router"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/database"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/logger"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/metrics"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/ratelimit"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/validator"
	"gorm.io/gorm"
)

func main() {
	// Parse command line flags
	env := parseFlags()

	// Initialize logger
	logger.Setup(env)
	slog.Info("서버 초기화 시작", "env", env)

	// Run application
	if err := run(env); err != nil {
		slog.Error("서버 초기화 실패", "error", err)
		os.Exit(1)
	}

	slog.Info("서버 종료 완료", "env", env)
}

// parseFlags parses command line arguments
func parseFlags() string {
	env := flag.String("env", "local", "Environment (local|dev|prod)")
	flag.Parse()
	return *env
}

// run contains the main application logic
func run(env string) error {
	// Create root context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}

	slog.Info("환경 변수 로드 성공", "dataMode", cfg.Data.Mode, "statusMode", cfg.Data.StatusMode)

	if sink := logger.NewFileSink(cfg.Log); sink != nil {
		logger.Setup(env, sink)
		defer sink.Close()
	}

	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.New()
	}

	// Connect to database
	var db *database.DB
	if !cfg.IsFallback() && cfg.Database.IsConfigured() {
		db, err = database.New(cfg)
		if err != nil {
			return fmt.Errorf("데이터베이스 연결 실패: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				slog.Error("데이터베이스 종료 실패", "error", err)
			}
		}()
	}

	directory, err := newDirectory(ctx, cfg, db, recorder)
	if err != nil {
		return err
	}

	deps := router.Dependencies{
		DB:        db,
		Directory: directory,
		Service:   member.NewMemberService(directory, payout.Rotation{StartDate: cfg.PayoutStart(), IntervalDays: cfg.Payout.IntervalDays}),
		Metrics:   recorder,
	}

	if cfg.Redis.URL != "" {
		limiter, err := ratelimit.NewRateLimiter(ctx, cfg.Redis.URL)
		if err != nil {
			slog.Warn("Redis 연결 실패, 로그인 요청 제한 비활성화", "error", err)
		} else {
			deps.Limiter = limiter
			defer limiter.Close()
		}
	}

	// Setup server
	srv, err := setupServer(cfg, deps)
	if err != nil {
		return err
	}

	// Start server with graceful shutdown
	return startWithGracefulShutdown(ctx, srv, directory, cfg.Server.GracefulTimeout)
}

// newDirectory builds the member directory for the configured data mode and performs the initial load.
func newDirectory(ctx context.Context, cfg *config.Config, db *database.DB, recorder *metrics.Recorder) (*member.Directory, error) {
	set, err := cfg.StatusSet()
	if err != nil {
		return nil, err
	}

	if cfg.IsFallback() {
		generator, err := fallback.NewGenerator(cfg)
		if err != nil {
			return nil, err
		}
		roster := generator.Generate()
		slog.Info("Fallback 데이터 모드로 실행", "members", len(roster), "seed", generator.Seed)
		return member.NewFallbackDirectory(roster, member.WithStatusSet(set), member.WithMetrics(recorder)), nil
	}

	var gormDB *gorm.DB
	if db != nil {
		gormDB = db.DB
	} else {
		slog.Warn("데이터베이스 설정 없음, 회원 목록을 불러올 수 없습니다")
	}
	gw := gateway.New(gormDB, gateway.WithPageSize(cfg.Database.PageSize))

	if cfg.Data.SeedOnEmpty && gw.IsConfigured() {
		generator, err := fallback.NewGenerator(cfg)
		if err != nil {
			return nil, err
		}
		seeded, err := gw.SeedIfEmpty(ctx, generator.Generate)
		if err != nil {
			return nil, fmt.Errorf("초기 데이터 시드 실패: %w", err)
		}
		if seeded {
			slog.Info("빈 저장소에 초기 데이터 시드 완료")
		}
	}

	directory := member.NewDirectory(gw,
		member.WithStatusSet(set),
		member.WithWriteTimeout(cfg.Database.WriteTimeout),
		member.WithMetrics(recorder),
	)

	// A failed first load is reported through /health and retried on the next read.
	if members, err := directory.Load(ctx); err != nil {
		slog.Warn("회원 목록 초기 로드 실패", "error", err)
	} else {
		slog.Info("회원 목록 로드 완료", "members", len(members))
	}

	return directory, nil
}

// setupServer initializes and configures the HTTP server
func setupServer(cfg *config.Config, deps router.Dependencies) (*bootstrap.Server, error) {
	// Bootstrap server with common setup
	boot := bootstrap.NewBootstrap(cfg)
	ginEngine := boot.SetupEngine()

	// Register common validators
	if err := validator.RegisterAll(); err != nil {
		return nil, fmt.Errorf("공통 Validator 등록 실패: %w", err)
	}

	// Setup application-specific routes
	if err := router.Setup(ginEngine, cfg, deps); err != nil {
		return nil, fmt.Errorf("라우터 설정 실패: %w", err)
	}

	slog.Info("서버 설정 완료",
		"env", cfg.App.Env,
		"fallback", deps.Directory.IsFallback(),
	)

	return bootstrap.New(cfg, ginEngine), nil
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func startWithGracefulShutdown(ctx context.Context, srv *bootstrap.Server, directory *member.Directory, gracefulTimeout time.Duration) error {
	// Channel to receive server errors
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		serverErrors <- srv.Start()
	}()

	// Channel to receive OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Wait for either server error or interrupt signal
	select {
	case err := <-serverErrors:
		// Server failed to start or stopped unexpectedly
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("서버 오류: %w", err)
		}
		return nil

	case sig := <-quit:
		// Received shutdown signal
		slog.Info("종료 신호 수신됨", "signal", sig.String())

		// Create shutdown context with timeout
		shutdownCtx, cancel := context.WithTimeout(ctx, gracefulTimeout)
		defer cancel()

		// Attempt graceful shutdown
		slog.Info("서버 종료 중...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("서버 강제 종료: %w", err)
		}

		// Background status writes still in flight
		if err := directory.Wait(shutdownCtx); err != nil {
			slog.Warn("저장 대기 중인 결제 상태가 남아 있습니다", "error", err)
		}
		return nil
	}
}
