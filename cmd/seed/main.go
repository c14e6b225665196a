// Command seed writes a generated roster with payment history into the configured store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/config"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/fallback"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/gateway"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/database"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/logger"
)

func main() {
	env := flag.String("env", "local", "Environment (local|dev|prod)")
	force := flag.Bool("force", false, "Upsert generated members even when some exist; recorded statuses are kept")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall seeding timeout")
	flag.Parse()

	logger.Setup(*env)

	if err := run(*env, *force, *timeout); err != nil {
		slog.Error("시드 실패", "error", err)
		os.Exit(1)
	}
}

func run(env string, force bool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}
	if !cfg.Database.IsConfigured() {
		return gateway.ErrNotConfigured
	}

	db, err := database.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("데이터베이스 종료 실패", "error", err)
		}
	}()

	generator, err := fallback.NewGenerator(cfg)
	if err != nil {
		return err
	}
	gw := gateway.New(db.DB, gateway.WithPageSize(cfg.Database.PageSize))

	if force {
		roster := generator.Generate()
		if err := gw.SeedInitialData(ctx, roster); err != nil {
			return err
		}
		slog.Info("시드 완료", "members", len(roster), "seed", generator.Seed)
		return nil
	}

	seeded, err := gw.SeedIfEmpty(ctx, generator.Generate)
	if err != nil {
		return err
	}
	if !seeded {
		return errors.New("members already exist, rerun with -force to upsert them")
	}
	slog.Info("시드 완료", "seed", generator.Seed)
	return nil
}
