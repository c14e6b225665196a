package database

import (
	"fmt"
	"log/slog"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/config"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/model"

	"gorm.io/gorm"
)

// Migrate creates or alters the roster tables when DB_AUTO_MIGRATE is set.
// Existing rows are kept: payment history is never dropped by a migration.
func Migrate(db *gorm.DB, cfg *config.Config) error {
	if !cfg.Database.IsAutoMigrate {
		slog.Info("⏭️  데이터베이스 마이그레이션 비활성화됨",
			"auto_migrate", false, "env", cfg.App.Env,
		)
		return nil
	}

	slog.Info("📦 테이블 마이그레이션 중...", "auto_migrate", true, "env", cfg.App.Env)
	if err := RunAutoMigrate(db); err != nil {
		return fmt.Errorf("테이블 생성 실패: %w", err)
	}

	slog.Info("✅ 마이그레이션 완료!")
	return nil
}

// RunAutoMigrate creates tables based on model definitions
func RunAutoMigrate(db *gorm.DB) error {
	// 중요: 의존성 순서대로 생성 (FK 참조 순서)
	models := []interface{}{
		// Independent tables (no foreign keys)
		&model.Member{},
		// daily_statuses.member_id -> members.id
		&model.DailyStatus{},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("%T 마이그레이션 실패: %w", m, err)
		}
		slog.Debug("테이블 생성됨", "model", fmt.Sprintf("%T", m))
	}

	return nil
}
