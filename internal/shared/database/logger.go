package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/config"
	"github.com/changhyeonkim/committee-ledger/go-api-server/internal/shared/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger routes gorm output through the request logger found in the query context,
// so SQL lines carry request_id and, for background writes, member_id/date.
type GormLogger struct {
	attrs         []any
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	hideSQL       bool
}

// newLogger logs every statement at debug outside prod; prod logs errors only and hides bound values.
func newLogger(cfg *config.Config) gormlogger.Interface {
	level := gormlogger.Info
	if cfg.IsProduction() {
		level = gormlogger.Error
	}
	return &GormLogger{
		attrs:         []any{"component", "gorm", "driver", cfg.Database.Driver},
		level:         level,
		slowThreshold: slowQueryThreshold,
		hideSQL:       cfg.IsProduction(),
	}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) log(ctx context.Context) *slog.Logger {
	return logger.FromContext(ctx).With(l.attrs...)
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.log(ctx).InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.log(ctx).WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.log(ctx).ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []any{"elapsed", elapsed.String(), "rows", rows, "sql", l.sqlForLog(sql)}

	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
		// absent rows are a normal answer for status lookups
	case err != nil && errors.Is(err, gorm.ErrDuplicatedKey):
		// a lost insert race on daily_statuses; the gateway retries it as an update
		if l.level >= gormlogger.Warn {
			l.log(ctx).WarnContext(ctx, "Duplicate key on write", fields...)
		}
		return
	case err != nil:
		if l.level >= gormlogger.Error {
			l.log(ctx).ErrorContext(ctx, "Database query error", append(fields, "error", err)...)
		}
		return
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		if l.level >= gormlogger.Warn {
			l.log(ctx).WarnContext(ctx, "Slow SQL query detected", append(fields, "threshold", l.slowThreshold.String())...)
		}
		return
	}

	if l.level >= gormlogger.Info {
		l.log(ctx).DebugContext(ctx, "SQL query executed", fields...)
	}
}

func (l *GormLogger) sqlForLog(sql string) string {
	if l.hideSQL {
		return "[hidden]"
	}
	return sql
}
