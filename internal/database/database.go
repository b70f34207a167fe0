package database

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"expense-ledger/internal/config"
	"expense-ledger/internal/logger"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// Init opens the configured database with basic tuning. gorm output goes to
// log under the storage component; a nil log silences it.
func Init(cfg config.DatabaseConfig, log *logger.Logger) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: newGormLogger(cfg, log), TranslateError: true}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", "sqlite":
		// ensure parent directory exists
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		dialector = sqlite.Open(SQLiteDSN(cfg.Path))
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	// connection pool
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// storageWriter feeds gorm's printf-style logger into slog.
type storageWriter struct {
	log   *logger.Logger
	level slog.Level
}

func (w storageWriter) Printf(format string, args ...any) {
	w.log.Log(context.Background(), w.level, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// newGormLogger reports slow queries and errors; LogMode adds every statement.
func newGormLogger(cfg config.DatabaseConfig, log *logger.Logger) gormlogger.Interface {
	if log == nil {
		return gormlogger.Default.LogMode(gormlogger.Silent)
	}
	w := storageWriter{log: log.WithComponent(logger.ComponentStorage), level: slog.LevelWarn}
	level := gormlogger.Warn
	if cfg.LogMode {
		// statement traces share the writer with slow-query warnings
		w.level = slog.LevelInfo
		level = gormlogger.Info
	}
	return gormlogger.New(w, gormlogger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// SQLiteDSN appends the connection parameters every pooled SQLite connection needs.
// Write transactions start IMMEDIATE so two debits on the same account queue on the
// write lock instead of both reading a stale balance.
func SQLiteDSN(path string) string {
	params := "_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on&_busy_timeout=10000&_txlock=immediate"
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return path + "?" + params
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
