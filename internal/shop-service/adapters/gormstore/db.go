// Package gormstore is the GORM implementation of the shop service ports.
//
// SQLite (pure-Go modernc driver) is used for local runs and tests, Postgres
// in deployments. Every repository reads its transaction from the context
// (see dbctx); none of them opens one on its own.
package gormstore

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	// Register the pure-Go SQLite driver under the name "sqlite".
	// mattn/go-sqlite3 would need CGO.
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver        string
	DSN           string
	LogLevel      string
	SlowThreshold time.Duration
}

// Store owns the connection pool.
type Store struct {
	db *gorm.DB
}

// Open connects, installs the tracing plugin and migrates the schema.
//
//	store, err := gormstore.Open(gormstore.Config{Driver: "sqlite", DSN: "./data/shop.db"})
func Open(cfg Config) (*Store, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", DriverSQLite:
		dialector = sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: sqliteDSN(cfg.DSN)})
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("gormstore: unsupported driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger(cfg.LogLevel, cfg.SlowThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gormstore: open %s: %w", cfg.Driver, err)
	}

	if dialector.Name() == DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("gormstore: sql handle: %w", err)
		}
		// SQLite allows a single writer; one connection avoids SQLITE_BUSY
		// between concurrent units of work.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.Use(NewTracing()); err != nil {
		return nil, fmt.Errorf("gormstore: install tracing: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = closeDB(db)
		return nil, fmt.Errorf("gormstore: migrate: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) DB() *gorm.DB { return s.db }

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool. Call it with defer in main().
func (s *Store) Close() error {
	return closeDB(s.db)
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// sqliteDSN turns a plain path into a modernc DSN with WAL, foreign keys and
// a busy timeout. DSNs that already start with "file:" are kept as is.
func sqliteDSN(path string) string {
	if path == "" {
		path = "shop.db"
	}
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)
}

// newLogger routes GORM's SQL log through slog so SQL lines carry the same
// handler (and trace ids) as the rest of the service.
func newLogger(level string, slow time.Duration) gormLogger.Interface {
	if slow <= 0 {
		slow = time.Second
	}
	return gormLogger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelInfo),
		gormLogger.Config{
			SlowThreshold:             slow,
			LogLevel:                  parseLogLevel(level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

func parseLogLevel(level string) gormLogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormLogger.Silent
	case "error":
		return gormLogger.Error
	case "info":
		return gormLogger.Info
	default:
		return gormLogger.Warn
	}
}
