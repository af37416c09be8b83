package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver, registered as "sqlite"

	appconfig "github.com/GTDGit/inventory_api/internal/config"
)

func init() {
	// sqlx only knows the cgo driver name; the pure Go one uses the same bindvars.
	sqlx.BindDriver(appconfig.DriverSQLite, sqlx.QUESTION)
}

// Connect opens the shared connection pool described by cfg.
// It applies a small retry strategy to handle transient bootstrapping issues
// (e.g., DB container starting up). The returned *sqlx.DB has pool settings
// pre-configured and is pinged before returning. A saturated pool makes callers
// wait for a free connection; there is no acquire timeout.
func Connect(cfg *appconfig.DatabaseConfig) (*sqlx.DB, error) {
	if cfg == nil {
		return nil, errors.New("nil database config")
	}

	driver, dsn, err := dataSource(cfg)
	if err != nil {
		return nil, err
	}

	// Retry policy: up to 5 attempts, exponential backoff starting at 500ms.
	const (
		maxAttempts = 5
		baseDelay   = 500 * time.Millisecond
	)

	var db *sqlx.DB
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, lastErr = sqlx.Open(driver, dsn)
		if lastErr != nil {
			sleepWithBackoff(attempt, baseDelay)
			continue
		}

		setPool(db.DB, cfg.MaxOpenConns)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()
		if lastErr == nil {
			return db, nil
		}

		_ = db.Close()
		sleepWithBackoff(attempt, baseDelay)
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxAttempts, lastErr)
}

// Exists reports whether the sqlite store file at path is already present.
func Exists(path string) bool {
	_, err := os.Stat(strings.TrimPrefix(path, "file:"))
	return err == nil
}

func dataSource(cfg *appconfig.DatabaseConfig) (driver, dsn string, err error) {
	switch cfg.Driver {
	case appconfig.DriverSQLite, "":
		return appconfig.DriverSQLite, sqliteDSN(cfg.Path), nil
	case appconfig.DriverPostgres:
		return appconfig.DriverPostgres, fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s",
			url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password), cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
		), nil
	default:
		return "", "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// sqliteDSN passes "file:" URIs through untouched so in-memory stores can be named.
func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return "file:" + path + "?_pragma=busy_timeout(5000)"
}

// setPool configures the connection pool for the database.
func setPool(db *sql.DB, maxOpen int) {
	if maxOpen <= 0 {
		maxOpen = 5
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(5 * time.Minute)
}

// sleepWithBackoff sleeps for an exponentially increasing duration.
func sleepWithBackoff(attempt int, base time.Duration) {
	// Simple exponential backoff: base * 2^(attempt-1), capped to 5s.
	d := base << (attempt - 1)
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	time.Sleep(d)
}
