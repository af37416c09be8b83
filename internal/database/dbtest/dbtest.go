// Package dbtest provides isolated, migrated in-memory stores for tests.
package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/inventory_api/internal/config"
	"github.com/GTDGit/inventory_api/internal/database"
)

var seq atomic.Int64

// New returns a migrated in-memory sqlite store private to t. It is closed when t ends.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	db, err := database.Connect(&config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1)),
		MaxOpenConns: 5,
	})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := database.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
