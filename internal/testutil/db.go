package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"unicode"

	"github.com/jmoiron/sqlx"

	"github.com/joestump/bookmarks/internal/db"
	"github.com/joestump/bookmarks/internal/logger"
	_ "modernc.org/sqlite"
)

var dbSeq atomic.Int64

// NewTestDB opens an in-memory SQLite DB and runs all goose migrations.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	// A file URI with shared cache lets every pool connection see the same
	// in-memory database. Each test gets a unique name so tests stay isolated.
	dsn := "file:" + dbName(t) + "?mode=memory&cache=shared&_pragma=busy_timeout(5000)"
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := db.Up(conn, "sqlite3", logger.NewNop()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return conn
}

// dbName turns the test name into a URI-safe database name. Subtest names
// may carry '/', '?' or '#', which would otherwise end the path.
func dbName(t *testing.T) string {
	name := strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return r
		}
		return '_'
	}, t.Name())
	return fmt.Sprintf("%s_%d", name, dbSeq.Add(1))
}
