package testsupport

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// NewSQLiteMemoryDB opens a named shared-cache in-memory SQLite database. Tests
// pass distinct names to keep their data isolated.
func NewSQLiteMemoryDB(name string) (*sql.DB, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return sql.Open("sqlite3", "file::memory:?cache=shared")
	}
	return sql.Open("sqlite3", fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name))
}

// NewBunSQLiteDB returns a bun.DB over an isolated in-memory SQLite database
// that is closed when the test finishes.
func NewBunSQLiteDB(t testing.TB) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	sqldb, err := NewSQLiteMemoryDB(name)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
