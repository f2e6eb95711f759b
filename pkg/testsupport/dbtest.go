package testsupport

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

var memoryDBSeq atomic.Int64

// NewSQLiteMemoryDB opens a private shared-cache in-memory database. Each call
// gets its own name so parallel tests never observe each other's rows.
func NewSQLiteMemoryDB() (*sql.DB, error) {
	name := fmt.Sprintf("docsync_test_%d", memoryDBSeq.Add(1))
	return sql.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared&_fk=1")
}

// NewBunDB wraps a fresh in-memory SQLite database in bun and closes it when
// the test ends.
func NewBunDB(t testing.TB) *bun.DB {
	t.Helper()
	sqlDB, err := NewSQLiteMemoryDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}
