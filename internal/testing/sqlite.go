package testing

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/carlosnayan/gigboard/internal/driver"
)

// SetupSQLiteTestDB opens a SQLite database in a temporary file with foreign
// keys enforced and a single connection.
func SetupSQLiteTestDB(t *testing.T) driver.DB {
	t.Helper()
	url := GetTestDatabaseURL("sqlite")
	if url == "" {
		url = "file:" + filepath.Join(t.TempDir(), "gigboard_test.db")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := driver.OpenSQL(ctx, "sqlite", "sqlite3", url)
	if err != nil {
		t.Fatalf("failed to open SQLite database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return driver.NewSQLDB(db)
}
