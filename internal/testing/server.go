package testing

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver

	"github.com/carlosnayan/gigboard/internal/driver"
)

// SetupPostgreSQLTestDB creates a fresh PostgreSQL database on the test server.
func SetupPostgreSQLTestDB(t *testing.T) driver.DB {
	t.Helper()
	return setupServerDB(t, "postgresql", "pgx", "postgres")
}

// SetupMySQLTestDB creates a fresh MySQL database on the test server.
func SetupMySQLTestDB(t *testing.T) driver.DB {
	t.Helper()
	return setupServerDB(t, "mysql", "mysql", "")
}

// setupServerDB connects to adminDB on the server, creates a database named
// after the current time and returns a pool on it.
func setupServerDB(t *testing.T, provider, driverName, adminDB string) driver.DB {
	baseURL := GetTestDatabaseURL(provider)
	if baseURL == "" {
		t.Skipf("TEST_DATABASE_URL_%s not set, skipping %s test", provider, provider)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin, err := driver.OpenSQL(ctx, provider, driverName, replaceDatabaseName(baseURL, adminDB))
	if err != nil {
		t.Skipf("%s not available: %v", provider, err)
	}
	defer admin.Close()

	name := fmt.Sprintf("gigboard_test_%d", time.Now().UnixNano())
	if _, err := admin.ExecContext(ctx, "CREATE DATABASE "+name); err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	db, err := driver.OpenSQL(ctx, provider, driverName, replaceDatabaseName(baseURL, name))
	if err != nil {
		dropDatabase(provider, driverName, baseURL, adminDB, name)
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
		dropDatabase(provider, driverName, baseURL, adminDB, name)
	})
	return driver.NewSQLDB(db)
}

func dropDatabase(provider, driverName, baseURL, adminDB, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	admin, err := driver.OpenSQL(ctx, provider, driverName, replaceDatabaseName(baseURL, adminDB))
	if err != nil {
		return
	}
	defer admin.Close()
	_, _ = admin.ExecContext(ctx, "DROP DATABASE IF EXISTS "+name)
}
