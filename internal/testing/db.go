// Package testing provides database helpers for tests: a throwaway database
// per test, with the schema pushed and the connection closed on cleanup.
//
// SQLite always runs against a temporary file. PostgreSQL and MySQL run when
// TEST_DATABASE_URL_POSTGRESQL / TEST_DATABASE_URL_MYSQL (or
// TEST_DATABASE_URL) point at a server; otherwise those tests are skipped.
package testing

import (
	"os"
	"strings"
	"testing"

	"github.com/carlosnayan/gigboard/internal/driver"
)

// Providers lists every provider a test matrix can run against.
var Providers = []string{"postgresql", "mysql", "sqlite"}

// SetupTestDB creates an empty test database. It is dropped (or deleted)
// when the test ends.
func SetupTestDB(t *testing.T, provider string) driver.DB {
	t.Helper()
	switch provider {
	case "postgresql":
		return SetupPostgreSQLTestDB(t)
	case "mysql":
		return SetupMySQLTestDB(t)
	case "sqlite":
		return SetupSQLiteTestDB(t)
	}
	t.Fatalf("unsupported provider: %s", provider)
	return nil
}

// GetTestDatabaseURL gets test database URL from environment variables
func GetTestDatabaseURL(provider string) string {
	if provider == "sqlite" {
		return os.Getenv("TEST_DATABASE_URL_SQLITE")
	}
	if url := os.Getenv("TEST_DATABASE_URL_" + strings.ToUpper(provider)); url != "" {
		return url
	}
	url := os.Getenv("TEST_DATABASE_URL")
	if url != "" && strings.HasPrefix(url, providerScheme(provider)) {
		return url
	}
	return ""
}

func providerScheme(provider string) string {
	if provider == "postgresql" {
		return "postgres"
	}
	return provider
}

// SkipIfNoDatabase skips the test if database is not available. SQLite is
// always available.
func SkipIfNoDatabase(t *testing.T, provider string) {
	t.Helper()
	if provider == "sqlite" {
		return
	}
	if GetTestDatabaseURL(provider) == "" {
		t.Skipf("TEST_DATABASE_URL_%s not set, skipping %s test", strings.ToUpper(provider), provider)
	}
}

// replaceDatabaseName replaces the database name in a URL, keeping the
// query string.
func replaceDatabaseName(url, dbName string) string {
	if url == "" {
		return url
	}
	query := ""
	if i := strings.Index(url, "?"); i >= 0 {
		url, query = url[:i], url[i:]
	}
	schemeEnd := strings.Index(url, "://")
	lastSlash := strings.LastIndex(url, "/")
	if lastSlash <= schemeEnd+2 {
		return url + "/" + dbName + query
	}
	return url[:lastSlash+1] + dbName + query
}
