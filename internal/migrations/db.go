package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/carlosnayan/gigboard/internal/config"
	"github.com/carlosnayan/gigboard/internal/dialect"
	"github.com/carlosnayan/gigboard/internal/driver"
	"github.com/carlosnayan/gigboard/internal/errors"
	// Note: callers must import their database driver, e.g.:
	// _ "github.com/jackc/pgx/v5/stdlib" for PostgreSQL
	// _ "github.com/go-sql-driver/mysql" for MySQL
	// _ "github.com/mattn/go-sqlite3" for SQLite
)

// ConnectDatabase opens a database/sql pool for url and returns it with the
// detected provider.
func ConnectDatabase(ctx context.Context, url string) (*sql.DB, string, error) {
	return ConnectProvider(ctx, dialect.DetectProvider(url), url)
}

// ConnectProvider is ConnectDatabase with an explicit provider.
func ConnectProvider(ctx context.Context, provider, url string) (*sql.DB, string, error) {
	d := dialect.GetDialect(provider)
	provider = d.Name()

	db, err := driver.OpenSQL(ctx, provider, d.GetDriverName(), url)
	if err != nil {
		if strings.Contains(err.Error(), "unknown driver") {
			return nil, "", fmt.Errorf("driver %q is not registered, import it with a blank import: %w", d.GetDriverName(), err)
		}
		return nil, "", errors.MapConnectError(err)
	}
	return db, provider, nil
}

// ConnectConfig connects with the datasource and pool settings of cfg.
func ConnectConfig(ctx context.Context, cfg *config.Config) (*sql.DB, dialect.Dialect, error) {
	db, provider, err := ConnectProvider(ctx, cfg.GetProvider(), cfg.GetDatabaseURL())
	if err != nil {
		return nil, nil, err
	}
	if provider != "sqlite" {
		ConfigurePool(db, poolConfigFrom(cfg.Pool))
	}
	return db, dialect.GetDialect(provider), nil
}
