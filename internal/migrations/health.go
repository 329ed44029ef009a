package migrations

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/carlosnayan/gigboard/internal/dialect"
	"github.com/carlosnayan/gigboard/internal/driver"
)

// HealthCheck is the result of CheckHealth.
type HealthCheck struct {
	Status       string        `json:"status"` // "healthy" or "unhealthy"
	Provider     string        `json:"provider"`
	Database     string        `json:"database"`
	ResponseTime time.Duration `json:"response_time"`
	Tables       int           `json:"tables"`
	Pool         *PoolStats    `json:"pool,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// PoolStats is a snapshot of a database/sql pool.
type PoolStats struct {
	OpenConnections int   `json:"open_connections"`
	InUse           int   `json:"in_use"`
	Idle            int   `json:"idle"`
	WaitCount       int64 `json:"wait_count"`
}

func databaseNameQuery(d dialect.Dialect) string {
	switch d.Name() {
	case "mysql":
		return "SELECT DATABASE()"
	case "sqlite":
		return "SELECT 'main'"
	}
	return "SELECT current_database()"
}

// CheckHealth pings db, runs a trivial query and counts the tables within
// timeout. The returned check is filled in even when err is not nil.
func CheckHealth(ctx context.Context, db driver.DB, d dialect.Dialect, timeout time.Duration) (*HealthCheck, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	check := &HealthCheck{Provider: d.Name(), Database: "unknown"}
	fail := func(err error) (*HealthCheck, error) {
		check.Status = "unhealthy"
		check.Error = err.Error()
		return check, err
	}

	start := time.Now()
	if p, ok := db.(driver.Pinger); ok {
		if err := p.Ping(ctx); err != nil {
			check.ResponseTime = time.Since(start)
			return fail(err)
		}
	}
	var one int
	if err := db.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		check.ResponseTime = time.Since(start)
		return fail(err)
	}
	check.ResponseTime = time.Since(start)

	var name *string
	if err := db.QueryRow(ctx, databaseNameQuery(d)).Scan(&name); err == nil && name != nil {
		check.Database = *name
	}
	tables, err := ListTables(ctx, db, d)
	if err != nil {
		return fail(err)
	}
	check.Tables = len(tables)

	if sqlDB := db.SQLDB(); sqlDB != nil {
		stats := sqlDB.Stats()
		check.Pool = &PoolStats{
			OpenConnections: stats.OpenConnections,
			InUse:           stats.InUse,
			Idle:            stats.Idle,
			WaitCount:       stats.WaitCount,
		}
	}
	check.Status = "healthy"
	return check, nil
}

// Print writes the check in a readable format.
func (c *HealthCheck) Print(w io.Writer) {
	fmt.Fprintf(w, "Health Check:\n")
	fmt.Fprintf(w, "  Status: %s\n", c.Status)
	fmt.Fprintf(w, "  Provider: %s\n", c.Provider)
	fmt.Fprintf(w, "  Database: %s\n", c.Database)
	fmt.Fprintf(w, "  Tables: %d\n", c.Tables)
	fmt.Fprintf(w, "  Response Time: %v\n", c.ResponseTime)
	if c.Pool != nil {
		fmt.Fprintf(w, "  Pool: %d open, %d in use, %d idle\n", c.Pool.OpenConnections, c.Pool.InUse, c.Pool.Idle)
	}
	if c.Error != "" {
		fmt.Fprintf(w, "  Error: %s\n", c.Error)
	}
}
