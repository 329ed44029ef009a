package migrations

import (
	"database/sql"
	"time"

	"github.com/carlosnayan/gigboard/internal/config"
)

// PoolConfig sizes a database/sql pool.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig returns the default pool settings.
func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}
}

// poolConfigFrom overlays the [pool] section of prisma.conf on the defaults.
func poolConfigFrom(c *config.PoolConfig) *PoolConfig {
	pc := DefaultPoolConfig()
	if c == nil {
		return pc
	}
	if c.MaxConns > 0 {
		pc.MaxOpenConns = int(c.MaxConns)
	}
	if c.MinConns > 0 {
		pc.MaxIdleConns = int(c.MinConns)
	}
	if c.MaxConnLifetime.Duration > 0 {
		pc.ConnMaxLifetime = c.MaxConnLifetime.Duration
	}
	if c.MaxConnIdleTime.Duration > 0 {
		pc.ConnMaxIdleTime = c.MaxConnIdleTime.Duration
	}
	return pc
}

// ConfigurePool applies config to db. A nil config means DefaultPoolConfig.
func ConfigurePool(db *sql.DB, config *PoolConfig) {
	if config == nil {
		config = DefaultPoolConfig()
	}
	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)
}
