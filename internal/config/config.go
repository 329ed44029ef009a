// Package config loads prisma.conf (TOML) and the project's .env file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/carlosnayan/gigboard/internal/dialect"
)

// FileName is the configuration file looked up from the working directory upwards.
const FileName = "prisma.conf"

// Config is the decoded prisma.conf.
type Config struct {
	Schema     string            `toml:"schema"`
	Datasource *DatasourceConfig `toml:"datasource"`
	Pool       *PoolConfig       `toml:"pool"`
	Cache      *CacheConfig      `toml:"cache"`
	Timeouts   *TimeoutConfig    `toml:"timeouts"`
	Log        []string          `toml:"log"`

	path string
}

// DatasourceConfig points at the database. URL accepts env("VAR") and ${VAR}.
type DatasourceConfig struct {
	URL               string `toml:"url"`
	Provider          string `toml:"provider"`
	ShadowDatabaseURL string `toml:"shadowDatabaseUrl"`
}

// PoolConfig sizes the connection pool.
type PoolConfig struct {
	MaxConns        int32    `toml:"maxConns"`
	MinConns        int32    `toml:"minConns"`
	MaxConnLifetime Duration `toml:"maxConnLifetime"`
	MaxConnIdleTime Duration `toml:"maxConnIdleTime"`
}

// CacheConfig selects the unique lookup cache.
type CacheConfig struct {
	// Driver is "memory", "redis" or "none".
	Driver     string   `toml:"driver"`
	TTL        Duration `toml:"ttl"`
	MaxEntries int      `toml:"maxEntries"`
	RedisURL   string   `toml:"redisUrl"`
}

// TimeoutConfig overrides the statement, transaction and migration deadlines.
type TimeoutConfig struct {
	Query       Duration `toml:"query"`
	Transaction Duration `toml:"transaction"`
	Migration   Duration `toml:"migration"`
}

// Duration decodes TOML strings like "5s" or "30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Load reads configPath, or the nearest prisma.conf when configPath is
// empty. The nearest .env is loaded first; variables already set in the
// environment win.
func Load(configPath string) (*Config, error) {
	loadDotEnv()

	if configPath == "" {
		found, err := findUpwards(FileName)
		if err != nil {
			return nil, err
		}
		configPath = found
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if _, err := toml.Decode(quoteEnvCalls(string(data)), &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	cfg.path = configPath
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", configPath, err)
	}
	return &cfg, nil
}

// Parse decodes TOML text without touching the filesystem or .env.
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(quoteEnvCalls(data), &cfg); err != nil {
		return nil, err
	}
	cfg.expandEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadDotEnv() {
	if path, err := findUpwards(".env"); err == nil {
		_ = godotenv.Load(path)
	}
}

func findUpwards(name string) (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%s not found", name)
		}
		dir = parent
	}
}

var envCall = regexp.MustCompile(`env\(\s*["']([A-Za-z_][A-Za-z0-9_]*)["']\s*\)`)

// bareEnvCall is a value written the schema.prisma way, url = env("VAR"),
// which is not valid TOML on its own.
var bareEnvCall = regexp.MustCompile(`(?m)^(\s*[A-Za-z0-9_.-]+\s*=\s*)env\(\s*["']([A-Za-z_][A-Za-z0-9_]*)["']\s*\)`)

// quoteEnvCalls turns bare env("VAR") values into "${VAR}" strings.
func quoteEnvCalls(data string) string {
	return bareEnvCall.ReplaceAllString(data, `${1}"$${${2}}"`)
}

// ExpandString replaces env("VAR"), env('VAR'), ${VAR} and $VAR.
func ExpandString(s string) string {
	s = envCall.ReplaceAllStringFunc(s, func(m string) string {
		return os.Getenv(envCall.FindStringSubmatch(m)[1])
	})
	return os.ExpandEnv(s)
}

func (c *Config) expandEnvVars() {
	if c.Datasource != nil {
		c.Datasource.URL = ExpandString(c.Datasource.URL)
		c.Datasource.ShadowDatabaseURL = ExpandString(c.Datasource.ShadowDatabaseURL)
	}
	if c.Cache != nil {
		c.Cache.RedisURL = ExpandString(c.Cache.RedisURL)
	}
}

// Validate fills defaults and rejects incomplete configuration.
func (c *Config) Validate() error {
	if c.Schema == "" {
		c.Schema = "prisma/schema.prisma"
	}
	if c.Datasource == nil || strings.TrimSpace(c.Datasource.URL) == "" {
		return fmt.Errorf(`datasource.url is required (use env("DATABASE_URL") or ${DATABASE_URL})`)
	}
	if c.Cache == nil {
		c.Cache = &CacheConfig{Driver: "none"}
	}
	switch c.Cache.Driver {
	case "":
		c.Cache.Driver = "none"
	case "none", "memory":
	case "redis":
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("cache.redisUrl is required when cache.driver is redis")
		}
	default:
		return fmt.Errorf("unknown cache.driver %q", c.Cache.Driver)
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = time.Minute
	}
	if c.Cache.MaxEntries == 0 {
		c.Cache.MaxEntries = 10000
	}
	if len(c.Log) == 0 {
		c.Log = []string{"warn", "error"}
	}
	return nil
}

// Path is the file the configuration was loaded from.
func (c *Config) Path() string { return c.path }

// GetDatabaseURL returns the expanded datasource URL.
func (c *Config) GetDatabaseURL() string {
	if c.Datasource == nil {
		return ""
	}
	return c.Datasource.URL
}

// GetProvider returns datasource.provider, or the provider implied by the URL
// when it is not set.
func (c *Config) GetProvider() string {
	if c.Datasource == nil {
		return ""
	}
	if c.Datasource.Provider != "" {
		return strings.ToLower(c.Datasource.Provider)
	}
	return dialect.DetectProvider(c.Datasource.URL)
}
