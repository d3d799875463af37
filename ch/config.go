package ch

import (
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// Config is the ClickHouse connection configuration
type Config struct {
	// Hosts of the cluster (required)
	Hosts []string `mapstructure:"hosts"`
	// Database to use
	// default: "default"
	Database string `mapstructure:"database"`
	// Username for authentication (required)
	Username string `mapstructure:"username"`
	// Password for authentication (required)
	Password string `mapstructure:"password"`
	// DialTimeout for establishing connections
	// default: 10 * time.Second
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	// Debug enables driver debug output
	Debug bool `mapstructure:"debug"`
	// Settings are passed through to the server
	// (https://clickhouse.com/docs/operations/settings/settings)
	Settings clickhouse.Settings `mapstructure:"settings"`
}

// DefaultConfig returns the default ClickHouse configuration
func DefaultConfig() *Config {
	return &Config{
		Database:    "default",
		DialTimeout: 10 * time.Second,
	}
}

// MergeDefaults fills zero-valued fields from the defaults and returns the
// merged configuration
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.Database == "" {
		c.Database = defaults.Database
	}
	if c.DialTimeout == 0 {
		c.DialTimeout = defaults.DialTimeout
	}
	return c
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Hosts) == 0 {
		return ErrInvalidConfig("hosts are required")
	}
	if c.Username == "" {
		return ErrInvalidConfig("username is required")
	}
	if c.Password == "" {
		return ErrInvalidConfig("password is required")
	}
	return nil
}
