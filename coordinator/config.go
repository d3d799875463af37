package coordinator

import "time"

// Config holds configuration for a Coordinator
type Config struct {
	// Name identifies the coordinated resource in logs and keys its
	// single-flight group (required)
	Name string `mapstructure:"name"`
	// TTL is how long a fetched payload is served without revalidation
	// default: 5 * time.Minute
	TTL time.Duration `mapstructure:"ttl"`
	// MinFetchInterval is the floor between outbound attempts, enforced
	// even when the cache has already expired
	// default: 30 * time.Second
	MinFetchInterval time.Duration `mapstructure:"min_fetch_interval"`
	// MaxRetries caps the stored retry counter; it never blocks future
	// attempts
	// default: 3
	MaxRetries int `mapstructure:"max_retries"`
	// JitterMin and JitterMax bound the randomized delay a Binding waits
	// before its deferred initial fetch, so many consumers mounting at once
	// do not stampede the coordinator
	// defaults: 1 * time.Second, 3 * time.Second
	JitterMin time.Duration `mapstructure:"jitter_min"`
	JitterMax time.Duration `mapstructure:"jitter_max"`
}

// DefaultConfig returns the default configuration for a Coordinator.
// Note: Name has no default and must be explicitly set by the user.
func DefaultConfig() *Config {
	return &Config{
		TTL:              5 * time.Minute,
		MinFetchInterval: 30 * time.Second,
		MaxRetries:       3,
		JitterMin:        1 * time.Second,
		JitterMax:        3 * time.Second,
	}
}

// MergeDefaults fills zero-valued fields from the defaults and returns the
// merged configuration
func (c *Config) MergeDefaults() *Config {
	defaults := DefaultConfig()
	if c.TTL == 0 {
		c.TTL = defaults.TTL
	}
	if c.MinFetchInterval == 0 {
		c.MinFetchInterval = defaults.MinFetchInterval
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaults.MaxRetries
	}
	if c.JitterMin == 0 {
		c.JitterMin = defaults.JitterMin
	}
	if c.JitterMax == 0 {
		c.JitterMax = defaults.JitterMax
	}
	return c
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrInvalidConfig("name is required")
	}
	if c.TTL <= 0 {
		return ErrInvalidConfig("ttl must be > 0")
	}
	if c.MinFetchInterval <= 0 {
		return ErrInvalidConfig("min_fetch_interval must be > 0")
	}
	if c.MaxRetries < 1 {
		return ErrInvalidConfig("max_retries must be >= 1")
	}
	if c.JitterMin <= 0 || c.JitterMax < c.JitterMin {
		return ErrInvalidConfig("jitter bounds must satisfy 0 < jitter_min <= jitter_max")
	}
	return nil
}
