package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server read/write timeouts must be > 0")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be > 0 (got %v)", c.Server.ShutdownTimeout)
	}

	if err := c.Storage.validate(); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	switch c.Storage.Driver {
	case DriverPostgres:
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required for the %q storage driver", DriverPostgres)
		}
		if c.Database.MinConns > c.Database.MaxConns {
			return fmt.Errorf("database.min_conns (%d) exceeds max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
		}
	case DriverRedis:
		if strings.TrimSpace(c.Redis.URL) == "" {
			return fmt.Errorf("redis.url is required for the %q storage driver", DriverRedis)
		}
	}

	if c.RateLimit.SubmitPerMinute < RateLimitDisabled {
		return fmt.Errorf("rate_limit.submit_per_minute must be >= %d (got %d)", RateLimitDisabled, c.RateLimit.SubmitPerMinute)
	}
	if c.RateLimit.CleanupInterval <= 0 {
		return fmt.Errorf("rate_limit.cleanup_interval must be > 0 (got %v)", c.RateLimit.CleanupInterval)
	}

	if !c.Metrics.Disabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with / (got %q)", c.Metrics.Path)
	}

	return nil
}

func (s *StorageConfig) validate() error {
	s.Driver = strings.ToLower(strings.TrimSpace(s.Driver))
	switch s.Driver {
	case DriverMemory, DriverRedis, DriverPostgres:
	default:
		return fmt.Errorf("unknown driver %q (want memory, redis or postgres)", s.Driver)
	}
	if strings.TrimSpace(s.Key) == "" {
		return fmt.Errorf("key must not be empty")
	}
	if s.RetryAttempts < 1 {
		return fmt.Errorf("retry_attempts must be >= 1 (got %d)", s.RetryAttempts)
	}
	if s.RetryBackoff < 0 {
		return fmt.Errorf("retry_backoff must be >= 0 (got %v)", s.RetryBackoff)
	}
	return nil
}
