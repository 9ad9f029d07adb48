package config

import "time"

// Storage drivers accepted by StorageConfig.Driver.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StorageConfig selects the backend holding the application list and the
// key it lives under.
type StorageConfig struct {
	Driver          string        `yaml:"driver"            env:"STORAGE_DRIVER"            env-default:"memory"`
	Key             string        `yaml:"key"               env:"STORAGE_KEY"               env-default:"applications_v1"`
	RetryAttempts   int           `yaml:"retry_attempts"    env:"STORAGE_RETRY_ATTEMPTS"    env-default:"5"`
	RetryBackoff    time.Duration `yaml:"retry_backoff"     env:"STORAGE_RETRY_BACKOFF"     env-default:"5ms"`
	RetryMaxBackoff time.Duration `yaml:"retry_max_backoff" env:"STORAGE_RETRY_MAX_BACKOFF" env-default:"200ms"`
}

// DatabaseConfig holds PostgreSQL connection settings.
// Only used when Storage.Driver is "postgres".
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"1"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	// SkipMigrate turns off applying the embedded migrations at start-up.
	SkipMigrate bool `yaml:"skip_migrate" env:"DATABASE_SKIP_MIGRATE"`
	// LockTimeout bounds how long a write waits for the record row lock.
	// Zero takes the default; a negative value leaves the server setting.
	LockTimeout time.Duration `yaml:"lock_timeout" env:"DATABASE_LOCK_TIMEOUT" env-default:"2s"`
}

// RedisConfig holds Redis connection settings.
// Only used when Storage.Driver is "redis".
type RedisConfig struct {
	URL         string        `yaml:"url"          env:"REDIS_URL"          env-default:"redis://localhost:6379/0"`
	DialTimeout time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig limits submissions per client IP. Zero takes the default
// rate; RateLimitDisabled turns limiting off.
type RateLimitConfig struct {
	SubmitPerMinute int           `yaml:"submit_per_minute" env:"RATE_LIMIT_SUBMIT_PER_MINUTE" env-default:"30"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"  env:"RATE_LIMIT_CLEANUP_INTERVAL"  env-default:"5m"`
}

// RateLimitDisabled as rate_limit.submit_per_minute turns limiting off.
// Zero cannot mean off because cleanenv fills zero fields with env-default.
const RateLimitDisabled = -1

// MetricsConfig controls the Prometheus endpoint, served unless Disabled.
type MetricsConfig struct {
	Disabled bool   `yaml:"disabled" env:"METRICS_DISABLED"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}
