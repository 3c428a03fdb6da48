// internal/common/config/config.go
package config

import "time"

// Config is the main client configuration struct.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	API     APIConfig     `mapstructure:"api"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Display DisplayConfig `mapstructure:"display"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// APIConfig is the injected transport configuration for the notification service.
type APIConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	Timeout           int     `mapstructure:"timeout"` // milliseconds
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
	UserAgent         string  `mapstructure:"user_agent"`
}

// GetTimeout returns the request timeout as a duration.
func (a APIConfig) GetTimeout() time.Duration {
	return time.Duration(a.Timeout) * time.Millisecond
}

// CacheConfig selects where the schema list is kept between invocations.
type CacheConfig struct {
	Backend string      `mapstructure:"backend"` // "memory" or "redis"
	TTL     int         `mapstructure:"ttl"`     // seconds
	Redis   RedisConfig `mapstructure:"redis"`
}

// GetTTL returns the cache TTL as a duration.
func (c CacheConfig) GetTTL() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// DisplayConfig controls how instants are rendered and how naive input is read.
type DisplayConfig struct {
	Timezone string `mapstructure:"timezone"` // IANA name; empty means the process local zone
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

type WatchConfig struct {
	Schedule string `mapstructure:"schedule"` // cron spec
}
