package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	EditModeOverwrite = "overwrite"
	EditModeMerge     = "merge"
)

// Config holds runtime configuration for the service.
type Config struct {
	HTTPAddr        string
	DatabaseURL     string
	RedisAddr       string
	CacheTTL        time.Duration
	QueryTimeout    time.Duration
	ShutdownTimeout time.Duration
	EditMode        string
	LogFormat       string
	LogLevel        string
	RateLimitRPS    float64
	RateLimitBurst  int
	MaxBodyBytes    int64
	SwaggerEnabled  bool
}

var ErrMissingDatabaseURL = errors.New("config: DATABASE_URL is required")

func setDefaults(v *viper.Viper) {
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("cache_ttl", 5*time.Minute)
	v.SetDefault("query_timeout", 3*time.Second)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("edit_mode", EditModeOverwrite)
	v.SetDefault("log_format", "text")
	v.SetDefault("log_level", "info")
	v.SetDefault("rate_limit_rps", 10.0)
	v.SetDefault("rate_limit_burst", 20)
	v.SetDefault("max_body_bytes", 1048576) // one megabyte
	v.SetDefault("swagger_enabled", true)
}

// Load reads configuration from defaults, an optional file named by CONFIG_FILE
// and the environment, in increasing order of precedence.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	cfg := &Config{
		HTTPAddr:        v.GetString("http_addr"),
		DatabaseURL:     v.GetString("database_url"),
		RedisAddr:       v.GetString("redis_addr"),
		CacheTTL:        v.GetDuration("cache_ttl"),
		QueryTimeout:    v.GetDuration("query_timeout"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
		EditMode:        strings.ToLower(v.GetString("edit_mode")),
		LogFormat:       strings.ToLower(v.GetString("log_format")),
		LogLevel:        strings.ToLower(v.GetString("log_level")),
		RateLimitRPS:    v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:  v.GetInt("rate_limit_burst"),
		MaxBodyBytes:    v.GetInt64("max_body_bytes"),
		SwaggerEnabled:  v.GetBool("swagger_enabled"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.EditMode != EditModeOverwrite && c.EditMode != EditModeMerge {
		return fmt.Errorf("config: EDIT_MODE must be %q or %q, got %q", EditModeOverwrite, EditModeMerge, c.EditMode)
	}
	if c.QueryTimeout <= 0 {
		return fmt.Errorf("config: QUERY_TIMEOUT must be positive, got %s", c.QueryTimeout)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("config: MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes)
	}
	return nil
}

// CacheEnabled reports whether a Redis address was configured.
func (c *Config) CacheEnabled() bool {
	return c != nil && c.RedisAddr != ""
}
