package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Environment string          `mapstructure:"environment"`
	HTTP        HTTPConfig      `mapstructure:"http"`
	SMTP        SMTPConfig      `mapstructure:"smtp"`
	Contact     ContactConfig   `mapstructure:"contact"`
	CORS        CORSConfig      `mapstructure:"cors"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Logging     LoggingConfig   `mapstructure:"logging"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// SMTPConfig holds outbound SMTP transport configuration.
type SMTPConfig struct {
	Host               string        `mapstructure:"host"`
	Port               int           `mapstructure:"port"`
	Username           string        `mapstructure:"username"`
	Password           string        `mapstructure:"password"`
	FromName           string        `mapstructure:"from_name"`
	FromAddress        string        `mapstructure:"from_address"`
	PoolMaxConnections int           `mapstructure:"pool_max_connections"`
	PoolMaxMessages    int           `mapstructure:"pool_max_messages"`
	CommandTimeout     time.Duration `mapstructure:"command_timeout"`
	VerifyInterval     time.Duration `mapstructure:"verify_interval"`
}

// ContactConfig holds contact-form handling configuration.
type ContactConfig struct {
	Recipient string `mapstructure:"recipient"`
}

// CORSConfig holds the cross-origin request policy.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig holds per-client rate limiting configuration.
type RateLimitConfig struct {
	MaxRequests int           `mapstructure:"max_requests"`
	Window      time.Duration `mapstructure:"window"`
}

// RedisConfig holds the optional Redis connection used for rate limiting.
// An empty Addr means rate limit state is kept in process memory.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level     string `mapstructure:"level"`
	Output    string `mapstructure:"output"`
	FilePath  string `mapstructure:"file_path"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
	MaxFiles  int    `mapstructure:"max_files"`
}

// IsProduction reports whether the service runs in production mode.
// Anything other than an explicit "development" counts as production, so a
// misconfigured environment never leaks error detail to callers.
func (c *Config) IsProduction() bool {
	return !strings.EqualFold(c.Environment, "development")
}

// Load reads configuration from the given config directory path.
// It looks for a file named "config.yaml" in that directory.
// Environment variables with prefix CONTACT_RELAY_ override file values.
// For example, CONTACT_RELAY_SMTP_PASSWORD overrides smtp.password.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	v.SetEnvPrefix("CONTACT_RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}
