package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Events   EventsConfig   `yaml:"events"`
	Finance  FinanceConfig  `yaml:"finance"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port             int           `yaml:"port"`
	RateLimitPerSec  float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst   int           `yaml:"rate_limit_burst"`
	LoginRatePerMin  float64       `yaml:"login_rate_per_min"`
	CacheTTLSeconds  int           `yaml:"cache_ttl_seconds"`
	ShutdownSeconds  int           `yaml:"shutdown_seconds"`
	CacheTTL         time.Duration `yaml:"-"` // Ignored by YAML parser
	ShutdownDeadline time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
// A DSN prefixed with "sqlite:" opens an embedded SQLite file instead of Postgres.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// AuthConfig holds the owner session settings.
type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret"`
	SessionTTLMinutes int           `yaml:"session_ttl_minutes"`
	CookieName        string        `yaml:"cookie_name"`
	SecureCookie      bool          `yaml:"secure_cookie"`
	SessionTTL        time.Duration `yaml:"-"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// EventsConfig configures the optional Kafka billing event publisher.
type EventsConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Brokers      []string `yaml:"brokers"`
	Topic        string   `yaml:"topic"`
	RequiredAcks string   `yaml:"required_acks"`
	RetryMax     int      `yaml:"retry_max"`
}

// FinanceConfig holds reporting defaults.
type FinanceConfig struct {
	ReportMonths int `yaml:"report_months"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	applyEnv(&cfg)
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets secrets live outside the YAML file.
func applyEnv(cfg *Config) {
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := os.Getenv("AUTH_JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
}

func applyDefaults(cfg *Config) error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 20
	}
	if cfg.Server.LoginRatePerMin <= 0 {
		cfg.Server.LoginRatePerMin = 10
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	if cfg.Server.ShutdownSeconds <= 0 {
		cfg.Server.ShutdownSeconds = 5
	}
	cfg.Server.ShutdownDeadline = time.Duration(cfg.Server.ShutdownSeconds) * time.Second

	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.dsn must be set")
	}
	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetimeMinutes <= 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 30
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret must be set")
	}
	if cfg.Auth.SessionTTLMinutes <= 0 {
		cfg.Auth.SessionTTLMinutes = 12 * 60
	}
	cfg.Auth.SessionTTL = time.Duration(cfg.Auth.SessionTTLMinutes) * time.Minute
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "backoffice_session"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Events.Enabled {
		if len(cfg.Events.Brokers) == 0 {
			return fmt.Errorf("events.brokers must be set when events are enabled")
		}
		if cfg.Events.Topic == "" {
			cfg.Events.Topic = "billing-events"
		}
		if cfg.Events.RequiredAcks == "" {
			cfg.Events.RequiredAcks = "all"
		}
		if cfg.Events.RetryMax <= 0 {
			cfg.Events.RetryMax = 3
		}
	}

	if cfg.Finance.ReportMonths <= 0 {
		cfg.Finance.ReportMonths = 12
	}
	return nil
}
