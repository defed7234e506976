// Package config provides environment-based configuration for the Scalingo dashboard.
//
// Values come from environment variables. When DASHBOARD_CONFIG_FILE names a YAML
// file, its values act as defaults that the environment can still override.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default upstream endpoints.
const (
	DefaultAPIURL  = "https://api.osc-fr1.scalingo.com"
	DefaultAuthURL = "https://auth.scalingo.com"
)

// Config holds all configuration for the dashboard server.
type Config struct {
	Scalingo ScalingoConfig `yaml:"scalingo"`
	Server   ServerConfig   `yaml:"server"`
	Session  SessionConfig  `yaml:"session"`
	Logs     LogsConfig     `yaml:"logs"`

	// DatabaseDSN enables the Postgres audit store when set.
	DatabaseDSN string `yaml:"database_url"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`
}

// ScalingoConfig holds the upstream API credentials and endpoints.
type ScalingoConfig struct {
	// APIToken is the personal API token exchanged for bearer tokens.
	APIToken string `yaml:"api_token"`
	// EncryptedAPIToken is an age-armored API token, used when APIToken is empty.
	EncryptedAPIToken string `yaml:"api_token_age"`
	// AgeIdentity is the X25519 identity (AGE-SECRET-KEY-1...) decrypting EncryptedAPIToken.
	AgeIdentity string `yaml:"age_identity"`

	APIURL  string        `yaml:"api_url"`
	AuthURL string        `yaml:"auth_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig holds the HTTP listener configuration.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SessionConfig holds dashboard login configuration.
type SessionConfig struct {
	Secret            string        `yaml:"secret"`
	Expiry            time.Duration `yaml:"expiry"`
	AdminEmail        string        `yaml:"admin_email"`
	AdminPasswordHash string        `yaml:"admin_password_hash"`
	CookieSecure      bool          `yaml:"cookie_secure"`
}

// LogsConfig holds log view and live tail settings.
type LogsConfig struct {
	DefaultLines int           `yaml:"default_lines"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load reads configuration from the optional config file and environment variables.
func Load() (*Config, error) {
	base, err := loadFile(os.Getenv("DASHBOARD_CONFIG_FILE"))
	if err != nil {
		return nil, err
	}

	cfg := fromEnv(base)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Scalingo.APIToken == "" && c.Scalingo.EncryptedAPIToken == "" {
		return fmt.Errorf("SCALINGO_API_TOKEN or SCALINGO_API_TOKEN_AGE is required")
	}
	if c.Scalingo.APIToken == "" && c.Scalingo.AgeIdentity == "" {
		return fmt.Errorf("SCALINGO_AGE_IDENTITY is required to decrypt SCALINGO_API_TOKEN_AGE")
	}
	if c.Session.Secret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters")
	}
	if c.Session.AdminEmail == "" || c.Session.AdminPasswordHash == "" {
		return fmt.Errorf("DASHBOARD_ADMIN_EMAIL and DASHBOARD_ADMIN_PASSWORD_HASH are required")
	}
	if c.Logs.DefaultLines < 1 || c.Logs.DefaultLines > 1000 {
		return fmt.Errorf("LOGS_DEFAULT_LINES must be between 1 and 1000")
	}
	if c.Logs.PollInterval <= 0 {
		return fmt.Errorf("LOGS_POLL_INTERVAL must be positive")
	}
	return nil
}

// LoadWithDefaults loads configuration with defaults for development.
// It does not validate required fields, useful for testing.
func LoadWithDefaults() *Config {
	cfg := fromEnv(&Config{LogJSON: true})
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = "development-secret-key-min-32-chars"
	}
	return cfg
}

// loadFile reads a YAML config file. An empty path yields an empty config.
func loadFile(path string) (*Config, error) {
	cfg := &Config{LogJSON: true}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return cfg, nil
}

// fromEnv overlays environment variables on base, falling back to built-in defaults.
func fromEnv(base *Config) *Config {
	return &Config{
		Scalingo: ScalingoConfig{
			APIToken:          getEnv("SCALINGO_API_TOKEN", base.Scalingo.APIToken),
			EncryptedAPIToken: getEnv("SCALINGO_API_TOKEN_AGE", base.Scalingo.EncryptedAPIToken),
			AgeIdentity:       getEnv("SCALINGO_AGE_IDENTITY", base.Scalingo.AgeIdentity),
			APIURL:            getEnv("SCALINGO_API_URL", or(base.Scalingo.APIURL, DefaultAPIURL)),
			AuthURL:           getEnv("SCALINGO_AUTH_URL", or(base.Scalingo.AuthURL, DefaultAuthURL)),
			Timeout:           getDurationEnv("SCALINGO_TIMEOUT", or(base.Scalingo.Timeout, 30*time.Second)),
		},
		Server: ServerConfig{
			Host:            getEnv("WEB_HOST", or(base.Server.Host, "0.0.0.0")),
			Port:            getIntEnv("WEB_PORT", or(base.Server.Port, 8090)),
			ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", or(base.Server.ShutdownTimeout, 30*time.Second)),
		},
		Session: SessionConfig{
			Secret:            getEnv("SESSION_SECRET", base.Session.Secret),
			Expiry:            getDurationEnv("SESSION_EXPIRY", or(base.Session.Expiry, 24*time.Hour)),
			AdminEmail:        getEnv("DASHBOARD_ADMIN_EMAIL", base.Session.AdminEmail),
			AdminPasswordHash: getEnv("DASHBOARD_ADMIN_PASSWORD_HASH", base.Session.AdminPasswordHash),
			CookieSecure:      getBoolEnv("SESSION_COOKIE_SECURE", base.Session.CookieSecure),
		},
		Logs: LogsConfig{
			DefaultLines: getIntEnv("LOGS_DEFAULT_LINES", or(base.Logs.DefaultLines, 100)),
			PollInterval: getDurationEnv("LOGS_POLL_INTERVAL", or(base.Logs.PollInterval, 5*time.Second)),
		},
		DatabaseDSN: getEnv("DATABASE_URL", base.DatabaseDSN),
		LogLevel:    getEnv("LOG_LEVEL", or(base.LogLevel, "info")),
		LogJSON:     getBoolEnv("LOG_JSON", base.LogJSON),
	}
}

// or returns v unless it is the zero value, in which case it returns def.
func or[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
