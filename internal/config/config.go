// Package config reads the site configuration from the environment. A .env
// file in the working directory is loaded first by godotenv.
package config

import (
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/pkg/errors"
)

// Config holds all configuration for the portfolio server.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Content ContentConfig
	DB      DBConfig
	SMTP    SMTPConfig
	Admin   AdminConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port       string
	Mode       string
	SessionTTL time.Duration
}

// LogConfig controls the logrus logger.
type LogConfig struct {
	Level  string
	Format string
}

// ContentConfig points at the catalog and sets page sizes.
type ContentConfig struct {
	CatalogPath     string
	ProjectsPerPage int
}

// DBConfig holds the visitor analytics database location.
type DBConfig struct {
	Path string
}

// SMTPConfig is used to deliver contact form messages.
type SMTPConfig struct {
	Host    string
	Port    string
	User    string
	Pass    string
	ToEmail string
}

// Configured reports whether credentials are present.
func (c SMTPConfig) Configured() bool {
	return c.User != "" && c.Pass != ""
}

// DefaultAdminPassword is only accepted outside release mode.
const DefaultAdminPassword = "admin123"

// AdminConfig holds the admin login credentials.
type AdminConfig struct {
	Username string
	Password string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:       getEnv("PORT", "8080"),
			Mode:       getEnv("GIN_MODE", "debug"),
			SessionTTL: getEnvAsDuration("SESSION_TTL", 2*time.Hour),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "fmt"),
		},
		Content: ContentConfig{
			CatalogPath:     getEnv("CATALOG_PATH", ""),
			ProjectsPerPage: getEnvAsInt("PROJECTS_PER_PAGE", 6),
		},
		DB: DBConfig{
			Path: getEnv("DB_PATH", "data/portfolio.db"),
		},
		SMTP: SMTPConfig{
			Host:    getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:    getEnv("SMTP_PORT", "587"),
			User:    os.Getenv("SMTP_USER"),
			Pass:    os.Getenv("SMTP_PASS"),
			ToEmail: getEnv("TO_EMAIL", "hello@example.com"),
		},
		Admin: AdminConfig{
			Username: getEnv("ADMIN_USERNAME", "admin"),
			Password: getEnv("ADMIN_PASSWORD", DefaultAdminPassword),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return errors.Errorf("port must be between 1 and 65535, got %q", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return errors.Errorf("unknown GIN_MODE %q", c.Server.Mode)
	}
	if c.Content.ProjectsPerPage <= 0 {
		return errors.Errorf("PROJECTS_PER_PAGE must be positive, got %d", c.Content.ProjectsPerPage)
	}
	if c.Server.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.Server.Mode == "release" && c.Admin.Password == DefaultAdminPassword {
		return errors.New("ADMIN_PASSWORD must be set in release mode")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
