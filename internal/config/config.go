package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Notify    NotifyConfig
	Reporting ReportingConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds settings for the SQLite database.
type DatabaseConfig struct {
	Path string
}

// AuthConfig holds session and bootstrap settings. An empty JWTSecret means
// the secret is generated once and persisted in the database.
type AuthConfig struct {
	JWTSecret  string
	AdminEmail string
}

// NotifyConfig contains the outbound mail and SMS gateway settings. Empty
// URLs disable the respective gateway; deliveries are then only logged.
type NotifyConfig struct {
	MailURL   string
	MailToken string
	MailFrom  string
	SMSURL    string
	SMSToken  string
	SMSFrom   string
}

// ReportingConfig holds the daily-summary schedule.
type ReportingConfig struct {
	CronSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from
		// the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Path: getenvWithDefault("DB_PATH", "careconnect.sqlite3"),
		},
		Auth: AuthConfig{
			JWTSecret:  os.Getenv("JWT_SECRET"),
			AdminEmail: getenvWithDefault("ADMIN_EMAIL", "admin@careconnect.local"),
		},
		Notify: NotifyConfig{
			MailURL:   os.Getenv("MAIL_API_URL"),
			MailToken: os.Getenv("MAIL_API_TOKEN"),
			MailFrom:  getenvWithDefault("MAIL_FROM", "no-reply@careconnect.local"),
			SMSURL:    os.Getenv("SMS_API_URL"),
			SMSToken:  os.Getenv("SMS_API_TOKEN"),
			SMSFrom:   os.Getenv("SMS_FROM"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Database.Path == "" {
		return errors.New("DB_PATH must be provided")
	}

	if c.Auth.AdminEmail == "" {
		return errors.New("ADMIN_EMAIL must not be empty")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
