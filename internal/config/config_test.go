package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Database.Path != "careconnect.sqlite3" {
		t.Errorf("unexpected default database path %q", cfg.Database.Path)
	}
	if cfg.Auth.AdminEmail == "" {
		t.Error("expected a default admin email")
	}
	if cfg.Reporting.CronSchedule == "" {
		t.Error("expected a default report schedule")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DB_PATH", "/tmp/test.sqlite3")
	t.Setenv("JWT_SECRET", "override-secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/test.sqlite3" {
		t.Errorf("unexpected database path %q", cfg.Database.Path)
	}
	if cfg.Auth.JWTSecret != "override-secret" {
		t.Errorf("unexpected secret %q", cfg.Auth.JWTSecret)
	}
}

func TestValidate(t *testing.T) {
	var nilCfg *Config
	if err := nilCfg.Validate(); err == nil {
		t.Error("expected error for nil config")
	}

	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty config")
	}

	cfg = &Config{
		Server:    ServerConfig{Port: "8080"},
		Database:  DatabaseConfig{Path: "x.sqlite3"},
		Auth:      AuthConfig{AdminEmail: "admin@example.com"},
		Reporting: ReportingConfig{CronSchedule: "0 20 * * *"},
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}
