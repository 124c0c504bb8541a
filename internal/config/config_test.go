package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.JWT.AccessTokenExpireMinutes != 15 {
		t.Errorf("AccessTokenExpireMinutes = %d, expected 15", cfg.JWT.AccessTokenExpireMinutes)
	}
	if cfg.JWT.RefreshTokenExpireDays != 7 {
		t.Errorf("RefreshTokenExpireDays = %d, expected 7", cfg.JWT.RefreshTokenExpireDays)
	}
	if cfg.Sessions.Backend != "database" {
		t.Errorf("Sessions.Backend = %q, expected %q", cfg.Sessions.Backend, "database")
	}
	if cfg.Auth.Provider != "remote" {
		t.Errorf("Auth.Provider = %q, expected %q", cfg.Auth.Provider, "remote")
	}
}

func TestLoad_FromFile(t *testing.T) {
	content := `
server:
  port: "9090"
jwt:
  secret: file-secret
  issuer: test-issuer
  access_token_expire_minutes: 30
auth:
  provider: local
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, expected %q", cfg.Server.Port, "9090")
	}
	if cfg.JWT.Secret != "file-secret" {
		t.Errorf("JWT.Secret = %q, expected %q", cfg.JWT.Secret, "file-secret")
	}
	if cfg.JWT.AccessTokenExpireMinutes != 30 {
		t.Errorf("AccessTokenExpireMinutes = %d, expected 30", cfg.JWT.AccessTokenExpireMinutes)
	}
	// Unspecified fields keep defaults
	if cfg.JWT.RefreshTokenExpireDays != 7 {
		t.Errorf("RefreshTokenExpireDays = %d, expected default 7", cfg.JWT.RefreshTokenExpireDays)
	}
	if cfg.Auth.Provider != "local" {
		t.Errorf("Auth.Provider = %q, expected %q", cfg.Auth.Provider, "local")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("RENTAUTH_JWT_SECRET", "env-secret")
	t.Setenv("RENTAUTH_SERVER_PORT", "7070")
	t.Setenv("RENTAUTH_JWT_ACCESS_EXPIRE_MINUTES", "5")

	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("JWT.Secret = %q, expected env override", cfg.JWT.Secret)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("Server.Port = %q, expected %q", cfg.Server.Port, "7070")
	}
	if cfg.JWT.AccessTokenExpireMinutes != 5 {
		t.Errorf("AccessTokenExpireMinutes = %d, expected 5", cfg.JWT.AccessTokenExpireMinutes)
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	content := `
sessions:
  backend: memcached
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should reject unsupported sessions backend")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{not yaml"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}
