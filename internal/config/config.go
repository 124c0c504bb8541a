package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Sessions SessionsConfig `yaml:"sessions"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Auth     AuthConfig     `yaml:"auth"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

// SessionsConfig selects where refresh-token records live.
type SessionsConfig struct {
	Backend string `yaml:"backend"` // database, redis
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret                   string `yaml:"secret"`
	Issuer                   string `yaml:"issuer"`
	Audience                 string `yaml:"audience"`
	AccessTokenExpireMinutes int    `yaml:"access_token_expire_minutes"`
	RefreshTokenExpireDays   int    `yaml:"refresh_token_expire_days"`
}

// AuthConfig selects the credential authority. The remote provider delegates
// to the user service; the local provider checks the users table directly.
type AuthConfig struct {
	Provider       string `yaml:"provider"` // remote, local
	UserServiceURL string `yaml:"user_service_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type CleanupConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"` // cron expression
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from the given YAML file, falling back to defaults
// when the file does not exist, then applies RENTAUTH_* env overrides.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg := DefaultConfig()

	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.overrideFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "8080",
			Mode: "debug",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "rentauth.db",
		},
		Sessions: SessionsConfig{
			Backend: "database",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		JWT: JWTConfig{
			Secret:                   "rentauth-secret-key-change-in-production",
			Issuer:                   "rentauth",
			Audience:                 "rentflow",
			AccessTokenExpireMinutes: 15,
			RefreshTokenExpireDays:   7,
		},
		Auth: AuthConfig{
			Provider:       "remote",
			UserServiceURL: "http://localhost:8081",
			TimeoutSeconds: 10,
		},
		Cleanup: CleanupConfig{
			Enabled:  true,
			Schedule: "0 3 * * *",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func (c *Config) overrideFromEnv() {
	setString(&c.Server.Host, "RENTAUTH_SERVER_HOST")
	setString(&c.Server.Port, "RENTAUTH_SERVER_PORT")
	setString(&c.Server.Mode, "RENTAUTH_SERVER_MODE")
	setString(&c.Database.Driver, "RENTAUTH_DATABASE_DRIVER")
	setString(&c.Database.DSN, "RENTAUTH_DATABASE_DSN")
	setString(&c.Sessions.Backend, "RENTAUTH_SESSIONS_BACKEND")
	setString(&c.Redis.Addr, "RENTAUTH_REDIS_ADDR")
	setString(&c.Redis.Password, "RENTAUTH_REDIS_PASSWORD")
	setInt(&c.Redis.DB, "RENTAUTH_REDIS_DB")
	setString(&c.JWT.Secret, "RENTAUTH_JWT_SECRET")
	setString(&c.JWT.Issuer, "RENTAUTH_JWT_ISSUER")
	setString(&c.JWT.Audience, "RENTAUTH_JWT_AUDIENCE")
	setInt(&c.JWT.AccessTokenExpireMinutes, "RENTAUTH_JWT_ACCESS_EXPIRE_MINUTES")
	setInt(&c.JWT.RefreshTokenExpireDays, "RENTAUTH_JWT_REFRESH_EXPIRE_DAYS")
	setString(&c.Auth.Provider, "RENTAUTH_AUTH_PROVIDER")
	setString(&c.Auth.UserServiceURL, "RENTAUTH_USER_SERVICE_URL")
	setString(&c.Log.Level, "RENTAUTH_LOG_LEVEL")
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret must not be empty")
	}
	if c.JWT.AccessTokenExpireMinutes <= 0 {
		c.JWT.AccessTokenExpireMinutes = 15
	}
	if c.JWT.RefreshTokenExpireDays <= 0 {
		c.JWT.RefreshTokenExpireDays = 7
	}
	switch c.Sessions.Backend {
	case "database", "redis":
	default:
		return fmt.Errorf("unsupported sessions backend: %s", c.Sessions.Backend)
	}
	switch c.Auth.Provider {
	case "remote", "local":
	default:
		return fmt.Errorf("unsupported auth provider: %s", c.Auth.Provider)
	}
	return nil
}

func setString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func setInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}
