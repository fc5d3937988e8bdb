// Package config loads the application configuration from a YAML file
// with environment-variable overrides for secrets.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	Environment string `yaml:"environment"` // development or production.
}

// DatabaseConfig holds store connection settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret          string `yaml:"secret"`
	AccessTTLMinute int    `yaml:"access-ttl-minutes"`
	ResetTTLMinute  int    `yaml:"reset-ttl-minutes"`
}

// AccessTTL returns the access-token lifetime.
func (j JWTConfig) AccessTTL() time.Duration {
	if j.AccessTTLMinute <= 0 {
		return 60 * time.Minute
	}
	return time.Duration(j.AccessTTLMinute) * time.Minute
}

// ResetTTL returns the reset-token lifetime.
func (j JWTConfig) ResetTTL() time.Duration {
	if j.ResetTTLMinute <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(j.ResetTTLMinute) * time.Minute
}

// RedisConfig holds the optional rate-limiter backend settings.
type RedisConfig struct {
	Addr                       string `yaml:"addr"`
	Password                   string `yaml:"password"`
	ForgotPasswordLimit        int64  `yaml:"forgot-password-limit"`
	ForgotPasswordWindowMinute int    `yaml:"forgot-password-window-minutes"`
}

// ForgotPasswordWindow returns the rate-limit window.
func (r RedisConfig) ForgotPasswordWindow() time.Duration {
	if r.ForgotPasswordWindowMinute <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(r.ForgotPasswordWindowMinute) * time.Minute
}

// StorageConfig holds object-storage settings.
type StorageConfig struct {
	Bucket string `yaml:"bucket"`
	Region string `yaml:"region"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max-size-mb"`
	MaxBackups int    `yaml:"max-backups"`
	MaxAgeDays int    `yaml:"max-age-days"`
}

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// Load reads and validates the configuration at path. Environment
// variables COMMUNITYHUB_DSN and COMMUNITYHUB_JWT_SECRET override the
// file values when set.
func Load(path string) (Config, error) {
	cfg := Config{
		Server: ServerConfig{Addr: ":8080", Environment: "development"},
		Redis:  RedisConfig{ForgotPasswordLimit: 5},
	}

	raw, errRead := os.ReadFile(path)
	if errRead != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, errRead)
	}
	if errUnmarshal := yaml.Unmarshal(raw, &cfg); errUnmarshal != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, errUnmarshal)
	}

	if dsn := strings.TrimSpace(os.Getenv("COMMUNITYHUB_DSN")); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if secret := strings.TrimSpace(os.Getenv("COMMUNITYHUB_JWT_SECRET")); secret != "" {
		cfg.JWT.Secret = secret
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return Config{}, fmt.Errorf("config: missing database dsn")
	}
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return Config{}, fmt.Errorf("config: missing jwt secret")
	}
	return cfg, nil
}
