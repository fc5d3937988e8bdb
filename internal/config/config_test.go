package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if errWrite := os.WriteFile(path, []byte(contents), 0o600); errWrite != nil {
		t.Fatalf("write config: %v", errWrite)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: "file:communityhub.db"
jwt:
  secret: "file-secret"
`)

	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.Environment != "development" {
		t.Fatalf("defaults not applied: %+v", cfg.Server)
	}
	if cfg.JWT.AccessTTL() != 60*time.Minute || cfg.JWT.ResetTTL() != 15*time.Minute {
		t.Fatalf("ttl defaults not applied: %v/%v", cfg.JWT.AccessTTL(), cfg.JWT.ResetTTL())
	}
	if cfg.Redis.ForgotPasswordLimit != 5 {
		t.Fatalf("limit default not applied: %d", cfg.Redis.ForgotPasswordLimit)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: "file:from-file.db"
jwt:
  secret: "file-secret"
`)
	t.Setenv("COMMUNITYHUB_DSN", "file:from-env.db")
	t.Setenv("COMMUNITYHUB_JWT_SECRET", "env-secret")

	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.Database.DSN != "file:from-env.db" {
		t.Fatalf("dsn override not applied: %s", cfg.Database.DSN)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Fatalf("secret override not applied")
	}
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9090"
`)
	if _, errLoad := Load(path); errLoad == nil {
		t.Fatalf("expected error for missing dsn and secret")
	}
}

func TestLoadCustomTTLs(t *testing.T) {
	path := writeConfig(t, `
database:
  dsn: "file:communityhub.db"
jwt:
  secret: "s"
  access-ttl-minutes: 5
  reset-ttl-minutes: 2
`)
	cfg, errLoad := Load(path)
	if errLoad != nil {
		t.Fatalf("load: %v", errLoad)
	}
	if cfg.JWT.AccessTTL() != 5*time.Minute || cfg.JWT.ResetTTL() != 2*time.Minute {
		t.Fatalf("custom ttls not applied: %v/%v", cfg.JWT.AccessTTL(), cfg.JWT.ResetTTL())
	}
}
