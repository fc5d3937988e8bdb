// Package settings maintains an in-memory snapshot of database-backed site
// configuration. The snapshot is replaced atomically on refresh so readers
// never block writers.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/communityhub-io/communityhub/internal/models"
	"gorm.io/gorm"
)

// Site configuration keys and defaults.
const (
	// SiteNameKey is the key for the public site name.
	SiteNameKey = "SITE_NAME"
	// DefaultSiteName is the fallback public site name.
	DefaultSiteName = "CommunityHub"
	// ContactEmailKey is the key for the public contact email.
	ContactEmailKey = "CONTACT_EMAIL"
	// MaintenanceModeKey toggles the public maintenance banner.
	MaintenanceModeKey = "MAINTENANCE_MODE"
	// DefaultMaintenanceMode is the fallback maintenance toggle.
	DefaultMaintenanceMode = false
)

// snapshot holds the in-memory settings values.
type snapshot struct {
	updatedAt time.Time
	values    map[string]json.RawMessage
}

// global stores the latest snapshot atomically.
var global atomic.Value // stores snapshot

func init() {
	global.Store(snapshot{values: map[string]json.RawMessage{}})
}

// Store replaces the in-memory snapshot.
func Store(updatedAt time.Time, values map[string]json.RawMessage) {
	next := make(map[string]json.RawMessage, len(values))
	for k, v := range values {
		key := strings.TrimSpace(k)
		if key == "" {
			continue
		}
		if v == nil {
			next[key] = nil
			continue
		}
		copied := make([]byte, len(v))
		copy(copied, v)
		next[key] = copied
	}
	global.Store(snapshot{updatedAt: updatedAt.UTC(), values: next})
}

// UpdatedAt returns the last refresh timestamp.
func UpdatedAt() time.Time {
	return load().updatedAt
}

// Value returns a copy of the raw value for a key.
func Value(key string) (json.RawMessage, bool) {
	cfg := load()
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	val, ok := cfg.values[key]
	if !ok {
		return nil, false
	}
	if val == nil {
		return nil, true
	}
	copied := make([]byte, len(val))
	copy(copied, val)
	return copied, true
}

// Values returns a copy of every stored key and value.
func Values() map[string]json.RawMessage {
	cfg := load()
	out := make(map[string]json.RawMessage, len(cfg.values))
	for k, v := range cfg.values {
		if v == nil {
			out[k] = nil
			continue
		}
		copied := make([]byte, len(v))
		copy(copied, v)
		out[k] = copied
	}
	return out
}

// String returns the string value for a key, or the fallback when the key
// is missing or not a JSON string.
func String(key, fallback string) string {
	raw, ok := Value(key)
	if !ok || raw == nil {
		return fallback
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fallback
	}
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

// Bool returns the boolean value for a key, or the fallback when the key
// is missing or not a JSON boolean.
func Bool(key string, fallback bool) bool {
	raw, ok := Value(key)
	if !ok || raw == nil {
		return fallback
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return fallback
	}
	return b
}

// Refresh reloads all settings from the database and replaces the snapshot.
// Required at process startup; until then readers see only defaults.
func Refresh(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("settings: nil db")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var rows []models.Setting
	if errFind := db.WithContext(ctx).
		Order("key ASC").
		Find(&rows).Error; errFind != nil {
		return errFind
	}

	values := make(map[string]json.RawMessage, len(rows))
	maxUpdatedAt := time.Time{}
	for _, row := range rows {
		key := strings.TrimSpace(row.Key)
		if key == "" {
			continue
		}
		values[key] = json.RawMessage(row.Value)
		if rowUpdatedAt := row.UpdatedAt.UTC(); rowUpdatedAt.After(maxUpdatedAt) {
			maxUpdatedAt = rowUpdatedAt
		}
	}

	Store(maxUpdatedAt, values)
	return nil
}

// load returns the current snapshot with safe defaults.
func load() snapshot {
	v := global.Load()
	cfg, ok := v.(snapshot)
	if !ok {
		return snapshot{values: map[string]json.RawMessage{}}
	}
	if cfg.values == nil {
		return snapshot{updatedAt: cfg.updatedAt, values: map[string]json.RawMessage{}}
	}
	return cfg
}
