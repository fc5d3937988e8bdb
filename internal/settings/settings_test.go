package settings

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.Setting{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func TestRefreshLoadsSnapshot(t *testing.T) {
	conn := openTestDB(t)
	rows := []models.Setting{
		{Key: SiteNameKey, Value: datatypes.JSON(`"Riverside Community"`)},
		{Key: MaintenanceModeKey, Value: datatypes.JSON(`true`)},
	}
	if errCreate := conn.Create(&rows).Error; errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}

	if errRefresh := Refresh(context.Background(), conn); errRefresh != nil {
		t.Fatalf("refresh: %v", errRefresh)
	}
	t.Cleanup(func() { Store(time.Time{}, nil) })

	if got := String(SiteNameKey, DefaultSiteName); got != "Riverside Community" {
		t.Fatalf("expected stored site name, got %q", got)
	}
	if !Bool(MaintenanceModeKey, false) {
		t.Fatalf("expected maintenance mode on")
	}
	if got := String(ContactEmailKey, "fallback@example.com"); got != "fallback@example.com" {
		t.Fatalf("missing key must fall back, got %q", got)
	}
	if UpdatedAt().IsZero() {
		t.Fatalf("refresh did not record an update time")
	}
}

func TestStringIgnoresMalformedValues(t *testing.T) {
	Store(time.Now().UTC(), map[string]json.RawMessage{
		SiteNameKey: json.RawMessage(`{"not":"a string"}`),
	})
	t.Cleanup(func() { Store(time.Time{}, nil) })

	if got := String(SiteNameKey, DefaultSiteName); got != DefaultSiteName {
		t.Fatalf("malformed value must fall back, got %q", got)
	}
}

func TestValuesReturnsCopies(t *testing.T) {
	Store(time.Now().UTC(), map[string]json.RawMessage{
		SiteNameKey: json.RawMessage(`"Original"`),
	})
	t.Cleanup(func() { Store(time.Time{}, nil) })

	values := Values()
	values[SiteNameKey][1] = 'X'
	if got := String(SiteNameKey, ""); got != "Original" {
		t.Fatalf("snapshot mutated through returned copy: %q", got)
	}
}
