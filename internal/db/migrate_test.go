package db

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestMigrateSQLiteCreatesEntityTables(t *testing.T) {
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}

	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	for _, table := range []string{
		"admins",
		"categories",
		"business_accounts",
		"personal_accounts",
		"jobs",
		"advertisements",
		"galleries",
		"news",
		"events",
		"settings",
	} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("missing table %s", table)
		}
	}
}

func TestMigrateSQLiteLifecycleColumns(t *testing.T) {
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}

	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	for _, column := range []string{"visibility", "is_deleted", "deleted_at"} {
		if !conn.Migrator().HasColumn("jobs", column) {
			t.Fatalf("jobs missing column %s", column)
		}
	}
	for _, column := range []string{"status", "approved_by", "approved_at", "rejected_by", "rejected_at"} {
		if !conn.Migrator().HasColumn("advertisements", column) {
			t.Fatalf("advertisements missing column %s", column)
		}
	}
	for _, column := range []string{"password", "auto_generated_passwd", "reset_password_access", "last_sync", "last_used"} {
		if !conn.Migrator().HasColumn("admins", column) {
			t.Fatalf("admins missing column %s", column)
		}
	}
}

func TestSeedSuperAdminIdempotent(t *testing.T) {
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := Migrate(conn); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}

	t.Setenv("COMMUNITYHUB_ADMIN_EMAIL", "root@example.com")
	t.Setenv("COMMUNITYHUB_ADMIN_PASSWORD", "bootstrap-secret")

	if errSeed := SeedSuperAdmin(conn); errSeed != nil {
		t.Fatalf("seed: %v", errSeed)
	}
	if errSeed := SeedSuperAdmin(conn); errSeed != nil {
		t.Fatalf("seed again: %v", errSeed)
	}

	var count int64
	if errCount := conn.Table("admins").Where("email = ?", "root@example.com").Count(&count).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected 1 seeded admin, got %d", count)
	}
}
