package lifecycle

import (
	"context"
	"testing"
	"time"

	"github.com/communityhub-io/communityhub/internal/apperr"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var jobPolicy = Descriptor{
	Noun:               "job",
	DeletedVisibility:  models.VisibilityHide,
	RestoredVisibility: models.VisibilityShow,
}

var adminPolicy = Descriptor{
	Noun:               "admin",
	DeletedStatus:      models.StatusInactive,
	RestoredStatus:     models.StatusActive,
	DeletedVisibility:  models.VisibilityHide,
	RestoredVisibility: models.VisibilityShow,
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.Job{}, &models.Admin{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func seedApprovedJob(t *testing.T, conn *gorm.DB) models.Job {
	t.Helper()
	actor := uint64(7)
	now := time.Now().UTC()
	job := models.Job{
		Code:          "JOB100",
		CreatedBy:     1,
		CreatedByRole: models.CreatorAdmin,
		Desc:          "warehouse shift lead",
		CategoryID:    1,
	}
	job.Status = models.StatusApproved
	job.ApprovedBy = &actor
	job.ApprovedAt = &now
	if errCreate := conn.Create(&job).Error; errCreate != nil {
		t.Fatalf("create job: %v", errCreate)
	}
	return job
}

func TestSoftDeleteRestoreRoundTripKeepsModerationHistory(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	job := seedApprovedJob(t, conn)

	if _, errDelete := SoftDelete[models.Job](ctx, conn, jobPolicy, job.ID); errDelete != nil {
		t.Fatalf("soft delete: %v", errDelete)
	}

	var deleted models.Job
	if errFind := conn.First(&deleted, job.ID).Error; errFind != nil {
		t.Fatalf("reload: %v", errFind)
	}
	if !deleted.IsDeleted || deleted.DeletedAt == nil {
		t.Fatalf("expected deleted partition, got isDeleted=%v deletedAt=%v", deleted.IsDeleted, deleted.DeletedAt)
	}
	if deleted.Visibility != models.VisibilityHide {
		t.Fatalf("expected Hide visibility, got %s", deleted.Visibility)
	}
	if deleted.Status != models.StatusApproved || deleted.ApprovedBy == nil {
		t.Fatalf("moderation history lost on delete: status=%s", deleted.Status)
	}

	restored, _, errRestore := Restore[models.Job](ctx, conn, jobPolicy, job.ID)
	if errRestore != nil {
		t.Fatalf("restore: %v", errRestore)
	}
	if restored.IsDeleted || restored.DeletedAt != nil {
		t.Fatalf("restore left deletion markers: isDeleted=%v", restored.IsDeleted)
	}
	if restored.Visibility != models.VisibilityShow {
		t.Fatalf("expected Show visibility after restore, got %s", restored.Visibility)
	}
	if restored.Status != models.StatusApproved || restored.ApprovedBy == nil || restored.ApprovedAt == nil {
		t.Fatalf("moderation history lost on restore: status=%s", restored.Status)
	}
}

func TestSoftDeleteAppliesCredentialedStatus(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	admin := models.Admin{Name: "Asha", Email: "asha@example.com", Role: models.RoleAdmin}
	admin.Password = "x"
	admin.Status = models.StatusActive
	if errCreate := conn.Create(&admin).Error; errCreate != nil {
		t.Fatalf("create admin: %v", errCreate)
	}

	if _, errDelete := SoftDelete[models.Admin](ctx, conn, adminPolicy, admin.ID); errDelete != nil {
		t.Fatalf("soft delete: %v", errDelete)
	}
	var deleted models.Admin
	if errFind := conn.First(&deleted, admin.ID).Error; errFind != nil {
		t.Fatalf("reload: %v", errFind)
	}
	if deleted.Status != models.StatusInactive {
		t.Fatalf("expected Inactive after delete, got %s", deleted.Status)
	}

	restored, _, errRestore := Restore[models.Admin](ctx, conn, adminPolicy, admin.ID)
	if errRestore != nil {
		t.Fatalf("restore: %v", errRestore)
	}
	if restored.Status != models.StatusActive {
		t.Fatalf("expected Active after restore, got %s", restored.Status)
	}
}

func TestSoftDeleteTwiceIsNotFound(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	job := seedApprovedJob(t, conn)

	if _, errDelete := SoftDelete[models.Job](ctx, conn, jobPolicy, job.ID); errDelete != nil {
		t.Fatalf("soft delete: %v", errDelete)
	}
	_, errAgain := SoftDelete[models.Job](ctx, conn, jobPolicy, job.ID)
	if !apperr.Is(errAgain, apperr.CodeNotFound) {
		t.Fatalf("expected NotFound on second delete, got %v", errAgain)
	}
}

func TestRestoreLiveRecordIsNotFound(t *testing.T) {
	conn := openTestDB(t)
	job := seedApprovedJob(t, conn)

	_, _, errRestore := Restore[models.Job](context.Background(), conn, jobPolicy, job.ID)
	if !apperr.Is(errRestore, apperr.CodeNotFound) {
		t.Fatalf("expected NotFound restoring a live record, got %v", errRestore)
	}
}

func TestPermanentDeleteRequiresSoftDeleteFirst(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	gate := NewGate(EnvDevelopment)
	job := seedApprovedJob(t, conn)

	_, errLive := PermanentDelete[models.Job](ctx, conn, jobPolicy, gate, job.ID)
	if !apperr.Is(errLive, apperr.CodeNotFound) {
		t.Fatalf("expected NotFound permanently deleting a live record, got %v", errLive)
	}

	if _, errDelete := SoftDelete[models.Job](ctx, conn, jobPolicy, job.ID); errDelete != nil {
		t.Fatalf("soft delete: %v", errDelete)
	}
	if _, errPermanent := PermanentDelete[models.Job](ctx, conn, jobPolicy, gate, job.ID); errPermanent != nil {
		t.Fatalf("permanent delete: %v", errPermanent)
	}

	var count int64
	if errCount := conn.Model(&models.Job{}).Where("id = ?", job.ID).Count(&count).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if count != 0 {
		t.Fatalf("expected record erased, found %d rows", count)
	}
}

func TestDestructiveOpsForbiddenOutsideDevelopment(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	gate := NewGate("production")
	job := seedApprovedJob(t, conn)

	if _, errDelete := SoftDelete[models.Job](ctx, conn, jobPolicy, job.ID); errDelete != nil {
		t.Fatalf("soft delete: %v", errDelete)
	}

	_, errPermanent := PermanentDelete[models.Job](ctx, conn, jobPolicy, gate, job.ID)
	if !apperr.Is(errPermanent, apperr.CodeForbidden) {
		t.Fatalf("expected Forbidden in production, got %v", errPermanent)
	}
	_, errAll := DeleteAll[models.Job](ctx, conn, jobPolicy, gate)
	if !apperr.Is(errAll, apperr.CodeForbidden) {
		t.Fatalf("expected Forbidden delete-all in production, got %v", errAll)
	}

	var count int64
	if errCount := conn.Model(&models.Job{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected record untouched, found %d rows", count)
	}
}

func TestDeleteAllErasesEveryPartition(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	gate := NewGate(EnvDevelopment)

	live := seedApprovedJob(t, conn)
	_ = live
	second := models.Job{Code: "JOB101", CreatedBy: 2, CreatedByRole: models.CreatorPersonalAccount, Desc: "driver", CategoryID: 1}
	second.Status = models.StatusPending
	if errCreate := conn.Create(&second).Error; errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}
	if _, errDelete := SoftDelete[models.Job](ctx, conn, jobPolicy, second.ID); errDelete != nil {
		t.Fatalf("soft delete: %v", errDelete)
	}

	if _, errAll := DeleteAll[models.Job](ctx, conn, jobPolicy, gate); errAll != nil {
		t.Fatalf("delete all: %v", errAll)
	}
	var count int64
	if errCount := conn.Model(&models.Job{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if count != 0 {
		t.Fatalf("expected empty table, found %d rows", count)
	}
}
