package approval

import (
	"context"
	"testing"

	"github.com/communityhub-io/communityhub/internal/apperr"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/roles"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.Job{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func seedPendingJob(t *testing.T, conn *gorm.DB, code string) models.Job {
	t.Helper()
	job := models.Job{
		Code:          code,
		CreatedBy:     1,
		CreatedByRole: models.CreatorPersonalAccount,
		Desc:          "electrician",
		CategoryID:    1,
	}
	job.Status = models.StatusPending
	if errCreate := conn.Create(&job).Error; errCreate != nil {
		t.Fatalf("create job: %v", errCreate)
	}
	return job
}

func TestChangeStatusApproveStampsAuditSlot(t *testing.T) {
	conn := openTestDB(t)
	job := seedPendingJob(t, conn, "JOB100")

	updated, _, errChange := ChangeStatus[models.Job](context.Background(), conn, "job", job.ID, ActionApprove, 42)
	if errChange != nil {
		t.Fatalf("approve: %v", errChange)
	}
	if updated.Status != models.StatusApproved {
		t.Fatalf("expected APPROVED, got %s", updated.Status)
	}
	if updated.ApprovedBy == nil || *updated.ApprovedBy != 42 || updated.ApprovedAt == nil {
		t.Fatalf("approve did not stamp audit slot: by=%v at=%v", updated.ApprovedBy, updated.ApprovedAt)
	}
	if updated.RejectedBy != nil || updated.RejectedAt != nil {
		t.Fatalf("approve touched the rejection slot")
	}
}

func TestChangeStatusSelfTransitionIsConflict(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	job := seedPendingJob(t, conn, "JOB100")

	if _, _, errApprove := ChangeStatus[models.Job](ctx, conn, "job", job.ID, ActionApprove, 42); errApprove != nil {
		t.Fatalf("approve: %v", errApprove)
	}
	_, _, errAgain := ChangeStatus[models.Job](ctx, conn, "job", job.ID, ActionApprove, 42)
	if !apperr.Is(errAgain, apperr.CodeConflict) {
		t.Fatalf("expected Conflict re-approving, got %v", errAgain)
	}
}

func TestChangeStatusCrossTransitionKeepsOppositeSlot(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()
	job := seedPendingJob(t, conn, "JOB100")

	if _, _, errApprove := ChangeStatus[models.Job](ctx, conn, "job", job.ID, ActionApprove, 42); errApprove != nil {
		t.Fatalf("approve: %v", errApprove)
	}
	rejected, _, errReject := ChangeStatus[models.Job](ctx, conn, "job", job.ID, ActionReject, 7)
	if errReject != nil {
		t.Fatalf("reject after approve: %v", errReject)
	}
	if rejected.Status != models.StatusRejected {
		t.Fatalf("expected REJECTED, got %s", rejected.Status)
	}
	if rejected.RejectedBy == nil || *rejected.RejectedBy != 7 {
		t.Fatalf("reject did not stamp its slot")
	}
	if rejected.ApprovedBy == nil || *rejected.ApprovedBy != 42 {
		t.Fatalf("cross transition erased the approval history")
	}
}

func TestChangeStatusRejectsUnknownAction(t *testing.T) {
	conn := openTestDB(t)
	job := seedPendingJob(t, conn, "JOB100")

	_, _, errChange := ChangeStatus[models.Job](context.Background(), conn, "job", job.ID, "PUBLISH", 42)
	if !apperr.Is(errChange, apperr.CodeValidation) {
		t.Fatalf("expected Validation for unknown action, got %v", errChange)
	}
}

func TestNextCodeStartsAtSeedAndIncrements(t *testing.T) {
	conn := openTestDB(t)
	ctx := context.Background()

	first, errFirst := NextCode(ctx, conn, &models.Job{}, "JOB")
	if errFirst != nil {
		t.Fatalf("next code: %v", errFirst)
	}
	if first != "JOB100" {
		t.Fatalf("expected JOB100, got %s", first)
	}

	seedPendingJob(t, conn, first)
	second, errSecond := NextCode(ctx, conn, &models.Job{}, "JOB")
	if errSecond != nil {
		t.Fatalf("next code: %v", errSecond)
	}
	if second != "JOB101" {
		t.Fatalf("expected JOB101, got %s", second)
	}
}

func TestStatusForCreator(t *testing.T) {
	if got := StatusForCreator(roles.Admin); got != models.StatusApproved {
		t.Fatalf("admin submissions should start approved, got %s", got)
	}
	if got := StatusForCreator(roles.BusinessAccount); got != models.StatusPending {
		t.Fatalf("account submissions should start pending, got %s", got)
	}
	if got := StatusForCreator(roles.PersonalAccount); got != models.StatusPending {
		t.Fatalf("account submissions should start pending, got %s", got)
	}
}
