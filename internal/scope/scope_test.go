package scope

import (
	"testing"
	"time"

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
	if errMigrate := conn.AutoMigrate(&models.Category{}, &models.Job{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

// seedJobMatrix writes one job per partition combination and returns the
// id of the only publicly visible one.
func seedJobMatrix(t *testing.T, conn *gorm.DB) uint64 {
	t.Helper()
	now := time.Now().UTC()

	public := models.Job{Code: "JOB100", CreatedBy: 1, CreatedByRole: models.CreatorAdmin, Desc: "plumber", CategoryID: 1}
	public.Status = models.StatusApproved
	public.Visibility = models.VisibilityShow

	pending := models.Job{Code: "JOB101", CreatedBy: 2, CreatedByRole: models.CreatorPersonalAccount, Desc: "cook", CategoryID: 1}
	pending.Status = models.StatusPending
	pending.Visibility = models.VisibilityShow

	hidden := models.Job{Code: "JOB102", CreatedBy: 1, CreatedByRole: models.CreatorAdmin, Desc: "guard", CategoryID: 1}
	hidden.Status = models.StatusApproved
	hidden.Visibility = models.VisibilityHide

	deleted := models.Job{Code: "JOB103", CreatedBy: 1, CreatedByRole: models.CreatorAdmin, Desc: "welder", CategoryID: 1}
	deleted.Status = models.StatusApproved
	deleted.Visibility = models.VisibilityHide
	deleted.IsDeleted = true
	deleted.DeletedAt = &now

	for _, job := range []*models.Job{&public, &pending, &hidden, &deleted} {
		if errCreate := conn.Create(job).Error; errCreate != nil {
			t.Fatalf("create %s: %v", job.Code, errCreate)
		}
	}
	return public.ID
}

func TestPublicSelectsOnlyApprovedShownLive(t *testing.T) {
	conn := openTestDB(t)
	publicID := seedJobMatrix(t, conn)

	var rows []models.Job
	if errFind := conn.Model(&models.Job{}).Scopes(Public()).Find(&rows).Error; errFind != nil {
		t.Fatalf("find: %v", errFind)
	}
	if len(rows) != 1 || rows[0].ID != publicID {
		t.Fatalf("expected exactly the public job, got %d rows", len(rows))
	}
}

func TestForRolePartitions(t *testing.T) {
	conn := openTestDB(t)
	seedJobMatrix(t, conn)

	count := func(scope Scope) int64 {
		var n int64
		if errCount := conn.Model(&models.Job{}).Scopes(scope).Count(&n).Error; errCount != nil {
			t.Fatalf("count: %v", errCount)
		}
		return n
	}

	// Regular admins only ever see live records.
	if n := count(ForRole(roles.Admin, false)); n != 3 {
		t.Fatalf("admin live partition: expected 3, got %d", n)
	}
	if n := count(ForRole(roles.Admin, true)); n != 3 {
		t.Fatalf("admin cannot request the deleted partition: expected 3, got %d", n)
	}

	// SuperAdmin sees everything, and the deleted partition on request.
	if n := count(ForRole(roles.SuperAdmin, false)); n != 4 {
		t.Fatalf("superadmin unscoped: expected 4, got %d", n)
	}
	if n := count(ForRole(roles.SuperAdmin, true)); n != 1 {
		t.Fatalf("superadmin deleted partition: expected 1, got %d", n)
	}

	// Accounts and the public only see live records.
	if n := count(ForRole(roles.PersonalAccount, true)); n != 3 {
		t.Fatalf("account partition: expected 3, got %d", n)
	}
	if n := count(ForRole(roles.Customer, false)); n != 3 {
		t.Fatalf("customer partition: expected 3, got %d", n)
	}
}

func TestVisibleCategoryNullsHiddenReference(t *testing.T) {
	conn := openTestDB(t)

	shown := models.Category{Name: "Construction", Type: models.CategoryTypeJob}
	shown.Status = models.StatusActive
	shown.Visibility = models.VisibilityShow
	hidden := models.Category{Name: "Archived Trades", Type: models.CategoryTypeJob}
	hidden.Status = models.StatusActive
	hidden.Visibility = models.VisibilityHide
	for _, category := range []*models.Category{&shown, &hidden} {
		if errCreate := conn.Create(category).Error; errCreate != nil {
			t.Fatalf("create category: %v", errCreate)
		}
	}

	jobShown := models.Job{Code: "JOB100", CreatedBy: 1, CreatedByRole: models.CreatorAdmin, Desc: "mason", CategoryID: shown.ID}
	jobShown.Status = models.StatusApproved
	jobHidden := models.Job{Code: "JOB101", CreatedBy: 1, CreatedByRole: models.CreatorAdmin, Desc: "roofer", CategoryID: hidden.ID}
	jobHidden.Status = models.StatusApproved
	for _, job := range []*models.Job{&jobShown, &jobHidden} {
		if errCreate := conn.Create(job).Error; errCreate != nil {
			t.Fatalf("create job: %v", errCreate)
		}
	}

	var rows []models.Job
	if errFind := conn.Model(&models.Job{}).
		Scopes(Public(), VisibleCategory(), Newest()).
		Find(&rows).Error; errFind != nil {
		t.Fatalf("find: %v", errFind)
	}
	if len(rows) != 2 {
		t.Fatalf("hidden category must not drop the parent record, got %d rows", len(rows))
	}
	for _, row := range rows {
		switch row.ID {
		case jobShown.ID:
			if row.Category == nil || row.Category.ID != shown.ID {
				t.Fatalf("shown category should resolve")
			}
		case jobHidden.ID:
			if row.Category != nil {
				t.Fatalf("hidden category must resolve to null")
			}
		}
	}
}
