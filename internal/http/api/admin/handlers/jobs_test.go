package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	webhttp "github.com/communityhub-io/communityhub/internal/http"
	"github.com/communityhub-io/communityhub/internal/lifecycle"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/roles"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.Admin{}, &models.Category{}, &models.Job{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

// asCaller stamps the caller identity the auth middleware would set.
func asCaller(id uint64, role roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(webhttp.ContextCallerID, id)
		c.Set(webhttp.ContextCallerRole, role)
		c.Next()
	}
}

func seedJobCategory(t *testing.T, conn *gorm.DB) models.Category {
	t.Helper()
	category := models.Category{Name: "Construction", Type: models.CategoryTypeJob}
	category.Status = models.StatusActive
	if errCreate := conn.Create(&category).Error; errCreate != nil {
		t.Fatalf("create category: %v", errCreate)
	}
	return category
}

func jobRouter(t *testing.T, conn *gorm.DB, callerID uint64, role roles.Role) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler := NewJobHandler(conn, lifecycle.NewGate(lifecycle.EnvDevelopment))
	engine := gin.New()
	group := engine.Group("", asCaller(callerID, role))
	group.POST("/jobs", handler.Create)
	group.GET("/jobs", handler.List)
	group.PATCH("/jobs/:id/status", handler.ChangeStatus)
	group.DELETE("/jobs/:id", handler.Delete)
	group.POST("/jobs/:id/restore", handler.Restore)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if errEncode := json.NewEncoder(&buf).Encode(body); errEncode != nil {
			t.Fatalf("encode body: %v", errEncode)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAdminJobCreateStartsApprovedWithSequenceCode(t *testing.T) {
	conn := openTestDB(t)
	category := seedJobCategory(t, conn)
	engine := jobRouter(t, conn, 9, roles.Admin)

	first := doJSON(t, engine, http.MethodPost, "/jobs", gin.H{"desc": "site engineer", "categoryId": category.ID})
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", first.Code, first.Body.String())
	}
	second := doJSON(t, engine, http.MethodPost, "/jobs", gin.H{"desc": "surveyor", "categoryId": category.ID})
	if second.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", second.Code, second.Body.String())
	}

	var rows []models.Job
	if errFind := conn.Order("id ASC").Find(&rows).Error; errFind != nil {
		t.Fatalf("find: %v", errFind)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(rows))
	}
	if rows[0].Code != "JOB100" || rows[1].Code != "JOB101" {
		t.Fatalf("expected JOB100 then JOB101, got %s then %s", rows[0].Code, rows[1].Code)
	}
	for _, row := range rows {
		if row.Status != models.StatusApproved {
			t.Fatalf("admin-created job must start approved, got %s", row.Status)
		}
		if row.CreatedByRole != models.CreatorAdmin || row.CreatedBy != 9 {
			t.Fatalf("creator not recorded: %s/%d", row.CreatedByRole, row.CreatedBy)
		}
	}
}

func TestAdminJobCreateRejectsBusinessCategory(t *testing.T) {
	conn := openTestDB(t)
	category := models.Category{Name: "Retail", Type: models.CategoryTypeBusiness}
	category.Status = models.StatusActive
	if errCreate := conn.Create(&category).Error; errCreate != nil {
		t.Fatalf("create category: %v", errCreate)
	}
	engine := jobRouter(t, conn, 9, roles.Admin)

	rec := doJSON(t, engine, http.MethodPost, "/jobs", gin.H{"desc": "clerk", "categoryId": category.ID})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-JOB category, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdminJobModerationFlow(t *testing.T) {
	conn := openTestDB(t)
	category := seedJobCategory(t, conn)
	engine := jobRouter(t, conn, 9, roles.SuperAdmin)

	job := models.Job{Code: "JOB100", CreatedBy: 3, CreatedByRole: models.CreatorPersonalAccount, Desc: "cook", CategoryID: category.ID}
	job.Status = models.StatusPending
	if errCreate := conn.Create(&job).Error; errCreate != nil {
		t.Fatalf("create job: %v", errCreate)
	}

	approve := doJSON(t, engine, http.MethodPatch, "/jobs/1/status", gin.H{"action": "APPROVE"})
	if approve.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", approve.Code, approve.Body.String())
	}
	again := doJSON(t, engine, http.MethodPatch, "/jobs/1/status", gin.H{"action": "APPROVE"})
	if again.Code != http.StatusConflict {
		t.Fatalf("re-approve: expected 409, got %d: %s", again.Code, again.Body.String())
	}
	reject := doJSON(t, engine, http.MethodPatch, "/jobs/1/status", gin.H{"action": "REJECT"})
	if reject.Code != http.StatusOK {
		t.Fatalf("reject after approve: expected 200, got %d: %s", reject.Code, reject.Body.String())
	}

	var reloaded models.Job
	if errFind := conn.First(&reloaded, job.ID).Error; errFind != nil {
		t.Fatalf("reload: %v", errFind)
	}
	if reloaded.Status != models.StatusRejected || reloaded.ApprovedBy == nil || reloaded.RejectedBy == nil {
		t.Fatalf("audit history incomplete: status=%s", reloaded.Status)
	}
}

func TestAdminJobDeleteRestoreViaHandlers(t *testing.T) {
	conn := openTestDB(t)
	category := seedJobCategory(t, conn)
	engine := jobRouter(t, conn, 9, roles.SuperAdmin)

	job := models.Job{Code: "JOB100", CreatedBy: 9, CreatedByRole: models.CreatorAdmin, Desc: "mason", CategoryID: category.ID}
	job.Status = models.StatusApproved
	if errCreate := conn.Create(&job).Error; errCreate != nil {
		t.Fatalf("create job: %v", errCreate)
	}

	if rec := doJSON(t, engine, http.MethodDelete, "/jobs/1", nil); rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := doJSON(t, engine, http.MethodDelete, "/jobs/1", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("double delete: expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := doJSON(t, engine, http.MethodPost, "/jobs/1/restore", nil); rec.Code != http.StatusOK {
		t.Fatalf("restore: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var reloaded models.Job
	if errFind := conn.First(&reloaded, job.ID).Error; errFind != nil {
		t.Fatalf("reload: %v", errFind)
	}
	if reloaded.IsDeleted || reloaded.Status != models.StatusApproved {
		t.Fatalf("restore lost state: isDeleted=%v status=%s", reloaded.IsDeleted, reloaded.Status)
	}
}

func TestAdminJobListDeletedPartitionRequiresPrivilege(t *testing.T) {
	conn := openTestDB(t)
	category := seedJobCategory(t, conn)

	live := models.Job{Code: "JOB100", CreatedBy: 9, CreatedByRole: models.CreatorAdmin, Desc: "live", CategoryID: category.ID}
	live.Status = models.StatusApproved
	gone := models.Job{Code: "JOB101", CreatedBy: 9, CreatedByRole: models.CreatorAdmin, Desc: "gone", CategoryID: category.ID}
	gone.Status = models.StatusApproved
	gone.IsDeleted = true
	for _, job := range []*models.Job{&live, &gone} {
		if errCreate := conn.Create(job).Error; errCreate != nil {
			t.Fatalf("create: %v", errCreate)
		}
	}

	type listResponse struct {
		Data struct {
			Jobs []models.Job `json:"jobs"`
		} `json:"data"`
	}

	superEngine := jobRouter(t, conn, 9, roles.SuperAdmin)
	rec := doJSON(t, superEngine, http.MethodGet, "/jobs?deleted=true", nil)
	var superList listResponse
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &superList); errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}
	if len(superList.Data.Jobs) != 1 || superList.Data.Jobs[0].Code != "JOB101" {
		t.Fatalf("superadmin deleted partition: got %d rows", len(superList.Data.Jobs))
	}

	adminEngine := jobRouter(t, conn, 9, roles.Admin)
	rec = doJSON(t, adminEngine, http.MethodGet, "/jobs?deleted=true", nil)
	var adminList listResponse
	if errDecode := json.Unmarshal(rec.Body.Bytes(), &adminList); errDecode != nil {
		t.Fatalf("decode: %v", errDecode)
	}
	if len(adminList.Data.Jobs) != 1 || adminList.Data.Jobs[0].Code != "JOB100" {
		t.Fatalf("plain admin must only see live records, got %d rows", len(adminList.Data.Jobs))
	}
}
