package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/roles"
	"github.com/communityhub-io/communityhub/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

const testSecret = "middleware-test-secret"

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open sqlite: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.Admin{}, &models.BusinessAccount{}, &models.PersonalAccount{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func testRouter(t *testing.T, conn *gorm.DB, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	chain := append([]gin.HandlerFunc{AuthMiddleware(conn, testSecret)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		OK(c, http.StatusOK, "reached", gin.H{"id": CallerID(c), "role": string(CallerRole(c))})
	})
	engine.GET("/probe", chain...)
	return engine
}

func seedAdmin(t *testing.T, conn *gorm.DB, role, status string) models.Admin {
	t.Helper()
	admin := models.Admin{Name: "Mira", Email: "mira@example.com", Role: role}
	admin.Password = "x"
	admin.Status = status
	if errCreate := conn.Create(&admin).Error; errCreate != nil {
		t.Fatalf("create admin: %v", errCreate)
	}
	return admin
}

func issueToken(t *testing.T, id uint64, role string) string {
	t.Helper()
	token, errToken := security.IssueToken(testSecret, id, "Mira", role, security.KindAccessToken, time.Hour)
	if errToken != nil {
		t.Fatalf("issue token: %v", errToken)
	}
	return token
}

func probe(engine *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddlewareAcceptsLiveAdmin(t *testing.T) {
	conn := openTestDB(t)
	admin := seedAdmin(t, conn, models.RoleAdmin, models.StatusActive)
	engine := testRouter(t, conn)

	rec := probe(engine, issueToken(t, admin.ID, models.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddlewareRejectsMissingAndMalformedHeaders(t *testing.T) {
	conn := openTestDB(t)
	engine := testRouter(t, conn)

	if rec := probe(engine, ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing header: expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("malformed header: expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsDeletedCaller(t *testing.T) {
	conn := openTestDB(t)
	admin := seedAdmin(t, conn, models.RoleAdmin, models.StatusActive)
	token := issueToken(t, admin.ID, models.RoleAdmin)

	now := time.Now().UTC()
	if errUpdate := conn.Model(&models.Admin{}).Where("id = ?", admin.ID).
		Updates(map[string]any{"is_deleted": true, "deleted_at": now}).Error; errUpdate != nil {
		t.Fatalf("soft delete: %v", errUpdate)
	}

	engine := testRouter(t, conn)
	if rec := probe(engine, token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("deleted caller: expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsBlockedCaller(t *testing.T) {
	conn := openTestDB(t)
	admin := seedAdmin(t, conn, models.RoleAdmin, models.StatusBlocked)
	engine := testRouter(t, conn)

	if rec := probe(engine, issueToken(t, admin.ID, models.RoleAdmin)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("blocked caller: expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsRoleMismatch(t *testing.T) {
	conn := openTestDB(t)
	admin := seedAdmin(t, conn, models.RoleAdmin, models.StatusActive)
	engine := testRouter(t, conn)

	// A token claiming SuperAdmin for a plain Admin record is refused.
	if rec := probe(engine, issueToken(t, admin.ID, models.RoleSuperAdmin)); rec.Code != http.StatusUnauthorized {
		t.Fatalf("role mismatch: expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddlewareRejectsResetToken(t *testing.T) {
	conn := openTestDB(t)
	admin := seedAdmin(t, conn, models.RoleAdmin, models.StatusActive)
	engine := testRouter(t, conn)

	token, errToken := security.IssueToken(testSecret, admin.ID, "Mira", models.RoleAdmin, security.KindResetToken, time.Hour)
	if errToken != nil {
		t.Fatalf("issue token: %v", errToken)
	}
	if rec := probe(engine, token); rec.Code != http.StatusUnauthorized {
		t.Fatalf("reset token: expected 401, got %d", rec.Code)
	}
}

func TestRequireCapabilityEnforcesRoleTable(t *testing.T) {
	conn := openTestDB(t)
	admin := seedAdmin(t, conn, models.RoleAdmin, models.StatusActive)
	engine := testRouter(t, conn, RequireCapability(roles.CapManageAdmins))

	// Plain admins cannot manage admins.
	if rec := probe(engine, issueToken(t, admin.ID, models.RoleAdmin)); rec.Code != http.StatusForbidden {
		t.Fatalf("admin manage-admins: expected 403, got %d", rec.Code)
	}

	super := models.Admin{Name: "Root", Email: "root@example.com", Role: models.RoleSuperAdmin}
	super.Password = "x"
	super.Status = models.StatusActive
	if errCreate := conn.Create(&super).Error; errCreate != nil {
		t.Fatalf("create super admin: %v", errCreate)
	}
	if rec := probe(engine, issueToken(t, super.ID, models.RoleSuperAdmin)); rec.Code != http.StatusOK {
		t.Fatalf("superadmin manage-admins: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRequireAccountRefusesAdmins(t *testing.T) {
	conn := openTestDB(t)
	admin := seedAdmin(t, conn, models.RoleAdmin, models.StatusActive)
	engine := testRouter(t, conn, RequireAccount())

	if rec := probe(engine, issueToken(t, admin.ID, models.RoleAdmin)); rec.Code != http.StatusForbidden {
		t.Fatalf("admin on account route: expected 403, got %d", rec.Code)
	}

	account := models.PersonalAccount{Name: "Ravi", Username: "ravi", Email: "ravi@example.com", Phone: "9000000001"}
	account.Password = "x"
	account.Status = models.StatusActive
	if errCreate := conn.Create(&account).Error; errCreate != nil {
		t.Fatalf("create account: %v", errCreate)
	}
	if rec := probe(engine, issueToken(t, account.ID, string(roles.PersonalAccount))); rec.Code != http.StatusOK {
		t.Fatalf("account on account route: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
