package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/communityhub-io/communityhub/internal/apperr"
	dbutil "github.com/communityhub-io/communityhub/internal/db"
	webhttp "github.com/communityhub-io/communityhub/internal/http"
	"github.com/communityhub-io/communityhub/internal/lifecycle"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/notify"
	"github.com/communityhub-io/communityhub/internal/scope"
	"github.com/communityhub-io/communityhub/internal/security"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler manages admin account endpoints.
type AdminHandler struct {
	db       *gorm.DB
	gate     lifecycle.Gate
	notifier notify.Notifier
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(db *gorm.DB, gate lifecycle.Gate, notifier notify.Notifier) *AdminHandler {
	return &AdminHandler{db: db, gate: gate, notifier: notifier}
}

// adminRoleValid reports whether a role is a legal admin role.
func adminRoleValid(role string) bool {
	switch role {
	case models.RoleSuperAdmin, models.RoleDeveloper, models.RoleAdmin:
		return true
	}
	return false
}

// createAdminRequest defines the request body for admin creation.
type createAdminRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Role    string `json:"role"`
	Address string `json:"address"`
	Pincode string `json:"pincode"`
}

// Create provisions a new admin with an auto-generated password and
// dispatches the credentials to the admin's email.
func (h *AdminHandler) Create(c *gin.Context) {
	var body createAdminRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	name := strings.TrimSpace(body.Name)
	email := strings.TrimSpace(body.Email)
	phone := strings.TrimSpace(body.Phone)
	if name == "" || email == "" || phone == "" {
		webhttp.Fail(c, apperr.Validation("provide name, email and phone"))
		return
	}
	role := strings.TrimSpace(body.Role)
	if role == "" {
		role = models.RoleAdmin
	}
	if !adminRoleValid(role) {
		webhttp.Fail(c, apperr.Validation("provide a valid role ('SuperAdmin', 'Developer', 'Admin')"))
		return
	}

	var existing models.Admin
	errCheck := h.db.WithContext(c.Request.Context()).
		Where("email = ? OR phone = ?", email, phone).
		First(&existing).Error
	if errCheck == nil {
		webhttp.Fail(c, apperr.Conflict("admin with this email or phone already exists"))
		return
	}
	if !errors.Is(errCheck, gorm.ErrRecordNotFound) {
		webhttp.Fail(c, apperr.Internal("query admin failed", errCheck))
		return
	}

	password, errGenerate := security.GeneratePassword()
	if errGenerate != nil {
		webhttp.Fail(c, apperr.Internal("generate password failed", errGenerate))
		return
	}
	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		webhttp.Fail(c, apperr.Internal("hash password failed", errHash))
		return
	}

	admin := models.Admin{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Role:    role,
		Address: strings.TrimSpace(body.Address),
		Pincode: strings.TrimSpace(body.Pincode),
	}
	admin.Password = hash
	admin.AutoGeneratedPasswd = true
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&admin).Error; errCreate != nil {
		webhttp.Fail(c, apperr.Internal("create admin failed", errCreate))
		return
	}

	notify.Dispatch(h.notifier, notify.Message{
		Template: notify.TemplateSendCredentials,
		To:       admin.Email,
		Data: map[string]string{
			"name":     admin.Name,
			"email":    admin.Email,
			"password": password,
		},
	})
	webhttp.OK(c, http.StatusCreated, "Admin created successfully", gin.H{"admin": admin})
}

// List returns admins in the live or deleted partition with optional search.
func (h *AdminHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Admin{}).
		Scopes(scope.ForRole(webhttp.CallerRole(c), wantsDeletedPartition(c)), scope.Newest())

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+search+"%")
		q = q.Where(
			h.db.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "name"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(h.db, "email"), pattern),
		)
	}
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		q = q.Where("role = ?", role)
	}

	var rows []models.Admin
	if errFind := q.Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list admins failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"admins": rows})
}

// Get returns a single admin.
func (h *AdminHandler) Get(c *gin.Context) {
	id, errParse := parseID(c, "admin")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.ForRole(webhttp.CallerRole(c), wantsDeletedPartition(c))).
		First(&admin, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.NotFound("admin not found"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query admin failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"admin": admin})
}

// updateAdminRequest defines the request body for admin profile updates.
type updateAdminRequest struct {
	Name    *string `json:"name"`
	Role    *string `json:"role"`
	Address *string `json:"address"`
	Pincode *string `json:"pincode"`
}

// Update modifies admin profile fields.
func (h *AdminHandler) Update(c *gin.Context) {
	id, errParse := parseID(c, "admin")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var body updateAdminRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}

	updates := map[string]any{}
	if body.Name != nil {
		name := strings.TrimSpace(*body.Name)
		if name == "" {
			webhttp.Fail(c, apperr.Validation("name cannot be empty"))
			return
		}
		updates["name"] = name
	}
	if body.Role != nil {
		if !adminRoleValid(*body.Role) {
			webhttp.Fail(c, apperr.Validation("provide a valid role ('SuperAdmin', 'Developer', 'Admin')"))
			return
		}
		updates["role"] = *body.Role
	}
	if body.Address != nil {
		updates["address"] = strings.TrimSpace(*body.Address)
	}
	if body.Pincode != nil {
		updates["pincode"] = strings.TrimSpace(*body.Pincode)
	}
	if len(updates) == 0 {
		webhttp.Fail(c, apperr.Validation("provide fields to update"))
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Admin{}).
		Scopes(scope.NotDeleted()).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		webhttp.Fail(c, apperr.Internal("update admin failed", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		webhttp.Fail(c, apperr.NotFound("admin not found"))
		return
	}
	webhttp.OK(c, http.StatusOK, "Admin updated successfully", nil)
}

// changeEmailRequest defines the request body for email changes.
type changeEmailRequest struct {
	Email string `json:"email"`
}

// ChangeEmail replaces an admin's email after a uniqueness check.
func (h *AdminHandler) ChangeEmail(c *gin.Context) {
	id, errParse := parseID(c, "admin")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var body changeEmailRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	email := strings.TrimSpace(body.Email)
	if email == "" {
		webhttp.Fail(c, apperr.Validation("provide email"))
		return
	}

	var existing models.Admin
	errCheck := h.db.WithContext(c.Request.Context()).
		Where("email = ? AND id <> ?", email, id).
		First(&existing).Error
	if errCheck == nil {
		webhttp.Fail(c, apperr.Conflict("email already in use"))
		return
	}
	if !errors.Is(errCheck, gorm.ErrRecordNotFound) {
		webhttp.Fail(c, apperr.Internal("query admin failed", errCheck))
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Admin{}).
		Scopes(scope.NotDeleted()).
		Where("id = ?", id).
		Update("email", email)
	if res.Error != nil {
		webhttp.Fail(c, apperr.Internal("update admin failed", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		webhttp.Fail(c, apperr.NotFound("admin not found"))
		return
	}
	webhttp.OK(c, http.StatusOK, "Email changed successfully", nil)
}

// changePhoneRequest defines the request body for phone changes.
type changePhoneRequest struct {
	Phone string `json:"phone"`
}

// ChangePhone replaces an admin's phone after a uniqueness check.
func (h *AdminHandler) ChangePhone(c *gin.Context) {
	id, errParse := parseID(c, "admin")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var body changePhoneRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	phone := strings.TrimSpace(body.Phone)
	if phone == "" {
		webhttp.Fail(c, apperr.Validation("provide phone"))
		return
	}

	var existing models.Admin
	errCheck := h.db.WithContext(c.Request.Context()).
		Where("phone = ? AND id <> ?", phone, id).
		First(&existing).Error
	if errCheck == nil {
		webhttp.Fail(c, apperr.Conflict("phone already in use"))
		return
	}
	if !errors.Is(errCheck, gorm.ErrRecordNotFound) {
		webhttp.Fail(c, apperr.Internal("query admin failed", errCheck))
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Admin{}).
		Scopes(scope.NotDeleted()).
		Where("id = ?", id).
		Update("phone", phone)
	if res.Error != nil {
		webhttp.Fail(c, apperr.Internal("update admin failed", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		webhttp.Fail(c, apperr.NotFound("admin not found"))
		return
	}
	webhttp.OK(c, http.StatusOK, "Phone changed successfully", nil)
}

// changeStatusRequest defines the request body for status changes.
type changeStatusRequest struct {
	Status string `json:"status"`
}

// ChangeStatus sets an admin's account status.
func (h *AdminHandler) ChangeStatus(c *gin.Context) {
	id, errParse := parseID(c, "admin")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var body changeStatusRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	if !accountStatusValid(body.Status) {
		webhttp.Fail(c, apperr.Validation("provide a valid status ('Active', 'Inactive', 'Blocked')"))
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Admin{}).
		Scopes(scope.NotDeleted()).
		Where("id = ?", id).
		Update("status", body.Status)
	if res.Error != nil {
		webhttp.Fail(c, apperr.Internal("update admin failed", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		webhttp.Fail(c, apperr.NotFound("admin not found"))
		return
	}
	webhttp.OK(c, http.StatusOK, "Admin status changed to "+body.Status, nil)
}

// SendCredentials rotates the admin's password to a fresh auto-generated
// one and dispatches it to the admin's email.
func (h *AdminHandler) SendCredentials(c *gin.Context) {
	id, errParse := parseID(c, "admin")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}

	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.NotDeleted()).
		First(&admin, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.NotFound("admin not found"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query admin failed", errFind))
		return
	}

	password, errGenerate := security.GeneratePassword()
	if errGenerate != nil {
		webhttp.Fail(c, apperr.Internal("generate password failed", errGenerate))
		return
	}
	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		webhttp.Fail(c, apperr.Internal("hash password failed", errHash))
		return
	}

	admin.Password = hash
	admin.AutoGeneratedPasswd = true
	if errSave := h.db.WithContext(c.Request.Context()).Save(&admin).Error; errSave != nil {
		webhttp.Fail(c, apperr.Internal("update admin failed", errSave))
		return
	}

	notify.Dispatch(h.notifier, notify.Message{
		Template: notify.TemplateSendCredentials,
		To:       admin.Email,
		Data: map[string]string{
			"name":     admin.Name,
			"email":    admin.Email,
			"password": password,
		},
	})
	webhttp.OK(c, http.StatusOK, "Credentials sent successfully", nil)
}

// Delete soft-deletes an admin.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, errParse := parseID(c, "admin")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.SoftDelete[models.Admin](c.Request.Context(), h.db, adminDescriptor, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// Restore brings a soft-deleted admin back.
func (h *AdminHandler) Restore(c *gin.Context) {
	id, errParse := parseID(c, "admin")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	admin, message, errRestore := lifecycle.Restore[models.Admin](c.Request.Context(), h.db, adminDescriptor, id)
	if errRestore != nil {
		webhttp.Fail(c, errRestore)
		return
	}
	webhttp.OK(c, http.StatusOK, message, gin.H{"admin": admin})
}

// PermanentDelete erases a soft-deleted admin for good.
func (h *AdminHandler) PermanentDelete(c *gin.Context) {
	id, errParse := parseID(c, "admin")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.PermanentDelete[models.Admin](c.Request.Context(), h.db, adminDescriptor, h.gate, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// DeleteAll erases every admin record. Development resets only.
func (h *AdminHandler) DeleteAll(c *gin.Context) {
	message, errDelete := lifecycle.DeleteAll[models.Admin](c.Request.Context(), h.db, adminDescriptor, h.gate)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}
