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
	"github.com/communityhub-io/communityhub/internal/scope"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AccountHandler manages business and personal account endpoints for admins.
type AccountHandler struct {
	db   *gorm.DB
	gate lifecycle.Gate
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(db *gorm.DB, gate lifecycle.Gate) *AccountHandler {
	return &AccountHandler{db: db, gate: gate}
}

// ListBusiness returns business accounts with optional search and
// category filter. Privileged callers may request the deleted partition.
func (h *AccountHandler) ListBusiness(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.BusinessAccount{}).
		Scopes(scope.ForRole(webhttp.CallerRole(c), wantsDeletedPartition(c)), scope.WithCategory(), scope.Newest())

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+search+"%")
		q = q.Where(
			h.db.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "name"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(h.db, "username"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(h.db, "email"), pattern),
		)
	}
	if categoryID := strings.TrimSpace(c.Query("categoryId")); categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}

	var rows []models.BusinessAccount
	if errFind := q.Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list business accounts failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"businessAccounts": rows})
}

// GetBusiness returns a single business account.
func (h *AccountHandler) GetBusiness(c *gin.Context) {
	id, errParse := parseID(c, "business account")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var account models.BusinessAccount
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.ForRole(webhttp.CallerRole(c), wantsDeletedPartition(c)), scope.WithCategory()).
		First(&account, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.NotFound("business account not found"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query business account failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"businessAccount": account})
}

// ChangeBusinessStatus sets a business account's status. Blocking kicks
// the account out at its next authenticated request.
func (h *AccountHandler) ChangeBusinessStatus(c *gin.Context) {
	id, errParse := parseID(c, "business account")
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

	res := h.db.WithContext(c.Request.Context()).Model(&models.BusinessAccount{}).
		Scopes(scope.NotDeleted()).
		Where("id = ?", id).
		Update("status", body.Status)
	if res.Error != nil {
		webhttp.Fail(c, apperr.Internal("update business account failed", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		webhttp.Fail(c, apperr.NotFound("business account not found"))
		return
	}
	webhttp.OK(c, http.StatusOK, "Business account status changed to "+body.Status, nil)
}

// DeleteBusiness soft-deletes a business account.
func (h *AccountHandler) DeleteBusiness(c *gin.Context) {
	id, errParse := parseID(c, "business account")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.SoftDelete[models.BusinessAccount](c.Request.Context(), h.db, businessAccountDescriptor, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// RestoreBusiness brings a soft-deleted business account back.
func (h *AccountHandler) RestoreBusiness(c *gin.Context) {
	id, errParse := parseID(c, "business account")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	account, message, errRestore := lifecycle.Restore[models.BusinessAccount](c.Request.Context(), h.db, businessAccountDescriptor, id)
	if errRestore != nil {
		webhttp.Fail(c, errRestore)
		return
	}
	webhttp.OK(c, http.StatusOK, message, gin.H{"businessAccount": account})
}

// PermanentDeleteBusiness erases a soft-deleted business account for good.
func (h *AccountHandler) PermanentDeleteBusiness(c *gin.Context) {
	id, errParse := parseID(c, "business account")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.PermanentDelete[models.BusinessAccount](c.Request.Context(), h.db, businessAccountDescriptor, h.gate, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// DeleteAllBusiness erases every business account. Development resets only.
func (h *AccountHandler) DeleteAllBusiness(c *gin.Context) {
	message, errDelete := lifecycle.DeleteAll[models.BusinessAccount](c.Request.Context(), h.db, businessAccountDescriptor, h.gate)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// ListPersonal returns personal accounts with optional search.
func (h *AccountHandler) ListPersonal(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.PersonalAccount{}).
		Scopes(scope.ForRole(webhttp.CallerRole(c), wantsDeletedPartition(c)), scope.Newest())

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+search+"%")
		q = q.Where(
			h.db.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "name"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(h.db, "username"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(h.db, "email"), pattern),
		)
	}

	var rows []models.PersonalAccount
	if errFind := q.Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list personal accounts failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"personalAccounts": rows})
}

// GetPersonal returns a single personal account.
func (h *AccountHandler) GetPersonal(c *gin.Context) {
	id, errParse := parseID(c, "personal account")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var account models.PersonalAccount
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.ForRole(webhttp.CallerRole(c), wantsDeletedPartition(c))).
		First(&account, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.NotFound("personal account not found"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query personal account failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"personalAccount": account})
}

// ChangePersonalStatus sets a personal account's status.
func (h *AccountHandler) ChangePersonalStatus(c *gin.Context) {
	id, errParse := parseID(c, "personal account")
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

	res := h.db.WithContext(c.Request.Context()).Model(&models.PersonalAccount{}).
		Scopes(scope.NotDeleted()).
		Where("id = ?", id).
		Update("status", body.Status)
	if res.Error != nil {
		webhttp.Fail(c, apperr.Internal("update personal account failed", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		webhttp.Fail(c, apperr.NotFound("personal account not found"))
		return
	}
	webhttp.OK(c, http.StatusOK, "Personal account status changed to "+body.Status, nil)
}

// DeletePersonal soft-deletes a personal account.
func (h *AccountHandler) DeletePersonal(c *gin.Context) {
	id, errParse := parseID(c, "personal account")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.SoftDelete[models.PersonalAccount](c.Request.Context(), h.db, personalAccountDescriptor, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// RestorePersonal brings a soft-deleted personal account back.
func (h *AccountHandler) RestorePersonal(c *gin.Context) {
	id, errParse := parseID(c, "personal account")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	account, message, errRestore := lifecycle.Restore[models.PersonalAccount](c.Request.Context(), h.db, personalAccountDescriptor, id)
	if errRestore != nil {
		webhttp.Fail(c, errRestore)
		return
	}
	webhttp.OK(c, http.StatusOK, message, gin.H{"personalAccount": account})
}

// PermanentDeletePersonal erases a soft-deleted personal account for good.
func (h *AccountHandler) PermanentDeletePersonal(c *gin.Context) {
	id, errParse := parseID(c, "personal account")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.PermanentDelete[models.PersonalAccount](c.Request.Context(), h.db, personalAccountDescriptor, h.gate, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// DeleteAllPersonal erases every personal account. Development resets only.
func (h *AccountHandler) DeleteAllPersonal(c *gin.Context) {
	message, errDelete := lifecycle.DeleteAll[models.PersonalAccount](c.Request.Context(), h.db, personalAccountDescriptor, h.gate)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}
