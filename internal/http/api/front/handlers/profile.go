package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/communityhub-io/communityhub/internal/apperr"
	"github.com/communityhub-io/communityhub/internal/credentials"
	webhttp "github.com/communityhub-io/communityhub/internal/http"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/roles"
	"github.com/communityhub-io/communityhub/internal/scope"
	"github.com/communityhub-io/communityhub/internal/storage"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProfileHandler serves the authenticated account's own profile.
type ProfileHandler struct {
	workflow credentials.Workflow
	store    storage.ObjectStore
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(workflow credentials.Workflow, store storage.ObjectStore) *ProfileHandler {
	return &ProfileHandler{workflow: workflow, store: store}
}

// removeStoredImage deletes a stored object referenced by an image column.
// Storage failures are logged and otherwise ignored.
func removeStoredImage(ctx context.Context, store storage.ObjectStore, raw datatypes.JSON) {
	if store == nil {
		return
	}
	img := models.ParseImage(raw)
	if img.Key == "" {
		return
	}
	if errDelete := store.Delete(ctx, img.Key); errDelete != nil {
		log.Warnf("object delete failed for %s: %v", img.Key, errDelete)
	}
}

// Get returns the caller's own profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	switch webhttp.CallerRole(c) {
	case roles.BusinessAccount:
		var account models.BusinessAccount
		if errFind := h.workflow.DB.WithContext(c.Request.Context()).
			Scopes(scope.NotDeleted(), scope.VisibleCategory()).
			First(&account, webhttp.CallerID(c)).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				webhttp.Fail(c, apperr.NotFound("business account not found"))
				return
			}
			webhttp.Fail(c, apperr.Internal("query business account failed", errFind))
			return
		}
		webhttp.OK(c, http.StatusOK, "", gin.H{"businessAccount": account})
	case roles.PersonalAccount:
		var account models.PersonalAccount
		if errFind := h.workflow.DB.WithContext(c.Request.Context()).
			Scopes(scope.NotDeleted()).
			First(&account, webhttp.CallerID(c)).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				webhttp.Fail(c, apperr.NotFound("personal account not found"))
				return
			}
			webhttp.Fail(c, apperr.Internal("query personal account failed", errFind))
			return
		}
		webhttp.OK(c, http.StatusOK, "", gin.H{"personalAccount": account})
	default:
		webhttp.Fail(c, apperr.Forbidden("permission denied"))
	}
}

// updateProfileRequest defines the request body for profile updates.
type updateProfileRequest struct {
	Name         *string       `json:"name"`
	Phone        *string       `json:"phone"`
	About        *string       `json:"about"`
	CategoryID   *uint64       `json:"categoryId"` // Business accounts only.
	ProfileImage *models.Image `json:"profileImage"`
	Gallery      []models.Image `json:"gallery"` // Business accounts only.
}

// updates builds the column map shared by both account kinds.
func (r updateProfileRequest) updates() (map[string]any, error) {
	updates := map[string]any{}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		if name == "" {
			return nil, apperr.Validation("name cannot be empty")
		}
		updates["name"] = name
	}
	if r.Phone != nil {
		phone := strings.TrimSpace(*r.Phone)
		if phone == "" {
			return nil, apperr.Validation("phone cannot be empty")
		}
		updates["phone"] = phone
	}
	if r.About != nil {
		updates["about"] = strings.TrimSpace(*r.About)
	}
	if r.ProfileImage != nil {
		updates["profile_image"] = models.ImageJSON(*r.ProfileImage)
	}
	return updates, nil
}

// Update modifies the caller's own profile fields.
func (h *ProfileHandler) Update(c *gin.Context) {
	var body updateProfileRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	updates, errUpdates := body.updates()
	if errUpdates != nil {
		webhttp.Fail(c, errUpdates)
		return
	}

	switch webhttp.CallerRole(c) {
	case roles.BusinessAccount:
		if body.CategoryID != nil {
			var category models.Category
			errCategory := h.workflow.DB.WithContext(c.Request.Context()).
				Scopes(scope.NotDeleted()).
				Where("id = ? AND type = ?", *body.CategoryID, models.CategoryTypeBusiness).
				First(&category).Error
			if errCategory != nil {
				if errors.Is(errCategory, gorm.ErrRecordNotFound) {
					webhttp.Fail(c, apperr.Validation("provide a valid BUSINESS category"))
					return
				}
				webhttp.Fail(c, apperr.Internal("query category failed", errCategory))
				return
			}
			updates["category_id"] = *body.CategoryID
		}
		if body.Gallery != nil {
			updates["gallery"] = models.ImagesJSON(body.Gallery)
		}
		if len(updates) == 0 {
			webhttp.Fail(c, apperr.Validation("provide fields to update"))
			return
		}
		res := h.workflow.DB.WithContext(c.Request.Context()).Model(&models.BusinessAccount{}).
			Scopes(scope.NotDeleted()).
			Where("id = ?", webhttp.CallerID(c)).
			Updates(updates)
		if res.Error != nil {
			webhttp.Fail(c, apperr.Internal("update business account failed", res.Error))
			return
		}
		if res.RowsAffected == 0 {
			webhttp.Fail(c, apperr.NotFound("business account not found"))
			return
		}
	case roles.PersonalAccount:
		if len(updates) == 0 {
			webhttp.Fail(c, apperr.Validation("provide fields to update"))
			return
		}
		res := h.workflow.DB.WithContext(c.Request.Context()).Model(&models.PersonalAccount{}).
			Scopes(scope.NotDeleted()).
			Where("id = ?", webhttp.CallerID(c)).
			Updates(updates)
		if res.Error != nil {
			webhttp.Fail(c, apperr.Internal("update personal account failed", res.Error))
			return
		}
		if res.RowsAffected == 0 {
			webhttp.Fail(c, apperr.NotFound("personal account not found"))
			return
		}
	default:
		webhttp.Fail(c, apperr.Forbidden("permission denied"))
		return
	}
	webhttp.OK(c, http.StatusOK, "Profile updated successfully", nil)
}

// changePasswordRequest defines the request body for change-password.
type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password"`
}

// ChangePassword replaces the caller's password after proving the current one.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var body changePasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}

	var message string
	var errChange error
	switch webhttp.CallerRole(c) {
	case roles.BusinessAccount:
		message, errChange = credentials.ChangePassword[models.BusinessAccount](
			c.Request.Context(), h.workflow, "business account", webhttp.CallerID(c), body.CurrentPassword, body.Password)
	case roles.PersonalAccount:
		message, errChange = credentials.ChangePassword[models.PersonalAccount](
			c.Request.Context(), h.workflow, "personal account", webhttp.CallerID(c), body.CurrentPassword, body.Password)
	default:
		webhttp.Fail(c, apperr.Forbidden("permission denied"))
		return
	}
	if errChange != nil {
		webhttp.Fail(c, errChange)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// RemoveProfileImage clears the caller's profile image and deletes the object.
func (h *ProfileHandler) RemoveProfileImage(c *gin.Context) {
	ctx := c.Request.Context()
	switch webhttp.CallerRole(c) {
	case roles.BusinessAccount:
		var account models.BusinessAccount
		if errFind := h.workflow.DB.WithContext(ctx).
			Scopes(scope.NotDeleted()).
			First(&account, webhttp.CallerID(c)).Error; errFind != nil {
			webhttp.Fail(c, apperr.NotFound("business account not found"))
			return
		}
		removeStoredImage(ctx, h.store, account.ProfileImage)
		if errUpdate := h.workflow.DB.WithContext(ctx).Model(&account).
			Update("profile_image", nil).Error; errUpdate != nil {
			webhttp.Fail(c, apperr.Internal("update business account failed", errUpdate))
			return
		}
	case roles.PersonalAccount:
		var account models.PersonalAccount
		if errFind := h.workflow.DB.WithContext(ctx).
			Scopes(scope.NotDeleted()).
			First(&account, webhttp.CallerID(c)).Error; errFind != nil {
			webhttp.Fail(c, apperr.NotFound("personal account not found"))
			return
		}
		removeStoredImage(ctx, h.store, account.ProfileImage)
		if errUpdate := h.workflow.DB.WithContext(ctx).Model(&account).
			Update("profile_image", nil).Error; errUpdate != nil {
			webhttp.Fail(c, apperr.Internal("update personal account failed", errUpdate))
			return
		}
	default:
		webhttp.Fail(c, apperr.Forbidden("permission denied"))
		return
	}
	webhttp.OK(c, http.StatusOK, "Profile image removed", nil)
}
