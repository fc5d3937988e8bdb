package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/communityhub-io/communityhub/internal/apperr"
	dbutil "github.com/communityhub-io/communityhub/internal/db"
	webhttp "github.com/communityhub-io/communityhub/internal/http"
	"github.com/communityhub-io/communityhub/internal/lifecycle"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/scope"
	"github.com/communityhub-io/communityhub/internal/storage"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CategoryHandler manages category endpoints.
type CategoryHandler struct {
	db    *gorm.DB
	gate  lifecycle.Gate
	store storage.ObjectStore
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(db *gorm.DB, gate lifecycle.Gate, store storage.ObjectStore) *CategoryHandler {
	return &CategoryHandler{db: db, gate: gate, store: store}
}

// categoryTypeValid reports whether a type is a legal category type.
func categoryTypeValid(categoryType string) bool {
	return categoryType == models.CategoryTypeJob || categoryType == models.CategoryTypeBusiness
}

// createCategoryRequest defines the request body for category creation.
type createCategoryRequest struct {
	Name  string        `json:"name"`
	Type  string        `json:"type"`
	Image *models.Image `json:"image"`
}

// Create adds a new category. The (name, type) pair must be unique among
// live categories.
func (h *CategoryHandler) Create(c *gin.Context) {
	var body createCategoryRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	name := strings.TrimSpace(body.Name)
	categoryType := strings.ToUpper(strings.TrimSpace(body.Type))
	if name == "" || !categoryTypeValid(categoryType) {
		webhttp.Fail(c, apperr.Validation("provide name and a valid type ('JOB', 'BUSINESS')"))
		return
	}

	var existing models.Category
	errCheck := h.db.WithContext(c.Request.Context()).
		Scopes(scope.NotDeleted()).
		Where("name = ? AND type = ?", name, categoryType).
		First(&existing).Error
	if errCheck == nil {
		webhttp.Fail(c, apperr.Conflict("category already exists"))
		return
	}
	if !errors.Is(errCheck, gorm.ErrRecordNotFound) {
		webhttp.Fail(c, apperr.Internal("query category failed", errCheck))
		return
	}

	category := models.Category{Name: name, Type: categoryType}
	if body.Image != nil {
		category.Image = models.ImageJSON(*body.Image)
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&category).Error; errCreate != nil {
		webhttp.Fail(c, apperr.Internal("create category failed", errCreate))
		return
	}
	webhttp.OK(c, http.StatusCreated, "Category created successfully", gin.H{"category": category})
}

// List returns categories with optional type filter and search.
func (h *CategoryHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Category{}).
		Scopes(scope.ForRole(webhttp.CallerRole(c), wantsDeletedPartition(c)), scope.Newest())

	if categoryType := strings.ToUpper(strings.TrimSpace(c.Query("type"))); categoryType != "" {
		q = q.Where("type = ?", categoryType)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+search+"%")
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "name"), pattern)
	}

	var rows []models.Category
	if errFind := q.Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list categories failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"categories": rows})
}

// Get returns a single category.
func (h *CategoryHandler) Get(c *gin.Context) {
	id, errParse := parseID(c, "category")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var category models.Category
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.ForRole(webhttp.CallerRole(c), wantsDeletedPartition(c))).
		First(&category, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.NotFound("category not found"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query category failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"category": category})
}

// updateCategoryRequest defines the request body for category updates.
type updateCategoryRequest struct {
	Name  *string       `json:"name"`
	Image *models.Image `json:"image"`
}

// Update modifies category fields.
func (h *CategoryHandler) Update(c *gin.Context) {
	id, errParse := parseID(c, "category")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var body updateCategoryRequest
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
	if body.Image != nil {
		updates["image"] = models.ImageJSON(*body.Image)
	}
	if len(updates) == 0 {
		webhttp.Fail(c, apperr.Validation("provide fields to update"))
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Category{}).
		Scopes(scope.NotDeleted()).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		webhttp.Fail(c, apperr.Internal("update category failed", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		webhttp.Fail(c, apperr.NotFound("category not found"))
		return
	}
	webhttp.OK(c, http.StatusOK, "Category updated successfully", nil)
}

// ChangeStatus sets a category's status.
func (h *CategoryHandler) ChangeStatus(c *gin.Context) {
	id, errParse := parseID(c, "category")
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

	res := h.db.WithContext(c.Request.Context()).Model(&models.Category{}).
		Scopes(scope.NotDeleted()).
		Where("id = ?", id).
		Update("status", body.Status)
	if res.Error != nil {
		webhttp.Fail(c, apperr.Internal("update category failed", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		webhttp.Fail(c, apperr.NotFound("category not found"))
		return
	}
	webhttp.OK(c, http.StatusOK, "Category status changed to "+body.Status, nil)
}

// changeVisibilityRequest defines the request body for visibility toggles.
type changeVisibilityRequest struct {
	Visibility string `json:"visibility"`
}

// visibilityValid reports whether a visibility value is legal.
func visibilityValid(visibility string) bool {
	return visibility == models.VisibilityShow || visibility == models.VisibilityHide
}

// ChangeVisibility toggles a category's visibility. Hiding a category
// nulls it out of customer-facing reads without touching the records that
// reference it.
func (h *CategoryHandler) ChangeVisibility(c *gin.Context) {
	id, errParse := parseID(c, "category")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var body changeVisibilityRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	if !visibilityValid(body.Visibility) {
		webhttp.Fail(c, apperr.Validation("provide a valid visibility ('Show', 'Hide')"))
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Category{}).
		Scopes(scope.NotDeleted()).
		Where("id = ?", id).
		Update("visibility", body.Visibility)
	if res.Error != nil {
		webhttp.Fail(c, apperr.Internal("update category failed", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		webhttp.Fail(c, apperr.NotFound("category not found"))
		return
	}
	webhttp.OK(c, http.StatusOK, "Category visibility changed to "+body.Visibility, nil)
}

// RemoveImage clears a category's stored image and deletes the object.
func (h *CategoryHandler) RemoveImage(c *gin.Context) {
	id, errParse := parseID(c, "category")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}

	var category models.Category
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.NotDeleted()).
		First(&category, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.NotFound("category not found"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query category failed", errFind))
		return
	}

	removeStoredImage(c.Request.Context(), h.store, category.Image)
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&category).
		Update("image", nil).Error; errUpdate != nil {
		webhttp.Fail(c, apperr.Internal("update category failed", errUpdate))
		return
	}
	webhttp.OK(c, http.StatusOK, "Category image removed", nil)
}

// Delete soft-deletes a category.
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, errParse := parseID(c, "category")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.SoftDelete[models.Category](c.Request.Context(), h.db, categoryDescriptor, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// Restore brings a soft-deleted category back.
func (h *CategoryHandler) Restore(c *gin.Context) {
	id, errParse := parseID(c, "category")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	category, message, errRestore := lifecycle.Restore[models.Category](c.Request.Context(), h.db, categoryDescriptor, id)
	if errRestore != nil {
		webhttp.Fail(c, errRestore)
		return
	}
	webhttp.OK(c, http.StatusOK, message, gin.H{"category": category})
}

// PermanentDelete erases a soft-deleted category for good.
func (h *CategoryHandler) PermanentDelete(c *gin.Context) {
	id, errParse := parseID(c, "category")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.PermanentDelete[models.Category](c.Request.Context(), h.db, categoryDescriptor, h.gate, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// DeleteAll erases every category record. Development resets only.
func (h *CategoryHandler) DeleteAll(c *gin.Context) {
	message, errDelete := lifecycle.DeleteAll[models.Category](c.Request.Context(), h.db, categoryDescriptor, h.gate)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// removeStoredImage deletes the object behind a stored image reference.
// Failures are logged; the column update proceeds regardless.
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
