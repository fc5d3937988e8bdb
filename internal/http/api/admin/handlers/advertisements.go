package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/communityhub-io/communityhub/internal/apperr"
	"github.com/communityhub-io/communityhub/internal/approval"
	dbutil "github.com/communityhub-io/communityhub/internal/db"
	webhttp "github.com/communityhub-io/communityhub/internal/http"
	"github.com/communityhub-io/communityhub/internal/lifecycle"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/scope"
	"github.com/communityhub-io/communityhub/internal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// advertisementCodePrefix prefixes advertisement sequence codes, e.g. ADZ101.
const advertisementCodePrefix = "ADZ"

// AdvertisementHandler manages advertisement endpoints for admins.
type AdvertisementHandler struct {
	db    *gorm.DB
	gate  lifecycle.Gate
	store storage.ObjectStore
}

// NewAdvertisementHandler constructs an AdvertisementHandler.
func NewAdvertisementHandler(db *gorm.DB, gate lifecycle.Gate, store storage.ObjectStore) *AdvertisementHandler {
	return &AdvertisementHandler{db: db, gate: gate, store: store}
}

// advertisementTypeValid reports whether a type is a legal advertisement type.
func advertisementTypeValid(advertisementType string) bool {
	return advertisementType == models.AdvertisementTypeRealEstate ||
		advertisementType == models.AdvertisementTypeUsedCar
}

// createAdvertisementRequest defines the request body for advertisement creation.
type createAdvertisementRequest struct {
	Desc  string        `json:"desc"`
	Type  string        `json:"type"`
	Image *models.Image `json:"image"`
}

// Create adds an admin-authored advertisement. Admin-created listings
// start approved; the next sequence code is assigned at creation.
func (h *AdvertisementHandler) Create(c *gin.Context) {
	var body createAdvertisementRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	desc := strings.TrimSpace(body.Desc)
	advertisementType := strings.ToUpper(strings.TrimSpace(body.Type))
	if desc == "" || !advertisementTypeValid(advertisementType) {
		webhttp.Fail(c, apperr.Validation("provide desc and a valid type ('REAL_ESTATE', 'USED_CAR')"))
		return
	}

	code, errCode := approval.NextCode(c.Request.Context(), h.db, &models.Advertisement{}, advertisementCodePrefix)
	if errCode != nil {
		webhttp.Fail(c, errCode)
		return
	}

	advertisement := models.Advertisement{
		Code:          code,
		CreatedBy:     webhttp.CallerID(c),
		CreatedByRole: models.CreatorAdmin,
		Desc:          desc,
		Type:          advertisementType,
	}
	if body.Image != nil {
		advertisement.Image = models.ImageJSON(*body.Image)
	}
	advertisement.Status = approval.StatusForCreator(webhttp.CallerRole(c))
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&advertisement).Error; errCreate != nil {
		webhttp.Fail(c, apperr.Internal("create advertisement failed", errCreate))
		return
	}
	webhttp.OK(c, http.StatusCreated, "Advertisement created successfully", gin.H{"advertisement": advertisement})
}

// List returns advertisements across all moderation states with optional filters.
func (h *AdvertisementHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Advertisement{}).
		Scopes(scope.ForRole(webhttp.CallerRole(c), wantsDeletedPartition(c)), scope.Newest())

	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		q = q.Where("status = ?", status)
	}
	if advertisementType := strings.ToUpper(strings.TrimSpace(c.Query("type"))); advertisementType != "" {
		q = q.Where("type = ?", advertisementType)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+search+"%")
		q = q.Where(
			h.db.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "code"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(h.db, `"desc"`), pattern),
		)
	}

	var rows []models.Advertisement
	if errFind := q.Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list advertisements failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"advertisements": rows})
}

// Get returns a single advertisement.
func (h *AdvertisementHandler) Get(c *gin.Context) {
	id, errParse := parseID(c, "advertisement")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var advertisement models.Advertisement
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.ForRole(webhttp.CallerRole(c), wantsDeletedPartition(c))).
		First(&advertisement, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.NotFound("advertisement not found"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query advertisement failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"advertisement": advertisement})
}

// updateAdvertisementRequest defines the request body for advertisement updates.
type updateAdvertisementRequest struct {
	Desc  *string       `json:"desc"`
	Type  *string       `json:"type"`
	Image *models.Image `json:"image"`
}

// Update modifies advertisement fields.
func (h *AdvertisementHandler) Update(c *gin.Context) {
	id, errParse := parseID(c, "advertisement")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var body updateAdvertisementRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}

	updates := map[string]any{}
	if body.Desc != nil {
		desc := strings.TrimSpace(*body.Desc)
		if desc == "" {
			webhttp.Fail(c, apperr.Validation("desc cannot be empty"))
			return
		}
		updates["desc"] = desc
	}
	if body.Type != nil {
		advertisementType := strings.ToUpper(strings.TrimSpace(*body.Type))
		if !advertisementTypeValid(advertisementType) {
			webhttp.Fail(c, apperr.Validation("provide a valid type ('REAL_ESTATE', 'USED_CAR')"))
			return
		}
		updates["type"] = advertisementType
	}
	if body.Image != nil {
		updates["image"] = models.ImageJSON(*body.Image)
	}
	if len(updates) == 0 {
		webhttp.Fail(c, apperr.Validation("provide fields to update"))
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Advertisement{}).
		Scopes(scope.NotDeleted()).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		webhttp.Fail(c, apperr.Internal("update advertisement failed", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		webhttp.Fail(c, apperr.NotFound("advertisement not found"))
		return
	}
	webhttp.OK(c, http.StatusOK, "Advertisement updated successfully", nil)
}

// ChangeStatus applies an approval or rejection to an advertisement.
func (h *AdvertisementHandler) ChangeStatus(c *gin.Context) {
	id, errParse := parseID(c, "advertisement")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var body moderationRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}

	advertisement, message, errChange := approval.ChangeStatus[models.Advertisement](
		c.Request.Context(), h.db, "advertisement", id, strings.ToUpper(strings.TrimSpace(body.Action)), webhttp.CallerID(c))
	if errChange != nil {
		webhttp.Fail(c, errChange)
		return
	}
	webhttp.OK(c, http.StatusOK, message, gin.H{"advertisement": advertisement})
}

// RemoveImage clears an advertisement's stored image and deletes the object.
func (h *AdvertisementHandler) RemoveImage(c *gin.Context) {
	id, errParse := parseID(c, "advertisement")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}

	var advertisement models.Advertisement
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.NotDeleted()).
		First(&advertisement, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.NotFound("advertisement not found"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query advertisement failed", errFind))
		return
	}

	removeStoredImage(c.Request.Context(), h.store, advertisement.Image)
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&advertisement).
		Update("image", nil).Error; errUpdate != nil {
		webhttp.Fail(c, apperr.Internal("update advertisement failed", errUpdate))
		return
	}
	webhttp.OK(c, http.StatusOK, "Advertisement image removed", nil)
}

// ChangeVisibility toggles an advertisement's visibility.
func (h *AdvertisementHandler) ChangeVisibility(c *gin.Context) {
	changeVisibility(c, h.db, &models.Advertisement{}, "advertisement")
}

// Delete soft-deletes an advertisement.
func (h *AdvertisementHandler) Delete(c *gin.Context) {
	id, errParse := parseID(c, "advertisement")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.SoftDelete[models.Advertisement](c.Request.Context(), h.db, advertisementDescriptor, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// Restore brings a soft-deleted advertisement back.
func (h *AdvertisementHandler) Restore(c *gin.Context) {
	id, errParse := parseID(c, "advertisement")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	advertisement, message, errRestore := lifecycle.Restore[models.Advertisement](c.Request.Context(), h.db, advertisementDescriptor, id)
	if errRestore != nil {
		webhttp.Fail(c, errRestore)
		return
	}
	webhttp.OK(c, http.StatusOK, message, gin.H{"advertisement": advertisement})
}

// PermanentDelete erases a soft-deleted advertisement for good.
func (h *AdvertisementHandler) PermanentDelete(c *gin.Context) {
	id, errParse := parseID(c, "advertisement")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.PermanentDelete[models.Advertisement](c.Request.Context(), h.db, advertisementDescriptor, h.gate, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// DeleteAll erases every advertisement record. Development resets only.
func (h *AdvertisementHandler) DeleteAll(c *gin.Context) {
	message, errDelete := lifecycle.DeleteAll[models.Advertisement](c.Request.Context(), h.db, advertisementDescriptor, h.gate)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}
