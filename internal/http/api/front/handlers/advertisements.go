package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/communityhub-io/communityhub/internal/apperr"
	"github.com/communityhub-io/communityhub/internal/approval"
	webhttp "github.com/communityhub-io/communityhub/internal/http"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/scope"
	"github.com/communityhub-io/communityhub/internal/storage"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// advertisementCodePrefix prefixes advertisement sequence codes, e.g. ADZ101.
const advertisementCodePrefix = "ADZ"

// AdvertisementHandler manages account-submitted advertisements.
type AdvertisementHandler struct {
	db    *gorm.DB
	store storage.ObjectStore
}

// NewAdvertisementHandler constructs an AdvertisementHandler.
func NewAdvertisementHandler(db *gorm.DB, store storage.ObjectStore) *AdvertisementHandler {
	return &AdvertisementHandler{db: db, store: store}
}

// advertisementTypeValid reports whether a type is a legal advertisement type.
func advertisementTypeValid(advertisementType string) bool {
	return advertisementType == models.AdvertisementTypeRealEstate ||
		advertisementType == models.AdvertisementTypeUsedCar
}

// createAdvertisementRequest defines the request body for advertisement submission.
type createAdvertisementRequest struct {
	Desc  string        `json:"desc"`
	Type  string        `json:"type"`
	Image *models.Image `json:"image"`
}

// Create submits an advertisement. Account submissions enter the moderation
// queue pending review; the next sequence code is assigned at creation.
func (h *AdvertisementHandler) Create(c *gin.Context) {
	creator, errRole := creatorRole(webhttp.CallerRole(c))
	if errRole != nil {
		webhttp.Fail(c, errRole)
		return
	}
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
		CreatedByRole: creator,
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
	webhttp.OK(c, http.StatusCreated, "Advertisement submitted for review", gin.H{"advertisement": advertisement})
}

// ListMine returns the caller's own advertisements in every moderation state.
func (h *AdvertisementHandler) ListMine(c *gin.Context) {
	creator, errRole := creatorRole(webhttp.CallerRole(c))
	if errRole != nil {
		webhttp.Fail(c, errRole)
		return
	}

	q := h.db.WithContext(c.Request.Context()).Model(&models.Advertisement{}).
		Scopes(scope.NotDeleted(), scope.Newest()).
		Where("created_by = ? AND created_by_role = ?", webhttp.CallerID(c), creator)
	if status := strings.ToUpper(strings.TrimSpace(c.Query("status"))); status != "" {
		q = q.Where("status = ?", status)
	}

	var rows []models.Advertisement
	if errFind := q.Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list advertisements failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"advertisements": rows})
}

// updateAdvertisementRequest defines the request body for advertisement updates.
type updateAdvertisementRequest struct {
	Desc  *string       `json:"desc"`
	Type  *string       `json:"type"`
	Image *models.Image `json:"image"`
}

// UpdateMine modifies one of the caller's own advertisements.
func (h *AdvertisementHandler) UpdateMine(c *gin.Context) {
	creator, errRole := creatorRole(webhttp.CallerRole(c))
	if errRole != nil {
		webhttp.Fail(c, errRole)
		return
	}
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
		Where("id = ? AND created_by = ? AND created_by_role = ?", id, webhttp.CallerID(c), creator).
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

// RemoveImage clears the image on one of the caller's own advertisements
// and deletes the stored object.
func (h *AdvertisementHandler) RemoveImage(c *gin.Context) {
	creator, errRole := creatorRole(webhttp.CallerRole(c))
	if errRole != nil {
		webhttp.Fail(c, errRole)
		return
	}
	id, errParse := parseID(c, "advertisement")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}

	var advertisement models.Advertisement
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.NotDeleted()).
		Where("id = ? AND created_by = ? AND created_by_role = ?", id, webhttp.CallerID(c), creator).
		First(&advertisement).Error; errFind != nil {
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

// DeleteMine soft-deletes one of the caller's own advertisements.
func (h *AdvertisementHandler) DeleteMine(c *gin.Context) {
	creator, errRole := creatorRole(webhttp.CallerRole(c))
	if errRole != nil {
		webhttp.Fail(c, errRole)
		return
	}
	id, errParse := parseID(c, "advertisement")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}

	var advertisement models.Advertisement
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.NotDeleted()).
		Where("id = ? AND created_by = ? AND created_by_role = ?", id, webhttp.CallerID(c), creator).
		First(&advertisement).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.NotFound("advertisement not found"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query advertisement failed", errFind))
		return
	}

	// The stored object is kept; a restore must bring the image back.
	now := time.Now().UTC()
	advertisement.IsDeleted = true
	advertisement.DeletedAt = &now
	advertisement.Visibility = models.VisibilityHide
	if errSave := h.db.WithContext(c.Request.Context()).Save(&advertisement).Error; errSave != nil {
		webhttp.Fail(c, apperr.Internal("delete advertisement failed", errSave))
		return
	}
	webhttp.OK(c, http.StatusOK, "Advertisement deleted successfully", nil)
}
