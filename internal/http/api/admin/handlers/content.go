package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

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

// Content sequence code prefixes.
const (
	galleryCodePrefix = "GLRY"
	newsCodePrefix    = "NEWS"
	eventCodePrefix   = "EVNT"
)

// ContentHandler manages gallery, news and event endpoints. These
// entities carry no approval workflow; visibility is their only
// publication control.
type ContentHandler struct {
	db    *gorm.DB
	gate  lifecycle.Gate
	store storage.ObjectStore
}

// NewContentHandler constructs a ContentHandler.
func NewContentHandler(db *gorm.DB, gate lifecycle.Gate, store storage.ObjectStore) *ContentHandler {
	return &ContentHandler{db: db, gate: gate, store: store}
}

// createGalleryRequest defines the request body for gallery creation.
type createGalleryRequest struct {
	Title string        `json:"title"`
	Image *models.Image `json:"image"`
}

// CreateGallery adds a gallery entry.
func (h *ContentHandler) CreateGallery(c *gin.Context) {
	var body createGalleryRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	if body.Image == nil || strings.TrimSpace(body.Image.Key) == "" {
		webhttp.Fail(c, apperr.Validation("provide image"))
		return
	}

	code, errCode := approval.NextCode(c.Request.Context(), h.db, &models.Gallery{}, galleryCodePrefix)
	if errCode != nil {
		webhttp.Fail(c, errCode)
		return
	}

	gallery := models.Gallery{
		Code:  code,
		Title: strings.TrimSpace(body.Title),
		Image: models.ImageJSON(*body.Image),
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&gallery).Error; errCreate != nil {
		webhttp.Fail(c, apperr.Internal("create gallery failed", errCreate))
		return
	}
	webhttp.OK(c, http.StatusCreated, "Gallery created successfully", gin.H{"gallery": gallery})
}

// ListGalleries returns gallery entries.
func (h *ContentHandler) ListGalleries(c *gin.Context) {
	var rows []models.Gallery
	if errFind := h.db.WithContext(c.Request.Context()).Model(&models.Gallery{}).
		Scopes(scope.ForRole(webhttp.CallerRole(c), wantsDeletedPartition(c)), scope.Newest()).
		Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list galleries failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"galleries": rows})
}

// ChangeGalleryVisibility toggles a gallery entry's visibility.
func (h *ContentHandler) ChangeGalleryVisibility(c *gin.Context) {
	changeVisibility(c, h.db, &models.Gallery{}, "gallery")
}

// RemoveGalleryImage clears a gallery entry's image and deletes the object.
func (h *ContentHandler) RemoveGalleryImage(c *gin.Context) {
	id, errParse := parseID(c, "gallery")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var gallery models.Gallery
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.NotDeleted()).
		First(&gallery, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.NotFound("gallery not found"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query gallery failed", errFind))
		return
	}

	removeStoredImage(c.Request.Context(), h.store, gallery.Image)
	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&gallery).
		Update("image", nil).Error; errUpdate != nil {
		webhttp.Fail(c, apperr.Internal("update gallery failed", errUpdate))
		return
	}
	webhttp.OK(c, http.StatusOK, "Gallery image removed", nil)
}

// DeleteGallery soft-deletes a gallery entry.
func (h *ContentHandler) DeleteGallery(c *gin.Context) {
	id, errParse := parseID(c, "gallery")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.SoftDelete[models.Gallery](c.Request.Context(), h.db, galleryDescriptor, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// RestoreGallery brings a soft-deleted gallery entry back.
func (h *ContentHandler) RestoreGallery(c *gin.Context) {
	id, errParse := parseID(c, "gallery")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	gallery, message, errRestore := lifecycle.Restore[models.Gallery](c.Request.Context(), h.db, galleryDescriptor, id)
	if errRestore != nil {
		webhttp.Fail(c, errRestore)
		return
	}
	webhttp.OK(c, http.StatusOK, message, gin.H{"gallery": gallery})
}

// PermanentDeleteGallery erases a soft-deleted gallery entry for good.
func (h *ContentHandler) PermanentDeleteGallery(c *gin.Context) {
	id, errParse := parseID(c, "gallery")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.PermanentDelete[models.Gallery](c.Request.Context(), h.db, galleryDescriptor, h.gate, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// DeleteAllGalleries erases every gallery record. Development resets only.
func (h *ContentHandler) DeleteAllGalleries(c *gin.Context) {
	message, errDelete := lifecycle.DeleteAll[models.Gallery](c.Request.Context(), h.db, galleryDescriptor, h.gate)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// createNewsRequest defines the request body for news creation.
type createNewsRequest struct {
	Title string        `json:"title"`
	Body  string        `json:"body"`
	Image *models.Image `json:"image"`
}

// CreateNews adds a news article.
func (h *ContentHandler) CreateNews(c *gin.Context) {
	var body createNewsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	title := strings.TrimSpace(body.Title)
	text := strings.TrimSpace(body.Body)
	if title == "" || text == "" {
		webhttp.Fail(c, apperr.Validation("provide title and body"))
		return
	}

	code, errCode := approval.NextCode(c.Request.Context(), h.db, &models.News{}, newsCodePrefix)
	if errCode != nil {
		webhttp.Fail(c, errCode)
		return
	}

	news := models.News{Code: code, Title: title, Body: text}
	if body.Image != nil {
		news.Image = models.ImageJSON(*body.Image)
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&news).Error; errCreate != nil {
		webhttp.Fail(c, apperr.Internal("create news failed", errCreate))
		return
	}
	webhttp.OK(c, http.StatusCreated, "News created successfully", gin.H{"news": news})
}

// ListNews returns news articles with optional search.
func (h *ContentHandler) ListNews(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.News{}).
		Scopes(scope.ForRole(webhttp.CallerRole(c), wantsDeletedPartition(c)), scope.Newest())

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+search+"%")
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "title"), pattern)
	}

	var rows []models.News
	if errFind := q.Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list news failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"news": rows})
}

// updateNewsRequest defines the request body for news updates.
type updateNewsRequest struct {
	Title *string       `json:"title"`
	Body  *string       `json:"body"`
	Image *models.Image `json:"image"`
}

// UpdateNews modifies a news article.
func (h *ContentHandler) UpdateNews(c *gin.Context) {
	id, errParse := parseID(c, "news")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var body updateNewsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}

	updates := map[string]any{}
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			webhttp.Fail(c, apperr.Validation("title cannot be empty"))
			return
		}
		updates["title"] = title
	}
	if body.Body != nil {
		text := strings.TrimSpace(*body.Body)
		if text == "" {
			webhttp.Fail(c, apperr.Validation("body cannot be empty"))
			return
		}
		updates["body"] = text
	}
	if body.Image != nil {
		updates["image"] = models.ImageJSON(*body.Image)
	}
	if len(updates) == 0 {
		webhttp.Fail(c, apperr.Validation("provide fields to update"))
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.News{}).
		Scopes(scope.NotDeleted()).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		webhttp.Fail(c, apperr.Internal("update news failed", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		webhttp.Fail(c, apperr.NotFound("news not found"))
		return
	}
	webhttp.OK(c, http.StatusOK, "News updated successfully", nil)
}

// ChangeNewsVisibility toggles a news article's visibility.
func (h *ContentHandler) ChangeNewsVisibility(c *gin.Context) {
	changeVisibility(c, h.db, &models.News{}, "news")
}

// DeleteNews soft-deletes a news article.
func (h *ContentHandler) DeleteNews(c *gin.Context) {
	id, errParse := parseID(c, "news")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.SoftDelete[models.News](c.Request.Context(), h.db, newsDescriptor, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// RestoreNews brings a soft-deleted news article back.
func (h *ContentHandler) RestoreNews(c *gin.Context) {
	id, errParse := parseID(c, "news")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	news, message, errRestore := lifecycle.Restore[models.News](c.Request.Context(), h.db, newsDescriptor, id)
	if errRestore != nil {
		webhttp.Fail(c, errRestore)
		return
	}
	webhttp.OK(c, http.StatusOK, message, gin.H{"news": news})
}

// PermanentDeleteNews erases a soft-deleted news article for good.
func (h *ContentHandler) PermanentDeleteNews(c *gin.Context) {
	id, errParse := parseID(c, "news")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.PermanentDelete[models.News](c.Request.Context(), h.db, newsDescriptor, h.gate, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// DeleteAllNews erases every news record. Development resets only.
func (h *ContentHandler) DeleteAllNews(c *gin.Context) {
	message, errDelete := lifecycle.DeleteAll[models.News](c.Request.Context(), h.db, newsDescriptor, h.gate)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// createEventRequest defines the request body for event creation.
type createEventRequest struct {
	Title string        `json:"title"`
	Desc  string        `json:"desc"`
	Date  *time.Time    `json:"date"`
	Image *models.Image `json:"image"`
}

// CreateEvent adds a community event.
func (h *ContentHandler) CreateEvent(c *gin.Context) {
	var body createEventRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		webhttp.Fail(c, apperr.Validation("provide title"))
		return
	}

	code, errCode := approval.NextCode(c.Request.Context(), h.db, &models.Event{}, eventCodePrefix)
	if errCode != nil {
		webhttp.Fail(c, errCode)
		return
	}

	event := models.Event{
		Code:  code,
		Title: title,
		Desc:  strings.TrimSpace(body.Desc),
		Date:  body.Date,
	}
	if body.Image != nil {
		event.Image = models.ImageJSON(*body.Image)
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&event).Error; errCreate != nil {
		webhttp.Fail(c, apperr.Internal("create event failed", errCreate))
		return
	}
	webhttp.OK(c, http.StatusCreated, "Event created successfully", gin.H{"event": event})
}

// ListEvents returns events with optional search.
func (h *ContentHandler) ListEvents(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Event{}).
		Scopes(scope.ForRole(webhttp.CallerRole(c), wantsDeletedPartition(c)), scope.Newest())

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+search+"%")
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "title"), pattern)
	}

	var rows []models.Event
	if errFind := q.Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list events failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"events": rows})
}

// updateEventRequest defines the request body for event updates.
type updateEventRequest struct {
	Title *string       `json:"title"`
	Desc  *string       `json:"desc"`
	Date  *time.Time    `json:"date"`
	Image *models.Image `json:"image"`
}

// UpdateEvent modifies an event.
func (h *ContentHandler) UpdateEvent(c *gin.Context) {
	id, errParse := parseID(c, "event")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var body updateEventRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}

	updates := map[string]any{}
	if body.Title != nil {
		title := strings.TrimSpace(*body.Title)
		if title == "" {
			webhttp.Fail(c, apperr.Validation("title cannot be empty"))
			return
		}
		updates["title"] = title
	}
	if body.Desc != nil {
		updates["desc"] = strings.TrimSpace(*body.Desc)
	}
	if body.Date != nil {
		updates["date"] = *body.Date
	}
	if body.Image != nil {
		updates["image"] = models.ImageJSON(*body.Image)
	}
	if len(updates) == 0 {
		webhttp.Fail(c, apperr.Validation("provide fields to update"))
		return
	}

	res := h.db.WithContext(c.Request.Context()).Model(&models.Event{}).
		Scopes(scope.NotDeleted()).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		webhttp.Fail(c, apperr.Internal("update event failed", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		webhttp.Fail(c, apperr.NotFound("event not found"))
		return
	}
	webhttp.OK(c, http.StatusOK, "Event updated successfully", nil)
}

// ChangeEventVisibility toggles an event's visibility.
func (h *ContentHandler) ChangeEventVisibility(c *gin.Context) {
	changeVisibility(c, h.db, &models.Event{}, "event")
}

// DeleteEvent soft-deletes an event.
func (h *ContentHandler) DeleteEvent(c *gin.Context) {
	id, errParse := parseID(c, "event")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.SoftDelete[models.Event](c.Request.Context(), h.db, eventDescriptor, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// RestoreEvent brings a soft-deleted event back.
func (h *ContentHandler) RestoreEvent(c *gin.Context) {
	id, errParse := parseID(c, "event")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	event, message, errRestore := lifecycle.Restore[models.Event](c.Request.Context(), h.db, eventDescriptor, id)
	if errRestore != nil {
		webhttp.Fail(c, errRestore)
		return
	}
	webhttp.OK(c, http.StatusOK, message, gin.H{"event": event})
}

// PermanentDeleteEvent erases a soft-deleted event for good.
func (h *ContentHandler) PermanentDeleteEvent(c *gin.Context) {
	id, errParse := parseID(c, "event")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	message, errDelete := lifecycle.PermanentDelete[models.Event](c.Request.Context(), h.db, eventDescriptor, h.gate, id)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// DeleteAllEvents erases every event record. Development resets only.
func (h *ContentHandler) DeleteAllEvents(c *gin.Context) {
	message, errDelete := lifecycle.DeleteAll[models.Event](c.Request.Context(), h.db, eventDescriptor, h.gate)
	if errDelete != nil {
		webhttp.Fail(c, errDelete)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// changeVisibility toggles visibility for any live content record.
func changeVisibility(c *gin.Context, db *gorm.DB, model any, noun string) {
	id, errParse := parseID(c, noun)
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

	res := db.WithContext(c.Request.Context()).Model(model).
		Scopes(scope.NotDeleted()).
		Where("id = ?", id).
		Update("visibility", body.Visibility)
	if res.Error != nil {
		webhttp.Fail(c, apperr.Internal("update "+noun+" failed", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		webhttp.Fail(c, apperr.NotFound("%s not found", noun))
		return
	}
	webhttp.OK(c, http.StatusOK, noun+" visibility changed to "+body.Visibility, nil)
}
