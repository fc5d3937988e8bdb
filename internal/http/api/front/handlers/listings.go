package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/communityhub-io/communityhub/internal/apperr"
	dbutil "github.com/communityhub-io/communityhub/internal/db"
	webhttp "github.com/communityhub-io/communityhub/internal/http"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/scope"
	"github.com/communityhub-io/communityhub/internal/settings"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListingHandler serves the public, unauthenticated directory and feeds.
// Everything here is filtered to the customer-facing partition: approved
// where moderation applies, shown, never soft-deleted.
type ListingHandler struct {
	db *gorm.DB
}

// NewListingHandler constructs a ListingHandler.
func NewListingHandler(db *gorm.DB) *ListingHandler {
	return &ListingHandler{db: db}
}

// Site returns the public site configuration.
func (h *ListingHandler) Site(c *gin.Context) {
	webhttp.OK(c, http.StatusOK, "", gin.H{
		"siteName":        settings.String(settings.SiteNameKey, settings.DefaultSiteName),
		"contactEmail":    settings.String(settings.ContactEmailKey, ""),
		"maintenanceMode": settings.Bool(settings.MaintenanceModeKey, settings.DefaultMaintenanceMode),
	})
}

// Categories lists shown categories, optionally filtered by type.
func (h *ListingHandler) Categories(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Category{}).
		Scopes(scope.PublicContent(), scope.Newest()).
		Where("status = ?", models.StatusActive)
	if categoryType := strings.ToUpper(strings.TrimSpace(c.Query("type"))); categoryType != "" {
		q = q.Where("type = ?", categoryType)
	}

	var rows []models.Category
	if errFind := q.Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list categories failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"categories": rows})
}

// Businesses lists the public business directory.
func (h *ListingHandler) Businesses(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.BusinessAccount{}).
		Scopes(scope.PublicContent(), scope.VisibleCategory(), scope.Newest()).
		Where("status = ?", models.StatusActive)
	if categoryID := strings.TrimSpace(c.Query("categoryId")); categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+search+"%")
		q = q.Where(
			h.db.Where(dbutil.CaseInsensitiveLikeExpr(h.db, "name"), pattern).
				Or(dbutil.CaseInsensitiveLikeExpr(h.db, "about"), pattern),
		)
	}

	var rows []models.BusinessAccount
	if errFind := q.Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list business accounts failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"businessAccounts": rows})
}

// Business returns one public business profile.
func (h *ListingHandler) Business(c *gin.Context) {
	id, errParse := parseID(c, "business account")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var account models.BusinessAccount
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.PublicContent(), scope.VisibleCategory()).
		Where("status = ?", models.StatusActive).
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

// Jobs lists approved, shown job postings.
func (h *ListingHandler) Jobs(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Job{}).
		Scopes(scope.Public(), scope.VisibleCategory(), scope.Newest())
	if categoryID := strings.TrimSpace(c.Query("categoryId")); categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+search+"%")
		q = q.Where(dbutil.CaseInsensitiveLikeExpr(h.db, `"desc"`), pattern)
	}

	var rows []models.Job
	if errFind := q.Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list jobs failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"jobs": rows})
}

// Job returns one approved, shown job posting.
func (h *ListingHandler) Job(c *gin.Context) {
	id, errParse := parseID(c, "job")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var job models.Job
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.Public(), scope.VisibleCategory()).
		First(&job, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.NotFound("job not found"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query job failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"job": job})
}

// Advertisements lists approved, shown advertisements.
func (h *ListingHandler) Advertisements(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Advertisement{}).
		Scopes(scope.Public(), scope.Newest())
	if advertisementType := strings.ToUpper(strings.TrimSpace(c.Query("type"))); advertisementType != "" {
		q = q.Where("type = ?", advertisementType)
	}

	var rows []models.Advertisement
	if errFind := q.Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list advertisements failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"advertisements": rows})
}

// Advertisement returns one approved, shown advertisement.
func (h *ListingHandler) Advertisement(c *gin.Context) {
	id, errParse := parseID(c, "advertisement")
	if errParse != nil {
		webhttp.Fail(c, errParse)
		return
	}
	var advertisement models.Advertisement
	if errFind := h.db.WithContext(c.Request.Context()).
		Scopes(scope.Public()).
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

// Galleries lists shown gallery entries.
func (h *ListingHandler) Galleries(c *gin.Context) {
	var rows []models.Gallery
	if errFind := h.db.WithContext(c.Request.Context()).Model(&models.Gallery{}).
		Scopes(scope.PublicContent(), scope.Newest()).
		Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list galleries failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"galleries": rows})
}

// News lists shown news entries.
func (h *ListingHandler) News(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).Model(&models.News{}).
		Scopes(scope.PublicContent(), scope.Newest())
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

// Events lists shown event entries.
func (h *ListingHandler) Events(c *gin.Context) {
	var rows []models.Event
	if errFind := h.db.WithContext(c.Request.Context()).Model(&models.Event{}).
		Scopes(scope.PublicContent(), scope.Newest()).
		Find(&rows).Error; errFind != nil {
		webhttp.Fail(c, apperr.Internal("list events failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"events": rows})
}
