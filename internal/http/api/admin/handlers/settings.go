package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/communityhub-io/communityhub/internal/apperr"
	webhttp "github.com/communityhub-io/communityhub/internal/http"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/settings"
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsHandler manages the database-backed site configuration.
type SettingsHandler struct {
	db *gorm.DB
}

// NewSettingsHandler constructs a SettingsHandler.
func NewSettingsHandler(db *gorm.DB) *SettingsHandler {
	return &SettingsHandler{db: db}
}

// Get returns every stored setting from the in-memory snapshot.
func (h *SettingsHandler) Get(c *gin.Context) {
	webhttp.OK(c, http.StatusOK, "", gin.H{
		"settings":  settings.Values(),
		"updatedAt": settings.UpdatedAt(),
	})
}

// updateSettingsRequest defines the request body for settings updates.
type updateSettingsRequest struct {
	Values map[string]json.RawMessage `json:"values"`
}

// Update upserts the submitted keys and refreshes the snapshot.
func (h *SettingsHandler) Update(c *gin.Context) {
	var body updateSettingsRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	if len(body.Values) == 0 {
		webhttp.Fail(c, apperr.Validation("provide values to update"))
		return
	}

	rows := make([]models.Setting, 0, len(body.Values))
	for key, value := range body.Values {
		key = strings.TrimSpace(key)
		if key == "" {
			webhttp.Fail(c, apperr.Validation("setting keys cannot be empty"))
			return
		}
		if len(value) > 0 && !json.Valid(value) {
			webhttp.Fail(c, apperr.Validation("setting %s is not valid json", key))
			return
		}
		rows = append(rows, models.Setting{Key: key, Value: datatypes.JSON(value)})
	}

	if errSave := h.db.WithContext(c.Request.Context()).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rows).Error; errSave != nil {
		webhttp.Fail(c, apperr.Internal("update settings failed", errSave))
		return
	}

	if errRefresh := settings.Refresh(c.Request.Context(), h.db); errRefresh != nil {
		webhttp.Fail(c, apperr.Internal("refresh settings failed", errRefresh))
		return
	}
	webhttp.OK(c, http.StatusOK, "Settings updated successfully", gin.H{"settings": settings.Values()})
}
