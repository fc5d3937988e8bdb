package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/communityhub-io/communityhub/internal/apperr"
	webhttp "github.com/communityhub-io/communityhub/internal/http"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/security"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MFAHandler handles TOTP enrollment for admins.
type MFAHandler struct {
	db *gorm.DB
}

// NewMFAHandler constructs an MFAHandler.
func NewMFAHandler(db *gorm.DB) *MFAHandler {
	return &MFAHandler{db: db}
}

// secretEntry stores a pending TOTP secret with expiry.
type secretEntry struct {
	secret  string
	expires time.Time
}

// secretStore keeps temporary TOTP secrets in memory until confirmed.
type secretStore struct {
	mu    sync.Mutex
	items map[string]secretEntry
}

func newSecretStore() *secretStore {
	return &secretStore{items: make(map[string]secretEntry)}
}

// Set stores a secret with expiry.
func (s *secretStore) Set(key, secret string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = secretEntry{secret: secret, expires: time.Now().Add(10 * time.Minute)}
}

// Get returns a secret if present and not expired.
func (s *secretStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[key]
	if !ok {
		return "", false
	}
	if time.Now().After(entry.expires) {
		delete(s.items, key)
		return "", false
	}
	return entry.secret, true
}

// Delete removes a secret entry.
func (s *secretStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
}

// totpPendingSecrets stores pending TOTP secrets for confirmation.
var totpPendingSecrets = newSecretStore()

// Status returns TOTP enablement status for the caller.
func (h *MFAHandler) Status(c *gin.Context) {
	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).
		Select("id", "totp_secret").
		First(&admin, webhttp.CallerID(c)).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.NotFound("admin not found"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query admin failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{
		"totpEnabled": strings.TrimSpace(admin.TOTPSecret) != "",
	})
}

// PrepareTOTP generates a new TOTP secret pending confirmation.
func (h *MFAHandler) PrepareTOTP(c *gin.Context) {
	var admin models.Admin
	if errFind := h.db.WithContext(c.Request.Context()).
		Select("id", "email").
		First(&admin, webhttp.CallerID(c)).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			webhttp.Fail(c, apperr.NotFound("admin not found"))
			return
		}
		webhttp.Fail(c, apperr.Internal("query admin failed", errFind))
		return
	}

	secret, otpauthURL, errGenerate := security.NewTOTPSecret(admin.Email)
	if errGenerate != nil {
		webhttp.Fail(c, apperr.Internal("generate totp secret failed", errGenerate))
		return
	}

	totpPendingSecrets.Set(fmt.Sprintf("%d", admin.ID), secret)
	webhttp.OK(c, http.StatusOK, "", gin.H{
		"secret":     secret,
		"otpauthUrl": otpauthURL,
	})
}

// totpConfirmRequest defines the request body for confirming TOTP.
type totpConfirmRequest struct {
	Code string `json:"code"`
}

// ConfirmTOTP validates the first code and enables TOTP for the caller.
func (h *MFAHandler) ConfirmTOTP(c *gin.Context) {
	var body totpConfirmRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	code := strings.TrimSpace(body.Code)
	if code == "" {
		webhttp.Fail(c, apperr.Validation("provide the totp code"))
		return
	}

	key := fmt.Sprintf("%d", webhttp.CallerID(c))
	secret, ok := totpPendingSecrets.Get(key)
	if !ok {
		webhttp.Fail(c, apperr.Validation("totp setup expired"))
		return
	}
	if !security.ValidateTOTP(code, secret) {
		webhttp.Fail(c, apperr.Unauthorized("invalid totp code"))
		return
	}

	if errUpdate := h.db.WithContext(c.Request.Context()).Model(&models.Admin{}).
		Where("id = ?", webhttp.CallerID(c)).
		Update("totp_secret", secret).Error; errUpdate != nil {
		webhttp.Fail(c, apperr.Internal("update admin failed", errUpdate))
		return
	}

	totpPendingSecrets.Delete(key)
	webhttp.OK(c, http.StatusOK, "TOTP enabled", nil)
}

// DisableTOTP removes the caller's TOTP secret.
func (h *MFAHandler) DisableTOTP(c *gin.Context) {
	res := h.db.WithContext(c.Request.Context()).Model(&models.Admin{}).
		Where("id = ?", webhttp.CallerID(c)).
		Update("totp_secret", "")
	if res.Error != nil {
		webhttp.Fail(c, apperr.Internal("update admin failed", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		webhttp.Fail(c, apperr.NotFound("admin not found"))
		return
	}

	totpPendingSecrets.Delete(fmt.Sprintf("%d", webhttp.CallerID(c)))
	webhttp.OK(c, http.StatusOK, "TOTP disabled", nil)
}
