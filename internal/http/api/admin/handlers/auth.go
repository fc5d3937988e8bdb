package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/communityhub-io/communityhub/internal/apperr"
	"github.com/communityhub-io/communityhub/internal/credentials"
	webhttp "github.com/communityhub-io/communityhub/internal/http"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/roles"
	"github.com/communityhub-io/communityhub/internal/security"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler handles admin authentication endpoints.
type AuthHandler struct {
	workflow credentials.Workflow
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(workflow credentials.Workflow) *AuthHandler {
	return &AuthHandler{workflow: workflow}
}

// loginRequest defines the request body for admin login.
type loginRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Code     string `json:"code"` // TOTP code, required when MFA is enabled.
}

// identifier returns the email or phone used to look up the admin.
func (r loginRequest) identifier() string {
	if email := strings.TrimSpace(r.Email); email != "" {
		return email
	}
	return strings.TrimSpace(r.Phone)
}

// Login authenticates an admin and issues an access token. Admins with
// TOTP enabled must supply a valid code alongside the password.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}

	identifier := body.identifier()
	var existing models.Admin
	errFind := h.workflow.DB.WithContext(c.Request.Context()).
		Where("email = ? OR phone = ?", identifier, identifier).
		First(&existing).Error
	if errFind == nil && strings.TrimSpace(existing.TOTPSecret) != "" {
		code := strings.TrimSpace(body.Code)
		if code == "" {
			webhttp.Fail(c, apperr.Forbidden("totp code required"))
			return
		}
		if !security.ValidateTOTP(code, existing.TOTPSecret) {
			webhttp.Fail(c, apperr.Unauthorized("invalid totp code"))
			return
		}
	} else if errFind != nil && !errors.Is(errFind, gorm.ErrRecordNotFound) {
		webhttp.Fail(c, apperr.Internal("query admin failed", errFind))
		return
	}

	token, admin, errLogin := credentials.Login[models.Admin](
		c.Request.Context(), h.workflow, "admin", string(roles.Admin), identifier, body.Password)
	if errLogin != nil {
		webhttp.Fail(c, errLogin)
		return
	}
	webhttp.OK(c, http.StatusOK, "Login successful", gin.H{"token": token, "admin": admin})
}

// LoginPrepare reports whether TOTP is required before login.
func (h *AuthHandler) LoginPrepare(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	identifier := body.identifier()
	if identifier == "" {
		webhttp.Fail(c, apperr.Validation("provide email or phone"))
		return
	}

	totpEnabled := false
	var admin models.Admin
	errFind := h.workflow.DB.WithContext(c.Request.Context()).
		Select("id", "totp_secret").
		Where("email = ? OR phone = ?", identifier, identifier).
		First(&admin).Error
	if errFind == nil {
		totpEnabled = strings.TrimSpace(admin.TOTPSecret) != ""
	} else if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		webhttp.Fail(c, apperr.Internal("query admin failed", errFind))
		return
	}
	webhttp.OK(c, http.StatusOK, "", gin.H{"totpEnabled": totpEnabled})
}

// forgotPasswordRequest defines the request body for forgot-password.
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword opens a reset window and dispatches a reset notice.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var body forgotPasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	message, errForgot := credentials.ForgotPassword[models.Admin](
		c.Request.Context(), h.workflow, "admin", string(roles.Admin), strings.TrimSpace(body.Email))
	if errForgot != nil {
		webhttp.Fail(c, errForgot)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// resetPasswordRequest defines the request body for reset-password.
type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// ResetPassword sets a new password through a reset token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var body resetPasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	message, errReset := credentials.ResetPassword[models.Admin](
		c.Request.Context(), h.workflow, "admin", strings.TrimSpace(body.Token), body.Password)
	if errReset != nil {
		webhttp.Fail(c, errReset)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// changePasswordRequest defines the request body for password changes.
type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password"`
}

// ChangePassword replaces the caller's password after proving the current one.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var body changePasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	message, errChange := credentials.ChangePassword[models.Admin](
		c.Request.Context(), h.workflow, "admin", webhttp.CallerID(c), body.CurrentPassword, body.Password)
	if errChange != nil {
		webhttp.Fail(c, errChange)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// CheckStatus is the session probe: it confirms the caller is still
// active, reviving an inactive record and stamping last use.
func (h *AuthHandler) CheckStatus(c *gin.Context) {
	admin, message, errCheck := credentials.CheckStatus[models.Admin](
		c.Request.Context(), h.workflow, "admin", webhttp.CallerID(c), []string{models.StatusActive})
	if errCheck != nil {
		webhttp.Fail(c, errCheck)
		return
	}
	webhttp.OK(c, http.StatusOK, message, gin.H{"admin": admin})
}
