// Package handlers implements the account-facing and public API endpoints.
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
	"github.com/communityhub-io/communityhub/internal/scope"
	"github.com/communityhub-io/communityhub/internal/security"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthHandler handles registration and credential flows for business and
// personal accounts.
type AuthHandler struct {
	workflow credentials.Workflow
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(workflow credentials.Workflow) *AuthHandler {
	return &AuthHandler{workflow: workflow}
}

// registerRequest defines the request body for account registration.
type registerRequest struct {
	Name       string  `json:"name"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	Password   string  `json:"password"`
	About      string  `json:"about"`
	CategoryID *uint64 `json:"categoryId"` // Business accounts only.
}

// validate checks the shared registration fields.
func (r registerRequest) validate() error {
	if strings.TrimSpace(r.Name) == "" ||
		strings.TrimSpace(r.Username) == "" ||
		strings.TrimSpace(r.Email) == "" ||
		strings.TrimSpace(r.Phone) == "" ||
		strings.TrimSpace(r.Password) == "" {
		return apperr.Validation("provide name, username, email, phone and password")
	}
	return nil
}

// RegisterBusiness creates a new business account.
func (h *AuthHandler) RegisterBusiness(c *gin.Context) {
	var body registerRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	if errValidate := body.validate(); errValidate != nil {
		webhttp.Fail(c, errValidate)
		return
	}

	username := strings.TrimSpace(body.Username)
	var existing models.BusinessAccount
	errCheck := h.workflow.DB.WithContext(c.Request.Context()).
		Where("username = ?", username).
		First(&existing).Error
	if errCheck == nil {
		webhttp.Fail(c, apperr.Conflict("username already exists"))
		return
	}
	if !errors.Is(errCheck, gorm.ErrRecordNotFound) {
		webhttp.Fail(c, apperr.Internal("query business account failed", errCheck))
		return
	}

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
	}

	hash, errHash := security.HashPassword(body.Password)
	if errHash != nil {
		webhttp.Fail(c, apperr.Internal("hash password failed", errHash))
		return
	}

	account := models.BusinessAccount{
		Name:       strings.TrimSpace(body.Name),
		Username:   username,
		Email:      strings.TrimSpace(body.Email),
		Phone:      strings.TrimSpace(body.Phone),
		About:      strings.TrimSpace(body.About),
		CategoryID: body.CategoryID,
	}
	account.Password = hash
	if errCreate := h.workflow.DB.WithContext(c.Request.Context()).Create(&account).Error; errCreate != nil {
		webhttp.Fail(c, apperr.Internal("create business account failed", errCreate))
		return
	}
	webhttp.OK(c, http.StatusCreated, "Business account registered successfully", gin.H{"businessAccount": account})
}

// RegisterPersonal creates a new personal account.
func (h *AuthHandler) RegisterPersonal(c *gin.Context) {
	var body registerRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	if errValidate := body.validate(); errValidate != nil {
		webhttp.Fail(c, errValidate)
		return
	}

	username := strings.TrimSpace(body.Username)
	var existing models.PersonalAccount
	errCheck := h.workflow.DB.WithContext(c.Request.Context()).
		Where("username = ?", username).
		First(&existing).Error
	if errCheck == nil {
		webhttp.Fail(c, apperr.Conflict("username already exists"))
		return
	}
	if !errors.Is(errCheck, gorm.ErrRecordNotFound) {
		webhttp.Fail(c, apperr.Internal("query personal account failed", errCheck))
		return
	}

	hash, errHash := security.HashPassword(body.Password)
	if errHash != nil {
		webhttp.Fail(c, apperr.Internal("hash password failed", errHash))
		return
	}

	account := models.PersonalAccount{
		Name:     strings.TrimSpace(body.Name),
		Username: username,
		Email:    strings.TrimSpace(body.Email),
		Phone:    strings.TrimSpace(body.Phone),
		About:    strings.TrimSpace(body.About),
	}
	account.Password = hash
	if errCreate := h.workflow.DB.WithContext(c.Request.Context()).Create(&account).Error; errCreate != nil {
		webhttp.Fail(c, apperr.Internal("create personal account failed", errCreate))
		return
	}
	webhttp.OK(c, http.StatusCreated, "Personal account registered successfully", gin.H{"personalAccount": account})
}

// loginRequest defines the request body for account login.
type loginRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// identifier returns the email or phone used to look up the account.
func (r loginRequest) identifier() string {
	if email := strings.TrimSpace(r.Email); email != "" {
		return email
	}
	return strings.TrimSpace(r.Phone)
}

// LoginBusiness authenticates a business account and issues an access token.
func (h *AuthHandler) LoginBusiness(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	token, account, errLogin := credentials.Login[models.BusinessAccount](
		c.Request.Context(), h.workflow, "business account", string(roles.BusinessAccount), body.identifier(), body.Password)
	if errLogin != nil {
		webhttp.Fail(c, errLogin)
		return
	}
	webhttp.OK(c, http.StatusOK, "Login successful", gin.H{"token": token, "businessAccount": account})
}

// LoginPersonal authenticates a personal account and issues an access token.
func (h *AuthHandler) LoginPersonal(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	token, account, errLogin := credentials.Login[models.PersonalAccount](
		c.Request.Context(), h.workflow, "personal account", string(roles.PersonalAccount), body.identifier(), body.Password)
	if errLogin != nil {
		webhttp.Fail(c, errLogin)
		return
	}
	webhttp.OK(c, http.StatusOK, "Login successful", gin.H{"token": token, "personalAccount": account})
}

// forgotPasswordRequest defines the request body for forgot-password.
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPasswordBusiness opens a reset window for a business account.
func (h *AuthHandler) ForgotPasswordBusiness(c *gin.Context) {
	var body forgotPasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	message, errForgot := credentials.ForgotPassword[models.BusinessAccount](
		c.Request.Context(), h.workflow, "business account", string(roles.BusinessAccount), strings.TrimSpace(body.Email))
	if errForgot != nil {
		webhttp.Fail(c, errForgot)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// ForgotPasswordPersonal opens a reset window for a personal account.
func (h *AuthHandler) ForgotPasswordPersonal(c *gin.Context) {
	var body forgotPasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	message, errForgot := credentials.ForgotPassword[models.PersonalAccount](
		c.Request.Context(), h.workflow, "personal account", string(roles.PersonalAccount), strings.TrimSpace(body.Email))
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

// ResetPasswordBusiness sets a new business account password through a
// reset token.
func (h *AuthHandler) ResetPasswordBusiness(c *gin.Context) {
	var body resetPasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	message, errReset := credentials.ResetPassword[models.BusinessAccount](
		c.Request.Context(), h.workflow, "business account", strings.TrimSpace(body.Token), body.Password)
	if errReset != nil {
		webhttp.Fail(c, errReset)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// ResetPasswordPersonal sets a new personal account password through a
// reset token.
func (h *AuthHandler) ResetPasswordPersonal(c *gin.Context) {
	var body resetPasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		webhttp.Fail(c, apperr.Validation("invalid json"))
		return
	}
	message, errReset := credentials.ResetPassword[models.PersonalAccount](
		c.Request.Context(), h.workflow, "personal account", strings.TrimSpace(body.Token), body.Password)
	if errReset != nil {
		webhttp.Fail(c, errReset)
		return
	}
	webhttp.OK(c, http.StatusOK, message, nil)
}

// CheckStatus is the session probe for the authenticated account.
func (h *AuthHandler) CheckStatus(c *gin.Context) {
	allowed := []string{models.StatusActive}
	switch webhttp.CallerRole(c) {
	case roles.BusinessAccount:
		account, message, errCheck := credentials.CheckStatus[models.BusinessAccount](
			c.Request.Context(), h.workflow, "business account", webhttp.CallerID(c), allowed)
		if errCheck != nil {
			webhttp.Fail(c, errCheck)
			return
		}
		webhttp.OK(c, http.StatusOK, message, gin.H{"businessAccount": account})
	case roles.PersonalAccount:
		account, message, errCheck := credentials.CheckStatus[models.PersonalAccount](
			c.Request.Context(), h.workflow, "personal account", webhttp.CallerID(c), allowed)
		if errCheck != nil {
			webhttp.Fail(c, errCheck)
			return
		}
		webhttp.OK(c, http.StatusOK, message, gin.H{"personalAccount": account})
	default:
		webhttp.Fail(c, apperr.Forbidden("permission denied"))
	}
}
