// Package credentials implements login, password change, forced reset and
// time-boxed reset-token flows for every credentialed entity (admins,
// business and personal accounts). Cryptographic token verification is
// delegated to internal/security; this package enforces only the business
// guards: blocked-account refusal, the single-use reset flag and the
// old/new password equality check.
package credentials

import (
	"context"
	"errors"
	"time"

	"github.com/communityhub-io/communityhub/internal/apperr"
	"github.com/communityhub-io/communityhub/internal/lifecycle"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/notify"
	"github.com/communityhub-io/communityhub/internal/ratelimit"
	"github.com/communityhub-io/communityhub/internal/security"
	"gorm.io/gorm"
)

// ForgotPasswordMessage is returned for every forgot-password request,
// whether or not the email matched a record, to prevent account
// enumeration.
const ForgotPasswordMessage = "If your email exists, a password reset link will be sent to your email"

// Account is a credentialed entity.
type Account interface {
	lifecycle.Record
	lifecycle.Statused
	Cred() *models.Credential
}

// Roled is implemented by entities whose role is stored per record
// (admins). Tokens for such entities carry the stored role instead of
// the workflow default.
type Roled interface {
	RoleValue() string
}

// tokenRole resolves the role embedded in issued tokens.
func tokenRole(rec any, fallback string) string {
	if roled, ok := rec.(Roled); ok {
		return roled.RoleValue()
	}
	return fallback
}

// TokenConfig carries the signing secret and per-kind TTLs.
type TokenConfig struct {
	Secret    string
	AccessTTL time.Duration
	ResetTTL  time.Duration
}

// Workflow runs the credential flows for one entity type against the store.
type Workflow struct {
	DB      *gorm.DB
	Tokens  TokenConfig
	Notify  notify.Notifier
	Limiter ratelimit.Limiter
}

// forgotPasswordLimitKey namespaces rate-limit counters per flow and noun.
func forgotPasswordLimitKey(noun, email string) string {
	return "forgot-password:" + noun + ":" + email
}

// Login verifies an identifier (email or phone) and password and issues an
// access token. A blocked account is refused before the password check and
// without touching lastSync. An inactive account flips back to active on
// successful login.
func Login[T any, PT interface {
	*T
	Account
}](ctx context.Context, w Workflow, noun, role, identifier, password string) (string, *T, error) {
	if identifier == "" || password == "" {
		return "", nil, apperr.Validation("provide email or phone and password")
	}

	var row T
	rec := PT(&row)
	errFind := w.DB.WithContext(ctx).
		Where("email = ? OR phone = ?", identifier, identifier).
		First(&row).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return "", nil, apperr.Unauthorized("invalid email or password")
		}
		return "", nil, apperr.Internal("query "+noun+" failed", errFind)
	}

	if rec.StatusValue() == models.StatusBlocked {
		return "", nil, apperr.Unauthorized("account blocked! contact customer care")
	}
	cred := rec.Cred()
	if !security.CheckPassword(cred.Password, password) {
		return "", nil, apperr.Unauthorized("invalid email or password")
	}

	if rec.StatusValue() == models.StatusInactive {
		rec.SetStatusValue(models.StatusActive)
	}
	now := time.Now().UTC()
	cred.LastSync = &now
	if errSave := w.DB.WithContext(ctx).Save(rec).Error; errSave != nil {
		return "", nil, apperr.Internal("update "+noun+" failed", errSave)
	}

	token, errToken := security.IssueToken(w.Tokens.Secret, rec.PrimaryID(), rec.Label(), tokenRole(rec, role), security.KindAccessToken, w.Tokens.AccessTTL)
	if errToken != nil {
		return "", nil, apperr.Internal("issue access token failed", errToken)
	}
	return token, &row, nil
}

// ChangePassword replaces a credential after proving the current one.
// A successful change clears the auto-generated-password flag.
func ChangePassword[T any, PT interface {
	*T
	Account
}](ctx context.Context, w Workflow, noun string, id uint64, currentPassword, newPassword string) (string, error) {
	if id == 0 || currentPassword == "" || newPassword == "" {
		return "", apperr.Validation("provide a valid %s id, currentPassword and password", noun)
	}

	var row T
	rec := PT(&row)
	if errFind := w.DB.WithContext(ctx).First(&row, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return "", apperr.NotFound("%s not found", noun)
		}
		return "", apperr.Internal("query "+noun+" failed", errFind)
	}

	cred := rec.Cred()
	if !security.CheckPassword(cred.Password, currentPassword) {
		return "", apperr.Unauthorized("incorrect credential")
	}

	hash, errHash := security.HashPassword(newPassword)
	if errHash != nil {
		return "", apperr.Internal("hash password failed", errHash)
	}
	cred.Password = hash
	cred.AutoGeneratedPasswd = false
	if errSave := w.DB.WithContext(ctx).Save(rec).Error; errSave != nil {
		return "", apperr.Internal("update "+noun+" failed", errSave)
	}
	return "Password changed successfully", nil
}

// ForgotPassword opens a reset window for a matching email and dispatches
// a reset notice. The returned message is identical whether or not the
// email matched, and when the rate limiter refuses the attempt no work is
// done but the same message is still returned.
func ForgotPassword[T any, PT interface {
	*T
	Account
}](ctx context.Context, w Workflow, noun, role, email string) (string, error) {
	if email == "" {
		return "", apperr.Validation("please provide email")
	}

	if w.Limiter != nil && !w.Limiter.Allow(ctx, forgotPasswordLimitKey(noun, email)) {
		return ForgotPasswordMessage, nil
	}

	var row T
	rec := PT(&row)
	errFind := w.DB.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return ForgotPasswordMessage, nil
		}
		return "", apperr.Internal("query "+noun+" failed", errFind)
	}

	cred := rec.Cred()
	cred.ResetPasswordAccess = true
	if errSave := w.DB.WithContext(ctx).Save(rec).Error; errSave != nil {
		return "", apperr.Internal("update "+noun+" failed", errSave)
	}

	token, errToken := security.IssueToken(w.Tokens.Secret, rec.PrimaryID(), rec.Label(), tokenRole(rec, role), security.KindResetToken, w.Tokens.ResetTTL)
	if errToken != nil {
		return "", apperr.Internal("issue reset token failed", errToken)
	}

	notify.Dispatch(w.Notify, notify.Message{
		Template: notify.TemplateResetPassword,
		To:       email,
		Data: map[string]string{
			"name":  rec.Label(),
			"token": token,
		},
	})
	return ForgotPasswordMessage, nil
}

// ResetPassword sets a new credential through a reset token. The token must
// verify as a ResetToken, the record must still hold an open reset window,
// and the new password must differ from the stored one.
func ResetPassword[T any, PT interface {
	*T
	Account
}](ctx context.Context, w Workflow, noun, token, password string) (string, error) {
	if token == "" || password == "" {
		return "", apperr.Validation("please provide token and password")
	}

	claims, errVerify := security.VerifyToken(w.Tokens.Secret, token, security.KindResetToken)
	if errVerify != nil {
		return "", apperr.Unauthorized("incorrect credentials")
	}

	var row T
	rec := PT(&row)
	errFind := w.DB.WithContext(ctx).
		Where("id = ? AND reset_password_access = ?", claims.ID, true).
		First(&row).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return "", apperr.Unauthorized("reset password permission denied")
		}
		return "", apperr.Internal("query "+noun+" failed", errFind)
	}

	cred := rec.Cred()
	if security.CheckPassword(cred.Password, password) {
		return "", apperr.Conflict("new password and old password are the same")
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return "", apperr.Internal("hash password failed", errHash)
	}
	cred.Password = hash
	cred.ResetPasswordAccess = false
	if errSave := w.DB.WithContext(ctx).Save(rec).Error; errSave != nil {
		return "", apperr.Internal("update "+noun+" failed", errSave)
	}
	return "Password reset successfully", nil
}

// CheckStatus is the session probe: it flips an inactive record back to
// active, stamps lastUsed and confirms the status is one of the allowed
// values.
func CheckStatus[T any, PT interface {
	*T
	Account
}](ctx context.Context, w Workflow, noun string, id uint64, allowed []string) (*T, string, error) {
	if id == 0 || len(allowed) == 0 {
		return nil, "", apperr.Validation("provide a valid %s id and status", noun)
	}

	var row T
	rec := PT(&row)
	errFind := w.DB.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&row).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, "", apperr.NotFound("%s not found", noun)
		}
		return nil, "", apperr.Internal("query "+noun+" failed", errFind)
	}

	if rec.StatusValue() == models.StatusInactive {
		rec.SetStatusValue(models.StatusActive)
	}
	now := time.Now().UTC()
	rec.Cred().LastUsed = &now
	if errSave := w.DB.WithContext(ctx).Save(rec).Error; errSave != nil {
		return nil, "", apperr.Internal("update "+noun+" failed", errSave)
	}

	for _, status := range allowed {
		if rec.StatusValue() == status {
			return &row, noun + " is " + status, nil
		}
	}
	return nil, "", apperr.Unauthorized("%s is %s", noun, rec.StatusValue())
}
