package http

import (
	"errors"
	"strings"

	"github.com/communityhub-io/communityhub/internal/apperr"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/roles"
	"github.com/communityhub-io/communityhub/internal/scope"
	"github.com/communityhub-io/communityhub/internal/security"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Context keys set by the auth middleware.
const (
	ContextCallerID   = "callerID"
	ContextCallerRole = "callerRole"
	ContextCallerName = "callerName"
)

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", apperr.Unauthorized("missing authorization header")
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == header || strings.TrimSpace(token) == "" {
		return "", apperr.Unauthorized("invalid authorization format")
	}
	return strings.TrimSpace(token), nil
}

// AuthMiddleware validates an access token, loads the caller record and
// refuses deleted or blocked callers. The caller id, role and name are
// stored on the context for handlers.
func AuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, errToken := bearerToken(c)
		if errToken != nil {
			Abort(c, errToken)
			return
		}

		claims, errVerify := security.VerifyToken(secret, token, security.KindAccessToken)
		if errVerify != nil {
			Abort(c, apperr.Unauthorized("invalid token"))
			return
		}
		role := roles.Role(claims.Role)
		if !roles.Valid(role) {
			Abort(c, apperr.Unauthorized("invalid token"))
			return
		}

		if errLoad := loadCaller(c, db, role, claims.ID); errLoad != nil {
			Abort(c, errLoad)
			return
		}

		c.Set(ContextCallerID, claims.ID)
		c.Set(ContextCallerRole, role)
		c.Set(ContextCallerName, claims.Name)
		c.Next()
	}
}

// loadCaller fetches the live record behind the token and refuses blocked
// callers. A token whose record was soft-deleted no longer authenticates.
func loadCaller(c *gin.Context, db *gorm.DB, role roles.Role, id uint64) error {
	var status string
	switch {
	case roles.IsAdmin(role):
		var admin models.Admin
		if errFind := db.WithContext(c.Request.Context()).Scopes(scope.NotDeleted()).First(&admin, id).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return apperr.Unauthorized("admin not found")
			}
			return apperr.Internal("query admin failed", errFind)
		}
		if roles.Role(admin.Role) != role {
			return apperr.Unauthorized("invalid token")
		}
		status = admin.Status
	case role == roles.BusinessAccount:
		var account models.BusinessAccount
		if errFind := db.WithContext(c.Request.Context()).Scopes(scope.NotDeleted()).First(&account, id).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return apperr.Unauthorized("account not found")
			}
			return apperr.Internal("query business account failed", errFind)
		}
		status = account.Status
	case role == roles.PersonalAccount:
		var account models.PersonalAccount
		if errFind := db.WithContext(c.Request.Context()).Scopes(scope.NotDeleted()).First(&account, id).Error; errFind != nil {
			if errors.Is(errFind, gorm.ErrRecordNotFound) {
				return apperr.Unauthorized("account not found")
			}
			return apperr.Internal("query personal account failed", errFind)
		}
		status = account.Status
	default:
		return apperr.Unauthorized("invalid token")
	}

	if status == models.StatusBlocked {
		return apperr.Unauthorized("account blocked! contact customer care")
	}
	return nil
}

// RequireCapability refuses callers whose role does not hold the capability.
func RequireCapability(cap roles.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !roles.Can(CallerRole(c), cap) {
			Abort(c, apperr.Forbidden("permission denied"))
			return
		}
		c.Next()
	}
}

// RequireAdmin refuses callers that are not administrators.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !roles.IsAdmin(CallerRole(c)) {
			Abort(c, apperr.Forbidden("permission denied"))
			return
		}
		c.Next()
	}
}

// RequireAccount refuses callers that are not business or personal accounts.
func RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !roles.IsAccount(CallerRole(c)) {
			Abort(c, apperr.Forbidden("permission denied"))
			return
		}
		c.Next()
	}
}

// CallerID returns the authenticated caller id, zero when unauthenticated.
func CallerID(c *gin.Context) uint64 {
	value, ok := c.Get(ContextCallerID)
	if !ok {
		return 0
	}
	id, _ := value.(uint64)
	return id
}

// CallerRole returns the authenticated caller role. Unauthenticated
// callers are Customers.
func CallerRole(c *gin.Context) roles.Role {
	value, ok := c.Get(ContextCallerRole)
	if !ok {
		return roles.Customer
	}
	role, ok := value.(roles.Role)
	if !ok {
		return roles.Customer
	}
	return role
}
