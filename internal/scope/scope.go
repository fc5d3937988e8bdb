// Package scope builds the query predicates that narrow every read to the
// caller's visibility. Scopes are pure query construction: composable,
// associative and free of side effects.
package scope

import (
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/roles"
	"gorm.io/gorm"
)

// Scope is a composable gorm query predicate.
type Scope = func(*gorm.DB) *gorm.DB

// NotDeleted restricts a query to records that are not soft-deleted.
func NotDeleted() Scope {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("is_deleted = ?", false)
	}
}

// DeletedOnly restricts a query to the soft-deleted partition.
func DeletedOnly() Scope {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("is_deleted = ?", true)
	}
}

// Unscoped applies no deletion filter.
func Unscoped() Scope {
	return func(q *gorm.DB) *gorm.DB { return q }
}

// ForRole returns the deletion predicate for a caller role. Privileged
// roles may request the deleted partition explicitly and otherwise see
// everything; all other roles only ever see live records.
func ForRole(role roles.Role, deletedPartition bool) Scope {
	if deletedPartition && roles.Can(role, roles.CapViewDeleted) {
		return DeletedOnly()
	}
	if roles.Can(role, roles.CapViewUnscoped) {
		return Unscoped()
	}
	return NotDeleted()
}

// Approved restricts a query to approved records.
func Approved() Scope {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", models.StatusApproved)
	}
}

// Shown restricts a query to records with visibility Show.
func Shown() Scope {
	return func(q *gorm.DB) *gorm.DB {
		return q.Where("visibility = ?", models.VisibilityShow)
	}
}

// Public is the customer-facing predicate for moderated entities:
// approved, shown and not soft-deleted.
func Public() Scope {
	return func(q *gorm.DB) *gorm.DB {
		return q.Scopes(Approved(), Shown(), NotDeleted())
	}
}

// PublicContent is the customer-facing predicate for entities without an
// approval workflow: shown and not soft-deleted.
func PublicContent() Scope {
	return func(q *gorm.DB) *gorm.DB {
		return q.Scopes(Shown(), NotDeleted())
	}
}

// VisibleCategory preloads a category reference only when the category is
// itself shown. A hidden category resolves the reference to null; the
// parent record is still returned and the fetch never fails.
func VisibleCategory() Scope {
	return func(q *gorm.DB) *gorm.DB {
		return q.Preload("Category", "visibility = ?", models.VisibilityShow)
	}
}

// WithCategory preloads the category reference without filtering.
func WithCategory() Scope {
	return func(q *gorm.DB) *gorm.DB {
		return q.Preload("Category")
	}
}

// Newest orders results by creation time, newest first.
func Newest() Scope {
	return func(q *gorm.DB) *gorm.DB {
		return q.Order("created_at DESC")
	}
}
