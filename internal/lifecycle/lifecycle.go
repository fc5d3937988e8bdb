// Package lifecycle implements the soft-delete/restore/permanent-delete
// state machine shared by every entity type. Entities opt in by embedding
// models.Lifecycle; the per-type differences (noun, safe status and
// visibility values) live in a small Descriptor instead of per-entity
// copies of the guard logic.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/communityhub-io/communityhub/internal/apperr"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/scope"
	"gorm.io/gorm"
)

// Record is the minimal surface an entity exposes to the engine.
type Record interface {
	Meta() *models.Lifecycle
	PrimaryID() uint64
	Label() string
}

// Statused is implemented by entities that carry a status column.
type Statused interface {
	StatusValue() string
	SetStatusValue(string)
}

// Descriptor declares the per-entity lifecycle policy.
type Descriptor struct {
	Noun              string // Lowercase entity noun used in messages, e.g. "admin".
	DeletedStatus     string // Status forced on soft delete; empty leaves the status alone.
	RestoredStatus    string // Status set on restore; empty leaves the status alone.
	DeletedVisibility string // Visibility forced on soft delete; empty leaves it alone.
	RestoredVisibility string // Visibility set on restore; empty leaves it alone.
}

// SoftDelete marks a live record deleted, stamps deletedAt and applies the
// descriptor's safe status/visibility. A missing or already-deleted record
// is NotFound.
func SoftDelete[T any, PT interface {
	*T
	Record
}](ctx context.Context, db *gorm.DB, desc Descriptor, id uint64) (string, error) {
	if id == 0 {
		return "", apperr.Validation("provide a valid %s id", desc.Noun)
	}

	var row T
	rec := PT(&row)
	if errFind := db.WithContext(ctx).Scopes(scope.NotDeleted()).First(&row, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return "", apperr.NotFound("%s not found", desc.Noun)
		}
		return "", apperr.Internal("query "+desc.Noun+" failed", errFind)
	}

	now := time.Now().UTC()
	meta := rec.Meta()
	meta.IsDeleted = true
	meta.DeletedAt = &now
	if desc.DeletedVisibility != "" {
		meta.Visibility = desc.DeletedVisibility
	}
	if statused, ok := any(rec).(Statused); ok && desc.DeletedStatus != "" {
		statused.SetStatusValue(desc.DeletedStatus)
	}

	if errSave := db.WithContext(ctx).Save(rec).Error; errSave != nil {
		return "", apperr.Internal("delete "+desc.Noun+" failed", errSave)
	}
	return fmt.Sprintf("%s %s was deleted", rec.Label(), desc.Noun), nil
}

// Restore brings a soft-deleted record back, clearing deletedAt and setting
// the descriptor's canonical active status. A record that is not currently
// soft-deleted is NotFound.
func Restore[T any, PT interface {
	*T
	Record
}](ctx context.Context, db *gorm.DB, desc Descriptor, id uint64) (*T, string, error) {
	if id == 0 {
		return nil, "", apperr.Validation("provide a valid %s id", desc.Noun)
	}

	var row T
	rec := PT(&row)
	if errFind := db.WithContext(ctx).Scopes(scope.DeletedOnly()).First(&row, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, "", apperr.NotFound("%s not found", desc.Noun)
		}
		return nil, "", apperr.Internal("query "+desc.Noun+" failed", errFind)
	}

	meta := rec.Meta()
	meta.IsDeleted = false
	meta.DeletedAt = nil
	if desc.RestoredVisibility != "" {
		meta.Visibility = desc.RestoredVisibility
	}
	if statused, ok := any(rec).(Statused); ok && desc.RestoredStatus != "" {
		statused.SetStatusValue(desc.RestoredStatus)
	}

	if errSave := db.WithContext(ctx).Save(rec).Error; errSave != nil {
		return nil, "", apperr.Internal("restore "+desc.Noun+" failed", errSave)
	}
	return &row, fmt.Sprintf("%s %s was restored", rec.Label(), desc.Noun), nil
}

// PermanentDelete erases a record for good. The record must already be
// soft-deleted (two-step delete) and the gate must allow destructive
// operations in the current environment.
func PermanentDelete[T any, PT interface {
	*T
	Record
}](ctx context.Context, db *gorm.DB, desc Descriptor, gate Gate, id uint64) (string, error) {
	if id == 0 {
		return "", apperr.Validation("provide a valid %s id", desc.Noun)
	}

	var row T
	rec := PT(&row)
	if errFind := db.WithContext(ctx).Scopes(scope.DeletedOnly()).First(&row, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return "", apperr.NotFound("%s not found", desc.Noun)
		}
		return "", apperr.Internal("query "+desc.Noun+" failed", errFind)
	}

	if errGate := gate.Allow(desc.Noun); errGate != nil {
		return "", errGate
	}

	if errDelete := db.WithContext(ctx).Delete(rec).Error; errDelete != nil {
		return "", apperr.Internal("delete "+desc.Noun+" failed", errDelete)
	}
	return fmt.Sprintf("%s %s was deleted permanently", rec.Label(), desc.Noun), nil
}

// DeleteAll erases every record of the entity type. Only for dev/test
// resets; the gate rejects it everywhere else.
func DeleteAll[T any, PT interface {
	*T
	Record
}](ctx context.Context, db *gorm.DB, desc Descriptor, gate Gate) (string, error) {
	if errGate := gate.Allow(desc.Noun); errGate != nil {
		return "", errGate
	}

	var row T
	if errDelete := db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&row).Error; errDelete != nil {
		return "", apperr.Internal("delete all "+desc.Noun+" failed", errDelete)
	}
	return fmt.Sprintf("all %s records deleted", desc.Noun), nil
}
