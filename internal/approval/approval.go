// Package approval implements the pending/approved/rejected moderation
// workflow shared by jobs and advertisements.
package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/communityhub-io/communityhub/internal/apperr"
	"github.com/communityhub-io/communityhub/internal/lifecycle"
	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/roles"
	"gorm.io/gorm"
)

// Moderation actions accepted by ChangeStatus.
const (
	ActionApprove = "APPROVE"
	ActionReject  = "REJECT"
)

// Moderated is an entity that carries moderation status and audit slots.
type Moderated interface {
	lifecycle.Record
	Audit() *models.Moderation
}

// ChangeStatus applies an approval or rejection. Re-applying the current
// status is a Conflict, never a silent no-op. The transition stamps only
// its own audit slot; the opposite slot keeps any earlier history.
func ChangeStatus[T any, PT interface {
	*T
	Moderated
}](ctx context.Context, db *gorm.DB, noun string, id uint64, action string, actorID uint64) (*T, string, error) {
	if id == 0 || (action != ActionApprove && action != ActionReject) {
		return nil, "", apperr.Validation("provide a valid %s id and status ('APPROVE', 'REJECT')", noun)
	}

	var row T
	rec := PT(&row)
	if errFind := db.WithContext(ctx).First(&row, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, "", apperr.NotFound("%s not found", noun)
		}
		return nil, "", apperr.Internal("query "+noun+" failed", errFind)
	}

	audit := rec.Audit()
	target := models.StatusApproved
	if action == ActionReject {
		target = models.StatusRejected
	}
	if audit.Status == target {
		if target == models.StatusApproved {
			return nil, "", apperr.Conflict("%s already approved", noun)
		}
		return nil, "", apperr.Conflict("%s already rejected", noun)
	}

	now := time.Now().UTC()
	audit.Status = target
	if action == ActionApprove {
		audit.ApprovedBy = &actorID
		audit.ApprovedAt = &now
	} else {
		audit.RejectedBy = &actorID
		audit.RejectedAt = &now
	}

	if errSave := db.WithContext(ctx).Save(rec).Error; errSave != nil {
		return nil, "", apperr.Internal("update "+noun+" status failed", errSave)
	}
	return &row, fmt.Sprintf("%s's status changed to %s", rec.Label(), audit.Status), nil
}

// StatusForCreator returns the creation-time moderation status for the
// creator's role: admin-created records start approved, account-created
// records start pending.
func StatusForCreator(role roles.Role) string {
	if roles.IsAdmin(role) {
		return models.StatusApproved
	}
	return models.StatusPending
}
