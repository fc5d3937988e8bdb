package models

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Visibility values shared by every content entity.
const (
	VisibilityShow = "Show"
	VisibilityHide = "Hide"
)

// Account status values for credentialed entities and categories.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusBlocked  = "Blocked"
)

// Moderation status values for approval-gated entities.
const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)

// Lifecycle holds the soft-delete fields common to every entity.
type Lifecycle struct {
	Visibility string     `gorm:"type:text;not null;default:'Show'" json:"visibility"`
	IsDeleted  bool       `gorm:"not null;default:false;index" json:"isDeleted"`
	DeletedAt  *time.Time `json:"deletedAt,omitempty"`
}

// Meta exposes the lifecycle fields to the generic engine.
func (l *Lifecycle) Meta() *Lifecycle { return l }

// AccountState holds the Active/Inactive/Blocked status column.
type AccountState struct {
	Status string `gorm:"type:text;not null;default:'Active';index" json:"status"`
}

// StatusValue returns the current status.
func (s *AccountState) StatusValue() string { return s.Status }

// SetStatusValue replaces the current status.
func (s *AccountState) SetStatusValue(v string) { s.Status = v }

// Moderation holds the PENDING/APPROVED/REJECTED status and its audit slots.
// A transition stamps only its own slot; the opposite slot keeps the
// history of any prior transition.
type Moderation struct {
	Status     string     `gorm:"type:text;not null;default:'PENDING';index" json:"status"`
	ApprovedBy *uint64    `json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `json:"approvedAt,omitempty"`
	RejectedBy *uint64    `json:"rejectedBy,omitempty"`
	RejectedAt *time.Time `json:"rejectedAt,omitempty"`
}

// StatusValue returns the current moderation status.
func (m *Moderation) StatusValue() string { return m.Status }

// SetStatusValue replaces the current moderation status.
func (m *Moderation) SetStatusValue(v string) { m.Status = v }

// Audit exposes the moderation audit slots to the approval workflow.
func (m *Moderation) Audit() *Moderation { return m }

// Credential holds password and reset-token bookkeeping for account entities.
type Credential struct {
	Password            string     `gorm:"type:text;not null" json:"-"`
	AutoGeneratedPasswd bool       `gorm:"not null;default:false" json:"autoGeneratedPasswd"`
	ResetPasswordAccess bool       `gorm:"not null;default:false" json:"-"`
	LastSync            *time.Time `json:"lastSync,omitempty"`
	LastUsed            *time.Time `json:"lastUsed,omitempty"`
}

// Cred exposes the credential fields to the credential workflow.
func (c *Credential) Cred() *Credential { return c }

// Image is the stored object-storage reference for an uploaded file.
// Only the key and public URL are kept; bytes live in the object store.
type Image struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ImageJSON marshals an image reference into a JSON column value.
func ImageJSON(img Image) datatypes.JSON {
	raw, err := json.Marshal(img)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// ImagesJSON marshals a list of image references into a JSON column value.
func ImagesJSON(imgs []Image) datatypes.JSON {
	raw, err := json.Marshal(imgs)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

// ParseImage decodes a stored image reference. Returns a zero Image
// when the column is empty or malformed.
func ParseImage(raw datatypes.JSON) Image {
	if len(raw) == 0 || strings.TrimSpace(string(raw)) == "null" {
		return Image{}
	}
	var img Image
	if err := json.Unmarshal(raw, &img); err != nil {
		return Image{}
	}
	return img
}
