package models

import (
	"time"

	"gorm.io/datatypes"
)

// Category types.
const (
	CategoryTypeJob      = "JOB"
	CategoryTypeBusiness = "BUSINESS"
)

// Category groups jobs and business profiles by type.
type Category struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Name  string         `gorm:"type:text;not null;index" json:"name"`
	Type  string         `gorm:"type:text;not null;index" json:"type"` // JOB or BUSINESS.
	Image datatypes.JSON `gorm:"type:json" json:"image,omitempty"`     // Stored {key, url} reference.

	AccountState `gorm:"embedded"`
	Lifecycle    `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// PrimaryID returns the record identifier.
func (c *Category) PrimaryID() uint64 { return c.ID }

// Label returns the human-readable name used in workflow messages.
func (c *Category) Label() string { return c.Name }
