package models

import (
	"time"

	"gorm.io/datatypes"
)

// Gallery is a community photo entry managed by admins.
type Gallery struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Code  string         `gorm:"type:text;not null;uniqueIndex" json:"code"` // Sequence code, e.g. GLRY101.
	Title string         `gorm:"type:text" json:"title,omitempty"`
	Image datatypes.JSON `gorm:"type:json" json:"image,omitempty"` // Stored {key, url} reference.

	Lifecycle `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// PrimaryID returns the record identifier.
func (g *Gallery) PrimaryID() uint64 { return g.ID }

// Label returns the sequence code used in workflow messages.
func (g *Gallery) Label() string { return g.Code }
