package models

import (
	"time"

	"gorm.io/datatypes"
)

// News is a community news article managed by admins.
type News struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Code  string         `gorm:"type:text;not null;uniqueIndex" json:"code"` // Sequence code, e.g. NEWS101.
	Title string         `gorm:"type:text;not null" json:"title"`
	Body  string         `gorm:"type:text;not null" json:"body"`
	Image datatypes.JSON `gorm:"type:json" json:"image,omitempty"` // Stored {key, url} reference.

	Lifecycle `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// PrimaryID returns the record identifier.
func (n *News) PrimaryID() uint64 { return n.ID }

// Label returns the sequence code used in workflow messages.
func (n *News) Label() string { return n.Code }
