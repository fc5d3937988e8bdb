package models

import (
	"time"

	"gorm.io/datatypes"
)

// Event is a community event managed by admins.
type Event struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Code  string         `gorm:"type:text;not null;uniqueIndex" json:"code"` // Sequence code, e.g. EVNT101.
	Title string         `gorm:"type:text;not null" json:"title"`
	Desc  string         `gorm:"type:text" json:"desc,omitempty"`
	Date  *time.Time     `json:"date,omitempty"`
	Image datatypes.JSON `gorm:"type:json" json:"image,omitempty"` // Stored {key, url} reference.

	Lifecycle `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// PrimaryID returns the record identifier.
func (e *Event) PrimaryID() uint64 { return e.ID }

// Label returns the sequence code used in workflow messages.
func (e *Event) Label() string { return e.Code }
