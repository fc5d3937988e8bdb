package models

import (
	"time"

	"gorm.io/datatypes"
)

// Creator role identifiers persisted on content entities.
const (
	CreatorBusinessAccount = "BusinessAccount"
	CreatorPersonalAccount = "PersonalAccount"
	CreatorAdmin           = "Admin"
)

// BusinessAccount represents a business profile with login credentials.
type BusinessAccount struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Name     string `gorm:"type:text;not null" json:"name"`
	Username string `gorm:"type:text;not null;uniqueIndex" json:"username"`
	Email    string `gorm:"type:text;not null;index" json:"email"`
	Phone    string `gorm:"type:text;not null;index" json:"phone"`
	About    string `gorm:"type:text" json:"about,omitempty"`

	CategoryID *uint64   `gorm:"index" json:"categoryId,omitempty"` // BUSINESS category reference.
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	ProfileImage datatypes.JSON `gorm:"type:json" json:"profileImage,omitempty"` // Stored {key, url} reference.
	Gallery      datatypes.JSON `gorm:"type:json" json:"gallery,omitempty"`      // Stored [{key, url}] references.

	Credential   `gorm:"embedded"`
	AccountState `gorm:"embedded"`
	Lifecycle    `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// PrimaryID returns the record identifier.
func (b *BusinessAccount) PrimaryID() uint64 { return b.ID }

// Label returns the human-readable name used in workflow messages.
func (b *BusinessAccount) Label() string { return b.Name }

// PersonalAccount represents an individual member profile with login credentials.
type PersonalAccount struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Name     string `gorm:"type:text;not null" json:"name"`
	Username string `gorm:"type:text;not null;uniqueIndex" json:"username"`
	Email    string `gorm:"type:text;not null;index" json:"email"`
	Phone    string `gorm:"type:text;not null;index" json:"phone"`
	About    string `gorm:"type:text" json:"about,omitempty"`

	ProfileImage datatypes.JSON `gorm:"type:json" json:"profileImage,omitempty"` // Stored {key, url} reference.

	Credential   `gorm:"embedded"`
	AccountState `gorm:"embedded"`
	Lifecycle    `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// PrimaryID returns the record identifier.
func (p *PersonalAccount) PrimaryID() uint64 { return p.ID }

// Label returns the human-readable name used in workflow messages.
func (p *PersonalAccount) Label() string { return p.Name }
