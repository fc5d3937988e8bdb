package models

import (
	"time"

	"gorm.io/datatypes"
)

// Advertisement types.
const (
	AdvertisementTypeRealEstate = "REAL_ESTATE"
	AdvertisementTypeUsedCar    = "USED_CAR"
)

// Advertisement is a classified listing submitted by an account and moderated by admins.
type Advertisement struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Code string `gorm:"type:text;not null;uniqueIndex" json:"code"` // Sequence code, e.g. ADZ101.

	CreatedBy     uint64 `gorm:"not null;index" json:"createdBy"`
	CreatedByRole string `gorm:"type:text;not null" json:"createdByRole"`

	Desc string `gorm:"type:text;not null" json:"desc"`
	Type string `gorm:"type:text;not null;index" json:"type"` // REAL_ESTATE or USED_CAR.

	Image datatypes.JSON `gorm:"type:json" json:"image,omitempty"` // Stored {key, url} reference.

	Moderation `gorm:"embedded"`
	Lifecycle  `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// PrimaryID returns the record identifier.
func (a *Advertisement) PrimaryID() uint64 { return a.ID }

// Label returns the sequence code used in workflow messages.
func (a *Advertisement) Label() string { return a.Code }
