package models

import (
	"time"

	"gorm.io/datatypes"
)

// Setting is one database-backed site configuration entry. Values are raw
// JSON so a key can hold a string, number or structured document.
type Setting struct {
	Key       string         `gorm:"primaryKey;type:text" json:"key"`
	Value     datatypes.JSON `gorm:"type:json" json:"value"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}
