package models

import "time"

// Job is a job posting submitted by an account and moderated by admins.
type Job struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Code string `gorm:"type:text;not null;uniqueIndex" json:"code"` // Sequence code, e.g. JOB101.

	CreatedBy     uint64 `gorm:"not null;index" json:"createdBy"`
	CreatedByRole string `gorm:"type:text;not null" json:"createdByRole"` // BusinessAccount, PersonalAccount or Admin.

	Desc string `gorm:"type:text;not null" json:"desc"`

	CategoryID uint64    `gorm:"not null;index" json:"categoryId"` // JOB category reference.
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	Moderation `gorm:"embedded"`
	Lifecycle  `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// PrimaryID returns the record identifier.
func (j *Job) PrimaryID() uint64 { return j.ID }

// Label returns the sequence code used in workflow messages.
func (j *Job) Label() string { return j.Code }
