package models

import "time"

// Admin roles.
const (
	RoleSuperAdmin = "SuperAdmin"
	RoleDeveloper  = "Developer"
	RoleAdmin      = "Admin"
)

// Admin represents an administrator account stored in the database.
type Admin struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	Name  string `gorm:"type:text;not null" json:"name"`
	Email string `gorm:"type:text;not null;index" json:"email"`
	Phone string `gorm:"type:text;not null;index" json:"phone"`
	Role  string `gorm:"type:text;not null;default:'Admin'" json:"role"` // SuperAdmin, Admin or Developer.

	Address string `gorm:"type:text" json:"address,omitempty"`
	Pincode string `gorm:"type:text" json:"pincode,omitempty"`

	TOTPSecret string `gorm:"type:text" json:"-"` // TOTP secret when MFA is enabled.

	Credential   `gorm:"embedded"`
	AccountState `gorm:"embedded"`
	Lifecycle    `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// PrimaryID returns the record identifier.
func (a *Admin) PrimaryID() uint64 { return a.ID }

// Label returns the human-readable name used in workflow messages.
func (a *Admin) Label() string { return a.Name }

// RoleValue returns the stored admin role carried in issued tokens.
func (a *Admin) RoleValue() string { return a.Role }
