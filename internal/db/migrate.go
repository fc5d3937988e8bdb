package db

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/communityhub-io/communityhub/internal/models"
	"github.com/communityhub-io/communityhub/internal/security"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate applies the schema for every managed entity.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errMigrate := conn.AutoMigrate(
		&models.Admin{},
		&models.Category{},
		&models.BusinessAccount{},
		&models.PersonalAccount{},
		&models.Job{},
		&models.Advertisement{},
		&models.Gallery{},
		&models.News{},
		&models.Event{},
		&models.Setting{},
	); errMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errMigrate)
	}
	return nil
}

// SeedSuperAdmin creates the bootstrap SuperAdmin when no admin with the
// configured email exists. Credentials come from COMMUNITYHUB_ADMIN_EMAIL
// and COMMUNITYHUB_ADMIN_PASSWORD; when unset no seeding happens.
func SeedSuperAdmin(conn *gorm.DB) error {
	email := strings.TrimSpace(os.Getenv("COMMUNITYHUB_ADMIN_EMAIL"))
	password := os.Getenv("COMMUNITYHUB_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}

	var existing models.Admin
	errFind := conn.Where("email = ?", email).First(&existing).Error
	if errFind == nil {
		return nil
	}
	if !errors.Is(errFind, gorm.ErrRecordNotFound) {
		return fmt.Errorf("db: seed super admin: %w", errFind)
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return fmt.Errorf("db: seed super admin: %w", errHash)
	}
	admin := models.Admin{
		Name:  "Super Admin",
		Email: email,
		Role:  models.RoleSuperAdmin,
	}
	admin.Password = hash
	admin.Status = models.StatusActive
	admin.Visibility = models.VisibilityShow
	if errCreate := conn.Create(&admin).Error; errCreate != nil {
		return fmt.Errorf("db: seed super admin: %w", errCreate)
	}
	log.Infof("seeded super admin %s", email)
	return nil
}
