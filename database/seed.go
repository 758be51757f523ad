package database

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"

	"baggr-backend/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// CreateDefaultStaff makes sure a staff superuser exists in the auth
// database. Without ADMIN_PASSWORD a random password is generated and logged
// once.
func CreateDefaultStaff(db *gorm.DB) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@baggr.local"
	}

	var existing models.User
	err := db.Where("email = ?", adminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	if adminPassword == "" {
		buf := make([]byte, 12)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		adminPassword = hex.EncodeToString(buf)
		zap.L().Warn("ADMIN_PASSWORD not set, generated one", zap.String("email", adminEmail), zap.String("password", adminPassword))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		admin := models.User{
			Username:      "admin",
			Email:         adminEmail,
			Password:      string(hashedPassword),
			FirstName:     "Admin",
			LastName:      "User",
			EmailVerified: true,
			AcceptTerms:   true,
			IsStaff:       true,
			IsSuperuser:   true,
			IsActive:      true,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Profile{UserID: admin.ID}).Error; err != nil {
			return err
		}
		zap.L().Info("default staff user created", zap.String("email", adminEmail))
		return nil
	})
}
