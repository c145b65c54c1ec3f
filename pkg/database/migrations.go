package database

import (
	"github.com/capital/finance/pkg/entities"
	"gorm.io/gorm"
)

// AutoMigrate runs database migrations
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entities.User{},
		&entities.PasswordResetToken{},
		&entities.Category{},
		&entities.Transaction{},
		&entities.InstallmentReminder{},
		&entities.Goal{},
	)
}
