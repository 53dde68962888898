package database

import (
	"fmt"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Contact{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	logger.Info("Database migrated", "models", 2)
	return nil
}
