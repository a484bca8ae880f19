package database

import (
	"fmt"

	"github.com/Thiarllys-melo/socio-dash-enhanced/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate creates the documents table.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Document{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
