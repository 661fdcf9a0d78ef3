package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/noah-isme/mosquee-go/internal/models"
)

// Models lists every persisted model in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserTag{},
		&models.AuditLog{},
		&models.Event{},
		&models.News{},
		&models.Quote{},
		&models.Member{},
		&models.Donation{},
		&models.Taxonomy{},
		&models.Setting{},
	}
}

// Migrate brings the schema up to date.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
