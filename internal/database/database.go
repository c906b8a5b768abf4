package database

import (
	"errors"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aurawall/aurawall-api/internal/models"
)

// Connect opens the store. Use PostgreSQL if the URL starts with postgres,
// otherwise SQLite.
func Connect(databaseURL string) (*gorm.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("database: empty DATABASE_URL")
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(databaseURL, "postgres") {
		dialector = postgres.Open(databaseURL)
	} else {
		dialector = sqlite.Open(databaseURL)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

// Migrate creates or updates the schema and seeds the settings row if the
// deployment is fresh.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Visitor{},
		&models.Settings{},
		&models.Message{},
		&models.Like{},
	); err != nil {
		return err
	}
	return seedSettings(db)
}

func seedSettings(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Settings{}).Where("id = ?", models.SettingsID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	seed := models.DefaultSettings()
	return db.Create(&seed).Error
}
