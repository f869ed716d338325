package database

import (
	"tagdo/tagdo/models"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

// RunMigrations runs database migrations to ensure tables are up to date
func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Tag{},
		&models.Task{},
		&models.Event{},
	)
	if err != nil {
		log.Error("Migration failed", "err", err)
		return err
	}
	return nil
}
