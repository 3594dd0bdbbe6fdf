package database

import (
	"fmt"

	"github.com/Saudi-Arabia-Pilgrim/Catering-sub000/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	// A room bucket cannot report more occupied rooms than it has.
	db.Exec(`
		DO $$ BEGIN
			ALTER TABLE rooms ADD CONSTRAINT chk_rooms_occupancy
			CHECK (occupied_count + available_count = count AND occupied_count <= count);
		EXCEPTION WHEN duplicate_object THEN NULL;
		END $$;
	`)

	return db, nil
}

// Migrate creates or updates every table the service owns. Tests call it on sqlite.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
