// Package db opens and migrates the application database.
package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/config"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/dsn"
	"github.com/GoPowerDNS-Admin/GoPowerDNS-Templates/internal/db/models"
)

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg *config.Config) gorm.Dialector {
	source := dsn.Create(cfg)

	switch cfg.DB.GormEngine {
	case config.DBEnginePostgres:
		return postgres.Open(source)
	case config.DBEngineSQLite:
		return sqlite.Open(source)
	default:
		return mysql.Open(source)
	}
}

// Open connects to the database and migrates all models.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(cfg), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// sqlite allows a single writer; :memory: databases are per connection
	if cfg.DB.GormEngine == config.DBEngineSQLite {
		sqlDB, errDB := db.DB()
		if errDB != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", errDB)
		}

		sqlDB.SetMaxOpenConns(1)
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate runs AutoMigrate for every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	return nil
}
