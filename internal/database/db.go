// Package database opens and migrates the recipe database.
package database

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver (lib/pq)
	_ "github.com/mattn/go-sqlite3"              // SQLite driver

	"voicechef/internal/models"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Open connects to the database and migrates the schema
func Open(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case DriverSQLite, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the tables the service uses
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.RecipeRecord{}).Error; err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}
