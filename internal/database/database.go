package database

import (
	"fmt"
	"strings"

	"github.com/arnold/selfcare-api/internal/config"
	"github.com/arnold/selfcare-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the database named by cfg.DatabaseURL.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if !cfg.IsProduction() {
		level = logger.Info
	}
	return Open(cfg.DatabaseURL, level)
}

// Open picks PostgreSQL when url starts with "postgres", otherwise SQLite.
func Open(url string, level logger.LogLevel) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(url, "postgres") {
		dialector = postgres.Open(url)
	} else {
		dialector = sqlite.Open(url)
	}

	// TranslateError maps driver constraint errors to gorm.ErrDuplicatedKey
	// and friends, so the store can tell a unique violation from an outage.
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Activity{},
	)
}
