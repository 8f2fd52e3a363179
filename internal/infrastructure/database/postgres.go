// Package database opens the optional PostgreSQL store shared by the consoles of a shop.
package database

import (
	"fmt"
	"log/slog"

	"github.com/sangkips/pos-console/internal/config"
	"github.com/sangkips/pos-console/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, log *slog.Logger) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.URL,
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	log.Info("connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate creates the tables the console writes
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.IdempotencyKey{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
