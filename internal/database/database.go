// Package database opens the relational store backing documents and the content
// scratch slot. Opening is idempotent: every table is created only when absent.
package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/powo1/aetherpress/backend/internal/content"
	"github.com/powo1/aetherpress/backend/internal/documents"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var errUnsupportedDriver = errors.New("unsupported database driver")

// Config selects and locates the backing store.
type Config struct {
	Driver string
	Path   string
	DSN    string
}

// Open dispatches to the configured driver.
func Open(cfg Config, logger *zap.Logger) (*gorm.DB, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case DriverSQLite, "":
		return OpenSQLite(cfg.Path, logger)
	case DriverPostgres:
		return OpenPostgres(cfg.DSN, logger)
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedDriver, cfg.Driver)
	}
}

// Close releases the connection pool behind db. Closing nil is a no-op.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func newGormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	}
}

func prepareSchema(db *gorm.DB, logger *zap.Logger) error {
	if err := db.AutoMigrate(&documents.Document{}, &content.Entry{}, &migrationRecord{}); err != nil {
		return err
	}
	return applyMigrations(db, logger)
}
