package database

import (
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// postgresDriverName selects lib/pq as the database/sql driver behind gorm.
const postgresDriverName = "postgres"

// OpenPostgres connects to PostgreSQL and ensures the schema exists.
func OpenPostgres(dsn string, logger *zap.Logger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database dsn is required")
	}

	dialector := postgres.New(postgres.Config{
		DriverName: postgresDriverName,
		DSN:        dsn,
	})
	db, err := gorm.Open(dialector, newGormConfig())
	if err != nil {
		return nil, err
	}

	if err := prepareSchema(db, logger); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized", zap.String("driver", DriverPostgres))
	}

	return db, nil
}
