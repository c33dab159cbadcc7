package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	memoryPath         = ":memory:"
	filePrefix         = "file:"
	busyTimeoutPragma  = "_pragma=busy_timeout(5000)"
	dataDirPermissions = 0o755
)

// OpenSQLite establishes a SQLite connection and ensures the schema exists.
// The parent directory of path is created when missing.
func OpenSQLite(path string, logger *zap.Logger) (*gorm.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if err := ensureParentDirectory(path); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(sqliteDSN(path)), newGormConfig())
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := prepareSchema(db, logger); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	if logger != nil {
		logger.Info("database initialized", zap.String("driver", DriverSQLite), zap.String("path", path))
	}

	return db, nil
}

func ensureParentDirectory(path string) error {
	if path == memoryPath || strings.HasPrefix(path, filePrefix) {
		return nil
	}
	directory := filepath.Dir(path)
	if directory == "." || directory == "" {
		return nil
	}
	if err := os.MkdirAll(directory, dataDirPermissions); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	return nil
}

func sqliteDSN(path string) string {
	if path == memoryPath {
		return path
	}
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return path + separator + busyTimeoutPragma
}
