// Package content holds the key/value scratch slot used by the prompt, preview
// and export flow. It is a single-row-per-key cache, overwritten on every write.
package content

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LatestGeneratedKey is the slot holding the most recently generated AI content.
const LatestGeneratedKey = "content"

var (
	// ErrInvalidKey indicates an empty entry key.
	ErrInvalidKey = errors.New("content: invalid key")

	errMissingDatabase = errors.New("content: database handle is required")
)

// Entry is a persisted key/value pair.
type Entry struct {
	ID    int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Key   string `gorm:"column:key;size:190;not null;uniqueIndex:idx_content_key"`
	Value string `gorm:"column:value;type:text"`
}

// TableName provides the explicit table binding for GORM.
func (Entry) TableName() string {
	return "content"
}

type StoreConfig struct {
	Database *gorm.DB
	Logger   *zap.Logger
}

// Store reads and writes scratch entries.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Database == nil {
		return nil, errMissingDatabase
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: cfg.Database, logger: logger}, nil
}

// Save inserts or overwrites the value stored under key.
func (s *Store) Save(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if s.db == nil {
		return errMissingDatabase
	}

	entry := Entry{Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&entry).Error
	if err != nil {
		s.logger.Error("content save failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("content: save %q: %w", key, err)
	}
	return nil
}

// Fetch returns the value stored under key; found is false when the slot is empty.
func (s *Store) Fetch(ctx context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(key) == "" {
		return "", false, ErrInvalidKey
	}
	if s.db == nil {
		return "", false, errMissingDatabase
	}

	var entry Entry
	err := s.db.WithContext(ctx).Where("key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("content fetch failed", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("content: fetch %q: %w", key, err)
	}
	return entry.Value, true, nil
}
