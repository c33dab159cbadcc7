package database

import (
	"errors"
	"time"

	"github.com/powo1/aetherpress/backend/internal/documents"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const migrationBackfillPreviewHTML = "2025-06-01_backfill_preview_html"

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationBackfillPreviewHTML, apply: backfillPreviewHTML},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// backfillPreviewHTML fills preview_html for rows written before the column was
// populated on every insert.
func backfillPreviewHTML(db *gorm.DB) error {
	var stale []documents.Document
	if err := db.Where("preview_html IS NULL OR preview_html = ''").Find(&stale).Error; err != nil {
		return err
	}
	for _, document := range stale {
		err := db.Model(&documents.Document{}).
			Where("id = ?", document.ID).
			Update("preview_html", documents.RenderPreview(document.Content)).Error
		if err != nil {
			return err
		}
	}
	return nil
}
