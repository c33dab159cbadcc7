package documents

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	fieldDocumentID = "document_id"
	queryID         = "id = ?"
	orderUpdatedAt  = "updated_at DESC"
	orderIDDesc     = "id DESC"
	columnTitle     = "title"
	columnContent   = "content"
	columnUpdatedAt = "updated_at"
	updateTick      = time.Microsecond
)

var noOpLogger = zap.NewNop()

type ServiceConfig struct {
	Database *gorm.DB
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Service is the document store: CRUD over the documents table with title
// uniqueness enforced inside each write transaction.
type Service struct {
	db     *gorm.DB
	clock  func() time.Time
	logger *zap.Logger
}

func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, reasonMissingDatabase, KindStorage, errMissingDatabase)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		db:     cfg.Database,
		clock:  clock,
		logger: logger,
	}, nil
}

// Create validates and persists a new document.
func (s *Service) Create(ctx context.Context, title, content string) (Document, error) {
	if err := validateFields(opCreate, title, content); err != nil {
		return Document{}, err
	}
	if s.db == nil {
		s.logError(opCreate, reasonMissingDatabase, errMissingDatabase)
		return Document{}, newServiceError(opCreate, reasonMissingDatabase, KindStorage, errMissingDatabase)
	}

	now := s.clock().UTC()
	document := Document{
		Title:       title,
		Content:     content,
		PreviewHTML: RenderPreview(content),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := titleTaken(tx, title, 0)
		if err != nil {
			s.logError(opCreate, reasonLookupFailed, err)
			return newServiceError(opCreate, reasonLookupFailed, KindStorage, err)
		}
		if taken {
			return newServiceError(opCreate, reasonTitleConflict, KindConflict, ErrTitleExists)
		}
		if err := tx.Create(&document).Error; err != nil {
			if isUniqueViolation(err) {
				return newServiceError(opCreate, reasonTitleConflict, KindConflict, ErrTitleExists)
			}
			s.logError(opCreate, reasonInsertFailed, err)
			return newServiceError(opCreate, reasonInsertFailed, KindStorage, err)
		}
		return nil
	})
	if txErr != nil {
		return Document{}, asServiceError(opCreate, txErr)
	}

	s.loggerOrDefault().Debug("document created", zap.Int64(fieldDocumentID, document.ID))
	return document, nil
}

// Get looks up a document. A missing row is reported through found, never as an error.
func (s *Service) Get(ctx context.Context, id DocumentID) (Document, bool, error) {
	if s.db == nil {
		s.logError(opGet, reasonMissingDatabase, errMissingDatabase)
		return Document{}, false, newServiceError(opGet, reasonMissingDatabase, KindStorage, errMissingDatabase)
	}

	var document Document
	err := s.db.WithContext(ctx).Where(queryID, id.Int64()).Take(&document).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Document{}, false, nil
	}
	if err != nil {
		s.logError(opGet, reasonQueryFailed, err, zap.Int64(fieldDocumentID, id.Int64()))
		return Document{}, false, newServiceError(opGet, reasonQueryFailed, KindStorage, err)
	}
	return document, true, nil
}

// Update replaces title and content of an existing document and refreshes updated_at.
// preview_html keeps the value computed at creation.
func (s *Service) Update(ctx context.Context, id DocumentID, title, content string) (Document, error) {
	if err := validateFields(opUpdate, title, content); err != nil {
		return Document{}, err
	}
	if s.db == nil {
		s.logError(opUpdate, reasonMissingDatabase, errMissingDatabase)
		return Document{}, newServiceError(opUpdate, reasonMissingDatabase, KindStorage, errMissingDatabase)
	}

	var updated Document
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Document
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(queryID, id.Int64()).
			Take(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newServiceError(opUpdate, reasonNotFound, KindNotFound, ErrNotFound)
		}
		if err != nil {
			s.logError(opUpdate, reasonLookupFailed, err, zap.Int64(fieldDocumentID, id.Int64()))
			return newServiceError(opUpdate, reasonLookupFailed, KindStorage, err)
		}

		taken, err := titleTaken(tx, title, id)
		if err != nil {
			s.logError(opUpdate, reasonLookupFailed, err, zap.Int64(fieldDocumentID, id.Int64()))
			return newServiceError(opUpdate, reasonLookupFailed, KindStorage, err)
		}
		if taken {
			return newServiceError(opUpdate, reasonTitleConflict, KindConflict, ErrTitleExists)
		}

		updatedAt := s.clock().UTC()
		if !updatedAt.After(existing.UpdatedAt) {
			updatedAt = existing.UpdatedAt.UTC().Add(updateTick)
		}
		err = tx.Model(&Document{}).
			Where(queryID, id.Int64()).
			Updates(map[string]any{
				columnTitle:     title,
				columnContent:   content,
				columnUpdatedAt: updatedAt,
			}).Error
		if err != nil {
			if isUniqueViolation(err) {
				return newServiceError(opUpdate, reasonTitleConflict, KindConflict, ErrTitleExists)
			}
			s.logError(opUpdate, reasonSaveFailed, err, zap.Int64(fieldDocumentID, id.Int64()))
			return newServiceError(opUpdate, reasonSaveFailed, KindStorage, err)
		}
		existing.Title = title
		existing.Content = content
		existing.UpdatedAt = updatedAt
		updated = existing
		return nil
	})
	if txErr != nil {
		return Document{}, asServiceError(opUpdate, txErr)
	}

	s.loggerOrDefault().Debug("document updated", zap.Int64(fieldDocumentID, updated.ID))
	return updated, nil
}

// Delete removes a document. Deleting an unknown id succeeds.
func (s *Service) Delete(ctx context.Context, id DocumentID) error {
	if s.db == nil {
		s.logError(opDelete, reasonMissingDatabase, errMissingDatabase)
		return newServiceError(opDelete, reasonMissingDatabase, KindStorage, errMissingDatabase)
	}

	result := s.db.WithContext(ctx).Where(queryID, id.Int64()).Delete(&Document{})
	if result.Error != nil {
		s.logError(opDelete, reasonDeleteFailed, result.Error, zap.Int64(fieldDocumentID, id.Int64()))
		return newServiceError(opDelete, reasonDeleteFailed, KindStorage, result.Error)
	}

	s.loggerOrDefault().Debug("document delete applied",
		zap.Int64(fieldDocumentID, id.Int64()),
		zap.Int64("rows_affected", result.RowsAffected))
	return nil
}

// List returns every document, most recently updated first.
func (s *Service) List(ctx context.Context) ([]Document, error) {
	if s.db == nil {
		s.logError(opList, reasonMissingDatabase, errMissingDatabase)
		return nil, newServiceError(opList, reasonMissingDatabase, KindStorage, errMissingDatabase)
	}

	documents := make([]Document, 0)
	if err := s.db.WithContext(ctx).
		Order(orderUpdatedAt).
		Order(orderIDDesc).
		Find(&documents).Error; err != nil {
		s.logError(opList, reasonQueryFailed, err)
		return nil, newServiceError(opList, reasonQueryFailed, KindStorage, err)
	}
	return documents, nil
}

// asServiceError keeps classified errors intact and treats anything else the
// transaction returned (begin or commit failures) as storage errors.
func asServiceError(operation string, err error) error {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return err
	}
	if isUniqueViolation(err) {
		return newServiceError(operation, reasonTitleConflict, KindConflict, ErrTitleExists)
	}
	return newServiceError(operation, reasonSaveFailed, KindStorage, err)
}

func (s *Service) loggerOrDefault() *zap.Logger {
	if s == nil {
		return noOpLogger
	}
	if s.logger == nil {
		return noOpLogger
	}
	return s.logger
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.loggerOrDefault().Error("documents service error", attrs...)
}
