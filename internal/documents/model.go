package documents

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxTitleLength bounds document titles, counted in characters.
const MaxTitleLength = 255

// DocumentID represents a validated, store-assigned document identifier.
type DocumentID int64

// NewDocumentID validates a numeric identifier.
func NewDocumentID(value int64) (DocumentID, error) {
	if value <= 0 {
		return 0, newServiceError(opParseID, reasonInvalidID, KindValidation, fmt.Errorf("%w: %d", ErrInvalidDocumentID, value))
	}
	return DocumentID(value), nil
}

// ParseDocumentID converts an identifier received as text into a DocumentID.
func ParseDocumentID(rawInput string) (DocumentID, error) {
	trimmed := strings.TrimSpace(rawInput)
	value, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, newServiceError(opParseID, reasonInvalidID, KindValidation, fmt.Errorf("%w: %q", ErrInvalidDocumentID, rawInput))
	}
	return NewDocumentID(value)
}

// Int64 exposes the raw identifier value.
func (id DocumentID) Int64() int64 {
	return int64(id)
}

// String renders the identifier in base 10.
func (id DocumentID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Document is the persisted titled text record.
type Document struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"column:title;size:255;not null;uniqueIndex:idx_documents_title" json:"title"`
	Content     string    `gorm:"column:content;type:text;not null" json:"content"`
	PreviewHTML string    `gorm:"column:preview_html;type:text" json:"preview_html"`
	CreatedAt   time.Time `gorm:"column:created_at;not null;autoCreateTime:false" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null;autoUpdateTime:false;index:idx_documents_updated" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Document) TableName() string {
	return "documents"
}

// DocumentID returns the typed identifier of the record.
func (document Document) DocumentID() DocumentID {
	return DocumentID(document.ID)
}
