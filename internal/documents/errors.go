package documents

import (
	"errors"
	"fmt"
)

// ErrorKind classifies service failures for the transport layer.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindNotFound   ErrorKind = "not_found"
	KindStorage    ErrorKind = "storage"
)

var (
	// ErrValidation matches any error caused by malformed, missing or oversized input.
	ErrValidation = errors.New("documents: validation failed")
	// ErrConflict matches any write rejected because the title is already taken.
	ErrConflict = errors.New("documents: title conflict")
	// ErrNotFound matches updates addressed to an unknown document.
	ErrNotFound = errors.New("documents: document not found")
	// ErrStorage matches failures of the backing database.
	ErrStorage = errors.New("documents: storage failure")

	ErrTitleRequired     = errors.New("title is required")
	ErrTitleTooLong      = fmt.Errorf("title must be at most %d characters", MaxTitleLength)
	ErrContentRequired   = errors.New("content is required")
	ErrInvalidDocumentID = errors.New("invalid document id")
	ErrTitleExists       = errors.New("a document with this title already exists")

	errMissingDatabase = errors.New("database handle is required")
)

const (
	opServiceNew = "documents.service.new"
	opParseID    = "documents.parse_id"
	opCreate     = "documents.create"
	opGet        = "documents.get"
	opUpdate     = "documents.update"
	opDelete     = "documents.delete"
	opList       = "documents.list"

	reasonMissingDatabase = "missing_database"
	reasonInvalidID       = "invalid_id"
	reasonTitleRequired   = "title_required"
	reasonTitleTooLong    = "title_too_long"
	reasonContentRequired = "content_required"
	reasonTitleConflict   = "title_conflict"
	reasonNotFound        = "not_found"
	reasonLookupFailed    = "lookup_failed"
	reasonInsertFailed    = "insert_failed"
	reasonSaveFailed      = "save_failed"
	reasonDeleteFailed    = "delete_failed"
	reasonQueryFailed     = "query_failed"
)

// ServiceError carries a stable "operation.reason" code and the failure kind.
type ServiceError struct {
	code string
	kind ErrorKind
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

// Is lets callers match the kind sentinels with errors.Is.
func (e *ServiceError) Is(target error) bool {
	return target != nil && target == e.kind.sentinel()
}

func (e *ServiceError) Code() string {
	return e.code
}

func (kind ErrorKind) sentinel() error {
	switch kind {
	case KindValidation:
		return ErrValidation
	case KindConflict:
		return ErrConflict
	case KindNotFound:
		return ErrNotFound
	case KindStorage:
		return ErrStorage
	default:
		return nil
	}
}

func newServiceError(operation, reason string, kind ErrorKind, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, kind: kind, err: cause}
}

// ErrorCode extracts the service error code, or "" when err carries none.
func ErrorCode(err error) string {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr.Code()
	}
	return ""
}
