package documents

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

const (
	queryTitle            = "title = ?"
	queryTitleExcludingID = "title = ? AND id <> ?"
	postgresUniqueCode    = "23505"
	sqliteUniqueMessage   = "UNIQUE constraint failed"
)

// titleTaken reports whether a live document other than excludeID already uses title.
// excludeID of zero checks against every document.
func titleTaken(transaction *gorm.DB, title string, excludeID DocumentID) (bool, error) {
	query := transaction.Model(&Document{})
	if excludeID > 0 {
		query = query.Where(queryTitleExcludingID, title, excludeID.Int64())
	} else {
		query = query.Where(queryTitle, title)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// isUniqueViolation recognises the unique index rejecting a write, which is the
// authoritative title guard when two writers pass the pre-check together.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == postgresUniqueCode
	}
	return strings.Contains(err.Error(), sqliteUniqueMessage)
}
