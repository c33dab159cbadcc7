package documents

import (
	"strings"
	"unicode/utf8"
)

// validateFields applies the title and content rules in order and stops at the first failure.
func validateFields(operation, title, content string) error {
	if strings.TrimSpace(title) == "" {
		return newServiceError(operation, reasonTitleRequired, KindValidation, ErrTitleRequired)
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return newServiceError(operation, reasonTitleTooLong, KindValidation, ErrTitleTooLong)
	}
	if strings.TrimSpace(content) == "" {
		return newServiceError(operation, reasonContentRequired, KindValidation, ErrContentRequired)
	}
	return nil
}
