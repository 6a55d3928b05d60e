package manga

import (
	apperrors "github.com/yanqian/assistant-actions/pkg/errors"
)

// Select returns the entry at the 1-based index after validating 1 <= index <= len(history).
func Select(history []Entry, index int) (Entry, error) {
	if index < 1 || index > len(history) {
		return Entry{}, apperrors.Wrap(apperrors.CodeValidation, "manga index out of range", nil)
	}
	return history[index-1], nil
}
