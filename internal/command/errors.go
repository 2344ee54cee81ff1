package command

import (
	"errors"
	"fmt"
)

// UsageError marks a recoverable user-input or computation error: wrong
// argument count or format, or a mathematically undefined operation. These
// are reported to the user and logged as failed history entries; the
// session keeps running.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

// Usagef creates a UsageError with a formatted message.
func Usagef(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// IsUsage reports whether err is (or wraps) a UsageError.
func IsUsage(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}
