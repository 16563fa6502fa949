package roster

import (
	"errors"
	"fmt"
)

var (
	// ErrTooManyRows is returned when the roster has more rows than allowed
	ErrTooManyRows = errors.New("too many rows")

	// ErrFileTooLarge is returned when the roster file exceeds the size limit
	ErrFileTooLarge = errors.New("roster file too large")
)

// Limits bounds what a roster may contain
type Limits struct {
	MaxRows  int   // Maximum number of data rows, header excluded
	MaxBytes int64 // Maximum file size in bytes
}

// DefaultLimits returns the default roster limits
func DefaultLimits() Limits {
	return Limits{
		MaxRows:  10000,
		MaxBytes: 5 * 1024 * 1024, // 5MB
	}
}

// ValidateRowCount checks if the row count is within limits
func (l Limits) ValidateRowCount(count int) error {
	if l.MaxRows > 0 && count > l.MaxRows {
		return fmt.Errorf("%w: got more than %d rows", ErrTooManyRows, l.MaxRows)
	}
	return nil
}

// ValidateSize checks if the file size is within limits
func (l Limits) ValidateSize(size int64, filename string) error {
	if l.MaxBytes > 0 && size > l.MaxBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d bytes", ErrFileTooLarge, filename, size, l.MaxBytes)
	}
	return nil
}
