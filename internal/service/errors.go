package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks requests rejected before touching any store.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a file ID matches no catalog record.
	ErrNotFound = errors.New("file not found")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
