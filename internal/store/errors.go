package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a point lookup matches no record.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable wraps transport or connection failures to the
	// document store.
	ErrUnavailable = errors.New("document store unavailable")
	// ErrInvalidDayFilter is returned when a creation-day filter is not
	// a YYYY-MM-DD date.
	ErrInvalidDayFilter = errors.New("creation day filter must be YYYY-MM-DD")
)

// translate maps gorm errors onto the store's error taxonomy so callers
// never depend on gorm directly.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return errors.Join(ErrUnavailable, err)
}
