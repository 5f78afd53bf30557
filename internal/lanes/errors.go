package lanes

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDate means a start or end date is not a YYYY-MM-DD calendar day.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidRange means an item starts after it ends.
	ErrInvalidRange = errors.New("start date is after end date")

	// ErrDuplicateID means two items share an id while strict ids are on.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrInvalidBuffer means a negative lane buffer was requested.
	ErrInvalidBuffer = errors.New("buffer must not be negative")
)

// ItemError reports the first malformed item of a call.
type ItemError struct {
	ID    int
	Field string // startDate, endDate, range or id
	Value string
	Err   error
}

func (e *ItemError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("item %d: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("item %d: %s %q: %v", e.ID, e.Field, e.Value, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }
