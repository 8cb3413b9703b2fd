package tracking

import "errors"

var (
	// ErrDuplicateDay indicates the user already logged this tracker on this day.
	ErrDuplicateDay = errors.New("tracking data already exists for this day")
	// ErrInvalidInput indicates invalid tracking input.
	ErrInvalidInput = errors.New("invalid tracking input")
)
