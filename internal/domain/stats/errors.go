package stats

import "errors"

// ErrInvalidInput indicates an invalid stats query.
var ErrInvalidInput = errors.New("invalid stats input")
