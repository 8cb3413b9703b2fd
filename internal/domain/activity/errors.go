package activity

import "errors"

// ErrInvalidInput indicates an activity entry is missing required fields.
var ErrInvalidInput = errors.New("invalid activity input")
