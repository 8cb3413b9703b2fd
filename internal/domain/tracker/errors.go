package tracker

import "errors"

var (
	// ErrUnauthorized indicates the requester is not the catalog authority.
	ErrUnauthorized = errors.New("not authorized to create trackers")
	// ErrDuplicateTracker indicates a tracker with the same title exists.
	ErrDuplicateTracker = errors.New("tracker already exists")
	// ErrInvalidTrackerID indicates the tracker doesn't exist.
	ErrInvalidTrackerID = errors.New("invalid tracker id")
	// ErrInvalidInput indicates invalid tracker input.
	ErrInvalidInput = errors.New("invalid tracker input")
)
