package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/tally/internal/domain/activity"
	"github.com/rpggio/tally/internal/domain/stats"
	"github.com/rpggio/tally/internal/domain/tracker"
	"github.com/rpggio/tally/internal/domain/tracking"
)

// Error codes surfaced to clients.
const (
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeInvalidTrackerID = "INVALID_TRACKER_ID"
	CodeDuplicateDay     = "DUPLICATE_DAY"
	CodeDuplicateTracker = "DUPLICATE_TRACKER"
	CodeInvalidInput     = "INVALID_INPUT"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, tracker.ErrUnauthorized):
		return &APIError{Code: CodeUnauthorized, Message: "not authorized to create trackers", RecoveryHint: "Only the catalog authority can create trackers"}
	case errors.Is(err, tracker.ErrInvalidTrackerID):
		return &APIError{Code: CodeInvalidTrackerID, Message: "tracker does not exist", RecoveryHint: "Call list_trackers for valid ids"}
	case errors.Is(err, tracking.ErrDuplicateDay):
		return &APIError{Code: CodeDuplicateDay, Message: "tracking data already exists for this day", RecoveryHint: "Each tracker accepts one submission per user per day"}
	case errors.Is(err, tracker.ErrDuplicateTracker):
		return &APIError{Code: CodeDuplicateTracker, Message: "a tracker with this title already exists"}
	case errors.Is(err, tracker.ErrInvalidInput),
		errors.Is(err, tracking.ErrInvalidInput),
		errors.Is(err, stats.ErrInvalidInput),
		errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: CodeInvalidInput, Message: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
