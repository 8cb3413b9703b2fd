package activity

import "time"

// ActivityType represents the type of activity event
type ActivityType string

const (
	TypeTrackerCreated ActivityType = "tracker_created"
	TypeTrackSubmitted ActivityType = "track_submitted"
)

// ActivityEntry represents an event in the activity log
type ActivityEntry struct {
	ID           int64        `json:"id"`
	UserID       string       `json:"user_id"`
	TrackerID    *int64       `json:"tracker_id,omitempty"`
	ActivityType ActivityType `json:"type"`
	Day          *int64       `json:"day,omitempty"`
	Summary      string       `json:"summary"`
	Details      string       `json:"details,omitempty"` // JSON string
	CreatedAt    time.Time    `json:"created_at"`
}
