package mcp

import (
	"time"

	"github.com/rpggio/tally/internal/domain/activity"
	"github.com/rpggio/tally/internal/domain/stats"
	"github.com/rpggio/tally/internal/domain/tracker"
	"github.com/rpggio/tally/internal/domain/tracking"
)

type CreateTrackerParams struct {
	Title       string `json:"title" jsonschema:"tracker title, at most 32 characters"`
	Description string `json:"description,omitempty" jsonschema:"tracker description, at most 100 characters"`
}

type ListTrackersParams struct{}

type SubmitTrackingParams struct {
	TrackerID int64 `json:"tracker_id" jsonschema:"id of the tracker to log against"`
	Timestamp int64 `json:"timestamp" jsonschema:"unix seconds anywhere within the day being logged"`
	Count     int64 `json:"count" jsonschema:"count for the day, from 0 to 4294967295"`
}

// TrackerParams selects one tracker for the calling user.
type TrackerParams struct {
	TrackerID int64 `json:"tracker_id" jsonschema:"tracker id"`
}

type GetTrackerStatsParams struct {
	TrackerID int64 `json:"tracker_id" jsonschema:"tracker id"`
	Day       int64 `json:"day" jsonschema:"unix seconds anywhere within the requested day"`
}

type GetTrackerHistoryParams struct {
	TrackerID int64 `json:"tracker_id" jsonschema:"tracker id"`
	From      int64 `json:"from" jsonschema:"unix seconds within the first day of the range"`
	To        int64 `json:"to" jsonschema:"unix seconds within the last day of the range"`
}

type GetRecentActivityParams struct {
	TrackerID *int64 `json:"tracker_id,omitempty" jsonschema:"only activity for this tracker"`
	Type      string `json:"type,omitempty" jsonschema:"tracker_created or track_submitted"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum number of entries"`
}

type TrackerResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   string `json:"created_at"`
}

type ListTrackersResponse struct {
	Trackers []TrackerResponse `json:"trackers"`
	Count    int               `json:"count"`
}

type SubmitTrackingResponse struct {
	EntryID   string          `json:"entry_id"`
	TrackerID int64           `json:"tracker_id"`
	Day       int64           `json:"day"`
	Count     int64           `json:"count"`
	Stats     stats.DailyStat `json:"stats"`
	Streak    StreakDetail    `json:"streak"`
}

type TrackingDataResponse struct {
	TrackerID int64            `json:"tracker_id"`
	Tracks    []tracking.Track `json:"tracks"`
}

type StreakResponse struct {
	TrackerID int64 `json:"tracker_id"`
	Streak    int   `json:"streak"`
}

type StreakDetail struct {
	Current       int   `json:"current"`
	LongestCount  int   `json:"longest_count"`
	LongestEndDay int64 `json:"longest_end_day"`
}

type StreakDetailResponse struct {
	TrackerID     int64 `json:"tracker_id"`
	Current       int   `json:"current"`
	LongestCount  int   `json:"longest_count"`
	LongestEndDay int64 `json:"longest_end_day"`
}

type TrackerHistoryResponse struct {
	TrackerID int64             `json:"tracker_id"`
	Stats     []stats.DailyStat `json:"stats"`
}

type ActivityEntryResponse struct {
	Timestamp string                `json:"timestamp"`
	Type      activity.ActivityType `json:"type"`
	TrackerID *int64                `json:"tracker_id,omitempty"`
	Day       *int64                `json:"day,omitempty"`
	Summary   string                `json:"summary"`
	Details   string                `json:"details,omitempty"`
}

type RecentActivityResponse struct {
	Entries []ActivityEntryResponse `json:"entries"`
}

func trackerResponse(t *tracker.Tracker) TrackerResponse {
	return TrackerResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CreatedBy:   t.CreatedBy,
		CreatedAt:   formatTime(t.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
