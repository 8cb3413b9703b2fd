package tracking

import (
	"time"

	"github.com/rpggio/tally/internal/domain/stats"
	"github.com/rpggio/tally/internal/domain/streak"
)

// Track is one logged day of a user log.
type Track struct {
	Day   int64 `json:"day"`
	Count int64 `json:"count"`
}

// Entry is a persisted Track, unique per (user, tracker, day).
type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TrackerID int64     `json:"tracker_id"`
	Day       int64     `json:"day"`
	Count     int64     `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}

// Track returns the day and count of the entry.
func (e Entry) Track() Track {
	return Track{Day: e.Day, Count: e.Count}
}

// TrackRecord is the read-back of an accepted submission.
type TrackRecord struct {
	EntryID   string          `json:"entry_id"`
	TrackerID int64           `json:"tracker_id"`
	Track     Track           `json:"track"`
	Stats     stats.DailyStat `json:"stats"`
	Streak    streak.Streak   `json:"streak"`
}
