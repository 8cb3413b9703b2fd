package tracker

import "time"

// Tracker is a shared catalog entry users log daily counts against.
// Trackers are immutable once created.
type Tracker struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

const (
	// MaxTitleLength bounds tracker titles, in runes.
	MaxTitleLength = 32
	// MaxDescriptionLength bounds tracker descriptions, in runes.
	MaxDescriptionLength = 100
)
