package tracker

import (
	"context"

	"github.com/rpggio/tally/internal/domain/activity"
)

// Repository provides persistence for trackers.
type Repository interface {
	Create(ctx context.Context, t *Tracker) error
	Get(ctx context.Context, id int64) (*Tracker, error)
	List(ctx context.Context) ([]Tracker, error)
	Count(ctx context.Context) (int, error)
}

// ActivityRepository logs catalog activity.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// Recorder observes catalog writes.
type Recorder interface {
	ObserveTrackerCreate(result string)
}

// Authority answers whether a requester may add trackers to the catalog.
type Authority interface {
	IsAuthority(requester string) bool
}

// StaticAuthority grants catalog writes to exactly one user identifier.
type StaticAuthority string

// IsAuthority implements Authority.
func (a StaticAuthority) IsAuthority(requester string) bool {
	return a != "" && string(a) == requester
}
