package tracking

import (
	"context"

	"github.com/rpggio/tally/internal/domain/activity"
	"github.com/rpggio/tally/internal/domain/stats"
	"github.com/rpggio/tally/internal/domain/tracker"
)

// Repository provides persistence for user logs.
type Repository interface {
	// WithinTx runs fn in one storage transaction. Repository and ledger
	// calls made with the context passed to fn join it.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
	// Append inserts the entry. A second entry for the same (user, tracker,
	// day) fails with repository.ErrConflict.
	Append(ctx context.Context, entry *Entry) error
	// Entries lists a user's log for one tracker, ascending by day.
	Entries(ctx context.Context, userID string, trackerID int64) ([]Track, error)
}

// Ledger merges accepted entries into the daily stats.
type Ledger interface {
	Merge(ctx context.Context, trackerID, day int64, userID string, count int64) (*stats.DailyStat, error)
}

// TrackerResolver validates tracker ids.
type TrackerResolver interface {
	Resolve(ctx context.Context, id int64) (*tracker.Tracker, error)
}

// ActivityRepository logs tracking activity.
type ActivityRepository interface {
	Log(ctx context.Context, entry *activity.ActivityEntry) error
}

// Recorder observes submission outcomes.
type Recorder interface {
	ObserveSubmission(result string)
}
