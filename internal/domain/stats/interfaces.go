package stats

import (
	"context"

	"github.com/rpggio/tally/internal/domain/tracker"
)

// Repository provides persistence for the daily stats ledger.
type Repository interface {
	// Merge atomically adds count to the bucket and counts one more user,
	// creating the bucket if needed.
	Merge(ctx context.Context, trackerID, day, count int64) (*DailyStat, error)
	Get(ctx context.Context, trackerID, day int64) (*DailyStat, error)
	Range(ctx context.Context, trackerID, from, to int64) ([]DailyStat, error)
}

// TrackerResolver validates tracker ids.
type TrackerResolver interface {
	Resolve(ctx context.Context, id int64) (*tracker.Tracker, error)
}
