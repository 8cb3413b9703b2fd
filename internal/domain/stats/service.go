package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/tally/internal/domain/day"
	"github.com/rpggio/tally/internal/domain/tracker"
	"github.com/rpggio/tally/internal/repository"
)

// MaxRangeDays bounds History queries.
const MaxRangeDays = 366

// Service is the daily stats ledger.
type Service struct {
	repo     Repository
	trackers TrackerResolver
	logger   *slog.Logger
}

// NewService creates a new ledger service.
func NewService(repo Repository, trackers TrackerResolver, logger *slog.Logger) *Service {
	return &Service{repo: repo, trackers: trackers, logger: logger}
}

// Merge folds one user's first contribution into the (tracker, day) bucket.
//
// The ledger does not track which users contributed. Callers must guarantee
// at most one Merge per (user, tracker, day); the user log's duplicate-day
// rejection provides that. Merge joins any storage transaction carried by
// ctx, which is how a submission commits its entry and its contribution
// together.
func (s *Service) Merge(ctx context.Context, trackerID, d int64, userID string, count int64) (*DailyStat, error) {
	if !day.IsBoundary(d) || count < 0 || count > MaxCount || userID == "" {
		return nil, ErrInvalidInput
	}
	stat, err := s.repo.Merge(ctx, trackerID, d, count)
	if err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, tracker.ErrInvalidTrackerID
		}
		return nil, fmt.Errorf("merging daily stat: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("daily stat merged", "tracker_id", trackerID, "day", d, "user_id", userID, "total_count", stat.TotalCount, "unique_users", stat.UniqueUsers)
	}
	return stat, nil
}

// StatsFor returns the bucket containing ts. Buckets without contributions
// read as zero.
func (s *Service) StatsFor(ctx context.Context, trackerID, ts int64) (*DailyStat, error) {
	if !day.InRange(ts) {
		return nil, ErrInvalidInput
	}
	if _, err := s.trackers.Resolve(ctx, trackerID); err != nil {
		return nil, err
	}
	d := day.Normalize(ts)
	stat, err := s.repo.Get(ctx, trackerID, d)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return &DailyStat{TrackerID: trackerID, Day: d}, nil
		}
		return nil, fmt.Errorf("getting daily stat: %w", err)
	}
	return stat, nil
}

// History returns the non-empty buckets of one tracker between the days
// containing from and to, inclusive, in day order.
func (s *Service) History(ctx context.Context, trackerID, from, to int64) ([]DailyStat, error) {
	if !day.InRange(from) || !day.InRange(to) {
		return nil, ErrInvalidInput
	}
	from, to = day.Normalize(from), day.Normalize(to)
	if to < from || (to-from)/day.Seconds >= MaxRangeDays {
		return nil, ErrInvalidInput
	}
	if _, err := s.trackers.Resolve(ctx, trackerID); err != nil {
		return nil, err
	}
	list, err := s.repo.Range(ctx, trackerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing daily stats: %w", err)
	}
	if list == nil {
		list = []DailyStat{}
	}
	return list, nil
}
