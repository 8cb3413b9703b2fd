package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/rpggio/tally/internal/domain/activity"
	"github.com/rpggio/tally/internal/domain/day"
	"github.com/rpggio/tally/internal/domain/stats"
	"github.com/rpggio/tally/internal/domain/streak"
	"github.com/rpggio/tally/internal/domain/tracker"
	"github.com/rpggio/tally/internal/repository"
)

// Service owns user logs and the submission flow.
type Service struct {
	repo       Repository
	ledger     Ledger
	trackers   TrackerResolver
	activities ActivityRepository
	recorder   Recorder
	clock      quartz.Clock
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used to anchor current streaks.
func WithClock(clock quartz.Clock) Option {
	return func(s *Service) { s.clock = clock }
}

// WithActivity logs accepted submissions to the activity feed.
func WithActivity(activities ActivityRepository) Option {
	return func(s *Service) { s.activities = activities }
}

// WithRecorder reports submission outcomes.
func WithRecorder(recorder Recorder) Option {
	return func(s *Service) { s.recorder = recorder }
}

// NewService creates a new tracking service. Accepted entries are merged
// into ledger in the same storage transaction as the entry itself.
func NewService(repo Repository, ledger Ledger, trackers TrackerResolver, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		ledger:   ledger,
		trackers: trackers,
		clock:    quartz.NewReal(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit logs count for the UTC day containing ts and returns the accepted
// track together with the merged day stats and the user's streak.
func (s *Service) Submit(ctx context.Context, userID string, trackerID, ts, count int64) (*TrackRecord, error) {
	if !day.InRange(ts) {
		s.observe(ErrInvalidInput)
		return nil, ErrInvalidInput
	}
	entry, stat, err := s.Record(ctx, userID, trackerID, day.Normalize(ts), count)
	if err != nil {
		return nil, err
	}

	days, err := s.days(ctx, userID, trackerID)
	if err != nil {
		return nil, err
	}

	return &TrackRecord{
		EntryID:   entry.ID,
		TrackerID: trackerID,
		Track:     entry.Track(),
		Stats:     *stat,
		Streak:    streak.Compute(days, s.today()),
	}, nil
}

// Record appends one entry to the user's log and merges it into the daily
// stats ledger. d must already be a normalized day.
func (s *Service) Record(ctx context.Context, userID string, trackerID, d, count int64) (*Entry, *stats.DailyStat, error) {
	entry, stat, err := s.record(ctx, userID, trackerID, d, count)
	s.observe(err)
	if err != nil {
		return nil, nil, err
	}

	if s.logger != nil {
		s.logger.Info("tracking recorded", "user_id", userID, "tracker_id", trackerID, "day", d, "count", count)
	}
	if s.activities != nil {
		details, _ := json.Marshal(map[string]int64{"count": count, "total_count": stat.TotalCount})
		_ = s.activities.Log(ctx, &activity.ActivityEntry{
			UserID:       userID,
			TrackerID:    &trackerID,
			ActivityType: activity.TypeTrackSubmitted,
			Day:          &d,
			Summary:      fmt.Sprintf("logged %d on %s", count, day.Time(d).Format(time.DateOnly)),
			Details:      string(details),
		})
	}
	return entry, stat, nil
}

func (s *Service) record(ctx context.Context, userID string, trackerID, d, count int64) (*Entry, *stats.DailyStat, error) {
	if strings.TrimSpace(userID) == "" || count < 0 || count > stats.MaxCount || !day.IsBoundary(d) || !day.InRange(d) {
		return nil, nil, ErrInvalidInput
	}
	if _, err := s.trackers.Resolve(ctx, trackerID); err != nil {
		return nil, nil, err
	}

	entry := &Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		TrackerID: trackerID,
		Day:       d,
		Count:     count,
		CreatedAt: s.clock.Now(),
	}

	var stat *stats.DailyStat
	err := s.repo.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Append(ctx, entry); err != nil {
			return err
		}
		var err error
		stat, err = s.ledger.Merge(ctx, trackerID, d, userID, count)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrConflict):
			return nil, nil, ErrDuplicateDay
		case errors.Is(err, repository.ErrForeignKeyViolation), errors.Is(err, tracker.ErrInvalidTrackerID):
			return nil, nil, tracker.ErrInvalidTrackerID
		}
		return nil, nil, fmt.Errorf("recording track: %w", err)
	}
	return entry, stat, nil
}

// Entries returns the user's log for a tracker, ascending by day.
func (s *Service) Entries(ctx context.Context, userID string, trackerID int64) ([]Track, error) {
	if _, err := s.trackers.Resolve(ctx, trackerID); err != nil {
		return nil, err
	}
	tracks, err := s.repo.Entries(ctx, userID, trackerID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	if tracks == nil {
		tracks = []Track{}
	}
	return tracks, nil
}

// Streak returns the user's current streak for a tracker.
func (s *Service) Streak(ctx context.Context, userID string, trackerID int64) (int, error) {
	detail, err := s.StreakDetail(ctx, userID, trackerID)
	if err != nil {
		return 0, err
	}
	return detail.Current, nil
}

// StreakDetail returns the current and longest streak for a tracker.
func (s *Service) StreakDetail(ctx context.Context, userID string, trackerID int64) (streak.Streak, error) {
	if _, err := s.trackers.Resolve(ctx, trackerID); err != nil {
		return streak.Streak{}, err
	}
	days, err := s.days(ctx, userID, trackerID)
	if err != nil {
		return streak.Streak{}, err
	}
	return streak.Compute(days, s.today()), nil
}

func (s *Service) days(ctx context.Context, userID string, trackerID int64) ([]int64, error) {
	tracks, err := s.repo.Entries(ctx, userID, trackerID)
	if err != nil {
		return nil, fmt.Errorf("loading entries: %w", err)
	}
	days := make([]int64, 0, len(tracks))
	for _, t := range tracks {
		days = append(days, t.Day)
	}
	return days, nil
}

func (s *Service) today() int64 {
	return day.Start(s.clock.Now())
}

func (s *Service) observe(err error) {
	if s.recorder == nil {
		return
	}
	switch {
	case err == nil:
		s.recorder.ObserveSubmission("accepted")
	case errors.Is(err, ErrDuplicateDay):
		s.recorder.ObserveSubmission("duplicate_day")
	case errors.Is(err, tracker.ErrInvalidTrackerID):
		s.recorder.ObserveSubmission("invalid_tracker")
	case errors.Is(err, ErrInvalidInput):
		s.recorder.ObserveSubmission("invalid")
	default:
		s.recorder.ObserveSubmission("error")
	}
}
