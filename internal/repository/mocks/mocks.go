package mocks

import (
	"context"

	"github.com/rpggio/tally/internal/domain/activity"
	"github.com/rpggio/tally/internal/domain/stats"
	"github.com/rpggio/tally/internal/domain/tracker"
	"github.com/rpggio/tally/internal/domain/tracking"
	"github.com/stretchr/testify/mock"
)

// TrackerRepository is a mock for tracker.Repository.
type TrackerRepository struct {
	mock.Mock
}

func (m *TrackerRepository) Create(ctx context.Context, t *tracker.Tracker) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TrackerRepository) Get(ctx context.Context, id int64) (*tracker.Tracker, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*tracker.Tracker); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TrackerRepository) List(ctx context.Context) ([]tracker.Tracker, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]tracker.Tracker); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TrackerRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// TrackerResolver is a mock for the Resolve dependency of the tracking and
// stats services.
type TrackerResolver struct {
	mock.Mock
}

func (m *TrackerResolver) Resolve(ctx context.Context, id int64) (*tracker.Tracker, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*tracker.Tracker); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

// TrackingRepository is a mock for tracking.Repository.
type TrackingRepository struct {
	mock.Mock
}

// WithinTx runs fn directly with ctx. It is not recorded as a call.
func (m *TrackingRepository) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *TrackingRepository) Append(ctx context.Context, entry *tracking.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *TrackingRepository) Entries(ctx context.Context, userID string, trackerID int64) ([]tracking.Track, error) {
	args := m.Called(ctx, userID, trackerID)
	if list, ok := args.Get(0).([]tracking.Track); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// StatsRepository is a mock for stats.Repository.
type StatsRepository struct {
	mock.Mock
}

func (m *StatsRepository) Merge(ctx context.Context, trackerID, day, count int64) (*stats.DailyStat, error) {
	args := m.Called(ctx, trackerID, day, count)
	if stat, ok := args.Get(0).(*stats.DailyStat); ok {
		return stat, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StatsRepository) Get(ctx context.Context, trackerID, day int64) (*stats.DailyStat, error) {
	args := m.Called(ctx, trackerID, day)
	if stat, ok := args.Get(0).(*stats.DailyStat); ok {
		return stat, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StatsRepository) Range(ctx context.Context, trackerID, from, to int64) ([]stats.DailyStat, error) {
	args := m.Called(ctx, trackerID, from, to)
	if list, ok := args.Get(0).([]stats.DailyStat); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.ActivityEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) List(ctx context.Context, userID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error) {
	args := m.Called(ctx, userID, opts)
	if list, ok := args.Get(0).([]activity.ActivityEntry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// Recorder is a mock for the tracker and tracking metric recorders.
type Recorder struct {
	mock.Mock
}

func (m *Recorder) ObserveTrackerCreate(result string) {
	m.Called(result)
}

func (m *Recorder) ObserveSubmission(result string) {
	m.Called(result)
}
