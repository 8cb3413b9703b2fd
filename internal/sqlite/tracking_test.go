package sqlite

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/rpggio/tally/internal/domain/stats"
	"github.com/rpggio/tally/internal/domain/tracking"
	"github.com/rpggio/tally/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

const testDay = int64(20_000 * 86400)

func newEntry(userID string, trackerID, day, count int64) *tracking.Entry {
	return &tracking.Entry{
		ID:        uuid.NewString(),
		UserID:    userID,
		TrackerID: trackerID,
		Day:       day,
		Count:     count,
	}
}

// record appends the entry and merges it into its bucket in one
// transaction, the way a submission does.
func record(ctx context.Context, db *DB, entry *tracking.Entry) (*stats.DailyStat, error) {
	entries := NewTrackingRepository(db)
	ledger := NewStatsRepository(db)

	var stat *stats.DailyStat
	err := entries.WithinTx(ctx, func(ctx context.Context) error {
		if err := entries.Append(ctx, entry); err != nil {
			return err
		}
		var err error
		stat, err = ledger.Merge(ctx, entry.TrackerID, entry.Day, entry.Count)
		return err
	})
	return stat, err
}

func TestTrackingRepository_RecordMergesStats(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	trackerID := insertTracker(t, db, "No Smoking")

	stat, err := record(ctx, db, newEntry("user1", trackerID, testDay, 5))
	require.NoError(t, err)
	require.Equal(t, &stats.DailyStat{TrackerID: trackerID, Day: testDay, TotalCount: 5, UniqueUsers: 1}, stat)

	stat, err = record(ctx, db, newEntry("user2", trackerID, testDay, 5))
	require.NoError(t, err)
	require.Equal(t, int64(10), stat.TotalCount)
	require.Equal(t, int64(2), stat.UniqueUsers)
}

func TestTrackingRepository_DuplicateDayLeavesStateUnchanged(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	trackerID := insertTracker(t, db, "No Smoking")
	repo := NewTrackingRepository(db)
	statsRepo := NewStatsRepository(db)

	_, err := record(ctx, db, newEntry("user1", trackerID, testDay, 5))
	require.NoError(t, err)

	beforeStat, err := statsRepo.Get(ctx, trackerID, testDay)
	require.NoError(t, err)
	beforeEntries, err := repo.Entries(ctx, "user1", trackerID)
	require.NoError(t, err)

	_, err = record(ctx, db, newEntry("user1", trackerID, testDay, 7))
	require.ErrorIs(t, err, repository.ErrConflict)

	afterStat, err := statsRepo.Get(ctx, trackerID, testDay)
	require.NoError(t, err)
	afterEntries, err := repo.Entries(ctx, "user1", trackerID)
	require.NoError(t, err)

	require.Equal(t, beforeStat, afterStat)
	require.Equal(t, beforeEntries, afterEntries)
}

func TestTrackingRepository_UnknownTracker(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := record(ctx, db, newEntry("user1", 999, testDay, 5))
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)

	var buckets int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM daily_stats`).Scan(&buckets))
	require.Zero(t, buckets)
}

func TestTrackingRepository_CanceledContextAppliesNothing(t *testing.T) {
	db := NewTestDB(t)
	trackerID := insertTracker(t, db, "No Smoking")
	repo := NewTrackingRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := record(ctx, db, newEntry("user1", trackerID, testDay, 5))
	require.Error(t, err)

	entries, err := repo.Entries(context.Background(), "user1", trackerID)
	require.NoError(t, err)
	require.Empty(t, entries)

	_, err = NewStatsRepository(db).Get(context.Background(), trackerID, testDay)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTrackingRepository_EntriesSortedByDay(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	trackerID := insertTracker(t, db, "No Smoking")
	other := insertTracker(t, db, "Push-ups")
	repo := NewTrackingRepository(db)

	for _, offset := range []int64{3, 0, 5, 1} {
		_, err := record(ctx, db, newEntry("user1", trackerID, testDay+offset*86400, offset))
		require.NoError(t, err)
	}
	_, err := record(ctx, db, newEntry("user1", other, testDay, 9))
	require.NoError(t, err)
	_, err = record(ctx, db, newEntry("user2", trackerID, testDay, 9))
	require.NoError(t, err)

	entries, err := repo.Entries(ctx, "user1", trackerID)
	require.NoError(t, err)
	require.Equal(t, []tracking.Track{
		{Day: testDay, Count: 0},
		{Day: testDay + 86400, Count: 1},
		{Day: testDay + 3*86400, Count: 3},
		{Day: testDay + 5*86400, Count: 5},
	}, entries)
}

func TestTrackingRepository_ConcurrentUsersSameBucket(t *testing.T) {
	db := newFileTestDB(t)
	ctx := context.Background()
	trackerID := insertTracker(t, db, "No Smoking")

	const users = 25
	var g errgroup.Group
	for i := 0; i < users; i++ {
		userID := fmt.Sprintf("user%d", i)
		g.Go(func() error {
			_, err := record(ctx, db, newEntry(userID, trackerID, testDay, 2))
			return err
		})
	}
	require.NoError(t, g.Wait())

	stat, err := NewStatsRepository(db).Get(ctx, trackerID, testDay)
	require.NoError(t, err)
	require.Equal(t, int64(users*2), stat.TotalCount)
	require.Equal(t, int64(users), stat.UniqueUsers)
}

func TestTrackingRepository_ConcurrentDuplicateSubmissions(t *testing.T) {
	db := newFileTestDB(t)
	ctx := context.Background()
	trackerID := insertTracker(t, db, "No Smoking")

	const attempts = 10
	results := make([]error, attempts)
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		g.Go(func() error {
			_, results[i] = record(ctx, db, newEntry("user1", trackerID, testDay, 3))
			return nil
		})
	}
	require.NoError(t, g.Wait())

	accepted := 0
	for _, err := range results {
		if err == nil {
			accepted++
			continue
		}
		require.ErrorIs(t, err, repository.ErrConflict)
	}
	require.Equal(t, 1, accepted)

	stat, err := NewStatsRepository(db).Get(ctx, trackerID, testDay)
	require.NoError(t, err)
	require.Equal(t, &stats.DailyStat{TrackerID: trackerID, Day: testDay, TotalCount: 3, UniqueUsers: 1}, stat)
}

func TestTrackingRepository_LargestCountKeepsBucketWritable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	trackerID := insertTracker(t, db, "No Smoking")

	_, err := record(ctx, db, newEntry("user1", trackerID, testDay, stats.MaxCount))
	require.NoError(t, err)

	stat, err := record(ctx, db, newEntry("user2", trackerID, testDay, 1))
	require.NoError(t, err)
	require.Equal(t, int64(stats.MaxCount)+1, stat.TotalCount)
	require.Equal(t, int64(2), stat.UniqueUsers)
}

func TestTrackingRepository_CountAboveLimitRejected(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	trackerID := insertTracker(t, db, "No Smoking")

	_, err := record(ctx, db, newEntry("user1", trackerID, testDay, math.MaxInt64))
	require.Error(t, err)

	entries, err := NewTrackingRepository(db).Entries(ctx, "user1", trackerID)
	require.NoError(t, err)
	require.Empty(t, entries)

	_, err = NewStatsRepository(db).Get(ctx, trackerID, testDay)
	require.ErrorIs(t, err, repository.ErrNotFound)

	stat, err := record(ctx, db, newEntry("user2", trackerID, testDay, 1))
	require.NoError(t, err)
	require.Equal(t, &stats.DailyStat{TrackerID: trackerID, Day: testDay, TotalCount: 1, UniqueUsers: 1}, stat)
}

func TestDB_WithinTxRollsBackOnError(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	trackerID := insertTracker(t, db, "No Smoking")
	repo := NewTrackingRepository(db)
	ledger := NewStatsRepository(db)

	errStop := errors.New("stop")
	err := db.WithinTx(ctx, func(ctx context.Context) error {
		require.NoError(t, repo.Append(ctx, newEntry("user1", trackerID, testDay, 2)))
		_, err := ledger.Merge(ctx, trackerID, testDay, 2)
		require.NoError(t, err)

		// Nested calls join the outer transaction.
		return db.WithinTx(ctx, func(ctx context.Context) error {
			return errStop
		})
	})
	require.ErrorIs(t, err, errStop)

	entries, err := repo.Entries(ctx, "user1", trackerID)
	require.NoError(t, err)
	require.Empty(t, entries)

	_, err = ledger.Get(ctx, trackerID, testDay)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
