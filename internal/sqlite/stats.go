package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/tally/internal/domain/stats"
	"github.com/rpggio/tally/internal/repository"
)

// StatsRepository implements stats.Repository for SQLite
type StatsRepository struct {
	db *DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Merge creates the bucket or increments it in place, and reads back the
// result, in one statement. It joins the transaction carried by ctx, so the
// caller can make it part of a larger write.
func (r *StatsRepository) Merge(ctx context.Context, trackerID, day, count int64) (*stats.DailyStat, error) {
	query := `
		INSERT INTO daily_stats (tracker_id, day, total_count, unique_users, updated_at)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT (tracker_id, day) DO UPDATE SET
			total_count = total_count + excluded.total_count,
			unique_users = unique_users + 1,
			updated_at = excluded.updated_at
		RETURNING tracker_id, day, total_count, unique_users
	`

	var stat stats.DailyStat
	err := r.db.conn(ctx).QueryRowContext(ctx, query, trackerID, day, count, time.Now()).Scan(
		&stat.TrackerID,
		&stat.Day,
		&stat.TotalCount,
		&stat.UniqueUsers,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, repository.ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to merge daily stat: %w", err)
	}

	return &stat, nil
}

// Get retrieves one bucket
func (r *StatsRepository) Get(ctx context.Context, trackerID, day int64) (*stats.DailyStat, error) {
	query := `
		SELECT tracker_id, day, total_count, unique_users
		FROM daily_stats
		WHERE tracker_id = ? AND day = ?
	`

	var stat stats.DailyStat
	err := r.db.QueryRowContext(ctx, query, trackerID, day).Scan(
		&stat.TrackerID,
		&stat.Day,
		&stat.TotalCount,
		&stat.UniqueUsers,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stat: %w", err)
	}

	return &stat, nil
}

// Range returns the buckets of one tracker with from <= day <= to
func (r *StatsRepository) Range(ctx context.Context, trackerID, from, to int64) ([]stats.DailyStat, error) {
	query := `
		SELECT tracker_id, day, total_count, unique_users
		FROM daily_stats
		WHERE tracker_id = ? AND day BETWEEN ? AND ?
		ORDER BY day ASC
	`

	rows, err := r.db.QueryContext(ctx, query, trackerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily stats: %w", err)
	}
	defer rows.Close()

	var list []stats.DailyStat
	for rows.Next() {
		var stat stats.DailyStat
		if err := rows.Scan(&stat.TrackerID, &stat.Day, &stat.TotalCount, &stat.UniqueUsers); err != nil {
			return nil, fmt.Errorf("failed to scan daily stat: %w", err)
		}
		list = append(list, stat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily stat rows: %w", err)
	}

	return list, nil
}
