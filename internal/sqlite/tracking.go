package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/rpggio/tally/internal/domain/tracking"
	"github.com/rpggio/tally/internal/repository"
)

// TrackingRepository implements tracking.Repository for SQLite
type TrackingRepository struct {
	db *DB
}

// NewTrackingRepository creates a new TrackingRepository
func NewTrackingRepository(db *DB) *TrackingRepository {
	return &TrackingRepository{db: db}
}

// WithinTx runs fn in one transaction shared by every repository call made
// with the context passed to fn.
func (r *TrackingRepository) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithinTx(ctx, fn)
}

// Append inserts the entry. It joins the transaction carried by ctx.
func (r *TrackingRepository) Append(ctx context.Context, entry *tracking.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO track_entries (id, user_id, tracker_id, day, count, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		entry.ID,
		entry.UserID,
		entry.TrackerID,
		entry.Day,
		entry.Count,
		entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to insert track entry: %w", err)
	}

	return nil
}

// Entries returns a user's log for one tracker, ascending by day
func (r *TrackingRepository) Entries(ctx context.Context, userID string, trackerID int64) ([]tracking.Track, error) {
	query := `
		SELECT day, count
		FROM track_entries
		WHERE user_id = ? AND tracker_id = ?
		ORDER BY day ASC
	`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, userID, trackerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list track entries: %w", err)
	}
	defer rows.Close()

	var tracks []tracking.Track
	for rows.Next() {
		var t tracking.Track
		if err := rows.Scan(&t.Day, &t.Count); err != nil {
			return nil, fmt.Errorf("failed to scan track entry: %w", err)
		}
		tracks = append(tracks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating track entry rows: %w", err)
	}

	return tracks, nil
}
