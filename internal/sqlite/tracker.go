package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rpggio/tally/internal/domain/tracker"
	"github.com/rpggio/tally/internal/repository"
)

// TrackerRepository implements tracker.Repository for SQLite
type TrackerRepository struct {
	db *DB
}

// NewTrackerRepository creates a new TrackerRepository
func NewTrackerRepository(db *DB) *TrackerRepository {
	return &TrackerRepository{db: db}
}

// Create inserts a tracker and assigns its id. Titles are unique.
func (r *TrackerRepository) Create(ctx context.Context, t *tracker.Tracker) error {
	createdAt := t.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO trackers (title, description, created_by, created_at)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.Description,
		t.CreatedBy,
		createdAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create tracker: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get tracker id: %w", err)
	}

	t.ID = id
	t.CreatedAt = createdAt
	return nil
}

// Get retrieves a tracker by ID
func (r *TrackerRepository) Get(ctx context.Context, id int64) (*tracker.Tracker, error) {
	query := `
		SELECT id, title, description, created_by, created_at
		FROM trackers
		WHERE id = ?
	`

	var t tracker.Tracker
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.CreatedBy,
		&t.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tracker: %w", err)
	}

	return &t, nil
}

// List returns every tracker in creation order
func (r *TrackerRepository) List(ctx context.Context) ([]tracker.Tracker, error) {
	query := `
		SELECT id, title, description, created_by, created_at
		FROM trackers
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list trackers: %w", err)
	}
	defer rows.Close()

	var trackers []tracker.Tracker
	for rows.Next() {
		var t tracker.Tracker
		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.CreatedBy,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tracker: %w", err)
		}
		trackers = append(trackers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tracker rows: %w", err)
	}

	return trackers, nil
}

// Count returns the number of trackers
func (r *TrackerRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trackers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count trackers: %w", err)
	}
	return n, nil
}
