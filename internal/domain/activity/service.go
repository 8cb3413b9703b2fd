package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultLimit caps activity listings that don't set a limit.
const DefaultLimit = 50

// Service handles activity log operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new activity service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// LogActivity logs an activity entry with the current timestamp if missing.
func (s *Service) LogActivity(ctx context.Context, entry *ActivityEntry) error {
	if entry == nil || entry.UserID == "" {
		return ErrInvalidInput
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if err := s.repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("logging activity: %w", err)
	}
	return nil
}

// GetRecentActivity lists a user's activity entries, newest first.
func (s *Service) GetRecentActivity(ctx context.Context, userID string, opts ListActivityOptions) ([]ActivityEntry, error) {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	entries, err := s.repo.List(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	if entries == nil {
		entries = []ActivityEntry{}
	}
	return entries, nil
}
