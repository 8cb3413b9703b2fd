package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rpggio/tally/internal/domain/activity"
	"github.com/rpggio/tally/internal/repository"
)

// Service handles the tracker catalog.
type Service struct {
	repo       Repository
	authority  Authority
	activities ActivityRepository
	recorder   Recorder
	logger     *slog.Logger
}

// NewService creates a catalog service. The authority is fixed for the
// lifetime of the service.
func NewService(repo Repository, authority Authority, activities ActivityRepository, recorder Recorder, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		authority:  authority,
		activities: activities,
		recorder:   recorder,
		logger:     logger,
	}
}

// CreateRequest defines tracker creation inputs.
type CreateRequest struct {
	Title       string
	Description string
}

// Create adds a tracker to the catalog on behalf of requester.
func (s *Service) Create(ctx context.Context, requester string, req CreateRequest) (*Tracker, error) {
	t, err := s.create(ctx, requester, req)
	s.observe(err)
	return t, err
}

func (s *Service) create(ctx context.Context, requester string, req CreateRequest) (*Tracker, error) {
	if s.authority == nil || !s.authority.IsAuthority(requester) {
		return nil, ErrUnauthorized
	}
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	t := &Tracker{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		CreatedBy:   requester,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateTracker
		}
		return nil, fmt.Errorf("creating tracker: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("tracker created", "tracker_id", t.ID, "title", t.Title, "requester", requester)
	}
	if s.activities != nil {
		_ = s.activities.Log(ctx, &activity.ActivityEntry{
			UserID:       requester,
			TrackerID:    &t.ID,
			ActivityType: activity.TypeTrackerCreated,
			Summary:      fmt.Sprintf("created tracker %q", t.Title),
		})
	}

	return t, nil
}

// List returns every tracker in creation order.
func (s *Service) List(ctx context.Context) ([]Tracker, error) {
	trackers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing trackers: %w", err)
	}
	if trackers == nil {
		trackers = []Tracker{}
	}
	return trackers, nil
}

// Resolve returns the tracker with the given id. Every caller-supplied
// tracker id must pass through Resolve before use.
func (s *Service) Resolve(ctx context.Context, id int64) (*Tracker, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidTrackerID
		}
		return nil, fmt.Errorf("resolving tracker: %w", err)
	}
	return t, nil
}

// Count returns the catalog size.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting trackers: %w", err)
	}
	return n, nil
}

func (s *Service) observe(err error) {
	if s.recorder == nil {
		return
	}
	switch {
	case err == nil:
		s.recorder.ObserveTrackerCreate("created")
	case errors.Is(err, ErrUnauthorized):
		s.recorder.ObserveTrackerCreate("unauthorized")
	case errors.Is(err, ErrDuplicateTracker):
		s.recorder.ObserveTrackerCreate("duplicate")
	case errors.Is(err, ErrInvalidInput):
		s.recorder.ObserveTrackerCreate("invalid")
	default:
		s.recorder.ObserveTrackerCreate("error")
	}
}

// ValidateCreateInput validates fields required to create a tracker.
func ValidateCreateInput(req CreateRequest) error {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return ErrInvalidInput
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return fmt.Errorf("%w: title longer than %d characters", ErrInvalidInput, MaxTitleLength)
	}
	if utf8.RuneCountInString(req.Description) > MaxDescriptionLength {
		return fmt.Errorf("%w: description longer than %d characters", ErrInvalidInput, MaxDescriptionLength)
	}
	return nil
}
