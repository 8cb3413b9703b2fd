package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/tally/internal/domain/activity"
	"github.com/rpggio/tally/internal/domain/stats"
	"github.com/rpggio/tally/internal/domain/streak"
	"github.com/rpggio/tally/internal/domain/tracker"
	"github.com/rpggio/tally/internal/domain/tracking"
	"github.com/rpggio/tally/internal/transport"
)

// TrackerService defines catalog operations needed by MCP.
type TrackerService interface {
	Create(ctx context.Context, requester string, req tracker.CreateRequest) (*tracker.Tracker, error)
	List(ctx context.Context) ([]tracker.Tracker, error)
	Count(ctx context.Context) (int, error)
}

// TrackingService defines user log operations needed by MCP.
type TrackingService interface {
	Submit(ctx context.Context, userID string, trackerID, ts, count int64) (*tracking.TrackRecord, error)
	Entries(ctx context.Context, userID string, trackerID int64) ([]tracking.Track, error)
	Streak(ctx context.Context, userID string, trackerID int64) (int, error)
	StreakDetail(ctx context.Context, userID string, trackerID int64) (streak.Streak, error)
}

// StatsService defines ledger reads needed by MCP.
type StatsService interface {
	StatsFor(ctx context.Context, trackerID, ts int64) (*stats.DailyStat, error)
	History(ctx context.Context, trackerID, from, to int64) ([]stats.DailyStat, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, userID string, opts activity.ListActivityOptions) ([]activity.ActivityEntry, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Trackers TrackerService
	Tracking TrackingService
	Stats    StatsService
	Activity ActivityService
}

// Handler exposes the domain services as named operations. Both the MCP
// tools and the JSON-RPC endpoint go through it.
type Handler struct {
	trackers TrackerService
	tracking TrackingService
	stats    StatsService
	activity ActivityService
}

// NewHandler creates a new MCP handler.
func NewHandler(services Services) *Handler {
	return &Handler{
		trackers: services.Trackers,
		tracking: services.Tracking,
		stats:    services.Stats,
		activity: services.Activity,
	}
}

func (h *Handler) CreateTracker(ctx context.Context, userID string, req CreateTrackerParams) (TrackerResponse, error) {
	t, err := h.trackers.Create(ctx, userID, tracker.CreateRequest{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return TrackerResponse{}, mapError(err)
	}
	return trackerResponse(t), nil
}

func (h *Handler) ListTrackers(ctx context.Context, _ string, _ ListTrackersParams) (ListTrackersResponse, error) {
	trackers, err := h.trackers.List(ctx)
	if err != nil {
		return ListTrackersResponse{}, mapError(err)
	}
	count, err := h.trackers.Count(ctx)
	if err != nil {
		return ListTrackersResponse{}, mapError(err)
	}
	resp := ListTrackersResponse{
		Trackers: make([]TrackerResponse, 0, len(trackers)),
		Count:    count,
	}
	for i := range trackers {
		resp.Trackers = append(resp.Trackers, trackerResponse(&trackers[i]))
	}
	return resp, nil
}

func (h *Handler) SubmitTracking(ctx context.Context, userID string, req SubmitTrackingParams) (SubmitTrackingResponse, error) {
	rec, err := h.tracking.Submit(ctx, userID, req.TrackerID, req.Timestamp, req.Count)
	if err != nil {
		return SubmitTrackingResponse{}, mapError(err)
	}
	return SubmitTrackingResponse{
		EntryID:   rec.EntryID,
		TrackerID: rec.TrackerID,
		Day:       rec.Track.Day,
		Count:     rec.Track.Count,
		Stats:     rec.Stats,
		Streak: StreakDetail{
			Current:       rec.Streak.Current,
			LongestCount:  rec.Streak.LongestCount,
			LongestEndDay: rec.Streak.LongestEndDay,
		},
	}, nil
}

func (h *Handler) GetUserTrackingData(ctx context.Context, userID string, req TrackerParams) (TrackingDataResponse, error) {
	tracks, err := h.tracking.Entries(ctx, userID, req.TrackerID)
	if err != nil {
		return TrackingDataResponse{}, mapError(err)
	}
	if tracks == nil {
		tracks = []tracking.Track{}
	}
	return TrackingDataResponse{TrackerID: req.TrackerID, Tracks: tracks}, nil
}

func (h *Handler) GetTrackerStats(ctx context.Context, _ string, req GetTrackerStatsParams) (stats.DailyStat, error) {
	stat, err := h.stats.StatsFor(ctx, req.TrackerID, req.Day)
	if err != nil {
		return stats.DailyStat{}, mapError(err)
	}
	return *stat, nil
}

func (h *Handler) GetUserStreak(ctx context.Context, userID string, req TrackerParams) (StreakResponse, error) {
	current, err := h.tracking.Streak(ctx, userID, req.TrackerID)
	if err != nil {
		return StreakResponse{}, mapError(err)
	}
	return StreakResponse{TrackerID: req.TrackerID, Streak: current}, nil
}

func (h *Handler) GetUserStreakDetail(ctx context.Context, userID string, req TrackerParams) (StreakDetailResponse, error) {
	s, err := h.tracking.StreakDetail(ctx, userID, req.TrackerID)
	if err != nil {
		return StreakDetailResponse{}, mapError(err)
	}
	return StreakDetailResponse{
		TrackerID:     req.TrackerID,
		Current:       s.Current,
		LongestCount:  s.LongestCount,
		LongestEndDay: s.LongestEndDay,
	}, nil
}

func (h *Handler) GetTrackerHistory(ctx context.Context, _ string, req GetTrackerHistoryParams) (TrackerHistoryResponse, error) {
	list, err := h.stats.History(ctx, req.TrackerID, req.From, req.To)
	if err != nil {
		return TrackerHistoryResponse{}, mapError(err)
	}
	if list == nil {
		list = []stats.DailyStat{}
	}
	return TrackerHistoryResponse{TrackerID: req.TrackerID, Stats: list}, nil
}

func (h *Handler) GetRecentActivity(ctx context.Context, userID string, req GetRecentActivityParams) (RecentActivityResponse, error) {
	opts := activity.ListActivityOptions{
		TrackerID: req.TrackerID,
		Limit:     req.Limit,
	}
	if req.Type != "" {
		activityType := activity.ActivityType(req.Type)
		opts.ActivityType = &activityType
	}
	entries, err := h.activity.GetRecentActivity(ctx, userID, opts)
	if err != nil {
		return RecentActivityResponse{}, mapError(err)
	}
	resp := RecentActivityResponse{Entries: make([]ActivityEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, ActivityEntryResponse{
			Timestamp: formatTime(entry.CreatedAt),
			Type:      entry.ActivityType,
			TrackerID: entry.TrackerID,
			Day:       entry.Day,
			Summary:   entry.Summary,
			Details:   entry.Details,
		})
	}
	return resp, nil
}

// Handle dispatches JSON-RPC requests to domain services.
func (h *Handler) Handle(ctx context.Context, userID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "create_tracker":
		return dispatch(ctx, userID, params, h.CreateTracker)
	case "list_trackers":
		return dispatch(ctx, userID, params, h.ListTrackers)
	case "submit_tracking":
		return dispatch(ctx, userID, params, h.SubmitTracking)
	case "get_user_tracking_data":
		return dispatch(ctx, userID, params, h.GetUserTrackingData)
	case "get_tracker_stats":
		return dispatch(ctx, userID, params, h.GetTrackerStats)
	case "get_user_streak":
		return dispatch(ctx, userID, params, h.GetUserStreak)
	case "get_user_streak_detail":
		return dispatch(ctx, userID, params, h.GetUserStreakDetail)
	case "get_tracker_history":
		return dispatch(ctx, userID, params, h.GetTrackerHistory)
	case "get_recent_activity":
		return dispatch(ctx, userID, params, h.GetRecentActivity)
	default:
		return nil, fmt.Errorf("%w: %s", transport.ErrUnknownMethod, method)
	}
}

func dispatch[In, Out any](ctx context.Context, userID string, params json.RawMessage, fn func(context.Context, string, In) (Out, error)) (any, error) {
	var req In
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	return fn(ctx, userID, req)
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %w", transport.ErrMalformedParams, err)
	}
	return nil
}
