package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/coder/quartz"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/tally/internal/domain/activity"
	"github.com/rpggio/tally/internal/domain/stats"
	"github.com/rpggio/tally/internal/domain/tracker"
	"github.com/rpggio/tally/internal/domain/tracking"
	"github.com/rpggio/tally/internal/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestServices(t *testing.T, clock quartz.Clock) Services {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	activityRepo := sqlite.NewActivityRepository(db)
	trackerSvc := tracker.NewService(sqlite.NewTrackerRepository(db), tracker.StaticAuthority(DefaultUser), activityRepo, nil, nil)
	statsSvc := stats.NewService(sqlite.NewStatsRepository(db), trackerSvc, nil)
	return Services{
		Trackers: trackerSvc,
		Tracking: tracking.NewService(sqlite.NewTrackingRepository(db), statsSvc, trackerSvc, nil,
			tracking.WithClock(clock), tracking.WithActivity(activityRepo)),
		Stats:    statsSvc,
		Activity: activity.NewService(activityRepo, nil),
	}
}

func connect(t *testing.T, cfg Config) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := NewServer(cfg).Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		session.Close()
		serverSession.Wait()
	})
	return session
}

func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) *sdkmcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err, "CallTool %s failed", name)
	return result
}

func textOf(t *testing.T, result *sdkmcp.CallToolResult) string {
	t.Helper()
	for _, content := range result.Content {
		if text, ok := content.(*sdkmcp.TextContent); ok {
			return text.Text
		}
	}
	t.Fatalf("tool returned no text content")
	return ""
}

func decodeTool[T any](t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any) T {
	t.Helper()
	result := callTool(t, session, name, args)
	require.False(t, result.IsError, "tool %s returned error: %s", name, textOf(t, result))

	var out T
	require.NoError(t, json.Unmarshal([]byte(textOf(t, result)), &out))
	return out
}

func TestServer_ToolsListed(t *testing.T) {
	session := connect(t, Config{Services: newTestServices(t, quartz.NewReal()), TransportMode: "stdio"})

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	require.ElementsMatch(t, []string{
		"create_tracker",
		"list_trackers",
		"submit_tracking",
		"get_user_tracking_data",
		"get_user_streak",
		"get_user_streak_detail",
		"get_tracker_stats",
		"get_tracker_history",
		"get_recent_activity",
	}, names)
}

func TestServer_TrackingWorkflow(t *testing.T) {
	clock := quartz.NewMock(t)
	clock.Set(time.Date(2025, 6, 15, 13, 30, 0, 0, time.UTC))
	today := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC).Unix()

	session := connect(t, Config{Services: newTestServices(t, clock), TransportMode: "stdio"})

	created := decodeTool[TrackerResponse](t, session, "create_tracker", map[string]any{
		"title":       "No Smoking",
		"description": "Days without a cigarette",
	})
	require.Equal(t, int64(1), created.ID)
	require.Equal(t, DefaultUser, created.CreatedBy)

	list := decodeTool[ListTrackersResponse](t, session, "list_trackers", map[string]any{})
	require.Len(t, list.Trackers, 1)
	require.Equal(t, 1, list.Count)

	for _, ts := range []int64{today - 86400 + 60, today + 3600} {
		decodeTool[SubmitTrackingResponse](t, session, "submit_tracking", map[string]any{
			"tracker_id": created.ID,
			"timestamp":  ts,
			"count":      5,
		})
	}

	dup := callTool(t, session, "submit_tracking", map[string]any{
		"tracker_id": created.ID,
		"timestamp":  today + 7200,
		"count":      9,
	})
	require.True(t, dup.IsError)
	require.Contains(t, textOf(t, dup), CodeDuplicateDay)

	current := decodeTool[StreakResponse](t, session, "get_user_streak", map[string]any{"tracker_id": created.ID})
	require.Equal(t, 2, current.Streak)

	stat := decodeTool[stats.DailyStat](t, session, "get_tracker_stats", map[string]any{
		"tracker_id": created.ID,
		"day":        today + 100,
	})
	require.Equal(t, stats.DailyStat{TrackerID: created.ID, Day: today, TotalCount: 5, UniqueUsers: 1}, stat)

	data := decodeTool[TrackingDataResponse](t, session, "get_user_tracking_data", map[string]any{"tracker_id": created.ID})
	require.Equal(t, []tracking.Track{{Day: today - 86400, Count: 5}, {Day: today, Count: 5}}, data.Tracks)

	recent := decodeTool[RecentActivityResponse](t, session, "get_recent_activity", map[string]any{})
	require.Len(t, recent.Entries, 3)
}

func TestServer_InvalidTrackerIsToolError(t *testing.T) {
	session := connect(t, Config{Services: newTestServices(t, quartz.NewReal()), TransportMode: "stdio"})

	result := callTool(t, session, "get_user_streak", map[string]any{"tracker_id": 999})
	require.True(t, result.IsError)
	require.Contains(t, textOf(t, result), CodeInvalidTrackerID)
}

func TestServer_AuthRequiredOverHTTP(t *testing.T) {
	session := connect(t, Config{
		Services:      newTestServices(t, quartz.NewReal()),
		TransportMode: "http",
		AuthEnabled:   true,
		Resolver:      resolverFunc(func(context.Context, string) (string, error) { return "user1", nil }),
	})

	// In-memory requests carry no headers, so every tool call is rejected.
	_, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "list_trackers",
		Arguments: map[string]any{},
	})
	require.ErrorContains(t, err, "unauthorized")
}

type resolverFunc func(context.Context, string) (string, error)

func (f resolverFunc) ResolveUser(ctx context.Context, token string) (string, error) {
	return f(ctx, token)
}
