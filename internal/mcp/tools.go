package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *sdkmcp.Server, h *Handler) {
	// Catalog
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_tracker",
		Description: "Create a shared tracker. Only the catalog authority may call this.",
	}, tool(h.CreateTracker))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_trackers",
		Description: "List all trackers in creation order, with the catalog size",
	}, tool(h.ListTrackers))

	// Logging
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "submit_tracking",
		Description: "Log a count for the calling user on the day containing timestamp. One submission per tracker per day; resubmissions are rejected with DUPLICATE_DAY.",
	}, tool(h.SubmitTracking))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_user_tracking_data",
		Description: "Get the calling user's logged days for a tracker, oldest first",
	}, tool(h.GetUserTrackingData))

	// Streaks
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_user_streak",
		Description: "Get the calling user's current streak: consecutive logged days ending today (UTC)",
	}, tool(h.GetUserStreak))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_user_streak_detail",
		Description: "Get the calling user's current and longest streak for a tracker",
	}, tool(h.GetUserStreakDetail))

	// Aggregates
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_tracker_stats",
		Description: "Get the community total count and unique users for a tracker on one day",
	}, tool(h.GetTrackerStats))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_tracker_history",
		Description: "Get daily aggregates for a tracker over a range of at most 366 days",
	}, tool(h.GetTrackerHistory))

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "Get the calling user's recent activity, newest first",
	}, tool(h.GetRecentActivity))
}

// tool adapts a handler method to an SDK tool handler. Returned errors are
// reported to the client as tool errors.
func tool[In, Out any](fn func(context.Context, string, In) (Out, error)) sdkmcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
		out, err := fn(ctx, getUserID(ctx), in)
		return nil, out, err
	}
}
