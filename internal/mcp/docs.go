package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `tally keeps shared daily trackers ("No Smoking", "Push-ups") that many users log against.

Core concepts:
- Tracker: a catalog entry (id, title, description). Only the catalog authority can create one.
- Day: a UTC calendar day. Any timestamp is floored to 00:00:00 UTC of its day.
- Track: one user's count for one tracker on one day. A user logs each tracker at most once per day.
- Streak: consecutive logged days ending today (UTC). Longest streak is the best run ever.
- Daily stats: the community total count and number of distinct users for a tracker on a day.

Typical workflow:
1) list_trackers to find a tracker id.
2) submit_tracking with a unix timestamp inside the day and a count.
   - DUPLICATE_DAY means the day is already logged; it is not an error to retry later days.
3) get_user_streak / get_user_streak_detail for progress.
4) get_tracker_stats / get_tracker_history for community aggregates.

Docs:
- tally://docs/index
- tally://docs/concepts
- tally://docs/errors
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "tally://docs/index",
		Name:        "docs_index",
		Title:       "tally docs index",
		Description: "Entry point: available tools and what to read next.",
		Content: `# tally: Docs Index

## Tools

- ` + "`list_trackers`" + `, ` + "`create_tracker`" + ` (catalog authority only)
- ` + "`submit_tracking`" + `, ` + "`get_user_tracking_data`" + `
- ` + "`get_user_streak`" + `, ` + "`get_user_streak_detail`" + `
- ` + "`get_tracker_stats`" + `, ` + "`get_tracker_history`" + `
- ` + "`get_recent_activity`" + `

## Docs (read on demand)

- ` + "`tally://docs/concepts`" + ` for day boundaries, streak rules and aggregates.
- ` + "`tally://docs/errors`" + ` for error codes and how to recover.
`,
	},
	{
		URI:         "tally://docs/concepts",
		Name:        "docs_concepts",
		Title:       "Concepts and invariants",
		Description: "Day normalization, streak rules, and daily aggregates.",
		Content: `# Concepts

## Days

All timestamps are unix seconds. The server floors every timestamp to the
start of its UTC day (a multiple of 86400). Two timestamps in the same UTC day
always refer to the same day.

## One submission per day

A user may log a tracker once per day. A second submission for the same day is
rejected and changes nothing: the user's log, their streak and the community
aggregates all stay as they were.

## Streaks

- Current streak: the number of consecutive logged days ending today. If today
  is not logged the current streak is 0.
- Longest streak: the longest run of consecutive logged days ever, with the
  day it ended. When two runs tie, the earlier one is kept.
- Logging an older missing day (backfill) can join two runs and raise the
  longest streak.

## Daily aggregates

For each tracker and day the server keeps ` + "`total_count`" + ` (sum of all
counts) and ` + "`unique_users`" + ` (number of users who logged). A day nobody
logged reads as zeros. History queries span at most 366 days.
`,
	},
	{
		URI:         "tally://docs/errors",
		Name:        "docs_errors",
		Title:       "Error codes",
		Description: "Error codes returned by tools and how to handle them.",
		Content: `# Error codes

| Code | Meaning |
|---|---|
| ` + "`UNAUTHORIZED`" + ` | Only the catalog authority may create trackers. |
| ` + "`INVALID_TRACKER_ID`" + ` | No tracker has this id. Call ` + "`list_trackers`" + `. |
| ` + "`DUPLICATE_DAY`" + ` | The day is already logged for this tracker. Nothing changed. |
| ` + "`DUPLICATE_TRACKER`" + ` | A tracker with this title already exists. |
| ` + "`INVALID_INPUT`" + ` | Empty or oversized title, a count outside 0..4294967295, a timestamp outside years 1 to 9999, or a bad range. |

None of these are transient; retrying the same call returns the same error.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
