package stats

import "math"

// MaxCount bounds a single contribution. With the one-contribution-per-user
// rule it keeps a bucket's total far below the int64 limit.
const MaxCount = math.MaxUint32

// DailyStat is the aggregate of every accepted entry for one tracker on one
// day.
type DailyStat struct {
	TrackerID   int64 `json:"tracker_id"`
	Day         int64 `json:"day"`
	TotalCount  int64 `json:"total_count"`
	UniqueUsers int64 `json:"unique_users"`
}
