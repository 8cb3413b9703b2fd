// Package streak derives consecutive-day streaks from a user's logged days.
//
// Streaks are never stored as primary truth. They are recomputed from the
// full day set, so backfilled days anywhere in the history are reflected.
package streak

import (
	"slices"

	"github.com/rpggio/tally/internal/domain/day"
)

// Streak is the derived streak state of one user log.
type Streak struct {
	Current       int   `json:"current"`
	LongestCount  int   `json:"longest_count"`
	LongestEndDay int64 `json:"longest_end_day"`
}

// Compute derives the current streak anchored at today and the longest run
// over the whole history. Days must be normalized; duplicates collapse.
//
// When several runs share the longest length, the earliest one is reported.
func Compute(days []int64, today int64) Streak {
	sorted := slices.Clone(days)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var s Streak
	run := 0
	for i, d := range sorted {
		if i > 0 && d == sorted[i-1]+day.Seconds {
			run++
		} else {
			run = 1
		}
		if run > s.LongestCount {
			s.LongestCount = run
			s.LongestEndDay = d
		}
		if d == today {
			s.Current = run
		}
	}
	return s
}
