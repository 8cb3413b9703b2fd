package day_test

import (
	"math"
	"testing"
	"time"

	"github.com/rpggio/tally/internal/domain/day"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		ts   int64
		want int64
	}{
		{name: "epoch", ts: 0, want: 0},
		{name: "boundary", ts: 86400 * 5, want: 86400 * 5},
		{name: "mid day", ts: 86400*5 + 3600, want: 86400 * 5},
		{name: "last second", ts: 86400*6 - 1, want: 86400 * 5},
		{name: "before epoch", ts: -1, want: -86400},
		{name: "negative boundary", ts: -86400, want: -86400},
		{name: "first supported day", ts: day.MinTimestamp + 10, want: day.MinTimestamp},
		{name: "below range", ts: math.MinInt64, want: day.MinTimestamp},
		{name: "above range", ts: math.MaxInt64, want: day.MaxTimestamp - day.MaxTimestamp%86400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, day.Normalize(tt.ts))
			require.True(t, day.IsBoundary(day.Normalize(tt.ts)))
		})
	}
}

func TestStart_IgnoresLocation(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	// 2024-03-02 05:00 in UTC+10 is 2024-03-01 19:00 UTC.
	local := time.Date(2024, 3, 2, 5, 0, 0, 0, loc)
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC).Unix()
	require.Equal(t, want, day.Start(local))
}

func TestTimeAndAdd(t *testing.T) {
	d := day.Start(time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC))
	next := day.Add(d, 1)
	require.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), day.Time(next))
	require.Equal(t, d, day.Add(next, -1))
	require.False(t, day.IsBoundary(d+1))
}

func TestInRange(t *testing.T) {
	require.True(t, day.InRange(0))
	require.True(t, day.InRange(day.MinTimestamp))
	require.True(t, day.InRange(day.MaxTimestamp))
	require.False(t, day.InRange(day.MinTimestamp-1))
	require.False(t, day.InRange(day.MaxTimestamp+1))
	require.False(t, day.InRange(math.MinInt64))

	require.Equal(t, time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), day.Time(day.MinTimestamp))
	require.Equal(t, time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC), day.Time(day.Normalize(day.MaxTimestamp)))
}
