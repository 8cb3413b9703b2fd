// Package day normalizes timestamps to UTC calendar days.
//
// A day value is the Unix time, in seconds, of 00:00:00 UTC on that day. It
// is always a multiple of Seconds.
package day

import "time"

// Seconds is the length of one UTC day.
const Seconds int64 = 86400

// Supported timestamps span years 1 through 9999, the range time.Unix
// round-trips through a calendar date.
const (
	MinTimestamp int64 = -62135596800 // 0001-01-01T00:00:00Z
	MaxTimestamp int64 = 253402300799 // 9999-12-31T23:59:59Z
)

// InRange reports whether ts is a supported timestamp.
func InRange(ts int64) bool {
	return ts >= MinTimestamp && ts <= MaxTimestamp
}

// Normalize floors a Unix timestamp (seconds) to the start of its UTC day.
// Timestamps outside the supported range are clamped to it first.
func Normalize(ts int64) int64 {
	ts = max(MinTimestamp, min(ts, MaxTimestamp))
	d := ts / Seconds
	if ts%Seconds < 0 {
		d--
	}
	return d * Seconds
}

// Start returns the day value containing t.
func Start(t time.Time) int64 {
	return Normalize(t.Unix())
}

// IsBoundary reports whether ts is already a normalized day value.
func IsBoundary(ts int64) bool {
	return ts%Seconds == 0
}

// Time converts a day value back to a UTC time.
func Time(day int64) time.Time {
	return time.Unix(day, 0).UTC()
}

// Add offsets a day value by n days.
func Add(day int64, n int) int64 {
	return day + int64(n)*Seconds
}
