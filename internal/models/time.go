package models

import "time"

// StampLayout is the wire and storage format for modified_at/created_at
// stamps: UTC wall clock, millisecond resolution, no timezone suffix.
// The layout is lexicographically ordered, so string comparison agrees
// with time comparison for well-formed stamps.
const StampLayout = "2006-01-02T15:04:05.000"

// NowStamp returns the current UTC time formatted as a stamp.
func NowStamp() string {
	return time.Now().UTC().Format(StampLayout)
}

// FormatStamp formats t as a stamp, converting to UTC first.
func FormatStamp(t time.Time) string {
	return t.UTC().Format(StampLayout)
}

// ParseStamp parses a stamp back into a UTC time.
func ParseStamp(s string) (time.Time, error) {
	return time.ParseInLocation(StampLayout, s, time.UTC)
}

// StampNewer reports whether stamp a is strictly newer than stamp b.
// Malformed stamps fall back to string comparison, which matches time
// order for anything produced by NowStamp.
func StampNewer(a, b string) bool {
	ta, errA := ParseStamp(a)
	tb, errB := ParseStamp(b)
	if errA != nil || errB != nil {
		return a > b
	}
	return ta.After(tb)
}
