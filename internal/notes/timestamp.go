// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notes

import (
	"database/sql"
	"math"
	"time"
)

// referenceEpochOffset is the number of seconds between the Unix epoch
// and 2001-01-01T00:00:00Z, the zero point of the notes database clock.
const referenceEpochOffset = 978307200

const (
	timestampLayout = "2006-01-02 15:04:05"
	unknownDate     = "Unknown"
	invalidDate     = "Invalid Date"
)

// FormatTimestamp renders a notes database timestamp as local wall-clock
// time in loc. A NULL value yields "Unknown"; a value that cannot be
// represented as a calendar date yields "Invalid Date".
func FormatTimestamp(raw sql.NullFloat64, loc *time.Location) string {
	if !raw.Valid {
		return unknownDate
	}
	if loc == nil {
		loc = time.Local
	}

	t, ok := referenceTime(raw.Float64)
	if !ok {
		return invalidDate
	}
	t = t.In(loc)
	if t.Year() < 1 || t.Year() > 9999 {
		return invalidDate
	}
	return t.Format(timestampLayout)
}

// referenceTime converts seconds since the reference date to an instant.
// ok is false when v has no calendar date.
func referenceTime(v float64) (t time.Time, ok bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return time.Time{}, false
	}

	// Bound before converting so the int64 conversion cannot overflow.
	// The year check below does the precise range test.
	unix := v + referenceEpochOffset
	if math.Abs(unix) > 1e12 {
		return time.Time{}, false
	}

	sec, frac := math.Modf(unix)
	t = time.Unix(int64(sec), int64(frac*1e9)).UTC()
	if t.Year() < 1 || t.Year() > 9999 {
		return time.Time{}, false
	}
	return t, true
}
