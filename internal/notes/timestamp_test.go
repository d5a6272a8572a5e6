// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notes

import (
	"database/sql"
	"math"
	"testing"
	"time"
)

func TestFormatTimestamp(t *testing.T) {
	valid := func(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

	tests := []struct {
		name string
		raw  sql.NullFloat64
		want string
	}{
		{"null", sql.NullFloat64{}, "Unknown"},
		{"reference instant", valid(0), "2001-01-01 00:00:00"},
		{"one day later", valid(86400), "2001-01-02 00:00:00"},
		{"fractional seconds truncate", valid(59.999), "2001-01-01 00:00:59"},
		{"before reference", valid(-1), "2000-12-31 23:59:59"},
		{"recent", valid(750000000), "2024-10-07 13:20:00"},
		{"unix epoch", valid(-referenceEpochOffset), "1970-01-01 00:00:00"},
		{"nan", valid(math.NaN()), "Invalid Date"},
		{"positive infinity", valid(math.Inf(1)), "Invalid Date"},
		{"negative infinity", valid(math.Inf(-1)), "Invalid Date"},
		{"far future", valid(1e15), "Invalid Date"},
		{"past year 9999", valid(253402300800 - referenceEpochOffset), "Invalid Date"},
		{"last second of 9999", valid(253402300799 - referenceEpochOffset), "9999-12-31 23:59:59"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTimestamp(tt.raw, time.UTC); got != tt.want {
				t.Errorf("FormatTimestamp(%v) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormatTimestampLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	got := FormatTimestamp(sql.NullFloat64{Float64: 0, Valid: true}, loc)
	if want := "2001-01-01 02:00:00"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestReferenceTime(t *testing.T) {
	got, ok := referenceTime(750000000.5)
	if !ok {
		t.Fatal("referenceTime reported an invalid date")
	}
	want := time.Date(2024, 10, 7, 13, 20, 0, 500000000, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	for _, v := range []float64{math.NaN(), math.Inf(1), 1e15} {
		if _, ok := referenceTime(v); ok {
			t.Errorf("referenceTime(%v) reported a valid date", v)
		}
	}
}
