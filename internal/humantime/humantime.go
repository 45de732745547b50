// Package humantime renders durations as short human-readable strings such
// as "3d", "4h" or "250ms", and timestamps as "2h ago".
package humantime

import (
	"strconv"
	"strings"
	"time"
)

// Calendar units use the Julian year; a month is a twelfth of it.
const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	secondsPerDay    = 86400
	secondsPerMonth  = 2_630_016
	secondsPerYear   = 31_557_600
)

// Format spells d out as space-separated units, largest first, skipping zero
// units: "1year 2months 3days 4h 5m 6s 7ms 8us 9ns". A zero duration is "0s".
// Negative durations are treated as zero.
func Format(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}

	secs := int64(d / time.Second)
	nanos := int64(d % time.Second)

	years := secs / secondsPerYear
	secs %= secondsPerYear
	months := secs / secondsPerMonth
	secs %= secondsPerMonth
	days := secs / secondsPerDay
	secs %= secondsPerDay
	hours := secs / secondsPerHour
	secs %= secondsPerHour
	minutes := secs / secondsPerMinute
	secs %= secondsPerMinute

	var parts []string
	plural := func(n int64, one, many string) {
		switch {
		case n == 1:
			parts = append(parts, "1"+one)
		case n > 1:
			parts = append(parts, strconv.FormatInt(n, 10)+many)
		}
	}
	unit := func(n int64, suffix string) {
		if n > 0 {
			parts = append(parts, strconv.FormatInt(n, 10)+suffix)
		}
	}

	plural(years, "year", "years")
	plural(months, "month", "months")
	plural(days, "day", "days")
	unit(hours, "h")
	unit(minutes, "m")
	unit(secs, "s")
	unit(nanos/1_000_000, "ms")
	unit(nanos/1_000%1_000, "us")
	unit(nanos%1_000, "ns")

	return strings.Join(parts, " ")
}

// Longer forms first so "days" never becomes "ds".
var abbreviations = strings.NewReplacer(
	"days", "d",
	"day", "d",
	"weeks", "w",
	"week", "w",
	"months", "mo",
	"month", "mo",
	"years", "y",
	"year", "y",
)

// Compact returns only the largest unit of Format(d), abbreviated.
func Compact(d time.Duration) string {
	first, _, _ := strings.Cut(Format(d), " ")
	return abbreviations.Replace(first)
}

// Duration formats a runtime in nanoseconds. Negative values, including the
// unknown-duration sentinel, read as zero; precision is whole milliseconds.
func Duration(ns int64) string {
	if ns < 0 {
		ns = 0
	}
	d := time.Duration(ns).Truncate(time.Millisecond)
	return Compact(d)
}

// Ago formats the time elapsed between ts and now, e.g. "3d ago". Timestamps
// in the future read as "0s ago".
func Ago(ts, now time.Time) string {
	elapsed := now.Sub(ts)
	if elapsed < 0 {
		elapsed = 0
	}
	return Compact(elapsed) + " ago"
}
