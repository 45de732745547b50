// Package dateparse parses the small English date/time language accepted by
// the --before and --after search flags.
//
// Recognised forms, all case-insensitive and resolved in now's location:
//
//	now
//	today [TIME]
//	N UNIT [N UNIT ...] [ago]       3 days ago, 2h 30m ago, 1 week
//	[last|next|this] WEEKDAY [TIME] friday, last mon 8pm
//	YYYY-MM-DD [TIME]               2024-03-01 14:30
//	D/M[/Y] [TIME]                  01/03/2024 (UK), M/D/Y under US
//	D MONTH [YEAR] [TIME]           1 march 2024, 1st mar
//	MONTH D [YEAR] [TIME]           march 1 2024
//
// TIME is 14:30, 14:30:05, 8pm, 8:15am or "8 pm". Anything else, including
// words such as "yesterday", is rejected with ErrUnrecognized.
package dateparse

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect decides how ambiguous numeric dates such as 01/03/2024 are read.
type Dialect int

const (
	// UK reads D/M/Y.
	UK Dialect = iota
	// US reads M/D/Y.
	US
)

// ErrUnrecognized is returned for expressions outside the supported language.
var ErrUnrecognized = errors.New("unrecognized date expression")

// Parse resolves expr relative to now.
func Parse(expr string, now time.Time, dialect Dialect) (time.Time, error) {
	tokens := strings.Fields(strings.ToLower(expr))
	if len(tokens) == 0 {
		return time.Time{}, fmt.Errorf("%w: empty", ErrUnrecognized)
	}

	if len(tokens) == 1 && tokens[0] == "now" {
		return now, nil
	}

	if tokens[0] == "today" {
		return atClock(midnight(now), tokens[1:], expr)
	}

	if t, ok := parseRelative(tokens, now); ok {
		return t, nil
	}

	if t, ok, err := parseWeekday(tokens, now, expr); ok {
		return t, err
	}

	if t, ok, err := parseAbsolute(tokens, now, dialect, expr); ok {
		return t, err
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, expr)
}

var units = map[string]string{
	"s": "s", "sec": "s", "secs": "s", "second": "s", "seconds": "s",
	"m": "m", "min": "m", "mins": "m", "minute": "m", "minutes": "m",
	"h": "h", "hr": "h", "hrs": "h", "hour": "h", "hours": "h",
	"d": "d", "day": "d", "days": "d",
	"w": "w", "wk": "w", "wks": "w", "week": "w", "weeks": "w",
	"mo": "mo", "month": "mo", "months": "mo",
	"y": "y", "yr": "y", "yrs": "y", "year": "y", "years": "y",
}

type interval struct {
	n    int
	unit string
}

// parseRelative handles "N UNIT ... [ago]" with either "3 days" or "3d" tokens.
func parseRelative(tokens []string, now time.Time) (time.Time, bool) {
	ago := false
	if tokens[len(tokens)-1] == "ago" {
		ago = true
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return time.Time{}, false
	}

	var parts []interval
	for i := 0; i < len(tokens); i++ {
		num, unit := splitNumberUnit(tokens[i])
		n, err := strconv.Atoi(num)
		if err != nil || num == "" {
			return time.Time{}, false
		}
		if unit == "" {
			if i+1 >= len(tokens) {
				return time.Time{}, false
			}
			i++
			unit = tokens[i]
		}
		canonical, ok := units[unit]
		if !ok {
			return time.Time{}, false
		}
		parts = append(parts, interval{n: n, unit: canonical})
	}

	sign := 1
	if ago {
		sign = -1
	}

	t := now
	for _, p := range parts {
		n := sign * p.n
		switch p.unit {
		case "s":
			t = t.Add(time.Duration(n) * time.Second)
		case "m":
			t = t.Add(time.Duration(n) * time.Minute)
		case "h":
			t = t.Add(time.Duration(n) * time.Hour)
		case "d":
			t = t.AddDate(0, 0, n)
		case "w":
			t = t.AddDate(0, 0, 7*n)
		case "mo":
			t = t.AddDate(0, n, 0)
		case "y":
			t = t.AddDate(n, 0, 0)
		}
	}
	return t, true
}

// splitNumberUnit splits "30m" into ("30", "m"); "30" gives ("30", "").
func splitNumberUnit(tok string) (string, string) {
	i := 0
	for i < len(tok) && tok[i] >= '0' && tok[i] <= '9' {
		i++
	}
	return tok[:i], tok[i:]
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// parseWeekday handles "[last|next|this] WEEKDAY [TIME]". A bare weekday is the
// next occurrence counting today, "next" skips today and "last" is strictly past.
func parseWeekday(tokens []string, now time.Time, expr string) (time.Time, bool, error) {
	qualifier := ""
	switch tokens[0] {
	case "last", "next", "this":
		qualifier = tokens[0]
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return time.Time{}, false, nil
	}

	wd, ok := weekdays[tokens[0]]
	if !ok {
		return time.Time{}, false, nil
	}

	day := midnight(now)
	switch qualifier {
	case "last":
		back := (int(day.Weekday()) - int(wd) + 7) % 7
		if back == 0 {
			back = 7
		}
		day = day.AddDate(0, 0, -back)
	default:
		ahead := (int(wd) - int(day.Weekday()) + 7) % 7
		if ahead == 0 && qualifier == "next" {
			ahead = 7
		}
		day = day.AddDate(0, 0, ahead)
	}

	t, err := atClock(day, tokens[1:], expr)
	return t, true, err
}

var months = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may":  time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

// parseAbsolute handles ISO, slash and month-name dates.
func parseAbsolute(tokens []string, now time.Time, dialect Dialect, expr string) (time.Time, bool, error) {
	first := tokens[0]

	if d, err := time.ParseInLocation("2006-01-02", first, now.Location()); err == nil {
		t, err := atClock(d, tokens[1:], expr)
		return t, true, err
	}

	if strings.Contains(first, "/") {
		day, err := parseSlashDate(first, now, dialect)
		if err != nil {
			return time.Time{}, true, fmt.Errorf("%w: %q", ErrUnrecognized, expr)
		}
		t, err := atClock(day, tokens[1:], expr)
		return t, true, err
	}

	// D MONTH [YEAR] or MONTH D [YEAR]
	if len(tokens) < 2 {
		return time.Time{}, false, nil
	}
	var dayTok, monthTok string
	if _, ok := months[tokens[0]]; ok {
		monthTok, dayTok = tokens[0], tokens[1]
	} else if _, ok := months[tokens[1]]; ok {
		dayTok, monthTok = tokens[0], tokens[1]
	} else {
		return time.Time{}, false, nil
	}

	dayNum, err := strconv.Atoi(trimOrdinal(dayTok))
	if err != nil {
		return time.Time{}, true, fmt.Errorf("%w: %q", ErrUnrecognized, expr)
	}

	rest := tokens[2:]
	year := now.Year()
	if len(rest) > 0 && len(rest[0]) == 4 {
		if y, err := strconv.Atoi(rest[0]); err == nil {
			year = y
			rest = rest[1:]
		}
	}

	day, ok := makeDate(year, months[monthTok], dayNum, now.Location())
	if !ok {
		return time.Time{}, true, fmt.Errorf("%w: %q", ErrUnrecognized, expr)
	}
	t, err := atClock(day, rest, expr)
	return t, true, err
}

func parseSlashDate(tok string, now time.Time, dialect Dialect) (time.Time, error) {
	parts := strings.Split(tok, "/")
	if len(parts) < 2 || len(parts) > 3 {
		return time.Time{}, ErrUnrecognized
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, ErrUnrecognized
		}
		nums[i] = n
	}

	day, month := nums[0], nums[1]
	if dialect == US {
		day, month = nums[1], nums[0]
	}

	year := now.Year()
	if len(nums) == 3 {
		year = nums[2]
		if len(parts[2]) == 2 {
			year += 2000
		}
	}

	d, ok := makeDate(year, time.Month(month), day, now.Location())
	if !ok {
		return time.Time{}, ErrUnrecognized
	}
	return d, nil
}

func trimOrdinal(s string) string {
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSuffix(s, suffix)
		}
	}
	return s
}

// makeDate builds a midnight date, rejecting values time.Date would normalise.
func makeDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 {
		return time.Time{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// atClock applies an optional TIME to a midnight date.
func atClock(day time.Time, tokens []string, expr string) (time.Time, error) {
	if len(tokens) == 0 {
		return day, nil
	}
	h, m, s, err := parseClock(strings.Join(tokens, ""))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, expr)
	}
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second), nil
}

// parseClock reads "14:30", "14:30:05", "8pm" or "8:15am".
func parseClock(s string) (int, int, int, error) {
	meridiem := ""
	if strings.HasSuffix(s, "am") || strings.HasSuffix(s, "pm") {
		meridiem = s[len(s)-2:]
		s = s[:len(s)-2]
	}

	fields := strings.Split(s, ":")
	if len(fields) > 3 || fields[0] == "" {
		return 0, 0, 0, ErrUnrecognized
	}
	if meridiem == "" && len(fields) == 1 {
		return 0, 0, 0, ErrUnrecognized
	}

	vals := [3]int{}
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return 0, 0, 0, ErrUnrecognized
		}
		if i > 0 && len(f) != 2 {
			return 0, 0, 0, ErrUnrecognized
		}
		vals[i] = n
	}
	h, m, sec := vals[0], vals[1], vals[2]

	switch meridiem {
	case "am", "pm":
		if h < 1 || h > 12 {
			return 0, 0, 0, ErrUnrecognized
		}
		if h == 12 {
			h = 0
		}
		if meridiem == "pm" {
			h += 12
		}
	default:
		if h > 23 {
			return 0, 0, 0, ErrUnrecognized
		}
	}
	if m > 59 || sec > 59 {
		return 0, 0, 0, ErrUnrecognized
	}
	return h, m, sec, nil
}
