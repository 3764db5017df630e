/*
normalize.go - Loose input normalization

PURPOSE:

	Converts the heterogeneous values the data-entry layer hands us into
	canonical typed values. Sheets are filled in by hand on site, so the
	dominant failure mode is sloppy notation, not malice: "0730", "7.30"
	and "7,30" all mean half past seven. Every conversion here is total -
	it returns a value or an absent sentinel, never an error.

NOTATIONS ACCEPTED:

	Date:     time.Time, "2006-01-02", "02.01.2006", RFC 3339
	Clock:    time.Time, ClockTime, "HH:MM", "HH:MM:SS", "HHMM", "HMM",
	          "H"/"HH"; "." and "," are synonyms for ":"
	Duration: time.Duration (clamped >= 0), int/float as hours, or a
	          string under the same splitter as Clock read as hours:minutes

DIGIT-ONLY SPLITTING:

	4 digits -> HH|MM, 3 digits -> H|MM, 1-2 digits -> hours, minutes 0.
	One rule set, applied identically to clock times and durations, so
	"130" is always 1h30m and never 130 minutes. Durations skip the
	hour<=23 cap (a 30-hour wait is representable); minutes stay 0-59
	everywhere.

SEE ALSO:
  - evaluate.go: normalizes every row field before partitioning
*/
package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// DATE
// =============================================================================

var dateLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// NormalizeDate converts a raw date value to a calendar date (truncated
// to midnight, local). ok is false for absent or unparsable input.
func NormalizeDate(v any) (time.Time, bool) {
	switch val := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if val.IsZero() {
			return time.Time{}, false
		}
		return truncateToDay(val), true
	case *time.Time:
		if val == nil || val.IsZero() {
			return time.Time{}, false
		}
		return truncateToDay(*val), true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range dateLayouts {
			// All times are naive local wall clock; no zone handling.
			if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
				return truncateToDay(t), true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// =============================================================================
// CLOCK TIME
// =============================================================================

// NormalizeClock converts a raw clock value to a ClockTime. Seconds on
// input are accepted and discarded. ok is false for absent or
// unparsable input and for out-of-range components.
func NormalizeClock(v any) (ClockTime, bool) {
	switch val := v.(type) {
	case nil:
		return ClockTime{}, false
	case ClockTime:
		return NewClockTime(val.Hour, val.Minute)
	case time.Time:
		if val.IsZero() {
			return ClockTime{}, false
		}
		return ClockTime{Hour: val.Hour(), Minute: val.Minute()}, true
	case string:
		h, m, ok := splitClockString(val)
		if !ok {
			return ClockTime{}, false
		}
		return NewClockTime(h, m)
	default:
		return ClockTime{}, false
	}
}

// splitClockString extracts an (hour, minute) pair from a clock-style
// string without range-checking the hour. Both clock and duration
// parsing share it; they differ only in the hour cap.
func splitClockString(raw string) (hour, minute int, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, 0, false
	}

	// "." and "," are field separators too: "7.30" == "7:30".
	s = strings.ReplaceAll(s, ".", ":")
	s = strings.ReplaceAll(s, ",", ":")

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) != 2 && len(parts) != 3 {
			return 0, 0, false
		}
		h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return 0, 0, false
		}
		m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, 0, false
		}
		if len(parts) == 3 {
			// Seconds present: require them numeric, then discard.
			if _, err := strconv.Atoi(strings.TrimSpace(parts[2])); err != nil {
				return 0, 0, false
			}
		}
		return h, m, true
	}

	// Digit-only notation: 4 -> HH|MM, 3 -> H|MM, 1-2 -> hours.
	if _, err := strconv.Atoi(s); err != nil {
		return 0, 0, false
	}
	switch len(s) {
	case 4:
		h, _ := strconv.Atoi(s[:2])
		m, _ := strconv.Atoi(s[2:])
		return h, m, true
	case 3:
		h, _ := strconv.Atoi(s[:1])
		m, _ := strconv.Atoi(s[1:])
		return h, m, true
	case 1, 2:
		h, _ := strconv.Atoi(s)
		return h, 0, true
	default:
		return 0, 0, false
	}
}

// =============================================================================
// DURATION
// =============================================================================

// NormalizeDuration converts a raw duration value to a non-negative
// time.Duration. Numbers are read as hours; strings go through the
// same splitter as clock times, read as hours:minutes. Absent,
// unparsable, or negative input yields zero.
func NormalizeDuration(v any) time.Duration {
	switch val := v.(type) {
	case nil:
		return 0
	case time.Duration:
		if val < 0 {
			return 0
		}
		return val
	case int:
		return hoursToDuration(float64(val))
	case int64:
		return hoursToDuration(float64(val))
	case float64:
		return hoursToDuration(val)
	case float32:
		return hoursToDuration(float64(val))
	case string:
		h, m, ok := splitClockString(val)
		if !ok || h < 0 || m < 0 || m > 59 {
			return 0
		}
		return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute
	default:
		return 0
	}
}

func hoursToDuration(hours float64) time.Duration {
	if hours < 0 {
		return 0
	}
	return time.Duration(hours * float64(time.Hour))
}

// FormatDuration renders d in the hours:minutes notation the normalizer
// reads back, rounded to the nearest minute. NormalizeDuration of the
// result always returns the rounded value, so it is safe to use as a
// storage form.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Minute)
	return fmt.Sprintf("%d:%02d", d/time.Hour, (d%time.Hour)/time.Minute)
}
