/*
Package engine computes how a crane work session splits into pay-rate
buckets.

PURPOSE:

	This package contains the calculation core: given a date, a start and
	end clock time, and meal/wait deductions, it partitions the elapsed
	session into ordinary time and three overtime tiers according to the
	day's classification and configurable time-of-day windows, then
	derives the billable duration.

KEY CONCEPTS IN THIS FILE (types.go):
  - ClockTime: a naive wall-clock time of day (hour, minute)
  - Bucket/Buckets: named pay-rate categories and their durations
  - Rules: the time-of-day boundaries driving the partitioner
  - Hours: a decimal hour figure for the presentation boundary
  - Entry/Result/Totals: the per-row input/output contract

DESIGN PRINCIPLES:
 1. Purity: evaluation is a function of its inputs plus read-only
    rules and calendar; no shared mutable state between rows
 2. Totality: normalization never fails, it degrades to an absent
    sentinel or a zero duration
 3. Precision: internal math is exact time.Duration arithmetic;
    decimal rounding happens only at the output boundary

SEE ALSO:
  - normalize.go: loose input parsing
  - partition.go: window partitioning algorithm
  - evaluate.go: per-row orchestration
  - aggregate.go: batch totals
*/
package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CLOCK TIME - Naive wall-clock time of day
// =============================================================================

// ClockTime is a time of day with minute granularity. It carries no
// date, zone, or seconds: sessions are anchored to a calendar date by
// the evaluator.
type ClockTime struct {
	Hour   int
	Minute int
}

// NewClockTime returns the clock time and reports whether hour/minute
// are in range (0-23, 0-59).
func NewClockTime(hour, minute int) (ClockTime, bool) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ClockTime{}, false
	}
	return ClockTime{Hour: hour, Minute: minute}, true
}

// On anchors the clock time to a calendar date, producing an instant.
func (c ClockTime) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

// FromMidnight returns the offset from midnight.
func (c ClockTime) FromMidnight() time.Duration {
	return time.Duration(c.Hour)*time.Hour + time.Duration(c.Minute)*time.Minute
}

func (c ClockTime) Before(other ClockTime) bool {
	return c.Hour < other.Hour || (c.Hour == other.Hour && c.Minute < other.Minute)
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// =============================================================================
// BUCKETS - Pay-rate categories
// =============================================================================

// Bucket names a pay-rate category. The rate multipliers themselves
// (50%, 100%, 133%) are applied by the billing layer, not here.
type Bucket string

const (
	BucketOrdinary Bucket = "ordinary"         // weekday, inside ordinary window
	BucketEvening  Bucket = "overtime_evening" // weekday, 50% window
	BucketNight    Bucket = "overtime_night"   // weekday, 100% night window
	BucketWeekend  Bucket = "overtime_weekend" // whole session, 100%
	BucketHoliday  Bucket = "overtime_holiday" // whole session, 133%
)

// AllBuckets lists every bucket in display order.
var AllBuckets = []Bucket{BucketOrdinary, BucketEvening, BucketNight, BucketWeekend, BucketHoliday}

// Buckets maps each pay-rate category to the duration accrued in it.
// Absent keys read as zero.
type Buckets map[Bucket]time.Duration

// Get returns the duration for a bucket, zero when absent.
func (b Buckets) Get(name Bucket) time.Duration {
	return b[name]
}

// Total sums all bucket durations. For a well-formed partition this
// equals the session's elapsed duration.
func (b Buckets) Total() time.Duration {
	var sum time.Duration
	for _, d := range b {
		sum += d
	}
	return sum
}

// =============================================================================
// RULES - Time-of-day boundaries
// =============================================================================

// Rules holds the three boundaries that partition an ordinary weekday.
// The night window closes at OrdinaryStart of the following day, so no
// fourth boundary is configurable. Rules are immutable for the duration
// of a batch evaluation.
type Rules struct {
	OrdinaryStart ClockTime // ordinary window opens
	OrdinaryEnd   ClockTime // ordinary closes, evening (50%) opens
	EveningEnd    ClockTime // evening closes, night (100%) opens
}

// DefaultRules returns the standard crane-hire boundaries:
// ordinary 07:30-15:00, evening 15:00-21:00, night 21:00-07:30.
func DefaultRules() Rules {
	return Rules{
		OrdinaryStart: ClockTime{7, 30},
		OrdinaryEnd:   ClockTime{15, 0},
		EveningEnd:    ClockTime{21, 0},
	}
}

// Validate rejects boundary sets that do not strictly increase within
// the day. This is a configuration-time check; the partitioner assumes
// it has passed.
func (r Rules) Validate() error {
	if !r.OrdinaryStart.Before(r.OrdinaryEnd) {
		return fmt.Errorf("%w: ordinary window %s-%s is empty", ErrInvalidRules, r.OrdinaryStart, r.OrdinaryEnd)
	}
	if !r.OrdinaryEnd.Before(r.EveningEnd) {
		return fmt.Errorf("%w: evening window %s-%s is empty", ErrInvalidRules, r.OrdinaryEnd, r.EveningEnd)
	}
	return nil
}

// =============================================================================
// HOURS - Decimal hour figure for the presentation boundary
// =============================================================================

// Hours converts a duration to decimal hours rounded to two places.
// All internal arithmetic stays in time.Duration; this is the only
// point where rounding happens.
func Hours(d time.Duration) decimal.Decimal {
	return decimal.New(int64(d/time.Second), 0).Div(decimal.New(3600, 0)).Round(2)
}

// HoursFloat is Hours as a float64, for JSON payloads.
func HoursFloat(d time.Duration) float64 {
	f, _ := Hours(d).Float64()
	return f
}

// =============================================================================
// ENTRY / RESULT - Per-row contract with the presentation layer
// =============================================================================

// Entry is one raw timesheet row as supplied by the data-entry layer.
// Fields are deliberately loose (any): they may arrive as native
// time.Time/time.Duration values, as strings in several notations, or
// absent (nil). The normalizer sorts it out.
type Entry struct {
	Date    any    // calendar date of the session start
	Start   any    // session start clock time
	End     any    // session end clock time; rolls to next day if <= start
	Meal    any    // meal deduction (duration)
	Wait    any    // wait deduction (duration)
	Comment string // free text, carried through untouched
}

// Result is one evaluated row. When Err is non-nil the numeric fields
// are all zero and the row contributes nothing to totals.
type Result struct {
	Date    time.Time
	Start   ClockTime
	End     ClockTime
	Class   DayClass
	Total   time.Duration
	Buckets Buckets
	Meal    time.Duration
	Wait    time.Duration

	// Billable = max(0, Total - Meal - Wait).
	Billable time.Duration

	Comment string
	Err     error
}

// Totals is the batch aggregate: every field is the commutative sum of
// the corresponding per-row values. Error rows count in Rows and
// Errored but contribute zero everywhere else.
type Totals struct {
	Rows    int
	Errored int

	Total    time.Duration
	Buckets  Buckets
	Meal     time.Duration
	Wait     time.Duration
	Billable time.Duration
}

// DayClass is the calendar classification of a session's anchor date.
// Declared here (not in package calendar) so the engine's contract is
// self-contained; the calendar package produces values of this type.
type DayClass string

const (
	DayOrdinary      DayClass = "ORDINARY"
	DayWeekend       DayClass = "WEEKEND"
	DayPublicHoliday DayClass = "PUBLIC_HOLIDAY"
)
