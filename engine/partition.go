/*
partition.go - Window partitioning

PURPOSE:

	Splits a session's elapsed interval into pay-rate buckets. Weekend
	and holiday sessions land entirely in their own bucket; ordinary
	weekdays are cut against the configured time-of-day windows.

ALGORITHM (ordinary day):

	The anchor date carries two premium-free windows:

	  [ordinary-start, ordinary-end)  -> ordinary
	  [ordinary-end,   evening-end)   -> evening (50%)

	Ordinary and evening are the overlaps of the session with those
	windows; night is the remainder of the elapsed time. Computing
	night by subtraction means the three buckets always sum exactly
	to the elapsed interval, no matter how far past midnight a
	rolled-over session runs.

SEE ALSO:
  - types.go: Rules, Buckets
  - evaluate.go: applies midnight rollover before calling Partition
*/
package engine

import "time"

// Partition splits [start, end) into pay-rate buckets for a session
// anchored to start's calendar date. The caller must already have
// applied midnight rollover: end <= start yields an empty bucket set.
func Partition(start, end time.Time, class DayClass, rules Rules) Buckets {
	buckets := Buckets{}
	if !end.After(start) {
		return buckets
	}
	total := end.Sub(start)

	// Weekend and holiday sessions are never split by time of day.
	switch class {
	case DayPublicHoliday:
		buckets[BucketHoliday] = total
		return buckets
	case DayWeekend:
		buckets[BucketWeekend] = total
		return buckets
	}

	anchor := truncateToDay(start)
	ordStart := rules.OrdinaryStart.On(anchor)
	ordEnd := rules.OrdinaryEnd.On(anchor)
	eveEnd := rules.EveningEnd.On(anchor)

	ordinary := overlap(start, end, ordStart, ordEnd)
	evening := overlap(start, end, ordEnd, eveEnd)
	night := total - ordinary - evening
	if night < 0 {
		night = 0
	}

	if ordinary > 0 {
		buckets[BucketOrdinary] = ordinary
	}
	if evening > 0 {
		buckets[BucketEvening] = evening
	}
	if night > 0 {
		buckets[BucketNight] = night
	}
	return buckets
}

// overlap returns the length of the intersection of the half-open
// intervals [aStart, aEnd) and [bStart, bEnd), floored at zero.
func overlap(aStart, aEnd, bStart, bEnd time.Time) time.Duration {
	s := aStart
	if bStart.After(s) {
		s = bStart
	}
	e := aEnd
	if bEnd.Before(e) {
		e = bEnd
	}
	if !e.After(s) {
		return 0
	}
	return e.Sub(s)
}
