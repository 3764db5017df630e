/*
Package calendar classifies calendar days for the timesheet engine.

PURPOSE:

	Decides, for a given date, whether it is an ordinary workday, a
	weekend day, or a public holiday. Holidays are generated from rules
	(fixed month/day dates plus Easter-relative offsets), not a static
	list, so classification is correct for any year without code changes.

PRECEDENCE:

	Public holiday overrides weekend: Norway's constitution day on a
	Saturday classifies as PUBLIC_HOLIDAY.

JURISDICTIONS:

	Rule sets are registered by ISO country code. An unknown code is a
	configuration-time error from New, never a per-call one: Classify is
	total.

USAGE:

	cal, err := calendar.New("NO")
	if err != nil { ... }
	class := cal.Classify(date)          // engine.DayClass
	days := cal.Holidays(2026)           // for display

SEE ALSO:
  - rules.go: HolidayRule, jurisdiction registry
  - easter.go: Easter Sunday computation
*/
package calendar

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/kranwerk/timesheet-engine/engine"
)

// Calendar classifies dates for one jurisdiction. Safe for concurrent
// use: the rule set is immutable and the per-year cache is locked.
type Calendar struct {
	jurisdiction string
	rules        []HolidayRule

	mu sync.Mutex
	// Per-year holiday sets, keyed "2006-01-02".
	years map[int]map[string]string
}

// New returns the calendar for a registered jurisdiction code, or an
// error for an unknown one.
func New(jurisdiction string) (*Calendar, error) {
	rules, ok := jurisdictions[jurisdiction]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownJurisdiction, jurisdiction)
	}
	return &Calendar{
		jurisdiction: jurisdiction,
		rules:        rules,
		years:        make(map[int]map[string]string),
	}, nil
}

// Jurisdiction returns the code this calendar was built for.
func (c *Calendar) Jurisdiction() string { return c.jurisdiction }

// Classify maps a date to its day class. Total: every date yields
// exactly one class.
func (c *Calendar) Classify(date time.Time) engine.DayClass {
	if _, holiday := c.holidayName(date); holiday {
		return engine.DayPublicHoliday
	}
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return engine.DayWeekend
	}
	return engine.DayOrdinary
}

// IsHoliday reports whether the date is a public holiday.
func (c *Calendar) IsHoliday(date time.Time) bool {
	_, ok := c.holidayName(date)
	return ok
}

// Holiday is one generated public holiday.
type Holiday struct {
	Date time.Time
	Name string
}

// Holidays enumerates the jurisdiction's public holidays for a year,
// in date order.
func (c *Calendar) Holidays(year int) []Holiday {
	var days []Holiday
	for _, rule := range c.rules {
		days = append(days, Holiday{Date: rule.resolve(year), Name: rule.Name})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days
}

func (c *Calendar) holidayName(date time.Time) (string, bool) {
	year := date.Year()

	c.mu.Lock()
	set, ok := c.years[year]
	if !ok {
		set = make(map[string]string, len(c.rules))
		for _, rule := range c.rules {
			day := rule.resolve(year)
			set[day.Format("2006-01-02")] = rule.Name
		}
		c.years[year] = set
	}
	c.mu.Unlock()

	name, ok := set[date.Format("2006-01-02")]
	return name, ok
}
