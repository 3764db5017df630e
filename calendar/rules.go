/*
rules.go - Holiday rule definitions and jurisdiction registry

PURPOSE:

	A public holiday is either a fixed month/day every year or a moveable
	feast pinned to Easter Sunday by a day offset. A jurisdiction is just
	a named list of such rules, so holiday generation works for any year.

NORWAY (the built-in jurisdiction):

	Fixed: 1 Jan (New Year), 1 May (Labour Day), 17 May (Constitution
	Day), 25/26 Dec (Christmas). Easter-relative: Palm Sunday (-7),
	Maundy Thursday (-3), Good Friday (-2), Easter Sunday (0), Easter
	Monday (+1), Ascension (+39), Whit Sunday (+49), Whit Monday (+50).
	Thirteen days per year.

SEE ALSO:
  - easter.go: Easter Sunday computation
  - calendar.go: Calendar built from these rules
*/
package calendar

import (
	"errors"
	"time"
)

// ErrUnknownJurisdiction is returned by New for unregistered codes.
var ErrUnknownJurisdiction = errors.New("unknown jurisdiction")

// HolidayRule generates one holiday per year: either a fixed
// month/day, or an offset in days from Easter Sunday.
type HolidayRule struct {
	Name string

	// Fixed-date rule; ignored when Moveable is set.
	Month time.Month
	Day   int

	// Easter-relative rule.
	Moveable     bool
	EasterOffset int // days from Easter Sunday; 0 is Easter itself
}

// resolve pins the rule to a concrete date in the given year.
func (r HolidayRule) resolve(year int) time.Time {
	if r.Moveable {
		return EasterSunday(year).AddDate(0, 0, r.EasterOffset)
	}
	return time.Date(year, r.Month, r.Day, 0, 0, 0, 0, time.Local)
}

// jurisdictions maps ISO country code to holiday rule set.
var jurisdictions = map[string][]HolidayRule{
	"NO": {
		{Name: "Første nyttårsdag", Month: time.January, Day: 1},
		{Name: "Palmesøndag", Moveable: true, EasterOffset: -7},
		{Name: "Skjærtorsdag", Moveable: true, EasterOffset: -3},
		{Name: "Langfredag", Moveable: true, EasterOffset: -2},
		{Name: "Første påskedag", Moveable: true, EasterOffset: 0},
		{Name: "Andre påskedag", Moveable: true, EasterOffset: 1},
		{Name: "Arbeidernes dag", Month: time.May, Day: 1},
		{Name: "Grunnlovsdagen", Month: time.May, Day: 17},
		{Name: "Kristi himmelfartsdag", Moveable: true, EasterOffset: 39},
		{Name: "Første pinsedag", Moveable: true, EasterOffset: 49},
		{Name: "Andre pinsedag", Moveable: true, EasterOffset: 50},
		{Name: "Første juledag", Month: time.December, Day: 25},
		{Name: "Andre juledag", Month: time.December, Day: 26},
	},
}

// Jurisdictions lists the registered jurisdiction codes.
func Jurisdictions() []string {
	codes := make([]string, 0, len(jurisdictions))
	for code := range jurisdictions {
		codes = append(codes, code)
	}
	return codes
}
