/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:

	Defines the JSON structures for API communication. These types
	decouple the engine's domain model from the external contract the
	data-entry frontend consumes.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

LOOSE FIELDS:

	Raw row fields (date/start/end/meal/wait) are typed `any` on input:
	the sheet UI may send strings in several notations or plain numbers,
	and the engine's normalizer is the single place that interprets them.

PRECISION:

	Hour fields are float64 in JSON but produced from engine.Hours, so
	they are exact two-decimal values.

SEE ALSO:
  - handlers.go: Uses these types
  - engine/types.go: Entry, Result, Totals
*/
package api

import (
	"github.com/kranwerk/timesheet-engine/engine"
	"github.com/kranwerk/timesheet-engine/store/sqlite"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// RowRequest is one raw timesheet row as submitted by the client.
type RowRequest struct {
	Date    any    `json:"date"`
	Start   any    `json:"start"`
	End     any    `json:"end"`
	Meal    any    `json:"meal"`
	Wait    any    `json:"wait"`
	Comment string `json:"comment"`
}

// RulesDTO carries the three window boundaries as clock strings, in
// any notation the normalizer accepts.
type RulesDTO struct {
	OrdinaryStart string `json:"ordinary_start"`
	OrdinaryEnd   string `json:"ordinary_end"`
	EveningEnd    string `json:"evening_end"`
}

// EvaluateRequest is a stateless batch evaluation: optional rule
// overrides plus the rows to evaluate.
type EvaluateRequest struct {
	Rules *RulesDTO    `json:"rules,omitempty"`
	Rows  []RowRequest `json:"rows"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// EntryDTO is a stored raw row, echoed back exactly as typed.
type EntryDTO struct {
	ID      int64  `json:"id"`
	Date    string `json:"date"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Meal    string `json:"meal"`
	Wait    string `json:"wait"`
	Comment string `json:"comment"`
}

// RowDTO is one evaluated row.
type RowDTO struct {
	ID    int64  `json:"id,omitempty"`
	Date  string `json:"date,omitempty"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Class string `json:"day_class,omitempty"`

	TotalHours     float64 `json:"total_hours"`
	OrdinaryHours  float64 `json:"ordinary_hours"`
	EveningOTHours float64 `json:"evening_ot_hours"`
	NightOTHours   float64 `json:"night_ot_hours"`
	WeekendOTHours float64 `json:"weekend_ot_hours"`
	HolidayOTHours float64 `json:"holiday_ot_hours"`
	MealHours      float64 `json:"meal_hours"`
	WaitHours      float64 `json:"wait_hours"`
	BillableHours  float64 `json:"billable_hours"`

	Comment string `json:"comment,omitempty"`
	Error   string `json:"error,omitempty"`
}

// TotalsDTO is the batch aggregate.
type TotalsDTO struct {
	Rows    int `json:"rows"`
	Errored int `json:"errored"`

	TotalHours     float64 `json:"total_hours"`
	OrdinaryHours  float64 `json:"ordinary_hours"`
	EveningOTHours float64 `json:"evening_ot_hours"`
	NightOTHours   float64 `json:"night_ot_hours"`
	WeekendOTHours float64 `json:"weekend_ot_hours"`
	HolidayOTHours float64 `json:"holiday_ot_hours"`
	MealHours      float64 `json:"meal_hours"`
	WaitHours      float64 `json:"wait_hours"`
	BillableHours  float64 `json:"billable_hours"`
}

// SheetDTO pairs evaluated rows with their aggregate.
type SheetDTO struct {
	Rows   []RowDTO  `json:"rows"`
	Totals TotalsDTO `json:"totals"`
}

// HolidayDTO is one generated public holiday.
type HolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEntryDTO(e sqlite.Entry) EntryDTO {
	return EntryDTO{
		ID:      e.ID,
		Date:    e.Date,
		Start:   e.Start,
		End:     e.End,
		Meal:    e.Meal,
		Wait:    e.Wait,
		Comment: e.Comment,
	}
}

func toRowDTO(r engine.Result) RowDTO {
	dto := RowDTO{Comment: r.Comment}
	if r.Err != nil {
		dto.Error = r.Err.Error()
		return dto
	}
	dto.Date = r.Date.Format("2006-01-02")
	dto.Start = r.Start.String()
	dto.End = r.End.String()
	dto.Class = string(r.Class)
	dto.TotalHours = engine.HoursFloat(r.Total)
	dto.OrdinaryHours = engine.HoursFloat(r.Buckets.Get(engine.BucketOrdinary))
	dto.EveningOTHours = engine.HoursFloat(r.Buckets.Get(engine.BucketEvening))
	dto.NightOTHours = engine.HoursFloat(r.Buckets.Get(engine.BucketNight))
	dto.WeekendOTHours = engine.HoursFloat(r.Buckets.Get(engine.BucketWeekend))
	dto.HolidayOTHours = engine.HoursFloat(r.Buckets.Get(engine.BucketHoliday))
	dto.MealHours = engine.HoursFloat(r.Meal)
	dto.WaitHours = engine.HoursFloat(r.Wait)
	dto.BillableHours = engine.HoursFloat(r.Billable)
	return dto
}

func toTotalsDTO(t engine.Totals) TotalsDTO {
	return TotalsDTO{
		Rows:           t.Rows,
		Errored:        t.Errored,
		TotalHours:     engine.HoursFloat(t.Total),
		OrdinaryHours:  engine.HoursFloat(t.Buckets.Get(engine.BucketOrdinary)),
		EveningOTHours: engine.HoursFloat(t.Buckets.Get(engine.BucketEvening)),
		NightOTHours:   engine.HoursFloat(t.Buckets.Get(engine.BucketNight)),
		WeekendOTHours: engine.HoursFloat(t.Buckets.Get(engine.BucketWeekend)),
		HolidayOTHours: engine.HoursFloat(t.Buckets.Get(engine.BucketHoliday)),
		MealHours:      engine.HoursFloat(t.Meal),
		WaitHours:      engine.HoursFloat(t.Wait),
		BillableHours:  engine.HoursFloat(t.Billable),
	}
}

func toRulesDTO(r engine.Rules) RulesDTO {
	return RulesDTO{
		OrdinaryStart: r.OrdinaryStart.String(),
		OrdinaryEnd:   r.OrdinaryEnd.String(),
		EveningEnd:    r.EveningEnd.String(),
	}
}
