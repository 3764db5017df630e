/*
Package export serializes evaluated timesheets to flat tabular text.

PURPOSE:

	Writes one header row, one row per evaluated entry, and a trailing
	totals row as comma-separated values. The free-text comment column is
	carried through untouched next to the computed columns so the sheet
	survives a round trip into a spreadsheet.

PRECISION:

	Hour columns are decimal with exactly two places, produced by
	engine.Hours; internal durations are never float-formatted directly.
*/
package export

import (
	"encoding/csv"
	"io"

	"github.com/kranwerk/timesheet-engine/engine"
)

// Header is the CSV column set, in output order.
var Header = []string{
	"date", "start", "end", "day_class",
	"total_hours", "ordinary_hours", "evening_ot_hours", "night_ot_hours",
	"weekend_ot_hours", "holiday_ot_hours",
	"meal_hours", "wait_hours", "billable_hours",
	"error", "comment",
}

// WriteCSV writes the evaluated rows and their totals to w.
func WriteCSV(w io.Writer, results []engine.Result, totals engine.Totals) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range results {
		if err := cw.Write(resultRecord(r)); err != nil {
			return err
		}
	}
	if err := cw.Write(totalsRecord(totals)); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

func resultRecord(r engine.Result) []string {
	if r.Err != nil {
		// Errored rows keep their place in the sheet with empty
		// numeric columns and the error text in the error column.
		rec := make([]string, len(Header))
		rec[len(Header)-2] = r.Err.Error()
		rec[len(Header)-1] = r.Comment
		return rec
	}
	return []string{
		r.Date.Format("2006-01-02"),
		r.Start.String(),
		r.End.String(),
		string(r.Class),
		engine.Hours(r.Total).StringFixed(2),
		engine.Hours(r.Buckets.Get(engine.BucketOrdinary)).StringFixed(2),
		engine.Hours(r.Buckets.Get(engine.BucketEvening)).StringFixed(2),
		engine.Hours(r.Buckets.Get(engine.BucketNight)).StringFixed(2),
		engine.Hours(r.Buckets.Get(engine.BucketWeekend)).StringFixed(2),
		engine.Hours(r.Buckets.Get(engine.BucketHoliday)).StringFixed(2),
		engine.Hours(r.Meal).StringFixed(2),
		engine.Hours(r.Wait).StringFixed(2),
		engine.Hours(r.Billable).StringFixed(2),
		"",
		r.Comment,
	}
}

func totalsRecord(t engine.Totals) []string {
	return []string{
		"TOTAL", "", "", "",
		engine.Hours(t.Total).StringFixed(2),
		engine.Hours(t.Buckets.Get(engine.BucketOrdinary)).StringFixed(2),
		engine.Hours(t.Buckets.Get(engine.BucketEvening)).StringFixed(2),
		engine.Hours(t.Buckets.Get(engine.BucketNight)).StringFixed(2),
		engine.Hours(t.Buckets.Get(engine.BucketWeekend)).StringFixed(2),
		engine.Hours(t.Buckets.Get(engine.BucketHoliday)).StringFixed(2),
		engine.Hours(t.Meal).StringFixed(2),
		engine.Hours(t.Wait).StringFixed(2),
		engine.Hours(t.Billable).StringFixed(2),
		"", "",
	}
}
