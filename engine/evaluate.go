/*
evaluate.go - Per-row evaluation

PURPOSE:

	Orchestrates one row: normalize the raw fields, anchor the session to
	its date, roll midnight-crossing sessions into the next day, classify
	the anchor date, partition, and derive the billable duration.

ERROR POLICY:

	Only an absent/unparsable date, start, or end marks the row as
	errored. Malformed meal/wait degrade to zero silently. No error ever
	escapes: every row produces a Result and the batch always runs to
	completion.

SEE ALSO:
  - normalize.go, partition.go
  - calendar package: the Classifier implementation
*/
package engine

import "time"

// Classifier decides what kind of day a date is. Implemented by
// calendar.Calendar; kept as an interface so the engine stays free of
// jurisdiction knowledge and tests can classify by fiat.
type Classifier interface {
	Classify(date time.Time) DayClass
}

// Evaluate computes the Result for one raw entry under the given rules
// and calendar. It never panics and never returns an error out of
// band: failures are recorded on the Result itself.
func Evaluate(entry Entry, rules Rules, cal Classifier) Result {
	res := Result{Comment: entry.Comment, Buckets: Buckets{}}

	date, dateOK := NormalizeDate(entry.Date)
	start, startOK := NormalizeClock(entry.Start)
	end, endOK := NormalizeClock(entry.End)

	if !dateOK || !startOK || !endOK {
		var missing []string
		if !dateOK {
			missing = append(missing, "date")
		}
		if !startOK {
			missing = append(missing, "start")
		}
		if !endOK {
			missing = append(missing, "end")
		}
		res.Err = &MissingFieldsError{Fields: missing}
		return res
	}

	res.Date = date
	res.Start = start
	res.End = end
	res.Meal = NormalizeDuration(entry.Meal)
	res.Wait = NormalizeDuration(entry.Wait)

	startAt := start.On(date)
	endAt := end.On(date)
	if endAt.Before(startAt) {
		// Session ran past midnight. Classification still follows the
		// anchor date. Exactly equal times stay put and degrade to a
		// zero-duration row rather than a 24h shift.
		endAt = endAt.AddDate(0, 0, 1)
	}

	res.Class = cal.Classify(date)
	res.Buckets = Partition(startAt, endAt, res.Class, rules)
	res.Total = endAt.Sub(startAt)

	billable := res.Total - res.Meal - res.Wait
	if billable < 0 {
		billable = 0
	}
	res.Billable = billable
	return res
}

// EvaluateBatch evaluates every entry in order and returns the results
// alongside their aggregate. Rows are independent; order only matters
// for display.
func EvaluateBatch(entries []Entry, rules Rules, cal Classifier) ([]Result, Totals) {
	results := make([]Result, len(entries))
	for i, entry := range entries {
		results[i] = Evaluate(entry, rules, cal)
	}
	return results, Sum(results)
}
