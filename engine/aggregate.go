/*
aggregate.go - Batch totals

PURPOSE:

	Sums per-row results into batch totals. Pure and order-independent:
	every field is a commutative sum, so a parallel evaluator could feed
	this in any order. Errored rows are counted but contribute zero.
*/
package engine

// Sum aggregates a sequence of row results.
func Sum(results []Result) Totals {
	totals := Totals{Buckets: Buckets{}}
	for _, r := range results {
		totals.Rows++
		if r.Err != nil {
			totals.Errored++
			continue
		}
		totals.Total += r.Total
		totals.Meal += r.Meal
		totals.Wait += r.Wait
		totals.Billable += r.Billable
		for name, d := range r.Buckets {
			totals.Buckets[name] += d
		}
	}
	return totals
}
