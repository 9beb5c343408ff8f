package pvalue

import (
	"math"

	"gridcore/internal/serieseval"
	"gridcore/pkg/timeslice"
)

// PatternEntry pairs a calendar pattern with the value that applies whenever
// the pattern matches. TimePattern is stored as an ordered slice of entries
// rather than a map keyed on PeriodCollection, since PeriodCollection (a
// slice of slices) is not a valid Go map key; evaluation order over
// multiple matching entries is the entries' declaration order.
type PatternEntry struct {
	Periods timeslice.PeriodCollection
	Value   float64
}

// TimePattern maps calendar patterns to values (spec §4.2). Precision is
// cached at construction as the finest field referenced by any entry.
type TimePattern struct {
	Entries   []PatternEntry
	Precision timeslice.Field
}

// NewTimePattern builds a TimePattern from entries, computing Precision as
// the finest field across all of them.
func NewTimePattern(entries []PatternEntry) TimePattern {
	precision := timeslice.FieldYear
	for _, e := range entries {
		precision = timeslice.FinestField(precision, e.Periods.Precision())
	}
	return TimePattern{Entries: append([]PatternEntry(nil), entries...), Precision: precision}
}

// Evaluate returns the entire entry set when no t is given (i is not a
// defined kwarg for TimePattern, per spec §4.2, and falls back to the same
// behavior), the NaN-skipped mean of entries matching t as an instant, or
// the NaN-skipped mean of entries whose period overlaps t as a TimeSlice.
func (p TimePattern) Evaluate(args Args) (any, bool) {
	if args.T.IsZero() {
		return append([]PatternEntry(nil), p.Entries...), true
	}

	if instant, isInstant := args.T.Instant(); isInstant {
		sum, n := 0.0, 0
		for _, e := range p.Entries {
			if !e.Periods.Matches(instant) || math.IsNaN(e.Value) {
				continue
			}
			sum += e.Value
			n++
		}
		if n == 0 {
			return nil, false
		}
		return sum / float64(n), true
	}

	if slice, isSlice := args.T.Slice(); isSlice {
		sum, n := 0.0, 0
		for _, e := range p.Entries {
			if !e.Periods.Overlap(slice) || math.IsNaN(e.Value) {
				continue
			}
			sum += e.Value
			n++
		}
		if n == 0 {
			return nil, false
		}
		timeout := serieseval.Freshness(nil, slice.End(), serieseval.PrecisionCap(p.Precision))
		slice.RegisterObserver(nil, timeout)
		return sum / float64(n), true
	}

	return nil, false
}

func (TimePattern) isParameterValue() {}
