package pvalue

import (
	"time"

	"gridcore/internal/serieseval"
)

// StandardTimeSeries is a strictly increasing Indexes/Values pair (spec
// §4.2). IgnoreYear, when set, projects instant lookups onto the series'
// base year instead of requiring an exact calendar-year match; TimeSlice
// lookups are not projected and use the slice's own calendar dates.
type StandardTimeSeries struct {
	Indexes    []time.Time
	Values     []float64
	IgnoreYear bool
}

// NewStandardTimeSeries builds a StandardTimeSeries, copying the slices
// defensively.
func NewStandardTimeSeries(indexes []time.Time, values []float64, ignoreYear bool) StandardTimeSeries {
	return StandardTimeSeries{
		Indexes:    append([]time.Time(nil), indexes...),
		Values:     append([]float64(nil), values...),
		IgnoreYear: ignoreYear,
	}
}

// Evaluate returns the raw series when no t is given, the value at
// searchsortedlast(t) for an instant t (nothing if t precedes the first
// index and IgnoreYear is not set), or the NaN-skipped mean over the
// overlap of t with the series for a TimeSlice t.
func (ts StandardTimeSeries) Evaluate(args Args) (any, bool) {
	if args.T.IsZero() {
		return ts, true
	}

	if instant, isInstant := args.T.Instant(); isInstant {
		query := instant
		if ts.IgnoreYear {
			query = serieseval.ShiftIgnoreYear(ts.Indexes, instant)
		}
		idx := serieseval.SearchSortedLast(ts.Indexes, query)
		if idx < 0 {
			if !ts.IgnoreYear || len(ts.Indexes) == 0 {
				return nil, false
			}
			idx = 0
		}
		return ts.Values[idx], true
	}

	if slice, isSlice := args.T.Slice(); isSlice {
		a, b, ok := serieseval.SearchOverlap(ts.Indexes, slice.Start(), slice.End())
		if !ok {
			return nil, false
		}
		mean, meanOK := serieseval.NaNSkipMean(ts.Values, a, b)
		slice.RegisterObserver(nil, serieseval.Freshness(ts.Indexes, slice.End(), 0))
		return mean, meanOK
	}

	return nil, false
}

func (StandardTimeSeries) isParameterValue() {}

// RepeatingTimeSeries is a StandardTimeSeries that repeats with period Span
// starting at Indexes[0]. ValSum and Len are the NaN-skipped sum and count
// over one full period, precomputed at construction so slice lookups that
// cross many repetitions don't re-walk every period (spec §4.2's weighted
// mean across spanned periods).
type RepeatingTimeSeries struct {
	Indexes []time.Time
	Values  []float64
	Span    time.Duration
	ValSum  float64
	Len     int
}

// NewRepeatingTimeSeries builds a RepeatingTimeSeries, precomputing ValSum
// and Len over the full index/value set (one fundamental period).
func NewRepeatingTimeSeries(indexes []time.Time, values []float64, span time.Duration) RepeatingTimeSeries {
	sum, n := serieseval.NaNSkipSum(values, 0, len(values)-1)
	return RepeatingTimeSeries{
		Indexes: append([]time.Time(nil), indexes...),
		Values:  append([]float64(nil), values...),
		Span:    span,
		ValSum:  sum,
		Len:     n,
	}
}

// Evaluate looks up an instant by folding it back into the fundamental
// period, or computes the weighted NaN-skipped mean over a TimeSlice that
// may span any number of repetitions of the period.
func (ts RepeatingTimeSeries) Evaluate(args Args) (any, bool) {
	if args.T.IsZero() {
		return ts, true
	}
	if len(ts.Indexes) == 0 || ts.Span <= 0 {
		return nil, false
	}
	base := ts.Indexes[0]

	if instant, isInstant := args.T.Instant(); isInstant {
		reps := foldReps(base, ts.Span, instant)
		local := instant.Add(-time.Duration(reps) * ts.Span)
		idx := serieseval.SearchSortedLast(ts.Indexes, local)
		if idx < 0 {
			return nil, false
		}
		return ts.Values[idx], true
	}

	if slice, isSlice := args.T.Slice(); isSlice {
		result, ok := ts.evaluateSlice(base, slice.Start(), slice.End())
		if ok {
			slice.RegisterObserver(nil, ts.freshnessAt(base, slice.End()))
		}
		return result, ok
	}

	return nil, false
}

// freshnessAt folds t into the fundamental period to find the next
// repeating-series index transition after t, wrapping into the following
// period when t falls after the period's last index, then reports the
// absolute distance to that transition (spec §4.2's freshness timeout,
// repeating-series case).
func (ts RepeatingTimeSeries) freshnessAt(base, t time.Time) time.Duration {
	reps := foldReps(base, ts.Span, t)
	local := t.Add(-time.Duration(reps) * ts.Span)
	pos := serieseval.SearchSortedFirst(ts.Indexes, local)
	for pos < len(ts.Indexes) && !ts.Indexes[pos].After(local) {
		pos++
	}
	var next time.Time
	if pos < len(ts.Indexes) {
		next = ts.Indexes[pos].Add(time.Duration(reps) * ts.Span)
	} else {
		next = ts.Indexes[0].Add(time.Duration(reps+1) * ts.Span)
	}
	timeout := next.Sub(t)
	if timeout < 0 {
		timeout = 0
	}
	return timeout
}

func (ts RepeatingTimeSeries) evaluateSlice(base, start, end time.Time) (any, bool) {
	repsStart := foldReps(base, ts.Span, start)
	repsEndRaw := foldReps(base, ts.Span, end)
	reps := repsEndRaw - repsStart

	localStart := start.Add(-time.Duration(repsStart) * ts.Span)
	periodEnd := base.Add(ts.Span)

	if reps == 0 {
		localEnd := end.Add(-time.Duration(repsStart) * ts.Span)
		a, b, ok := serieseval.SearchOverlap(ts.Indexes, localStart, localEnd)
		if !ok {
			return nil, false
		}
		return serieseval.NaNSkipMean(ts.Values, a, b)
	}

	asum, alen := 0.0, 0
	if a, b, ok := serieseval.SearchOverlap(ts.Indexes, localStart, periodEnd); ok {
		asum, alen = serieseval.NaNSkipSum(ts.Values, a, b)
	}

	tailLocalEnd := end.Add(-time.Duration(repsEndRaw) * ts.Span)
	bsum, blen := 0.0, 0
	if a, b, ok := serieseval.SearchOverlap(ts.Indexes, base, tailLocalEnd); ok {
		bsum, blen = serieseval.NaNSkipSum(ts.Values, a, b)
	}

	fullReps := reps - 1
	sum := asum + bsum + float64(fullReps)*ts.ValSum
	n := alen + blen + fullReps*ts.Len
	if n <= 0 {
		return nil, false
	}
	return sum / float64(n), true
}

func (RepeatingTimeSeries) isParameterValue() {}

// foldReps returns how many whole spans separate base from t (floor
// division), so t - reps*span lands in [base, base+span).
func foldReps(base time.Time, span time.Duration, t time.Time) int {
	d := t.Sub(base)
	reps := int(d / span)
	if d%span < 0 {
		reps--
	}
	return reps
}
