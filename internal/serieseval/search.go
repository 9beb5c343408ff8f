// Package serieseval implements the index-search, aggregation, and
// freshness computations shared by the TimeSeries and TimePattern
// ParameterValue variants (spec §4.2). It is kept separate from pkg/pvalue
// so the value/type package stays free of search-algorithm internals,
// mirroring the teacher's split between pkg/domain (shapes) and
// internal/core (query/eval machinery).
package serieseval

import (
	"math"
	"sort"
	"time"
)

// SearchSortedLast returns the largest index i (0-based) such that
// indexes[i] <= t, or -1 if t is before every index.
func SearchSortedLast(indexes []time.Time, t time.Time) int {
	i := sort.Search(len(indexes), func(i int) bool { return indexes[i].After(t) })
	return i - 1
}

// SearchSortedFirst returns the smallest index i (0-based) such that
// indexes[i] >= t, or len(indexes) if t is after every index.
func SearchSortedFirst(indexes []time.Time, t time.Time) int {
	return sort.Search(len(indexes), func(i int) bool { return !indexes[i].Before(t) })
}

// SearchOverlap implements spec §4.2's search_overlap: a is the
// searchsortedlast position for tStart clamped into [0, len-1], b is
// searchsortedfirst(tEnd) - 1. Returns ok=false when the slice lies
// entirely before the first index or entirely after the last one.
func SearchOverlap(indexes []time.Time, tStart, tEnd time.Time) (a, b int, ok bool) {
	if len(indexes) == 0 {
		return 0, -1, false
	}
	if tEnd.Before(indexes[0]) {
		return 0, -1, false
	}
	if !tStart.Before(indexes[len(indexes)-1]) && tStart.After(indexes[len(indexes)-1]) {
		return 0, -1, false
	}
	a = SearchSortedLast(indexes, tStart)
	if a < 0 {
		a = 0
	}
	if a > len(indexes)-1 {
		a = len(indexes) - 1
	}
	b = SearchSortedFirst(indexes, tEnd) - 1
	return a, b, true
}

// NaNSkipMean returns the mean of values[a:b+1] ignoring NaN entries, and
// whether any non-NaN entry was found.
func NaNSkipMean(values []float64, a, b int) (mean float64, ok bool) {
	sum, n := NaNSkipSum(values, a, b)
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// NaNSkipSum sums values[a:b+1] ignoring NaN entries, returning the sum and
// the count of non-NaN entries considered.
func NaNSkipSum(values []float64, a, b int) (sum float64, n int) {
	for i := a; i <= b && i < len(values); i++ {
		if i < 0 {
			continue
		}
		if math.IsNaN(values[i]) {
			continue
		}
		sum += values[i]
		n++
	}
	return sum, n
}

// ShiftIgnoreYear projects t onto the series' base year (the year of
// indexes[0]) so lookups can match across arbitrary calendar years. If the
// direct projection still lands before indexes[0], the following year is
// tried instead, since a query near the end of the calendar year should
// wrap forward onto the series rather than fall out of range (spec §4.2:
// "ignore_year ... disables the after-last-index cutoff").
func ShiftIgnoreYear(indexes []time.Time, t time.Time) time.Time {
	if len(indexes) == 0 {
		return t
	}
	base := indexes[0].Year()
	shifted := replaceYear(t, base)
	if shifted.Before(indexes[0]) {
		shifted = replaceYear(t, base+1)
	}
	return shifted
}

func replaceYear(t time.Time, year int) time.Time {
	return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
