package serieseval

import (
	"math"
	"testing"
	"time"
)

func mustIndexes(dates ...string) []time.Time {
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			panic(err)
		}
		out[i] = t
	}
	return out
}

func TestSearchSortedLastAndFirst(t *testing.T) {
	idx := mustIndexes("2020-01-01", "2020-02-01", "2020-03-01")
	q, _ := time.Parse("2006-01-02", "2020-02-15")
	if got := SearchSortedLast(idx, q); got != 1 {
		t.Fatalf("SearchSortedLast = %d, want 1", got)
	}
	if got := SearchSortedFirst(idx, q); got != 2 {
		t.Fatalf("SearchSortedFirst = %d, want 2", got)
	}

	before, _ := time.Parse("2006-01-02", "2019-01-01")
	if got := SearchSortedLast(idx, before); got != -1 {
		t.Fatalf("SearchSortedLast(before) = %d, want -1", got)
	}
}

func TestSearchOverlapEmptySlice(t *testing.T) {
	_, _, ok := SearchOverlap(nil, time.Now(), time.Now())
	if ok {
		t.Fatal("expected ok=false for an empty index slice")
	}
}

func TestSearchOverlapWithinRange(t *testing.T) {
	idx := mustIndexes("2020-01-01", "2020-02-01", "2020-03-01", "2020-04-01")
	start, _ := time.Parse("2006-01-02", "2020-01-15")
	end, _ := time.Parse("2006-01-02", "2020-03-15")
	a, b, ok := SearchOverlap(idx, start, end)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if a != 0 || b != 2 {
		t.Fatalf("SearchOverlap = (%d,%d), want (0,2)", a, b)
	}
}

func TestSearchOverlapEntirelyBeforeRange(t *testing.T) {
	idx := mustIndexes("2020-05-01", "2020-06-01")
	start, _ := time.Parse("2006-01-02", "2020-01-01")
	end, _ := time.Parse("2006-01-02", "2020-02-01")
	_, _, ok := SearchOverlap(idx, start, end)
	if ok {
		t.Fatal("expected ok=false when the query range ends before the series starts")
	}
}

func TestNaNSkipSumAndMean(t *testing.T) {
	values := []float64{1, math.NaN(), 3, 5}
	sum, n := NaNSkipSum(values, 0, 3)
	if sum != 9 || n != 3 {
		t.Fatalf("NaNSkipSum = (%v,%d), want (9,3)", sum, n)
	}
	mean, ok := NaNSkipMean(values, 0, 3)
	if !ok || mean != 3 {
		t.Fatalf("NaNSkipMean = (%v,%v), want (3,true)", mean, ok)
	}
}

func TestNaNSkipMeanAllNaNReturnsNotOK(t *testing.T) {
	values := []float64{math.NaN(), math.NaN()}
	if _, ok := NaNSkipMean(values, 0, 1); ok {
		t.Fatal("expected ok=false when every value is NaN")
	}
}

func TestShiftIgnoreYearWrapsForward(t *testing.T) {
	idx := mustIndexes("2020-06-01", "2020-12-01")
	q, _ := time.Parse("2006-01-02", "1999-01-15")
	shifted := ShiftIgnoreYear(idx, q)
	if shifted.Year() != 2021 {
		t.Fatalf("ShiftIgnoreYear year = %d, want 2021", shifted.Year())
	}
}

func TestShiftIgnoreYearKeepsDirectProjection(t *testing.T) {
	idx := mustIndexes("2020-01-01", "2020-12-01")
	q, _ := time.Parse("2006-01-02", "1999-06-15")
	shifted := ShiftIgnoreYear(idx, q)
	if shifted.Year() != 2020 || shifted.Month() != time.June {
		t.Fatalf("ShiftIgnoreYear = %v, want June 2020", shifted)
	}
}
