package serieseval

import (
	"testing"
	"time"

	"gridcore/pkg/timeslice"
)

func TestFreshnessDistanceToNextIndex(t *testing.T) {
	indexes := mustIndexes("2026-01-01", "2026-01-10", "2026-01-20")
	end, _ := time.Parse("2006-01-02", "2026-01-05")
	got := Freshness(indexes, end, 0)
	want := 5 * 24 * time.Hour
	if got != want {
		t.Fatalf("Freshness = %v, want %v", got, want)
	}
}

func TestFreshnessCapsAtPrecision(t *testing.T) {
	indexes := mustIndexes("2026-01-01", "2027-06-01")
	end, _ := time.Parse("2006-01-02", "2026-02-01")
	cap := 24 * time.Hour
	got := Freshness(indexes, end, cap)
	if got != cap {
		t.Fatalf("Freshness = %v, want cap %v", got, cap)
	}
}

func TestFreshnessNoNextIndexFallsBackToCap(t *testing.T) {
	indexes := mustIndexes("2026-01-01")
	end, _ := time.Parse("2006-01-02", "2026-06-01")
	cap := time.Hour
	if got := Freshness(indexes, end, cap); got != cap {
		t.Fatalf("Freshness = %v, want %v", got, cap)
	}
	if got := Freshness(indexes, end, 0); got != 0 {
		t.Fatalf("Freshness with no cap and no next index = %v, want 0", got)
	}
}

func TestFreshnessEmptyIndexesUsesCap(t *testing.T) {
	end, _ := time.Parse("2006-01-02", "2026-06-01")
	cap := 31 * 24 * time.Hour
	if got := Freshness(nil, end, cap); got != cap {
		t.Fatalf("Freshness = %v, want %v", got, cap)
	}
}

func TestFreshnessNeverNegative(t *testing.T) {
	indexes := mustIndexes("2020-01-01")
	end, _ := time.Parse("2006-01-02", "2026-01-01")
	if got := Freshness(indexes, end, 0); got != 0 {
		t.Fatalf("Freshness = %v, want 0", got)
	}
}

func TestPrecisionCapMatchesFieldGranularity(t *testing.T) {
	cases := []struct {
		field timeslice.Field
		want  time.Duration
	}{
		{timeslice.FieldYear, 366 * 24 * time.Hour},
		{timeslice.FieldMonth, 31 * 24 * time.Hour},
		{timeslice.FieldDay, 24 * time.Hour},
		{timeslice.FieldWeekday, 24 * time.Hour},
		{timeslice.FieldHour, time.Hour},
		{timeslice.FieldMinute, time.Minute},
		{timeslice.FieldSecond, time.Second},
	}
	for _, tc := range cases {
		if got := PrecisionCap(tc.field); got != tc.want {
			t.Errorf("PrecisionCap(%v) = %v, want %v", tc.field, got, tc.want)
		}
	}
}
