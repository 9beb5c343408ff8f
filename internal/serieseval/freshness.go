package serieseval

import (
	"time"

	"gridcore/pkg/timeslice"
)

// PrecisionCap maps a TimePattern's precision field to the upper-bound
// duration used as Freshness's cap (spec §4.2's "capped by pattern
// precision"), the same upper-bound convention as the Month/Year handling
// in the parameter engine's maximum-value search: a month is capped at 31
// days, a year at 366, everything finer at its own exact unit.
func PrecisionCap(precision timeslice.Field) time.Duration {
	switch precision {
	case timeslice.FieldYear:
		return 366 * 24 * time.Hour
	case timeslice.FieldMonth:
		return 31 * 24 * time.Hour
	case timeslice.FieldDay, timeslice.FieldWeekday:
		return 24 * time.Hour
	case timeslice.FieldHour:
		return time.Hour
	case timeslice.FieldMinute:
		return time.Minute
	case timeslice.FieldSecond:
		return time.Second
	default:
		return 0
	}
}

// Freshness computes how long a value resolved against sliceEnd remains
// valid: the distance to the next entry in indexes strictly after
// sliceEnd, capped at cap (if cap > 0) and floored at zero (spec §4.2
// "Freshness / observer registration"). When indexes has no entry after
// sliceEnd (or is empty, as for a TimePattern, which has no fixed index
// series of its own), the cap itself is the timeout.
func Freshness(indexes []time.Time, sliceEnd time.Time, cap time.Duration) time.Duration {
	timeout := cap
	pos := SearchSortedFirst(indexes, sliceEnd)
	for pos < len(indexes) && !indexes[pos].After(sliceEnd) {
		pos++
	}
	if pos < len(indexes) {
		d := indexes[pos].Sub(sliceEnd)
		if cap <= 0 || d < cap {
			timeout = d
		} else {
			timeout = cap
		}
	}
	if timeout < 0 {
		timeout = 0
	}
	return timeout
}
