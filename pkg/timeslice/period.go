package timeslice

import "time"

// Interval constrains a single calendar Field to an inclusive [Lower, Upper]
// range.
type Interval struct {
	Field Field
	Lower int
	Upper int
}

// Intersection is a conjunction of Intervals: a point in time matches iff it
// satisfies every interval in the intersection.
type Intersection []Interval

// PeriodCollection is a union of Intersections: a point in time matches the
// collection iff it matches any one intersection.
type PeriodCollection []Intersection

// Precision returns the finest field present anywhere in the collection.
func (pc PeriodCollection) Precision() Field {
	finest := FieldYear
	for _, inter := range pc {
		for _, iv := range inter {
			finest = FinestField(finest, iv.Field)
		}
	}
	return finest
}

// Matches reports whether the instant t satisfies the collection: every
// interval's field value at t must fall in [Lower, Upper].
func (pc PeriodCollection) Matches(t time.Time) bool {
	for _, inter := range pc {
		ok := true
		for _, iv := range inter {
			if v := iv.Field.value(t); v < iv.Lower || v > iv.Upper {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// Overlap reports whether pc overlaps the half-open slice [start, end),
// following the enclosing-parent algorithm of spec §4.1: for each interval
// in an intersection, either both endpoints of the slice share the same
// enclosing parent unit and the covered range intersects [lower, upper], or
// they differ by exactly one parent unit and the slice does not lie
// entirely in the gap between the two covered sub-ranges, or they differ by
// more than one parent unit (which guarantees full coverage of the field's
// domain somewhere inside the slice). The whole union matches if any
// intersection matches.
func (pc PeriodCollection) Overlap(s *TimeSlice) bool {
	for _, inter := range pc {
		if intersectionOverlaps(inter, s) {
			return true
		}
	}
	return false
}

func intersectionOverlaps(inter Intersection, s *TimeSlice) bool {
	for _, iv := range inter {
		if !intervalOverlaps(iv, s) {
			return false
		}
	}
	return true
}

func intervalOverlaps(iv Interval, s *TimeSlice) bool {
	start := s.Start()
	end := s.End()
	lastTick := start
	if end.After(start) {
		lastTick = end.Add(-1)
	}

	sVal := iv.Field.value(start)
	eVal := iv.Field.value(lastTick)

	if !iv.Field.hasParent() {
		lo, hi := sVal, eVal
		if lo > hi {
			lo, hi = hi, lo
		}
		return rangesOverlap(lo, hi, iv.Lower, iv.Upper)
	}

	sParent := iv.Field.parentIndex(start)
	eParent := iv.Field.parentIndex(lastTick)
	diff := eParent - sParent

	switch {
	case diff == 0:
		lo, hi := sVal, eVal
		if lo > hi {
			lo, hi = hi, lo
		}
		return rangesOverlap(lo, hi, iv.Lower, iv.Upper)
	case diff == 1:
		tailMax := iv.Field.maxValue(start)
		return rangesOverlap(sVal, tailMax, iv.Lower, iv.Upper) ||
			rangesOverlap(1, eVal, iv.Lower, iv.Upper)
	default:
		return true
	}
}

func rangesOverlap(lo1, hi1, lo2, hi2 int) bool {
	return lo1 <= hi2 && lo2 <= hi1
}
