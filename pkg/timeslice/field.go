package timeslice

import "time"

// Field identifies a calendar component a PeriodCollection interval can
// constrain. Fields nest Y > M > D > {WD, h} > m > s; the nesting drives the
// parent-comparison rule in Overlap (spec §4.1).
type Field int

const (
	FieldYear Field = iota
	FieldMonth
	FieldDay
	FieldWeekday
	FieldHour
	FieldMinute
	FieldSecond
)

// precisionRank orders fields from coarsest to finest for TimePattern
// precision (spec: "the finest field present (Year > Month > Day > Hour >
// Minute > Second)"). Weekday is not itself a precision anchor in the spec's
// ordering; it ranks just finer than Day, the unit it nests under, and
// coarser than Hour.
func precisionRank(f Field) int {
	switch f {
	case FieldYear:
		return 0
	case FieldMonth:
		return 1
	case FieldDay:
		return 2
	case FieldWeekday:
		return 3
	case FieldHour:
		return 4
	case FieldMinute:
		return 5
	case FieldSecond:
		return 6
	default:
		return -1
	}
}

// FinestField returns whichever of a, b nests deeper (is more precise).
func FinestField(a, b Field) Field {
	if precisionRank(b) > precisionRank(a) {
		return b
	}
	return a
}

// value returns the 1-based field component of t.
func (f Field) value(t time.Time) int {
	switch f {
	case FieldYear:
		return t.Year()
	case FieldMonth:
		return int(t.Month())
	case FieldDay:
		return t.Day()
	case FieldWeekday:
		wd := int(t.Weekday())
		if wd == 0 {
			wd = 7 // Sunday=7, Monday=1..Saturday=6
		}
		return wd
	case FieldHour:
		return t.Hour() + 1
	case FieldMinute:
		return t.Minute() + 1
	case FieldSecond:
		return t.Second() + 1
	default:
		return 0
	}
}

// hasParent reports whether f nests under an enclosing field (everything but
// Year does).
func (f Field) hasParent() bool { return f != FieldYear }

// parentIndex returns a monotonically increasing absolute index of the
// enclosing unit t falls within, used to measure "differ by N parent units"
// without wraparound ambiguity.
func (f Field) parentIndex(t time.Time) int64 {
	switch f {
	case FieldMonth:
		return int64(t.Year())
	case FieldDay:
		return int64(t.Year())*12 + int64(t.Month()) - 1
	case FieldWeekday, FieldHour:
		return absoluteDay(t)
	case FieldMinute:
		return absoluteDay(t)*24 + int64(t.Hour())
	case FieldSecond:
		return (absoluteDay(t)*24+int64(t.Hour()))*60 + int64(t.Minute())
	default:
		return 0
	}
}

// maxValue returns the upper bound of f's domain for the parent unit t falls
// within (e.g. days in t's month for FieldDay).
func (f Field) maxValue(t time.Time) int {
	switch f {
	case FieldMonth:
		return 12
	case FieldDay:
		firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
		return firstOfNext.AddDate(0, 0, -1).Day()
	case FieldWeekday:
		return 7
	case FieldHour:
		return 24
	case FieldMinute, FieldSecond:
		return 60
	default:
		return 0
	}
}

func absoluteDay(t time.Time) int64 {
	u := t.UTC()
	return u.Unix() / 86400
}
