package timeslice

import (
	"time"

	"github.com/google/uuid"

	"gridcore/pkg/domain"
)

// TimeSlice is a half-open interval [start, end) with a duration and a
// rollable position, carrying observers for reactive refresh. Start and End
// are mutable via Roll; TLowestResolutionBang rewrites start, end and the
// duration together. ID is frozen at construction.
type TimeSlice struct {
	start           time.Time
	end             time.Time
	durationMinutes int64
	blocks          []*domain.Object
	id              uuid.UUID
	bus             *observerBus
}

// New constructs a TimeSlice, panicking with an InvariantError if start >
// end (out-of-order construction is a programmer error per spec §7).
func New(start, end time.Time, blocks ...*domain.Object) *TimeSlice {
	if start.After(end) {
		domain.PanicInvariant("time slice start %s is after end %s", start, end)
	}
	return &TimeSlice{
		start:           start,
		end:             end,
		durationMinutes: int64(end.Sub(start).Minutes()),
		blocks:          blocks,
		id:              uuid.New(),
		bus:             newObserverBus(),
	}
}

func (s *TimeSlice) Start() time.Time   { return s.start }
func (s *TimeSlice) End() time.Time     { return s.end }
func (s *TimeSlice) Duration() int64    { return s.durationMinutes }
func (s *TimeSlice) Blocks() []*domain.Object {
	return append([]*domain.Object(nil), s.blocks...)
}
func (s *TimeSlice) ID() uuid.UUID { return s.id }

// Overlaps reports whether a and b overlap: start(a) <= start(b) < end(a) or
// start(b) <= start(a) < end(b).
func Overlaps(a, b *TimeSlice) bool {
	return (!a.start.After(b.start) && b.start.Before(a.end)) ||
		(!b.start.After(a.start) && a.start.Before(b.end))
}

// Contains reports whether a contains b: start(a) <= start(b) and
// end(b) <= end(a).
func Contains(a, b *TimeSlice) bool {
	return !a.start.After(b.start) && !b.end.After(a.end)
}

// IsContained reports whether a is contained by b (the mirror of Contains).
func IsContained(a, b *TimeSlice) bool { return Contains(b, a) }

// Before reports whether a ends at or before b starts.
func Before(a, b *TimeSlice) bool { return !a.end.After(b.start) }

// OverlapDuration returns the duration during which a and b overlap, zero if
// they do not.
func OverlapDuration(a, b *TimeSlice) time.Duration {
	lo := a.start
	if b.start.After(lo) {
		lo = b.start
	}
	hi := a.end
	if b.end.Before(hi) {
		hi = b.end
	}
	if hi.Before(lo) {
		return 0
	}
	return hi.Sub(lo)
}

// Roll adds delta to start and end. When update is true, registered
// observers are ticked down by delta (a negative delta extends their
// horizon) and fire once their horizon elapses (spec §4.1).
func (s *TimeSlice) Roll(delta time.Duration, update bool) {
	s.start = s.start.Add(delta)
	s.end = s.end.Add(delta)
	if update {
		s.bus.roll(delta)
	}
}

// RegisterObserver attaches observer under the given timeout horizon. It is
// fired (and dropped) the next time Roll advances past that horizon.
func (s *TimeSlice) RegisterObserver(observer func(), timeout time.Duration) ObserverHandle {
	return s.bus.register(observer, timeout)
}

// DropObserver removes a previously registered observer before it fires.
func (s *TimeSlice) DropObserver(h ObserverHandle) {
	s.bus.drop(h)
}

// PendingObserverCount reports how many registered observers have not yet
// fired or been dropped.
func (s *TimeSlice) PendingObserverCount() int {
	return s.bus.pending()
}

// TLowestResolution returns a copy of s widened to whole-year boundaries,
// the coarsest calendar granularity the field model recognizes. The bang
// variant mutates s in place. Neither behavior is pinned by the spec beyond
// naming the operations in §6.
func TLowestResolution(s *TimeSlice) *TimeSlice {
	start := time.Date(s.start.Year(), time.January, 1, 0, 0, 0, 0, s.start.Location())
	end := time.Date(s.end.Year()+1, time.January, 1, 0, 0, 0, 0, s.end.Location())
	if s.end.Equal(time.Date(s.end.Year(), time.January, 1, 0, 0, 0, 0, s.end.Location())) {
		end = time.Date(s.end.Year(), time.January, 1, 0, 0, 0, 0, s.end.Location())
	}
	return New(start, end, s.blocks...)
}

// TLowestResolutionBang mutates s in place to TLowestResolution's result.
func TLowestResolutionBang(s *TimeSlice) {
	widened := TLowestResolution(s)
	s.start, s.end, s.durationMinutes = widened.start, widened.end, widened.durationMinutes
}

// THighestResolution returns a copy of s narrowed to second-level
// resolution. Since TimeSlice already stores second (indeed nanosecond)
// precision internally, this is the identity transform; it exists to
// complete the (!) pair named in spec §6.
func THighestResolution(s *TimeSlice) *TimeSlice {
	return New(s.start, s.end, s.blocks...)
}

// THighestResolutionBang is the in-place identity counterpart.
func THighestResolutionBang(_ *TimeSlice) {}
