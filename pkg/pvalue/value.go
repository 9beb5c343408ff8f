// Package pvalue implements the ParameterValue tagged union (spec §4): the
// seven shapes a parameter can take (Nothing, Scalar, Array, TimePattern,
// StandardTimeSeries, RepeatingTimeSeries, Map) behind one evaluation
// contract, plus the Wrap boundary that turns a loosely typed ingested value
// into one of them.
//
// This package is on internal/tools/checksealed's allowlist for `any`
// fields, together with internal/ingest and internal/archive (see
// DESIGN.md). Evaluate results still reach other packages as `any`.
package pvalue

import (
	"time"

	"gridcore/pkg/timeslice"
)

// ScalarValue is the set of concrete Go types a Scalar or Array element may
// hold: the primitive shapes the ingestion boundary recognizes (spec §2
// "one of {nothing, bool, int, real, string, timestamp, ...}").
type ScalarValue interface {
	~bool | ~int64 | ~float64 | ~string | time.Time
}

// Value is the uniform evaluation contract every ParameterValue variant
// implements (spec §4.2's per-variant dispatch tables). Evaluate returns
// ok=false for every case the table marks "nothing" or "—".
type Value interface {
	// Evaluate applies kwargs and returns the result described by the
	// variant's row in spec §4.2, or ok=false when the table says nothing.
	Evaluate(args Args) (result any, ok bool)

	// isParameterValue seals the interface to this package's variants.
	isParameterValue()
}

// TimeArg carries the "t" keyword argument, which is either a single
// instant or a TimeSlice (spec §4.2 distinguishes "t: DateTime" from
// "t: TimeSlice" rows). The zero value means no t was supplied.
type TimeArg struct {
	instant time.Time
	slice   *timeslice.TimeSlice
	kind    timeArgKind
}

type timeArgKind int

const (
	timeArgNone timeArgKind = iota
	timeArgInstant
	timeArgSlice
)

// AtInstant builds a TimeArg carrying a single instant.
func AtInstant(t time.Time) TimeArg { return TimeArg{instant: t, kind: timeArgInstant} }

// AtSlice builds a TimeArg carrying a TimeSlice.
func AtSlice(s *timeslice.TimeSlice) TimeArg { return TimeArg{slice: s, kind: timeArgSlice} }

// IsZero reports whether no t argument was given.
func (t TimeArg) IsZero() bool { return t.kind == timeArgNone }

// Instant returns the carried instant, if any.
func (t TimeArg) Instant() (time.Time, bool) { return t.instant, t.kind == timeArgInstant }

// Slice returns the carried TimeSlice, if any.
func (t TimeArg) Slice() (*timeslice.TimeSlice, bool) { return t.slice, t.kind == timeArgSlice }

// Args bundles the three kwargs a ParameterValue's Evaluate may take: i (a
// 1-based array/sequence index), t (an instant or TimeSlice), and inds (a
// path of MapKeys for recursing into nested Map values).
type Args struct {
	I    *int
	T    TimeArg
	Inds []MapKey
}

// Index returns a new Args with I set, for the common "pv(i=i)" call shape.
func Index(i int) Args { return Args{I: &i} }

// AtTime returns a new Args with T set to an instant.
func AtTime(t time.Time) Args { return Args{T: AtInstant(t)} }

// AtTimeSlice returns a new Args with T set to a TimeSlice.
func AtTimeSlice(s *timeslice.TimeSlice) Args { return Args{T: AtSlice(s)} }

// NoArgs is the empty kwargs set, "pv()".
var NoArgs = Args{}
