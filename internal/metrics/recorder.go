// Package metrics records engine query/evaluation outcomes behind a small
// Recorder interface, grounded on the teacher's MetricsRecorder/
// ExpvarMetricsRecorder pair (internal/core/observability_exporters.go).
// Unlike the teacher's generic success/error boolean, Outcome is closed
// over the engine's own error taxonomy (pkg/domain's NotFoundError,
// BadFilterError, and the ordinary hit/miss case), so a recorder can answer
// "how often does this parameter come back undefined" without parsing
// strings. Metrics are entirely outside the spec's core contract; callers
// that never set a Recorder pay nothing.
package metrics

import (
	"errors"
	"time"

	"gridcore/pkg/domain"
)

// Outcome classifies a single Call's result.
type Outcome int

const (
	// OutcomeHit is a Call that resolved to a non-empty, non-default value.
	OutcomeHit Outcome = iota
	// OutcomeMiss is a Call that resolved with nothing to report (an empty
	// result set, or a default value standing in for one) but raised no
	// error.
	OutcomeMiss
	// OutcomeNotFound mirrors domain.NotFoundError: a strict Parameter call
	// found no value.
	OutcomeNotFound
	// OutcomeBadFilter mirrors domain.BadFilterError: a filter key named a
	// label the target class doesn't have.
	OutcomeBadFilter
	// OutcomeError covers every other error.
	OutcomeError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeHit:
		return "hit"
	case OutcomeMiss:
		return "miss"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeBadFilter:
		return "bad_filter"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// ClassifyError maps err to its Outcome. A nil err is OutcomeHit.
func ClassifyError(err error) Outcome {
	if err == nil {
		return OutcomeHit
	}
	var notFound domain.NotFoundError
	var badFilter domain.BadFilterError
	switch {
	case errors.As(err, &notFound):
		return OutcomeNotFound
	case errors.As(err, &badFilter):
		return OutcomeBadFilter
	default:
		return OutcomeError
	}
}

// Recorder receives one Observe call per completed Call against a Parameter,
// ObjectClass, or RelationshipClass, subject naming the one that was called.
type Recorder interface {
	Observe(subject string, outcome Outcome, duration time.Duration)
}

// NoopRecorder discards every observation, for callers that want a non-nil
// Recorder that records nothing. An unset Recorder field is nil, not a
// NoopRecorder; the classes and Parameter check for nil and skip recording.
type NoopRecorder struct{}

func (NoopRecorder) Observe(string, Outcome, time.Duration) {}

// Time wraps fn, classifying its returned error with ClassifyError and
// recording the outcome and elapsed duration on rec under subject. A nil
// rec is valid and simply skips recording.
func Time(rec Recorder, subject string, fn func() error) error {
	if rec == nil {
		return fn()
	}
	start := time.Now()
	err := fn()
	rec.Observe(subject, ClassifyError(err), time.Since(start))
	return err
}
