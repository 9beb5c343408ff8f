package metrics

import (
	"expvar"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

var expvarSeq uint64

// ExpvarRecorder publishes per-subject outcome tallies via expvar, for
// deployments that want process-local metrics with no external dependency
// (grounded on the teacher's ExpvarMetricsRecorder, restructured around
// Outcome rather than a generic success/error status string).
type ExpvarRecorder struct {
	name   string
	mu     sync.Mutex
	byName map[string]*SubjectStats
}

// SubjectStats tallies every Outcome seen for one subject, plus the total
// time spent resolving it.
type SubjectStats struct {
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	NotFound   int64   `json:"not_found"`
	BadFilter  int64   `json:"bad_filter"`
	Errors     int64   `json:"errors"`
	DurationMS float64 `json:"duration_ms_total"`
}

func (s *SubjectStats) add(outcome Outcome, duration time.Duration) {
	s.DurationMS += float64(duration) / float64(time.Millisecond)
	switch outcome {
	case OutcomeHit:
		s.Hits++
	case OutcomeMiss:
		s.Misses++
	case OutcomeNotFound:
		s.NotFound++
	case OutcomeBadFilter:
		s.BadFilter++
	default:
		s.Errors++
	}
}

// ExpvarSnapshot is a read-only copy of an ExpvarRecorder's current state.
type ExpvarSnapshot struct {
	Subjects   map[string]SubjectStats `json:"subjects"`
	RecordedAt time.Time               `json:"recorded_at"`
}

// NewExpvarRecorder constructs an expvar-backed recorder and publishes it
// under name. An empty name gets a generated, process-unique one.
func NewExpvarRecorder(name string) *ExpvarRecorder {
	if name == "" {
		id := atomic.AddUint64(&expvarSeq, 1)
		name = fmt.Sprintf("gridcore_engine_calls_%d", id)
	}
	rec := &ExpvarRecorder{
		name:   name,
		byName: make(map[string]*SubjectStats),
	}
	expvar.Publish(name, expvar.Func(func() any {
		return rec.Snapshot()
	}))
	return rec
}

// Name returns the expvar export name this recorder was published under.
func (r *ExpvarRecorder) Name() string { return r.name }

// Snapshot returns an immutable copy of the aggregated metrics.
func (r *ExpvarRecorder) Snapshot() ExpvarSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	subjects := make(map[string]SubjectStats, len(r.byName))
	for name, stats := range r.byName {
		subjects[name] = *stats
	}
	return ExpvarSnapshot{
		Subjects:   subjects,
		RecordedAt: time.Now().UTC(),
	}
}

// Observe records one subject's outcome.
func (r *ExpvarRecorder) Observe(subject string, outcome Outcome, duration time.Duration) {
	if subject == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stats, ok := r.byName[subject]
	if !ok {
		stats = &SubjectStats{}
		r.byName[subject] = stats
	}
	stats.add(outcome, duration)
}
