package paramengine

import (
	"math"
	"time"

	"gridcore/internal/metrics"
	"gridcore/pkg/domain"
	"gridcore/pkg/pvalue"
	"gridcore/pkg/timeslice"
)

// Parameter is a named attribute defined over one or more classes (spec §3
// "Parameter"). Classes are tried in descending dimensionality order, so a
// RelationshipClass is preferred over an ObjectClass sharing a label.
type Parameter struct {
	Name    string
	classes []ClassBinding

	// Recorder observes every Call, nil by default. Metrics are an
	// entirely optional collaborator; a nil Recorder costs nothing.
	Recorder metrics.Recorder
}

// NewParameter builds a Parameter over classes, pre-sorting them by
// descending dimensionality (spec §4.4 step 1) once at construction.
func NewParameter(name string, classes ...ClassBinding) *Parameter {
	return &Parameter{Name: name, classes: sortByDescendingDimensionality(classes)}
}

// Kwargs bundles a Parameter call's arguments: dimension-label filters plus
// the i/t/inds remaining-argument triple and the strict/default policy.
type Kwargs struct {
	Dims    map[string]domain.FilterOperand
	Args    pvalue.Args
	Strict  bool
	Default any
}

// Call implements spec §4.4: resolve the first class whose dimension labels
// are all present in kwargs, resolve its entity key, look up the effective
// ParameterValue, and invoke it with the remaining kwargs. If no class's
// labels are all present, or the resolved value does not evaluate, _strict
// raises NotFound and otherwise _default is returned.
func (p *Parameter) Call(kw Kwargs) (any, error) {
	if p.Recorder == nil {
		result, _, err := p.call(kw)
		return result, err
	}
	start := time.Now()
	result, hit, err := p.call(kw)
	outcome := metrics.OutcomeHit
	switch {
	case err != nil:
		outcome = metrics.ClassifyError(err)
	case !hit:
		outcome = metrics.OutcomeMiss
	}
	p.Recorder.Observe(p.Name, outcome, time.Since(start))
	return result, err
}

// call is Call's body, plus a hit flag distinguishing a resolved value from
// a strict/default fallback, so the Recorder wrapper doesn't need to guess
// at outcome from the result's dynamic type.
func (p *Parameter) call(kw Kwargs) (any, bool, error) {
	for _, c := range p.classes {
		if !allLabelsPresent(c.Labels(), kw.Dims) {
			continue
		}

		var value pvalue.Value
		if entity, ok := c.Resolve(kw.Dims, p.Name); ok {
			value = c.Value(entity, p.Name)
		} else {
			value = pvalue.Nothing{}
		}

		if result, ok := value.Evaluate(kw.Args); ok {
			return result, true, nil
		}
		result, err := p.notFoundOrDefault(kw)
		return result, false, err
	}
	result, err := p.notFoundOrDefault(kw)
	return result, false, err
}

func (p *Parameter) notFoundOrDefault(kw Kwargs) (any, error) {
	if kw.Strict {
		return nil, domain.NotFoundError{Parameter: p.Name, Args: dimsAsAny(kw.Dims)}
	}
	return kw.Default, nil
}

func allLabelsPresent(labels []string, dims map[string]domain.FilterOperand) bool {
	for _, l := range labels {
		if _, ok := dims[l]; !ok {
			return false
		}
	}
	return true
}

func dimsAsAny(dims map[string]domain.FilterOperand) map[string]any {
	out := make(map[string]any, len(dims))
	for k, v := range dims {
		out[k] = v
	}
	return out
}

// Indices yields every entity of every class of p for which the resolved
// value is not nothing, optionally restricted to entities matching dims
// (spec §4.4 "indices(p; kwargs…)").
func Indices(p *Parameter, dims map[string]domain.FilterOperand, args pvalue.Args) []Entity {
	var out []Entity
	for _, c := range p.classes {
		for _, e := range c.AllEntities() {
			if dims != nil && !c.Matches(e, dims) {
				continue
			}
			if _, ok := c.Value(e, p.Name).Evaluate(args); ok {
				out = append(out, e)
			}
		}
	}
	return out
}

// IndicesAsTuples is Indices, with each entity projected to its ordered
// Object tuple (a single-element tuple for an ObjectClass entity).
func IndicesAsTuples(p *Parameter, dims map[string]domain.FilterOperand, args pvalue.Args) [][]*domain.Object {
	entities := Indices(p, dims, args)
	out := make([][]*domain.Object, len(entities))
	for i, e := range entities {
		out[i] = e.source.Tuple(e)
	}
	return out
}

// MaximumParameterValue computes the maximum scalar magnitude reachable
// from p's indexed entities, recursing into container values and skipping
// NaN. TimePattern entries with Month or Year precision are compared via
// their period's upper-bound day count (31, 366) rather than their stored
// value (spec §8: "maximum_parameter_value ignores NaN and treats a Month
// period as 31 days, Year as 366 days, when compared to smaller periods").
func MaximumParameterValue(p *Parameter) (float64, bool) {
	var mags []float64
	for _, e := range Indices(p, nil, pvalue.NoArgs) {
		mags = append(mags, collectMagnitudes(e.source.Value(e, p.Name))...)
	}
	max, ok := 0.0, false
	for _, m := range mags {
		if !ok || m > max {
			max, ok = m, true
		}
	}
	return max, ok
}

func collectMagnitudes(v pvalue.Value) []float64 {
	switch t := v.(type) {
	case pvalue.Nothing:
		return nil
	case pvalue.Scalar[float64]:
		if math.IsNaN(t.V) {
			return nil
		}
		return []float64{t.V}
	case pvalue.Scalar[int64]:
		return []float64{float64(t.V)}
	case pvalue.Array[float64]:
		var out []float64
		for _, x := range t.Values {
			if !math.IsNaN(x) {
				out = append(out, x)
			}
		}
		return out
	case pvalue.Array[int64]:
		out := make([]float64, len(t.Values))
		for i, x := range t.Values {
			out[i] = float64(x)
		}
		return out
	case pvalue.TimePattern:
		var out []float64
		for _, entry := range t.Entries {
			switch entry.Periods.Precision() {
			case timeslice.FieldMonth:
				out = append(out, 31.0)
			case timeslice.FieldYear:
				out = append(out, 366.0)
			default:
				if !math.IsNaN(entry.Value) {
					out = append(out, entry.Value)
				}
			}
		}
		return out
	case pvalue.StandardTimeSeries:
		return skipNaN(t.Values)
	case pvalue.RepeatingTimeSeries:
		return skipNaN(t.Values)
	case pvalue.MapValue:
		var out []float64
		for _, entry := range t.Entries {
			out = append(out, collectMagnitudes(entry.Value)...)
		}
		return out
	default:
		return nil
	}
}

func skipNaN(values []float64) []float64 {
	var out []float64
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
