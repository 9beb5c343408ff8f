// Package classindex implements ObjectClass and RelationshipClass: the
// named, queryable collections of domain.Objects and their attached
// parameter values (spec §4.3), plus RelationshipClass's memoized
// filter→rows index (spec §9 "Memoization").
package classindex

import (
	"reflect"
	"time"

	"gridcore/internal/metrics"
	"gridcore/pkg/domain"
	"gridcore/pkg/pvalue"
)

// ObjectClass is a named, ordered collection of Objects together with the
// parameter values and defaults attached to them (spec §3 "ObjectClass").
type ObjectClass struct {
	Name string

	objects []*domain.Object
	byName  map[string]*domain.Object
	byID    map[uint64]*domain.Object

	paramValues   map[uint64]map[string]pvalue.Value
	paramDefaults map[string]pvalue.Value

	envs map[string]bool

	// Revision counts mutating calls, letting callers cheaply detect
	// "has this class changed since I last looked" without inspecting any
	// internal cache (supplemented feature, see DESIGN.md).
	Revision uint64

	// Recorder observes every Call, nil by default. Metrics are an
	// entirely optional collaborator; a nil Recorder costs nothing.
	Recorder metrics.Recorder
}

// NewObjectClass builds an empty ObjectClass.
func NewObjectClass(name string) *ObjectClass {
	return &ObjectClass{
		Name:          name,
		byName:        make(map[string]*domain.Object),
		byID:          make(map[uint64]*domain.Object),
		paramValues:   make(map[uint64]map[string]pvalue.Value),
		paramDefaults: make(map[string]pvalue.Value),
		envs:          make(map[string]bool),
	}
}

// AddObject appends o, which must have a name unique within the class.
func (oc *ObjectClass) AddObject(o *domain.Object) error {
	if _, exists := oc.byName[o.Name]; exists {
		return domain.InvariantError{Msg: "object name " + o.Name + " already present in class " + oc.Name}
	}
	oc.objects = append(oc.objects, o)
	oc.byName[o.Name] = o
	oc.byID[o.ID] = o
	oc.Revision++
	return nil
}

// AddObjects appends each of os, in order, stopping at the first error.
func (oc *ObjectClass) AddObjects(os ...*domain.Object) error {
	for _, o := range os {
		if err := oc.AddObject(o); err != nil {
			return err
		}
	}
	return nil
}

// SetParameterValues attaches values to o's parameter-value map. When merge
// is true, existing keys are kept and only the given ones are overwritten
// (a per-key merge); otherwise the whole map is replaced.
func (oc *ObjectClass) SetParameterValues(o *domain.Object, values map[string]pvalue.Value, merge bool) {
	if !merge || oc.paramValues[o.ID] == nil {
		merged := make(map[string]pvalue.Value, len(values))
		for k, v := range values {
			merged[k] = v
		}
		if merge {
			for k, v := range oc.paramValues[o.ID] {
				if _, overwritten := values[k]; !overwritten {
					merged[k] = v
				}
			}
		}
		oc.paramValues[o.ID] = merged
	} else {
		for k, v := range values {
			oc.paramValues[o.ID][k] = v
		}
	}
	oc.Revision++
}

// SetParameterDefaults attaches class-wide default parameter values, with
// the same merge semantics as SetParameterValues.
func (oc *ObjectClass) SetParameterDefaults(values map[string]pvalue.Value, merge bool) {
	if !merge {
		oc.paramDefaults = make(map[string]pvalue.Value, len(values))
	}
	for k, v := range values {
		oc.paramDefaults[k] = v
	}
	oc.Revision++
}

// Effective returns the parameter value that applies to o for name: its
// own stored value if present, else the class default, else Nothing.
func (oc *ObjectClass) Effective(o *domain.Object, name string) pvalue.Value {
	if vals, ok := oc.paramValues[o.ID]; ok {
		if v, ok := vals[name]; ok {
			return v
		}
	}
	if v, ok := oc.paramDefaults[name]; ok {
		return v
	}
	return pvalue.Nothing{}
}

// Get looks up the unique object with the given name.
func (oc *ObjectClass) Get(name string) (*domain.Object, bool) {
	o, ok := oc.byName[name]
	return o, ok
}

// Objects returns every object in the class, in insertion order.
func (oc *ObjectClass) Objects() []*domain.Object {
	return append([]*domain.Object(nil), oc.objects...)
}

// ObjectsWithParameter returns the objects that have name set explicitly in
// their own parameter_values (defaults do not count), used by the parameter
// engine's uniqueness match against an unspecified entity key (spec §4.4
// step 2).
func (oc *ObjectClass) ObjectsWithParameter(name string) []*domain.Object {
	var out []*domain.Object
	for _, o := range oc.objects {
		if vals, ok := oc.paramValues[o.ID]; ok {
			if _, ok := vals[name]; ok {
				out = append(out, o)
			}
		}
	}
	return out
}

// ByID looks up an object by id, for callers (e.g. internal/paramengine)
// that only hold an id.
func (oc *ObjectClass) ByID(id uint64) (*domain.Object, bool) {
	o, ok := oc.byID[id]
	return o, ok
}

// Call returns every object satisfying every filter: for filter (name,
// want), the object's Effective(name) must evaluate (with no further
// kwargs) to a value equal to want (spec §4.3 "pv() === value"). With no
// filters, every object is returned.
func (oc *ObjectClass) Call(filters map[string]any) []*domain.Object {
	if oc.Recorder == nil {
		return oc.call(filters)
	}
	start := time.Now()
	out := oc.call(filters)
	outcome := metrics.OutcomeHit
	if len(out) == 0 {
		outcome = metrics.OutcomeMiss
	}
	oc.Recorder.Observe(oc.Name, outcome, time.Since(start))
	return out
}

func (oc *ObjectClass) call(filters map[string]any) []*domain.Object {
	if len(filters) == 0 {
		return oc.Objects()
	}
	var out []*domain.Object
	for _, o := range oc.objects {
		if oc.matches(o, filters) {
			out = append(out, o)
		}
	}
	return out
}

func (oc *ObjectClass) matches(o *domain.Object, filters map[string]any) bool {
	for name, want := range filters {
		got, ok := oc.Effective(o, name).Evaluate(pvalue.NoArgs)
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// valuesEqual compares two evaluation results for equality. Pointer types
// (e.g. *domain.Object) compare by identity via ==; everything else falls
// back to reflect.DeepEqual, since a parameter value's result can be any of
// several concrete scalar, slice, or map shapes and no single comparable
// constraint covers them all.
func valuesEqual(a, b any) bool {
	if ao, ok := a.(*domain.Object); ok {
		bo, ok := b.(*domain.Object)
		return ok && ao == bo
	}
	return reflect.DeepEqual(a, b)
}
