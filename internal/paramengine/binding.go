// Package paramengine implements Parameter resolution (spec §4.4): mapping
// a Parameter's dimension kwargs down to a single entity in one of its
// classes, looking up that entity's effective ParameterValue, and invoking
// it with the remaining (i/t/inds) kwargs.
package paramengine

import (
	"sort"

	"gridcore/internal/classindex"
	"gridcore/pkg/domain"
	"gridcore/pkg/pvalue"
)

// Entity is the resolved index into a class: a single Object for an
// ObjectClass, or a full row for a RelationshipClass. source identifies
// which ClassBinding produced it, so later lookups (Value, Tuple) do not
// need to re-discover ownership.
type Entity struct {
	Single *domain.Object
	Row    map[string]*domain.Object
	source ClassBinding
}

// ClassBinding lets Parameter treat ObjectClass and RelationshipClass
// uniformly: both know their dimension labels, how to resolve a kwargs
// filter down to one entity, and how to look up a named parameter's
// effective value on that entity.
type ClassBinding interface {
	Labels() []string
	Dimensionality() int

	// Resolve extracts the entity key for paramName from dims, treating any
	// label left unspecified or wildcarded as requiring a uniqueness match
	// against entities with paramName explicitly set (spec §4.4 step 2). ok
	// is false if no entity or more than one candidate remains.
	Resolve(dims map[string]domain.FilterOperand, paramName string) (Entity, bool)

	// Value returns entity's effective ParameterValue for paramName (own
	// value, else class default, else Nothing).
	Value(entity Entity, paramName string) pvalue.Value

	// AllEntities returns every entity of the class, for Indices/
	// MaximumParameterValue's full scan.
	AllEntities() []Entity

	// Matches reports whether entity satisfies dims (used to let Indices
	// restrict its scan by dimension filters).
	Matches(entity Entity, dims map[string]domain.FilterOperand) bool

	// Tuple orders entity's objects by dimension label, for
	// indices_as_tuples.
	Tuple(entity Entity) []*domain.Object
}

// ObjectClassBinding adapts a *classindex.ObjectClass to ClassBinding. Its
// single dimension label is the class's own name.
type ObjectClassBinding struct {
	Class *classindex.ObjectClass
}

func (b ObjectClassBinding) Labels() []string    { return []string{b.Class.Name} }
func (b ObjectClassBinding) Dimensionality() int { return 1 }

func (b ObjectClassBinding) Resolve(dims map[string]domain.FilterOperand, paramName string) (Entity, bool) {
	op, ok := dims[b.Class.Name]
	if !ok {
		return Entity{}, false
	}
	if !op.IsWildcard() {
		if objs := op.Objects(); len(objs) == 1 {
			return Entity{Single: objs[0], source: b}, true
		}
	}
	candidates := b.Class.ObjectsWithParameter(paramName)
	if !op.IsWildcard() {
		candidates = filterObjects(candidates, op)
	}
	if len(candidates) == 1 {
		return Entity{Single: candidates[0], source: b}, true
	}
	return Entity{}, false
}

func (b ObjectClassBinding) Value(e Entity, paramName string) pvalue.Value {
	return b.Class.Effective(e.Single, paramName)
}

func (b ObjectClassBinding) AllEntities() []Entity {
	objs := b.Class.Objects()
	out := make([]Entity, len(objs))
	for i, o := range objs {
		out[i] = Entity{Single: o, source: b}
	}
	return out
}

func (b ObjectClassBinding) Matches(e Entity, dims map[string]domain.FilterOperand) bool {
	op, ok := dims[b.Class.Name]
	if !ok {
		return true
	}
	return op.Contains(e.Single)
}

func (b ObjectClassBinding) Tuple(e Entity) []*domain.Object {
	return []*domain.Object{e.Single}
}

func filterObjects(objs []*domain.Object, op domain.FilterOperand) []*domain.Object {
	var out []*domain.Object
	for _, o := range objs {
		if op.Contains(o) {
			out = append(out, o)
		}
	}
	return out
}

// RelationshipClassBinding adapts a *classindex.RelationshipClass to
// ClassBinding. Its dimension labels are the class's own dimension labels.
type RelationshipClassBinding struct {
	Class *classindex.RelationshipClass
}

func (b RelationshipClassBinding) Labels() []string { return b.Class.DimensionLabels() }
func (b RelationshipClassBinding) Dimensionality() int {
	return len(b.Class.DimensionLabels())
}

func (b RelationshipClassBinding) Resolve(dims map[string]domain.FilterOperand, paramName string) (Entity, bool) {
	rows, err := b.Class.FindRows(restrictTo(dims, b.Class.DimensionLabels()))
	if err != nil {
		return Entity{}, false
	}
	if len(rows) == 1 {
		return Entity{Row: b.Class.Row(rows[0]), source: b}, true
	}
	if len(rows) == 0 {
		return Entity{}, false
	}
	withParam := b.Class.RowsWithParameter(paramName)
	narrowed := intersectSortedInts(rows, withParam)
	if len(narrowed) == 1 {
		return Entity{Row: b.Class.Row(narrowed[0]), source: b}, true
	}
	return Entity{}, false
}

func (b RelationshipClassBinding) Value(e Entity, paramName string) pvalue.Value {
	return b.Class.Effective(e.Row, paramName)
}

func (b RelationshipClassBinding) AllEntities() []Entity {
	out := make([]Entity, b.Class.RowCount())
	for i := range out {
		out[i] = Entity{Row: b.Class.Row(i), source: b}
	}
	return out
}

func (b RelationshipClassBinding) Matches(e Entity, dims map[string]domain.FilterOperand) bool {
	for _, label := range b.Class.DimensionLabels() {
		op, ok := dims[label]
		if !ok {
			continue
		}
		if !op.Contains(e.Row[label]) {
			return false
		}
	}
	return true
}

func (b RelationshipClassBinding) Tuple(e Entity) []*domain.Object {
	labels := b.Class.DimensionLabels()
	out := make([]*domain.Object, len(labels))
	for i, label := range labels {
		out[i] = e.Row[label]
	}
	return out
}

// restrictTo keeps only the dims entries whose key is one of labels,
// defaulting absent labels to the Anything wildcard so FindRows sees every
// dimension of the class.
func restrictTo(dims map[string]domain.FilterOperand, labels []string) map[string]domain.FilterOperand {
	out := make(map[string]domain.FilterOperand, len(labels))
	for _, label := range labels {
		if op, ok := dims[label]; ok {
			out[label] = op
		} else {
			out[label] = domain.Anything
		}
	}
	return out
}

func intersectSortedInts(a, b []int) []int {
	bs := append([]int(nil), b...)
	sort.Ints(bs)
	set := make(map[int]bool, len(bs))
	for _, v := range bs {
		set[v] = true
	}
	var out []int
	for _, v := range a {
		if set[v] {
			out = append(out, v)
		}
	}
	return out
}

// sortByDescendingDimensionality returns bindings ordered most- to
// least-dimensional, stable on ties (spec §4.4 step 1).
func sortByDescendingDimensionality(classes []ClassBinding) []ClassBinding {
	out := append([]ClassBinding(nil), classes...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Dimensionality() > out[j].Dimensionality()
	})
	return out
}
