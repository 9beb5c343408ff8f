package domain

// FilterOperand is the value side of a class query filter: a single object,
// a set of objects, or the Anything wildcard.
type FilterOperand struct {
	wildcard bool
	objects  map[uint64]*Object
}

// Anything is the wildcard operand: it short-circuits set algebra so that
// intersect(x, Anything) == x and every membership test against it succeeds.
var Anything = FilterOperand{wildcard: true}

// IsWildcard reports whether the operand is the Anything wildcard.
func (f FilterOperand) IsWildcard() bool { return f.wildcard }

// One builds a single-object operand.
func One(o *Object) FilterOperand {
	return FilterOperand{objects: map[uint64]*Object{o.ID: o}}
}

// Set builds a multi-object operand.
func Set(objs ...*Object) FilterOperand {
	m := make(map[uint64]*Object, len(objs))
	for _, o := range objs {
		m[o.ID] = o
	}
	return FilterOperand{objects: m}
}

// Objects returns the concrete objects named by the operand. It is invalid
// to call this on the wildcard; callers must check IsWildcard first.
func (f FilterOperand) Objects() []*Object {
	return sortedObjects(f.objects)
}

// Contains reports whether o satisfies the operand: Anything satisfies
// everything, otherwise membership in the operand's object set.
func (f FilterOperand) Contains(o *Object) bool {
	if f.wildcard {
		return true
	}
	_, ok := f.objects[o.ID]
	return ok
}
