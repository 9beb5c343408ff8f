// Package domain defines the dependency-free entity shapes of the
// entity-attribute-value model: objects, the anything wildcard, and the
// error taxonomy shared by every layer above it.
package domain

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// Object is a named entity with a stable id, optionally grouping or grouped
// by other objects. Names are unique within a class but objects are
// identified by ID.
type Object struct {
	Name    string
	ID      uint64
	members map[uint64]*Object
	groups  map[uint64]*Object
}

// NewObject constructs an object with a freshly minted id.
func NewObject(name string) *Object {
	return &Object{Name: name, ID: newObjectID()}
}

// newObjectID mints a random 64-bit id, following the teacher's
// crypto/rand-backed MemoryStore.newID, narrowed to the uint64 the spec's
// Object.id invariant requires instead of a hex string.
func newObjectID() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Errorf("domain: generate object id: %w", err))
	}
	return binary.BigEndian.Uint64(b[:])
}

// AddMember records child in the membership set. No cycle check is
// performed on insert, matching the spec's "DAG (no cycle invariant
// enforced on insert)".
func (o *Object) AddMember(child *Object) {
	if o.members == nil {
		o.members = make(map[uint64]*Object)
	}
	o.members[child.ID] = child
	if child.groups == nil {
		child.groups = make(map[uint64]*Object)
	}
	child.groups[o.ID] = o
}

// Members returns the objects registered as members of o.
func (o *Object) Members() []*Object {
	return sortedObjects(o.members)
}

// Groups returns the objects that o is a member of.
func (o *Object) Groups() []*Object {
	return sortedObjects(o.groups)
}

func sortedObjects(m map[uint64]*Object) []*Object {
	if len(m) == 0 {
		return nil
	}
	out := make([]*Object, 0, len(m))
	for _, o := range m {
		out = append(out, o)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].ID > out[j].ID; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

func (o *Object) String() string {
	if o == nil {
		return "<nil>"
	}
	return o.Name
}
