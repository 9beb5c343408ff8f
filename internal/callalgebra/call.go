// Package callalgebra implements Call: the deferred-expression algebra of
// spec §4.5. A Call is either a constant leaf, a (ParameterValue, kwargs)
// leaf to be invoked at realization, or an operator node combining the
// results of its children. Realize walks the tree with an explicit stack,
// mirroring the teacher's RulesEngine pattern of a flat, typed evaluation
// step run in sequence rather than recursive descent (internal/core/rules.go).
package callalgebra

import (
	"fmt"

	"gridcore/pkg/domain"
	"gridcore/pkg/pvalue"
)

// Observer is the observer handle Realize accepts. It is opaque to this
// package and Realize does not hand it on: leaf evaluators register
// observers on the TimeSlice carried in their own pvalue.Args.
type Observer any

// Invokable is the subset of a ParameterValue this package depends on, kept
// narrow so callalgebra does not need pvalue's concrete variant types to
// realize a tree.
type Invokable interface {
	Evaluate(args pvalue.Args) (any, bool)
}

// Kind discriminates a Call node's shape.
type Kind int

const (
	// KindConst holds a literal result, already realized.
	KindConst Kind = iota
	// KindLeaf holds a value to invoke with args at realization time.
	KindLeaf
	// KindOp combines the realized results of Args via Func.
	KindOp
)

// Call is a node in the deferred-expression tree (spec §4.5).
type Call struct {
	kind Kind

	constant any

	leafValue Invokable
	leafArgs  pvalue.Args

	opName string
	opFunc func(args []any) (any, error)
	opArgs []Call
}

// Const builds a leaf holding an already-known value.
func Const(value any) Call {
	return Call{kind: KindConst, constant: value}
}

// Leaf builds a leaf that invokes value with args at realization.
func Leaf(value Invokable, args pvalue.Args) Call {
	return Call{kind: KindLeaf, leafValue: value, leafArgs: args}
}

// Op builds an operator node: name is used for diagnostics only, fn reduces
// the realized results of children (in declaration order) to the node's own
// result.
func Op(name string, fn func(args []any) (any, error), children ...Call) Call {
	return Call{kind: KindOp, opName: name, opFunc: fn, opArgs: children}
}

// frame is one entry of the explicit post-order stack: the node being
// realized, how many of its children have been pushed so far, and the
// results collected from the children that have already completed.
type frame struct {
	call     Call
	childIdx int
	results  []any
}

// Realize performs a post-order walk over call's tree using an explicit
// stack (every child is realized before its parent's Func runs), per spec
// §4.5. Errors raised by an operator's Func bubble up as a
// domain.EvaluationError with the offending sub-expression's name embedded.
func Realize(call Call, observer Observer) (any, error) {
	stack := []*frame{{call: call}}
	var rootResult any
	haveRoot := false

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		switch top.call.kind {
		case KindConst:
			stack = stack[:len(stack)-1]
			deliver(stack, &rootResult, &haveRoot, top.call.constant)

		case KindLeaf:
			result, ok := top.call.leafValue.Evaluate(top.call.leafArgs)
			stack = stack[:len(stack)-1]
			if !ok {
				deliver(stack, &rootResult, &haveRoot, nil)
				continue
			}
			deliver(stack, &rootResult, &haveRoot, result)

		case KindOp:
			if top.childIdx < len(top.call.opArgs) {
				child := top.call.opArgs[top.childIdx]
				top.childIdx++
				stack = append(stack, &frame{call: child})
				continue
			}
			stack = stack[:len(stack)-1]
			result, err := top.call.opFunc(top.results)
			if err != nil {
				return nil, domain.EvaluationErrorf(err, exprName(top.call))
			}
			deliver(stack, &rootResult, &haveRoot, result)
		}
	}

	if !haveRoot {
		return nil, domain.EvaluationErrorf(fmt.Errorf("realize produced no result"), "<root>")
	}
	return rootResult, nil
}

// deliver records a completed node's result on its parent frame (the new
// top of stack), or as the final root result once the stack has drained.
func deliver(stack []*frame, rootResult *any, haveRoot *bool, value any) {
	if len(stack) == 0 {
		*rootResult = value
		*haveRoot = true
		return
	}
	parent := stack[len(stack)-1]
	parent.results = append(parent.results, value)
}

func exprName(c Call) string {
	switch c.kind {
	case KindOp:
		return c.opName
	case KindLeaf:
		return "<leaf>"
	default:
		return "<const>"
	}
}
