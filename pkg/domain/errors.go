package domain

import "fmt"

// NotFoundError is raised when a parameter is undefined for the given entity
// and the caller asked for strict evaluation. Grounded on the teacher's
// ErrNotFound (internal/core/service.go), generalised from entity/id to
// parameter name/args.
type NotFoundError struct {
	Parameter string
	Args      map[string]any
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("parameter %s not found for args %v", e.Parameter, e.Args)
}

// BadFilterError is raised when a filter key is not a member of the target
// class's dimension labels.
type BadFilterError struct {
	Class string
	Key   string
}

func (e BadFilterError) Error() string {
	return fmt.Sprintf("%s: filter key %q is not a member of this class", e.Class, e.Key)
}

// AmbiguousError models a wildcard parameter lookup that matched more than
// one stored value. No code path constructs it: an ambiguous wildcard
// lookup is treated as absent, so the caller gets its default value (or a
// NotFoundError under strict evaluation).
type AmbiguousError struct {
	Parameter string
	Matches   int
}

func (e AmbiguousError) Error() string {
	return fmt.Sprintf("parameter %s: ambiguous wildcard lookup matched %d values", e.Parameter, e.Matches)
}

// EvaluationError wraps an error raised while realizing a Call tree, with
// the offending sub-expression embedded for diagnostics. pvalue.Wrap also
// uses it, with Expr "parameter_value", for malformed raw values.
type EvaluationError struct {
	Expr string
	Err  error
}

func (e EvaluationError) Error() string {
	return fmt.Sprintf("evaluation error in %s: %v", e.Expr, e.Err)
}

func (e EvaluationError) Unwrap() error { return e.Err }

// EvaluationErrorf wraps err as an EvaluationError attributed to expr.
func EvaluationErrorf(err error, expr string) error {
	return EvaluationError{Expr: expr, Err: err}
}

// InvariantError signals a programmer error: out-of-order time slice
// construction, mismatched dimension names on class construction, or an
// unknown value-type tag during parsing. timeslice.New raises it as a panic
// via PanicInvariant; the class mutators (AddObject, AddRelationship,
// AddDimension) and pvalue.Wrap return it as an ordinary error value.
type InvariantError struct {
	Msg string
}

func (e InvariantError) Error() string { return "invariant violated: " + e.Msg }

// PanicInvariant raises an InvariantError as a panic, matching the spec's
// "Invariant violations abort the operation."
func PanicInvariant(format string, args ...any) {
	panic(InvariantError{Msg: fmt.Sprintf(format, args...)})
}
