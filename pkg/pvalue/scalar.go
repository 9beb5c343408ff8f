package pvalue

// Scalar holds a single value of any ingestible scalar type. Every kwarg
// combination evaluates to the held value unchanged (spec §4.2, "Scalar: no
// kw / i / t → value" in every row).
type Scalar[T ScalarValue] struct {
	V T
}

// NewScalar constructs a Scalar wrapping v.
func NewScalar[T ScalarValue](v T) Scalar[T] { return Scalar[T]{V: v} }

func (s Scalar[T]) Evaluate(Args) (any, bool) { return s.V, true }

func (Scalar[T]) isParameterValue() {}
