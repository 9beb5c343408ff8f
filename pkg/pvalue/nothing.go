package pvalue

// Nothing is the absence variant: every call shape evaluates to nothing
// (spec §4.2, "Nothing: every kwarg combination → nothing").
type Nothing struct{}

func (Nothing) Evaluate(Args) (any, bool) { return nil, false }

func (Nothing) isParameterValue() {}
