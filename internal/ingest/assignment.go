package ingest

import (
	"fmt"

	"gridcore/pkg/pvalue"
)

// Assignment is a Row with its RawValue parsed into a ParameterValue via
// pvalue.Wrap (spec's "parameter_value(v)").
type Assignment struct {
	ClassName     string
	ObjectName    string
	ParameterName string
	Value         pvalue.Value
}

// WrapRows converts every row to an Assignment, stopping at the first
// value that pvalue.Wrap rejects.
func WrapRows(rows []Row) ([]Assignment, error) {
	out := make([]Assignment, len(rows))
	for i, r := range rows {
		v, err := pvalue.Wrap(r.RawValue)
		if err != nil {
			return nil, fmt.Errorf("ingest: row %d (%s.%s.%s): %w", i, r.ClassName, r.ObjectName, r.ParameterName, err)
		}
		out[i] = Assignment{
			ClassName:     r.ClassName,
			ObjectName:    r.ObjectName,
			ParameterName: r.ParameterName,
			Value:         v,
		}
	}
	return out, nil
}
