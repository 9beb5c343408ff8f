package classindex

import (
	"sort"
	"strconv"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"gridcore/internal/metrics"
	"gridcore/pkg/domain"
	"gridcore/pkg/pvalue"
)

const memoSize = 256

// RelationshipClass is an n-ary relationship over dimension labels, each
// row a mapping label → Object (spec §3 "RelationshipClass").
type RelationshipClass struct {
	Name string

	objectClassNames       []string
	intactObjectClassNames []string

	relationships []map[string]*domain.Object

	paramValues   map[string]map[string]pvalue.Value
	paramDefaults map[string]pvalue.Value

	rowMap map[string]map[uint64][]int

	memo *lru.Cache[uint64, []int]

	Revision uint64

	// Recorder observes every Call, nil by default. Metrics are an
	// entirely optional collaborator; a nil Recorder costs nothing.
	Recorder metrics.Recorder
}

// NewRelationshipClass builds an empty RelationshipClass over labels.
func NewRelationshipClass(name string, labels ...string) *RelationshipClass {
	memo, err := lru.New[uint64, []int](memoSize)
	if err != nil {
		domain.PanicInvariant("could not allocate relationship class memo: %v", err)
	}
	rc := &RelationshipClass{
		Name:                   name,
		objectClassNames:       append([]string(nil), labels...),
		intactObjectClassNames: append([]string(nil), labels...),
		paramValues:            make(map[string]map[string]pvalue.Value),
		paramDefaults:          make(map[string]pvalue.Value),
		rowMap:                 make(map[string]map[uint64][]int),
		memo:                   memo,
	}
	for _, label := range labels {
		rc.rowMap[label] = make(map[uint64][]int)
	}
	return rc
}

// DimensionLabels returns the class's current dimension labels, in order.
func (rc *RelationshipClass) DimensionLabels() []string {
	return append([]string(nil), rc.objectClassNames...)
}

// AddRelationship appends row, whose label set must exactly equal the
// class's current dimension labels.
func (rc *RelationshipClass) AddRelationship(row map[string]*domain.Object) error {
	if err := rc.validateRow(row); err != nil {
		return err
	}
	idx := len(rc.relationships)
	rc.relationships = append(rc.relationships, row)
	for label, obj := range row {
		rc.rowMap[label][obj.ID] = append(rc.rowMap[label][obj.ID], idx)
	}
	rc.invalidate()
	return nil
}

// AddRelationships appends each row in order, stopping at the first error.
func (rc *RelationshipClass) AddRelationships(rows ...map[string]*domain.Object) error {
	for _, row := range rows {
		if err := rc.AddRelationship(row); err != nil {
			return err
		}
	}
	return nil
}

func (rc *RelationshipClass) validateRow(row map[string]*domain.Object) error {
	if len(row) != len(rc.objectClassNames) {
		return domain.InvariantError{Msg: "relationship row label count does not match " + rc.Name}
	}
	for _, label := range rc.objectClassNames {
		if _, ok := row[label]; !ok {
			return domain.InvariantError{Msg: "relationship row missing label " + label + " in " + rc.Name}
		}
	}
	return nil
}

// rowKey builds the canonical string key under which a row's parameter
// values are stored, ordered by the class's current dimension labels.
func (rc *RelationshipClass) rowKey(row map[string]*domain.Object) string {
	return rc.tupleKeyOver(row, rc.objectClassNames)
}

// SetParameterValues attaches values to row's parameter-value map, with the
// same merge semantics as ObjectClass.SetParameterValues.
func (rc *RelationshipClass) SetParameterValues(row map[string]*domain.Object, values map[string]pvalue.Value, merge bool) {
	key := rc.rowKey(row)
	if !merge || rc.paramValues[key] == nil {
		merged := make(map[string]pvalue.Value, len(values))
		if merge {
			for k, v := range rc.paramValues[key] {
				merged[k] = v
			}
		}
		for k, v := range values {
			merged[k] = v
		}
		rc.paramValues[key] = merged
	} else {
		for k, v := range values {
			rc.paramValues[key][k] = v
		}
	}
	rc.Revision++
}

// SetParameterDefaults attaches class-wide default parameter values.
func (rc *RelationshipClass) SetParameterDefaults(values map[string]pvalue.Value, merge bool) {
	if !merge {
		rc.paramDefaults = make(map[string]pvalue.Value, len(values))
	}
	for k, v := range values {
		rc.paramDefaults[k] = v
	}
	rc.Revision++
}

// Effective returns the parameter value applying to row for name.
func (rc *RelationshipClass) Effective(row map[string]*domain.Object, name string) pvalue.Value {
	key := rc.rowKey(row)
	if vals, ok := rc.paramValues[key]; ok {
		if v, ok := vals[name]; ok {
			return v
		}
	}
	if v, ok := rc.paramDefaults[name]; ok {
		return v
	}
	return pvalue.Nothing{}
}

func (rc *RelationshipClass) invalidate() {
	rc.memo.Purge()
	rc.Revision++
}

// Row returns the row at idx.
func (rc *RelationshipClass) Row(idx int) map[string]*domain.Object {
	return rc.relationships[idx]
}

// RowCount returns the number of stored relationships.
func (rc *RelationshipClass) RowCount() int { return len(rc.relationships) }

// RowsWithParameter returns the row indices that have name set explicitly
// in their own parameter_values, used by the parameter engine's uniqueness
// match against a partially unspecified entity key (spec §4.4 step 2).
func (rc *RelationshipClass) RowsWithParameter(name string) []int {
	var out []int
	for i, row := range rc.relationships {
		key := rc.rowKey(row)
		if vals, ok := rc.paramValues[key]; ok {
			if _, ok := vals[name]; ok {
				out = append(out, i)
			}
		}
	}
	return out
}

// FindRows resolves filters to row indices per spec §4.3: for each label,
// consult row_map[label]; a missing label is a BadFilterError; a wildcard
// operand contributes nothing; otherwise the union of matching rows is
// intersected into the running set. The computed vector is memoized under
// the filter's canonical key.
func (rc *RelationshipClass) FindRows(filters map[string]domain.FilterOperand) ([]int, error) {
	for label := range filters {
		if _, ok := rc.rowMap[label]; !ok {
			return nil, domain.BadFilterError{Class: rc.Name, Key: label}
		}
	}

	key := memoCacheKey(filters)
	if cached, ok := rc.memo.Get(key); ok {
		return cached, nil
	}

	var result []int
	started := false
	for label, op := range filters {
		if op.IsWildcard() {
			continue
		}
		seen := make(map[int]bool)
		var matched []int
		for _, obj := range op.Objects() {
			for _, idx := range rc.rowMap[label][obj.ID] {
				if !seen[idx] {
					seen[idx] = true
					matched = append(matched, idx)
				}
			}
		}
		sort.Ints(matched)
		if !started {
			result = matched
			started = true
			continue
		}
		result = intersectSorted(result, matched)
	}
	if !started {
		result = make([]int, len(rc.relationships))
		for i := range result {
			result[i] = i
		}
	}

	rc.memo.Add(key, result)
	return result, nil
}

func intersectSorted(a, b []int) []int {
	var out []int
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// Call implements §4.3's read path: resolve filters to rows via FindRows,
// then project per compact/remaining-label rules. With no filters, the raw
// row vector is returned. The return type is necessarily polymorphic
// ([]map[string]*domain.Object, []*domain.Object, []map[string]*domain.Object
// restricted to R, or defaultValue itself).
func (rc *RelationshipClass) Call(filters map[string]domain.FilterOperand, compact bool, defaultValue any) (any, error) {
	if rc.Recorder == nil {
		result, _, err := rc.call(filters, compact, defaultValue)
		return result, err
	}
	start := time.Now()
	result, matched, err := rc.call(filters, compact, defaultValue)
	outcome := metrics.OutcomeHit
	switch {
	case err != nil:
		outcome = metrics.ClassifyError(err)
	case !matched:
		outcome = metrics.OutcomeMiss
	}
	rc.Recorder.Observe(rc.Name, outcome, time.Since(start))
	return result, err
}

// call is Call's body, plus a matched flag so the Recorder wrapper can tell
// "rows found" apart from "filters matched nothing" without guessing from
// the result's dynamic type.
func (rc *RelationshipClass) call(filters map[string]domain.FilterOperand, compact bool, defaultValue any) (any, bool, error) {
	if len(filters) == 0 {
		return rc.allRows(), true, nil
	}

	rows, err := rc.FindRows(filters)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return defaultValue, false, nil
	}
	if !compact {
		out := make([]map[string]*domain.Object, len(rows))
		for i, idx := range rows {
			out[i] = rc.relationships[idx]
		}
		return out, true, nil
	}

	remaining := rc.remainingLabels(filters)
	switch len(remaining) {
	case 0:
		return []map[string]*domain.Object{{}}, true, nil
	case 1:
		label := remaining[0]
		var out []*domain.Object
		seen := make(map[uint64]bool)
		for _, idx := range rows {
			obj := rc.relationships[idx][label]
			if !seen[obj.ID] {
				seen[obj.ID] = true
				out = append(out, obj)
			}
		}
		return out, true, nil
	default:
		var out []map[string]*domain.Object
		seen := make(map[string]bool)
		for _, idx := range rows {
			row := rc.relationships[idx]
			tuple := make(map[string]*domain.Object, len(remaining))
			for _, label := range remaining {
				tuple[label] = row[label]
			}
			key := rc.tupleKeyOver(tuple, remaining)
			if !seen[key] {
				seen[key] = true
				out = append(out, tuple)
			}
		}
		return out, true, nil
	}
}

func (rc *RelationshipClass) allRows() []map[string]*domain.Object {
	return append([]map[string]*domain.Object(nil), rc.relationships...)
}

func (rc *RelationshipClass) remainingLabels(filters map[string]domain.FilterOperand) []string {
	var out []string
	for _, label := range rc.objectClassNames {
		if _, filtered := filters[label]; !filtered {
			out = append(out, label)
		}
	}
	return out
}

func (rc *RelationshipClass) tupleKeyOver(tuple map[string]*domain.Object, labels []string) string {
	var b strings.Builder
	for i, label := range labels {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(label)
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(tuple[label].ID, 10))
	}
	return b.String()
}

// AddDimension appends label to both label vectors, attaches obj to every
// existing row, rekeys parameter_values from the old row key to the new
// one, initializes row_map[label], and invalidates the memo (spec §4.3
// "add_dimension!"). Duplicate parameter-value keys after rekeying are
// rejected (spec §9 Open Question: "reject duplicates").
func (rc *RelationshipClass) AddDimension(label string, obj *domain.Object) error {
	for _, existing := range rc.objectClassNames {
		if existing == label {
			return domain.InvariantError{Msg: "dimension label " + label + " already present on " + rc.Name}
		}
	}

	rekeyed := make(map[string]map[string]pvalue.Value, len(rc.paramValues))
	for i, row := range rc.relationships {
		oldKey := rc.rowKey(row)
		newRow := make(map[string]*domain.Object, len(row)+1)
		for k, v := range row {
			newRow[k] = v
		}
		newRow[label] = obj
		newKey := rc.tupleKeyOver(newRow, append(append([]string(nil), rc.objectClassNames...), label))
		if vals, ok := rc.paramValues[oldKey]; ok {
			if _, exists := rekeyed[newKey]; exists {
				return domain.InvariantError{Msg: "add_dimension! produced duplicate parameter-value key on " + rc.Name}
			}
			rekeyed[newKey] = vals
		}
		rc.relationships[i] = newRow
	}

	rc.objectClassNames = append(rc.objectClassNames, label)
	rc.intactObjectClassNames = append(rc.intactObjectClassNames, label)
	rc.paramValues = rekeyed

	idxs := make([]int, len(rc.relationships))
	for i := range idxs {
		idxs[i] = i
	}
	rc.rowMap[label] = map[uint64][]int{obj.ID: idxs}

	rc.invalidate()
	return nil
}
