package pvalue

import (
	"fmt"
	"time"

	"gridcore/pkg/domain"
	"gridcore/pkg/timeslice"
)

// Wrap is the ingestion boundary (spec §2's "parameter_value(v)"): it turns
// a loosely typed raw value decoded off a loader (JSON blobs out of the
// sqlite/postgres snapshot tables, see internal/ingest) into one of the
// seven ParameterValue variants. raw is deep-cloned first so the returned
// value never aliases memory the loader's decoder still owns.
//
// Recognized shapes:
//
//	nil                                  -> Nothing
//	bool, string, float64, int64, time.Time -> Scalar[T]
//	[]any of a uniform scalar kind        -> Array[T]
//	map[string]any{"type": "time_pattern", "entries": [...]}
//	map[string]any{"type": "time_series", "indexes": [...], "values": [...], "ignore_year": bool}
//	map[string]any{"type": "repeating_time_series", "indexes": [...], "values": [...], "span_seconds": float64}
//	map[string]any{"type": "map", "entries": [...]}
func Wrap(raw any) (Value, error) {
	raw = deepCloneRaw(raw)
	return wrap(raw)
}

func wrap(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Nothing{}, nil
	case bool:
		return NewScalar(v), nil
	case string:
		return NewScalar(v), nil
	case float64:
		return NewScalar(v), nil
	case int64:
		return NewScalar(v), nil
	case int:
		return NewScalar(int64(v)), nil
	case time.Time:
		return NewScalar(v), nil
	case []any:
		return wrapArray(v)
	case map[string]any:
		return wrapTagged(v)
	default:
		return nil, domain.EvaluationErrorf(fmt.Errorf("unrecognized raw parameter value type %T", raw), "parameter_value")
	}
}

func wrapArray(items []any) (Value, error) {
	if len(items) == 0 {
		return NewArray([]float64{}), nil
	}
	switch items[0].(type) {
	case bool:
		return wrapArrayOf[bool](items)
	case string:
		return wrapArrayOf[string](items)
	case float64:
		return wrapArrayOf[float64](items)
	case int64:
		return wrapArrayOf[int64](items)
	case time.Time:
		return wrapArrayOf[time.Time](items)
	default:
		return nil, domain.EvaluationErrorf(fmt.Errorf("unrecognized array element type %T", items[0]), "parameter_value")
	}
}

func wrapArrayOf[T ScalarValue](items []any) (Value, error) {
	out := make([]T, len(items))
	for i, item := range items {
		v, ok := item.(T)
		if !ok {
			return nil, domain.EvaluationErrorf(fmt.Errorf("array element %d has type %T, want %T", i, item, *new(T)), "parameter_value")
		}
		out[i] = v
	}
	return NewArray(out), nil
}

func wrapTagged(m map[string]any) (Value, error) {
	kind, _ := m["type"].(string)
	switch kind {
	case "time_pattern":
		return wrapTimePattern(m)
	case "time_series":
		return wrapStandardSeries(m)
	case "repeating_time_series":
		return wrapRepeatingSeries(m)
	case "map":
		return wrapMap(m)
	default:
		return nil, domain.InvariantError{Msg: fmt.Sprintf("unrecognized parameter value tag %q", kind)}
	}
}

func wrapTimePattern(m map[string]any) (Value, error) {
	rawEntries, _ := m["entries"].([]any)
	entries := make([]PatternEntry, 0, len(rawEntries))
	for _, re := range rawEntries {
		em, ok := re.(map[string]any)
		if !ok {
			return nil, domain.EvaluationErrorf(fmt.Errorf("time pattern entry must be an object, got %T", re), "parameter_value")
		}
		periods, err := parsePeriodCollection(em["periods"])
		if err != nil {
			return nil, err
		}
		value, err := asFloat(em["value"])
		if err != nil {
			return nil, err
		}
		entries = append(entries, PatternEntry{Periods: periods, Value: value})
	}
	return NewTimePattern(entries), nil
}

func parsePeriodCollection(raw any) (timeslice.PeriodCollection, error) {
	rawUnion, _ := raw.([]any)
	pc := make(timeslice.PeriodCollection, 0, len(rawUnion))
	for _, ri := range rawUnion {
		rawInter, ok := ri.([]any)
		if !ok {
			return nil, domain.EvaluationErrorf(fmt.Errorf("period intersection must be an array, got %T", ri), "parameter_value")
		}
		inter := make(timeslice.Intersection, 0, len(rawInter))
		for _, rv := range rawInter {
			iv, err := parseInterval(rv)
			if err != nil {
				return nil, err
			}
			inter = append(inter, iv)
		}
		pc = append(pc, inter)
	}
	return pc, nil
}

func parseInterval(raw any) (timeslice.Interval, error) {
	im, ok := raw.(map[string]any)
	if !ok {
		return timeslice.Interval{}, domain.EvaluationErrorf(fmt.Errorf("period interval must be an object, got %T", raw), "parameter_value")
	}
	fieldName, _ := im["field"].(string)
	field, err := parseField(fieldName)
	if err != nil {
		return timeslice.Interval{}, err
	}
	lower, err := asInt(im["lower"])
	if err != nil {
		return timeslice.Interval{}, err
	}
	upper, err := asInt(im["upper"])
	if err != nil {
		return timeslice.Interval{}, err
	}
	return timeslice.Interval{Field: field, Lower: lower, Upper: upper}, nil
}

func parseField(name string) (timeslice.Field, error) {
	switch name {
	case "year":
		return timeslice.FieldYear, nil
	case "month":
		return timeslice.FieldMonth, nil
	case "day":
		return timeslice.FieldDay, nil
	case "weekday":
		return timeslice.FieldWeekday, nil
	case "hour":
		return timeslice.FieldHour, nil
	case "minute":
		return timeslice.FieldMinute, nil
	case "second":
		return timeslice.FieldSecond, nil
	default:
		return 0, domain.EvaluationErrorf(fmt.Errorf("unrecognized period field %q", name), "parameter_value")
	}
}

func wrapStandardSeries(m map[string]any) (Value, error) {
	indexes, values, err := parseIndexValuePairs(m)
	if err != nil {
		return nil, err
	}
	ignoreYear, _ := m["ignore_year"].(bool)
	return NewStandardTimeSeries(indexes, values, ignoreYear), nil
}

func wrapRepeatingSeries(m map[string]any) (Value, error) {
	indexes, values, err := parseIndexValuePairs(m)
	if err != nil {
		return nil, err
	}
	spanSeconds, err := asFloat(m["span_seconds"])
	if err != nil {
		return nil, err
	}
	return NewRepeatingTimeSeries(indexes, values, time.Duration(spanSeconds*float64(time.Second))), nil
}

func parseIndexValuePairs(m map[string]any) ([]time.Time, []float64, error) {
	rawIndexes, _ := m["indexes"].([]any)
	rawValues, _ := m["values"].([]any)
	if len(rawIndexes) != len(rawValues) {
		return nil, nil, domain.EvaluationErrorf(fmt.Errorf("series has %d indexes but %d values", len(rawIndexes), len(rawValues)), "parameter_value")
	}
	indexes := make([]time.Time, len(rawIndexes))
	values := make([]float64, len(rawValues))
	for i, ri := range rawIndexes {
		t, err := asTime(ri)
		if err != nil {
			return nil, nil, err
		}
		indexes[i] = t
	}
	for i, rv := range rawValues {
		v, err := asFloat(rv)
		if err != nil {
			return nil, nil, err
		}
		values[i] = v
	}
	return indexes, values, nil
}

func wrapMap(m map[string]any) (Value, error) {
	rawEntries, _ := m["entries"].([]any)
	entries := make([]MapEntry, 0, len(rawEntries))
	for _, re := range rawEntries {
		em, ok := re.(map[string]any)
		if !ok {
			return nil, domain.EvaluationErrorf(fmt.Errorf("map entry must be an object, got %T", re), "parameter_value")
		}
		key, err := parseMapKey(em["key"])
		if err != nil {
			return nil, err
		}
		nested, err := wrap(em["value"])
		if err != nil {
			return nil, err
		}
		entries = append(entries, MapEntry{Key: key, Value: nested})
	}
	return NewMapValue(entries), nil
}

func parseMapKey(raw any) (MapKey, error) {
	km, ok := raw.(map[string]any)
	if !ok {
		return MapKey{}, domain.EvaluationErrorf(fmt.Errorf("map key must be an object, got %T", raw), "parameter_value")
	}
	kind, _ := km["kind"].(string)
	switch kind {
	case "symbol":
		s, _ := km["symbol"].(string)
		return SymbolKey(s), nil
	case "real":
		r, err := asFloat(km["real"])
		if err != nil {
			return MapKey{}, err
		}
		return RealKey(r), nil
	case "timestamp":
		t, err := asTime(km["timestamp"])
		if err != nil {
			return MapKey{}, err
		}
		return TimestampKey(t), nil
	default:
		return MapKey{}, domain.EvaluationErrorf(fmt.Errorf("unrecognized map key kind %q", kind), "parameter_value")
	}
}

func asFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return 0, domain.EvaluationErrorf(fmt.Errorf("expected a number, got %T", raw), "parameter_value")
	}
}

func asInt(raw any) (int, error) {
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int64:
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, domain.EvaluationErrorf(fmt.Errorf("expected an integer, got %T", raw), "parameter_value")
	}
}

func asTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, domain.EvaluationErrorf(err, "parameter_value")
		}
		return t, nil
	default:
		return time.Time{}, domain.EvaluationErrorf(fmt.Errorf("expected a timestamp, got %T", raw), "parameter_value")
	}
}
