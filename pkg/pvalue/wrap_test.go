package pvalue

import "testing"

func TestWrapScalars(t *testing.T) {
	cases := []any{nil, true, "hello", 1.5, int64(7)}
	for _, raw := range cases {
		v, err := Wrap(raw)
		if err != nil {
			t.Fatalf("Wrap(%#v) error: %v", raw, err)
		}
		if v == nil {
			t.Fatalf("Wrap(%#v) returned nil Value", raw)
		}
	}
}

func TestWrapArray(t *testing.T) {
	v, err := Wrap([]any{1.0, 2.0, 3.0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	arr, ok := v.(Array[float64])
	if !ok {
		t.Fatalf("expected Array[float64], got %T", v)
	}
	if len(arr.Values) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(arr.Values))
	}
}

func TestWrapArrayMixedTypesErrors(t *testing.T) {
	if _, err := Wrap([]any{1.0, "oops"}); err == nil {
		t.Error("expected an error for a mixed-type array")
	}
}

func TestWrapTimeSeries(t *testing.T) {
	raw := map[string]any{
		"type":    "time_series",
		"indexes": []any{"2026-01-01T00:00:00Z", "2026-01-02T00:00:00Z"},
		"values":  []any{1.0, 2.0},
	}
	v, err := Wrap(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts, ok := v.(StandardTimeSeries)
	if !ok {
		t.Fatalf("expected StandardTimeSeries, got %T", v)
	}
	if len(ts.Indexes) != 2 || len(ts.Values) != 2 {
		t.Fatalf("unexpected series shape: %+v", ts)
	}
}

func TestWrapRepeatingTimeSeries(t *testing.T) {
	raw := map[string]any{
		"type":         "repeating_time_series",
		"indexes":      []any{"2026-01-01T00:00:00Z"},
		"values":       []any{5.0},
		"span_seconds": 86400.0,
	}
	v, err := Wrap(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rs, ok := v.(RepeatingTimeSeries)
	if !ok {
		t.Fatalf("expected RepeatingTimeSeries, got %T", v)
	}
	if rs.Span.Hours() != 24 {
		t.Errorf("span = %v, want 24h", rs.Span)
	}
}

func TestWrapTimePattern(t *testing.T) {
	raw := map[string]any{
		"type": "time_pattern",
		"entries": []any{
			map[string]any{
				"periods": []any{
					[]any{
						map[string]any{"field": "month", "lower": 1.0, "upper": 1.0},
					},
				},
				"value": 10.0,
			},
		},
	}
	v, err := Wrap(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tp, ok := v.(TimePattern)
	if !ok {
		t.Fatalf("expected TimePattern, got %T", v)
	}
	if len(tp.Entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(tp.Entries))
	}
}

func TestWrapMap(t *testing.T) {
	raw := map[string]any{
		"type": "map",
		"entries": []any{
			map[string]any{
				"key":   map[string]any{"kind": "symbol", "symbol": "winter"},
				"value": 3.0,
			},
		},
	}
	v, err := Wrap(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mv, ok := v.(MapValue)
	if !ok {
		t.Fatalf("expected MapValue, got %T", v)
	}
	if len(mv.Entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(mv.Entries))
	}
}

func TestWrapUnrecognizedTagErrors(t *testing.T) {
	if _, err := Wrap(map[string]any{"type": "nonsense"}); err == nil {
		t.Error("expected an error for an unrecognized tag")
	}
}

func TestWrapDeepClonesNestedStructures(t *testing.T) {
	entries := []any{
		map[string]any{
			"key":   map[string]any{"kind": "symbol", "symbol": "a"},
			"value": 1.0,
		},
	}
	raw := map[string]any{"type": "map", "entries": entries}
	v, err := Wrap(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	entries[0] = nil // mutate caller's slice after Wrap
	mv := v.(MapValue)
	if len(mv.Entries) != 1 {
		t.Fatalf("Wrap aliased the caller's slice: %+v", mv.Entries)
	}
}
