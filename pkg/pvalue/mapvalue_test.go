package pvalue

import "testing"

func TestMapValueNoIndsReturnsEntries(t *testing.T) {
	m := NewMapValue([]MapEntry{{Key: SymbolKey("a"), Value: NewScalar(1.0)}})
	v, ok := m.Evaluate(NoArgs)
	if !ok {
		t.Fatal("expected entries back")
	}
	if entries, isEntries := v.([]MapEntry); !isEntries || len(entries) != 1 {
		t.Fatalf("unexpected result %#v", v)
	}
}

func TestMapValueSymbolExactMatch(t *testing.T) {
	m := NewMapValue([]MapEntry{
		{Key: SymbolKey("winter"), Value: NewScalar(1.0)},
		{Key: SymbolKey("summer"), Value: NewScalar(2.0)},
	})
	v, ok := m.Evaluate(Args{Inds: []MapKey{SymbolKey("summer")}})
	if !ok || v != 2.0 {
		t.Fatalf("Evaluate(inds=[summer]) = %v,%v want 2.0,true", v, ok)
	}
	v, ok = m.Evaluate(Args{Inds: []MapKey{SymbolKey("autumn")}})
	if !ok {
		t.Fatal("expected the undescended map back on a lookup miss")
	}
	if got, isMap := v.(MapValue); !isMap || len(got.Entries) != 2 {
		t.Fatalf("Evaluate(inds=[autumn]) = %#v, want the map itself back", v)
	}
}

func TestMapValueRealNearestOrLast(t *testing.T) {
	m := NewMapValue([]MapEntry{
		{Key: RealKey(0), Value: NewScalar(1.0)},
		{Key: RealKey(10), Value: NewScalar(2.0)},
		{Key: RealKey(20), Value: NewScalar(3.0)},
	})
	if v, ok := m.Evaluate(Args{Inds: []MapKey{RealKey(15)}}); !ok || v != 2.0 {
		t.Errorf("nearest-below lookup = %v,%v want 2.0,true", v, ok)
	}
	if v, ok := m.Evaluate(Args{Inds: []MapKey{RealKey(100)}}); !ok || v != 3.0 {
		t.Errorf("beyond-range lookup = %v,%v want last entry 3.0,true", v, ok)
	}
	if v, ok := m.Evaluate(Args{Inds: []MapKey{RealKey(-5)}}); !ok || v != 1.0 {
		t.Errorf("below-range lookup = %v,%v want earliest entry 1.0,true", v, ok)
	}
}

func TestMapValueRecursesIntoNestedMaps(t *testing.T) {
	inner := NewMapValue([]MapEntry{{Key: SymbolKey("x"), Value: NewScalar(99.0)}})
	outer := NewMapValue([]MapEntry{{Key: SymbolKey("plant"), Value: inner}})
	v, ok := outer.Evaluate(Args{Inds: []MapKey{SymbolKey("plant"), SymbolKey("x")}})
	if !ok || v != 99.0 {
		t.Fatalf("nested lookup = %v,%v want 99.0,true", v, ok)
	}
}

func TestMapValuePassesThroughIAndT(t *testing.T) {
	nested := NewArray([]float64{1, 2, 3})
	outer := NewMapValue([]MapEntry{{Key: SymbolKey("series"), Value: nested}})
	i := 2
	v, ok := outer.Evaluate(Args{Inds: []MapKey{SymbolKey("series")}, I: &i})
	if !ok || v != 2.0 {
		t.Fatalf("Evaluate with trailing i = %v,%v want 2.0,true", v, ok)
	}
}
