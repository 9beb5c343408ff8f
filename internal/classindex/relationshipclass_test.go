package classindex

import (
	"testing"

	"gridcore/internal/metrics"
	"gridcore/pkg/domain"
	"gridcore/pkg/pvalue"
)

func buildNodeCommodity(t *testing.T) (*RelationshipClass, map[string]*domain.Object) {
	t.Helper()
	rc := NewRelationshipClass("node__commodity", "node", "commodity")
	nodes := map[string]*domain.Object{
		"Dublin": domain.NewObject("Dublin"),
		"Espoo":  domain.NewObject("Espoo"),
		"Leuven": domain.NewObject("Leuven"),
		"Nimes":  domain.NewObject("Nimes"),
		"Sthlm":  domain.NewObject("Sthlm"),
	}
	commodities := map[string]*domain.Object{
		"wind":  domain.NewObject("wind"),
		"water": domain.NewObject("water"),
	}
	rows := []struct{ node, commodity string }{
		{"Dublin", "wind"}, {"Espoo", "wind"}, {"Leuven", "wind"},
		{"Nimes", "water"}, {"Sthlm", "water"},
	}
	for _, r := range rows {
		if err := rc.AddRelationship(map[string]*domain.Object{
			"node": nodes[r.node], "commodity": commodities[r.commodity],
		}); err != nil {
			t.Fatalf("AddRelationship: %v", err)
		}
	}
	all := make(map[string]*domain.Object, len(nodes)+len(commodities))
	for k, v := range nodes {
		all[k] = v
	}
	for k, v := range commodities {
		all[k] = v
	}
	return rc, all
}

func TestRelationshipClassFilterByCommodity(t *testing.T) {
	rc, obj := buildNodeCommodity(t)
	result, err := rc.Call(map[string]domain.FilterOperand{"commodity": domain.One(obj["water"])}, true, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	nodes := result.([]*domain.Object)
	if len(nodes) != 2 {
		t.Fatalf("commodity=water matched %d nodes, want 2", len(nodes))
	}
	names := map[string]bool{}
	for _, n := range nodes {
		names[n.Name] = true
	}
	if !names["Nimes"] || !names["Sthlm"] {
		t.Errorf("expected Nimes and Sthlm, got %v", nodes)
	}
}

func TestRelationshipClassFilterByNodeSet(t *testing.T) {
	rc, obj := buildNodeCommodity(t)
	result, err := rc.Call(map[string]domain.FilterOperand{
		"node": domain.Set(obj["Dublin"], obj["Espoo"]),
	}, true, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	commodities := result.([]*domain.Object)
	if len(commodities) != 1 || commodities[0].Name != "wind" {
		t.Fatalf("node=(Dublin,Espoo) = %v, want [wind]", commodities)
	}
}

func TestRelationshipClassWildcardDedup(t *testing.T) {
	rc, _ := buildNodeCommodity(t)
	result, err := rc.Call(map[string]domain.FilterOperand{"node": domain.Anything}, true, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	commodities := result.([]*domain.Object)
	if len(commodities) != 2 {
		t.Fatalf("node=anything deduped = %v, want 2 distinct commodities", commodities)
	}
}

func TestRelationshipClassNoMatchReturnsDefault(t *testing.T) {
	rc, obj := buildNodeCommodity(t)
	_ = obj
	gasCommodity := domain.NewObject("gas")
	result, err := rc.Call(map[string]domain.FilterOperand{"commodity": domain.One(gasCommodity)}, true, "nogas")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result != "nogas" {
		t.Fatalf("Call(commodity=gas) = %v, want the default", result)
	}
}

func TestRelationshipClassCallRecordsHitMissAndError(t *testing.T) {
	rc, obj := buildNodeCommodity(t)
	rec := &fakeRecorder{}
	rc.Recorder = rec

	if _, err := rc.Call(map[string]domain.FilterOperand{"commodity": domain.One(obj["water"])}, true, nil); err != nil {
		t.Fatalf("Call: %v", err)
	}
	gasCommodity := domain.NewObject("gas")
	if _, err := rc.Call(map[string]domain.FilterOperand{"commodity": domain.One(gasCommodity)}, true, "nogas"); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if _, err := rc.Call(map[string]domain.FilterOperand{"bogus": domain.Anything}, true, nil); err == nil {
		t.Fatal("expected a bad-filter error")
	}

	if len(rec.observed) != 3 {
		t.Fatalf("observed %d calls, want 3", len(rec.observed))
	}
	want := []metrics.Outcome{metrics.OutcomeHit, metrics.OutcomeMiss, metrics.OutcomeBadFilter}
	for i, w := range want {
		if rec.observed[i].subject != "node__commodity" || rec.observed[i].outcome != w {
			t.Errorf("observed[%d] = %+v, want node__commodity/%v", i, rec.observed[i], w)
		}
	}
}

func TestRelationshipClassInvariantRowMapConsistency(t *testing.T) {
	rc, obj := buildNodeCommodity(t)
	for label, objects := range map[string][]*domain.Object{
		"node":      {obj["Dublin"], obj["Espoo"], obj["Leuven"], obj["Nimes"], obj["Sthlm"]},
		"commodity": {obj["wind"], obj["water"]},
	} {
		for _, o := range objects {
			for _, idx := range rc.rowMap[label][o.ID] {
				if rc.relationships[idx][label] != o {
					t.Errorf("row_map[%s][%s] -> row %d does not have %s at that label", label, o.Name, idx, o.Name)
				}
			}
		}
	}
}

func TestRelationshipClassAddDimension(t *testing.T) {
	rc, _ := buildNodeCommodity(t)
	scenA := domain.NewObject("scen_A")
	scenB := domain.NewObject("scen_B")
	if err := rc.AddDimension("scenario", scenA); err != nil {
		t.Fatalf("AddDimension: %v", err)
	}

	result, err := rc.Call(map[string]domain.FilterOperand{"scenario": domain.One(scenA)}, false, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	rows := result.([]map[string]*domain.Object)
	if len(rows) != 5 {
		t.Fatalf("scenario=scen_A matched %d rows, want all 5 original rows", len(rows))
	}

	result2, err := rc.Call(map[string]domain.FilterOperand{"scenario": domain.One(scenB)}, true, "nomatch")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result2 != "nomatch" {
		t.Fatalf("scenario=scen_B = %v, want the default", result2)
	}
}

func TestRelationshipClassAddRelationshipRejectsWrongLabels(t *testing.T) {
	rc := NewRelationshipClass("rc", "a", "b")
	err := rc.AddRelationship(map[string]*domain.Object{"a": domain.NewObject("x")})
	if err == nil {
		t.Error("expected an error for a row missing a required label")
	}
}

func TestRelationshipClassParameterValueByRow(t *testing.T) {
	rc := NewRelationshipClass("rc", "node", "commodity")
	sthlm := domain.NewObject("Sthlm")
	water := domain.NewObject("water")
	row := map[string]*domain.Object{"node": sthlm, "commodity": water}
	_ = rc.AddRelationship(row)
	rc.SetParameterValues(row, map[string]pvalue.Value{"tax_net_flow": pvalue.NewScalar(4.0)}, false)

	v, ok := rc.Effective(row, "tax_net_flow").Evaluate(pvalue.NoArgs)
	if !ok || v != 4.0 {
		t.Fatalf("Effective(tax_net_flow) = %v,%v want 4.0,true", v, ok)
	}
}
