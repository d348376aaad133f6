package mcp

import (
	"reflect"
	"testing"
)

func TestMerge_DisjointSubtrees(t *testing.T) {
	t.Parallel()

	current := map[string]any{
		"finance": map[string]any{"totalBalance": 100.0},
	}
	updateA := map[string]any{
		"health": map[string]any{"currentCondition": "sick"},
	}
	updateB := map[string]any{
		"location": map[string]any{"current": "Madurai"},
	}

	// Merging A then B must equal merging a hand-combined {A,B} in one step.
	sequential := Merge(Merge(current, updateA), updateB)
	combined := Merge(current, map[string]any{
		"health":   map[string]any{"currentCondition": "sick"},
		"location": map[string]any{"current": "Madurai"},
	})

	if !reflect.DeepEqual(sequential, combined) {
		t.Errorf("Expected sequential and combined merges to match:\nsequential=%v\ncombined=%v", sequential, combined)
	}
	if sequential["finance"].(map[string]any)["totalBalance"] != 100.0 {
		t.Error("Expected untouched sub-tree to be preserved")
	}
}

func TestMerge_ArraysReplacedNotUnioned(t *testing.T) {
	t.Parallel()

	current := map[string]any{
		"food": map[string]any{"allergies": []any{"gluten"}},
	}
	update := map[string]any{
		"food": map[string]any{"allergies": []any{"nuts"}},
	}

	out := Merge(current, update)
	allergies := out["food"].(map[string]any)["allergies"].([]any)
	if len(allergies) != 1 || allergies[0] != "nuts" {
		t.Errorf("Expected allergies to be replaced with [nuts], got %v", allergies)
	}
}

func TestMerge_NestedMapsMergedKeyByKey(t *testing.T) {
	t.Parallel()

	current := map[string]any{
		"preferences": map[string]any{
			"events": map[string]any{
				"budgetRange": map[string]any{"min": 0.0, "max": 5000.0},
				"frequency":   "weekly",
			},
		},
	}
	update := map[string]any{
		"preferences": map[string]any{
			"events": map[string]any{
				"budgetRange": map[string]any{"max": 2000.0},
			},
		},
	}

	out := Merge(current, update)
	events := out["preferences"].(map[string]any)["events"].(map[string]any)
	budgetRange := events["budgetRange"].(map[string]any)

	if budgetRange["min"] != 0.0 {
		t.Errorf("Expected min to be preserved, got %v", budgetRange["min"])
	}
	if budgetRange["max"] != 2000.0 {
		t.Errorf("Expected max to be updated to 2000, got %v", budgetRange["max"])
	}
	if events["frequency"] != "weekly" {
		t.Errorf("Expected sibling key to be preserved, got %v", events["frequency"])
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	current := map[string]any{
		"health": map[string]any{"currentCondition": "healthy"},
	}
	update := map[string]any{
		"health": map[string]any{"currentCondition": "sick"},
	}

	_ = Merge(current, update)

	if current["health"].(map[string]any)["currentCondition"] != "healthy" {
		t.Error("Expected Merge to leave the current document unchanged")
	}
}

func TestMerge_ScalarReplacesMap(t *testing.T) {
	t.Parallel()

	current := map[string]any{"field": map[string]any{"nested": 1.0}}
	update := map[string]any{"field": "flat"}

	out := Merge(current, update)
	if out["field"] != "flat" {
		t.Errorf("Expected scalar to replace map, got %v", out["field"])
	}
}

func TestMerge_DeepNesting(t *testing.T) {
	t.Parallel()

	// Six levels, the realistic maximum depth for this document shape.
	current := map[string]any{}
	update := map[string]any{
		"a": map[string]any{"b": map[string]any{"c": map[string]any{
			"d": map[string]any{"e": map[string]any{"f": "leaf"}},
		}}},
	}

	out := Merge(current, update)
	got := out["a"].(map[string]any)["b"].(map[string]any)["c"].(map[string]any)["d"].(map[string]any)["e"].(map[string]any)["f"]
	if got != "leaf" {
		t.Errorf("Expected deep leaf to survive merge, got %v", got)
	}
}
