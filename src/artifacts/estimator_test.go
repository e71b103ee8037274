package artifacts

import (
	"encoding/json"
	"testing"
)

func TestLinearEstimator_Predict(t *testing.T) {
	e := &LinearEstimator{Coefficients: []float64{2, -1}, Intercept: 10}

	got, err := e.Predict([]float64{3, 4})
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}
	if got != 12 {
		t.Errorf("Predict = %v, want 12", got)
	}

	if _, err := e.Predict([]float64{1}); err == nil {
		t.Error("expected an error for a feature-count mismatch")
	}
}

func TestForestEstimator_AveragesTrees(t *testing.T) {
	// Two stumps splitting on feature 0 at 5.0.
	stump := func(left, right float64) DecisionTree {
		return DecisionTree{Nodes: []TreeNode{
			{Feature: 0, Threshold: 5.0, Left: 1, Right: 2},
			{Leaf: true, Value: left},
			{Leaf: true, Value: right},
		}}
	}
	e := &ForestEstimator{Trees: []DecisionTree{stump(10, 20), stump(30, 40)}}

	got, err := e.Predict([]float64{3})
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}
	if got != 20 { // (10 + 30) / 2
		t.Errorf("Predict = %v, want 20", got)
	}

	got, err = e.Predict([]float64{7})
	if err != nil {
		t.Fatalf("Predict returned error: %v", err)
	}
	if got != 30 { // (20 + 40) / 2
		t.Errorf("Predict = %v, want 30", got)
	}
}

func TestDecisionTree_MalformedNodes(t *testing.T) {
	tests := []struct {
		name string
		tree DecisionTree
	}{
		{"empty", DecisionTree{}},
		{"featureOutOfRange", DecisionTree{Nodes: []TreeNode{{Feature: 9, Left: 0, Right: 0}}}},
		{"childOutOfRange", DecisionTree{Nodes: []TreeNode{{Feature: 0, Threshold: 1, Left: 5, Right: 5}}}},
		{"cycle", DecisionTree{Nodes: []TreeNode{{Feature: 0, Threshold: 1, Left: 0, Right: 0}}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := &ForestEstimator{Trees: []DecisionTree{tc.tree}}
			if _, err := e.Predict([]float64{0.5}); err == nil {
				t.Error("expected an error for a malformed tree")
			}
		})
	}
}

func TestDecodeEstimator_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missingKind", `{"coefficients": [1]}`},
		{"unknownKind", `{"kind": "svm"}`},
		{"linearWithoutCoefficients", `{"kind": "linear", "intercept": 1}`},
		{"forestWithoutTrees", `{"kind": "forest"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := decodeEstimator(json.RawMessage(tc.raw)); err == nil {
				t.Error("expected a decode error")
			}
		})
	}
}

func TestResolveExplainability(t *testing.T) {
	forest := &ForestEstimator{
		Trees:       []DecisionTree{{Nodes: []TreeNode{{Leaf: true, Value: 1}}}},
		Importances: []float64{0.7, 0.3},
	}
	if got := resolveExplainability(forest, 2); got.Kind != ExplainImportances {
		t.Errorf("forest explain kind = %q, want importances", got.Kind)
	}
	// Importance length disagreeing with the schema degrades to uniform.
	if got := resolveExplainability(forest, 3); got.Kind != ExplainUniform {
		t.Errorf("mismatched forest explain kind = %q, want uniform", got.Kind)
	}

	linear := &LinearEstimator{Coefficients: []float64{-2, 1}}
	got := resolveExplainability(linear, 2)
	if got.Kind != ExplainCoefficients {
		t.Fatalf("linear explain kind = %q, want coefficients", got.Kind)
	}
	if got.Weights[0] != 2 || got.Weights[1] != 1 {
		t.Errorf("linear weights = %v, want coefficient magnitudes [2 1]", got.Weights)
	}
}
