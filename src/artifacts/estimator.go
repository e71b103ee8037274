package artifacts

import (
	"encoding/json"
	"fmt"
)

// Estimator is an opaque predictor. Training happens outside this service;
// artifacts carry only the parameters needed to evaluate a prediction.
type Estimator interface {
	Kind() string
	Predict(features []float64) (float64, error)
}

const (
	EstimatorKindLinear = "linear"
	EstimatorKindForest = "forest"
)

// LinearEstimator evaluates a fitted linear model.
type LinearEstimator struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func (e *LinearEstimator) Kind() string { return EstimatorKindLinear }

func (e *LinearEstimator) Predict(features []float64) (float64, error) {
	if len(features) != len(e.Coefficients) {
		return 0, fmt.Errorf("linear estimator expects %d features, got %d", len(e.Coefficients), len(features))
	}
	pred := e.Intercept
	for i, c := range e.Coefficients {
		pred += c * features[i]
	}
	return pred, nil
}

// TreeNode is one node of a fitted decision tree. Leaf nodes carry the
// predicted value; internal nodes route on feature <= threshold.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Value     float64 `json:"value"`
	Leaf      bool    `json:"leaf"`
}

// DecisionTree is a fitted regression tree stored as a flat node array
// rooted at index 0.
type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

func (t *DecisionTree) predict(features []float64) (float64, error) {
	if len(t.Nodes) == 0 {
		return 0, fmt.Errorf("decision tree has no nodes")
	}
	idx := 0
	// Bounded walk: a well-formed tree terminates in at most len(Nodes) hops.
	for steps := 0; steps <= len(t.Nodes); steps++ {
		node := t.Nodes[idx]
		if node.Leaf {
			return node.Value, nil
		}
		if node.Feature < 0 || node.Feature >= len(features) {
			return 0, fmt.Errorf("tree node references feature %d, vector has %d", node.Feature, len(features))
		}
		if features[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
		if idx < 0 || idx >= len(t.Nodes) {
			return 0, fmt.Errorf("tree node index %d out of range", idx)
		}
	}
	return 0, fmt.Errorf("decision tree walk did not terminate")
}

// ForestEstimator averages an ensemble of regression trees.
type ForestEstimator struct {
	Trees       []DecisionTree `json:"trees"`
	Importances []float64      `json:"importances,omitempty"`
}

func (e *ForestEstimator) Kind() string { return EstimatorKindForest }

func (e *ForestEstimator) Predict(features []float64) (float64, error) {
	if len(e.Trees) == 0 {
		return 0, fmt.Errorf("forest estimator has no trees")
	}
	sum := 0.0
	for i := range e.Trees {
		v, err := e.Trees[i].predict(features)
		if err != nil {
			return 0, fmt.Errorf("tree %d: %w", i, err)
		}
		sum += v
	}
	return sum / float64(len(e.Trees)), nil
}

func decodeEstimator(raw json.RawMessage) (Estimator, error) {
	var tag struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, fmt.Errorf("error decoding estimator kind: %w", err)
	}

	switch tag.Kind {
	case EstimatorKindLinear:
		var e LinearEstimator
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("error decoding linear estimator: %w", err)
		}
		if len(e.Coefficients) == 0 {
			return nil, fmt.Errorf("linear estimator has no coefficients")
		}
		return &e, nil
	case EstimatorKindForest:
		var e ForestEstimator
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("error decoding forest estimator: %w", err)
		}
		if len(e.Trees) == 0 {
			return nil, fmt.Errorf("forest estimator has no trees")
		}
		return &e, nil
	case "":
		return nil, fmt.Errorf("estimator payload missing 'kind'")
	default:
		return nil, fmt.Errorf("unknown estimator kind %q", tag.Kind)
	}
}

func encodeEstimator(e Estimator) (json.RawMessage, error) {
	var payload interface{}
	switch est := e.(type) {
	case *LinearEstimator:
		payload = struct {
			Kind string `json:"kind"`
			*LinearEstimator
		}{EstimatorKindLinear, est}
	case *ForestEstimator:
		payload = struct {
			Kind string `json:"kind"`
			*ForestEstimator
		}{EstimatorKindForest, est}
	default:
		return nil, fmt.Errorf("cannot persist estimator of kind %q", e.Kind())
	}
	return json.Marshal(payload)
}
