package artifacts

import "math"

// ExplainKind tags how an estimator can explain its predictions.
type ExplainKind string

const (
	ExplainImportances  ExplainKind = "importances"  // tree ensembles expose per-feature importances
	ExplainCoefficients ExplainKind = "coefficients" // linear models expose coefficient magnitudes
	ExplainUniform      ExplainKind = "uniform"      // no signal, every feature weighted equally
)

// Explainability is the capability resolved once at artifact load time.
// Weights align 1:1 with the artifact's feature columns.
type Explainability struct {
	Kind    ExplainKind `json:"kind"`
	Weights []float64   `json:"weights"`
}

func resolveExplainability(e Estimator, featureCount int) Explainability {
	switch est := e.(type) {
	case *ForestEstimator:
		if len(est.Importances) == featureCount && featureCount > 0 {
			return Explainability{Kind: ExplainImportances, Weights: append([]float64(nil), est.Importances...)}
		}
	case *LinearEstimator:
		if len(est.Coefficients) == featureCount && featureCount > 0 {
			weights := make([]float64, featureCount)
			for i, c := range est.Coefficients {
				weights[i] = math.Abs(c)
			}
			return Explainability{Kind: ExplainCoefficients, Weights: weights}
		}
	}

	weights := make([]float64, featureCount)
	if featureCount > 0 {
		uniform := 1.0 / float64(featureCount)
		for i := range weights {
			weights[i] = uniform
		}
	}
	return Explainability{Kind: ExplainUniform, Weights: weights}
}
