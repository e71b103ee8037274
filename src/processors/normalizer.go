// src/processors/normalizer.go
package processors

import (
	"github.com/username/polpacost/src/artifacts"
	"github.com/username/polpacost/src/config"
	"github.com/username/polpacost/src/logger"
	"github.com/username/polpacost/src/models"
)

// UnitNormalizer converts raw model output into a canonical EUR total and
// bounds-checks the implied per-kilogram rate.
type UnitNormalizer struct {
	tuning config.Tuning
}

func NewUnitNormalizer(tuning config.Tuning) *UnitNormalizer {
	return &UnitNormalizer{tuning: tuning}
}

// Normalize returns the total cost in EUR, plus whether the guard-rail
// replaced the model's output. Per-unit models are scaled by the shipment
// mass first; the kg denominator is floored at 1 to keep the implied rate
// finite for zero-volume requests.
func (n *UnitNormalizer) Normalize(raw float64, req *models.PredictionRequest, metrics artifacts.TrainedMetrics) (float64, bool) {
	total := raw
	if metrics.TargetUnit() == artifacts.TargetUnitEurPerKg {
		total = raw * req.VolumeTon * 1000.0
	}

	kg := req.VolumeTon * 1000.0
	if kg < 1.0 {
		kg = 1.0
	}
	implied := total / kg

	if implied < n.tuning.GuardRailLow || implied > n.tuning.GuardRailHigh {
		baseline, ok := metrics.BaselineEurPerKg()
		if !ok {
			baseline = n.tuning.BaselineEurPerKg
		}
		// Business rule, not error suppression: implausible extrapolations
		// are replaced by the baseline rather than reaching callers.
		logger.L.Warn("Implied EUR/kg outside accepted band, substituting baseline",
			"implied", implied, "low", n.tuning.GuardRailLow, "high", n.tuning.GuardRailHigh,
			"baseline", baseline)
		return baseline * kg, true
	}

	return total, false
}
