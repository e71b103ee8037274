// src/processors/multipliers.go
package processors

import (
	"github.com/username/polpacost/src/artifacts"
	"github.com/username/polpacost/src/config"
	"github.com/username/polpacost/src/logger"
	"github.com/username/polpacost/src/models"
)

// MultiplierComposer applies the economic adjustment factors, or skips them
// when the trained features already include them.
type MultiplierComposer struct {
	tuning config.Tuning
}

func NewMultiplierComposer(tuning config.Tuning) *MultiplierComposer {
	return &MultiplierComposer{tuning: tuning}
}

// Compose returns the adjusted total plus the tax multiplier and lead-time
// factor actually applied. When taxes, fuel index and lead time are trained
// feature columns the model has already learned their effect, so applying
// them again would double count: the total passes through unchanged and both
// reported multipliers are 1.0.
func (c *MultiplierComposer) Compose(total float64, req *models.PredictionRequest, expectedCols []string) (adjusted, taxMultiplier, leadTimeFactor float64) {
	if hasTrainedMultipliers(expectedCols) {
		logger.L.Debug("Economic multipliers are trained features, skipping explicit adjustment")
		return total, 1.0, 1.0
	}

	taxMultiplier = 1.0 + req.TaxesPct/100.0
	extraDays := req.LeadTimeDays - c.tuning.LeadTimeBaselineDays
	if extraDays < 0 {
		extraDays = 0
	}
	leadTimeFactor = 1.0 + float64(extraDays)*c.tuning.LeadTimePctPerDay

	return total * taxMultiplier * req.FuelIndex * leadTimeFactor, taxMultiplier, leadTimeFactor
}

func hasTrainedMultipliers(cols []string) bool {
	found := map[string]bool{}
	for _, col := range cols {
		found[col] = true
	}
	return found[artifacts.ColTaxesPct] && found[artifacts.ColFuelIndex] && found[artifacts.ColLeadTimeDays]
}
