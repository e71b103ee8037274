package processors

import (
	"testing"

	"github.com/username/polpacost/src/artifacts"
	"github.com/username/polpacost/src/config"
	"github.com/username/polpacost/src/models"
)

func TestCompose_AppliesAllFactors(t *testing.T) {
	c := NewMultiplierComposer(config.DefaultTuning())
	req := &models.PredictionRequest{
		TaxesPct:     15,
		FuelIndex:    1.5,
		LeadTimeDays: 56,
	}

	adjusted, tax, lead := c.Compose(1000.0, req, artifacts.LegacyFeatureColumns()[:5])

	if !approxEqual(tax, 1.15, 1e-9) {
		t.Errorf("tax multiplier = %v, want 1.15", tax)
	}
	// 26 days past the 30-day baseline at 1% per day.
	if !approxEqual(lead, 1.26, 1e-9) {
		t.Errorf("lead-time factor = %v, want 1.26", lead)
	}
	want := 1000.0 * 1.15 * 1.5 * 1.26
	if !approxEqual(adjusted, want, 1e-6) {
		t.Errorf("adjusted = %v, want %v", adjusted, want)
	}
}

func TestCompose_LeadTimeAtOrBelowBaseline(t *testing.T) {
	c := NewMultiplierComposer(config.DefaultTuning())

	for _, days := range []int{5, 30} {
		req := &models.PredictionRequest{TaxesPct: 0, FuelIndex: 1.0, LeadTimeDays: days}
		_, _, lead := c.Compose(1000.0, req, nil)
		if lead != 1.0 {
			t.Errorf("lead-time factor for %d days = %v, want 1.0", days, lead)
		}
	}
}

func TestCompose_SkipsWhenMultipliersAreTrainedFeatures(t *testing.T) {
	c := NewMultiplierComposer(config.DefaultTuning())
	req := &models.PredictionRequest{
		TaxesPct:     15,
		FuelIndex:    1.5,
		LeadTimeDays: 56,
	}

	adjusted, tax, lead := c.Compose(1000.0, req, artifacts.TrainingFeatureColumns())

	if adjusted != 1000.0 {
		t.Errorf("adjusted = %v, want the total untouched", adjusted)
	}
	if tax != 1.0 || lead != 1.0 {
		t.Errorf("reported multipliers = (%v, %v), want (1.0, 1.0)", tax, lead)
	}
}

func TestCompose_PartialTrainedColumnsStillApply(t *testing.T) {
	c := NewMultiplierComposer(config.DefaultTuning())
	req := &models.PredictionRequest{TaxesPct: 10, FuelIndex: 1.0, LeadTimeDays: 10}

	// taxes_pct alone is not enough to skip: all three must be trained.
	cols := []string{artifacts.ColTaxesPct, artifacts.ColVolumeTon}
	adjusted, tax, _ := c.Compose(1000.0, req, cols)

	if tax != 1.1 {
		t.Errorf("tax multiplier = %v, want 1.1", tax)
	}
	if !approxEqual(adjusted, 1100.0, 1e-9) {
		t.Errorf("adjusted = %v, want 1100", adjusted)
	}
}
