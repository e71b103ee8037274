package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the empirical pipeline constants. They come from an optional
// YAML file so operations can adjust them without a rebuild; the defaults
// mirror what the models were calibrated against.
type Tuning struct {
	// Accepted band for the implied EUR/kg rate. Totals implying a rate
	// outside the band are replaced by the baseline.
	GuardRailLow  float64 `yaml:"guard_rail_low"`
	GuardRailHigh float64 `yaml:"guard_rail_high"`

	// Used when the artifact metrics carry no baseline of their own.
	BaselineEurPerKg float64 `yaml:"baseline_eur_per_kg"`

	// Lead times beyond the baseline are penalized at PctPerDay per day.
	LeadTimeBaselineDays int     `yaml:"lead_time_baseline_days"`
	LeadTimePctPerDay    float64 `yaml:"lead_time_pct_per_day"`

	// FX anchors. Zero means "use the fixed baseline rate".
	FxEurBrl float64 `yaml:"fx_eur_brl"`
	FxEurUsd float64 `yaml:"fx_eur_usd"`
}

func DefaultTuning() Tuning {
	return Tuning{
		GuardRailLow:         0.2,
		GuardRailHigh:        20.0,
		BaselineEurPerKg:     4.5,
		LeadTimeBaselineDays: 30,
		LeadTimePctPerDay:    0.01,
	}
}

// LoadTuning reads the tuning file at path, falling back to defaults when the
// file is absent. A present-but-broken file is an error: silently running
// with defaults after a failed override is worse than failing startup.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Tuning file %s not found, using built-in defaults", path)
			return t, nil
		}
		return t, fmt.Errorf("error reading tuning file '%s': %w", path, err)
	}

	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("error unmarshalling tuning file '%s': %w", path, err)
	}

	if t.GuardRailLow <= 0 || t.GuardRailHigh <= t.GuardRailLow {
		return t, fmt.Errorf("invalid guard-rail band [%v, %v] in '%s'", t.GuardRailLow, t.GuardRailHigh, path)
	}
	if t.BaselineEurPerKg <= 0 {
		return t, fmt.Errorf("invalid baseline_eur_per_kg %v in '%s'", t.BaselineEurPerKg, path)
	}
	if t.LeadTimeBaselineDays < 0 || t.LeadTimePctPerDay < 0 {
		return t, fmt.Errorf("invalid lead-time tuning in '%s'", path)
	}

	log.Printf("Tuning loaded from %s: guardRail=[%v,%v] baseline=%v leadTimeBaseline=%dd",
		path, t.GuardRailLow, t.GuardRailHigh, t.BaselineEurPerKg, t.LeadTimeBaselineDays)
	return t, nil
}
