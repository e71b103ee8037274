package artifacts

// Feature column names are part of the persisted artifact format and must
// match what the training side writes; they are kept verbatim.
const (
	ColOriginPort    = "origem_porto"
	ColDestPort      = "destino_porto"
	ColTransportMode = "modal"
	ColProductType   = "tipo_produto"
	ColPackagingType = "tipo_embalagem"
	ColContainerType = "container_tipo"
	ColContainerSize = "container_tamanho"
	ColVolumeTon     = "volume_ton"
	ColLeadTimeDays  = "lead_time_days"
	ColTaxesPct      = "taxes_pct"
	ColFuelIndex     = "fuel_index"
	ColFxEurBrl      = "fx_brl_eur"
	ColPeriodDays    = "period_days"
)

// Metrics keys with pipeline meaning.
const (
	MetricTargetUnit       = "target_unit"
	MetricBaselineEurPerKg = "baseline_eur_per_kg"

	TargetUnitEurTotal = "eur_total"
	TargetUnitEurPerKg = "eur_per_kg"
)

// LegacyFeatureColumns is the canonical 11-column ordering assumed for
// artifacts persisted before the feature schema was stored alongside them.
func LegacyFeatureColumns() []string {
	return []string{
		ColOriginPort, ColDestPort, ColTransportMode, ColProductType,
		ColPackagingType, ColContainerType, ColContainerSize,
		ColVolumeTon, ColLeadTimeDays, ColTaxesPct, ColFuelIndex,
	}
}

// TrainingFeatureColumns is the full 13-column ordering used by the current
// training pipeline (adds the FX anchor and the derived period length).
func TrainingFeatureColumns() []string {
	return []string{
		ColOriginPort, ColDestPort, ColTransportMode, ColVolumeTon,
		ColProductType, ColPackagingType, ColContainerType, ColContainerSize,
		ColFuelIndex, ColTaxesPct, ColFxEurBrl, ColLeadTimeDays, ColPeriodDays,
	}
}

// TrainedMetrics is the free-form metrics mapping persisted at training
// time (rmse, mae, r2, ...) plus the keys the pipeline interprets.
type TrainedMetrics map[string]interface{}

// TargetUnit returns the unit of the raw model output, defaulting to
// eur_per_kg for artifacts that never recorded one.
func (m TrainedMetrics) TargetUnit() string {
	if m == nil {
		return TargetUnitEurPerKg
	}
	if v, ok := m[MetricTargetUnit].(string); ok && v != "" {
		return v
	}
	return TargetUnitEurPerKg
}

// BaselineEurPerKg returns the recorded guard-rail baseline, if any.
func (m TrainedMetrics) BaselineEurPerKg() (float64, bool) {
	if m == nil {
		return 0, false
	}
	switch v := m[MetricBaselineEurPerKg].(type) {
	case float64:
		return v, v > 0
	case int:
		return float64(v), v > 0
	}
	return 0, false
}

// ModelArtifact is the single internal representation every persisted shape
// is normalized into immediately after load.
type ModelArtifact struct {
	Name           string
	Version        string
	Estimator      Estimator
	Encoder        *BoundEncoder // nil when the artifact carries none
	FeatureColumns []string
	Metrics        TrainedMetrics
	CreatedAt      string
	Explain        Explainability
}
