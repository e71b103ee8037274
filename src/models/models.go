package models

// PredictionRequest is the caller-facing shipment description. All numeric
// bounds are enforced by the validation layer before the pipeline runs.
type PredictionRequest struct {
	OriginPort      string  `json:"origin_port"`
	DestinationPort string  `json:"destination_port"`
	TransportMode   string  `json:"transport_mode"` // maritime, air or road
	VolumeTon       float64 `json:"volume_ton"`
	ProductType     string  `json:"product_type"`
	PackagingType   string  `json:"packaging_type"`
	ContainerType   string  `json:"container_type"`
	ContainerSize   string  `json:"container_size"` // 20ft or 40ft
	FuelIndex       float64 `json:"fuel_index"`
	TaxesPct        float64 `json:"taxes_pct"`
	LeadTimeDays    int     `json:"lead_time_days"`
	PeriodStart     string  `json:"period_start"` // YYYY/MM/DD
	PeriodEnd       string  `json:"period_end"`   // YYYY/MM/DD
	ModelName       string  `json:"model_name"`
	OutputCurrency  string  `json:"output_currency"`

	// Optional FX anchor overrides (BRL per EUR, USD per EUR). Zero means
	// "use the configured anchor".
	FxEurBrl float64 `json:"fx_brl_eur,omitempty"`
	FxEurUsd float64 `json:"fx_eur_usd,omitempty"`
}

// FxRates carries the exchange rates actually used, for auditability.
type FxRates struct {
	BrlEur float64 `json:"BRL_EUR"`
	BrlUsd float64 `json:"BRL_USD"`
}

// PredictionBreakdown details how the final cost was assembled.
type PredictionBreakdown struct {
	ModelUsed        string  `json:"model_used"`
	Version          string  `json:"version"`
	TaxMultiplier    float64 `json:"tax_multiplier"`
	FuelIndex        float64 `json:"fuel_index"`
	LeadTimeDays     int     `json:"lead_time_days"`
	LeadTimeFactor   float64 `json:"lead_time_factor"`
	FxUsed           FxRates `json:"fx_used"`
	ArtifactPath     string  `json:"artifact_path"`
	GuardRailApplied bool    `json:"guard_rail_applied"`
}

// PredictionResult is produced once per request and never mutated.
type PredictionResult struct {
	Cost      float64             `json:"cost"` // rounded to 2 decimals
	Currency  string              `json:"currency"`
	Breakdown PredictionBreakdown `json:"breakdown"`
}

// PredictionRecord is one row of the prediction audit log.
type PredictionRecord struct {
	ID          int64   `json:"id" db:"id"`
	RequestID   string  `json:"request_id" db:"request_id"`
	ModelName   string  `json:"model_name" db:"model_name"`
	Version     string  `json:"version" db:"version"`
	OriginPort  string  `json:"origin_port" db:"origin_port"`
	Destination string  `json:"destination_port" db:"destination_port"`
	VolumeTon   float64 `json:"volume_ton" db:"volume_ton"`
	Cost        float64 `json:"cost" db:"cost"`
	Currency    string  `json:"currency" db:"currency"`
	LatencyMs   float64 `json:"latency_ms" db:"latency_ms"`
	CreatedAt   string  `json:"created_at" db:"created_at"`
}
