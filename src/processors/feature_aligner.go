// src/processors/feature_aligner.go
package processors

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/username/polpacost/src/artifacts"
	"github.com/username/polpacost/src/config"
	"github.com/username/polpacost/src/logger"
	"github.com/username/polpacost/src/models"
)

// hashBucketSize bounds the fallback hash encoding of unknown categoricals.
const hashBucketSize = 100

const defaultPeriodDays = 30.0

// Fallback lookup tables for known categorical fields, matching the codes
// the training pipeline assigns. Only used when the artifact carries no
// bound encoder; the mapping is lossy and non-bijective by design.
var (
	transportModeCodes = map[string]float64{"maritimo": 0, "aereo": 1, "rodoviario": 2}
	containerSizeCodes = map[string]float64{"20ft": 0, "40ft": 1}
	containerTypeCodes = map[string]float64{"dry": 0, "reefer": 1, "open_top": 2, "flat_rack": 3}
	packagingTypeCodes = map[string]float64{"containerizado": 0, "paletizado": 1, "caixas": 2, "bags": 3}

	fallbackCodeTables = map[string]map[string]float64{
		artifacts.ColTransportMode: transportModeCodes,
		artifacts.ColContainerSize: containerSizeCodes,
		artifacts.ColContainerType: containerTypeCodes,
		artifacts.ColPackagingType: packagingTypeCodes,
	}
)

// FeatureAligner maps a typed request onto the ordered feature vector an
// artifact expects.
type FeatureAligner struct {
	tuning config.Tuning
}

func NewFeatureAligner(tuning config.Tuning) *FeatureAligner {
	return &FeatureAligner{tuning: tuning}
}

// Align builds a fresh feature vector aligned 1:1 with the artifact's
// feature schema. Expected-but-unmapped columns default to 0; non-numeric
// leftovers are an alignment failure, never silently dropped.
func (a *FeatureAligner) Align(req *models.PredictionRequest, artifact *artifacts.ModelArtifact) ([]float64, error) {
	expected := artifact.FeatureColumns
	if len(expected) == 0 {
		expected = artifacts.LegacyFeatureColumns()
	}

	if artifact.Encoder != nil {
		if err := a.checkEncoderSchema(artifact.Encoder, expected); err != nil {
			return nil, err
		}
	}

	row := a.buildRow(req)

	vector := make([]float64, len(expected))
	for i, col := range expected {
		value, mapped := row[col]
		if !mapped {
			// Neutral default keeps alignment with schemas that carry
			// columns this request shape does not produce.
			vector[i] = 0
			continue
		}

		switch v := value.(type) {
		case float64:
			vector[i] = v
		case int:
			vector[i] = float64(v)
		case string:
			code, err := a.encodeCategorical(artifact.Encoder, col, v)
			if err != nil {
				return nil, err
			}
			vector[i] = code
		default:
			return nil, fmt.Errorf("column %q has non-numeric value %v", col, value)
		}
	}

	return vector, nil
}

// checkEncoderSchema fails fast when the bound encoder and the resolved
// feature schema disagree, instead of padding or truncating silently.
func (a *FeatureAligner) checkEncoderSchema(encoder *artifacts.BoundEncoder, expected []string) error {
	expectedSet := make(map[string]bool, len(expected))
	for _, col := range expected {
		expectedSet[col] = true
	}
	for _, col := range encoder.ColumnNames() {
		if !expectedSet[col] {
			return fmt.Errorf("bound encoder column %q is not in the artifact feature schema", col)
		}
	}
	return nil
}

func (a *FeatureAligner) buildRow(req *models.PredictionRequest) map[string]interface{} {
	return map[string]interface{}{
		artifacts.ColOriginPort:    req.OriginPort,
		artifacts.ColDestPort:      req.DestinationPort,
		artifacts.ColTransportMode: req.TransportMode,
		artifacts.ColProductType:   req.ProductType,
		artifacts.ColPackagingType: req.PackagingType,
		artifacts.ColContainerType: req.ContainerType,
		artifacts.ColContainerSize: req.ContainerSize,
		artifacts.ColVolumeTon:     req.VolumeTon,
		artifacts.ColLeadTimeDays:  float64(req.LeadTimeDays),
		artifacts.ColTaxesPct:      req.TaxesPct,
		artifacts.ColFuelIndex:     req.FuelIndex,
		artifacts.ColFxEurBrl:      a.fxAnchor(req),
		artifacts.ColPeriodDays:    periodDays(req.PeriodStart, req.PeriodEnd),
	}
}

func (a *FeatureAligner) fxAnchor(req *models.PredictionRequest) float64 {
	if req.FxEurBrl > 0 {
		return req.FxEurBrl
	}
	if a.tuning.FxEurBrl > 0 {
		return a.tuning.FxEurBrl
	}
	return FixedRates()["EUR_BRL"]
}

func periodDays(start, end string) float64 {
	const layout = "2006/01/02"
	startDate, errStart := time.Parse(layout, start)
	endDate, errEnd := time.Parse(layout, end)
	if errStart != nil || errEnd != nil {
		// The boundary layer validates dates; this path only runs for
		// callers that bypass it.
		logger.L.Warn("Unparseable period dates, using default period length", "start", start, "end", end)
		return defaultPeriodDays
	}
	return endDate.Sub(startDate).Hours() / 24
}

// encodeCategorical resolves a categorical value to its numeric code. The
// bound encoder wins when present; otherwise the stateless fallback applies.
func (a *FeatureAligner) encodeCategorical(encoder *artifacts.BoundEncoder, col, value string) (float64, error) {
	if encoder != nil && encoder.Has(col) {
		code, known := encoder.Encode(col, value)
		if !known {
			return 0, fmt.Errorf("value %q for column %q was never seen at training time", value, col)
		}
		return code, nil
	}

	if table, ok := fallbackCodeTables[col]; ok {
		if code, known := table[value]; known {
			return code, nil
		}
		// Same default the training pipeline uses for off-table values.
		return 0, nil
	}

	return hashBucket(value), nil
}

// hashBucket maps free-form categorical values into [0, hashBucketSize).
// FNV keeps the mapping deterministic across processes and restarts.
func hashBucket(value string) float64 {
	h := fnv.New32a()
	h.Write([]byte(value))
	return float64(h.Sum32() % hashBucketSize)
}
