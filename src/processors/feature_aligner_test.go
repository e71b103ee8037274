package processors

import (
	"reflect"
	"strings"
	"testing"

	"github.com/username/polpacost/src/artifacts"
	"github.com/username/polpacost/src/config"
	"github.com/username/polpacost/src/models"
)

func sampleRequest() *models.PredictionRequest {
	return &models.PredictionRequest{
		OriginPort:      "Santos",
		DestinationPort: "Rotterdam",
		TransportMode:   "maritimo",
		VolumeTon:       12.5,
		ProductType:     "polpa de fruta",
		PackagingType:   "containerizado",
		ContainerType:   "reefer",
		ContainerSize:   "40ft",
		FuelIndex:       1.2,
		TaxesPct:        10,
		LeadTimeDays:    40,
		PeriodStart:     "2025/01/01",
		PeriodEnd:       "2025/01/31",
	}
}

func TestAlign_LegacySchemaFallback(t *testing.T) {
	a := NewFeatureAligner(config.DefaultTuning())
	artifact := &artifacts.ModelArtifact{} // no schema recorded

	vector, err := a.Align(sampleRequest(), artifact)
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}
	if len(vector) != len(artifacts.LegacyFeatureColumns()) {
		t.Fatalf("vector length = %d, want the legacy column count %d",
			len(vector), len(artifacts.LegacyFeatureColumns()))
	}

	// Spot-check fallback codes against the legacy ordering:
	// modal is index 2, container_tipo index 5, container_tamanho index 6.
	if vector[2] != 0 {
		t.Errorf("modal code = %v, want 0 for maritimo", vector[2])
	}
	if vector[5] != 1 {
		t.Errorf("container_tipo code = %v, want 1 for reefer", vector[5])
	}
	if vector[6] != 1 {
		t.Errorf("container_tamanho code = %v, want 1 for 40ft", vector[6])
	}
	if vector[7] != 12.5 {
		t.Errorf("volume_ton = %v, want 12.5", vector[7])
	}
}

func TestAlign_Idempotent(t *testing.T) {
	a := NewFeatureAligner(config.DefaultTuning())
	artifact := &artifacts.ModelArtifact{FeatureColumns: artifacts.TrainingFeatureColumns()}
	req := sampleRequest()

	first, err := a.Align(req, artifact)
	if err != nil {
		t.Fatalf("first Align returned error: %v", err)
	}
	second, err := a.Align(req, artifact)
	if err != nil {
		t.Fatalf("second Align returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated alignment diverged: %v vs %v", first, second)
	}
}

func TestAlign_DerivedColumns(t *testing.T) {
	a := NewFeatureAligner(config.DefaultTuning())
	artifact := &artifacts.ModelArtifact{
		FeatureColumns: []string{artifacts.ColFxEurBrl, artifacts.ColPeriodDays},
	}

	vector, err := a.Align(sampleRequest(), artifact)
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}
	if vector[0] != FixedRates()["EUR_BRL"] {
		t.Errorf("fx anchor = %v, want the fixed EUR_BRL rate", vector[0])
	}
	if vector[1] != 30 {
		t.Errorf("period days = %v, want 30", vector[1])
	}
}

func TestAlign_RequestFxAnchorOverrides(t *testing.T) {
	a := NewFeatureAligner(config.DefaultTuning())
	artifact := &artifacts.ModelArtifact{FeatureColumns: []string{artifacts.ColFxEurBrl}}

	req := sampleRequest()
	req.FxEurBrl = 6.1

	vector, err := a.Align(req, artifact)
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}
	if vector[0] != 6.1 {
		t.Errorf("fx anchor = %v, want the request override 6.1", vector[0])
	}
}

func TestAlign_UnknownColumnsDefaultToZero(t *testing.T) {
	a := NewFeatureAligner(config.DefaultTuning())
	artifact := &artifacts.ModelArtifact{
		FeatureColumns: []string{artifacts.ColVolumeTon, "temporada", "rota_codigo"},
	}

	vector, err := a.Align(sampleRequest(), artifact)
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}
	if vector[1] != 0 || vector[2] != 0 {
		t.Errorf("unmapped columns = (%v, %v), want neutral zeros", vector[1], vector[2])
	}
}

func TestAlign_BoundEncoderWinsOverFallback(t *testing.T) {
	a := NewFeatureAligner(config.DefaultTuning())
	artifact := &artifacts.ModelArtifact{
		FeatureColumns: []string{artifacts.ColTransportMode},
		Encoder: &artifacts.BoundEncoder{
			Columns: map[string]map[string]float64{
				// Trained code disagrees with the fallback table on purpose.
				artifacts.ColTransportMode: {"maritimo": 7},
			},
		},
	}

	vector, err := a.Align(sampleRequest(), artifact)
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}
	if vector[0] != 7 {
		t.Errorf("modal code = %v, want the bound encoder code 7", vector[0])
	}
}

func TestAlign_UnseenValueWithBoundEncoder(t *testing.T) {
	a := NewFeatureAligner(config.DefaultTuning())
	artifact := &artifacts.ModelArtifact{
		FeatureColumns: []string{artifacts.ColTransportMode},
		Encoder: &artifacts.BoundEncoder{
			Columns: map[string]map[string]float64{
				artifacts.ColTransportMode: {"aereo": 1},
			},
		},
	}

	_, err := a.Align(sampleRequest(), artifact)
	if err == nil {
		t.Fatal("expected an error for a value the encoder never saw")
	}
	if !strings.Contains(err.Error(), "never seen at training time") {
		t.Errorf("error = %v, want an unseen-value alignment error", err)
	}
}

func TestAlign_EncoderSchemaDivergence(t *testing.T) {
	a := NewFeatureAligner(config.DefaultTuning())
	artifact := &artifacts.ModelArtifact{
		FeatureColumns: []string{artifacts.ColVolumeTon},
		Encoder: &artifacts.BoundEncoder{
			Columns: map[string]map[string]float64{
				artifacts.ColTransportMode: {"maritimo": 0},
			},
		},
	}

	_, err := a.Align(sampleRequest(), artifact)
	if err == nil {
		t.Fatal("expected an error when the encoder covers columns outside the schema")
	}
}

func TestAlign_OffTableFallbackValue(t *testing.T) {
	a := NewFeatureAligner(config.DefaultTuning())
	artifact := &artifacts.ModelArtifact{FeatureColumns: []string{artifacts.ColContainerType}}

	req := sampleRequest()
	req.ContainerType = "tanque" // not in the fallback table

	vector, err := a.Align(req, artifact)
	if err != nil {
		t.Fatalf("Align returned error: %v", err)
	}
	if vector[0] != 0 {
		t.Errorf("off-table code = %v, want the training default 0", vector[0])
	}
}

func TestHashBucket_DeterministicAndBounded(t *testing.T) {
	values := []string{"Santos", "Rotterdam", "Hamburgo", "Itajai", ""}
	for _, v := range values {
		first := hashBucket(v)
		second := hashBucket(v)
		if first != second {
			t.Errorf("hashBucket(%q) not deterministic: %v vs %v", v, first, second)
		}
		if first < 0 || first >= hashBucketSize {
			t.Errorf("hashBucket(%q) = %v, outside [0, %d)", v, first, hashBucketSize)
		}
	}
}

func TestPeriodDays_UnparseableDatesDefault(t *testing.T) {
	if got := periodDays("not-a-date", "2025/01/31"); got != defaultPeriodDays {
		t.Errorf("periodDays = %v, want the %v-day default", got, defaultPeriodDays)
	}
}
