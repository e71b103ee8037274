package validation

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/username/polpacost/src/logger"
	"github.com/username/polpacost/src/models"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func validRequest() *models.PredictionRequest {
	return &models.PredictionRequest{
		OriginPort:      "Santos",
		DestinationPort: "Rotterdam",
		TransportMode:   "maritimo",
		VolumeTon:       10,
		ProductType:     "polpa de fruta",
		PackagingType:   "containerizado",
		ContainerType:   "reefer",
		ContainerSize:   "40ft",
		FuelIndex:       1.0,
		TaxesPct:        10,
		LeadTimeDays:    30,
		PeriodStart:     "2025/01/01",
		PeriodEnd:       "2025/01/31",
		ModelName:       "random_forest",
		OutputCurrency:  "BRL",
	}
}

func TestValidatePredictionRequest_Valid(t *testing.T) {
	if err := ValidatePredictionRequest(validRequest()); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}
}

func TestValidatePredictionRequest_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.PredictionRequest)
		wantMsg string
	}{
		{"emptyOriginPort", func(r *models.PredictionRequest) { r.OriginPort = "" }, "origin_port"},
		{"oversizedOriginPort", func(r *models.PredictionRequest) { r.OriginPort = strings.Repeat("a", 101) }, "origin_port"},
		{"unknownTransportMode", func(r *models.PredictionRequest) { r.TransportMode = "ferroviario" }, "transport_mode"},
		{"unknownPackaging", func(r *models.PredictionRequest) { r.PackagingType = "granel" }, "packaging_type"},
		{"unknownContainerType", func(r *models.PredictionRequest) { r.ContainerType = "tanque" }, "container_type"},
		{"unknownContainerSize", func(r *models.PredictionRequest) { r.ContainerSize = "45ft" }, "container_size"},
		{"negativeVolume", func(r *models.PredictionRequest) { r.VolumeTon = -1 }, "volume_ton"},
		{"fuelIndexTooLow", func(r *models.PredictionRequest) { r.FuelIndex = 0.4 }, "fuel_index"},
		{"fuelIndexTooHigh", func(r *models.PredictionRequest) { r.FuelIndex = 3.5 }, "fuel_index"},
		{"negativeTaxes", func(r *models.PredictionRequest) { r.TaxesPct = -0.1 }, "taxes_pct"},
		{"taxesOverCap", func(r *models.PredictionRequest) { r.TaxesPct = 101 }, "taxes_pct"},
		{"leadTimeTooShort", func(r *models.PredictionRequest) { r.LeadTimeDays = 4 }, "lead_time_days"},
		{"leadTimeTooLong", func(r *models.PredictionRequest) { r.LeadTimeDays = 366 }, "lead_time_days"},
		{"fxAnchorOutOfBand", func(r *models.PredictionRequest) { r.FxEurBrl = 3.0 }, "fx_brl_eur"},
		{"badStartDate", func(r *models.PredictionRequest) { r.PeriodStart = "01/01/2025" }, "period_start"},
		{"badEndDate", func(r *models.PredictionRequest) { r.PeriodEnd = "2025-01-31" }, "period_end"},
		{"endBeforeStart", func(r *models.PredictionRequest) {
			r.PeriodStart = "2025/02/01"
			r.PeriodEnd = "2025/01/01"
		}, "period_end"},
		{"unknownModel", func(r *models.PredictionRequest) { r.ModelName = "xgboost" }, "model_name"},
		{"unknownCurrency", func(r *models.PredictionRequest) { r.OutputCurrency = "GBP" }, "output_currency"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(req)
			err := ValidatePredictionRequest(req)
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if !errors.Is(err, ErrValidationFailed) {
				t.Errorf("error = %v, want ErrValidationFailed", err)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Errorf("error = %v, want a mention of %q", err, tc.wantMsg)
			}
		})
	}
}

func TestValidatePredictionRequest_BoundaryValuesAccepted(t *testing.T) {
	req := validRequest()
	req.VolumeTon = 0
	req.FuelIndex = 0.5
	req.TaxesPct = 100
	req.LeadTimeDays = 365
	req.FxEurBrl = 8.0
	req.PeriodEnd = req.PeriodStart // single-day period

	if err := ValidatePredictionRequest(req); err != nil {
		t.Fatalf("boundary values rejected: %v", err)
	}
}

func TestValidatePredictionRequest_SanitizesFreeText(t *testing.T) {
	req := validRequest()
	req.OriginPort = "  Santos<script>alert(1)</script>  "
	req.ProductType = "polpa\x00 de fruta"

	if err := ValidatePredictionRequest(req); err != nil {
		t.Fatalf("sanitizable request rejected: %v", err)
	}
	if strings.Contains(req.OriginPort, "<script>") {
		t.Errorf("origin_port not sanitized: %q", req.OriginPort)
	}
	if strings.HasPrefix(req.OriginPort, " ") || strings.HasSuffix(req.OriginPort, " ") {
		t.Errorf("origin_port not trimmed: %q", req.OriginPort)
	}
	if strings.Contains(req.ProductType, "\x00") {
		t.Errorf("product_type kept an unprintable byte: %q", req.ProductType)
	}
}
