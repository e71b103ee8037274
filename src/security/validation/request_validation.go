// src/security/validation/request_validation.go
package validation

import (
	"errors"
	"fmt"
	"time"

	"github.com/username/polpacost/src/models"
)

// ErrValidationFailed wraps every boundary-layer rejection so handlers can
// map the whole family to one status code.
var ErrValidationFailed = errors.New("request validation failed")

const dateLayout = "2006/01/02"

const maxIdentifierLength = 100

var (
	validTransportModes = map[string]bool{"maritimo": true, "aereo": true, "rodoviario": true}
	validPackagingTypes = map[string]bool{"containerizado": true, "paletizado": true, "caixas": true, "bags": true}
	validContainerTypes = map[string]bool{"dry": true, "reefer": true, "open_top": true, "flat_rack": true}
	validContainerSizes = map[string]bool{"20ft": true, "40ft": true}
	validCurrencies     = map[string]bool{"BRL": true, "EUR": true, "USD": true}
	validModelNames     = map[string]bool{
		"linear_regression":         true,
		"linear_regression_sklearn": true,
		"random_forest":             true,
		"gradient_boosting":         true,
		"mlp":                       true,
	}
)

// ValidatePredictionRequest enforces every request bound before the core
// pipeline runs, sanitizing free-text fields in place. The core never
// observes a request that fails here.
func ValidatePredictionRequest(req *models.PredictionRequest) error {
	req.OriginPort = SanitizeText(req.OriginPort)
	req.DestinationPort = SanitizeText(req.DestinationPort)
	req.ProductType = SanitizeText(req.ProductType)

	if err := checkIdentifier("origin_port", req.OriginPort); err != nil {
		return err
	}
	if err := checkIdentifier("destination_port", req.DestinationPort); err != nil {
		return err
	}
	if err := checkIdentifier("product_type", req.ProductType); err != nil {
		return err
	}

	if !validTransportModes[req.TransportMode] {
		return fmt.Errorf("%w: unknown transport_mode '%s'", ErrValidationFailed, req.TransportMode)
	}
	if !validPackagingTypes[req.PackagingType] {
		return fmt.Errorf("%w: unknown packaging_type '%s'", ErrValidationFailed, req.PackagingType)
	}
	if !validContainerTypes[req.ContainerType] {
		return fmt.Errorf("%w: unknown container_type '%s'", ErrValidationFailed, req.ContainerType)
	}
	if !validContainerSizes[req.ContainerSize] {
		return fmt.Errorf("%w: unknown container_size '%s'", ErrValidationFailed, req.ContainerSize)
	}

	if req.VolumeTon < 0 {
		return fmt.Errorf("%w: volume_ton must be >= 0, got %v", ErrValidationFailed, req.VolumeTon)
	}
	if req.FuelIndex < 0.5 || req.FuelIndex > 3.0 {
		return fmt.Errorf("%w: fuel_index must be in [0.5, 3.0], got %v", ErrValidationFailed, req.FuelIndex)
	}
	if req.TaxesPct < 0 || req.TaxesPct > 100 {
		return fmt.Errorf("%w: taxes_pct must be in [0, 100], got %v", ErrValidationFailed, req.TaxesPct)
	}
	if req.LeadTimeDays < 5 || req.LeadTimeDays > 365 {
		return fmt.Errorf("%w: lead_time_days must be in [5, 365], got %d", ErrValidationFailed, req.LeadTimeDays)
	}
	if req.FxEurBrl != 0 && (req.FxEurBrl < 4.0 || req.FxEurBrl > 8.0) {
		return fmt.Errorf("%w: fx_brl_eur must be in [4.0, 8.0], got %v", ErrValidationFailed, req.FxEurBrl)
	}

	start, err := time.Parse(dateLayout, req.PeriodStart)
	if err != nil {
		return fmt.Errorf("%w: invalid period_start, use YYYY/MM/DD", ErrValidationFailed)
	}
	end, err := time.Parse(dateLayout, req.PeriodEnd)
	if err != nil {
		return fmt.Errorf("%w: invalid period_end, use YYYY/MM/DD", ErrValidationFailed)
	}
	if end.Before(start) {
		return fmt.Errorf("%w: period_end must be on or after period_start", ErrValidationFailed)
	}

	if !validModelNames[req.ModelName] {
		return fmt.Errorf("%w: unknown model_name '%s'", ErrValidationFailed, req.ModelName)
	}
	if !validCurrencies[req.OutputCurrency] {
		return fmt.Errorf("%w: unknown output_currency '%s'", ErrValidationFailed, req.OutputCurrency)
	}

	return nil
}

func checkIdentifier(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", ErrValidationFailed, field)
	}
	if len(value) > maxIdentifierLength {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrValidationFailed, field, maxIdentifierLength)
	}
	return nil
}
