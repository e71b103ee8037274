// src/processors/fxrates.go
package processors

import (
	"errors"
	"fmt"

	"github.com/username/polpacost/src/logger"
)

// PivotCurrency is the common intermediate for cross-rate routing.
const PivotCurrency = "EUR"

// ErrNoConversionRoute is returned when neither a direct rate nor an EUR
// pivot can resolve a currency pair.
var ErrNoConversionRoute = errors.New("no conversion route")

// RateTable maps ordered currency-pair keys ("FROM_TO") to multiplicative
// rates. Invariant: rate(A,B) * rate(B,A) ≈ 1 for every pair it holds.
type RateTable map[string]float64

func pairKey(from, to string) string {
	return from + "_" + to
}

// FixedRates returns the six baseline pairs among {BRL, EUR, USD}.
func FixedRates() RateTable {
	return RateTable{
		"BRL_EUR": 0.18, // 1 BRL = 0.18 EUR
		"BRL_USD": 0.19, // 1 BRL = 0.19 USD
		"EUR_BRL": 5.56, // 1 EUR = 5.56 BRL
		"EUR_USD": 1.06, // 1 EUR = 1.06 USD
		"USD_BRL": 5.25, // 1 USD = 5.25 BRL
		"USD_EUR": 0.94, // 1 USD = 0.94 EUR
	}
}

// BuildRates constructs a coherent rate table. Callers may override the
// EUR-BRL and EUR-USD anchors (BRL per EUR, USD per EUR); zero means "keep
// the baseline" and negative overrides are ignored with a warning. Cross
// rates are always recomputed from the anchors through the EUR pivot so an
// override never leaves a stale cross rate behind.
func BuildRates(fxEurBrl, fxEurUsd float64) RateTable {
	r := FixedRates()

	if fxEurBrl > 0 {
		r["EUR_BRL"] = fxEurBrl
		r["BRL_EUR"] = 1.0 / fxEurBrl
		logger.L.Debug("FX override applied", "pair", "EUR_BRL", "rate", fxEurBrl)
	} else if fxEurBrl != 0 {
		logger.L.Warn("Ignoring invalid EUR_BRL override", "value", fxEurBrl)
	}

	if fxEurUsd > 0 {
		r["EUR_USD"] = fxEurUsd
		r["USD_EUR"] = 1.0 / fxEurUsd
		logger.L.Debug("FX override applied", "pair", "EUR_USD", "rate", fxEurUsd)
	} else if fxEurUsd != 0 {
		logger.L.Warn("Ignoring invalid EUR_USD override", "value", fxEurUsd)
	}

	// Cross rates via the EUR pivot.
	r["USD_BRL"] = r["USD_EUR"] * r["EUR_BRL"]
	r["BRL_USD"] = 1.0 / r["USD_BRL"]

	return r
}

// Convert converts an amount between currencies: identity when from == to,
// direct lookup when the pair exists, otherwise routed through the EUR pivot.
func Convert(amount float64, from, to string, rates RateTable) (float64, error) {
	if from == to {
		return amount, nil
	}

	if rate, ok := rates[pairKey(from, to)]; ok {
		return amount * rate, nil
	}

	if from != PivotCurrency && to != PivotCurrency {
		toPivot, okFrom := rates[pairKey(from, PivotCurrency)]
		fromPivot, okTo := rates[pairKey(PivotCurrency, to)]
		if okFrom && okTo {
			return amount * toPivot * fromPivot, nil
		}
	}

	return 0, fmt.Errorf("%w for %s", ErrNoConversionRoute, pairKey(from, to))
}
