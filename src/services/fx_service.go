// src/services/fx_service.go
package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/polpacost/src/logger"
)

const (
	fxCacheKey       = "fx_anchors"
	fxRequestTimeout = 20 * time.Second
)

// fxQuote is one currency quote from the public exchange API.
type fxQuote struct {
	Bid string `json:"bid"`
}

// fxQuoteResponse maps quote codes like "USDBRL" to their latest quote.
type fxQuoteResponse map[string]fxQuote

type fxAnchors struct {
	EurBrl float64
	EurUsd float64
}

// FxQuoteService polls a public exchange-rate API and serves the latest
// EUR-BRL / EUR-USD anchors. Quotes are cached with a TTL; when the API is
// unreachable the service degrades to zero anchors and the rate-table
// baseline takes over, so a quote outage never blocks inference.
type FxQuoteService struct {
	httpClient http.Client
	quoteURL   string
	quoteCache *cache.Cache
}

func NewFxQuoteService(quoteURL string, ttl time.Duration) *FxQuoteService {
	return &FxQuoteService{
		httpClient: http.Client{Timeout: fxRequestTimeout},
		quoteURL:   quoteURL,
		quoteCache: cache.New(ttl, 2*ttl),
	}
}

// CurrentAnchors implements AnchorSource. Zero values mean "no live quote".
// It only reads the cache and returns immediately: fetching is owned by the
// startup refresh and the polling loop, so a quote outage never blocks
// inference.
func (s *FxQuoteService) CurrentAnchors() (eurBrl, eurUsd float64) {
	if cached, found := s.quoteCache.Get(fxCacheKey); found {
		anchors := cached.(fxAnchors)
		return anchors.EurBrl, anchors.EurUsd
	}
	return 0, 0
}

// Refresh fetches the latest quotes and updates the cached anchors.
func (s *FxQuoteService) Refresh() error {
	req, err := http.NewRequest(http.MethodGet, s.quoteURL, nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call FX quote API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("FX quote API returned non-OK status %d", resp.StatusCode)
	}

	var quotes fxQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return fmt.Errorf("failed to decode FX quote response: %w", err)
	}

	usdBrl := parseBid(quotes, "USDBRL")
	eurBrl := parseBid(quotes, "EURBRL")
	if eurBrl <= 0 {
		return fmt.Errorf("FX quote response carried no usable EURBRL bid")
	}

	anchors := fxAnchors{EurBrl: eurBrl}
	if usdBrl > 0 {
		// EUR_USD derived from the two BRL quotes.
		anchors.EurUsd = eurBrl / usdBrl
	}

	s.quoteCache.SetDefault(fxCacheKey, anchors)
	logger.L.Info("FX anchors refreshed", "EUR_BRL", anchors.EurBrl, "EUR_USD", anchors.EurUsd)
	return nil
}

// StartPolling refreshes anchors on a fixed interval until stop is closed.
func (s *FxQuoteService) StartPolling(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.Refresh(); err != nil {
					logger.L.Warn("Scheduled FX refresh failed", "error", err)
				}
			case <-stop:
				return
			}
		}
	}()
}

func parseBid(quotes fxQuoteResponse, code string) float64 {
	quote, ok := quotes[code]
	if !ok {
		return 0
	}
	bid, err := strconv.ParseFloat(quote.Bid, 64)
	if err != nil {
		logger.L.Warn("Invalid bid value in FX quote", "code", code, "bid", quote.Bid, "error", err)
		return 0
	}
	return bid
}

// StaticAnchors is an AnchorSource with fixed values, used when live quotes
// are disabled and by tests.
type StaticAnchors struct {
	EurBrl float64
	EurUsd float64
}

func (a StaticAnchors) CurrentAnchors() (float64, float64) { return a.EurBrl, a.EurUsd }
