package services

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFxQuoteService_RefreshParsesAnchors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"USDBRL": {"bid": "5.20"},
			"EURBRL": {"bid": "6.24"}
		}`))
	}))
	defer server.Close()

	svc := NewFxQuoteService(server.URL, time.Minute)
	if err := svc.Refresh(); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	eurBrl, eurUsd := svc.CurrentAnchors()

	if eurBrl != 6.24 {
		t.Errorf("EUR_BRL anchor = %v, want 6.24", eurBrl)
	}
	if math.Abs(eurUsd-6.24/5.20) > 1e-9 {
		t.Errorf("EUR_USD anchor = %v, want %v derived from the BRL quotes", eurUsd, 6.24/5.20)
	}
}

func TestFxQuoteService_MissingUsdQuote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"EURBRL": {"bid": "6.24"}}`))
	}))
	defer server.Close()

	svc := NewFxQuoteService(server.URL, time.Minute)
	if err := svc.Refresh(); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	eurBrl, eurUsd := svc.CurrentAnchors()

	if eurBrl != 6.24 {
		t.Errorf("EUR_BRL anchor = %v, want 6.24", eurBrl)
	}
	if eurUsd != 0 {
		t.Errorf("EUR_USD anchor = %v, want 0 when the USD quote is missing", eurUsd)
	}
}

func TestFxQuoteService_DegradesOnFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"serverError", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}},
		{"malformedBody", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
		{"unusableBid", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"EURBRL": {"bid": "n/a"}}`))
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(tc.handler)
			defer server.Close()

			svc := NewFxQuoteService(server.URL, time.Minute)
			if err := svc.Refresh(); err == nil {
				t.Error("expected Refresh to report the failure")
			}

			// Zero anchors let the rate-table baseline take over.
			eurBrl, eurUsd := svc.CurrentAnchors()
			if eurBrl != 0 || eurUsd != 0 {
				t.Errorf("anchors = (%v, %v), want zeros on degradation", eurBrl, eurUsd)
			}
		})
	}
}

func TestFxQuoteService_AnchorsNeverBlockOnMiss(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		time.Sleep(500 * time.Millisecond) // a slow quote API must not be waited on
		w.Write([]byte(`{"EURBRL": {"bid": "6.24"}}`))
	}))
	defer server.Close()

	svc := NewFxQuoteService(server.URL, time.Minute)

	start := time.Now()
	eurBrl, eurUsd := svc.CurrentAnchors()
	elapsed := time.Since(start)

	if eurBrl != 0 || eurUsd != 0 {
		t.Errorf("anchors = (%v, %v), want zeros before any refresh", eurBrl, eurUsd)
	}
	if calls != 0 {
		t.Errorf("quote API called %d times on a cache miss, want 0", calls)
	}
	if elapsed > 100*time.Millisecond {
		t.Errorf("CurrentAnchors took %v on a cache miss, want a prompt return", elapsed)
	}
}

func TestFxQuoteService_ServesCachedAnchors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"EURBRL": {"bid": "6.24"}}`))
	}))
	defer server.Close()

	svc := NewFxQuoteService(server.URL, time.Minute)
	if err := svc.Refresh(); err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	svc.CurrentAnchors()
	svc.CurrentAnchors()

	if calls != 1 {
		t.Errorf("quote API called %d times, want 1 (reads served from cache)", calls)
	}
}
