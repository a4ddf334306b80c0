package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"
)

////////////////////////////////////////////////////////////////////////////////
// INTEGRATION TEST SUITE
//
// These tests validate the service end-to-end:
//
//   Client → HTTP API → Postgres → Aggregation → Response
//
// The service must already be running (for example via docker compose),
// typically after `go run ./cmd/import` has loaded sample CSV files.
//
// Optional environment overrides:
//
//   BASE_URL  default http://localhost:8080
//   API_ROUTE default /analytics
//
////////////////////////////////////////////////////////////////////////////////

func baseURL() string {
	if v := os.Getenv("BASE_URL"); v != "" {
		return v
	}
	return "http://localhost:8080"
}

func apiRoute() string {
	if v := os.Getenv("API_ROUTE"); v != "" {
		return v
	}
	return "/analytics"
}

////////////////////////////////////////////////////////////////////////////////
// SERVICE READINESS HELPER
//
// waitReady polls /ready until DB + server are ready.
// Prevents flaky failures when containers are still booting.
////////////////////////////////////////////////////////////////////////////////

func waitReady(t *testing.T) {
	t.Helper()

	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(30 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL() + "/ready")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(300 * time.Millisecond)
	}

	t.Fatalf("service not ready after 30s")
}

// httpGet performs a GET request against the running service.
func httpGet(t *testing.T, path string) (int, []byte) {
	t.Helper()

	resp, err := (&http.Client{Timeout: 5 * time.Second}).Get(baseURL() + path)
	if err != nil {
		t.Fatalf("GET %s failed: %v", path, err)
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, b
}

////////////////////////////////////////////////////////////////////////////////
// HEALTH & READINESS TESTS
////////////////////////////////////////////////////////////////////////////////

// Health endpoint = liveness check (server process running).
func TestHealth_ReturnsOK(t *testing.T) {
	s, _ := httpGet(t, "/health")
	if s != http.StatusOK {
		t.Fatalf("health expected 200 got %d", s)
	}
}

// Ready endpoint = dependency readiness (DB reachable).
func TestReady_ReturnsOK(t *testing.T) {
	waitReady(t)
	s, _ := httpGet(t, "/ready")
	if s != http.StatusOK {
		t.Fatalf("ready expected 200 got %d", s)
	}
}

////////////////////////////////////////////////////////////////////////////////
// ANALYTICS CONTRACT TESTS
//
// The store contents depend on which CSV files were imported, so these
// assert response shapes and ordering contracts, not exact figures.
////////////////////////////////////////////////////////////////////////////////

func TestTopMerchant_ShapeOrNull(t *testing.T) {
	waitReady(t)

	s, b := httpGet(t, apiRoute()+"/top-merchant")
	if s != http.StatusOK {
		t.Fatalf("expected 200 got %d", s)
	}
	if string(b) == "null" {
		return // empty store is a valid state
	}

	var r struct {
		MerchantID  string  `json:"merchant_id"`
		TotalVolume float64 `json:"total_volume"`
	}
	if err := json.Unmarshal(b, &r); err != nil {
		t.Fatalf("invalid top-merchant JSON: %v", err)
	}
	if r.MerchantID == "" {
		t.Fatal("merchant_id empty in non-null result")
	}
}

func TestMonthlyActiveMerchants_MonthsAscending(t *testing.T) {
	waitReady(t)

	s, b := httpGet(t, apiRoute()+"/monthly-active-merchants")
	if s != http.StatusOK {
		t.Fatalf("expected 200 got %d", s)
	}

	var r map[string]int64
	if err := json.Unmarshal(b, &r); err != nil {
		t.Fatalf("invalid monthly-active-merchants JSON: %v", err)
	}
	for month, count := range r {
		if len(month) != 7 || month[4] != '-' {
			t.Errorf("month key %q is not YYYY-MM", month)
		}
		if count < 1 {
			t.Errorf("month %s count %d, want >= 1", month, count)
		}
	}
}

func TestProductAdoption_CountsNonIncreasing(t *testing.T) {
	waitReady(t)

	s, b := httpGet(t, apiRoute()+"/product-adoption")
	if s != http.StatusOK {
		t.Fatalf("expected 200 got %d", s)
	}

	// Decode incrementally: the object's key order is the contract.
	dec := json.NewDecoder(bytes.NewReader(b))
	if _, err := dec.Token(); err != nil { // {
		t.Fatalf("invalid product-adoption JSON: %v", err)
	}
	prev := int64(-1)
	for dec.More() {
		if _, err := dec.Token(); err != nil { // key
			t.Fatal(err)
		}
		var count int64
		if err := dec.Decode(&count); err != nil {
			t.Fatal(err)
		}
		if prev >= 0 && count > prev {
			t.Fatalf("adoption counts increase: %d after %d", count, prev)
		}
		prev = count
	}
}

func TestKycFunnel_FixedThreeKeys(t *testing.T) {
	waitReady(t)

	s, b := httpGet(t, apiRoute()+"/kyc-funnel")
	if s != http.StatusOK {
		t.Fatalf("expected 200 got %d", s)
	}

	var r map[string]int64
	if err := json.Unmarshal(b, &r); err != nil {
		t.Fatalf("invalid kyc-funnel JSON: %v", err)
	}
	for _, key := range []string{"documents_submitted", "verifications_completed", "tier_upgrades"} {
		if _, ok := r[key]; !ok {
			t.Errorf("funnel missing key %s", key)
		}
	}
	if len(r) != 3 {
		t.Errorf("funnel has %d keys, want exactly 3", len(r))
	}
}

func TestFailureRates_RatesDescendingWithinBounds(t *testing.T) {
	waitReady(t)

	s, b := httpGet(t, apiRoute()+"/failure-rates")
	if s != http.StatusOK {
		t.Fatalf("expected 200 got %d", s)
	}

	var r []struct {
		Product     string  `json:"product"`
		FailureRate float64 `json:"failure_rate"`
	}
	if err := json.Unmarshal(b, &r); err != nil {
		t.Fatalf("invalid failure-rates JSON: %v", err)
	}
	prev := 101.0
	for _, row := range r {
		if row.FailureRate < 0 || row.FailureRate > 100 {
			t.Errorf("%s rate %.1f out of range", row.Product, row.FailureRate)
		}
		if row.FailureRate > prev {
			t.Errorf("rates not descending: %.1f after %.1f", row.FailureRate, prev)
		}
		prev = row.FailureRate
	}
}
