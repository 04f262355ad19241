package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// testConfig returns pacing tuned for tests so retries do not stall the run
func testConfig(baseURL string) Config {
	return Config{
		APIKey:       "test-key",
		AppCode:      "test-app",
		BaseURL:      baseURL,
		RequestDelay: time.Millisecond,
		RetryWait:    time.Millisecond,
		MaxRetries:   3,
		Timeout:      time.Second,
	}
}

func TestSearchTitlesRequest(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string
	var gotKey, gotApp string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		gotKey = r.Header.Get("X-Api-Key")
		gotApp = r.Header.Get("X-App-Code")
		w.Write([]byte(`{"titles": [{"title": "Dune", "author": "Herbert, Frank", "source": "Physical", "brn": 99}]}`))
	}))
	defer server.Close()

	client := NewClientWithConfig(testConfig(server.URL))

	candidates, err := client.SearchTitles("Dune", "Frank Herbert", "bks", 0)
	if err != nil {
		t.Fatalf("SearchTitles failed: %v", err)
	}

	if gotPath != "/GetTitles" {
		t.Errorf("path = %q, want /GetTitles", gotPath)
	}
	if gotKey != "test-key" || gotApp != "test-app" {
		t.Errorf("credential headers = (%q, %q), want (test-key, test-app)", gotKey, gotApp)
	}
	want := map[string]string{"Title": "Dune", "Author": "Frank Herbert", "MaterialTypes": "bks", "Limit": "20"}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query param %s = %q, want %q", k, gotQuery[k], v)
		}
	}

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].BRN == nil || *candidates[0].BRN != 99 {
		t.Errorf("BRN = %v, want 99", candidates[0].BRN)
	}
}

func TestGetAvailabilityRequest(t *testing.T) {
	var gotPath string
	var gotBRN, gotLimit string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBRN = r.URL.Query().Get("BRN")
		gotLimit = r.URL.Query().Get("Limit")
		w.Write([]byte(`{"items": [{"location": {"name": "Central"}, "callNumber": "523.1"}]}`))
	}))
	defer server.Close()

	client := NewClientWithConfig(testConfig(server.URL))

	items, err := client.GetAvailability(456, 500)
	if err != nil {
		t.Fatalf("GetAvailability failed: %v", err)
	}

	if gotPath != "/GetAvailabilityInfo" {
		t.Errorf("path = %q, want /GetAvailabilityInfo", gotPath)
	}
	if gotBRN != "456" {
		t.Errorf("BRN param = %q, want 456", gotBRN)
	}
	if gotLimit != "100" {
		t.Errorf("Limit param = %q, want 100 (clamped)", gotLimit)
	}

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Location == nil || items[0].Location.Name != "Central" {
		t.Errorf("location = %+v, want Central", items[0].Location)
	}
}

func TestRetryOn429ThenSuccess(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"titles": []}`))
	}))
	defer server.Close()

	client := NewClientWithConfig(testConfig(server.URL))

	if _, err := client.SearchTitles("Dune", "", "", 0); err != nil {
		t.Fatalf("expected success after two 429s, got %v", err)
	}
	if requests != 3 {
		t.Errorf("expected 3 requests (two 429s then success), got %d", requests)
	}
}

func TestRateLimitExhausted(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClientWithConfig(testConfig(server.URL))

	_, err := client.SearchTitles("Dune", "", "", 0)
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}

	var rateErr *RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected RateLimitError, got %T: %v", err, err)
	}
	if rateErr.Endpoint != "GetTitles" {
		t.Errorf("Endpoint = %q, want GetTitles", rateErr.Endpoint)
	}
	if rateErr.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", rateErr.Attempts)
	}
	if requests != 3 {
		t.Errorf("expected exactly 3 requests, got %d", requests)
	}
}

func TestNonRetryableHTTPError(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewClientWithConfig(testConfig(server.URL))

	_, err := client.GetAvailability(456, 0)
	if err == nil {
		t.Fatal("expected an error on HTTP 500")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %T: %v", err, err)
	}
	if reqErr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", reqErr.Status)
	}
	if reqErr.Endpoint != "GetAvailabilityInfo" {
		t.Errorf("Endpoint = %q, want GetAvailabilityInfo", reqErr.Endpoint)
	}
	if requests != 1 {
		t.Errorf("non-429 errors must not be retried: got %d requests", requests)
	}
}

func TestTransportErrorNotRetried(t *testing.T) {
	// Point at a server that is already closed
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClientWithConfig(testConfig(server.URL))

	_, err := client.SearchTitles("Dune", "", "", 0)
	if err == nil {
		t.Fatal("expected a transport error")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %T: %v", err, err)
	}
	if reqErr.Err == nil {
		t.Error("transport RequestError should carry the underlying error")
	}
}

func TestPoliteDelayAfterSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"titles": []}`))
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RequestDelay = 50 * time.Millisecond
	client := NewClientWithConfig(cfg)

	start := time.Now()
	if _, err := client.SearchTitles("Dune", "", "", 0); err != nil {
		t.Fatalf("SearchTitles failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("expected the polite delay to apply after success, call returned in %v", elapsed)
	}
}
