package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lilbud/brucebot/testutil"
)

func TestHealthz(t *testing.T) {
	db := testutil.SetupTestDB(t)
	srv := httptest.NewServer(NewMux(db))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", resp.StatusCode)
	}
	if resp.Header.Get("X-Correlation-ID") == "" {
		t.Error("missing correlation id header")
	}
}

func TestCorrelationHeaderEchoed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	srv := httptest.NewServer(NewMux(db))
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("X-Correlation-ID", "test-corr-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("X-Correlation-ID"); got != "test-corr-123" {
		t.Errorf("correlation id = %q, want test-corr-123", got)
	}
}

func TestReadyzReportsEmptyCatalog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	if _, err := db.Exec(`TRUNCATE setlists, snippets, release_tracks, songs CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	srv := httptest.NewServer(NewMux(db))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("readyz request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("readyz status = %d, want 503", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["failed_check"] != "catalog" {
		t.Errorf("failed_check = %q, want catalog", body["failed_check"])
	}
}

func TestStatusCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	srv := httptest.NewServer(NewMux(db))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("status request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, key := range []string{"songs", "events", "venues", "setlists", "uptime_seconds", "tracing"} {
		if _, ok := body[key]; !ok {
			t.Errorf("status body missing %q", key)
		}
	}
}
