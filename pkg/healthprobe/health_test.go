package healthprobe

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthAlwaysOK(t *testing.T) {
	checker := New()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	checker.Health()(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", rec.Code)
	}

	var resp HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("status field: got %s", resp.Status)
	}
	if resp.Uptime == "" {
		t.Error("missing uptime")
	}
}

func TestReadyTracksFlag(t *testing.T) {
	checker := New()

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	checker.Ready()(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("before ready: got %d, want 503", rec.Code)
	}

	checker.SetReady(true)
	rec = httptest.NewRecorder()
	checker.Ready()(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("after ready: got %d, want 200", rec.Code)
	}

	checker.SetReady(false)
	rec = httptest.NewRecorder()
	checker.Ready()(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("after shutdown: got %d, want 503", rec.Code)
	}
}

func TestUptimeMonotonic(t *testing.T) {
	checker := New()
	if checker.Uptime() < 0 {
		t.Error("uptime should never be negative")
	}
}
