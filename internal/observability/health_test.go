package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubChecker struct{ err error }

func (s stubChecker) HealthCheck(context.Context) error { return s.err }

func TestHandleHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleHealth()(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
}

func TestHandleReady_shelvesGateReadiness(t *testing.T) {
	handler := HandleReady(ReadinessChecks{
		ShelvesLoaded: func() bool { return false },
	})
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when shelves missing", rec.Code)
	}
}

func TestHandleReady_degradedContentServiceStaysReady(t *testing.T) {
	handler := HandleReady(ReadinessChecks{
		ShelvesLoaded:  func() bool { return true },
		ContentService: stubChecker{err: errors.New("circuit open")},
	})
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 despite degraded content service", rec.Code)
	}
	var body ReadinessResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Checks["content_service"].Status != "error" {
		t.Errorf("content_service check = %+v, want error reported", body.Checks["content_service"])
	}
	if body.Checks["shelves"].Status != "ok" {
		t.Errorf("shelves check = %+v, want ok", body.Checks["shelves"])
	}
}
