package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitMetrics_registersAll(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := InitMetrics(reg)
	if m == nil {
		t.Fatal("InitMetrics returned nil")
	}

	// Touch a few instruments so they show up in the gather.
	m.RecordHTTPRequest(http.MethodGet, "/api/home", 200, 5*time.Millisecond, 1024)
	m.RecordViewComputation("movies", "ok", time.Millisecond)
	m.RecordPageLoad("projects", "initial", "ok")
	m.RecordFallback("experience")
	m.RecordContentRequest("projects", 200, time.Millisecond)
	m.RecordDetailCacheHit()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("no metric families registered")
	}
}

func TestRecordBatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := InitMetrics(reg)

	m.RecordBatch(10*time.Millisecond, []string{"skills"})

	if got := testutil.ToFloat64(m.BatchFailuresTotal.WithLabelValues("skills")); got != 1 {
		t.Errorf("batch failures for skills = %v, want 1", got)
	}
}

func TestMetricsMiddleware_usesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := InitMetrics(reg)

	r := chi.NewRouter()
	r.Use(m.MetricsMiddleware)
	r.Get("/api/shelves/{shelfId}/view", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/shelves/movies/view", nil))

	got := testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/shelves/{shelfId}/view", "200"))
	if got != 1 {
		t.Errorf("requests for route pattern = %v, want 1", got)
	}
}

func TestSetContentCircuitBreakerState(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := InitMetrics(reg)

	m.SetContentCircuitBreakerState(2)
	if got := testutil.ToFloat64(m.ContentCircuitBreakerState); got != 2 {
		t.Errorf("breaker gauge = %v, want 2", got)
	}
}
