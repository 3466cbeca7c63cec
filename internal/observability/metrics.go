package observability

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Histogram bucket definitions.
var (
	httpDurationBuckets    = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	contentDurationBuckets = []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}
	bodySizeBuckets        = []float64{100, 1024, 10240, 102400, 1048576}
)

// Metrics holds all Prometheus metric instruments for the service.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// View engine metrics
	ViewComputationsTotal *prometheus.CounterVec
	ViewDuration          *prometheus.HistogramVec

	// Loader metrics
	PageLoadsTotal      *prometheus.CounterVec
	BatchDuration       prometheus.Histogram
	BatchFailuresTotal  *prometheus.CounterVec
	FallbackServedTotal *prometheus.CounterVec

	// Content client metrics
	ContentRequestsTotal       *prometheus.CounterVec
	ContentRequestDuration     *prometheus.HistogramVec
	ContentCircuitBreakerState prometheus.Gauge
	ContentRetriesTotal        prometheus.Counter

	// Cache metrics
	DetailCacheHitsTotal   prometheus.Counter
	DetailCacheMissesTotal prometheus.Counter
}

// InitMetrics creates and registers all Prometheus metric instruments.
func InitMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		// HTTP
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: httpDurationBuckets,
		}, []string{"method", "path_pattern"}),
		HTTPResponseSizeBytes: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folio_http_response_size_bytes",
			Help:    "HTTP response body size in bytes.",
			Buckets: bodySizeBuckets,
		}, []string{"method", "path_pattern"}),

		// View engine
		ViewComputationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_view_computations_total",
			Help: "Total number of shelf view computations.",
		}, []string{"shelf_id", "status"}),
		ViewDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folio_view_duration_seconds",
			Help:    "Shelf view computation duration in seconds.",
			Buckets: contentDurationBuckets,
		}, []string{"shelf_id"}),

		// Loader
		PageLoadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_page_loads_total",
			Help: "Total number of remote page loads.",
		}, []string{"collection", "kind", "status"}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "folio_batch_duration_seconds",
			Help:    "Batch load duration in seconds.",
			Buckets: contentDurationBuckets,
		}),
		BatchFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_batch_failures_total",
			Help: "Total number of failed collection fetches within batch loads.",
		}, []string{"collection"}),
		FallbackServedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_fallback_served_total",
			Help: "Total number of responses served from static fallback data.",
		}, []string{"collection"}),

		// Content client
		ContentRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_content_requests_total",
			Help: "Total number of content API requests.",
		}, []string{"collection", "status"}),
		ContentRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folio_content_request_duration_seconds",
			Help:    "Content API request duration in seconds.",
			Buckets: contentDurationBuckets,
		}, []string{"collection"}),
		ContentCircuitBreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "folio_content_circuit_breaker_state",
			Help: "Content API circuit breaker state (0=closed, 1=half-open, 2=open).",
		}),
		ContentRetriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "folio_content_retries_total",
			Help: "Total number of content API request retries.",
		}),

		// Cache
		DetailCacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "folio_detail_cache_hits_total",
			Help: "Total detail cache hits.",
		}),
		DetailCacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "folio_detail_cache_misses_total",
			Help: "Total detail cache misses.",
		}),
	}

	reg.MustRegister(
		// HTTP
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSizeBytes,
		// View
		m.ViewComputationsTotal,
		m.ViewDuration,
		// Loader
		m.PageLoadsTotal,
		m.BatchDuration,
		m.BatchFailuresTotal,
		m.FallbackServedTotal,
		// Content
		m.ContentRequestsTotal,
		m.ContentRequestDuration,
		m.ContentCircuitBreakerState,
		m.ContentRetriesTotal,
		// Cache
		m.DetailCacheHitsTotal,
		m.DetailCacheMissesTotal,
	)

	return m
}

// --- Recording helpers ---

// RecordHTTPRequest records HTTP request metrics.
func (m *Metrics) RecordHTTPRequest(method, pathPattern string, status int, duration time.Duration, respSize int) {
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(duration.Seconds())
	m.HTTPResponseSizeBytes.WithLabelValues(method, pathPattern).Observe(float64(respSize))
}

// RecordViewComputation records a shelf view computation.
func (m *Metrics) RecordViewComputation(shelfID, status string, duration time.Duration) {
	m.ViewComputationsTotal.WithLabelValues(shelfID, status).Inc()
	m.ViewDuration.WithLabelValues(shelfID).Observe(duration.Seconds())
}

// RecordPageLoad records an initial or load-more page fetch.
func (m *Metrics) RecordPageLoad(collection, kind, status string) {
	m.PageLoadsTotal.WithLabelValues(collection, kind, status).Inc()
}

// RecordBatch records a batch load and its failed members.
func (m *Metrics) RecordBatch(duration time.Duration, failedCollections []string) {
	m.BatchDuration.Observe(duration.Seconds())
	for _, c := range failedCollections {
		m.BatchFailuresTotal.WithLabelValues(c).Inc()
	}
}

// RecordFallback records a response served from static fallback data.
func (m *Metrics) RecordFallback(collection string) {
	m.FallbackServedTotal.WithLabelValues(collection).Inc()
}

// RecordContentRequest records a content API request.
func (m *Metrics) RecordContentRequest(collection string, status int, duration time.Duration) {
	m.ContentRequestsTotal.WithLabelValues(collection, strconv.Itoa(status)).Inc()
	m.ContentRequestDuration.WithLabelValues(collection).Observe(duration.Seconds())
}

// SetContentCircuitBreakerState sets the breaker state gauge.
// State: 0=closed, 1=half-open, 2=open.
func (m *Metrics) SetContentCircuitBreakerState(state float64) {
	m.ContentCircuitBreakerState.Set(state)
}

// RecordContentRetry records a content API request retry.
func (m *Metrics) RecordContentRetry() {
	m.ContentRetriesTotal.Inc()
}

// RecordDetailCacheHit records a detail cache hit.
func (m *Metrics) RecordDetailCacheHit() {
	m.DetailCacheHitsTotal.Inc()
}

// RecordDetailCacheMiss records a detail cache miss.
func (m *Metrics) RecordDetailCacheMiss() {
	m.DetailCacheMissesTotal.Inc()
}

// --- HTTP Middleware ---

// MetricsMiddleware returns HTTP middleware that records request metrics using
// chi's route pattern (not the actual URL path) to avoid label cardinality
// explosion.
func (m *Metrics) MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &metricsResponseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		m.RecordHTTPRequest(r.Method, routePattern(r), sw.status, time.Since(start), sw.bytes)
	})
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// routePattern extracts chi's route pattern from the request context.
// Falls back to the raw URL path if no pattern is found.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return r.URL.Path
	}
	pattern := strings.Join(rctx.RoutePatterns, "")
	// chi route patterns have trailing /*, remove it.
	pattern = strings.TrimSuffix(pattern, "/*")
	if pattern == "" {
		return r.URL.Path
	}
	return pattern
}

// metricsResponseWriter wraps http.ResponseWriter to capture status and bytes.
type metricsResponseWriter struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

func (w *metricsResponseWriter) WriteHeader(code int) {
	if !w.written {
		w.status = code
		w.written = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *metricsResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.written = true
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

func (w *metricsResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
