// Package integration provides a reusable test harness for end-to-end
// testing of the folio BFF server. It starts a full HTTP server wired to a
// scriptable mock content service.
package integration

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/nbamra/folio-bff/internal/catalog"
	"github.com/nbamra/folio-bff/internal/config"
	"github.com/nbamra/folio-bff/internal/content"
	"github.com/nbamra/folio-bff/internal/loader"
	"github.com/nbamra/folio-bff/internal/observability"
	"github.com/nbamra/folio-bff/internal/transport"
)

// TestHarness encapsulates a fully wired BFF instance with a mock content
// service for integration testing.
type TestHarness struct {
	t      *testing.T
	server *httptest.Server

	// Content is the scriptable mock upstream.
	Content *MockContentService

	cfg *config.Config
}

// HarnessOption adjusts the harness configuration before the server starts.
type HarnessOption func(*config.Config)

// WithRetryAttempts sets the content client retry budget.
func WithRetryAttempts(n int) HarnessOption {
	return func(c *config.Config) {
		c.Content.Retry.MaxAttempts = n
	}
}

// WithBreakerThreshold sets the circuit breaker failure threshold.
func WithBreakerThreshold(n int) HarnessOption {
	return func(c *config.Config) {
		c.Content.CircuitBreaker.FailureThreshold = n
	}
}

// WithHandlerTimeout sets the per-request handler timeout.
func WithHandlerTimeout(d time.Duration) HarnessOption {
	return func(c *config.Config) {
		c.Server.HandlerTimeout = d
	}
}

// NewTestHarness creates and starts a full BFF test instance. The servers
// are cleaned up when the test completes.
func NewTestHarness(t *testing.T, opts ...HarnessOption) *TestHarness {
	t.Helper()

	mock := newMockContentService(t)

	cfg := config.Defaults()
	cfg.Content.BaseURL = mock.URL()
	cfg.Content.Retry.BackoffInitial = time.Millisecond
	cfg.Content.Retry.BackoffMax = 5 * time.Millisecond
	cfg.Observability.Metrics.Enabled = false
	for _, opt := range opts {
		opt(cfg)
	}

	logger := zap.NewNop()
	metrics := observability.InitMetrics(prometheus.NewRegistry())
	client := content.NewClient(cfg.Content, metrics)
	shelves := catalog.NewRegistry()
	pageLoader := loader.New(client, logger)
	workSource := loader.NewChain(client, "experience",
		cfg.Collections.Home.ExperienceLimit, catalog.StaticWorkHistory(), logger)

	router := transport.NewRouter(transport.Dependencies{
		Config:        cfg,
		Logger:        logger,
		Metrics:       metrics,
		Shelves:       shelves,
		Content:       client,
		Loader:        pageLoader,
		WorkSource:    workSource,
		ContentHealth: client,
	})

	h := &TestHarness{
		t:       t,
		server:  httptest.NewServer(router),
		Content: mock,
		cfg:     cfg,
	}
	t.Cleanup(h.server.Close)
	return h
}

// BaseURL returns the test server's base URL.
func (h *TestHarness) BaseURL() string {
	return h.server.URL
}

// GET performs a GET request against the BFF server.
func (h *TestHarness) GET(path string) *http.Response {
	h.t.Helper()
	return h.doRequest(http.MethodGet, path, nil)
}

// POST performs a POST request with an optional JSON body.
func (h *TestHarness) POST(path string, body any) *http.Response {
	h.t.Helper()
	return h.doRequest(http.MethodPost, path, body)
}

func (h *TestHarness) doRequest(method, path string, body any) *http.Response {
	h.t.Helper()

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			h.t.Fatalf("marshal request body: %v", err)
		}
		bodyReader = strings.NewReader(string(data))
	}

	req, err := http.NewRequestWithContext(context.Background(), method, h.server.URL+path, bodyReader)
	if err != nil {
		h.t.Fatalf("create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		h.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

// ParseJSON reads the response body and unmarshals it into the target.
func (h *TestHarness) ParseJSON(resp *http.Response, target any) {
	h.t.Helper()
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		h.t.Fatalf("read response body: %v", err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		h.t.Fatalf("unmarshal response body: %v\nbody: %s", err, string(data))
	}
}

// AssertStatus checks that the response has the expected status code.
func (h *TestHarness) AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Errorf("status = %d, want %d\nbody: %s", resp.StatusCode, expected, string(body))
	}
}

// AssertJSON checks the expected status and parses the body into target.
func (h *TestHarness) AssertJSON(t *testing.T, resp *http.Response, expected int, target any) {
	t.Helper()
	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		t.Fatalf("status = %d, want %d\nbody: %s", resp.StatusCode, expected, string(body))
	}
	h.ParseJSON(resp, target)
}

// --- Fixtures ---

// ProjectFixture returns a map representing a typical project item.
func ProjectFixture(id string) map[string]any {
	return map[string]any{
		"_id":         id,
		"title":       "Project " + id,
		"description": "A portfolio project.",
		"tags":        []string{"go", "web"},
	}
}

// ExperienceFixture returns a work history item with the given start date.
func ExperienceFixture(id, startDate string) map[string]any {
	return map[string]any{
		"_id":       id,
		"company":   "Company " + id,
		"role":      "Engineer",
		"startDate": startDate,
	}
}

// SkillFixture returns a skill item in the given category.
func SkillFixture(id, category string) map[string]any {
	return map[string]any{
		"_id":      id,
		"name":     id,
		"category": category,
	}
}
