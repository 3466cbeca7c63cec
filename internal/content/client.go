// Package content implements the client for the upstream content read API.
// The API is an opaque collaborator: named collections of JSON items with
// limit/skip paging and a hasNext signal. All network failures are mapped
// onto the model error taxonomy at this boundary.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/nbamra/folio-bff/internal/config"
	"github.com/nbamra/folio-bff/internal/observability"
	"github.com/nbamra/folio-bff/model"
)

// ListOptions bounds a collection listing.
type ListOptions struct {
	Limit int
	Skip  int
}

// Page is one bounded slice of a collection as returned by the API.
type Page struct {
	Items   []model.Item `json:"items"`
	HasNext bool         `json:"hasNext"`
}

// Fetcher is the read surface the rest of the application depends on.
type Fetcher interface {
	GetAll(ctx context.Context, collection string, filter map[string]string, opts ListOptions) (Page, error)
	GetByID(ctx context.Context, collection, id string) (model.Item, error)
}

// Client talks to the content read API with retries, a circuit breaker,
// and a TTL cache for detail lookups.
type Client struct {
	baseURL string
	client  *http.Client
	retry   config.RetryConfig
	breaker *Breaker
	details *detailCache
	metrics *observability.Metrics
}

// NewClient creates a content API client from configuration. The metrics
// argument may be nil in tests.
func NewClient(cfg config.ContentConfig, metrics *observability.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxConnsPerHost:     50,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	cb := cfg.CircuitBreaker
	c := &Client{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		retry:   cfg.Retry,
		breaker: NewBreaker(cb.FailureThreshold, cb.SuccessThreshold, cb.Timeout),
		details: newDetailCache(cfg.DetailCache.TTL, cfg.DetailCache.MaxEntries),
		metrics: metrics,
	}
	if metrics != nil {
		c.breaker.OnStateChange(func(_, to BreakerState) {
			metrics.SetContentCircuitBreakerState(breakerGaugeValue(to))
		})
	}
	return c
}

// breakerGaugeValue maps breaker states onto the gauge convention
// 0=closed, 1=half-open, 2=open.
func breakerGaugeValue(s BreakerState) float64 {
	switch s {
	case BreakerHalfOpen:
		return 1
	case BreakerOpen:
		return 2
	default:
		return 0
	}
}

// GetAll fetches a bounded page of a named collection. The filter map is
// forwarded as filter[key]=value query parameters.
func (c *Client) GetAll(ctx context.Context, collection string, filter map[string]string, opts ListOptions) (Page, error) {
	params := url.Values{}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Skip > 0 {
		params.Set("skip", strconv.Itoa(opts.Skip))
	}
	for k, v := range filter {
		params.Set("filter["+k+"]", v)
	}

	reqURL := c.baseURL + "/v1/collections/" + url.PathEscape(collection) + "/items"
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	start := time.Now()
	body, status, err := c.getWithRetry(ctx, reqURL)
	if c.metrics != nil {
		c.metrics.RecordContentRequest(collection, status, time.Since(start))
	}
	if err != nil {
		return Page{}, err
	}
	if status < 200 || status >= 300 {
		return Page{}, model.NewRemoteFetchError(
			fmt.Sprintf("collection %q: content API returned status %d", collection, status),
		)
	}

	var page Page
	if err := json.Unmarshal(body, &page); err != nil {
		return Page{}, model.NewRemoteFetchError(
			fmt.Sprintf("collection %q: decoding response: %v", collection, err),
		)
	}
	return page, nil
}

// GetByID fetches a single item by id. A 404 maps to NOT_FOUND. Successful
// lookups are cached with a TTL since portfolio content changes rarely.
func (c *Client) GetByID(ctx context.Context, collection, id string) (model.Item, error) {
	key := collection + "/" + id
	if item, hit := c.details.get(key); hit {
		if c.metrics != nil {
			c.metrics.RecordDetailCacheHit()
		}
		return item, nil
	}
	if c.metrics != nil {
		c.metrics.RecordDetailCacheMiss()
	}

	reqURL := c.baseURL + "/v1/collections/" + url.PathEscape(collection) +
		"/items/" + url.PathEscape(id)

	start := time.Now()
	body, status, err := c.getWithRetry(ctx, reqURL)
	if c.metrics != nil {
		c.metrics.RecordContentRequest(collection, status, time.Since(start))
	}
	if err != nil {
		return nil, err
	}
	switch {
	case status == http.StatusNotFound:
		return nil, model.NewNotFoundError(
			fmt.Sprintf("item %q not found in collection %q", id, collection),
		)
	case status < 200 || status >= 300:
		return nil, model.NewRemoteFetchError(
			fmt.Sprintf("collection %q: content API returned status %d", collection, status),
		)
	}

	var item model.Item
	if err := json.Unmarshal(body, &item); err != nil {
		return nil, model.NewRemoteFetchError(
			fmt.Sprintf("collection %q: decoding item: %v", collection, err),
		)
	}

	c.details.put(key, item)
	return item, nil
}

// BreakerState exposes the circuit breaker state for metrics and readiness.
func (c *Client) BreakerState() BreakerState {
	return c.breaker.State()
}

// HealthCheck reports the content service as unhealthy while the circuit
// is open. It deliberately makes no network call; readiness polling must
// not hold the breaker open with probe traffic of its own.
func (c *Client) HealthCheck(_ context.Context) error {
	if c.breaker.State() == BreakerOpen {
		return errors.New("content service circuit open")
	}
	return nil
}

// getWithRetry performs a GET with exponential backoff. GETs are idempotent,
// so every attempt is safe to repeat.
func (c *Client) getWithRetry(ctx context.Context, reqURL string) ([]byte, int, error) {
	maxAttempts := c.retry.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	var lastBody []byte
	var lastStatus int

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			delay := backoffDelay(c.retry, attempt)
			select {
			case <-ctx.Done():
				return nil, 0, model.NewRemoteTimeoutError()
			case <-time.After(delay):
			}
			if c.metrics != nil {
				c.metrics.RecordContentRetry()
			}
			slog.Debug("content: retrying request",
				"attempt", attempt+1,
				"max", maxAttempts,
				"url", reqURL,
			)
		}

		body, status, err := c.getOnce(ctx, reqURL)
		if err != nil {
			lastErr = err
			if !isRetryable(err) {
				return nil, 0, err
			}
			continue
		}

		if isRetryableStatus(status) && attempt < maxAttempts-1 {
			lastBody, lastStatus = body, status
			continue
		}
		return body, status, nil
	}

	if lastErr != nil {
		return nil, 0, lastErr
	}
	return lastBody, lastStatus, nil
}

// errCircuitOpen carries both the breaker sentinel for the retry loop and
// the envelope callers map onto HTTP responses.
var errCircuitOpen = fmt.Errorf("%w: %w", ErrBreakerOpen, model.NewRemoteFetchError("content service circuit open"))

// getOnce performs a single GET with circuit breaker protection.
func (c *Client) getOnce(ctx context.Context, reqURL string) ([]byte, int, error) {
	if err := c.breaker.Allow(); err != nil {
		return nil, 0, errCircuitOpen
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("content: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	observability.InjectTraceHeaders(ctx, req.Header)

	resp, err := c.client.Do(req)
	if err != nil {
		c.breaker.RecordFailure()
		if ctx.Err() != nil {
			return nil, 0, model.NewRemoteTimeoutError()
		}
		if isConnectionError(err) {
			return nil, 0, model.NewRemoteFetchError("")
		}
		return nil, 0, fmt.Errorf("content: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20)) // 10MB limit
	if err != nil {
		c.breaker.RecordFailure()
		return nil, 0, fmt.Errorf("content: read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		c.breaker.RecordFailure()
	} else {
		c.breaker.RecordSuccess()
	}

	return body, resp.StatusCode, nil
}

// --- classification helpers ---

func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrBreakerOpen) {
		// An open circuit will not recover within the retry budget.
		return false
	}
	var envelope *model.ErrorEnvelope
	if errors.As(err, &envelope) {
		// Timeouts will not recover within the retry budget; everything
		// else network-shaped is worth a retry.
		return envelope.Code == model.ErrRemoteFetch
	}
	return true
}

func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

func backoffDelay(cfg config.RetryConfig, attempt int) time.Duration {
	initial := cfg.BackoffInitial
	if initial <= 0 {
		initial = 100 * time.Millisecond
	}
	multiplier := cfg.BackoffMultiplier
	if multiplier <= 0 {
		multiplier = 2
	}
	max := cfg.BackoffMax
	if max <= 0 {
		max = 2 * time.Second
	}

	delay := initial
	for i := 1; i < attempt; i++ {
		delay = time.Duration(float64(delay) * multiplier)
		if delay > max {
			return max
		}
	}
	return delay
}
