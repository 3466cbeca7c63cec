package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nbamra/folio-bff/internal/config"
	"github.com/nbamra/folio-bff/model"
)

func testContentConfig(baseURL string) config.ContentConfig {
	return config.ContentConfig{
		BaseURL: baseURL,
		Timeout: 2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:       3,
			BackoffInitial:    time.Millisecond,
			BackoffMultiplier: 2,
			BackoffMax:        5 * time.Millisecond,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			FailureThreshold: 5,
			SuccessThreshold: 2,
			Timeout:          time.Second,
		},
		DetailCache: config.CacheConfig{TTL: time.Minute, MaxEntries: 10},
	}
}

func TestGetAll_pagingAndFilter(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(Page{
			Items:   []model.Item{{"_id": "m1"}, {"_id": "m2"}},
			HasNext: true,
		})
	}))
	defer srv.Close()

	c := NewClient(testContentConfig(srv.URL), nil)
	page, err := c.GetAll(context.Background(), "movies",
		map[string]string{"genre": "Drama"}, ListOptions{Limit: 2, Skip: 4})
	if err != nil {
		t.Fatalf("GetAll error: %v", err)
	}
	if len(page.Items) != 2 || !page.HasNext {
		t.Errorf("page = %+v, want 2 items with hasNext", page)
	}
	for _, want := range []string{"limit=2", "skip=4", "filter%5Bgenre%5D=Drama"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestGetAll_serverError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(testContentConfig(srv.URL), nil)
	_, err := c.GetAll(context.Background(), "movies", nil, ListOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	var envelope *model.ErrorEnvelope
	if !errors.As(err, &envelope) || envelope.Code != model.ErrRemoteFetch {
		t.Errorf("error = %v, want REMOTE_FETCH envelope", err)
	}
}

func TestGetAll_retriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(Page{Items: []model.Item{{"_id": "p1"}}})
	}))
	defer srv.Close()

	c := NewClient(testContentConfig(srv.URL), nil)
	page, err := c.GetAll(context.Background(), "projects", nil, ListOptions{})
	if err != nil {
		t.Fatalf("GetAll error after retries: %v", err)
	}
	if len(page.Items) != 1 {
		t.Errorf("items = %d, want 1", len(page.Items))
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestGetAll_openCircuitFailsFastWithoutRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := testContentConfig(srv.URL)
	cfg.CircuitBreaker.FailureThreshold = 1
	cfg.Retry.BackoffInitial = 300 * time.Millisecond
	cfg.Retry.BackoffMax = 300 * time.Millisecond

	c := NewClient(cfg, nil)

	// The first failure trips the breaker open.
	if _, err := c.GetAll(context.Background(), "projects", nil, ListOptions{}); err == nil {
		t.Fatal("expected error while tripping the breaker")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("upstream calls after tripping = %d, want 1", got)
	}

	start := time.Now()
	_, err := c.GetAll(context.Background(), "projects", nil, ListOptions{})
	elapsed := time.Since(start)

	if !errors.Is(err, ErrBreakerOpen) {
		t.Fatalf("error = %v, want a breaker rejection", err)
	}
	var envelope *model.ErrorEnvelope
	if !errors.As(err, &envelope) || envelope.Code != model.ErrRemoteFetch {
		t.Errorf("error = %v, want REMOTE_FETCH envelope", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1; rejections must not reach the server", got)
	}
	if elapsed >= cfg.Retry.BackoffInitial {
		t.Errorf("rejection took %v, want an immediate failure without backoff", elapsed)
	}
}

func TestGetByID_notFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(testContentConfig(srv.URL), nil)
	_, err := c.GetByID(context.Background(), "movies", "nope")
	if err == nil {
		t.Fatal("expected error")
	}
	var envelope *model.ErrorEnvelope
	if !errors.As(err, &envelope) || envelope.Code != model.ErrNotFound {
		t.Errorf("error = %v, want NOT_FOUND envelope", err)
	}
}

func TestGetByID_cachesResult(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(model.Item{"_id": "m1", "title": "Inception"})
	}))
	defer srv.Close()

	c := NewClient(testContentConfig(srv.URL), nil)
	for i := 0; i < 3; i++ {
		item, err := c.GetByID(context.Background(), "movies", "m1")
		if err != nil {
			t.Fatalf("GetByID error: %v", err)
		}
		if model.ItemString(item, "title") != "Inception" {
			t.Errorf("title = %q", model.ItemString(item, "title"))
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("upstream calls = %d, want 1 with caching", got)
	}
}

func TestGetAll_contextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := NewClient(testContentConfig(srv.URL), nil)
	_, err := c.GetAll(ctx, "movies", nil, ListOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
	var envelope *model.ErrorEnvelope
	if !errors.As(err, &envelope) || envelope.Code != model.ErrRemoteTimeout {
		t.Errorf("error = %v, want REMOTE_TIMEOUT envelope", err)
	}
}

func TestGetAll_malformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := NewClient(testContentConfig(srv.URL), nil)
	_, err := c.GetAll(context.Background(), "movies", nil, ListOptions{})
	if err == nil {
		t.Fatal("expected decode error")
	}
	var envelope *model.ErrorEnvelope
	if !errors.As(err, &envelope) || envelope.Code != model.ErrRemoteFetch {
		t.Errorf("error = %v, want REMOTE_FETCH envelope", err)
	}
}
