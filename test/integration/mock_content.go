package integration

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// MockContentService is a configurable HTTP test server that simulates the
// upstream content read API. It allows scripting per-route responses and
// records all received requests for later assertion.
type MockContentService struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.RWMutex
	scripts  map[string]*scriptQueue
	received map[string][]*RecordedRequest
}

// RecordedRequest captures the details of a request received by the mock.
type RecordedRequest struct {
	Path        string
	QueryParams map[string]string
	Headers     http.Header
	ReceivedAt  time.Time
}

type scriptQueue struct {
	mu        sync.Mutex
	responses []*scriptedResponse
	current   int
}

type scriptedResponse struct {
	status    int
	body      any
	delay     time.Duration
	connError bool
}

// ResponseScript is a builder for scripting responses on a single route.
type ResponseScript struct {
	mock *MockContentService
	key  string
}

func newMockContentService(t *testing.T) *MockContentService {
	t.Helper()

	m := &MockContentService{
		t:        t,
		scripts:  make(map[string]*scriptQueue),
		received: make(map[string][]*RecordedRequest),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/collections/{collection}/items", func(w http.ResponseWriter, r *http.Request) {
		m.serve(w, r, listKey(r.PathValue("collection")), defaultListResponse)
	})
	mux.HandleFunc("GET /v1/collections/{collection}/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		m.serve(w, r, itemKey(r.PathValue("collection"), r.PathValue("id")), defaultItemResponse)
	})

	m.server = httptest.NewServer(mux)
	t.Cleanup(m.server.Close)
	return m
}

// URL returns the base URL of the mock server.
func (m *MockContentService) URL() string {
	return m.server.URL
}

// OnList scripts responses for listing the named collection.
func (m *MockContentService) OnList(collection string) *ResponseScript {
	return &ResponseScript{mock: m, key: listKey(collection)}
}

// OnItem scripts responses for fetching a single item by id.
func (m *MockContentService) OnItem(collection, id string) *ResponseScript {
	return &ResponseScript{mock: m, key: itemKey(collection, id)}
}

// RespondWith queues a response with the given status and JSON body.
func (s *ResponseScript) RespondWith(status int, body any) *ResponseScript {
	s.mock.addResponse(s.key, &scriptedResponse{status: status, body: body})
	return s
}

// RespondWithPage queues a 200 page response with the given items.
func (s *ResponseScript) RespondWithPage(hasNext bool, items ...map[string]any) *ResponseScript {
	if items == nil {
		items = []map[string]any{}
	}
	return s.RespondWith(http.StatusOK, map[string]any{
		"items":   items,
		"hasNext": hasNext,
	})
}

// RespondWithDelay queues a delayed response to simulate a slow backend.
func (s *ResponseScript) RespondWithDelay(delay time.Duration, status int, body any) *ResponseScript {
	s.mock.addResponse(s.key, &scriptedResponse{status: status, body: body, delay: delay})
	return s
}

// RespondWithConnectionError queues a closed connection to simulate a
// backend failure below the HTTP layer.
func (s *ResponseScript) RespondWithConnectionError() *ResponseScript {
	s.mock.addResponse(s.key, &scriptedResponse{connError: true})
	return s
}

func (m *MockContentService) addResponse(key string, resp *scriptedResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.scripts[key]
	if !ok {
		q = &scriptQueue{}
		m.scripts[key] = q
	}
	q.responses = append(q.responses, resp)
}

func (m *MockContentService) serve(w http.ResponseWriter, r *http.Request, key string, fallback func(http.ResponseWriter)) {
	rec := &RecordedRequest{
		Path:        r.URL.Path,
		QueryParams: make(map[string]string),
		Headers:     r.Header.Clone(),
		ReceivedAt:  time.Now(),
	}
	for k, values := range r.URL.Query() {
		if len(values) > 0 {
			rec.QueryParams[k] = values[0]
		}
	}

	m.mu.Lock()
	m.received[key] = append(m.received[key], rec)
	m.mu.Unlock()

	resp := m.nextResponse(key)
	if resp == nil {
		fallback(w)
		return
	}

	if resp.connError {
		hj, ok := w.(http.Hijacker)
		if ok {
			conn, _, _ := hj.Hijack()
			if conn != nil {
				conn.Close()
			}
		}
		return
	}

	if resp.delay > 0 {
		time.Sleep(resp.delay)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	if resp.body != nil {
		json.NewEncoder(w).Encode(resp.body)
	}
}

// nextResponse advances the script, repeating the last response once the
// queue is exhausted.
func (m *MockContentService) nextResponse(key string) *scriptedResponse {
	m.mu.RLock()
	q, ok := m.scripts[key]
	m.mu.RUnlock()
	if !ok {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.responses) == 0 {
		return nil
	}
	idx := q.current
	if idx >= len(q.responses) {
		idx = len(q.responses) - 1
	} else {
		q.current++
	}
	return q.responses[idx]
}

func defaultListResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"items":[],"hasNext":false}`))
}

func defaultItemResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"code":"NOT_FOUND","message":"item not found"}`))
}

// ListCalls returns how many list requests were received for the collection.
func (m *MockContentService) ListCalls(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.received[listKey(collection)])
}

// ItemCalls returns how many detail requests were received for the item.
func (m *MockContentService) ItemCalls(collection, id string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.received[itemKey(collection, id)])
}

// TotalCalls returns how many requests were received across all routes.
func (m *MockContentService) TotalCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	total := 0
	for _, reqs := range m.received {
		total += len(reqs)
	}
	return total
}

// LastListRequest returns the most recent list request for the collection,
// or nil if none was received.
func (m *MockContentService) LastListRequest(collection string) *RecordedRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	reqs := m.received[listKey(collection)]
	if len(reqs) == 0 {
		return nil
	}
	return reqs[len(reqs)-1]
}

// AssertListCalled verifies the collection was listed the expected number
// of times.
func (m *MockContentService) AssertListCalled(t *testing.T, collection string, want int) {
	t.Helper()
	if got := m.ListCalls(collection); got != want {
		t.Errorf("collection %q listed %d times, want %d", collection, got, want)
	}
}

func listKey(collection string) string {
	return "list " + collection
}

func itemKey(collection, id string) string {
	return "item " + collection + "/" + id
}
