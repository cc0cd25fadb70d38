// Package testutil provides testing utilities for the favorites client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// MockPage defines the response for one page index.
type MockPage struct {
	// Body, when set, is written verbatim instead of a generated envelope.
	Body string

	// StatusCode defaults to 200.
	StatusCode int

	// Durations produces one item per entry. A nil entry produces an item without duration.
	Durations []*int64

	HasMore bool
}

// MockRequest records one request received by the mock server.
type MockRequest struct {
	MediaID  string
	Page     int
	PageSize int
	Header   http.Header
}

// MockAPI is a configurable mock favorites API server for testing.
type MockAPI struct {
	server *httptest.Server
	mu     sync.RWMutex
	pages  map[int]MockPage

	// Fallback is served for page indexes without an explicit entry.
	fallback *MockPage

	requests []MockRequest
}

// NewMockAPI creates a new mock favorites API server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		pages: make(map[int]MockPage),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))
	return mock
}

// URL returns the mock server URL, suitable as a client BaseURL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// SetPage configures the response for a page index.
func (m *MockAPI) SetPage(page int, p MockPage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[page] = p
}

// SetFallback configures the response for every unconfigured page index.
func (m *MockAPI) SetFallback(p MockPage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = &p
}

// Requests returns a copy of all requests received so far.
func (m *MockAPI) Requests() []MockRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]MockRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

func (m *MockAPI) handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pn, _ := strconv.Atoi(q.Get("pn"))
	ps, _ := strconv.Atoi(q.Get("ps"))

	m.mu.Lock()
	m.requests = append(m.requests, MockRequest{
		MediaID:  q.Get("media_id"),
		Page:     pn,
		PageSize: ps,
		Header:   r.Header.Clone(),
	})
	page, ok := m.pages[pn]
	if !ok && m.fallback != nil {
		page, ok = *m.fallback, true
	}
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if !ok {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, ErrorBody(-404, "啥都木有"))
		return
	}

	status := page.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if page.Body != "" {
		fmt.Fprint(w, page.Body)
		return
	}
	fmt.Fprint(w, PageBody(page.Durations, page.HasMore))
}

// PageBody renders a successful list envelope.
func PageBody(durations []*int64, hasMore bool) string {
	medias := make([]map[string]any, 0, len(durations))
	for i, d := range durations {
		item := map[string]any{
			"id":    i + 1,
			"title": fmt.Sprintf("video %d", i+1),
		}
		if d != nil {
			item["duration"] = *d
		}
		medias = append(medias, item)
	}

	data, _ := json.Marshal(map[string]any{
		"code":    0,
		"message": "0",
		"data": map[string]any{
			"medias":   medias,
			"has_more": hasMore,
		},
	})
	return string(data)
}

// ErrorBody renders an application-level error envelope.
func ErrorBody(code int, message string) string {
	data, _ := json.Marshal(map[string]any{
		"code":    code,
		"message": message,
	})
	return string(data)
}

// Durations returns n duration pointers all set to seconds.
func Durations(n int, seconds int64) []*int64 {
	out := make([]*int64, n)
	for i := range out {
		s := seconds
		out[i] = &s
	}
	return out
}

// Int64 returns a pointer to v.
func Int64(v int64) *int64 {
	return &v
}
