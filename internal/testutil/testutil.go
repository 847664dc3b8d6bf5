// Package testutil provides test utilities and helpers.
package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// RecordedRequest is one request received by a fake server.
type RecordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

type cannedResponse struct {
	status int
	body   string
}

// InferenceServer is a fake hosted inference API. Responses are keyed by
// model ID, which is the request path without its leading slash.
type InferenceServer struct {
	*httptest.Server

	mu        sync.Mutex
	responses map[string]cannedResponse
	fallback  cannedResponse
	requests  []RecordedRequest
}

// NewInferenceServer starts a fake inference API that is closed when the
// test ends. Unknown models answer 404 until configured.
func NewInferenceServer(t *testing.T) *InferenceServer {
	t.Helper()

	s := &InferenceServer{
		responses: make(map[string]cannedResponse),
		fallback: cannedResponse{
			status: http.StatusNotFound,
			body:   `{"error":"Model not found"}`,
		},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)

	return s
}

// Respond sets the answer for one model.
func (s *InferenceServer) Respond(model string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[model] = cannedResponse{status: status, body: body}
}

// RespondAll sets the answer for every model without its own response.
func (s *InferenceServer) RespondAll(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = cannedResponse{status: status, body: body}
}

// Requests returns a copy of the requests received so far.
func (s *InferenceServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecordedRequest(nil), s.requests...)
}

func (s *InferenceServer) handle(w http.ResponseWriter, r *http.Request) {
	rec := RecordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		Auth:   r.Header.Get("Authorization"),
	}
	if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
		_ = json.Unmarshal(raw, &rec.Body)
	}

	s.mu.Lock()
	s.requests = append(s.requests, rec)
	resp, ok := s.responses[strings.TrimPrefix(r.URL.Path, "/")]
	if !ok {
		resp = s.fallback
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}
