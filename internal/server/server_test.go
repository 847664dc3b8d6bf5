package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"mneme/internal/config"
	"mneme/internal/models"
	"mneme/internal/notes"
)

type fakeAnalyzer struct {
	calls int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, note string) (*models.AnalysisResult, error) {
	f.calls++
	if strings.TrimSpace(note) == "" {
		return nil, notes.ErrEmptyNote
	}
	return &models.AnalysisResult{Sentiment: "POSITIVE", Keywords: []string{"happy", "today"}}, nil
}

func (f *fakeAnalyzer) Categorize(ctx context.Context, note string) ([]models.Category, error) {
	f.calls++
	if strings.TrimSpace(note) == "" {
		return nil, notes.ErrEmptyNote
	}
	return []models.Category{{Label: models.CategoryPersonal, Score: 0.5}}, nil
}

type staticChecker bool

func (s staticChecker) Healthy() bool { return bool(s) }

func testConfig() *config.Config {
	return &config.Config{
		Env:          "test",
		BaseURL:      "http://localhost:3000",
		RateLimitMax: 100,
		SiteTitle:    "Mneme AI Notes",
		SiteTagline:  "Paste your notes and let AI analyze and categorize them for you.",
	}
}

func newTestServer(t *testing.T, cfg *config.Config, ready bool) (*Server, *fakeAnalyzer) {
	t.Helper()
	analyzer := &fakeAnalyzer{}
	s := New(cfg)
	s.RegisterRoutes(Dependencies{
		Notes:     analyzer,
		Inference: staticChecker(ready),
	})
	return s, analyzer
}

func doRequest(t *testing.T, s *Server, method, path, body string) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App.Test(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, string(data)
}

func TestIndexPage(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), true)

	resp, body := doRequest(t, s, http.MethodGet, "/", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", resp.StatusCode, body)
	}

	for _, want := range []string{
		"Mneme AI Notes",
		`id="note"`,
		"Analyze Note",
		"Categorize Note",
		"/static/js/app.js",
		"Shopping",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestStaticAssets(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), true)

	for _, path := range []string{"/static/js/app.js", "/static/css/app.css"} {
		resp, _ := doRequest(t, s, http.MethodGet, path, "")
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestNoteAPI(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), true)

	resp, body := doRequest(t, s, http.MethodPost, "/api/analyze", `{"note":"I am happy today"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze status = %d: %s", resp.StatusCode, body)
	}
	var analysis models.AnalysisResult
	if err := json.Unmarshal([]byte(body), &analysis); err != nil {
		t.Fatalf("analyze body: %v", err)
	}
	if analysis.Sentiment != "POSITIVE" {
		t.Errorf("sentiment = %q, want POSITIVE", analysis.Sentiment)
	}

	resp, body = doRequest(t, s, http.MethodPost, "/api/categorize", `{"note":"I am happy today"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("categorize status = %d: %s", resp.StatusCode, body)
	}
	var categories []models.Category
	if err := json.Unmarshal([]byte(body), &categories); err != nil {
		t.Fatalf("categorize body: %v", err)
	}
	if len(categories) != 1 {
		t.Errorf("got %d categories, want 1", len(categories))
	}

	resp, _ = doRequest(t, s, http.MethodPost, "/api/analyze", `{"note":""}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("empty note status = %d, want 400", resp.StatusCode)
	}
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), true)

	resp, _ := doRequest(t, s, http.MethodGet, "/healthz", "")
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID response header")
	}
}

func TestReadiness(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), false)

	resp, _ := doRequest(t, s, http.MethodGet, "/readyz", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("readyz status = %d, want 503", resp.StatusCode)
	}

	resp, _ = doRequest(t, s, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", resp.StatusCode)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), true)

	resp, body := doRequest(t, s, http.MethodGet, "/metrics", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Error("expected default Go collectors in /metrics output")
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMax = 2
	s, analyzer := newTestServer(t, cfg, true)

	for i := 0; i < 2; i++ {
		resp, _ := doRequest(t, s, http.MethodPost, "/api/analyze", `{"note":"hello there"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, resp.StatusCode)
		}
	}

	resp, body := doRequest(t, s, http.MethodPost, "/api/analyze", `{"note":"hello there"}`)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	if !strings.Contains(body, `"error"`) {
		t.Errorf("rate limit body should be a JSON error, got %s", body)
	}
	if analyzer.calls != 2 {
		t.Errorf("analyzer called %d times, want 2", analyzer.calls)
	}

	// Probes are not throttled.
	resp, _ = doRequest(t, s, http.MethodGet, "/healthz", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", resp.StatusCode)
	}
}

func TestNotFound(t *testing.T) {
	s, _ := newTestServer(t, testConfig(), true)

	resp, body := doRequest(t, s, http.MethodPost, "/api/unknown", `{"note":"x"}`)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("api status = %d, want 404", resp.StatusCode)
	}
	var env map[string]string
	if err := json.Unmarshal([]byte(body), &env); err != nil || env["error"] == "" {
		t.Errorf("api 404 should be a JSON error, got %s", body)
	}

	resp, body = doRequest(t, s, http.MethodGet, "/nope", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("page status = %d, want 404", resp.StatusCode)
	}
	if !strings.Contains(body, "Back to notes") {
		t.Errorf("page 404 should render the error view, got %s", body)
	}
}

func TestIsAPIPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/api", true},
		{"/api/analyze", true},
		{"/apidocs", false},
		{"/", false},
		{"/static/js/app.js", false},
	}

	for _, tt := range tests {
		if got := isAPIPath(tt.path); got != tt.want {
			t.Errorf("isAPIPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
