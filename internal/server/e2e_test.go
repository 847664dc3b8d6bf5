package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"mneme/internal/config"
	"mneme/internal/inference"
	"mneme/internal/models"
	"mneme/internal/notes"
	"mneme/internal/testutil"
)

// newStack wires the real inference client and note service to a fake
// inference API.
func newStack(t *testing.T) (*Server, *testutil.InferenceServer) {
	t.Helper()

	fake := testutil.NewInferenceServer(t)
	fake.Respond(config.DefaultSentimentModel, http.StatusOK,
		`[[{"label":"POSITIVE","score":0.9998},{"label":"NEGATIVE","score":0.0002}]]`)
	fake.Respond(config.DefaultSummarizationModel, http.StatusOK,
		`[{"summary_text":"I am happy today. Today is a good day."}]`)
	fake.Respond(config.DefaultZeroShotModel, http.StatusOK,
		`{"sequence":"I am happy today","labels":["Personal","Social","Health","General","Ideas","Work","Learning","Travel","Finance","Shopping"],"scores":[0.31,0.18,0.12,0.1,0.08,0.06,0.05,0.04,0.03,0.03]}`)

	client, err := inference.New("hf_test", inference.WithBaseURL(fake.URL))
	if err != nil {
		t.Fatal(err)
	}

	s := New(testConfig())
	s.RegisterRoutes(Dependencies{Notes: notes.NewService(client)})
	return s, fake
}

func TestEndToEnd_HappyNote(t *testing.T) {
	s, fake := newStack(t)

	resp, body := doRequest(t, s, http.MethodPost, "/api/analyze", `{"note":"I am happy today"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze status = %d: %s", resp.StatusCode, body)
	}
	var analysis models.AnalysisResult
	if err := json.Unmarshal([]byte(body), &analysis); err != nil {
		t.Fatal(err)
	}
	if analysis.Sentiment != "POSITIVE" {
		t.Errorf("sentiment = %q, want POSITIVE", analysis.Sentiment)
	}
	wantKeywords := []string{"happy", "today", "Today", "good"}
	if len(analysis.Keywords) != len(wantKeywords) {
		t.Fatalf("keywords = %q, want %q", analysis.Keywords, wantKeywords)
	}
	for i, k := range wantKeywords {
		if analysis.Keywords[i] != k {
			t.Errorf("keywords[%d] = %q, want %q", i, analysis.Keywords[i], k)
		}
	}

	resp, body = doRequest(t, s, http.MethodPost, "/api/categorize", `{"note":"I am happy today"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("categorize status = %d: %s", resp.StatusCode, body)
	}
	var categories []models.Category
	if err := json.Unmarshal([]byte(body), &categories); err != nil {
		t.Fatal(err)
	}
	if len(categories) != 1 {
		t.Fatalf("got %d categories, want 1", len(categories))
	}
	if categories[0].Label != models.CategoryPersonal || categories[0].Score != 0.31 {
		t.Errorf("category = %+v, want Personal 0.31", categories[0])
	}

	// classify + summarize + zero-shot, each with the bearer token.
	reqs := fake.Requests()
	if len(reqs) != 3 {
		t.Fatalf("inference API saw %d requests, want 3", len(reqs))
	}
	for _, r := range reqs {
		if r.Auth != "Bearer hf_test" {
			t.Errorf("request to %s had Authorization %q", r.Path, r.Auth)
		}
	}
}

func TestEndToEnd_UpstreamDown(t *testing.T) {
	s, fake := newStack(t)
	fake.Respond(config.DefaultSentimentModel, http.StatusServiceUnavailable, `{"error":"Model is currently loading"}`)
	fake.Respond(config.DefaultZeroShotModel, http.StatusOK, `"not a classification"`)

	resp, body := doRequest(t, s, http.MethodPost, "/api/analyze", `{"note":"I am happy today"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("analyze status = %d, want 500", resp.StatusCode)
	}
	var env map[string]string
	if err := json.Unmarshal([]byte(body), &env); err != nil || env["error"] != "Failed to analyze note via Hugging Face API." {
		t.Errorf("analyze body = %s", body)
	}

	resp, body = doRequest(t, s, http.MethodPost, "/api/categorize", `{"note":"I am happy today"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("categorize status = %d, want 500", resp.StatusCode)
	}
	env = nil
	if err := json.Unmarshal([]byte(body), &env); err != nil ||
		env["error"] != "Failed to categorize note: Unexpected API response or no categories found." {
		t.Errorf("categorize body = %s", body)
	}
}
