// Package inference is a client for the Hugging Face hosted inference API.
//
// Only the three tasks the note service needs are exposed: text
// classification, summarization and zero-shot classification. Every response
// is shape-checked before it is handed back; anything unexpected surfaces as
// ErrUnexpectedResponse instead of a zero value.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"mneme/internal/metrics"
	"mneme/internal/models"
)

// Task names, used in logs and metrics labels.
const (
	TaskTextClassification = "text-classification"
	TaskSummarization      = "summarization"
	TaskZeroShot           = "zero-shot-classification"
)

const (
	DefaultBaseURL = "https://router.huggingface.co/hf-inference/models"
	DefaultTimeout = 60 * time.Second

	userAgent       = "mneme/1.0"
	maxResponseSize = 4 << 20
)

var (
	// ErrMissingToken is returned by New when no API token is supplied.
	ErrMissingToken = errors.New("inference: missing API token")

	// ErrUnexpectedResponse means the service answered 2xx with a body
	// that does not match the task's documented shape.
	ErrUnexpectedResponse = errors.New("inference: unexpected response shape")
)

// APIError is a non-2xx answer, or a 2xx answer carrying an "error" field.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("inference: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("inference: HTTP %d: %s", e.StatusCode, e.Message)
}

// Service is the set of inference capabilities the note service consumes.
type Service interface {
	Classify(ctx context.Context, text string) ([]models.LabelScore, error)
	Summarize(ctx context.Context, text string) (string, error)
	ZeroShotClassify(ctx context.Context, text string, labels []string) ([]models.LabelScore, error)
}

// Models names the hosted model used for each task.
type Models struct {
	Sentiment     string
	Summarization string
	ZeroShot      string
}

// Client talks to the hosted inference API with a bearer token.
type Client struct {
	token   string
	baseURL string
	models  Models
	http    *http.Client
}

var _ Service = (*Client)(nil)

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at a different inference endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithModels overrides the model used for each task. Empty fields keep their default.
func WithModels(m Models) Option {
	return func(c *Client) {
		if m.Sentiment != "" {
			c.models.Sentiment = m.Sentiment
		}
		if m.Summarization != "" {
			c.models.Summarization = m.Summarization
		}
		if m.ZeroShot != "" {
			c.models.ZeroShot = m.ZeroShot
		}
	}
}

// New creates a client. The token is required.
func New(token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	c := &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		models: Models{
			Sentiment:     "distilbert-base-uncased-finetuned-sst-2-english",
			Summarization: "facebook/bart-large-cnn",
			ZeroShot:      "facebook/bart-large-mnli",
		},
		http: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Models returns the models the client is configured with.
func (c *Client) Models() Models {
	return c.models
}

type inputsRequest struct {
	Inputs     string `json:"inputs"`
	Parameters any    `json:"parameters,omitempty"`
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

// Classify runs text classification and returns every (label, score) pair.
// An empty result is not an error.
func (c *Client) Classify(ctx context.Context, text string) (scores []models.LabelScore, err error) {
	defer observe(TaskTextClassification, time.Now(), &err)

	body, err := c.postJSON(ctx, c.models.Sentiment, inputsRequest{Inputs: text})
	if err != nil {
		return nil, err
	}
	return parseLabelScores(body)
}

// Summarize returns the generated summary text, which may be empty.
func (c *Client) Summarize(ctx context.Context, text string) (summary string, err error) {
	defer observe(TaskSummarization, time.Now(), &err)

	body, err := c.postJSON(ctx, c.models.Summarization, inputsRequest{Inputs: text})
	if err != nil {
		return "", err
	}
	return parseSummary(body)
}

// ZeroShotClassify scores text against the caller's candidate labels.
func (c *Client) ZeroShotClassify(ctx context.Context, text string, labels []string) (scores []models.LabelScore, err error) {
	defer observe(TaskZeroShot, time.Now(), &err)

	body, err := c.postJSON(ctx, c.models.ZeroShot, inputsRequest{
		Inputs:     text,
		Parameters: zeroShotParameters{CandidateLabels: labels},
	})
	if err != nil {
		return nil, err
	}
	return parseZeroShot(body)
}

// Ping checks that the inference endpoint is reachable with the configured
// token. Any answer below 500 counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.modelURL(c.models.Sentiment), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))

	if resp.StatusCode >= 500 {
		return &APIError{StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) modelURL(model string) string {
	return c.baseURL + "/" + model
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
}

// postJSON sends input to the model endpoint and returns the raw 2xx body.
func (c *Client) postJSON(ctx context.Context, model string, input any) ([]byte, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal input: %w", err)
	}

	endpoint := c.modelURL(model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", model, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(body)}
	}
	if msg := errorMessage(body); msg != "" {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return body, nil
}

// observe records metrics and logs for a finished call. err points at the
// caller's named return so the final error is seen.
func observe(task string, start time.Time, err *error) {
	elapsed := time.Since(start)

	outcome := metrics.OutcomeSuccess
	var apiErr *APIError
	switch {
	case *err == nil:
	case errors.As(*err, &apiErr):
		outcome = metrics.OutcomeStatus
	case errors.Is(*err, ErrUnexpectedResponse):
		outcome = metrics.OutcomeBadResponse
	default:
		outcome = metrics.OutcomeTransport
	}
	metrics.ObserveInference(task, outcome, elapsed)

	if *err != nil {
		slog.Error("[inference] request failed",
			slog.String("task", task),
			slog.String("outcome", outcome),
			slog.Duration("elapsed", elapsed),
			slog.String("error", (*err).Error()))
		return
	}
	slog.Debug("[inference] request succeeded",
		slog.String("task", task),
		slog.Duration("elapsed", elapsed))
}
