// Package api provides the HTTP adapter for the buddy backend.
// Adapter implementing ports.BuddyAPI.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/0xcro3dile/buddy-go/internal/domain/entities"
)

// DefaultBaseURL is where the backend listens when nothing else is configured.
const DefaultBaseURL = "http://localhost:8000"

// maxErrorBody bounds how much of a failed response is read for its detail.
const maxErrorBody = 4 << 10

// HTTPClient implements ports.BuddyAPI over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client. A nil client is ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		if c != nil {
			h.client = c
		}
	}
}

// WithTimeout bounds each request. Zero means wait until the context is done.
// The timeout is set on a copy, so a client passed to WithHTTPClient is not modified.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTPClient) {
		c := *h.client
		c.Timeout = d
		h.client = &c
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *HTTPClient) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHTTPClient creates a backend client for baseURL.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address in use.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// SubmitMessage posts the message form-encoded to /api/message. The fields are
// repeated in the query string, which is where FastAPI reads scalar parameters.
func (c *HTTPClient) SubmitMessage(ctx context.Context, msg entities.Message) (*entities.ProcessResult, error) {
	form := url.Values{}
	form.Set("content", msg.Content)
	form.Set("project_id", entities.EffectiveProjectID(msg.ProjectID))

	var result entities.ProcessResult
	err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/message",
		query:       form,
		body:        strings.NewReader(form.Encode()),
		contentType: "application/x-www-form-urlencoded",
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Query posts the question as JSON to /api/query.
func (c *HTTPClient) Query(ctx context.Context, q entities.Question) (*entities.Answer, error) {
	q.ProjectID = entities.EffectiveProjectID(q.ProjectID)
	jsonData, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var wire struct {
		Answer      *string  `json:"answer"`
		ContextUsed []string `json:"context_used"`
		Confidence  float64  `json:"confidence"`
	}
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/query",
		body:        bytes.NewReader(jsonData),
		contentType: "application/json",
	}, &wire)
	if err != nil {
		return nil, err
	}
	if wire.Answer == nil {
		return nil, &DecodeError{Endpoint: "/api/query", Err: errors.New("missing answer")}
	}

	return &entities.Answer{
		Answer:      *wire.Answer,
		ContextUsed: wire.ContextUsed,
		Confidence:  entities.ClampConfidence(wire.Confidence),
	}, nil
}

// Actions fetches /api/actions/{project_id}.
func (c *HTTPClient) Actions(ctx context.Context, projectID string) ([]entities.ActionItem, error) {
	path := "/api/actions/" + url.PathEscape(entities.EffectiveProjectID(projectID))

	var items *[]entities.ActionItem
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &items); err != nil {
		return nil, err
	}
	if items == nil {
		return nil, &DecodeError{Endpoint: path, Err: errors.New("expected an array, got null")}
	}
	return *items, nil
}

// Context fetches /api/context/{project_id}.
func (c *HTTPClient) Context(ctx context.Context, projectID string) (*entities.Context, error) {
	path := "/api/context/" + url.PathEscape(entities.EffectiveProjectID(projectID))

	var wire struct {
		ProjectID   string                     `json:"project_id"`
		LastUpdated entities.Timestamp         `json:"last_updated"`
		Messages    *[]entities.ContextMessage `json:"messages"`
		Summary     string                     `json:"summary"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &wire); err != nil {
		return nil, err
	}
	if wire.Messages == nil {
		return nil, &DecodeError{Endpoint: path, Err: errors.New("missing messages")}
	}

	return &entities.Context{
		ProjectID:   wire.ProjectID,
		LastUpdated: wire.LastUpdated,
		Messages:    *wire.Messages,
		Summary:     wire.Summary,
	}, nil
}

// Projects fetches /api/projects.
func (c *HTTPClient) Projects(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.do(ctx, request{method: http.MethodGet, path: "/api/projects"}, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Health probes /health.
func (c *HTTPClient) Health(ctx context.Context) (*entities.Health, error) {
	var h entities.Health
	if err := c.do(ctx, request{method: http.MethodGet, path: "/health"}, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

// do sends the request and decodes a 2xx JSON body into out.
func (c *HTTPClient) do(ctx context.Context, r request, out any) error {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("backend call failed", "request_id", requestID, "method", r.method, "path", r.path, "error", err)
		return fmt.Errorf("calling backend: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend responded",
		"request_id", requestID,
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Detail: readDetail(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{Endpoint: r.path, Err: err}
	}
	return nil
}

// readDetail extracts FastAPI's "detail" field, or falls back to the raw body text.
func readDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(raw, &payload) == nil && len(payload.Detail) > 0 {
		var s string
		if json.Unmarshal(payload.Detail, &s) == nil {
			return s
		}
		var compact bytes.Buffer
		if json.Compact(&compact, payload.Detail) == nil {
			return compact.String()
		}
	}
	return strings.TrimSpace(string(raw))
}
