// Package client is the HTTP client for the redline review backend. It owns
// request construction and transport concerns; decoding of the streaming
// bodies it returns belongs to the session layer.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/inkshed/redline/internal/core/document"
	"github.com/inkshed/redline/internal/core/logging"
	"github.com/inkshed/redline/internal/core/review"
)

// ErrUnreachable indicates the review backend could not be reached
// (connection refused or non-2xx before any stream byte).
var ErrUnreachable = errors.New("review backend unreachable")

// HTTPClient is the transport dependency, satisfied by *http.Client and by
// test doubles.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Credentials identify the LLM account the backend reviews with. They are
// passed explicitly on every call; the client holds no ambient settings.
type Credentials struct {
	APIKey    string `json:"api_key"`
	BaseURL   string `json:"base_url"`
	ModelName string `json:"model_name"`
}

// Client calls the review backend. Zero value is not valid; use New.
type Client struct {
	backendURL string
	httpClient HTTPClient
	log        zerolog.Logger
}

// New builds a backend client. backendURL is the API root
// (e.g. http://localhost:8000). If httpClient is nil a default client with no
// timeout is used; streaming reviews may legitimately run for minutes, so
// callers bound them with a context instead.
func New(backendURL string, httpClient HTTPClient) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		backendURL: strings.TrimSuffix(backendURL, "/"),
		httpClient: httpClient,
		log:        logging.Component("client"),
	}
}

type reviewRequest struct {
	Paragraphs []document.Paragraph `json:"paragraphs"`
	APIKey     string               `json:"api_key"`
	BaseURL    string               `json:"base_url"`
	ModelName  string               `json:"model_name"`
}

// HealthStatus is the backend's health check verdict.
type HealthStatus struct {
	Status  string `json:"status"` // "ok" or "error"
	Message string `json:"message"`
}

// OK reports whether the backend verified the credentials.
func (h HealthStatus) OK() bool { return h.Status == "ok" }

// Health verifies backend reachability and LLM credential validity.
func (c *Client) Health(ctx context.Context, creds Credentials) (*HealthStatus, error) {
	resp, err := c.postJSON(ctx, "/api/health", creds, "application/json")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var status HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("health: parse response: %w", err)
	}
	return &status, nil
}

// Review runs a full review in one request, without streaming.
func (c *Client) Review(ctx context.Context, creds Credentials, paragraphs []document.Paragraph) (*review.Result, error) {
	body := reviewRequest{Paragraphs: paragraphs, APIKey: creds.APIKey, BaseURL: creds.BaseURL, ModelName: creds.ModelName}
	resp, err := c.postJSON(ctx, "/api/review", body, "application/json")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var result review.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("review: parse response: %w", err)
	}
	return &result, nil
}

// StreamReview opens the streaming paragraph-review endpoint and returns the
// raw event-stream body. The caller owns the body and must close it.
func (c *Client) StreamReview(ctx context.Context, creds Credentials, paragraphs []document.Paragraph) (io.ReadCloser, error) {
	return c.stream(ctx, "/api/review/stream", creds, paragraphs)
}

// StreamOverallComment opens the streaming overall-comment endpoint and
// returns the raw event-stream body. The caller owns the body and must close it.
func (c *Client) StreamOverallComment(ctx context.Context, creds Credentials, paragraphs []document.Paragraph) (io.ReadCloser, error) {
	return c.stream(ctx, "/api/review/comment/stream", creds, paragraphs)
}

func (c *Client) stream(ctx context.Context, path string, creds Credentials, paragraphs []document.Paragraph) (io.ReadCloser, error) {
	body := reviewRequest{Paragraphs: paragraphs, APIKey: creds.APIKey, BaseURL: creds.BaseURL, ModelName: creds.ModelName}
	resp, err := c.postJSON(ctx, path, body, "text/event-stream")
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("path", path).Int("paragraphs", len(paragraphs)).Msg("stream opened")
	return resp.Body, nil
}

// ExportRequest is the payload for the review report export endpoint.
type ExportRequest struct {
	Comments      []review.Comment `json:"comments"`
	Summary       string           `json:"summary"`
	DocumentTitle string           `json:"document_title"`
}

// CommentExportRequest is the payload for the overall-comment export endpoint.
type CommentExportRequest struct {
	CommentText   string `json:"comment_text"`
	DocumentTitle string `json:"document_title"`
}

// ExportReview downloads the review report document and copies it to w.
// The payload is opaque to the client.
func (c *Client) ExportReview(ctx context.Context, req ExportRequest, w io.Writer) error {
	return c.export(ctx, "/api/export/docx", req, w)
}

// ExportComment downloads the overall-comment document and copies it to w.
func (c *Client) ExportComment(ctx context.Context, req CommentExportRequest, w io.Writer) error {
	return c.export(ctx, "/api/export/comment/docx", req, w)
}

func (c *Client) export(ctx context.Context, path string, payload any, w io.Writer) error {
	resp, err := c.postJSON(ctx, path, payload, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("export: copy report: %w", err)
	}
	return nil
}

// postJSON issues a POST with a JSON body and verifies a 2xx status. On a
// non-2xx response the body is drained into the error and closed; on success
// the caller owns the open body.
func (c *Client) postJSON(ctx context.Context, path string, payload any, accept string) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.backendURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, errors.Join(ErrUnreachable, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%s: %w: HTTP %d: %s", path, ErrUnreachable, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	return resp, nil
}
