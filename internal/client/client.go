// Package client talks to a running wealthpath HTTP API.
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
	"time"

	"github.com/wealthpath/wealthpath/internal/input"
	"github.com/wealthpath/wealthpath/internal/model"
	"github.com/wealthpath/wealthpath/internal/server"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
)

var (
	// ErrRejected indicates the server refused the inputs (HTTP 400).
	ErrRejected = errors.New("wealthpath api: inputs rejected")
	// ErrUnavailable indicates the requested feature is disabled on the server.
	ErrUnavailable = errors.New("wealthpath api: unavailable")
)

// Client calls the wealthpath HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// ProjectionResponse is the API's projection payload.
type ProjectionResponse struct {
	model.ProjectionResult
	Verdict  string `json:"verdict"`
	CashFlow string `json:"cash_flow"`
}

type projectionRequest struct {
	Summary input.Document          `json:"summary"`
	Profile model.UserProfile       `json:"profile"`
	Lever   model.OptimizationLever `json:"lever"`
}

// NewClient creates a client for addr, which may be "host:port" or a full URL.
// Returns nil if addr is empty.
func NewClient(addr string) *Client {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return &Client{
		baseURL: strings.TrimRight(addr, "/"),
		http:    &http.Client{},
	}
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health reports whether the server answers /healthz.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil)
	return err
}

// Status fetches /v1/status.
func (c *Client) Status(ctx context.Context) (*server.Status, error) {
	body, err := c.do(ctx, http.MethodGet, "/v1/status", nil)
	if err != nil {
		return nil, err
	}
	var st server.Status
	if err := json.Unmarshal(body, &st); err != nil {
		return nil, fmt.Errorf("wealthpath api: parsing status: %w", err)
	}
	return &st, nil
}

// Project asks the server to compute a projection.
func (c *Client) Project(ctx context.Context, s model.CashFlowSummary, p model.UserProfile, l model.OptimizationLever) (*ProjectionResponse, error) {
	payload, err := json.Marshal(projectionRequest{
		Summary: input.FromSummary(s),
		Profile: p,
		Lever:   l,
	})
	if err != nil {
		return nil, fmt.Errorf("wealthpath api: encoding request: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/v1/projections", payload)
	if err != nil {
		return nil, err
	}
	var resp ProjectionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("wealthpath api: parsing projection: %w", err)
	}
	return &resp, nil
}

// do performs a request and returns the response body.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("wealthpath api: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	//nolint:gosec // URL is the user-supplied server address
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wealthpath api: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("wealthpath api: reading response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrRejected, errorMessage(body))
	case http.StatusServiceUnavailable:
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, errorMessage(body))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("wealthpath api: unexpected status %d", resp.StatusCode)
	}
	return body, nil
}

// errorMessage extracts the "error" field of an API error body, falling back
// to the raw text.
func errorMessage(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err == nil && e.Error != "" {
		return e.Error
	}
	return strings.TrimSpace(string(body))
}
