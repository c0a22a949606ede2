// Package client calls the FRA analysis API.
//
// When the service is unreachable the client can fall back to a labelled demo
// verdict, but only if the caller opts in with WithFallback(FallbackDemo, seed).
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

	"github.com/RMahshie/fra-analyzer/internal/analysis"
	"github.com/RMahshie/fra-analyzer/pkg/models"
	"github.com/rs/zerolog/log"
)

// ErrUnavailable reports a transport failure or a 5xx response
var ErrUnavailable = errors.New("analysis service unavailable")

// FallbackPolicy selects what Analyze does when the service is unavailable
type FallbackPolicy int

const (
	// FallbackNone returns the error to the caller
	FallbackNone FallbackPolicy = iota
	// FallbackDemo returns a seeded demo verdict labelled with models.ModeDemo
	FallbackDemo
)

// APIError is a 4xx answer from the service. It is never masked by a fallback.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("analysis request rejected (%d): %s", e.Status, e.Detail)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	fallback   FallbackPolicy
	seed       uint64
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithFallback sets the fallback policy and the demo seed
func WithFallback(policy FallbackPolicy, seed uint64) Option {
	return func(c *Client) {
		c.fallback = policy
		c.seed = seed
	}
}

// New creates a client for the API at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type analyzeBody struct {
	Name     string       `json:"name"`
	Data     models.Sweep `json:"data"`
	Baseline models.Sweep `json:"baseline,omitempty"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// Analyze posts a sweep to /api/analyze
func (c *Client) Analyze(ctx context.Context, name string, data, baseline models.Sweep) (*models.AnalysisResult, error) {
	result, err := c.analyze(ctx, name, data, baseline)
	if err == nil {
		return result, nil
	}
	if !errors.Is(err, ErrUnavailable) || c.fallback != FallbackDemo {
		return nil, err
	}

	log.Warn().Err(err).Str("file", name).Uint64("seed", c.seed).Msg("Analysis service unavailable, returning demo verdict")
	return analysis.DemoAnalysis(name, data, c.seed), nil
}

func (c *Client) analyze(ctx context.Context, name string, data, baseline models.Sweep) (*models.AnalysisResult, error) {
	payload, err := json.Marshal(analyzeBody{Name: name, Data: data, Baseline: baseline})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		var e errorBody
		_ = json.Unmarshal(body, &e)
		return nil, &APIError{Status: resp.StatusCode, Detail: e.Detail}
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}
