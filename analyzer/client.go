package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/truemediaorg/postanalyzer/metrics"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "http://localhost:8000/api/v1"
	DefaultTimeout = 30 * time.Second
)

type ClientConfig struct {
	// Base URL of the analysis API, including the version prefix
	BaseURL string
	// Applies to every call, including reading the response body
	Timeout time.Duration
	// Sent with every request in addition to Content-Type
	Headers map[string]string
	// Sent as X-API-KEY when set
	APIKey string
	// Optional, http.DefaultTransport when nil
	Transport http.RoundTripper
}

// Client talks to the post analysis service. It is safe for concurrent use
// and its configuration can't change after NewClient returns.
type Client struct {
	baseURL    string
	headers    http.Header
	httpClient *http.Client
}

func NewClient(cfg ClientConfig) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse analyzer base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("analyzer base URL must be http or https, got %q", baseURL)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	headers := http.Header{}
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}
	headers.Set("Content-Type", "application/json")
	if cfg.APIKey != "" {
		headers.Set("X-API-KEY", cfg.APIKey)
	}

	return &Client{
		baseURL: strings.TrimRight(parsed.String(), "/"),
		headers: headers,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: cfg.Transport,
		},
	}, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) SubmitAnalysis(ctx context.Context, postURL string, commentCount int) (*AnalysisResult, error) {
	var result AnalysisResult
	req := AnalyzeRequest{TwitterURL: postURL, CommentCount: commentCount}
	if err := c.call(ctx, "analyze", http.MethodPost, "/analyze", req, &result); err != nil {
		return nil, err
	}
	result.normalize()
	return &result, nil
}

func (c *Client) FetchHealth(ctx context.Context) (*HealthStatus, error) {
	var resp healthResponse
	if err := c.call(ctx, "health", http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return resp.toHealthStatus(), nil
}

func (c *Client) FetchMetrics(ctx context.Context) (*Metrics, error) {
	var resp metricsResponse
	if err := c.call(ctx, "metrics", http.MethodGet, "/metrics", nil, &resp); err != nil {
		return nil, err
	}
	return resp.toMetrics(), nil
}

// ValidateURLRemote asks the service whether it can handle postURL. The
// analyze flow doesn't call this; local validation gates submissions instead.
func (c *Client) ValidateURLRemote(ctx context.Context, postURL string) (*ValidationOutcome, error) {
	var outcome ValidationOutcome
	if err := c.call(ctx, "validate_url", http.MethodPost, "/validate-url", ValidateURLRequest{TwitterURL: postURL}, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

func (c *Client) GetPost(ctx context.Context, postID string) (*PostInfo, error) {
	var info PostInfo
	if err := c.call(ctx, "post", http.MethodGet, "/post/"+url.PathEscape(postID), nil, &info); err != nil {
		return nil, err
	}
	info.PostSnapshot.normalize()
	return &info, nil
}

// call performs one request. Raw failures are logged and counted here, then
// normalized into *Error.
func (c *Client) call(ctx context.Context, operation, method, path string, body interface{}, out interface{}) error {
	start := time.Now()
	f := c.roundTrip(ctx, method, path, body, out)
	if f == nil {
		metrics.ObserveRequest(operation, time.Since(start), metrics.OutcomeSuccess)
		return nil
	}
	metrics.ObserveRequest(operation, time.Since(start), f.kind())
	log.WithField("operation", operation).WithField("kind", f.kind()).Errorf("analysis service error: %v", f)
	return normalize(f)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body interface{}, out interface{}) failure {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &unknownFailure{Err: err}
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &unknownFailure{Err: err}
	}
	req.Header = c.headers.Clone()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Do only fails when there is no response to look at
		return &networkFailure{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &serverFailure{StatusCode: resp.StatusCode, Body: respBody}
	}
	if err != nil {
		// the body timed out or the connection dropped mid-read
		return &networkFailure{Err: err}
	}

	if err = json.Unmarshal(respBody, out); err != nil {
		return &unknownFailure{Err: fmt.Errorf("decode %s response: %w", path, err)}
	}
	return nil
}
