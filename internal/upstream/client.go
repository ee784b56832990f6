// Package upstream talks to the HU-Tech Train REST backend on behalf of a
// signed-in portal user.
package upstream

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

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/config"
	appErrors "github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/errors"
)

// Observer receives one sample per backend call.
type Observer interface {
	ObserveUpstream(endpoint string, status int, duration time.Duration)
}

// Client is a typed HTTP client for the training backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	observer   Observer
	logger     *zap.Logger
}

// Option customises the client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithObserver records call latency and status.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// WithLogger sets the client logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New builds a client for the configured backend.
func New(cfg config.UpstreamConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     zap.NewNop(),
	}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envelope is the backend's response wrapper.
type envelope struct {
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

// Result carries the backend message alongside decoded data.
type Result struct {
	Status  int
	Message string
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, body interface{}, out interface{}) (Result, error) {
	var reader io.Reader
	contentType := ""
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Result{}, fmt.Errorf("encode %s request: %w", path, err)
		}
		reader = bytes.NewReader(payload)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, token, reader, contentType, out)
}

func (c *Client) doMultipart(ctx context.Context, method, path, token string, form *Form, out interface{}) (Result, error) {
	body, contentType, err := form.encode()
	if err != nil {
		return Result{}, fmt.Errorf("encode %s form: %w", path, err)
	}
	return c.do(ctx, method, path, token, bytes.NewReader(body), contentType, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, contentType string, out interface{}) (Result, error) {
	if c.baseURL == "" {
		return Result{}, appErrors.Clone(appErrors.ErrUpstreamDown, "training backend url is not configured")
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Result{}, appErrors.Wrap(err, appErrors.ErrTooManyRequests.Code, appErrors.ErrTooManyRequests.Status, "backend rate limit exceeded")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return Result{}, fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(method, path, 0, start)
		c.logger.Warn("backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		if errors.Is(err, context.Canceled) {
			return Result{}, err
		}
		return Result{}, appErrors.Wrap(err, appErrors.ErrUpstreamDown.Code, appErrors.ErrUpstreamDown.Status, appErrors.ErrUpstreamDown.Message)
	}
	defer resp.Body.Close()
	c.observe(method, path, resp.StatusCode, start)

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "read backend response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		mapped := mapError(resp.StatusCode, payload)
		c.logger.Debug("backend rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("code", mapped.Code),
		)
		return Result{Status: resp.StatusCode}, mapped
	}

	result := Result{Status: resp.StatusCode}
	if len(bytes.TrimSpace(payload)) == 0 {
		return result, nil
	}
	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return result, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "decode backend response")
	}
	result.Message = env.Message
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return result, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "decode backend payload")
		}
	}
	return result, nil
}

func (c *Client) observe(method, path string, status int, start time.Time) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveUpstream(method+" "+routeOf(path), status, time.Since(start))
}

// routeOf collapses ids in a backend path so metrics stay low-cardinality.
func routeOf(path string) string {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, part := range parts {
		if i == 0 {
			continue
		}
		if looksLikeID(part) {
			parts[i] = ":id"
		}
	}
	return "/" + strings.Join(parts, "/")
}

func looksLikeID(segment string) bool {
	if len(segment) < 6 {
		return false
	}
	digits := 0
	for _, r := range segment {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') || r == '-':
		default:
			return false
		}
	}
	return digits > 0
}
