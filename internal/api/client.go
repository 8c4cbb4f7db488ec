// Package api provides the JSON-over-HTTP transport shared by all backend
// services: bearer-token injection, canonical pagination decoding, and the
// error taxonomy the store layer depends on.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Client is the HTTP client used by every backend service wrapper.
//
// There is deliberately no retry policy: every failure is surfaced once and
// must be explicitly re-triggered by the user.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	headers    map[string]string
	tokens     TokenStore
	logger     *zap.Logger
	metrics    *Metrics
	tracer     trace.Tracer
	mu         sync.RWMutex
}

// Option is a functional option for configuring the client.
type Option func(*Client)

// WithHTTPClient sets the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTokenStore sets the token store consulted for the Authorization header.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithLogger sets the logger for the client.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics sets the Prometheus collectors for request telemetry.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithHeader sets a default header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers[key] = value
	}
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	client := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    parsed,
		headers:    make(map[string]string),
		logger:     zap.NewNop(),
		tracer:     otel.Tracer("storefront/api"),
	}
	client.headers["Content-Type"] = "application/json"
	client.headers["Accept"] = "application/json"

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Request represents an HTTP request to be executed.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Do executes the request and returns the raw response body. Responses with
// a 4xx/5xx status are returned as *APIError. Context cancellation is
// returned as-is so callers can distinguish a superseded request from a
// real failure.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	u, err := c.buildURL(req.Path, req.Query)
	if err != nil {
		return nil, fmt.Errorf("building URL: %w", err)
	}

	var bodyReader io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	ctx, span := c.tracer.Start(ctx, req.Method+" "+req.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
		))
	defer span.End()

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	c.setHeaders(httpReq)
	httpReq.Header.Set("X-Request-ID", uuid.NewString())

	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err == nil && token != "" {
			if TokenExpired(token) {
				c.logger.Debug("attaching expired bearer token, backend will decide")
			}
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.metrics.IncInFlight()
	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	elapsed := time.Since(start)
	c.metrics.DecInFlight()

	if err != nil {
		c.metrics.ObserveRequest(req.Method, "error", elapsed)
		if IsCanceled(err) {
			span.SetStatus(codes.Error, "canceled")
			return nil, err
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn("backend request failed",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Error(err))
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.metrics.ObserveRequest(req.Method, "error", elapsed)
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	span.SetAttributes(attribute.Int("http.response.status_code", httpResp.StatusCode))
	c.metrics.ObserveRequest(req.Method, strconv.Itoa(httpResp.StatusCode), elapsed)

	if httpResp.StatusCode >= 400 {
		apiErr := parseError(httpResp.StatusCode, body)
		span.SetStatus(codes.Error, apiErr.Message)
		c.logger.Warn("backend rejected request",
			zap.String("method", req.Method),
			zap.String("path", req.Path),
			zap.Int("status", httpResp.StatusCode),
			zap.String("message", apiErr.Message))
		return nil, apiErr
	}

	c.logger.Debug("backend request completed",
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", httpResp.StatusCode),
		zap.Duration("elapsed", elapsed))
	return body, nil
}

// Get performs a GET request and decodes the JSON response into out when
// out is non-nil.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
	if err != nil {
		return err
	}
	return decodeInto(body, out)
}

// GetRaw performs a GET request and returns the raw response body.
func (c *Client) GetRaw(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post performs a POST request and decodes the JSON response into out when
// out is non-nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	raw, err := c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

// Put performs a PUT request and decodes the JSON response into out when
// out is non-nil.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	raw, err := c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
	if err != nil {
		return err
	}
	return decodeInto(raw, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: path})
	return err
}

// decodeInto unmarshals a response body, unwrapping a {"data": ...} envelope
// when present.
func decodeInto(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		body = envelope.Data
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response body: %w", err)
	}
	return nil
}

// buildURL builds a complete URL from path and query parameters.
func (c *Client) buildURL(path string, query url.Values) (*url.URL, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u, err := c.baseURL.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u, nil
}

// setHeaders applies the client's default headers to the request.
func (c *Client) setHeaders(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}

// SetHeader sets a default header for all subsequent requests.
func (c *Client) SetHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headers[key] = value
}

// BaseURL returns the client's base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}
