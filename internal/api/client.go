package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	csrfEndpoint = "/auth/csrf/"
	csrfHeader   = "X-CSRFToken"
)

// Client talks to the StageConnect JSON API. Cookies are kept in the jar of
// the underlying http.Client; mutating requests carry the CSRF token fetched
// once when the client is created.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *clientMetrics

	// csrfToken and csrfErr are written once, before csrfDone is closed
	csrfToken string
	csrfErr   error
	csrfDone  chan struct{}
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient sets the http.Client used for every call. A cookie jar is
// added when the client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics registers request counters and latency histograms on reg
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Client) {
		if reg != nil {
			c.metrics = newClientMetrics(reg)
		}
	}
}

// New creates a client for the API rooted at baseURL (for example
// http://localhost:8000/api) and starts fetching the CSRF token. ctx bounds
// that fetch only.
func New(ctx context.Context, baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		logger:   slog.Default(),
		csrfDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.httpClient.Jar == nil {
		hc := *c.httpClient
		jar, _ := cookiejar.New(nil)
		hc.Jar = jar
		c.httpClient = &hc
	}

	go c.initCSRF(ctx)
	return c
}

// BaseURL returns the API root the client was created with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ready blocks until the CSRF fetch has settled and returns its error. It
// returns ctx.Err() if ctx ends first.
func (c *Client) Ready(ctx context.Context) error {
	select {
	case <-c.csrfDone:
		return c.csrfErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// csrf returns the cached token, or "" while the fetch is pending or after
// it failed.
func (c *Client) csrf() string {
	select {
	case <-c.csrfDone:
		return c.csrfToken
	default:
		return ""
	}
}

type csrfResponse struct {
	CSRFToken string `json:"csrfToken"`
}

func (c *Client) initCSRF(ctx context.Context) {
	defer close(c.csrfDone)

	var resp csrfResponse
	if err := c.Do(ctx, http.MethodGet, csrfEndpoint, nil, &resp); err != nil {
		c.csrfErr = fmt.Errorf("fetch csrf token: %w", err)
		c.logger.Warn("csrf token unavailable", slog.String("error", err.Error()))
		return
	}
	if resp.CSRFToken == "" {
		c.csrfErr = fmt.Errorf("fetch csrf token: empty token")
		c.logger.Warn("csrf token unavailable", slog.String("error", "empty token"))
		return
	}
	c.csrfToken = resp.CSRFToken
}

// RequestOption adjusts an outgoing request
type RequestOption func(*http.Request)

// WithHeader sets a header on the request, overriding the defaults
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) {
		r.Header.Set(key, value)
	}
}

// Do sends a JSON request to endpoint and decodes the JSON response into out.
// body is encoded as JSON when non-nil. A 204 or empty response leaves out
// untouched. Non-2xx statuses are returned as *Error.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any, opts ...RequestOption) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := c.newRequest(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for _, opt := range opts {
		opt(req)
	}
	if isMutating(method) {
		c.attachCSRF(req)
	}

	status, payload, err := c.send(req, endpoint)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return httpError(method, endpoint, status, payload)
	}
	if status == http.StatusNoContent || out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// doMultipart sends a pre-encoded multipart body. contentType carries the
// boundary, so the JSON content type is never set on this path.
func (c *Client) doMultipart(ctx context.Context, method, endpoint string, body io.Reader, contentType string, out any) error {
	req, err := c.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	c.attachCSRF(req)

	status, payload, err := c.send(req, endpoint)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return httpError(method, endpoint, status, payload)
	}
	if status == http.StatusNoContent || out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// doBinary fetches a raw payload such as a PDF. The body is never decoded,
// whatever the status.
func (c *Client) doBinary(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.attachCSRF(req)

	status, payload, err := c.send(req, endpoint)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &Error{
			Kind:     KindHTTP,
			Method:   http.MethodGet,
			Endpoint: endpoint,
			Status:   status,
			Message:  "Failed to export PDF",
		}
	}
	return payload, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *Client) attachCSRF(req *http.Request) {
	if token := c.csrf(); token != "" {
		req.Header.Set(csrfHeader, token)
	}
}

// send executes req and reads the whole body. Transport failures come back
// as a KindNetwork *Error.
func (c *Client) send(req *http.Request, endpoint string) (int, []byte, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(req.Method, 0, time.Since(start))
		c.logger.Debug("api request failed",
			slog.String("method", req.Method),
			slog.String("path", endpoint),
			slog.String("request_id", req.Header.Get("X-Request-ID")),
			slog.String("error", err.Error()))
		return 0, nil, networkError(req.Method, endpoint, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.metrics.observe(req.Method, resp.StatusCode, elapsed)
	if err != nil {
		return 0, nil, networkError(req.Method, endpoint, fmt.Errorf("read response: %w", err))
	}

	c.logger.Debug("api request",
		slog.String("method", req.Method),
		slog.String("path", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", elapsed),
		slog.String("request_id", req.Header.Get("X-Request-ID")))
	return resp.StatusCode, payload, nil
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
