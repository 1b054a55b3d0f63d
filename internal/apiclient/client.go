// Package apiclient is the HTTP transport shared by every console API call.
//
// It speaks the server's JSON envelope ({"code":200,"msg":"...", ...}), injects
// the bearer token, applies per-request timeouts and maps failures onto
// internal/errors codes so callers can tell an expired session from a
// rejected password or an unreachable server.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2"

	"github.com/stockdesk/console/internal/errors"
	"github.com/stockdesk/console/internal/observability/metrics"
	"github.com/stockdesk/console/internal/observability/statsd"
	"github.com/stockdesk/console/internal/sanitize"
)

// DefaultTimeout bounds a request that sets no timeout of its own.
const DefaultTimeout = 10 * time.Second

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Envelope codes reported by the server.
const (
	CodeSuccess      = 200
	CodeUnauthorized = 401
	CodeServerError  = 500
	CodeWarning      = 601
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Tokens     oauth2.TokenSource
	HTTPClient *http.Client
	Logger     *slog.Logger
	Metrics    statsd.Sink
	UserAgent  string
}

// Client performs envelope-aware HTTP requests against the console API.
type Client struct {
	base      *url.URL
	timeout   time.Duration
	tokens    oauth2.TokenSource
	http      *http.Client
	logger    *slog.Logger
	metrics   statsd.Sink
	userAgent string
}

// New creates a Client. BaseURL must be an absolute http(s) URL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.ValidationField("base_url", "API base URL must be an absolute URL")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.ValidationField("base_url", "API base URL must use http or https")
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "create cookie jar")
		}
		httpClient = &http.Client{Jar: jar}
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = "stockdesk-console"
	}

	return &Client{
		base:      base,
		timeout:   timeout,
		tokens:    opts.Tokens,
		http:      httpClient,
		logger:    logger.With("component", "apiclient"),
		metrics:   opts.Metrics,
		userAgent: ua,
	}, nil
}

// BaseURL returns the configured API base URL without a trailing slash.
func (c *Client) BaseURL() string { return c.base.String() }

// Request describes one API call.
type Request struct {
	Method string
	// Path is relative to the base URL and already escaped.
	Path    string
	Params  map[string]any
	Data    any
	Timeout time.Duration
	Headers map[string]string
	// Anonymous skips the Authorization header (login, captcha).
	Anonymous bool
	// Sanitize strips non-finite numbers from Params and Data and rewrites
	// NaN/Infinity tokens in the response body.
	Sanitize bool
	// Blob returns the raw body instead of decoding the envelope.
	Blob bool
}

// Do executes req and returns the decoded response.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	start := time.Now()
	resp, status, err := c.do(ctx, method, req)
	metrics.EmitAPIRequest(c.metrics, metrics.RequestMetric{
		Method:    method,
		Route:     req.Path,
		Status:    status,
		Sanitized: req.Sanitize,
		Duration:  time.Since(start),
		Err:       err,
	})
	return resp, err
}

func (c *Client) do(ctx context.Context, method string, req Request) (*Response, int, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := c.build(ctx, method, req)
	if err != nil {
		return nil, 0, err
	}
	requestID := httpReq.Header.Get(RequestIDHeader)
	log := c.logger.With("method", method, "path", req.Path, "request_id", requestID)

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		mapped := errors.MapTransportError(err, method+" "+req.Path)
		log.DebugContext(ctx, "api request failed", "error", mapped, "duration", time.Since(start))
		return nil, 0, mapped
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, httpResp.StatusCode, errors.MapTransportError(err, "read "+req.Path)
	}
	log.DebugContext(ctx, "api request completed",
		"status", httpResp.StatusCode,
		"bytes", len(body),
		"duration", time.Since(start))

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		e := errors.Networkf("%s %s: unexpected HTTP status %d", method, req.Path, httpResp.StatusCode)
		e.Status = httpResp.StatusCode
		return nil, httpResp.StatusCode, e
	}

	contentType := httpResp.Header.Get("Content-Type")
	if req.Blob && !isJSON(contentType) {
		return &Response{
			StatusCode:  httpResp.StatusCode,
			Code:        CodeSuccess,
			Blob:        body,
			ContentType: contentType,
		}, httpResp.StatusCode, nil
	}

	if req.Sanitize {
		body = sanitize.JSON(body)
	}
	resp, err := decodeEnvelope(body)
	if err != nil {
		return nil, httpResp.StatusCode, err
	}
	resp.StatusCode = httpResp.StatusCode
	resp.ContentType = contentType

	if err := envelopeError(resp); err != nil {
		log.DebugContext(ctx, "api request rejected", "code", resp.Code, "msg", resp.Msg)
		return nil, httpResp.StatusCode, err
	}
	return resp, httpResp.StatusCode, nil
}

func (c *Client) build(ctx context.Context, method string, req Request) (*http.Request, error) {
	u := *c.base
	rawPath := strings.TrimRight(c.base.EscapedPath(), "/") + "/" + strings.TrimLeft(req.Path, "/")
	path, err := url.PathUnescape(rawPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeValidation, "invalid path %s", req.Path)
	}
	u.Path, u.RawPath = path, rawPath

	params, data := req.Params, req.Data
	if req.Sanitize {
		if params != nil {
			params, _ = sanitize.Value(params).(map[string]any)
		}
		data = sanitize.Value(data)
	}
	if len(params) > 0 {
		u.RawQuery = EncodeParams(params)
	}

	var body io.Reader
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrCodeValidation, "encode %s body", req.Path)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrCodeValidation, "build %s request", req.Path)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(RequestIDHeader, uuid.NewString())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json;charset=utf-8")
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if !req.Anonymous && c.tokens != nil {
		tok, err := c.tokens.Token()
		if err != nil {
			return nil, err
		}
		if tok.Valid() {
			tok.SetAuthHeader(httpReq)
		}
	}
	return httpReq, nil
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "json")
}
