// Package transport provides the HTTP transport layer for the MCP client.
//
// A Transport owns one reusable connection context (a pooled HTTP client)
// and performs one outbound exchange per Send call. It normalizes failures
// into the module's error taxonomy: malformed input is rejected before any
// network I/O, setup failures surface from Open, and network failures during
// an exchange wrap their cause so errors.Is still sees it.
//
// Usage:
//
//	cfg := transport.DefaultConfig("http://localhost:8000")
//	t, err := transport.NewHTTPTransport(cfg)
//	if err != nil { ... }
//	if err := t.Open(ctx); err != nil { ... }
//	defer t.Close()
//	resp, err := t.Send(ctx, transport.NewRequest(http.MethodPost, url, headers, body))
package transport

import (
	"context"
	"net/http"
	"net/url"
	"time"

	mcperrors "github.com/acai10/mcp-http-go/pkg/errors"
)

// Transport is the core interface for one HTTP connection context.
// Implementations must be safe for concurrent Send calls; responses of
// concurrent calls are independent and carry no ordering guarantee.
type Transport interface {
	// Open acquires the connection context. Calling Open on an already
	// open transport is a no-op.
	Open(ctx context.Context) error

	// Send performs exactly one outbound HTTP exchange. The calling
	// goroutine blocks until the full response is read or a terminal
	// failure occurs. Non-2xx/3xx statuses are data, not errors.
	Send(ctx context.Context, req *Request) (*Response, error)

	// Close releases the connection context. Idempotent.
	Close() error
}

// Request is one immutable outbound HTTP request. Construct it with
// NewRequest; the constructor copies the header map so later mutation of
// the caller's map cannot leak into an in-flight exchange.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    []byte
}

// NewRequest builds a Request, copying headers
func NewRequest(method, rawURL string, headers map[string]string, body []byte) *Request {
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		h[k] = v
	}
	return &Request{
		Method:  method,
		URL:     rawURL,
		Headers: h,
		Body:    body,
	}
}

// Response is the full outcome of one exchange: status, headers and the
// drained body. It is produced exactly once per Send and never reused.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess reports whether the status code is in the 2xx range
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// DefaultSessionTokenHeader carries the session token on protocol requests
const DefaultSessionTokenHeader = "X-Session-Id"

// Config configures a transport instance
type Config struct {
	// BaseURL is the root of the remote endpoint. Required, must be an
	// absolute http or https URL.
	BaseURL string `json:"base_url"`

	// DefaultHeaders are applied to every request. Per-request headers
	// with the same key win.
	DefaultHeaders map[string]string `json:"default_headers,omitempty"`

	// Timeout bounds each Send when greater than zero. Zero means the
	// caller's context is the only bound.
	Timeout time.Duration `json:"timeout,omitempty"`

	// SessionTokenHeader is the header name protocol layers use for the
	// session token. Defaults to "X-Session-Id".
	SessionTokenHeader string `json:"session_token_header,omitempty"`
}

// DefaultConfig returns a transport configuration with sensible defaults
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:            baseURL,
		DefaultHeaders:     map[string]string{},
		SessionTokenHeader: DefaultSessionTokenHeader,
	}
}

// Validate checks the configuration before any transport is constructed
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return mcperrors.InvalidConfig("base_url", "must not be empty")
	}
	if err := ValidateURL(c.BaseURL); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return mcperrors.InvalidConfig("timeout", "must not be negative")
	}
	return nil
}

// applyDefaults fills zero-valued optional fields
func (c *Config) applyDefaults() {
	if c.DefaultHeaders == nil {
		c.DefaultHeaders = map[string]string{}
	}
	if c.SessionTokenHeader == "" {
		c.SessionTokenHeader = DefaultSessionTokenHeader
	}
}

// ValidateURL rejects URLs that must not reach the network layer: parse
// failures, relative URLs, and non-HTTP schemes. It performs no I/O.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return mcperrors.MalformedURL(rawURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return mcperrors.RelativeURL(rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return mcperrors.UnsupportedScheme(rawURL, u.Scheme)
	}
	return nil
}
