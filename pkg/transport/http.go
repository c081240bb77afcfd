package transport

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	mcperrors "github.com/acai10/mcp-http-go/pkg/errors"
	"github.com/acai10/mcp-http-go/pkg/logging"
)

// ConnectionFactory builds the connection context (a pooled *http.Client)
// for a transport. Overridable for tests that need setup failures or
// connection tracking.
type ConnectionFactory func(cfg Config) (*http.Client, error)

// defaultConnectionFactory builds a pooled client. Per-exchange deadlines
// come from contexts, so the client itself carries no timeout.
func defaultConnectionFactory(cfg Config) (*http.Client, error) {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Client{
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}, nil
}

// HTTPTransport implements Transport over a single pooled HTTP client.
//
// The pooled client is acquired on Open (or lazily on the first Send) and
// released on Close. It is never shared with another transport instance.
// Redirects follow net/http's default policy (up to 10 hops); the transport
// adds no policy of its own. Retry policy is the caller's responsibility.
type HTTPTransport struct {
	config  Config
	logger  logging.Logger
	factory ConnectionFactory

	mu     sync.Mutex
	client *http.Client
	closed bool
}

// HTTPTransportOption configures an HTTPTransport at construction
type HTTPTransportOption func(*HTTPTransport)

// WithLogger injects the logger capability. Defaults to a no-op logger.
func WithLogger(logger logging.Logger) HTTPTransportOption {
	return func(t *HTTPTransport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithConnectionFactory overrides how the connection context is built
func WithConnectionFactory(factory ConnectionFactory) HTTPTransportOption {
	return func(t *HTTPTransport) {
		if factory != nil {
			t.factory = factory
		}
	}
}

// NewHTTPTransport creates an HTTP transport from the given configuration.
// The configuration is validated before anything else happens.
func NewHTTPTransport(cfg Config, opts ...HTTPTransportOption) (*HTTPTransport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	t := &HTTPTransport{
		config:  cfg,
		logger:  logging.NewNop(),
		factory: defaultConnectionFactory,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Config returns a copy of the transport configuration
func (t *HTTPTransport) Config() Config {
	return t.config
}

// Open acquires the connection context. Idempotent: a second Open on an
// open transport does nothing. Open after Close fails; construct a new
// transport instead.
func (t *HTTPTransport) Open(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.openLocked()
}

func (t *HTTPTransport) openLocked() error {
	if t.closed {
		return mcperrors.TransportClosed("open")
	}
	if t.client != nil {
		return nil
	}

	client, err := t.factory(t.config)
	if err != nil {
		t.logger.Error("connection context setup failed",
			logging.String("base_url", t.config.BaseURL),
			logging.ErrorField(err),
		)
		return mcperrors.ConnectionFailed(t.config.BaseURL, err)
	}

	t.client = client
	t.logger.Debug("connection context opened",
		logging.String("base_url", t.config.BaseURL),
	)
	return nil
}

// Send performs one outbound HTTP exchange. The request URL is validated
// before any network I/O; a malformed URL never reaches the dialer. The
// returned Response carries whatever status the remote produced; only
// network-level failures become errors.
func (t *HTTPTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, mcperrors.InvalidRequest("request must not be nil")
	}
	if err := ValidateURL(req.URL); err != nil {
		return nil, err
	}

	t.mu.Lock()
	if err := t.openLocked(); err != nil {
		t.mu.Unlock()
		return nil, err
	}
	client := t.client
	t.mu.Unlock()

	if t.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.config.Timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if len(req.Body) > 0 {
		bodyReader = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, mcperrors.InvalidRequestf("building request for %s: %v", req.URL, err)
	}

	// Default headers first, per-request headers win.
	for k, v := range t.config.DefaultHeaders {
		if v != "" {
			httpReq.Header.Set(k, v)
		}
	}
	for k, v := range req.Headers {
		if v != "" {
			httpReq.Header.Set(k, v)
		}
	}

	t.logger.Debug("request started",
		logging.String("method", req.Method),
		logging.String("url", req.URL),
	)

	start := time.Now()
	httpResp, err := client.Do(httpReq)
	if err != nil {
		elapsed := time.Since(start)
		t.logger.Error("request failed",
			logging.String("method", req.Method),
			logging.String("url", req.URL),
			logging.Duration("elapsed", elapsed),
			logging.ErrorField(err),
		)
		return nil, mcperrors.SendFailed(req.Method, req.URL, elapsed, err)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		t.logger.Error("response read failed",
			logging.String("method", req.Method),
			logging.String("url", req.URL),
			logging.ErrorField(err),
		)
		return nil, mcperrors.ResponseReadFailed(req.Method, req.URL, err)
	}

	duration := time.Since(start)
	t.logger.Debug("request completed",
		logging.String("method", req.Method),
		logging.String("url", req.URL),
		logging.Int("status", httpResp.StatusCode),
		logging.Duration("duration", duration),
	)

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header.Clone(),
		Body:       body,
	}, nil
}

// Close releases the connection context. Safe to call multiple times and
// safe under defer on every exit path.
func (t *HTTPTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	if t.client != nil {
		t.client.CloseIdleConnections()
		t.client = nil
		t.logger.Debug("connection context released",
			logging.String("base_url", t.config.BaseURL),
		)
	}
	return nil
}
