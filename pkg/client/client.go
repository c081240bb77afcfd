// Package client implements the MCP session protocol on top of the HTTP
// transport: initialize establishes a session token, tool calls carry it,
// close terminates it. The client is a strict state machine — Unconnected
// until Connect succeeds, Connected until Close, Closed forever after.
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	mcperrors "github.com/acai10/mcp-http-go/pkg/errors"
	"github.com/acai10/mcp-http-go/pkg/logging"
	"github.com/acai10/mcp-http-go/pkg/observability"
	"github.com/acai10/mcp-http-go/pkg/protocol"
	"github.com/acai10/mcp-http-go/pkg/transport"
)

// State is the session state of a client
type State int

const (
	// Unconnected is the initial state; only Connect and Close are legal
	Unconnected State = iota
	// Connected holds a live session token
	Connected
	// Closed is terminal
	Closed
)

// String returns the state name
func (s State) String() string {
	switch s {
	case Unconnected:
		return "unconnected"
	case Connected:
		return "connected"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Client is the protocol-level interface. One client owns one session.
//
// Concurrency contract: CallTool and ListTools calls on the same client
// must not be issued concurrently by the caller; the session token is not
// request-scoped and the client does not serialize calls itself. State
// transitions are internally guarded, but no lock is held across network
// I/O.
type Client interface {
	// Connect performs the initialize handshake and transitions the
	// client to Connected
	Connect(ctx context.Context) error

	// CallTool invokes a named tool. A tool-reported failure is an
	// ordinary err-variant Result, not a Go error.
	CallTool(ctx context.Context, name string, arguments map[string]interface{}) (protocol.Result, error)

	// ListTools fetches one page of the tool listing
	ListTools(ctx context.Context, params *protocol.ListToolsParams) (*protocol.ListToolsResult, error)

	// ListAllTools walks all pages of the tool listing
	ListAllTools(ctx context.Context) ([]protocol.Tool, error)

	// ToolNames returns just the names of all available tools
	ToolNames(ctx context.Context) ([]string, error)

	// SessionID returns the current session token, or "" before Connect
	SessionID() string

	// State returns the current session state
	State() State

	// Close sends a best-effort termination notice and releases the
	// transport. Idempotent; Closed is terminal.
	Close() error
}

// Option configures a client at construction
type Option func(*clientImpl)

// WithLogger injects the logger capability. Defaults to a no-op logger.
func WithLogger(logger logging.Logger) Option {
	return func(c *clientImpl) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTransport injects a pre-built transport, e.g. one wrapped in
// middleware. The client owns it and releases it on Close.
func WithTransport(t transport.Transport) Option {
	return func(c *clientImpl) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithClientInfo sets the client name and version sent in headers
func WithClientInfo(name, version string) Option {
	return func(c *clientImpl) {
		c.name = name
		c.version = version
	}
}

// WithArgumentValidation enables client-side argument validation against
// the input schemas cached from the most recent tool listing. Validation
// failures surface before any network I/O.
func WithArgumentValidation() Option {
	return func(c *clientImpl) {
		c.validateArgs = true
	}
}

// WithMetrics records session and tool call metrics into provider
func WithMetrics(provider observability.MetricsProvider) Option {
	return func(c *clientImpl) {
		c.metrics = provider
	}
}

// clientImpl implements Client
type clientImpl struct {
	config    transport.Config
	transport transport.Transport
	logger    logging.Logger
	metrics   observability.MetricsProvider

	name    string
	version string

	validateArgs bool

	mu        sync.Mutex
	state     State
	sessionID string
	schemas   map[string]json.RawMessage
}

// New creates a client for the endpoint described by cfg. Unless a
// transport is injected with WithTransport, the client builds its own
// HTTP transport from cfg.
func New(cfg transport.Config, opts ...Option) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.SessionTokenHeader == "" {
		cfg.SessionTokenHeader = transport.DefaultSessionTokenHeader
	}

	c := &clientImpl{
		config:  cfg,
		logger:  logging.NewNop(),
		name:    "mcp-http-go",
		version: "1.0.0",
		state:   Unconnected,
		schemas: make(map[string]json.RawMessage),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.transport == nil {
		t, err := transport.NewHTTPTransport(cfg, transport.WithLogger(c.logger))
		if err != nil {
			return nil, err
		}
		c.transport = t
	}

	return c, nil
}

// Connect performs the initialize handshake. On any failure the state
// stays Unconnected so the caller may retry.
func (c *clientImpl) Connect(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case Connected:
		c.mu.Unlock()
		return mcperrors.AlreadyConnected("connect")
	case Closed:
		c.mu.Unlock()
		return mcperrors.ClientClosed("connect")
	}
	c.mu.Unlock()

	endpoint := c.endpoint(protocol.PathInitialize)
	c.logger.Info("connecting",
		logging.String("url", endpoint),
	)

	resp, err := c.transport.Send(ctx, c.newRequest(endpoint, "", []byte("{}")))
	if err != nil {
		c.logger.Error("connect failed", logging.ErrorField(err))
		return err
	}

	if !resp.IsSuccess() {
		err := mcperrors.InvalidHandshake(endpoint, resp.StatusCode, nil)
		c.logger.Error("handshake rejected",
			logging.Int("status", resp.StatusCode),
		)
		return err
	}

	result, parseErr := protocol.ParseInitializeResult(resp.Body)
	if parseErr != nil {
		err := mcperrors.InvalidHandshake(endpoint, resp.StatusCode, parseErr)
		c.logger.Error("handshake invalid", logging.ErrorField(parseErr))
		return err
	}

	c.mu.Lock()
	if c.state == Closed {
		c.mu.Unlock()
		return mcperrors.ClientClosed("connect")
	}
	c.state = Connected
	c.sessionID = result.SessionID
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.RecordSessionState(1)
	}
	c.logger.Info("session connected",
		logging.String("session_id", result.SessionID),
	)
	return nil
}

// CallTool invokes a named tool within the current session
func (c *clientImpl) CallTool(ctx context.Context, name string, arguments map[string]interface{}) (protocol.Result, error) {
	c.mu.Lock()
	switch c.state {
	case Unconnected:
		c.mu.Unlock()
		return protocol.Result{}, mcperrors.NotConnected("call tool")
	case Closed:
		c.mu.Unlock()
		return protocol.Result{}, mcperrors.ClientClosed("call tool")
	}
	sessionID := c.sessionID
	inputSchema := c.schemas[name]
	c.mu.Unlock()

	if c.validateArgs && len(inputSchema) > 0 {
		if err := validateArguments(inputSchema, arguments); err != nil {
			return protocol.Result{}, mcperrors.InvalidArguments(name, err)
		}
	}

	body, err := protocol.EncodeToolCall(name, arguments)
	if err != nil {
		return protocol.Result{}, mcperrors.InvalidRequestf("encoding tool call %q: %v", name, err)
	}

	callID := uuid.NewString()
	callLogger := c.logger.WithFields(
		logging.String("request_id", callID),
		logging.String("tool", name),
	)

	endpoint := c.endpoint(protocol.PathCall)
	callLogger.Info("calling tool")
	start := time.Now()

	resp, err := c.transport.Send(ctx, c.newRequest(endpoint, sessionID, body))
	if err != nil {
		callLogger.Error("tool call failed", logging.ErrorField(err))
		c.recordToolCall(name, "transport_error", start)
		return protocol.Result{}, err
	}

	result, parseErr := protocol.ParseCallResult(resp.Body)
	if parseErr != nil {
		err := mcperrors.MalformedResponse(endpoint, resp.StatusCode, parseErr)
		callLogger.Error("tool call response malformed", logging.ErrorField(parseErr))
		c.recordToolCall(name, "protocol_error", start)
		return protocol.Result{}, err
	}

	outcome := "ok"
	if result.IsErr() {
		outcome = "err"
		callLogger.Info("tool reported error",
			logging.String("code", result.Err().Code),
			logging.String("message", result.Err().Message),
		)
	} else {
		callLogger.Info("tool call completed",
			logging.Duration("duration", time.Since(start)),
		)
	}
	c.recordToolCall(name, outcome, start)
	return result, nil
}

// SessionID returns the current session token
func (c *clientImpl) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// State returns the current session state
func (c *clientImpl) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close transitions the client to Closed. From Connected it first sends a
// best-effort termination notice; a failed notice is logged, never
// returned. The second and later calls do nothing.
func (c *clientImpl) Close() error {
	c.mu.Lock()
	if c.state == Closed {
		c.mu.Unlock()
		return nil
	}
	wasConnected := c.state == Connected
	sessionID := c.sessionID
	c.state = Closed
	c.mu.Unlock()

	if wasConnected {
		endpoint := c.endpoint(protocol.PathClose)
		// Bounded by the transport's configured timeout when set; a
		// hung server must not wedge Close.
		ctx := context.Background()
		if c.config.Timeout <= 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
		}

		if _, err := c.transport.Send(ctx, c.newRequest(endpoint, sessionID, []byte("{}"))); err != nil {
			c.logger.Warn("close notice failed", logging.ErrorField(err))
		}

		if c.metrics != nil {
			c.metrics.RecordSessionState(-1)
		}
	}

	err := c.transport.Close()
	c.logger.Info("session closed")
	// Injected transports may fail with plain Go errors; normalize so
	// callers always see the error taxonomy.
	return mcperrors.ConvertStandardError(err)
}

// recordToolCall records one tool call outcome when metrics are wired
func (c *clientImpl) recordToolCall(tool, outcome string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordToolCall(tool, outcome, time.Since(start))
	}
}

// endpoint joins the base URL with a protocol path
func (c *clientImpl) endpoint(path string) string {
	return strings.TrimRight(c.config.BaseURL, "/") + path
}

// newRequest builds a protocol POST carrying the session token when set
func (c *clientImpl) newRequest(endpoint, sessionID string, body []byte) *transport.Request {
	headers := map[string]string{
		"Content-Type":     protocol.ContentTypeJSON,
		"X-Client-Name":    c.name,
		"X-Client-Version": c.version,
	}
	if sessionID != "" {
		headers[c.config.SessionTokenHeader] = sessionID
	}
	return transport.NewRequest(http.MethodPost, endpoint, headers, body)
}
