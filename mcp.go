package mcp

import (
	"github.com/acai10/mcp-http-go/pkg/client"
	"github.com/acai10/mcp-http-go/pkg/logging"
	"github.com/acai10/mcp-http-go/pkg/protocol"
	"github.com/acai10/mcp-http-go/pkg/transport"
)

// Version represents the current version of the module
const Version = "1.0.0"

// These exports provide direct access to the core components
var (
	// NewClient creates a new MCP session client
	NewClient = client.New

	// NewHTTPTransport creates a new HTTP transport
	NewHTTPTransport = transport.NewHTTPTransport

	// DefaultConfig returns a transport configuration with defaults
	DefaultConfig = transport.DefaultConfig

	// NewLogger creates a structured logger
	NewLogger = logging.New

	// NewNopLogger creates a logger that discards everything
	NewNopLogger = logging.NewNop
)

// Client options
var (
	WithClientLogger       = client.WithLogger
	WithClientTransport    = client.WithTransport
	WithClientInfo         = client.WithClientInfo
	WithArgumentValidation = client.WithArgumentValidation
	WithClientMetrics      = client.WithMetrics
)

// Result constructors for callers that build results in tests or fakes
var (
	// OK builds a success Result
	OK = protocol.OK

	// Err builds a tool-error Result
	Err = protocol.Err
)

// Re-exported core types
type (
	// Client is the protocol-level session interface
	Client = client.Client

	// Transport is the HTTP transport interface
	Transport = transport.Transport

	// Config configures a transport
	Config = transport.Config

	// Result is the tagged outcome of a tool call
	Result = protocol.Result

	// Tool describes one remote capability
	Tool = protocol.Tool
)
