// Package mcp provides an HTTP client for the Model Context Protocol
// (MCP): an asynchronous transport layer owning one reusable connection
// context, and a session client implementing initialize, tool calls and
// close on top of it.
//
// # Overview
//
// The module consists of several sub-packages:
//
//   - pkg/transport: the HTTP transport — connection lifecycle, request
//     dispatch, error normalization, and middleware (metrics, logging,
//     tracing)
//   - pkg/client: the protocol client — session state machine, tool
//     listing and tool calls
//   - pkg/protocol: the wire shapes — handshake, call envelope, tool
//     listing, and the tagged Result type
//   - pkg/errors: the error taxonomy shared by all layers
//   - pkg/logging: the injected structured logging capability
//   - pkg/observability: Prometheus metrics and OpenTelemetry tracing
//   - pkg/pagination: utilities for walking paginated tool listings
//   - pkg/schema: tool input schema validation and CLI value coercion
//   - pkg/mcptest: an in-process backend for tests and examples
//
// # Creating a client
//
//	import (
//	    "context"
//	    "log"
//
//	    mcp "github.com/acai10/mcp-http-go"
//	)
//
//	func main() {
//	    c, err := mcp.NewClient(mcp.DefaultConfig("http://localhost:8000"))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer c.Close()
//
//	    ctx := context.Background()
//	    if err := c.Connect(ctx); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    result, err := c.CallTool(ctx, "echo", map[string]interface{}{"x": 1})
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if result.IsErr() {
//	        log.Printf("tool error: %s", result.Err().Message)
//	    } else {
//	        log.Printf("payload: %s", result.Payload())
//	    }
//	}
//
// A tool-reported failure is not a Go error: CallTool returns an
// err-variant Result, because the exchange and the protocol both
// succeeded. Go errors are reserved for invalid requests, transport
// failures, protocol violations and wrong-state calls; see pkg/errors for
// the taxonomy and its predicates.
//
// # Errors
//
// All failures implement errors.MCPError and carry a category, a code and
// structured data. Retry and backoff policy is deliberately left to the
// caller.
package mcp
