// Package protocol defines the wire shapes of the MCP HTTP protocol: the
// initialize handshake, tool calls and their response envelope, tool
// listing, and session close. Parsing here is strict; a body that does not
// match the envelope is a protocol error, never a silently ignored field.
package protocol

// Endpoint paths, relative to the configured base URL
const (
	// PathInitialize establishes a session and yields its token
	PathInitialize = "/initialize"

	// PathCall invokes one named tool within a session
	PathCall = "/call"

	// PathTools lists the tools a session may call
	PathTools = "/tools"

	// PathClose terminates a session; the response is ignored beyond
	// HTTP-level success
	PathClose = "/close"
)

// ContentTypeJSON is the content type of every protocol request
const ContentTypeJSON = "application/json"
