package protocol

import "encoding/json"

// InitializeResult is the body of a successful initialize response
type InitializeResult struct {
	SessionID string `json:"sessionId"`
}

// ToolCall is one protocol-level invocation of a named tool. It is
// ephemeral: one value per invocation, serialized into the /call body.
type ToolCall struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ToolError is the error descriptor a remote tool reports inside an
// envelope with ok=false. It is data, not a Go error: the exchange and the
// protocol both succeeded, the tool itself declined.
type ToolError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// callEnvelope is the raw /call response body before validation
type callEnvelope struct {
	OK     *bool           `json:"ok"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *ToolError      `json:"error,omitempty"`
}

// Tool describes one remote capability as reported by /tools
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// ListToolsParams are the pagination parameters of a /tools request
type ListToolsParams struct {
	Cursor string `json:"cursor,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// ListToolsResult is the body of a successful /tools response
type ListToolsResult struct {
	Tools      []Tool `json:"tools"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore,omitempty"`
}
