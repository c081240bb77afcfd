package protocol

import "encoding/json"

// Result is the tagged outcome of one tool call: either a success payload
// or a tool-reported error descriptor. Exactly one variant is set. Tool
// failures ride here as ordinary values, never as Go errors; only schema
// violations and transport failures surface as errors.
type Result struct {
	ok      bool
	payload json.RawMessage
	toolErr *ToolError
}

// OK builds a success Result carrying payload
func OK(payload json.RawMessage) Result {
	return Result{ok: true, payload: payload}
}

// Err builds an error Result carrying the tool's code and message
func Err(code, message string) Result {
	return Result{toolErr: &ToolError{Code: code, Message: message}}
}

// IsOK reports whether the tool succeeded
func (r Result) IsOK() bool {
	return r.ok
}

// IsErr reports whether the tool reported an error
func (r Result) IsErr() bool {
	return r.toolErr != nil
}

// Payload returns the raw success payload; nil on the error variant
func (r Result) Payload() json.RawMessage {
	return r.payload
}

// Unmarshal decodes the success payload into v
func (r Result) Unmarshal(v interface{}) error {
	return json.Unmarshal(r.payload, v)
}

// Err returns the tool error descriptor; nil on the success variant
func (r Result) Err() *ToolError {
	return r.toolErr
}

// String renders the result for logs and interactive output
func (r Result) String() string {
	if r.toolErr != nil {
		return "err(" + r.toolErr.Code + ": " + r.toolErr.Message + ")"
	}
	return "ok(" + string(r.payload) + ")"
}
