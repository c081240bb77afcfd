package protocol

import (
	"encoding/json"
	"fmt"
)

// EncodeToolCall serializes a tool call into a /call request body. A nil
// arguments map is sent as an empty object so the wire shape stays stable.
func EncodeToolCall(name string, arguments map[string]interface{}) ([]byte, error) {
	if arguments == nil {
		arguments = map[string]interface{}{}
	}
	return json.Marshal(ToolCall{Name: name, Arguments: arguments})
}

// ParseInitializeResult validates an initialize response body. The body
// must decode to {sessionId: string} with a non-empty token.
func ParseInitializeResult(body []byte) (*InitializeResult, error) {
	var result InitializeResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("initialize body is not valid JSON: %w", err)
	}
	if result.SessionID == "" {
		return nil, fmt.Errorf("initialize body carries no session token")
	}
	return &result, nil
}

// ParseCallResult validates a /call response body against the envelope
// schema and converts it into a tagged Result. Rejected shapes: bodies
// that are not JSON objects, a missing ok field, ok=false without an error
// object, and ok=true with one.
func ParseCallResult(body []byte) (Result, error) {
	var env callEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Result{}, fmt.Errorf("call body is not a valid envelope: %w", err)
	}
	if env.OK == nil {
		return Result{}, fmt.Errorf("call envelope is missing the ok field")
	}

	if *env.OK {
		if env.Error != nil {
			return Result{}, fmt.Errorf("call envelope has ok=true and an error object")
		}
		return OK(env.Result), nil
	}

	if env.Error == nil {
		return Result{}, fmt.Errorf("call envelope has ok=false and no error object")
	}
	return Err(env.Error.Code, env.Error.Message), nil
}

// ParseListToolsResult validates a /tools response body
func ParseListToolsResult(body []byte) (*ListToolsResult, error) {
	var result ListToolsResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("tools body is not valid JSON: %w", err)
	}
	if result.Tools == nil {
		return nil, fmt.Errorf("tools body carries no tools field")
	}
	return &result, nil
}
