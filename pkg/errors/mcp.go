package errors

import (
	"fmt"
)

// Reasons carried by protocol errors. Callers branch on these rather than
// parsing messages.
const (
	ReasonInvalidHandshake  = "invalid handshake"
	ReasonMalformedResponse = "malformed response"
)

// ProtocolErrorData contains structured data for wire schema violations
type ProtocolErrorData struct {
	Reason     string `json:"reason"`
	Endpoint   string `json:"endpoint,omitempty"`
	StatusCode int    `json:"status_code,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// InvalidHandshake creates an error for an initialize exchange that did not
// yield a usable session token
func InvalidHandshake(endpoint string, statusCode int, cause error) MCPError {
	message := "invalid handshake"
	if endpoint != "" {
		message = fmt.Sprintf("invalid handshake with %s", endpoint)
	}
	if statusCode > 0 {
		message = fmt.Sprintf("%s (HTTP %d)", message, statusCode)
	}
	if cause != nil {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}

	data := &ProtocolErrorData{
		Reason:     ReasonInvalidHandshake,
		Endpoint:   endpoint,
		StatusCode: statusCode,
	}
	if cause != nil {
		data.Detail = cause.Error()
	}

	return WrapError(
		cause,
		CodeInvalidHandshake,
		message,
		CategoryProtocol,
		SeverityError,
	).WithData(data)
}

// MalformedResponse creates an error for a response body that violated the
// expected envelope
func MalformedResponse(endpoint string, statusCode int, cause error) MCPError {
	message := "malformed response"
	if endpoint != "" {
		message = fmt.Sprintf("malformed response from %s", endpoint)
	}
	if statusCode > 0 {
		message = fmt.Sprintf("%s (HTTP %d)", message, statusCode)
	}
	if cause != nil {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}

	data := &ProtocolErrorData{
		Reason:     ReasonMalformedResponse,
		Endpoint:   endpoint,
		StatusCode: statusCode,
	}
	if cause != nil {
		data.Detail = cause.Error()
	}

	return WrapError(
		cause,
		CodeMalformedResponse,
		message,
		CategoryProtocol,
		SeverityError,
	).WithData(data)
}

// ProtocolReason returns the reason string of a protocol error, or "" if err
// is not one
func ProtocolReason(err error) string {
	mcpErr, ok := AsMCPError(err)
	if !ok || mcpErr.Category() != CategoryProtocol {
		return ""
	}
	if data, ok := mcpErr.Data().(*ProtocolErrorData); ok {
		return data.Reason
	}
	return ""
}

// InternalError creates an error for unexpected internal failures
func InternalError(operation string, cause error) MCPError {
	message := fmt.Sprintf("internal error during %s", operation)
	if cause != nil {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}

	return WrapError(
		cause,
		CodeInternalError,
		message,
		CategoryInternal,
		SeverityCritical,
	)
}
