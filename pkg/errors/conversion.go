package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
)

// ConvertStandardError converts common Go errors to appropriate MCPErrors
func ConvertStandardError(err error) MCPError {
	if err == nil {
		return nil
	}

	// Check if it's already an MCPError
	if mcpErr, ok := AsMCPError(err); ok {
		return mcpErr
	}

	// Context cancellation and deadline errors
	if stderrors.Is(err, context.Canceled) {
		return WrapError(err, CodeSendFailed, "operation cancelled", CategoryTransport, SeverityInfo)
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return WrapError(err, CodeSendFailed, "operation timed out", CategoryTransport, SeverityError)
	}

	// JSON parsing errors
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return WrapError(err, CodeMalformedResponse, "invalid JSON", CategoryProtocol, SeverityError)
	}
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return WrapError(err, CodeMalformedResponse, "unexpected JSON shape", CategoryProtocol, SeverityError)
	}

	// Default to internal error
	return WrapError(err, CodeInternalError, "internal error", CategoryInternal, SeverityError)
}

// ToolErrorCode returns the wire code and message a server should report for
// an error raised by a tool handler. MCPErrors use their registry name as the
// code; anything else is reported as InternalError.
func ToolErrorCode(err error) (code, message string) {
	if err == nil {
		return "", ""
	}
	if mcpErr, ok := AsMCPError(err); ok {
		return GetErrorCodeName(mcpErr.Code()), mcpErr.Message()
	}
	return GetErrorCodeName(CodeInternalError), err.Error()
}
