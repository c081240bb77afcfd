package errors

import (
	"fmt"
)

// InvalidRequestData contains structured data for pre-I/O request rejections
type InvalidRequestData struct {
	URL    string `json:"url,omitempty"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// ArgumentErrorData contains structured data for tool argument rejections
type ArgumentErrorData struct {
	Tool     string `json:"tool"`
	Argument string `json:"argument,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// InvalidRequest creates a generic invalid request error
func InvalidRequest(message string) MCPError {
	return NewError(CodeInvalidRequest, message, CategoryInvalidRequest, SeverityError)
}

// InvalidRequestf creates a generic invalid request error with formatting
func InvalidRequestf(format string, args ...interface{}) MCPError {
	return NewErrorf(CodeInvalidRequest, CategoryInvalidRequest, SeverityError, format, args...)
}

// MalformedURL creates an error for URLs that fail to parse
func MalformedURL(rawURL string, cause error) MCPError {
	message := fmt.Sprintf("malformed URL %q", rawURL)
	if cause != nil {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}

	data := &InvalidRequestData{
		URL:    rawURL,
		Reason: "parse failure",
	}
	if cause != nil {
		data.Reason = cause.Error()
	}

	return WrapError(
		cause,
		CodeMalformedURL,
		message,
		CategoryInvalidRequest,
		SeverityError,
	).WithData(data)
}

// RelativeURL creates an error for URLs lacking a scheme or host
func RelativeURL(rawURL string) MCPError {
	return NewError(
		CodeRelativeURL,
		fmt.Sprintf("URL %q is not absolute", rawURL),
		CategoryInvalidRequest,
		SeverityError,
	).WithData(&InvalidRequestData{
		URL:    rawURL,
		Reason: "missing scheme or host",
	})
}

// UnsupportedScheme creates an error for non-HTTP URL schemes
func UnsupportedScheme(rawURL, scheme string) MCPError {
	return NewError(
		CodeUnsupportedScheme,
		fmt.Sprintf("unsupported URL scheme %q (want http or https)", scheme),
		CategoryInvalidRequest,
		SeverityError,
	).WithData(&InvalidRequestData{
		URL:    rawURL,
		Value:  scheme,
		Reason: "scheme must be http or https",
	})
}

// InvalidConfig creates an error for configuration rejected at construction
func InvalidConfig(field, reason string) MCPError {
	return NewError(
		CodeInvalidConfig,
		fmt.Sprintf("invalid configuration for %q: %s", field, reason),
		CategoryInvalidRequest,
		SeverityError,
	).WithData(&InvalidRequestData{
		Field:  field,
		Reason: reason,
	})
}

// InvalidArguments creates an error for tool arguments rejected by schema
// validation before the call is sent
func InvalidArguments(tool string, cause error) MCPError {
	message := fmt.Sprintf("arguments for tool %q failed validation", tool)
	if cause != nil {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}

	data := &ArgumentErrorData{
		Tool: tool,
	}
	if cause != nil {
		data.Reason = cause.Error()
	}

	return WrapError(
		cause,
		CodeInvalidArguments,
		message,
		CategoryInvalidRequest,
		SeverityError,
	).WithData(data)
}
