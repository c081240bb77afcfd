package errors

import (
	"fmt"
	"net/url"
	"time"
)

// TransportErrorData contains structured data for transport-related errors
type TransportErrorData struct {
	Endpoint string `json:"endpoint,omitempty"`
	Method   string `json:"method,omitempty"`
	// Elapsed is how long the exchange ran before failing
	Elapsed time.Duration `json:"elapsed,omitempty"`
	Reason  string        `json:"reason,omitempty"`
}

// ConnectionErrorData contains structured data for connection setup errors
type ConnectionErrorData struct {
	Endpoint string `json:"endpoint,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// SendFailed creates an error for a network failure during an exchange.
// The cause is preserved so errors.Is can still see context.Canceled,
// context.DeadlineExceeded, and net errors through the wrap.
func SendFailed(method, endpoint string, elapsed time.Duration, cause error) MCPError {
	message := fmt.Sprintf("request to %s failed", endpoint)
	if cause != nil {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}

	data := &TransportErrorData{
		Endpoint: endpoint,
		Method:   method,
		Elapsed:  elapsed,
	}
	if cause != nil {
		data.Reason = cause.Error()
	}

	return WrapError(
		cause,
		CodeSendFailed,
		message,
		CategoryTransport,
		SeverityError,
	).WithData(data)
}

// ResponseReadFailed creates an error for a failure while draining the
// response body after headers arrived
func ResponseReadFailed(method, endpoint string, cause error) MCPError {
	message := fmt.Sprintf("reading response from %s failed", endpoint)
	if cause != nil {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}

	data := &TransportErrorData{
		Endpoint: endpoint,
		Method:   method,
	}
	if cause != nil {
		data.Reason = cause.Error()
	}

	return WrapError(
		cause,
		CodeResponseReadFailed,
		message,
		CategoryTransport,
		SeverityError,
	).WithData(data)
}

// ConnectionFailed creates an error for connection context setup failures
func ConnectionFailed(endpoint string, cause error) MCPError {
	message := "failed to set up connection context"
	if endpoint != "" {
		message = fmt.Sprintf("failed to set up connection context for %s", endpoint)
	}
	if cause != nil {
		message = fmt.Sprintf("%s: %s", message, cause.Error())
	}

	// Keep only the host in the data payload when the endpoint parses
	endpointData := endpoint
	if endpoint != "" {
		if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
			endpointData = u.Host
		}
	}

	data := &ConnectionErrorData{
		Endpoint: endpointData,
	}
	if cause != nil {
		data.Reason = cause.Error()
	}

	return WrapError(
		cause,
		CodeConnectionFailed,
		message,
		CategoryConnection,
		SeverityCritical,
	).WithData(data)
}
