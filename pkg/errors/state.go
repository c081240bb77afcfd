package errors

import (
	"fmt"
)

// StateErrorData contains structured data for wrong-state calls
type StateErrorData struct {
	State     string `json:"state"`
	Operation string `json:"operation"`
}

// NotConnected creates an error for operations that require a connected
// session
func NotConnected(operation string) MCPError {
	return NewError(
		CodeNotConnected,
		fmt.Sprintf("cannot %s: session not connected", operation),
		CategoryState,
		SeverityError,
	).WithData(&StateErrorData{
		State:     "unconnected",
		Operation: operation,
	})
}

// AlreadyConnected creates an error for connect on a connected client
func AlreadyConnected(operation string) MCPError {
	return NewError(
		CodeAlreadyConnected,
		fmt.Sprintf("cannot %s: session already connected", operation),
		CategoryState,
		SeverityWarning,
	).WithData(&StateErrorData{
		State:     "connected",
		Operation: operation,
	})
}

// ClientClosed creates an error for operations on a closed client
func ClientClosed(operation string) MCPError {
	return NewError(
		CodeClientClosed,
		fmt.Sprintf("cannot %s: client is closed", operation),
		CategoryState,
		SeverityError,
	).WithData(&StateErrorData{
		State:     "closed",
		Operation: operation,
	})
}

// TransportClosed creates an error for sends on a closed transport
func TransportClosed(operation string) MCPError {
	return NewError(
		CodeTransportClosed,
		fmt.Sprintf("cannot %s: transport is closed", operation),
		CategoryState,
		SeverityError,
	).WithData(&StateErrorData{
		State:     "closed",
		Operation: operation,
	})
}
