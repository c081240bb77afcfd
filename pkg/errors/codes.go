package errors

// Error codes are grouped in ranges by category. They identify failure modes
// inside this module; they are unrelated to the string codes a remote tool
// returns in its error payload.
const (
	// Invalid request errors (1000-1099)
	CodeInvalidRequest    int = 1000 // Generic invalid request
	CodeMalformedURL      int = 1001 // URL failed to parse
	CodeRelativeURL       int = 1002 // URL is not absolute
	CodeUnsupportedScheme int = 1003 // URL scheme is not http/https
	CodeInvalidConfig     int = 1004 // Configuration rejected at construction
	CodeInvalidArguments  int = 1005 // Tool arguments rejected by schema validation

	// Connection errors (1100-1199)
	CodeConnectionFailed int = 1100 // Connection context could not be set up

	// Transport errors (1200-1299)
	CodeSendFailed         int = 1200 // Network failure during an exchange
	CodeResponseReadFailed int = 1201 // Failure while reading the response body

	// Protocol errors (1300-1399)
	CodeInvalidHandshake  int = 1300 // Initialize response lacked a usable session token
	CodeMalformedResponse int = 1301 // Response body violated the expected envelope

	// State errors (1400-1499)
	CodeNotConnected     int = 1400 // Operation requires a connected session
	CodeAlreadyConnected int = 1401 // Connect on an already connected client
	CodeClientClosed     int = 1402 // Operation on a closed client
	CodeTransportClosed  int = 1403 // Send on a closed transport

	// Internal errors (1900-1999)
	CodeInternalError int = 1900 // Unexpected internal failure
)

// ErrorCodeInfo provides human-readable information about error codes
type ErrorCodeInfo struct {
	Code        int
	Name        string
	Description string
	Category    Category
	Severity    Severity
}

// errorCodeRegistry maps error codes to their information
var errorCodeRegistry = map[int]ErrorCodeInfo{
	// Invalid request errors
	CodeInvalidRequest:    {CodeInvalidRequest, "InvalidRequest", "Invalid request", CategoryInvalidRequest, SeverityError},
	CodeMalformedURL:      {CodeMalformedURL, "MalformedURL", "URL failed to parse", CategoryInvalidRequest, SeverityError},
	CodeRelativeURL:       {CodeRelativeURL, "RelativeURL", "URL is not absolute", CategoryInvalidRequest, SeverityError},
	CodeUnsupportedScheme: {CodeUnsupportedScheme, "UnsupportedScheme", "URL scheme is not http or https", CategoryInvalidRequest, SeverityError},
	CodeInvalidConfig:     {CodeInvalidConfig, "InvalidConfig", "Invalid configuration", CategoryInvalidRequest, SeverityError},
	CodeInvalidArguments:  {CodeInvalidArguments, "InvalidArguments", "Tool arguments failed schema validation", CategoryInvalidRequest, SeverityError},

	// Connection errors
	CodeConnectionFailed: {CodeConnectionFailed, "ConnectionFailed", "Connection context setup failed", CategoryConnection, SeverityCritical},

	// Transport errors
	CodeSendFailed:         {CodeSendFailed, "SendFailed", "Network failure during exchange", CategoryTransport, SeverityError},
	CodeResponseReadFailed: {CodeResponseReadFailed, "ResponseReadFailed", "Response body read failed", CategoryTransport, SeverityError},

	// Protocol errors
	CodeInvalidHandshake:  {CodeInvalidHandshake, "InvalidHandshake", "Handshake yielded no usable session token", CategoryProtocol, SeverityError},
	CodeMalformedResponse: {CodeMalformedResponse, "MalformedResponse", "Response violated the expected envelope", CategoryProtocol, SeverityError},

	// State errors
	CodeNotConnected:     {CodeNotConnected, "NotConnected", "Session is not connected", CategoryState, SeverityError},
	CodeAlreadyConnected: {CodeAlreadyConnected, "AlreadyConnected", "Session is already connected", CategoryState, SeverityWarning},
	CodeClientClosed:     {CodeClientClosed, "ClientClosed", "Client is closed", CategoryState, SeverityError},
	CodeTransportClosed:  {CodeTransportClosed, "TransportClosed", "Transport is closed", CategoryState, SeverityError},

	// Internal errors
	CodeInternalError: {CodeInternalError, "InternalError", "Unexpected internal failure", CategoryInternal, SeverityCritical},
}

// GetErrorCodeInfo returns information about an error code
func GetErrorCodeInfo(code int) (ErrorCodeInfo, bool) {
	info, exists := errorCodeRegistry[code]
	return info, exists
}

// GetErrorCodeName returns the name of an error code
func GetErrorCodeName(code int) string {
	if info, exists := errorCodeRegistry[code]; exists {
		return info.Name
	}
	return "UnknownError"
}

// GetErrorCodeDescription returns the description of an error code
func GetErrorCodeDescription(code int) string {
	if info, exists := errorCodeRegistry[code]; exists {
		return info.Description
	}
	return "Unknown error"
}

// GetErrorCodeCategory returns the category of an error code
func GetErrorCodeCategory(code int) Category {
	if info, exists := errorCodeRegistry[code]; exists {
		return info.Category
	}
	return CategoryInternal
}

// GetErrorCodeSeverity returns the severity of an error code
func GetErrorCodeSeverity(code int) Severity {
	if info, exists := errorCodeRegistry[code]; exists {
		return info.Severity
	}
	return SeverityError
}

// ListErrorCodes returns all registered error codes
func ListErrorCodes() []ErrorCodeInfo {
	codes := make([]ErrorCodeInfo, 0, len(errorCodeRegistry))
	for _, info := range errorCodeRegistry {
		codes = append(codes, info)
	}
	return codes
}
