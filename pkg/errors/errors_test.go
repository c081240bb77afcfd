package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"testing"
	"time"
)

func TestMCPErrorInterface(t *testing.T) {
	tests := []struct {
		name     string
		err      MCPError
		wantCode int
		wantCat  Category
		wantSev  Severity
	}{
		{
			name:     "invalid request",
			err:      InvalidRequest("test invalid request"),
			wantCode: CodeInvalidRequest,
			wantCat:  CategoryInvalidRequest,
			wantSev:  SeverityError,
		},
		{
			name:     "malformed url",
			err:      MalformedURL("://bad", fmt.Errorf("missing protocol scheme")),
			wantCode: CodeMalformedURL,
			wantCat:  CategoryInvalidRequest,
			wantSev:  SeverityError,
		},
		{
			name:     "not connected",
			err:      NotConnected("call tool"),
			wantCode: CodeNotConnected,
			wantCat:  CategoryState,
			wantSev:  SeverityError,
		},
		{
			name:     "invalid handshake",
			err:      InvalidHandshake("http://example.com", 200, fmt.Errorf("empty sessionId")),
			wantCode: CodeInvalidHandshake,
			wantCat:  CategoryProtocol,
			wantSev:  SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Code(); got != tt.wantCode {
				t.Errorf("Code() = %v, want %v", got, tt.wantCode)
			}
			if got := tt.err.Category(); got != tt.wantCat {
				t.Errorf("Category() = %v, want %v", got, tt.wantCat)
			}
			if got := tt.err.Severity(); got != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", got, tt.wantSev)
			}

			// Test that error implements error interface
			_ = error(tt.err)

			// Test Error() method
			if msg := tt.err.Error(); msg == "" {
				t.Error("Error() returned empty string")
			}
		})
	}
}

func TestErrorContext(t *testing.T) {
	err := InvalidRequest("test error")

	// Test without context
	if ctx := err.Context(); ctx == nil {
		t.Error("Context() should never return nil")
	}

	// Test with context
	requestCtx := &Context{
		RequestID: "123",
		Tool:      "echo",
		SessionID: "session-456",
		Component: "test-component",
	}

	errWithCtx := err.WithContext(requestCtx)
	if got := errWithCtx.Context(); got != requestCtx {
		t.Errorf("WithContext() failed, got %v, want %v", got, requestCtx)
	}

	// Original error should be unchanged
	if err.Context().RequestID != "" {
		t.Error("Original error was modified by WithContext()")
	}
}

func TestErrorChaining(t *testing.T) {
	cause := fmt.Errorf("underlying cause")
	err := WrapError(cause, CodeInternalError, "wrapped error", CategoryInternal, SeverityError)

	if unwrapped := err.Unwrap(); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
}

func TestCausePreservedThroughWrap(t *testing.T) {
	tests := []struct {
		name  string
		cause error
	}{
		{"context canceled", context.Canceled},
		{"deadline exceeded", context.DeadlineExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SendFailed("POST", "http://example.com/call", 50*time.Millisecond, tt.cause)
			if !stderrors.Is(err, tt.cause) {
				t.Errorf("errors.Is(%v, %v) = false, want true", err, tt.cause)
			}
		})
	}
}

func TestErrorData(t *testing.T) {
	requestData := &InvalidRequestData{
		URL:    "not-a-url",
		Reason: "missing scheme or host",
	}

	err := InvalidRequest("test error").WithData(requestData)

	if got := err.Data(); got != requestData {
		t.Errorf("Data() = %v, want %v", got, requestData)
	}
}

func TestErrorSerialization(t *testing.T) {
	err := NotConnected("call tool").
		WithContext(&Context{
			RequestID: "123",
			Tool:      "echo",
		}).
		WithDetail("Additional detail information")

	// Test ToJSON
	jsonData := err.ToJSON()
	if jsonData["code"] != CodeNotConnected {
		t.Errorf("ToJSON() code = %v, want %v", jsonData["code"], CodeNotConnected)
	}

	// Test JSON marshaling
	jsonBytes, err2 := json.Marshal(err)
	if err2 != nil {
		t.Fatalf("Failed to marshal error: %v", err2)
	}

	var unmarshaled map[string]interface{}
	if err2 := json.Unmarshal(jsonBytes, &unmarshaled); err2 != nil {
		t.Fatalf("Failed to unmarshal error: %v", err2)
	}

	if unmarshaled["code"] != float64(CodeNotConnected) {
		t.Errorf("Unmarshaled code = %v, want %v", unmarshaled["code"], CodeNotConnected)
	}
}

func TestInvalidRequestErrors(t *testing.T) {
	tests := []struct {
		name string
		err  MCPError
	}{
		{
			name: "relative url",
			err:  RelativeURL("/initialize"),
		},
		{
			name: "unsupported scheme",
			err:  UnsupportedScheme("ftp://example.com", "ftp"),
		},
		{
			name: "invalid config",
			err:  InvalidConfig("BaseURL", "must not be empty"),
		},
		{
			name: "invalid arguments",
			err:  InvalidArguments("echo", fmt.Errorf("missing property 'x'")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Category() != CategoryInvalidRequest {
				t.Errorf("Category() = %v, want %v", tt.err.Category(), CategoryInvalidRequest)
			}

			if tt.err.Data() == nil {
				t.Error("Data() should not be nil for invalid request errors")
			}

			if !IsInvalidRequest(tt.err) {
				t.Error("IsInvalidRequest() = false, want true")
			}
		})
	}
}

func TestStateErrors(t *testing.T) {
	tests := []struct {
		name string
		err  MCPError
		code int
	}{
		{
			name: "not connected",
			err:  NotConnected("call tool"),
			code: CodeNotConnected,
		},
		{
			name: "already connected",
			err:  AlreadyConnected("connect"),
			code: CodeAlreadyConnected,
		},
		{
			name: "client closed",
			err:  ClientClosed("call tool"),
			code: CodeClientClosed,
		},
		{
			name: "transport closed",
			err:  TransportClosed("send"),
			code: CodeTransportClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code() != tt.code {
				t.Errorf("Code() = %v, want %v", tt.err.Code(), tt.code)
			}
			if !IsStateError(tt.err) {
				t.Error("IsStateError() = false, want true")
			}
		})
	}
}

func TestTransportErrors(t *testing.T) {
	tests := []struct {
		name string
		err  MCPError
	}{
		{
			name: "send failed",
			err:  SendFailed("POST", "http://example.com/call", time.Second, fmt.Errorf("connection refused")),
		},
		{
			name: "response read failed",
			err:  ResponseReadFailed("POST", "http://example.com/call", fmt.Errorf("unexpected EOF")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Category() != CategoryTransport {
				t.Errorf("Category() = %v, want %v", tt.err.Category(), CategoryTransport)
			}

			if data := tt.err.Data(); data == nil {
				t.Error("Data() should not be nil for transport errors")
			}
		})
	}
}

func TestProtocolReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "invalid handshake",
			err:  InvalidHandshake("http://example.com", 200, nil),
			want: ReasonInvalidHandshake,
		},
		{
			name: "malformed response",
			err:  MalformedResponse("http://example.com/call", 200, fmt.Errorf("missing ok field")),
			want: ReasonMalformedResponse,
		},
		{
			name: "non-protocol error",
			err:  NotConnected("call tool"),
			want: "",
		},
		{
			name: "plain error",
			err:  fmt.Errorf("boring"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProtocolReason(tt.err); got != tt.want {
				t.Errorf("ProtocolReason() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConvertStandardError(t *testing.T) {
	t.Run("nil", func(t *testing.T) {
		if got := ConvertStandardError(nil); got != nil {
			t.Errorf("ConvertStandardError(nil) = %v, want nil", got)
		}
	})

	t.Run("already MCPError", func(t *testing.T) {
		orig := NotConnected("call tool")
		if got := ConvertStandardError(orig); got != orig {
			t.Errorf("ConvertStandardError() = %v, want original", got)
		}
	})

	t.Run("context canceled", func(t *testing.T) {
		got := ConvertStandardError(context.Canceled)
		if got.Category() != CategoryTransport {
			t.Errorf("Category() = %v, want %v", got.Category(), CategoryTransport)
		}
	})

	t.Run("json syntax error", func(t *testing.T) {
		var v interface{}
		jsonErr := json.Unmarshal([]byte("{bad"), &v)
		got := ConvertStandardError(jsonErr)
		if got.Category() != CategoryProtocol {
			t.Errorf("Category() = %v, want %v", got.Category(), CategoryProtocol)
		}
	})

	t.Run("unknown error", func(t *testing.T) {
		got := ConvertStandardError(fmt.Errorf("mystery"))
		if got.Code() != CodeInternalError {
			t.Errorf("Code() = %v, want %v", got.Code(), CodeInternalError)
		}
	})
}

func TestToolErrorCode(t *testing.T) {
	code, message := ToolErrorCode(InvalidArguments("echo", fmt.Errorf("missing x")))
	if code != "InvalidArguments" {
		t.Errorf("code = %q, want %q", code, "InvalidArguments")
	}
	if message == "" {
		t.Error("message should not be empty")
	}

	code, message = ToolErrorCode(fmt.Errorf("plain failure"))
	if code != "InternalError" {
		t.Errorf("code = %q, want %q", code, "InternalError")
	}
	if message != "plain failure" {
		t.Errorf("message = %q, want %q", message, "plain failure")
	}
}

func TestErrorCodeRegistry(t *testing.T) {
	for code, info := range errorCodeRegistry {
		if code != info.Code {
			t.Errorf("registry key %d does not match info code %d", code, info.Code)
		}
		if info.Name == "" {
			t.Errorf("code %d has empty name", code)
		}
	}

	if GetErrorCodeName(CodeSendFailed) != "SendFailed" {
		t.Errorf("GetErrorCodeName(CodeSendFailed) = %q", GetErrorCodeName(CodeSendFailed))
	}

	if GetErrorCodeName(-1) != "UnknownError" {
		t.Errorf("GetErrorCodeName(-1) = %q", GetErrorCodeName(-1))
	}

	if GetErrorCodeCategory(CodeMalformedResponse) != CategoryProtocol {
		t.Errorf("GetErrorCodeCategory(CodeMalformedResponse) = %v", GetErrorCodeCategory(CodeMalformedResponse))
	}

	if len(ListErrorCodes()) != len(errorCodeRegistry) {
		t.Error("ListErrorCodes() length mismatch")
	}
}
