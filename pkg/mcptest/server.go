// Package mcptest provides an in-process backend speaking the MCP HTTP
// wire protocol (/initialize, /tools, /call, /close). Tests, examples and
// benchmarks run the real client against it: it keeps a tool registry,
// issues session tokens, captures every request, and injects faults on
// demand. It is test infrastructure, not a product server.
package mcptest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/google/uuid"

	mcperrors "github.com/acai10/mcp-http-go/pkg/errors"
	"github.com/acai10/mcp-http-go/pkg/protocol"
	"github.com/acai10/mcp-http-go/pkg/transport"
)

// ToolHandler executes one registered tool. Returning an error produces an
// ok=false envelope; the returned value otherwise becomes the payload.
type ToolHandler func(args map[string]interface{}) (interface{}, error)

// CapturedRequest is one request the server observed
type CapturedRequest struct {
	Method  string
	Path    string
	Headers http.Header
	Body    []byte
}

// Override replaces the normal handling of one path
type Override struct {
	// StatusCode and Body are written verbatim when neither Hang nor Drop
	// is set
	StatusCode int
	Body       []byte

	// Hang blocks the handler until the client gives up
	Hang bool

	// Drop severs the connection without writing a response
	Drop bool
}

type registeredTool struct {
	tool    protocol.Tool
	handler ToolHandler
}

// Server is the in-process backend
type Server struct {
	server        *httptest.Server
	sessionHeader string

	mu        sync.Mutex
	tools     []registeredTool
	sessions  map[string]bool
	captured  []CapturedRequest
	overrides map[string]*Override
}

// NewServer starts an in-process backend
func NewServer() *Server {
	s := &Server{
		sessionHeader: transport.DefaultSessionTokenHeader,
		sessions:      make(map[string]bool),
		overrides:     make(map[string]*Override),
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// URL returns the server's base URL
func (s *Server) URL() string {
	return s.server.URL
}

// Close shuts the server down
func (s *Server) Close() {
	s.server.Close()
}

// SetSessionTokenHeader changes the header the server expects the session
// token in. Defaults to the transport default.
func (s *Server) SetSessionTokenHeader(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessionHeader = name
}

// RegisterTool adds a tool to the registry
func (s *Server) RegisterTool(name, description string, inputSchema json.RawMessage, handler ToolHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tools = append(s.tools, registeredTool{
		tool: protocol.Tool{
			Name:        name,
			Description: description,
			InputSchema: inputSchema,
		},
		handler: handler,
	})
}

// SetOverride replaces the handling of one path until cleared
func (s *Server) SetOverride(path string, o *Override) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[path] = o
}

// ClearOverride restores normal handling of one path
func (s *Server) ClearOverride(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.overrides, path)
}

// CapturedRequests returns a copy of every request observed so far
func (s *Server) CapturedRequests() []CapturedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CapturedRequest, len(s.captured))
	copy(out, s.captured)
	return out
}

// RequestCount returns how many requests hit the given path
func (s *Server) RequestCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.captured {
		if r.Path == path {
			n++
		}
	}
	return n
}

// SessionCount returns the number of live sessions
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.captured = append(s.captured, CapturedRequest{
		Method:  r.Method,
		Path:    r.URL.Path,
		Headers: r.Header.Clone(),
		Body:    body,
	})
	override := s.overrides[r.URL.Path]
	s.mu.Unlock()

	if override != nil {
		if override.Hang {
			<-r.Context().Done()
			return
		}
		if override.Drop {
			if hj, ok := w.(http.Hijacker); ok {
				if conn, _, err := hj.Hijack(); err == nil {
					_ = conn.Close()
				}
			}
			return
		}
		if override.StatusCode > 0 {
			w.WriteHeader(override.StatusCode)
		}
		if override.Body != nil {
			_, _ = w.Write(override.Body)
		}
		return
	}

	switch r.URL.Path {
	case protocol.PathInitialize:
		s.handleInitialize(w)
	case protocol.PathCall:
		s.handleCall(w, r, body)
	case protocol.PathTools:
		s.handleTools(w, r, body)
	case protocol.PathClose:
		s.handleClose(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleInitialize(w http.ResponseWriter) {
	sessionID := uuid.NewString()
	s.mu.Lock()
	s.sessions[sessionID] = true
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, protocol.InitializeResult{SessionID: sessionID})
}

// validSession checks the session header and reports the token it carried
func (s *Server) validSession(r *http.Request) (string, bool) {
	s.mu.Lock()
	header := s.sessionHeader
	s.mu.Unlock()

	token := r.Header.Get(header)
	if token == "" {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return token, s.sessions[token]
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request, body []byte) {
	if _, ok := s.validSession(r); !ok {
		writeEnvelopeError(w, http.StatusUnauthorized, "invalid_session", "missing or unknown session token")
		return
	}

	var call protocol.ToolCall
	if err := json.Unmarshal(body, &call); err != nil {
		writeEnvelopeError(w, http.StatusBadRequest, "invalid_call", "call body is not valid JSON")
		return
	}

	s.mu.Lock()
	var handler ToolHandler
	for _, rt := range s.tools {
		if rt.tool.Name == call.Name {
			handler = rt.handler
			break
		}
	}
	s.mu.Unlock()

	if handler == nil {
		writeEnvelopeError(w, http.StatusOK, "tool_not_found", "no tool named "+call.Name)
		return
	}

	result, err := handler(call.Arguments)
	if err != nil {
		code, message := mcperrors.ToolErrorCode(err)
		writeEnvelopeError(w, http.StatusOK, code, message)
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		writeEnvelopeError(w, http.StatusOK, "encode_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":     true,
		"result": json.RawMessage(payload),
	})
}

func (s *Server) handleTools(w http.ResponseWriter, r *http.Request, body []byte) {
	if _, ok := s.validSession(r); !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing or unknown session token"})
		return
	}

	var params protocol.ListToolsParams
	if len(body) > 0 {
		if err := json.Unmarshal(body, &params); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tools body is not valid JSON"})
			return
		}
	}

	offset := 0
	if params.Cursor != "" {
		n, err := strconv.Atoi(params.Cursor)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid cursor"})
			return
		}
		offset = n
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	s.mu.Lock()
	all := make([]protocol.Tool, 0, len(s.tools))
	for _, rt := range s.tools {
		all = append(all, rt.tool)
	}
	s.mu.Unlock()

	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	result := protocol.ListToolsResult{
		Tools:   all[offset:end],
		HasMore: end < len(all),
	}
	if result.HasMore {
		result.NextCursor = strconv.Itoa(end)
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	token, _ := s.validSession(r)
	if token != "" {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
	}
	writeJSON(w, http.StatusOK, map[string]bool{"closed": true})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", protocol.ContentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeEnvelopeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"ok": false,
		"error": protocol.ToolError{
			Code:    code,
			Message: message,
		},
	})
}
