package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	mcperrors "github.com/acai10/mcp-http-go/pkg/errors"
)

func newTestTransport(t *testing.T, baseURL string, opts ...HTTPTransportOption) *HTTPTransport {
	t.Helper()
	tr, err := NewHTTPTransport(DefaultConfig(baseURL), opts...)
	AssertNoError(t, err, "NewHTTPTransport")
	t.Cleanup(func() {
		_ = tr.Close()
	})
	return tr
}

func TestSendStatusPassthrough(t *testing.T) {
	// Non-2xx statuses are data, not errors
	for _, status := range []int{200, 204, 404, 500} {
		status := status
		t.Run(fmt.Sprintf("status_%d", status), func(t *testing.T) {
			backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
				_, _ = w.Write([]byte(`{"echo":true}`))
			}))
			defer backend.Close()

			tr := newTestTransport(t, backend.URL)
			resp, err := tr.Send(context.Background(), NewRequest(http.MethodPost, backend.URL+"/call", nil, []byte("{}")))
			AssertNoError(t, err, "Send")
			AssertEqual(t, status, resp.StatusCode, "status passthrough")
		})
	}
}

func TestSendReadsFullBody(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Backend", "test")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"value":42}}`))
	}))
	defer backend.Close()

	tr := newTestTransport(t, backend.URL)
	resp, err := tr.Send(context.Background(), NewRequest(http.MethodPost, backend.URL+"/call", nil, []byte("{}")))
	AssertNoError(t, err, "Send")
	AssertEqual(t, `{"ok":true,"result":{"value":42}}`, string(resp.Body), "body drained")
	AssertEqual(t, "test", resp.Headers.Get("X-Backend"), "response headers carried")
}

func TestSendMalformedURLNeverDials(t *testing.T) {
	dialer := NewCountingDialer()
	tr := newTestTransport(t, "http://localhost:1", WithConnectionFactory(dialer.Factory()))

	for _, raw := range []string{"http://[::1", "/relative/path", "ftp://example.com"} {
		_, err := tr.Send(context.Background(), NewRequest(http.MethodPost, raw, nil, nil))
		AssertError(t, err, "malformed URL "+raw)
		if !mcperrors.IsInvalidRequest(err) {
			t.Fatalf("expected invalid_request, got %v", err)
		}
	}
	AssertEqual(t, 0, dialer.Dials(), "no dial for invalid URLs")
}

func TestSendNilRequest(t *testing.T) {
	tr := newTestTransport(t, "http://localhost:1")
	_, err := tr.Send(context.Background(), nil)
	AssertError(t, err, "nil request")
	if !mcperrors.IsCode(err, mcperrors.CodeInvalidRequest) {
		t.Fatalf("expected invalid request code, got %v", err)
	}
}

func TestSendHeaderPrecedence(t *testing.T) {
	var (
		mu   sync.Mutex
		seen http.Header
	)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = r.Header.Clone()
		mu.Unlock()
		_, _ = w.Write([]byte("{}"))
	}))
	defer backend.Close()

	cfg := DefaultConfig(backend.URL)
	cfg.DefaultHeaders = map[string]string{
		"X-Default":      "from-config",
		"X-Overridden":   "from-config",
		"X-Empty-Header": "",
	}
	tr, err := NewHTTPTransport(cfg)
	AssertNoError(t, err, "NewHTTPTransport")
	defer func() {
		_ = tr.Close()
	}()

	req := NewRequest(http.MethodPost, backend.URL+"/call",
		map[string]string{"X-Overridden": "from-request"}, []byte("{}"))
	_, err = tr.Send(context.Background(), req)
	AssertNoError(t, err, "Send")

	mu.Lock()
	defer mu.Unlock()
	AssertEqual(t, "from-config", seen.Get("X-Default"), "default header applied")
	AssertEqual(t, "from-request", seen.Get("X-Overridden"), "per-request header wins")
	AssertEqual(t, "", seen.Get("X-Empty-Header"), "empty header values skipped")
}

func TestSendNetworkFailure(t *testing.T) {
	// A backend that is stopped before the request refuses the connection
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := backend.URL
	backend.Close()

	tr := newTestTransport(t, url)
	_, err := tr.Send(context.Background(), NewRequest(http.MethodPost, url+"/call", nil, []byte("{}")))
	AssertError(t, err, "refused connection")
	if !mcperrors.IsTransportError(err) {
		t.Fatalf("expected transport category, got %v", err)
	}
	if !mcperrors.IsCode(err, mcperrors.CodeSendFailed) {
		t.Fatalf("expected send failed code, got %v", err)
	}
}

func TestSendConfigTimeout(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body before parking; the request context is only
		// cancelled on client disconnect once the body is consumed.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer backend.Close()

	cfg := DefaultConfig(backend.URL)
	cfg.Timeout = 50 * time.Millisecond
	tr, err := NewHTTPTransport(cfg)
	AssertNoError(t, err, "NewHTTPTransport")
	defer func() {
		_ = tr.Close()
	}()

	start := time.Now()
	_, err = tr.Send(context.Background(), NewRequest(http.MethodPost, backend.URL+"/call", nil, []byte("{}")))
	AssertError(t, err, "timed-out exchange")
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeout did not bound the exchange, took %s", elapsed)
	}
	if !mcperrors.IsTransportError(err) {
		t.Fatalf("expected transport category, got %v", err)
	}
}

func TestSendCancellationLeaksNoConnections(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer backend.Close()

	dialer := NewCountingDialer()
	tr := newTestTransport(t, backend.URL, WithConnectionFactory(dialer.Factory()))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := tr.Send(ctx, NewRequest(http.MethodPost, backend.URL+"/call", nil, []byte("{}")))
	AssertError(t, err, "cancelled exchange")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cause to survive wrapping, got %v", err)
	}
	if !mcperrors.IsTransportError(err) {
		t.Fatalf("expected transport category, got %v", err)
	}

	AssertNoError(t, tr.Close(), "Close")
	WaitForCondition(t, 2*time.Second, func() bool {
		return dialer.OpenConns() == 0
	}, "all connections released after cancellation")
}

func TestOpenIdempotent(t *testing.T) {
	dialer := NewCountingDialer()
	tr := newTestTransport(t, "http://localhost:1", WithConnectionFactory(dialer.Factory()))

	ctx := context.Background()
	AssertNoError(t, tr.Open(ctx), "first Open")
	AssertNoError(t, tr.Open(ctx), "second Open")
	AssertEqual(t, 0, dialer.Dials(), "Open performs no network I/O")
}

func TestOpenAfterCloseFails(t *testing.T) {
	tr := newTestTransport(t, "http://localhost:1")
	AssertNoError(t, tr.Close(), "Close")

	err := tr.Open(context.Background())
	AssertError(t, err, "Open after Close")
	if !mcperrors.IsCode(err, mcperrors.CodeTransportClosed) {
		t.Fatalf("expected transport closed code, got %v", err)
	}
}

func TestOpenFactoryFailure(t *testing.T) {
	tr := newTestTransport(t, "http://localhost:1", WithConnectionFactory(
		func(cfg Config) (*http.Client, error) {
			return nil, fmt.Errorf("no file descriptors left")
		},
	))

	err := tr.Open(context.Background())
	AssertError(t, err, "factory failure")
	if !mcperrors.IsConnectionError(err) {
		t.Fatalf("expected connection category, got %v", err)
	}

	// Send surfaces the same failure through its lazy open
	_, err = tr.Send(context.Background(), NewRequest(http.MethodPost, "http://localhost:1/call", nil, nil))
	AssertError(t, err, "Send after factory failure")
	if !mcperrors.IsConnectionError(err) {
		t.Fatalf("expected connection category, got %v", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	tr := newTestTransport(t, "http://localhost:1")
	AssertNoError(t, tr.Open(context.Background()), "Open")
	AssertNoError(t, tr.Close(), "first Close")
	AssertNoError(t, tr.Close(), "second Close")
}

func TestSendAfterClose(t *testing.T) {
	tr := newTestTransport(t, "http://localhost:1")
	AssertNoError(t, tr.Close(), "Close")

	_, err := tr.Send(context.Background(), NewRequest(http.MethodPost, "http://localhost:1/call", nil, nil))
	AssertError(t, err, "Send after Close")
	if !mcperrors.IsStateError(err) {
		t.Fatalf("expected state category, got %v", err)
	}
}

func TestConcurrentSends(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{}"))
	}))
	defer backend.Close()

	tr := newTestTransport(t, backend.URL)

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := tr.Send(context.Background(), NewRequest(http.MethodPost, backend.URL+"/call", nil, []byte("{}")))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		AssertNoError(t, err, "concurrent Send")
	}
}
