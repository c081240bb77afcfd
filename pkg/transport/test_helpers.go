package transport

import (
	"context"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"
)

// CountingDialer wraps net.Dialer to record every dial attempt and every
// connection still open. Tests use it to prove that invalid requests never
// reach the network and that cancelled exchanges leak no connections.
type CountingDialer struct {
	mu        sync.Mutex
	dials     int
	openConns map[*trackedConn]struct{}
}

// NewCountingDialer creates a dialer that records dial attempts
func NewCountingDialer() *CountingDialer {
	return &CountingDialer{
		openConns: make(map[*trackedConn]struct{}),
	}
}

// DialContext dials and tracks the resulting connection
func (d *CountingDialer) DialContext(ctx context.Context, network, addr string) (net.Conn, error) {
	d.mu.Lock()
	d.dials++
	d.mu.Unlock()

	dialer := &net.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tc := &trackedConn{Conn: conn, dialer: d}
	d.mu.Lock()
	d.openConns[tc] = struct{}{}
	d.mu.Unlock()
	return tc, nil
}

// Dials returns the number of dial attempts recorded
func (d *CountingDialer) Dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dials
}

// OpenConns returns the number of connections not yet closed
func (d *CountingDialer) OpenConns() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.openConns)
}

// Factory returns a ConnectionFactory whose pooled client dials through
// this dialer
func (d *CountingDialer) Factory() ConnectionFactory {
	return func(cfg Config) (*http.Client, error) {
		return &http.Client{
			Transport: &http.Transport{
				DialContext:     d.DialContext,
				MaxIdleConns:    10,
				IdleConnTimeout: 30 * time.Second,
			},
		}, nil
	}
}

type trackedConn struct {
	net.Conn
	dialer *CountingDialer
	once   sync.Once
}

func (c *trackedConn) Close() error {
	c.once.Do(func() {
		c.dialer.mu.Lock()
		delete(c.dialer.openConns, c)
		c.dialer.mu.Unlock()
	})
	return c.Conn.Close()
}

// WaitForCondition waits for a condition to be true or times out
func WaitForCondition(t *testing.T, timeout time.Duration, check func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Timeout waiting for condition: %s", msg)
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: %v", msg, err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error but got nil", msg)
	}
}

// AssertEqual fails the test if expected != actual
func AssertEqual(t *testing.T, expected, actual interface{}, msg string) {
	t.Helper()
	if expected != actual {
		t.Fatalf("%s: expected %v, got %v", msg, expected, actual)
	}
}
