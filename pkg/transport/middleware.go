package transport

import (
	"context"
)

// Middleware wraps a Transport to add functionality around each exchange,
// e.g. metrics, logging, or tracing.
type Middleware interface {
	// Wrap wraps the given transport with middleware functionality
	Wrap(transport Transport) Transport
}

// MiddlewareFunc is an adapter to allow ordinary functions as middleware
type MiddlewareFunc func(Transport) Transport

// Wrap implements the Middleware interface
func (f MiddlewareFunc) Wrap(t Transport) Transport {
	return f(t)
}

// ChainMiddleware chains multiple middleware together. The first middleware
// in the list becomes the outermost layer.
func ChainMiddleware(middleware ...Middleware) Middleware {
	return MiddlewareFunc(func(transport Transport) Transport {
		for i := len(middleware) - 1; i >= 0; i-- {
			transport = middleware[i].Wrap(transport)
		}
		return transport
	})
}

// middlewareTransport is a base type for middleware implementations; it
// delegates everything to the wrapped transport
type middlewareTransport struct {
	next Transport
}

// Open delegates to the wrapped transport
func (m *middlewareTransport) Open(ctx context.Context) error {
	return m.next.Open(ctx)
}

// Send delegates to the wrapped transport
func (m *middlewareTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	return m.next.Send(ctx, req)
}

// Close delegates to the wrapped transport
func (m *middlewareTransport) Close() error {
	return m.next.Close()
}
