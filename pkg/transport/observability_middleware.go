package transport

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/acai10/mcp-http-go/pkg/logging"
	"github.com/acai10/mcp-http-go/pkg/observability"
)

// MetricsMiddleware records exchange counts, durations, in-flight gauge and
// transport failures into an injected metrics provider
type MetricsMiddleware struct {
	provider observability.MetricsProvider
}

// NewMetricsMiddleware creates metrics middleware backed by provider
func NewMetricsMiddleware(provider observability.MetricsProvider) Middleware {
	return &MetricsMiddleware{provider: provider}
}

// Wrap implements the Middleware interface
func (mm *MetricsMiddleware) Wrap(transport Transport) Transport {
	return &metricsTransport{
		middlewareTransport: middlewareTransport{next: transport},
		provider:            mm.provider,
	}
}

type metricsTransport struct {
	middlewareTransport
	provider observability.MetricsProvider
}

func (mt *metricsTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	path := requestPath(req)

	mt.provider.AddInFlight(1)
	start := time.Now()

	resp, err := mt.middlewareTransport.Send(ctx, req)

	duration := time.Since(start)
	mt.provider.AddInFlight(-1)

	if err != nil {
		mt.provider.RecordExchangeError(req.Method, path)
		mt.provider.RecordExchange(req.Method, path, "error", duration)
		return nil, err
	}

	mt.provider.RecordExchange(req.Method, path, strconv.Itoa(resp.StatusCode), duration)
	return resp, nil
}

// LoggingMiddleware logs each exchange at info level. The HTTP transport
// itself logs at debug; this layer is for wrapping transports whose inner
// logging is silenced or absent.
type LoggingMiddleware struct {
	logger logging.Logger
}

// NewLoggingMiddleware creates logging middleware using logger
func NewLoggingMiddleware(logger logging.Logger) Middleware {
	return &LoggingMiddleware{logger: logger}
}

// Wrap implements the Middleware interface
func (lm *LoggingMiddleware) Wrap(transport Transport) Transport {
	return &loggingTransport{
		middlewareTransport: middlewareTransport{next: transport},
		logger:              lm.logger,
	}
}

type loggingTransport struct {
	middlewareTransport
	logger logging.Logger
}

func (lt *loggingTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	lt.logger.Info("exchange started",
		logging.String("method", req.Method),
		logging.String("url", req.URL),
	)

	start := time.Now()
	resp, err := lt.middlewareTransport.Send(ctx, req)
	duration := time.Since(start)

	if err != nil {
		lt.logger.Error("exchange failed",
			logging.String("method", req.Method),
			logging.String("url", req.URL),
			logging.Duration("duration", duration),
			logging.ErrorField(err),
		)
		return nil, err
	}

	lt.logger.Info("exchange completed",
		logging.String("method", req.Method),
		logging.String("url", req.URL),
		logging.Int("status", resp.StatusCode),
		logging.Duration("duration", duration),
	)
	return resp, nil
}

// TracingMiddleware creates one client span per exchange
type TracingMiddleware struct {
	provider *observability.TracingProvider
}

// NewTracingMiddleware creates tracing middleware backed by provider
func NewTracingMiddleware(provider *observability.TracingProvider) Middleware {
	return &TracingMiddleware{provider: provider}
}

// Wrap implements the Middleware interface
func (tm *TracingMiddleware) Wrap(transport Transport) Transport {
	return &tracingTransport{
		middlewareTransport: middlewareTransport{next: transport},
		provider:            tm.provider,
	}
}

type tracingTransport struct {
	middlewareTransport
	provider *observability.TracingProvider
}

func (tt *tracingTransport) Send(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := tt.provider.StartExchangeSpan(ctx, req.Method, req.URL)
	defer span.End()

	resp, err := tt.middlewareTransport.Send(ctx, req)
	if err != nil {
		tt.provider.RecordError(ctx, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	return resp, nil
}

// requestPath extracts the URL path for metric labels; the full URL would
// explode label cardinality
func requestPath(req *Request) string {
	u, err := url.Parse(req.URL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
