// Package observability provides metrics and tracing for the MCP HTTP
// client. Providers are injected where needed; nothing here is wired into
// the core unless the caller asks for it.
package observability

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configures the metrics provider
type MetricsConfig struct {
	// Service identification
	ServiceName    string
	ServiceVersion string
	Environment    string

	// Prometheus namespace and subsystem (defaults: mcp_client, "")
	Namespace string
	Subsystem string

	// HistogramBuckets for exchange latency, in milliseconds
	HistogramBuckets []float64

	// Labels added to all metrics
	ConstLabels prometheus.Labels

	// Registry to register into. Defaults to prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsProvider records what the transport and client layers observe
type MetricsProvider interface {
	// RecordExchange records one completed HTTP exchange
	RecordExchange(method, path, status string, duration time.Duration)

	// RecordExchangeError records a transport-level failure
	RecordExchangeError(method, path string)

	// AddInFlight tracks exchanges currently on the wire
	AddInFlight(delta int)

	// RecordToolCall records one protocol-level tool invocation
	RecordToolCall(tool, outcome string, duration time.Duration)

	// RecordSessionState tracks connected sessions
	RecordSessionState(delta int)

	// Handler exposes the metrics endpoint
	Handler() http.Handler
}

// PrometheusMetricsProvider implements MetricsProvider using Prometheus
type PrometheusMetricsProvider struct {
	config   MetricsConfig
	registry prometheus.Registerer
	gatherer prometheus.Gatherer

	exchangeDuration *prometheus.HistogramVec
	exchangeTotal    *prometheus.CounterVec
	exchangeErrors   *prometheus.CounterVec
	inFlight         prometheus.Gauge
	toolCallDuration *prometheus.HistogramVec
	toolCallTotal    *prometheus.CounterVec
	activeSessions   prometheus.Gauge

	mu sync.Mutex
}

// NewMetricsProvider creates a Prometheus metrics provider
func NewMetricsProvider(config MetricsConfig) (*PrometheusMetricsProvider, error) {
	if config.Namespace == "" {
		config.Namespace = "mcp_client"
	}
	if config.HistogramBuckets == nil {
		// Default buckets in milliseconds
		config.HistogramBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}
	}
	if config.ConstLabels == nil {
		config.ConstLabels = prometheus.Labels{}
	}
	if config.ServiceName != "" {
		config.ConstLabels["service"] = config.ServiceName
	}
	if config.ServiceVersion != "" {
		config.ConstLabels["version"] = config.ServiceVersion
	}
	if config.Environment != "" {
		config.ConstLabels["environment"] = config.Environment
	}

	registry := config.Registry
	gatherer := prometheus.Gatherer(prometheus.DefaultGatherer)
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	} else if r, ok := registry.(*prometheus.Registry); ok {
		gatherer = r
	}

	p := &PrometheusMetricsProvider{
		config:   config,
		registry: registry,
		gatherer: gatherer,
	}
	p.initializeMetrics()

	if err := p.registerMetrics(); err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	return p, nil
}

func (p *PrometheusMetricsProvider) initializeMetrics() {
	p.exchangeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "exchange_duration_milliseconds",
			Help:        "Duration of HTTP exchanges in milliseconds",
			Buckets:     p.config.HistogramBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"method", "path", "status"},
	)

	p.exchangeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "exchange_total",
			Help:        "Total number of HTTP exchanges",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"method", "path", "status"},
	)

	p.exchangeErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "exchange_errors_total",
			Help:        "Total number of transport-level failures",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"method", "path"},
	)

	p.inFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "exchanges_in_flight",
			Help:        "Number of HTTP exchanges currently on the wire",
			ConstLabels: p.config.ConstLabels,
		},
	)

	p.toolCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "tool_call_duration_milliseconds",
			Help:        "Duration of tool calls in milliseconds",
			Buckets:     p.config.HistogramBuckets,
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"tool", "outcome"},
	)

	p.toolCallTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "tool_call_total",
			Help:        "Total number of tool calls",
			ConstLabels: p.config.ConstLabels,
		},
		[]string{"tool", "outcome"},
	)

	p.activeSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   p.config.Namespace,
			Subsystem:   p.config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of connected sessions",
			ConstLabels: p.config.ConstLabels,
		},
	)
}

func (p *PrometheusMetricsProvider) registerMetrics() error {
	collectors := []prometheus.Collector{
		p.exchangeDuration,
		p.exchangeTotal,
		p.exchangeErrors,
		p.inFlight,
		p.toolCallDuration,
		p.toolCallTotal,
		p.activeSessions,
	}

	for _, c := range collectors {
		if err := p.registry.Register(c); err != nil {
			// Tolerate duplicate registration so two providers on the
			// default registry do not fail hard
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// RecordExchange records one completed HTTP exchange
func (p *PrometheusMetricsProvider) RecordExchange(method, path, status string, duration time.Duration) {
	ms := float64(duration.Nanoseconds()) / 1e6
	p.exchangeDuration.WithLabelValues(method, path, status).Observe(ms)
	p.exchangeTotal.WithLabelValues(method, path, status).Inc()
}

// RecordExchangeError records a transport-level failure
func (p *PrometheusMetricsProvider) RecordExchangeError(method, path string) {
	p.exchangeErrors.WithLabelValues(method, path).Inc()
}

// AddInFlight tracks exchanges currently on the wire
func (p *PrometheusMetricsProvider) AddInFlight(delta int) {
	p.inFlight.Add(float64(delta))
}

// RecordToolCall records one protocol-level tool invocation
func (p *PrometheusMetricsProvider) RecordToolCall(tool, outcome string, duration time.Duration) {
	ms := float64(duration.Nanoseconds()) / 1e6
	p.toolCallDuration.WithLabelValues(tool, outcome).Observe(ms)
	p.toolCallTotal.WithLabelValues(tool, outcome).Inc()
}

// RecordSessionState tracks connected sessions
func (p *PrometheusMetricsProvider) RecordSessionState(delta int) {
	p.activeSessions.Add(float64(delta))
}

// Handler exposes the metrics endpoint for an HTTP server
func (p *PrometheusMetricsProvider) Handler() http.Handler {
	return promhttp.HandlerFor(p.gatherer, promhttp.HandlerOpts{})
}
