// Package benchmarks provides performance and load testing for the MCP
// HTTP client.
package benchmarks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/acai10/mcp-http-go/pkg/client"
	"github.com/acai10/mcp-http-go/pkg/transport"
)

// LoadTestConfig configures load testing parameters
type LoadTestConfig struct {
	// Endpoint is the base URL of the backend under test
	Endpoint string

	// Clients is the number of concurrent sessions
	Clients int

	// CallsPerClient is the number of tool calls each session performs
	CallsPerClient int

	// Tool is the tool every call invokes
	Tool string

	// Arguments passed on every call
	Arguments map[string]interface{}

	// Timeout bounds each exchange; zero means unbounded
	Timeout time.Duration
}

// DefaultLoadTestConfig returns a config suitable for a quick local run
func DefaultLoadTestConfig(endpoint string) LoadTestConfig {
	return LoadTestConfig{
		Endpoint:       endpoint,
		Clients:        10,
		CallsPerClient: 100,
		Tool:           "echo",
		Arguments:      map[string]interface{}{"x": 1},
		Timeout:        10 * time.Second,
	}
}

// LoadTestResult summarizes one load test run
type LoadTestResult struct {
	Calls      int
	ToolErrors int
	Failures   int
	Elapsed    time.Duration

	MinLatency time.Duration
	MaxLatency time.Duration
	AvgLatency time.Duration
	P50Latency time.Duration
	P95Latency time.Duration
	P99Latency time.Duration
}

// Throughput returns calls per second
func (r *LoadTestResult) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Calls) / r.Elapsed.Seconds()
}

// String renders a one-run summary
func (r *LoadTestResult) String() string {
	return fmt.Sprintf(
		"calls=%d toolErrors=%d failures=%d elapsed=%s throughput=%.1f/s avg=%s p50=%s p95=%s p99=%s max=%s",
		r.Calls, r.ToolErrors, r.Failures, r.Elapsed.Round(time.Millisecond),
		r.Throughput(), r.AvgLatency.Round(time.Microsecond),
		r.P50Latency.Round(time.Microsecond), r.P95Latency.Round(time.Microsecond),
		r.P99Latency.Round(time.Microsecond), r.MaxLatency.Round(time.Microsecond),
	)
}

// RunLoadTest fans out cfg.Clients independent sessions, each performing
// cfg.CallsPerClient tool calls, and aggregates latency statistics.
func RunLoadTest(ctx context.Context, cfg LoadTestConfig) (*LoadTestResult, error) {
	var (
		mu        sync.Mutex
		latencies []time.Duration

		calls      int64
		toolErrors int64
		failures   int64
	)

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)

	for i := 0; i < cfg.Clients; i++ {
		g.Go(func() error {
			tcfg := transport.DefaultConfig(cfg.Endpoint)
			tcfg.Timeout = cfg.Timeout

			c, err := client.New(tcfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = c.Close()
			}()

			if err := c.Connect(ctx); err != nil {
				return err
			}

			local := make([]time.Duration, 0, cfg.CallsPerClient)
			for j := 0; j < cfg.CallsPerClient; j++ {
				callStart := time.Now()
				result, err := c.CallTool(ctx, cfg.Tool, cfg.Arguments)
				elapsed := time.Since(callStart)

				atomic.AddInt64(&calls, 1)
				if err != nil {
					atomic.AddInt64(&failures, 1)
					continue
				}
				if result.IsErr() {
					atomic.AddInt64(&toolErrors, 1)
				}
				local = append(local, elapsed)
			}

			mu.Lock()
			latencies = append(latencies, local...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &LoadTestResult{
		Calls:      int(calls),
		ToolErrors: int(toolErrors),
		Failures:   int(failures),
		Elapsed:    time.Since(start),
	}
	summarize(result, latencies)
	return result, nil
}

func summarize(result *LoadTestResult, latencies []time.Duration) {
	if len(latencies) == 0 {
		return
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var total time.Duration
	for _, l := range latencies {
		total += l
	}

	result.MinLatency = latencies[0]
	result.MaxLatency = latencies[len(latencies)-1]
	result.AvgLatency = total / time.Duration(len(latencies))
	result.P50Latency = percentile(latencies, 0.50)
	result.P95Latency = percentile(latencies, 0.95)
	result.P99Latency = percentile(latencies, 0.99)
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)-1))
	return sorted[idx]
}
