// Package utils provides shared test infrastructure.
package utils

import (
	"runtime"
	"testing"
	"time"
)

// GoroutineLeakDetector asserts that a block of test work leaves no
// goroutines behind. Start samples the baseline, Check compares against it
// after the work ran; a count above the allowed growth fails the test and
// dumps all stacks.
type GoroutineLeakDetector struct {
	t             *testing.T
	baseline      int
	allowedGrowth int
	settle        time.Duration
	resample      time.Duration
}

// NewGoroutineLeakDetector creates a detector reporting into t
func NewGoroutineLeakDetector(t *testing.T) *GoroutineLeakDetector {
	return &GoroutineLeakDetector{
		t:        t,
		settle:   200 * time.Millisecond,
		resample: 100 * time.Millisecond,
	}
}

// SetAllowedGrowth permits n extra goroutines at Check time, e.g. for
// pooled connections still winding down
func (d *GoroutineLeakDetector) SetAllowedGrowth(n int) *GoroutineLeakDetector {
	d.allowedGrowth = n
	return d
}

// SetStabilizeDelay overrides how long the detector waits for goroutines
// to settle before sampling
func (d *GoroutineLeakDetector) SetStabilizeDelay(delay time.Duration) *GoroutineLeakDetector {
	d.settle = delay
	return d
}

// Start records the baseline goroutine count
func (d *GoroutineLeakDetector) Start() {
	time.Sleep(d.settle)
	d.baseline = runtime.NumGoroutine()
	d.t.Logf("goroutine baseline: %d", d.baseline)
}

// Check fails the test when more goroutines than allowed survived since
// Start. The count is sampled a few times and the lowest reading wins, so
// goroutines mid-teardown do not produce false positives.
func (d *GoroutineLeakDetector) Check() {
	time.Sleep(d.settle)

	lowest := runtime.NumGoroutine()
	for i := 0; i < 2; i++ {
		time.Sleep(d.resample)
		if n := runtime.NumGoroutine(); n < lowest {
			lowest = n
		}
	}

	leaked := lowest - d.baseline
	if leaked <= d.allowedGrowth {
		d.t.Logf("no goroutine leak: baseline %d, now %d", d.baseline, lowest)
		return
	}

	d.t.Errorf("goroutine leak: baseline %d, now %d (leaked %d, allowed %d)",
		d.baseline, lowest, leaked, d.allowedGrowth)

	buf := make([]byte, 1<<20)
	n := runtime.Stack(buf, true)
	d.t.Logf("goroutine stacks:\n%s", buf[:n])
}
