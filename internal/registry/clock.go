package registry

import (
	"sync"
	"time"
)

// Clock supplies logical time as a monotonically advancing height, in the
// style of a block height. Timestamps and expiry comparisons use heights,
// never wall-clock time.
type Clock interface {
	Height() uint64
}

// ManualClock is a hand-advanced clock for tests and harnesses.
type ManualClock struct {
	mu     sync.Mutex
	height uint64
}

func NewManualClock(height uint64) *ManualClock {
	return &ManualClock{height: height}
}

func (c *ManualClock) Height() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height
}

// Advance moves the clock forward by n heights.
func (c *ManualClock) Advance(n uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.height += n
}

// IntervalClock derives height from elapsed wall time: one height per
// interval since start. It never goes backwards because time.Since is
// monotonic.
type IntervalClock struct {
	start    time.Time
	interval time.Duration
}

func NewIntervalClock(interval time.Duration) *IntervalClock {
	return &IntervalClock{start: time.Now(), interval: interval}
}

func (c *IntervalClock) Height() uint64 {
	return uint64(time.Since(c.start) / c.interval)
}
