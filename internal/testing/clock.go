package testing

import (
	"sync"
	"time"
)

// testEpoch is where every ManualClock starts. Sale schedules are plain unix
// seconds, so the exact date is arbitrary; a fixed one keeps subscription and
// expiration windows reproducible across runs.
var testEpoch = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

// ManualClock is an engine clock that only moves when the test says so.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock positioned at the test epoch.
func NewManualClock() *ManualClock {
	return &ManualClock{now: testEpoch}
}

// Now returns the clock's current reading.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set jumps the clock to an absolute instant.
func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
