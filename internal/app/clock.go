package app

import (
	"sync"
	"time"
)

// Clock ticks every interval and fires onBoundary each time a full period elapses.
// It is a disposable handle: Start once, Stop any number of times.
type Clock struct {
	interval   time.Duration
	period     time.Duration
	now        func() time.Time
	onBoundary func(time.Time)

	mu           sync.Mutex
	remaining    time.Duration
	lastBoundary time.Time
	running      bool
	stopped      bool
	stop         chan struct{}
}

// NewClock builds a stopped clock. onBoundary is invoked from the clock goroutine
// without any clock lock held.
func NewClock(interval, period time.Duration, now func() time.Time, onBoundary func(time.Time)) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{
		interval:   interval,
		period:     period,
		now:        now,
		onBoundary: onBoundary,
		remaining:  period,
		stop:       make(chan struct{}),
	}
}

// Start launches the tick loop. Starting a running or stopped clock is a no-op.
func (c *Clock) Start() {
	c.mu.Lock()
	if c.running || c.stopped {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.remaining = c.period
	c.mu.Unlock()

	go c.loop()
}

// Stop cancels pending ticks. It never blocks, so it is safe to call from onBoundary.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	c.running = false
	close(c.stop)
}

// Remaining reports the time left in the current period.
func (c *Clock) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Clock) loop() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.tick(c.now())
		}
	}
}

// tick advances the clock by one interval.
func (c *Clock) tick(now time.Time) {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.remaining -= c.interval
	if c.remaining > 0 {
		c.mu.Unlock()
		return
	}
	c.remaining = c.period
	// A boundary re-delivered within one interval of the last one is the same boundary.
	if !c.lastBoundary.IsZero() && now.Sub(c.lastBoundary) < c.interval {
		c.mu.Unlock()
		return
	}
	c.lastBoundary = now
	fire := c.onBoundary
	c.mu.Unlock()

	if fire != nil {
		fire(now)
	}
}
