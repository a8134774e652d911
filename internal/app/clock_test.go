package app

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boundaryRecorder struct {
	mu    sync.Mutex
	fired []time.Time
}

func (r *boundaryRecorder) record(at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired = append(r.fired, at)
}

func (r *boundaryRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.fired)
}

// manualClock returns a clock marked running without its tick loop.
func manualClock(interval, period time.Duration, rec *boundaryRecorder) *Clock {
	c := NewClock(interval, period, time.Now, rec.record)
	c.running = true
	return c
}

func TestClockFiresOncePerPeriod(t *testing.T) {
	rec := &boundaryRecorder{}
	c := manualClock(100*time.Millisecond, 3*time.Second, rec)
	base := time.Unix(1000, 0)

	for i := 1; i <= 30; i++ {
		c.tick(base.Add(time.Duration(i) * 100 * time.Millisecond))
		if i < 30 {
			assert.Equal(t, 3*time.Second-time.Duration(i)*100*time.Millisecond, c.Remaining())
		}
	}
	assert.Equal(t, 1, rec.count())
	assert.Equal(t, 3*time.Second, c.Remaining(), "remaining resets to the full period")

	for i := 31; i <= 60; i++ {
		c.tick(base.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	assert.Equal(t, 2, rec.count())
}

func TestClockRejectsRedeliveredBoundary(t *testing.T) {
	rec := &boundaryRecorder{}
	c := manualClock(100*time.Millisecond, 100*time.Millisecond, rec)
	base := time.Unix(2000, 0)

	c.tick(base)
	c.tick(base.Add(10 * time.Millisecond))
	c.tick(base.Add(99 * time.Millisecond))
	assert.Equal(t, 1, rec.count(), "boundaries within one interval are the same boundary")

	c.tick(base.Add(100 * time.Millisecond))
	assert.Equal(t, 2, rec.count())
}

func TestClockStopIsIdempotentAndSilences(t *testing.T) {
	rec := &boundaryRecorder{}
	c := manualClock(100*time.Millisecond, 100*time.Millisecond, rec)

	c.Stop()
	c.Stop()
	c.tick(time.Now())
	assert.Equal(t, 0, rec.count())

	c.Start()
	c.tick(time.Now().Add(time.Second))
	assert.Equal(t, 0, rec.count(), "a stopped clock cannot be restarted")
}

func TestClockRunsInRealTime(t *testing.T) {
	var fired atomic.Int32
	c := NewClock(time.Millisecond, 3*time.Millisecond, nil, func(time.Time) {
		fired.Add(1)
	})
	c.Start()
	require.Eventually(t, func() bool { return fired.Load() >= 3 }, 2*time.Second, time.Millisecond)

	c.Stop()
	after := fired.Load()
	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, fired.Load(), after+1, "at most an in-flight boundary lands after stop")
}
