package monitoring

import (
	"sync"
	"time"

	"github.com/banshee-data/posefuse/internal/timeutil"
)

// Throttle suppresses repeats of the same diagnostic event that arrive
// within a minimum interval of the last emitted one. Events are keyed so
// one noisy condition does not mute an unrelated one.
type Throttle struct {
	clock    timeutil.Clock
	interval time.Duration

	mu   sync.Mutex
	last map[string]time.Time
	// suppressed counts events dropped since the last emission per key.
	suppressed map[string]int
}

// NewThrottle returns a Throttle allowing one event per key per interval.
// A nil clock uses the real clock.
func NewThrottle(clock timeutil.Clock, interval time.Duration) *Throttle {
	if clock == nil {
		clock = timeutil.RealClock{}
	}
	return &Throttle{
		clock:      clock,
		interval:   interval,
		last:       make(map[string]time.Time),
		suppressed: make(map[string]int),
	}
}

// Allow reports whether an event for key may be emitted now. When it
// returns true it also returns how many events for key were suppressed
// since the previous emission.
func (t *Throttle) Allow(key string) (ok bool, suppressed int) {
	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if last, seen := t.last[key]; seen && now.Sub(last) < t.interval {
		t.suppressed[key]++
		return false, 0
	}
	suppressed = t.suppressed[key]
	t.last[key] = now
	t.suppressed[key] = 0
	return true, suppressed
}

// Logf emits the formatted message through logf if key is not throttled.
func (t *Throttle) Logf(logf func(string, ...interface{}), key, format string, v ...interface{}) bool {
	ok, dropped := t.Allow(key)
	if !ok {
		return false
	}
	if dropped > 0 {
		format += " (%d similar suppressed)"
		v = append(v, dropped)
	}
	logf(format, v...)
	return true
}
