package monitoring

import (
	"fmt"
	"testing"
	"time"

	"github.com/banshee-data/posefuse/internal/timeutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottle_Allow(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	th := NewThrottle(clock, time.Second)

	ok, dropped := th.Allow("scale")
	require.True(t, ok)
	assert.Zero(t, dropped)

	clock.Advance(200 * time.Millisecond)
	ok, _ = th.Allow("scale")
	assert.False(t, ok)
	ok, _ = th.Allow("scale")
	assert.False(t, ok)

	// Other keys are independent.
	ok, _ = th.Allow("other")
	assert.True(t, ok)

	clock.Advance(800 * time.Millisecond)
	ok, dropped = th.Allow("scale")
	assert.True(t, ok)
	assert.Equal(t, 2, dropped)
}

func TestThrottle_Logf(t *testing.T) {
	t.Parallel()

	clock := timeutil.NewMockClock(time.Unix(0, 0))
	th := NewThrottle(clock, time.Second)

	var lines []string
	logf := func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	}

	for i := 0; i < 10; i++ {
		th.Logf(logf, "neg", "value %d", i)
		clock.Advance(250 * time.Millisecond)
	}

	// t = 0, 1.0, 2.0 s emit; everything in between is dropped.
	require.Len(t, lines, 3)
	assert.Equal(t, "value 0", lines[0])
	assert.Equal(t, "value 4 (3 similar suppressed)", lines[1])
	assert.Equal(t, "value 8 (3 similar suppressed)", lines[2])
}

func TestNewThrottle_DefaultClock(t *testing.T) {
	th := NewThrottle(nil, time.Hour)
	ok, _ := th.Allow("k")
	assert.True(t, ok)
	ok, _ = th.Allow("k")
	assert.False(t, ok)
}
