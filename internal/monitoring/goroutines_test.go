package monitoring

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestMonitor(count *int) *GoroutineMonitor {
	gm := NewGoroutineMonitor(Config{
		CheckInterval:  time.Millisecond,
		AlertThreshold: 10,
		AlertCooldown:  time.Minute,
	}, zerolog.Nop())
	gm.numGoroutine = func() int { return *count }
	gm.baseline, gm.current, gm.peak = 4, 4, 4
	return gm
}

func TestCheck_TracksPeakAndGauges(t *testing.T) {
	count := 6
	gm := newTestMonitor(&count)
	games := 3
	gm.RegisterGauge("games", func() int { return games })

	assert.False(t, gm.Check())
	count, games = 5, 1
	assert.False(t, gm.Check())

	m := gm.GetMetrics()
	assert.Equal(t, 5, m.Current)
	assert.Equal(t, 6, m.Peak)
	assert.Equal(t, 1, m.Growth)
	assert.Equal(t, map[string]int{"games": 1}, m.ComponentCounts)

	// The returned map is a copy.
	m.ComponentCounts["games"] = 99
	assert.Equal(t, 1, gm.GetMetrics().ComponentCounts["games"])
}

func TestCheck_AlertCooldown(t *testing.T) {
	count := 50
	gm := newTestMonitor(&count)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	gm.now = func() time.Time { return now }

	assert.True(t, gm.Check())
	now = now.Add(30 * time.Second)
	assert.False(t, gm.Check(), "still cooling down")
	now = now.Add(2 * time.Minute)
	assert.True(t, gm.Check())

	count = 5
	now = now.Add(time.Hour)
	assert.False(t, gm.Check(), "below threshold")
}

func TestRun_StopsOnCancel(t *testing.T) {
	count := 4
	gm := newTestMonitor(&count)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		gm.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSafeCheck_RecoversFromPanickingGauge(t *testing.T) {
	count := 4
	gm := newTestMonitor(&count)
	gm.RegisterGauge("broken", func() int { panic("boom") })
	assert.NotPanics(t, gm.safeCheck)
}
