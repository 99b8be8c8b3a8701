package monitoring

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Config tunes the goroutine monitor.
type Config struct {
	CheckInterval  time.Duration
	AlertThreshold int
	AlertCooldown  time.Duration
}

// DefaultConfig returns the production defaults
func DefaultConfig() Config {
	return Config{
		CheckInterval:  30 * time.Second,
		AlertThreshold: 1000,
		AlertCooldown:  5 * time.Minute,
	}
}

// GoroutineMonitor tracks goroutine metrics alongside named gauges such as
// the number of hosted games.
type GoroutineMonitor struct {
	mu              sync.RWMutex
	logger          zerolog.Logger
	cfg             Config
	baseline        int
	current         int
	peak            int
	lastAlert       time.Time
	gauges          map[string]func() int
	componentCounts map[string]int

	now          func() time.Time
	numGoroutine func() int
}

// NewGoroutineMonitor creates a new goroutine monitor
func NewGoroutineMonitor(cfg Config, logger zerolog.Logger) *GoroutineMonitor {
	baseline := runtime.NumGoroutine()
	return &GoroutineMonitor{
		logger:          logger.With().Str("component", "GoroutineMonitor").Logger(),
		cfg:             cfg,
		baseline:        baseline,
		current:         baseline,
		peak:            baseline,
		gauges:          make(map[string]func() int),
		componentCounts: make(map[string]int),
		now:             time.Now,
		numGoroutine:    runtime.NumGoroutine,
	}
}

// RegisterGauge adds a value sampled on every check.
func (gm *GoroutineMonitor) RegisterGauge(name string, sample func() int) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	gm.gauges[name] = sample
}

// Run samples until ctx is cancelled.
func (gm *GoroutineMonitor) Run(ctx context.Context) {
	gm.logger.Info().
		Int("baseline", gm.baseline).
		Msg("Started goroutine monitoring")

	ticker := time.NewTicker(gm.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			gm.safeCheck()
		case <-ctx.Done():
			return
		}
	}
}

func (gm *GoroutineMonitor) safeCheck() {
	defer func() {
		if r := recover(); r != nil {
			gm.logger.Error().
				Interface("panic", r).
				Msg("Goroutine check panicked")
		}
	}()
	gm.Check()
}

// Check samples the goroutine count and gauges, warning when the count is
// above the threshold. It reports whether an alert was raised.
func (gm *GoroutineMonitor) Check() bool {
	current := gm.numGoroutine()

	gm.mu.RLock()
	gauges := make(map[string]func() int, len(gm.gauges))
	for name, sample := range gm.gauges {
		gauges[name] = sample
	}
	gm.mu.RUnlock()

	// Gauges may take their own locks; sample them outside ours.
	counts := make(map[string]int, len(gauges))
	for name, sample := range gauges {
		counts[name] = sample()
	}

	gm.mu.Lock()
	gm.current = current
	if current > gm.peak {
		gm.peak = current
	}
	for name, n := range counts {
		gm.componentCounts[name] = n
	}

	growth := current - gm.baseline
	growthRate := 0.0
	if gm.baseline > 0 {
		growthRate = float64(growth) / float64(gm.baseline) * 100
	}

	now := gm.now()
	shouldAlert := current > gm.cfg.AlertThreshold &&
		(gm.lastAlert.IsZero() || now.Sub(gm.lastAlert) > gm.cfg.AlertCooldown)
	if shouldAlert {
		gm.lastAlert = now
	}
	peak := gm.peak
	gm.mu.Unlock()

	event := gm.logger.Debug().
		Int("current", current).
		Int("baseline", gm.baseline).
		Int("peak", peak).
		Float64("growth_rate", growthRate)
	for name, n := range counts {
		event = event.Int(name, n)
	}
	event.Msg("Goroutine metrics")

	if shouldAlert {
		gm.logger.Warn().
			Int("current", current).
			Int("threshold", gm.cfg.AlertThreshold).
			Float64("growth_rate", growthRate).
			Msg("High goroutine count detected - possible leak")
	}
	return shouldAlert
}

// GetMetrics returns current goroutine metrics
func (gm *GoroutineMonitor) GetMetrics() GoroutineMetrics {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	return GoroutineMetrics{
		Current:         gm.current,
		Baseline:        gm.baseline,
		Peak:            gm.peak,
		Growth:          gm.current - gm.baseline,
		ComponentCounts: copyMap(gm.componentCounts),
	}
}

// GoroutineMetrics contains goroutine statistics
type GoroutineMetrics struct {
	Current         int            `json:"current"`
	Baseline        int            `json:"baseline"`
	Peak            int            `json:"peak"`
	Growth          int            `json:"growth"`
	ComponentCounts map[string]int `json:"component_counts"`
}

func copyMap(m map[string]int) map[string]int {
	result := make(map[string]int, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
