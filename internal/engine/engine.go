// Package engine drives periodic field recomputation: a tick loop polls the
// telemetry feed and refreshes the published snapshots when the inputs
// actually changed.
package engine

import (
	"log/slog"
	"time"
)

// Engine runs the tick loop.
type Engine struct {
	Tick     uint64        // Current tick counter (monotonic, never resets)
	Speed    float64       // Multiplier: 1.0 = real-time, 0 = paused
	Interval time.Duration // Base tick interval (default 1 second)
	Running  bool

	// OnTick is invoked once per tick — populated during setup.
	OnTick func(tick uint64)
}

// NewEngine creates an engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Speed:    1.0,
		Interval: time.Second,
	}
}

// Run starts the tick loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("recompute engine started", "tick", e.Tick, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		e.Tick++
		if e.OnTick != nil {
			e.OnTick(e.Tick)
		}

		// Sleep for the remainder of the tick interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("recompute engine stopped", "tick", e.Tick)
}

// Stop halts the tick loop.
func (e *Engine) Stop() {
	e.Running = false
}
