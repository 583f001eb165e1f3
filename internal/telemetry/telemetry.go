// Package telemetry synthesizes emitter intensity readings. Real
// deployments would pull per-rack power or inlet temperatures from a sensor
// feed; the simulator stands in with smooth simplex-noise drift around each
// emitter's base intensity, deterministic per seed.
package telemetry

import (
	"sync"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/rackheat/internal/thermal"
)

// Drift bounds how far an intensity swings from its base, as a fraction.
const defaultDrift = 0.4

// timeScale converts ticks to noise-space time. Small values mean slow,
// smooth workload changes.
const timeScale = 0.02

// Feed produces the current emitter set on demand. The base set can be
// replaced at runtime (admin API); readings are derived fresh each tick so
// callers never share mutable state with the feed.
type Feed struct {
	noise opensimplex.Noise
	drift float64

	mu   sync.Mutex
	base []thermal.Emitter
}

// NewFeed creates a feed around a base emitter set. The base must already
// be validated.
func NewFeed(seed int64, base []thermal.Emitter) *Feed {
	return &Feed{
		noise: opensimplex.NewNormalized(seed),
		drift: defaultDrift,
		base:  append([]thermal.Emitter(nil), base...),
	}
}

// At returns the emitter set as observed at the given tick: base positions
// with intensities drifted by noise. The returned slice is fresh and owned
// by the caller. Intensities stay strictly positive.
func (f *Feed) At(tick uint64) []thermal.Emitter {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]thermal.Emitter, len(f.base))
	for i, e := range f.base {
		// Per-emitter noise channel: offset along x, time along y.
		n := f.noise.Eval2(float64(i)*17.31, float64(tick)*timeScale) // [0,1]
		factor := 1 + f.drift*(2*n-1)
		if factor < 0.05 {
			factor = 0.05
		}
		out[i] = thermal.Emitter{
			Name:      e.Name,
			Position:  e.Position,
			Intensity: e.Intensity * factor,
		}
	}
	return out
}

// SetBase replaces the base emitter set after validating it.
func (f *Feed) SetBase(base []thermal.Emitter) error {
	if err := thermal.ValidateEmitters(base); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.base = append([]thermal.Emitter(nil), base...)
	return nil
}

// Base returns a copy of the base emitter set.
func (f *Feed) Base() []thermal.Emitter {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]thermal.Emitter(nil), f.base...)
}
