// Package thermal implements the heat field model: point emitters with a
// smooth distance falloff, field sampling over arbitrary query points, and
// the normalization and color mapping that turn raw field values into
// render-ready intensities.
package thermal

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// ErrInvalidEmitter is returned when an emitter fails input validation:
// non-positive or non-finite intensity, or a non-finite position.
var ErrInvalidEmitter = errors.New("invalid emitter")

// Emitter is a point heat source. Intensity is strictly positive and
// unbounded above; the falloff radius of the source grows with it.
type Emitter struct {
	Name      string    `json:"name,omitempty"`
	Position  r3.Vector `json:"position"`
	Intensity float64   `json:"intensity"`
}

// Validate rejects emitters the field model cannot represent.
// Invalid emitters are refused outright, never clamped.
func (e Emitter) Validate() error {
	if !finite(e.Position.X) || !finite(e.Position.Y) || !finite(e.Position.Z) {
		return fmt.Errorf("%w: non-finite position (%v, %v, %v)",
			ErrInvalidEmitter, e.Position.X, e.Position.Y, e.Position.Z)
	}
	if !finite(e.Intensity) {
		return fmt.Errorf("%w: non-finite intensity", ErrInvalidEmitter)
	}
	if e.Intensity <= 0 {
		return fmt.Errorf("%w: intensity %v is not positive", ErrInvalidEmitter, e.Intensity)
	}
	return nil
}

// ValidateEmitters validates a whole emitter set, reporting the index of the
// first offender. An empty set is valid (it yields a zero field).
func ValidateEmitters(emitters []Emitter) error {
	for i, e := range emitters {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("emitter %d: %w", i, err)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
