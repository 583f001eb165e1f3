package thermal

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Field tuning constants. These shape the visualization, not the physics:
// amplification widens the visible color range without changing the relative
// ordering between points, and the radius floor keeps weak emitters from
// collapsing into invisible pinpricks.
const (
	// Amplification is applied uniformly to every aggregated value.
	Amplification = 3.0

	// SpreadFactor widens the Gaussian kernel: effective variance is
	// SpreadFactor * radius².
	SpreadFactor = 2.0

	// MinRadius is the lower bound on an emitter's falloff radius.
	MinRadius = 1.0
)

// Falloff selects the law by which an emitter's contribution decays with
// distance. The set is closed; whichever law is chosen applies uniformly to
// every emitter in a pipeline run.
type Falloff uint8

const (
	// FalloffGaussian: intensity * exp(-d² / (2 * radius² * SpreadFactor))
	// with radius = max(MinRadius, sqrt(intensity)), so stronger sources
	// spread over a visibly larger area.
	FalloffGaussian Falloff = iota

	// FalloffInverseSquare: intensity / (1 + d²). Heavier tails than the
	// Gaussian; hot spots bleed further across the floor.
	FalloffInverseSquare
)

// String returns the config-file name of the falloff law.
func (f Falloff) String() string {
	switch f {
	case FalloffInverseSquare:
		return "inverse-square"
	default:
		return "gaussian"
	}
}

// ParseFalloff parses a falloff name as written in configuration.
func ParseFalloff(s string) (Falloff, error) {
	switch s {
	case "gaussian", "":
		return FalloffGaussian, nil
	case "inverse-square":
		return FalloffInverseSquare, nil
	}
	return FalloffGaussian, fmt.Errorf("unknown falloff %q", s)
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b r3.Vector) float64 {
	return a.Sub(b).Norm()
}

// Influence computes one emitter's contribution at a point. It is maximal
// (= intensity) at distance zero, strictly decreasing with distance, and
// smooth — no hard cutoffs, so the rendered gradient has no seams.
func Influence(e Emitter, p r3.Vector, law Falloff) float64 {
	d := Distance(e.Position, p)

	switch law {
	case FalloffInverseSquare:
		return e.Intensity / (1 + d*d)
	default:
		radius := math.Sqrt(e.Intensity)
		if radius < MinRadius {
			radius = MinRadius
		}
		return e.Intensity * math.Exp(-(d*d)/(2*radius*radius*SpreadFactor))
	}
}

// Aggregate sums every emitter's influence at a point and applies the
// uniform amplification. An empty emitter set yields 0 everywhere.
func Aggregate(emitters []Emitter, p r3.Vector, law Falloff) float64 {
	total := 0.0
	for _, e := range emitters {
		total += Influence(e, p, law)
	}
	return total * Amplification
}
