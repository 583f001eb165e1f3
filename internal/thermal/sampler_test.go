package thermal

import (
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"
)

func TestSamplePreservesOrder(t *testing.T) {
	emitters := []Emitter{
		{Position: r3.Vector{X: 0}, Intensity: 16},
		{Position: r3.Vector{X: 10, Z: 5}, Intensity: 4},
	}
	points := []r3.Vector{
		{X: 0}, {X: 4}, {X: 10, Z: 5}, {X: -7, Y: 2},
	}

	raw := Sample(emitters, points, FalloffGaussian)
	require.Len(t, raw, len(points))
	for i, s := range raw {
		require.Equal(t, points[i], s.Point)
		require.Equal(t, Aggregate(emitters, points[i], FalloffGaussian), s.Value)
	}
}

func TestSampleEmptyInputs(t *testing.T) {
	raw := Sample(nil, nil, FalloffGaussian)
	require.NotNil(t, raw)
	require.Empty(t, raw)

	// Empty emitters: one zero sample per point.
	points := []r3.Vector{{X: 1}, {X: 2}}
	raw = Sample(nil, points, FalloffGaussian)
	require.Len(t, raw, 2)
	for _, s := range raw {
		require.Equal(t, 0.0, s.Value)
	}
}

func TestSampleParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	emitters := make([]Emitter, 12)
	for i := range emitters {
		emitters[i] = Emitter{
			Position:  r3.Vector{X: rng.Float64() * 30, Y: rng.Float64() * 2, Z: rng.Float64() * 20},
			Intensity: 1 + rng.Float64()*20,
		}
	}

	points := make([]r3.Vector, 3000)
	for i := range points {
		points[i] = r3.Vector{X: rng.Float64() * 30, Z: rng.Float64() * 20}
	}

	seq := Sample(emitters, points, FalloffGaussian)
	for _, workers := range []int{0, 1, 2, 7} {
		par := SampleParallel(emitters, points, FalloffGaussian, workers)
		require.Equal(t, seq, par, "workers=%d", workers)
	}
}

func TestSampleParallelSmallInputFallsBack(t *testing.T) {
	emitters := []Emitter{{Position: r3.Vector{}, Intensity: 9}}
	points := []r3.Vector{{X: 1}, {X: 2}, {X: 3}}

	par := SampleParallel(emitters, points, FalloffGaussian, 8)
	require.Equal(t, Sample(emitters, points, FalloffGaussian), par)
}
