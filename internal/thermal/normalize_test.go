package thermal

import (
	"testing"

	"github.com/golang/geo/r3"
	"github.com/stretchr/testify/require"
)

func rawValues(values ...float64) []RawSample {
	out := make([]RawSample, len(values))
	for i, v := range values {
		out[i] = RawSample{Point: r3.Vector{X: float64(i)}, Value: v}
	}
	return out
}

func TestNormalizeMaxDivide(t *testing.T) {
	samples, divisor := Normalize(rawValues(2, 8, 4, 0), PolicyMaxDivide)

	require.Equal(t, 8.0, divisor)
	require.InDelta(t, 0.25, samples[0].Value, 1e-9)
	require.InDelta(t, 1.0, samples[1].Value, 1e-9)
	require.InDelta(t, 0.5, samples[2].Value, 1e-9)
	// True zero floor: only a raw zero maps to zero.
	require.Equal(t, 0.0, samples[3].Value)
}

func TestNormalizeMaxDivideHottestIsOne(t *testing.T) {
	samples, _ := Normalize(rawValues(3.7, 12.2, 9.9, 12.2), PolicyMaxDivide)

	max := 0.0
	for _, s := range samples {
		require.GreaterOrEqual(t, s.Value, 0.0)
		require.LessOrEqual(t, s.Value, 1.0)
		if s.Value > max {
			max = s.Value
		}
	}
	require.InDelta(t, 1.0, max, 1e-9)
}

func TestNormalizeMinMaxSpansUnitRange(t *testing.T) {
	samples, divisor := Normalize(rawValues(5, 15, 10), PolicyMinMax)

	require.Equal(t, 10.0, divisor)
	require.Equal(t, 0.0, samples[0].Value)
	require.InDelta(t, 1.0, samples[1].Value, 1e-9)
	require.InDelta(t, 0.5, samples[2].Value, 1e-9)
}

func TestNormalizeDegenerateInputs(t *testing.T) {
	// All equal: min-max substitutes divisor 1, output all zero.
	samples, divisor := Normalize(rawValues(7, 7, 7), PolicyMinMax)
	require.Equal(t, 1.0, divisor)
	for _, s := range samples {
		require.Equal(t, 0.0, s.Value)
	}

	// All zero: max-divide substitutes divisor 1, output all zero.
	samples, divisor = Normalize(rawValues(0, 0, 0), PolicyMaxDivide)
	require.Equal(t, 1.0, divisor)
	for _, s := range samples {
		require.Equal(t, 0.0, s.Value)
	}

	// Empty input: empty output, divisor 1, no panic.
	samples, divisor = Normalize(nil, PolicyMaxDivide)
	require.Empty(t, samples)
	require.Equal(t, 1.0, divisor)
}

func TestNormalizeKeepsPointAssociation(t *testing.T) {
	raw := []RawSample{
		{Point: r3.Vector{X: 1, Z: 2}, Value: 4},
		{Point: r3.Vector{X: -3}, Value: 8},
	}
	samples, _ := Normalize(raw, PolicyMaxDivide)
	require.Equal(t, raw[0].Point, samples[0].Point)
	require.Equal(t, raw[1].Point, samples[1].Point)
}

func TestPolicyParsing(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	require.Equal(t, PolicyMaxDivide, p)

	p, err = ParsePolicy("min-max")
	require.NoError(t, err)
	require.Equal(t, PolicyMinMax, p)

	_, err = ParsePolicy("median")
	require.Error(t, err)
}

func TestNormalizeEndToEnd(t *testing.T) {
	// The reference scenario through the whole pipeline: one emitter of
	// intensity 16, queried at its center and 4m away.
	emitters := []Emitter{{Position: r3.Vector{}, Intensity: 16}}
	points := []r3.Vector{{}, {X: 4}}

	raw := Sample(emitters, points, FalloffGaussian)
	samples, _ := Normalize(raw, PolicyMaxDivide)

	require.InDelta(t, 1.0, samples[0].Value, 1e-9)
	require.InDelta(t, 0.6065306597, samples[1].Value, 1e-9)
}
