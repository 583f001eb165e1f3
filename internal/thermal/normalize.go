// Normalization: rescaling raw field values into [0,1] so color mapping is
// stable regardless of how hot the floor runs.

package thermal

import (
	"fmt"

	"github.com/golang/geo/r3"
)

// Policy selects how raw values are rescaled. The choice is explicit caller
// configuration — the two policies produce visibly different maps and must
// never be inferred silently.
type Policy uint8

const (
	// PolicyMaxDivide divides by the maximum raw value. The hottest points
	// land at exactly 1.0 and only a true zero raw value maps to 0.
	PolicyMaxDivide Policy = iota

	// PolicyMinMax rescales (raw - min) / (max - min). The output always
	// spans the full [0,1] range when raw values differ, compressing
	// relative differences compared to max-divide.
	PolicyMinMax
)

// String returns the config-file name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyMinMax:
		return "min-max"
	default:
		return "max-divide"
	}
}

// ParsePolicy parses a policy name as written in configuration.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "max-divide", "":
		return PolicyMaxDivide, nil
	case "min-max":
		return PolicyMinMax, nil
	}
	return PolicyMaxDivide, fmt.Errorf("unknown normalization policy %q", s)
}

// NormalizedSample is a RawSample rescaled into [0,1].
type NormalizedSample struct {
	Point r3.Vector `json:"point"`
	Value float64   `json:"value"`
}

// Normalize rescales raw samples under the given policy and returns the
// divisor it used. Degenerate inputs — empty, all-zero, or all-equal raw
// values — substitute a divisor of 1 and yield all-zero output rather than
// NaN or Inf.
func Normalize(raw []RawSample, policy Policy) ([]NormalizedSample, float64) {
	out := make([]NormalizedSample, len(raw))
	if len(raw) == 0 {
		return out, 1
	}

	min, max := raw[0].Value, raw[0].Value
	for _, s := range raw[1:] {
		if s.Value < min {
			min = s.Value
		}
		if s.Value > max {
			max = s.Value
		}
	}

	switch policy {
	case PolicyMinMax:
		divisor := max - min
		if divisor <= 0 {
			divisor = 1
		}
		for i, s := range raw {
			out[i] = NormalizedSample{Point: s.Point, Value: (s.Value - min) / divisor}
		}
		return out, divisor
	default:
		divisor := max
		if divisor <= 0 {
			divisor = 1
		}
		for i, s := range raw {
			out[i] = NormalizedSample{Point: s.Point, Value: s.Value / divisor}
		}
		return out, divisor
	}
}
