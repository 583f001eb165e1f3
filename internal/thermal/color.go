// Color mapping: turning a normalized intensity in [0,1] into a heat color.
// Two families are supported — a continuous HSL sweep and a piecewise
// multi-stop RGB gradient — agreeing at the endpoints (0 → green, 1 → red)
// so the legend stays meaningful whichever is configured.

package thermal

import (
	"fmt"
	"image/color"
	"math"
)

// Mapping selects the color mapping family.
type Mapping uint8

const (
	// MappingHSLSweep sweeps hue from green (value 0) to red (value 1) at
	// full saturation and half lightness.
	MappingHSLSweep Mapping = iota

	// MappingGradient interpolates between fixed RGB control points:
	// green, yellow-green, yellow, orange, red.
	MappingGradient
)

// String returns the config-file name of the mapping.
func (m Mapping) String() string {
	switch m {
	case MappingGradient:
		return "gradient"
	default:
		return "hsl-sweep"
	}
}

// ParseMapping parses a mapping name as written in configuration.
func ParseMapping(s string) (Mapping, error) {
	switch s {
	case "hsl-sweep", "":
		return MappingHSLSweep, nil
	case "gradient":
		return MappingGradient, nil
	}
	return MappingHSLSweep, fmt.Errorf("unknown color mapping %q", s)
}

// hueSpan is the hue range swept by MappingHSLSweep: 1/3 of the wheel,
// green down to red.
const hueSpan = 1.0 / 3.0

// GradientStop is one control point of the piecewise gradient.
type GradientStop struct {
	At    float64    `json:"at"`
	Color color.RGBA `json:"-"`
}

var gradientStops = []GradientStop{
	{0.00, color.RGBA{0, 255, 0, 255}},
	{0.25, color.RGBA{128, 255, 0, 255}},
	{0.50, color.RGBA{255, 255, 0, 255}},
	{0.75, color.RGBA{255, 128, 0, 255}},
	{1.00, color.RGBA{255, 0, 0, 255}},
}

// GradientStops returns a copy of the gradient control points, for legend
// rendering.
func GradientStops() []GradientStop {
	out := make([]GradientStop, len(gradientStops))
	copy(out, gradientStops)
	return out
}

// Colorize maps a normalized intensity to a color. Input outside [0,1] is
// floating-point drift from the caller's side and is clamped, not rejected.
func Colorize(m Mapping, value float64) color.RGBA {
	if math.IsNaN(value) || value < 0 {
		value = 0
	} else if value > 1 {
		value = 1
	}

	switch m {
	case MappingGradient:
		return gradientColor(value)
	default:
		return hslColor((1-value)*hueSpan, 1, 0.5)
	}
}

// gradientColor linearly interpolates the two control points bracketing the
// value, in RGB space.
func gradientColor(value float64) color.RGBA {
	for i := 0; i < len(gradientStops)-1; i++ {
		lo, hi := gradientStops[i], gradientStops[i+1]
		if value > hi.At {
			continue
		}
		t := (value - lo.At) / (hi.At - lo.At)
		return color.RGBA{
			R: lerp8(lo.Color.R, hi.Color.R, t),
			G: lerp8(lo.Color.G, hi.Color.G, t),
			B: lerp8(lo.Color.B, hi.Color.B, t),
			A: 255,
		}
	}
	return gradientStops[len(gradientStops)-1].Color
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

// hslColor converts HSL (hue in [0,1]) to RGBA.
func hslColor(h, s, l float64) color.RGBA {
	c := (1 - math.Abs(2*l-1)) * s
	h6 := h * 6
	x := c * (1 - math.Abs(math.Mod(h6, 2)-1))

	var r, g, b float64
	switch {
	case h6 < 1:
		r, g, b = c, x, 0
	case h6 < 2:
		r, g, b = x, c, 0
	case h6 < 3:
		r, g, b = 0, c, x
	case h6 < 4:
		r, g, b = 0, x, c
	case h6 < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	m := l - c/2
	return color.RGBA{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}

// HexRGB formats a color as a #rrggbb string for JSON payloads.
func HexRGB(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
