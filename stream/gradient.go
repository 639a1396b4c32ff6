package stream

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// GradientStop is a hue at a position in [0, 1].
type GradientStop struct {
	Hue float64 `yaml:"hue"`
	Pos float64 `yaml:"pos"`
}

// GradientTable stores a look-up table of colours interpolated by hue.
type GradientTable []GradientStop

// RainbowGradient runs once round the hue circle.
var RainbowGradient = GradientTable{
	{0.0, 0.0},
	{6.0, 0.04},   // Pink
	{87.0, 0.14},  // Red
	{88.0, 0.28},  // Orange
	{98.0, 0.42},  // Yellow
	{180.0, 0.56}, // Green
	{190.0, 0.70}, // Turquoise
	{320.0, 0.84}, // Blue
	{328.0, 0.91}, // Violet
	{360.0, 1.0},  // Pink wrap
}

// GetColor gets a colour at the specified point on the look-up table,
// rotated by shift degrees.
func (g GradientTable) GetColor(t, s, l, shift float64) colorful.Color {
	if len(g) == 0 {
		return colorful.Hcl(shift, s, l)
	}
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			h := c1.Hue
			if c2.Pos > c1.Pos {
				h += ((t - c1.Pos) / (c2.Pos - c1.Pos)) * (c2.Hue - c1.Hue)
			}
			return colorful.Hcl(wrapHue(h+shift), s, l)
		}
	}

	// Past the last stop.
	return colorful.Hcl(wrapHue(g[len(g)-1].Hue+shift), s, l)
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}
