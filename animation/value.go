// Package animation drives target properties from clocks: from/to/by and
// key frame animations over doubles, colours and points, the storage layer
// that keeps a property's base value while animations are applied, and
// storyboards that bind a timeline tree to named targets.
package animation

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Kind is the type of an animated value.
type Kind int

const (
	KindDouble Kind = iota
	KindColor
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindDouble:
		return "double"
	case KindColor:
		return "color"
	case KindPoint:
		return "point"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Point is a 2D position.
type Point struct {
	X, Y float64
}

// Color is an RGB colour with an alpha channel in [0, 1].
type Color struct {
	colorful.Color
	A float64
}

// Opaque returns c with full alpha.
func Opaque(c colorful.Color) Color {
	return Color{Color: c, A: 1}
}

// Value is an animated value of one of the supported kinds.
type Value struct {
	kind Kind
	d    float64
	c    Color
	p    Point
}

// DoubleValue wraps f.
func DoubleValue(f float64) Value { return Value{kind: KindDouble, d: f} }

// ColorValue wraps c.
func ColorValue(c Color) Value { return Value{kind: KindColor, c: c} }

// PointValue wraps p.
func PointValue(p Point) Value { return Value{kind: KindPoint, p: p} }

// ZeroValue returns the zero value of kind k.
func ZeroValue(k Kind) Value { return Value{kind: k} }

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// Double returns the double held by v, 0 for other kinds.
func (v Value) Double() float64 { return v.d }

// Color returns the colour held by v.
func (v Value) Color() Color { return v.c }

// Point returns the point held by v.
func (v Value) Point() Point { return v.p }

func (v Value) String() string {
	switch v.kind {
	case KindColor:
		return fmt.Sprintf("%s@%.3g", v.c.Hex(), v.c.A)
	case KindPoint:
		return fmt.Sprintf("%g,%g", v.p.X, v.p.Y)
	default:
		return fmt.Sprintf("%g", v.d)
	}
}

// valueOps is the per-kind arithmetic interpolation needs.
type valueOps struct {
	lerp     func(a, b Value, t float64) Value
	add      func(a, b Value) Value
	distance func(a, b Value) float64
}

var ops = [...]valueOps{
	KindDouble: {
		lerp: func(a, b Value, t float64) Value {
			return DoubleValue(a.d + (b.d-a.d)*t)
		},
		add: func(a, b Value) Value {
			return DoubleValue(a.d + b.d)
		},
		distance: func(a, b Value) float64 {
			return math.Abs(b.d - a.d)
		},
	},
	KindColor: {
		lerp: func(a, b Value, t float64) Value {
			return ColorValue(Color{
				Color: a.c.BlendRgb(b.c.Color, t),
				A:     a.c.A + (b.c.A-a.c.A)*t,
			})
		},
		add: func(a, b Value) Value {
			return ColorValue(Color{
				Color: colorful.Color{R: a.c.R + b.c.R, G: a.c.G + b.c.G, B: a.c.B + b.c.B},
				A:     a.c.A + b.c.A,
			})
		},
		distance: func(a, b Value) float64 {
			da := b.c.A - a.c.A
			return math.Sqrt(math.Pow(a.c.DistanceRgb(b.c.Color), 2) + da*da)
		},
	},
	KindPoint: {
		lerp: func(a, b Value, t float64) Value {
			return PointValue(Point{X: a.p.X + (b.p.X-a.p.X)*t, Y: a.p.Y + (b.p.Y-a.p.Y)*t})
		},
		add: func(a, b Value) Value {
			return PointValue(Point{X: a.p.X + b.p.X, Y: a.p.Y + b.p.Y})
		},
		distance: func(a, b Value) float64 {
			return math.Hypot(b.p.X-a.p.X, b.p.Y-a.p.Y)
		},
	},
}

func opsFor(k Kind) (valueOps, bool) {
	if k < 0 || int(k) >= len(ops) {
		return valueOps{}, false
	}
	return ops[k], true
}

// Lerp interpolates component-wise from a to b. Values of different kinds
// do not interpolate: the result is a until t reaches 1, then b.
func Lerp(a, b Value, t float64) Value {
	o, ok := opsFor(a.kind)
	if !ok || a.kind != b.kind {
		if t >= 1 {
			return b
		}
		return a
	}
	return o.lerp(a, b, t)
}

// Add returns the component-wise sum of a and b, or a if their kinds differ.
func Add(a, b Value) Value {
	o, ok := opsFor(a.kind)
	if !ok || a.kind != b.kind {
		return a
	}
	return o.add(a, b)
}

// Distance measures how far apart a and b are, for pacing key frames.
func Distance(a, b Value) float64 {
	o, ok := opsFor(a.kind)
	if !ok || a.kind != b.kind {
		return 0
	}
	return o.distance(a, b)
}
