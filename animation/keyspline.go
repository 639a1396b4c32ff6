package animation

import "math"

// KeySpline is a cubic Bezier from (0,0) to (1,1) with control points
// (X1,Y1) and (X2,Y2). It maps linear progress to eased progress.
type KeySpline struct {
	X1, Y1, X2, Y2 float64
}

// LinearSpline leaves progress unchanged.
var LinearSpline = KeySpline{X1: 0, Y1: 0, X2: 1, Y2: 1}

// Validate rejects control points outside the unit square.
func (s KeySpline) Validate() error {
	for _, v := range [...]float64{s.X1, s.Y1, s.X2, s.Y2} {
		if !(v >= 0 && v <= 1) {
			return ErrInvalidKeySpline
		}
	}
	return nil
}

// Progress returns the curve's y for x = t.
func (s KeySpline) Progress(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}

	u := t
	// Newton-Raphson converges quickly for most curves.
	for i := 0; i < 8; i++ {
		x := bezier(s.X1, s.X2, u) - t
		if math.Abs(x) < 1e-7 {
			return bezier(s.Y1, s.Y2, clampUnit(u))
		}
		dx := bezierSlope(s.X1, s.X2, u)
		if math.Abs(dx) < 1e-7 {
			break
		}
		u -= x / dx
	}

	// Bisection for the flat spots.
	lo, hi := 0.0, 1.0
	u = clampUnit(u)
	for i := 0; i < 30; i++ {
		x := bezier(s.X1, s.X2, u) - t
		if math.Abs(x) < 1e-7 {
			break
		}
		if x > 0 {
			hi = u
		} else {
			lo = u
		}
		u = (lo + hi) / 2
	}
	return bezier(s.Y1, s.Y2, u)
}

func bezier(a, b, u float64) float64 {
	inv := 1 - u
	return 3*inv*inv*u*a + 3*inv*u*u*b + u*u*u
}

func bezierSlope(a, b, u float64) float64 {
	inv := 1 - u
	return 3*inv*inv*a + 6*inv*u*(b-a) + 3*u*u*(1-b)
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
