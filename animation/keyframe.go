package animation

import "fmt"

// Interpolation selects how a key frame moves from the previous frame's
// value to its own.
type Interpolation int

const (
	// Discrete jumps to the frame's value when its time is reached.
	Discrete Interpolation = iota
	// Linear interpolates at constant speed.
	Linear
	// Spline interpolates along the frame's KeySpline.
	Spline
)

func (i Interpolation) String() string {
	switch i {
	case Discrete:
		return "Discrete"
	case Linear:
		return "Linear"
	case Spline:
		return "Spline"
	default:
		return fmt.Sprintf("Interpolation(%d)", int(i))
	}
}

// KeyFrame is a value to reach at a key time.
type KeyFrame struct {
	KeyTime       KeyTime
	Value         Value
	Interpolation Interpolation
	// KeySpline shapes Spline frames. Nil means LinearSpline.
	KeySpline *KeySpline
}

// DiscreteFrame returns a Discrete key frame.
func DiscreteFrame(kt KeyTime, v Value) *KeyFrame {
	return &KeyFrame{KeyTime: kt, Value: v, Interpolation: Discrete}
}

// LinearFrame returns a Linear key frame.
func LinearFrame(kt KeyTime, v Value) *KeyFrame {
	return &KeyFrame{KeyTime: kt, Value: v, Interpolation: Linear}
}

// SplineFrame returns a Spline key frame.
func SplineFrame(kt KeyTime, v Value, s KeySpline) *KeyFrame {
	return &KeyFrame{KeyTime: kt, Value: v, Interpolation: Spline, KeySpline: &s}
}

type interpolator func(f *KeyFrame, base Value, progress float64) Value

var interpolators = [...]interpolator{
	Discrete: func(f *KeyFrame, base Value, progress float64) Value {
		if progress < 1 {
			return base
		}
		return f.Value
	},
	Linear: func(f *KeyFrame, base Value, progress float64) Value {
		return Lerp(base, f.Value, progress)
	},
	Spline: func(f *KeyFrame, base Value, progress float64) Value {
		s := LinearSpline
		if f.KeySpline != nil {
			s = *f.KeySpline
		}
		return Lerp(base, f.Value, s.Progress(progress))
	},
}

// InterpolateValue returns the value progress of the way from base, the
// previous frame's value, to the frame's own value.
func (f *KeyFrame) InterpolateValue(base Value, progress float64) Value {
	if f.Interpolation < 0 || int(f.Interpolation) >= len(interpolators) {
		return interpolators[Discrete](f, base, progress)
	}
	return interpolators[f.Interpolation](f, base, progress)
}

func (f *KeyFrame) validate(kind Kind) error {
	if f.Value.Kind() != kind {
		return ErrKindMismatch
	}
	if err := f.KeyTime.Validate(); err != nil {
		return err
	}
	if f.Interpolation == Spline && f.KeySpline != nil {
		return f.KeySpline.Validate()
	}
	return nil
}
