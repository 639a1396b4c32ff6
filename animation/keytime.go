package animation

import (
	"fmt"

	"github.com/matt-g-everett/ledtime/timing"
)

// KeyTimeKind tells how a key frame's time is specified.
type KeyTimeKind int

const (
	// KeyTimeUniform frames share the time between their neighbours evenly.
	KeyTimeUniform KeyTimeKind = iota
	// KeyTimePaced frames are spaced so the animation moves at constant speed.
	KeyTimePaced
	// KeyTimePercent frames sit at a fraction of the animation's duration.
	KeyTimePercent
	// KeyTimeSpan frames sit at an absolute offset.
	KeyTimeSpan
)

// KeyTime places a key frame in time. The zero value is Uniform.
type KeyTime struct {
	kind    KeyTimeKind
	percent float64
	span    timing.TimeSpan
}

var (
	Uniform = KeyTime{kind: KeyTimeUniform}
	Paced   = KeyTime{kind: KeyTimePaced}
)

// Percent returns a key time at fraction p of the duration.
func Percent(p float64) KeyTime { return KeyTime{kind: KeyTimePercent, percent: p} }

// At returns a key time at offset ts.
func At(ts timing.TimeSpan) KeyTime { return KeyTime{kind: KeyTimeSpan, span: ts} }

func (k KeyTime) Kind() KeyTimeKind         { return k.kind }
func (k KeyTime) Percent() float64          { return k.percent }
func (k KeyTime) TimeSpan() timing.TimeSpan { return k.span }

// Validate rejects percentages outside [0, 1] and negative offsets.
func (k KeyTime) Validate() error {
	switch k.kind {
	case KeyTimePercent:
		if !(k.percent >= 0 && k.percent <= 1) {
			return ErrInvalidKeyTime
		}
	case KeyTimeSpan:
		if k.span < 0 {
			return ErrInvalidKeyTime
		}
	}
	return nil
}

func (k KeyTime) String() string {
	switch k.kind {
	case KeyTimePaced:
		return "Paced"
	case KeyTimePercent:
		return fmt.Sprintf("%g%%", k.percent*100)
	case KeyTimeSpan:
		return k.span.String()
	default:
		return "Uniform"
	}
}
