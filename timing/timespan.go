// Package timing implements the clock tree that drives animations: time
// primitives, timelines, clocks and clock groups, time sources and the
// TimeManager that ticks the tree once per frame.
package timing

import (
	"fmt"
	"math"
	"time"
)

// A TimeSpan is a signed count of 100ns ticks.
type TimeSpan int64

// Tick rates.
const (
	TicksPerMillisecond TimeSpan = 10000
	TicksPerSecond      TimeSpan = 10000000
	TicksPerMinute               = 60 * TicksPerSecond
	TicksPerHour                 = 60 * TicksPerMinute
	TicksPerDay                  = 24 * TicksPerHour
)

// MaxTimeSpan is the largest representable TimeSpan.
const MaxTimeSpan = TimeSpan(math.MaxInt64)

// FromSeconds converts floating point seconds to the nearest TimeSpan.
func FromSeconds(s float64) TimeSpan {
	return TimeSpan(math.Round(s * float64(TicksPerSecond)))
}

// FromMilliseconds converts whole milliseconds to a TimeSpan.
func FromMilliseconds(ms int64) TimeSpan {
	return TimeSpan(ms) * TicksPerMillisecond
}

// FromDuration converts a time.Duration, truncating to whole ticks.
func FromDuration(d time.Duration) TimeSpan {
	return TimeSpan(d / 100)
}

// Seconds returns the span as floating point seconds.
func (t TimeSpan) Seconds() float64 {
	return float64(t) / float64(TicksPerSecond)
}

// Milliseconds returns the span in whole milliseconds.
func (t TimeSpan) Milliseconds() int64 {
	return int64(t / TicksPerMillisecond)
}

// Duration converts the span to a time.Duration.
func (t TimeSpan) Duration() time.Duration {
	return time.Duration(t) * 100
}

// Scale multiplies the span by a ratio, rounding to the nearest tick.
func (t TimeSpan) Scale(ratio float64) TimeSpan {
	if ratio == 1 {
		return t
	}
	return TimeSpan(math.Round(float64(t) * ratio))
}

// String formats the span as [-][d.]hh:mm:ss[.fffffff].
func (t TimeSpan) String() string {
	sign := ""
	if t < 0 {
		sign = "-"
		t = -t
	}
	days := t / TicksPerDay
	t -= days * TicksPerDay
	hours := t / TicksPerHour
	t -= hours * TicksPerHour
	minutes := t / TicksPerMinute
	t -= minutes * TicksPerMinute
	seconds := t / TicksPerSecond
	fraction := t - seconds*TicksPerSecond

	s := sign
	if days > 0 {
		s += fmt.Sprintf("%d.", days)
	}
	s += fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	if fraction > 0 {
		s += fmt.Sprintf(".%07d", fraction)
	}
	return s
}
