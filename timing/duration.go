package timing

import "fmt"

// DurationKind tags a Duration.
type DurationKind int

const (
	// DurationAutomatic means the duration is resolved from content.
	DurationAutomatic DurationKind = iota
	// DurationTimeSpan is an explicit span.
	DurationTimeSpan
	// DurationForever never ends.
	DurationForever
)

// Duration is an explicit TimeSpan, Automatic or Forever. The zero value is
// Automatic.
type Duration struct {
	kind     DurationKind
	timeSpan TimeSpan
}

// Automatic and Forever durations.
var (
	Automatic = Duration{kind: DurationAutomatic}
	Forever   = Duration{kind: DurationForever}
)

// DurationOf returns an explicit Duration.
func DurationOf(t TimeSpan) Duration {
	return Duration{kind: DurationTimeSpan, timeSpan: t}
}

// Kind returns the tag.
func (d Duration) Kind() DurationKind { return d.kind }

// HasTimeSpan reports whether the duration is explicit.
func (d Duration) HasTimeSpan() bool { return d.kind == DurationTimeSpan }

// IsAutomatic reports whether the duration is Automatic.
func (d Duration) IsAutomatic() bool { return d.kind == DurationAutomatic }

// IsForever reports whether the duration is Forever.
func (d Duration) IsForever() bool { return d.kind == DurationForever }

// TimeSpan returns the explicit span, or 0 for Automatic and Forever.
func (d Duration) TimeSpan() TimeSpan {
	if d.kind != DurationTimeSpan {
		return 0
	}
	return d.timeSpan
}

// Equal reports whether both durations have the same tag and span.
func (d Duration) Equal(o Duration) bool {
	if d.kind != o.kind {
		return false
	}
	return d.kind != DurationTimeSpan || d.timeSpan == o.timeSpan
}

func (d Duration) String() string {
	switch d.kind {
	case DurationAutomatic:
		return "Automatic"
	case DurationForever:
		return "Forever"
	default:
		return d.timeSpan.String()
	}
}

// RepeatKind tags a RepeatBehavior.
type RepeatKind int

const (
	RepeatKindCount RepeatKind = iota
	RepeatKindDuration
	RepeatKindForever
)

// RepeatBehavior is an iteration count, a total active duration or Forever.
type RepeatBehavior struct {
	kind     RepeatKind
	count    float64
	duration TimeSpan
}

// RepeatForever repeats without end.
var RepeatForever = RepeatBehavior{kind: RepeatKindForever}

// RepeatCount repeats the timeline count times. Fractional counts stop
// part way through the last iteration.
func RepeatCount(count float64) RepeatBehavior {
	return RepeatBehavior{kind: RepeatKindCount, count: count}
}

// RepeatDuration repeats the timeline until d has elapsed.
func RepeatDuration(d TimeSpan) RepeatBehavior {
	return RepeatBehavior{kind: RepeatKindDuration, duration: d}
}

// Kind returns the tag.
func (r RepeatBehavior) Kind() RepeatKind { return r.kind }

// HasCount reports whether the behavior is an iteration count.
func (r RepeatBehavior) HasCount() bool { return r.kind == RepeatKindCount }

// HasDuration reports whether the behavior is a total duration.
func (r RepeatBehavior) HasDuration() bool { return r.kind == RepeatKindDuration }

// IsForever reports whether the behavior repeats forever.
func (r RepeatBehavior) IsForever() bool { return r.kind == RepeatKindForever }

// Count returns the iteration count.
func (r RepeatBehavior) Count() float64 { return r.count }

// Duration returns the total repeat duration.
func (r RepeatBehavior) Duration() TimeSpan { return r.duration }

// Equal reports whether both behaviors have the same tag and payload.
func (r RepeatBehavior) Equal(o RepeatBehavior) bool {
	if r.kind != o.kind {
		return false
	}
	switch r.kind {
	case RepeatKindCount:
		return r.count == o.count
	case RepeatKindDuration:
		return r.duration == o.duration
	}
	return true
}

func (r RepeatBehavior) String() string {
	switch r.kind {
	case RepeatKindCount:
		return fmt.Sprintf("%gx", r.count)
	case RepeatKindDuration:
		return r.duration.String()
	default:
		return "Forever"
	}
}

// FillBehavior decides what a clock does once its active period ends.
type FillBehavior int

const (
	// FillHoldEnd holds the final value.
	FillHoldEnd FillBehavior = iota
	// FillStop stops the clock and releases its value.
	FillStop
)

func (f FillBehavior) String() string {
	if f == FillStop {
		return "Stop"
	}
	return "HoldEnd"
}
