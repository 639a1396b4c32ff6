package animation

import (
	"github.com/matt-g-everett/ledtime/timing"
)

// Animation is a timeline that produces a value of one kind. It either
// interpolates between From, To and By, or follows KeyFrames when they
// are set.
type Animation struct {
	timing.Timeline

	Kind Kind
	From *Value
	To   *Value
	By   *Value
	// Easing names a function that reshapes from/to/by progress.
	Easing    string
	KeyFrames *KeyFrameCollection

	// TargetName and TargetProperty locate the animated property when a
	// storyboard begins. Empty values are inherited from the enclosing
	// storyboard.
	TargetName     string
	TargetProperty string
	// Target, if set, is used instead of looking TargetName up.
	Target Target
}

// NewAnimation returns a from/to/by animation of kind with default timing.
func NewAnimation(kind Kind) *Animation {
	return &Animation{Timeline: timing.NewTimeline(), Kind: kind}
}

// NewKeyFrameAnimation returns a key frame animation of kind.
func NewKeyFrameAnimation(kind Kind, frames ...*KeyFrame) *Animation {
	a := NewAnimation(kind)
	a.KeyFrames = NewKeyFrameCollection(frames...)
	return a
}

// FromTo is shorthand for an animation from one value to another over d.
func FromTo(from, to Value, d timing.TimeSpan) *Animation {
	a := NewAnimation(from.Kind())
	a.From, a.To = &from, &to
	a.Duration = timing.DurationOf(d)
	return a
}

// SetFrom sets the start value.
func (a *Animation) SetFrom(v Value) { a.From = &v }

// SetTo sets the end value.
func (a *Animation) SetTo(v Value) { a.To = &v }

// SetBy sets the end value relative to the start.
func (a *Animation) SetBy(v Value) { a.By = &v }

// UsesKeyFrames reports whether the animation follows key frames.
func (a *Animation) UsesKeyFrames() bool { return a.KeyFrames != nil }

// NaturalDuration implements timing.Node. Key frame animations last until
// their latest absolute key time; everything else lasts DefaultDuration.
func (a *Animation) NaturalDuration(*timing.Tree, timing.ClockID) timing.Duration {
	if a.UsesKeyFrames() {
		return a.KeyFrames.NaturalDuration()
	}
	return timing.DurationOf(DefaultDuration)
}

// keyFrameSpan is the duration key times resolve against.
func (a *Animation) keyFrameSpan() timing.TimeSpan {
	if a.Duration.HasTimeSpan() {
		return a.Duration.TimeSpan()
	}
	return a.NaturalDuration(nil, timing.NoClock).TimeSpan()
}

// Validate implements timing.Node.
func (a *Animation) Validate() error {
	if err := a.Timeline.Validate(); err != nil {
		return err
	}
	fail := func(field string, err error) error {
		return &timing.ConfigError{Op: "animation.Validate", Timeline: a.Name, Field: field, Err: err}
	}
	if _, ok := opsFor(a.Kind); !ok {
		return fail("Kind", ErrKindMismatch)
	}
	endpoints := []struct {
		field string
		v     *Value
	}{{"From", a.From}, {"To", a.To}, {"By", a.By}}
	for _, e := range endpoints {
		if e.v != nil && e.v.Kind() != a.Kind {
			return fail(e.field, ErrKindMismatch)
		}
	}
	if _, ok := Easing(a.Easing); !ok {
		return fail("Easing", ErrUnknownEasing)
	}
	if a.UsesKeyFrames() {
		if err := a.KeyFrames.validate(a.Kind); err != nil {
			return fail("KeyFrames", err)
		}
	}
	return nil
}

// GetCurrentValue computes the animated value for the clock's current
// position. origin is used where the animation does not say where to start
// and dest where it does not say where to finish; both are normally the
// property's base value.
func (a *Animation) GetCurrentValue(origin, dest Value, c *timing.Clock) Value {
	if a.UsesKeyFrames() {
		return a.keyFrameValue(origin, c.CurrentTime())
	}

	progress := c.Progress()
	if fn, ok := Easing(a.Easing); ok {
		progress = fn(progress)
	}

	from, to := origin, dest
	switch {
	case a.From != nil && a.To != nil:
		from, to = *a.From, *a.To
	case a.From != nil && a.By != nil:
		from = *a.From
		to = Add(from, *a.By)
	case a.From != nil:
		from = *a.From
	case a.To != nil:
		to = *a.To
	case a.By != nil:
		to = Add(origin, *a.By)
	}
	return Lerp(from, to, progress)
}

func (a *Animation) keyFrameValue(base Value, t timing.TimeSpan) Value {
	seg, ok := a.KeyFrames.FrameForTime(t, a.keyFrameSpan())
	if !ok {
		return base
	}
	prev := base
	if seg.Previous != nil {
		prev = seg.Previous.Value
	}
	return seg.Active.InterpolateValue(prev, seg.Progress)
}
