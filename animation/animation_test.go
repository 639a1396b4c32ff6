package animation

import (
	"errors"
	"testing"

	"github.com/matt-g-everett/ledtime/timing"
)

func TestGetCurrentValueFromToBy(t *testing.T) {
	d := func(f float64) *Value { v := DoubleValue(f); return &v }
	origin, dest := DoubleValue(100), DoubleValue(200)

	tests := []struct {
		name         string
		from, to, by *Value
		easing       string
		want         float64
	}{
		{name: "from to", from: d(0), to: d(10), want: 2.5},
		{name: "from by", from: d(0), by: d(10), want: 2.5},
		{name: "from only", from: d(0), want: 50},
		{name: "to only", to: d(10), want: 77.5},
		{name: "by only", by: d(10), want: 102.5},
		{name: "nothing", want: 125},
		{name: "eased", from: d(0), to: d(10), easing: "InQuad", want: 0.625},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAnimation(KindDouble)
			a.From, a.To, a.By, a.Easing = tt.from, tt.to, tt.by, tt.easing
			c := clockAt(t, a, seconds(0.25))
			if got := a.GetCurrentValue(origin, dest, c).Double(); !approx(got, tt.want) {
				t.Errorf("GetCurrentValue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyFrameAnimationValue(t *testing.T) {
	a := NewKeyFrameAnimation(KindDouble,
		LinearFrame(At(seconds(1)), DoubleValue(10)),
		DiscreteFrame(At(seconds(2)), DoubleValue(50)),
		LinearFrame(At(seconds(3)), DoubleValue(60)),
	)
	base := DoubleValue(0)
	tests := []struct {
		at   float64
		want float64
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{1.99, 10},
		{2, 50},
		{2.5, 55},
		{3, 60},
		{10, 60},
	}
	for _, tt := range tests {
		c := clockAt(t, a, seconds(tt.at))
		if got := a.GetCurrentValue(base, base, c).Double(); !approx(got, tt.want) {
			t.Errorf("value at %vs = %v, want %v", tt.at, got, tt.want)
		}
	}
}

func TestAnimationNaturalDuration(t *testing.T) {
	tree := timing.NewTree()
	plain := NewAnimation(KindDouble)
	frames := NewKeyFrameAnimation(KindDouble,
		LinearFrame(At(seconds(0.5)), DoubleValue(1)),
		LinearFrame(At(seconds(2.5)), DoubleValue(2)),
		LinearFrame(Uniform, DoubleValue(3)),
	)
	relative := NewKeyFrameAnimation(KindDouble, LinearFrame(Percent(0.5), DoubleValue(1)))

	for _, tt := range []struct {
		name string
		a    *Animation
		want timing.TimeSpan
	}{
		{"from/to", plain, seconds(1)},
		{"key frames", frames, seconds(2.5)},
		{"relative key frames", relative, seconds(1)},
	} {
		id, err := tree.Realize(tt.a)
		if err != nil {
			t.Fatalf("%s: Realize: %v", tt.name, err)
		}
		if got := tree.NaturalDuration(id); !got.Equal(timing.DurationOf(tt.want)) {
			t.Errorf("%s: NaturalDuration = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAnimationValidate(t *testing.T) {
	p := PointValue(Point{})
	badFrame := NewKeyFrameAnimation(KindDouble, LinearFrame(Uniform, p))
	badSpline := NewKeyFrameAnimation(KindDouble, SplineFrame(Uniform, DoubleValue(1), KeySpline{0, 0, 2, 1}))
	badKeyTime := NewKeyFrameAnimation(KindDouble, LinearFrame(Percent(1.5), DoubleValue(1)))
	badEasing := NewAnimation(KindDouble)
	badEasing.Easing = "Wobble"
	badTo := NewAnimation(KindDouble)
	badTo.SetTo(p)
	badSpeed := NewAnimation(KindDouble)
	badSpeed.SpeedRatio = 0

	tests := []struct {
		name  string
		a     *Animation
		field string
		want  error
	}{
		{"frame kind", badFrame, "KeyFrames", ErrKindMismatch},
		{"spline", badSpline, "KeyFrames", ErrInvalidKeySpline},
		{"key time", badKeyTime, "KeyFrames", ErrInvalidKeyTime},
		{"easing", badEasing, "Easing", ErrUnknownEasing},
		{"to kind", badTo, "To", ErrKindMismatch},
		{"speed", badSpeed, "SpeedRatio", timing.ErrInvalidSpeedRatio},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.a.Validate()
			var ce *timing.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("Validate = %v, want a *timing.ConfigError", err)
			}
			if ce.Field != tt.field {
				t.Errorf("Field = %q, want %q", ce.Field, tt.field)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate = %v, want %v", err, tt.want)
			}
		})
	}

	if err := FromTo(DoubleValue(0), DoubleValue(1), seconds(1)).Validate(); err != nil {
		t.Errorf("valid animation: %v", err)
	}
}

func TestEasing(t *testing.T) {
	for _, name := range EasingNames() {
		if _, ok := Easing(name); !ok {
			t.Errorf("Easing(%q) not found", name)
		}
	}
	if _, ok := Easing("Wobble"); ok {
		t.Error("Easing found an unknown name")
	}
	linear, _ := Easing("")
	quad, _ := Easing("InQuad")
	if got := linear(0.3); !approx(got, 0.3) {
		t.Errorf("default easing(0.3) = %v, want 0.3", got)
	}
	if got := quad(0.5); !approx(got, 0.25) {
		t.Errorf("InQuad(0.5) = %v, want 0.25", got)
	}
}
