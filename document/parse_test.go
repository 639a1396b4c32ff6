package document

import (
	"errors"
	"testing"

	"github.com/matt-g-everett/ledtime/animation"
	"github.com/matt-g-everett/ledtime/timing"
)

func TestParseTimeSpan(t *testing.T) {
	tests := []struct {
		in   string
		want timing.TimeSpan
		err  bool
	}{
		{in: "00:00:05", want: 5 * timing.TicksPerSecond},
		{in: "0:0:1.5", want: timing.FromSeconds(1.5)},
		{in: "01:02:03.0000001", want: timing.TicksPerHour + 2*timing.TicksPerMinute + 3*timing.TicksPerSecond + 1},
		{in: "2.00:00:00", want: 2 * timing.TicksPerDay},
		{in: "-00:00:01", want: -timing.TicksPerSecond},
		{in: "250ms", want: 250 * timing.TicksPerMillisecond},
		{in: "00:60:00", err: true},
		{in: "00:00:5.12345678", err: true},
		{in: "1.24:00:00", err: true},
		{in: "1:2", err: true},
		{in: "soon", err: true},
	}
	for _, tt := range tests {
		got, err := ParseTimeSpan(tt.in)
		if tt.err {
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("ParseTimeSpan(%q) error = %v, want ErrSyntax", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeSpan(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeSpan(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTimeSpanStringRoundTrip(t *testing.T) {
	for _, ts := range []timing.TimeSpan{
		0,
		1,
		timing.FromSeconds(2.25),
		-timing.FromSeconds(90),
		3*timing.TicksPerDay + 4*timing.TicksPerHour + 7,
	} {
		got, err := ParseTimeSpan(ts.String())
		if err != nil {
			t.Errorf("ParseTimeSpan(%q): %v", ts.String(), err)
			continue
		}
		if got != ts {
			t.Errorf("ParseTimeSpan(%q) = %d, want %d", ts.String(), got, ts)
		}
	}
}

func TestParseDurationAndRepeat(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want timing.Duration
	}{
		{"", timing.Automatic},
		{"Automatic", timing.Automatic},
		{"Forever", timing.Forever},
		{"0:0:2", timing.DurationOf(2 * timing.TicksPerSecond)},
	} {
		got, err := ParseDuration(tt.in)
		if err != nil || !got.Equal(tt.want) {
			t.Errorf("ParseDuration(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}

	for _, tt := range []struct {
		in   string
		want timing.RepeatBehavior
	}{
		{"", timing.RepeatCount(1)},
		{"3x", timing.RepeatCount(3)},
		{"1.5x", timing.RepeatCount(1.5)},
		{"Forever", timing.RepeatForever},
		{"0:0:10", timing.RepeatDuration(10 * timing.TicksPerSecond)},
	} {
		got, err := ParseRepeatBehavior(tt.in)
		if err != nil || !got.Equal(tt.want) {
			t.Errorf("ParseRepeatBehavior(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseRepeatBehavior("-1x"); !errors.Is(err, ErrSyntax) {
		t.Errorf("ParseRepeatBehavior(-1x) = %v, want ErrSyntax", err)
	}
}

func TestParseKeyTime(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want animation.KeyTime
	}{
		{"", animation.Uniform},
		{"Uniform", animation.Uniform},
		{"Paced", animation.Paced},
		{"25%", animation.Percent(0.25)},
		{"0:0:1", animation.At(timing.TicksPerSecond)},
	} {
		got, err := ParseKeyTime(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseKeyTime(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestParseValues(t *testing.T) {
	s, err := ParseKeySpline("0.25,0.1 0.25,1")
	if err != nil || s != (animation.KeySpline{X1: 0.25, Y1: 0.1, X2: 0.25, Y2: 1}) {
		t.Errorf("ParseKeySpline = %v, %v", s, err)
	}
	if _, err := ParseKeySpline("0.25,0.1"); !errors.Is(err, ErrSyntax) {
		t.Errorf("ParseKeySpline with two numbers = %v, want ErrSyntax", err)
	}

	c, err := ParseColor("#80ff0000")
	if err != nil {
		t.Fatal(err)
	}
	if c.R != 1 || c.G != 0 || c.B != 0 || c.A < 0.5 || c.A > 0.51 {
		t.Errorf("ParseColor(#80ff0000) = %+v", c)
	}
	if c, _ := ParseColor("#00ff00"); c.G != 1 || c.A != 1 {
		t.Errorf("ParseColor(#00ff00) = %+v", c)
	}
	if _, err := ParseColor("green"); !errors.Is(err, ErrSyntax) {
		t.Errorf("ParseColor(green) = %v, want ErrSyntax", err)
	}

	p, err := ParseValue(animation.KindPoint, "3, 4")
	if err != nil || p.Point() != (animation.Point{X: 3, Y: 4}) {
		t.Errorf("ParseValue(point) = %v, %v", p, err)
	}
	d, err := ParseValue(animation.KindDouble, "0.75")
	if err != nil || d.Double() != 0.75 {
		t.Errorf("ParseValue(double) = %v, %v", d, err)
	}
}
