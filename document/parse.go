package document

import (
	"strconv"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/matt-g-everett/ledtime/animation"
	"github.com/matt-g-everett/ledtime/timing"
)

// ErrSyntax is wrapped by every parse failure.
var ErrSyntax = errors.New("syntax error")

func syntaxError(what, s string) error {
	return errors.Wrapf(ErrSyntax, "invalid %s %q", what, s)
}

// ParseTimeSpan reads "[-][d.]hh:mm:ss[.fffffff]", the format
// timing.TimeSpan prints. Strings without a colon are read as Go
// durations such as "1.5s" or "250ms".
func ParseTimeSpan(s string) (timing.TimeSpan, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ":") {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, syntaxError("time span", s)
		}
		return timing.FromDuration(d), nil
	}

	neg := strings.HasPrefix(s, "-")
	body := strings.TrimPrefix(s, "-")
	parts := strings.Split(body, ":")
	if len(parts) != 3 {
		return 0, syntaxError("time span", s)
	}

	var days int64
	hourPart := parts[0]
	if i := strings.IndexByte(hourPart, '.'); i >= 0 {
		d, err := strconv.ParseInt(hourPart[:i], 10, 64)
		if err != nil || d < 0 {
			return 0, syntaxError("time span", s)
		}
		days, hourPart = d, hourPart[i+1:]
	}
	hours, err := strconv.ParseInt(hourPart, 10, 64)
	if err != nil || hours < 0 || (days > 0 && hours > 23) {
		return 0, syntaxError("time span", s)
	}
	minutes, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, syntaxError("time span", s)
	}

	secPart, fracPart := parts[2], ""
	if i := strings.IndexByte(secPart, '.'); i >= 0 {
		secPart, fracPart = secPart[:i], secPart[i+1:]
	}
	secs, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil || secs < 0 || secs > 59 {
		return 0, syntaxError("time span", s)
	}
	var frac int64
	if fracPart != "" {
		if len(fracPart) > 7 {
			return 0, syntaxError("time span", s)
		}
		frac, err = strconv.ParseInt(fracPart+strings.Repeat("0", 7-len(fracPart)), 10, 64)
		if err != nil || frac < 0 {
			return 0, syntaxError("time span", s)
		}
	}

	ts := timing.TimeSpan(days)*timing.TicksPerDay +
		timing.TimeSpan(hours)*timing.TicksPerHour +
		timing.TimeSpan(minutes)*timing.TicksPerMinute +
		timing.TimeSpan(secs)*timing.TicksPerSecond +
		timing.TimeSpan(frac)
	if neg {
		ts = -ts
	}
	return ts, nil
}

// ParseDuration reads "Automatic", "Forever" or a time span. The empty
// string is Automatic.
func ParseDuration(s string) (timing.Duration, error) {
	switch strings.TrimSpace(s) {
	case "", "Automatic":
		return timing.Automatic, nil
	case "Forever":
		return timing.Forever, nil
	}
	ts, err := ParseTimeSpan(s)
	if err != nil {
		return timing.Duration{}, err
	}
	return timing.DurationOf(ts), nil
}

// ParseRepeatBehavior reads "Forever", an iteration count such as "3x" or
// "1.5x", or a time span. The empty string is one iteration.
func ParseRepeatBehavior(s string) (timing.RepeatBehavior, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return timing.RepeatCount(1), nil
	case s == "Forever":
		return timing.RepeatForever, nil
	case strings.HasSuffix(s, "x"):
		n, err := strconv.ParseFloat(strings.TrimSuffix(s, "x"), 64)
		if err != nil || n < 0 {
			return timing.RepeatBehavior{}, syntaxError("repeat behavior", s)
		}
		return timing.RepeatCount(n), nil
	}
	ts, err := ParseTimeSpan(s)
	if err != nil {
		return timing.RepeatBehavior{}, err
	}
	return timing.RepeatDuration(ts), nil
}

// ParseFillBehavior reads "HoldEnd" or "Stop". The empty string is HoldEnd.
func ParseFillBehavior(s string) (timing.FillBehavior, error) {
	switch strings.TrimSpace(s) {
	case "", "HoldEnd":
		return timing.FillHoldEnd, nil
	case "Stop":
		return timing.FillStop, nil
	}
	return 0, syntaxError("fill behavior", s)
}

// ParseKeyTime reads "Uniform", "Paced", a percentage such as "25%" or a
// time span. The empty string is Uniform.
func ParseKeyTime(s string) (animation.KeyTime, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == "Uniform":
		return animation.Uniform, nil
	case s == "Paced":
		return animation.Paced, nil
	case strings.HasSuffix(s, "%"):
		p, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return animation.KeyTime{}, syntaxError("key time", s)
		}
		return animation.Percent(p / 100), nil
	}
	ts, err := ParseTimeSpan(s)
	if err != nil {
		return animation.KeyTime{}, err
	}
	return animation.At(ts), nil
}

// ParseKeySpline reads two control points, "x1,y1 x2,y2".
func ParseKeySpline(s string) (animation.KeySpline, error) {
	f, err := parseFloats(s, 4)
	if err != nil {
		return animation.KeySpline{}, syntaxError("key spline", s)
	}
	return animation.KeySpline{X1: f[0], Y1: f[1], X2: f[2], Y2: f[3]}, nil
}

// ParseColor reads "#rrggbb" or "#aarrggbb".
func ParseColor(s string) (animation.Color, error) {
	s = strings.TrimSpace(s)
	alpha := 1.0
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[1:3], 16, 8)
		if err != nil {
			return animation.Color{}, syntaxError("colour", s)
		}
		alpha = float64(a) / 255
		s = "#" + s[3:]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return animation.Color{}, syntaxError("colour", s)
	}
	return animation.Color{Color: c, A: alpha}, nil
}

// ParsePoint reads "x,y".
func ParsePoint(s string) (animation.Point, error) {
	f, err := parseFloats(s, 2)
	if err != nil {
		return animation.Point{}, syntaxError("point", s)
	}
	return animation.Point{X: f[0], Y: f[1]}, nil
}

// ParseValue reads a value of kind k.
func ParseValue(k animation.Kind, s string) (animation.Value, error) {
	switch k {
	case animation.KindDouble:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return animation.Value{}, syntaxError("double", s)
		}
		return animation.DoubleValue(f), nil
	case animation.KindColor:
		c, err := ParseColor(s)
		return animation.ColorValue(c), err
	case animation.KindPoint:
		p, err := ParsePoint(s)
		return animation.PointValue(p), err
	}
	return animation.Value{}, errors.Errorf("unsupported kind %v", k)
}

// ParseKind reads "double", "color" or "point".
func ParseKind(s string) (animation.Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "double":
		return animation.KindDouble, nil
	case "color", "colour":
		return animation.KindColor, nil
	case "point":
		return animation.KindPoint, nil
	}
	return 0, syntaxError("kind", s)
}

// ParseInterpolation reads "Discrete", "Linear" or "Spline". The empty
// string is Linear.
func ParseInterpolation(s string) (animation.Interpolation, error) {
	switch strings.TrimSpace(s) {
	case "", "Linear":
		return animation.Linear, nil
	case "Discrete":
		return animation.Discrete, nil
	case "Spline":
		return animation.Spline, nil
	}
	return 0, syntaxError("interpolation", s)
}

func parseFloats(s string, n int) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(fields) != n {
		return nil, ErrSyntax
	}
	out := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
