package stream

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pkg/errors"

	"github.com/matt-g-everett/ledtime/animation"
	"github.com/matt-g-everett/ledtime/util"
)

// Strip properties.
const (
	PropBackground = "Background"
	PropForeground = "Foreground"
	PropOpacity    = "Opacity"
	PropWindow     = "Window"
	PropSparkle    = "Sparkle"
	PropTrail      = "Trail"
	PropPosition   = "Position"
	PropHue        = "Hue"
	PropMix        = "Mix"
)

const sparkleSteps = 40

// Strip is an LED strip driven by animations. Its properties describe the
// picture; Render turns them into a Frame.
//
//	Background  colour of every pixel
//	Foreground  colour of the window and of sparkles
//	Opacity     overall brightness, 0 to 1
//	Window      point X..Y, the fraction of the strip lit in Foreground
//	Sparkle     fraction of pixels twinkling in Foreground
//	Trail       a gradient running along the strip: Position, Hue, Mix
type Strip struct {
	config StripConfig

	background animation.Color
	foreground animation.Color
	opacity    float64
	window     animation.Point
	sparkle    float64
	trail      *Trail

	rand      *rand.Rand
	lut       []float64
	particles map[int]*particle
}

type particle struct {
	step       int
	saturation float64
}

// Trail is the gradient layer of a strip.
type Trail struct {
	// Position shifts the gradient along the strip, in strip lengths.
	Position float64
	// Hue rotates the gradient, in degrees.
	Hue float64
	// Mix blends the gradient over the background, 0 to 1.
	Mix float64
}

// NewStrip creates a black, fully opaque strip.
func NewStrip(config StripConfig, seed int64) *Strip {
	s := new(Strip)
	s.config = config
	s.background = animation.Opaque(colorful.Color{})
	s.foreground = animation.Opaque(colorful.Color{R: 0.5, G: 0.5, B: 0.5})
	s.opacity = 1
	s.trail = new(Trail)
	s.rand = rand.New(rand.NewSource(seed))
	s.lut = util.GenerateLut(sparkleSteps)
	s.particles = make(map[int]*particle)
	return s
}

// Name returns the configured name.
func (s *Strip) Name() string { return s.config.Name }

// Topic returns the MQTT topic frames are published on.
func (s *Strip) Topic() string { return s.config.Topic }

// GetValue implements animation.Target.
func (s *Strip) GetValue(property string) (animation.Value, error) {
	switch property {
	case PropBackground:
		return animation.ColorValue(s.background), nil
	case PropForeground:
		return animation.ColorValue(s.foreground), nil
	case PropOpacity:
		return animation.DoubleValue(s.opacity), nil
	case PropWindow:
		return animation.PointValue(s.window), nil
	case PropSparkle:
		return animation.DoubleValue(s.sparkle), nil
	}
	return animation.Value{}, errors.Wrapf(animation.ErrUnknownProperty, "strip %s", property)
}

// SetValue implements animation.Target.
func (s *Strip) SetValue(property string, v animation.Value) error {
	cur, err := s.GetValue(property)
	if err != nil {
		return err
	}
	if cur.Kind() != v.Kind() {
		return errors.Wrapf(animation.ErrKindMismatch, "strip %s", property)
	}
	switch property {
	case PropBackground:
		s.background = v.Color()
	case PropForeground:
		s.foreground = v.Color()
	case PropOpacity:
		s.opacity = v.Double()
	case PropWindow:
		s.window = v.Point()
	case PropSparkle:
		s.sparkle = v.Double()
	}
	return nil
}

// SubTarget implements animation.SubTargeter.
func (s *Strip) SubTarget(property string) (animation.Target, error) {
	if property != PropTrail {
		return nil, errors.Wrapf(animation.ErrUnknownProperty, "strip %s", property)
	}
	return s.trail, nil
}

// GetValue implements animation.Target.
func (t *Trail) GetValue(property string) (animation.Value, error) {
	switch property {
	case PropPosition:
		return animation.DoubleValue(t.Position), nil
	case PropHue:
		return animation.DoubleValue(t.Hue), nil
	case PropMix:
		return animation.DoubleValue(t.Mix), nil
	}
	return animation.Value{}, errors.Wrapf(animation.ErrUnknownProperty, "trail %s", property)
}

// SetValue implements animation.Target.
func (t *Trail) SetValue(property string, v animation.Value) error {
	if v.Kind() != animation.KindDouble {
		return errors.Wrapf(animation.ErrKindMismatch, "trail %s", property)
	}
	switch property {
	case PropPosition:
		t.Position = v.Double()
	case PropHue:
		t.Hue = v.Double()
	case PropMix:
		t.Mix = v.Double()
	default:
		return errors.Wrapf(animation.ErrUnknownProperty, "trail %s", property)
	}
	return nil
}

// Render draws the strip's current properties into a new frame. Sparkles
// advance one step per call.
func (s *Strip) Render() *Frame {
	n := s.config.Pixels
	f := NewFrame(n)
	s.updateSparkles(n)

	mix := clampUnit(s.trail.Mix)
	for i := 0; i < n; i++ {
		t := (float64(i) + 0.5) / float64(n)
		c := s.background.Color.BlendRgb(colorful.Color{}, 1-clampUnit(s.background.A))

		if mix > 0 {
			pos := t + s.trail.Position
			pos -= math.Floor(pos)
			g := s.config.Gradient.GetColor(pos, 1.0, s.config.Luminance, s.trail.Hue)
			c = c.BlendRgb(g, mix)
		}
		if s.window.X <= t && t <= s.window.Y {
			c = c.BlendRgb(s.foreground.Color, clampUnit(s.foreground.A))
		}
		if p, ok := s.particles[i]; ok {
			h, _, l := s.foreground.Hsl()
			spark := colorful.Hsl(h, p.saturation, l)
			c = c.BlendRgb(spark, s.lut[p.step]*clampUnit(s.foreground.A))
		}

		o := clampUnit(s.opacity)
		f.pixels[i] = colorful.Color{R: c.R * o, G: c.G * o, B: c.B * o}
	}
	return f
}

// updateSparkles keeps round(Sparkle*n) particles alive, moving each one
// through the intensity table and respawning it elsewhere when it ends.
func (s *Strip) updateSparkles(n int) {
	want := int(math.Round(clampUnit(s.sparkle) * float64(n)))
	for i, p := range s.particles {
		p.step++
		if p.step >= len(s.lut) || len(s.particles) > want {
			delete(s.particles, i)
		}
	}
	for tries := 0; len(s.particles) < want && tries < 4*n; tries++ {
		i := s.rand.Intn(n)
		if _, taken := s.particles[i]; taken {
			continue
		}
		s.particles[i] = &particle{
			step:       s.rand.Intn(len(s.lut)),
			saturation: util.RandomBetween(s.rand, 0.6, 1.0),
		}
	}
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// NewStrips creates a strip per configuration and a name scope resolving
// each by name. Strip i is seeded with seed+i.
func NewStrips(configs []StripConfig, seed int64) ([]*Strip, animation.Names) {
	strips := make([]*Strip, len(configs))
	names := make(animation.Names, len(configs))
	for i, sc := range configs {
		strips[i] = NewStrip(sc, seed+int64(i))
		names[sc.Name] = strips[i]
	}
	return strips, names
}
