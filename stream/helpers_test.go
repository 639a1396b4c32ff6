package stream

import (
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/ledtime/animation"
	"github.com/matt-g-everett/ledtime/timing"
)

func seconds(s float64) timing.TimeSpan { return timing.FromSeconds(s) }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

var (
	white = animation.Opaque(colorful.Color{R: 1, G: 1, B: 1})
	black = colorful.Color{}
)

type published struct {
	topic   string
	payload []byte
}

// fixture is a single strip called "tree" on a manually ticked manager.
type fixture struct {
	src      *timing.ManualTimeSource
	manager  *timing.Manager
	strip    *Strip
	scene    *animation.Scene
	streamer *Streamer
	sent     []published
}

func newFixture(t *testing.T, pixels int) *fixture {
	t.Helper()
	f := new(fixture)
	f.src = timing.NewManualTimeSource()
	f.manager = timing.NewManager(f.src)
	f.manager.Start()

	strips, names := NewStrips([]StripConfig{{
		Name:      "tree",
		Pixels:    pixels,
		Topic:     "home/tree/stream",
		Luminance: 0.05,
		Gradient:  RainbowGradient,
	}}, 1)
	f.strip = strips[0]
	f.scene = animation.NewScene(f.manager, names)
	f.streamer = NewStreamer(f.manager, strips, func(topic string, payload []byte) error {
		f.sent = append(f.sent, published{topic: topic, payload: payload})
		return nil
	})
	return f
}

func (f *fixture) tickAt(s float64) {
	f.src.SetCurrentTime(seconds(s))
	f.src.Tick()
}

func fade(name, property string, from, to, d float64) *animation.Storyboard {
	a := animation.FromTo(animation.DoubleValue(from), animation.DoubleValue(to), seconds(d))
	sb := animation.NewStoryboard(a)
	sb.Name = name
	sb.TargetName = "tree"
	sb.TargetProperty = property
	return sb
}
