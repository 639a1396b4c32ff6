package stream

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/matt-g-everett/ledtime/animation"
)

func TestStreamerPublishesOnRender(t *testing.T) {
	f := newFixture(t, 4)
	f.streamer.Start()

	f.tickAt(0)
	if len(f.sent) != 1 {
		t.Fatalf("published %d frames after Start, want 1", len(f.sent))
	}
	p := f.sent[0]
	if p.topic != "home/tree/stream" {
		t.Errorf("topic = %q, want home/tree/stream", p.topic)
	}
	if len(p.payload) != 2+4*3 || binary.LittleEndian.Uint16(p.payload) != 4 {
		t.Errorf("payload = %v, want a 4 pixel frame", p.payload)
	}

	// Nothing changed, nothing to publish.
	f.tickAt(0.1)
	if len(f.sent) != 1 {
		t.Errorf("published %d frames on an idle tick, want 1", len(f.sent))
	}

	// A running storyboard publishes every tick.
	if err := fade("dim", PropOpacity, 1, 0, 1).Begin(f.scene); err != nil {
		t.Fatal(err)
	}
	f.tickAt(0.2)
	f.tickAt(0.3)
	if len(f.sent) != 3 {
		t.Errorf("published %d frames while animating, want 3", len(f.sent))
	}

	f.streamer.Stop()
	f.tickAt(0.4)
	if len(f.sent) != 3 {
		t.Errorf("published %d frames after Stop, want 3", len(f.sent))
	}
}

func TestStreamerKeepsSparklesMoving(t *testing.T) {
	f := newFixture(t, 10)
	f.strip.SetValue(PropSparkle, animation.DoubleValue(0.5))
	f.streamer.Start()
	for i := 0; i < 5; i++ {
		f.tickAt(float64(i) / 10)
	}
	if len(f.sent) != 5 {
		t.Errorf("published %d frames, want 5", len(f.sent))
	}
}

func TestCrossfade(t *testing.T) {
	f := newFixture(t, 2)
	f.strip.SetValue(PropBackground, animation.ColorValue(white))
	f.streamer.Start()
	f.tickAt(0)

	f.strip.SetValue(PropBackground, animation.ColorValue(animation.Opaque(black)))
	if err := f.streamer.Crossfade(time.Second); err != nil {
		t.Fatal(err)
	}
	if !f.streamer.Fading() {
		t.Fatal("Fading() = false after Crossfade")
	}

	steps := []struct {
		at     float64
		grey   float64
		fading bool
	}{
		{0.1, 1, true},
		{0.6, 0.5, true},
		{1.1, 0, false},
	}
	for _, s := range steps {
		f.tickAt(s.at)
		if got := f.streamer.Shown()[0].At(0).R; !approx(got, s.grey) {
			t.Errorf("at %vs pixel = %v, want %v", s.at, got, s.grey)
		}
		if got := f.streamer.Fading(); got != s.fading {
			t.Errorf("at %vs Fading() = %v, want %v", s.at, got, s.fading)
		}
	}
}

func TestCrossfadeWithoutFrames(t *testing.T) {
	f := newFixture(t, 2)
	if err := f.streamer.Crossfade(time.Second); err != nil {
		t.Fatal(err)
	}
	if f.streamer.Fading() {
		t.Error("Fading() = true with nothing shown")
	}
}
