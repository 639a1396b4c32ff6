package stream

import (
	"context"
	"errors"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/ledtime/animation"
	"github.com/matt-g-everett/ledtime/timing"
)

func newController(t *testing.T, f *fixture, playlist ...string) *Controller {
	t.Helper()
	var cfg Config
	cfg.Playlist.Storyboards = playlist
	c, err := NewController(cfg, f.scene, f.streamer, []*animation.Storyboard{
		fade("dim", PropOpacity, 1, 0, 1),
		fade("rainbow", "Trail.Mix", 0, 1, 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestControllerBeginAndStatus(t *testing.T) {
	f := newFixture(t, 4)
	c := newController(t, f)

	if err := c.Begin("dim"); err != nil {
		t.Fatal(err)
	}
	f.tickAt(0)
	f.tickAt(0.5)

	st, err := c.Status("dim")
	if err != nil {
		t.Fatal(err)
	}
	if st.State != "active" || !approx(st.Progress, 0.5) || !st.Current || st.RunID == "" {
		t.Errorf("Status(dim) = %+v, want the current active run half way", st)
	}
	if st, _ := c.Status("rainbow"); st.State != "stopped" || st.Current || st.RunID != "" {
		t.Errorf("Status(rainbow) = %+v, want stopped without a run", st)
	}
	if !approx(f.strip.opacity, 0.5) {
		t.Errorf("Opacity = %v, want 0.5", f.strip.opacity)
	}

	// Beginning another storyboard removes the first and restores its
	// properties.
	if err := c.Begin("rainbow"); err != nil {
		t.Fatal(err)
	}
	if f.strip.opacity != 1 {
		t.Errorf("Opacity after switching = %v, want 1", f.strip.opacity)
	}
	if c.Current() != "rainbow" {
		t.Errorf("Current() = %q, want rainbow", c.Current())
	}

	list := c.List()
	if len(list) != 2 || list[0].Name != "dim" || list[1].Name != "rainbow" {
		t.Errorf("List() = %+v, want dim then rainbow", list)
	}
}

func TestControllerErrors(t *testing.T) {
	f := newFixture(t, 4)
	c := newController(t, f)

	if err := c.Begin("snow"); !errors.Is(err, ErrUnknownStoryboard) {
		t.Errorf("Begin(snow) = %v, want ErrUnknownStoryboard", err)
	}
	if _, err := c.Status("snow"); !errors.Is(err, ErrUnknownStoryboard) {
		t.Errorf("Status(snow) = %v, want ErrUnknownStoryboard", err)
	}
	if err := c.Seek("dim", 0); !errors.Is(err, timing.ErrNotStarted) {
		t.Errorf("Seek before Begin = %v, want ErrNotStarted", err)
	}

	var cfg Config
	cfg.Playlist.Storyboards = []string{"snow"}
	if _, err := NewController(cfg, f.scene, nil, nil); !errors.Is(err, ErrUnknownStoryboard) {
		t.Errorf("NewController with unknown playlist entry = %v, want ErrUnknownStoryboard", err)
	}
	_, err := NewController(Config{}, f.scene, nil, []*animation.Storyboard{
		fade("dim", PropOpacity, 1, 0, 1),
		fade("dim", PropOpacity, 0, 1, 1),
	})
	if err == nil {
		t.Error("NewController accepted duplicate storyboards")
	}
}

func TestControllerApply(t *testing.T) {
	f := newFixture(t, 4)
	c := newController(t, f)
	if err := c.Apply(ControlMessage{Action: ActionBegin, Storyboard: "dim"}); err != nil {
		t.Fatal(err)
	}
	f.tickAt(0)

	tests := []struct {
		msg     ControlMessage
		wantErr bool
		paused  bool
	}{
		{ControlMessage{Action: ActionPause, Storyboard: "dim"}, false, true},
		{ControlMessage{Action: ActionResume, Storyboard: "dim"}, false, false},
		{ControlMessage{Action: ActionSeek, Storyboard: "dim", To: "00:00:00.5"}, false, false},
		{ControlMessage{Action: ActionSeek, Storyboard: "dim", To: "soon"}, true, false},
		{ControlMessage{Action: "explode", Storyboard: "dim"}, true, false},
		{ControlMessage{Action: ActionPause, Storyboard: "snow"}, true, false},
	}
	for _, tt := range tests {
		err := c.Apply(tt.msg)
		if (err != nil) != tt.wantErr {
			t.Errorf("Apply(%+v) = %v, want error %v", tt.msg, err, tt.wantErr)
		}
		if st, _ := c.Status("dim"); st.Paused != tt.paused {
			t.Errorf("after %+v paused = %v, want %v", tt.msg, st.Paused, tt.paused)
		}
	}

	f.tickAt(0.1)
	if !approx(f.strip.opacity, 0.5) {
		t.Errorf("Opacity after seek = %v, want 0.5", f.strip.opacity)
	}

	if err := c.Apply(ControlMessage{Action: ActionSkip, Storyboard: "dim"}); err != nil {
		t.Fatal(err)
	}
	if f.strip.opacity != 0 {
		t.Errorf("Opacity after skip = %v, want 0", f.strip.opacity)
	}
	if err := c.Apply(ControlMessage{Action: ActionStop, Storyboard: "dim"}); err != nil {
		t.Fatal(err)
	}
	if f.strip.opacity != 1 {
		t.Errorf("Opacity after stop = %v, want 1", f.strip.opacity)
	}
	if err := c.Apply(ControlMessage{Action: ActionNext}); err == nil {
		t.Error("next with an empty playlist succeeded")
	}
}

func TestPlaylistAdvancesOnCompletion(t *testing.T) {
	f := newFixture(t, 4)
	c := newController(t, f, "dim", "rainbow")
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	steps := []struct {
		at      float64
		current string
	}{
		{0, "dim"},
		{0.5, "dim"},
		{1, "rainbow"},
		{1.5, "rainbow"},
		{2.5, "dim"},
	}
	for _, s := range steps {
		f.tickAt(s.at)
		if got := c.Current(); got != s.current {
			t.Errorf("at %vs Current() = %q, want %q", s.at, got, s.current)
		}
	}
}

func TestPlaylistInterval(t *testing.T) {
	f := newFixture(t, 4)
	var cfg Config
	cfg.Playlist.Storyboards = []string{"dim", "rainbow"}
	cfg.Playlist.Interval = "10ms"
	c, err := NewController(cfg, f.scene, f.streamer, []*animation.Storyboard{
		fade("dim", PropOpacity, 1, 0, 1),
		fade("rainbow", "Trail.Mix", 0, 1, 1),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	deadline := time.Now().Add(5 * time.Second)
	for c.Current() != "rainbow" {
		if time.Now().After(deadline) {
			t.Fatal("playlist did not advance")
		}
		time.Sleep(time.Millisecond)
		f.src.Tick()
	}
}

func TestControllerDo(t *testing.T) {
	f := newFixture(t, 4)
	c := newController(t, f)

	errc := make(chan error, 1)
	go func() {
		errc <- c.Do(context.Background(), func(c *Controller) error { return c.Begin("dim") })
	}()

	deadline := time.Now().Add(5 * time.Second)
	for {
		select {
		case err := <-errc:
			if err != nil {
				t.Fatal(err)
			}
			if c.Current() != "dim" {
				t.Errorf("Current() = %q, want dim", c.Current())
			}
			return
		default:
		}
		if time.Now().After(deadline) {
			t.Fatal("Do did not return")
		}
		time.Sleep(time.Millisecond)
		f.src.Tick()
	}
}

func TestControllerDoCancelled(t *testing.T) {
	f := newFixture(t, 4)
	c := newController(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Do(ctx, func(*Controller) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("Do with cancelled context = %v, want context.Canceled", err)
	}

	f.manager.Shutdown()
	if err := c.Do(context.Background(), func(*Controller) error { return nil }); !errors.Is(err, timing.ErrManagerShutdown) {
		t.Errorf("Do after Shutdown = %v, want ErrManagerShutdown", err)
	}
}

type fakeMessage struct {
	mqtt.Message
	payload []byte
}

func (m fakeMessage) Topic() string     { return "home/tree/control" }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }

func TestHandleMessage(t *testing.T) {
	f := newFixture(t, 4)
	c := newController(t, f)

	c.HandleMessage(nil, fakeMessage{payload: []byte(`{"action":"begin","storyboard":"rainbow"}`)})
	c.HandleMessage(nil, fakeMessage{payload: []byte(`not json`)})
	if c.Current() != "" {
		t.Fatal("control message applied before the next tick")
	}
	f.tickAt(0)
	if c.Current() != "rainbow" {
		t.Errorf("Current() = %q, want rainbow", c.Current())
	}
}
