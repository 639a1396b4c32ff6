package stream

import (
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/ledtime/timing"
)

// PublishFunc sends one encoded frame to a topic. It must not block the
// tick goroutine.
type PublishFunc func(topic string, payload []byte) error

// MQTTPublisher publishes frames with client. Delivery errors are logged
// once the broker answers.
func MQTTPublisher(client mqtt.Client, qos byte) PublishFunc {
	return func(topic string, payload []byte) error {
		token := client.Publish(topic, qos, false, payload)
		go func() {
			<-token.Done()
			if err := token.Error(); err != nil {
				log.WithError(err).WithField("topic", topic).Warn("publish failed")
			}
		}()
		return nil
	}
}

// Streamer renders every strip when the time manager asks for a redraw and
// publishes the frames. It can crossfade from what is currently shown to
// whatever the strips render next.
type Streamer struct {
	manager *timing.Manager
	strips  []*Strip
	publish PublishFunc

	shown []*Frame
	fade  *crossfade

	removeRender func()
	removeInput  func()
}

// crossfade drives the blend between a snapshot and the live frames from
// a timing clock.
type crossfade struct {
	clock    timing.ClockID
	from     []*Frame
	progress float64
}

func (f *crossfade) Ticked(c *timing.Clock) { f.progress = c.Progress() }

func (f *crossfade) Released(*timing.Clock) { f.progress = 1 }

// NewStreamer creates a Streamer for strips.
func NewStreamer(m *timing.Manager, strips []*Strip, publish PublishFunc) *Streamer {
	s := new(Streamer)
	s.manager = m
	s.strips = strips
	s.publish = publish
	return s
}

// Start hooks the streamer into the time manager.
func (s *Streamer) Start() {
	if s.removeRender != nil {
		return
	}
	s.removeInput = s.manager.AddUpdateInputHandler(s.updateInput)
	s.removeRender = s.manager.AddRenderHandler(s.render)
	s.manager.NeedRedraw()
}

// Stop unhooks the streamer.
func (s *Streamer) Stop() {
	if s.removeRender == nil {
		return
	}
	s.removeRender()
	s.removeInput()
	s.removeRender, s.removeInput = nil, nil
}

// Shown returns the frames most recently published, one per strip.
func (s *Streamer) Shown() []*Frame { return s.shown }

// Fading reports whether a crossfade is running.
func (s *Streamer) Fading() bool { return s.fade != nil }

// Crossfade blends from the frames currently shown to the live frames over
// d. It must be called on the tick goroutine.
func (s *Streamer) Crossfade(d time.Duration) error {
	s.endFade()
	if d <= 0 || s.shown == nil {
		return nil
	}

	tl := timing.NewTimeline()
	tl.Name = "crossfade"
	tl.Duration = timing.DurationOf(timing.FromDuration(d))
	tl.FillBehavior = timing.FillStop

	tree := s.manager.Tree()
	id, err := tree.Realize(&tl)
	if err != nil {
		return err
	}
	f := &crossfade{clock: id, from: make([]*Frame, len(s.shown))}
	for i, fr := range s.shown {
		f.from[i] = fr.Clone()
	}
	if err := tree.SetDriver(id, f); err != nil {
		return err
	}
	if err := tree.AddChild(s.manager.Root(), id); err != nil {
		return err
	}
	s.fade = f
	return tree.Begin(id)
}

func (s *Streamer) endFade() {
	if s.fade == nil {
		return
	}
	if err := s.manager.Tree().RemoveChild(s.manager.Root(), s.fade.clock); err != nil {
		log.WithError(err).Debug("removing crossfade")
	}
	s.fade = nil
}

// updateInput keeps frames flowing while a strip sparkles, since sparkles
// move without any clock changing.
func (s *Streamer) updateInput(timing.TimeSpan) {
	for _, st := range s.strips {
		if st.sparkle > 0 {
			s.manager.NeedRedraw()
			return
		}
	}
}

func (s *Streamer) render(timing.TimeSpan) {
	if s.fade != nil && s.fade.progress >= 1 {
		s.endFade()
	}

	shown := make([]*Frame, len(s.strips))
	for i, st := range s.strips {
		f := st.Render()
		if s.fade != nil && i < len(s.fade.from) {
			f = s.fade.from[i].InterpolateFrame(f, s.fade.progress)
		}
		shown[i] = f

		b, err := f.MarshalBinary()
		if err != nil {
			log.WithError(err).WithField("strip", st.Name()).Error("encoding frame")
			continue
		}
		if err := s.publish(st.Topic(), b); err != nil {
			log.WithError(err).WithField("strip", st.Name()).Warn("publish failed")
		}
	}
	s.shown = shown
}
