package stream

import (
	"context"
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"github.com/matt-g-everett/ledtime/animation"
	"github.com/matt-g-everett/ledtime/document"
	"github.com/matt-g-everett/ledtime/timing"
)

// ErrUnknownStoryboard is returned for a storyboard name the controller
// does not know.
var ErrUnknownStoryboard = errors.New("unknown storyboard")

// Control actions.
const (
	ActionBegin  = "begin"
	ActionPause  = "pause"
	ActionResume = "resume"
	ActionStop   = "stop"
	ActionSkip   = "skip"
	ActionSeek   = "seek"
	ActionNext   = "next"
)

// ControlMessage is the JSON accepted on the control topic.
type ControlMessage struct {
	Action     string `json:"action"`
	Storyboard string `json:"storyboard"`
	// To is the seek target, e.g. "00:00:02.5".
	To string `json:"to"`
}

// StoryboardStatus describes one storyboard.
type StoryboardStatus struct {
	Name     string  `json:"name"`
	State    string  `json:"state"`
	Progress float64 `json:"progress"`
	Time     string  `json:"time"`
	Paused   bool    `json:"paused"`
	Current  bool    `json:"current"`
	RunID    string  `json:"runId,omitempty"`
}

// Controller owns the storyboards of a scene and decides which one plays.
// A playlist cycles through storyboards every interval, or whenever the
// current one completes when no interval is set, crossfading between them.
//
// Apart from Do and HandleMessage, methods must be called on the tick
// goroutine.
type Controller struct {
	scene       *animation.Scene
	streamer    *Streamer
	storyboards map[string]*animation.Storyboard
	names       []string

	playlist   []string
	interval   time.Duration
	transition time.Duration
	next       int
	timeout    timing.TimeoutID

	current string
}

// NewController creates a controller for storyboards. Every playlist entry
// in config must name one of them.
func NewController(config Config, scene *animation.Scene, streamer *Streamer,
	storyboards []*animation.Storyboard) (*Controller, error) {

	c := new(Controller)
	c.scene = scene
	c.streamer = streamer
	c.storyboards = make(map[string]*animation.Storyboard)
	for _, sb := range storyboards {
		if _, dup := c.storyboards[sb.Name]; dup {
			return nil, errors.Errorf("duplicate storyboard %q", sb.Name)
		}
		c.storyboards[sb.Name] = sb
		c.names = append(c.names, sb.Name)
		sb.OnCompleted(c.completed)
	}

	for _, name := range config.Playlist.Storyboards {
		if _, ok := c.storyboards[name]; !ok {
			return nil, errors.Wrapf(ErrUnknownStoryboard, "playlist entry %q", name)
		}
	}
	c.playlist = config.Playlist.Storyboards

	var err error
	if c.interval, err = config.PlaylistInterval(); err != nil {
		return nil, err
	}
	if c.transition, err = config.TransitionTime(); err != nil {
		return nil, err
	}
	return c, nil
}

// Manager returns the time manager the controller runs on.
func (c *Controller) Manager() *timing.Manager { return c.scene.Manager }

// Current returns the name of the storyboard playing, if any.
func (c *Controller) Current() string { return c.current }

// Start begins the first playlist entry and, with an interval, schedules
// the rest.
func (c *Controller) Start() error {
	if len(c.playlist) == 0 {
		return nil
	}
	if err := c.Next(); err != nil {
		return err
	}
	if c.interval > 0 {
		c.timeout = c.Manager().AddTimeout(c.interval, func() bool {
			if err := c.Next(); err != nil {
				log.WithError(err).Error("advancing playlist")
			}
			return true
		})
	}
	return nil
}

// Close cancels the playlist timer.
func (c *Controller) Close() {
	if c.timeout != 0 {
		c.Manager().RemoveTimeout(c.timeout)
		c.timeout = 0
	}
}

// Next begins the next playlist entry.
func (c *Controller) Next() error {
	if len(c.playlist) == 0 {
		return errors.New("playlist is empty")
	}
	name := c.playlist[c.next%len(c.playlist)]
	c.next = (c.next + 1) % len(c.playlist)
	return c.Begin(name)
}

func (c *Controller) completed(sb *animation.Storyboard) {
	if c.interval > 0 || len(c.playlist) < 2 || sb.Name != c.current {
		return
	}
	// The tree is raising events; begin the next entry once they are done.
	c.Manager().AddTickCall(func(interface{}) {
		if err := c.Next(); err != nil {
			log.WithError(err).Error("advancing playlist")
		}
	}, c)
}

func (c *Controller) lookup(name string) (*animation.Storyboard, error) {
	sb, ok := c.storyboards[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownStoryboard, "%q", name)
	}
	return sb, nil
}

// Begin starts the named storyboard, replacing the one playing.
func (c *Controller) Begin(name string) error {
	sb, err := c.lookup(name)
	if err != nil {
		return err
	}
	if c.streamer != nil && c.current != "" {
		if err := c.streamer.Crossfade(c.transition); err != nil {
			log.WithError(err).Warn("crossfade")
		}
	}
	if prev, ok := c.storyboards[c.current]; ok && c.current != name {
		prev.Remove()
	}
	if err := sb.Begin(c.scene); err != nil {
		return err
	}
	c.current = name
	log.WithField("storyboard", name).Info("playing")
	return nil
}

// Pause pauses the named storyboard.
func (c *Controller) Pause(name string) error {
	return c.with(name, (*animation.Storyboard).Pause)
}

// Resume resumes the named storyboard.
func (c *Controller) Resume(name string) error {
	return c.with(name, (*animation.Storyboard).Resume)
}

// Stop stops the named storyboard.
func (c *Controller) Stop(name string) error {
	return c.with(name, (*animation.Storyboard).Stop)
}

// Skip jumps the named storyboard to its fill period.
func (c *Controller) Skip(name string) error {
	return c.with(name, (*animation.Storyboard).SkipToFill)
}

// Seek moves the named storyboard to to.
func (c *Controller) Seek(name string, to timing.TimeSpan) error {
	return c.with(name, func(sb *animation.Storyboard) error { return sb.Seek(to) })
}

func (c *Controller) with(name string, fn func(*animation.Storyboard) error) error {
	sb, err := c.lookup(name)
	if err != nil {
		return err
	}
	if err := fn(sb); err != nil {
		return errors.Wrapf(err, "storyboard %q", name)
	}
	c.Manager().NeedRedraw()
	return nil
}

// Status describes the named storyboard.
func (c *Controller) Status(name string) (StoryboardStatus, error) {
	sb, err := c.lookup(name)
	if err != nil {
		return StoryboardStatus{}, err
	}
	st := StoryboardStatus{
		Name:     name,
		State:    sb.State().String(),
		Progress: sb.Progress(),
		Time:     sb.CurrentTime().String(),
		Paused:   sb.IsPaused(),
		Current:  name == c.current,
	}
	if sb.Clock() != timing.NoClock {
		st.RunID = sb.RunID().String()
	}
	return st, nil
}

// List describes every storyboard in document order.
func (c *Controller) List() []StoryboardStatus {
	out := make([]StoryboardStatus, 0, len(c.names))
	for _, name := range c.names {
		st, _ := c.Status(name)
		out = append(out, st)
	}
	return out
}

// Apply carries out a control message.
func (c *Controller) Apply(m ControlMessage) error {
	switch m.Action {
	case ActionBegin:
		return c.Begin(m.Storyboard)
	case ActionPause:
		return c.Pause(m.Storyboard)
	case ActionResume:
		return c.Resume(m.Storyboard)
	case ActionStop:
		return c.Stop(m.Storyboard)
	case ActionSkip:
		return c.Skip(m.Storyboard)
	case ActionNext:
		return c.Next()
	case ActionSeek:
		to, err := document.ParseTimeSpan(m.To)
		if err != nil {
			return err
		}
		return c.Seek(m.Storyboard, to)
	}
	return errors.Errorf("unknown action %q", m.Action)
}

// Do runs fn on the tick goroutine and waits for its result.
func (c *Controller) Do(ctx context.Context, fn func(*Controller) error) error {
	done := make(chan error, 1)
	err := c.Manager().AddTickCall(func(interface{}) { done <- fn(c) }, c)
	if err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleMessage is the MQTT handler for the control topic.
func (c *Controller) HandleMessage(client mqtt.Client, msg mqtt.Message) {
	log.Debugf("received msg %d on %s: %s", msg.MessageID(), msg.Topic(), msg.Payload())

	var m ControlMessage
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		log.WithError(err).Warn("bad control message")
		return
	}
	err := c.Manager().AddTickCall(func(interface{}) {
		if err := c.Apply(m); err != nil {
			log.WithError(err).WithField("action", m.Action).Warn("control message failed")
		}
	}, c)
	if err != nil {
		log.WithError(err).Warn("dropping control message")
	}
}

// Subscribe listens for control messages on topic.
func (c *Controller) Subscribe(client mqtt.Client, topic string, qos byte) {
	if topic == "" {
		return
	}
	token := client.Subscribe(topic, qos, c.HandleMessage)
	go func() {
		<-token.Done()
		if err := token.Error(); err != nil {
			log.WithError(err).WithField("topic", topic).Error("subscribe failed")
			return
		}
		log.WithField("topic", topic).Info("subscribed")
	}()
}
