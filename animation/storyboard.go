package animation

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/matt-g-everett/ledtime/timing"
)

// Scene is the context storyboards begin in: the time manager whose tree
// they join, the names their animations target and the storage table
// those animations share.
type Scene struct {
	Manager *timing.Manager
	Names   NameScope
	Storage *StorageTable
}

// NewScene returns a scene with an empty storage table.
func NewScene(m *timing.Manager, names NameScope) *Scene {
	return &Scene{Manager: m, Names: names, Storage: NewStorageTable()}
}

// Storyboard is a timeline group whose animations are bound to named
// targets when it begins. TargetName and TargetProperty are inherited by
// descendants that leave theirs empty.
type Storyboard struct {
	timing.TimelineGroup

	TargetName     string
	TargetProperty string

	scene     *Scene
	clock     timing.ClockID
	runID     uuid.UUID
	completed bool
	handlers  []CompletedHandler
}

// NewStoryboard returns a storyboard with default timing.
func NewStoryboard(children ...timing.Node) *Storyboard {
	return &Storyboard{TimelineGroup: *timing.NewTimelineGroup(children...)}
}

// Clock returns the clock of the current run, NoClock before Begin.
func (s *Storyboard) Clock() timing.ClockID { return s.clock }

// RunID identifies the current run.
func (s *Storyboard) RunID() uuid.UUID { return s.runID }

// CompletedHandler is notified when a storyboard run completes.
type CompletedHandler func(*Storyboard)

// OnCompleted registers fn to run once each time a run completes.
func (s *Storyboard) OnCompleted(fn CompletedHandler) {
	s.handlers = append(s.handlers, fn)
}

func (s *Storyboard) logger() *logrus.Entry {
	return log.WithFields(logrus.Fields{"storyboard": s.Name, "run": s.runID})
}

// Begin starts the storyboard in scene. Every animation is bound to its
// target and the whole tree is added under the manager's root, beginning
// at the next tick. A storyboard that is already running is stopped and
// replaced.
func (s *Storyboard) Begin(scene *Scene) error {
	// Validate before touching a running instance.
	if err := s.Validate(); err != nil {
		return err
	}
	tree := scene.Manager.Tree()
	s.Remove()

	id, err := tree.Realize(s)
	if err != nil {
		return err
	}
	if err := tree.AddChild(scene.Manager.Root(), id); err != nil {
		return err
	}
	if err := s.bind(scene, tree, s, id, s.TargetName, s.TargetProperty); err != nil {
		if rerr := tree.RemoveChild(scene.Manager.Root(), id); rerr != nil {
			s.logger().WithError(rerr).Warn("cannot detach the unbound clock")
		}
		return errors.Wrapf(err, "storyboard %q", s.Name)
	}

	s.scene = scene
	s.clock = id
	s.runID = uuid.New()
	s.completed = false
	tree.Clock(id).AddHandler(timing.Completed, func(timing.Event) {
		if s.completed {
			return
		}
		s.completed = true
		s.logger().Info("completed")
		for _, fn := range append([]CompletedHandler(nil), s.handlers...) {
			fn(s)
		}
	})
	if err := tree.Begin(id); err != nil {
		return err
	}
	s.logger().Info("begin")
	return nil
}

// bind walks the timeline tree alongside its clocks and attaches an
// AnimationClock to every animation.
func (s *Storyboard) bind(scene *Scene, tree *timing.Tree, n timing.Node, id timing.ClockID, name, prop string) error {
	switch n := n.(type) {
	case *Animation:
		ac, err := s.bindAnimation(scene, n, name, prop)
		if err != nil {
			return err
		}
		return tree.SetDriver(id, ac)
	case *Storyboard:
		if n.TargetName != "" {
			name = n.TargetName
		}
		if n.TargetProperty != "" {
			prop = n.TargetProperty
		}
	}
	g, ok := n.(timing.GroupNode)
	if !ok {
		return nil
	}
	c := tree.Clock(id)
	for i, child := range g.ChildTimelines() {
		if err := s.bind(scene, tree, child, c.Children()[i], name, prop); err != nil {
			return err
		}
	}
	return nil
}

func (s *Storyboard) bindAnimation(scene *Scene, a *Animation, name, prop string) (*AnimationClock, error) {
	if a.TargetName != "" {
		name = a.TargetName
	}
	if a.TargetProperty != "" {
		prop = a.TargetProperty
	}
	target := a.Target
	if target == nil {
		if name == "" || scene.Names == nil {
			return nil, errors.Wrapf(ErrNoTarget, "animation %q", a.Name)
		}
		var ok bool
		if target, ok = scene.Names.FindName(name); !ok {
			return nil, errors.Wrapf(ErrUnknownTarget, "%q", name)
		}
	}
	path, err := ParsePropertyPath(prop)
	if err != nil {
		return nil, err
	}
	owner, property, err := path.Resolve(target)
	if err != nil {
		return nil, err
	}
	v, err := owner.GetValue(property)
	if err != nil {
		return nil, errors.Wrapf(err, "%s.%s", name, path)
	}
	if v.Kind() != a.Kind {
		return nil, errors.Wrapf(ErrKindMismatch, "%s.%s is %v, animation is %v", name, path, v.Kind(), a.Kind)
	}
	return NewAnimationClock(a, owner, property, scene.Storage), nil
}

func (s *Storyboard) tree() (*timing.Tree, error) {
	if s.scene == nil || s.clock == timing.NoClock {
		return nil, timing.ErrNotStarted
	}
	return s.scene.Manager.Tree(), nil
}

// Pause freezes the storyboard.
func (s *Storyboard) Pause() error {
	tree, err := s.tree()
	if err != nil {
		return err
	}
	return tree.Pause(s.clock)
}

// Resume continues a paused storyboard.
func (s *Storyboard) Resume() error {
	tree, err := s.tree()
	if err != nil {
		return err
	}
	return tree.Resume(s.clock)
}

// Seek moves the storyboard to ts at the next tick.
func (s *Storyboard) Seek(ts timing.TimeSpan) error {
	tree, err := s.tree()
	if err != nil {
		return err
	}
	return tree.Seek(s.clock, ts)
}

// SeekAlignedToLastTick moves the storyboard to ts immediately.
func (s *Storyboard) SeekAlignedToLastTick(ts timing.TimeSpan) error {
	tree, err := s.tree()
	if err != nil {
		return err
	}
	return tree.SeekAlignedToLastTick(s.clock, ts)
}

// SkipToFill jumps to the end of the storyboard.
func (s *Storyboard) SkipToFill() error {
	tree, err := s.tree()
	if err != nil {
		return err
	}
	return tree.SkipToFill(s.clock)
}

// Stop stops the storyboard and returns every animated property to its
// base value.
func (s *Storyboard) Stop() error {
	tree, err := s.tree()
	if err != nil {
		return err
	}
	s.logger().Info("stop")
	return tree.Stop(s.clock)
}

// Remove stops the storyboard and takes it out of the manager's tree.
func (s *Storyboard) Remove() {
	tree, err := s.tree()
	if err != nil {
		return
	}
	if err := tree.RemoveChild(s.scene.Manager.Root(), s.clock); err != nil {
		s.logger().WithError(err).Debug("remove")
	}
	s.clock = timing.NoClock
}

// State returns the state of the current run, Stopped before Begin.
func (s *Storyboard) State() timing.ClockState {
	if c := s.runClock(); c != nil {
		return c.State()
	}
	return timing.Stopped
}

// Progress returns the progress of the current run.
func (s *Storyboard) Progress() float64 {
	if c := s.runClock(); c != nil {
		return c.Progress()
	}
	return 0
}

// CurrentTime returns the position of the current run.
func (s *Storyboard) CurrentTime() timing.TimeSpan {
	if c := s.runClock(); c != nil {
		return c.CurrentTime()
	}
	return 0
}

// IsPaused reports whether the current run is paused.
func (s *Storyboard) IsPaused() bool {
	if c := s.runClock(); c != nil {
		return c.IsPaused()
	}
	return false
}

func (s *Storyboard) runClock() *timing.Clock {
	tree, err := s.tree()
	if err != nil {
		return nil
	}
	return tree.Clock(s.clock)
}

// BeginStoryboard is a trigger action that begins its storyboard.
type BeginStoryboard struct {
	Storyboard *Storyboard
}

// Fire begins the storyboard in scene.
func (b *BeginStoryboard) Fire(scene *Scene) error {
	if b.Storyboard == nil {
		return ErrNoStoryboard
	}
	return b.Storyboard.Begin(scene)
}
