package timing

import "math"

type slot struct {
	clock *Clock
	gen   uint32
}

// Tree is an arena of clocks. Parents and children refer to each other by
// ClockID, never by pointer. A Tree is not safe for concurrent use: all
// mutation happens on the goroutine that ticks it.
type Tree struct {
	slots   []slot
	free    []int
	dirty   bool
	pending EventBatch
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return new(Tree)
}

// Clock returns the clock for id, or nil if it does not exist.
func (t *Tree) Clock(id ClockID) *Clock {
	i := id.index()
	if id == NoClock || i >= len(t.slots) {
		return nil
	}
	s := t.slots[i]
	if s.clock == nil || s.gen != id.gen() {
		return nil
	}
	return s.clock
}

// Len returns the number of live clocks.
func (t *Tree) Len() int {
	return len(t.slots) - len(t.free)
}

// Dirty reports whether the tree was changed outside a tick.
func (t *Tree) Dirty() bool { return t.dirty }

func (t *Tree) lookup(id ClockID) (*Clock, error) {
	c := t.Clock(id)
	if c == nil {
		return nil, ErrUnknownClock
	}
	return c, nil
}

func (t *Tree) alloc(c *Clock) ClockID {
	var i int
	if n := len(t.free); n > 0 {
		i = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot{})
		i = len(t.slots) - 1
	}
	t.slots[i].gen++
	t.slots[i].clock = c
	c.id = makeClockID(i, t.slots[i].gen)
	return c.id
}

func (t *Tree) release(c *Clock) {
	for _, child := range c.children {
		if cc := t.Clock(child); cc != nil {
			t.release(cc)
		}
	}
	i := c.id.index()
	t.slots[i].clock = nil
	t.free = append(t.free, i)
}

// Realize validates n and creates a detached, stopped clock for it, with
// child clocks for every descendant of a group.
func (t *Tree) Realize(n Node) (ClockID, error) {
	if err := n.Validate(); err != nil {
		return NoClock, err
	}
	return t.realize(n), nil
}

func (t *Tree) realize(n Node) ClockID {
	c := &Clock{node: n, parent: NoClock, state: Stopped, idle: true}
	id := t.alloc(c)
	if g, ok := n.(GroupNode); ok {
		c.group = true
		for _, child := range g.ChildTimelines() {
			cid := t.realize(child)
			t.Clock(cid).parent = id
			c.children = append(c.children, cid)
		}
	}
	return id
}

// SetDriver attaches d to the clock.
func (t *Tree) SetDriver(id ClockID, d Driver) error {
	c, err := t.lookup(id)
	if err != nil {
		return err
	}
	c.driver = d
	return nil
}

// Begin restarts the clock from time zero. The begin time is computed
// against the parent's time at the next tick.
func (t *Tree) Begin(id ClockID) error {
	c, err := t.lookup(id)
	if err != nil {
		return err
	}
	c.beginOnTick = true
	t.reset(c)
	t.dirty = true
	return nil
}

// BeginOnTick sets or clears the begin-on-next-tick flag without resetting.
func (t *Tree) BeginOnTick(id ClockID, begin bool) error {
	c, err := t.lookup(id)
	if err != nil {
		return err
	}
	c.beginOnTick = begin
	t.dirty = true
	return nil
}

func (t *Tree) reset(c *Clock) {
	c.seeking = false
	c.paused = false
	c.wasStopped = false
	c.hasStarted = true
	c.restartKids = false
	c.elapsed = 0
	c.setPosition(0, 0, 0)
	c.lastTime = 0
	c.setState(Active)
	c.queue(SpeedInvalidated)
	for _, id := range c.children {
		if child := t.Clock(id); child != nil {
			t.restart(child)
		}
	}
}

// restart begins a child again at the start of its parent's time space.
func (t *Tree) restart(c *Clock) {
	c.beginOnTick = false
	c.beginTime = c.Timeline().BeginOffset()
	t.reset(c)
}

// Pause freezes the clock's local time. A clock that never began ignores it.
func (t *Tree) Pause(id ClockID) error {
	c, err := t.lookup(id)
	if err != nil {
		return err
	}
	if !c.hasStarted || c.paused {
		return nil
	}
	c.paused = true
	c.queue(SpeedInvalidated)
	t.dirty = true
	return nil
}

// Resume lets a paused clock's local time advance again.
func (t *Tree) Resume(id ClockID) error {
	c, err := t.lookup(id)
	if err != nil {
		return err
	}
	if !c.paused {
		return nil
	}
	c.paused = false
	c.queue(SpeedInvalidated)
	t.dirty = true
	return nil
}

// Seek moves the clock to local time ts at the next tick. Seeking a clock
// that never began fails with ErrNotStarted; a negative target is ignored.
func (t *Tree) Seek(id ClockID, ts TimeSpan) error {
	c, err := t.lookup(id)
	if err != nil {
		return err
	}
	if !c.hasStarted {
		return ErrNotStarted
	}
	if ts < 0 {
		log.WithField("clock", id).Warnf("ignoring seek to negative time %v", ts)
		return nil
	}
	c.seeking = true
	c.seekTime = ts
	t.dirty = true
	return nil
}

// SeekAlignedToLastTick moves the clock to ts immediately, measured against
// the parent time of the last tick, and pushes the resulting values.
func (t *Tree) SeekAlignedToLastTick(id ClockID, ts TimeSpan) error {
	if err := t.Seek(id, ts); err != nil {
		return err
	}
	c := t.Clock(id)
	if !c.seeking {
		return nil
	}
	t.tick(c, c.lastParentTime, &t.pending)
	return nil
}

// Stop stops the clock and its descendants and releases their drivers.
func (t *Tree) Stop(id ClockID) error {
	c, err := t.lookup(id)
	if err != nil {
		return err
	}
	t.stop(c)
	c.wasStopped = true
	t.dirty = true
	return nil
}

func (t *Tree) stop(c *Clock) {
	c.seeking = false
	c.beginOnTick = false
	c.paused = false
	c.setState(Stopped)
	for _, id := range c.children {
		if child := t.Clock(id); child != nil {
			t.stop(child)
		}
	}
	if c.driver != nil {
		c.driver.Released(c)
	}
}

// SoftStop stops the clock but, for HoldEnd timelines with a finite active
// period, first snaps it to its final value and keeps that value applied.
func (t *Tree) SoftStop(id ClockID) error {
	c, err := t.lookup(id)
	if err != nil {
		return err
	}
	t.softStop(c)
	c.wasStopped = true
	t.dirty = true
	return nil
}

func (t *Tree) softStop(c *Clock) {
	if c.Timeline().FillBehavior != FillHoldEnd {
		t.stop(c)
		return
	}
	if _, finite := t.activeSpan(c); !finite {
		t.stop(c)
		return
	}
	t.skipToFill(c)
	t.hold(c)
}

// hold stops a placed subtree where it stands. Values stay applied except
// for descendants that do not fill.
func (t *Tree) hold(c *Clock) {
	c.seeking = false
	c.beginOnTick = false
	c.paused = false
	c.setState(Stopped)
	for _, id := range c.children {
		child := t.Clock(id)
		if child == nil || child.state == Stopped {
			continue
		}
		if child.Timeline().FillBehavior != FillHoldEnd {
			t.stop(child)
			continue
		}
		t.hold(child)
	}
}

// SkipToFill jumps the clock to the end of its active period and leaves it
// Filling. Clocks without a finite active period are left alone.
func (t *Tree) SkipToFill(id ClockID) error {
	c, err := t.lookup(id)
	if err != nil {
		return err
	}
	if _, finite := t.activeSpan(c); !finite {
		log.WithField("clock", id).Warn("cannot skip to fill: active period is unbounded")
		return nil
	}
	t.skipToFill(c)
	t.dirty = true
	return nil
}

func (t *Tree) skipToFill(c *Clock) {
	span, finite := t.activeSpan(c)
	if !finite {
		return
	}
	tl := c.Timeline()
	c.seeking = false
	c.beginOnTick = false
	c.beginTime = c.lastParentTime - span.Scale(1/tl.SpeedRatio)
	c.elapsed = span
	pos, iter, progress := endPlacement(t.resolvedDuration(c), span, tl.AutoReverse)
	c.setPosition(pos, iter, progress)
	c.setState(Filling)
	if c.group {
		// Children replay against the group's final position, which a
		// reversed or partial last iteration leaves short of the end.
		c.restartKids = true
		t.tickChildren(c, &t.pending)
	}
	if c.driver != nil {
		c.driver.Ticked(c)
	}
}

// Remove asks the clock's parent to stop and detach it at the next tick.
// It fails with ErrNotAttached if the clock has no parent.
func (t *Tree) Remove(id ClockID) error {
	c, err := t.lookup(id)
	if err != nil {
		return err
	}
	if c.parent == NoClock {
		return ErrNotAttached
	}
	c.removeRequested = true
	c.queue(RemoveRequested)
	t.dirty = true
	return nil
}

// GlobalSpeed returns the product of the speed ratios from the clock up to
// the root, or 0 if any of them is paused or stopped.
func (t *Tree) GlobalSpeed(id ClockID) float64 {
	speed := 1.0
	for c := t.Clock(id); c != nil; c = t.Clock(c.parent) {
		if c.paused || c.state == Stopped {
			return 0
		}
		speed *= c.Timeline().SpeedRatio
	}
	return speed
}

// NaturalDuration returns the clock's duration, resolving Automatic from
// content. The result is memoized.
func (t *Tree) NaturalDuration(id ClockID) Duration {
	c := t.Clock(id)
	if c == nil {
		return Automatic
	}
	return t.resolvedDuration(c)
}

func (t *Tree) resolvedDuration(c *Clock) Duration {
	if d := c.Timeline().Duration; !d.IsAutomatic() {
		return d
	}
	if !c.naturalResolved {
		c.natural = c.node.NaturalDuration(t, c.id)
		c.naturalResolved = true
	}
	return c.natural
}

func (t *Tree) invalidateNatural(c *Clock) {
	for ; c != nil; c = t.Clock(c.parent) {
		c.naturalResolved = false
	}
}

// activeSpan returns how long the clock is active in its own scaled time,
// repeats included. finite is false when it never ends.
func (t *Tree) activeSpan(c *Clock) (span TimeSpan, finite bool) {
	d := t.resolvedDuration(c)
	if d.HasTimeSpan() && d.TimeSpan() == 0 {
		return 0, true
	}
	rb := c.Timeline().RepeatBehavior
	switch {
	case rb.IsForever():
		return 0, false
	case rb.HasDuration():
		return rb.Duration(), true
	}
	if !d.HasTimeSpan() {
		return 0, false
	}
	count := rb.Count()
	if whole := math.Trunc(count); whole == count {
		return d.TimeSpan() * TimeSpan(whole), true
	}
	return d.TimeSpan().Scale(count), true
}

// activePlacement maps scaled local time inside the active period to a
// position in the current iteration.
func activePlacement(elapsed TimeSpan, d Duration, autoReverse bool) (TimeSpan, int64, float64) {
	if elapsed < 0 || !d.HasTimeSpan() {
		return elapsed, 0, 0
	}
	dd := d.TimeSpan()
	if dd == 0 {
		return 0, 0, 1
	}
	iter := int64(elapsed / dd)
	pos := elapsed % dd
	if autoReverse && iter%2 == 1 {
		pos = dd - pos
	}
	return pos, iter, float64(pos) / float64(dd)
}

// endPlacement is the position once the active period of length span has
// been used up: the end of the last, possibly partial, iteration.
func endPlacement(d Duration, span TimeSpan, autoReverse bool) (TimeSpan, int64, float64) {
	if !d.HasTimeSpan() {
		return span, 0, 0
	}
	dd := d.TimeSpan()
	if dd == 0 {
		return 0, 0, 1
	}
	if span == 0 {
		return 0, 0, 0
	}
	iter := int64(span / dd)
	pos := span % dd
	if pos == 0 {
		iter--
		pos = dd
	}
	if autoReverse && iter%2 == 1 {
		pos = dd - pos
	}
	return pos, iter, float64(pos) / float64(dd)
}

// TickRoot advances the clock tree rooted at root to time now and returns
// the events accumulated since the previous call, including those produced
// by mutations made between ticks.
func (t *Tree) TickRoot(root ClockID, now TimeSpan) *EventBatch {
	batch := t.pending
	t.pending = EventBatch{}
	if c := t.Clock(root); c != nil {
		t.tick(c, now, &batch)
	}
	t.dirty = false
	return &batch
}

func (t *Tree) tick(c *Clock, parentTime TimeSpan, b *EventBatch) {
	if c.beginOnTick {
		c.beginOnTick = false
		c.beginTime = parentTime + c.Timeline().BeginOffset()
		c.lastParentTime = parentTime
	}
	switch {
	case c.state == Stopped && !c.seeking:
	case c.paused && !c.seeking:
		c.beginTime += parentTime - c.lastParentTime
	default:
		t.advance(c, parentTime, b)
	}
	c.lastParentTime = parentTime

	if c.group {
		t.tickChildren(c, b)
	}
	if c.driver != nil && c.state != Stopped {
		c.driver.Ticked(c)
	}
	b.flush(c)
}

func (t *Tree) advance(c *Clock, parentTime TimeSpan, b *EventBatch) {
	tl := c.Timeline()
	if c.seeking {
		c.seeking = false
		c.beginTime = parentTime - c.seekTime.Scale(1/tl.SpeedRatio)
		c.wasStopped = false
		c.setState(Active)
		c.restartKids = true
	}
	c.elapsed = (parentTime - c.beginTime).Scale(tl.SpeedRatio)

	d := t.resolvedDuration(c)
	prevIter := c.iteration
	prevPos := c.currentTime
	span, finite := t.activeSpan(c)
	if finite && c.elapsed >= span {
		pos, iter, progress := endPlacement(d, span, tl.AutoReverse)
		c.setPosition(pos, iter, progress)
		if c.state == Active {
			if tl.FillBehavior == FillHoldEnd {
				c.setState(Filling)
			} else {
				t.stop(c)
			}
			b.complete(c)
		}
	} else {
		pos, iter, progress := activePlacement(c.elapsed, d, tl.AutoReverse)
		c.setPosition(pos, iter, progress)
		// A reversing or repeating parent can carry a filled child back
		// into its active period.
		c.setState(Active)
	}
	if c.iteration != prevIter {
		c.restartKids = true
	} else if len(tl.Markers) > 0 && c.elapsed >= 0 {
		t.passMarkers(c, prevPos, b)
	}
}

func (t *Tree) passMarkers(c *Clock, from TimeSpan, b *EventBatch) {
	lo, hi := from, c.currentTime
	if lo > hi {
		lo, hi = hi, lo
	}
	if lo == hi {
		return
	}
	for _, m := range c.Timeline().Markers {
		if m.Time > lo && m.Time <= hi {
			b.marker(c, m)
		}
	}
}

func (t *Tree) tickChildren(c *Clock, b *EventBatch) {
	restart := c.restartKids && c.state != Stopped
	c.restartKids = false
	for i := 0; i < len(c.children); {
		child := t.Clock(c.children[i])
		if child == nil {
			c.children = append(c.children[:i], c.children[i+1:]...)
			continue
		}
		if child.removeRequested {
			t.detach(c, i)
			continue
		}
		if restart {
			t.restart(child)
		}
		t.tick(child, c.currentTime, b)
		i++
	}
	c.idle = true
	for _, id := range c.children {
		child := t.Clock(id)
		if child.state == Active || (child.group && !child.idle) {
			c.idle = false
			break
		}
	}
}
