package timing

// AddChild attaches a detached clock to a group. The child is not begun.
func (t *Tree) AddChild(parent, child ClockID) error {
	p, err := t.lookup(parent)
	if err != nil {
		return err
	}
	c, err := t.lookup(child)
	if err != nil {
		return err
	}
	if !p.group {
		return ErrNotGroup
	}
	if c.parent != NoClock {
		return ErrAlreadyAttached
	}
	c.parent = parent
	p.children = append(p.children, child)
	p.idle = false
	t.invalidateNatural(p)
	t.dirty = true
	return nil
}

// RemoveChild stops child, so its drivers release whatever they applied,
// then detaches and destroys it. It fails with ErrNotAttached if child does
// not belong to parent.
func (t *Tree) RemoveChild(parent, child ClockID) error {
	p, err := t.lookup(parent)
	if err != nil {
		return err
	}
	for i, id := range p.children {
		if id == child {
			t.detach(p, i)
			t.dirty = true
			return nil
		}
	}
	return ErrNotAttached
}

func (t *Tree) detach(p *Clock, i int) {
	c := t.Clock(p.children[i])
	p.children = append(p.children[:i], p.children[i+1:]...)
	t.invalidateNatural(p)
	if c == nil {
		return
	}
	t.stop(c)
	c.parent = NoClock
	t.release(c)
}

// parallelDuration is the natural duration of a parallel group: the end of
// its latest child, in the group's time space.
func (t *Tree) parallelDuration(id ClockID) Duration {
	g := t.Clock(id)
	if g == nil {
		return Automatic
	}
	var end TimeSpan
	for _, cid := range g.children {
		c := t.Clock(cid)
		if c == nil {
			continue
		}
		tl := c.Timeline()
		span, finite := t.activeSpan(c)
		if !finite {
			if t.resolvedDuration(c).IsAutomatic() && !tl.RepeatBehavior.IsForever() {
				continue
			}
			return Forever
		}
		childEnd := tl.BeginOffset() + span.Scale(1/tl.SpeedRatio)
		if childEnd > end {
			end = childEnd
		}
	}
	return DurationOf(end)
}
