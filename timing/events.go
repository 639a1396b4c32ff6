package timing

// EventMask accumulates clock notifications during a tick.
type EventMask uint8

const (
	SpeedInvalidated EventMask = 1 << iota
	StateInvalidated
	TimeInvalidated
	RemoveRequested
)

// ClockEvents are the notifications one clock accumulated in a tick.
type ClockEvents struct {
	Clock ClockID
	Mask  EventMask
}

// MarkerEvent records a marker passed during a tick.
type MarkerEvent struct {
	Clock  ClockID
	Marker Marker
}

// EventBatch collects everything a tick produced so it can be raised once,
// in tree order, after the whole tree has been updated.
type EventBatch struct {
	Events    []ClockEvents
	Markers   []MarkerEvent
	Completed []ClockID
}

func (b *EventBatch) flush(c *Clock) {
	if c.queued == 0 {
		return
	}
	b.Events = append(b.Events, ClockEvents{Clock: c.id, Mask: c.queued})
	c.queued = 0
}

func (b *EventBatch) complete(c *Clock) {
	b.Completed = append(b.Completed, c.id)
}

func (b *EventBatch) marker(c *Clock, m Marker) {
	b.Markers = append(b.Markers, MarkerEvent{Clock: c.id, Marker: m})
}

// Changed reports whether the time or state of any clock other than those
// in ignore changed.
func (b *EventBatch) Changed(ignore ...ClockID) bool {
	if len(b.Completed) > 0 {
		return true
	}
next:
	for _, e := range b.Events {
		for _, id := range ignore {
			if e.Clock == id {
				continue next
			}
		}
		if e.Mask&(TimeInvalidated|StateInvalidated) != 0 {
			return true
		}
	}
	return false
}

// Empty reports whether the batch holds nothing to raise.
func (b *EventBatch) Empty() bool {
	return len(b.Events) == 0 && len(b.Markers) == 0 && len(b.Completed) == 0
}

// Mask returns the events accumulated for id.
func (b *EventBatch) Mask(id ClockID) EventMask {
	var m EventMask
	for _, e := range b.Events {
		if e.Clock == id {
			m |= e.Mask
		}
	}
	return m
}

// Raise delivers the batch to the clocks' handlers: invalidation events
// first, then markers, then completions. The batch is empty afterwards, so
// raising it twice is harmless.
func (b *EventBatch) Raise(t *Tree) {
	events, markers, completed := b.Events, b.Markers, b.Completed
	b.Events, b.Markers, b.Completed = nil, nil, nil

	for _, e := range events {
		c := t.Clock(e.Clock)
		if c == nil {
			continue
		}
		if e.Mask&SpeedInvalidated != 0 {
			c.emit(Event{Kind: CurrentGlobalSpeedInvalidated})
		}
		if e.Mask&StateInvalidated != 0 {
			c.emit(Event{Kind: CurrentStateInvalidated})
		}
		if e.Mask&TimeInvalidated != 0 {
			c.emit(Event{Kind: CurrentTimeInvalidated})
		}
	}
	for i := range markers {
		if c := t.Clock(markers[i].Clock); c != nil {
			c.emit(Event{Kind: MarkerReached, Marker: &markers[i].Marker})
		}
	}
	for _, id := range completed {
		if c := t.Clock(id); c != nil {
			c.emit(Event{Kind: Completed})
		}
	}
}
