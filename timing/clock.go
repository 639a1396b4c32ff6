package timing

import "fmt"

// ClockID is a stable handle to a clock in a Tree. The zero value refers to
// no clock. Handles of removed clocks never alias newer clocks.
type ClockID uint64

// NoClock is the zero ClockID.
const NoClock ClockID = 0

func makeClockID(index int, gen uint32) ClockID {
	return ClockID(uint64(gen)<<32 | uint64(uint32(index)))
}

func (id ClockID) index() int     { return int(uint32(id)) }
func (id ClockID) gen() uint32    { return uint32(id >> 32) }
func (id ClockID) String() string { return fmt.Sprintf("clock#%d.%d", id.index(), id.gen()) }

// ClockState is the state of a clock.
//
//	         Begin()
//	Stopped ─────────► Active ──(end)──► Filling
//	   ▲                 │                  │
//	   └────── Stop() ───┴──────────────────┘
type ClockState int

const (
	// Stopped clocks do not progress until Begin or Seek.
	Stopped ClockState = iota
	// Active clocks progress; each tick may change the driven value.
	Active
	// Filling clocks are past their active period and hold their value.
	Filling
)

func (s ClockState) String() string {
	switch s {
	case Active:
		return "active"
	case Filling:
		return "filling"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("ClockState(%d)", int(s))
	}
}

// EventKind identifies a clock notification.
type EventKind int

const (
	CurrentTimeInvalidated EventKind = iota
	CurrentStateInvalidated
	CurrentGlobalSpeedInvalidated
	Completed
	MarkerReached
)

func (k EventKind) String() string {
	switch k {
	case CurrentTimeInvalidated:
		return "CurrentTimeInvalidated"
	case CurrentStateInvalidated:
		return "CurrentStateInvalidated"
	case CurrentGlobalSpeedInvalidated:
		return "CurrentGlobalSpeedInvalidated"
	case Completed:
		return "Completed"
	case MarkerReached:
		return "MarkerReached"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is delivered to clock handlers.
type Event struct {
	Kind  EventKind
	Clock *Clock
	// Marker is set for MarkerReached.
	Marker *Marker
}

// Handler receives clock events.
type Handler func(Event)

// Driver observes a clock's lifecycle. Animation clocks use it to push
// values into their targets.
type Driver interface {
	// Ticked is called after the clock recomputed its time and state.
	Ticked(c *Clock)
	// Released is called when the clock stops or leaves the tree. It may be
	// called more than once.
	Released(c *Clock)
}

type handlerEntry struct {
	id   int
	kind EventKind
	fn   Handler
}

// Clock is the runtime state of one realized timeline. Clocks live in a
// Tree and are changed only through it.
type Clock struct {
	id       ClockID
	parent   ClockID
	node     Node
	group    bool
	children []ClockID
	idle     bool

	state       ClockState
	progress    float64
	currentTime TimeSpan
	lastTime    TimeSpan
	elapsed     TimeSpan
	iteration   int64

	beginTime      TimeSpan
	lastParentTime TimeSpan
	beginOnTick    bool
	seeking        bool
	seekTime       TimeSpan
	restartKids    bool

	paused          bool
	hasStarted      bool
	wasStopped      bool
	removeRequested bool

	natural         Duration
	naturalResolved bool

	queued   EventMask
	handlers []handlerEntry
	nextID   int
	driver   Driver
}

// ID returns the clock's handle.
func (c *Clock) ID() ClockID { return c.id }

// Parent returns the parent clock, or NoClock for a root or detached clock.
func (c *Clock) Parent() ClockID { return c.parent }

// Node returns the timeline the clock was realized from.
func (c *Clock) Node() Node { return c.node }

// Timeline returns the timing settings.
func (c *Clock) Timeline() *Timeline { return c.node.Timing() }

// State returns the clock state.
func (c *Clock) State() ClockState { return c.state }

// Progress returns the position within the current iteration in [0, 1].
func (c *Clock) Progress() float64 { return c.progress }

// CurrentTime returns the position within the current iteration.
func (c *Clock) CurrentTime() TimeSpan { return c.currentTime }

// LastTime returns the position at the previous tick.
func (c *Clock) LastTime() TimeSpan { return c.lastTime }

// ActiveTime returns the scaled local time since begin, before repeats.
func (c *Clock) ActiveTime() TimeSpan { return c.elapsed }

// Iteration returns the zero-based repeat iteration.
func (c *Clock) Iteration() int64 { return c.iteration }

// BeginTime returns the begin time in the parent's time space.
func (c *Clock) BeginTime() TimeSpan { return c.beginTime }

// IsPaused reports whether the clock is paused.
func (c *Clock) IsPaused() bool { return c.paused }

// HasStarted reports whether Begin was ever called. Stopping does not clear it.
func (c *Clock) HasStarted() bool { return c.hasStarted }

// WasStopped reports whether the clock was stopped explicitly.
func (c *Clock) WasStopped() bool { return c.wasStopped }

// IsReversed reports whether the clock is in an auto-reversed iteration.
func (c *Clock) IsReversed() bool {
	return c.Timeline().AutoReverse && c.iteration%2 == 1
}

// IsGroup reports whether the clock has children.
func (c *Clock) IsGroup() bool { return c.group }

// IsIdle reports whether no descendant of a group is doing work.
func (c *Clock) IsIdle() bool { return c.idle }

// Children returns a copy of the child handles in insertion order.
func (c *Clock) Children() []ClockID {
	return append([]ClockID(nil), c.children...)
}

// Driver returns the attached driver, if any.
func (c *Clock) Driver() Driver { return c.driver }

// Pending returns the events accumulated since the last flush.
func (c *Clock) Pending() EventMask { return c.queued }

// AddHandler registers fn for kind and returns a function that removes it.
func (c *Clock) AddHandler(kind EventKind, fn Handler) func() {
	id := c.nextID
	c.nextID++
	c.handlers = append(c.handlers, handlerEntry{id: id, kind: kind, fn: fn})
	return func() {
		for i, h := range c.handlers {
			if h.id == id {
				c.handlers = append(c.handlers[:i], c.handlers[i+1:]...)
				return
			}
		}
	}
}

func (c *Clock) emit(ev Event) {
	ev.Clock = c
	// Handlers may unsubscribe while we iterate.
	hs := append([]handlerEntry(nil), c.handlers...)
	for _, h := range hs {
		if h.kind == ev.Kind {
			h.fn(ev)
		}
	}
}

func (c *Clock) queue(ev EventMask) { c.queued |= ev }

func (c *Clock) setState(s ClockState) {
	if c.state == s {
		return
	}
	c.state = s
	c.queue(StateInvalidated)
}

func (c *Clock) setPosition(pos TimeSpan, iteration int64, progress float64) {
	c.lastTime = c.currentTime
	if pos != c.currentTime {
		c.currentTime = pos
		c.queue(TimeInvalidated)
	}
	c.iteration = iteration
	c.progress = progress
}
