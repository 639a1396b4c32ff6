package timing

import (
	"strings"
	"sync"
	"time"
)

// TickCallHandler is a deferred one-shot call run after the next tick.
type TickCallHandler func(owner interface{})

type tickCall struct {
	fn    TickCallHandler
	owner interface{}
}

// TimeoutID identifies a registered timeout.
type TimeoutID uint64

// FrameHandler receives the manager's current time.
type FrameHandler func(now TimeSpan)

type frameHandler struct {
	id int
	fn FrameHandler
}

// Manager drives one clock tree from a TimeSource. Every tick advances the
// tree, raises the accumulated clock events once, runs queued tick calls and
// asks for a redraw if anything changed.
//
// The clock tree belongs to the goroutine that runs SourceTick. Other
// goroutines must hand their work over with AddTickCall.
type Manager struct {
	source TimeSource
	tree   *Tree
	root   ClockID

	startTime     TimeSpan
	currentGlobal TimeSpan
	lastGlobal    TimeSpan
	firstTick     bool

	maxFPS     int
	lastRender TimeSpan
	rendered   bool

	updateInput []frameHandler
	render      []frameHandler
	nextHandler int

	mu            sync.Mutex
	ticking       bool
	tickPending   bool
	needRedraw    bool
	needClockTick bool
	shutdown      bool
	tickCalls     []tickCall
	timeouts      map[TimeoutID]*time.Timer
	nextTimeout   TimeoutID
}

// NewManager creates a manager ticking from source, with a root clock group
// of Forever duration.
func NewManager(source TimeSource) *Manager {
	m := new(Manager)
	m.source = source
	m.tree = NewTree()
	m.firstTick = true
	m.timeouts = make(map[TimeoutID]*time.Timer)

	root := NewTimelineGroup()
	root.Name = "root"
	root.Duration = Forever
	var err error
	if m.root, err = m.tree.Realize(root); err != nil {
		log.WithError(err).Error("cannot realize the root clock")
	} else if err = m.tree.Begin(m.root); err != nil {
		log.WithError(err).Error("cannot begin the root clock")
	}

	source.SetTickHandler(m.SourceTick)
	return m
}

// Tree returns the clock tree.
func (m *Manager) Tree() *Tree { return m.tree }

// Root returns the root clock group.
func (m *Manager) Root() ClockID { return m.root }

// Source returns the time source.
func (m *Manager) Source() TimeSource { return m.source }

// CurrentTime returns the time since the first tick.
func (m *Manager) CurrentTime() TimeSpan { return m.currentGlobal - m.startTime }

// LastTime returns the time of the previous tick since the first tick.
func (m *Manager) LastTime() TimeSpan { return m.lastGlobal - m.startTime }

// Start starts the time source.
func (m *Manager) Start() {
	m.source.Start()
}

// Stop stops the time source. Clocks keep their state.
func (m *Manager) Stop() {
	m.source.Stop()
}

// SetMaximumRefreshRate caps Render notifications at hz. Clocks still
// advance on every tick. Zero removes the cap.
func (m *Manager) SetMaximumRefreshRate(hz int) {
	if hz < 0 {
		hz = 0
	}
	m.maxFPS = hz
}

// AddUpdateInputHandler registers fn to run at the start of every tick.
func (m *Manager) AddUpdateInputHandler(fn FrameHandler) func() {
	return m.addFrameHandler(&m.updateInput, fn)
}

// AddRenderHandler registers fn to run when a redraw is due.
func (m *Manager) AddRenderHandler(fn FrameHandler) func() {
	return m.addFrameHandler(&m.render, fn)
}

func (m *Manager) addFrameHandler(list *[]frameHandler, fn FrameHandler) func() {
	id := m.nextHandler
	m.nextHandler++
	*list = append(*list, frameHandler{id: id, fn: fn})
	return func() {
		for i, h := range *list {
			if h.id == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return
			}
		}
	}
}

// AddTickCall queues fn to run once, on the tick goroutine, after the next
// tick's clock events. It is safe to call from any goroutine. After
// Shutdown it returns ErrManagerShutdown and fn never runs.
func (m *Manager) AddTickCall(fn TickCallHandler, owner interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shutdown {
		return ErrManagerShutdown
	}
	m.tickCalls = append(m.tickCalls, tickCall{fn: fn, owner: owner})
	return nil
}

// NeedRedraw requests a Render notification at the next opportunity.
func (m *Manager) NeedRedraw() {
	m.mu.Lock()
	m.needRedraw = true
	m.mu.Unlock()
}

// NeedClockTick forces the clock tree to be ticked even if it is idle.
func (m *Manager) NeedClockTick() {
	m.mu.Lock()
	m.needClockTick = true
	m.mu.Unlock()
}

// AddTimeout calls fn on the tick goroutine after interval, and again after
// every interval for as long as fn returns true.
func (m *Manager) AddTimeout(interval time.Duration, fn func() bool) TimeoutID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.shutdown {
		return 0
	}
	m.nextTimeout++
	id := m.nextTimeout
	run := func(interface{}) {
		if !m.hasTimeout(id) {
			return
		}
		if !fn() {
			m.RemoveTimeout(id)
			return
		}
		m.mu.Lock()
		if t, ok := m.timeouts[id]; ok {
			t.Reset(interval)
		}
		m.mu.Unlock()
	}
	m.timeouts[id] = time.AfterFunc(interval, func() {
		m.AddTickCall(run, nil)
	})
	return id
}

func (m *Manager) hasTimeout(id TimeoutID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.timeouts[id]
	return ok
}

// RemoveTimeout cancels a timeout. Unknown ids are ignored.
func (m *Manager) RemoveTimeout(id TimeoutID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.timeouts[id]; ok {
		t.Stop()
		delete(m.timeouts, id)
	}
}

// Shutdown stops the source, cancels every timeout and pending tick call,
// and stops the whole clock tree. The manager cannot be restarted.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return
	}
	m.shutdown = true
	for id, t := range m.timeouts {
		t.Stop()
		delete(m.timeouts, id)
	}
	m.tickCalls = nil
	busy := m.ticking
	m.mu.Unlock()

	m.source.Stop()
	m.source.SetTickHandler(nil)
	if !busy {
		m.tree.Stop(m.root)
	}
}

// SourceTick runs one tick. A call that arrives while a tick is running is
// queued and replayed once that tick finishes, never interleaved with it.
func (m *Manager) SourceTick() {
	m.mu.Lock()
	if m.shutdown {
		m.mu.Unlock()
		return
	}
	if m.ticking {
		m.tickPending = true
		m.mu.Unlock()
		return
	}
	m.ticking = true
	m.mu.Unlock()

	for {
		m.tick()
		m.mu.Lock()
		if !m.tickPending || m.shutdown {
			m.ticking = false
			down := m.shutdown
			m.mu.Unlock()
			if down {
				m.tree.Stop(m.root)
			}
			return
		}
		m.tickPending = false
		m.mu.Unlock()
	}
}

func (m *Manager) tick() {
	now := m.source.Now()
	if m.firstTick {
		m.firstTick = false
		m.startTime = now
		m.currentGlobal = now
	}
	m.lastGlobal = m.currentGlobal
	m.currentGlobal = now
	current := m.CurrentTime()

	for _, h := range append([]frameHandler(nil), m.updateInput...) {
		h.fn(current)
	}

	m.mu.Lock()
	forced := m.needClockTick
	m.needClockTick = false
	m.mu.Unlock()

	changed := false
	if root := m.tree.Clock(m.root); forced || m.tree.Dirty() || (root != nil && !root.IsIdle()) {
		batch := m.tree.TickRoot(m.root, current)
		changed = batch.Changed(m.root)
		batch.Raise(m.tree)
	}

	m.invokeTickCalls()

	m.mu.Lock()
	if changed {
		m.needRedraw = true
	}
	redraw := m.needRedraw && m.renderDue(now)
	if redraw {
		m.needRedraw = false
	}
	m.mu.Unlock()

	if redraw {
		m.lastRender = now
		m.rendered = true
		for _, h := range append([]frameHandler(nil), m.render...) {
			h.fn(current)
		}
	}
}

func (m *Manager) renderDue(now TimeSpan) bool {
	if m.maxFPS <= 0 || !m.rendered {
		return true
	}
	return now-m.lastRender >= TicksPerSecond/TimeSpan(m.maxFPS)
}

func (m *Manager) invokeTickCalls() {
	m.mu.Lock()
	calls := m.tickCalls
	m.tickCalls = nil
	m.mu.Unlock()
	for _, c := range calls {
		c.fn(c.owner)
	}
}

// ListClocks logs the clock tree at debug level.
func (m *Manager) ListClocks() {
	m.listClocks(m.root, 0)
}

func (m *Manager) listClocks(id ClockID, depth int) {
	c := m.tree.Clock(id)
	if c == nil {
		return
	}
	log.Debugf("%s%s %q state=%v time=%v progress=%.3f", strings.Repeat("  ", depth),
		id, c.Timeline().Name, c.state, c.currentTime, c.progress)
	for _, child := range c.children {
		m.listClocks(child, depth+1)
	}
}
