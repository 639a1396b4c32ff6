package timing

import (
	"sync"
	"time"
)

// DefaultFrequency is the tick rate of a SystemTimeSource in Hz.
const DefaultFrequency = 60

// TimeSource tells the TimeManager what time it is and when to tick.
type TimeSource interface {
	// Now returns the current time.
	Now() TimeSpan
	// Start begins delivering tick notifications.
	Start()
	// Stop stops delivering tick notifications.
	Stop()
	// SetTimerFrequency changes the tick rate, in Hz.
	SetTimerFrequency(hz int)
	// SetTickHandler sets the function called on every tick.
	SetTickHandler(fn func())
}

// SystemTimeSource reads the monotonic wall clock and ticks from a
// time.Ticker goroutine.
type SystemTimeSource struct {
	mu        sync.Mutex
	origin    time.Time
	frequency int
	onTick    func()
	done      chan struct{}
}

// NewSystemTimeSource creates a source ticking at hz, or DefaultFrequency
// if hz is not positive.
func NewSystemTimeSource(hz int) *SystemTimeSource {
	s := new(SystemTimeSource)
	s.origin = time.Now()
	s.frequency = hz
	if s.frequency <= 0 {
		s.frequency = DefaultFrequency
	}
	return s
}

// Now implements TimeSource.
func (s *SystemTimeSource) Now() TimeSpan {
	return FromDuration(time.Since(s.origin))
}

// Start implements TimeSource.
func (s *SystemTimeSource) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked()
}

func (s *SystemTimeSource) startLocked() {
	if s.done != nil {
		return
	}
	s.done = make(chan struct{})
	interval := time.Second / time.Duration(s.frequency)
	go s.run(interval, s.done)
}

func (s *SystemTimeSource) run(interval time.Duration, done chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			fn := s.onTick
			s.mu.Unlock()
			if fn != nil {
				fn()
			}
		case <-done:
			return
		}
	}
}

// Stop implements TimeSource.
func (s *SystemTimeSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *SystemTimeSource) stopLocked() {
	if s.done == nil {
		return
	}
	close(s.done)
	s.done = nil
}

// SetTimerFrequency implements TimeSource. A running source restarts its
// ticker at the new rate.
func (s *SystemTimeSource) SetTimerFrequency(hz int) {
	if hz <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frequency == hz {
		return
	}
	s.frequency = hz
	if s.done != nil {
		s.stopLocked()
		s.startLocked()
	}
}

// SetTickHandler implements TimeSource.
func (s *SystemTimeSource) SetTickHandler(fn func()) {
	s.mu.Lock()
	s.onTick = fn
	s.mu.Unlock()
}

// ManualTimeSource is advanced by hand, for deterministic tests and hosts
// that drive frames themselves. It is safe for concurrent use; ticks run on
// the goroutine that calls Tick or Advance.
type ManualTimeSource struct {
	mu      sync.Mutex
	now     TimeSpan
	running bool
	onTick  func()
}

// NewManualTimeSource creates a source at time zero.
func NewManualTimeSource() *ManualTimeSource {
	return new(ManualTimeSource)
}

// Now implements TimeSource.
func (m *ManualTimeSource) Now() TimeSpan {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// SetCurrentTime moves the source to ts without ticking.
func (m *ManualTimeSource) SetCurrentTime(ts TimeSpan) {
	m.mu.Lock()
	m.now = ts
	m.mu.Unlock()
}

// Advance moves the source forward by d and ticks.
func (m *ManualTimeSource) Advance(d TimeSpan) {
	m.mu.Lock()
	m.now += d
	m.mu.Unlock()
	m.Tick()
}

// Tick delivers a tick notification synchronously if the source is running.
func (m *ManualTimeSource) Tick() {
	m.mu.Lock()
	fn := m.onTick
	if !m.running {
		fn = nil
	}
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Start implements TimeSource.
func (m *ManualTimeSource) Start() {
	m.mu.Lock()
	m.running = true
	m.mu.Unlock()
}

// Stop implements TimeSource.
func (m *ManualTimeSource) Stop() {
	m.mu.Lock()
	m.running = false
	m.mu.Unlock()
}

// SetTimerFrequency implements TimeSource; manual sources have no timer.
func (m *ManualTimeSource) SetTimerFrequency(int) {}

// SetTickHandler implements TimeSource.
func (m *ManualTimeSource) SetTickHandler(fn func()) {
	m.mu.Lock()
	m.onTick = fn
	m.mu.Unlock()
}
