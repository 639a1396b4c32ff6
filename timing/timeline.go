package timing

// Marker names an instant on a timeline. A clock raises MarkerReached when
// its position passes a marker.
type Marker struct {
	Time TimeSpan `yaml:"time"`
	Type string   `yaml:"type"`
	Text string   `yaml:"text"`
}

// Timeline is the declarative timing description a Clock is created from.
// It must not be changed once realized into a clock tree.
type Timeline struct {
	Name           string
	AutoReverse    bool
	BeginTime      *TimeSpan
	Duration       Duration
	FillBehavior   FillBehavior
	RepeatBehavior RepeatBehavior
	SpeedRatio     float64
	Markers        []Marker
}

// NewTimeline returns a timeline with the default settings: automatic
// duration, a single iteration, HoldEnd and a speed ratio of 1.
func NewTimeline() Timeline {
	return Timeline{
		Duration:       Automatic,
		RepeatBehavior: RepeatCount(1),
		SpeedRatio:     1,
	}
}

// Node is anything that can be realized into a clock.
type Node interface {
	// Timing returns the node's timing settings.
	Timing() *Timeline
	// NaturalDuration resolves an Automatic duration from content. It is
	// called at most once per clock and memoized.
	NaturalDuration(tree *Tree, id ClockID) Duration
	// Validate rejects malformed configuration before any clock exists.
	Validate() error
}

// GroupNode is a Node with parallel children.
type GroupNode interface {
	Node
	ChildTimelines() []Node
}

// Timing implements Node.
func (t *Timeline) Timing() *Timeline { return t }

// NaturalDuration implements Node. A bare timeline has no content, so an
// Automatic duration stays unresolved.
func (t *Timeline) NaturalDuration(*Tree, ClockID) Duration { return Automatic }

// BeginOffset returns the begin time relative to the parent, 0 if unset.
func (t *Timeline) BeginOffset() TimeSpan {
	if t.BeginTime == nil {
		return 0
	}
	return *t.BeginTime
}

// SetBeginTime sets the begin time.
func (t *Timeline) SetBeginTime(ts TimeSpan) {
	t.BeginTime = &ts
}

// Validate implements Node.
func (t *Timeline) Validate() error {
	fail := func(field string, err error) error {
		return &ConfigError{Op: "timing.Validate", Timeline: t.Name, Field: field, Err: err}
	}
	if !(t.SpeedRatio > 0) {
		return fail("SpeedRatio", ErrInvalidSpeedRatio)
	}
	if t.Duration.HasTimeSpan() && t.Duration.TimeSpan() < 0 {
		return fail("Duration", ErrNegativeDuration)
	}
	switch {
	case t.RepeatBehavior.HasCount() && !(t.RepeatBehavior.Count() >= 0):
		return fail("RepeatBehavior", ErrInvalidRepeat)
	case t.RepeatBehavior.HasDuration() && t.RepeatBehavior.Duration() < 0:
		return fail("RepeatBehavior", ErrInvalidRepeat)
	}
	return nil
}

// TimelineGroup runs its children in parallel on a shared time base.
type TimelineGroup struct {
	Timeline
	Children []Node
}

// NewTimelineGroup returns a group with default timing and the given children.
func NewTimelineGroup(children ...Node) *TimelineGroup {
	return &TimelineGroup{Timeline: NewTimeline(), Children: children}
}

// ChildTimelines implements GroupNode.
func (g *TimelineGroup) ChildTimelines() []Node { return g.Children }

// Add appends a child.
func (g *TimelineGroup) Add(n Node) {
	g.Children = append(g.Children, n)
}

// Remove drops the first occurrence of n and reports whether it was found.
func (g *TimelineGroup) Remove(n Node) bool {
	for i, c := range g.Children {
		if c == n {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			return true
		}
	}
	return false
}

// NaturalDuration implements Node: the end of the latest child.
func (g *TimelineGroup) NaturalDuration(tree *Tree, id ClockID) Duration {
	return tree.parallelDuration(id)
}

// Validate implements Node.
func (g *TimelineGroup) Validate() error {
	if err := g.Timeline.Validate(); err != nil {
		return err
	}
	for _, c := range g.Children {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}
