package animation

import (
	"sort"

	"github.com/matt-g-everett/ledtime/timing"
)

// DefaultDuration is the natural duration of animations that do not
// imply one.
const DefaultDuration = timing.TicksPerSecond

// KeyFrameCollection is an ordered list of key frames. Frames are looked up
// by time after their key times are resolved against a duration.
type KeyFrameCollection struct {
	frames []*KeyFrame

	resolved []resolvedFrame
	span     timing.TimeSpan
	valid    bool
}

type resolvedFrame struct {
	frame *KeyFrame
	time  timing.TimeSpan
}

// Segment is the piece of a key frame animation that contains a time.
type Segment struct {
	// Active is the frame being moved towards.
	Active     *KeyFrame
	ActiveTime timing.TimeSpan
	// Previous is the frame being moved away from. It is nil before the
	// first frame, where the animation starts from the base value at
	// time 0.
	Previous     *KeyFrame
	PreviousTime timing.TimeSpan
	// Progress is how far through the segment the time lies, in [0, 1].
	Progress float64
}

// NewKeyFrameCollection returns a collection holding frames.
func NewKeyFrameCollection(frames ...*KeyFrame) *KeyFrameCollection {
	return &KeyFrameCollection{frames: frames}
}

// Len returns the number of frames.
func (c *KeyFrameCollection) Len() int { return len(c.frames) }

// At returns the i'th frame in insertion order.
func (c *KeyFrameCollection) At(i int) *KeyFrame { return c.frames[i] }

// Add appends f.
func (c *KeyFrameCollection) Add(f *KeyFrame) {
	c.frames = append(c.frames, f)
	c.valid = false
}

// Insert puts f at index i, clamped to the collection bounds.
func (c *KeyFrameCollection) Insert(i int, f *KeyFrame) {
	if i < 0 {
		i = 0
	}
	if i > len(c.frames) {
		i = len(c.frames)
	}
	c.frames = append(c.frames, nil)
	copy(c.frames[i+1:], c.frames[i:])
	c.frames[i] = f
	c.valid = false
}

// Remove drops f and reports whether it was present.
func (c *KeyFrameCollection) Remove(f *KeyFrame) bool {
	for i, ff := range c.frames {
		if ff == f {
			c.frames = append(c.frames[:i], c.frames[i+1:]...)
			c.valid = false
			return true
		}
	}
	return false
}

// Invalidate discards resolved key times after a frame was edited in place.
func (c *KeyFrameCollection) Invalidate() { c.valid = false }

// NaturalDuration is the largest absolute key time, or DefaultDuration if
// no frame has one.
func (c *KeyFrameCollection) NaturalDuration() timing.Duration {
	var max timing.TimeSpan
	found := false
	for _, f := range c.frames {
		if f.KeyTime.Kind() == KeyTimeSpan && (!found || f.KeyTime.TimeSpan() > max) {
			max = f.KeyTime.TimeSpan()
			found = true
		}
	}
	if !found {
		return timing.DurationOf(DefaultDuration)
	}
	return timing.DurationOf(max)
}

// ResolvedTimes returns the absolute time of every frame, in insertion
// order, for an animation lasting d.
func (c *KeyFrameCollection) ResolvedTimes(d timing.TimeSpan) []timing.TimeSpan {
	return c.resolveTimes(d)
}

func (c *KeyFrameCollection) resolveTimes(d timing.TimeSpan) []timing.TimeSpan {
	n := len(c.frames)
	times := make([]timing.TimeSpan, n)
	known := make([]bool, n)
	for i, f := range c.frames {
		switch f.KeyTime.Kind() {
		case KeyTimeSpan:
			times[i], known[i] = f.KeyTime.TimeSpan(), true
		case KeyTimePercent:
			times[i], known[i] = d.Scale(f.KeyTime.Percent()), true
		}
	}
	if n == 0 {
		return times
	}
	if !known[n-1] {
		times[n-1], known[n-1] = d, true
	}
	if n > 1 && !known[0] && c.frames[0].KeyTime.Kind() == KeyTimePaced {
		times[0], known[0] = 0, true
	}

	for i := 0; i < n; {
		if known[i] {
			i++
			continue
		}
		start := i
		for !known[i] {
			i++
		}
		c.fillRun(times, start, i)
	}
	return times
}

// fillRun places frames start..end-1 between the frames either side of
// them; end is always resolved. A run before the first resolved frame
// starts from time 0.
func (c *KeyFrameCollection) fillRun(times []timing.TimeSpan, start, end int) {
	var from timing.TimeSpan
	if start > 0 {
		from = times[start-1]
	}
	gap := times[end] - from

	paced := false
	for _, f := range c.frames[start:end] {
		if f.KeyTime.Kind() == KeyTimePaced {
			paced = true
		}
	}
	if paced && start > 0 {
		dist := make([]float64, 0, end-start+1)
		total := 0.0
		for k := start; k <= end; k++ {
			total += Distance(c.frames[k-1].Value, c.frames[k].Value)
			dist = append(dist, total)
		}
		if total > 0 {
			for k := start; k < end; k++ {
				times[k] = from + gap.Scale(dist[k-start]/total)
			}
			return
		}
	}

	segments := float64(end - start + 1)
	for k := start; k < end; k++ {
		times[k] = from + gap.Scale(float64(k-start+1)/segments)
	}
}

func (c *KeyFrameCollection) resolve(d timing.TimeSpan) []resolvedFrame {
	if c.valid && c.span == d {
		return c.resolved
	}
	times := c.resolveTimes(d)
	c.resolved = c.resolved[:0]
	for i, f := range c.frames {
		c.resolved = append(c.resolved, resolvedFrame{frame: f, time: times[i]})
	}
	sort.SliceStable(c.resolved, func(i, j int) bool {
		return c.resolved[i].time < c.resolved[j].time
	})
	c.span = d
	c.valid = true
	return c.resolved
}

// FrameForTime finds the segment of an animation lasting d that contains t.
// The active frame is the first whose time is at or after t; when t hits
// several frames sharing a time, the last one added wins. Past the last
// frame the segment is the last frame with progress 1.
func (c *KeyFrameCollection) FrameForTime(t, d timing.TimeSpan) (Segment, bool) {
	r := c.resolve(d)
	n := len(r)
	if n == 0 {
		return Segment{}, false
	}

	i := sort.Search(n, func(i int) bool { return r[i].time >= t })
	if i == n {
		i = n - 1
	} else if r[i].time == t {
		for i+1 < n && r[i+1].time == t {
			i++
		}
	}

	seg := Segment{Active: r[i].frame, ActiveTime: r[i].time}
	if i > 0 {
		seg.Previous = r[i-1].frame
		seg.PreviousTime = r[i-1].time
	}
	switch span := seg.ActiveTime - seg.PreviousTime; {
	case t >= seg.ActiveTime || span <= 0:
		seg.Progress = 1
	case t > seg.PreviousTime:
		seg.Progress = float64(t-seg.PreviousTime) / float64(span)
	}
	return seg, true
}

func (c *KeyFrameCollection) validate(kind Kind) error {
	for _, f := range c.frames {
		if err := f.validate(kind); err != nil {
			return err
		}
	}
	return nil
}
