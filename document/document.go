// Package document loads storyboards from YAML.
//
//	storyboards:
//	  - name: sunrise
//	    target: strip
//	    property: Background
//	    repeat: Forever
//	    autoReverse: true
//	    children:
//	      - type: color
//	        duration: "0:0:5"
//	        from: "#000010"
//	        to: "#ff8000"
//	        easing: InOutQuad
//	      - type: double
//	        property: Opacity
//	        keyFrames:
//	          - {time: "0:0:1", value: "0.2", interpolation: Discrete}
//	          - {time: "100%", value: "1", interpolation: Spline, spline: "0.4,0 0.2,1"}
package document

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/ledtime/animation"
	"github.com/matt-g-everett/ledtime/timing"
)

var log = logrus.WithField("component", "document")

// Document is a set of storyboards.
type Document struct {
	Storyboards []Timeline `yaml:"storyboards"`
}

// Timeline describes a storyboard, when Type is empty or "storyboard", or
// an animation of the named value kind.
type Timeline struct {
	Type        string     `yaml:"type"`
	Name        string     `yaml:"name"`
	Target      string     `yaml:"target"`
	Property    string     `yaml:"property"`
	Begin       string     `yaml:"begin"`
	Duration    string     `yaml:"duration"`
	Repeat      string     `yaml:"repeat"`
	Fill        string     `yaml:"fill"`
	AutoReverse bool       `yaml:"autoReverse"`
	Speed       float64    `yaml:"speed"`
	Markers     []Marker   `yaml:"markers"`
	From        string     `yaml:"from"`
	To          string     `yaml:"to"`
	By          string     `yaml:"by"`
	Easing      string     `yaml:"easing"`
	KeyFrames   []KeyFrame `yaml:"keyFrames"`
	Children    []Timeline `yaml:"children"`
}

// Marker is a named point on a timeline.
type Marker struct {
	Time string `yaml:"time"`
	Type string `yaml:"type"`
	Text string `yaml:"text"`
}

// KeyFrame is one key frame of an animation.
type KeyFrame struct {
	Time          string `yaml:"time"`
	Value         string `yaml:"value"`
	Interpolation string `yaml:"interpolation"`
	Spline        string `yaml:"spline"`
}

// Parse decodes a document.
func Parse(data []byte) (*Document, error) {
	d := new(Document)
	if err := yaml.UnmarshalStrict(data, d); err != nil {
		return nil, errors.Wrap(err, "decoding storyboard document")
	}
	return d, nil
}

// Load reads and decodes the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading storyboard document")
	}
	d, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	log.WithField("path", path).Infof("loaded %d storyboards", len(d.Storyboards))
	return d, nil
}

// Build turns every storyboard of the document into an
// animation.Storyboard, in document order. Names must be unique.
func (d *Document) Build() ([]*animation.Storyboard, error) {
	seen := make(map[string]bool)
	out := make([]*animation.Storyboard, 0, len(d.Storyboards))
	for i, t := range d.Storyboards {
		if t.Name == "" {
			return nil, errors.Errorf("storyboard %d has no name", i)
		}
		if seen[t.Name] {
			return nil, errors.Errorf("duplicate storyboard %q", t.Name)
		}
		seen[t.Name] = true
		sb, err := BuildStoryboard(t)
		if err != nil {
			return nil, err
		}
		out = append(out, sb)
	}
	return out, nil
}

// BuildStoryboard converts t, which must describe a storyboard.
func BuildStoryboard(t Timeline) (*animation.Storyboard, error) {
	n, err := t.build()
	if err != nil {
		return nil, errors.Wrapf(err, "storyboard %q", t.Name)
	}
	sb, ok := n.(*animation.Storyboard)
	if !ok {
		return nil, errors.Errorf("%q is a %s animation, not a storyboard", t.Name, t.Type)
	}
	if err := sb.Validate(); err != nil {
		return nil, err
	}
	return sb, nil
}

func (t Timeline) build() (timing.Node, error) {
	if t.Type == "" || t.Type == "storyboard" {
		sb := animation.NewStoryboard()
		if err := t.applyTiming(&sb.Timeline); err != nil {
			return nil, err
		}
		sb.TargetName, sb.TargetProperty = t.Target, t.Property
		for _, c := range t.Children {
			n, err := c.build()
			if err != nil {
				return nil, err
			}
			sb.Add(n)
		}
		return sb, nil
	}

	kind, err := ParseKind(t.Type)
	if err != nil {
		return nil, err
	}
	if len(t.Children) > 0 {
		return nil, errors.Errorf("animation %q cannot have children", t.Name)
	}
	a := animation.NewAnimation(kind)
	if err := t.applyTiming(&a.Timeline); err != nil {
		return nil, err
	}
	a.TargetName, a.TargetProperty, a.Easing = t.Target, t.Property, t.Easing
	for _, e := range []struct {
		field string
		s     string
		dst   **animation.Value
	}{{"from", t.From, &a.From}, {"to", t.To, &a.To}, {"by", t.By, &a.By}} {
		if e.s == "" {
			continue
		}
		v, err := ParseValue(kind, e.s)
		if err != nil {
			return nil, errors.Wrap(err, e.field)
		}
		*e.dst = &v
	}
	if len(t.KeyFrames) > 0 {
		a.KeyFrames = animation.NewKeyFrameCollection()
		for i, kf := range t.KeyFrames {
			f, err := kf.build(kind)
			if err != nil {
				return nil, errors.Wrapf(err, "key frame %d", i)
			}
			a.KeyFrames.Add(f)
		}
	}
	return a, nil
}

func (t Timeline) applyTiming(tl *timing.Timeline) error {
	tl.Name = t.Name
	tl.AutoReverse = t.AutoReverse
	if t.Speed != 0 {
		tl.SpeedRatio = t.Speed
	}
	if t.Begin != "" {
		ts, err := ParseTimeSpan(t.Begin)
		if err != nil {
			return errors.Wrap(err, "begin")
		}
		tl.SetBeginTime(ts)
	}
	var err error
	if tl.Duration, err = ParseDuration(t.Duration); err != nil {
		return errors.Wrap(err, "duration")
	}
	if tl.RepeatBehavior, err = ParseRepeatBehavior(t.Repeat); err != nil {
		return errors.Wrap(err, "repeat")
	}
	if tl.FillBehavior, err = ParseFillBehavior(t.Fill); err != nil {
		return errors.Wrap(err, "fill")
	}
	for _, m := range t.Markers {
		ts, err := ParseTimeSpan(m.Time)
		if err != nil {
			return errors.Wrap(err, "marker")
		}
		tl.Markers = append(tl.Markers, timing.Marker{Time: ts, Type: m.Type, Text: m.Text})
	}
	return nil
}

func (kf KeyFrame) build(kind animation.Kind) (*animation.KeyFrame, error) {
	kt, err := ParseKeyTime(kf.Time)
	if err != nil {
		return nil, err
	}
	v, err := ParseValue(kind, kf.Value)
	if err != nil {
		return nil, err
	}
	interp, err := ParseInterpolation(kf.Interpolation)
	if err != nil {
		return nil, err
	}
	f := &animation.KeyFrame{KeyTime: kt, Value: v, Interpolation: interp}
	if kf.Spline != "" {
		s, err := ParseKeySpline(kf.Spline)
		if err != nil {
			return nil, err
		}
		f.KeySpline = &s
	}
	return f, nil
}
