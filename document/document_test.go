package document

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matt-g-everett/ledtime/animation"
	"github.com/matt-g-everett/ledtime/timing"
)

const sample = `
storyboards:
  - name: sunrise
    target: strip
    property: Background
    repeat: Forever
    autoReverse: true
    markers:
      - {time: "0:0:2", type: cue, text: halfway}
    children:
      - type: color
        name: glow
        duration: "0:0:4"
        from: "#000010"
        to: "#ff8000"
        easing: InOutQuad
      - type: double
        property: Opacity
        fill: Stop
        keyFrames:
          - {time: "0:0:1", value: "0.2", interpolation: Discrete}
          - {time: "100%", value: "1", interpolation: Spline, spline: "0.4,0 0.2,1"}
  - name: pulse
    target: strip
    property: Opacity
    children:
      - {type: double, to: "0", duration: "500ms", speed: 2}
`

func TestBuild(t *testing.T) {
	doc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatal(err)
	}
	sbs, err := doc.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(sbs) != 2 {
		t.Fatalf("built %d storyboards, want 2", len(sbs))
	}

	sunrise := sbs[0]
	if sunrise.Name != "sunrise" || sunrise.TargetName != "strip" || sunrise.TargetProperty != "Background" {
		t.Errorf("sunrise = %q targeting %q.%q", sunrise.Name, sunrise.TargetName, sunrise.TargetProperty)
	}
	if !sunrise.RepeatBehavior.IsForever() || !sunrise.AutoReverse {
		t.Errorf("sunrise repeat %v autoReverse %v", sunrise.RepeatBehavior, sunrise.AutoReverse)
	}
	if len(sunrise.Markers) != 1 || sunrise.Markers[0].Time != 2*timing.TicksPerSecond {
		t.Errorf("sunrise markers = %+v", sunrise.Markers)
	}
	if len(sunrise.Children) != 2 {
		t.Fatalf("sunrise has %d children", len(sunrise.Children))
	}

	glow := sunrise.Children[0].(*animation.Animation)
	if glow.Kind != animation.KindColor || glow.From == nil || glow.To == nil || glow.Easing != "InOutQuad" {
		t.Errorf("glow = %+v", glow)
	}
	if !glow.Duration.Equal(timing.DurationOf(4 * timing.TicksPerSecond)) {
		t.Errorf("glow duration = %v", glow.Duration)
	}

	opacity := sunrise.Children[1].(*animation.Animation)
	if opacity.FillBehavior != timing.FillStop || opacity.TargetProperty != "Opacity" {
		t.Errorf("opacity fill %v property %q", opacity.FillBehavior, opacity.TargetProperty)
	}
	if opacity.KeyFrames.Len() != 2 {
		t.Fatalf("opacity has %d key frames", opacity.KeyFrames.Len())
	}
	last := opacity.KeyFrames.At(1)
	if last.Interpolation != animation.Spline || last.KeySpline == nil || last.KeyTime != animation.Percent(1) {
		t.Errorf("last key frame = %+v", last)
	}

	pulse := sbs[1].Children[0].(*animation.Animation)
	if pulse.SpeedRatio != 2 || pulse.To.Double() != 0 {
		t.Errorf("pulse speed %v to %v", pulse.SpeedRatio, pulse.To)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unnamed", "storyboards:\n  - target: x\n", "has no name"},
		{"duplicate", "storyboards:\n  - name: a\n  - name: a\n", "duplicate"},
		{"bad kind", "storyboards:\n  - name: a\n    children:\n      - type: vector\n", "invalid kind"},
		{"bad value", "storyboards:\n  - name: a\n    children:\n      - {type: double, to: lots}\n", "invalid double"},
		{"bad duration", "storyboards:\n  - name: a\n    duration: later\n", "duration"},
		{"not a storyboard", "storyboards:\n  - {name: a, type: double}\n", "not a storyboard"},
		{"bad speed", "storyboards:\n  - {name: a, speed: -1}\n", "speed ratio"},
		{"bad spline", "storyboards:\n  - name: a\n    children:\n      - type: double\n        keyFrames:\n          - {value: '1', interpolation: Spline, spline: '2,0 0,1'}\n", "key spline"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.doc))
			if err == nil {
				_, err = doc.Build()
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Build error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	if _, err := Parse([]byte("storyboards:\n  - name: a\n    colour: red\n")); err == nil {
		t.Error("Parse accepted an unknown field")
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storyboards.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(doc.Storyboards) != 2 {
		t.Errorf("loaded %d storyboards, want 2", len(doc.Storyboards))
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}
