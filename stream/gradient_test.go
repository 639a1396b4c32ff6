package stream

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestGradientGetColor(t *testing.T) {
	g := GradientTable{{Hue: 0, Pos: 0}, {Hue: 100, Pos: 0.5}, {Hue: 200, Pos: 1}}
	tests := []struct {
		t, shift float64
		hue      float64
	}{
		{0, 0, 0},
		{0.25, 0, 50},
		{0.75, 0, 150},
		{1, 0, 200},
		{1.5, 0, 200},
		{0.25, 20, 70},
		{1, 200, 40},
		{0, -30, 330},
	}
	for _, tt := range tests {
		got := g.GetColor(tt.t, 1, 0.5, tt.shift)
		want := colorful.Hcl(tt.hue, 1, 0.5)
		if !approx(got.R, want.R) || !approx(got.G, want.G) || !approx(got.B, want.B) {
			t.Errorf("GetColor(%v, shift %v) = %v, want hue %v", tt.t, tt.shift, got, tt.hue)
		}
	}
}

func TestEmptyGradient(t *testing.T) {
	var g GradientTable
	if got, want := g.GetColor(0.3, 1, 0.5, 90), colorful.Hcl(90, 1, 0.5); got != want {
		t.Errorf("GetColor() = %v, want %v", got, want)
	}
}
