package util

import (
	"math/rand"
	"testing"
)

func TestGenerateLut(t *testing.T) {
	lut := GenerateLut(9)
	if len(lut) != 9 {
		t.Fatalf("len = %d, want 9", len(lut))
	}
	if lut[0] != 0 || lut[8] != 0 {
		t.Errorf("ends = %v, %v; want 0", lut[0], lut[8])
	}
	if lut[4] != 1 {
		t.Errorf("peak = %v, want 1", lut[4])
	}
	for i := 0; i < 4; i++ {
		if lut[i] > lut[i+1] {
			t.Errorf("lut rises unevenly at %d: %v", i, lut)
		}
		if lut[i] != lut[8-i] {
			t.Errorf("lut not symmetric at %d: %v", i, lut)
		}
	}
	if got := GenerateLut(1); len(got) != 1 || got[0] != 1 {
		t.Errorf("GenerateLut(1) = %v", got)
	}
}

func TestRandomBetween(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		if v := RandomBetween(r, 0.6, 0.9); v < 0.6 || v >= 0.9 {
			t.Fatalf("RandomBetween = %v, out of range", v)
		}
	}
}
