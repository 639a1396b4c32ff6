package stream

import (
	"encoding/binary"

	"github.com/lucasb-eyer/go-colorful"
)

// maxPixels is the most pixels a frame header can describe.
const maxPixels = 0xffff

// Frame represents a frame of RGB pixels to display on an ledrx device.
type Frame struct {
	pixels []colorful.Color
}

// NewFrame creates a black frame of n pixels.
func NewFrame(n int) *Frame {
	f := new(Frame)
	f.pixels = make([]colorful.Color, n)
	return f
}

// Len returns the pixel count.
func (f *Frame) Len() int { return len(f.pixels) }

// At returns pixel i.
func (f *Frame) At(i int) colorful.Color { return f.pixels[i] }

// Set sets pixel i.
func (f *Frame) Set(i int, c colorful.Color) { f.pixels[i] = c }

// Clone returns a copy of f.
func (f *Frame) Clone() *Frame {
	out := NewFrame(len(f.pixels))
	copy(out.pixels, f.pixels)
	return out
}

// InterpolateFrame merges two frames. Pixels missing from the shorter
// frame are treated as black.
func (f *Frame) InterpolateFrame(f2 *Frame, transitionPoint float64) *Frame {
	n := len(f.pixels)
	if len(f2.pixels) > n {
		n = len(f2.pixels)
	}
	out := NewFrame(n)
	for i := 0; i < n; i++ {
		var a, b colorful.Color
		if i < len(f.pixels) {
			a = f.pixels[i]
		}
		if i < len(f2.pixels) {
			b = f2.pixels[i]
		}
		out.pixels[i] = a.BlendRgb(b, transitionPoint)
	}

	return out
}

// MarshalBinary converts a Frame into binary data: a little endian pixel
// count followed by one RGB triple per pixel.
func (f *Frame) MarshalBinary() (data []byte, err error) {
	data = make([]byte, 2, (len(f.pixels)*3)+2)
	binary.LittleEndian.PutUint16(data, uint16(len(f.pixels)))
	for _, p := range f.pixels {
		r, g, b := p.Clamped().RGB255()
		data = append(data, r, g, b)
	}

	return data, nil
}
