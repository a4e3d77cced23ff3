package raster

import (
	"image"

	"github.com/san-kum/harmonik/internal/params"
)

// Frame is one rendered RGBA image together with the inputs it came from.
type Frame struct {
	Width, Height int
	// Pix holds row-major RGBA bytes, 4 per pixel.
	Pix       []uint8
	Timestamp float64
	Params    params.Parameters
}

func newFrame(w, h int, ts float64, p params.Parameters) *Frame {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Frame{
		Width:     w,
		Height:    h,
		Pix:       make([]uint8, w*h*4),
		Timestamp: ts,
		Params:    p,
	}
}

// Empty reports whether the frame has no pixels.
func (f *Frame) Empty() bool { return f == nil || f.Width == 0 || f.Height == 0 }

// Luminance returns the gray level of pixel (x, y).
func (f *Frame) Luminance(x, y int) uint8 {
	return f.Pix[(y*f.Width+x)*4]
}

// Image wraps the frame's pixels without copying.
func (f *Frame) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    f.Pix,
		Stride: f.Width * 4,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}
