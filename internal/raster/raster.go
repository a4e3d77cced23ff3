// Package raster turns parameters and a timestamp into a frame by
// evaluating a field for every pixel.
package raster

import (
	"fmt"
	"strings"

	"github.com/san-kum/harmonik/internal/field"
	"github.com/san-kum/harmonik/internal/params"
	"github.com/san-kum/harmonik/internal/pipeline"
)

// Sampling selects where inside a pixel the field is evaluated.
type Sampling uint8

const (
	// SampleCenter evaluates at ((x+0.5)/w, (y+0.5)/h).
	SampleCenter Sampling = iota
	// SampleCorner evaluates at (x/w, y/h).
	SampleCorner
)

func (s Sampling) String() string {
	if s == SampleCorner {
		return "corner"
	}
	return "center"
}

// ParseSampling resolves "center" or "corner". The empty string means center.
func ParseSampling(s string) (Sampling, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "center":
		return SampleCenter, nil
	case "corner":
		return SampleCorner, nil
	}
	return SampleCenter, fmt.Errorf("%w %q (center, corner)", ErrUnknownSampling, s)
}

// minRowsPerWorker keeps tiny frames on a single goroutine.
const minRowsPerWorker = 8

type Options struct {
	// Workers is the number of row workers; 0 means one per CPU.
	Workers  int
	Sampling Sampling
	Clamp    pipeline.Policy
	// FastTrig evaluates sin/cos through the lookup table.
	FastTrig bool
}

// Renderer renders frames with fixed options. It holds no per-frame state
// and is safe for concurrent use.
type Renderer struct {
	opts  Options
	trig  field.Trig
	stage pipeline.Stage
}

func New(opts Options) *Renderer {
	var trig field.Trig = field.Precise{}
	if opts.FastTrig {
		trig = field.DefaultTrigTable
	}
	return &Renderer{
		opts:  opts,
		trig:  trig,
		stage: pipeline.Stage{Policy: opts.Clamp},
	}
}

func (r *Renderer) Options() Options { return r.opts }

// Render computes a full frame for p at tsMillis. Non-positive sizes yield
// an empty frame.
func (r *Renderer) Render(p params.Parameters, tsMillis float64, width, height int) *Frame {
	f := newFrame(width, height, tsMillis, p)
	if f.Empty() {
		return f
	}

	fn := field.Lookup(p.Effect)
	t := tsMillis * p.Speed / 1000
	w, h := float64(width), float64(height)
	offset := 0.0
	if r.opts.Sampling == SampleCenter {
		offset = 0.5
	}

	ParallelFor(height, minRowsPerWorker, r.opts.Workers, func(start, end int) {
		for y := start; y < end; y++ {
			ny := (float64(y) + offset) / h
			row := f.Pix[y*width*4 : (y+1)*width*4]
			for x := 0; x < width; x++ {
				raw := fn(field.ToPolar((float64(x)+offset)/w, ny), t, r.trig)
				l := pipeline.ToByte(r.stage.Apply(raw, p.Scale, p.Blend, p.Invert))
				i := x * 4
				row[i] = l
				row[i+1] = l
				row[i+2] = l
				row[i+3] = 255
			}
		}
	})

	return f
}

var defaultRenderer = New(Options{})

// Render renders with default options and returns the raw RGBA bytes.
func Render(p params.Parameters, tsMillis float64, width, height int) []uint8 {
	return defaultRenderer.Render(p, tsMillis, width, height).Pix
}
