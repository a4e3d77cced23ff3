package raster

import (
	"math"
	"testing"

	"github.com/san-kum/harmonik/internal/field"
	"github.com/san-kum/harmonik/internal/params"
	"github.com/san-kum/harmonik/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tunnelRef(x, y, t float64) float64 {
	dx, dy := x-0.5, y-0.5
	r := math.Sqrt(dx*dx + dy*dy)
	a := math.Atan2(dy, dx)
	return math.Sin(r*20+t) * math.Cos(a*6+t/2)
}

func TestRenderTunnelReferencePixel(t *testing.T) {
	p := params.Parameters{Effect: field.Tunnel, Speed: 1, Scale: 1, Blend: 0, Invert: false}
	pix := Render(p, 0, 4, 4)
	require.Len(t, pix, 4*4*4)

	want := pipeline.Apply(tunnelRef(0.125, 0.125, 0), 1, 0, false) * 255
	assert.InDelta(t, want, float64(pix[0]), 0.5+1e-9)
	assert.Equal(t, pix[0], pix[1])
	assert.Equal(t, pix[0], pix[2])
	assert.Equal(t, uint8(255), pix[3])
}

func TestRenderCornerSampling(t *testing.T) {
	p := params.Parameters{Effect: field.Tunnel, Speed: 1, Scale: 1}
	r := New(Options{Sampling: SampleCorner})
	f := r.Render(p, 500, 8, 8)

	for _, pt := range [][2]int{{0, 0}, {3, 5}, {7, 1}} {
		x, y := pt[0], pt[1]
		want := pipeline.Apply(tunnelRef(float64(x)/8, float64(y)/8, 0.5), 1, 0, false) * 255
		assert.InDelta(t, want, float64(f.Luminance(x, y)), 0.5+1e-9, "pixel (%d,%d)", x, y)
	}
}

func TestRenderDeterministic(t *testing.T) {
	for _, e := range field.Effects() {
		p := params.Parameters{Effect: e, Speed: 1.3, Scale: 0.8, Blend: 0.2, Invert: true}
		a := Render(p, 1234.5, 37, 21)
		b := Render(p, 1234.5, 37, 21)
		assert.Equal(t, a, b, e.String())
	}
}

func TestRenderWorkersAgree(t *testing.T) {
	p := params.Parameters{Effect: field.Spiral, Speed: 1.5, Scale: 1.2, Blend: 0.3, Invert: true}
	serial := New(Options{Workers: 1}).Render(p, 987, 64, 48)
	parallel := New(Options{Workers: 7}).Render(p, 987, 64, 48)
	assert.Equal(t, serial.Pix, parallel.Pix)
}

func TestRenderAlphaOpaque(t *testing.T) {
	f := New(Options{}).Render(params.Default(), 100, 16, 16)
	for i := 3; i < len(f.Pix); i += 4 {
		require.Equal(t, uint8(255), f.Pix[i], "alpha at byte %d", i)
	}
}

func TestRenderEmpty(t *testing.T) {
	r := New(Options{})
	for _, sz := range [][2]int{{0, 0}, {0, 10}, {10, 0}, {-3, 4}, {4, -3}} {
		f := r.Render(params.Default(), 0, sz[0], sz[1])
		assert.True(t, f.Empty())
		assert.Empty(t, f.Pix)
	}
}

func TestRenderWormholeCenterFinite(t *testing.T) {
	p := params.Parameters{Effect: field.Wormhole, Speed: 1, Scale: 1}
	// Corner sampling on an even grid lands exactly on the center.
	f := New(Options{Sampling: SampleCorner}).Render(p, 0, 4, 4)
	assert.Equal(t, uint8(255), f.Luminance(2, 2))
}

func TestRenderOutOfRangeParameters(t *testing.T) {
	p := params.Parameters{Effect: field.Vortex, Speed: -2, Scale: 7, Blend: -1, Invert: false}
	assert.NotPanics(t, func() { Render(p, 5000, 8, 8) })

	clamped := New(Options{Clamp: pipeline.ClampInputs}).Render(p, 5000, 8, 8)
	literal := New(Options{Clamp: pipeline.ClampNone}).Render(p, 5000, 8, 8)
	assert.NotEqual(t, clamped.Pix, literal.Pix)
}

func TestRenderNonFiniteTimestamp(t *testing.T) {
	assert.NotPanics(t, func() {
		pix := Render(params.Default(), math.NaN(), 4, 4)
		assert.Equal(t, uint8(0), pix[0])
	})
}

func TestRenderKeepsInputs(t *testing.T) {
	p := params.Parameters{Effect: field.Ripple, Speed: 0.5, Scale: 1, Blend: 0.1}
	f := New(Options{}).Render(p, 42, 3, 2)
	assert.Equal(t, p, f.Params)
	assert.Equal(t, 42.0, f.Timestamp)

	img := f.Image()
	assert.Equal(t, 3, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, f.Pix[4], img.RGBAAt(1, 0).R)
}

func TestFastTrigClose(t *testing.T) {
	p := params.Parameters{Effect: field.Hypnotic, Speed: 1, Scale: 1}
	precise := New(Options{}).Render(p, 3000, 32, 32)
	fast := New(Options{FastTrig: true}).Render(p, 3000, 32, 32)
	for i := range precise.Pix {
		d := int(precise.Pix[i]) - int(fast.Pix[i])
		require.LessOrEqual(t, d*d, 1, "byte %d", i)
	}
}

func TestParseSampling(t *testing.T) {
	s, err := ParseSampling("corner")
	require.NoError(t, err)
	assert.Equal(t, SampleCorner, s)

	s, err = ParseSampling("")
	require.NoError(t, err)
	assert.Equal(t, SampleCenter, s)

	_, err = ParseSampling("jitter")
	assert.ErrorIs(t, err, ErrUnknownSampling)
}

func TestParallelForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 64, 1000} {
		hits := make([]int, n)
		ParallelFor(n, 4, 6, func(start, end int) {
			for i := start; i < end; i++ {
				hits[i]++
			}
		})
		for i, h := range hits {
			require.Equal(t, 1, h, "n=%d index %d", n, i)
		}
	}
}

func BenchmarkRender(b *testing.B) {
	r := New(Options{})
	p := params.Default()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Render(p, float64(i)*16, 800, 450)
	}
}
