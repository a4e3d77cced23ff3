package analysis

import "github.com/san-kum/harmonik/internal/raster"

// Stats summarizes the luminance of one frame, normalized to [0, 1].
type Stats struct {
	Mean      float64
	Min       float64
	Max       float64
	Histogram []int
}

// Measure computes luminance statistics with the given number of bins.
func Measure(f *raster.Frame, bins int) Stats {
	if bins < 1 {
		bins = 1
	}
	s := Stats{Histogram: make([]int, bins)}
	if f.Empty() {
		return s
	}

	lo, hi := uint8(255), uint8(0)
	sum := 0
	n := f.Width * f.Height
	for i := 0; i < n; i++ {
		l := f.Pix[i*4]
		sum += int(l)
		if l < lo {
			lo = l
		}
		if l > hi {
			hi = l
		}
		s.Histogram[int(l)*bins/256]++
	}

	s.Mean = float64(sum) / float64(n) / 255
	s.Min = float64(lo) / 255
	s.Max = float64(hi) / 255
	return s
}
