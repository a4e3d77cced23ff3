// Package analysis measures rendered frames and sequences of frames.
//
//   - [Stats]: mean, min, max, and histogram of a frame's luminance
//   - [PowerSpectrum]: magnitude spectrum of a real series
//   - [DominantFrequency]: strongest non-DC frequency of a sampled series
//
// A typical use samples the mean luminance of an animation at a fixed rate
// and looks for the frequency at which the pattern pulses:
//
//	series := make([]float64, n)
//	for i := range series {
//	    f := r.Render(p, float64(i)*1000/fps, w, h)
//	    series[i] = analysis.Measure(f, 16).Mean
//	}
//	hz := analysis.DominantFrequency(series, fps)
package analysis
