package field

import "math"

// Trig is the sine/cosine backend used by the field formulas.
type Trig interface {
	Sin(x float64) float64
	Cos(x float64) float64
}

// Precise evaluates with the math package.
type Precise struct{}

func (Precise) Sin(x float64) float64 { return math.Sin(x) }
func (Precise) Cos(x float64) float64 { return math.Cos(x) }

// TrigTable provides precomputed sin values with linear interpolation.
// Cos is served from the same table shifted by a quarter turn.
type TrigTable struct {
	sin   []float64
	n     int
	scale float64
}

// DefaultTrigTable has 4096 entries (~0.0015 rad resolution).
var DefaultTrigTable = NewTrigTable(4096)

// NewTrigTable creates a lookup table with n entries over one full turn.
func NewTrigTable(n int) *TrigTable {
	if n < 4 {
		n = 4
	}
	t := &TrigTable{
		sin:   make([]float64, n+1),
		n:     n,
		scale: float64(n) / (2 * math.Pi),
	}
	for i := 0; i <= n; i++ {
		t.sin[i] = math.Sin(float64(i) * 2 * math.Pi / float64(n))
	}
	return t
}

// Sin returns the interpolated sine of x. Non-finite input yields NaN.
func (t *TrigTable) Sin(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return math.NaN()
	}
	x = math.Mod(x, 2*math.Pi)
	if x < 0 {
		x += 2 * math.Pi
	}

	idx := x * t.scale
	i := int(idx)
	if i >= t.n {
		i = t.n - 1
	}
	frac := idx - float64(i)
	return t.sin[i]*(1-frac) + t.sin[i+1]*frac
}

// Cos returns the interpolated cosine of x.
func (t *TrigTable) Cos(x float64) float64 {
	return t.Sin(x + math.Pi/2)
}
