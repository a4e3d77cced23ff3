package field

import "math"

// Polar is a normalized pixel position decomposed around the canvas center.
type Polar struct {
	R     float64
	Angle float64
}

// ToPolar recenters (x, y) on (0.5, 0.5) and returns its radius and angle.
func ToPolar(x, y float64) Polar {
	dx := x - 0.5
	dy := y - 0.5
	return Polar{
		R:     math.Sqrt(dx*dx + dy*dy),
		Angle: math.Atan2(dy, dx),
	}
}

// Func evaluates one field at a polar position and time.
type Func func(p Polar, t float64, m Trig) float64

var table = [effectCount]Func{
	Tunnel:   tunnel,
	Vortex:   vortex,
	Ripple:   ripple,
	Spiral:   spiral,
	Wormhole: wormhole,
	Hypnotic: hypnotic,
}

// Lookup returns the function for e. Invalid effects map to a zero field.
func Lookup(e Effect) Func {
	if !e.Valid() {
		return zero
	}
	return table[e]
}

// Eval evaluates effect e at normalized (x, y) and time t with precise trig.
func Eval(e Effect, x, y, t float64) float64 {
	return Lookup(e)(ToPolar(x, y), t, Precise{})
}

// EvalWith evaluates effect e using the given trig backend.
func EvalWith(m Trig, e Effect, x, y, t float64) float64 {
	return Lookup(e)(ToPolar(x, y), t, m)
}

func zero(Polar, float64, Trig) float64 { return 0 }

func tunnel(p Polar, t float64, m Trig) float64 {
	return m.Sin(p.R*20+t) * m.Cos(p.Angle*6+t/2)
}

func vortex(p Polar, t float64, m Trig) float64 {
	return m.Sin(p.R*10 - p.Angle*5 + t)
}

// r*5+1 >= 1 for every r >= 0, so ripple has no singular point.
func ripple(p Polar, t float64, m Trig) float64 {
	return m.Sin(p.R*20-t*2) / (p.R*5 + 1)
}

func spiral(p Polar, t float64, m Trig) float64 {
	return m.Sin(p.R*20 + p.Angle*10 + t*2)
}

// At the center 1/r overflows; the field saturates at its maximum instead.
func wormhole(p Polar, t float64, m Trig) float64 {
	inv := 1 / p.R
	if math.IsInf(inv, 0) {
		return 1
	}
	return m.Sin(inv + p.Angle*5 + t)
}

func hypnotic(p Polar, t float64, m Trig) float64 {
	return m.Sin(p.R*10+t) * m.Sin(p.R*20-t*0.5)
}
