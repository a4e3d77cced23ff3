// Package field provides the scalar fields that drive every frame.
//
// A field maps a normalized pixel position (x, y in [0,1]) and a time value
// to a scalar in [-1, 1]. All fields share one polar decomposition around the
// canvas center:
//
//	dx, dy := x-0.5, y-0.5
//	r      := sqrt(dx*dx + dy*dy)
//	angle  := atan2(dy, dx)
//
// and differ only in the formula applied to (r, angle, t). The six variants
// are selected through [Effect] and resolved by table lookup:
//
//	v := field.Eval(field.Tunnel, 0.25, 0.25, 1.5)
//
// # Singularities
//
// Wormhole contains a 1/r term. At r == 0 it returns 1, the saturating
// magnitude of the formula, so no non-finite value ever leaves this package.
package field
