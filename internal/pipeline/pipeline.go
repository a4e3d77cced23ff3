// Package pipeline maps a raw field value to a luminance.
package pipeline

import (
	"fmt"
	"math"
	"strings"
)

// Policy controls how out-of-range parameters and results are handled.
type Policy uint8

const (
	// ClampNone propagates inputs and output literally.
	ClampNone Policy = iota
	// ClampOutput restricts the final luminance to [0, 1].
	ClampOutput
	// ClampInputs restricts scale to [0, 2], blend to [0, 1], and the
	// final luminance to [0, 1].
	ClampInputs
)

var policyNames = map[Policy]string{
	ClampNone:   "none",
	ClampOutput: "output",
	ClampInputs: "inputs",
}

func (p Policy) String() string {
	if n, ok := policyNames[p]; ok {
		return n
	}
	return fmt.Sprintf("policy(%d)", uint8(p))
}

// ParsePolicy resolves a policy name. The empty string means ClampNone.
func ParsePolicy(s string) (Policy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ClampNone, nil
	}
	for p, n := range policyNames {
		if n == s {
			return p, nil
		}
	}
	return ClampNone, fmt.Errorf("%w %q (none, output, inputs)", ErrUnknownPolicy, s)
}

func (p Policy) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Policy) UnmarshalText(text []byte) error {
	v, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Apply normalizes raw from [-1, 1] to [0, 1], scales it, blends it toward
// mid-gray, and optionally inverts it. No clamping is performed.
func Apply(raw, scale, blend float64, invert bool) float64 {
	v := (raw + 1) / 2
	v *= scale
	v = blend*0.5 + v*(1-blend)
	if invert {
		v = 1 - v
	}
	return v
}

// Stage is Apply with a clamp policy attached.
type Stage struct {
	Policy Policy
}

func (s Stage) Apply(raw, scale, blend float64, invert bool) float64 {
	switch s.Policy {
	case ClampOutput:
		return clamp(Apply(raw, scale, blend, invert), 0, 1)
	case ClampInputs:
		scale = clamp(scale, 0, 2)
		blend = clamp(blend, 0, 1)
		return clamp(Apply(raw, scale, blend, invert), 0, 1)
	default:
		return Apply(raw, scale, blend, invert)
	}
}

// ToByte converts a luminance to an 8-bit channel value: v*255 rounded
// half to even, saturated to [0, 255]. NaN maps to 0.
func ToByte(v float64) uint8 {
	if math.IsNaN(v) {
		return 0
	}
	b := math.RoundToEven(v * 255)
	if b <= 0 {
		return 0
	}
	if b >= 255 {
		return 255
	}
	return uint8(b)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
