// Package params holds the user-facing knobs that every frame is rendered
// from, the named presets, and the shared store the controls write into.
package params

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/harmonik/internal/field"
)

// Documented ranges. Values outside them are accepted as-is.
const (
	MaxSpeed = 2.0
	MaxScale = 2.0
	MaxBlend = 1.0
)

// Parameters is one complete set of render inputs.
type Parameters struct {
	Effect field.Effect `yaml:"effect" json:"effect"`
	Speed  float64      `yaml:"speed" json:"speed"`
	Scale  float64      `yaml:"scale" json:"scale"`
	Blend  float64      `yaml:"blend" json:"blend"`
	Invert bool         `yaml:"invert" json:"invert"`
}

// Default returns the startup parameters (the "default" preset).
func Default() Parameters {
	return Parameters{Effect: field.Tunnel, Speed: 1, Scale: 1, Blend: 0, Invert: false}
}

// InRange reports whether every knob lies in its documented range.
func (p Parameters) InRange() bool {
	return p.Effect.Valid() &&
		p.Speed >= 0 && p.Speed <= MaxSpeed &&
		p.Scale >= 0 && p.Scale <= MaxScale &&
		p.Blend >= 0 && p.Blend <= MaxBlend
}

func (p Parameters) String() string {
	return fmt.Sprintf("%s speed=%.2f scale=%.2f blend=%.2f invert=%t", p.Effect, p.Speed, p.Scale, p.Blend, p.Invert)
}

// Random draws a parameter set: effect uniform over all variants, speed and
// scale uniform in [0, 2), blend uniform in [0, 1), invert a fair coin.
func Random(rng *rand.Rand) Parameters {
	effects := field.Effects()
	return Parameters{
		Effect: effects[rng.Intn(len(effects))],
		Speed:  rng.Float64() * MaxSpeed,
		Scale:  rng.Float64() * MaxScale,
		Blend:  rng.Float64() * MaxBlend,
		Invert: rng.Float64() > 0.5,
	}
}
