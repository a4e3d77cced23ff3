package field

import (
	"fmt"
	"strings"
)

// Effect selects one of the field functions.
type Effect uint8

const (
	Tunnel Effect = iota
	Vortex
	Ripple
	Spiral
	Wormhole
	Hypnotic

	effectCount
)

var effectNames = [effectCount]string{
	Tunnel:   "tunnel",
	Vortex:   "vortex",
	Ripple:   "ripple",
	Spiral:   "spiral",
	Wormhole: "wormhole",
	Hypnotic: "hypnotic",
}

// Effects lists every variant in declaration order.
func Effects() []Effect {
	out := make([]Effect, effectCount)
	for i := range out {
		out[i] = Effect(i)
	}
	return out
}

// Names returns the effect names in declaration order.
func Names() []string {
	out := make([]string, effectCount)
	copy(out, effectNames[:])
	return out
}

func (e Effect) Valid() bool { return e < effectCount }

func (e Effect) String() string {
	if !e.Valid() {
		return fmt.Sprintf("effect(%d)", uint8(e))
	}
	return effectNames[e]
}

// Next returns the following variant, wrapping around after the last one.
func (e Effect) Next() Effect {
	return (e + 1) % effectCount
}

// ParseEffect resolves a case-insensitive effect name.
func ParseEffect(name string) (Effect, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range effectNames {
		if n == name {
			return Effect(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (available: %s)", ErrUnknownEffect, name, strings.Join(effectNames[:], ", "))
}

func (e Effect) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownEffect, uint8(e))
	}
	return []byte(effectNames[e]), nil
}

func (e *Effect) UnmarshalText(text []byte) error {
	v, err := ParseEffect(string(text))
	if err != nil {
		return err
	}
	*e = v
	return nil
}
