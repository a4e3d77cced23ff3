package control

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/harmonik/internal/logging"
	"github.com/san-kum/harmonik/internal/params"
)

// Knob is one of the continuous parameters a user can tune.
type Knob int

const (
	Speed Knob = iota
	Scale
	Blend
	KnobCount
)

var knobNames = [KnobCount]string{"speed", "scale", "blend"}
var knobMax = [KnobCount]float64{params.MaxSpeed, params.MaxScale, params.MaxBlend}

func (k Knob) String() string {
	if k < 0 || k >= KnobCount {
		return "unknown"
	}
	return knobNames[k]
}

// Max returns the upper end of the knob's slider range, or 0 for an
// unknown knob.
func (k Knob) Max() float64 {
	if k < 0 || k >= KnobCount {
		return 0
	}
	return knobMax[k]
}

// Value reads the knob from p.
func (k Knob) Value(p params.Parameters) float64 {
	switch k {
	case Speed:
		return p.Speed
	case Scale:
		return p.Scale
	case Blend:
		return p.Blend
	}
	return 0
}

// Set writes v into the knob's field of p.
func (k Knob) Set(p *params.Parameters, v float64) {
	switch k {
	case Speed:
		p.Speed = v
	case Scale:
		p.Scale = v
	case Blend:
		p.Blend = v
	}
}

// ParseKnob looks a knob up by name.
func ParseKnob(name string) (Knob, error) {
	for k := Knob(0); k < KnobCount; k++ {
		if knobNames[k] == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown knob %q (available: %v)", name, knobNames)
}

// Animator is the part of the scheduler a panel drives.
type Animator interface {
	Toggle() bool
	IsRunning() bool
}

// Panel is the set of controls. It is meant to be used from one UI
// goroutine.
type Panel struct {
	store    *params.Store
	anim     Animator
	rng      *rand.Rand
	selected Knob
}

func NewPanel(store *params.Store, anim Animator, rng *rand.Rand) *Panel {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Panel{store: store, anim: anim, rng: rng}
}

func (p *Panel) Store() *params.Store { return p.store }

// Toggle starts or stops the animation and reports the new state.
func (p *Panel) Toggle() bool { return p.anim.Toggle() }

func (p *Panel) Running() bool { return p.anim.IsRunning() }

func (p *Panel) NextEffect() {
	p.store.SetEffect(p.store.Snapshot().Effect.Next())
}

// NextPreset applies the preset after the active one and returns its name.
func (p *Panel) NextPreset() (string, error) {
	name := p.store.Presets().Next(p.store.ActivePreset())
	if err := p.store.ApplyPreset(name); err != nil {
		return "", err
	}
	logging.Logger().Info("preset applied", "preset", name)
	return name, nil
}

func (p *Panel) Randomize() params.Parameters {
	return p.store.Randomize(p.rng)
}

func (p *Panel) ToggleInvert() {
	p.store.SetInvert(!p.store.Snapshot().Invert)
}

func (p *Panel) Selected() Knob { return p.selected }

// SelectNext moves the selection to the next knob, wrapping around.
func (p *Panel) SelectNext() Knob {
	p.selected = (p.selected + 1) % KnobCount
	return p.selected
}

// Tune adds delta to the selected knob, keeping it within the slider range.
func (p *Panel) Tune(delta float64) float64 {
	v := min(max(p.selected.Value(p.store.Snapshot())+delta, 0), p.selected.Max())
	switch p.selected {
	case Speed:
		p.store.SetSpeed(v)
	case Scale:
		p.store.SetScale(v)
	case Blend:
		p.store.SetBlend(v)
	}
	return v
}
