package params

import (
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/harmonik/internal/field"
	"gopkg.in/yaml.v3"
)

// Custom is the active preset name after any individual edit.
const Custom = "custom"

var builtinOrder = []string{"default", "psychedelic", "retro", "cosmic"}

var builtin = map[string]Parameters{
	"default":     {Effect: field.Tunnel, Speed: 1, Scale: 1, Blend: 0, Invert: false},
	"psychedelic": {Effect: field.Spiral, Speed: 1.5, Scale: 1.2, Blend: 0.3, Invert: true},
	"retro":       {Effect: field.Hypnotic, Speed: 0.8, Scale: 0.9, Blend: 0.1, Invert: false},
	"cosmic":      {Effect: field.Wormhole, Speed: 1.2, Scale: 1.1, Blend: 0.2, Invert: false},
}

// Presets is a registry of named parameter sets.
type Presets struct {
	order []string
	sets  map[string]Parameters
}

// Builtin returns a registry holding the four built-in presets.
func Builtin() *Presets {
	p := &Presets{sets: make(map[string]Parameters, len(builtin))}
	for _, name := range builtinOrder {
		p.Add(name, builtin[name])
	}
	return p
}

// Add registers or replaces a preset. New names keep insertion order.
func (p *Presets) Add(name string, params Parameters) {
	if _, ok := p.sets[name]; !ok {
		p.order = append(p.order, name)
	}
	p.sets[name] = params
}

// Get returns the preset with the given name.
func (p *Presets) Get(name string) (Parameters, error) {
	params, ok := p.sets[name]
	if !ok {
		return Parameters{}, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, p.order)
	}
	return params, nil
}

// Names lists presets, built-ins first, then user presets in file order.
func (p *Presets) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Next returns the preset following name, wrapping around. An unknown name
// (including Custom) yields the first preset.
func (p *Presets) Next(name string) string {
	for i, n := range p.order {
		if n == name {
			return p.order[(i+1)%len(p.order)]
		}
	}
	return p.order[0]
}

type presetFile struct {
	Presets map[string]Parameters `yaml:"presets"`
}

// LoadFile merges presets from a YAML file of the form
//
//	presets:
//	  neon: {effect: vortex, speed: 1.7, scale: 1, blend: 0, invert: false}
//
// Names are added in sorted order since YAML maps are unordered.
func (p *Presets) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPresetFile, path, err)
	}
	names := make([]string, 0, len(f.Presets))
	for name := range f.Presets {
		if name == Custom {
			return fmt.Errorf("%w: %s: preset name %q is reserved", ErrInvalidPresetFile, path, Custom)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.Add(name, f.Presets[name])
	}
	return nil
}
