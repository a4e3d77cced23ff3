package params

import (
	"math/rand"
	"sync"
	"sync/atomic"

	"github.com/san-kum/harmonik/internal/field"
)

// Store is the shared, mutable parameter model. Readers take whole-value
// snapshots; writers replace the snapshot and notify subscribers.
type Store struct {
	cur     atomic.Pointer[state]
	presets *Presets

	// wmu serializes writers so read-modify-write edits never lose updates.
	wmu sync.Mutex

	mu     sync.Mutex
	nextID int
	subs   map[int]func(Parameters)
}

type state struct {
	params Parameters
	preset string
}

// NewStore creates a store holding the "default" preset (or Default() when
// the registry has no such preset).
func NewStore(presets *Presets) *Store {
	if presets == nil {
		presets = Builtin()
	}
	s := &Store{presets: presets, subs: make(map[int]func(Parameters))}
	p, err := presets.Get("default")
	name := "default"
	if err != nil {
		p, name = Default(), Custom
	}
	s.cur.Store(&state{params: p, preset: name})
	return s
}

// Snapshot returns the current parameters.
func (s *Store) Snapshot() Parameters { return s.cur.Load().params }

// ActivePreset returns the name of the last applied preset, or Custom after
// an individual edit.
func (s *Store) ActivePreset() string { return s.cur.Load().preset }

func (s *Store) Presets() *Presets { return s.presets }

// Subscribe registers fn to run after every change. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn func(Parameters)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) publish(p Parameters, preset string) {
	s.wmu.Lock()
	s.cur.Store(&state{params: p, preset: preset})
	s.wmu.Unlock()
	s.notify(p)
}

func (s *Store) notify(p Parameters) {
	s.mu.Lock()
	fns := make([]func(Parameters), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(p)
	}
}

func (s *Store) update(fn func(p *Parameters)) {
	s.wmu.Lock()
	p := s.Snapshot()
	fn(&p)
	s.cur.Store(&state{params: p, preset: Custom})
	s.wmu.Unlock()
	s.notify(p)
}

// Set overwrites every parameter at once.
func (s *Store) Set(p Parameters) { s.publish(p, Custom) }

func (s *Store) SetEffect(e field.Effect) { s.update(func(p *Parameters) { p.Effect = e }) }
func (s *Store) SetSpeed(v float64)       { s.update(func(p *Parameters) { p.Speed = v }) }
func (s *Store) SetScale(v float64)       { s.update(func(p *Parameters) { p.Scale = v }) }
func (s *Store) SetBlend(v float64)       { s.update(func(p *Parameters) { p.Blend = v }) }
func (s *Store) SetInvert(v bool)         { s.update(func(p *Parameters) { p.Invert = v }) }

// ApplyPreset overwrites all parameters with the named preset.
func (s *Store) ApplyPreset(name string) error {
	p, err := s.presets.Get(name)
	if err != nil {
		return err
	}
	s.publish(p, name)
	return nil
}

// Randomize replaces all parameters with a random draw and returns it.
func (s *Store) Randomize(rng *rand.Rand) Parameters {
	p := Random(rng)
	s.publish(p, Custom)
	return p
}
