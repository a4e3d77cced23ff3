package params

import (
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/san-kum/harmonik/internal/field"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinPresets(t *testing.T) {
	presets := Builtin()
	assert.Equal(t, []string{"default", "psychedelic", "retro", "cosmic"}, presets.Names())

	tests := []struct {
		name string
		want Parameters
	}{
		{"default", Parameters{Effect: field.Tunnel, Speed: 1, Scale: 1, Blend: 0, Invert: false}},
		{"psychedelic", Parameters{Effect: field.Spiral, Speed: 1.5, Scale: 1.2, Blend: 0.3, Invert: true}},
		{"retro", Parameters{Effect: field.Hypnotic, Speed: 0.8, Scale: 0.9, Blend: 0.1, Invert: false}},
		{"cosmic", Parameters{Effect: field.Wormhole, Speed: 1.2, Scale: 1.1, Blend: 0.2, Invert: false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := presets.Get(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetUnknownPreset(t *testing.T) {
	_, err := Builtin().Get("vaporwave")
	assert.ErrorIs(t, err, ErrUnknownPreset)
}

func TestPresetsNext(t *testing.T) {
	p := Builtin()
	assert.Equal(t, "psychedelic", p.Next("default"))
	assert.Equal(t, "default", p.Next("cosmic"))
	assert.Equal(t, "default", p.Next(Custom))
}

func TestStoreApplyPreset(t *testing.T) {
	s := NewStore(nil)
	assert.Equal(t, Default(), s.Snapshot())
	assert.Equal(t, "default", s.ActivePreset())

	require.NoError(t, s.ApplyPreset("psychedelic"))
	assert.Equal(t, Parameters{Effect: field.Spiral, Speed: 1.5, Scale: 1.2, Blend: 0.3, Invert: true}, s.Snapshot())
	assert.Equal(t, "psychedelic", s.ActivePreset())

	before := s.Snapshot()
	assert.ErrorIs(t, s.ApplyPreset("nope"), ErrUnknownPreset)
	assert.Equal(t, before, s.Snapshot(), "failed preset must not change parameters")
}

func TestStoreSetters(t *testing.T) {
	s := NewStore(nil)

	s.SetEffect(field.Ripple)
	s.SetSpeed(0.4)
	s.SetScale(1.9)
	s.SetBlend(0.7)
	s.SetInvert(true)

	assert.Equal(t, Parameters{Effect: field.Ripple, Speed: 0.4, Scale: 1.9, Blend: 0.7, Invert: true}, s.Snapshot())
	assert.Equal(t, Custom, s.ActivePreset())

	s.SetScale(-3)
	assert.Equal(t, -3.0, s.Snapshot().Scale, "out-of-range values are stored as-is")
}

func TestStoreSubscribe(t *testing.T) {
	s := NewStore(nil)

	var got []Parameters
	unsubscribe := s.Subscribe(func(p Parameters) { got = append(got, p) })

	s.SetSpeed(2)
	require.NoError(t, s.ApplyPreset("retro"))
	require.Len(t, got, 2)
	assert.Equal(t, 2.0, got[0].Speed)
	assert.Equal(t, field.Hypnotic, got[1].Effect)

	unsubscribe()
	s.SetBlend(0.5)
	assert.Len(t, got, 2)
}

func TestStoreConcurrentEdits(t *testing.T) {
	s := NewStore(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetSpeed(1.25)
		}()
		go func() {
			defer wg.Done()
			s.SetBlend(0.75)
		}()
	}
	wg.Wait()

	p := s.Snapshot()
	assert.Equal(t, 1.25, p.Speed)
	assert.Equal(t, 0.75, p.Blend)
}

func TestRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	seen := make(map[field.Effect]bool)
	inverted := 0

	for i := 0; i < 2000; i++ {
		p := Random(rng)
		require.True(t, p.Effect.Valid())
		require.GreaterOrEqual(t, p.Speed, 0.0)
		require.LessOrEqual(t, p.Speed, 2.0)
		require.GreaterOrEqual(t, p.Scale, 0.0)
		require.LessOrEqual(t, p.Scale, 2.0)
		require.GreaterOrEqual(t, p.Blend, 0.0)
		require.LessOrEqual(t, p.Blend, 1.0)
		require.True(t, p.InRange())
		seen[p.Effect] = true
		if p.Invert {
			inverted++
		}
	}

	assert.Len(t, seen, len(field.Effects()))
	assert.InDelta(t, 1000, inverted, 150)
}

func TestStoreRandomize(t *testing.T) {
	s := NewStore(nil)
	p := s.Randomize(rand.New(rand.NewSource(1)))
	assert.Equal(t, p, s.Snapshot())
	assert.Equal(t, Custom, s.ActivePreset())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	data := `presets:
  neon:
    effect: vortex
    speed: 1.7
    scale: 1
    blend: 0.05
    invert: true
  cosmic:
    effect: ripple
    speed: 0.5
    scale: 0.5
    blend: 0
    invert: false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	p := Builtin()
	require.NoError(t, p.LoadFile(path))

	neon, err := p.Get("neon")
	require.NoError(t, err)
	assert.Equal(t, Parameters{Effect: field.Vortex, Speed: 1.7, Scale: 1, Blend: 0.05, Invert: true}, neon)

	cosmic, err := p.Get("cosmic")
	require.NoError(t, err)
	assert.Equal(t, field.Ripple, cosmic.Effect, "file presets override built-ins")

	assert.Equal(t, []string{"default", "psychedelic", "retro", "cosmic", "neon"}, p.Names())
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("presets:\n  x:\n    effect: plasma\n"), 0644))
	assert.ErrorIs(t, Builtin().LoadFile(bad), ErrInvalidPresetFile)

	reserved := filepath.Join(dir, "reserved.yaml")
	require.NoError(t, os.WriteFile(reserved, []byte("presets:\n  custom:\n    effect: spiral\n"), 0644))
	assert.ErrorIs(t, Builtin().LoadFile(reserved), ErrInvalidPresetFile)

	assert.Error(t, Builtin().LoadFile(filepath.Join(dir, "missing.yaml")))
}
