package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/harmonik/internal/params"
	"github.com/san-kum/harmonik/internal/pipeline"
	"github.com/san-kum/harmonik/internal/raster"
	"gopkg.in/yaml.v3"
)

const (
	DefaultWidth   = 800
	DefaultHeight  = 450
	DefaultFPS     = 60
	DefaultDataDir = ".harmonik"
	DefaultPreset  = "default"
	DefaultTheme   = "minimal"
	DefaultView    = "blocks"

	maxDimension = 8192
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	Width    int    `yaml:"width"`
	Height   int    `yaml:"height"`
	FPS      int    `yaml:"fps"`
	Workers  int    `yaml:"workers"`
	Sampling string `yaml:"sampling"`
	Clamp    string `yaml:"clamp"`
	FastTrig bool   `yaml:"fast_trig"`

	// Preset is applied at startup; Params, when present, overrides it.
	Preset     string             `yaml:"preset"`
	Params     *params.Parameters `yaml:"params,omitempty"`
	PresetFile string             `yaml:"preset_file,omitempty"`

	DataDir  string `yaml:"data_dir"`
	LogLevel string `yaml:"log_level"`
	Theme    string `yaml:"theme"`
	View     string `yaml:"view"`
}

func DefaultConfig() *Config {
	return &Config{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		FPS:      DefaultFPS,
		Sampling: raster.SampleCenter.String(),
		Clamp:    pipeline.ClampNone.String(),
		Preset:   DefaultPreset,
		DataDir:  DefaultDataDir,
		LogLevel: "info",
		Theme:    DefaultTheme,
		View:     DefaultView,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 || c.Width > maxDimension || c.Height > maxDimension {
		return fmt.Errorf("%w: size %dx%d must be within 1..%d", ErrInvalid, c.Width, c.Height, maxDimension)
	}
	if c.FPS <= 0 || c.FPS > 240 {
		return fmt.Errorf("%w: fps %d must be within 1..240", ErrInvalid, c.FPS)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalid, c.Workers)
	}
	if _, err := raster.ParseSampling(c.Sampling); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := pipeline.ParsePolicy(c.Clamp); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch c.View {
	case "", "blocks", "braille":
	default:
		return fmt.Errorf("%w: view %q must be blocks or braille", ErrInvalid, c.View)
	}
	return nil
}

// RenderOptions converts the render section into rasterizer options.
// Call Validate first; invalid names fall back to defaults here.
func (c *Config) RenderOptions() raster.Options {
	sampling, _ := raster.ParseSampling(c.Sampling)
	clamp, _ := pipeline.ParsePolicy(c.Clamp)
	return raster.Options{
		Workers:  c.Workers,
		Sampling: sampling,
		Clamp:    clamp,
		FastTrig: c.FastTrig,
	}
}

// Presets returns the built-in presets merged with PresetFile, if set.
func (c *Config) Presets() (*params.Presets, error) {
	p := params.Builtin()
	if c.PresetFile != "" {
		if err := p.LoadFile(c.PresetFile); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// NewStore builds the parameter store for this configuration: the startup
// preset first, then the explicit Params block.
func (c *Config) NewStore() (*params.Store, error) {
	presets, err := c.Presets()
	if err != nil {
		return nil, err
	}
	store := params.NewStore(presets)
	if c.Preset != "" {
		if err := store.ApplyPreset(c.Preset); err != nil {
			return nil, err
		}
	}
	if c.Params != nil {
		store.Set(*c.Params)
	}
	return store, nil
}
