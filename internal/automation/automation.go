package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/san-kum/harmonik/internal/analysis"
	"github.com/san-kum/harmonik/internal/control"
	"github.com/san-kum/harmonik/internal/export"
	"github.com/san-kum/harmonik/internal/field"
	"github.com/san-kum/harmonik/internal/logging"
	"github.com/san-kum/harmonik/internal/params"
	"github.com/san-kum/harmonik/internal/raster"
	"gopkg.in/yaml.v3"
)

var ErrInvalidScenario = errors.New("automation: invalid scenario")

// Scenario is a scripted sequence of parameter sets rendered back to back.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	FPS         int    `yaml:"fps"`
	Steps       []Step `yaml:"steps"`
}

// Step holds one parameter set for Duration seconds. It starts from the
// previous step's parameters (Default for the first), then Preset, then the
// individual fields that are set.
type Step struct {
	Preset   string        `yaml:"preset"`
	Effect   *field.Effect `yaml:"effect"`
	Speed    *float64      `yaml:"speed"`
	Scale    *float64      `yaml:"scale"`
	Blend    *float64      `yaml:"blend"`
	Invert   *bool         `yaml:"invert"`
	Duration float64       `yaml:"duration"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScenario, path, err)
	}
	return &scenario, nil
}

// Resolve returns the parameter set of every step.
func (s *Scenario) Resolve(presets *params.Presets) ([]params.Parameters, error) {
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("%w: no steps", ErrInvalidScenario)
	}

	out := make([]params.Parameters, len(s.Steps))
	cur := params.Default()
	for i, step := range s.Steps {
		if step.Duration <= 0 {
			return nil, fmt.Errorf("%w: step %d: duration must be positive", ErrInvalidScenario, i+1)
		}
		if step.Preset != "" {
			p, err := presets.Get(step.Preset)
			if err != nil {
				return nil, fmt.Errorf("%w: step %d: %w", ErrInvalidScenario, i+1, err)
			}
			cur = p
		}
		if step.Effect != nil {
			cur.Effect = *step.Effect
		}
		if step.Speed != nil {
			cur.Speed = *step.Speed
		}
		if step.Scale != nil {
			cur.Scale = *step.Scale
		}
		if step.Blend != nil {
			cur.Blend = *step.Blend
		}
		if step.Invert != nil {
			cur.Invert = *step.Invert
		}
		out[i] = cur
	}
	return out, nil
}

// StepFrames returns how many frames a step of d seconds lasts at fps.
func StepFrames(d float64, fps int) int {
	return max(int(math.Round(d*float64(fps))), 1)
}

// RunScenario renders every step into rec and returns the frame count. The
// animation clock runs on across steps, so patterns do not restart.
func RunScenario(ctx context.Context, sc *Scenario, presets *params.Presets, r *raster.Renderer, width, height int, rec *export.GIFRecorder) (int, error) {
	sets, err := sc.Resolve(presets)
	if err != nil {
		return 0, err
	}
	fps := sc.FPS
	if fps <= 0 {
		fps = 30
	}

	frame := 0
	for i, p := range sets {
		n := StepFrames(sc.Steps[i].Duration, fps)
		logging.Logger().Info("scenario step", "step", i+1, "of", len(sets), "params", p.String(), "frames", n)
		for j := 0; j < n; j++ {
			if err := ctx.Err(); err != nil {
				return frame, err
			}
			rec.Add(r.Render(p, float64(frame)*1000/float64(fps), width, height))
			frame++
		}
	}
	return frame, nil
}

// Sweep renders one frame per knob value across [Min, Max].
type Sweep struct {
	Base          params.Parameters
	Knob          control.Knob
	Min, Max      float64
	Steps         int
	Timestamp     float64
	Width, Height int
}

// SweepResult holds the luminance statistics for one knob value.
type SweepResult struct {
	Value float64
	Stats analysis.Stats
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sw *Sweep, r *raster.Renderer) ([]SweepResult, error) {
	if sw.Steps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", ErrInvalidScenario)
	}

	paramStep := 0.0
	if sw.Steps > 1 {
		paramStep = (sw.Max - sw.Min) / float64(sw.Steps-1)
	}

	results := make([]SweepResult, 0, sw.Steps)
	for i := 0; i < sw.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		v := sw.Min + float64(i)*paramStep
		p := sw.Base
		sw.Knob.Set(&p, v)

		f := r.Render(p, sw.Timestamp, sw.Width, sw.Height)
		results = append(results, SweepResult{Value: v, Stats: analysis.Measure(f, 16)})
		logging.Logger().Debug("sweep", "knob", sw.Knob.String(), "value", v)
	}
	return results, nil
}
