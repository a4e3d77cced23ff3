package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/harmonik/internal/raster"
)

const rampLevels = 32

// Ramp maps luminance to theme colors and caches the cell styles built
// from them. A Ramp is not safe for concurrent use.
type Ramp struct {
	colors [rampLevels]lipgloss.Color
	cache  map[[2]uint8]lipgloss.Style
}

func NewRamp(t Theme) *Ramp {
	lo := hexOr(t.Shadow, colorful.Color{})
	hi := hexOr(t.Light, colorful.Color{R: 1, G: 1, B: 1})

	r := &Ramp{cache: make(map[[2]uint8]lipgloss.Style)}
	for i := range r.colors {
		c := lo.BlendLab(hi, float64(i)/(rampLevels-1)).Clamped()
		r.colors[i] = lipgloss.Color(c.Hex())
	}
	return r
}

func level(l uint8) uint8 { return uint8(int(l) * rampLevels / 256) }

// Color returns the ramp color for luminance l.
func (r *Ramp) Color(l uint8) lipgloss.Color { return r.colors[level(l)] }

func (r *Ramp) cell(key [2]uint8) lipgloss.Style {
	if st, ok := r.cache[key]; ok {
		return st
	}
	st := lipgloss.NewStyle().
		Foreground(r.colors[key[0]]).
		Background(r.colors[key[1]])
	r.cache[key] = st
	return st
}

// RenderBlocks draws f with upper half blocks: the foreground is the even
// row and the background the odd row below it. Runs of equal cells share
// one styled segment.
func RenderBlocks(f *raster.Frame, r *Ramp) string {
	if f.Empty() {
		return ""
	}

	var b strings.Builder
	for y := 0; y < f.Height; y += 2 {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run [2]uint8
		n := 0
		for x := 0; x < f.Width; x++ {
			top := f.Luminance(x, y)
			bottom := top
			if y+1 < f.Height {
				bottom = f.Luminance(x, y+1)
			}
			key := [2]uint8{level(top), level(bottom)}
			if n > 0 && key != run {
				b.WriteString(r.cell(run).Render(strings.Repeat("▀", n)))
				n = 0
			}
			run = key
			n++
		}
		b.WriteString(r.cell(run).Render(strings.Repeat("▀", n)))
	}
	return b.String()
}
