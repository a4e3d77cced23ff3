package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/harmonik/internal/export"
	"github.com/san-kum/harmonik/internal/field"
	"github.com/san-kum/harmonik/internal/params"
	"github.com/san-kum/harmonik/internal/raster"
)

func flatFrame(w, h int, lum uint8) *raster.Frame {
	p := params.Parameters{Effect: field.Tunnel, Speed: 1, Scale: 1}
	f := raster.New(raster.Options{}).Render(p, 0, w, h)
	for i := 0; i < w*h; i++ {
		f.Pix[i*4], f.Pix[i*4+1], f.Pix[i*4+2] = lum, lum, lum
	}
	return f
}

func TestCanvasDither(t *testing.T) {
	tests := []struct {
		name string
		lum  uint8
		want rune
	}{
		{"black", 0, 0x2800},
		{"white", 255, 0x28FF},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := flatFrame(6, 8, tt.lum)
			c := NewCanvas(BrailleSize(f.Width, f.Height))
			c.Dither(f)
			if c.Width != 3 || c.Height != 2 {
				t.Fatalf("expected 3x2 cells, got %dx%d", c.Width, c.Height)
			}
			for _, row := range c.Grid {
				for _, r := range row {
					if r != tt.want {
						t.Fatalf("expected %U, got %U", tt.want, r)
					}
				}
			}
		})
	}
}

func TestCanvasDitherMidGray(t *testing.T) {
	f := flatFrame(4, 4, 128)
	c := NewCanvas(BrailleSize(f.Width, f.Height))
	c.Dither(f)

	dots := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for v := r - 0x2800; v != 0; v &= v - 1 {
				dots++
			}
		}
	}
	// Thresholds 8, 24, ..., 248: exactly half of them are <= 128.
	if dots != 8 {
		t.Errorf("expected 8 of 16 dots set, got %d", dots)
	}
}

func TestCanvasSetOutOfBounds(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(-1, 0)
	c.Set(2, 0)
	c.Set(0, 4)
	if c.Grid[0][0] != 0x2800 {
		t.Errorf("out-of-bounds set changed the canvas: %U", c.Grid[0][0])
	}
	c.Set(1, 3)
	if c.Grid[0][0] != 0x2880 {
		t.Errorf("expected dot 8, got %U", c.Grid[0][0])
	}
}

func TestRenderBlocks(t *testing.T) {
	f := raster.New(raster.Options{}).Render(params.Default(), 0, 7, 5)
	out := RenderBlocks(f, NewRamp(ThemeMinimal))

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines for 5 pixel rows, got %d", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 7 {
			t.Errorf("line %d: expected width 7, got %d", i, w)
		}
	}
	if RenderBlocks(nil, NewRamp(ThemeMinimal)) != "" {
		t.Error("expected empty output for a nil frame")
	}
}

func TestRampEnds(t *testing.T) {
	r := NewRamp(ThemeMinimal)
	if got := r.Color(0); got != lipgloss.Color("#000000") {
		t.Errorf("expected background at 0, got %s", got)
	}
	if got := r.Color(255); got != lipgloss.Color("#ffffff") {
		t.Errorf("expected primary at 255, got %s", got)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "minimal" {
		t.Error("unknown theme should fall back to minimal")
	}
	names := ThemeNames()
	if NextTheme(names[len(names)-1]).Name != names[0] {
		t.Error("NextTheme should wrap around")
	}
}

func TestThemeRampsShadeUpward(t *testing.T) {
	for _, th := range Themes {
		t.Run(th.Name, func(t *testing.T) {
			for _, c := range []lipgloss.Color{th.Shadow, th.Light, th.Accent, th.Muted} {
				if _, err := colorful.Hex(string(c)); err != nil {
					t.Fatalf("bad color %q: %v", c, err)
				}
			}
			r := NewRamp(th)
			prev := -1.0
			for l := 0; l < 256; l += 8 {
				c, _ := colorful.Hex(string(r.Color(uint8(l))))
				lum, _, _ := c.Lab()
				if lum < prev-5e-3 {
					t.Fatalf("ramp darkens at %d: %.3f < %.3f", l, lum, prev)
				}
				prev = lum
			}
		})
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	store := params.NewStore(nil)
	return NewModel(raster.New(raster.Options{Workers: 1}), store, Options{
		FPS:     30,
		Theme:   "ocean",
		Exports: export.NewStore(t.TempDir()),
	})
}

func send(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelPreviewAndResize(t *testing.T) {
	m := newTestModel(t)
	if f := m.latest.Frame(); f == nil || f.Timestamp != 0 {
		t.Fatal("expected a static preview at timestamp 0")
	}

	m = send(m, tea.WindowSizeMsg{Width: panelWidth + 20, Height: 11})
	f := m.latest.Frame()
	if f.Width != 20 || f.Height != 20 {
		t.Errorf("expected 20x20 block frame, got %dx%d", f.Width, f.Height)
	}

	m = send(m, key("v"))
	f = m.latest.Frame()
	if f.Width != 40 || f.Height != 40 {
		t.Errorf("expected 40x40 braille frame, got %dx%d", f.Width, f.Height)
	}
	if !strings.Contains(m.View(), "tunnel") {
		t.Error("expected the effect name in the panel")
	}
}

func TestPanelView(t *testing.T) {
	m := newTestModel(t)
	out := m.panelView()
	for _, want := range []string{"STOPPED", "tunnel", "default", "ocean", "speed"} {
		if !strings.Contains(out, want) {
			t.Errorf("panel missing %q", want)
		}
	}
	m = send(m, key(" "))
	if !strings.Contains(m.panelView(), "RUNNING") {
		t.Error("expected running status after toggle")
	}
}

func TestModelAnimation(t *testing.T) {
	m := newTestModel(t)
	m = send(m, key(" "))
	if !m.sched.IsRunning() {
		t.Fatal("space should start the animation")
	}

	before := m.latest.Commits()
	m = send(m, TickMsg(m.start.Add(500*time.Millisecond)))
	if m.latest.Commits() != before+1 {
		t.Fatalf("expected one commit per tick, got %d", m.latest.Commits()-before)
	}
	if ts := m.latest.Frame().Timestamp; ts != 500 {
		t.Errorf("expected timestamp 500, got %v", ts)
	}

	m = send(m, key(" "))
	if m.sched.IsRunning() {
		t.Fatal("space should stop the animation")
	}
	if ts := m.latest.Frame().Timestamp; ts != 0 {
		t.Errorf("stopping should redraw the static preview, got ts %v", ts)
	}
}

func TestModelKeys(t *testing.T) {
	m := newTestModel(t)

	m = send(m, key("e"))
	if got := m.store.Snapshot().Effect; got != field.Vortex {
		t.Errorf("expected vortex after e, got %s", got)
	}
	if m.store.ActivePreset() != params.Custom {
		t.Errorf("expected custom preset after an edit, got %s", m.store.ActivePreset())
	}

	m = send(m, key("p"))
	if m.store.ActivePreset() != "default" {
		t.Errorf("expected first preset after custom, got %s", m.store.ActivePreset())
	}

	m = send(m, key("i"))
	if !m.store.Snapshot().Invert {
		t.Error("expected invert after i")
	}

	m = send(m, key("tab"))
	m = send(m, key("up"))
	if got := m.store.Snapshot().Scale; got != 1+tuneStep {
		t.Errorf("expected scale %v, got %v", 1+tuneStep, got)
	}

	m = send(m, key("t"))
	if m.theme.Name != "sunset" {
		t.Errorf("expected theme after ocean to be sunset, got %s", m.theme.Name)
	}
}

func TestModelSaveAndRecord(t *testing.T) {
	m := newTestModel(t)

	m = send(m, key("s"))
	runs, err := m.exports.List()
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one export, got %d (%v)", len(runs), err)
	}

	m = send(m, key("g"))
	m = send(m, key(" "))
	for i := 1; i <= 3; i++ {
		m = send(m, TickMsg(m.start.Add(time.Duration(i)*100*time.Millisecond)))
	}
	if m.rec.Len() != 3 {
		t.Fatalf("expected 3 recorded frames, got %d", m.rec.Len())
	}
	m = send(m, key("g"))
	if m.recording || !strings.HasPrefix(m.status, "wrote ") {
		t.Errorf("expected recording written, status %q", m.status)
	}
}
