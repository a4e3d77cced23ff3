package viz

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/harmonik/internal/analysis"
	"github.com/san-kum/harmonik/internal/anim"
	"github.com/san-kum/harmonik/internal/control"
	"github.com/san-kum/harmonik/internal/export"
	"github.com/san-kum/harmonik/internal/logging"
	"github.com/san-kum/harmonik/internal/params"
	"github.com/san-kum/harmonik/internal/raster"
)

const (
	panelWidth      = 34
	historyCapacity = 120
	tuneStep        = 0.05

	ViewBlocks  = "blocks"
	ViewBraille = "braille"
)

type TickMsg time.Time

// Options configures a live view.
type Options struct {
	FPS     int
	Theme   string
	View    string
	Seed    int64
	Exports *export.Store
}

// history is written from scheduler callbacks and read by View.
type history struct {
	mu         sync.Mutex
	frameTimes []float64
	luminance  []float64
}

func (h *history) push(ms, lum float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.frameTimes = appendCapped(h.frameTimes, ms)
	h.luminance = appendCapped(h.luminance, lum)
}

func (h *history) snapshot() (frameTimes, luminance []float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]float64(nil), h.frameTimes...), append([]float64(nil), h.luminance...)
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

// Model is the live terminal view. Frames are produced by an anim.Scheduler
// whose frame source is pumped on every TickMsg.
type Model struct {
	store   *params.Store
	sched   *anim.Scheduler
	panel   *control.Panel
	loop    *anim.Loop
	latest  *anim.Latest
	exports *export.Store
	rec     *export.GIFRecorder
	hist    *history

	fps        int
	start      time.Time
	recording  bool
	recorded   uint64
	theme      Theme
	ramp       *Ramp
	view       string
	cols, rows int
	status     string
	showHelp   bool
}

// NewModel builds a stopped live view showing the static preview.
func NewModel(r *raster.Renderer, store *params.Store, opts Options) Model {
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.View != ViewBraille {
		opts.View = ViewBlocks
	}
	theme := GetTheme(opts.Theme)

	m := Model{
		store:   store,
		loop:    anim.NewLoop(),
		latest:  &anim.Latest{},
		exports: opts.Exports,
		rec:     export.NewGIFRecorder(opts.FPS),
		hist:    &history{},
		fps:     opts.FPS,
		start:   time.Now(),
		theme:   theme,
		ramp:    NewRamp(theme),
		view:    opts.View,
		cols:    80 - panelWidth,
		rows:    24,
	}
	w, h := m.frameSize()
	m.sched = anim.New(r, store, m.loop, m.latest, w, h)
	m.panel = control.NewPanel(store, m.sched, rand.New(rand.NewSource(opts.Seed)))

	hist := m.hist
	latest := m.latest
	m.sched.OnFrame(func(st anim.FrameStats) {
		lum := 0.0
		if f := latest.Frame(); f != nil {
			lum = analysis.Measure(f, 1).Mean
		}
		hist.push(float64(st.Duration.Microseconds())/1000, lum)
	})
	m.sched.Refresh()
	return m
}

// Run starts the Bubble Tea program and blocks until the user quits.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	m.sched.Close()
	return err
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// frameSize returns the render size that maps one pixel per half block or
// per braille dot.
func (m Model) frameSize() (int, int) {
	if m.view == ViewBraille {
		return m.cols * 2, m.rows * 4
	}
	return m.cols, m.rows * 2
}

func (m *Model) resize() {
	w, h := m.frameSize()
	m.sched.Resize(w, h)
	m.sched.Refresh()
}

// Update handles input events and pumps the frame source.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width-panelWidth, 1)
		m.rows = max(msg.Height-1, 1)
		m.resize()
		return m, nil

	case TickMsg:
		ts := float64(time.Time(msg).Sub(m.start).Microseconds()) / 1000
		m.loop.Pump(ts)
		if m.recording {
			if n := m.latest.Commits(); n != m.recorded {
				m.recorded = n
				m.rec.Add(m.latest.Frame())
			}
		}
		return m, m.tick()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.sched.Close()
		return m, tea.Quit
	case " ":
		if m.panel.Toggle() {
			m.status = "synthesizing"
		} else {
			m.status = "stopped"
		}
	case "e":
		m.panel.NextEffect()
	case "p":
		if name, err := m.panel.NextPreset(); err != nil {
			m.status = err.Error()
		} else {
			m.status = "preset " + name
		}
	case "r":
		m.panel.Randomize()
		m.status = "randomized"
	case "i":
		m.panel.ToggleInvert()
	case "tab":
		m.panel.SelectNext()
	case "up", "k":
		m.panel.Tune(tuneStep)
	case "down", "j":
		m.panel.Tune(-tuneStep)
	case "v":
		if m.view == ViewBlocks {
			m.view = ViewBraille
		} else {
			m.view = ViewBlocks
		}
		m.resize()
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.ramp = NewRamp(m.theme)
		m.status = "theme " + m.theme.Name
	case "s":
		m.save()
	case "g":
		m.toggleRecording()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) save() {
	if m.exports == nil {
		m.status = "no data directory"
		return
	}
	meta, err := m.exports.Save(m.latest.Frame(), m.store.ActivePreset(), 1)
	if err != nil {
		logging.Logger().Error("save failed", "err", err)
		m.status = "save failed: " + err.Error()
		return
	}
	m.status = "saved " + meta.ID
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.recorded = m.latest.Commits()
		m.rec.Reset()
		m.status = "recording"
		return
	}
	m.recording = false
	if m.exports == nil {
		m.status = "no data directory"
		return
	}
	path, err := m.exports.SaveGIF(m.rec, m.store.Snapshot().Effect.String())
	if err != nil {
		logging.Logger().Error("recording failed", "err", err)
		m.status = "recording failed: " + err.Error()
	} else {
		m.status = "wrote " + path
	}
	m.rec.Reset()
}

// View renders the frame next to the control panel.
func (m Model) View() string {
	if m.showHelp {
		return helpView
	}

	var canvas string
	f := m.latest.Frame()
	if m.view == ViewBraille {
		c := NewCanvas(0, 0)
		if f != nil {
			c = NewCanvas(BrailleSize(f.Width, f.Height))
			c.Dither(f)
		}
		canvas = lipgloss.NewStyle().
			Foreground(m.theme.Light).
			Background(m.theme.Shadow).
			Render(c.String())
	} else {
		canvas = RenderBlocks(f, m.ramp)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, PanelStyle.Render(m.panelView()))
}

func (m Model) panelView() string {
	p := m.store.Snapshot()
	var s strings.Builder

	s.WriteString(GradientText("HARMONIK", m.theme.Light, m.theme.Accent) + "\n")
	switch {
	case m.recording:
		s.WriteString(StatusRecording.Render(fmt.Sprintf("● REC %d", m.rec.Len())))
	case m.panel.Running():
		s.WriteString(StatusRunning.Render("▶ RUNNING"))
	default:
		s.WriteString(StatusStopped.Render("■ STOPPED"))
	}
	s.WriteString("\n\n")

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("effect", p.Effect.String())
	row("preset", m.store.ActivePreset())
	for k := control.Knob(0); k < control.KnobCount; k++ {
		v := k.Value(p)
		label := MetricLabel.Render(k.String())
		if k == m.panel.Selected() {
			label = m.theme.selectedLabel().Render(k.String())
		}
		s.WriteString(label + ProgressBar(v, k.Max(), 12) + fmt.Sprintf(" %.2f\n", v))
	}
	row("invert", fmt.Sprintf("%t", p.Invert))
	row("time", fmt.Sprintf("%.1fs", m.sched.LastTimestamp()/1000))
	row("theme", m.theme.Name)

	frameTimes, luminance := m.hist.snapshot()
	if len(frameTimes) > 1 {
		chart := asciigraph.Plot(frameTimes, asciigraph.Height(4), asciigraph.Width(panelWidth-12), asciigraph.Caption("frame ms"))
		s.WriteString("\n" + graphStyle.Render(chart) + "\n")
	}
	s.WriteString("\n" + MetricLabel.Render("luma") + SparklineChart(luminance, panelWidth-12) + "\n")

	if m.status != "" {
		s.WriteString("\n" + m.theme.muted().Render(m.status) + "\n")
	}
	s.WriteString(m.theme.hint().Render("\nSP:Run E:Effect P:Preset\nR:Random I:Invert ?:Help"))
	return s.String()
}

const helpView = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Start/Stop animation     ║
║  E        - Next effect              ║
║  P        - Next preset              ║
║  R        - Randomize parameters     ║
║  I        - Toggle invert            ║
║  Tab      - Select knob              ║
║  Up/K     - Increase knob            ║
║  Down/J   - Decrease knob            ║
║  V        - Blocks / braille         ║
║  S        - Save PNG                 ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝
`
