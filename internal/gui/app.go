package gui

import (
	"errors"
	"fmt"
	"image/color"
	"math/rand"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ncruces/zenity"
	"github.com/san-kum/harmonik/internal/anim"
	"github.com/san-kum/harmonik/internal/control"
	"github.com/san-kum/harmonik/internal/export"
	"github.com/san-kum/harmonik/internal/logging"
	"github.com/san-kum/harmonik/internal/params"
	"github.com/san-kum/harmonik/internal/raster"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColRec     = rl.NewColor(255, 70, 70, 255)
)

const (
	hudHeight    = 120
	tuneStep     = 0.05
	maxTelemetry = 200
	fontPath     = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
)

// Options configures the window.
type Options struct {
	Width, Height int
	FPS           int
	Seed          int64
	Exports       *export.Store
}

type App struct {
	Store   *params.Store
	Sched   *anim.Scheduler
	Panel   *control.Panel
	Loop    *anim.Loop
	Latest  *anim.Latest
	Exports *export.Store

	Width, Height int
	Font          rl.Font
	Tex           rl.Texture2D
	pixels        []color.RGBA
	uploaded      uint64

	Telemetry []float64 // frame render times in ms
	Status    string

	Recorder  *export.GIFRecorder
	Recording bool
	recorded  uint64

	saves chan string
}

func initWindow(width, height, fps int) {
	rl.InitWindow(int32(width), int32(height+hudHeight), "harmonik")
	rl.SetTargetFPS(int32(fps))
	rl.SetExitKey(0)
}

// loadFont loads Liberation Mono when installed and the raylib default
// font otherwise.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp wires a scheduler onto a streaming texture. The window must
// already be open.
func NewApp(r *raster.Renderer, store *params.Store, opts Options) *App {
	a := &App{
		Store:     store,
		Loop:      anim.NewLoop(),
		Latest:    &anim.Latest{},
		Exports:   opts.Exports,
		Width:     opts.Width,
		Height:    opts.Height,
		Font:      loadFont(),
		pixels:    make([]color.RGBA, opts.Width*opts.Height),
		Telemetry: make([]float64, 0, maxTelemetry),
		Recorder:  export.NewGIFRecorder(opts.FPS),
		saves:     make(chan string, 1),
	}

	img := rl.GenImageColor(opts.Width, opts.Height, rl.Black)
	a.Tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	a.Sched = anim.New(r, store, a.Loop, a.Latest, opts.Width, opts.Height)
	a.Panel = control.NewPanel(store, a.Sched, rand.New(rand.NewSource(opts.Seed)))
	a.Sched.OnFrame(func(st anim.FrameStats) {
		a.Telemetry = append(a.Telemetry, float64(st.Duration.Microseconds())/1000)
		if len(a.Telemetry) > maxTelemetry {
			a.Telemetry = a.Telemetry[1:]
		}
	})
	a.Sched.Refresh()
	return a
}

// Run opens the window and blocks until it is closed.
func Run(r *raster.Renderer, store *params.Store, opts Options) {
	initWindow(opts.Width, opts.Height, opts.FPS)
	defer rl.CloseWindow()

	app := NewApp(r, store, opts)
	defer app.Close()
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

func (a *App) Close() {
	a.Sched.Close()
	rl.UnloadTexture(a.Tex)
}

// Update handles input and pumps the frame source. It returns false when
// the user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return false
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		if a.Panel.Toggle() {
			a.Status = "synthesizing"
		} else {
			a.Status = "stopped"
		}
	case rl.IsKeyPressed(rl.KeyE):
		a.Panel.NextEffect()
	case rl.IsKeyPressed(rl.KeyP):
		if name, err := a.Panel.NextPreset(); err == nil {
			a.Status = "preset " + name
		}
	case rl.IsKeyPressed(rl.KeyR):
		a.Panel.Randomize()
		a.Status = "randomized"
	case rl.IsKeyPressed(rl.KeyI):
		a.Panel.ToggleInvert()
	case rl.IsKeyPressed(rl.KeyTab):
		a.Panel.SelectNext()
	case rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK):
		a.Panel.Tune(tuneStep)
	case rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ):
		a.Panel.Tune(-tuneStep)
	case rl.IsKeyPressed(rl.KeyS):
		a.saveDialog()
	case rl.IsKeyPressed(rl.KeyD):
		a.saveToStore()
	case rl.IsKeyPressed(rl.KeyG):
		a.toggleRecording()
	}

	select {
	case msg := <-a.saves:
		a.Status = msg
	default:
	}

	a.Loop.Pump(rl.GetTime() * 1000)
	if a.Recording {
		if n := a.Latest.Commits(); n != a.recorded {
			a.recorded = n
			a.Recorder.Add(a.Latest.Frame())
		}
	}
	return true
}

// saveDialog asks for a path on a background goroutine, since the native
// dialog blocks, and writes the frame that was showing when S was pressed.
func (a *App) saveDialog() {
	f := a.Latest.Frame()
	if f.Empty() {
		return
	}
	a.Status = "choose a file..."
	go func() {
		path, err := zenity.SelectFileSave(
			zenity.Title("Download as PNG"),
			zenity.Filename("harmonik.png"),
			zenity.ConfirmOverwrite(),
			zenity.FileFilters{{
				Name:     "PNG image",
				Patterns: []string{"*.png"},
				CaseFold: true,
			}},
		)
		if err != nil {
			if errors.Is(err, zenity.ErrCanceled) {
				a.notify("save canceled")
				return
			}
			logging.Logger().Error("save dialog failed", "err", err)
			a.notify("save failed: " + err.Error())
			return
		}
		if err := export.SavePNG(path, f, 1); err != nil {
			logging.Logger().Error("save failed", "path", path, "err", err)
			a.notify("save failed: " + err.Error())
			return
		}
		logging.Logger().Info("frame saved", "path", path)
		a.notify("saved " + path)
	}()
}

// notify hands a status line to the main loop without blocking. A message
// is dropped when one is already queued.
func (a *App) notify(msg string) {
	select {
	case a.saves <- msg:
	default:
	}
}

func (a *App) saveToStore() {
	if a.Exports == nil {
		a.Status = "no data directory"
		return
	}
	meta, err := a.Exports.Save(a.Latest.Frame(), a.Store.ActivePreset(), 1)
	if err != nil {
		a.Status = "save failed: " + err.Error()
		return
	}
	a.Status = "saved " + meta.ID
}

func (a *App) toggleRecording() {
	if !a.Recording {
		a.Recording = true
		a.recorded = a.Latest.Commits()
		a.Recorder.Reset()
		a.Status = "recording"
		return
	}
	a.Recording = false
	if a.Exports == nil {
		a.Status = "no data directory"
		return
	}
	path, err := a.Exports.SaveGIF(a.Recorder, a.Store.Snapshot().Effect.String())
	if err != nil {
		a.Status = "recording failed: " + err.Error()
	} else {
		a.Status = "wrote " + path
	}
	a.Recorder.Reset()
}

func (a *App) drawText(text string, x, y int, size int, col color.RGBA) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, col)
}

func label(k control.Knob, v float64) string {
	return fmt.Sprintf("%-6s %.2f", k, v)
}
