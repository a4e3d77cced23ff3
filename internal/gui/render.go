package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/harmonik/internal/control"
)

func (a *App) Draw() {
	a.upload()

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	rl.DrawTexture(a.Tex, 0, 0, rl.White)
	a.DrawHUD()
	rl.EndDrawing()
}

// upload copies the latest committed frame into the texture when it
// changed since the last upload.
func (a *App) upload() {
	n := a.Latest.Commits()
	if n == a.uploaded {
		return
	}
	f := a.Latest.Frame()
	if f.Empty() || f.Width != a.Width || f.Height != a.Height {
		return
	}
	for i := range a.pixels {
		a.pixels[i].R = f.Pix[i*4]
		a.pixels[i].G = f.Pix[i*4+1]
		a.pixels[i].B = f.Pix[i*4+2]
		a.pixels[i].A = f.Pix[i*4+3]
	}
	rl.UpdateTexture(a.Tex, a.pixels)
	a.uploaded = n
}

func (a *App) DrawHUD() {
	top := a.Height + 12
	p := a.Store.Snapshot()

	a.drawText("HARMONIK", 20, top, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s / %s", p.Effect, a.Store.ActivePreset()), 160, top+4, 16, ColText)

	status, col := "STOPPED", ColTextDim
	if a.Panel.Running() {
		status, col = "RUNNING", ColSelect
	}
	if a.Recording {
		status, col = fmt.Sprintf("REC %d", a.Recorder.Len()), ColRec
	}
	a.drawText(status, a.Width-110, top, 16, col)

	y := top + 34
	for k := control.Knob(0); k < control.KnobCount; k++ {
		c := ColText
		prefix := "  "
		if k == a.Panel.Selected() {
			c, prefix = ColSelect, "> "
		}
		a.drawText(prefix+label(k, k.Value(p)), 20, y, 14, c)
		y += 18
	}
	invert := "off"
	if p.Invert {
		invert = "on"
	}
	a.drawText("  invert "+invert, 20, y, 14, ColText)

	a.DrawTelemetry(200, top+34, a.Width-420, 60)

	if a.Status != "" {
		a.drawText(a.Status, a.Width-200, top+34, 14, ColAccent)
	}
	a.drawText("[SPACE] RUN [E] EFFECT [P] PRESET [R] RANDOM [I] INVERT [TAB/ARROWS] TUNE [S] PNG [D] DATA [G] GIF [Q] QUIT",
		20, a.Height+hudHeight-18, 10, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), a.Width-110, top+20, 12, ColTextDim)
}

// DrawTelemetry plots recent frame render times.
func (a *App) DrawTelemetry(rectX, rectY, width, height int) {
	if len(a.Telemetry) < 2 || width <= 0 {
		return
	}

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("%.1f ms", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}
