package export

import (
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"

	"github.com/san-kum/harmonik/internal/raster"
)

var grayPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

// GIFRecorder collects frames into an animated GIF. Frames are grayscale,
// so each luminance byte is used directly as the palette index.
type GIFRecorder struct {
	fps    int
	frames []*image.Paletted
	delays []int
	width  int
	height int
}

func NewGIFRecorder(fps int) *GIFRecorder {
	if fps <= 0 {
		fps = 30
	}
	return &GIFRecorder{fps: fps}
}

// Add appends f. Frames whose size differs from the first are skipped.
func (r *GIFRecorder) Add(f *raster.Frame) bool {
	if f.Empty() {
		return false
	}
	if len(r.frames) == 0 {
		r.width, r.height = f.Width, f.Height
	} else if f.Width != r.width || f.Height != r.height {
		return false
	}

	img := image.NewPaletted(image.Rect(0, 0, f.Width, f.Height), grayPalette)
	for i := range img.Pix {
		img.Pix[i] = f.Pix[i*4]
	}
	r.frames = append(r.frames, img)
	// GIF delays are in hundredths of a second.
	r.delays = append(r.delays, int(math.Round(100/float64(r.fps))))
	return true
}

func (r *GIFRecorder) Len() int { return len(r.frames) }

func (r *GIFRecorder) Reset() {
	r.frames = nil
	r.delays = nil
}

// Encode writes the animation, looping forever.
func (r *GIFRecorder) Encode(w io.Writer) error {
	if len(r.frames) == 0 {
		return ErrEmptyFrame
	}
	return gif.EncodeAll(w, &gif.GIF{
		Image:     r.frames,
		Delay:     r.delays,
		LoopCount: 0,
	})
}
