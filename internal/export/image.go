// Package export encodes frames as PNG or animated GIF and keeps saved
// exports in a data directory.
package export

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/san-kum/harmonik/internal/raster"
	xdraw "golang.org/x/image/draw"
)

// Upscale returns the frame as an image enlarged by factor with
// nearest-neighbor sampling. Factors below 2 return the frame unscaled.
func Upscale(f *raster.Frame, factor int) image.Image {
	src := f.Image()
	if factor < 2 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, f.Width*factor, f.Height*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// WritePNG encodes f, optionally upscaled, to w.
func WritePNG(w io.Writer, f *raster.Frame, factor int) error {
	if f.Empty() {
		return ErrEmptyFrame
	}
	return png.Encode(w, Upscale(f, factor))
}

// SavePNG writes f to path as PNG.
func SavePNG(path string, f *raster.Frame, factor int) error {
	if f.Empty() {
		return ErrEmptyFrame
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	bw := bufio.NewWriter(file)
	if err := WritePNG(bw, f, factor); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	return file.Close()
}
