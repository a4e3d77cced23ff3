package anim

import (
	"sync/atomic"

	"github.com/san-kum/harmonik/internal/raster"
)

// Surface receives finished frames.
type Surface interface {
	Commit(f *raster.Frame)
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(f *raster.Frame)

func (fn SurfaceFunc) Commit(f *raster.Frame) { fn(f) }

// Latest keeps the most recently committed frame. The zero value is ready
// to use.
type Latest struct {
	frame atomic.Pointer[raster.Frame]
	count atomic.Uint64
}

func (l *Latest) Commit(f *raster.Frame) {
	l.frame.Store(f)
	l.count.Add(1)
}

// Frame returns the last committed frame, or nil before the first commit.
func (l *Latest) Frame() *raster.Frame { return l.frame.Load() }

// Commits returns how many frames have been committed.
func (l *Latest) Commits() uint64 { return l.count.Load() }
