package anim

import (
	"sync"
	"time"

	"github.com/san-kum/harmonik/internal/logging"
	"github.com/san-kum/harmonik/internal/params"
	"github.com/san-kum/harmonik/internal/raster"
)

// FrameStats describes one committed frame.
type FrameStats struct {
	Timestamp float64
	Duration  time.Duration
	Running   bool
}

// Scheduler renders frames from a parameter store onto a surface.
type Scheduler struct {
	renderer *raster.Renderer
	store    *params.Store
	source   FrameSource
	surface  Surface

	// mu guards everything below and is held across commits, so a Stop
	// either happens before a commit or after it, never during.
	mu            sync.Mutex
	width, height int
	running       bool
	generation    uint64
	pending       FrameID
	lastTimestamp float64
	closed        bool
	onFrame       func(FrameStats)

	unsubscribe func()
}

// New creates a stopped scheduler and subscribes it to store changes.
func New(r *raster.Renderer, store *params.Store, source FrameSource, surface Surface, width, height int) *Scheduler {
	s := &Scheduler{
		renderer: r,
		store:    store,
		source:   source,
		surface:  surface,
		width:    width,
		height:   height,
	}
	s.unsubscribe = store.Subscribe(func(params.Parameters) { s.Refresh() })
	return s
}

// OnFrame registers a callback invoked after each commit.
func (s *Scheduler) OnFrame(fn func(FrameStats)) {
	s.mu.Lock()
	s.onFrame = fn
	s.mu.Unlock()
}

// Start begins continuous rendering. It is a no-op when already running.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.closed {
		return
	}
	s.running = true
	s.generation++
	s.scheduleLocked()
	logging.Logger().Info("animation started")
}

// Stop halts continuous rendering and cancels any pending frame.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Scheduler) stopLocked() {
	if !s.running {
		return
	}
	s.running = false
	s.generation++
	if s.pending != 0 {
		s.source.CancelFrame(s.pending)
		s.pending = 0
	}
	logging.Logger().Info("animation stopped", "last_ts", s.lastTimestamp)
}

// Toggle flips between running and stopped and reports the new state.
func (s *Scheduler) Toggle() bool {
	s.mu.Lock()
	running := s.running
	s.mu.Unlock()
	if running {
		s.Stop()
		s.Refresh()
		return false
	}
	s.Start()
	return true
}

func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// LastTimestamp returns the timestamp of the most recent commit.
func (s *Scheduler) LastTimestamp() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTimestamp
}

// Resize changes the frame size used from the next render on.
func (s *Scheduler) Resize(width, height int) {
	s.mu.Lock()
	s.width, s.height = width, height
	s.mu.Unlock()
}

func (s *Scheduler) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// Refresh renders a static preview at timestamp 0 when stopped. While
// running the next tick picks up changes on its own.
func (s *Scheduler) Refresh() {
	s.mu.Lock()
	if s.running || s.closed {
		s.mu.Unlock()
		return
	}
	gen := s.generation
	w, h := s.width, s.height
	s.mu.Unlock()

	s.render(gen, 0, w, h)
}

// Tick runs one render pass at tsMillis and commits it unless the
// scheduler was stopped or closed meanwhile. It does not schedule anything.
func (s *Scheduler) Tick(tsMillis float64) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	gen := s.generation
	w, h := s.width, s.height
	s.mu.Unlock()

	s.render(gen, tsMillis, w, h)
}

// Close stops the scheduler and detaches it from the store.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopLocked()
	s.closed = true
	s.generation++
	s.mu.Unlock()
	s.unsubscribe()
}

func (s *Scheduler) scheduleLocked() {
	gen := s.generation
	s.pending = s.source.RequestFrame(func(ts float64) { s.frame(gen, ts) })
}

func (s *Scheduler) frame(gen uint64, ts float64) {
	s.mu.Lock()
	if gen != s.generation || !s.running {
		s.mu.Unlock()
		return
	}
	s.pending = 0
	w, h := s.width, s.height
	s.mu.Unlock()

	if !s.render(gen, ts, w, h) {
		return
	}

	s.mu.Lock()
	if gen == s.generation && s.running {
		s.scheduleLocked()
	}
	s.mu.Unlock()
}

// render computes a frame from a fresh snapshot and commits it if gen is
// still current. It reports whether the frame was committed.
func (s *Scheduler) render(gen uint64, ts float64, w, h int) bool {
	p := s.store.Snapshot()
	start := time.Now()
	f := s.renderer.Render(p, ts, w, h)
	elapsed := time.Since(start)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		logging.Logger().Debug("frame dropped", "ts", ts)
		return false
	}
	s.surface.Commit(f)
	s.lastTimestamp = ts
	stats := FrameStats{Timestamp: ts, Duration: elapsed, Running: s.running}
	onFrame := s.onFrame
	s.mu.Unlock()

	logging.Logger().Debug("frame committed", "ts", ts, "render", elapsed, "effect", p.Effect)
	if onFrame != nil {
		onFrame(stats)
	}
	return true
}
