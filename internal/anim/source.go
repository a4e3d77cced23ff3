package anim

import "sync"

// FrameID identifies a pending frame request. Zero is never issued.
type FrameID uint64

// FrameSource is the host's frame-timing facility.
type FrameSource interface {
	// RequestFrame arranges for fn to run once at the next frame, with
	// that frame's timestamp in milliseconds.
	RequestFrame(fn func(tsMillis float64)) FrameID
	// CancelFrame drops a pending request. Unknown ids are ignored.
	CancelFrame(id FrameID)
}

// Loop is a FrameSource driven by the host's own refresh loop.
type Loop struct {
	mu      sync.Mutex
	nextID  FrameID
	pending map[FrameID]func(float64)
	order   []FrameID
}

func NewLoop() *Loop {
	return &Loop{pending: make(map[FrameID]func(float64))}
}

func (l *Loop) RequestFrame(fn func(float64)) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	l.pending[l.nextID] = fn
	l.order = append(l.order, l.nextID)
	return l.nextID
}

func (l *Loop) CancelFrame(id FrameID) {
	l.mu.Lock()
	delete(l.pending, id)
	l.mu.Unlock()
}

// Pending returns the number of outstanding requests.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Pump runs every callback requested before this call, in request order.
// Callbacks requested while pumping wait for the next Pump.
func (l *Loop) Pump(tsMillis float64) int {
	l.mu.Lock()
	order := l.order
	l.order = nil
	fns := make([]func(float64), 0, len(order))
	for _, id := range order {
		if fn, ok := l.pending[id]; ok {
			fns = append(fns, fn)
			delete(l.pending, id)
		}
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(tsMillis)
	}
	return len(fns)
}
