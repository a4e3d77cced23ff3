// Package anim drives repeated rendering against a host's frame clock.
//
// The host owns the clock and the display. It exposes the clock as a
// [FrameSource] (usually a [Loop] it pumps once per refresh) and the display
// as a [Surface]. A [Scheduler] connects both to a parameter store and a
// renderer:
//
//	loop := anim.NewLoop()
//	latest := &anim.Latest{}
//	s := anim.New(renderer, store, loop, latest, w, h)
//	defer s.Close()
//	s.Start()
//	for !quit {
//	    loop.Pump(nowMillis())
//	    draw(latest.Frame())
//	}
//
// # States
//
// Stopped: each parameter change renders one static frame at timestamp 0.
// Running: every frame callback renders, commits, then requests the next
// frame. Stop cancels the pending request; a callback that is already
// executing observes the stop before it commits.
package anim
