// Package control maps user intent onto the parameter store and the
// animation scheduler.
//
// A [Panel] is shared by every front end, so the terminal view and the
// native window behave the same:
//
//	panel := control.NewPanel(store, sched, rand.New(rand.NewSource(seed)))
//	panel.Toggle()         // Synthesize / Stop
//	panel.NextEffect()     // tunnel -> vortex -> ...
//	panel.Tune(+0.05)      // nudge the selected knob
package control
