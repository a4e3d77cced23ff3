// Package viz renders HARMONIK frames in the terminal.
//
// The package implements a live TUI using the Bubble Tea framework:
//
//   - [Model]: live view driving an animation scheduler from Bubble Tea ticks
//   - [RenderBlocks]: half-block renderer, two pixels per cell in theme colors
//   - [Canvas]: Braille-based dithered canvas, eight dots per cell
//   - Theme selection among 5 built-in shading palettes
//
// # Key Bindings
//
//	Space - Start/Stop animation
//	E     - Next effect
//	P     - Next preset
//	R     - Randomize parameters
//	I     - Toggle invert
//	Tab   - Select knob (speed, scale, blend)
//	↑/↓   - Tune selected knob
//	V     - Switch between blocks and braille
//	S     - Save the current frame to the data directory
//	G     - Toggle GIF recording
//	T     - Cycle color themes
//	?     - Show help overlay
//
// # Recording
//
// The G key records committed frames and writes an animated GIF to the
// data directory when recording stops.
package viz
