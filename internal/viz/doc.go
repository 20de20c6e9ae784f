// Package viz is a terminal front end for a scene.
//
// [Screen] implements scene.Renderer: it keeps the instance bytes uploaded
// for each object and, on Draw, decodes them and plots every instance onto a
// braille [Canvas] in the instance's colour. [Model] is the Bubble Tea
// program that drives a scene at 60 Hz through a scene.Clock and renders it
// with a side panel of diagnostics. [Picker] is a menu in front of it for
// choosing and tuning a preset.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to the initial scenario
//	+/-   - Zoom
//	X/Y   - Tilt the view about x or y
//	[ ]   - Slow down / speed up simulated time
//	C     - Toggle orbit trails
//	G     - Start/stop GIF recording
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
