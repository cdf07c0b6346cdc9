// Package viz hosts the cube engine in the terminal.
//
// The live view is a Bubble Tea program that draws every frame onto a
// braille [Canvas]. Each terminal cell holds 2x4 dots and the color of the
// nearest face covering it, so painter occlusion survives the coarse grid.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart with a fresh cube
//	T     - Cycle color themes
//	P     - Toggle orthographic/perspective projection
//	F     - Toggle solid/outline faces
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
//
// # Recording
//
// G starts recording the canvas; pressing it again writes rubix.gif to the
// current directory.
package viz
