// Package geom holds the stateless 3D math used to draw the cube: vectors,
// fixed-order axis rotation, screen projection and 2D winding tests.
//
// Rotations are right-handed and always applied X, then Y, then Z, so a
// layer rotation followed by the global tumble composes the same way on
// every frame.
package geom
