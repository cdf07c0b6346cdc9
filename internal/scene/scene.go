// Package scene turns the lattice and the active turn into a flat list of
// visible, projected quadrilaterals for one frame.
package scene

import (
	"github.com/san-kum/rubix/internal/geom"
	"github.com/san-kum/rubix/internal/lattice"
	"github.com/san-kum/rubix/internal/turn"
)

// Clockwise is the sign applied to a turn's angle so the animated layer sweeps
// in the same direction CommitTurn moves the cubelets.
const Clockwise = -1.0

const (
	DefaultCubeRatio = 0.5
	DefaultGap       = 3.0
	DefaultTilt      = -0.6
	DefaultYaw       = 0.785
	DefaultDrift     = 0.005
)

// Orientation is the global tumble applied to the whole assembly.
type Orientation struct {
	RotX, RotY float64
}

// Drift advances the tumble by step around Y.
func (o *Orientation) Drift(step float64) { o.RotY += step }

// corner offsets, indexed 0..7, in units of half a piece.
var cornerSigns = [8]geom.Vec3{
	{X: -1, Y: -1, Z: -1},
	{X: 1, Y: -1, Z: -1},
	{X: 1, Y: 1, Z: -1},
	{X: -1, Y: 1, Z: -1},
	{X: -1, Y: -1, Z: 1},
	{X: 1, Y: -1, Z: 1},
	{X: 1, Y: 1, Z: 1},
	{X: -1, Y: 1, Z: 1},
}

// faceCorners lists each face's corners, wound counter-clockwise around the
// outward normal, in lattice.Face order.
var faceCorners = [lattice.NumFaces][4]int{
	lattice.Front:  {4, 5, 6, 7},
	lattice.Back:   {0, 3, 2, 1},
	lattice.Right:  {1, 2, 6, 5},
	lattice.Left:   {0, 4, 7, 3},
	lattice.Top:    {3, 7, 6, 2},
	lattice.Bottom: {0, 1, 5, 4},
}

// Face is one visible quad ready to paint.
type Face struct {
	Corners [4]geom.Point
	Color   lattice.ColorID
	Face    lattice.Face
	Cubelet int
	Depth   float64
}

// Geometry holds the sizes derived from the display size.
type Geometry struct {
	Size      float64
	PieceSize float64
	Gap       float64
}

// NewGeometry sizes the cube to ratio of the display, split into three pieces
// separated by gap.
func NewGeometry(size, ratio, gap float64) Geometry {
	if ratio <= 0 {
		ratio = DefaultCubeRatio
	}
	return Geometry{Size: size, PieceSize: size * ratio / 3, Gap: gap}
}

// Extent is the distance from the cube's center to its farthest corner.
func (g Geometry) Extent() float64 {
	return 1.7320508075688772 * (g.PieceSize + g.Gap + g.PieceSize/2)
}

// Builder produces faces. A Builder reuses its output buffer, so the slice
// returned by Build is only valid until the next call.
type Builder struct {
	Geometry   Geometry
	Projection geom.Projection
	// FixedColors paints face f with palette entry f instead of the
	// cubelet's own color.
	FixedColors bool

	buf []Face
}

// Corners returns the world-space corners of a cubelet before the global
// orientation is applied, including the layer rotation of an active turn.
func (b *Builder) Corners(c lattice.Cubelet, active *turn.Active) [8]geom.Vec3 {
	step := b.Geometry.PieceSize + b.Geometry.Gap
	half := b.Geometry.PieceSize / 2
	center := geom.Vec3{
		X: float64(c.X-1) * step,
		Y: float64(c.Y-1) * step,
		Z: float64(c.Z-1) * step,
	}

	var out [8]geom.Vec3
	for i, s := range cornerSigns {
		out[i] = center.Add(s.Scale(half))
	}
	if active != nil && c.Coord(active.Axis) == active.Layer {
		rx, ry, rz := geom.AxisAngles(active.Axis, Clockwise*active.Angle)
		for i := range out {
			out[i] = geom.RotatePoint(out[i], rx, ry, rz)
		}
	}
	return out
}

// Build returns the visible faces of every cubelet.
func (b *Builder) Build(cubelets []lattice.Cubelet, active *turn.Active, o Orientation) []Face {
	b.buf = b.buf[:0]
	for idx, c := range cubelets {
		world := b.Corners(c, active)

		var proj [8]geom.Point
		for i, p := range world {
			p = geom.RotatePoint(p, o.RotX, o.RotY, 0)
			proj[i] = b.Projection.Project(p, b.Geometry.Size)
		}

		for f, corners := range faceCorners {
			q := [4]geom.Point{proj[corners[0]], proj[corners[1]], proj[corners[2]], proj[corners[3]]}
			if !Visible(q) {
				continue
			}
			col := c.Colors[f]
			if b.FixedColors {
				col = lattice.ColorID(f)
			}
			b.buf = append(b.buf, Face{
				Corners: q,
				Color:   col,
				Face:    lattice.Face(f),
				Cubelet: idx,
				Depth:   (q[0].Depth + q[1].Depth + q[2].Depth + q[3].Depth) / 4,
			})
		}
	}
	return b.buf
}

// Visible reports whether a projected quad faces the viewer.
func Visible(q [4]geom.Point) bool {
	return geom.SignedArea(q[0], q[1], q[2]) > 0
}
