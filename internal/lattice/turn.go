package lattice

import "github.com/san-kum/rubix/internal/geom"

// Move names a layer: the cubelets sharing Layer along Axis.
type Move struct {
	Axis  geom.Axis
	Layer int
}

func (m Move) String() string {
	return m.Axis.String() + string(rune('0'+m.Layer))
}

// faceCycles holds, per axis, where each face's color goes after a clockwise
// quarter turn: dest[f] is the face that receives the color previously on f.
var faceCycles = [3][NumFaces]Face{
	// X: front -> top -> back -> bottom -> front.
	geom.AxisX: {Front: Top, Back: Bottom, Right: Right, Left: Left, Top: Back, Bottom: Front},
	// Y: right -> front -> left -> back -> right.
	geom.AxisY: {Front: Left, Back: Right, Right: Front, Left: Back, Top: Top, Bottom: Bottom},
	// Z: top -> right -> bottom -> left -> top.
	geom.AxisZ: {Front: Front, Back: Back, Right: Bottom, Left: Top, Top: Right, Bottom: Left},
}

// CommitTurn applies a completed clockwise quarter turn, seen from the
// positive end of axis, to every cubelet in the layer. Four commits of the
// same move restore the lattice exactly.
func (l *Lattice) CommitTurn(axis geom.Axis, layer int) {
	l.ForEachInLayer(axis, layer, func(c *Cubelet) {
		rotateCell(c, axis)
		if l.trackFaces {
			c.Colors = permuteColors(c.Colors, axis)
		}
	})
}

// Commit is CommitTurn for a Move.
func (l *Lattice) Commit(m Move) { l.CommitTurn(m.Axis, m.Layer) }

// rotateCell turns the two in-plane coordinates (a, b) to (b, 2-a), with the
// plane ordered (Y,Z) for X, (Z,X) for Y and (X,Y) for Z.
func rotateCell(c *Cubelet, axis geom.Axis) {
	switch axis {
	case geom.AxisX:
		c.Y, c.Z = c.Z, 2-c.Y
	case geom.AxisY:
		c.Z, c.X = c.X, 2-c.Z
	default:
		c.X, c.Y = c.Y, 2-c.X
	}
}

func permuteColors(in [NumFaces]ColorID, axis geom.Axis) [NumFaces]ColorID {
	var out [NumFaces]ColorID
	for f, dest := range faceCycles[axis] {
		out[dest] = in[f]
	}
	return out
}
