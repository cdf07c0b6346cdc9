package geom

import "math"

// Axis names one of the three rotation axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "?"
	}
}

// RotatePoint rotates p by rx about X, then ry about Y, then rz about Z.
func RotatePoint(p Vec3, rx, ry, rz float64) Vec3 {
	if rx != 0 {
		cx, sx := math.Cos(rx), math.Sin(rx)
		p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	}
	if ry != 0 {
		cy, sy := math.Cos(ry), math.Sin(ry)
		p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	}
	if rz != 0 {
		cz, sz := math.Cos(rz), math.Sin(rz)
		p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	}
	return p
}

// AxisAngles spreads a single-axis angle into the (rx, ry, rz) triple taken by
// RotatePoint.
func AxisAngles(axis Axis, angle float64) (rx, ry, rz float64) {
	switch axis {
	case AxisX:
		return angle, 0, 0
	case AxisY:
		return 0, angle, 0
	default:
		return 0, 0, angle
	}
}

// RotateAbout rotates p by angle about a single axis.
func RotateAbout(p Vec3, axis Axis, angle float64) Vec3 {
	rx, ry, rz := AxisAngles(axis, angle)
	return RotatePoint(p, rx, ry, rz)
}
