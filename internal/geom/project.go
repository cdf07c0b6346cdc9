package geom

// ProjectionMode selects how view-space points reach the screen.
type ProjectionMode int

const (
	Orthographic ProjectionMode = iota
	Perspective
)

// DefaultFocalRatio is the focal length as a multiple of the display size.
// At 2.5 the nearest corner of a cube occupying half the display is scaled by
// roughly 1.1 and the farthest by 0.9.
const DefaultFocalRatio = 2.5

func (m ProjectionMode) String() string {
	if m == Perspective {
		return "perspective"
	}
	return "orthographic"
}

// ParseProjection maps a config name to a ProjectionMode.
func ParseProjection(name string) (ProjectionMode, bool) {
	switch name {
	case "orthographic", "ortho", "":
		return Orthographic, true
	case "perspective", "persp":
		return Perspective, true
	}
	return Orthographic, false
}

// Projection maps view-space points onto a square surface of a given size.
// The viewer sits on the +Z side looking toward the origin.
type Projection struct {
	Mode ProjectionMode
	// Focal is the focal length in view-space units. Zero means
	// DefaultFocalRatio times the surface size.
	Focal float64
}

// Project converts p to screen space centered on a size×size surface.
func (pr Projection) Project(p Vec3, size float64) Point {
	half := size / 2
	if pr.Mode == Orthographic {
		return Point{X: p.X + half, Y: p.Y + half, Depth: p.Z}
	}
	focal := pr.Focal
	if focal <= 0 {
		focal = DefaultFocalRatio * size
	}
	d := focal - p.Z
	if d < 1e-6 {
		d = 1e-6
	}
	scale := focal / d
	return Point{X: p.X*scale + half, Y: p.Y*scale + half, Depth: p.Z}
}
