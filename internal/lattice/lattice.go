// Package lattice models the 26 cubelets of a 3×3×3 cube: where each one sits
// on the grid and which palette color each of its six faces carries.
package lattice

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/san-kum/rubix/internal/geom"
)

// ErrNotBijective reports a lattice whose cubelets no longer cover the 26
// non-center cells exactly once.
var ErrNotBijective = errors.New("lattice: cubelet positions are not a bijection")

// Size is the number of cubelets in a lattice.
const Size = 26

// Face indexes a cubelet's six faces. Front is +Z, Right is +X, Top is +Y.
type Face int

const (
	Front Face = iota
	Back
	Right
	Left
	Top
	Bottom
)

// NumFaces is the length of a cubelet's color tuple.
const NumFaces = 6

func (f Face) String() string {
	switch f {
	case Front:
		return "front"
	case Back:
		return "back"
	case Right:
		return "right"
	case Left:
		return "left"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	default:
		return "?"
	}
}

// ColorID indexes into a palette.
type ColorID uint8

// Cubelet is one sub-cube: its grid cell and the color on each face.
type Cubelet struct {
	X, Y, Z int
	Colors  [NumFaces]ColorID
}

// Coord returns the cubelet's grid coordinate along axis.
func (c Cubelet) Coord(axis geom.Axis) int {
	switch axis {
	case geom.AxisX:
		return c.X
	case geom.AxisY:
		return c.Y
	default:
		return c.Z
	}
}

// ColorPolicy decides the initial face colors.
type ColorPolicy int

const (
	// Random gives every face of every cubelet a random palette entry.
	Random ColorPolicy = iota
	// Solved paints face f of every cubelet with color f.
	Solved
	// Fixed leaves colors to the renderer, which uses one entry per face.
	Fixed
)

func (p ColorPolicy) String() string {
	switch p {
	case Random:
		return "random"
	case Solved:
		return "solved"
	case Fixed:
		return "fixed"
	default:
		return "?"
	}
}

// ParseColorPolicy maps a config name to a ColorPolicy.
func ParseColorPolicy(name string) (ColorPolicy, bool) {
	switch name {
	case "random", "":
		return Random, true
	case "solved":
		return Solved, true
	case "fixed", "uniform":
		return Fixed, true
	}
	return Random, false
}

type options struct {
	policy     ColorPolicy
	colors     int
	trackFaces bool
	rng        *rand.Rand
}

// Option configures New.
type Option func(*options)

// WithPolicy selects the initial coloring.
func WithPolicy(p ColorPolicy) Option { return func(o *options) { o.policy = p } }

// WithPaletteSize sets how many colors Random draws from.
func WithPaletteSize(n int) Option { return func(o *options) { o.colors = n } }

// WithRand sets the source used by the Random policy.
func WithRand(r *rand.Rand) Option { return func(o *options) { o.rng = r } }

// WithFaceTracking controls whether committed turns permute face colors.
// With tracking off only grid positions move.
func WithFaceTracking(on bool) Option { return func(o *options) { o.trackFaces = on } }

// Lattice owns every Cubelet record. It is not safe for concurrent use.
type Lattice struct {
	cubelets   [Size]Cubelet
	trackFaces bool
}

// New builds a lattice with all 26 non-center cells filled.
func New(opts ...Option) *Lattice {
	o := options{policy: Random, colors: NumFaces, trackFaces: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(1))
	}
	if o.colors <= 0 {
		o.colors = NumFaces
	}

	l := &Lattice{trackFaces: o.trackFaces}
	i := 0
	for x := 0; x < 3; x++ {
		for y := 0; y < 3; y++ {
			for z := 0; z < 3; z++ {
				if x == 1 && y == 1 && z == 1 {
					continue
				}
				c := Cubelet{X: x, Y: y, Z: z}
				for f := range c.Colors {
					switch o.policy {
					case Random:
						c.Colors[f] = ColorID(o.rng.Intn(o.colors))
					default:
						c.Colors[f] = ColorID(f)
					}
				}
				l.cubelets[i] = c
				i++
			}
		}
	}
	return l
}

// Len returns the number of cubelets.
func (l *Lattice) Len() int { return len(l.cubelets) }

// At returns a copy of the i-th cubelet.
func (l *Lattice) At(i int) Cubelet { return l.cubelets[i] }

// Cubelets returns a copy of every cubelet in storage order.
func (l *Lattice) Cubelets() []Cubelet {
	out := make([]Cubelet, len(l.cubelets))
	copy(out, l.cubelets[:])
	return out
}

// TracksFaces reports whether turns permute face colors.
func (l *Lattice) TracksFaces() bool { return l.trackFaces }

// ForEachInLayer calls fn for every cubelet whose coordinate along axis equals
// layer.
func (l *Lattice) ForEachInLayer(axis geom.Axis, layer int, fn func(*Cubelet)) {
	for i := range l.cubelets {
		if l.cubelets[i].Coord(axis) == layer {
			fn(&l.cubelets[i])
		}
	}
}

// Validate checks that the cubelets occupy each non-center cell exactly once.
func (l *Lattice) Validate() error {
	var seen [3][3][3]bool
	for _, c := range l.cubelets {
		if c.X < 0 || c.X > 2 || c.Y < 0 || c.Y > 2 || c.Z < 0 || c.Z > 2 {
			return fmt.Errorf("%w: cell (%d,%d,%d) out of range", ErrNotBijective, c.X, c.Y, c.Z)
		}
		if c.X == 1 && c.Y == 1 && c.Z == 1 {
			return fmt.Errorf("%w: center cell occupied", ErrNotBijective)
		}
		if seen[c.X][c.Y][c.Z] {
			return fmt.Errorf("%w: cell (%d,%d,%d) occupied twice", ErrNotBijective, c.X, c.Y, c.Z)
		}
		seen[c.X][c.Y][c.Z] = true
	}
	return nil
}
