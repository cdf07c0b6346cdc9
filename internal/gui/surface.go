package gui

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/rubix/internal/geom"
	"github.com/san-kum/rubix/internal/paint"
)

// glowInset is the size of the highlight polygon relative to the face.
const glowInset = 0.55

// Surface draws painted polygons into the current raylib frame. It must be
// used between BeginDrawing and EndDrawing.
type Surface struct {
	// Offset shifts every point, centering the square engine frame in a
	// wider window.
	Offset     rl.Vector2
	Background color.RGBA
}

func (s *Surface) Clear() {
	rl.ClearBackground(s.Background)
}

// FillPolygon draws pts as a triangle fan in the base color, then a smaller
// fan toward the centroid in the glow color.
func (s *Surface) FillPolygon(pts []geom.Point, fill paint.Fill) error {
	if len(pts) < 3 {
		return nil
	}
	verts := s.vertices(pts)
	s.fan(verts, rgba(fill.Base))

	glow := fill.Glow
	glow.A = uint8(float64(fill.Base.A) * 0.5)
	s.fan(inset(verts, glowInset), rgba(glow))
	return nil
}

func (s *Surface) StrokePolygon(pts []geom.Point, c color.NRGBA, width float64) error {
	if len(pts) < 2 {
		return nil
	}
	verts := s.vertices(pts)
	col := rgba(c)
	for i := range verts {
		rl.DrawLineEx(verts[i], verts[(i+1)%len(verts)], float32(width), col)
	}
	return nil
}

func (s *Surface) vertices(pts []geom.Point) []rl.Vector2 {
	out := make([]rl.Vector2, len(pts))
	for i, p := range pts {
		out[i] = rl.NewVector2(float32(p.X)+s.Offset.X, float32(p.Y)+s.Offset.Y)
	}
	return out
}

func (s *Surface) fan(verts []rl.Vector2, col color.RGBA) {
	for _, t := range fanTriangles(verts) {
		rl.DrawTriangle(t[0], t[1], t[2], col)
	}
}

// fanTriangles splits a convex polygon into triangles around its first
// vertex, each wound counter-clockwise on screen as raylib requires.
func fanTriangles(verts []rl.Vector2) [][3]rl.Vector2 {
	if len(verts) < 3 {
		return nil
	}
	tris := make([][3]rl.Vector2, 0, len(verts)-2)
	for i := 1; i+1 < len(verts); i++ {
		a, b, c := verts[0], verts[i], verts[i+1]
		if cross(a, b, c) > 0 {
			b, c = c, b
		}
		tris = append(tris, [3]rl.Vector2{a, b, c})
	}
	return tris
}

// cross is negative for counter-clockwise order with y pointing down.
func cross(a, b, c rl.Vector2) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

// inset scales verts toward their centroid by f.
func inset(verts []rl.Vector2, f float32) []rl.Vector2 {
	var cx, cy float32
	for _, v := range verts {
		cx += v.X
		cy += v.Y
	}
	n := float32(len(verts))
	cx, cy = cx/n, cy/n
	out := make([]rl.Vector2, len(verts))
	for i, v := range verts {
		out[i] = rl.NewVector2(cx+(v.X-cx)*f, cy+(v.Y-cy)*f)
	}
	return out
}

func rgba(c color.NRGBA) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
