// Package raster implements paint.Surface on a gogpu/gg software context, for
// PNG frames, GIF recording and gallery output.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/gogpu/gg"
	"github.com/san-kum/rubix/internal/engine"
	"github.com/san-kum/rubix/internal/geom"
	"github.com/san-kum/rubix/internal/paint"
)

// Surface is a square RGBA canvas.
type Surface struct {
	dc   *gg.Context
	size int
	// Background fills the canvas on Clear. Nil clears to transparent.
	Background *color.NRGBA
	// Glow fills faces with a radial gradient from the swatch glow at the
	// center to its base at the farthest corner.
	Glow bool
}

// New allocates a size×size surface.
func New(size int) (*Surface, error) {
	if size <= 0 {
		return nil, fmt.Errorf("raster: size %d: %w", size, engine.ErrSurfaceUnavailable)
	}
	return &Surface{dc: gg.NewContext(size, size), size: size, Glow: true}, nil
}

// Size returns the edge length in pixels.
func (s *Surface) Size() int { return s.size }

func (s *Surface) Clear() {
	if s.Background != nil {
		s.dc.ClearWithColor(gg.FromColor(*s.Background))
		return
	}
	s.dc.Clear()
}

func (s *Surface) FillPolygon(pts []geom.Point, fill paint.Fill) error {
	if len(pts) < 3 {
		return nil
	}
	if s.Glow {
		s.dc.SetFillBrush(glowBrush(pts, fill))
	} else {
		s.dc.SetFillBrush(gg.Solid(gg.FromColor(fill.Base)))
	}
	s.path(pts)
	return s.dc.Fill()
}

func (s *Surface) StrokePolygon(pts []geom.Point, c color.NRGBA, width float64) error {
	if len(pts) < 2 {
		return nil
	}
	s.dc.SetStrokeBrush(gg.Solid(gg.FromColor(c)))
	s.dc.SetLineWidth(width)
	s.path(pts)
	return s.dc.Stroke()
}

func (s *Surface) path(pts []geom.Point) {
	s.dc.ClearPath()
	s.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.dc.LineTo(p.X, p.Y)
	}
	s.dc.ClosePath()
}

func glowBrush(pts []geom.Point, fill paint.Fill) gg.Brush {
	var cx, cy float64
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pts))
	cy /= float64(len(pts))

	maxDist := 0.0
	for _, p := range pts {
		maxDist = math.Max(maxDist, math.Hypot(p.X-cx, p.Y-cy))
	}
	if maxDist == 0 {
		return gg.Solid(gg.FromColor(fill.Base))
	}
	return gg.NewRadialGradientBrush(cx, cy, 0, maxDist).
		AddColorStop(0, gg.FromColor(fill.Glow)).
		AddColorStop(1, gg.FromColor(fill.Base))
}

// Image returns the rendered pixels.
func (s *Surface) Image() image.Image { return s.dc.Image() }

// SavePNG writes the canvas to path.
func (s *Surface) SavePNG(path string) error { return s.dc.SavePNG(path) }

// EncodePNG writes the canvas to w.
func (s *Surface) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }

// Close releases the context.
func (s *Surface) Close() error { return s.dc.Close() }
