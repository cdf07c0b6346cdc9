// Package paint draws scene faces onto a Surface back to front.
package paint

import (
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/san-kum/rubix/internal/geom"
	"github.com/san-kum/rubix/internal/scene"
)

// Fill describes how to fill one polygon. Surfaces that cannot draw gradients
// use Base and ignore Glow.
type Fill struct {
	Base color.NRGBA
	Glow color.NRGBA
}

// Surface is a 2D drawing target with its origin at the top-left corner.
type Surface interface {
	// Clear resets every pixel to transparent.
	Clear()
	FillPolygon(pts []geom.Point, fill Fill) error
	StrokePolygon(pts []geom.Point, c color.NRGBA, width float64) error
}

const (
	DefaultMinAlpha    = 0.6
	DefaultStrokeWidth = 2.0
	strokeAlpha        = 0.6
)

// Painter renders faces with depth-attenuated alpha and a light outline.
type Painter struct {
	Palette     Palette
	MinAlpha    float64
	StrokeWidth float64
	// Extent is the largest |depth| a face can have; alpha ramps from
	// MinAlpha at -Extent to 1 at +Extent.
	Extent float64

	pts []geom.Point
}

// SortByDepth orders faces far to near. The sort is stable.
func SortByDepth(faces []scene.Face) {
	sort.SliceStable(faces, func(i, j int) bool { return faces[i].Depth < faces[j].Depth })
}

// Alpha returns the opacity for a face at depth.
func (p *Painter) Alpha(depth float64) float64 {
	minAlpha := p.MinAlpha
	if minAlpha <= 0 {
		minAlpha = DefaultMinAlpha
	}
	if p.Extent <= 0 {
		return 1
	}
	t := (depth + p.Extent) / (2 * p.Extent)
	return math.Max(minAlpha, math.Min(1, minAlpha+(1-minAlpha)*t))
}

// Paint clears s, sorts faces in place and draws them far to near.
func (p *Painter) Paint(s Surface, faces []scene.Face) error {
	s.Clear()
	SortByDepth(faces)

	width := p.StrokeWidth
	if width <= 0 {
		width = DefaultStrokeWidth
	}
	for i := range faces {
		f := &faces[i]
		alpha := p.Alpha(f.Depth)
		sw := p.Palette.At(f.Color)

		p.pts = append(p.pts[:0], f.Corners[:]...)
		fill := Fill{Base: withAlpha(sw.Base, alpha), Glow: withAlpha(sw.Glow, math.Min(1, alpha*1.2))}
		if err := s.FillPolygon(p.pts, fill); err != nil {
			return fmt.Errorf("fill face %d: %w", i, err)
		}
		outline := withAlpha(color.NRGBA{255, 255, 255, 255}, alpha*strokeAlpha)
		if err := s.StrokePolygon(p.pts, outline, width); err != nil {
			return fmt.Errorf("stroke face %d: %w", i, err)
		}
	}
	return nil
}

func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(math.Max(0, math.Min(1, a)) * 255))
	return c
}
