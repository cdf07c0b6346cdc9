package export

import (
	"fmt"
	"image/color"
	"io"
	"strings"

	"github.com/san-kum/rubix/internal/geom"
	"github.com/san-kum/rubix/internal/paint"
)

// SVGSurface records painted polygons and serialises them as one SVG frame.
type SVGSurface struct {
	Width, Height float64
	// Background is written as a full-size rect. Empty leaves it transparent.
	Background string

	body strings.Builder
	n    int
}

func NewSVGSurface(size float64) *SVGSurface {
	return &SVGSurface{Width: size, Height: size, Background: "#0a0a0a"}
}

func (s *SVGSurface) Clear() {
	s.body.Reset()
	s.n = 0
}

func (s *SVGSurface) FillPolygon(pts []geom.Point, fill paint.Fill) error {
	if len(pts) < 3 {
		return nil
	}
	fmt.Fprintf(&s.body, `<polygon points="%s" fill="%s" fill-opacity="%.3f"/>
`, points(pts), hex(fill.Base), float64(fill.Base.A)/255)
	s.n++
	return nil
}

func (s *SVGSurface) StrokePolygon(pts []geom.Point, c color.NRGBA, width float64) error {
	if len(pts) < 2 {
		return nil
	}
	fmt.Fprintf(&s.body, `<polygon points="%s" fill="none" stroke="%s" stroke-opacity="%.3f" stroke-width="%.1f" stroke-linejoin="round"/>
`, points(pts), hex(c), float64(c.A)/255, width)
	return nil
}

// Polygons returns the number of filled polygons since the last Clear.
func (s *SVGSurface) Polygons() int { return s.n }

// String returns the complete SVG document.
func (s *SVGSurface) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
`, s.Width, s.Height, s.Width, s.Height))
	if s.Background != "" {
		sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>
`, s.Background))
	}
	sb.WriteString("<g>\n")
	sb.WriteString(s.body.String())
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

func (s *SVGSurface) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

func points(pts []geom.Point) string {
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%.1f,%.1f", p.X, p.Y))
	}
	return sb.String()
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
