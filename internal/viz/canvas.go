package viz

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/rubix/internal/geom"
	"github.com/san-kum/rubix/internal/paint"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
const brailleBase = 0x2800

var pixelMap = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille dot grid that implements paint.Surface. Coordinates
// passed to the surface methods are dots: (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]color.NRGBA
	// Solid sets the dots a face covers instead of clearing them, so faces
	// render filled rather than as outlines.
	Solid bool
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]color.NRGBA, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]color.NRGBA, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (w, h int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (row, col int, ok bool) {
	if x < 0 || y < 0 {
		return 0, 0, false
	}
	col, row = x/2, y/4
	if col >= c.Width || row >= c.Height {
		return 0, 0, false
	}
	return row, col, true
}

// Set turns on the dot at (x, y).
func (c *Canvas) Set(x, y int) {
	if row, col, ok := c.cell(x, y); ok {
		c.Grid[row][col] |= pixelMap[y%4][x%2]
	}
}

// Unset clears the dot at (x, y).
func (c *Canvas) Unset(x, y int) {
	if row, col, ok := c.cell(x, y); ok {
		c.Grid[row][col] &^= pixelMap[y%4][x%2]
	}
}

// IsSet reports whether the dot at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	row, col, ok := c.cell(x, y)
	return ok && c.Grid[row][col]&pixelMap[y%4][x%2] != 0
}

// ColorAt returns the color recorded for the cell holding dot (x, y).
func (c *Canvas) ColorAt(x, y int) color.NRGBA {
	if row, col, ok := c.cell(x, y); ok {
		return c.Colors[row][col]
	}
	return color.NRGBA{}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBase
			c.Colors[i][j] = color.NRGBA{}
		}
	}
}

// FillPolygon covers the dots whose centers fall inside pts and takes over
// their cells' color.
func (c *Canvas) FillPolygon(pts []geom.Point, fill paint.Fill) error {
	if len(pts) < 3 {
		return nil
	}
	minX, minY, maxX, maxY := bounds(pts)
	dw, dh := c.Dots()
	x0, x1 := clamp(int(math.Floor(minX)), 0, dw-1), clamp(int(math.Ceil(maxX)), 0, dw-1)
	y0, y1 := clamp(int(math.Floor(minY)), 0, dh-1), clamp(int(math.Ceil(maxY)), 0, dh-1)

	opaque := fill.Base
	opaque.A = 255
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if !inside(pts, float64(x)+0.5, float64(y)+0.5) {
				continue
			}
			if c.Solid {
				c.Set(x, y)
			} else {
				c.Unset(x, y)
			}
			row, col, _ := c.cell(x, y)
			c.Colors[row][col] = opaque
		}
	}
	return nil
}

// StrokePolygon outlines pts. Width is ignored: one dot is already coarse.
// Cells without a fill color take the stroke color.
func (c *Canvas) StrokePolygon(pts []geom.Point, col color.NRGBA, _ float64) error {
	if len(pts) < 2 {
		return nil
	}
	col.A = 255
	plot := func(x, y int) {
		row, cl, ok := c.cell(x, y)
		if !ok {
			return
		}
		c.Grid[row][cl] |= pixelMap[y%4][x%2]
		if c.Colors[row][cl].A == 0 {
			c.Colors[row][cl] = col
		}
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		drawLine(round(a.X), round(a.Y), round(b.X), round(b.Y), plot)
	}
	return nil
}

// DrawLine sets the dots on the segment between two points.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	drawLine(x0, y0, x1, y1, c.Set)
}

// drawLine walks a segment with Bresenham's algorithm.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// String returns the grid without color.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render returns the grid with each run of same-colored cells styled by
// lipgloss.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colors[i][j] == c.Colors[i][start] {
				continue
			}
			run := string(row[start:j])
			if col := c.Colors[i][start]; col.A > 0 {
				run = lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(int(col.R), int(col.G), int(col.B)))).Render(run)
			}
			b.WriteString(run)
			start = j
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Image rasterizes the set dots, scale pixels per dot, over bg.
func (c *Canvas) Image(scale int, bg color.Color) image.Image {
	if scale < 1 {
		scale = 1
	}
	dw, dh := c.Dots()
	img := image.NewNRGBA(image.Rect(0, 0, dw*scale, dh*scale))
	for y := 0; y < dh*scale; y++ {
		for x := 0; x < dw*scale; x++ {
			img.Set(x, y, bg)
		}
	}
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			col := c.ColorAt(x, y)
			if col.A == 0 {
				col = color.NRGBA{255, 255, 255, 255}
			}
			for py := 0; py < scale; py++ {
				for px := 0; px < scale; px++ {
					img.SetNRGBA(x*scale+px, y*scale+py, col)
				}
			}
		}
	}
	return img
}

// inside is an even-odd crossing test.
func inside(pts []geom.Point, x, y float64) bool {
	in := false
	j := len(pts) - 1
	for i := range pts {
		a, b := pts[i], pts[j]
		if (a.Y > y) != (b.Y > y) && x < (b.X-a.X)*(y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
		j = i
	}
	return in
}

func bounds(pts []geom.Point) (minX, minY, maxX, maxY float64) {
	minX, minY = pts[0].X, pts[0].Y
	maxX, maxY = minX, minY
	for _, p := range pts[1:] {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	return
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round(v float64) int { return int(math.Round(v)) }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
