package paint

import (
	"image/color"
	"sort"

	"github.com/san-kum/rubix/internal/lattice"
)

// Swatch is one palette entry: a base fill and a lighter glow used at the
// center of gradient-capable surfaces.
type Swatch struct {
	Base color.NRGBA
	Glow color.NRGBA
}

// Palette maps lattice color ids to swatches.
type Palette struct {
	Name     string
	Swatches []Swatch
}

// At returns the swatch for id, wrapping ids past the end.
func (p Palette) At(id lattice.ColorID) Swatch {
	if len(p.Swatches) == 0 {
		return Swatch{Base: color.NRGBA{255, 255, 255, 255}, Glow: color.NRGBA{255, 255, 255, 255}}
	}
	return p.Swatches[int(id)%len(p.Swatches)]
}

// Len returns the number of swatches.
func (p Palette) Len() int { return len(p.Swatches) }

func swatch(r, g, b uint8) Swatch {
	return Swatch{
		Base: color.NRGBA{r, g, b, 204},
		Glow: color.NRGBA{r, g, b, 77},
	}
}

// Built-in palettes. Blush is the pink/purple loader scheme.
var (
	Blush = Palette{Name: "blush", Swatches: []Swatch{
		swatch(255, 182, 255),
		swatch(230, 190, 255),
		swatch(255, 200, 230),
		swatch(240, 200, 255),
		swatch(255, 220, 255),
		swatch(250, 210, 255),
	}}

	// Classic is indexed like lattice.Face: front, back, right, left, top, bottom.
	Classic = Palette{Name: "classic", Swatches: []Swatch{
		swatch(0, 155, 72),
		swatch(0, 70, 173),
		swatch(183, 18, 52),
		swatch(255, 88, 0),
		swatch(255, 255, 255),
		swatch(255, 213, 0),
	}}

	Mono = Palette{Name: "mono", Swatches: []Swatch{
		swatch(235, 235, 235),
		swatch(200, 200, 200),
		swatch(170, 170, 170),
		swatch(140, 140, 140),
		swatch(215, 215, 215),
		swatch(120, 120, 120),
	}}

	Neon = Palette{Name: "neon", Swatches: []Swatch{
		swatch(255, 0, 255),
		swatch(0, 255, 255),
		swatch(255, 255, 0),
		swatch(0, 255, 136),
		swatch(255, 68, 68),
		swatch(68, 136, 255),
	}}
)

var palettes = map[string]Palette{
	Blush.Name:   Blush,
	Classic.Name: Classic,
	Mono.Name:    Mono,
	Neon.Name:    Neon,
}

// LookupPalette returns the named palette.
func LookupPalette(name string) (Palette, bool) {
	p, ok := palettes[name]
	return p, ok
}

// PaletteNames returns the built-in palette names, sorted.
func PaletteNames() []string {
	names := make([]string, 0, len(palettes))
	for n := range palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
