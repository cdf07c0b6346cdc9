package export

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
)

// ErrNoFrames is returned when a GIF is requested with nothing to encode.
var ErrNoFrames = errors.New("export: no frames")

// EncodeGIF quantizes frames to the web-safe palette over bg and writes a
// looping animation. delay is in hundredths of a second.
func EncodeGIF(w io.Writer, frames []image.Image, delay int, bg color.Color) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	if bg == nil {
		bg = color.Black
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, Quantize(frame, bg))
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}

// Quantize flattens img onto bg and maps it to a paletted image.
func Quantize(img image.Image, bg color.Color) *image.Paletted {
	b := img.Bounds()
	flat := image.NewRGBA(b)
	draw.Draw(flat, b, image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(flat, b, img, b.Min, draw.Over)

	out := image.NewPaletted(b, palette.WebSafe)
	draw.FloydSteinberg.Draw(out, b, flat, b.Min)
	return out
}
