package main

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/mazznoer/csscolorparser"
)

var ErrBadColor = errors.New("invalid color")

// parseColor accepts any CSS color: names, hex, rgb(a), hsl(a).
func parseColor(s string) (color.Color, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrBadColor, s, err)
	}
	r, g, b, a := c.RGBA255()
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

func validColor(s string) bool {
	_, err := csscolorparser.Parse(s)
	return err == nil
}

// colorHex flattens a CSS color to #rrggbb, dropping alpha.
func colorHex(s string) (string, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrBadColor, s, err)
	}
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Hex(), nil
}

// darken lowers lightness by a tenth; used for selection highlighting.
func darken(s string) (string, error) {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrBadColor, s, err)
	}
	h, sat, l := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsl()
	return colorful.Hsl(h, sat, l-.1).Clamped().Hex(), nil
}

// blendOver composites a possibly translucent CSS color over bg and returns
// the opaque hex result, as a terminal cell has no alpha.
func blendOver(s, bg string) string {
	c, err := csscolorparser.Parse(s)
	if err != nil {
		return bg
	}
	b, err := csscolorparser.Parse(bg)
	if err != nil {
		b = csscolorparser.Color{R: 1, G: 1, B: 1, A: 1}
	}
	fg := colorful.Color{R: c.R, G: c.G, B: c.B}
	back := colorful.Color{R: b.R, G: b.G, B: b.B}
	return back.BlendRgb(fg, c.A).Clamped().Hex()
}

// palette is cycled by the fill and stroke keys.
var palette = []string{
	"#000000",
	"rgba(0,0,200,0.5)",
	"rgba(0,200,0,0.5)",
	"rgba(200,0,0,0.5)",
	"rgba(187,40,40,0.5)",
	"rgba(195,23,23,0.3)",
	"rgba(23,195,66,0.3)",
	"#ffffff",
	"transparent",
}

func nextPaletteColor(current string) string {
	for i, c := range palette {
		if c == current {
			return palette[(i+1)%len(palette)]
		}
	}
	return palette[0]
}
