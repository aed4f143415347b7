package main

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

const hatchTileSize = 20

// hatchTile draws one diagonal stroke on a transparent tile; repeated it
// gives the polygon hatch fill.
func hatchTile(hatchColor string, thickness float64) image.Image {
	dc := gg.NewContext(hatchTileSize, hatchTileSize)
	c, err := parseColor(hatchColor)
	if err != nil {
		c = color.Black
	}
	if thickness <= 0 {
		thickness = defaultHatchThickness
	}
	dc.SetColor(c)
	dc.SetLineWidth(thickness)
	dc.DrawLine(0, 0, hatchTileSize, hatchTileSize)
	dc.Stroke()
	return dc.Image()
}

func hatchPattern(tile image.Image) gg.Pattern {
	return gg.NewSurfacePattern(tile, gg.RepeatBoth)
}
