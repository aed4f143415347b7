package main

import (
	"image/color"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	c, err := parseColor("rgba(0,0,200,0.5)")
	require.NoError(t, err)
	n, ok := c.(color.NRGBA)
	require.True(t, ok)
	assert.Equal(t, uint8(200), n.B)
	assert.InDelta(t, 128, int(n.A), 1)

	c, err = parseColor("red")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, c)

	_, err = parseColor("reddish")
	assert.ErrorIs(t, err, ErrBadColor)
}

func TestColorHex(t *testing.T) {
	hex, err := colorHex("rgb(255, 0, 0)")
	require.NoError(t, err)
	assert.Equal(t, "#ff0000", hex)
	_, err = colorHex("")
	assert.ErrorIs(t, err, ErrBadColor)
}

func TestDarken(t *testing.T) {
	d, err := darken("#ffffff")
	require.NoError(t, err)
	dc, err := colorful.Hex(d)
	require.NoError(t, err)
	_, _, l := dc.Hsl()
	assert.InDelta(t, 0.9, l, 0.01)
	d, err = darken("#000000")
	require.NoError(t, err)
	assert.Equal(t, "#000000", d, "clamped at black")
}

func TestBlendOver(t *testing.T) {
	assert.Equal(t, "#ff0000", blendOver("red", "#ffffff"))
	assert.Equal(t, "#ffffff", blendOver("transparent", "#ffffff"))
	assert.Equal(t, "#123456", blendOver("not a color", "#123456"))
}

func TestNextPaletteColor(t *testing.T) {
	assert.Equal(t, palette[1], nextPaletteColor(palette[0]))
	assert.Equal(t, palette[0], nextPaletteColor(palette[len(palette)-1]))
	assert.Equal(t, palette[0], nextPaletteColor("chartreuse"))
}
