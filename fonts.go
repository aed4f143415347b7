package main

import (
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

var (
	monoOnce sync.Once
	monoFont *truetype.Font
	monoErr  error

	faceMu    sync.Mutex
	faceCache = map[float64]font.Face{}
)

// fontFace returns a Go Mono face at the given size. Every text shape is
// measured and exported with it regardless of the requested family.
func fontFace(size float64) (font.Face, error) {
	monoOnce.Do(func() {
		monoFont, monoErr = truetype.Parse(gomono.TTF)
	})
	if monoErr != nil {
		return nil, monoErr
	}
	faceMu.Lock()
	defer faceMu.Unlock()
	if f, ok := faceCache[size]; ok {
		return f, nil
	}
	f := truetype.NewFace(monoFont, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	faceCache[size] = f
	return f, nil
}

// measureText returns the width of the longest line and the total height
// of all lines.
func measureText(text string, size float64) (float64, float64) {
	if size <= 0 {
		return 0, 0
	}
	lines := strings.Split(text, "\n")
	face, err := fontFace(size)
	if err != nil {
		// Rough monospace fallback.
		longest := 0
		for _, l := range lines {
			if len(l) > longest {
				longest = len(l)
			}
		}
		return float64(longest) * size * 0.6, float64(len(lines)) * size * 1.16
	}
	width := 0.0
	for _, l := range lines {
		w := float64(font.MeasureString(face, l)) / 64
		if w > width {
			width = w
		}
	}
	lineHeight := float64(face.Metrics().Height) / 64
	return width, lineHeight * float64(len(lines))
}
