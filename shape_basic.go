package main

import (
	"math"
	"strings"
	"unicode"
)

// BoxGeometry backs rectangles and triangles. The origin stays at the
// pointer-down point while growing.
type BoxGeometry struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (g *BoxGeometry) init(p Point) {
	*g = BoxGeometry{Left: p.X, Top: p.Y}
}

func (g *BoxGeometry) grow(p Point) {
	g.Width = math.Abs(p.X - g.Left)
	g.Height = math.Abs(p.Y - g.Top)
}

func (g *BoxGeometry) bounds() Rect {
	return Rect{Left: g.Left, Top: g.Top, Width: g.Width, Height: g.Height}
}

func (g *BoxGeometry) translate(dx, dy float64) {
	g.Left += dx
	g.Top += dy
}

func (g *BoxGeometry) clone() geometry {
	c := *g
	return &c
}

func (g *BoxGeometry) finite() bool {
	return allFinite(g.Left, g.Top, g.Width, g.Height)
}

// trianglePoints returns the isosceles triangle inscribed in the box, apex
// at the top centre.
func (g *BoxGeometry) trianglePoints() []Point {
	return []Point{
		{g.Left + g.Width/2, g.Top},
		{g.Left + g.Width, g.Top + g.Height},
		{g.Left, g.Top + g.Height},
	}
}

// CircleGeometry is anchored by the top-left of its bounding box.
type CircleGeometry struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Radius float64 `json:"radius"`
}

func (g *CircleGeometry) init(p Point) {
	*g = CircleGeometry{Left: p.X, Top: p.Y}
}

func (g *CircleGeometry) grow(p Point) {
	g.Radius = math.Hypot(p.X-g.Left, p.Y-g.Top)
}

func (g *CircleGeometry) bounds() Rect {
	return Rect{Left: g.Left, Top: g.Top, Width: 2 * g.Radius, Height: 2 * g.Radius}
}

func (g *CircleGeometry) center() Point {
	return Point{g.Left + g.Radius, g.Top + g.Radius}
}

func (g *CircleGeometry) translate(dx, dy float64) {
	g.Left += dx
	g.Top += dy
}

func (g *CircleGeometry) clone() geometry {
	c := *g
	return &c
}

func (g *CircleGeometry) finite() bool {
	return allFinite(g.Left, g.Top, g.Radius)
}

type EllipseGeometry struct {
	Left float64 `json:"left"`
	Top  float64 `json:"top"`
	Rx   float64 `json:"rx"`
	Ry   float64 `json:"ry"`
}

func (g *EllipseGeometry) init(p Point) {
	*g = EllipseGeometry{Left: p.X, Top: p.Y}
}

func (g *EllipseGeometry) grow(p Point) {
	g.Rx = math.Abs(p.X - g.Left)
	g.Ry = math.Abs(p.Y - g.Top)
}

func (g *EllipseGeometry) bounds() Rect {
	return Rect{Left: g.Left, Top: g.Top, Width: 2 * g.Rx, Height: 2 * g.Ry}
}

func (g *EllipseGeometry) center() Point {
	return Point{g.Left + g.Rx, g.Top + g.Ry}
}

func (g *EllipseGeometry) translate(dx, dy float64) {
	g.Left += dx
	g.Top += dy
}

func (g *EllipseGeometry) clone() geometry {
	c := *g
	return &c
}

func (g *EllipseGeometry) finite() bool {
	return allFinite(g.Left, g.Top, g.Rx, g.Ry)
}

// LineGeometry keeps its first endpoint fixed; the second follows the drag.
type LineGeometry struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (g *LineGeometry) init(p Point) {
	*g = LineGeometry{X1: p.X, Y1: p.Y, X2: p.X, Y2: p.Y}
}

func (g *LineGeometry) grow(p Point) {
	g.X2, g.Y2 = p.X, p.Y
}

func (g *LineGeometry) bounds() Rect {
	return boundsOf([]Point{{g.X1, g.Y1}, {g.X2, g.Y2}})
}

func (g *LineGeometry) length() float64 {
	return math.Hypot(g.X2-g.X1, g.Y2-g.Y1)
}

func (g *LineGeometry) translate(dx, dy float64) {
	g.X1 += dx
	g.Y1 += dy
	g.X2 += dx
	g.Y2 += dy
}

func (g *LineGeometry) clone() geometry {
	c := *g
	return &c
}

func (g *LineGeometry) finite() bool {
	return allFinite(g.X1, g.Y1, g.X2, g.Y2)
}

const defaultText = "Enter Text"

type TextGeometry struct {
	Left        float64 `json:"left"`
	Top         float64 `json:"top"`
	Text        string  `json:"text"`
	FontFamily  string  `json:"fontFamily"`
	FontSize    float64 `json:"fontSize"`
	FontWeight  string  `json:"fontWeight"`
	FontStyle   string  `json:"fontStyle"`
	TextAlign   string  `json:"textAlign"`
	Underline   bool    `json:"underline"`
	Overline    bool    `json:"overline"`
	Linethrough bool    `json:"linethrough"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
}

func newTextGeometry() *TextGeometry {
	return &TextGeometry{
		Text:       defaultText,
		FontFamily: "Arial",
		FontSize:   20,
		FontWeight: "normal",
		FontStyle:  "normal",
		TextAlign:  "left",
	}
}

func (g *TextGeometry) init(p Point) {
	g.Left, g.Top = p.X, p.Y
	g.measure()
}

// Text does not resize while dragging.
func (g *TextGeometry) grow(Point) {}

func (g *TextGeometry) measure() {
	g.Width, g.Height = measureText(g.Text, g.FontSize)
}

func (g *TextGeometry) bounds() Rect {
	return Rect{Left: g.Left, Top: g.Top, Width: g.Width, Height: g.Height}
}

func (g *TextGeometry) translate(dx, dy float64) {
	g.Left += dx
	g.Top += dy
}

func (g *TextGeometry) clone() geometry {
	c := *g
	return &c
}

func (g *TextGeometry) finite() bool {
	return allFinite(g.Left, g.Top, g.FontSize, g.Width, g.Height)
}

func applyTextTransform(text, transform string) string {
	switch transform {
	case "uppercase":
		return strings.ToUpper(text)
	case "lowercase":
		return strings.ToLower(text)
	case "capitalize":
		var b strings.Builder
		prev := ' '
		for _, r := range text {
			if isWordRune(r) && !isWordRune(prev) {
				b.WriteRune(unicode.ToUpper(r))
			} else {
				b.WriteRune(r)
			}
			prev = r
		}
		return b.String()
	}
	return text
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
