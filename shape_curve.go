package main

import "math"

// CurveGeometry is a quadratic Bezier from Start to End through Control.
type CurveGeometry struct {
	Start   Point `json:"start"`
	Control Point `json:"control"`
	End     Point `json:"end"`
}

func (g *CurveGeometry) init(p Point) {
	*g = CurveGeometry{Start: p, Control: p, End: p}
}

// grow places the control point perpendicular-ish to the chord: straight
// below or above the midpoint by half the chord length, following dy.
func (g *CurveGeometry) grow(p Point) {
	g.End = p
	mid := Point{(g.Start.X + g.End.X) / 2, (g.Start.Y + g.End.Y) / 2}
	dy := g.End.Y - g.Start.Y
	offset := g.Start.Dist(g.End) * 0.5
	if dy < 0 {
		offset = -offset
	}
	g.Control = Point{mid.X, mid.Y + offset}
}

// Midpoint is where the draggable control handle sits.
func (g *CurveGeometry) Midpoint() Point {
	return quadPoint(g.Start, g.Control, g.End, 0.5)
}

// moveHandle re-derives the control point so the curve passes through mid.
func (g *CurveGeometry) moveHandle(mid Point) {
	g.Control = controlFromMidpoint(g.Start, g.End, mid)
}

func (g *CurveGeometry) sample(n int) []Point {
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		pts = append(pts, quadPoint(g.Start, g.Control, g.End, float64(i)/float64(n)))
	}
	return pts
}

// bounds covers the curve itself, using the Bezier extremum on each axis.
func (g *CurveGeometry) bounds() Rect {
	pts := []Point{g.Start, g.End}
	for _, t := range []float64{
		quadExtremum(g.Start.X, g.Control.X, g.End.X),
		quadExtremum(g.Start.Y, g.Control.Y, g.End.Y),
	} {
		if t > 0 && t < 1 {
			pts = append(pts, quadPoint(g.Start, g.Control, g.End, t))
		}
	}
	return boundsOf(pts)
}

func quadExtremum(a, b, c float64) float64 {
	den := a - 2*b + c
	if math.Abs(den) < 1e-12 {
		return -1
	}
	return (a - b) / den
}

func (g *CurveGeometry) translate(dx, dy float64) {
	g.Start = g.Start.Add(dx, dy)
	g.Control = g.Control.Add(dx, dy)
	g.End = g.End.Add(dx, dy)
}

func (g *CurveGeometry) clone() geometry {
	c := *g
	return &c
}

func (g *CurveGeometry) finite() bool {
	return g.Start.finite() && g.Control.finite() && g.End.finite()
}
