package main

import (
	"fmt"
	"math"
)

const angleLabelOffset = 40.0

// AngleGeometry measures the angle at Vertex from End1 to End2.
type AngleGeometry struct {
	Vertex    Point   `json:"vertex"`
	End1      Point   `json:"end1"`
	End2      Point   `json:"end2"`
	Degrees   float64 `json:"degrees"`
	Label     Point   `json:"label"`
	LabelText string  `json:"labelText"`
}

func (g *AngleGeometry) init(p Point) {
	g.Vertex, g.End1, g.End2 = p, p, p
	g.update()
}

// grow drags the first arm; the second arm is seeded perpendicular to it at
// half its length.
func (g *AngleGeometry) grow(p Point) {
	g.End1 = p
	dx, dy := g.End1.X-g.Vertex.X, g.End1.Y-g.Vertex.Y
	if math.Hypot(dx, dy) > 0 {
		g.End2 = Point{g.Vertex.X - dy*0.5, g.Vertex.Y + dx*0.5}
	}
	g.update()
}

func (g *AngleGeometry) update() {
	v1 := g.End1.Sub(g.Vertex)
	v2 := g.End2.Sub(g.Vertex)
	dot := v1.X*v2.X + v1.Y*v2.Y
	det := v1.X*v2.Y - v1.Y*v2.X
	deg := math.Atan2(det, dot) * 180 / math.Pi
	if deg < 0 {
		deg += 360
	}
	deg = roundTo(deg, 1)
	if deg >= 360 {
		deg -= 360
	}
	g.Degrees = deg

	mid := (math.Atan2(v1.Y, v1.X) + math.Atan2(v2.Y, v2.X)) / 2
	g.Label = Point{
		X: g.Vertex.X + angleLabelOffset*math.Cos(mid),
		Y: g.Vertex.Y + angleLabelOffset*math.Sin(mid),
	}
	g.LabelText = fmt.Sprintf("%.1f°", g.Degrees)
}

func (g *AngleGeometry) bounds() Rect {
	return boundsOf([]Point{g.Vertex, g.End1, g.End2})
}

func (g *AngleGeometry) translate(dx, dy float64) {
	g.Vertex = g.Vertex.Add(dx, dy)
	g.End1 = g.End1.Add(dx, dy)
	g.End2 = g.End2.Add(dx, dy)
	g.Label = g.Label.Add(dx, dy)
}

func (g *AngleGeometry) clone() geometry {
	c := *g
	return &c
}

func (g *AngleGeometry) finite() bool {
	return g.Vertex.finite() && g.End1.finite() && g.End2.finite() && isFinite(g.Degrees)
}
