package main

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Add(dx, dy float64) Point {
	return Point{p.X + dx, p.Y + dy}
}

func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

func (p Point) finite() bool {
	return isFinite(p.X) && isFinite(p.Y)
}

// Rect is an axis-aligned bounding box in world units.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Right() float64  { return r.Left + r.Width }
func (r Rect) Bottom() float64 { return r.Top + r.Height }

func (r Rect) Empty() bool {
	return r.Width <= 0 && r.Height <= 0
}

// Union returns the smallest rect covering both. A zero Rect is not treated
// specially; callers start from the first real bound.
func (r Rect) Union(o Rect) Rect {
	left := math.Min(r.Left, o.Left)
	top := math.Min(r.Top, o.Top)
	right := math.Max(r.Right(), o.Right())
	bottom := math.Max(r.Bottom(), o.Bottom())
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right() && p.Y >= r.Top && p.Y <= r.Bottom()
}

func boundsOf(points []Point) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func allFinite(vals ...float64) bool {
	for _, v := range vals {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// quadPoint evaluates a quadratic Bezier at t.
func quadPoint(start, control, end Point, t float64) Point {
	mt := 1 - t
	return Point{
		X: mt*mt*start.X + 2*mt*t*control.X + t*t*end.X,
		Y: mt*mt*start.Y + 2*mt*t*control.Y + t*t*end.Y,
	}
}

// controlFromMidpoint inverts the t=0.5 Bezier formula so that the curve
// passes through mid.
func controlFromMidpoint(start, end, mid Point) Point {
	return Point{
		X: (mid.X - 0.25*start.X - 0.25*end.X) / 0.5,
		Y: (mid.Y - 0.25*start.Y - 0.25*end.Y) / 0.5,
	}
}

func roundTo(f float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(f*p) / p
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
