package main

import (
	"math"
	"strings"
)

// Viewport maps world units onto terminal cells.
type Viewport struct {
	Cols, Rows   int
	CellW, CellH float64
	PanX, PanY   float64
}

func (v Viewport) toCell(p Point) (int, int) {
	return int(math.Floor((p.X - v.PanX) / v.CellW)), int(math.Floor((p.Y - v.PanY) / v.CellH))
}

// toWorld returns the world point at the centre of a cell.
func (v Viewport) toWorld(col, row int) Point {
	return Point{
		X: v.PanX + (float64(col)+0.5)*v.CellW,
		Y: v.PanY + (float64(row)+0.5)*v.CellH,
	}
}

type cell struct {
	r        rune
	color    string
	selected bool
}

// grid is one rendered frame.
type grid struct {
	v     Viewport
	cells [][]cell

	// per-handle drawing state
	color    string
	selected bool
	xf       func(Point) Point
}

func newGrid(v Viewport) *grid {
	g := &grid{v: v, cells: make([][]cell, v.Rows)}
	for i := range g.cells {
		g.cells[i] = make([]cell, v.Cols)
		for j := range g.cells[i] {
			g.cells[i][j].r = ' '
		}
	}
	return g
}

func (g *grid) set(col, row int, r rune) {
	if row < 0 || row >= len(g.cells) || col < 0 || col >= len(g.cells[row]) {
		return
	}
	g.cells[row][col] = cell{r: r, color: g.color, selected: g.selected}
}

func (g *grid) plot(p Point, r rune) {
	col, row := g.v.toCell(g.xf(p))
	g.set(col, row, r)
}

func lineRune(dx, dy float64) rune {
	adx, ady := math.Abs(dx), math.Abs(dy)
	switch {
	case ady <= adx*0.4:
		return '─'
	case adx <= ady*0.4:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	}
	return '╱'
}

// line samples a world segment at half-cell steps.
func (g *grid) line(a, b Point) {
	ta, tb := g.xf(a), g.xf(b)
	r := lineRune((tb.X-ta.X)/g.v.CellW, (tb.Y-ta.Y)/g.v.CellH)
	g.polyline([]Point{a, b}, r)
}

func (g *grid) polyline(pts []Point, r rune) {
	step := math.Min(g.v.CellW, g.v.CellH) / 2
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		n := int(math.Ceil(a.Dist(b)/step)) + 1
		for k := 0; k <= n; k++ {
			t := float64(k) / float64(n)
			g.plot(Point{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}, r)
		}
	}
	if len(pts) == 1 {
		g.plot(pts[0], r)
	}
}

func (g *grid) ellipse(c Point, rx, ry float64, r rune) {
	circ := 2 * math.Pi * math.Max(rx, ry)
	n := int(math.Max(8, circ/(math.Min(g.v.CellW, g.v.CellH)/2)))
	for k := 0; k < n; k++ {
		a := 2 * math.Pi * float64(k) / float64(n)
		g.plot(Point{c.X + rx*math.Cos(a), c.Y + ry*math.Sin(a)}, r)
	}
}

func (g *grid) text(p Point, s string) {
	col, row := g.v.toCell(g.xf(p))
	for i, line := range strings.Split(s, "\n") {
		c := col
		for _, r := range line {
			g.set(c, row+i, r)
			c++
		}
	}
}

// hatch marks cells whose centres fall inside the closed polygon.
func (g *grid) hatch(pts []Point) {
	tp := transformAll(pts, g.xf)
	for row := range g.cells {
		for col := range g.cells[row] {
			if g.cells[row][col].r != ' ' {
				continue
			}
			if pointInPolygon(g.v.toWorld(col, row), tp) && (col+row)%2 == 0 {
				g.set(col, row, '╲')
			}
		}
	}
}

func transformAll(pts []Point, f func(Point) Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = f(p)
	}
	return out
}

func pointInPolygon(p Point, pts []Point) bool {
	in := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// transformOf rotates and skews about the centre of the bounds.
func transformOf(rec ShapeRecord, b Rect) func(Point) Point {
	xf := rec.Transform
	if xf.Angle == 0 && xf.SkewX == 0 {
		return func(p Point) Point { return p }
	}
	cx, cy := b.Left+b.Width/2, b.Top+b.Height/2
	sin, cos := math.Sincos(xf.Angle * math.Pi / 180)
	shear := shearFactor(xf.SkewX)
	return func(p Point) Point {
		x, y := p.X-cx, p.Y-cy
		x += shear * y
		return Point{cx + x*cos - y*sin, cy + x*sin + y*cos}
	}
}

// renderScene rasterizes the surface into terminal cells. Handles in the
// active set are marked selected.
func renderScene(surface Surface, v Viewport) *grid {
	g := newGrid(v)
	active := map[*Handle]bool{}
	for _, h := range surface.Active() {
		active[h] = true
		for _, m := range h.Members {
			active[m] = true
		}
	}
	for _, h := range surface.Objects() {
		g.handle(h, active)
	}
	return g
}

func (g *grid) handle(h *Handle, active map[*Handle]bool) {
	if h.isGroup() {
		for _, m := range h.Members {
			g.selected = active[h] || active[m]
			g.handle(m, active)
		}
		return
	}
	rec := h.Shape
	geo := rec.geometry()
	if geo == nil {
		return
	}
	g.selected = g.selected || active[h]
	defer func() { g.selected = false }()
	g.color = blendOver(rec.Style.Stroke, defaultBackground)
	g.xf = transformOf(rec, geo.bounds())

	switch {
	case rec.Box != nil && rec.Type == KindTriangle.String():
		pts := rec.Box.trianglePoints()
		g.line(pts[0], pts[1])
		g.line(pts[1], pts[2])
		g.line(pts[2], pts[0])
	case rec.Box != nil:
		g.box(rec.Box)
	case rec.Circle != nil:
		g.ellipse(rec.Circle.center(), rec.Circle.Radius, rec.Circle.Radius, 'o')
	case rec.Ellipse != nil:
		g.ellipse(rec.Ellipse.center(), rec.Ellipse.Rx, rec.Ellipse.Ry, 'o')
	case rec.Line != nil:
		g.line(Point{rec.Line.X1, rec.Line.Y1}, Point{rec.Line.X2, rec.Line.Y2})
	case rec.Curve != nil:
		g.polyline(rec.Curve.sample(32), '·')
		if g.selected {
			g.plot(rec.Curve.Midpoint(), '◆')
		}
	case rec.Text != nil:
		g.color = blendOver(rec.Style.Fill, defaultBackground)
		g.text(Point{rec.Text.Left, rec.Text.Top}, rec.Text.Text)
	case rec.Poly != nil:
		g.poly(h, rec.Poly)
	case rec.Chain != nil:
		for _, s := range rec.Chain.WorldSegments() {
			g.line(s.A, s.B)
		}
		for _, n := range rec.Chain.WorldNodes() {
			g.ellipse(n, rec.Chain.Rx, rec.Chain.Ry, 'o')
		}
	case rec.Angle != nil:
		a := rec.Angle
		g.line(a.Vertex, a.End1)
		g.line(a.Vertex, a.End2)
		g.text(a.Label, a.LabelText)
	}
}

func (g *grid) box(b *BoxGeometry) {
	tl := Point{b.Left, b.Top}
	tr := Point{b.Left + b.Width, b.Top}
	br := Point{b.Left + b.Width, b.Top + b.Height}
	bl := Point{b.Left, b.Top + b.Height}
	g.line(tl, tr)
	g.line(bl, br)
	g.line(tl, bl)
	g.line(tr, br)
	g.plot(tl, '┌')
	g.plot(tr, '┐')
	g.plot(bl, '└')
	g.plot(br, '┘')
}

func (g *grid) poly(h *Handle, p *PolyGeometry) {
	pts := p.Points
	if p.Live != nil {
		pts = p.candidate()
	}
	for i := 1; i < len(pts); i++ {
		g.line(pts[i-1], pts[i])
	}
	if p.Closed && len(pts) > 2 {
		g.line(pts[len(pts)-1], pts[0])
		if h.Pattern != nil {
			stroke := g.color
			g.color = blendOver(p.HatchColor, defaultBackground)
			g.hatch(pts)
			g.color = stroke
		}
	}
	for _, v := range p.Points {
		g.plot(v, '•')
	}
}

// Lines returns the frame as plain text.
func (g *grid) Lines() []string {
	out := make([]string, len(g.cells))
	for i, row := range g.cells {
		var b strings.Builder
		for _, c := range row {
			b.WriteRune(c.r)
		}
		out[i] = strings.TrimRight(b.String(), " ")
	}
	return out
}
