package main

import "math"

const (
	defaultChainRadius = 20.0
	defaultChainRx     = 30.0
	defaultChainRy     = 20.0
)

type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// ChainGeometry is a run of circles (Rx == Ry) or ellipses joined by
// boundary-to-boundary segments. Once frozen, Nodes and Segments are local
// to Origin and their bounding box starts at (0,0).
type ChainGeometry struct {
	Elliptic  bool      `json:"elliptic"`
	Closed    bool      `json:"closed"`
	Rx        float64   `json:"rx"`
	Ry        float64   `json:"ry"`
	LineWidth float64   `json:"lineWidth"`
	Nodes     []Point   `json:"nodes"`
	Segments  []Segment `json:"segments"`
	Origin    Point     `json:"origin"`
	Frozen    bool      `json:"frozen"`
}

func (g *ChainGeometry) init(p Point) {
	g.Nodes = []Point{p}
	g.Segments = nil
	g.Origin = Point{}
	g.Frozen = false
}

// Chains only grow by click; pointer motion leaves them alone.
func (g *ChainGeometry) grow(Point) {}

func (g *ChainGeometry) addNode(p Point) bool {
	if g.Frozen {
		return false
	}
	g.Nodes = append(g.Nodes, p)
	g.relink()
	return true
}

// link joins two node centres along the unit vector between them, starting
// and ending on the node boundaries. Coincident nodes get no segment.
func (g *ChainGeometry) link(from, to Point) (Segment, bool) {
	dx, dy := to.X-from.X, to.Y-from.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return Segment{}, false
	}
	ux, uy := dx/dist, dy/dist
	return Segment{
		A: Point{from.X + ux*g.Rx, from.Y + uy*g.Ry},
		B: Point{to.X - ux*g.Rx, to.Y - uy*g.Ry},
	}, true
}

// relink rebuilds every segment from the node list.
func (g *ChainGeometry) relink() {
	g.Segments = g.Segments[:0]
	for i := 1; i < len(g.Nodes); i++ {
		if seg, ok := g.link(g.Nodes[i-1], g.Nodes[i]); ok {
			g.Segments = append(g.Segments, seg)
		}
	}
	if g.Frozen && g.Closed && len(g.Nodes) >= 2 {
		if seg, ok := g.link(g.Nodes[len(g.Nodes)-1], g.Nodes[0]); ok {
			g.Segments = append(g.Segments, seg)
		}
	}
}

// localBounds covers node boundaries and segments in node coordinates.
func (g *ChainGeometry) localBounds() Rect {
	if len(g.Nodes) == 0 {
		return Rect{}
	}
	pts := make([]Point, 0, 2*len(g.Nodes)+2*len(g.Segments))
	for _, n := range g.Nodes {
		pts = append(pts, Point{n.X - g.Rx, n.Y - g.Ry}, Point{n.X + g.Rx, n.Y + g.Ry})
	}
	for _, s := range g.Segments {
		pts = append(pts, s.A, s.B)
	}
	return boundsOf(pts)
}

// normalize shifts local coordinates so the bounding box starts at (0,0)
// while keeping world positions.
func (g *ChainGeometry) normalize() {
	b := g.localBounds()
	if b.Left == 0 && b.Top == 0 {
		return
	}
	for i := range g.Nodes {
		g.Nodes[i] = g.Nodes[i].Add(-b.Left, -b.Top)
	}
	for i := range g.Segments {
		g.Segments[i].A = g.Segments[i].A.Add(-b.Left, -b.Top)
		g.Segments[i].B = g.Segments[i].B.Add(-b.Left, -b.Top)
	}
	g.Origin = g.Origin.Add(b.Left, b.Top)
}

// finish drops the uncommitted last node, closes the ring for closed
// variants and freezes the chain. It reports false when nothing is left.
func (g *ChainGeometry) finish() bool {
	if g.Frozen {
		return len(g.Nodes) > 0
	}
	if len(g.Nodes) > 0 {
		g.Nodes = g.Nodes[:len(g.Nodes)-1]
	}
	g.Frozen = true
	g.relink()
	if len(g.Nodes) == 0 {
		return false
	}
	g.normalize()
	return true
}

func (g *ChainGeometry) setRadii(rx, ry float64) {
	g.Rx, g.Ry = rx, ry
	g.relink()
	if g.Frozen {
		g.normalize()
	}
}

// WorldNodes returns node centres in scene coordinates.
func (g *ChainGeometry) WorldNodes() []Point {
	out := make([]Point, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = n.Add(g.Origin.X, g.Origin.Y)
	}
	return out
}

func (g *ChainGeometry) WorldSegments() []Segment {
	out := make([]Segment, len(g.Segments))
	for i, s := range g.Segments {
		out[i] = Segment{A: s.A.Add(g.Origin.X, g.Origin.Y), B: s.B.Add(g.Origin.X, g.Origin.Y)}
	}
	return out
}

func (g *ChainGeometry) bounds() Rect {
	b := g.localBounds()
	b.Left += g.Origin.X
	b.Top += g.Origin.Y
	return b
}

func (g *ChainGeometry) translate(dx, dy float64) {
	if g.Frozen {
		g.Origin = g.Origin.Add(dx, dy)
		return
	}
	for i := range g.Nodes {
		g.Nodes[i] = g.Nodes[i].Add(dx, dy)
	}
	g.relink()
}

func (g *ChainGeometry) clone() geometry {
	c := *g
	c.Nodes = append([]Point(nil), g.Nodes...)
	c.Segments = append([]Segment(nil), g.Segments...)
	return &c
}

func (g *ChainGeometry) finite() bool {
	if !allFinite(g.Rx, g.Ry, g.LineWidth) || !g.Origin.finite() {
		return false
	}
	for _, n := range g.Nodes {
		if !n.finite() {
			return false
		}
	}
	for _, s := range g.Segments {
		if !s.A.finite() || !s.B.finite() {
			return false
		}
	}
	return true
}

func (s *Shape) chain() (*ChainGeometry, bool) {
	g, ok := s.geom.(*ChainGeometry)
	return g, ok
}

// AddNode appends a chain node connected to the previous one.
func (s *Shape) AddNode(x, y float64) (bool, error) {
	if !s.initialized {
		return false, ErrUninitialized
	}
	g, ok := s.chain()
	if !ok {
		return false, nil
	}
	if !allFinite(x, y) {
		return false, ErrNonFinite
	}
	added := g.addNode(Point{x, y})
	s.touch()
	return added, nil
}

// FinishChain freezes the chain into one composite. It reports false when
// the chain ended up empty.
func (s *Shape) FinishChain() bool {
	g, ok := s.chain()
	if !ok || !s.initialized {
		return false
	}
	ok = g.finish()
	s.touch()
	return ok
}
