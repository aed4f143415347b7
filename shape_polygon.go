package main

const (
	defaultHatchColor     = "#000000"
	defaultHatchThickness = 1.0
	minPolygonPoints      = 3
	minPolylinePoints     = 2
)

// PolyGeometry backs both polygons and polylines. Points are committed
// vertices; Live tracks the cursor between clicks and is never a vertex
// until committed.
type PolyGeometry struct {
	Points         []Point `json:"points"`
	Live           *Point  `json:"live,omitempty"`
	Closed         bool    `json:"closed"`
	Finished       bool    `json:"finished"`
	HatchColor     string  `json:"hatchColor"`
	HatchThickness float64 `json:"hatchThickness"`
}

func (g *PolyGeometry) init(p Point) {
	g.Points = []Point{p}
	g.Live = nil
	g.Closed = false
	g.Finished = false
}

func (g *PolyGeometry) grow(p Point) {
	if g.frozen() {
		return
	}
	g.Live = &p
}

func (g *PolyGeometry) frozen() bool {
	return g.Closed || g.Finished
}

// addPoint commits a vertex. A click on the last vertex is not a new one.
func (g *PolyGeometry) addPoint(p Point) bool {
	if g.frozen() {
		return false
	}
	if n := len(g.Points); n > 0 && g.Points[n-1] == p {
		g.Live = nil
		return false
	}
	g.Points = append(g.Points, p)
	g.Live = nil
	return true
}

// candidate is the vertex list a commit would produce.
func (g *PolyGeometry) candidate() []Point {
	pts := append([]Point(nil), g.Points...)
	if g.Live != nil && (len(pts) == 0 || pts[len(pts)-1] != *g.Live) {
		pts = append(pts, *g.Live)
	}
	return pts
}

func (g *PolyGeometry) commit(need int) bool {
	if g.frozen() {
		return false
	}
	pts := g.candidate()
	if len(pts) < need {
		return false
	}
	g.Points = pts
	g.Live = nil
	return true
}

func (g *PolyGeometry) close() bool {
	if !g.commit(minPolygonPoints) {
		return false
	}
	g.Closed = true
	return true
}

func (g *PolyGeometry) finish() bool {
	if !g.commit(minPolylinePoints) {
		return false
	}
	g.Finished = true
	return true
}

func (g *PolyGeometry) moveVertex(i int, p Point) bool {
	if i < 0 || i >= len(g.Points) {
		return false
	}
	g.Points[i] = p
	return true
}

// insertAfterEdge adds a vertex between vertex i and i+1 (wrapping).
func (g *PolyGeometry) insertAfterEdge(i int, p Point) bool {
	if i < 0 || i >= len(g.Points) {
		return false
	}
	g.Points = append(g.Points, Point{})
	copy(g.Points[i+2:], g.Points[i+1:])
	g.Points[i+1] = p
	return true
}

// nudgeEdge moves both endpoints of edge i by a quarter of the drag delta.
func (g *PolyGeometry) nudgeEdge(i int, dx, dy float64) bool {
	n := len(g.Points)
	if i < 0 || i >= n || n < 2 {
		return false
	}
	j := (i + 1) % n
	g.Points[i] = g.Points[i].Add(dx/4, dy/4)
	g.Points[j] = g.Points[j].Add(dx/4, dy/4)
	return true
}

// EdgeMidpoints are the positions of the per-edge insert handles.
func (g *PolyGeometry) EdgeMidpoints() []Point {
	n := len(g.Points)
	if n < 2 {
		return nil
	}
	mids := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		if !g.Closed && i == n-1 {
			break
		}
		a, b := g.Points[i], g.Points[(i+1)%n]
		mids = append(mids, Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2})
	}
	return mids
}

func (g *PolyGeometry) bounds() Rect {
	return boundsOf(g.candidate())
}

func (g *PolyGeometry) translate(dx, dy float64) {
	for i := range g.Points {
		g.Points[i] = g.Points[i].Add(dx, dy)
	}
	if g.Live != nil {
		p := g.Live.Add(dx, dy)
		g.Live = &p
	}
}

func (g *PolyGeometry) clone() geometry {
	c := *g
	c.Points = append([]Point(nil), g.Points...)
	if g.Live != nil {
		p := *g.Live
		c.Live = &p
	}
	return &c
}

func (g *PolyGeometry) finite() bool {
	for _, p := range g.Points {
		if !p.finite() {
			return false
		}
	}
	if g.Live != nil && !g.Live.finite() {
		return false
	}
	return isFinite(g.HatchThickness)
}

func (s *Shape) poly() (*PolyGeometry, bool) {
	g, ok := s.geom.(*PolyGeometry)
	return g, ok
}

// AddPoint commits a vertex on an open polygon or polyline.
func (s *Shape) AddPoint(x, y float64) (bool, error) {
	if !s.initialized {
		return false, ErrUninitialized
	}
	g, ok := s.poly()
	if !ok {
		return false, nil
	}
	if !allFinite(x, y) {
		return false, ErrNonFinite
	}
	added := g.addPoint(Point{x, y})
	s.applyHatch()
	s.touch()
	return added, nil
}

// ClosePolygon turns an open polygon into a closed, hatch-filled one. With
// fewer than three vertices the request is ignored.
func (s *Shape) ClosePolygon() bool {
	g, ok := s.poly()
	if !ok || !s.initialized || s.kind != KindPolygon {
		return false
	}
	if !g.close() {
		return false
	}
	s.applyHatch()
	s.touch()
	return true
}

// FinishPolyline freezes an open polyline with at least two vertices.
func (s *Shape) FinishPolyline() bool {
	g, ok := s.poly()
	if !ok || !s.initialized || s.kind != KindPolyline {
		return false
	}
	if !g.finish() {
		return false
	}
	s.touch()
	return true
}

func (s *Shape) MoveVertex(i int, x, y float64) bool {
	g, ok := s.poly()
	if !ok || !allFinite(x, y) || !g.moveVertex(i, Point{x, y}) {
		return false
	}
	s.applyHatch()
	s.touch()
	return true
}

func (s *Shape) InsertVertex(edge int, x, y float64) bool {
	g, ok := s.poly()
	if !ok || !allFinite(x, y) || !g.insertAfterEdge(edge, Point{x, y}) {
		return false
	}
	s.applyHatch()
	s.touch()
	return true
}

func (s *Shape) NudgeEdge(edge int, dx, dy float64) bool {
	g, ok := s.poly()
	if !ok || !allFinite(dx, dy) || !g.nudgeEdge(edge, dx, dy) {
		return false
	}
	s.applyHatch()
	s.touch()
	return true
}

// applyHatch regenerates the hatch tile on the handle. Only polygons carry
// a hatch fill.
func (s *Shape) applyHatch() {
	g, ok := s.poly()
	if !ok || s.kind != KindPolygon || s.handle == nil {
		return
	}
	s.handle.Pattern = hatchTile(g.HatchColor, g.HatchThickness)
	s.handle.patternRev++
}
