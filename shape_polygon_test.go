package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawPolygon(t *testing.T, s *EditingSession, pts ...Point) *Shape {
	t.Helper()
	s.SelectTool(KindPolygon)
	for _, p := range pts {
		click(s, p)
	}
	sh := s.Current()
	require.NotNil(t, sh)
	s.Finish()
	return sh
}

func TestPolygonClosesAfterThreeClicks(t *testing.T) {
	s, surface := newTestSession(t)
	sh := drawPolygon(t, s, Point{0, 0}, Point{10, 0}, Point{10, 10})

	g, ok := sh.poly()
	require.True(t, ok)
	assert.True(t, g.Closed)
	assert.Equal(t, []Point{{0, 0}, {10, 0}, {10, 10}}, g.Points)
	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, 2, s.History().Len())

	require.Len(t, surface.Objects(), 1)
	h := surface.Objects()[0]
	assert.Same(t, sh.Handle(), h)
	assert.Same(t, h, s.Registry().HandleOf(sh.ID()))
	assert.Equal(t, "polygon", h.Type)
	assert.NotNil(t, h.Pattern)
}

func TestPolygonCloseNeedsThreePoints(t *testing.T) {
	s, surface := newTestSession(t)
	s.SelectTool(KindPolygon)
	click(s, Point{0, 0})
	click(s, Point{10, 0})
	click(s, Point{10, 0})

	s.Finish()
	assert.Equal(t, StateDrawing, s.State())
	assert.Equal(t, 1, s.History().Len())
	require.Len(t, surface.Objects(), 1)
	assert.Equal(t, "polyline", surface.Objects()[0].Type, "open polygons show as polylines")
	g, _ := s.Current().poly()
	assert.Len(t, g.Points, 2, "repeated click is not a vertex")
}

func TestPolygonCloseCommitsLivePoint(t *testing.T) {
	s, _ := newTestSession(t)
	s.SelectTool(KindPolygon)
	click(s, Point{0, 0})
	click(s, Point{10, 0})
	s.PointerMove(5, 10)

	sh := s.Current()
	assert.Equal(t, Rect{Left: 0, Top: 0, Width: 10, Height: 10}, sh.Bounds(), "live point counts toward bounds")
	s.DoubleClick()

	g, _ := sh.poly()
	assert.True(t, g.Closed)
	assert.Nil(t, g.Live)
	assert.Equal(t, []Point{{0, 0}, {10, 0}, {5, 10}}, g.Points)
}

func TestPolylineFinish(t *testing.T) {
	s, _ := newTestSession(t)
	s.SelectTool(KindPolyline)
	click(s, Point{0, 0})
	sh := s.Current()
	s.DoubleClick()
	assert.Equal(t, StateDrawing, s.State(), "one vertex is not a polyline")

	click(s, Point{30, 0})
	s.DoubleClick()
	g, _ := sh.poly()
	assert.True(t, g.Finished)
	assert.False(t, g.Closed)
	assert.Nil(t, sh.Handle().Pattern)
	assert.Equal(t, 2, s.History().Len())

	_, err := sh.AddPoint(40, 40)
	require.NoError(t, err)
	assert.Len(t, g.Points, 2, "finished polylines are frozen")
}

func TestDragVertex(t *testing.T) {
	s, _ := newTestSession(t)
	sh := drawPolygon(t, s, Point{0, 0}, Point{10, 0}, Point{10, 10})
	rev := sh.Handle().patternRev

	require.True(t, s.DragVertex(Point{9, 9}, Point{20, 20}))
	g, _ := sh.poly()
	assert.Equal(t, Point{20, 20}, g.Points[2])
	assert.Equal(t, 3, s.History().Len())
	assert.Greater(t, sh.Handle().patternRev, rev, "hatch is regenerated")
}

func TestSplitEdge(t *testing.T) {
	s, _ := newTestSession(t)
	sh := drawPolygon(t, s, Point{0, 0}, Point{10, 0}, Point{10, 10})

	require.True(t, s.SplitEdge(Point{5, -3}))
	g, _ := sh.poly()
	assert.Equal(t, []Point{{0, 0}, {5, -3}, {10, 0}, {10, 10}}, g.Points)

	require.True(t, s.SplitEdge(Point{4, 6}))
	assert.Equal(t, Point{4, 6}, g.Points[4], "closing edge inserts at the end")
}

func TestDragEdgeMovesQuarterDelta(t *testing.T) {
	s, _ := newTestSession(t)
	sh := drawPolygon(t, s, Point{0, 0}, Point{10, 0}, Point{10, 10})

	require.True(t, s.DragEdge(Point{5, 0}, 0, 8))
	g, _ := sh.poly()
	assert.Equal(t, []Point{{0, 2}, {10, 2}, {10, 10}}, g.Points)
}

func TestVertexEditingNeedsPolygon(t *testing.T) {
	s, _ := newTestSession(t)
	drag(t, s, KindRectangle, Point{0, 0}, Point{10, 10})
	assert.False(t, s.DragVertex(Point{0, 0}, Point{1, 1}))
	assert.False(t, s.SplitEdge(Point{0, 0}))
	assert.False(t, s.DragEdge(Point{0, 0}, 1, 1))
	assert.Equal(t, 2, s.History().Len())
}

func TestPolygonSurvivesUndoRedo(t *testing.T) {
	s, _ := newTestSession(t)
	sh := drawPolygon(t, s, Point{0, 0}, Point{10, 0}, Point{10, 10})
	require.True(t, s.DragVertex(Point{10, 10}, Point{0, 10}))

	require.True(t, s.Undo())
	g, _ := sh.poly()
	assert.Equal(t, Point{10, 10}, g.Points[2])
	assert.True(t, g.Closed)
	assert.NotNil(t, sh.Handle().Pattern)

	require.True(t, s.Redo())
	g, _ = sh.poly()
	assert.Equal(t, Point{0, 10}, g.Points[2])
}
