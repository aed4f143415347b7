package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderRequestsCoalesce(t *testing.T) {
	surface := NewMemorySurface()
	assert.False(t, surface.Flush())

	surface.RequestRender()
	surface.RequestRender()
	surface.Add(&Handle{Type: "rect"})
	assert.True(t, surface.Flush())
	assert.False(t, surface.Flush())
	assert.Equal(t, 1, surface.Frames())
}

func TestDragCoalescesIntoFrames(t *testing.T) {
	s, surface := newTestSession(t)
	surface.Flush()
	start := surface.Frames()

	s.SelectTool(KindRectangle)
	s.PointerDown(0, 0)
	for i := 1; i <= 20; i++ {
		s.PointerMove(float64(i), float64(i))
	}
	s.PointerUp(20, 20)
	surface.Flush()
	assert.Equal(t, start+1, surface.Frames())
}

func TestSurfaceReplaceKeepsSlot(t *testing.T) {
	surface := NewMemorySurface()
	a, b, c := &Handle{Type: "rect"}, &Handle{Type: "circle"}, &Handle{Type: "line"}
	surface.Add(a)
	surface.Add(b)
	surface.Add(a)
	surface.SetActive(a)

	surface.Replace(a, c)
	assert.Equal(t, []*Handle{c, b}, surface.Objects())
	assert.Equal(t, []*Handle{c}, surface.Active())

	surface.Remove(c)
	assert.Equal(t, []*Handle{b}, surface.Objects())
	assert.Empty(t, surface.Active())
}

func TestSerializeRoundTrip(t *testing.T) {
	s, surface := newTestSession(t)
	shapes := threeShapes(t, s)
	s.Selection().Set(shapes[1].ID(), shapes[2].ID())
	require.True(t, s.Group())

	snap := s.Snapshot()
	require.Len(t, snap.Objects, 2)
	assert.Equal(t, shapes[0].ID(), snap.Objects[0].ModelID)
	grp := snap.Objects[1]
	assert.Equal(t, groupType, grp.Type)
	assert.Nil(t, grp.Shape)
	require.Len(t, grp.Members, 2)
	assert.Equal(t, shapes[1].ID(), grp.Members[0].ModelID)
	assert.True(t, grp.Members[0].PrevSelectable)

	other := NewMemorySurface()
	loaded := other.Deserialize(snap)
	require.Len(t, loaded, 2)
	assert.Equal(t, shapes[0].ID(), loaded[0].ModelID)
	assert.Equal(t, shapes[0].Record(), loaded[0].Handle.Shape)
	require.Len(t, loaded[1].Members, 2)
	assert.Same(t, loaded[1].Handle.Members[0], loaded[1].Members[0].Handle)
	assert.Len(t, other.Objects(), 2)

	again := other.Serialize(func(h *Handle) string {
		for _, lh := range loaded {
			if lh.Handle == h {
				return lh.ModelID
			}
			for _, m := range lh.Members {
				if m.Handle == h {
					return m.ModelID
				}
			}
		}
		return ""
	})
	assert.Equal(t, snap, again)
	assert.Equal(t, 2, len(surface.Objects()))
}

func TestHandleBounds(t *testing.T) {
	a := NewShape(KindRectangle)
	require.NoError(t, a.Initialize(0, 0))
	require.NoError(t, a.GrowTo(10, 10))
	b := NewShape(KindRectangle)
	require.NoError(t, b.Initialize(20, 20))
	require.NoError(t, b.GrowTo(30, 40))

	g := &Handle{Type: groupType, Members: []*Handle{
		{Type: "rect", Shape: a.Record()},
		{Type: "rect", Shape: b.Record()},
	}}
	assert.Equal(t, Rect{Left: 0, Top: 0, Width: 30, Height: 40}, g.Bounds())
	assert.Equal(t, Rect{}, (&Handle{}).Bounds())
}

func TestHandleStrokeOverride(t *testing.T) {
	h := &Handle{Shape: ShapeRecord{Style: Style{StrokeWidth: 4}}}
	assert.Equal(t, 4.0, h.strokeWidth())
	h.StrokeOverride = 1
	assert.Equal(t, 1.0, h.strokeWidth())
}
