package main

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*EditingSession, *MemorySurface) {
	t.Helper()
	surface := NewMemorySurface()
	return NewEditingSession(withTestLogger(context.Background(), t), surface), surface
}

// drag draws a single-shot shape from a to b and returns it.
func drag(t *testing.T, s *EditingSession, k Kind, a, b Point) *Shape {
	t.Helper()
	s.SelectTool(k)
	s.PointerDown(a.X, a.Y)
	s.PointerMove((a.X+b.X)/2, (a.Y+b.Y)/2)
	s.PointerMove(b.X, b.Y)
	s.PointerUp(b.X, b.Y)
	sh, ok := s.Selection().Single()
	require.True(t, ok, "drawn shape is selected")
	return sh
}

// click presses and releases at p.
func click(s *EditingSession, p Point) {
	s.PointerDown(p.X, p.Y)
	s.PointerUp(p.X, p.Y)
}

func TestNewSessionHasOneEmptyEntry(t *testing.T) {
	s, _ := newTestSession(t)
	assert.Equal(t, 1, s.History().Len())
	assert.Equal(t, 0, s.History().Index())
	assert.Equal(t, StateIdle, s.State())
	assert.False(t, s.Undo())
}

func TestDrawRectangle(t *testing.T) {
	s, surface := newTestSession(t)

	s.SelectTool(KindRectangle)
	assert.Equal(t, StateToolArmed, s.State())
	s.PointerDown(10, 10)
	assert.Equal(t, StateDrawing, s.State())
	assert.Equal(t, 1, s.History().Len(), "pointer-down records nothing")
	s.PointerMove(50, 30)
	s.PointerUp(50, 30)

	assert.Equal(t, StateIdle, s.State())
	assert.Equal(t, NoTool, s.Tool())
	assert.Equal(t, 2, s.History().Len())

	sh, ok := s.Selection().Single()
	require.True(t, ok)
	assert.Equal(t, Rect{Left: 10, Top: 10, Width: 40, Height: 20}, sh.Bounds())
	require.Len(t, surface.Objects(), 1)
	assert.Equal(t, "rect", surface.Objects()[0].Type)
	assert.Equal(t, []*Handle{sh.Handle()}, surface.Active())
}

func TestSelectToolAbandonsShapeInProgress(t *testing.T) {
	s, surface := newTestSession(t)
	s.SelectTool(KindPolygon)
	click(s, Point{0, 0})
	click(s, Point{10, 0})

	s.SelectTool(KindCircle)
	assert.Equal(t, StateToolArmed, s.State())
	assert.Nil(t, s.Current())
	assert.Len(t, surface.Objects(), 1, "abandoned shape stays on the scene")
}

func TestNonFinitePointerIsIgnored(t *testing.T) {
	s, surface := newTestSession(t)
	s.SelectTool(KindRectangle)
	s.PointerDown(math.NaN(), 0)
	assert.Equal(t, StateToolArmed, s.State())
	assert.Empty(t, surface.Objects())
}

func TestUndoRedoKeepsIdentity(t *testing.T) {
	s, surface := newTestSession(t)
	sh := drag(t, s, KindCircle, Point{0, 0}, Point{30, 40})
	id := sh.ID()
	rec := sh.Record()

	require.True(t, s.Undo())
	assert.Empty(t, surface.Objects())
	assert.Zero(t, s.Registry().Len())
	assert.Equal(t, SelectionNone, s.Selection().Mode())

	require.True(t, s.Redo())
	got := s.Registry().Shape(id)
	require.NotNil(t, got)
	assert.Same(t, sh, got)
	assert.Equal(t, rec, got.Record())
	h := s.Registry().HandleOf(id)
	require.NotNil(t, h)
	gotID, ok := s.Registry().IDOf(h)
	assert.True(t, ok)
	assert.Equal(t, id, gotID)

	assert.False(t, s.Redo(), "redo at the end is a no-op")
}

func TestEditAfterUndoDropsRedoBranch(t *testing.T) {
	s, _ := newTestSession(t)
	drag(t, s, KindRectangle, Point{0, 0}, Point{10, 10})
	drag(t, s, KindRectangle, Point{20, 0}, Point{30, 10})
	require.True(t, s.Undo())

	drag(t, s, KindEllipse, Point{50, 50}, Point{60, 60})
	assert.Equal(t, 3, s.History().Len())
	assert.False(t, s.Redo())
	assert.Equal(t, 2, s.Registry().Len())
}

func TestDeleteSelection(t *testing.T) {
	s, surface := newTestSession(t)
	a := drag(t, s, KindRectangle, Point{0, 0}, Point{10, 10})
	drag(t, s, KindRectangle, Point{20, 0}, Point{30, 10})

	s.Selection().Set(a.ID())
	require.True(t, s.Delete())
	assert.Len(t, surface.Objects(), 1)
	assert.Nil(t, s.Registry().Shape(a.ID()))
	assert.Equal(t, SelectionNone, s.Selection().Mode())
	assert.Equal(t, 4, s.History().Len())

	assert.False(t, s.Delete(), "nothing selected")

	require.True(t, s.Undo())
	assert.Same(t, a, s.Registry().Shape(a.ID()), "undo brings the deleted shape back")
}

func TestCloneOffsetsCopy(t *testing.T) {
	s, surface := newTestSession(t)
	orig := drag(t, s, KindEllipse, Point{10, 10}, Point{40, 30})

	require.True(t, s.Clone())
	c, ok := s.Selection().Single()
	require.True(t, ok)
	assert.NotEqual(t, orig.ID(), c.ID())
	assert.Equal(t, orig.Bounds().Left+10, c.Bounds().Left)
	assert.Equal(t, orig.Bounds().Top+10, c.Bounds().Top)
	assert.Len(t, surface.Objects(), 2)
	assert.Equal(t, 3, s.History().Len())
}

func TestMoveSelection(t *testing.T) {
	s, _ := newTestSession(t)
	sh := drag(t, s, KindLine, Point{0, 0}, Point{10, 10})

	require.True(t, s.MoveSelection(5, -5))
	assert.Equal(t, Rect{Left: 5, Top: -5, Width: 10, Height: 10}, sh.Bounds())
	assert.Equal(t, 3, s.History().Len())

	assert.False(t, s.MoveSelection(0, 0))
	assert.False(t, s.MoveSelection(math.Inf(1), 0))
}

func TestPointerDragMovesShape(t *testing.T) {
	s, _ := newTestSession(t)
	sh := drag(t, s, KindRectangle, Point{0, 0}, Point{20, 20})
	before := s.History().Len()

	s.PointerDown(10, 10)
	s.PointerMove(15, 10)
	s.PointerUp(20, 12)
	assert.Equal(t, Rect{Left: 10, Top: 2, Width: 20, Height: 20}, sh.Bounds())
	assert.Equal(t, before+1, s.History().Len(), "one entry per drag")

	s.PointerDown(15, 15)
	s.PointerUp(15, 15)
	assert.Equal(t, before+1, s.History().Len(), "a click without motion records nothing")
}

func TestSelectAtTogglesWithAdd(t *testing.T) {
	s, _ := newTestSession(t)
	a := drag(t, s, KindRectangle, Point{0, 0}, Point{10, 10})
	b := drag(t, s, KindRectangle, Point{100, 0}, Point{110, 10})

	s.SelectAt(Point{5, 5}, false)
	assert.Equal(t, []string{a.ID()}, s.Selection().IDs())
	s.SelectAt(Point{105, 5}, true)
	assert.Equal(t, []string{a.ID(), b.ID()}, s.Selection().IDs())
	assert.Equal(t, SelectionGrouped, s.Selection().Mode())
	s.SelectAt(Point{5, 5}, true)
	assert.Equal(t, []string{b.ID()}, s.Selection().IDs())
	s.SelectAt(Point{500, 500}, false)
	assert.Empty(t, s.Selection().IDs())
}

func TestApplyPropertyChanges(t *testing.T) {
	s, _ := newTestSession(t)
	sh := drag(t, s, KindRectangle, Point{0, 0}, Point{10, 10})

	require.True(t, s.ApplyPropertyChanges(Patch{Width: F(50), Fill: S("not-a-color")}))
	assert.Equal(t, 50.0, sh.Bounds().Width, "valid fields still apply")
	assert.Equal(t, "rgba(0,0,200,0.5)", sh.Style().Fill)
	assert.Equal(t, 3, s.History().Len())

	s.Selection().Clear()
	assert.False(t, s.ApplyPropertyChanges(Patch{Width: F(5)}))
}

func TestReset(t *testing.T) {
	s, surface := newTestSession(t)
	drag(t, s, KindRectangle, Point{0, 0}, Point{10, 10})
	s.Reset()
	assert.Empty(t, surface.Objects())
	assert.Zero(t, s.Registry().Len())
	assert.Equal(t, 1, s.History().Len())
	assert.False(t, s.Undo())
}

func TestCycleSelection(t *testing.T) {
	s, _ := newTestSession(t)
	a := drag(t, s, KindRectangle, Point{0, 0}, Point{10, 10})
	b := drag(t, s, KindCircle, Point{50, 0}, Point{60, 0})

	s.Selection().Clear()
	s.CycleSelection()
	assert.Equal(t, []string{a.ID()}, s.Selection().IDs())
	s.CycleSelection()
	assert.Equal(t, []string{b.ID()}, s.Selection().IDs())
	s.CycleSelection()
	assert.Equal(t, []string{a.ID()}, s.Selection().IDs())
}

func TestLoadSceneKeepsSavedIDs(t *testing.T) {
	s, _ := newTestSession(t)
	a := drag(t, s, KindRectangle, Point{0, 0}, Point{10, 10})
	snap := s.Snapshot()

	other, surface := newTestSession(t)
	other.LoadScene(snap)
	got := other.Registry().Shape(a.ID())
	require.NotNil(t, got)
	assert.Equal(t, a.Record(), got.Record())
	assert.Len(t, surface.Objects(), 1)
	assert.Equal(t, 1, other.History().Len())
}

func TestSkewForAngle(t *testing.T) {
	assert.InDelta(t, 100, skewForAngle(45), 1e-9)
	assert.InDelta(t, 0, skewForAngle(0), 1e-9)
}
