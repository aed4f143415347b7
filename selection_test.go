package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMultiSelectStrokeOverride(t *testing.T) {
	s, _ := newTestSession(t)
	a := drag(t, s, KindRectangle, Point{0, 0}, Point{10, 10})
	b := drag(t, s, KindRectangle, Point{20, 0}, Point{30, 10})

	s.Selection().Set(a.ID())
	require.True(t, s.ApplyPropertyChanges(Patch{StrokeWidth: F(5)}))

	s.Selection().Set(a.ID(), b.ID())
	assert.Equal(t, 1.0, a.Style().StrokeWidth)
	assert.Equal(t, 1.0, a.Handle().strokeWidth())
	assert.Equal(t, 5.0, a.Record().Style.StrokeWidth, "records keep the real width")

	s.Selection().Clear()
	assert.Equal(t, 5.0, a.Style().StrokeWidth)
	assert.Equal(t, 5.0, a.Handle().strokeWidth())
	assert.Zero(t, a.Handle().StrokeOverride)
}

func TestStrokeOverrideNotInHistory(t *testing.T) {
	s, _ := newTestSession(t)
	a := drag(t, s, KindRectangle, Point{0, 0}, Point{10, 10})
	b := drag(t, s, KindRectangle, Point{20, 0}, Point{30, 10})
	s.Selection().Set(a.ID())
	require.True(t, s.ApplyPropertyChanges(Patch{StrokeWidth: F(4)}))

	s.Selection().Set(a.ID(), b.ID())
	require.True(t, s.MoveSelection(1, 1))
	snap, _, err := s.History().Current()
	require.NoError(t, err)
	for _, o := range snap.Objects {
		if o.ModelID == a.ID() {
			assert.Equal(t, 4.0, o.Shape.Style.StrokeWidth)
		}
	}
}

func TestSetMultiStroke(t *testing.T) {
	m := NewSelectionManager(NewRegistry(), nil)
	m.SetMultiStroke(3)
	assert.Equal(t, 3.0, m.multiStroke)
	m.SetMultiStroke(0)
	m.SetMultiStroke(-2)
	m.SetMultiStroke(math.NaN())
	assert.Equal(t, 3.0, m.multiStroke)
}

func TestSelectionSkipsUnknownIDs(t *testing.T) {
	s, surface := newTestSession(t)
	a := drag(t, s, KindRectangle, Point{0, 0}, Point{10, 10})

	s.Selection().Set("nope", a.ID(), a.ID())
	assert.Equal(t, []string{a.ID()}, s.Selection().IDs())
	assert.Equal(t, SelectionSingle, s.Selection().Mode())
	assert.Len(t, surface.Active(), 1)
}

func TestSelectionObservers(t *testing.T) {
	s, _ := newTestSession(t)
	var events []SelectionEvent
	s.Selection().Observe(func(ev SelectionEvent) { events = append(events, ev) })

	a := drag(t, s, KindRectangle, Point{0, 0}, Point{10, 10})
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, SelectionSingle, last.Mode)
	assert.Same(t, a, last.Shape)

	s.Selection().Clear()
	last = events[len(events)-1]
	assert.Equal(t, SelectionNone, last.Mode)
	assert.Nil(t, last.Shape)
}

func TestSelectionBounds(t *testing.T) {
	s, _ := newTestSession(t)
	a := drag(t, s, KindRectangle, Point{0, 0}, Point{10, 10})
	b := drag(t, s, KindRectangle, Point{20, 20}, Point{30, 40})

	s.Selection().Set(a.ID(), b.ID())
	r, ok := s.Selection().Bounds()
	require.True(t, ok)
	assert.Equal(t, Rect{Left: 0, Top: 0, Width: 30, Height: 40}, r)

	s.Selection().Clear()
	_, ok = s.Selection().Bounds()
	assert.False(t, ok)
}
