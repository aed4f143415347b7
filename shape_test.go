package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allKinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kindNames {
		kinds[i] = Kind(i)
	}
	return kinds
}

func TestInitializeHasZeroExtent(t *testing.T) {
	for _, k := range allKinds() {
		if k == KindText || k.isChain() {
			continue
		}
		t.Run(k.String(), func(t *testing.T) {
			sh := NewShape(k)
			require.NoError(t, sh.Initialize(12, 34))
			b := sh.Bounds()
			assert.Equal(t, 12.0, b.Left)
			assert.Equal(t, 34.0, b.Top)
			assert.Zero(t, b.Width)
			assert.Zero(t, b.Height)
		})
	}
}

func TestInitializeChainAndText(t *testing.T) {
	chain := NewShape(KindConnectedCircles)
	require.NoError(t, chain.Initialize(50, 50))
	g, _ := chain.chain()
	assert.Equal(t, []Point{{50, 50}}, g.Nodes)
	assert.Empty(t, g.Segments)

	text := NewShape(KindText)
	require.NoError(t, text.Initialize(5, 6))
	tg := text.geom.(*TextGeometry)
	assert.Equal(t, "Enter Text", tg.Text)
	assert.Equal(t, 20.0, tg.FontSize)
	assert.Greater(t, tg.Width, 0.0)
}

func TestGrowTo(t *testing.T) {
	t.Run("rectangle", func(t *testing.T) {
		sh := NewShape(KindRectangle)
		require.NoError(t, sh.Initialize(10, 10))
		require.NoError(t, sh.GrowTo(50, 30))
		assert.Equal(t, Rect{Left: 10, Top: 10, Width: 40, Height: 20}, sh.Bounds())
	})
	t.Run("rectangle dragged up-left keeps origin", func(t *testing.T) {
		sh := NewShape(KindRectangle)
		require.NoError(t, sh.Initialize(10, 10))
		require.NoError(t, sh.GrowTo(0, 4))
		assert.Equal(t, Rect{Left: 10, Top: 10, Width: 10, Height: 6}, sh.Bounds())
	})
	t.Run("circle", func(t *testing.T) {
		sh := NewShape(KindCircle)
		require.NoError(t, sh.Initialize(10, 10))
		require.NoError(t, sh.GrowTo(30, 40))
		assert.InDelta(t, 36.06, sh.geom.(*CircleGeometry).Radius, 0.01)
	})
	t.Run("ellipse", func(t *testing.T) {
		sh := NewShape(KindEllipse)
		require.NoError(t, sh.Initialize(10, 10))
		require.NoError(t, sh.GrowTo(40, 0))
		g := sh.geom.(*EllipseGeometry)
		assert.Equal(t, 30.0, g.Rx)
		assert.Equal(t, 10.0, g.Ry)
	})
	t.Run("line", func(t *testing.T) {
		sh := NewShape(KindLine)
		require.NoError(t, sh.Initialize(1, 2))
		require.NoError(t, sh.GrowTo(-3, 8))
		assert.Equal(t, LineGeometry{X1: 1, Y1: 2, X2: -3, Y2: 8}, *sh.geom.(*LineGeometry))
	})
}

func TestGrowToErrors(t *testing.T) {
	sh := NewShape(KindRectangle)
	assert.ErrorIs(t, sh.GrowTo(1, 1), ErrUninitialized)
	assert.ErrorIs(t, sh.Initialize(math.NaN(), 0), ErrNonFinite)

	require.NoError(t, sh.Initialize(0, 0))
	require.NoError(t, sh.GrowTo(10, 10))
	assert.ErrorIs(t, sh.GrowTo(math.Inf(1), 0), ErrNonFinite)
	assert.Equal(t, 10.0, sh.Bounds().Width, "rejected input leaves geometry alone")
}

func TestCurveHandle(t *testing.T) {
	sh := NewShape(KindCurvedLine)
	require.NoError(t, sh.Initialize(0, 0))
	require.NoError(t, sh.GrowTo(100, 0))
	g := sh.geom.(*CurveGeometry)
	assert.Equal(t, Point{50, 50}, g.Control)

	require.NoError(t, sh.ApplyPatch(Patch{CurveHandle: P(50, 40)}))
	mid := g.Midpoint()
	assert.InDelta(t, 50, mid.X, 1e-9)
	assert.InDelta(t, 40, mid.Y, 1e-9)
	assert.InDelta(t, 80, g.Control.Y, 1e-9)

	b := sh.Bounds()
	assert.InDelta(t, 40, b.Height, 1e-9, "bounds follow the curve, not the control point")
}

func TestAngleIndicator(t *testing.T) {
	sh := NewShape(KindAngleIndicator)
	require.NoError(t, sh.Initialize(0, 0))
	require.NoError(t, sh.GrowTo(10, 0))
	g := sh.geom.(*AngleGeometry)
	assert.Equal(t, Point{0, 5}, g.End2)
	assert.Equal(t, 90.0, g.Degrees)
	assert.Equal(t, "90.0°", g.LabelText)
	assert.InDelta(t, 40/math.Sqrt2, g.Label.X, 1e-9)
	assert.InDelta(t, 40/math.Sqrt2, g.Label.Y, 1e-9)

	require.NoError(t, sh.ApplyPatch(Patch{End2: P(0, -5)}))
	assert.Equal(t, 270.0, g.Degrees)
}

func TestRecordRoundTrip(t *testing.T) {
	sh := NewShape(KindTriangle)
	require.NoError(t, sh.Initialize(5, 5))
	require.NoError(t, sh.GrowTo(25, 45))

	rec := sh.Record()
	assert.Equal(t, "triangle", rec.Type)
	require.NotNil(t, rec.Box)

	copied, err := shapeFromRecord(rec)
	require.NoError(t, err)
	assert.NotEqual(t, sh.ID(), copied.ID())
	assert.Equal(t, rec, copied.Record())

	rec.Box.Width = 999
	assert.Equal(t, 20.0, sh.Bounds().Width, "records are copies")
}

func TestRestoreRejectsOtherKind(t *testing.T) {
	circle := NewShape(KindCircle)
	require.NoError(t, circle.Initialize(0, 0))
	rect := NewShape(KindRectangle)
	require.NoError(t, rect.Initialize(0, 0))

	assert.ErrorIs(t, rect.restore(circle.Record()), ErrKindMismatch)

	rec := rect.Record()
	rec.Type = KindTriangle.String()
	assert.ErrorIs(t, rect.restore(rec), ErrKindMismatch)
}

func TestCloneIsDeep(t *testing.T) {
	sh := NewShape(KindPolyline)
	require.NoError(t, sh.Initialize(0, 0))
	_, err := sh.AddPoint(10, 10)
	require.NoError(t, err)

	c := sh.Clone()
	assert.NotEqual(t, sh.ID(), c.ID())
	require.NoError(t, c.Translate(5, 5))
	assert.Equal(t, Point{0, 0}, sh.geom.(*PolyGeometry).Points[0])
	assert.Equal(t, Point{5, 5}, c.geom.(*PolyGeometry).Points[0])
}

func TestTextTransform(t *testing.T) {
	tests := []struct {
		transform, in, want string
	}{
		{"uppercase", "hello world", "HELLO WORLD"},
		{"lowercase", "Hello World", "hello world"},
		{"capitalize", "hello big_world 2day", "Hello Big_world 2day"},
		{"none", "keep Me", "keep Me"},
	}
	for _, tt := range tests {
		t.Run(tt.transform, func(t *testing.T) {
			assert.Equal(t, tt.want, applyTextTransform(tt.in, tt.transform))
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range allKinds() {
		got, ok := parseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	_, ok := parseKind("hexagon")
	assert.False(t, ok)
	assert.Equal(t, "none", NoTool.String())
}
