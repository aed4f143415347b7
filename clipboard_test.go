package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClipboard swaps the system clipboard for a string for one test.
func fakeClipboard(t *testing.T) *string {
	t.Helper()
	var buf string
	oldWrite, oldRead := clipboardWrite, clipboardRead
	clipboardWrite = func(s string) error { buf = s; return nil }
	clipboardRead = func() (string, error) { return buf, nil }
	t.Cleanup(func() { clipboardWrite, clipboardRead = oldWrite, oldRead })
	return &buf
}

func TestCopyPasteShapes(t *testing.T) {
	fakeClipboard(t)
	s, surface := newTestSession(t)
	a := drag(t, s, KindRectangle, Point{0, 0}, Point{10, 10})
	b := drag(t, s, KindCircle, Point{50, 50}, Point{60, 50})
	s.Selection().Set(a.ID(), b.ID())

	n, err := s.CopySelection()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = s.Paste(Point{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, surface.Objects(), 4)

	ids := s.Selection().IDs()
	require.Len(t, ids, 2)
	pasted := s.Registry().Shape(ids[0])
	assert.NotEqual(t, a.ID(), pasted.ID())
	assert.Equal(t, Rect{Left: 10, Top: 10, Width: 10, Height: 10}, pasted.Bounds())
	assert.Equal(t, 1.0, pasted.Record().Style.StrokeWidth)
}

func TestCopyNothing(t *testing.T) {
	buf := fakeClipboard(t)
	s, _ := newTestSession(t)
	n, err := s.CopySelection()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, *buf)
}

func TestPastePlainText(t *testing.T) {
	buf := fakeClipboard(t)
	*buf = "hello\r\nworld\x07"
	s, _ := newTestSession(t)

	n, err := s.Paste(Point{30, 40})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	sh, ok := s.Selection().Single()
	require.True(t, ok)
	assert.Equal(t, KindText, sh.Kind())
	g := sh.geom.(*TextGeometry)
	assert.Equal(t, "hello\nworld", g.Text)
	assert.Equal(t, 30.0, sh.Bounds().Left)
	assert.Equal(t, 40.0, sh.Bounds().Top)
	assert.Equal(t, 2, s.History().Len())
}

func TestPasteEmptyOrFailing(t *testing.T) {
	buf := fakeClipboard(t)
	*buf = " \x00\t "
	s, _ := newTestSession(t)
	_, err := s.Paste(Point{})
	assert.ErrorIs(t, err, errEmptyClipboard)

	boom := errors.New("no clipboard utility")
	clipboardRead = func() (string, error) { return "", boom }
	_, err = s.Paste(Point{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, s.History().Len())
}

func TestCleanClipboardText(t *testing.T) {
	assert.Equal(t, "a\nb\nc\td", cleanClipboardText("a\r\nb\rc\td\x1b"))
	assert.Equal(t, "héllo", cleanClipboardText("héllo"))
}
