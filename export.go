package main

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
)

const (
	defaultCanvasWidth  = 800
	defaultCanvasHeight = 600
	defaultBackground   = "#f0f0f0"
	maxSkewDegrees      = 85.0
)

var errNothingToExport = errors.New("nothing to export")

// ExportPNG draws every handle on the surface onto a width x height canvas.
func ExportPNG(surface Surface, filename string, width, height int, background string) error {
	objs := surface.Objects()
	if len(objs) == 0 {
		return errNothingToExport
	}
	dc := gg.NewContext(width, height)
	bg, err := parseColor(background)
	if err != nil {
		bg = color.White
	}
	dc.SetColor(bg)
	dc.Clear()

	for _, h := range objs {
		drawHandlePNG(dc, h)
	}
	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	return nil
}

func drawHandlePNG(dc *gg.Context, h *Handle) {
	if h.isGroup() {
		for _, m := range h.Members {
			drawHandlePNG(dc, m)
		}
		return
	}
	rec := h.Shape
	g := rec.geometry()
	if g == nil {
		return
	}

	b := g.bounds()
	cx, cy := b.Left+b.Width/2, b.Top+b.Height/2
	dc.Push()
	defer dc.Pop()
	if rec.Transform.Angle != 0 {
		dc.RotateAbout(gg.Radians(rec.Transform.Angle), cx, cy)
	}
	if rec.Transform.SkewX != 0 {
		dc.ShearAbout(shearFactor(rec.Transform.SkewX), 0, cx, cy)
	}
	w := h.strokeWidth()

	switch {
	case rec.Box != nil && rec.Type == KindTriangle.String():
		pathPoints(dc, rec.Box.trianglePoints(), true)
		fillStroke(dc, rec.Style, w)
	case rec.Box != nil:
		dc.DrawRectangle(rec.Box.Left, rec.Box.Top, rec.Box.Width, rec.Box.Height)
		fillStroke(dc, rec.Style, w)
	case rec.Circle != nil:
		c := rec.Circle.center()
		dc.DrawCircle(c.X, c.Y, rec.Circle.Radius)
		fillStroke(dc, rec.Style, w)
	case rec.Ellipse != nil:
		c := rec.Ellipse.center()
		dc.DrawEllipse(c.X, c.Y, rec.Ellipse.Rx, rec.Ellipse.Ry)
		fillStroke(dc, rec.Style, w)
	case rec.Line != nil:
		l := rec.Line
		dc.DrawLine(l.X1, l.Y1, l.X2, l.Y2)
		strokeOnly(dc, rec.Style, w)
	case rec.Curve != nil:
		c := rec.Curve
		dc.MoveTo(c.Start.X, c.Start.Y)
		dc.QuadraticTo(c.Control.X, c.Control.Y, c.End.X, c.End.Y)
		strokeOnly(dc, rec.Style, w)
	case rec.Text != nil:
		drawTextPNG(dc, rec.Text, rec.Style)
	case rec.Poly != nil:
		drawPolyPNG(dc, h, rec.Poly, rec.Style, w)
	case rec.Chain != nil:
		drawChainPNG(dc, rec.Chain, rec.Style, w)
	case rec.Angle != nil:
		drawAnglePNG(dc, rec.Angle, rec.Style, w)
	}
}

// shearFactor turns a skew angle in degrees into an x shear.
func shearFactor(skewX float64) float64 {
	return math.Tan(gg.Radians(math.Max(-maxSkewDegrees, math.Min(maxSkewDegrees, skewX))))
}

func pathPoints(dc *gg.Context, pts []Point, closed bool) {
	for i, p := range pts {
		if i == 0 {
			dc.MoveTo(p.X, p.Y)
			continue
		}
		dc.LineTo(p.X, p.Y)
	}
	if closed {
		dc.ClosePath()
	}
}

func setColor(dc *gg.Context, s string) bool {
	if s == "" || s == "transparent" {
		return false
	}
	c, err := parseColor(s)
	if err != nil {
		return false
	}
	dc.SetColor(c)
	return true
}

func fillStroke(dc *gg.Context, st Style, width float64) {
	if setColor(dc, st.Fill) {
		dc.FillPreserve()
	}
	strokeOnly(dc, st, width)
}

func strokeOnly(dc *gg.Context, st Style, width float64) {
	if width > 0 && setColor(dc, st.Stroke) {
		dc.SetLineWidth(width)
		dc.Stroke()
		return
	}
	dc.ClearPath()
}

func drawTextPNG(dc *gg.Context, t *TextGeometry, st Style) {
	face, err := fontFace(t.FontSize)
	if err != nil {
		return
	}
	dc.SetFontFace(face)
	if !setColor(dc, st.Fill) {
		return
	}
	lineH := dc.FontHeight() * 1.16
	y := t.Top
	for _, line := range strings.Split(t.Text, "\n") {
		w, _ := dc.MeasureString(line)
		x := t.Left
		switch t.TextAlign {
		case "center":
			x += (t.Width - w) / 2
		case "right":
			x += t.Width - w
		}
		dc.DrawStringAnchored(line, x, y, 0, 1)
		base := y + dc.FontHeight()
		if t.Underline {
			dc.DrawLine(x, base+2, x+w, base+2)
		}
		if t.Overline {
			dc.DrawLine(x, y, x+w, y)
		}
		if t.Linethrough {
			dc.DrawLine(x, y+dc.FontHeight()/2, x+w, y+dc.FontHeight()/2)
		}
		if t.Underline || t.Overline || t.Linethrough {
			dc.SetLineWidth(math.Max(1, t.FontSize/15))
			dc.Stroke()
		}
		y += lineH
	}
}

func drawPolyPNG(dc *gg.Context, h *Handle, g *PolyGeometry, st Style, width float64) {
	pts := g.candidate()
	if len(pts) < 2 {
		return
	}
	pathPoints(dc, pts, g.Closed)
	if g.Closed && h.Pattern != nil {
		dc.SetFillStyle(hatchPattern(h.Pattern))
		dc.FillPreserve()
	}
	strokeOnly(dc, st, width)
}

func drawChainPNG(dc *gg.Context, g *ChainGeometry, st Style, width float64) {
	for _, s := range g.WorldSegments() {
		dc.DrawLine(s.A.X, s.A.Y, s.B.X, s.B.Y)
	}
	strokeOnly(dc, st, g.LineWidth)
	for _, n := range g.WorldNodes() {
		dc.NewSubPath()
		dc.DrawEllipse(n.X, n.Y, g.Rx, g.Ry)
	}
	fillStroke(dc, st, width)
}

func drawAnglePNG(dc *gg.Context, g *AngleGeometry, st Style, width float64) {
	dc.DrawLine(g.Vertex.X, g.Vertex.Y, g.End1.X, g.End1.Y)
	dc.DrawLine(g.Vertex.X, g.Vertex.Y, g.End2.X, g.End2.Y)
	a1 := math.Atan2(g.End1.Y-g.Vertex.Y, g.End1.X-g.Vertex.X)
	dc.NewSubPath()
	dc.DrawArc(g.Vertex.X, g.Vertex.Y, angleLabelOffset/2, a1, a1+gg.Radians(g.Degrees))
	strokeOnly(dc, st, width)
	if face, err := fontFace(14); err == nil {
		dc.SetFontFace(face)
		if setColor(dc, st.Stroke) {
			dc.DrawStringAnchored(g.LabelText, g.Label.X, g.Label.Y, 0.5, 0.5)
		}
	}
}

// ExportTXT writes the terminal rendering of the scene, one row per line.
func ExportTXT(lines []string, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("create %s: %w", filename, err)
	}
	defer f.Close()
	for _, line := range lines {
		if _, err := fmt.Fprintln(f, line); err != nil {
			return fmt.Errorf("write %s: %w", filename, err)
		}
	}
	return nil
}
