package main

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrNotApplicable = errors.New("property does not apply to shape kind")
	ErrBadValue      = errors.New("invalid property value")

	errUnknownProperty = errors.New("unknown property")
)

// Patch is a sparse set of property overrides. A nil field leaves the
// property unchanged.
type Patch struct {
	Left        *float64
	Top         *float64
	Angle       *float64
	SkewX       *float64
	Fill        *string
	Stroke      *string
	StrokeWidth *float64

	Radius *float64
	Width  *float64
	Height *float64
	Rx     *float64
	Ry     *float64

	X1          *float64
	Y1          *float64
	X2          *float64
	Y2          *float64
	ControlX    *float64
	ControlY    *float64
	CurveHandle *Point

	Text          *string
	FontFamily    *string
	FontSize      *float64
	FontWeight    *string
	FontStyle     *string
	TextAlign     *string
	Underline     *bool
	Overline      *bool
	Linethrough   *bool
	TextTransform *string

	HatchColor     *string
	HatchThickness *float64
	Points         []Point

	LineThickness *float64

	Vertex *Point
	End1   *Point
	End2   *Point
}

func F(v float64) *float64 { return &v }
func S(v string) *string   { return &v }
func B(v bool) *bool       { return &v }
func P(x, y float64) *Point {
	return &Point{x, y}
}

type patcher struct {
	errs []error
}

func (p *patcher) fail(name string, err error) {
	p.errs = append(p.errs, fmt.Errorf("%s: %w", name, err))
}

// size accepts finite non-negative values.
func (p *patcher) size(name string, v *float64, apply func(float64)) {
	if v == nil {
		return
	}
	if !isFinite(*v) || *v < 0 {
		p.fail(name, ErrBadValue)
		return
	}
	apply(*v)
}

func (p *patcher) num(name string, v *float64, apply func(float64)) {
	if v == nil {
		return
	}
	if !isFinite(*v) {
		p.fail(name, ErrNonFinite)
		return
	}
	apply(*v)
}

func (p *patcher) point(name string, v *Point, apply func(Point)) {
	if v == nil {
		return
	}
	if !v.finite() {
		p.fail(name, ErrNonFinite)
		return
	}
	apply(*v)
}

func (p *patcher) color(name string, v *string, apply func(string)) {
	if v == nil {
		return
	}
	if !validColor(*v) {
		p.fail(name, fmt.Errorf("%w %q", ErrBadColor, *v))
		return
	}
	apply(*v)
}

func (p *patcher) str(v *string, apply func(string)) {
	if v != nil {
		apply(*v)
	}
}

func (p *patcher) flag(v *bool, apply func(bool)) {
	if v != nil {
		apply(*v)
	}
}

// reject flags every set field in a kind that has no such property.
func (p *patcher) reject(fields map[string]bool) {
	for name, set := range fields {
		if set {
			p.fail(name, ErrNotApplicable)
		}
	}
}

// ApplyPatch applies every valid field in patch. Invalid or inapplicable
// fields are skipped and reported together; the rest still take effect.
func (s *Shape) ApplyPatch(patch Patch) error {
	if !s.initialized {
		return ErrUninitialized
	}
	var p patcher

	p.num("left", patch.Left, func(v float64) { s.geom.translate(v-s.geom.bounds().Left, 0) })
	p.num("top", patch.Top, func(v float64) { s.geom.translate(0, v-s.geom.bounds().Top) })
	p.num("angle", patch.Angle, func(v float64) { s.xf.Angle = math.Mod(v, 360) })
	p.num("skewX", patch.SkewX, func(v float64) { s.xf.SkewX = v })
	p.color("fill", patch.Fill, func(v string) { s.style.Fill = v })
	p.color("stroke", patch.Stroke, func(v string) { s.style.Stroke = v })
	p.size("strokeWidth", patch.StrokeWidth, func(v float64) {
		if s.strokeStash != nil {
			*s.strokeStash = v
			return
		}
		s.style.StrokeWidth = v
	})

	switch g := s.geom.(type) {
	case *BoxGeometry:
		p.size("width", patch.Width, func(v float64) { g.Width = v })
		p.size("height", patch.Height, func(v float64) { g.Height = v })
		p.reject(fieldsExcept(patch, "width", "height"))
	case *CircleGeometry:
		p.size("radius", patch.Radius, func(v float64) { g.Radius = v })
		p.reject(fieldsExcept(patch, "radius"))
	case *EllipseGeometry:
		p.size("rx", patch.Rx, func(v float64) { g.Rx = v })
		p.size("ry", patch.Ry, func(v float64) { g.Ry = v })
		p.reject(fieldsExcept(patch, "rx", "ry"))
	case *LineGeometry:
		p.num("x1", patch.X1, func(v float64) { g.X1 = v })
		p.num("y1", patch.Y1, func(v float64) { g.Y1 = v })
		p.num("x2", patch.X2, func(v float64) { g.X2 = v })
		p.num("y2", patch.Y2, func(v float64) { g.Y2 = v })
		p.reject(fieldsExcept(patch, "x1", "y1", "x2", "y2"))
	case *CurveGeometry:
		p.num("x1", patch.X1, func(v float64) { g.Start.X = v })
		p.num("y1", patch.Y1, func(v float64) { g.Start.Y = v })
		p.num("x2", patch.X2, func(v float64) { g.End.X = v })
		p.num("y2", patch.Y2, func(v float64) { g.End.Y = v })
		p.num("controlX", patch.ControlX, func(v float64) { g.Control.X = v })
		p.num("controlY", patch.ControlY, func(v float64) { g.Control.Y = v })
		p.point("curveHandle", patch.CurveHandle, g.moveHandle)
		p.reject(fieldsExcept(patch, "x1", "y1", "x2", "y2", "controlX", "controlY", "curveHandle"))
	case *TextGeometry:
		p.str(patch.Text, func(v string) { g.Text = v })
		p.str(patch.FontFamily, func(v string) { g.FontFamily = v })
		p.size("fontSize", patch.FontSize, func(v float64) {
			if v == 0 {
				p.fail("fontSize", ErrBadValue)
				return
			}
			g.FontSize = v
		})
		p.str(patch.FontWeight, func(v string) { g.FontWeight = v })
		p.str(patch.FontStyle, func(v string) { g.FontStyle = v })
		p.str(patch.TextAlign, func(v string) { g.TextAlign = v })
		p.flag(patch.Underline, func(v bool) { g.Underline = v })
		p.flag(patch.Overline, func(v bool) { g.Overline = v })
		p.flag(patch.Linethrough, func(v bool) { g.Linethrough = v })
		p.str(patch.TextTransform, func(v string) { g.Text = applyTextTransform(g.Text, v) })
		p.reject(fieldsExcept(patch, "text", "fontFamily", "fontSize", "fontWeight", "fontStyle",
			"textAlign", "underline", "overline", "linethrough", "textTransform"))
		g.measure()
	case *PolyGeometry:
		p.color("hatchColor", patch.HatchColor, func(v string) { g.HatchColor = v })
		p.size("hatchThickness", patch.HatchThickness, func(v float64) { g.HatchThickness = v })
		if patch.Points != nil {
			need := minPolylinePoints
			if g.Closed {
				need = minPolygonPoints
			}
			switch {
			case !allPointsFinite(patch.Points):
				p.fail("points", ErrNonFinite)
			case len(patch.Points) < need:
				p.fail("points", ErrBadValue)
			default:
				g.Points = append([]Point(nil), patch.Points...)
				g.Live = nil
			}
		}
		p.reject(fieldsExcept(patch, "hatchColor", "hatchThickness", "points"))
	case *ChainGeometry:
		if g.Elliptic {
			p.size("rx", patch.Rx, func(v float64) { g.setRadii(v, g.Ry) })
			p.size("ry", patch.Ry, func(v float64) { g.setRadii(g.Rx, v) })
		} else {
			p.size("radius", patch.Radius, func(v float64) { g.setRadii(v, v) })
		}
		p.size("lineThickness", patch.LineThickness, func(v float64) { g.LineWidth = v })
		if g.Elliptic {
			p.reject(fieldsExcept(patch, "rx", "ry", "lineThickness"))
		} else {
			p.reject(fieldsExcept(patch, "radius", "lineThickness"))
		}
	case *AngleGeometry:
		p.point("vertex", patch.Vertex, func(v Point) { g.Vertex = v })
		p.point("end1", patch.End1, func(v Point) { g.End1 = v })
		p.point("end2", patch.End2, func(v Point) { g.End2 = v })
		g.update()
		p.reject(fieldsExcept(patch, "vertex", "end1", "end2"))
	}

	s.applyHatch()
	s.touch()
	return errors.Join(p.errs...)
}

// fieldsExcept reports which kind-specific fields are set, minus allowed.
func fieldsExcept(patch Patch, allowed ...string) map[string]bool {
	set := map[string]bool{
		"radius":         patch.Radius != nil,
		"width":          patch.Width != nil,
		"height":         patch.Height != nil,
		"rx":             patch.Rx != nil,
		"ry":             patch.Ry != nil,
		"x1":             patch.X1 != nil,
		"y1":             patch.Y1 != nil,
		"x2":             patch.X2 != nil,
		"y2":             patch.Y2 != nil,
		"controlX":       patch.ControlX != nil,
		"controlY":       patch.ControlY != nil,
		"curveHandle":    patch.CurveHandle != nil,
		"text":           patch.Text != nil,
		"fontFamily":     patch.FontFamily != nil,
		"fontSize":       patch.FontSize != nil,
		"fontWeight":     patch.FontWeight != nil,
		"fontStyle":      patch.FontStyle != nil,
		"textAlign":      patch.TextAlign != nil,
		"underline":      patch.Underline != nil,
		"overline":       patch.Overline != nil,
		"linethrough":    patch.Linethrough != nil,
		"textTransform":  patch.TextTransform != nil,
		"hatchColor":     patch.HatchColor != nil,
		"hatchThickness": patch.HatchThickness != nil,
		"points":         patch.Points != nil,
		"lineThickness":  patch.LineThickness != nil,
		"vertex":         patch.Vertex != nil,
		"end1":           patch.End1 != nil,
		"end2":           patch.End2 != nil,
	}
	for _, a := range allowed {
		delete(set, a)
	}
	return set
}

func allPointsFinite(pts []Point) bool {
	for _, p := range pts {
		if !p.finite() {
			return false
		}
	}
	return true
}

// Property is one named value shown in the properties panel.
type Property struct {
	Name  string
	Value string
}

// Properties lists the editable properties of the shape for its kind.
func (s *Shape) Properties() []Property {
	b := s.Bounds()
	props := []Property{
		{"type", s.kind.String()},
		{"left", fmtNum(b.Left)},
		{"top", fmtNum(b.Top)},
	}
	switch s.kind {
	case KindRectangle, KindTriangle:
		g := s.geom.(*BoxGeometry)
		props = append(props, Property{"width", fmtNum(g.Width)}, Property{"height", fmtNum(g.Height)})
	case KindCircle:
		g := s.geom.(*CircleGeometry)
		props = append(props, Property{"radius", fmtNum(g.Radius)})
	case KindEllipse:
		g := s.geom.(*EllipseGeometry)
		props = append(props, Property{"rx", fmtNum(g.Rx)}, Property{"ry", fmtNum(g.Ry)})
	case KindLine:
		g := s.geom.(*LineGeometry)
		props = append(props,
			Property{"x1", fmtNum(g.X1)}, Property{"y1", fmtNum(g.Y1)},
			Property{"x2", fmtNum(g.X2)}, Property{"y2", fmtNum(g.Y2)},
		)
	case KindText:
		g := s.geom.(*TextGeometry)
		props = append(props,
			Property{"text", g.Text},
			Property{"fontFamily", g.FontFamily},
			Property{"fontSize", fmtNum(g.FontSize)},
			Property{"fontWeight", g.FontWeight},
			Property{"fontStyle", g.FontStyle},
			Property{"textAlign", g.TextAlign},
			Property{"decoration", textDecoration(g)},
		)
	case KindCurvedLine:
		g := s.geom.(*CurveGeometry)
		m := g.Midpoint()
		props = append(props,
			Property{"start", fmtPoint(g.Start)},
			Property{"control", fmtPoint(g.Control)},
			Property{"end", fmtPoint(g.End)},
			Property{"handle", fmtPoint(m)},
		)
	case KindPolygon, KindPolyline:
		g := s.geom.(*PolyGeometry)
		props = append(props, Property{"points", fmt.Sprint(len(g.Points))})
		if s.kind == KindPolygon {
			props = append(props,
				Property{"closed", fmt.Sprint(g.Closed)},
				Property{"hatchColor", g.HatchColor},
				Property{"hatchThickness", fmtNum(g.HatchThickness)},
			)
		}
	case KindConnectedCircles, KindClosedConnectedCircles, KindClosedConnectedEllipses:
		g := s.geom.(*ChainGeometry)
		if g.Elliptic {
			props = append(props, Property{"rx", fmtNum(g.Rx)}, Property{"ry", fmtNum(g.Ry)})
		} else {
			props = append(props, Property{"radius", fmtNum(g.Rx)})
		}
		props = append(props,
			Property{"nodes", fmt.Sprint(len(g.Nodes))},
			Property{"lineThickness", fmtNum(g.LineWidth)},
		)
	case KindAngleIndicator:
		g := s.geom.(*AngleGeometry)
		props = append(props,
			Property{"vertex", fmtPoint(g.Vertex)},
			Property{"end1", fmtPoint(g.End1)},
			Property{"end2", fmtPoint(g.End2)},
			Property{"angle", g.LabelText},
		)
	}
	props = append(props,
		Property{"fill", s.style.Fill},
		Property{"stroke", s.style.Stroke},
		Property{"strokeWidth", fmtNum(s.baseStrokeWidth())},
	)
	if s.xf.Angle != 0 {
		props = append(props, Property{"rotation", fmtNum(s.xf.Angle)})
	}
	if s.xf.SkewX != 0 {
		props = append(props, Property{"skewX", fmtNum(s.xf.SkewX)})
	}
	return props
}

func textDecoration(g *TextGeometry) string {
	var d string
	for _, f := range []struct {
		on   bool
		name string
	}{{g.Underline, "underline"}, {g.Overline, "overline"}, {g.Linethrough, "line-through"}} {
		if !f.on {
			continue
		}
		if d != "" {
			d += " "
		}
		d += f.name
	}
	if d == "" {
		return "none"
	}
	return d
}

func fmtNum(f float64) string {
	return fmt.Sprintf("%g", roundTo(f, 2))
}

func fmtPoint(p Point) string {
	return fmt.Sprintf("(%s, %s)", fmtNum(p.X), fmtNum(p.Y))
}

// ParseAssignment reads one "name=value" edit as typed in the property
// prompt. Points are written "x,y"; point lists separate points by spaces.
func ParseAssignment(input string) (Patch, error) {
	name, value, ok := strings.Cut(input, "=")
	if !ok {
		return Patch{}, fmt.Errorf("%w: want name=value", ErrBadValue)
	}
	name, value = strings.TrimSpace(name), strings.TrimSpace(value)

	var p Patch
	nums := map[string]**float64{
		"left": &p.Left, "top": &p.Top, "angle": &p.Angle, "rotation": &p.Angle,
		"skewX": &p.SkewX, "strokeWidth": &p.StrokeWidth,
		"radius": &p.Radius, "width": &p.Width, "height": &p.Height, "rx": &p.Rx, "ry": &p.Ry,
		"x1": &p.X1, "y1": &p.Y1, "x2": &p.X2, "y2": &p.Y2,
		"controlX": &p.ControlX, "controlY": &p.ControlY,
		"fontSize": &p.FontSize, "hatchThickness": &p.HatchThickness, "lineThickness": &p.LineThickness,
	}
	strs := map[string]**string{
		"fill": &p.Fill, "stroke": &p.Stroke, "text": &p.Text,
		"fontFamily": &p.FontFamily, "fontWeight": &p.FontWeight, "fontStyle": &p.FontStyle,
		"textAlign": &p.TextAlign, "textTransform": &p.TextTransform, "hatchColor": &p.HatchColor,
	}
	bools := map[string]**bool{"underline": &p.Underline, "overline": &p.Overline, "linethrough": &p.Linethrough}
	points := map[string]**Point{"handle": &p.CurveHandle, "vertex": &p.Vertex, "end1": &p.End1, "end2": &p.End2}

	if dst, ok := nums[name]; ok {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Patch{}, fmt.Errorf("%s: %w", name, ErrBadValue)
		}
		*dst = &v
		return p, nil
	}
	if dst, ok := strs[name]; ok {
		*dst = &value
		return p, nil
	}
	if dst, ok := bools[name]; ok {
		v, err := strconv.ParseBool(value)
		if err != nil {
			return Patch{}, fmt.Errorf("%s: %w", name, ErrBadValue)
		}
		*dst = &v
		return p, nil
	}
	if dst, ok := points[name]; ok {
		v, err := parsePoint(value)
		if err != nil {
			return Patch{}, fmt.Errorf("%s: %w", name, err)
		}
		*dst = &v
		return p, nil
	}
	if name == "points" {
		for _, f := range strings.Fields(value) {
			v, err := parsePoint(f)
			if err != nil {
				return Patch{}, fmt.Errorf("points: %w", err)
			}
			p.Points = append(p.Points, v)
		}
		if p.Points == nil {
			p.Points = []Point{}
		}
		return p, nil
	}
	return Patch{}, fmt.Errorf("%w %q", errUnknownProperty, name)
}

func parsePoint(s string) (Point, error) {
	s = strings.Trim(s, "() ")
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return Point{}, ErrBadValue
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return Point{}, ErrBadValue
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return Point{}, ErrBadValue
	}
	return Point{x, y}, nil
}
