package main

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

var (
	ErrUninitialized = errors.New("uninitialized shape")
	ErrNonFinite     = errors.New("non-finite geometry")
	ErrKindMismatch  = errors.New("record does not match shape kind")
)

type Kind int

const (
	KindRectangle Kind = iota
	KindCircle
	KindEllipse
	KindTriangle
	KindLine
	KindText
	KindCurvedLine
	KindPolygon
	KindPolyline
	KindConnectedCircles
	KindClosedConnectedCircles
	KindClosedConnectedEllipses
	KindAngleIndicator
)

var kindNames = [...]string{
	KindRectangle:               "rect",
	KindCircle:                  "circle",
	KindEllipse:                 "ellipse",
	KindTriangle:                "triangle",
	KindLine:                    "line",
	KindText:                    "i-text",
	KindCurvedLine:              "curvedLine",
	KindPolygon:                 "polygon",
	KindPolyline:                "polyline",
	KindConnectedCircles:        "connectedCircles",
	KindClosedConnectedCircles:  "closedConnectedCircles",
	KindClosedConnectedEllipses: "closedConnectedEllipses",
	KindAngleIndicator:          "angleIndicator",
}

// NoTool is the absent tool; it is never the kind of a shape.
const NoTool Kind = -1

func (k Kind) String() string {
	if k == NoTool {
		return "none"
	}
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

func parseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// isChain reports whether the kind accumulates nodes click by click.
func (k Kind) isChain() bool {
	switch k {
	case KindConnectedCircles, KindClosedConnectedCircles, KindClosedConnectedEllipses:
		return true
	}
	return false
}

// isMultiPoint reports whether the kind is built over several clicks.
func (k Kind) isMultiPoint() bool {
	return k == KindPolygon || k == KindPolyline || k.isChain()
}

type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
}

type Transform struct {
	Angle float64 `json:"angle"`
	SkewX float64 `json:"skewX"`
}

// geometry is implemented by every per-kind geometry record.
type geometry interface {
	init(p Point)
	grow(p Point)
	bounds() Rect
	translate(dx, dy float64)
	clone() geometry
	finite() bool
}

// Shape is one drawable entity. The kind is fixed at construction and
// selects the concrete geometry.
type Shape struct {
	id          string
	kind        Kind
	style       Style
	xf          Transform
	geom        geometry
	initialized bool

	// strokeStash holds the original stroke width while a multi-selection
	// overrides it.
	strokeStash *float64

	handle  *Handle
	surface Surface
}

func newShapeID() string {
	return "shape_" + uuid.NewString()
}

// NewShape returns an uninitialized shape of the given kind with the
// kind's default style.
func NewShape(kind Kind) *Shape {
	s := &Shape{
		id:    newShapeID(),
		kind:  kind,
		style: defaultStyle(kind),
	}
	s.geom = newGeometry(kind)
	return s
}

func newGeometry(kind Kind) geometry {
	switch kind {
	case KindRectangle, KindTriangle:
		return &BoxGeometry{}
	case KindCircle:
		return &CircleGeometry{}
	case KindEllipse:
		return &EllipseGeometry{}
	case KindLine:
		return &LineGeometry{}
	case KindText:
		return newTextGeometry()
	case KindCurvedLine:
		return &CurveGeometry{}
	case KindPolygon, KindPolyline:
		return &PolyGeometry{HatchColor: defaultHatchColor, HatchThickness: defaultHatchThickness}
	case KindConnectedCircles, KindClosedConnectedCircles:
		return &ChainGeometry{Closed: kind == KindClosedConnectedCircles, Rx: defaultChainRadius, Ry: defaultChainRadius, LineWidth: 2}
	case KindClosedConnectedEllipses:
		return &ChainGeometry{Closed: true, Elliptic: true, Rx: defaultChainRx, Ry: defaultChainRy, LineWidth: 2}
	case KindAngleIndicator:
		return &AngleGeometry{}
	}
	panic(fmt.Sprintf("unknown shape kind %d", int(kind)))
}

func defaultStyle(kind Kind) Style {
	switch kind {
	case KindRectangle:
		return Style{Fill: "rgba(0,0,200,0.5)", Stroke: "#000000", StrokeWidth: 1}
	case KindCircle:
		return Style{Fill: "rgba(0,200,0,0.5)", Stroke: "#000000", StrokeWidth: 1}
	case KindEllipse:
		return Style{Fill: "rgba(187,40,40,0.5)", Stroke: "#000000", StrokeWidth: 1}
	case KindTriangle:
		return Style{Fill: "rgba(200,0,0,0.5)", Stroke: "#000000", StrokeWidth: 1}
	case KindLine:
		return Style{Stroke: "rgba(0,0,0,0.5)", StrokeWidth: 1}
	case KindCurvedLine:
		return Style{Stroke: "rgba(0,0,0,0.5)", StrokeWidth: 2}
	case KindText:
		return Style{Fill: "#000000", Stroke: "#000000", StrokeWidth: 1}
	case KindPolygon, KindPolyline:
		return Style{Stroke: "black", StrokeWidth: 1}
	case KindConnectedCircles, KindClosedConnectedCircles:
		return Style{Fill: "rgba(195,23,23,0.3)", Stroke: "black", StrokeWidth: 2}
	case KindClosedConnectedEllipses:
		return Style{Fill: "rgba(23,195,66,0.3)", Stroke: "black", StrokeWidth: 2}
	case KindAngleIndicator:
		return Style{Stroke: "black", StrokeWidth: 2}
	}
	return Style{Stroke: "#000000", StrokeWidth: 1}
}

func (s *Shape) ID() string           { return s.id }
func (s *Shape) Kind() Kind           { return s.kind }
func (s *Shape) Style() Style         { return s.style }
func (s *Shape) Transform() Transform { return s.xf }
func (s *Shape) Initialized() bool    { return s.initialized }
func (s *Shape) Handle() *Handle      { return s.handle }

// Initialize places the shape at a point with zero extent.
func (s *Shape) Initialize(x, y float64) error {
	if !allFinite(x, y) {
		return ErrNonFinite
	}
	s.geom.init(Point{x, y})
	s.initialized = true
	s.touch()
	return nil
}

// GrowTo recomputes the extent from the current drag point.
func (s *Shape) GrowTo(x, y float64) error {
	if !s.initialized {
		return ErrUninitialized
	}
	if !allFinite(x, y) {
		return ErrNonFinite
	}
	s.geom.grow(Point{x, y})
	s.touch()
	return nil
}

// FinalizeCoordinates recomputes cached bounds after a batch of changes.
func (s *Shape) FinalizeCoordinates() {
	if !s.initialized {
		return
	}
	if t, ok := s.geom.(*TextGeometry); ok {
		t.measure()
	}
	s.touch()
}

func (s *Shape) Bounds() Rect {
	return s.geom.bounds()
}

func (s *Shape) Translate(dx, dy float64) error {
	if !s.initialized {
		return ErrUninitialized
	}
	if !allFinite(dx, dy) {
		return ErrNonFinite
	}
	s.geom.translate(dx, dy)
	s.touch()
	return nil
}

// Clone returns a deep copy under a fresh identifier, detached from any
// surface.
func (s *Shape) Clone() *Shape {
	c := &Shape{
		id:          newShapeID(),
		kind:        s.kind,
		style:       s.style,
		xf:          s.xf,
		geom:        s.geom.clone(),
		initialized: s.initialized,
	}
	if s.strokeStash != nil {
		c.style.StrokeWidth = *s.strokeStash
	}
	return c
}

// baseStrokeWidth is the stroke width with any selection override undone.
func (s *Shape) baseStrokeWidth() float64 {
	if s.strokeStash != nil {
		return *s.strokeStash
	}
	return s.style.StrokeWidth
}

func (s *Shape) stashStroke(width float64) {
	if s.strokeStash == nil {
		orig := s.style.StrokeWidth
		s.strokeStash = &orig
	}
	s.style.StrokeWidth = width
	s.touch()
}

func (s *Shape) restoreStroke() bool {
	if s.strokeStash == nil {
		return false
	}
	s.style.StrokeWidth = *s.strokeStash
	s.strokeStash = nil
	s.touch()
	return true
}

// touch pushes the presentation copy into the handle and asks the surface
// for a repaint.
func (s *Shape) touch() {
	if s.handle != nil {
		s.handle.Shape = s.Record()
		s.handle.Type = s.displayType()
		s.handle.StrokeOverride = 0
		if s.strokeStash != nil {
			s.handle.StrokeOverride = s.style.StrokeWidth
		}
	}
	if s.surface != nil {
		s.surface.RequestRender()
	}
}

// displayType is the handle type the surface sees. An open polygon is
// presented as a polyline until it is closed.
func (s *Shape) displayType() string {
	if g, ok := s.geom.(*PolyGeometry); ok && s.kind == KindPolygon && !g.Closed {
		return KindPolyline.String()
	}
	if s.kind.isChain() {
		return "chain"
	}
	return s.kind.String()
}

// ShapeRecord is the serialized form of one shape. Exactly one geometry
// field is set, matching Type.
type ShapeRecord struct {
	Type      string           `json:"type"`
	Style     Style            `json:"style"`
	Transform Transform        `json:"transform"`
	Box       *BoxGeometry     `json:"box,omitempty"`
	Circle    *CircleGeometry  `json:"circle,omitempty"`
	Ellipse   *EllipseGeometry `json:"ellipse,omitempty"`
	Line      *LineGeometry    `json:"line,omitempty"`
	Text      *TextGeometry    `json:"text,omitempty"`
	Curve     *CurveGeometry   `json:"curve,omitempty"`
	Poly      *PolyGeometry    `json:"poly,omitempty"`
	Chain     *ChainGeometry   `json:"chain,omitempty"`
	Angle     *AngleGeometry   `json:"angle,omitempty"`
}

func (s *Shape) Record() ShapeRecord {
	rec := ShapeRecord{
		Type:      s.kind.String(),
		Style:     s.style,
		Transform: s.xf,
	}
	rec.Style.StrokeWidth = s.baseStrokeWidth()
	switch g := s.geom.clone().(type) {
	case *BoxGeometry:
		rec.Box = g
	case *CircleGeometry:
		rec.Circle = g
	case *EllipseGeometry:
		rec.Ellipse = g
	case *LineGeometry:
		rec.Line = g
	case *TextGeometry:
		rec.Text = g
	case *CurveGeometry:
		rec.Curve = g
	case *PolyGeometry:
		rec.Poly = g
	case *ChainGeometry:
		rec.Chain = g
	case *AngleGeometry:
		rec.Angle = g
	}
	return rec
}

func (rec ShapeRecord) geometry() geometry {
	switch {
	case rec.Box != nil:
		return rec.Box
	case rec.Circle != nil:
		return rec.Circle
	case rec.Ellipse != nil:
		return rec.Ellipse
	case rec.Line != nil:
		return rec.Line
	case rec.Text != nil:
		return rec.Text
	case rec.Curve != nil:
		return rec.Curve
	case rec.Poly != nil:
		return rec.Poly
	case rec.Chain != nil:
		return rec.Chain
	case rec.Angle != nil:
		return rec.Angle
	}
	return nil
}

// restore overwrites geometry, style and transform from a record of the
// same kind. The identifier is kept.
func (s *Shape) restore(rec ShapeRecord) error {
	kind, ok := parseKind(rec.Type)
	if !ok || kind != s.kind {
		return fmt.Errorf("%w: %s into %s", ErrKindMismatch, rec.Type, s.kind)
	}
	g := rec.geometry()
	if g == nil {
		return fmt.Errorf("%w: %s record has no geometry", ErrKindMismatch, rec.Type)
	}
	if reflect.TypeOf(g) != reflect.TypeOf(s.geom) {
		return fmt.Errorf("%w: %T into %s", ErrKindMismatch, g, s.kind)
	}
	if !g.finite() {
		return ErrNonFinite
	}
	s.geom = g.clone()
	s.style = rec.Style
	s.xf = rec.Transform
	s.strokeStash = nil
	s.initialized = true
	return nil
}

// shapeFromRecord builds a new, initialized shape with a fresh identifier.
func shapeFromRecord(rec ShapeRecord) (*Shape, error) {
	kind, ok := parseKind(rec.Type)
	if !ok {
		return nil, fmt.Errorf("unknown shape type %q", rec.Type)
	}
	s := NewShape(kind)
	if err := s.restore(rec); err != nil {
		return nil, err
	}
	return s, nil
}
