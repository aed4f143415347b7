package main

import (
	"context"
	"math"
	"slices"

	"cdr.dev/slog"
)

type SessionState int

const (
	StateIdle SessionState = iota
	StateToolArmed
	StateDrawing
)

func (s SessionState) String() string {
	switch s {
	case StateToolArmed:
		return "armed"
	case StateDrawing:
		return "drawing"
	}
	return "idle"
}

const (
	cloneOffset = 10.0
	hitSlop     = 3.0
)

// EditingSession owns the scene and drives every edit to it. Errors from
// shape operations stop here: they are logged and the edit degrades to a
// no-op.
type EditingSession struct {
	ctx       context.Context
	surface   Surface
	registry  *Registry
	selection *SelectionManager
	history   *History

	tool    Kind
	current *Shape

	// drag tracks a move of the selection in progress.
	drag      *Point
	dragMoved bool

	persp perspectiveSlot

	// chainRadius overrides the radius new circle chains start with.
	chainRadius float64
}

func NewEditingSession(ctx context.Context, surface Surface) *EditingSession {
	reg := NewRegistry()
	s := &EditingSession{
		ctx:       namedLogger(ctx, "session"),
		surface:   surface,
		registry:  reg,
		selection: NewSelectionManager(reg, surface),
		history:   NewHistory(),
		tool:      NoTool,
	}
	s.pushState()
	return s
}

// Configure applies user preferences to the session.
func (s *EditingSession) Configure(cfg *Config) {
	s.selection.SetMultiStroke(cfg.MultiSelectStroke)
	if cfg.ChainRadius > 0 && isFinite(cfg.ChainRadius) {
		s.chainRadius = cfg.ChainRadius
	}
}

func (s *EditingSession) Registry() *Registry           { return s.registry }
func (s *EditingSession) Selection() *SelectionManager { return s.selection }
func (s *EditingSession) History() *History             { return s.history }
func (s *EditingSession) Surface() Surface              { return s.surface }
func (s *EditingSession) Tool() Kind                    { return s.tool }
func (s *EditingSession) Current() *Shape               { return s.current }

func (s *EditingSession) State() SessionState {
	switch {
	case s.current != nil:
		return StateDrawing
	case s.tool != NoTool:
		return StateToolArmed
	}
	return StateIdle
}

// SelectTool arms a tool, or disarms with NoTool. A shape in progress is
// abandoned as it is and stays on the scene.
func (s *EditingSession) SelectTool(k Kind) {
	s.current = nil
	s.drag = nil
	s.tool = k
	if k == NoTool {
		s.selection.Clear()
	}
}

// PointerDown starts a shape when a tool is armed, adds a node to a chain
// in progress, or grabs the shape under the pointer when idle.
func (s *EditingSession) PointerDown(x, y float64) {
	if !allFinite(x, y) {
		logWarn(s.ctx, "ignoring non-finite pointer", slog.F("x", x), slog.F("y", y))
		return
	}
	switch s.State() {
	case StateIdle:
		s.grab(Point{x, y})
	case StateToolArmed:
		s.begin(x, y)
	case StateDrawing:
		if s.current.kind.isChain() {
			if _, err := s.current.AddNode(x, y); err != nil {
				logWarn(s.ctx, "add chain node", slog.Error(err))
			}
		}
	}
}

func (s *EditingSession) begin(x, y float64) {
	s.selection.Clear()
	sh := NewShape(s.tool)
	if err := sh.Initialize(x, y); err != nil {
		logWarn(s.ctx, "initialize shape", slog.F("kind", s.tool), slog.Error(err))
		return
	}
	if g, ok := sh.chain(); ok && !g.Elliptic && s.chainRadius > 0 {
		g.setRadii(s.chainRadius, s.chainRadius)
	}
	s.attach(sh)
	s.current = sh
	s.persp.bind(s, sh)
	if !sh.kind.isMultiPoint() {
		if err := sh.GrowTo(x, y); err != nil {
			logWarn(s.ctx, "grow shape", slog.Error(err))
		}
		s.selection.Set(sh.id)
	}
}

// attach gives sh a handle on the surface and registers it.
func (s *EditingSession) attach(sh *Shape) {
	h := &Handle{Selectable: true}
	sh.handle = h
	sh.surface = s.surface
	sh.touch()
	sh.applyHatch()
	s.surface.Add(h)
	s.registry.AddShape(sh)
}

// rebuildHandle swaps in a fresh handle for sh at the same stacking slot.
func (s *EditingSession) rebuildHandle(sh *Shape) {
	old := sh.handle
	h := &Handle{Selectable: true}
	sh.handle = h
	sh.touch()
	sh.applyHatch()
	s.surface.Replace(old, h)
	s.registry.Bind(sh.id, h)
}

func (s *EditingSession) PointerMove(x, y float64) {
	if !allFinite(x, y) {
		return
	}
	if s.current == nil {
		s.dragTo(Point{x, y})
		return
	}
	if s.current.kind.isChain() {
		return
	}
	if err := s.current.GrowTo(x, y); err != nil {
		logWarn(s.ctx, "grow shape", slog.Error(err))
	}
}

func (s *EditingSession) PointerUp(x, y float64) {
	if !allFinite(x, y) {
		return
	}
	if s.current == nil {
		s.release(Point{x, y})
		return
	}
	sh := s.current
	switch {
	case sh.kind == KindPolygon || sh.kind == KindPolyline:
		if _, err := sh.AddPoint(x, y); err != nil {
			logWarn(s.ctx, "add vertex", slog.Error(err))
		}
	case sh.kind.isChain():
	default:
		if err := sh.GrowTo(x, y); err != nil {
			logWarn(s.ctx, "grow shape", slog.Error(err))
		}
		sh.FinalizeCoordinates()
		s.complete(sh)
	}
}

// DoubleClick closes a polygon or finishes a polyline in progress. When
// idle with a group selected it selects the group's first member.
func (s *EditingSession) DoubleClick() {
	if s.current == nil {
		s.SelectSubTarget()
		return
	}
	switch s.current.kind {
	case KindPolygon, KindPolyline:
		s.closeCurrent()
	}
}

// Finish ends the multi-click shape in progress.
func (s *EditingSession) Finish() {
	sh := s.current
	if sh == nil {
		return
	}
	switch {
	case sh.kind.isChain():
		if !sh.FinishChain() {
			s.discard(sh)
			return
		}
		s.complete(sh)
	case sh.kind == KindPolygon || sh.kind == KindPolyline:
		s.closeCurrent()
	}
}

func (s *EditingSession) closeCurrent() {
	sh := s.current
	if sh.kind == KindPolygon {
		if !sh.ClosePolygon() {
			logDebug(s.ctx, "polygon close ignored", slog.F("points", len(sh.geom.(*PolyGeometry).candidate())))
			return
		}
		s.rebuildHandle(sh)
	} else if !sh.FinishPolyline() {
		return
	}
	s.complete(sh)
}

// complete ends a drawing: select the result, record it and disarm.
func (s *EditingSession) complete(sh *Shape) {
	s.selection.Set(sh.id)
	s.pushState()
	s.current = nil
	s.tool = NoTool
}

// discard drops an empty shape in progress without a history entry.
func (s *EditingSession) discard(sh *Shape) {
	s.surface.Remove(sh.handle)
	s.registry.RemoveShape(sh.id)
	s.persp.forget(sh)
	s.current = nil
	s.tool = NoTool
}

// HitTest returns the topmost entity whose bounds contain p.
func (s *EditingSession) HitTest(p Point) (string, bool) {
	order := s.registry.TopLevel()
	for i := len(order) - 1; i >= 0; i-- {
		h := s.registry.HandleOf(order[i])
		if h == nil || !h.Selectable {
			continue
		}
		b := h.Bounds()
		b.Left -= hitSlop
		b.Top -= hitSlop
		b.Width += 2 * hitSlop
		b.Height += 2 * hitSlop
		if b.Contains(p) {
			return order[i], true
		}
	}
	return "", false
}

// SelectAt selects what is under p, or clears the selection. With add set
// the hit is toggled in the current selection.
func (s *EditingSession) SelectAt(p Point, add bool) {
	id, ok := s.HitTest(p)
	if !add {
		if ok {
			s.selection.Set(id)
		} else {
			s.selection.Clear()
		}
		return
	}
	if !ok {
		return
	}
	ids := s.selection.IDs()
	if i := slices.Index(ids, id); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
	} else {
		ids = append(ids, id)
	}
	s.selection.Set(ids...)
}

func (s *EditingSession) grab(p Point) {
	id, ok := s.HitTest(p)
	if !ok {
		s.selection.Clear()
		return
	}
	if !slices.Contains(s.selection.IDs(), id) {
		s.selection.Set(id)
	}
	s.drag = &p
	s.dragMoved = false
}

func (s *EditingSession) dragTo(p Point) {
	if s.drag == nil {
		return
	}
	dx, dy := p.X-s.drag.X, p.Y-s.drag.Y
	if dx == 0 && dy == 0 {
		return
	}
	s.translateSelection(dx, dy)
	s.drag = &p
	s.dragMoved = true
}

func (s *EditingSession) release(p Point) {
	if s.drag == nil {
		return
	}
	s.dragTo(p)
	moved := s.dragMoved
	s.drag = nil
	s.dragMoved = false
	if moved {
		s.pushState()
	}
}

// MoveSelection translates every selected entity and records one entry.
func (s *EditingSession) MoveSelection(dx, dy float64) bool {
	if !allFinite(dx, dy) || (dx == 0 && dy == 0) || len(s.selection.IDs()) == 0 {
		return false
	}
	s.translateSelection(dx, dy)
	s.pushState()
	return true
}

func (s *EditingSession) translateSelection(dx, dy float64) {
	for _, sh := range s.selectedShapes() {
		if err := sh.Translate(dx, dy); err != nil {
			logWarn(s.ctx, "move shape", slog.F("id", sh.id), slog.Error(err))
		}
	}
}

// selectedShapes flattens the selection to shapes, expanding groups.
func (s *EditingSession) selectedShapes() []*Shape {
	var out []*Shape
	for _, id := range s.selection.IDs() {
		if g := s.registry.Group(id); g != nil {
			for _, m := range g.members {
				if sh := s.registry.Shape(m); sh != nil {
					out = append(out, sh)
				}
			}
			continue
		}
		if sh := s.registry.Shape(id); sh != nil {
			out = append(out, sh)
		}
	}
	return out
}

// ApplyPropertyChanges patches the single selected shape. Bad fields are
// logged; the valid ones still apply and are recorded.
func (s *EditingSession) ApplyPropertyChanges(patch Patch) bool {
	sh, ok := s.selection.Single()
	if !ok {
		return false
	}
	if err := sh.ApplyPatch(patch); err != nil {
		logWarn(s.ctx, "property patch partly ignored", slog.F("id", sh.id), slog.Error(err))
	}
	s.selection.Set(sh.id)
	s.pushState()
	return true
}

// Delete removes the selected shapes and groups.
func (s *EditingSession) Delete() bool {
	ids := s.selection.IDs()
	if len(ids) == 0 {
		return false
	}
	s.selection.Clear()
	for _, id := range ids {
		if g := s.registry.Group(id); g != nil {
			s.surface.Remove(g.handle)
			members := g.Members()
			s.registry.RemoveGroup(id)
			for _, m := range members {
				s.registry.RemoveShape(m)
			}
			continue
		}
		sh := s.registry.Shape(id)
		if sh == nil {
			continue
		}
		if g, grouped := s.registry.GroupOf(id); grouped {
			s.registry.RemoveShape(id)
			s.dropMember(g, sh)
			continue
		}
		s.surface.Remove(sh.handle)
		s.registry.RemoveShape(id)
	}
	s.pushState()
	return true
}

// Clone duplicates the selected shapes, offset down and right, and selects
// the copies.
func (s *EditingSession) Clone() bool {
	shapes := s.selectedShapes()
	if len(shapes) == 0 {
		return false
	}
	ids := make([]string, 0, len(shapes))
	for _, sh := range shapes {
		c := sh.Clone()
		if err := c.Translate(cloneOffset, cloneOffset); err != nil {
			logWarn(s.ctx, "clone shape", slog.F("id", sh.id), slog.Error(err))
			continue
		}
		s.attach(c)
		ids = append(ids, c.id)
	}
	s.selection.Set(ids...)
	s.pushState()
	return true
}

func (s *EditingSession) Undo() bool {
	s.abandon()
	snap, ok, err := s.history.Undo()
	if err != nil {
		logError(s.ctx, "undo", slog.Error(err))
		return false
	}
	if ok {
		s.reload(snap)
	}
	return ok
}

func (s *EditingSession) Redo() bool {
	s.abandon()
	snap, ok, err := s.history.Redo()
	if err != nil {
		logError(s.ctx, "redo", slog.Error(err))
		return false
	}
	if ok {
		s.reload(snap)
	}
	return ok
}

// Reset empties the scene and the history, leaving one empty entry.
func (s *EditingSession) Reset() {
	s.abandon()
	s.selection.Clear()
	s.surface.Clear()
	s.registry.retireAll()
	s.history.Reset()
	s.pushState()
}

func (s *EditingSession) abandon() {
	s.current = nil
	s.tool = NoTool
	s.drag = nil
}

func (s *EditingSession) Snapshot() SceneSnapshot {
	return s.surface.Serialize(func(h *Handle) string {
		id, _ := s.registry.IDOf(h)
		return id
	})
}

func (s *EditingSession) pushState() {
	if err := s.history.Push(s.Snapshot()); err != nil {
		logError(s.ctx, "push history", slog.Error(err))
	}
}

// reload rebuilds the scene from snap and re-associates each handle with
// the shape saved under its model id. Handles with no such shape are
// dropped.
func (s *EditingSession) reload(snap SceneSnapshot) {
	s.selection.Clear()
	s.registry.retireAll()
	candidates := s.registry.retired

	loaded := s.surface.Deserialize(snap)
	for _, lh := range loaded {
		if lh.Handle.isGroup() {
			s.reloadGroup(lh, candidates)
			continue
		}
		sh, ok := s.rebind(lh, candidates)
		if !ok {
			s.surface.Remove(lh.Handle)
			continue
		}
		s.registry.AddShape(sh)
	}
	s.surface.RequestRender()
}

func (s *EditingSession) reloadGroup(lh LoadedHandle, candidates map[string]*Shape) {
	g := &Group{id: lh.ModelID, handle: lh.Handle}
	kept := lh.Handle.Members[:0]
	var members []*Shape
	for _, ml := range lh.Members {
		sh, ok := s.rebind(ml, candidates)
		if !ok {
			continue
		}
		kept = append(kept, ml.Handle)
		members = append(members, sh)
		g.members = append(g.members, sh.id)
	}
	lh.Handle.Members = kept
	if len(members) == 0 || g.id == "" {
		logWarn(s.ctx, "dropping empty group on reload", slog.F("group", lh.ModelID))
		s.surface.Remove(lh.Handle)
		return
	}
	for _, sh := range members {
		s.registry.addMember(sh, g.id)
	}
	s.registry.AddGroup(g)
}

func (s *EditingSession) rebind(lh LoadedHandle, candidates map[string]*Shape) (*Shape, bool) {
	sh, ok := candidates[lh.ModelID]
	if !ok {
		logWarn(s.ctx, "dropping handle with no matching shape", slog.F("model_id", lh.ModelID), slog.F("type", lh.Handle.Type))
		return nil, false
	}
	if err := sh.restore(lh.Handle.Shape); err != nil {
		logWarn(s.ctx, "dropping handle that does not restore", slog.F("model_id", lh.ModelID), slog.Error(err))
		return nil, false
	}
	sh.handle = lh.Handle
	sh.surface = s.surface
	sh.touch()
	sh.applyHatch()
	return sh, true
}

// LoadScene replaces the session with a saved scene. Shapes keep the
// identifiers they were saved with; history restarts at the loaded scene.
func (s *EditingSession) LoadScene(snap SceneSnapshot) {
	s.abandon()
	s.selection.Clear()
	s.registry.retireAll()
	s.registry.retired = map[string]*Shape{}
	s.adopt(snap.Objects)
	s.reload(snap)
	s.history.Reset()
	s.pushState()
}

// adopt builds detached shapes for every record so reload can bind them.
func (s *EditingSession) adopt(objs []ObjectRecord) {
	for _, o := range objs {
		if len(o.Members) > 0 {
			s.adopt(o.Members)
			continue
		}
		if o.Shape == nil || o.ModelID == "" {
			continue
		}
		sh, err := shapeFromRecord(*o.Shape)
		if err != nil {
			logWarn(s.ctx, "skipping unreadable shape", slog.F("model_id", o.ModelID), slog.Error(err))
			continue
		}
		sh.id = o.ModelID
		s.registry.retired[sh.id] = sh
	}
}

// insertRecords adds fresh shapes built from records, selects them and
// records one entry.
func (s *EditingSession) insertRecords(recs []ShapeRecord, dx, dy float64) int {
	var ids []string
	for _, rec := range recs {
		sh, err := shapeFromRecord(rec)
		if err != nil {
			logWarn(s.ctx, "skipping record", slog.F("type", rec.Type), slog.Error(err))
			continue
		}
		if err := sh.Translate(dx, dy); err != nil {
			logWarn(s.ctx, "skipping record", slog.F("type", rec.Type), slog.Error(err))
			continue
		}
		s.attach(sh)
		ids = append(ids, sh.id)
	}
	if len(ids) == 0 {
		return 0
	}
	s.abandon()
	s.selection.Set(ids...)
	s.pushState()
	return len(ids)
}

// SelectedRecords returns records for the selected shapes, groups expanded.
func (s *EditingSession) SelectedRecords() []ShapeRecord {
	shapes := s.selectedShapes()
	recs := make([]ShapeRecord, 0, len(shapes))
	for _, sh := range shapes {
		recs = append(recs, sh.Record())
	}
	return recs
}

// CycleSelection selects the next top-level entity after the current one.
func (s *EditingSession) CycleSelection() {
	order := s.registry.TopLevel()
	if len(order) == 0 {
		return
	}
	next := 0
	if ids := s.selection.IDs(); len(ids) == 1 {
		if i := slices.Index(order, ids[0]); i >= 0 {
			next = (i + 1) % len(order)
		}
	}
	s.selection.Set(order[next])
}

func (s *EditingSession) selectedPoly() (*Shape, *PolyGeometry, bool) {
	sh, ok := s.selection.Single()
	if !ok {
		return nil, nil, false
	}
	g, ok := sh.poly()
	return sh, g, ok && len(g.Points) > 0
}

func nearest(pts []Point, p Point) int {
	best, dist := -1, math.Inf(1)
	for i, q := range pts {
		if d := q.Dist(p); d < dist {
			best, dist = i, d
		}
	}
	return best
}

// DragVertex moves the vertex of the selected polygon nearest to from
// onto to.
func (s *EditingSession) DragVertex(from, to Point) bool {
	sh, g, ok := s.selectedPoly()
	if !ok || !sh.MoveVertex(nearest(g.Points, from), to.X, to.Y) {
		return false
	}
	s.pushState()
	return true
}

// SplitEdge inserts p into the edge of the selected polygon whose midpoint
// is nearest to it.
func (s *EditingSession) SplitEdge(p Point) bool {
	sh, g, ok := s.selectedPoly()
	if !ok {
		return false
	}
	i := nearest(g.EdgeMidpoints(), p)
	if i < 0 || !sh.InsertVertex(i, p.X, p.Y) {
		return false
	}
	s.pushState()
	return true
}

// DragEdge pulls the edge whose midpoint is nearest to from by a drag of
// (dx, dy).
func (s *EditingSession) DragEdge(from Point, dx, dy float64) bool {
	sh, g, ok := s.selectedPoly()
	if !ok {
		return false
	}
	i := nearest(g.EdgeMidpoints(), from)
	if i < 0 || !sh.NudgeEdge(i, dx, dy) {
		return false
	}
	s.pushState()
	return true
}

func skewForAngle(deg float64) float64 {
	return math.Tan(deg*math.Pi/180) * 100
}
