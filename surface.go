package main

import (
	"image"
	"slices"
)

const groupType = "group"

// Handle is the surface's presentation object for one shape or one group.
// The surface owns handles; shapes only push presentation state into them.
type Handle struct {
	Type       string
	Selectable bool
	Shape      ShapeRecord

	// StrokeOverride, when nonzero, is drawn instead of Shape.Style.StrokeWidth.
	StrokeOverride float64
	// Members is set on group handles only.
	Members []*Handle
	// PrevSelectable is a member's selectability before it was grouped.
	PrevSelectable bool

	Pattern    image.Image
	patternRev int
}

func (h *Handle) isGroup() bool {
	return h != nil && h.Type == groupType
}

func (h *Handle) strokeWidth() float64 {
	if h.StrokeOverride > 0 {
		return h.StrokeOverride
	}
	return h.Shape.Style.StrokeWidth
}

// Bounds of a shape handle come from its record; a group covers its members.
func (h *Handle) Bounds() Rect {
	if h.isGroup() {
		var r Rect
		for i, m := range h.Members {
			if i == 0 {
				r = m.Bounds()
				continue
			}
			r = r.Union(m.Bounds())
		}
		return r
	}
	if g := h.Shape.geometry(); g != nil {
		return g.bounds()
	}
	return Rect{}
}

// Surface is the 2D presentation layer the editing session drives.
type Surface interface {
	Add(h *Handle)
	Remove(h *Handle)
	// Replace swaps old for h at the same stacking position.
	Replace(old, h *Handle)
	Objects() []*Handle
	SetActive(hs ...*Handle)
	Active() []*Handle
	// RequestRender marks the surface dirty. Requests before the next frame
	// collapse into one.
	RequestRender()
	Clear()
	Serialize(label func(*Handle) string) SceneSnapshot
	Deserialize(snap SceneSnapshot) []LoadedHandle
}

// SceneSnapshot is the persisted scene: top-level objects in stacking order.
type SceneSnapshot struct {
	Version int            `json:"version"`
	Objects []ObjectRecord `json:"objects"`
}

type ObjectRecord struct {
	ModelID        string         `json:"modelId"`
	Type           string         `json:"type"`
	Selectable     bool           `json:"selectable"`
	PrevSelectable bool           `json:"prevSelectable,omitempty"`
	Shape          *ShapeRecord   `json:"shape,omitempty"`
	Members        []ObjectRecord `json:"members,omitempty"`
}

// LoadedHandle pairs a rebuilt handle with the model identifier it was
// saved under.
type LoadedHandle struct {
	Handle  *Handle
	ModelID string
	Members []LoadedHandle
}

const snapshotVersion = 1

// MemorySurface keeps handles in memory. The terminal view and the PNG
// exporter both draw from it.
type MemorySurface struct {
	objects []*Handle
	active  []*Handle
	dirty   bool
	frames  int
}

func NewMemorySurface() *MemorySurface {
	return &MemorySurface{}
}

func (s *MemorySurface) Add(h *Handle) {
	if h == nil || slices.Contains(s.objects, h) {
		return
	}
	s.objects = append(s.objects, h)
	s.RequestRender()
}

func (s *MemorySurface) Remove(h *Handle) {
	if i := slices.Index(s.objects, h); i >= 0 {
		s.objects = slices.Delete(s.objects, i, i+1)
	}
	if i := slices.Index(s.active, h); i >= 0 {
		s.active = slices.Delete(s.active, i, i+1)
	}
	s.RequestRender()
}

func (s *MemorySurface) Replace(old, h *Handle) {
	i := slices.Index(s.objects, old)
	if i < 0 {
		s.Add(h)
		return
	}
	s.objects[i] = h
	if j := slices.Index(s.active, old); j >= 0 {
		s.active[j] = h
	}
	s.RequestRender()
}

func (s *MemorySurface) Objects() []*Handle {
	return slices.Clone(s.objects)
}

func (s *MemorySurface) SetActive(hs ...*Handle) {
	s.active = slices.Clone(hs)
	s.RequestRender()
}

func (s *MemorySurface) Active() []*Handle {
	return slices.Clone(s.active)
}

func (s *MemorySurface) RequestRender() {
	s.dirty = true
}

// Flush ends a frame. It reports whether a repaint was requested since the
// last frame.
func (s *MemorySurface) Flush() bool {
	if !s.dirty {
		return false
	}
	s.dirty = false
	s.frames++
	return true
}

// Frames counts repaints actually performed.
func (s *MemorySurface) Frames() int {
	return s.frames
}

func (s *MemorySurface) Clear() {
	s.objects = nil
	s.active = nil
	s.RequestRender()
}

func (s *MemorySurface) Serialize(label func(*Handle) string) SceneSnapshot {
	snap := SceneSnapshot{Version: snapshotVersion, Objects: make([]ObjectRecord, 0, len(s.objects))}
	for _, h := range s.objects {
		snap.Objects = append(snap.Objects, objectRecord(h, label))
	}
	return snap
}

func objectRecord(h *Handle, label func(*Handle) string) ObjectRecord {
	rec := ObjectRecord{
		ModelID:        label(h),
		Type:           h.Type,
		Selectable:     h.Selectable,
		PrevSelectable: h.PrevSelectable,
	}
	if h.isGroup() {
		for _, m := range h.Members {
			rec.Members = append(rec.Members, objectRecord(m, label))
		}
		return rec
	}
	shape := h.Shape
	rec.Shape = &shape
	return rec
}

// Deserialize replaces the scene with fresh handles built from snap.
func (s *MemorySurface) Deserialize(snap SceneSnapshot) []LoadedHandle {
	s.Clear()
	loaded := make([]LoadedHandle, 0, len(snap.Objects))
	for _, rec := range snap.Objects {
		lh := loadObject(rec)
		s.objects = append(s.objects, lh.Handle)
		loaded = append(loaded, lh)
	}
	return loaded
}

func loadObject(rec ObjectRecord) LoadedHandle {
	h := &Handle{
		Type:           rec.Type,
		Selectable:     rec.Selectable,
		PrevSelectable: rec.PrevSelectable,
	}
	lh := LoadedHandle{Handle: h, ModelID: rec.ModelID}
	if rec.Shape != nil {
		h.Shape = *rec.Shape
	}
	for _, m := range rec.Members {
		ml := loadObject(m)
		h.Members = append(h.Members, ml.Handle)
		lh.Members = append(lh.Members, ml)
	}
	return lh
}
