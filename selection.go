package main

import "slices"

type SelectionMode int

const (
	SelectionNone SelectionMode = iota
	SelectionSingle
	SelectionGrouped
)

func (m SelectionMode) String() string {
	switch m {
	case SelectionSingle:
		return "single"
	case SelectionGrouped:
		return "grouped"
	}
	return "none"
}

// SelectionEvent is what observers see. Shape is set in single mode only.
type SelectionEvent struct {
	Mode  SelectionMode
	Shape *Shape
	IDs   []string
}

const defaultMultiSelectStroke = 1.0

// SelectionManager tracks the active entities and keeps the surface's
// active set in step.
type SelectionManager struct {
	reg       *Registry
	surface   Surface
	ids       []string
	mode      SelectionMode
	observers []func(SelectionEvent)

	// multiStroke is the uniform outline width while several plain shapes
	// are selected.
	multiStroke float64
	stashed     []*Shape
}

func NewSelectionManager(reg *Registry, surface Surface) *SelectionManager {
	return &SelectionManager{reg: reg, surface: surface, multiStroke: defaultMultiSelectStroke}
}

// SetMultiStroke changes the uniform outline width used for multi-selections.
func (m *SelectionManager) SetMultiStroke(w float64) {
	if w > 0 && isFinite(w) {
		m.multiStroke = w
	}
}

func (m *SelectionManager) Observe(fn func(SelectionEvent)) {
	m.observers = append(m.observers, fn)
}

func (m *SelectionManager) Mode() SelectionMode { return m.mode }
func (m *SelectionManager) IDs() []string       { return slices.Clone(m.ids) }

// Single returns the selected shape in single mode.
func (m *SelectionManager) Single() (*Shape, bool) {
	if m.mode != SelectionSingle || len(m.ids) != 1 {
		return nil, false
	}
	s := m.reg.Shape(m.ids[0])
	return s, s != nil
}

// Group returns the selected group when exactly one group is active.
func (m *SelectionManager) Group() (*Group, bool) {
	if len(m.ids) != 1 {
		return nil, false
	}
	g := m.reg.Group(m.ids[0])
	return g, g != nil
}

// Set replaces the selection. Unknown ids are skipped. Any stroke overrides
// from a previous multi-selection are undone first.
func (m *SelectionManager) Set(ids ...string) {
	m.restoreStrokes()

	known := make([]string, 0, len(ids))
	handles := make([]*Handle, 0, len(ids))
	for _, id := range ids {
		h := m.reg.HandleOf(id)
		if h == nil || slices.Contains(known, id) {
			continue
		}
		known = append(known, id)
		handles = append(handles, h)
	}
	m.ids = known

	ev := SelectionEvent{IDs: slices.Clone(known)}
	switch {
	case len(known) == 0:
		m.mode = SelectionNone
	case len(known) == 1 && handles[0].isGroup():
		m.mode = SelectionGrouped
	case len(known) == 1:
		m.mode = SelectionSingle
		ev.Shape = m.reg.Shape(known[0])
	default:
		m.mode = SelectionGrouped
		for _, id := range known {
			if s := m.reg.Shape(id); s != nil {
				s.stashStroke(m.multiStroke)
				m.stashed = append(m.stashed, s)
			}
		}
	}
	ev.Mode = m.mode

	if m.surface != nil {
		m.surface.SetActive(handles...)
	}
	for _, fn := range m.observers {
		fn(ev)
	}
}

func (m *SelectionManager) Clear() {
	m.Set()
}

func (m *SelectionManager) restoreStrokes() {
	for _, s := range m.stashed {
		s.restoreStroke()
	}
	m.stashed = nil
}

// Bounds is the aggregate box of the current selection. It is computed on
// demand and not kept.
func (m *SelectionManager) Bounds() (Rect, bool) {
	var (
		r     Rect
		found bool
	)
	for _, id := range m.ids {
		h := m.reg.HandleOf(id)
		if h == nil {
			continue
		}
		b := h.Bounds()
		if !found {
			r, found = b, true
			continue
		}
		r = r.Union(b)
	}
	return r, found
}
