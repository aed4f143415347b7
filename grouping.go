package main

import (
	"slices"

	"cdr.dev/slog"
)

// Group wraps a multi-shape selection into one composite. Anything other
// than a selection of two or more ungrouped shapes is ignored.
func (s *EditingSession) Group() bool {
	ids := s.selection.IDs()
	if len(ids) < 2 {
		return false
	}
	for _, id := range ids {
		if s.registry.Shape(id) == nil {
			return false
		}
		if _, grouped := s.registry.GroupOf(id); grouped {
			return false
		}
	}

	s.selection.Clear()
	g := &Group{id: newGroupID()}
	gh := &Handle{Type: groupType, Selectable: true}
	for _, id := range ids {
		sh := s.registry.Shape(id)
		mh := sh.handle
		s.surface.Remove(mh)
		mh.PrevSelectable = mh.Selectable
		mh.Selectable = true
		gh.Members = append(gh.Members, mh)
		g.members = append(g.members, id)
	}
	g.handle = gh
	s.surface.Add(gh)
	s.registry.AddGroup(g)
	s.selection.Set(g.id)
	s.pushState()
	logDebug(s.ctx, "grouped shapes", slog.F("group", g.id), slog.F("members", len(g.members)))
	return true
}

// Ungroup dissolves the selected group and selects its former members.
func (s *EditingSession) Ungroup() bool {
	g, ok := s.selection.Group()
	if !ok {
		return false
	}
	s.selection.Clear()
	s.surface.Remove(g.handle)
	s.registry.RemoveGroup(g.id)
	for _, id := range g.members {
		sh := s.registry.Shape(id)
		if sh == nil {
			continue
		}
		sh.handle.Selectable = sh.handle.PrevSelectable
		sh.handle.PrevSelectable = false
		s.surface.Add(sh.handle)
		sh.touch()
	}
	s.selection.Set(g.members...)
	s.pushState()
	logDebug(s.ctx, "ungrouped shapes", slog.F("group", g.id))
	return true
}

// SelectSubTarget selects the first member of the active group on its own.
// Group membership is untouched.
func (s *EditingSession) SelectSubTarget() bool {
	g, ok := s.selection.Group()
	if !ok || len(g.members) == 0 {
		return false
	}
	first := s.registry.Shape(g.members[0])
	if first == nil {
		return false
	}
	first.handle.Selectable = true
	s.selection.Set(first.id)
	return true
}

// dropMember removes a deleted shape's handle from its group. A group left
// with no members goes too.
func (s *EditingSession) dropMember(g *Group, sh *Shape) {
	g.handle.Members = slices.DeleteFunc(g.handle.Members, func(h *Handle) bool { return h == sh.handle })
	if len(g.handle.Members) == 0 {
		s.surface.Remove(g.handle)
		s.registry.RemoveGroup(g.id)
	}
}
