package main

import (
	"slices"

	"github.com/google/uuid"
)

// Group is a composite of shapes presented by one group handle.
type Group struct {
	id      string
	members []string
	handle  *Handle
}

func newGroupID() string {
	return "group_" + uuid.NewString()
}

func (g *Group) ID() string        { return g.id }
func (g *Group) Members() []string { return slices.Clone(g.members) }
func (g *Group) Handle() *Handle   { return g.handle }

// Registry owns every live shape and group. It maps identifiers to handles
// and handles back to identifiers.
type Registry struct {
	// order holds top-level entity ids in stacking order. Grouped shapes
	// are reachable through their group only.
	order   []string
	shapes  map[string]*Shape
	groups  map[string]*Group
	handles map[string]*Handle
	ids     map[*Handle]string
	// memberOf maps a grouped shape to its group.
	memberOf map[string]string
	// retired keeps deleted shapes so a history reload can bring them back
	// with their original identity.
	retired map[string]*Shape
}

func NewRegistry() *Registry {
	r := &Registry{retired: map[string]*Shape{}}
	r.reset()
	return r
}

func (r *Registry) reset() {
	r.order = nil
	r.shapes = map[string]*Shape{}
	r.groups = map[string]*Group{}
	r.handles = map[string]*Handle{}
	r.ids = map[*Handle]string{}
	r.memberOf = map[string]string{}
}

// Bind associates id with h, replacing any previous handle for id.
func (r *Registry) Bind(id string, h *Handle) {
	if old, ok := r.handles[id]; ok {
		delete(r.ids, old)
	}
	r.handles[id] = h
	if h != nil {
		r.ids[h] = id
	}
}

// AddShape registers a top-level shape with its handle.
func (r *Registry) AddShape(s *Shape) {
	if _, ok := r.shapes[s.id]; !ok {
		r.order = append(r.order, s.id)
	}
	r.shapes[s.id] = s
	delete(r.retired, s.id)
	r.Bind(s.id, s.handle)
}

// addMember registers a shape that lives inside a group.
func (r *Registry) addMember(s *Shape, groupID string) {
	r.shapes[s.id] = s
	r.memberOf[s.id] = groupID
	delete(r.retired, s.id)
	r.Bind(s.id, s.handle)
}

func (r *Registry) AddGroup(g *Group) {
	for _, id := range g.members {
		r.order = slices.DeleteFunc(r.order, func(o string) bool { return o == id })
		r.memberOf[id] = g.id
	}
	if _, ok := r.groups[g.id]; !ok {
		r.order = append(r.order, g.id)
	}
	r.groups[g.id] = g
	r.Bind(g.id, g.handle)
}

// RemoveGroup dissolves g; its members become top-level in member order.
func (r *Registry) RemoveGroup(id string) *Group {
	g, ok := r.groups[id]
	if !ok {
		return nil
	}
	i := slices.Index(r.order, id)
	r.order = slices.Delete(r.order, i, i+1)
	for _, m := range g.members {
		delete(r.memberOf, m)
		r.order = append(r.order, m)
	}
	delete(r.groups, id)
	if h, ok := r.handles[id]; ok {
		delete(r.ids, h)
		delete(r.handles, id)
	}
	return g
}

// RemoveShape unregisters a shape and retires it.
func (r *Registry) RemoveShape(id string) *Shape {
	s, ok := r.shapes[id]
	if !ok {
		return nil
	}
	if i := slices.Index(r.order, id); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	if gid, ok := r.memberOf[id]; ok {
		if g := r.groups[gid]; g != nil {
			g.members = slices.DeleteFunc(g.members, func(m string) bool { return m == id })
		}
		delete(r.memberOf, id)
	}
	delete(r.shapes, id)
	if h, ok := r.handles[id]; ok {
		delete(r.ids, h)
		delete(r.handles, id)
	}
	r.retired[id] = s
	return s
}

func (r *Registry) Shape(id string) *Shape { return r.shapes[id] }
func (r *Registry) Group(id string) *Group { return r.groups[id] }

func (r *Registry) HandleOf(id string) *Handle { return r.handles[id] }

// IDOf is the reverse lookup from a surface handle.
func (r *Registry) IDOf(h *Handle) (string, bool) {
	id, ok := r.ids[h]
	return id, ok
}

func (r *Registry) GroupOf(shapeID string) (*Group, bool) {
	gid, ok := r.memberOf[shapeID]
	if !ok {
		return nil, false
	}
	g, ok := r.groups[gid]
	return g, ok
}

// TopLevel lists entity ids in stacking order.
func (r *Registry) TopLevel() []string {
	return slices.Clone(r.order)
}

// Shapes lists every live shape, group members included, in stacking order.
func (r *Registry) Shapes() []*Shape {
	out := make([]*Shape, 0, len(r.shapes))
	for _, id := range r.order {
		if g, ok := r.groups[id]; ok {
			for _, m := range g.members {
				out = append(out, r.shapes[m])
			}
			continue
		}
		out = append(out, r.shapes[id])
	}
	return out
}

func (r *Registry) Len() int { return len(r.shapes) }

// retireAll moves every live shape to the retired set and empties the
// registry, ready for a reload.
func (r *Registry) retireAll() {
	for id, s := range r.shapes {
		r.retired[id] = s
	}
	r.reset()
}
