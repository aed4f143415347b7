package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registeredShape(t *testing.T, r *Registry) *Shape {
	t.Helper()
	sh := NewShape(KindRectangle)
	require.NoError(t, sh.Initialize(0, 0))
	sh.handle = &Handle{Selectable: true}
	r.AddShape(sh)
	return sh
}

func TestRegistryBidirectionalLookup(t *testing.T) {
	r := NewRegistry()
	sh := registeredShape(t, r)

	assert.Same(t, sh.handle, r.HandleOf(sh.ID()))
	id, ok := r.IDOf(sh.handle)
	require.True(t, ok)
	assert.Equal(t, sh.ID(), id)
	assert.True(t, strings.HasPrefix(sh.ID(), "shape_"))

	h := &Handle{}
	r.Bind(sh.ID(), h)
	_, ok = r.IDOf(sh.handle)
	assert.False(t, ok, "rebinding drops the old reverse entry")
	id, _ = r.IDOf(h)
	assert.Equal(t, sh.ID(), id)
}

func TestRegistryRemoveRetires(t *testing.T) {
	r := NewRegistry()
	sh := registeredShape(t, r)

	assert.Same(t, sh, r.RemoveShape(sh.ID()))
	assert.Nil(t, r.Shape(sh.ID()))
	assert.Nil(t, r.HandleOf(sh.ID()))
	assert.Same(t, sh, r.retired[sh.ID()])
	assert.Nil(t, r.RemoveShape(sh.ID()))

	r.AddShape(sh)
	assert.NotContains(t, r.retired, sh.ID())
	assert.Equal(t, []string{sh.ID()}, r.TopLevel())
}

func TestRegistryGroups(t *testing.T) {
	r := NewRegistry()
	a, b, c := registeredShape(t, r), registeredShape(t, r), registeredShape(t, r)

	g := &Group{id: newGroupID(), members: []string{a.ID(), b.ID()}, handle: &Handle{Type: groupType}}
	r.AddGroup(g)
	assert.Equal(t, []string{c.ID(), g.ID()}, r.TopLevel())
	got, ok := r.GroupOf(a.ID())
	require.True(t, ok)
	assert.Same(t, g, got)
	assert.Equal(t, []*Shape{c, a, b}, r.Shapes())
	assert.Equal(t, 3, r.Len())

	r.RemoveShape(a.ID())
	assert.Equal(t, []string{b.ID()}, g.Members())

	assert.Same(t, g, r.RemoveGroup(g.ID()))
	assert.Equal(t, []string{c.ID(), b.ID()}, r.TopLevel())
	_, ok = r.GroupOf(b.ID())
	assert.False(t, ok)
	assert.Nil(t, r.HandleOf(g.ID()))
	assert.Nil(t, r.RemoveGroup(g.ID()))
}

func TestRegistryRetireAll(t *testing.T) {
	r := NewRegistry()
	a, b := registeredShape(t, r), registeredShape(t, r)
	r.retireAll()

	assert.Zero(t, r.Len())
	assert.Empty(t, r.TopLevel())
	assert.Len(t, r.retired, 2)
	assert.Same(t, a, r.retired[a.ID()])
	assert.Same(t, b, r.retired[b.ID()])
}
