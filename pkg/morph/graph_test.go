package morph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morphogen/pkg/core"
)

func TestCreateNodeDefaults(t *testing.T) {
	g := NewGraph(10, 3)
	id := g.CreateNode(core.Vec3{X: 1, Y: 2, Z: 3})
	n := g.Node(id)

	require.Equal(t, NodeID(0), id)
	assert.Equal(t, core.Vec3{X: 1, Y: 2, Z: 3}, n.Position)
	assert.Equal(t, InitialEnergy, n.Energy)
	assert.Equal(t, 1.0, n.GrowthPotential)
	assert.Zero(t, n.Stress)
	assert.False(t, n.Root)
	assert.True(t, n.CanGrow())
}

func TestCreateRoot(t *testing.T) {
	g := NewGraph(10, 3)
	id := g.CreateRoot(core.Vec3{})
	n := g.Node(id)

	assert.True(t, n.Root)
	assert.True(t, n.Anchored)
	assert.Equal(t, RootEnergy, n.Energy)
}

func TestNodeCeiling(t *testing.T) {
	g := NewGraph(2, 3)
	g.CreateNode(core.Vec3{})
	g.CreateNode(core.Vec3{X: 5})
	require.True(t, g.Full())
	assert.Panics(t, func() { g.CreateNode(core.Vec3{X: 10}) })
}

func TestCreateEdge(t *testing.T) {
	g := NewGraph(10, 3)
	a := g.CreateNode(core.Vec3{})
	b := g.CreateNode(core.Vec3{X: 2})

	id, ok := g.CreateEdge(a, b)
	require.True(t, ok)
	e := g.Edge(id)
	assert.Equal(t, InitialStrength, e.Strength)
	assert.Equal(t, 2.0, e.RestLength)
	assert.Equal(t, b, e.Other(a))
	assert.Equal(t, a, e.Other(b))
	assert.True(t, g.Connected(a, b))
	assert.True(t, g.Connected(b, a))
	assert.Equal(t, 1, g.EdgeCount())

	// Degree lowers growth potential on both endpoints.
	assert.InDelta(t, 1/1.35, g.Node(a).GrowthPotential, 1e-12)
	assert.InDelta(t, 1/1.35, g.Node(b).GrowthPotential, 1e-12)

	g.Check()
}

func TestCreateEdgeRejectsSelfAndDuplicates(t *testing.T) {
	g := NewGraph(10, 3)
	a := g.CreateNode(core.Vec3{})
	b := g.CreateNode(core.Vec3{X: 1})
	_, ok := g.CreateEdge(a, b)
	require.True(t, ok)

	_, ok = g.CreateEdge(a, a)
	assert.False(t, ok, "self-edge must be a no-op")
	_, ok = g.CreateEdge(a, b)
	assert.False(t, ok, "duplicate must be a no-op")
	_, ok = g.CreateEdge(b, a)
	assert.False(t, ok, "reversed duplicate must be a no-op")
	_, ok = g.CreateEdge(a, NodeID(99))
	assert.False(t, ok, "unknown endpoint must be a no-op")

	assert.Equal(t, 1, g.EdgeCount())
	g.Check()
}

func TestRemoveEdge(t *testing.T) {
	g := NewGraph(10, 3)
	a := g.CreateNode(core.Vec3{})
	b := g.CreateNode(core.Vec3{X: 1})
	c := g.CreateNode(core.Vec3{X: 2})
	ab, _ := g.CreateEdge(a, b)
	g.CreateEdge(b, c)

	g.RemoveEdge(ab)
	assert.False(t, g.Connected(a, b))
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 0, g.Node(a).Degree())
	assert.Equal(t, 1, g.Node(b).Degree())
	assert.Equal(t, 1.0, g.Node(a).GrowthPotential)

	// Removing again is a no-op.
	g.RemoveEdge(ab)
	assert.Equal(t, 1, g.EdgeCount())

	// The pair can reconnect after removal.
	_, ok := g.CreateEdge(a, b)
	assert.True(t, ok)
	g.Check()
}

func TestNeighbors(t *testing.T) {
	g := NewGraph(10, 3)
	hub := g.CreateNode(core.Vec3{})
	var spokes []NodeID
	for i := 1; i <= 3; i++ {
		id := g.CreateNode(core.Vec3{X: float64(i)})
		g.CreateEdge(hub, id)
		spokes = append(spokes, id)
	}
	assert.ElementsMatch(t, spokes, g.Neighbors(hub))
	assert.Equal(t, []NodeID{hub}, g.Neighbors(spokes[0]))
}

func TestAdjustStrengthClamping(t *testing.T) {
	g := NewGraph(10, 3)
	a := g.CreateNode(core.Vec3{})
	b := g.CreateNode(core.Vec3{X: 1})
	id, _ := g.CreateEdge(a, b)

	applied := g.AdjustStrength(id, 10)
	assert.InDelta(t, 1-InitialStrength, applied, 1e-12)
	assert.Equal(t, 1.0, g.Edge(id).Strength)

	applied = g.AdjustStrength(id, -10)
	assert.InDelta(t, MinStrength-1, applied, 1e-12)
	assert.Equal(t, MinStrength, g.Edge(id).Strength)

	// Removed edges absorb nothing.
	g.RemoveEdge(id)
	assert.Zero(t, g.AdjustStrength(id, 0.5))
	g.Check()
}

func TestClear(t *testing.T) {
	g := NewGraph(10, 3)
	a := g.CreateNode(core.Vec3{})
	b := g.CreateNode(core.Vec3{X: 1})
	g.CreateEdge(a, b)

	g.Clear()
	assert.Zero(t, g.NodeCount())
	assert.Zero(t, g.EdgeCount())
	assert.False(t, g.HasWithin(core.Vec3{}, 100))

	// The arena is reusable after clearing.
	id := g.CreateNode(core.Vec3{X: 5})
	assert.Equal(t, NodeID(0), id)
	g.Check()
}

func TestForEachEdgeSkipsRemoved(t *testing.T) {
	g := NewGraph(10, 3)
	a := g.CreateNode(core.Vec3{})
	b := g.CreateNode(core.Vec3{X: 1})
	c := g.CreateNode(core.Vec3{X: 2})
	ab, _ := g.CreateEdge(a, b)
	bc, _ := g.CreateEdge(b, c)
	g.RemoveEdge(ab)

	var seen []EdgeID
	g.ForEachEdge(func(e *Edge) { seen = append(seen, e.ID) })
	assert.Equal(t, []EdgeID{bc}, seen)
}
