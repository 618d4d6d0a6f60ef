// Package morph implements the morphology graph: the node/edge store the
// growth strategies and the adaptation engine mutate, with its invariants and
// spatial proximity queries.
package morph

import (
	"fmt"
	"math"

	"morphogen/pkg/core"
)

const (
	// MinStrength is the floor for edge strength; weakening never removes an
	// edge implicitly, pruning is explicit.
	MinStrength = 0.1
	// InitialStrength is assigned to newly created edges.
	InitialStrength = 0.5
	// MinGrowthEnergy is the energy floor below which a node cannot originate
	// new growth.
	MinGrowthEnergy = 0.05
	// RootEnergy is the elevated starting energy of root nodes.
	RootEnergy = 2.0
	// InitialEnergy is the starting energy of ordinary nodes.
	InitialEnergy = 1.0
)

// Graph stores nodes and edges in dense arenas indexed by id. All mutation
// enforces the structural invariants; violating them is a programming error
// and panics.
type Graph struct {
	maxNodes int

	nodes []Node
	edges []Edge
	pairs map[pairKey]EdgeID

	liveEdges int
	grid      *cellGrid
}

type pairKey struct {
	a, b NodeID
}

func makePair(a, b NodeID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// NewGraph constructs an empty graph. maxNodes caps the total node count;
// cellSize sets the proximity grid resolution and should be close to the
// maximum connection distance.
func NewGraph(maxNodes int, cellSize float64) *Graph {
	if maxNodes <= 0 {
		maxNodes = 2000
	}
	return &Graph{
		maxNodes: maxNodes,
		pairs:    make(map[pairKey]EdgeID),
		grid:     newCellGrid(cellSize),
	}
}

// MaxNodes returns the configured node ceiling.
func (g *Graph) MaxNodes() int { return g.maxNodes }

// Full reports whether the node ceiling has been reached.
func (g *Graph) Full() bool { return len(g.nodes) >= g.maxNodes }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of live (unpruned) edges.
func (g *Graph) EdgeCount() int { return g.liveEdges }

// CreateNode adds a node at the given position and returns its id. Calling
// CreateNode on a full graph is a programming error.
func (g *Graph) CreateNode(pos core.Vec3) NodeID {
	if g.Full() {
		panic(fmt.Sprintf("morph: node ceiling %d exceeded", g.maxNodes))
	}
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{
		ID:              id,
		Position:        pos,
		Energy:          InitialEnergy,
		GrowthPotential: 1,
	})
	g.grid.insert(id, pos)
	return id
}

// CreateRoot adds an anchored root node with elevated energy.
func (g *Graph) CreateRoot(pos core.Vec3) NodeID {
	id := g.CreateNode(pos)
	n := g.Node(id)
	n.Root = true
	n.Anchored = true
	n.Energy = RootEnergy
	return id
}

// Node returns a pointer into the node arena. The pointer stays valid until
// the next CreateNode call; do not retain it across mutations.
func (g *Graph) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(g.nodes) {
		panic(fmt.Sprintf("morph: unknown node id %d", id))
	}
	return &g.nodes[id]
}

// Valid reports whether id references an existing node.
func (g *Graph) Valid(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// Edge returns a pointer to the edge record.
func (g *Graph) Edge(id EdgeID) *Edge {
	if id < 0 || int(id) >= len(g.edges) {
		panic(fmt.Sprintf("morph: unknown edge id %d", id))
	}
	return &g.edges[id]
}

// CreateEdge connects a and b and returns the new edge id. It is a no-op
// returning ok=false when a == b, either endpoint is unknown, or the pair is
// already connected.
func (g *Graph) CreateEdge(a, b NodeID) (EdgeID, bool) {
	if a == b || !g.Valid(a) || !g.Valid(b) {
		return 0, false
	}
	key := makePair(a, b)
	if _, dup := g.pairs[key]; dup {
		return 0, false
	}
	id := EdgeID(len(g.edges))
	na, nb := g.Node(a), g.Node(b)
	g.edges = append(g.edges, Edge{
		ID:         id,
		A:          key.a,
		B:          key.b,
		Strength:   InitialStrength,
		RestLength: na.Position.Dist(nb.Position),
	})
	g.pairs[key] = id
	na.edges = append(na.edges, id)
	nb.edges = append(nb.edges, id)
	g.liveEdges++
	g.refreshPotential(a)
	g.refreshPotential(b)
	return id, true
}

// RemoveEdge prunes the edge and drops the back-references on its endpoints.
// Removing an already-pruned edge is a no-op.
func (g *Graph) RemoveEdge(id EdgeID) {
	e := g.Edge(id)
	if e.removed {
		return
	}
	e.removed = true
	delete(g.pairs, makePair(e.A, e.B))
	g.dropBackref(e.A, id)
	g.dropBackref(e.B, id)
	g.liveEdges--
	g.refreshPotential(e.A)
	g.refreshPotential(e.B)
}

func (g *Graph) dropBackref(node NodeID, edge EdgeID) {
	n := g.Node(node)
	for i, eid := range n.edges {
		if eid == edge {
			n.edges[i] = n.edges[len(n.edges)-1]
			n.edges = n.edges[:len(n.edges)-1]
			return
		}
	}
	panic(fmt.Sprintf("morph: node %d missing back-reference to edge %d", node, edge))
}

// refreshPotential recomputes growth potential from the connection count.
func (g *Graph) refreshPotential(id NodeID) {
	n := g.Node(id)
	n.GrowthPotential = 1 / (1 + 0.35*float64(len(n.edges)))
}

// Connected reports whether an edge exists between a and b.
func (g *Graph) Connected(a, b NodeID) bool {
	if !g.Valid(a) || !g.Valid(b) {
		return false
	}
	_, ok := g.pairs[makePair(a, b)]
	return ok
}

// Neighbors returns the ids of nodes sharing an edge with id.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	n := g.Node(id)
	out := make([]NodeID, 0, len(n.edges))
	for _, eid := range n.edges {
		out = append(out, g.edges[eid].Other(id))
	}
	return out
}

// AdjustStrength shifts an edge's strength by delta, clamped to
// [MinStrength, 1], and returns the applied change.
func (g *Graph) AdjustStrength(id EdgeID, delta float64) float64 {
	e := g.Edge(id)
	if e.removed {
		return 0
	}
	prev := e.Strength
	e.Strength = core.Clamp(prev+delta, MinStrength, 1)
	return e.Strength - prev
}

// ForEachNode visits every node in id order.
func (g *Graph) ForEachNode(fn func(*Node)) {
	for i := range g.nodes {
		fn(&g.nodes[i])
	}
}

// ForEachEdge visits every live edge in id order.
func (g *Graph) ForEachEdge(fn func(*Edge)) {
	for i := range g.edges {
		if g.edges[i].removed {
			continue
		}
		fn(&g.edges[i])
	}
}

// NearestDistance returns the distance from pos to the closest node, or +Inf
// for an empty graph.
func (g *Graph) NearestDistance(pos core.Vec3) float64 {
	return g.grid.nearestDistance(pos, func(id NodeID) core.Vec3 {
		return g.nodes[id].Position
	})
}

// HasWithin reports whether any node lies within radius of pos.
func (g *Graph) HasWithin(pos core.Vec3, radius float64) bool {
	found := false
	g.grid.within(pos, radius, func(id NodeID) core.Vec3 {
		return g.nodes[id].Position
	}, func(NodeID, float64) bool {
		found = true
		return false
	})
	return found
}

// Within visits every node inside radius of pos, closest first not
// guaranteed. Returning false from visit stops the walk.
func (g *Graph) Within(pos core.Vec3, radius float64, visit func(id NodeID, dist float64) bool) {
	g.grid.within(pos, radius, func(id NodeID) core.Vec3 {
		return g.nodes[id].Position
	}, visit)
}

// Clear removes every node and edge.
func (g *Graph) Clear() {
	g.nodes = g.nodes[:0]
	g.edges = g.edges[:0]
	g.pairs = make(map[pairKey]EdgeID)
	g.liveEdges = 0
	g.grid.clear()
}

// Check validates the full invariant set. It is called from tests and panics
// on the first violation.
func (g *Graph) Check() {
	seen := make(map[pairKey]EdgeID, len(g.edges))
	for i := range g.edges {
		e := &g.edges[i]
		if e.removed {
			continue
		}
		if !g.Valid(e.A) || !g.Valid(e.B) {
			panic(fmt.Sprintf("morph: edge %d has dangling endpoint", e.ID))
		}
		if e.A == e.B {
			panic(fmt.Sprintf("morph: edge %d is a self-edge", e.ID))
		}
		key := makePair(e.A, e.B)
		if prev, dup := seen[key]; dup {
			panic(fmt.Sprintf("morph: edges %d and %d duplicate pair (%d,%d)", prev, e.ID, key.a, key.b))
		}
		seen[key] = e.ID
		if e.Strength < MinStrength-core.Epsilon || e.Strength > 1+core.Epsilon {
			panic(fmt.Sprintf("morph: edge %d strength %f out of range", e.ID, e.Strength))
		}
	}
	if len(g.nodes) > g.maxNodes {
		panic(fmt.Sprintf("morph: %d nodes exceed ceiling %d", len(g.nodes), g.maxNodes))
	}
	for i := range g.nodes {
		n := &g.nodes[i]
		if n.Stress < -core.Epsilon || n.Stress > 1+core.Epsilon {
			panic(fmt.Sprintf("morph: node %d stress %f out of range", n.ID, n.Stress))
		}
		if n.GrowthPotential < -core.Epsilon || n.GrowthPotential > 1+core.Epsilon {
			panic(fmt.Sprintf("morph: node %d growth potential %f out of range", n.ID, n.GrowthPotential))
		}
		if math.IsNaN(n.Energy) || n.Energy < 0 {
			panic(fmt.Sprintf("morph: node %d energy %f invalid", n.ID, n.Energy))
		}
	}
}
