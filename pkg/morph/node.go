package morph

import "morphogen/pkg/core"

// NodeID identifies a node in the graph. Ids are dense arena indices and are
// never reused within a run.
type NodeID int32

// EdgeID identifies an edge record owned by the graph.
type EdgeID int32

// Node is a point in the structure. The graph owns the authoritative edge
// records; a node only keeps back-references to the edges touching it.
type Node struct {
	ID       NodeID
	Position core.Vec3

	// Energy gates eligibility to originate new growth. It decays with time
	// and with connection count and is unbounded above.
	Energy float64
	// GrowthPotential is in [0,1] and shrinks as the connection count rises.
	GrowthPotential float64
	// Stress is in [0,1], exponentially smoothed from external force samples.
	Stress float64

	Anchored bool
	Root     bool

	edges []EdgeID
}

// Edges returns the ids of edges touching the node.
func (n *Node) Edges() []EdgeID { return n.edges }

// Degree returns the number of live edges touching the node.
func (n *Node) Degree() int { return len(n.edges) }

// CanGrow reports whether the node has enough energy to originate growth.
func (n *Node) CanGrow() bool { return n.Energy >= MinGrowthEnergy }

// Edge is an undirected link between two distinct nodes. (A,B) and (B,A)
// denote the same edge; the graph stores A < B.
type Edge struct {
	ID EdgeID
	A  NodeID
	B  NodeID

	// Strength is in [MinStrength, 1].
	Strength float64
	// RestLength is the node distance captured at creation time, consumed by
	// decoupled spring physics.
	RestLength float64

	removed bool
}

// Removed reports whether the edge has been pruned.
func (e *Edge) Removed() bool { return e.removed }

// Other returns the endpoint opposite to id.
func (e *Edge) Other(id NodeID) NodeID {
	if e.A == id {
		return e.B
	}
	return e.A
}
