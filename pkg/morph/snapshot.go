package morph

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"morphogen/pkg/core"
)

// SnapshotNode is the read-only view of a node exposed to collaborators.
type SnapshotNode struct {
	ID          NodeID    `json:"id"`
	Position    core.Vec3 `json:"position"`
	Stress      float64   `json:"stress"`
	Energy      float64   `json:"energy"`
	Connections int       `json:"connections"`
	Anchored    bool      `json:"anchored,omitempty"`
	Root        bool      `json:"root,omitempty"`
}

// SnapshotEdge is the read-only view of an edge exposed to collaborators.
type SnapshotEdge struct {
	ID       EdgeID  `json:"id"`
	A        NodeID  `json:"a"`
	B        NodeID  `json:"b"`
	Strength float64 `json:"strength"`
}

// Snapshot is a plain copy of the current structure: the only serialization
// contract the engine honors.
type Snapshot struct {
	Nodes []SnapshotNode `json:"nodes"`
	Edges []SnapshotEdge `json:"edges"`
}

// Snapshot captures the current nodes and live edges.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{
		Nodes: make([]SnapshotNode, 0, len(g.nodes)),
		Edges: make([]SnapshotEdge, 0, g.liveEdges),
	}
	for i := range g.nodes {
		n := &g.nodes[i]
		s.Nodes = append(s.Nodes, SnapshotNode{
			ID:          n.ID,
			Position:    n.Position,
			Stress:      n.Stress,
			Energy:      n.Energy,
			Connections: len(n.edges),
			Anchored:    n.Anchored,
			Root:        n.Root,
		})
	}
	for i := range g.edges {
		e := &g.edges[i]
		if e.removed {
			continue
		}
		s.Edges = append(s.Edges, SnapshotEdge{ID: e.ID, A: e.A, B: e.B, Strength: e.Strength})
	}
	return s
}

// Restore replaces the graph contents with the snapshot. Node ids are
// reassigned densely in snapshot order; edges referencing unknown nodes or
// duplicating a pair are import errors, not panics.
func (g *Graph) Restore(s Snapshot) error {
	if len(s.Nodes) > g.maxNodes {
		return errors.Errorf("morph: snapshot has %d nodes, ceiling is %d", len(s.Nodes), g.maxNodes)
	}
	g.Clear()
	remap := make(map[NodeID]NodeID, len(s.Nodes))
	for _, sn := range s.Nodes {
		if _, dup := remap[sn.ID]; dup {
			g.Clear()
			return errors.Errorf("morph: duplicate node id %d in snapshot", sn.ID)
		}
		id := g.CreateNode(sn.Position)
		n := g.Node(id)
		n.Stress = core.Clamp01(sn.Stress)
		// Zero energy is a real state: a drained node must stay drained.
		n.Energy = sn.Energy
		if n.Energy < 0 {
			n.Energy = 0
		}
		n.Anchored = sn.Anchored
		n.Root = sn.Root
		remap[sn.ID] = id
	}
	for _, se := range s.Edges {
		a, okA := remap[se.A]
		b, okB := remap[se.B]
		if !okA || !okB {
			g.Clear()
			return errors.Errorf("morph: edge %d references unknown node", se.ID)
		}
		id, ok := g.CreateEdge(a, b)
		if !ok {
			g.Clear()
			return errors.Errorf("morph: edge %d is a duplicate or self-edge", se.ID)
		}
		g.Edge(id).Strength = core.Clamp(se.Strength, MinStrength, 1)
	}
	return nil
}

// Export writes the snapshot as JSON.
func (s Snapshot) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(err, "morph: encode snapshot")
	}
	return nil
}

// ImportSnapshot reads a JSON snapshot.
func ImportSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, errors.Wrap(err, "morph: decode snapshot")
	}
	return s, nil
}
