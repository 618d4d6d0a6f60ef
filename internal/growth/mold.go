package growth

import (
	"github.com/emirpasic/gods/trees/binaryheap"

	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

const (
	// moldMaxSources caps how many stressed nodes are tried per call.
	moldMaxSources = 3
	moldJitter     = 0.35
	moldReinforce  = 0.05
	// moldFieldBias weights the push away from field-dense cells.
	moldFieldBias = 0.35
)

// Mold grows away from load and away from crowded space: the most stressed
// nodes sprout jittered branches opposing their local force, deflected toward
// field-sparse cells, and edges between two well-fed endpoints thicken.
type Mold struct{}

// Name identifies the strategy.
func (Mold) Name() string { return string(core.BiomorphMold) }

// CalculateGrowth proposes growth from the most stressed eligible node.
func (m Mold) CalculateGrowth(ctx *Context) Result {
	m.reinforce(ctx)

	heap := binaryheap.NewWith(func(a, b interface{}) int {
		sa := ctx.Graph.Node(a.(morph.NodeID)).Stress
		sb := ctx.Graph.Node(b.(morph.NodeID)).Stress
		switch {
		case sa > sb:
			return -1
		case sa < sb:
			return 1
		default:
			return int(a.(morph.NodeID) - b.(morph.NodeID))
		}
	})
	ctx.Graph.ForEachNode(func(n *morph.Node) {
		if n.Stress > StressThreshold && n.CanGrow() {
			heap.Push(n.ID)
		}
	})

	tried := 0
	for tried < moldMaxSources {
		v, ok := heap.Pop()
		if !ok {
			break
		}
		tried++
		id := v.(morph.NodeID)
		dir := m.direction(ctx, id)
		if res := ctx.propose(id, dir, ctx.Spacing, ctx.Graph.Node(id).GrowthPotential); res.Valid {
			return res
		}
	}

	// Nothing stressed enough: fall back to any energetic node so an unloaded
	// structure still grows.
	return m.fallback(ctx)
}

func (m Mold) fallback(ctx *Context) Result {
	count := ctx.Graph.NodeCount()
	if count == 0 {
		return Invalid()
	}
	start := ctx.RNG.IntN(count)
	for i := 0; i < count; i++ {
		id := morph.NodeID((start + i) % count)
		n := ctx.Graph.Node(id)
		if !n.CanGrow() {
			continue
		}
		dir := m.direction(ctx, id)
		if res := ctx.propose(id, dir, ctx.Spacing, n.GrowthPotential); res.Valid {
			return res
		}
	}
	return Invalid()
}

// direction opposes the local force with jitter, then deflects toward the
// sparse side of the influence field.
func (Mold) direction(ctx *Context, id morph.NodeID) core.Vec3 {
	dir := ctx.RNG.Jitter(ctx.awayFromForce(id), moldJitter)
	return dir.Add(ctx.fieldBias(ctx.Graph.Node(id).Position).Scale(moldFieldBias))
}

// reinforce thickens edges whose both endpoints exceed the growth threshold.
func (m Mold) reinforce(ctx *Context) {
	rate := ctx.Params.GrowthRate
	if rate <= 0 {
		return
	}
	ctx.Graph.ForEachEdge(func(e *morph.Edge) {
		if ctx.Graph.Node(e.A).Stress > GrowthThreshold && ctx.Graph.Node(e.B).Stress > GrowthThreshold {
			ctx.Graph.AdjustStrength(e.ID, moldReinforce*rate)
		}
	})
}

func init() {
	Register(core.BiomorphMold, Mold{})
}
