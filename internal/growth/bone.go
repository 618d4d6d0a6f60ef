package growth

import (
	"sort"

	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

const (
	boneReinforce   = 0.08
	boneWeaken      = 0.04
	boneTriangulate = 0.3
	boneDensify     = 0.4
)

// Bone remodels edge-centrically: loaded edges thicken, unloaded ones thin
// toward the strength floor, stressed junctions triangulate, and the most
// loaded edge occasionally densifies with a node near its midpoint.
type Bone struct{}

// Name identifies the strategy.
func (Bone) Name() string { return string(core.BiomorphBone) }

// CalculateGrowth remodels strengths and proposes an occasional
// densification node near the most stressed edge.
func (b Bone) CalculateGrowth(ctx *Context) Result {
	type scored struct {
		id     morph.EdgeID
		stress float64
	}
	var edges []scored
	ctx.Graph.ForEachEdge(func(e *morph.Edge) {
		avg := (ctx.Graph.Node(e.A).Stress + ctx.Graph.Node(e.B).Stress) / 2
		edges = append(edges, scored{id: e.ID, stress: avg})
	})
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].stress != edges[j].stress {
			return edges[i].stress > edges[j].stress
		}
		return edges[i].id < edges[j].id
	})

	rate := ctx.Params.GrowthRate
	for _, s := range edges {
		switch {
		case s.stress > GrowthThreshold:
			ctx.Graph.AdjustStrength(s.id, boneReinforce*rate*s.stress)
		case s.stress < GrowthThreshold*WeakenFactor:
			ctx.Graph.AdjustStrength(s.id, -boneWeaken*rate)
		}
	}

	b.triangulate(ctx)

	if len(edges) == 0 || edges[0].stress <= StressThreshold {
		return Invalid()
	}
	if !ctx.RNG.Chance(boneDensify * ctx.Params.Complexity) {
		return Invalid()
	}
	e := ctx.Graph.Edge(edges[0].id)
	mid := ctx.Graph.Node(e.A).Position.Lerp(ctx.Graph.Node(e.B).Position, 0.5)
	offset := ctx.RNG.UnitVec3().Scale(ctx.Spacing)
	pos := mid.Add(offset)
	if !ctx.admissible(pos, ctx.Spacing) {
		return Invalid()
	}
	return Result{
		Valid:       true,
		Position:    pos,
		Parent:      e.A,
		Direction:   offset.Normalized(),
		Probability: edges[0].stress,
	}
}

// triangulate probabilistically adds an edge between two neighbors of a
// stressed node that do not share one yet.
func (b Bone) triangulate(ctx *Context) {
	ctx.Graph.ForEachNode(func(n *morph.Node) {
		if n.Stress <= StressThreshold || n.Degree() < 2 {
			return
		}
		if !ctx.RNG.Chance(boneTriangulate * ctx.Params.Connectivity * n.Stress) {
			return
		}
		neighbors := ctx.Graph.Neighbors(n.ID)
		for i := 0; i < len(neighbors); i++ {
			for j := i + 1; j < len(neighbors); j++ {
				a, c := neighbors[i], neighbors[j]
				if ctx.Graph.Connected(a, c) {
					continue
				}
				ctx.Graph.CreateEdge(a, c)
				return
			}
		}
	})
}

// PruneWeak removes edges resting at the strength floor whose endpoints are
// unloaded. Only the bone archetype destroys structure.
func (b Bone) PruneWeak(g *morph.Graph) int {
	var doomed []morph.EdgeID
	g.ForEachEdge(func(e *morph.Edge) {
		if e.Strength > morph.MinStrength+core.Epsilon {
			return
		}
		if g.Node(e.A).Stress < GrowthThreshold*WeakenFactor && g.Node(e.B).Stress < GrowthThreshold*WeakenFactor {
			doomed = append(doomed, e.ID)
		}
	})
	for _, id := range doomed {
		g.RemoveEdge(id)
	}
	return len(doomed)
}

func init() {
	Register(core.BiomorphBone, Bone{})
}
