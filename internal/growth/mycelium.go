package growth

import (
	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

const (
	// myceliumSpacingScale tightens the spacing rule relative to mold/coral.
	myceliumSpacingScale = 0.85
	myceliumTipChance    = 0.9
	myceliumBodyChance   = 0.5
	myceliumTowardForce  = 0.3
	myceliumForceBlend   = 0.4
	myceliumSideBranch   = 0.25
	myceliumAnastomosis  = 0.05
)

// Mycelium wanders: tip-like nodes spawn in near-random directions, extra
// side branches fork from the same source, and rare long-distance hyphal
// fusions connect far-apart strands.
type Mycelium struct{}

// Name identifies the strategy.
func (Mycelium) Name() string { return string(core.BiomorphMycelium) }

// CalculateGrowth proposes growth from a shuffled tip-like or stressed node.
func (m Mycelium) CalculateGrowth(ctx *Context) Result {
	m.anastomose(ctx)

	var candidates []morph.NodeID
	ctx.Graph.ForEachNode(func(n *morph.Node) {
		if !n.CanGrow() {
			return
		}
		if n.Degree() == 0 && !ctx.FirstGeneration {
			return
		}
		if n.Degree() <= 2 || n.Stress > StressThreshold {
			candidates = append(candidates, n.ID)
		}
	})
	if len(candidates) == 0 {
		return Invalid()
	}
	ctx.RNG.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	spacing := ctx.Spacing * myceliumSpacingScale
	for _, id := range candidates {
		n := ctx.Graph.Node(id)
		chance := myceliumBodyChance * n.GrowthPotential
		if n.Degree() <= 1 {
			chance = myceliumTipChance
		}
		if !ctx.RNG.Chance(chance) {
			continue
		}
		if res := ctx.propose(id, m.direction(ctx, id), spacing, chance); res.Valid {
			return res
		}
	}
	return Invalid()
}

// direction blends an isotropic random direction partly toward or away from
// the local force; the 30/70 split is re-rolled every attempt.
func (m Mycelium) direction(ctx *Context, id morph.NodeID) core.Vec3 {
	dir := ctx.RNG.UnitVec3()
	f := ctx.force(id)
	if f.IsZero() {
		return dir
	}
	bias := f.Normalized().Scale(-1)
	if ctx.RNG.Chance(myceliumTowardForce) {
		bias = bias.Scale(-1)
	}
	return dir.Lerp(bias, myceliumForceBlend)
}

// PostGrowth occasionally forks an extra side branch from the same source.
func (m Mycelium) PostGrowth(ctx *Context, id morph.NodeID) {
	if !ctx.RNG.Chance(myceliumSideBranch * ctx.Params.Complexity) {
		return
	}
	parent := ctx.Graph.Node(id)
	if parent.Degree() == 0 || ctx.Graph.Full() {
		return
	}
	source := ctx.Graph.Neighbors(id)[0]
	res := ctx.propose(source, m.direction(ctx, source), ctx.Spacing*myceliumSpacingScale, 1)
	if !res.Valid {
		return
	}
	nid := ctx.Graph.CreateNode(res.Position)
	ctx.Graph.CreateEdge(source, nid)
	ctx.Field.AddPoint(res.Position, 1)
}

// anastomose rarely fuses two far-apart, unconnected, not-too-close strands.
func (m Mycelium) anastomose(ctx *Context) {
	if ctx.Graph.NodeCount() < 4 {
		return
	}
	if !ctx.RNG.Chance(myceliumAnastomosis * ctx.Params.Connectivity) {
		return
	}
	count := ctx.Graph.NodeCount()
	a := morph.NodeID(ctx.RNG.IntN(count))
	b := morph.NodeID(ctx.RNG.IntN(count))
	if a == b || ctx.Graph.Connected(a, b) {
		return
	}
	dist := ctx.Graph.Node(a).Position.Dist(ctx.Graph.Node(b).Position)
	if dist < ctx.Spacing*2 || dist > ctx.ConnectDistance*3 {
		return
	}
	ctx.Graph.CreateEdge(a, b)
}

func init() {
	Register(core.BiomorphMycelium, Mycelium{})
}
