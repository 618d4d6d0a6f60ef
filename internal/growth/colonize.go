package growth

import (
	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

const (
	// colonizeInjectPerCall bounds how many new attraction points each call
	// may add (the attractor collection enforces the global cap).
	colonizeInjectPerCall = 4
	// colonizeMaxDegree caps the fallback source's connection count.
	colonizeMaxDegree = 5
)

// Colonize implements the auxiliary space-colonization strategy: random
// attraction points pull the nearest strands toward unoccupied space and die
// once the structure reaches them.
type Colonize struct{}

// Name identifies the strategy.
func (Colonize) Name() string { return string(core.BiomorphColonize) }

// CalculateGrowth injects attraction points, refreshes their influence sets,
// and proposes growth from the most influenced node.
func (c Colonize) CalculateGrowth(ctx *Context) Result {
	if ctx.Attractors == nil {
		return Invalid()
	}
	inject := 1 + int(float64(colonizeInjectPerCall)*ctx.Params.Density)
	ctx.Attractors.Inject(ctx.RNG, ctx.Bounds, inject)
	ctx.Attractors.Update(ctx.Graph)

	if id, ok := ctx.Attractors.MostInfluenced(); ok && ctx.Graph.Node(id).CanGrow() {
		dir := ctx.Attractors.DirectionFor(ctx.Graph, id)
		// The environmental influence blends in scaled by its own magnitude,
		// so a weak environment barely perturbs the pull.
		dir = dir.Add(ctx.EnvInfluence).Normalized()
		if res := ctx.propose(id, dir, ctx.Spacing, 1); res.Valid {
			return res
		}
	}

	return c.fallback(ctx)
}

// fallback grows from any energetic node below the degree cap when no
// attraction point influences anything.
func (c Colonize) fallback(ctx *Context) Result {
	count := ctx.Graph.NodeCount()
	if count == 0 {
		return Invalid()
	}
	start := ctx.RNG.IntN(count)
	for i := 0; i < count; i++ {
		id := morph.NodeID((start + i) % count)
		n := ctx.Graph.Node(id)
		if !n.CanGrow() || n.Degree() >= colonizeMaxDegree {
			continue
		}
		// With no attraction points in play, head for field-sparse space.
		dir := ctx.RNG.UnitVec3().Add(ctx.EnvInfluence).Add(ctx.fieldBias(n.Position)).Normalized()
		if res := ctx.propose(id, dir, ctx.Spacing, n.GrowthPotential); res.Valid {
			return res
		}
	}
	return Invalid()
}

func init() {
	Register(core.BiomorphColonize, Colonize{})
}
