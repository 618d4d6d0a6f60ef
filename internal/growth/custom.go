package growth

import (
	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

// customWeights fixes each archetype's share of the per-step growth budget.
var customWeights = []struct {
	archetype core.BiomorphType
	weight    float64
}{
	{core.BiomorphMold, 0.4},
	{core.BiomorphBone, 0.3},
	{core.BiomorphCoral, 0.2},
	{core.BiomorphMycelium, 0.1},
}

// Custom blends the four named archetypes, delegating each call to one of
// them with the fixed 0.4/0.3/0.2/0.1 weighting, so their effects sum over a
// step budget.
type Custom struct {
	last Strategy
}

// Name identifies the strategy.
func (*Custom) Name() string { return string(core.BiomorphCustom) }

// CalculateGrowth delegates to a weighted-random sub-archetype.
func (c *Custom) CalculateGrowth(ctx *Context) Result {
	roll := ctx.RNG.Float64()
	acc := 0.0
	c.last = Select(core.BiomorphMold)
	for _, w := range customWeights {
		acc += w.weight
		if roll < acc {
			c.last = Select(w.archetype)
			break
		}
	}
	return c.last.CalculateGrowth(ctx)
}

// PostGrowth forwards to the sub-archetype that produced the last result.
func (c *Custom) PostGrowth(ctx *Context, id morph.NodeID) {
	if pg, ok := c.last.(PostGrower); ok {
		pg.PostGrowth(ctx, id)
	}
}

func init() {
	Register(core.BiomorphCustom, &Custom{})
}
