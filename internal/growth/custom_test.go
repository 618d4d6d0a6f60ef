package growth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morphogen/pkg/core"
)

func TestCustomWeightsCoverTheRoll(t *testing.T) {
	sum := 0.0
	for _, w := range customWeights {
		assert.Positive(t, w.weight)
		sum += w.weight
	}
	assert.InDelta(t, 1.0, sum, 1e-9, "weights must partition the unit roll")
}

func TestCustomDelegates(t *testing.T) {
	params := core.DefaultParams()
	params.Biomorph = core.BiomorphCustom
	ctx := testContext(61, params)
	ctx.FirstGeneration = true
	ctx.Graph.CreateRoot(core.Vec3{})

	c := &Custom{}
	seen := map[string]bool{}
	grown := 0
	for i := 0; i < 200; i++ {
		ctx.FirstGeneration = ctx.Graph.EdgeCount() == 0
		res := c.CalculateGrowth(ctx)
		require.NotNil(t, c.last)
		seen[c.last.Name()] = true
		if res.Valid && !ctx.Graph.Full() {
			id := ctx.Graph.CreateNode(res.Position)
			if res.Parent != NoParent {
				ctx.Graph.CreateEdge(res.Parent, id)
			}
			c.PostGrowth(ctx, id)
			grown++
		}
	}

	assert.Positive(t, grown, "the blend must produce growth")
	for _, name := range []string{"mold", "bone", "coral", "mycelium"} {
		assert.True(t, seen[name], "sub-archetype %s never rolled", name)
	}
	ctx.Graph.Check()
}

func TestCustomPostGrowthWithoutResultIsSafe(t *testing.T) {
	ctx := testContext(62, core.DefaultParams())
	id := ctx.Graph.CreateNode(core.Vec3{})
	c := &Custom{}
	assert.NotPanics(t, func() { c.PostGrowth(ctx, id) })
}
