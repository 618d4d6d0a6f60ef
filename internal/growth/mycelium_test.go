package growth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

func myceliumParams() core.Params {
	p := core.DefaultParams()
	p.Biomorph = core.BiomorphMycelium
	return p
}

func TestMyceliumGrowsFromTip(t *testing.T) {
	ctx := testContext(51, myceliumParams())
	ctx.FirstGeneration = true
	root := ctx.Graph.CreateRoot(core.Vec3{})

	var res Result
	for i := 0; i < 50 && !res.Valid; i++ {
		res = Mycelium{}.CalculateGrowth(ctx)
	}
	require.True(t, res.Valid)
	assert.Equal(t, root, res.Parent)
	assert.GreaterOrEqual(t, res.Position.Dist(core.Vec3{}), ctx.Spacing*myceliumSpacingScale)
}

func TestMyceliumSkipsBusyInteriorNodes(t *testing.T) {
	ctx := testContext(52, myceliumParams())
	hub := ctx.Graph.CreateNode(core.Vec3{})
	for i := 0; i < 3; i++ {
		id := ctx.Graph.CreateNode(core.Vec3{X: float64(i+1) * 3})
		ctx.Graph.CreateEdge(hub, id)
	}
	// Degree 3, unstressed: never a candidate.
	for i := 0; i < 50; i++ {
		res := Mycelium{}.CalculateGrowth(ctx)
		if res.Valid {
			assert.NotEqual(t, hub, res.Parent)
		}
	}
}

func TestMyceliumAnastomosis(t *testing.T) {
	params := myceliumParams()
	params.Connectivity = 1
	params.Complexity = 0
	ctx := testContext(53, params)

	// Two parallel strands a spacing apart that rare fusions may bridge.
	var left, right []morph.NodeID
	for i := 0; i < 4; i++ {
		l := ctx.Graph.CreateNode(core.Vec3{X: 0, Y: float64(i) * 2.5})
		r := ctx.Graph.CreateNode(core.Vec3{X: 5, Y: float64(i) * 2.5})
		left = append(left, l)
		right = append(right, r)
		if i > 0 {
			ctx.Graph.CreateEdge(left[i-1], l)
			ctx.Graph.CreateEdge(right[i-1], r)
		}
	}
	before := ctx.Graph.EdgeCount()

	fused := false
	for i := 0; i < 3000 && !fused; i++ {
		Mycelium{}.anastomose(ctx)
		fused = ctx.Graph.EdgeCount() > before
	}
	require.True(t, fused, "fusion should happen at full connectivity")

	// The new edge respects the distance window.
	found := false
	ctx.Graph.ForEachEdge(func(e *morph.Edge) {
		if e.RestLength <= 2.5 {
			return
		}
		found = true
		assert.GreaterOrEqual(t, e.RestLength, ctx.Spacing*2)
		assert.LessOrEqual(t, e.RestLength, ctx.ConnectDistance*3)
	})
	assert.True(t, found)
	ctx.Graph.Check()
}

func TestMyceliumSideBranch(t *testing.T) {
	params := myceliumParams()
	params.Complexity = 1
	ctx := testContext(54, params)
	source := ctx.Graph.CreateNode(core.Vec3{})
	child := ctx.Graph.CreateNode(core.Vec3{X: 1.5})
	ctx.Graph.CreateEdge(source, child)

	grew := false
	for i := 0; i < 300 && !grew; i++ {
		before := ctx.Graph.NodeCount()
		Mycelium{}.PostGrowth(ctx, child)
		grew = ctx.Graph.NodeCount() > before
	}
	require.True(t, grew, "side branches should fork at full complexity")

	// The fork hangs off the original source, not the fresh child.
	forkID := morph.NodeID(ctx.Graph.NodeCount() - 1)
	assert.True(t, ctx.Graph.Connected(source, forkID))
	assert.False(t, ctx.Graph.Connected(child, forkID))
	ctx.Graph.Check()
}
