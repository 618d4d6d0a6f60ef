package growth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"morphogen/internal/field"
	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

func testContext(seed int64, params core.Params) *Context {
	bounds := core.NewBounds(core.Vec3{X: -50, Y: -50, Z: -50}, core.Vec3{X: 50, Y: 50, Z: 50})
	return &Context{
		Graph:           morph.NewGraph(200, 3),
		Bounds:          bounds,
		Params:          params.Normalized(),
		Field:           field.New(bounds, 2),
		RNG:             core.NewRNG(seed),
		Spacing:         1,
		ConnectDistance: 3,
		Attractors:      field.NewAttractors(6, 1.5, 200),
	}
}

func TestSelectFallsBackToMold(t *testing.T) {
	assert.Equal(t, "mold", Select("nonsense").Name())
	assert.Equal(t, "mold", Select("").Name())
	assert.Equal(t, "bone", Select(core.BiomorphBone).Name())
}

func TestRegisterIgnoresInvalid(t *testing.T) {
	before := len(Strategies())
	Register("", Mold{})
	Register("ghost", nil)
	assert.Equal(t, before, len(Strategies()))
}

func TestAllArchetypesRegistered(t *testing.T) {
	for _, bt := range []core.BiomorphType{
		core.BiomorphMold,
		core.BiomorphBone,
		core.BiomorphCoral,
		core.BiomorphMycelium,
		core.BiomorphCustom,
		core.BiomorphColonize,
	} {
		s := Select(bt)
		require.NotNil(t, s, "archetype %s", bt)
		assert.Equal(t, string(bt), s.Name())
	}
}

// Identical seeds and identical starting graphs must produce identical growth,
// side effects included, for every archetype.
func TestGrowthIsDeterministic(t *testing.T) {
	for bt := range Strategies() {
		bt := bt
		t.Run(string(bt), func(t *testing.T) {
			run := func() []Result {
				params := core.DefaultParams()
				params.Biomorph = bt
				ctx := testContext(31, params)
				root := ctx.Graph.CreateRoot(core.Vec3{})
				ctx.Graph.Node(root).Stress = 0.5

				s := Select(bt)
				var results []Result
				for i := 0; i < 30; i++ {
					ctx.FirstGeneration = ctx.Graph.EdgeCount() == 0
					res := s.CalculateGrowth(ctx)
					results = append(results, res)
					if res.Valid {
						id := ctx.Graph.CreateNode(res.Position)
						if res.Parent != NoParent {
							ctx.Graph.CreateEdge(res.Parent, id)
						}
						ctx.Field.AddPoint(res.Position, 1)
						if pg, ok := s.(PostGrower); ok {
							pg.PostGrowth(ctx, id)
						}
					}
				}
				ctx.Graph.Check()
				return results
			}

			first := run()
			second := run()
			require.Equal(t, first, second)
		})
	}
}

func TestProposeRejectsOutOfBounds(t *testing.T) {
	ctx := testContext(1, core.DefaultParams())
	edge := ctx.Bounds.Max
	id := ctx.Graph.CreateNode(edge)
	res := ctx.propose(id, core.Vec3{X: 1}, ctx.Spacing, 1)
	assert.False(t, res.Valid)
}

func TestProposeRejectsCrowdedPositions(t *testing.T) {
	ctx := testContext(1, core.DefaultParams())
	a := ctx.Graph.CreateNode(core.Vec3{})
	// A blocker exactly where the proposal would land.
	ctx.Graph.CreateNode(core.Vec3{X: ctx.branchLength()})
	res := ctx.propose(a, core.Vec3{X: 1}, ctx.Spacing, 1)
	assert.False(t, res.Valid)
}

func TestProposeRespectsSpacing(t *testing.T) {
	params := core.DefaultParams()
	ctx := testContext(9, params)
	a := ctx.Graph.CreateNode(core.Vec3{})
	res := ctx.propose(a, core.Vec3{Y: 1}, ctx.Spacing, 0.7)
	require.True(t, res.Valid)
	assert.Equal(t, a, res.Parent)
	assert.InDelta(t, ctx.branchLength(), res.Position.Dist(core.Vec3{}), 1e-9)
	assert.Equal(t, 0.7, res.Probability)
	assert.InDelta(t, 1, res.Direction.Len(), 1e-9)
}

func TestAwayFromForce(t *testing.T) {
	ctx := testContext(1, core.DefaultParams())
	id := ctx.Graph.CreateNode(core.Vec3{})
	ctx.ForceAt = func(morph.NodeID) core.Vec3 { return core.Vec3{X: 2} }
	dir := ctx.awayFromForce(id)
	assert.InDelta(t, -1, dir.X, 1e-9)

	// Unloaded nodes get a random unit direction.
	ctx.ForceAt = nil
	dir = ctx.awayFromForce(id)
	assert.InDelta(t, 1, dir.Len(), 1e-9)
}
