package growth

import (
	"math"
	"sort"

	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

const (
	coralUpWeight     = 0.65
	coralDeflect      = 0.3
	coralPlateChance  = 0.15
	coralPlateRadius  = 1.1
	coralMaxCandidate = 6
)

var coralUp = core.Vec3{Y: 1}

// Coral accretes upward from its tips, preferring the tallest ones, and
// occasionally crowns a new tip with a radial plate of ring-connected nodes.
type Coral struct{}

// Name identifies the strategy.
func (Coral) Name() string { return string(core.BiomorphCoral) }

// CalculateGrowth proposes upward growth from a tall tip or stressed node.
func (c Coral) CalculateGrowth(ctx *Context) Result {
	var candidates []morph.NodeID
	ctx.Graph.ForEachNode(func(n *morph.Node) {
		if !n.CanGrow() {
			return
		}
		if n.Degree() == 0 && !ctx.FirstGeneration {
			return
		}
		if n.Degree() <= 1 || n.Stress > StressThreshold {
			candidates = append(candidates, n.ID)
		}
	})
	if len(candidates) == 0 {
		return Invalid()
	}

	// Tallest first, then shuffle inside the window so repeated calls do not
	// hammer a single tip.
	sort.Slice(candidates, func(i, j int) bool {
		yi := ctx.Graph.Node(candidates[i]).Position.Y
		yj := ctx.Graph.Node(candidates[j]).Position.Y
		if yi != yj {
			return yi > yj
		}
		return candidates[i] < candidates[j]
	})
	window := len(candidates)
	if window > coralMaxCandidate {
		window = coralMaxCandidate
	}
	ctx.RNG.Shuffle(window, func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	for _, id := range candidates[:window] {
		dir := coralUp.Scale(coralUpWeight).Add(ctx.RNG.UnitVec3().Scale(1 - coralUpWeight))
		if f := ctx.force(id); !f.IsZero() {
			dir = dir.Sub(f.Normalized().Scale(coralDeflect))
		}
		n := ctx.Graph.Node(id)
		if res := ctx.propose(id, dir, ctx.Spacing, n.GrowthPotential); res.Valid {
			return res
		}
	}
	return Invalid()
}

// PostGrowth occasionally spawns a radial plate of 2-4 extra nodes connected
// in a ring around the freshly created tip.
func (c Coral) PostGrowth(ctx *Context, id morph.NodeID) {
	if !ctx.RNG.Chance(coralPlateChance * ctx.Params.Complexity) {
		return
	}
	count := ctx.RNG.Between(2, 4)
	center := ctx.Graph.Node(id).Position
	radius := ctx.Spacing * coralPlateRadius

	// Ring axes perpendicular to a random normal.
	normal := ctx.RNG.UnitVec3()
	u := normal.Sub(coralUp.Scale(normal.Dot(coralUp)))
	if u.IsZero() {
		u = core.Vec3{X: 1}
	}
	u = u.Normalized()
	v := core.Vec3{
		X: normal.Y*u.Z - normal.Z*u.Y,
		Y: normal.Z*u.X - normal.X*u.Z,
		Z: normal.X*u.Y - normal.Y*u.X,
	}.Normalized()

	ring := make([]morph.NodeID, 0, count)
	for i := 0; i < count; i++ {
		if ctx.Graph.Full() {
			break
		}
		angle := float64(i) / float64(count) * 2 * math.Pi
		pos := center.Add(u.Scale(radius * math.Cos(angle))).Add(v.Scale(radius * math.Sin(angle)))
		if !ctx.admissible(pos, ctx.Spacing*0.9) {
			continue
		}
		nid := ctx.Graph.CreateNode(pos)
		ctx.Graph.CreateEdge(id, nid)
		ctx.Field.AddPoint(pos, 1)
		ring = append(ring, nid)
	}
	for i := 0; i+1 < len(ring); i++ {
		ctx.Graph.CreateEdge(ring[i], ring[i+1])
	}
	if len(ring) > 2 {
		ctx.Graph.CreateEdge(ring[len(ring)-1], ring[0])
	}
}

func init() {
	Register(core.BiomorphCoral, Coral{})
}
