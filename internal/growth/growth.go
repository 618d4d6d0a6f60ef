// Package growth implements the per-archetype growth strategies. Each
// strategy proposes at most one new node per call and may apply archetype
// side effects (edge reinforcement, triangulation, plates, anastomosis)
// directly to the graph.
package growth

import (
	"morphogen/internal/field"
	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

// NoParent marks a growth result that attaches to no existing node.
const NoParent = morph.NodeID(-1)

// Shared policy thresholds. Stress and strength are normalized, so these are
// absolute values rather than parameter-relative ones.
const (
	// StressThreshold is the stress above which a node counts as stressed for
	// source selection.
	StressThreshold = 0.3
	// GrowthThreshold is the stress above which edges are reinforced.
	GrowthThreshold = 0.4
	// WeakenFactor scales GrowthThreshold down to the level below which bone
	// edges lose strength.
	WeakenFactor = 0.3
)

// Result describes one proposed growth. Valid=false means "no growth this
// call" and is not an error.
type Result struct {
	Valid       bool
	Position    core.Vec3
	Parent      morph.NodeID
	Direction   core.Vec3
	Probability float64
}

// Invalid is the no-growth result.
func Invalid() Result { return Result{Parent: NoParent} }

// Context carries everything a strategy may consult. It is rebuilt by the
// orchestrator each tick; strategies must not retain it.
type Context struct {
	Graph  *morph.Graph
	Bounds core.Bounds
	Params core.Params
	Field  *field.Field
	RNG    *core.RNG

	// Spacing is the base minimum node distance; ConnectDistance the maximum
	// edge length for proximity connections.
	Spacing         float64
	ConnectDistance float64

	// ForceAt returns the latest external force sample for a node; nil means
	// no forces this tick.
	ForceAt func(morph.NodeID) core.Vec3

	// FirstGeneration marks growth from the seed nodes, where the
	// zero-edge-source restriction of tip-privileged archetypes is lifted.
	FirstGeneration bool

	// Attractors and EnvInfluence are consulted by the space-colonization
	// strategy only.
	Attractors   *field.Attractors
	EnvInfluence core.Vec3
}

// Strategy is the common contract of the archetype family.
type Strategy interface {
	Name() string
	CalculateGrowth(ctx *Context) Result
}

// PostGrower is implemented by strategies that need the id of the node the
// orchestrator created from their result (plates, side branches).
type PostGrower interface {
	PostGrowth(ctx *Context, id morph.NodeID)
}

// force returns the external force on id, or zero when no provider is set.
func (ctx *Context) force(id morph.NodeID) core.Vec3 {
	if ctx.ForceAt == nil {
		return core.Vec3{}
	}
	return ctx.ForceAt(id)
}

// branchLength is the distance from parent to a proposed child.
func (ctx *Context) branchLength() float64 {
	return ctx.Spacing * (1.3 + 0.7*ctx.Params.Complexity)
}

// admissible reports whether pos is inside the bounds and at least spacing
// away from every existing node.
func (ctx *Context) admissible(pos core.Vec3, spacing float64) bool {
	if !ctx.Bounds.Contains(pos) {
		return false
	}
	return !ctx.Graph.HasWithin(pos, spacing)
}

// awayFromForce returns the direction opposing the force on id, or a random
// direction when the node is unloaded.
func (ctx *Context) awayFromForce(id morph.NodeID) core.Vec3 {
	f := ctx.force(id)
	if f.IsZero() {
		return ctx.RNG.UnitVec3()
	}
	return f.Normalized().Scale(-1)
}

// fieldBias returns a unit push from crowded cells toward sparse space, or
// the zero vector when the local field is flat.
func (ctx *Context) fieldBias(pos core.Vec3) core.Vec3 {
	if ctx.Field == nil {
		return core.Vec3{}
	}
	return ctx.Field.GradientAt(pos).Scale(-1)
}

// propose builds a valid result from parent along dir, or the invalid result
// when the candidate position is rejected.
func (ctx *Context) propose(parent morph.NodeID, dir core.Vec3, spacing, probability float64) Result {
	if dir.IsZero() {
		return Invalid()
	}
	dir = dir.Normalized()
	pos := ctx.Graph.Node(parent).Position.Add(dir.Scale(ctx.branchLength()))
	if !ctx.admissible(pos, spacing) {
		return Invalid()
	}
	return Result{
		Valid:       true,
		Position:    pos,
		Parent:      parent,
		Direction:   dir,
		Probability: probability,
	}
}
