// Package engine drives the iterative growth process and the stress-driven
// adaptation of the structure, one bounded tick at a time.
package engine

import (
	"morphogen/internal/field"
	"morphogen/internal/growth"
	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

// State is the orchestrator lifecycle state.
type State int

const (
	StateIdle State = iota
	StateGrowing
)

// Outcome reports what a growth tick achieved.
type Outcome int

const (
	// OutcomeContinue means the target has not been reached; keep ticking.
	OutcomeContinue Outcome = iota
	// OutcomeDone means the target size was reached or growth was stopped.
	OutcomeDone
	// OutcomeBudgetExceeded means the wall-clock or tick budget ran out
	// before the target; progress below 1 tells callers growth is incomplete.
	OutcomeBudgetExceeded
)

// maxExtraConnections bounds the proximity edges added around one new node.
const maxExtraConnections = 2

// childEnergyShare is the fraction of the parent's energy a new node starts
// with.
const childEnergyShare = 0.9

// Orchestrator repeatedly invokes the selected growth strategy until the
// structure reaches its target size or a budget runs out. All work happens
// inside Tick; the caller's scheduler decides when ticks happen.
type Orchestrator struct {
	cfg Config

	graph      *morph.Graph
	fld        *field.Field
	attractors *field.Attractors
	rng        *core.RNG

	params   core.Params
	strategy growth.Strategy
	target   int

	state  State
	budget *core.Budget

	forceAt      func(morph.NodeID) core.Vec3
	envInfluence core.Vec3
}

// NewOrchestrator wires the orchestrator to the shared graph and field.
func NewOrchestrator(cfg Config, g *morph.Graph, f *field.Field, rng *core.RNG) *Orchestrator {
	o := &Orchestrator{
		cfg:        cfg,
		graph:      g,
		fld:        f,
		attractors: field.NewAttractors(cfg.AttractionRadius, cfg.KillRadius, cfg.AttractorCap),
		rng:        rng,
	}
	o.SetParams(cfg.Params)
	return o
}

// Initialize plants seed nodes (replacing any current structure), reseeds the
// influence field, resets progress tracking, and arms the budget. seedEdges
// index into seeds.
func (o *Orchestrator) Initialize(seeds []core.Vec3, seedEdges [][2]int, params core.Params) {
	o.graph.Clear()
	o.attractors.Reset()
	ids := make([]morph.NodeID, len(seeds))
	for i, pos := range seeds {
		ids[i] = o.graph.CreateRoot(pos)
	}
	for _, se := range seedEdges {
		if se[0] < 0 || se[0] >= len(ids) || se[1] < 0 || se[1] >= len(ids) {
			continue
		}
		o.graph.CreateEdge(ids[se[0]], ids[se[1]])
	}
	// The target floor anchors to what was actually planted, not the
	// configured seed count.
	o.cfg.SeedCount = len(seeds)
	o.SetParams(params)
	o.reseedField()
	o.budget = core.NewBudget(o.cfg.WallBudget, o.cfg.TickBudget)
	o.state = StateGrowing
}

// reseedField rebuilds the influence field from the current nodes. Called
// whenever bounds change or the structure is replaced.
func (o *Orchestrator) reseedField() {
	o.fld.Reset(o.cfg.Bounds, o.cfg.FieldCellSize)
	o.graph.ForEachNode(func(n *morph.Node) {
		o.fld.AddPoint(n.Position, 1)
	})
}

// SetParams swaps the archetype parameters without resetting the graph.
func (o *Orchestrator) SetParams(p core.Params) {
	o.params = p.Normalized()
	o.strategy = growth.Select(o.params.Biomorph)
	cfg := o.cfg
	cfg.Params = o.params
	o.target = cfg.TargetNodeCount()
}

// SetForceLookup registers the per-node force sampler shared with the
// adaptation engine.
func (o *Orchestrator) SetForceLookup(fn func(morph.NodeID) core.Vec3) {
	o.forceAt = fn
}

// SetEnvInfluence sets the environmental bias consumed by the
// space-colonization strategy.
func (o *Orchestrator) SetEnvInfluence(v core.Vec3) { o.envInfluence = v }

// State returns the lifecycle state.
func (o *Orchestrator) State() State { return o.state }

// Target returns the derived target node count.
func (o *Orchestrator) Target() int { return o.target }

// Progress reports nodeCount/target clamped to [0,1].
func (o *Orchestrator) Progress() float64 {
	if o.target <= 0 {
		return 1
	}
	return core.Clamp01(float64(o.graph.NodeCount()) / float64(o.target))
}

// Stop halts further growth. Safe at any time: node and edge creation is
// atomic within a tick, so no partial state exists.
func (o *Orchestrator) Stop() { o.state = StateIdle }

// Resume re-enters the growing state without touching progress.
func (o *Orchestrator) Resume() {
	if o.graph.NodeCount() < o.target {
		o.state = StateGrowing
	}
}

// Tick performs one bounded unit of growth and yields. The outcome tells the
// scheduler whether to keep ticking.
func (o *Orchestrator) Tick() Outcome {
	if o.state != StateGrowing {
		return OutcomeDone
	}
	if o.done() {
		o.state = StateIdle
		return OutcomeDone
	}
	if o.budget != nil && !o.budget.Spend() {
		o.state = StateIdle
		return OutcomeBudgetExceeded
	}

	steps := 1 + int(o.params.GrowthRate*float64(o.cfg.StepsPerTickMax-1)+0.5)
	for i := 0; i < steps; i++ {
		if o.done() {
			o.state = StateIdle
			return OutcomeDone
		}
		ctx := o.buildContext()
		res := o.strategy.CalculateGrowth(ctx)
		if !res.Valid || o.graph.Full() {
			continue
		}
		id := o.graph.CreateNode(res.Position)
		node := o.graph.Node(id)
		if res.Parent != growth.NoParent && o.graph.Valid(res.Parent) {
			o.graph.CreateEdge(res.Parent, id)
			node.Energy = o.graph.Node(res.Parent).Energy * childEnergyShare
		}
		o.connectNearby(id, res.Parent)
		o.fld.AddPoint(res.Position, 1)
		if pg, ok := o.strategy.(growth.PostGrower); ok && !o.graph.Full() {
			pg.PostGrowth(ctx, id)
		}
	}
	if o.done() {
		o.state = StateIdle
		return OutcomeDone
	}
	return OutcomeContinue
}

func (o *Orchestrator) done() bool {
	return o.graph.NodeCount() >= o.target || o.graph.Full()
}

func (o *Orchestrator) buildContext() *growth.Context {
	return &growth.Context{
		Graph:           o.graph,
		Bounds:          o.cfg.Bounds,
		Params:          o.params,
		Field:           o.fld,
		RNG:             o.rng,
		Spacing:         o.cfg.MinNodeDistance,
		ConnectDistance: o.cfg.ConnectDistance,
		ForceAt:         o.forceAt,
		FirstGeneration: o.graph.EdgeCount() == 0,
		Attractors:      o.attractors,
		EnvInfluence:    o.envInfluence,
	}
}

// connectNearby probabilistically links the new node to its neighborhood,
// weighted by the connectivity parameter.
func (o *Orchestrator) connectNearby(id morph.NodeID, parent morph.NodeID) {
	if o.params.Connectivity <= 0 {
		return
	}
	pos := o.graph.Node(id).Position
	added := 0
	o.graph.Within(pos, o.cfg.ConnectDistance, func(other morph.NodeID, dist float64) bool {
		if other == id || other == parent {
			return true
		}
		if o.rng.Chance(o.params.Connectivity * 0.3) {
			if _, ok := o.graph.CreateEdge(id, other); ok {
				added++
			}
		}
		return added < maxExtraConnections
	})
}
