package engine

import (
	"morphogen/internal/field"
	"morphogen/internal/growth"
	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

const (
	// stressSmoothing is the fixed exponential smoothing factor for stress.
	stressSmoothing = 0.2
	// connectionDamping scales how much each connection damps raw stress.
	connectionDamping = 0.2

	// energyDecayRate is the per-second baseline energy drain.
	energyDecayRate = 0.02
	// energyConnectionCost adds drain per connection.
	energyConnectionCost = 0.1

	adaptReinforce = 0.12
	adaptWeaken    = 0.06
	adaptRebranch  = 0.5
)

// Adaptation computes per-node stress from externally supplied forces and
// applies the archetype's structural response. The responders reuse the same
// operations the growth strategies apply, run continuously and scaled by
// adaptationRate times dt.
type Adaptation struct {
	cfg Config

	graph  *morph.Graph
	fld    *field.Field
	rng    *core.RNG
	params core.Params

	forces map[morph.NodeID]core.Vec3
}

// NewAdaptation wires the adaptation engine to the shared graph and field.
func NewAdaptation(cfg Config, g *morph.Graph, f *field.Field, rng *core.RNG) *Adaptation {
	return &Adaptation{
		cfg:    cfg,
		graph:  g,
		fld:    f,
		rng:    rng,
		params: cfg.Params.Normalized(),
		forces: make(map[morph.NodeID]core.Vec3),
	}
}

// Initialize resets force tracking and swaps parameters.
func (a *Adaptation) Initialize(params core.Params) {
	a.params = params.Normalized()
	a.forces = make(map[morph.NodeID]core.Vec3)
}

// SetParams swaps parameters without touching accumulated forces.
func (a *Adaptation) SetParams(params core.Params) {
	a.params = params.Normalized()
}

// ForceAt returns the latest merged force sample for a node.
func (a *Adaptation) ForceAt(id morph.NodeID) core.Vec3 {
	return a.forces[id]
}

// UpdateForces merges force samples for known nodes and recomputes stress.
// More connections damp the stress a given force produces, and the smoothed
// value never leaves [0,1].
func (a *Adaptation) UpdateForces(forces map[morph.NodeID]core.Vec3) {
	for id, f := range forces {
		if a.graph.Valid(id) {
			a.forces[id] = f
		}
	}
	a.graph.ForEachNode(func(n *morph.Node) {
		raw := a.forces[n.ID].Len() / (1 + connectionDamping*float64(n.Degree()))
		raw = core.Clamp01(raw)
		n.Stress = core.Clamp01(core.Lerp(n.Stress, raw, stressSmoothing))
	})
}

// Step applies one adaptation pass scaled by adaptationRate × dt and returns
// the total structural change (strength deltas, pruned edges, added nodes).
func (a *Adaptation) Step(dt float64) float64 {
	if dt <= 0 {
		return 0
	}
	a.decayEnergy(dt)

	scale := a.params.AdaptationRate * dt
	if scale <= 0 {
		return 0
	}

	total := 0.0
	switch a.params.Biomorph {
	case core.BiomorphBone:
		total += a.remodelBone(scale)
	case core.BiomorphCoral, core.BiomorphMycelium:
		total += a.reinforceLoaded(scale)
		total += a.rebranch(scale)
	case core.BiomorphCustom:
		total += a.reinforceLoaded(scale)
		total += a.remodelBone(scale * 0.3)
		total += a.rebranch(scale * 0.3)
	default: // mold and the colonization fallback
		total += a.reinforceLoaded(scale)
	}
	return total
}

// decayEnergy drains node energy with time and connection count.
func (a *Adaptation) decayEnergy(dt float64) {
	a.graph.ForEachNode(func(n *morph.Node) {
		drain := dt * energyDecayRate * (1 + energyConnectionCost*float64(n.Degree()))
		n.Energy -= drain
		if n.Energy < 0 {
			n.Energy = 0
		}
	})
}

// reinforceLoaded thickens edges whose both endpoints carry load.
func (a *Adaptation) reinforceLoaded(scale float64) float64 {
	total := 0.0
	a.graph.ForEachEdge(func(e *morph.Edge) {
		sa := a.graph.Node(e.A).Stress
		sb := a.graph.Node(e.B).Stress
		if sa > growth.GrowthThreshold && sb > growth.GrowthThreshold {
			avg := (sa + sb) / 2
			total += abs(a.graph.AdjustStrength(e.ID, adaptReinforce*scale*avg))
		}
	})
	return total
}

// remodelBone strengthens loaded edges, weakens unloaded ones, triangulates
// stressed junctions, and prunes edges resting at the floor.
func (a *Adaptation) remodelBone(scale float64) float64 {
	total := 0.0
	a.graph.ForEachEdge(func(e *morph.Edge) {
		avg := (a.graph.Node(e.A).Stress + a.graph.Node(e.B).Stress) / 2
		switch {
		case avg > growth.GrowthThreshold:
			total += abs(a.graph.AdjustStrength(e.ID, adaptReinforce*scale*avg))
		case avg < growth.GrowthThreshold*growth.WeakenFactor:
			total += abs(a.graph.AdjustStrength(e.ID, -adaptWeaken*scale))
		}
	})
	total += a.triangulate(scale)
	total += float64(growth.Bone{}.PruneWeak(a.graph))
	return total
}

// triangulate adds edges between unconnected neighbor pairs of stressed
// nodes, probabilistically.
func (a *Adaptation) triangulate(scale float64) float64 {
	total := 0.0
	a.graph.ForEachNode(func(n *morph.Node) {
		if n.Stress <= growth.StressThreshold || n.Degree() < 2 {
			return
		}
		if !a.rng.Chance(core.Clamp01(scale) * a.params.Connectivity * n.Stress) {
			return
		}
		neighbors := a.graph.Neighbors(n.ID)
		for i := 0; i < len(neighbors); i++ {
			for j := i + 1; j < len(neighbors); j++ {
				if a.graph.Connected(neighbors[i], neighbors[j]) {
					continue
				}
				if _, ok := a.graph.CreateEdge(neighbors[i], neighbors[j]); ok {
					total++
				}
				return
			}
		}
	})
	return total
}

// rebranch occasionally re-runs the archetype's growth strategy so stressed
// regions keep sprouting after the main growth phase.
func (a *Adaptation) rebranch(scale float64) float64 {
	if a.graph.Full() || !a.rng.Chance(core.Clamp01(scale * adaptRebranch)) {
		return 0
	}
	strategy := growth.Select(a.params.Biomorph)
	ctx := &growth.Context{
		Graph:           a.graph,
		Bounds:          a.fld.Bounds(),
		Params:          a.params,
		Field:           a.fld,
		RNG:             a.rng,
		Spacing:         a.cfg.MinNodeDistance,
		ConnectDistance: a.cfg.ConnectDistance,
		ForceAt:         a.ForceAt,
	}
	res := strategy.CalculateGrowth(ctx)
	if !res.Valid || a.graph.Full() {
		return 0
	}
	id := a.graph.CreateNode(res.Position)
	if res.Parent != growth.NoParent {
		a.graph.CreateEdge(res.Parent, id)
		a.graph.Node(id).Energy = a.graph.Node(res.Parent).Energy * childEnergyShare
	}
	a.fld.AddPoint(res.Position, 1)
	return 1
}

// AverageStress returns the mean node stress, zero for an empty graph.
func (a *Adaptation) AverageStress() float64 {
	count := a.graph.NodeCount()
	if count == 0 {
		return 0
	}
	sum := 0.0
	a.graph.ForEachNode(func(n *morph.Node) { sum += n.Stress })
	return sum / float64(count)
}

// NodeStress returns the current stress of a node, zero when unknown.
func (a *Adaptation) NodeStress(id morph.NodeID) float64 {
	if !a.graph.Valid(id) {
		return 0
	}
	return a.graph.Node(id).Stress
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
