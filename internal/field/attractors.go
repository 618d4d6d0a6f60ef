package field

import (
	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

// Attractor is an ephemeral spatial target steering space-colonization
// growth. It records which nodes currently lie inside its attraction radius
// and dies the moment any node enters its kill radius.
type Attractor struct {
	Pos        core.Vec3
	Influenced []morph.NodeID
}

// Attractors holds a bounded collection of live attraction points.
type Attractors struct {
	attractionRadius float64
	killRadius       float64
	cap              int

	points []Attractor
}

// NewAttractors constructs an empty collection.
func NewAttractors(attractionRadius, killRadius float64, cap int) *Attractors {
	if cap <= 0 {
		cap = 200
	}
	if killRadius > attractionRadius {
		killRadius = attractionRadius
	}
	return &Attractors{
		attractionRadius: attractionRadius,
		killRadius:       killRadius,
		cap:              cap,
	}
}

// Count returns the number of live points.
func (a *Attractors) Count() int { return len(a.points) }

// Reset drops every point.
func (a *Attractors) Reset() { a.points = a.points[:0] }

// Inject adds up to n random points inside bounds, respecting the global cap.
func (a *Attractors) Inject(rng *core.RNG, bounds core.Bounds, n int) int {
	added := 0
	for i := 0; i < n && len(a.points) < a.cap; i++ {
		a.points = append(a.points, Attractor{Pos: bounds.RandomPoint(rng)})
		added++
	}
	return added
}

// Update recomputes each point's influenced-node set and removes points with
// any node inside the kill radius. The sweep is purely geometric: a node's
// remaining energy does not matter here, energy gates only growth
// origination.
func (a *Attractors) Update(g *morph.Graph) {
	live := a.points[:0]
	for i := range a.points {
		p := &a.points[i]
		p.Influenced = p.Influenced[:0]
		killed := false
		g.Within(p.Pos, a.attractionRadius, func(id morph.NodeID, dist float64) bool {
			if dist <= a.killRadius {
				killed = true
				return false
			}
			p.Influenced = append(p.Influenced, id)
			return true
		})
		if !killed {
			live = append(live, *p)
		}
	}
	a.points = live
}

// MostInfluenced returns the node influenced by the most live points.
func (a *Attractors) MostInfluenced() (morph.NodeID, bool) {
	counts := make(map[morph.NodeID]int)
	for i := range a.points {
		for _, id := range a.points[i].Influenced {
			counts[id]++
		}
	}
	best := morph.NodeID(-1)
	bestCount := 0
	for id, c := range counts {
		if c > bestCount || (c == bestCount && id < best) {
			best = id
			bestCount = c
		}
	}
	if bestCount == 0 {
		return 0, false
	}
	return best, true
}

// DirectionFor returns the normalized sum of unit vectors from the node
// toward every point influencing it.
func (a *Attractors) DirectionFor(g *morph.Graph, id morph.NodeID) core.Vec3 {
	pos := g.Node(id).Position
	var sum core.Vec3
	for i := range a.points {
		p := &a.points[i]
		for _, nid := range p.Influenced {
			if nid == id {
				sum = sum.Add(p.Pos.Sub(pos).Normalized())
				break
			}
		}
	}
	return sum.Normalized()
}
