package morph

import (
	"math"

	"morphogen/pkg/core"
)

// cellGrid is a uniform spatial hash over node positions. Proximity checks
// against every node are O(N) per candidate; the grid keeps the candidate and
// extra-connection passes tractable once the structure grows past a few
// hundred nodes.
type cellGrid struct {
	cell  float64
	cells map[[3]int][]NodeID
}

func newCellGrid(cell float64) *cellGrid {
	if cell <= 0 {
		cell = 1
	}
	return &cellGrid{cell: cell, cells: make(map[[3]int][]NodeID)}
}

func (g *cellGrid) key(p core.Vec3) [3]int {
	return [3]int{
		int(math.Floor(p.X / g.cell)),
		int(math.Floor(p.Y / g.cell)),
		int(math.Floor(p.Z / g.cell)),
	}
}

func (g *cellGrid) insert(id NodeID, p core.Vec3) {
	k := g.key(p)
	g.cells[k] = append(g.cells[k], id)
}

func (g *cellGrid) clear() {
	g.cells = make(map[[3]int][]NodeID)
}

// within visits nodes inside radius of pos. visit returning false stops the
// walk early.
func (g *cellGrid) within(pos core.Vec3, radius float64, posOf func(NodeID) core.Vec3, visit func(NodeID, float64) bool) {
	if radius <= 0 {
		return
	}
	span := int(math.Ceil(radius / g.cell))
	center := g.key(pos)
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for dz := -span; dz <= span; dz++ {
				k := [3]int{center[0] + dx, center[1] + dy, center[2] + dz}
				for _, id := range g.cells[k] {
					d := posOf(id).Dist(pos)
					if d <= radius {
						if !visit(id, d) {
							return
						}
					}
				}
			}
		}
	}
}

// nearestDistance returns the distance to the closest node, expanding the
// search ring until a hit is found. Returns +Inf when the grid is empty.
func (g *cellGrid) nearestDistance(pos core.Vec3, posOf func(NodeID) core.Vec3) float64 {
	if len(g.cells) == 0 {
		return math.Inf(1)
	}
	center := g.key(pos)
	best := math.Inf(1)
	// Expand shell by shell. Every unvisited cell in shell s lies at least
	// (s-1)*cell away from pos, so the walk stops once that floor reaches the
	// best hit.
	for span := 0; ; span++ {
		for dx := -span; dx <= span; dx++ {
			for dy := -span; dy <= span; dy++ {
				for dz := -span; dz <= span; dz++ {
					if maxAbs(dx, dy, dz) != span {
						continue
					}
					k := [3]int{center[0] + dx, center[1] + dy, center[2] + dz}
					for _, id := range g.cells[k] {
						if d := posOf(id).Dist(pos); d < best {
							best = d
						}
					}
				}
			}
		}
		if best <= float64(span)*g.cell {
			return best
		}
		if span > len(g.cells)+2 {
			// Sparse fallback: scan everything rather than walking empty shells.
			for _, ids := range g.cells {
				for _, id := range ids {
					if d := posOf(id).Dist(pos); d < best {
						best = d
					}
				}
			}
			return best
		}
	}
}

func maxAbs(vals ...int) int {
	m := 0
	for _, v := range vals {
		if v < 0 {
			v = -v
		}
		if v > m {
			m = v
		}
	}
	return m
}
