// Package field provides the discretized influence field that biases growth
// direction, plus the ephemeral attraction points used by the
// space-colonization strategy.
package field

import (
	"math"

	"morphogen/pkg/core"
)

// Field is a sparse scalar field over the growth volume. Each cell
// accumulates influence from the nodes created inside it; the gradient gives
// strategies a cheap, spatially smoothed bias toward dense or sparse regions.
type Field struct {
	bounds   core.Bounds
	cellSize float64
	cells    map[[3]int]float64
}

// New constructs a field covering bounds at the given cell size.
func New(bounds core.Bounds, cellSize float64) *Field {
	f := &Field{}
	f.Reset(bounds, cellSize)
	return f
}

// Reset clears the field and re-covers bounds. Called whenever the growth
// bounds change.
func (f *Field) Reset(bounds core.Bounds, cellSize float64) {
	if cellSize <= 0 {
		cellSize = 1
	}
	f.bounds = bounds
	f.cellSize = cellSize
	f.cells = make(map[[3]int]float64)
}

// Bounds returns the covered volume.
func (f *Field) Bounds() core.Bounds { return f.bounds }

func (f *Field) key(p core.Vec3) [3]int {
	return [3]int{
		int(math.Floor(p.X / f.cellSize)),
		int(math.Floor(p.Y / f.cellSize)),
		int(math.Floor(p.Z / f.cellSize)),
	}
}

// AddPoint accumulates strength into the cell owning pos.
func (f *Field) AddPoint(pos core.Vec3, strength float64) {
	f.cells[f.key(pos)] += strength
}

// At returns the accumulated influence of the cell owning pos.
func (f *Field) At(pos core.Vec3) float64 {
	return f.cells[f.key(pos)]
}

// GradientAt returns a unit vector pointing toward increasing influence,
// computed by finite differences against the six axis-adjacent cells. Returns
// the zero vector when the magnitude is below epsilon.
func (f *Field) GradientAt(pos core.Vec3) core.Vec3 {
	k := f.key(pos)
	center := f.cells[k]
	var g core.Vec3
	g.X = (f.cells[[3]int{k[0] + 1, k[1], k[2]}] - center) + (center - f.cells[[3]int{k[0] - 1, k[1], k[2]}])
	g.Y = (f.cells[[3]int{k[0], k[1] + 1, k[2]}] - center) + (center - f.cells[[3]int{k[0], k[1] - 1, k[2]}])
	g.Z = (f.cells[[3]int{k[0], k[1], k[2] + 1}] - center) + (center - f.cells[[3]int{k[0], k[1], k[2] - 1}])
	return g.Normalized()
}

// CellCount returns the number of cells holding influence.
func (f *Field) CellCount() int { return len(f.cells) }
