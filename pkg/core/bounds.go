package core

// Bounds is an axis-aligned box describing the growth volume.
type Bounds struct {
	Min Vec3
	Max Vec3
}

// NewBounds returns a bounds with min/max normalized per axis.
func NewBounds(a, b Vec3) Bounds {
	min := Vec3{X: minf(a.X, b.X), Y: minf(a.Y, b.Y), Z: minf(a.Z, b.Z)}
	max := Vec3{X: maxf(a.X, b.X), Y: maxf(a.Y, b.Y), Z: maxf(a.Z, b.Z)}
	return Bounds{Min: min, Max: max}
}

// Contains reports whether p lies inside the box (inclusive).
func (b Bounds) Contains(p Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Clamp returns p moved to the nearest point inside the box.
func (b Bounds) Clamp(p Vec3) Vec3 {
	return Vec3{
		X: Clamp(p.X, b.Min.X, b.Max.X),
		Y: Clamp(p.Y, b.Min.Y, b.Max.Y),
		Z: Clamp(p.Z, b.Min.Z, b.Max.Z),
	}
}

// Center returns the midpoint of the box.
func (b Bounds) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Size returns the per-axis extents of the box.
func (b Bounds) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// RandomPoint returns a uniformly sampled point inside the box.
func (b Bounds) RandomPoint(rng *RNG) Vec3 {
	return Vec3{
		X: rng.Range(b.Min.X, b.Max.X),
		Y: rng.Range(b.Min.Y, b.Max.Y),
		Z: rng.Range(b.Min.Z, b.Max.Z),
	}
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
