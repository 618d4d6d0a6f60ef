// Package render rasterizes structure snapshots into RGBA pixel buffers for
// the debug viewer. Rendering proper (meshes, cameras) lives outside the
// engine; this is an orthographic X/Y projection for eyeballing growth.
package render

import (
	"image/color"
	"math"

	"morphogen/pkg/core"
	"morphogen/pkg/morph"
)

// stressPalette maps node stress from cool to hot.
var stressPalette = []color.RGBA{
	{R: 64, G: 128, B: 255, A: 255},
	{R: 64, G: 220, B: 180, A: 255},
	{R: 200, G: 220, B: 80, A: 255},
	{R: 255, G: 160, B: 64, A: 255},
	{R: 255, G: 64, B: 64, A: 255},
}

// StructurePainter projects snapshots onto a fixed-size pixel buffer.
type StructurePainter struct {
	w, h   int
	bounds core.Bounds
	buf    []byte
}

// NewStructurePainter allocates a painter with the given pixel dimensions
// covering the given growth volume.
func NewStructurePainter(w, h int, bounds core.Bounds) *StructurePainter {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &StructurePainter{w: w, h: h, bounds: bounds, buf: make([]byte, w*h*4)}
}

// Size returns the pixel dimensions.
func (p *StructurePainter) Size() (int, int) { return p.w, p.h }

// Buffer exposes the RGBA backing buffer, row-major.
func (p *StructurePainter) Buffer() []byte { return p.buf }

// project maps a world position to pixel coordinates: X maps across, Y maps
// up (flipped into screen space), Z is dropped.
func (p *StructurePainter) project(pos core.Vec3) (int, int) {
	size := p.bounds.Size()
	if size.X <= 0 || size.Y <= 0 {
		return 0, 0
	}
	x := (pos.X - p.bounds.Min.X) / size.X
	y := (pos.Y - p.bounds.Min.Y) / size.Y
	return int(x * float64(p.w-1)), (p.h - 1) - int(y*float64(p.h-1))
}

// Render rasterizes the snapshot: edges first, shaded by strength, then
// nodes colored by stress. Root nodes paint white.
func (p *StructurePainter) Render(s morph.Snapshot) {
	for i := range p.buf {
		p.buf[i] = 0
	}
	positions := make(map[morph.NodeID][2]int, len(s.Nodes))
	for _, n := range s.Nodes {
		x, y := p.project(n.Position)
		positions[n.ID] = [2]int{x, y}
	}
	for _, e := range s.Edges {
		a, okA := positions[e.A]
		b, okB := positions[e.B]
		if !okA || !okB {
			continue
		}
		shade := uint8(90 + 160*core.Clamp01(e.Strength))
		p.line(a[0], a[1], b[0], b[1], color.RGBA{R: shade, G: shade, B: shade, A: 255})
	}
	for _, n := range s.Nodes {
		xy := positions[n.ID]
		c := paletteColor(n.Stress)
		if n.Root {
			c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		p.plotThick(xy[0], xy[1], c)
	}
}

func paletteColor(stress float64) color.RGBA {
	t := core.Clamp01(stress) * float64(len(stressPalette)-1)
	idx := int(math.Floor(t))
	if idx >= len(stressPalette)-1 {
		return stressPalette[len(stressPalette)-1]
	}
	// Nearest entry is plenty for a debug view.
	if t-float64(idx) > 0.5 {
		idx++
	}
	return stressPalette[idx]
}

func (p *StructurePainter) plot(x, y int, c color.RGBA) {
	if x < 0 || x >= p.w || y < 0 || y >= p.h {
		return
	}
	base := (y*p.w + x) * 4
	p.buf[base+0] = c.R
	p.buf[base+1] = c.G
	p.buf[base+2] = c.B
	p.buf[base+3] = c.A
}

func (p *StructurePainter) plotThick(x, y int, c color.RGBA) {
	p.plot(x, y, c)
	p.plot(x+1, y, c)
	p.plot(x-1, y, c)
	p.plot(x, y+1, c)
	p.plot(x, y-1, c)
}

// line draws with the integer Bresenham walk.
func (p *StructurePainter) line(x0, y0, x1, y1 int, c color.RGBA) {
	dx := absInt(x1 - x0)
	dy := -absInt(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		p.plot(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
