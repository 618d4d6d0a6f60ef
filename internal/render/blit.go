//go:build ebiten

package render

import "github.com/hajimehoshi/ebiten/v2"

// Blitter copies a painter's buffer onto the screen at an integer scale.
type Blitter struct {
	img *ebiten.Image
}

// NewBlitter allocates the intermediate image matching the painter.
func NewBlitter(p *StructurePainter) *Blitter {
	w, h := p.Size()
	return &Blitter{img: ebiten.NewImage(w, h)}
}

// Blit uploads the painter's pixels and draws them scaled.
func (b *Blitter) Blit(screen *ebiten.Image, p *StructurePainter, scale int) {
	if scale <= 0 {
		scale = 1
	}
	b.img.WritePixels(p.Buffer())
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(b.img, op)
}
