//go:build ebiten

package ui

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"morphogen/internal/engine"
)

// Overlay draws telemetry and the current parameter set on top of the
// structure view. Toggled with T.
type Overlay struct {
	sim     *engine.Simulation
	visible bool
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim *engine.Simulation) *Overlay {
	return &Overlay{sim: sim, visible: true}
}

// Update handles overlay input.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		o.visible = !o.visible
	}
}

// Draw paints the telemetry text block.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.visible {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s  tick %d\n", o.sim.Name(), o.sim.Ticks())
	fmt.Fprintf(&b, "nodes %d  edges %d\n", o.sim.NodeCount(), o.sim.ConnectionCount())
	fmt.Fprintf(&b, "progress %.2f  stress %.3f\n", o.sim.Progress(), o.sim.AverageStress())
	for _, group := range o.sim.Parameters().Groups {
		if group.Name != "Biomorph" {
			continue
		}
		for _, p := range group.Params {
			fmt.Fprintf(&b, "%s: %s\n", p.Label, p.Value)
		}
	}
	ebitenutil.DebugPrintAt(screen, b.String(), 4, 4)
}
