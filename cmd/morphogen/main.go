//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"morphogen/internal/app"
	"morphogen/internal/engine"
	"morphogen/internal/render"
	"morphogen/pkg/core"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	engCfg := engine.DefaultConfig()
	if cfg.ConfigPath != "" {
		var err error
		engCfg, err = engine.LoadConfig(cfg.ConfigPath)
		if err != nil {
			log.Fatal(err)
		}
	}
	engCfg.Seed = cfg.Seed
	engCfg.Params.Biomorph = core.BiomorphType(cfg.Biomorph)

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	sim := engine.New(engCfg, engine.WithLogger(logger))
	sim.Reset(cfg.Seed)

	painter := render.NewStructurePainter(cfg.Width, cfg.Height, engCfg.Bounds)
	game := app.New(sim, painter, cfg.Scale, cfg.Seed)

	ebiten.SetWindowTitle("morphogen — " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(cfg.Width*cfg.Scale, cfg.Height*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
