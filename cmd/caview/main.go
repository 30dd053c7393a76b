//go:build ebiten

// Command caview runs a cellular automaton in a window.
package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"tiled-ca/internal/app"
	"tiled-ca/internal/ui"
)

func main() {
	cfg, err := app.Parse("caview", os.Args[1:])
	if err != nil {
		log.Fatal("bad arguments", "err", err)
	}
	logger, err := app.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatal("logger", "err", err)
	}

	sim, err := app.Setup(cfg, logger)
	if err != nil {
		logger.Fatal("setup", "err", err)
	}

	game := app.NewGame(sim)
	side := sim.Engine.Size() * cfg.OutputScale()

	ebiten.SetWindowTitle("tiled-ca - " + sim.Engine.Name())
	ebiten.SetTPS(60)
	ebiten.SetWindowSize(side+ui.PanelWidth, side)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("viewer", "err", err)
	}
}
