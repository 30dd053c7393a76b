// Command ca simulates a 2D cellular automaton and writes it as an
// animated GIF. With no options it runs a random Dirichlet rule with two
// states for 50 steps and writes test.gif.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"

	"tiled-ca/internal/app"
)

func main() {
	cfg, err := app.Parse("ca", os.Args[1:])
	if err != nil {
		log.Fatal("bad arguments", "err", err)
	}
	logger, err := app.NewLogger(os.Stderr, cfg.LogLevel)
	if err != nil {
		log.Fatal("logger", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sim, err := app.Setup(cfg, logger)
	if err != nil {
		logger.Fatal("setup", "err", err)
	}
	if err := sim.Export(ctx, os.Stderr); err != nil {
		logger.Fatal("export", "err", err)
	}
}
