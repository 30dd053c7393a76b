// Package app wires configuration, rules and engines into runnable
// simulations for the exporter and the live viewer.
package app

import (
	"context"
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/juju/errors"

	"tiled-ca/internal/core"
	"tiled-ca/internal/export"
	"tiled-ca/internal/pattern"
	"tiled-ca/internal/rule"
	"tiled-ca/internal/steps"
	pkgcore "tiled-ca/pkg/core"

	_ "tiled-ca/internal/sims/flat"
	_ "tiled-ca/internal/sims/tiled"
)

// NewLogger returns a logger writing to w at the named level.
func NewLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.NotValidf("log level %q", level)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "ca",
	}), nil
}

// Sim is a configured engine ready to run.
type Sim struct {
	Config *Config
	Rule   *rule.Table
	Engine core.Engine

	log *log.Logger
	pat *pattern.Pattern
}

// Setup builds the rule and engine described by cfg and initializes the
// grid. A nil logger discards everything.
func Setup(cfg *Config, logger *log.Logger) (*Sim, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	rng := pkgcore.NewRNG(cfg.Seed).Source()
	r, err := BuildRule(cfg, rng)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if int(r.States()) != cfg.States {
		logger.Warn("rule state count overrides configuration", "rule_states", r.States(), "states", cfg.States)
	}
	if cfg.SaveRule != "" {
		if err := rule.WriteFile(cfg.SaveRule, r); err != nil {
			return nil, errors.Trace(err)
		}
		logger.Info("saved rule", "path", cfg.SaveRule)
	}

	name := cfg.EngineName(r.Horizon())
	factory, ok := core.Lookup(name)
	if !ok {
		return nil, errors.NotFoundf("engine %q", name)
	}
	e, err := factory(core.Config{
		Size:     cfg.Size,
		TileSide: cfg.TileSide,
		Workers:  cfg.Workers,
		Logger:   logger,
	}, r)
	if err != nil {
		return nil, errors.Annotatef(err, "%s engine", name)
	}

	s := &Sim{Config: cfg, Rule: r, Engine: e, log: logger}
	if cfg.Pattern != "" {
		if s.pat, err = pattern.ReadFile(cfg.Pattern); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if err := s.Reset(cfg.Seed); err != nil {
		return nil, errors.Trace(err)
	}
	logger.Info("simulation ready", core.KeyValues(core.Describe(e, r))...)
	return s, nil
}

// BuildRule returns the rule named by cfg: a rule file, a well-known rule
// or a random sample, in that order of precedence.
func BuildRule(cfg *Config, rng *rand.Rand) (*rule.Table, error) {
	var (
		r   *rule.Table
		err error
	)
	switch {
	case cfg.RuleFile != "":
		r, err = rule.ReadFile(cfg.RuleFile)
	case cfg.Rule != "":
		r, err = rule.WellKnown(cfg.Rule)
	default:
		var mode rule.SamplingMode
		if mode, err = rule.ParseSamplingMode(cfg.Sampling); err == nil {
			r, err = rule.Random(mode, cfg.Horizon, uint8(cfg.States), cfg.Alpha, rng)
		}
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	if cfg.Symmetry {
		r.Symmetrize()
	}
	return r, nil
}

// Reset reinitializes the grid from the pattern when one is configured, or
// with uniform noise drawn from seed otherwise.
func (s *Sim) Reset(seed int64) error {
	if s.pat == nil {
		s.Engine.RandomInit(pkgcore.NewRNG(seed).Source())
		return nil
	}
	g := core.NewByteGrid(s.Engine.Size())
	if err := s.pat.Apply(g, s.Engine.States()); err != nil {
		return errors.Annotatef(err, "pattern %s", s.Config.Pattern)
	}
	return errors.Trace(s.Engine.Load(g.Cells()))
}

// Export writes the configured number of steps to the output GIF.
func (s *Sim) Export(ctx context.Context, progress io.Writer) error {
	cfg := s.Config
	opts := steps.Options{
		Frames: export.FrameCount(cfg.Steps, cfg.Skip),
		Skip:   max(cfg.Skip, 1),
		Scale:  cfg.OutputScale(),
	}
	if opts.Frames == 0 {
		return errors.NotValidf("export of %d steps", cfg.Steps)
	}
	it, err := steps.New(s.Engine, opts)
	if err != nil {
		return errors.Trace(err)
	}
	s.log.Info("exporting", "output", cfg.Output, "frames", opts.Frames, "scale", opts.Scale)
	if !cfg.Progress {
		progress = nil
	}
	err = export.WriteFile(ctx, cfg.Output, it, export.Options{
		States:   int(s.Engine.States()),
		Delay:    cfg.Delay,
		Rotate:   cfg.Rotate,
		Progress: progress,
	})
	if err != nil {
		return errors.Trace(err)
	}
	s.log.Info("done", "frames", it.Count())
	return nil
}
