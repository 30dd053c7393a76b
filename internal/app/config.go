package app

import (
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/juju/errors"
	flag "github.com/juju/gnuflag"
	"gopkg.in/yaml.v3"

	"tiled-ca/internal/rule"
	"tiled-ca/internal/sims/tiled"
)

// Engine selection values.
const (
	EngineAuto  = "auto"
	EngineFlat  = "flat"
	EngineTiled = "tiled"
)

// Config holds every run parameter. Defaults come from NewConfig, an
// optional YAML file overrides them and command-line flags override both.
type Config struct {
	Size     int     `yaml:"size"`
	States   int     `yaml:"states"`
	Horizon  int     `yaml:"horizon"`
	Steps    int     `yaml:"steps"`
	Skip     int     `yaml:"skip"`
	Scale    int     `yaml:"scale"`
	Delay    int     `yaml:"delay"`
	Rotate   int     `yaml:"rotate"`
	Sampling string  `yaml:"sampling"`
	Alpha    float64 `yaml:"alpha"`
	Rule     string  `yaml:"rule"`
	RuleFile string  `yaml:"rule_file"`
	SaveRule string  `yaml:"save_rule"`
	Symmetry bool    `yaml:"symmetrize"`
	Pattern  string  `yaml:"pattern"`
	Output   string  `yaml:"output"`
	Engine   string  `yaml:"engine"`
	TileSide int     `yaml:"tile_side"`
	Workers  int     `yaml:"workers"`
	Seed     int64   `yaml:"seed"`
	TPS      int     `yaml:"tps"`
	LogLevel string  `yaml:"log_level"`
	Progress bool    `yaml:"progress"`

	// ConfigFile names the YAML file read before flags are applied.
	ConfigFile string `yaml:"-"`
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Size:     128,
		States:   2,
		Horizon:  1,
		Steps:    50,
		Skip:     1,
		Delay:    10,
		Sampling: string(rule.Dirichlet),
		Output:   "test.gif",
		Engine:   EngineAuto,
		TileSide: tiled.DefaultTileSide,
		Workers:  1,
		Seed:     42,
		TPS:      30,
		LogLevel: "info",
		Progress: true,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "YAML file with default settings")
	fs.IntVar(&c.Size, "size", c.Size, "side length of the square grid")
	fs.IntVar(&c.Size, "s", c.Size, "")
	fs.IntVar(&c.States, "states", c.States, "number of cell states")
	fs.IntVar(&c.States, "n", c.States, "")
	fs.IntVar(&c.Horizon, "horizon", c.Horizon, "neighborhood radius")
	fs.IntVar(&c.Steps, "steps", c.Steps, "number of updates to simulate")
	fs.IntVar(&c.Steps, "t", c.Steps, "")
	fs.IntVar(&c.Skip, "skip", c.Skip, "updates between output frames")
	fs.IntVar(&c.Skip, "k", c.Skip, "")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixels per cell (0 picks one from the grid size)")
	fs.IntVar(&c.Delay, "delay", c.Delay, "frame delay in hundredths of a second")
	fs.IntVar(&c.Rotate, "rotate", c.Rotate, "palette rotation")
	fs.StringVar(&c.Sampling, "sampling", c.Sampling, "random rule sampling: uniform or dirichlet")
	fs.StringVar(&c.Sampling, "r", c.Sampling, "")
	fs.Float64Var(&c.Alpha, "alpha", c.Alpha, "Dirichlet concentration (0 for the default)")
	fs.StringVar(&c.Rule, "rule", c.Rule, "well-known rule instead of a random one: "+strings.Join(rule.WellKnownNames(), ", "))
	fs.StringVar(&c.RuleFile, "file", c.RuleFile, "read the rule from this file")
	fs.StringVar(&c.RuleFile, "f", c.RuleFile, "")
	fs.StringVar(&c.SaveRule, "save-rule", c.SaveRule, "write the rule to this file")
	fs.BoolVar(&c.Symmetry, "symmetrize", c.Symmetry, "make the rule invariant under rotations and reflections")
	fs.StringVar(&c.Pattern, "pattern", c.Pattern, "initialize the grid from this pattern file")
	fs.StringVar(&c.Pattern, "p", c.Pattern, "")
	fs.StringVar(&c.Output, "output", c.Output, "GIF file to write")
	fs.StringVar(&c.Output, "o", c.Output, "")
	fs.StringVar(&c.Engine, "engine", c.Engine, "grid engine: auto, flat or tiled")
	fs.IntVar(&c.TileSide, "tile-side", c.TileSide, "tile side length of the tiled engine")
	fs.IntVar(&c.Workers, "workers", c.Workers, "goroutines updating tile interiors")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "random seed")
	fs.IntVar(&c.TPS, "tps", c.TPS, "viewer updates per second")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
	fs.BoolVar(&c.Progress, "progress", c.Progress, "show a progress bar while exporting")
}

// LoadFile overlays the YAML settings in path onto c.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Annotate(err, "read config")
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Annotatef(err, "decode config %s", path)
	}
	return nil
}

// Parse builds a Config from command-line arguments. When -config names a
// file its settings are applied first and the flags are parsed again on top.
func Parse(name string, args []string) (*Config, error) {
	cfg := NewConfig()
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse(true, args); err != nil {
		return nil, errors.Trace(err)
	}
	if cfg.ConfigFile == "" {
		return cfg, errors.Trace(cfg.Validate())
	}

	path := cfg.ConfigFile
	cfg = NewConfig()
	if err := cfg.LoadFile(path); err != nil {
		return nil, errors.Trace(err)
	}
	fs = flag.NewFlagSet(name, flag.ContinueOnError)
	cfg.Bind(fs)
	if err := fs.Parse(true, args); err != nil {
		return nil, errors.Trace(err)
	}
	return cfg, errors.Trace(cfg.Validate())
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Size <= 0:
		return errors.NotValidf("size %d", c.Size)
	case c.States < rule.MinStates || c.States > rule.MaxStates:
		return errors.NotValidf("%d states", c.States)
	case c.Horizon < 0:
		return errors.NotValidf("horizon %d", c.Horizon)
	case c.Steps < 0 || c.Skip < 0:
		return errors.NotValidf("steps %d with skip %d", c.Steps, c.Skip)
	case c.Scale < 0 || c.Delay < 0 || c.Rotate < 0:
		return errors.NotValidf("scale %d, delay %d, rotate %d", c.Scale, c.Delay, c.Rotate)
	case c.Workers < 0:
		return errors.NotValidf("%d workers", c.Workers)
	}
	if _, err := rule.ParseSamplingMode(c.Sampling); err != nil {
		return errors.Trace(err)
	}
	switch c.Engine {
	case EngineAuto, EngineFlat, EngineTiled:
	default:
		return errors.NotValidf("engine %q", c.Engine)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.NotValidf("log level %q", c.LogLevel)
	}
	return nil
}

// OutputScale returns the configured scale, picking one from the grid size
// when it is zero: 2 above 512 cells, 3 above 256, 4 otherwise.
func (c *Config) OutputScale() int {
	switch {
	case c.Scale > 0:
		return c.Scale
	case c.Size > 512:
		return 2
	case c.Size > 256:
		return 3
	default:
		return 4
	}
}

// EngineName resolves EngineAuto to the tiled engine when the grid size is
// a multiple of the tile stride and the horizon fits, and to flat otherwise.
func (c *Config) EngineName(horizon int) string {
	if c.Engine != EngineAuto {
		return c.Engine
	}
	stride := c.TileSide - 1
	if stride >= 1 && c.Size%stride == 0 && horizon <= stride {
		return EngineTiled
	}
	return EngineFlat
}
