package core

import (
	"io"
	"math/rand/v2"
	"sort"

	"github.com/charmbracelet/log"

	"tiled-ca/internal/rule"
)

// Engine defines the contract shared by the grid update strategies.
type Engine interface {
	Name() string
	Size() int
	States() uint8
	// Flop reports which of the two buffers is currently readable.
	Flop() bool
	// Update advances the grid by one step and flips the buffers.
	Update()
	// RandomInit overwrites the current buffer with uniform samples.
	RandomInit(r *rand.Rand)
	// Load overwrites the current buffer from a row-major Size()*Size() grid.
	Load(cells []uint8) error
	// Snapshot appends the current row-major grid to dst[:0] and returns it.
	Snapshot(dst []uint8) []uint8
}

// Config carries the construction parameters common to all engines.
type Config struct {
	Size     int
	TileSide int
	Workers  int
	Logger   *log.Logger
}

// Log returns the configured logger, or one that discards everything.
func (c Config) Log() *log.Logger {
	if c.Logger == nil {
		return log.New(io.Discard)
	}
	return c.Logger
}

// Factory constructs an Engine around the provided rule.
type Factory func(cfg Config, r *rule.Table) (Engine, error)

var engines = map[string]Factory{}

// Register adds an engine factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	engines[name] = f
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, bool) {
	f, ok := engines[name]
	return f, ok
}

// Engines lists the registered engine names in sorted order.
func Engines() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
