// Package flat implements a toroidal cellular automaton over one contiguous
// row-major buffer pair.
package flat

import (
	"math/rand/v2"

	"github.com/juju/errors"

	"tiled-ca/internal/core"
	"tiled-ca/internal/rule"
	pkgcore "tiled-ca/pkg/core"
)

// Grid is a double-buffered square grid with wraparound edges.
type Grid struct {
	size    int
	horizon int
	states  int
	rule    *rule.Table

	bufs [2]*core.ByteGrid
	// flop selects bufs[0] as the current buffer when true.
	flop bool
}

// New returns a zeroed grid of size*size cells driven by r.
func New(size int, r *rule.Table) (*Grid, error) {
	if size <= 0 {
		return nil, errors.NotValidf("grid size %d", size)
	}
	if r == nil {
		return nil, errors.NotValidf("nil rule")
	}
	if err := r.Check(); err != nil {
		return nil, errors.Trace(err)
	}
	return &Grid{
		size:    size,
		horizon: r.Horizon(),
		states:  int(r.States()),
		rule:    r,
		bufs:    [2]*core.ByteGrid{core.NewByteGrid(size), core.NewByteGrid(size)},
		flop:    true,
	}, nil
}

// Name returns the engine identifier.
func (g *Grid) Name() string { return "flat" }

// Size returns the grid side length.
func (g *Grid) Size() int { return g.size }

// States returns the number of cell states.
func (g *Grid) States() uint8 { return uint8(g.states) }

// Flop reports which buffer is current.
func (g *Grid) Flop() bool { return g.flop }

func (g *Grid) current() *core.ByteGrid {
	if g.flop {
		return g.bufs[0]
	}
	return g.bufs[1]
}

func (g *Grid) next() *core.ByteGrid {
	if g.flop {
		return g.bufs[1]
	}
	return g.bufs[0]
}

// Cells exposes the current buffer.
func (g *Grid) Cells() []uint8 { return g.current().Cells() }

// RandomInit overwrites the current buffer with uniform samples.
func (g *Grid) RandomInit(r *rand.Rand) {
	pkgcore.FillUniform(r, g.current().Cells(), uint8(g.states))
}

// Load copies a row-major size*size grid into the current buffer.
func (g *Grid) Load(cells []uint8) error {
	if len(cells) != g.size*g.size {
		return errors.NotValidf("grid of %d cells for size %d", len(cells), g.size)
	}
	for i, v := range cells {
		if int(v) >= g.states {
			return errors.NotValidf("cell %d state %d with %d states", i, v, g.states)
		}
	}
	copy(g.current().Cells(), cells)
	return nil
}

// Snapshot appends the current grid to dst[:0].
func (g *Grid) Snapshot(dst []uint8) []uint8 {
	return append(dst[:0], g.current().Cells()...)
}

// Update advances the grid by one step.
func (g *Grid) Update() {
	cur, nxt := g.current(), g.next().Cells()
	lo, hi := g.horizon, g.size-g.horizon
	if hi <= lo {
		// Every neighborhood wraps.
		for i := 0; i < g.size; i++ {
			for j := 0; j < g.size; j++ {
				g.updateWrapped(cur, nxt, i, j)
			}
		}
		g.flop = !g.flop
		return
	}

	for i := lo; i < hi; i++ {
		for j := lo; j < hi; j++ {
			g.updateInterior(cur.Cells(), nxt, i, j)
		}
	}

	for j := 0; j < g.size; j++ {
		for i := 0; i < lo; i++ {
			g.updateWrapped(cur, nxt, i, j)
		}
		for i := hi; i < g.size; i++ {
			g.updateWrapped(cur, nxt, i, j)
		}
	}
	for i := lo; i < hi; i++ {
		for j := 0; j < lo; j++ {
			g.updateWrapped(cur, nxt, i, j)
		}
		for j := hi; j < g.size; j++ {
			g.updateWrapped(cur, nxt, i, j)
		}
	}

	g.flop = !g.flop
}

// updateInterior computes cell (i, j) whose neighborhood lies entirely
// inside the buffer.
func (g *Grid) updateInterior(cur, nxt []uint8, i, j int) {
	h, size, states := g.horizon, g.size, g.states
	idx := 0
	for a := -h; a <= h; a++ {
		row := (i + a) * size
		for b := -h; b <= h; b++ {
			idx = idx*states + int(cur[row+j+b])
		}
	}
	nxt[i*size+j] = g.rule.At(idx)
}

// updateWrapped computes cell (i, j) with toroidal neighbor lookup.
func (g *Grid) updateWrapped(cur *core.ByteGrid, nxt []uint8, i, j int) {
	h, states := g.horizon, g.states
	idx := 0
	for a := -h; a <= h; a++ {
		for b := -h; b <= h; b++ {
			idx = idx*states + int(cur.At(i+a, j+b))
		}
	}
	nxt[i*g.size+j] = g.rule.At(idx)
}

func init() {
	core.Register("flat", func(cfg core.Config, r *rule.Table) (core.Engine, error) {
		g, err := New(cfg.Size, r)
		if err != nil {
			return nil, errors.Trace(err)
		}
		cfg.Log().Debug("flat engine", "size", cfg.Size, "horizon", r.Horizon(), "states", r.States())
		return g, nil
	})
}
