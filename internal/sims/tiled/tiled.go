// Package tiled implements a toroidal cellular automaton split into square
// tiles for cache locality.
//
// Tiles are side x side cells and overlap their south and east neighbors by
// one row and one column, so a grid of size cells holds size/(side-1) tiles
// per axis. Tile (tx, ty) covers global rows tx*(side-1) to tx*(side-1)+side-1
// (mod size) and the matching columns. The cells of local rows and columns
// [0, side-1) are owned by the tile; the last row and column are copies of
// cells owned by the neighbors.
package tiled

import (
	"math/rand/v2"

	"github.com/juju/errors"
	"golang.org/x/sync/errgroup"

	"tiled-ca/internal/core"
	"tiled-ca/internal/rule"
	pkgcore "tiled-ca/pkg/core"
)

// DefaultTileSide is the tile side used when none is configured.
const DefaultTileSide = 257

// ErrTileGeometry reports a grid size and tile side that cannot be combined.
const ErrTileGeometry = errors.ConstError("invalid tile geometry")

// Grid is a double-buffered tiled grid with wraparound edges.
type Grid struct {
	size    int
	side    int
	stride  int
	nTiles  int
	horizon int
	states  int
	rule    *rule.Table
	workers int

	// bufs[k][t] holds tile t = tx*nTiles+ty in row-major order.
	bufs [2][][]uint8
	flop bool
}

// New returns a zeroed tiled grid. size must be a positive multiple of
// side-1 and the rule horizon may not exceed side-1.
func New(size, side int, r *rule.Table) (*Grid, error) {
	if r == nil {
		return nil, errors.NotValidf("nil rule")
	}
	if err := r.Check(); err != nil {
		return nil, errors.Trace(err)
	}
	if side < 2 {
		return nil, errors.Annotatef(ErrTileGeometry, "tile side %d", side)
	}
	stride := side - 1
	if size <= 0 || size%stride != 0 {
		return nil, errors.Annotatef(ErrTileGeometry, "size %d is not a positive multiple of %d", size, stride)
	}
	if r.Horizon() > stride {
		return nil, errors.Annotatef(ErrTileGeometry, "horizon %d exceeds tile stride %d", r.Horizon(), stride)
	}
	n := size / stride
	g := &Grid{
		size:    size,
		side:    side,
		stride:  stride,
		nTiles:  n,
		horizon: r.Horizon(),
		states:  int(r.States()),
		rule:    r,
		workers: 1,
		flop:    true,
	}
	for k := range g.bufs {
		g.bufs[k] = make([][]uint8, n*n)
		for t := range g.bufs[k] {
			g.bufs[k][t] = make([]uint8, side*side)
		}
	}
	return g, nil
}

// SetWorkers bounds the number of goroutines used for tile interiors.
// Values below two keep the update on the calling goroutine.
func (g *Grid) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	g.workers = n
}

// Name returns the engine identifier.
func (g *Grid) Name() string { return "tiled" }

// Size returns the grid side length.
func (g *Grid) Size() int { return g.size }

// States returns the number of cell states.
func (g *Grid) States() uint8 { return uint8(g.states) }

// Tiles returns the number of tiles per axis.
func (g *Grid) Tiles() int { return g.nTiles }

// TileSide returns the side length of one tile.
func (g *Grid) TileSide() int { return g.side }

// Flop reports which buffer is current.
func (g *Grid) Flop() bool { return g.flop }

func (g *Grid) current() [][]uint8 {
	if g.flop {
		return g.bufs[0]
	}
	return g.bufs[1]
}

func (g *Grid) next() [][]uint8 {
	if g.flop {
		return g.bufs[1]
	}
	return g.bufs[0]
}

// Tile exposes tile (tx, ty) of the current buffer.
func (g *Grid) Tile(tx, ty int) []uint8 { return g.current()[g.tileIndex(tx, ty)] }

func (g *Grid) wrapTile(t int) int {
	t %= g.nTiles
	if t < 0 {
		t += g.nTiles
	}
	return t
}

func (g *Grid) tileIndex(tx, ty int) int {
	return g.wrapTile(tx)*g.nTiles + g.wrapTile(ty)
}

// RandomInit overwrites the current buffer with uniform samples. Shared
// border cells receive one sample so that their copies agree.
func (g *Grid) RandomInit(r *rand.Rand) {
	cells := make([]uint8, g.size*g.size)
	pkgcore.FillUniform(r, cells, uint8(g.states))
	g.load(cells)
}

// Load copies a row-major size*size grid into the current buffer, including
// every copy of the shared border cells.
func (g *Grid) Load(cells []uint8) error {
	if len(cells) != g.size*g.size {
		return errors.NotValidf("grid of %d cells for size %d", len(cells), g.size)
	}
	for i, v := range cells {
		if int(v) >= g.states {
			return errors.NotValidf("cell %d state %d with %d states", i, v, g.states)
		}
	}
	g.load(cells)
	return nil
}

func (g *Grid) load(cells []uint8) {
	cur := g.current()
	for tx := 0; tx < g.nTiles; tx++ {
		for ty := 0; ty < g.nTiles; ty++ {
			tile := cur[tx*g.nTiles+ty]
			for i := 0; i < g.side; i++ {
				row := ((tx*g.stride + i) % g.size) * g.size
				for j := 0; j < g.side; j++ {
					col := (ty*g.stride + j) % g.size
					tile[i*g.side+j] = cells[row+col]
				}
			}
		}
	}
}

// Snapshot appends the current grid in global row-major order to dst[:0].
func (g *Grid) Snapshot(dst []uint8) []uint8 {
	dst = dst[:0]
	cur := g.current()
	for r := 0; r < g.size; r++ {
		tx, i := r/g.stride, r%g.stride
		for ty := 0; ty < g.nTiles; ty++ {
			tile := cur[tx*g.nTiles+ty]
			dst = append(dst, tile[i*g.side:i*g.side+g.stride]...)
		}
	}
	return dst
}

// Update runs the interior pass over every tile, then the border pass over
// every tile, then flips the buffers. Both passes read only the current
// buffer.
func (g *Grid) Update() {
	cur, nxt := g.current(), g.next()
	g.updateInteriors(cur, nxt)
	for tx := 0; tx < g.nTiles; tx++ {
		for ty := 0; ty < g.nTiles; ty++ {
			g.updateTileBorders(cur, nxt, tx, ty)
		}
	}
	g.flop = !g.flop
}

func (g *Grid) updateInteriors(cur, nxt [][]uint8) {
	if g.workers < 2 || len(cur) < 2 {
		for tx := 0; tx < g.nTiles; tx++ {
			for ty := 0; ty < g.nTiles; ty++ {
				g.updateTileInterior(cur, nxt, tx, ty)
			}
		}
		return
	}
	var eg errgroup.Group
	eg.SetLimit(g.workers)
	for tx := 0; tx < g.nTiles; tx++ {
		for ty := 0; ty < g.nTiles; ty++ {
			eg.Go(func() error {
				g.updateTileInterior(cur, nxt, tx, ty)
				return nil
			})
		}
	}
	// The closures never fail, so Wait only serves as the barrier that
	// orders interior writes before the border pass.
	_ = eg.Wait()
}

// updateTileInterior updates local cells [h, side-h)^2, whose neighborhoods
// lie inside the tile.
func (g *Grid) updateTileInterior(cur, nxt [][]uint8, tx, ty int) {
	t := tx*g.nTiles + ty
	src, dst := cur[t], nxt[t]
	h, side, states := g.horizon, g.side, g.states
	for i := h; i < side-h; i++ {
		for j := h; j < side-h; j++ {
			idx := 0
			for a := -h; a <= h; a++ {
				row := (i + a) * side
				for b := -h; b <= h; b++ {
					idx = idx*states + int(src[row+j+b])
				}
			}
			dst[i*side+j] = g.rule.At(idx)
		}
	}
}

// updateTileBorders updates the owned cells outside the interior. Their
// neighborhoods reach into adjacent tiles, and the results are written to
// every tile holding a copy of the cell.
func (g *Grid) updateTileBorders(cur, nxt [][]uint8, tx, ty int) {
	h := g.horizon
	for i := 0; i < g.stride; i++ {
		band := i < h || i >= g.side-h
		for j := 0; j < g.stride; j++ {
			if !band && j == h {
				// Skip the interior span of this row.
				j = g.side - h - 1
				continue
			}
			v := g.rule.At(g.borderIndex(cur, tx, ty, i, j))
			g.writeShared(nxt, tx, ty, i, j, v)
		}
	}
}

// borderIndex encodes the neighborhood of local cell (i, j). Offsets that
// leave the tile are read from the neighbor in that direction: north and
// west for negative overflow, south and east for positive.
func (g *Grid) borderIndex(cur [][]uint8, tx, ty, i, j int) int {
	h, side, stride, states := g.horizon, g.side, g.stride, g.states
	idx := 0
	for a := -h; a <= h; a++ {
		r, dtx := i+a, 0
		if r < 0 {
			r, dtx = r+stride, -1
		} else if r > stride {
			r, dtx = r-stride, 1
		}
		for b := -h; b <= h; b++ {
			c, dty := j+b, 0
			if c < 0 {
				c, dty = c+stride, -1
			} else if c > stride {
				c, dty = c-stride, 1
			}
			idx = idx*states + int(cur[g.tileIndex(tx+dtx, ty+dty)][r*side+c])
		}
	}
	return idx
}

// writeShared stores v at local cell (i, j) and at the copies of that cell
// held by the north, west and northwest neighbors.
func (g *Grid) writeShared(nxt [][]uint8, tx, ty, i, j int, v uint8) {
	side, last := g.side, g.side-1
	nxt[tx*g.nTiles+ty][i*side+j] = v
	if i == 0 {
		nxt[g.tileIndex(tx-1, ty)][last*side+j] = v
	}
	if j == 0 {
		nxt[g.tileIndex(tx, ty-1)][i*side+last] = v
	}
	if i == 0 && j == 0 {
		nxt[g.tileIndex(tx-1, ty-1)][last*side+last] = v
	}
}

func init() {
	core.Register("tiled", func(cfg core.Config, r *rule.Table) (core.Engine, error) {
		side := cfg.TileSide
		if side == 0 {
			side = DefaultTileSide
		}
		g, err := New(cfg.Size, side, r)
		if err != nil {
			return nil, errors.Trace(err)
		}
		g.SetWorkers(cfg.Workers)
		cfg.Log().Debug("tiled engine", "size", cfg.Size, "tile_side", side, "tiles", g.nTiles, "workers", g.workers)
		return g, nil
	})
}
