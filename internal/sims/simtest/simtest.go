// Package simtest holds reference helpers for testing grid engines.
package simtest

import (
	"tiled-ca/internal/core"
	"tiled-ca/internal/rule"
	pkgcore "tiled-ca/pkg/core"
)

// Step applies r to a row-major toroidal grid by looking up every neighbor
// with modulo arithmetic.
func Step(cells []uint8, size int, r *rule.Table) []uint8 {
	g := core.NewByteGrid(size)
	copy(g.Cells(), cells)
	h, states := r.Horizon(), int(r.States())
	out := make([]uint8, len(cells))
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			idx := 0
			for a := -h; a <= h; a++ {
				for b := -h; b <= h; b++ {
					idx = idx*states + int(g.At(i+a, j+b))
				}
			}
			out[i*size+j] = r.At(idx)
		}
	}
	return out
}

// Random returns a deterministic row-major grid of uniform samples.
func Random(size int, states uint8, seed int64) []uint8 {
	cells := make([]uint8, size*size)
	pkgcore.FillUniform(pkgcore.NewRNG(seed).Source(), cells, states)
	return cells
}

// LifeStep advances a two-state row-major torus by one Game of Life
// generation by counting live neighbors. It uses no rule table, so it checks
// the table engines independently of rule.GameOfLife.
func LifeStep(cells []uint8, size int) []uint8 {
	out := make([]uint8, len(cells))
	wrap := func(k int) int { return (k%size + size) % size }
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			live := 0
			for a := i - 1; a <= i+1; a++ {
				for b := j - 1; b <= j+1; b++ {
					live += int(cells[wrap(a)*size+wrap(b)])
				}
			}
			self := cells[i*size+j]
			live -= int(self)
			if live == 3 || (live == 2 && self == 1) {
				out[i*size+j] = 1
			}
		}
	}
	return out
}
