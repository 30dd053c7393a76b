package core

// ByteGrid stores a square 2D grid of byte-sized cell values in row-major order.
type ByteGrid struct {
	Size int
	data []uint8
}

// NewByteGrid allocates a size*size grid.
func NewByteGrid(size int) *ByteGrid {
	if size <= 0 {
		size = 1
	}
	return &ByteGrid{Size: size, data: make([]uint8, size*size)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for row i, column j.
func (g *ByteGrid) Index(i, j int) int { return i*g.Size + j }

// Wrap maps a possibly out-of-range coordinate onto the torus.
func (g *ByteGrid) Wrap(v int) int {
	v %= g.Size
	if v < 0 {
		v += g.Size
	}
	return v
}

// At returns the value at (i, j) with toroidal wrapping.
func (g *ByteGrid) At(i, j int) uint8 {
	return g.data[g.Wrap(i)*g.Size+g.Wrap(j)]
}

// Fill sets every cell to v.
func (g *ByteGrid) Fill(v uint8) {
	for i := range g.data {
		g.data[i] = v
	}
}
