package rule

// A position transform maps neighborhood cell (r, c) to its image in a
// square of the given side.
type positionTransform func(r, c, side int) (int, int)

func transpose(r, c, _ int) (int, int)        { return c, r }
func rotate90(r, c, side int) (int, int)      { return c, side - 1 - r }
func rotate180(r, c, side int) (int, int)     { return side - 1 - r, side - 1 - c }
func rotate270(r, c, side int) (int, int)     { return side - 1 - c, r }
func reverseRows(r, c, side int) (int, int)   { return side - 1 - r, c }
func reverseCols(r, c, side int) (int, int)   { return r, side - 1 - c }
func antiTranspose(r, c, side int) (int, int) { return side - 1 - c, side - 1 - r }

// dihedral holds the seven non-identity elements of the symmetry group of
// the square.
var dihedral = []positionTransform{
	transpose,
	rotate90,
	rotate180,
	rotate270,
	reverseRows,
	reverseCols,
	antiTranspose,
}

// permuter moves the digits of neighborhood indices without decoding them
// into a grid.
type permuter struct {
	states int
	side   int
	// weight[p] is states^(side*side-1-p), the place value of position p.
	weight []int
}

func newPermuter(states, side int) *permuter {
	n := side * side
	weight := make([]int, n)
	w := 1
	for p := n - 1; p >= 0; p-- {
		weight[p] = w
		w *= states
	}
	return &permuter{states: states, side: side, weight: weight}
}

func (pm *permuter) apply(index int, f positionTransform) int {
	out := 0
	for p := len(pm.weight) - 1; p >= 0 && index > 0; p-- {
		d := index % pm.states
		index /= pm.states
		if d == 0 {
			continue
		}
		r, c := f(p/pm.side, p%pm.side, pm.side)
		out += d * pm.weight[r*pm.side+c]
	}
	return out
}

// Transpose swaps the digit at (i, j) with the digit at (j, i).
func Transpose(index, states, side int) int {
	return newPermuter(states, side).apply(index, transpose)
}

// ReverseRows swaps the digit at (i, j) with the digit at (side-1-i, j).
func ReverseRows(index, states, side int) int {
	return newPermuter(states, side).apply(index, reverseRows)
}

// ReverseCols swaps the digit at (i, j) with the digit at (i, side-1-j).
func ReverseCols(index, states, side int) int {
	return newPermuter(states, side).apply(index, reverseCols)
}

// Symmetrize makes the table invariant under rotations and reflections of
// the neighborhood. Every orbit takes the value of its smallest index.
func (t *Table) Symmetrize() {
	pm := newPermuter(int(t.states), t.Side())
	visited := make([]bool, len(t.table))
	for idx := range t.table {
		if visited[idx] {
			continue
		}
		visited[idx] = true
		v := t.table[idx]
		for _, f := range dihedral {
			img := pm.apply(idx, f)
			t.table[img] = v
			visited[img] = true
		}
	}
}

// IsSymmetric reports whether every neighborhood maps to the same state as
// all of its rotations and reflections.
func (t *Table) IsSymmetric() bool {
	pm := newPermuter(int(t.states), t.Side())
	for idx, v := range t.table {
		for _, f := range dihedral {
			if t.table[pm.apply(idx, f)] != v {
				return false
			}
		}
	}
	return true
}
