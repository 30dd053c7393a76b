package rule

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

var transformTests = []struct {
	about  string
	f      func(index, states, side int) int
	states int
	side   int
	index  int
	want   int
}{
	{"transpose fixes the corner", Transpose, 2, 3, 256, 256},
	{"transpose moves (0,1) to (1,0)", Transpose, 2, 3, 128, 32},
	{"transpose mixed digits", Transpose, 3, 3, 10935, 7047},
	{"reverse rows moves (0,1) to (2,1)", ReverseRows, 2, 3, 128, 2},
	{"reverse rows mixed digits", ReverseRows, 3, 3, 10935, 15},
	{"reverse cols fixes the middle column", ReverseCols, 2, 3, 128, 128},
	{"reverse cols moves (0,0) to (0,2)", ReverseCols, 2, 3, 256, 64},
	{"reverse cols mixed digits", ReverseCols, 3, 3, 10935, 5103},
	{"single cell neighborhood", Transpose, 5, 1, 4, 4},
	{"zero is fixed", ReverseRows, 4, 5, 0, 0},
}

func TestPositionTransforms(t *testing.T) {
	c := qt.New(t)
	for _, test := range transformTests {
		c.Run(test.about, func(c *qt.C) {
			c.Assert(test.f(test.index, test.states, test.side), qt.Equals, test.want)
		})
	}
}

func TestTransformsAreInvolutions(t *testing.T) {
	c := qt.New(t)
	for idx := 0; idx < 19683; idx += 37 {
		c.Assert(Transpose(Transpose(idx, 3, 3), 3, 3), qt.Equals, idx)
		c.Assert(ReverseRows(ReverseRows(idx, 3, 3), 3, 3), qt.Equals, idx)
		c.Assert(ReverseCols(ReverseCols(idx, 3, 3), 3, 3), qt.Equals, idx)
	}
}

func TestRotationsCompose(t *testing.T) {
	c := qt.New(t)
	pm := newPermuter(3, 5)
	for idx := 1; idx < 1_000_000; idx += 9973 {
		r := pm.apply(pm.apply(idx, rotate90), rotate90)
		c.Assert(r, qt.Equals, pm.apply(idx, rotate180))
		c.Assert(pm.apply(r, rotate90), qt.Equals, pm.apply(idx, rotate270))
		c.Assert(pm.apply(pm.apply(idx, transpose), rotate180), qt.Equals, pm.apply(idx, antiTranspose))
	}
}

func TestSymmetrizeIdempotent(t *testing.T) {
	c := qt.New(t)
	for _, states := range []uint8{2, 3, 4} {
		r, err := RandomUniform(1, states, newRand(uint64(states)))
		c.Assert(err, qt.IsNil)
		once := r.Clone()
		once.Symmetrize()
		c.Assert(once.IsSymmetric(), qt.IsTrue)
		twice := once.Clone()
		twice.Symmetrize()
		c.Assert(twice.Equal(once), qt.IsTrue, qt.Commentf("%d states", states))
	}
}

func TestSymmetrizeKeepsInvariantRules(t *testing.T) {
	c := qt.New(t)
	for _, name := range WellKnownNames() {
		r, err := WellKnown(name)
		c.Assert(err, qt.IsNil)
		c.Assert(r.IsSymmetric(), qt.IsTrue, qt.Commentf("%s", name))
		sym := r.Clone()
		sym.Symmetrize()
		c.Assert(sym.Equal(r), qt.IsTrue, qt.Commentf("%s", name))
	}
}

func TestSymmetrizeCopiesSmallestIndex(t *testing.T) {
	c := qt.New(t)
	table := make([]uint8, 512)
	// (0,1) set, index 128; its orbit holds 2, 8, 32 and 128.
	table[128] = 1
	r, err := New(1, 2, table)
	c.Assert(err, qt.IsNil)
	r.Symmetrize()
	for _, idx := range []int{2, 8, 32, 128} {
		c.Assert(r.At(idx), qt.Equals, uint8(0), qt.Commentf("index %d", idx))
	}

	table = make([]uint8, 512)
	table[2] = 1
	r, err = New(1, 2, table)
	c.Assert(err, qt.IsNil)
	r.Symmetrize()
	for _, idx := range []int{2, 8, 32, 128} {
		c.Assert(r.At(idx), qt.Equals, uint8(1), qt.Commentf("index %d", idx))
	}
	c.Assert(r.At(256), qt.Equals, uint8(0))
}
