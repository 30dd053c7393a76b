package flat

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"tiled-ca/internal/core"
	"tiled-ca/internal/rule"
	"tiled-ca/internal/sims/simtest"
	pkgcore "tiled-ca/pkg/core"
)

func mustRandomRule(c *qt.C, horizon int, states uint8, seed int64) *rule.Table {
	r, err := rule.RandomUniform(horizon, states, pkgcore.NewRNG(seed).Source())
	c.Assert(err, qt.IsNil)
	return r
}

func TestIsolatedCellDies(t *testing.T) {
	c := qt.New(t)
	g, err := New(5, rule.GameOfLife())
	c.Assert(err, qt.IsNil)
	cells := make([]uint8, 25)
	cells[2*5+2] = 1
	c.Assert(g.Load(cells), qt.IsNil)

	g.Update()
	c.Assert(g.Snapshot(nil), qt.DeepEquals, make([]uint8, 25))
}

func TestBlinkerOscillates(t *testing.T) {
	c := qt.New(t)
	g, err := New(5, rule.GameOfLife())
	c.Assert(err, qt.IsNil)
	vertical := make([]uint8, 25)
	vertical[1*5+2], vertical[2*5+2], vertical[3*5+2] = 1, 1, 1
	horizontal := make([]uint8, 25)
	horizontal[2*5+1], horizontal[2*5+2], horizontal[2*5+3] = 1, 1, 1
	c.Assert(g.Load(vertical), qt.IsNil)

	g.Update()
	c.Assert(g.Snapshot(nil), qt.DeepEquals, horizontal)
	g.Update()
	c.Assert(g.Snapshot(nil), qt.DeepEquals, vertical)
}

func TestUpdateTogglesFlop(t *testing.T) {
	c := qt.New(t)
	g, err := New(32, mustRandomRule(c, 1, 2, 3))
	c.Assert(err, qt.IsNil)
	g.RandomInit(pkgcore.NewRNG(1).Source())
	for step := 0; step < 4; step++ {
		before := g.Flop()
		g.Update()
		c.Assert(g.Flop(), qt.Equals, !before)
	}
}

var referenceTests = []struct {
	about   string
	size    int
	horizon int
	states  uint8
}{
	{"life sized", 16, 1, 2},
	{"three states", 13, 1, 3},
	{"radius two", 11, 2, 2},
	{"exact fit", 3, 1, 3},
	{"smaller than neighborhood", 2, 1, 2},
	{"single cell", 1, 1, 2},
	{"radius two on a small torus", 4, 2, 2},
}

func TestMatchesNaiveToroidalLookup(t *testing.T) {
	c := qt.New(t)
	for _, test := range referenceTests {
		c.Run(test.about, func(c *qt.C) {
			r := mustRandomRule(c, test.horizon, test.states, int64(test.size))
			g, err := New(test.size, r)
			c.Assert(err, qt.IsNil)
			cells := simtest.Random(test.size, test.states, 42)
			c.Assert(g.Load(cells), qt.IsNil)
			for step := 0; step < 5; step++ {
				cells = simtest.Step(cells, test.size, r)
				g.Update()
				c.Assert(g.Snapshot(nil), qt.DeepEquals, cells, qt.Commentf("step %d", step+1))
			}
		})
	}
}

func TestLoadValidates(t *testing.T) {
	c := qt.New(t)
	g, err := New(4, rule.GameOfLife())
	c.Assert(err, qt.IsNil)
	c.Assert(g.Load(make([]uint8, 15)), qt.ErrorMatches, `grid of 15 cells for size 4 not valid`)
	cells := make([]uint8, 16)
	cells[5] = 2
	c.Assert(g.Load(cells), qt.ErrorMatches, `cell 5 state 2 with 2 states not valid`)
}

func TestRandomInitStaysInRange(t *testing.T) {
	c := qt.New(t)
	g, err := New(20, mustRandomRule(c, 1, 3, 9))
	c.Assert(err, qt.IsNil)
	g.RandomInit(pkgcore.NewRNG(5).Source())
	seen := map[uint8]bool{}
	for _, v := range g.Cells() {
		c.Assert(v < 3, qt.IsTrue)
		seen[v] = true
	}
	c.Assert(seen, qt.HasLen, 3)
}

func TestNewErrors(t *testing.T) {
	c := qt.New(t)
	_, err := New(0, rule.GameOfLife())
	c.Assert(err, qt.ErrorMatches, `grid size 0 not valid`)
	_, err = New(4, nil)
	c.Assert(err, qt.ErrorMatches, `nil rule not valid`)
}

func TestRegistered(t *testing.T) {
	c := qt.New(t)
	f, ok := core.Lookup("flat")
	c.Assert(ok, qt.IsTrue)
	e, err := f(core.Config{Size: 8}, rule.GameOfLife())
	c.Assert(err, qt.IsNil)
	c.Assert(e.Name(), qt.Equals, "flat")
	c.Assert(e.Size(), qt.Equals, 8)
}
