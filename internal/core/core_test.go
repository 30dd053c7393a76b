package core_test

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"tiled-ca/internal/core"
	"tiled-ca/internal/rule"
	_ "tiled-ca/internal/sims/flat"
	_ "tiled-ca/internal/sims/tiled"
)

func TestByteGridWraps(t *testing.T) {
	c := qt.New(t)
	g := core.NewByteGrid(3)
	copy(g.Cells(), []uint8{0, 1, 2, 3, 4, 5, 6, 7, 8})
	c.Assert(g.At(-1, -1), qt.Equals, uint8(8))
	c.Assert(g.At(3, 4), qt.Equals, uint8(1))
	c.Assert(g.At(-4, 2), qt.Equals, uint8(8))
	c.Assert(g.Index(2, 1), qt.Equals, 7)
	g.Fill(9)
	c.Assert(g.Cells(), qt.DeepEquals, []uint8{9, 9, 9, 9, 9, 9, 9, 9, 9})
}

func TestDescribe(t *testing.T) {
	c := qt.New(t)
	f, ok := core.Lookup("tiled")
	c.Assert(ok, qt.IsTrue)
	e, err := f(core.Config{Size: 8, TileSide: 5}, rule.GameOfLife())
	c.Assert(err, qt.IsNil)
	params := core.Describe(e, rule.GameOfLife())
	c.Assert(core.KeyValues(params), qt.DeepEquals, []any{
		"engine", "tiled",
		"size", "8",
		"states", "2",
		"horizon", "1",
		"rule_len", "512",
		"tiles", "2",
	})

	f, _ = core.Lookup("flat")
	e, err = f(core.Config{Size: 8}, rule.GameOfLife())
	c.Assert(err, qt.IsNil)
	c.Assert(core.Describe(e, nil), qt.HasLen, 3)
}

func TestLookupUnknown(t *testing.T) {
	c := qt.New(t)
	_, ok := core.Lookup("hex")
	c.Assert(ok, qt.IsFalse)
	c.Assert(core.Engines(), qt.DeepEquals, []string{"flat", "tiled"})
}

func TestConfigLogDiscardsByDefault(t *testing.T) {
	c := qt.New(t)
	c.Assert(core.Config{}.Log(), qt.IsNotNil)
}

func TestFixedStepDue(t *testing.T) {
	c := qt.New(t)
	fs := core.NewFixedStep(10)
	c.Assert(fs.Rate(), qt.Equals, 10)
	fs.SetRate(0)
	c.Assert(fs.Rate(), qt.Equals, 60)
	fs.SetRate(10)
	time.Sleep(250 * time.Millisecond)
	n := fs.Due(100)
	c.Assert(n >= 2, qt.IsTrue, qt.Commentf("due %d", n))
	c.Assert(fs.Due(0), qt.Equals, 0)
}
