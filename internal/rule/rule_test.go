package rule

import (
	"fmt"
	"math/rand/v2"
	"testing"

	qt "github.com/frankban/quicktest"
)

func newRand(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, 0)) }

// encode builds a neighborhood index from row-major digits.
func encode(states int, digits ...int) int {
	idx := 0
	for _, d := range digits {
		idx = idx*states + d
	}
	return idx
}

var tableLenTests = []struct {
	horizon int
	states  uint8
	want    int
}{
	{0, 2, 2},
	{0, 7, 7},
	{1, 2, 512},
	{1, 3, 19683},
	{1, 4, 262144},
	{2, 2, 1 << 25},
}

func TestTableLen(t *testing.T) {
	c := qt.New(t)
	for _, test := range tableLenTests {
		n, err := TableLen(test.horizon, test.states)
		c.Assert(err, qt.IsNil)
		c.Assert(n, qt.Equals, test.want, qt.Commentf("horizon %d states %d", test.horizon, test.states))
	}
}

func TestTableLenErrors(t *testing.T) {
	c := qt.New(t)
	_, err := TableLen(-1, 2)
	c.Assert(err, qt.ErrorIs, ErrInvalidParams)
	_, err = TableLen(1, 1)
	c.Assert(err, qt.ErrorIs, ErrInvalidParams)
	_, err = TableLen(3, 255)
	c.Assert(err, qt.ErrorIs, ErrRuleTooLarge)
}

func TestNewRejectsSizeMismatch(t *testing.T) {
	c := qt.New(t)
	_, err := New(1, 2, make([]uint8, 511))
	c.Assert(err, qt.ErrorIs, ErrRuleSizeMismatch)
	var mismatch *SizeMismatchError
	c.Assert(err, qt.ErrorAs, &mismatch)
	c.Assert(mismatch.Got, qt.Equals, 511)
	c.Assert(mismatch.Want, qt.Equals, 512)

	_, err = New(1, 2, make([]uint8, 513))
	c.Assert(err, qt.ErrorIs, ErrRuleSizeMismatch)
}

func TestNewRejectsOutOfRangeEntries(t *testing.T) {
	c := qt.New(t)
	table := make([]uint8, 512)
	table[17] = 2
	_, err := New(1, 2, table)
	c.Assert(err, qt.ErrorIs, ErrInvalidParams)
}

func TestNewAcceptsValidTable(t *testing.T) {
	c := qt.New(t)
	r, err := New(1, 2, make([]uint8, 512))
	c.Assert(err, qt.IsNil)
	c.Assert(r.Check(), qt.IsNil)
	c.Assert(r.Side(), qt.Equals, 3)
	c.Assert(r.Len(), qt.Equals, 512)
}

func TestRandomUniformLength(t *testing.T) {
	c := qt.New(t)
	for _, test := range tableLenTests[:5] {
		r, err := RandomUniform(test.horizon, test.states, newRand(1))
		c.Assert(err, qt.IsNil)
		c.Assert(r.Len(), qt.Equals, test.want)
		c.Assert(r.Check(), qt.IsNil)
		for _, v := range r.Entries() {
			if v >= test.states {
				c.Fatalf("entry %d out of range for %d states", v, test.states)
			}
		}
	}
}

func TestRandomDirichlet(t *testing.T) {
	c := qt.New(t)
	for _, alpha := range []float64{0, 0.2, 0.4, 5} {
		c.Run(fmt.Sprintf("alpha=%v", alpha), func(c *qt.C) {
			a, err := RandomDirichlet(1, 4, alpha, newRand(7))
			c.Assert(err, qt.IsNil)
			b, err := RandomDirichlet(1, 4, alpha, newRand(7))
			c.Assert(err, qt.IsNil)
			c.Assert(a.Equal(b), qt.IsTrue, qt.Commentf("same seed must give the same rule"))
			c.Assert(a.Check(), qt.IsNil)
			for _, v := range a.Entries() {
				c.Assert(v < 4, qt.IsTrue)
			}
		})
	}
}

func TestDirichletWeights(t *testing.T) {
	c := qt.New(t)
	for _, alpha := range []float64{0.05, 0.2, 1, 10} {
		c.Run(fmt.Sprintf("alpha=%v", alpha), func(c *qt.C) {
			w := dirichletWeights(5, alpha, newRand(3))
			c.Assert(w, qt.HasLen, 5)
			sum := 0.0
			for _, v := range w {
				c.Assert(v >= 0, qt.IsTrue)
				sum += v
			}
			c.Assert(sum > 0.999 && sum < 1.001, qt.IsTrue, qt.Commentf("sum %v", sum))
			c.Assert(dirichletWeights(5, alpha, newRand(3)), qt.DeepEquals, w)
		})
	}
}

func TestPickState(t *testing.T) {
	c := qt.New(t)
	thresholds := []float64{0.25, 0.5, 0.75, 1}
	c.Assert(pickState(thresholds, 0), qt.Equals, uint8(0))
	c.Assert(pickState(thresholds, 0.24), qt.Equals, uint8(0))
	c.Assert(pickState(thresholds, 0.25), qt.Equals, uint8(1))
	c.Assert(pickState(thresholds, 0.6), qt.Equals, uint8(2))
	c.Assert(pickState(thresholds, 0.99), qt.Equals, uint8(3))
	// Rounding can leave the last threshold below one.
	c.Assert(pickState([]float64{0.5, 0.999}, 0.9995), qt.Equals, uint8(1))
}

func TestRandomModes(t *testing.T) {
	c := qt.New(t)
	m, err := ParseSamplingMode("dirichlet")
	c.Assert(err, qt.IsNil)
	c.Assert(m, qt.Equals, Dirichlet)
	_, err = ParseSamplingMode("gaussian")
	c.Assert(err, qt.ErrorMatches, `sampling mode "gaussian" not valid`)

	r, err := Random(Uniform, 1, 3, 0, newRand(2))
	c.Assert(err, qt.IsNil)
	c.Assert(r.States(), qt.Equals, uint8(3))
}

func TestGameOfLifeTransitions(t *testing.T) {
	c := qt.New(t)
	life := GameOfLife()
	c.Assert(life.Horizon(), qt.Equals, 1)
	c.Assert(life.States(), qt.Equals, uint8(2))

	isolated := encode(2, 0, 0, 0, 0, 1, 0, 0, 0, 0)
	c.Assert(life.At(isolated), qt.Equals, uint8(0))
	birth := encode(2, 1, 1, 0, 0, 0, 0, 0, 0, 1)
	c.Assert(life.At(birth), qt.Equals, uint8(1))
	survive := encode(2, 1, 0, 0, 0, 1, 1, 0, 0, 0)
	c.Assert(life.At(survive), qt.Equals, uint8(1))
	crowded := encode(2, 1, 1, 1, 1, 1, 0, 0, 0, 0)
	c.Assert(life.At(crowded), qt.Equals, uint8(0))
}

func TestBriansBrainTransitions(t *testing.T) {
	c := qt.New(t)
	brain, err := WellKnown("briansbrain")
	c.Assert(err, qt.IsNil)
	c.Assert(brain.States(), qt.Equals, uint8(3))
	c.Assert(brain.At(encode(3, 0, 0, 0, 0, 1, 0, 0, 0, 0)), qt.Equals, uint8(brainDying))
	c.Assert(brain.At(encode(3, 0, 0, 0, 0, 2, 0, 0, 0, 0)), qt.Equals, uint8(brainDead))
	c.Assert(brain.At(encode(3, 1, 0, 0, 0, 0, 0, 0, 2, 1)), qt.Equals, uint8(brainOn))
	c.Assert(brain.At(encode(3, 1, 1, 1, 0, 0, 0, 0, 0, 0)), qt.Equals, uint8(brainDead))

	_, err = WellKnown("wireworld")
	c.Assert(err, qt.ErrorMatches, `rule "wireworld" not found`)
	c.Assert(WellKnownNames(), qt.DeepEquals, []string{"briansbrain", "highlife", "life", "seeds"})
}
