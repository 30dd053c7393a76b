package sweep

import (
	"context"
	"math"
	"testing"

	qt "github.com/frankban/quicktest"

	"tiled-ca/internal/rule"
)

func TestExpand(t *testing.T) {
	c := qt.New(t)
	got := Expand([]rule.SamplingMode{rule.Uniform, rule.Dirichlet}, []float64{0.2, 0.4}, []uint8{2, 3}, 1, []int64{1})
	// Uniform ignores alpha: 1*2 + 2*2 scenarios.
	c.Assert(got, qt.HasLen, 6)
	c.Assert(got[0], qt.Equals, Scenario{Mode: rule.Uniform, States: 2, Horizon: 1, Seed: 1})
	c.Assert(got[5], qt.Equals, Scenario{Mode: rule.Dirichlet, Alpha: 0.4, States: 3, Horizon: 1, Seed: 1})
}

func TestEvaluate(t *testing.T) {
	c := qt.New(t)
	sc := Scenario{Mode: rule.Uniform, States: 3, Horizon: 1, Seed: 4}
	res, err := Evaluate(sc, 16, 8)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Density, qt.HasLen, 3)
	sum := 0.0
	for _, d := range res.Density {
		sum += d
	}
	c.Assert(math.Abs(sum-1) < 1e-9, qt.IsTrue)
	c.Assert(res.Activity >= 0 && res.Activity <= 1, qt.IsTrue)
	c.Assert(res.Entropy >= 0 && res.Entropy <= math.Log(3)+1e-9, qt.IsTrue)

	again, err := Evaluate(sc, 16, 8)
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.DeepEquals, res)
}

func TestEvaluateReportsRuleErrors(t *testing.T) {
	c := qt.New(t)
	_, err := Evaluate(Scenario{Mode: "poisson", States: 2, Horizon: 1}, 8, 2)
	c.Assert(err, qt.ErrorMatches, `mode=poisson .*: sampling mode "poisson" not valid`)
}

func TestRunSortsByActivity(t *testing.T) {
	c := qt.New(t)
	scenarios := Expand([]rule.SamplingMode{rule.Uniform, rule.Dirichlet}, []float64{0.1, 1}, []uint8{2, 4}, 1, []int64{1, 2})
	results, err := Run(context.Background(), scenarios, Options{Size: 12, Steps: 6, Workers: 3})
	c.Assert(err, qt.IsNil)
	c.Assert(results, qt.HasLen, len(scenarios))
	for i := 1; i < len(results); i++ {
		c.Assert(results[i-1].Activity >= results[i].Activity, qt.IsTrue)
	}
}

func TestRunCancelled(t *testing.T) {
	c := qt.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	scenarios := Expand([]rule.SamplingMode{rule.Uniform}, nil, []uint8{2}, 1, []int64{1, 2, 3})
	_, err := Run(ctx, scenarios, Options{Size: 8, Steps: 2, Workers: 1})
	c.Assert(err, qt.ErrorMatches, `context canceled`)
}
