// Package sweep samples many random rules and scores how busy each one
// keeps a random grid, which helps pick sampling parameters.
package sweep

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/juju/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"tiled-ca/internal/rule"
	"tiled-ca/internal/sims/flat"
	pkgcore "tiled-ca/pkg/core"
)

// Scenario is one rule sampling setup.
type Scenario struct {
	Mode    rule.SamplingMode
	Alpha   float64
	States  uint8
	Horizon int
	Seed    int64
}

func (s Scenario) String() string {
	return fmt.Sprintf("mode=%s alpha=%.2f states=%d horizon=%d seed=%d", s.Mode, s.Alpha, s.States, s.Horizon, s.Seed)
}

// Result scores a scenario after running it.
type Result struct {
	Scenario Scenario
	// Activity is the mean fraction of cells that changed per update over
	// the second half of the run.
	Activity float64
	// Entropy is the Shannon entropy in nats of the final state histogram.
	Entropy float64
	// Density holds the final fraction of cells in each state.
	Density []float64
}

// Options sizes each run.
type Options struct {
	Size    int
	Steps   int
	Workers int
}

// Expand builds the cross product of the provided settings.
func Expand(modes []rule.SamplingMode, alphas []float64, states []uint8, horizon int, seeds []int64) []Scenario {
	var out []Scenario
	for _, m := range modes {
		as := alphas
		if m == rule.Uniform {
			as = []float64{0}
		}
		for _, a := range as {
			for _, s := range states {
				for _, seed := range seeds {
					out = append(out, Scenario{Mode: m, Alpha: a, States: s, Horizon: horizon, Seed: seed})
				}
			}
		}
	}
	return out
}

// Evaluate runs one scenario on a flat grid.
func Evaluate(sc Scenario, size, steps int) (Result, error) {
	rng := pkgcore.NewRNG(sc.Seed).Source()
	r, err := rule.Random(sc.Mode, sc.Horizon, sc.States, sc.Alpha, rng)
	if err != nil {
		return Result{}, errors.Annotatef(err, "%s", sc)
	}
	g, err := flat.New(size, r)
	if err != nil {
		return Result{}, errors.Trace(err)
	}
	g.RandomInit(rng)

	var changes []float64
	prev := g.Snapshot(nil)
	var cur []uint8
	for step := 0; step < steps; step++ {
		g.Update()
		cur = g.Snapshot(cur)
		if step >= steps/2 {
			changed := 0
			for i := range cur {
				if cur[i] != prev[i] {
					changed++
				}
			}
			changes = append(changes, float64(changed)/float64(len(cur)))
		}
		prev, cur = cur, prev
	}

	density := make([]float64, sc.States)
	for _, v := range prev {
		density[v]++
	}
	floats.Scale(1/floats.Sum(density), density)

	res := Result{Scenario: sc, Density: density, Entropy: stat.Entropy(density)}
	if len(changes) > 0 {
		res.Activity = stat.Mean(changes, nil)
	}
	return res, nil
}

// Run evaluates every scenario on a pool of workers and returns the results
// sorted by decreasing activity.
func Run(ctx context.Context, scenarios []Scenario, opts Options) ([]Result, error) {
	workers := max(opts.Workers, 1)
	jobs := make(chan Scenario)
	type outcome struct {
		res Result
		err error
	}
	results := make(chan outcome)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				res, err := Evaluate(sc, opts.Size, opts.Steps)
				results <- outcome{res, err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		defer close(jobs)
		for _, sc := range scenarios {
			select {
			case jobs <- sc:
			case <-ctx.Done():
				return
			}
		}
	}()

	var all []Result
	var firstErr error
	for out := range results {
		if out.err != nil {
			if firstErr == nil {
				firstErr = out.err
			}
			continue
		}
		all = append(all, out.res)
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Trace(err)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Activity != all[j].Activity {
			return all[i].Activity > all[j].Activity
		}
		return all[i].Scenario.String() < all[j].Scenario.String()
	})
	return all, nil
}
