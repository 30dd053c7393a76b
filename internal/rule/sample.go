package rule

import (
	"math"
	"math/rand/v2"

	"github.com/juju/errors"
	"gonum.org/v1/gonum/stat/distmv"
)

// DefaultAlpha is the Dirichlet concentration used when none is given.
const DefaultAlpha = 0.2

// SamplingMode selects how random rule tables are drawn.
type SamplingMode string

const (
	// Uniform samples every transition uniformly.
	Uniform SamplingMode = "uniform"
	// Dirichlet samples transitions from one Dirichlet-weighted distribution.
	Dirichlet SamplingMode = "dirichlet"
)

// ParseSamplingMode converts a user supplied name into a SamplingMode.
func ParseSamplingMode(s string) (SamplingMode, error) {
	switch m := SamplingMode(s); m {
	case Uniform, Dirichlet:
		return m, nil
	}
	return "", errors.NotValidf("sampling mode %q", s)
}

// Random draws a table with the given sampling mode.
func Random(mode SamplingMode, horizon int, states uint8, alpha float64, r *rand.Rand) (*Table, error) {
	switch mode {
	case Uniform:
		return RandomUniform(horizon, states, r)
	case Dirichlet:
		return RandomDirichlet(horizon, states, alpha, r)
	}
	return nil, errors.NotValidf("sampling mode %q", mode)
}

// RandomUniform samples every table entry independently from [0, states).
func RandomUniform(horizon int, states uint8, r *rand.Rand) (*Table, error) {
	n, err := TableLen(horizon, states)
	if err != nil {
		return nil, errors.Trace(err)
	}
	table := make([]uint8, n)
	for i := range table {
		table[i] = uint8(r.IntN(int(states)))
	}
	return &Table{horizon: horizon, states: states, table: table}, nil
}

// RandomDirichlet draws one weight vector from a symmetric Dirichlet
// distribution with concentration alpha and samples every entry from it.
// Small alpha concentrates the weight on few states, which gives rules with
// skewed and less noisy transition statistics than uniform sampling.
func RandomDirichlet(horizon int, states uint8, alpha float64, r *rand.Rand) (*Table, error) {
	n, err := TableLen(horizon, states)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if alpha <= 0 || math.IsNaN(alpha) {
		alpha = DefaultAlpha
	}
	thresholds := cumulative(dirichletWeights(int(states), alpha, r))
	table := make([]uint8, n)
	for i := range table {
		table[i] = pickState(thresholds, r.Float64())
	}
	return &Table{horizon: horizon, states: states, table: table}, nil
}

// dirichletWeights samples a weight vector, retrying when every gamma
// variate underflows to zero, which happens for very small alpha.
func dirichletWeights(k int, alpha float64, r *rand.Rand) []float64 {
	alphas := make([]float64, k)
	for i := range alphas {
		alphas[i] = alpha
	}
	dist := distmv.NewDirichlet(alphas, r)
	for attempt := 0; attempt < 8; attempt++ {
		w := dist.Rand(nil)
		if validWeights(w) {
			return w
		}
	}
	for i := range alphas {
		alphas[i] = 1 / float64(k)
	}
	return alphas
}

func validWeights(w []float64) bool {
	for _, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func cumulative(w []float64) []float64 {
	out := make([]float64, len(w))
	acc := 0.0
	for i, v := range w {
		acc += v
		out[i] = acc
	}
	return out
}

// pickState returns k+1 for the highest threshold k that u reaches, or 0.
func pickState(thresholds []float64, u float64) uint8 {
	last := len(thresholds) - 1
	for k := last; k >= 0; k-- {
		if u >= thresholds[k] {
			if k+1 > last {
				return uint8(last)
			}
			return uint8(k + 1)
		}
	}
	return 0
}
