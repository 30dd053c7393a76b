package rule

import (
	"sort"

	"github.com/juju/errors"
)

// Brian's Brain cell states.
const (
	brainDead  = 0
	brainOn    = 1
	brainDying = 2
)

type mooreFunc func(center uint8, neighbors []uint8) uint8

var wellKnown = map[string]struct {
	states uint8
	next   mooreFunc
}{
	"life":        {2, lifeLike([]int{3}, []int{2, 3})},
	"highlife":    {2, lifeLike([]int{3, 6}, []int{2, 3})},
	"seeds":       {2, lifeLike([]int{2}, nil)},
	"briansbrain": {3, briansBrain},
}

// WellKnownNames lists the rules available through WellKnown.
func WellKnownNames() []string {
	names := make([]string, 0, len(wellKnown))
	for name := range wellKnown {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WellKnown returns the horizon 1 table of a canonical rule such as "life".
func WellKnown(name string) (*Table, error) {
	wk, ok := wellKnown[name]
	if !ok {
		return nil, errors.NotFoundf("rule %q", name)
	}
	return fromMoore(wk.states, wk.next), nil
}

// GameOfLife returns Conway's Game of Life (B3/S23).
func GameOfLife() *Table {
	t, _ := WellKnown("life")
	return t
}

// fromMoore tabulates a horizon 1 rule given as a function of the center
// cell and its eight neighbors.
func fromMoore(states uint8, next mooreFunc) *Table {
	n, _ := TableLen(1, states)
	table := make([]uint8, n)
	digits := make([]uint8, 9)
	neighbors := make([]uint8, 0, 8)
	for idx := range table {
		v := idx
		for p := len(digits) - 1; p >= 0; p-- {
			digits[p] = uint8(v % int(states))
			v /= int(states)
		}
		neighbors = append(neighbors[:0], digits[:4]...)
		neighbors = append(neighbors, digits[5:]...)
		table[idx] = next(digits[4], neighbors)
	}
	return &Table{horizon: 1, states: states, table: table}
}

func lifeLike(birth, survive []int) mooreFunc {
	var born, stays [9]bool
	for _, n := range birth {
		born[n] = true
	}
	for _, n := range survive {
		stays[n] = true
	}
	return func(center uint8, neighbors []uint8) uint8 {
		alive := 0
		for _, v := range neighbors {
			if v == 1 {
				alive++
			}
		}
		if (center == 1 && stays[alive]) || (center == 0 && born[alive]) {
			return 1
		}
		return 0
	}
}

func briansBrain(center uint8, neighbors []uint8) uint8 {
	switch center {
	case brainOn:
		return brainDying
	case brainDying:
		return brainDead
	}
	on := 0
	for _, v := range neighbors {
		if v == brainOn {
			on++
		}
	}
	if on == 2 {
		return brainOn
	}
	return brainDead
}
