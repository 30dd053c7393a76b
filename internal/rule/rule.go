// Package rule implements cellular automaton transition tables indexed by
// an encoded square neighborhood.
//
// A neighborhood of horizon h has side 2h+1. Its cells are read in row-major
// order over the offsets (a, b), a and b in [-h, h], and combined into a
// mixed-radix number in base states with the first cell as the most
// significant digit. That number indexes the table.
package rule

import (
	"slices"

	"github.com/juju/errors"
)

const (
	// MinStates is the smallest supported number of cell states.
	MinStates = 2
	// MaxStates is the largest supported number of cell states.
	MaxStates = 255
	// MaxTableLen bounds the number of entries a table may hold.
	MaxTableLen = 1 << 30
)

// Table is a transition rule: the next state for every neighborhood.
type Table struct {
	horizon int
	states  uint8
	table   []uint8
}

// TableLen returns states^((2h+1)^2), the table length for the given shape.
func TableLen(horizon int, states uint8) (int, error) {
	if horizon < 0 {
		return 0, errors.Annotatef(ErrInvalidParams, "horizon %d", horizon)
	}
	if states < MinStates {
		return 0, errors.Annotatef(ErrInvalidParams, "%d states", states)
	}
	side := 2*horizon + 1
	n := 1
	for k := 0; k < side*side; k++ {
		if n > MaxTableLen/int(states) {
			return 0, errors.Annotatef(ErrRuleTooLarge, "horizon %d with %d states", horizon, states)
		}
		n *= int(states)
	}
	return n, nil
}

// New validates and wraps a literal table. The table slice is owned by the
// returned rule afterwards.
func New(horizon int, states uint8, table []uint8) (*Table, error) {
	want, err := TableLen(horizon, states)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(table) != want {
		return nil, &SizeMismatchError{Got: len(table), Want: want}
	}
	t := &Table{horizon: horizon, states: states, table: table}
	if err := t.checkEntries(); err != nil {
		return nil, err
	}
	return t, nil
}

// Check verifies the length invariant.
func (t *Table) Check() error {
	want, err := TableLen(t.horizon, t.states)
	if err != nil {
		return errors.Trace(err)
	}
	if len(t.table) != want {
		return &SizeMismatchError{Got: len(t.table), Want: want}
	}
	return nil
}

func (t *Table) checkEntries() error {
	for i, v := range t.table {
		if v >= t.states {
			return errors.Annotatef(ErrInvalidParams, "entry %d has state %d, rule has %d states", i, v, t.states)
		}
	}
	return nil
}

// Horizon returns the neighborhood radius.
func (t *Table) Horizon() int { return t.horizon }

// Side returns the neighborhood side length, 2*horizon+1.
func (t *Table) Side() int { return 2*t.horizon + 1 }

// States returns the number of cell states.
func (t *Table) States() uint8 { return t.states }

// Len returns the number of table entries.
func (t *Table) Len() int { return len(t.table) }

// At returns the next state for the neighborhood encoded as index.
func (t *Table) At(index int) uint8 { return t.table[index] }

// Entries exposes the table in index order. Callers must not modify it.
func (t *Table) Entries() []uint8 { return t.table }

// Clone returns an independent copy of the rule.
func (t *Table) Clone() *Table {
	return &Table{horizon: t.horizon, states: t.states, table: slices.Clone(t.table)}
}

// Equal reports whether both rules have the same shape and entries.
func (t *Table) Equal(o *Table) bool {
	return t.horizon == o.horizon && t.states == o.states && slices.Equal(t.table, o.table)
}
