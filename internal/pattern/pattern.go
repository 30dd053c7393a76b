// Package pattern reads starting patterns and stamps them onto grids.
//
// A pattern file is line oriented. A line starting with '#' toggles the
// pattern body. Outside the body, N=<states> declares the number of states
// the pattern needs and BG=<state> the background that fills the rest of the
// grid; other lines are ignored. Inside the body every character is the
// digit of one cell.
package pattern

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/juju/errors"

	"tiled-ca/internal/core"
)

// MaxLineLen bounds the length of one pattern line.
const MaxLineLen = 1 << 20

// Pattern is a parsed pattern file.
type Pattern struct {
	// States is the declared number of states, or zero if undeclared.
	States     uint8
	Background uint8
	Rows       [][]uint8
}

// Height returns the number of body rows.
func (p *Pattern) Height() int { return len(p.Rows) }

// Width returns the length of the longest body row.
func (p *Pattern) Width() int {
	w := 0
	for _, row := range p.Rows {
		w = max(w, len(row))
	}
	return w
}

// Parse reads a pattern from r.
func Parse(r io.Reader) (*Pattern, error) {
	p := &Pattern{}
	body := false
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineLen)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		switch {
		case strings.HasPrefix(text, "#"):
			body = !body
		case body:
			row := make([]uint8, len(text))
			for j := 0; j < len(text); j++ {
				ch := text[j]
				if ch < '0' || ch > '9' {
					return nil, &FormatError{Line: line, Msg: strconv.Quote(string(ch)) + " is not a cell digit"}
				}
				row[j] = ch - '0'
			}
			p.Rows = append(p.Rows, row)
		default:
			key, value, ok := strings.Cut(text, "=")
			if !ok {
				continue
			}
			var dst *uint8
			switch strings.TrimSpace(key) {
			case "N":
				dst = &p.States
			case "BG":
				dst = &p.Background
			default:
				continue
			}
			v, err := strconv.ParseUint(strings.TrimSpace(value), 10, 8)
			if err != nil {
				return nil, &FormatError{Line: line, Msg: "bad " + strings.TrimSpace(key) + " value", Err: err}
			}
			*dst = uint8(v)
		}
	}
	if err := sc.Err(); err != nil {
		if err == bufio.ErrTooLong {
			return nil, &FormatError{Line: line + 1, Msg: "line too long", Err: err}
		}
		return nil, errors.Trace(err)
	}
	return p, nil
}

// ReadFile parses the pattern file at path.
func ReadFile(path string) (*Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	defer f.Close()
	p, err := Parse(f)
	if err != nil {
		if _, ok := err.(*FormatError); ok {
			return nil, errors.Annotatef(err, "%s", path)
		}
		return nil, &FileError{Path: path, Err: errors.Cause(err)}
	}
	return p, nil
}

// Apply fills g with the background and overlays the pattern centered on
// the grid. Pattern cells that fall outside the grid are dropped.
func (p *Pattern) Apply(g *core.ByteGrid, states uint8) error {
	if p.States > states {
		return errors.NotValidf("pattern of %d states on a %d state grid", p.States, states)
	}
	if p.Background >= states {
		return errors.NotValidf("background %d with %d states", p.Background, states)
	}
	for i, row := range p.Rows {
		for j, v := range row {
			if v >= states {
				return errors.NotValidf("pattern cell (%d,%d) state %d with %d states", i, j, v, states)
			}
		}
	}

	g.Fill(p.Background)
	size := g.Size
	top := size/2 - p.Height()/2
	left := size/2 - p.Width()/2
	cells := g.Cells()
	for i, row := range p.Rows {
		gi := top + i
		if gi < 0 || gi >= size {
			continue
		}
		for j, v := range row {
			gj := left + j
			if gj < 0 || gj >= size {
				continue
			}
			cells[g.Index(gi, gj)] = v
		}
	}
	return nil
}
