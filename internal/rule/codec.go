package rule

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/juju/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

const (
	// maxInferredStates is the exclusive upper bound of the state counts
	// tried when inferring a table shape from its length.
	maxInferredStates = 30
	digitBase         = '0'
)

// ErrUnencodable reports a rule whose state count the file format cannot represent.
const ErrUnencodable = errors.ConstError("rule cannot be encoded")

// Encode writes the table as zlib-compressed ASCII digits, one byte per
// entry in index order.
func (t *Table) Encode(w io.Writer) error {
	if t.states >= maxInferredStates {
		return errors.Annotatef(ErrUnencodable, "%d states", t.states)
	}
	out := make([]byte, len(t.table))
	for i, v := range t.table {
		out[i] = v + digitBase
	}
	zw := zlib.NewWriter(w)
	if _, err := zw.Write(out); err != nil {
		zw.Close()
		return errors.Trace(err)
	}
	return errors.Trace(zw.Close())
}

// Decode reads a table written by Encode. Both zlib and gzip containers are
// accepted; the gzip magic bytes select the gzip reader. The number of states
// and the horizon are inferred from the number of entries.
func Decode(r io.Reader) (*Table, error) {
	br := bufio.NewReader(r)
	zr, err := openContainer(br)
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	raw, err := io.ReadAll(io.LimitReader(zr, MaxTableLen+1))
	if err != nil {
		return nil, &FormatError{Msg: "decompress", Err: err}
	}
	if len(raw) > MaxTableLen {
		return nil, errors.Annotatef(ErrRuleTooLarge, "more than %d entries", MaxTableLen)
	}
	horizon, states, ok := InferShape(len(raw))
	if !ok {
		return nil, &FormatError{Msg: fmt.Sprintf("no neighborhood shape has %d entries", len(raw))}
	}
	for i, b := range raw {
		if b < digitBase || b-digitBase >= states {
			return nil, &FormatError{Msg: fmt.Sprintf("entry %d is %q, want a state below %d", i, b, states)}
		}
		raw[i] = b - digitBase
	}
	t, err := New(horizon, states, raw)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return t, nil
}

func openContainer(br *bufio.Reader) (io.ReadCloser, error) {
	magic, err := br.Peek(2)
	if err != nil {
		return nil, &FormatError{Msg: "read header", Err: err}
	}
	if magic[0] == 0x1f && magic[1] == 0x8b {
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, &FormatError{Msg: "gzip header", Err: err}
		}
		return gr, nil
	}
	zr, err := zlib.NewReader(br)
	if err != nil {
		return nil, &FormatError{Msg: "zlib header", Err: err}
	}
	return zr, nil
}

// InferShape finds the first state count in [2, 30) and odd neighborhood
// side whose table length is n. Distinct shapes can share a length; the
// smallest state count wins.
func InferShape(n int) (horizon int, states uint8, ok bool) {
	if n < MinStates {
		return 0, 0, false
	}
	for s := MinStates; s < maxInferredStates; s++ {
		d, exact := exactLog(n, s)
		if !exact {
			continue
		}
		side := isqrt(d)
		if side*side != d || side%2 == 0 {
			continue
		}
		return (side - 1) / 2, uint8(s), true
	}
	return 0, 0, false
}

// exactLog returns d with base^d == n when such an integer exists.
func exactLog(n, base int) (int, bool) {
	d, v := 0, 1
	for v < n {
		v *= base
		d++
	}
	return d, v == n
}

func isqrt(n int) int {
	r := 0
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}

// ReadFile loads a rule from path.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: err}
	}
	defer f.Close()
	t, err := Decode(f)
	if err != nil {
		return nil, errors.Annotatef(err, "reading %s", path)
	}
	return t, nil
}

// WriteFile stores the rule at path, replacing any existing file.
func WriteFile(path string, t *Table) error {
	f, err := os.Create(path)
	if err != nil {
		return &FileError{Path: path, Err: err}
	}
	if err := t.Encode(f); err != nil {
		f.Close()
		return errors.Annotatef(err, "writing %s", path)
	}
	if err := f.Close(); err != nil {
		return &FileError{Path: path, Err: err}
	}
	return nil
}
