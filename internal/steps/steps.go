// Package steps turns an engine into a pull-based sequence of snapshots.
package steps

import (
	"context"

	"github.com/juju/errors"

	"tiled-ca/internal/core"
)

// Options controls the snapshot sequence.
type Options struct {
	// Frames bounds the number of snapshots. Zero means unbounded.
	Frames int
	// Skip is the number of updates run after each snapshot.
	Skip int
	// Scale duplicates every cell into a Scale x Scale block when above one.
	Scale int
}

// Iterator yields snapshots of an engine. It runs on the caller's goroutine
// and may be abandoned after any call to Next.
type Iterator struct {
	engine core.Engine
	opts   Options
	count  int
	raw    []uint8
}

// New returns an iterator over e. Negative options are rejected.
func New(e core.Engine, opts Options) (*Iterator, error) {
	if e == nil {
		return nil, errors.NotValidf("nil engine")
	}
	if opts.Frames < 0 || opts.Skip < 0 || opts.Scale < 0 {
		return nil, errors.NotValidf("frames %d, skip %d, scale %d", opts.Frames, opts.Skip, opts.Scale)
	}
	return &Iterator{engine: e, opts: opts}, nil
}

// Size returns the side length of the yielded snapshots.
func (it *Iterator) Size() int {
	return it.engine.Size() * it.scale()
}

// Frames returns the snapshot bound, zero when unbounded.
func (it *Iterator) Frames() int { return it.opts.Frames }

// Count returns the number of snapshots yielded so far.
func (it *Iterator) Count() int { return it.count }

func (it *Iterator) scale() int {
	if it.opts.Scale < 1 {
		return 1
	}
	return it.opts.Scale
}

// Next returns a fresh copy of the current grid, then advances the engine
// by Skip updates. It reports false once Frames snapshots have been taken.
func (it *Iterator) Next() ([]uint8, bool) {
	if it.opts.Frames > 0 && it.count >= it.opts.Frames {
		return nil, false
	}
	it.raw = it.engine.Snapshot(it.raw)
	var out []uint8
	if s := it.scale(); s > 1 {
		out = Upscale(it.raw, it.engine.Size(), s)
	} else {
		out = append([]uint8(nil), it.raw...)
	}
	for i := 0; i < it.opts.Skip; i++ {
		it.engine.Update()
	}
	it.count++
	return out, true
}

// Each calls fn with every snapshot until the sequence ends, fn fails or
// ctx is done. Cancellation is checked between snapshots.
func (it *Iterator) Each(ctx context.Context, fn func(frame int, cells []uint8) error) error {
	for {
		if err := ctx.Err(); err != nil {
			return errors.Trace(err)
		}
		frame := it.count
		cells, ok := it.Next()
		if !ok {
			return nil
		}
		if err := fn(frame, cells); err != nil {
			return errors.Annotatef(err, "frame %d", frame)
		}
	}
}

// Upscale duplicates each cell of a row-major size*size grid into a
// scale*scale block.
func Upscale(cells []uint8, size, scale int) []uint8 {
	scaled := size * scale
	out := make([]uint8, scaled*scaled)
	for i := 0; i < scaled; i++ {
		src := cells[(i/scale)*size : (i/scale+1)*size]
		row := out[i*scaled : (i+1)*scaled]
		for j := range row {
			row[j] = src[j/scale]
		}
	}
	return out
}
