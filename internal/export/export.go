// Package export writes snapshot sequences as animated GIF files.
package export

import (
	"context"
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/juju/errors"

	"tiled-ca/internal/render"
	"tiled-ca/internal/steps"
)

// DefaultDelay is the frame delay in hundredths of a second.
const DefaultDelay = 10

// maxPalette is the largest color table a GIF frame can carry.
const maxPalette = 256

// Options controls the GIF output.
type Options struct {
	// States is the number of cell states, which sets the palette size.
	States int
	// Delay between frames in hundredths of a second.
	Delay int
	// Rotate shifts the palette, see render.Palette.
	Rotate int
	// Progress receives a progress bar when non-nil.
	Progress io.Writer
}

// FrameCount returns the number of frames needed to show steps updates
// when skip updates run between frames. A zero skip counts as one.
func FrameCount(steps, skip int) int {
	if skip < 1 {
		skip = 1
	}
	if steps <= 0 {
		return 0
	}
	return (steps + skip - 1) / skip
}

// GIF drains it into an infinitely looping animated GIF written to w. The
// iterator must be bounded. Frames are encoded as they are produced, so
// memory use does not grow with the number of frames.
func GIF(ctx context.Context, w io.Writer, it *steps.Iterator, opts Options) error {
	if it.Frames() == 0 {
		return errors.NotValidf("unbounded snapshot sequence")
	}
	if opts.States < 1 || opts.States > maxPalette {
		return errors.NotValidf("%d states for a GIF palette", opts.States)
	}
	gw, err := newGIFWriter(w, it.Size(), render.Palette(opts.States, opts.Rotate))
	if err != nil {
		return errors.Trace(err)
	}

	var bar *pb.ProgressBar
	if opts.Progress != nil {
		bar = pb.Simple.New(it.Frames()).SetWriter(opts.Progress).Start()
		defer bar.Finish()
	}

	err = it.Each(ctx, func(_ int, cells []uint8) error {
		if err := gw.WriteFrame(cells, opts.Delay); err != nil {
			return errors.Annotate(err, "encode gif")
		}
		if bar != nil {
			bar.Increment()
		}
		return nil
	})
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Annotate(gw.Close(), "encode gif")
}

// WriteFile creates path and writes the GIF into it.
func WriteFile(ctx context.Context, path string, it *steps.Iterator, opts Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = errors.Trace(cerr)
		}
	}()
	return errors.Annotatef(GIF(ctx, f, it, opts), "write %s", path)
}
