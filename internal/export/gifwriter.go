package export

import (
	"bufio"
	"compress/lzw"
	"encoding/binary"
	"image/color"
	"io"

	"github.com/juju/errors"
)

// gifWriter encodes an animated GIF one frame at a time. All frames share
// the global color table, so only the frame being written is held in memory.
type gifWriter struct {
	w         *bufio.Writer
	size      int
	tableBits int // the global color table holds 1<<tableBits entries
	litWidth  int
}

// newGIFWriter writes the header, global color table and infinite loop
// extension for size x size frames.
func newGIFWriter(w io.Writer, size int, palette color.Palette) (*gifWriter, error) {
	if size < 1 || size > 0xffff {
		return nil, errors.NotValidf("GIF side %d", size)
	}
	if len(palette) < 1 || len(palette) > maxPalette {
		return nil, errors.NotValidf("palette of %d colors", len(palette))
	}
	bits := 1
	for 1<<bits < len(palette) {
		bits++
	}
	g := &gifWriter{
		w:         bufio.NewWriter(w),
		size:      size,
		tableBits: bits,
		litWidth:  max(bits, 2),
	}

	header := []byte("GIF89a")
	header = binary.LittleEndian.AppendUint16(header, uint16(size))
	header = binary.LittleEndian.AppendUint16(header, uint16(size))
	// Global table present, size field 2^(n+1).
	header = append(header, 0x80|byte(bits-1), 0, 0)
	for k := 0; k < 1<<bits; k++ {
		var r, gr, b uint32
		if k < len(palette) {
			r, gr, b, _ = palette[k].RGBA()
		}
		header = append(header, byte(r>>8), byte(gr>>8), byte(b>>8))
	}
	// NETSCAPE2.0 application extension, loop count 0 repeats forever.
	header = append(header, 0x21, 0xff, 0x0b)
	header = append(header, "NETSCAPE2.0"...)
	header = append(header, 0x03, 0x01, 0x00, 0x00, 0x00)
	if _, err := g.w.Write(header); err != nil {
		return nil, errors.Trace(err)
	}
	return g, nil
}

// WriteFrame appends one row-major frame of palette indices.
func (g *gifWriter) WriteFrame(pix []uint8, delay int) error {
	if len(pix) != g.size*g.size {
		return errors.NotValidf("frame of %d pixels for side %d", len(pix), g.size)
	}
	ext := []byte{0x21, 0xf9, 0x04, 0x00}
	ext = binary.LittleEndian.AppendUint16(ext, uint16(delay))
	ext = append(ext, 0x00, 0x00)
	// Image descriptor at (0, 0) without a local color table.
	ext = append(ext, 0x2c, 0, 0, 0, 0)
	ext = binary.LittleEndian.AppendUint16(ext, uint16(g.size))
	ext = binary.LittleEndian.AppendUint16(ext, uint16(g.size))
	ext = append(ext, 0x00, byte(g.litWidth))
	if _, err := g.w.Write(ext); err != nil {
		return errors.Trace(err)
	}

	blocks := &blockWriter{w: g.w}
	lw := lzw.NewWriter(blocks, lzw.LSB, g.litWidth)
	if _, err := lw.Write(pix); err != nil {
		return errors.Annotate(err, "compress frame")
	}
	if err := lw.Close(); err != nil {
		return errors.Annotate(err, "compress frame")
	}
	if err := blocks.close(); err != nil {
		return errors.Trace(err)
	}
	return nil
}

// Close writes the trailer and flushes buffered output.
func (g *gifWriter) Close() error {
	if err := g.w.WriteByte(0x3b); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(g.w.Flush())
}

// blockWriter splits image data into the length-prefixed sub-blocks of at
// most 255 bytes that GIF requires.
type blockWriter struct {
	w   *bufio.Writer
	buf [256]byte
	n   int
}

func (b *blockWriter) Write(p []byte) (int, error) {
	written := 0
	for len(p) > 0 {
		k := copy(b.buf[1+b.n:], p)
		b.n += k
		p = p[k:]
		written += k
		if b.n == 255 {
			if err := b.flush(); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

func (b *blockWriter) flush() error {
	if b.n == 0 {
		return nil
	}
	b.buf[0] = byte(b.n)
	_, err := b.w.Write(b.buf[:1+b.n])
	b.n = 0
	return err
}

// close flushes the last sub-block and writes the block terminator.
func (b *blockWriter) close() error {
	if err := b.flush(); err != nil {
		return err
	}
	return b.w.WriteByte(0x00)
}
