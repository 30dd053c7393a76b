//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter keeps one RGBA image in sync with square grid snapshots.
type GridPainter struct {
	size    int
	palette color.Palette
	img     *ebiten.Image
	buf     []byte
}

// NewGridPainter allocates a painter for a size*size grid.
func NewGridPainter(size int, palette color.Palette) *GridPainter {
	return &GridPainter{
		size:    size,
		palette: palette,
		img:     ebiten.NewImage(size, size),
		buf:     make([]byte, 4*size*size),
	}
}

// SetPalette replaces the colors used by later calls to Blit.
func (gp *GridPainter) SetPalette(p color.Palette) { gp.palette = p }

// Blit uploads the provided cells into the painter image and draws it.
func (gp *GridPainter) Blit(dst *ebiten.Image, cells []uint8, scale int) {
	if len(cells) != gp.size*gp.size {
		return
	}
	FillRGBA(gp.buf, cells, gp.palette)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	dst.DrawImage(gp.img, op)
}

// Size returns the side of the underlying image.
func (gp *GridPainter) Size() int { return gp.size }
