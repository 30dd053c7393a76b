package render

import "image/color"

// FillRGBA converts cell values into RGBA pixels using a palette. States
// beyond the end of the palette use its last color. When the palette is
// empty the buffer is cleared to transparent black.
func FillRGBA(buf []byte, cells []uint8, palette color.Palette) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	rgba := make([][4]uint8, len(palette))
	for k, c := range palette {
		r, g, b, a := c.RGBA()
		rgba[k] = [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
	}
	last := len(rgba) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		copy(buf[i*4:i*4+4], rgba[idx][:])
	}
}
