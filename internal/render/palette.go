// Package render maps cell states to colors for the GIF exporter and the
// live viewer.
package render

import "image/color"

var (
	low  = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	high = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Palette interpolates linearly from blue to white over states colors.
// rotate shifts which state receives which color: state x gets the color at
// position (x+rotate) mod states.
func Palette(states, rotate int) color.Palette {
	if states <= 0 {
		return nil
	}
	p := make(color.Palette, states)
	if states == 1 {
		p[0] = low
		return p
	}
	for x := range p {
		t := float64((x+rotate)%states) / float64(states-1)
		p[x] = color.RGBA{
			R: lerp(low.R, high.R, t),
			G: lerp(low.G, high.G, t),
			B: lerp(low.B, high.B, t),
			A: 255,
		}
	}
	return p
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(b)*t + float64(a)*(1-t))
}
