//go:build ebiten

// Package ui draws the status panel of the live viewer.
package ui

import (
	"image"
	"image/color"
	"strconv"

	"tiled-ca/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Status is the per-frame state shown below the fixed parameters.
type Status struct {
	Generation int
	Rate       int
	Paused     bool
}

// HUD renders the parameter panel to the right of the simulation view.
type HUD struct {
	width  int
	height int
	params []core.Parameter
	status Status
	panel  *ebiten.Image
	pixel  *ebiten.Image

	offsetX   int
	minusRect image.Rectangle
	plusRect  image.Rectangle
	// rateDelta accumulates rate button clicks until the caller reads them.
	rateDelta int
}

// NewHUD constructs a HUD listing params in a panel of the given width.
func NewHUD(params []core.Parameter, width, height int) *HUD {
	if width <= 0 || height <= 0 {
		return nil
	}
	h := &HUD{width: width, height: height, params: params}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	h.panel = ebiten.NewImage(width, height)
	rateTop := controlsTop + len(params)*lineHeight + lineHeight
	h.plusRect = image.Rect(width-panelPadding-buttonSize, rateTop, width-panelPadding, rateTop+buttonSize)
	h.minusRect = h.plusRect.Sub(image.Pt(buttonSize+buttonGap, 0))
	return h
}

// Update stores the latest status and handles clicks on the rate buttons.
func (h *HUD) Update(offsetX int, st Status) {
	if h == nil {
		return
	}
	h.offsetX = offsetX
	h.status = st
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	x, y := ebiten.CursorPosition()
	x -= offsetX
	switch {
	case pointInRect(x, y, h.minusRect):
		h.rateDelta--
	case pointInRect(x, y, h.plusRect):
		h.rateDelta++
	}
}

// RateDelta returns and clears the pending rate button clicks.
func (h *HUD) RateDelta() int {
	if h == nil {
		return 0
	}
	d := h.rateDelta
	h.rateDelta = 0
	return d
}

// Draw paints the panel anchored at offsetX.
func (h *HUD) Draw(screen *ebiten.Image) {
	if h == nil {
		return
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})
	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, "Simulation", face, panelPadding, y, headerColor)

	y = controlsTop
	for _, p := range h.params {
		h.drawRow(p.Label, p.Value, y+labelBaseline, labelColor)
		y += lineHeight
	}
	h.drawRow("Generation", strconv.Itoa(h.status.Generation), y+labelBaseline, labelColor)
	y += lineHeight

	rate := strconv.Itoa(h.status.Rate) + "/s"
	if h.status.Paused {
		rate = "paused"
	}
	text.Draw(h.panel, "Rate", face, panelPadding, y+labelBaseline, labelColor)
	bounds := text.BoundString(face, rate)
	text.Draw(h.panel, rate, face, h.minusRect.Min.X-buttonGap-bounds.Dx(), y+labelBaseline, labelColor)
	h.drawButton(h.minusRect, "-")
	h.drawButton(h.plusRect, "+")

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(h.offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawRow(label, value string, baseline int, c color.Color) {
	face := basicfont.Face7x13
	text.Draw(h.panel, label, face, panelPadding, baseline, c)
	bounds := text.BoundString(face, value)
	text.Draw(h.panel, value, face, h.width-panelPadding-bounds.Dx(), baseline, c)
}

func (h *HUD) drawButton(rect image.Rectangle, label string) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(buttonColor)
	h.panel.DrawImage(h.pixel, op)

	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()+bounds.Dy())/2
	text.Draw(h.panel, label, face, x, y, labelColor)
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}

var (
	headerColor = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	labelColor  = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	buttonColor = color.RGBA{R: 60, G: 60, B: 72, A: 255}
)

const (
	panelPadding   = 12
	lineHeight     = 24
	buttonSize     = 20
	buttonGap      = 6
	headerBaseline = 18
	labelBaseline  = 16
	controlsTop    = panelPadding + headerBaseline + 14
)

// PanelWidth is the default width of the HUD panel in pixels.
const PanelWidth = 220
