//go:build !ebiten

// Package ui draws the status panel of the live viewer.
package ui

import "tiled-ca/internal/core"

// Status is the per-frame state shown below the fixed parameters.
type Status struct {
	Generation int
	Rate       int
	Paused     bool
}

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// PanelWidth is the default width of the HUD panel in pixels.
const PanelWidth = 220

// NewHUD returns nil in the headless build.
func NewHUD([]core.Parameter, int, int) *HUD { return nil }

// Update is a no-op in the headless build.
func (h *HUD) Update(int, Status) {}

// RateDelta always reports zero in the headless build.
func (h *HUD) RateDelta() int { return 0 }

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any) {}
