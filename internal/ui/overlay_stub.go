//go:build !ebiten

package ui

import "hiekkapeli/internal/grid"

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(int, int, int, func() int) *Overlay { return &Overlay{} }

// Update is a no-op in headless builds.
func (o *Overlay) Update() bool { return false }

func (o *Overlay) Render(grid.Frame) error { return nil }

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
