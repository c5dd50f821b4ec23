package sink

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"hiekkapeli/internal/grid"
	"hiekkapeli/internal/tile"
)

// Terminal draws frames onto a tcell screen, coloring every glyph with the
// tile's texel. Cells outside the screen are clipped.
type Terminal struct {
	screen tcell.Screen
}

// NewTerminal initialises the screen and takes ownership of it; Close
// finalises it.
func NewTerminal(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal sink: %w", err)
	}
	screen.HideCursor()
	screen.Clear()
	return &Terminal{screen: screen}, nil
}

// Render copies the frame onto the screen and shows it.
func (t *Terminal) Render(f grid.Frame) error {
	sw, sh := t.screen.Size()
	w, h := min(sw, f.Width()), min(sh, f.Height())
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tl := f.At(x, y)
			t.screen.SetContent(x, y, tl.Glyph(), nil, styleFor(tl))
		}
	}
	t.screen.Show()
	return nil
}

func styleFor(t tile.Tile) tcell.Style {
	if t.IsAir() {
		return tcell.StyleDefault
	}
	c := t.Texel()
	return tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))).
		Bold(t.IsSand())
}

// Listen blocks reading terminal events and calls stop when the user presses
// Escape, q or Ctrl-C. It returns once stop was called or the screen was
// finalised. Run it on its own goroutine.
func (t *Terminal) Listen(stop func()) {
	for {
		switch ev := t.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			t.screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
				(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
				stop()
				return
			}
		}
	}
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	t.screen.Fini()
	return nil
}
