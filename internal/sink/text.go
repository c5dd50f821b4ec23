package sink

import (
	"bufio"
	"fmt"
	"io"
	"unicode/utf8"

	"hiekkapeli/internal/grid"
)

// ansiHome moves the cursor to the top-left corner so frames overwrite each
// other instead of scrolling.
const ansiHome = "\x1b[H"

// Text prints one glyph per cell, one line per row.
type Text struct {
	w    *bufio.Writer
	home bool
	line []byte
}

// NewText returns a text sink writing to w. With home set every frame starts
// with an ANSI cursor-home sequence.
func NewText(w io.Writer, home bool) *Text {
	return &Text{w: bufio.NewWriter(w), home: home}
}

// Render writes the frame and flushes.
func (t *Text) Render(f grid.Frame) error {
	if t.home {
		if _, err := t.w.WriteString(ansiHome); err != nil {
			return fmt.Errorf("text sink: %w", err)
		}
	}
	for y := 0; y < f.Height(); y++ {
		t.line = t.line[:0]
		for x := 0; x < f.Width(); x++ {
			t.line = utf8.AppendRune(t.line, f.At(x, y).Glyph())
		}
		t.line = append(t.line, '\n')
		if _, err := t.w.Write(t.line); err != nil {
			return fmt.Errorf("text sink: %w", err)
		}
	}
	if err := t.w.Flush(); err != nil {
		return fmt.Errorf("text sink: %w", err)
	}
	return nil
}
