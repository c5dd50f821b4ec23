package render

import (
	"errors"
	"fmt"
)

// ErrSizeMismatch is returned when a frame does not match the target surface.
var ErrSizeMismatch = errors.New("frame size mismatch")

func errSizeMismatch(fw, fh, w, h int) error {
	return fmt.Errorf("%w: frame %dx%d, surface %dx%d", ErrSizeMismatch, fw, fh, w, h)
}
