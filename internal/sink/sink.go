package sink

import (
	"errors"
	"io"

	"hiekkapeli/internal/grid"
)

// Sink consumes one completed frame per tick. Implementations must not keep a
// reference to the frame after Render returns; the grid reuses its memory on
// the next tick.
type Sink interface {
	Render(f grid.Frame) error
}

// Func adapts a plain function to the Sink interface.
type Func func(f grid.Frame) error

// Render calls fn(f).
func (fn Func) Render(f grid.Frame) error { return fn(f) }

// Discard drops every frame.
var Discard Sink = Func(func(grid.Frame) error { return nil })

type tee []Sink

// Tee fans every frame out to all sinks in order. A failing sink does not
// stop the others; their errors are joined.
func Tee(sinks ...Sink) Sink {
	out := make(tee, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (t tee) Render(f grid.Frame) error {
	var errs []error
	for _, s := range t {
		if err := s.Render(f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every member that implements io.Closer.
func (t tee) Close() error {
	var errs []error
	for _, s := range t {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
